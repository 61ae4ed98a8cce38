// Package wechat exchanges mini-program login codes for open ids.
package wechat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mini-shop/internal/telemetry"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Credentials shipped in sample configs; treated the same as missing ones.
const (
	placeholderAppID  = "wx1234567890abcdef"
	placeholderSecret = "7a1ca9ee72c6c0fa39f0234d620d2c75"
)

var (
	ErrNotConfigured  = errors.New("wechat: app id or secret not configured")
	ErrInvalidAppID   = errors.New("wechat: invalid app id")
	ErrInvalidSecret  = errors.New("wechat: invalid app secret")
	ErrCodeUsed       = errors.New("wechat: login code already used")
	ErrMissingOpenID  = errors.New("wechat: response carried no openid")
	ErrTimeout        = errors.New("wechat: request timed out")
	ErrUnreachable    = errors.New("wechat: server unreachable")
	ErrInvalidPayload = errors.New("wechat: malformed response")
)

// APIError is an errcode returned by the provider that has no dedicated sentinel.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wechat: errcode %d: %s", e.Code, e.Message)
}

// Session is the result of a successful code exchange.
type Session struct {
	OpenID     string `json:"openid"`
	UnionID    string `json:"unionid,omitempty"`
	SessionKey string `json:"-"`
}

type Config struct {
	AppID   string
	Secret  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New builds a client whose transport is traced with OpenTelemetry.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.weixin.qq.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: telemetry.OrNop(logger).Named("wechat"),
	}
}

type sessionResponse struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// Exchange trades a login code for the user's open id.
func (c *Client) Exchange(ctx context.Context, code string) (*Session, error) {
	if c.cfg.AppID == "" || c.cfg.AppID == placeholderAppID || c.cfg.Secret == "" || c.cfg.Secret == placeholderSecret {
		return nil, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("appid", c.cfg.AppID)
	q.Set("secret", c.cfg.Secret)
	q.Set("js_code", code)
	q.Set("grant_type", "authorization_code")
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/sns/jscode2session?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("wechat: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("jscode2session failed", zap.Error(err))
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("jscode2session decode", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if body.ErrCode != 0 {
		c.logger.Warn("jscode2session errcode", zap.Int("errcode", body.ErrCode), zap.String("errmsg", body.ErrMsg))
		return nil, classifyCode(body.ErrCode, body.ErrMsg)
	}
	if body.OpenID == "" {
		return nil, ErrMissingOpenID
	}
	c.logger.Debug("jscode2session ok")
	return &Session{OpenID: body.OpenID, UnionID: body.UnionID, SessionKey: body.SessionKey}, nil
}

func classifyCode(code int, msg string) error {
	switch code {
	case 40013:
		return ErrInvalidAppID
	case 40125:
		return ErrInvalidSecret
	case 40163:
		return ErrCodeUsed
	}
	return &APIError{Code: code, Message: msg}
}

func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
