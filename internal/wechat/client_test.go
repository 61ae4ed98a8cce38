package wechat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{AppID: "wx-real", Secret: "s3cret", BaseURL: srv.URL, Timeout: time.Second}, nil)
}

func TestExchangeSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sns/jscode2session", r.URL.Path)
		assert.Equal(t, "wx-real", r.URL.Query().Get("appid"))
		assert.Equal(t, "the-code", r.URL.Query().Get("js_code"))
		assert.Equal(t, "authorization_code", r.URL.Query().Get("grant_type"))
		_, _ = w.Write([]byte(`{"openid":"open-123","session_key":"k"}`))
	})

	session, err := client.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "open-123", session.OpenID)
}

func TestExchangeClassifiesErrcodes(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"app id":    {`{"errcode":40013,"errmsg":"invalid appid"}`, ErrInvalidAppID},
		"secret":    {`{"errcode":40125,"errmsg":"invalid appsecret"}`, ErrInvalidSecret},
		"code used": {`{"errcode":40163,"errmsg":"code been used"}`, ErrCodeUsed},
		"no openid": {`{"session_key":"k"}`, ErrMissingOpenID},
		"bad json":  {`not json`, ErrInvalidPayload},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := client.Exchange(context.Background(), "c")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExchangeGenericErrcode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errcode":45011,"errmsg":"api minute-quota reach limit"}`))
	})
	_, err := client.Exchange(context.Background(), "c")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 45011, apiErr.Code)
}

func TestExchangeRejectsPlaceholderCredentials(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{AppID: placeholderAppID, Secret: "real"},
		{AppID: "wx-real", Secret: placeholderSecret},
	} {
		_, err := New(cfg, nil).Exchange(context.Background(), "c")
		assert.ErrorIs(t, err, ErrNotConfigured)
	}
}

func TestExchangeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	client := New(Config{AppID: "wx-real", Secret: "s", BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)

	_, err := client.Exchange(context.Background(), "c")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestExchangeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()
	client := New(Config{AppID: "wx-real", Secret: "s", BaseURL: base, Timeout: time.Second}, nil)

	_, err := client.Exchange(context.Background(), "c")
	assert.ErrorIs(t, err, ErrUnreachable)
}
