package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mini-shop/internal/domain"
	userrepo "mini-shop/internal/repository/user"
	"mini-shop/internal/telemetry"
	"mini-shop/internal/wechat"

	"go.uber.org/zap"
)

type userStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByOpenID(ctx context.Context, openID string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in userrepo.ProfileUpdate) (*domain.User, error)
}

type codeExchanger interface {
	Exchange(ctx context.Context, code string) (*wechat.Session, error)
}

// Service handles sign-in flows and bearer token checks.
type Service struct {
	users    userStore
	exchange codeExchanger
	tokens   *tokenManager
	logger   *zap.Logger
}

type Config struct {
	Secret string
	TTL    time.Duration
}

func New(users userStore, revoked revocationStore, exchange codeExchanger, cfg Config, logger *zap.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	return &Service{
		users:    users,
		exchange: exchange,
		tokens:   newTokenManager(cfg.Secret, cfg.TTL, revoked),
		logger:   telemetry.OrNop(logger).Named("auth_service"),
	}
}

// Session is the result of a successful sign-in.
type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"userInfo"`
	IsNew bool         `json:"isNewUser"`
}

type WechatLoginInput struct {
	Code      string `json:"code"`
	NickName  string `json:"nickName"`
	AvatarURL string `json:"avatarUrl"`
}

// WechatLogin exchanges a mini-program login code and signs in the matching
// user, creating the account on first sight.
func (s *Service) WechatLogin(ctx context.Context, in WechatLoginInput) (*Session, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.Invalid("code", "code required")
	}
	sess, err := s.exchange.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByOpenID(ctx, sess.OpenID)
	isNew := false
	switch {
	case errors.Is(err, domain.ErrNotFound):
		user, err = s.users.Create(ctx, domain.User{
			OpenID:    sess.OpenID,
			NickName:  strings.TrimSpace(in.NickName),
			AvatarURL: strings.TrimSpace(in.AvatarURL),
		})
		if err != nil {
			return nil, err
		}
		isNew = true
	case err != nil:
		return nil, err
	default:
		upd := userrepo.ProfileUpdate{}
		if nick := strings.TrimSpace(in.NickName); nick != "" && nick != user.NickName {
			upd.NickName = &nick
		}
		if avatar := strings.TrimSpace(in.AvatarURL); avatar != "" && avatar != user.AvatarURL {
			upd.AvatarURL = &avatar
		}
		if upd.NickName != nil || upd.AvatarURL != nil {
			if user, err = s.users.UpdateProfile(ctx, user.ID, upd); err != nil {
				return nil, err
			}
		}
	}
	return s.issue(user, isNew)
}

type RegisterInput struct {
	NickName  string `json:"nickName"`
	AvatarURL string `json:"avatarUrl"`
	Phone     string `json:"phone"`
	OpenID    string `json:"openId"`
}

// Register creates an account directly. Phone and open id must both be unused.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	openID := strings.TrimSpace(in.OpenID)
	phone := strings.TrimSpace(in.Phone)
	if openID == "" {
		return nil, domain.Invalid("openId", "openId required")
	}
	if phone != "" && !domain.MobilePattern.MatchString(phone) {
		return nil, domain.Invalid("phone", "invalid mobile number")
	}
	if _, err := s.users.GetByOpenID(ctx, openID); err == nil {
		return nil, fmt.Errorf("user with open id: %w", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if phone != "" {
		if _, err := s.users.GetByPhone(ctx, phone); err == nil {
			return nil, fmt.Errorf("user with phone: %w", domain.ErrAlreadyExists)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	user, err := s.users.Create(ctx, domain.User{
		OpenID:    openID,
		NickName:  strings.TrimSpace(in.NickName),
		AvatarURL: strings.TrimSpace(in.AvatarURL),
		Phone:     phone,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("registered", zap.String("user_id", user.ID))
	return s.issue(user, true)
}

type LoginInput struct {
	Phone  string `json:"phone"`
	OpenID string `json:"openId"`
}

// Login signs in an existing user by phone or open id.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	phone := strings.TrimSpace(in.Phone)
	openID := strings.TrimSpace(in.OpenID)
	if phone == "" && openID == "" {
		return nil, domain.Invalid("", "phone or openId required")
	}
	var (
		user *domain.User
		err  = domain.ErrNotFound
	)
	if phone != "" {
		user, err = s.users.GetByPhone(ctx, phone)
	}
	if errors.Is(err, domain.ErrNotFound) && openID != "" {
		user, err = s.users.GetByOpenID(ctx, openID)
	}
	if err != nil {
		return nil, err
	}
	return s.issue(user, false)
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return err
	}
	if claims != nil {
		s.logger.Info("logged out", zap.String("user_id", claims.UserID))
	}
	return nil
}

func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Authenticate resolves a raw bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, raw string) (*domain.User, *Claims, error) {
	claims, err := s.tokens.Validate(ctx, raw)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrUnknownUser
		}
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *Service) issue(user *domain.User, isNew bool) (*Session, error) {
	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user, IsNew: isNew}, nil
}
