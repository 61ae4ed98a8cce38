package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"mini-shop/internal/domain"
	tokenrepo "mini-shop/internal/repository/token"
	userrepo "mini-shop/internal/repository/user"
	"mini-shop/internal/wechat"

	"github.com/golang-jwt/jwt/v5"
)

// memoryUsers is a lightweight in-memory user repository for tests.
type memoryUsers struct {
	byID map[string]domain.User
	seq  int
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]domain.User)}
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsers) GetByOpenID(_ context.Context, openID string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.OpenID == openID {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUsers) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.byID {
		if phone != "" && u.Phone == phone {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUsers) Create(_ context.Context, u domain.User) (*domain.User, error) {
	r.seq++
	u.ID = "user-" + string(rune('0'+r.seq))
	if u.NickName == "" {
		u.NickName = domain.DefaultNickName
	}
	r.byID[u.ID] = u
	return &u, nil
}

func (r *memoryUsers) UpdateProfile(_ context.Context, id string, in userrepo.ProfileUpdate) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.NickName != nil {
		u.NickName = *in.NickName
	}
	if in.AvatarURL != nil {
		u.AvatarURL = *in.AvatarURL
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	r.byID[id] = u
	return &u, nil
}

type memoryRevocations struct {
	revoked map[string]tokenrepo.Revoked
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{revoked: make(map[string]tokenrepo.Revoked)}
}

func (r *memoryRevocations) Revoke(_ context.Context, token tokenrepo.Revoked) error {
	r.revoked[token.TokenID] = token
	return nil
}

func (r *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func (r *memoryRevocations) Purge(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, t := range r.revoked {
		if t.ExpiresAt.Before(now) {
			delete(r.revoked, id)
			n++
		}
	}
	return n, nil
}

type stubExchanger struct {
	openID string
	err    error
}

func (s *stubExchanger) Exchange(_ context.Context, _ string) (*wechat.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &wechat.Session{OpenID: s.openID}, nil
}

func newService(users *memoryUsers, ex *stubExchanger) *Service {
	return New(users, newMemoryRevocations(), ex, Config{Secret: "test-secret", TTL: time.Hour}, nil)
}

func TestWechatLoginCreatesThenUpdates(t *testing.T) {
	users := newMemoryUsers()
	svc := newService(users, &stubExchanger{openID: "open-1"})
	ctx := context.Background()

	first, err := svc.WechatLogin(ctx, WechatLoginInput{Code: "c1"})
	if err != nil {
		t.Fatalf("WechatLogin: %v", err)
	}
	if !first.IsNew || first.User.NickName != domain.DefaultNickName || first.Token == "" {
		t.Fatalf("unexpected first session %+v", first)
	}

	second, err := svc.WechatLogin(ctx, WechatLoginInput{Code: "c2", NickName: "Alice", AvatarURL: "http://a/x.png"})
	if err != nil {
		t.Fatalf("WechatLogin: %v", err)
	}
	if second.IsNew || second.User.ID != first.User.ID || second.User.NickName != "Alice" {
		t.Fatalf("expected existing user refreshed, got %+v", second.User)
	}
	if len(users.byID) != 1 {
		t.Fatalf("expected a single user, got %d", len(users.byID))
	}
}

func TestWechatLoginErrors(t *testing.T) {
	svc := newService(newMemoryUsers(), &stubExchanger{err: wechat.ErrCodeUsed})
	if _, err := svc.WechatLogin(context.Background(), WechatLoginInput{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.WechatLogin(context.Background(), WechatLoginInput{Code: "c"}); !errors.Is(err, wechat.ErrCodeUsed) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	users := newMemoryUsers()
	svc := newService(users, &stubExchanger{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{OpenID: "o1", Phone: "12345"}); !domain.IsValidation(err) {
		t.Fatalf("expected phone validation error, got %v", err)
	}
	reg, err := svc.Register(ctx, RegisterInput{OpenID: "o1", Phone: "13800000000", NickName: "Bob"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{OpenID: "o1"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected duplicate open id, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{OpenID: "o2", Phone: "13800000000"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected duplicate phone, got %v", err)
	}

	byPhone, err := svc.Login(ctx, LoginInput{Phone: "13800000000"})
	if err != nil || byPhone.User.ID != reg.User.ID {
		t.Fatalf("Login by phone: %v", err)
	}
	byOpen, err := svc.Login(ctx, LoginInput{Phone: "13900000000", OpenID: "o1"})
	if err != nil || byOpen.User.ID != reg.User.ID {
		t.Fatalf("Login falls back to open id: %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{OpenID: "nobody"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthenticateAndLogout(t *testing.T) {
	users := newMemoryUsers()
	svc := newService(users, &stubExchanger{openID: "open-1"})
	ctx := context.Background()

	sess, err := svc.WechatLogin(ctx, WechatLoginInput{Code: "c"})
	if err != nil {
		t.Fatalf("WechatLogin: %v", err)
	}

	user, claims, err := svc.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != sess.User.ID || claims.ID == "" {
		t.Fatalf("unexpected principal %+v %+v", user, claims)
	}

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, sess.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	users := newMemoryUsers()
	svc := newService(users, &stubExchanger{})
	ctx := context.Background()

	if _, _, err := svc.Authenticate(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	ghost, _, err := svc.tokens.Issue("ghost")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, ghost); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}

	svc.tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := svc.tokens.Issue("ghost")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	svc.tokens.now = time.Now
	if _, _, err := svc.Authenticate(ctx, expired); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           "ghost",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}
