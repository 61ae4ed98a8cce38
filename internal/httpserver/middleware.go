package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"mini-shop/internal/domain"
	authsvc "mini-shop/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	userCtxKey   = "auth.user"
	claimsCtxKey = "auth.claims"
)

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func (h *handler) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		h.logger.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		fail(c, http.StatusInternalServerError, "internal server error")
	})
}

// rateLimit counts requests per client IP. A limiter error lets the request
// through.
func (h *handler) rateLimit(limiter rateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			h.logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(res.ResetIn.Seconds())))
			fail(c, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		c.Next()
	}
}

// requireAuth resolves the bearer token to a user and stores both the user
// and the token claims on the context.
func (h *handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			h.writeError(c, authsvc.ErrNoToken)
			return
		}
		user, claims, err := h.deps.Auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Set(userCtxKey, user)
		c.Set(claimsCtxKey, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentUser(c *gin.Context) *domain.User {
	if v, exists := c.Get(userCtxKey); exists {
		if u, isUser := v.(*domain.User); isUser {
			return u
		}
	}
	return nil
}

func currentClaims(c *gin.Context) *authsvc.Claims {
	if v, exists := c.Get(claimsCtxKey); exists {
		if cl, isClaims := v.(*authsvc.Claims); isClaims {
			return cl
		}
	}
	return nil
}
