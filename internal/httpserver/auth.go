package httpserver

import (
	"net/http"

	authsvc "mini-shop/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type wechatLoginRequest struct {
	Code      string `json:"code" binding:"required"`
	NickName  string `json:"nickName"`
	AvatarURL string `json:"avatarUrl"`
}

type registerRequest struct {
	NickName  string `json:"nickName"`
	AvatarURL string `json:"avatarUrl"`
	Phone     string `json:"phone" binding:"required,cnmobile"`
	OpenID    string `json:"openId" binding:"required"`
}

type loginRequest struct {
	Phone  string `json:"phone" binding:"omitempty,cnmobile"`
	OpenID string `json:"openId"`
}

func (h *handler) wechatLogin(c *gin.Context) {
	var req wechatLoginRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	session, err := h.deps.Auth.WechatLogin(c.Request.Context(), authsvc.WechatLoginInput(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "login successful", session)
}

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	session, err := h.deps.Auth.Register(c.Request.Context(), authsvc.RegisterInput(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, "registration successful", session)
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	session, err := h.deps.Auth.Login(c.Request.Context(), authsvc.LoginInput(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "login successful", session)
}

func (h *handler) logout(c *gin.Context) {
	if err := h.deps.Auth.Logout(c.Request.Context(), currentClaims(c)); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "logged out", nil)
}

func (h *handler) me(c *gin.Context) {
	user, err := h.deps.Auth.Me(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"userInfo": user})
}
