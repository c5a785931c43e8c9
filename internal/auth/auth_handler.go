package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	autherrors "github.com/elkisser/the-cookie-box/internal/auth/errors"
	"github.com/elkisser/the-cookie-box/internal/pkg/response"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid login payload", err.Error())
		return
	}

	accessToken, refreshToken, user, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	h.service.SignOut(c.Request.Context())
	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		response.FromError(c, autherrors.ErrRefreshTokenRequired)
		return
	}

	accessToken, newRefreshToken, user, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearAuthCookies(c)
		response.FromError(c, err)
		return
	}

	h.setAuthCookies(c, accessToken, newRefreshToken)
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetString("user_id_validated"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, accessToken, int(accessTokenTTL.Seconds()), "/", "", false, true)
	c.SetCookie(refreshCookie, refreshToken, int(refreshTokenTTL.Seconds()), "/", "", false, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(accessCookie, "", -1, "/", "", false, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
}
