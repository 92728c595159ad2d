package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/service/users"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service      users.UserUseCase
	cookieMaxAge time.Duration
	secureCookie bool
}

func NewUserHandler(service users.UserUseCase, cookieMaxAge time.Duration, secureCookie bool) *UserHandler {
	return &UserHandler{service: service, cookieMaxAge: cookieMaxAge, secureCookie: secureCookie}
}

// Register mounts the routes. requireUser guards logout.
func (h *UserHandler) Register(router *gin.RouterGroup, requireUser gin.HandlerFunc) {
	router.POST("/login", h.login)
	router.GET("/logout", requireUser, h.logout)
}

func (h *UserHandler) login(c *gin.Context) {
	var req UserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid username or password"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, token, int(h.cookieMaxAge.Seconds()), "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), currentUser(c)); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}
