package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/types"
)

// AuthHandler handles account and session requests
type AuthHandler struct {
	authService  service.IAuthService
	syncService  service.ISyncService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session
// cookie HTTPS-only.
func NewAuthHandler(authService service.IAuthService, syncService service.ISyncService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		syncService:  syncService,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userInfo(user)})
}

// Login opens a session, sets the session cookie and warms the caches for
// the user. The cookie outlives the browser session only with remember_me.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}

	maxAge := 0
	if session.Persistent {
		maxAge = int(time.Until(session.ExpiresAt).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.Token, maxAge, "/", "", h.secureCookie, true)

	h.syncService.Warm(c.Request.Context(), session.User.ID)

	c.JSON(http.StatusOK, types.SessionResponse{
		Token:      session.Token,
		ExpiresAt:  session.ExpiresAt,
		Persistent: session.Persistent,
		User:       userInfo(session.User),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userInfo(user)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		respondError(c, err, "failed to logout")
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func userInfo(u models.User) types.UserInfo {
	return types.UserInfo{ID: u.ID, Name: u.Name, Email: u.Email}
}
