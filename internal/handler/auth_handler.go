package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ycelik/miniblog/internal/middleware"
	"github.com/ycelik/miniblog/internal/service"
	"github.com/ycelik/miniblog/pkg/logger"
)

type AuthHandler struct {
	authService *service.AuthService
	sessionTTL  int // cookie max age in seconds
	secure      bool
}

func NewAuthHandler(authService *service.AuthService, sessionTTLSeconds int, secure bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessionTTL:  sessionTTLSeconds,
		secure:      secure,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Registration request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("username", req.Username),
		zap.String("ip", c.ClientIP()),
	)

	user, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		statusCode := statusForError(err)
		c.JSON(statusCode, gin.H{
			"error": publicError(err),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("username", req.Username),
		zap.String("ip", c.ClientIP()),
	)

	user, sess, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		statusCode := statusForError(err)
		c.JSON(statusCode, gin.H{
			"error": publicError(err),
		})
		return
	}

	// Opaque session token in an HTTP-only cookie
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookie,
		sess.Token,
		h.sessionTTL,
		"/",
		"",
		h.secure,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess != nil {
		if err := h.authService.Logout(c.Request.Context(), sess.Token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to log out",
			})
			return
		}
	}

	// Clear the cookie; the next request starts anonymous
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secure, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// statusForError maps the service error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrPostNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicError hides persistence detail behind a generic message.
func publicError(err error) string {
	if errors.Is(err, service.ErrPersistence) || statusForError(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
