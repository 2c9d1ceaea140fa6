package api

import (
	"errors"
	"log/slog"
	"net/http"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qrmenu/internal/api/middleware"
	"qrmenu/internal/auth"
	"qrmenu/internal/database"
)

const invalidCredentialsBody = "<h3>Invalid credentials</h3><a href='/login'>Try again</a>"

// AuthHandler serves the login form and manages the session cookie.
type AuthHandler struct {
	db          *gorm.DB
	authService *auth.Service
	logger      *slog.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		db:          db,
		authService: authService,
		logger:      logger,
	}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login checks the submitted credentials. Success sets the session
// cookie and redirects to the dashboard; failure returns 401 with an
// inline retry link. User-not-found and wrong-password are
// indistinguishable to the caller.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("username", username))

	var user database.User
	if err := h.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("login failed: user not found")
			c.Data(http.StatusUnauthorized, "text/html; charset=utf-8", []byte(invalidCredentialsBody))
			return
		}
		logger.Error("login query failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if !h.authService.CheckPasswordHash(password, user.PasswordHash) {
		logger.Info("login failed: password mismatch", slog.Uint64("user_id", uint64(user.ID)))
		c.Data(http.StatusUnauthorized, "text/html; charset=utf-8", []byte(invalidCredentialsBody))
		return
	}

	token, err := h.authService.GenerateSessionToken(user.ID)
	if err != nil {
		logger.Error("generate session token failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	h.setSessionCookie(c, token)
	logger.Info("login succeeded", slog.Uint64("user_id", uint64(user.ID)))
	c.Redirect(http.StatusFound, "/admin")
}

// Logout deletes the session cookie and redirects to the public display.
func (h *AuthHandler) Logout(c *gin.Context) {
	stdhttp.SetCookie(c.Writer, &stdhttp.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		SameSite: stdhttp.SameSiteLaxMode,
	})
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.authService.SessionTTL().Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	stdhttp.SetCookie(c.Writer, &stdhttp.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		HttpOnly: true,
		SameSite: stdhttp.SameSiteLaxMode,
		Expires:  time.Now().Add(h.authService.SessionTTL()),
	})
}

func (h *AuthHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
