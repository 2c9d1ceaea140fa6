package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"qrmenu/internal/api/middleware"
	"qrmenu/internal/auth"
	"qrmenu/internal/config"
	"qrmenu/internal/database"
	"qrmenu/internal/storage"
)

var testDBSeq atomic.Int64

type testApp struct {
	router   *gin.Engine
	db       *gorm.DB
	auth     *auth.Service
	mediaDir string
	display  config.DisplayConfig
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	authService, err := auth.NewService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	mediaDir := t.TempDir()
	media, err := storage.NewMediaStore(mediaDir)
	if err != nil {
		t.Fatalf("new media store: %v", err)
	}

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080},
		Database: config.DatabaseConfig{Path: dsn},
		Media:    config.MediaConfig{Dir: mediaDir},
		Session:  config.SessionConfig{Secret: "test-secret", TTLMinutes: 60},
		Display:  config.DisplayConfig{DefaultRoute: "menu1", InactivityTimeout: 60000},
		Admin:    config.AdminConfig{Username: "admin", Password: "admin"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(cfg, logger)
	RegisterRoutes(router, db, authService, media, cfg.Display, logger)

	return &testApp{
		router:   router,
		db:       db,
		auth:     authService,
		mediaDir: mediaDir,
		display:  cfg.Display,
	}
}

// seedAdmin inserts an admin account with the given password and
// returns a valid session cookie for it.
func (app *testApp) seedAdmin(t *testing.T, password string) *http.Cookie {
	t.Helper()

	hashed, err := app.auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := database.User{Username: "admin", PasswordHash: hashed}
	if err := app.db.Create(&user).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	token, err := app.auth.GenerateSessionToken(user.ID)
	if err != nil {
		t.Fatalf("generate session token: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

func (app *testApp) seedItem(t *testing.T, label string) database.Item {
	t.Helper()
	item := database.Item{
		Label:     label,
		QRText:    "https://example.com/" + label,
		ImagePath: "/media/icons/" + label + ".png",
	}
	if err := app.db.Create(&item).Error; err != nil {
		t.Fatalf("seed item %s: %v", label, err)
	}
	return item
}

func (app *testApp) seedRoute(t *testing.T, key string) database.RouteSet {
	t.Helper()
	route := database.RouteSet{
		Route:   key,
		Title:   strings.ToUpper(key),
		Rows:    2,
		Cols:    3,
		Timeout: 30000,
	}
	if err := app.db.Create(&route).Error; err != nil {
		t.Fatalf("seed route %s: %v", key, err)
	}
	return route
}

func (app *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func formRequest(method, target string, values url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func getRequest(target string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

// multipartRequest builds a POST with the given form fields plus one
// file part, matching what the admin forms submit.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, filename string, content []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func sessionCookieFrom(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	return nil
}
