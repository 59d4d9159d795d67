package events

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	dbutil "github.com/recoveryfit/corpreport/internal/db"
	"github.com/recoveryfit/corpreport/internal/models"
	"github.com/recoveryfit/corpreport/internal/ratelimit"
	"github.com/recoveryfit/corpreport/internal/store"
	"gorm.io/gorm"
)

func setupEngine(t *testing.T, token string, limiter *ratelimit.Manager) (*gin.Engine, *store.GormSource) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := dbutil.Migrate(db); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	src := store.NewGormSource(db)
	RegisterEventRoutes(engine, src, token, limiter)
	return engine, src
}

func postLogin(engine *gin.Engine, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v0/events/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Ingest-Token", token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRecordLoginEvent(t *testing.T) {
	engine, src := setupEngine(t, "secret", nil)

	user := models.User{Username: "member", RegisteredAt: time.Now()}
	if errCreate := src.DB().Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}

	w := postLogin(engine, "secret", fmt.Sprintf(`{"user_id": %d}`, user.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	count, errCount := src.Attribute(context.Background(), user.ID, models.AttrLoginCount)
	if errCount != nil {
		t.Fatalf("read attribute: %v", errCount)
	}
	if count != "1" {
		t.Fatalf("expected login count 1, got %q", count)
	}
}

func TestRecordLoginEvent_BadToken(t *testing.T) {
	engine, _ := setupEngine(t, "secret", nil)

	if w := postLogin(engine, "wrong", `{"user_id": 1}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}
	if w := postLogin(engine, "", `{"user_id": 1}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", w.Code)
	}
}

func TestRecordLoginEvent_BearerToken(t *testing.T) {
	engine, src := setupEngine(t, "secret", nil)

	user := models.User{Username: "member", RegisteredAt: time.Now()}
	if errCreate := src.DB().Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}

	req := httptest.NewRequest(http.MethodPost, "/v0/events/login", bytes.NewBufferString(fmt.Sprintf(`{"user_id": %d}`, user.ID)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d", w.Code)
	}
}

func TestRecordLoginEvent_UnknownUser(t *testing.T) {
	engine, _ := setupEngine(t, "secret", nil)

	if w := postLogin(engine, "secret", `{"user_id": 424242}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", w.Code)
	}
}

func TestRecordLoginEvent_RateLimited(t *testing.T) {
	now := time.Unix(5000, 0)
	limiter := ratelimit.NewManager(
		func() ratelimit.Config { return ratelimit.Config{Limit: 1} },
		func() time.Time { return now },
		nil,
	)
	engine, src := setupEngine(t, "secret", limiter)

	user := models.User{Username: "member", RegisteredAt: time.Now()}
	if errCreate := src.DB().Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	body := fmt.Sprintf(`{"user_id": %d}`, user.ID)

	if w := postLogin(engine, "secret", body); w.Code != http.StatusOK {
		t.Fatalf("expected first event accepted, got %d", w.Code)
	}
	if w := postLogin(engine, "secret", body); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second event throttled, got %d", w.Code)
	}
}

func TestRegisterEventRoutes_DisabledWithoutToken(t *testing.T) {
	engine, _ := setupEngine(t, "", nil)

	if w := postLogin(engine, "", `{"user_id": 1}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when ingest disabled, got %d", w.Code)
	}
}
