package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rohits-web03/snapvault/internal/api"
	"github.com/rohits-web03/snapvault/internal/models"
	"github.com/rohits-web03/snapvault/internal/repositories"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

// setupServer points the global DB at a fresh in-memory database and builds
// the real router, so tests exercise the same wiring as production.
func setupServer(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Photo{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	repositories.DB = db
	return api.SetupRouter()
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// doJSON issues a request against the router and decodes the response
// envelope. Data stays raw JSON in the recorder for callers that need
// non-object payloads.
func doJSON(t *testing.T, h http.Handler, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	// Data may be an array for list endpoints; ignore the decode error and
	// let those tests unmarshal the recorder body themselves.
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

// signup registers a fresh account and returns its bearer token and user id.
func signup(t *testing.T, h http.Handler, email, name string) (string, string) {
	t.Helper()
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"email":    email,
		"password": "hunter22",
		"name":     name,
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", rec.Code, rec.Body.String())
	}
	token, _ := env.Data["token"].(string)
	userID, _ := env.Data["userId"].(string)
	return token, userID
}
