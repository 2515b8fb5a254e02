package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/contacthub/internal/config"
	"github.com/geocoder89/contacthub/internal/db"
	apphttp "github.com/geocoder89/contacthub/internal/http"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// These tests need a real Postgres; set TEST_DB_DSN to run them.

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		JWTSecret:    "test-secret-key",
		TokenTTL:     7 * 24 * time.Hour,
		MaxBodyBytes: 1 << 20,
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping integration tests")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)

	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}

	t.Cleanup(pool.Close)

	if err := db.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	router := apphttp.NewRouter(logger, pool, testConfig())

	return router, pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE contacts, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func TestRegisterLoginContactLifecycle(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	// register
	w := doRequest(router, http.MethodPost, "/auth/register",
		`{"fullName": "Alice Smith", "email": "alice@x.com", "password": "Passw0rd"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("register got status %d, body=%s", w.Code, w.Body.String())
	}

	// duplicate registration is rejected by the unique index path too
	w = doRequest(router, http.MethodPost, "/auth/register",
		`{"fullName": "Alice Smith", "email": "ALICE@x.com", "password": "Passw0rd"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	// login
	w = doRequest(router, http.MethodPost, "/auth/login",
		`{"email": "alice@x.com", "password": "Passw0rd"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, body=%s", w.Code, w.Body.String())
	}

	var login struct {
		Token string `json:"token"`
	}
	mustReadJSON(t, w, &login)

	if login.Token == "" {
		t.Fatalf("no token in login response")
	}

	// empty list -> 404
	w = doRequest(router, http.MethodGet, "/contacts", "", login.Token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("empty list got status %d, want 404, body=%s", w.Code, w.Body.String())
	}

	// add a contact; phone stored in E.164
	w = doRequest(router, http.MethodPost, "/contacts",
		`{"firstName": "Bob", "lastName": "Jones", "phoneNumber": "+1 415 555 2671", "email": "bob@x.com", "birthDate": "1990-06-15T00:00:00Z"}`,
		login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("add got status %d, body=%s", w.Code, w.Body.String())
	}

	var stored string
	err := pool.QueryRow(context.Background(),
		`SELECT phone_number FROM contacts WHERE email = 'bob@x.com'`).Scan(&stored)
	if err != nil {
		t.Fatalf("could not read stored contact: %v", err)
	}
	if stored != "+14155552671" {
		t.Fatalf("stored phone %q, want +14155552671", stored)
	}

	// duplicate contact email for the same owner -> 409
	w = doRequest(router, http.MethodPost, "/contacts",
		`{"firstName": "Bobby", "lastName": "Jones", "phoneNumber": "+14155552671", "email": "BOB@x.com", "birthDate": "1990-06-15T00:00:00Z"}`,
		login.Token)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate contact got status %d, want 409, body=%s", w.Code, w.Body.String())
	}

	// fetch and delete by id
	w = doRequest(router, http.MethodGet, "/contacts/1", "", login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("get got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodDelete, "/contacts/1", "", login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/contacts/1", "", login.Token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete got status %d, want 404, body=%s", w.Code, w.Body.String())
	}
}

func TestContactOwnershipAcrossUsers(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	register := func(name, email string) string {
		w := doRequest(router, http.MethodPost, "/auth/register",
			`{"fullName": "`+name+`", "email": "`+email+`", "password": "Passw0rd"}`, "")
		if w.Code != http.StatusOK {
			t.Fatalf("register %s got status %d, body=%s", email, w.Code, w.Body.String())
		}

		w = doRequest(router, http.MethodPost, "/auth/login",
			`{"email": "`+email+`", "password": "Passw0rd"}`, "")
		if w.Code != http.StatusOK {
			t.Fatalf("login %s got status %d, body=%s", email, w.Code, w.Body.String())
		}

		var login struct {
			Token string `json:"token"`
		}
		mustReadJSON(t, w, &login)

		return login.Token
	}

	alice := register("Alice Smith", "alice@x.com")
	carol := register("Carol Davis", "carol@x.com")

	w := doRequest(router, http.MethodPost, "/contacts",
		`{"firstName": "Bob", "lastName": "Jones", "phoneNumber": "+14155552671", "email": "bob@x.com", "birthDate": "1990-06-15T00:00:00Z"}`,
		alice)
	if w.Code != http.StatusOK {
		t.Fatalf("add got status %d, body=%s", w.Code, w.Body.String())
	}

	// both users can hold the same contact email
	w = doRequest(router, http.MethodPost, "/contacts",
		`{"firstName": "Bob", "lastName": "Jones", "phoneNumber": "+14155552671", "email": "bob@x.com", "birthDate": "1990-06-15T00:00:00Z"}`,
		carol)
	if w.Code != http.StatusOK {
		t.Fatalf("second owner's add got status %d, body=%s", w.Code, w.Body.String())
	}

	// carol's token cannot read alice's row; answer matches a missing id
	notOwned := doRequest(router, http.MethodGet, "/contacts/1", "", carol)
	missing := doRequest(router, http.MethodGet, "/contacts/999", "", carol)

	if notOwned.Code != http.StatusNotFound || missing.Code != http.StatusNotFound {
		t.Fatalf("got statuses %d and %d, want 404 for both", notOwned.Code, missing.Code)
	}

	if notOwned.Body.String() != missing.Body.String() {
		t.Fatalf("not-owned and missing bodies differ:\n%s\n%s", notOwned.Body.String(), missing.Body.String())
	}
}
