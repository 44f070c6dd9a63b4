package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/crewplan/crewplan/internal/auth"
	"github.com/crewplan/crewplan/internal/shared"
	_ "github.com/crewplan/crewplan/testing"
)

type stubRepo struct {
	account      *auth.Account
	lastSession  string
	deleteCalled int
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	if s.account == nil {
		return nil, shared.ErrNotFound
	}
	return s.account, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	s.lastSession = id
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	s.deleteCalled++
	return nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	handler := auth.NewHandler(nil, auth.NewService(repo), sessionManager)
	return handler, sessionManager
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func doLogin(t *testing.T, handler *auth.Handler, sessionManager *shared.SessionManager, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	router := newRouter(handler)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func newRouter(handler *auth.Handler) http.Handler {
	router := chi.NewRouter()
	handler.MountRoutes(router)
	return router
}

func TestLoginSuccess(t *testing.T) {
	repo := &stubRepo{account: &auth.Account{
		ID:           42,
		Email:        "ana@crewplan.test",
		Name:         "Ana",
		PasswordHash: hashPassword(t, "correct-horse"),
		IsActive:     true,
	}}
	handler, sessionManager := newAuthHandler(t, repo)

	res := doLogin(t, handler, sessionManager, `{"email":"ana@crewplan.test","password":"correct-horse"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"user_id":42`) {
		t.Fatalf("unexpected body %s", res.Body.String())
	}
	if repo.lastSession == "" {
		t.Fatal("expected session to be registered")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	repo := &stubRepo{account: &auth.Account{
		ID:           42,
		Email:        "ana@crewplan.test",
		PasswordHash: hashPassword(t, "correct-horse"),
		IsActive:     true,
	}}
	handler, sessionManager := newAuthHandler(t, repo)

	res := doLogin(t, handler, sessionManager, `{"email":"ana@crewplan.test","password":"wrong-horse-x"}`)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := &stubRepo{account: &auth.Account{
		ID:           42,
		Email:        "ana@crewplan.test",
		PasswordHash: hashPassword(t, "correct-horse"),
		IsActive:     false,
	}}
	handler, sessionManager := newAuthHandler(t, repo)

	res := doLogin(t, handler, sessionManager, `{"email":"ana@crewplan.test","password":"correct-horse"}`)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestLogoutRemovesSession(t *testing.T) {
	repo := &stubRepo{}
	handler, sessionManager := newAuthHandler(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	newRouter(handler).ServeHTTP(res, req)
	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
	if repo.deleteCalled != 1 {
		t.Fatalf("delete session calls = %d, want 1", repo.deleteCalled)
	}
}

func TestLoginValidatesPayload(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{})

	res := doLogin(t, handler, sessionManager, `{"email":"not-an-email","password":"short"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}
