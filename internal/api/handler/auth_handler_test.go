package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/formgate/accounts-api/internal/api/middleware"
	"github.com/formgate/accounts-api/internal/core/domain"
	"github.com/formgate/accounts-api/internal/core/ports"
)

type stubAccountService struct {
	registerAdminFn func(ctx context.Context, input ports.RegisterInput) (*domain.Account, string, error)
	registerUserFn  func(ctx context.Context, input ports.RegisterInput, adminCode string) (*domain.Account, string, error)
	loginFn         func(ctx context.Context, email, password string) (*domain.Account, string, error)
	adminIDFn       func(ctx context.Context, token string) (string, error)
	deleteFn        func(ctx context.Context, id string) error
	managedByFn     func(ctx context.Context, adminID string) ([]domain.Account, error)
}

func (s *stubAccountService) RegisterAdmin(ctx context.Context, input ports.RegisterInput) (*domain.Account, string, error) {
	return s.registerAdminFn(ctx, input)
}

func (s *stubAccountService) RegisterUser(ctx context.Context, input ports.RegisterInput, adminCode string) (*domain.Account, string, error) {
	return s.registerUserFn(ctx, input, adminCode)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) CheckStatus(account *domain.Account) (string, error) {
	return "refreshed-token", nil
}

func (s *stubAccountService) AdminIDFromToken(ctx context.Context, token string) (string, error) {
	return s.adminIDFn(ctx, token)
}

func (s *stubAccountService) FindAll(_ context.Context) ([]domain.Account, error) { return nil, nil }

func (s *stubAccountService) FindAdmins(_ context.Context) ([]domain.Account, error) {
	return nil, nil
}

func (s *stubAccountService) FindUsers(_ context.Context) ([]domain.Account, error) {
	return nil, nil
}

func (s *stubAccountService) FindManagedBy(ctx context.Context, adminID string) ([]domain.Account, error) {
	return s.managedByFn(ctx, adminID)
}

func (s *stubAccountService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

var _ ports.AccountService = (*stubAccountService)(nil)

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_RegisterAdmin_Success(t *testing.T) {
	stub := &stubAccountService{
		registerAdminFn: func(_ context.Context, input ports.RegisterInput) (*domain.Account, string, error) {
			if input.Email != "a@x.com" || input.NationalID != "12345678" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Account{ID: "acc_1", Email: input.Email, Roles: []domain.Role{domain.RoleAdmin}}, "tok", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register-admin",
		`{"email":"a@x.com","password":"s3cret!","name":"Alice","last_name":"Smith","national_id":"12345678"}`)

	if err := h.RegisterAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok" {
		t.Fatalf("expected token in response, got %v", resp)
	}
	account, ok := resp["account"].(map[string]any)
	if !ok || account["id"] != "acc_1" {
		t.Fatalf("expected account in response, got %v", resp)
	}
	if _, leaked := account["password_hash"]; leaked {
		t.Fatalf("password hash leaked into response")
	}
}

func TestAuthHandler_RegisterAdmin_ValidationFailure(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{
		registerAdminFn: func(_ context.Context, _ ports.RegisterInput) (*domain.Account, string, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, "", nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/auth/register-admin",
		`{"email":"not-an-email","password":"x","name":"","last_name":"","national_id":""}`)

	err := h.RegisterAdmin(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_RegisterUser_PassesAdminCode(t *testing.T) {
	stub := &stubAccountService{
		registerUserFn: func(_ context.Context, _ ports.RegisterInput, adminCode string) (*domain.Account, string, error) {
			if adminCode != "7f6c9e9e-59dc-4b57-a8f4-7ba9f0f4f2aa" {
				t.Fatalf("unexpected admin code: %s", adminCode)
			}
			return &domain.Account{ID: "acc_2", Roles: []domain.Role{domain.RoleUser}}, "tok", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register-user",
		`{"email":"u@x.com","password":"s3cret!","name":"Uma","last_name":"Jones","national_id":"999","admin_code":"7f6c9e9e-59dc-4b57-a8f4-7ba9f0f4f2aa"}`)

	if err := h.RegisterUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_RegisterUser_BadAdminCodeFormat(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{
		registerUserFn: func(_ context.Context, _ ports.RegisterInput, _ string) (*domain.Account, string, error) {
			t.Fatalf("service must not be called with a malformed admin code")
			return nil, "", nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/auth/register-user",
		`{"email":"u@x.com","password":"s3cret!","name":"Uma","last_name":"Jones","national_id":"999","admin_code":"not-a-uuid"}`)

	err := h.RegisterUser(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(_ context.Context, email, password string) (*domain.Account, string, error) {
			return &domain.Account{ID: "acc_1", Email: email}, "tok", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"s3cret!"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_PropagatesInvalidCredentials(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(_ context.Context, _, _ string) (*domain.Account, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_CheckStatus(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{})

	c, rec := newTestContext(t, http.MethodGet, "/auth/check-status", "")
	c.Set(middleware.ContextAccount, &domain.Account{ID: "acc_1", Roles: []domain.Role{domain.RoleUser}})

	if err := h.CheckStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "refreshed-token" {
		t.Fatalf("expected refreshed token, got %v", resp)
	}
}

func TestAuthHandler_CheckStatus_NoAccount(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{})

	c, _ := newTestContext(t, http.MethodGet, "/auth/check-status", "")

	err := h.CheckStatus(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_AdminID(t *testing.T) {
	stub := &stubAccountService{
		adminIDFn: func(_ context.Context, token string) (string, error) {
			if token != "raw-token" {
				t.Fatalf("unexpected token: %s", token)
			}
			return "admin_1", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/auth/admin-id", "")
	c.Request().Header.Set("Authorization", "Bearer raw-token")

	if err := h.AdminID(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp adminIDResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AdminID != "admin_1" {
		t.Fatalf("expected admin_1, got %q", resp.AdminID)
	}
}

func TestAuthHandler_AdminID_MissingHeader(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{})

	c, _ := newTestContext(t, http.MethodGet, "/auth/admin-id", "")

	err := h.AdminID(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Delete(t *testing.T) {
	stub := &stubAccountService{
		deleteFn: func(_ context.Context, id string) error {
			if id != "acc_9" {
				t.Fatalf("unexpected id: %s", id)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodDelete, "/auth/user/acc_9", "")
	c.SetParamNames("id")
	c.SetParamValues("acc_9")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAuthHandler_Delete_NotFound(t *testing.T) {
	stub := &stubAccountService{
		deleteFn: func(_ context.Context, _ string) error {
			return domain.ErrAccountNotFound
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodDelete, "/auth/user/ghost", "")
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	if err := h.Delete(c); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound to propagate, got %v", err)
	}
}

func TestAuthHandler_ManagedBy(t *testing.T) {
	stub := &stubAccountService{
		managedByFn: func(_ context.Context, adminID string) ([]domain.Account, error) {
			if adminID != "admin_1" {
				t.Fatalf("unexpected admin id: %s", adminID)
			}
			return []domain.Account{{ID: "u1"}, {ID: "u2"}}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/auth/admin/admin_1/users", "")
	c.SetParamNames("adminId")
	c.SetParamValues("admin_1")

	if err := h.ManagedBy(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp))
	}
}
