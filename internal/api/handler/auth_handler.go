package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/formgate/accounts-api/internal/api/metrics"
	"github.com/formgate/accounts-api/internal/api/middleware"
	"github.com/formgate/accounts-api/internal/core/domain"
	"github.com/formgate/accounts-api/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterAdmin creates a new top-level admin account.
//
// @Summary      Register an admin account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerAdminRequest  true  "Admin registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register-admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, token, err := h.accounts.RegisterAdmin(c.Request().Context(), registerInput(req))
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleAdmin)).Inc()
	return c.JSON(http.StatusCreated, authResponse{Account: account, Token: token})
}

// RegisterUser creates a user account owned by an existing admin.
//
// @Summary      Register a user account under an admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerUserRequest  true  "User registration details, including the admin invite code"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register-user [post]
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, token, err := h.accounts.RegisterUser(c.Request().Context(), registerInput(req.registerAdminRequest), req.AdminCode)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleUser)).Inc()
	return c.JSON(http.StatusCreated, authResponse{Account: account, Token: token})
}

// Login authenticates by email/password and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, token, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Account: account, Token: token})
}

// CheckStatus re-issues a token for the authenticated account; mounted on
// both /auth/check-status and /auth/check-token.
//
// @Summary      Refresh the session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/check-status [get]
func (h *AuthHandler) CheckStatus(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	token, err := h.accounts.CheckStatus(account)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Account: account, Token: token})
}

// Admins lists all accounts holding the admin role.
//
// @Summary      List admin accounts
// @Tags         auth
// @Produce      json
// @Success      200  {array}  domain.Account
// @Router       /auth/admins [get]
func (h *AuthHandler) Admins(c echo.Context) error {
	accounts, err := h.accounts.FindAdmins(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// Users lists all accounts holding the user role.
//
// @Summary      List user accounts
// @Tags         auth
// @Produce      json
// @Success      200  {array}  domain.Account
// @Router       /auth/users [get]
func (h *AuthHandler) Users(c echo.Context) error {
	accounts, err := h.accounts.FindUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// All lists every account.
//
// @Summary      List all accounts
// @Tags         auth
// @Produce      json
// @Success      200  {array}  domain.Account
// @Router       /auth [get]
func (h *AuthHandler) All(c echo.Context) error {
	accounts, err := h.accounts.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// ManagedBy lists the user accounts owned by the admin in the path.
//
// @Summary      List users managed by an admin
// @Tags         auth
// @Produce      json
// @Param        adminId  path  string  true  "Admin account id"
// @Success      200  {array}  domain.Account
// @Router       /auth/admin/{adminId}/users [get]
func (h *AuthHandler) ManagedBy(c echo.Context) error {
	accounts, err := h.accounts.FindManagedBy(c.Request().Context(), c.Param("adminId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// AdminID resolves the parent admin of the account named by the bearer token.
// The header is parsed by hand here rather than by the auth middleware so a
// user token whose account is gone yields 404, not 401.
//
// @Summary      Resolve the caller's parent admin id
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminIDResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/admin-id [get]
func (h *AuthHandler) AdminID(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authorization header not found")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token not found")
	}

	adminID, err := h.accounts.AdminIDFromToken(c.Request().Context(), parts[1])
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminIDResponse{AdminID: adminID})
}

// Private is the admin-gated probe; it only proves the RBAC chain works.
//
// @Summary      Admin-only probe
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /auth/private [get]
func (h *AuthHandler) Private(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "account": account})
}

// Delete hard-removes an account by id.
//
// @Summary      Delete an account
// @Tags         auth
// @Param        id  path  string  true  "Account id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /auth/user/{id} [delete]
func (h *AuthHandler) Delete(c echo.Context) error {
	if err := h.accounts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.AccountsDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

func registerInput(req registerAdminRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		LastName:   req.LastName,
		NationalID: req.NationalID,
	}
}

// ctxAccount extracts the account injected by the Auth middleware; its
// presence proves the middleware ran.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account, ok := c.Get(middleware.ContextAccount).(*domain.Account)
	if !ok || account == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return account, nil
}

func loginResult(err error) string {
	switch err {
	case domain.ErrInvalidCredentials:
		return "invalid_credentials"
	case domain.ErrTooManyAttempts:
		return "throttled"
	default:
		return "error"
	}
}
