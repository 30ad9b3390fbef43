// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"taskboard/config"
	"taskboard/internal/delivery/http/cookie"
	"taskboard/internal/delivery/http/middleware"
	"taskboard/internal/delivery/http/response"
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// IdentityHandler holds dependencies for identity-related handlers.
type IdentityHandler struct {
	uc     usecase.IdentityUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewIdentityHandler is the constructor for IdentityHandler, injected by Fx.
func NewIdentityHandler(uc usecase.IdentityUsecase, cfg *config.Config, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		uc:     uc,
		cfg:    cfg,
		logger: logger,
	}
}

type registerRequest struct {
	TenantName string `json:"tenant_name" validate:"required,max=100"`
	Username   string `json:"username" validate:"required,min=3,max=100"`
	Email      string `json:"email" validate:"required,email"`
	FullName   string `json:"full_name" validate:"max=255"`
	Password   string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// refreshRequest is the body fallback for clients that do not use cookies.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// accountView is the public shape of an account; the password hash never
// leaves the server.
type accountView struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenPairView struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

// loginView flattens the token pair to the top level of the data envelope.
type loginView struct {
	tokenPairView
	Account accountView `json:"account"`
}

func toAccountView(account *entity.Account) accountView {
	return accountView{
		ID:        account.ID,
		TenantID:  account.TenantID,
		Username:  account.Username,
		Email:     account.Email,
		FullName:  account.FullName,
		CreatedAt: account.CreatedAt,
	}
}

// Register handles creation of a new tenant with its first account.
func (h *IdentityHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		TenantName: req.TenantName,
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Password:   req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]any{
		"tenant": map[string]any{
			"id":   output.Tenant.ID,
			"name": output.Tenant.Name,
		},
		"account": toAccountView(output.Account),
	}, "Registered successfully")
}

// Login handles the login request and issues the token pair as cookies and
// in the body.
func (h *IdentityHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.issueCookies(c, output.AccessToken, output.RefreshToken)

	return response.Success(c, http.StatusOK, loginView{
		tokenPairView: tokenPairView{
			AccessToken:  output.AccessToken,
			RefreshToken: output.RefreshToken,
			TokenType:    "bearer",
		},
		Account: toAccountView(output.Account),
	}, "Login successful")
}

// Refresh rotates the refresh token. The presented token is read from the
// refresh_token cookie when present, otherwise from the request body.
func (h *IdentityHandler) Refresh(c echo.Context) error {
	token := cookie.ReadRefreshToken(c)
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return domainerrors.ErrUnauthorized.WrapMessage("no refresh token presented")
	}

	output, err := h.uc.Refresh(c.Request().Context(), &usecase.RefreshInput{RefreshToken: token})
	if err != nil {
		return errors.WithStack(err)
	}

	h.issueCookies(c, output.AccessToken, output.RefreshToken)

	return response.Success(c, http.StatusOK, tokenPairView{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		TokenType:    "bearer",
	}, "Token refreshed successfully")
}

// Logout revokes the presented refresh token and expires the auth cookies.
func (h *IdentityHandler) Logout(c echo.Context) error {
	token := cookie.ReadRefreshToken(c)
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return domainerrors.ErrUnauthorized.WrapMessage("no refresh token presented")
	}

	if err := h.uc.Logout(c.Request().Context(), &usecase.LogoutInput{RefreshToken: token}); err != nil {
		return errors.WithStack(err)
	}

	cookie.Clear(c)

	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated caller's own account.
func (h *IdentityHandler) Me(c echo.Context) error {
	actor := middleware.GetActor(c)

	account, err := h.uc.Me(c.Request().Context(), actor.TenantID, actor.AccountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountView(account), "")
}

// ListUsers pages through the accounts of the caller's tenant.
func (h *IdentityHandler) ListUsers(c echo.Context) error {
	actor := middleware.GetActor(c)

	lastID, limit, err := parsePageParams(c)
	if err != nil {
		return errors.WithStack(err)
	}

	accounts, err := h.uc.ListAccounts(c.Request().Context(), &usecase.ListAccountsInput{
		TenantID: actor.TenantID,
		LastID:   lastID,
		Limit:    limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, toAccountView(account))
	}

	return response.Success(c, http.StatusOK, views, "")
}

// issueCookies applies the cookie policy after login or refresh: the refresh
// token always travels as a strict cookie, the access token cookie is a
// development convenience and is skipped in production.
func (h *IdentityHandler) issueCookies(c echo.Context, accessToken, refreshToken string) {
	production := h.cfg.IsProduction()

	if !production {
		cookie.SetAccessToken(c, accessToken, false)
	}
	cookie.SetRefreshToken(c, refreshToken, h.cfg.Auth.RefreshTokenExpiry, production)
}
