package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskboard/config"
	"taskboard/internal/delivery/http/cookie"
	"taskboard/internal/delivery/http/validator"
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIdentityUsecase returns canned outputs and records the inputs it saw.
type stubIdentityUsecase struct {
	loginOutput   *usecase.LoginOutput
	refreshOutput *usecase.RefreshOutput
	refreshInput  *usecase.RefreshInput
	logoutInput   *usecase.LogoutInput
	err           error
}

func (s *stubIdentityUsecase) Register(context.Context, *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return nil, s.err
}

func (s *stubIdentityUsecase) Login(context.Context, *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return s.loginOutput, s.err
}

func (s *stubIdentityUsecase) Refresh(_ context.Context, input *usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	s.refreshInput = input

	return s.refreshOutput, s.err
}

func (s *stubIdentityUsecase) Logout(_ context.Context, input *usecase.LogoutInput) error {
	s.logoutInput = input

	return s.err
}

func (s *stubIdentityUsecase) Me(context.Context, uuid.UUID, uuid.UUID) (*entity.Account, error) {
	return nil, s.err
}

func (s *stubIdentityUsecase) ListAccounts(context.Context, *usecase.ListAccountsInput) ([]*entity.Account, error) {
	return nil, s.err
}

func newHandlerConfig(env string) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			AccessTokenExpiry:  time.Minute,
			RefreshTokenExpiry: 30 * 24 * time.Hour,
		},
	}
	cfg.Env.Env = env

	return cfg
}

func newLoginStub() *stubIdentityUsecase {
	return &stubIdentityUsecase{
		loginOutput: &usecase.LoginOutput{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			Account: &entity.Account{
				ID:       uuid.New(),
				TenantID: uuid.New(),
				Username: "alice",
			},
		},
		refreshOutput: &usecase.RefreshOutput{
			AccessToken:  "rotated-access",
			RefreshToken: "rotated-refresh",
		},
	}
}

func doLogin(t *testing.T, env string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()
	h := NewIdentityHandler(newLoginStub(), newHandlerConfig(env), slog.New(slog.NewTextHandler(io.Discard, nil)))

	body := `{"username":"alice","password":"Password123!"}`
	req := httptest.NewRequest(http.MethodPost, "/identity/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Login(e.NewContext(req, rec)))

	return rec
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	result := make(map[string]*http.Cookie)
	for _, ck := range rec.Result().Cookies() {
		result[ck.Name] = ck
	}

	return result
}

func TestIdentityHandler_Login_DevelopmentCookies(t *testing.T) {
	rec := doLogin(t, "development")
	assert.Equal(t, http.StatusOK, rec.Code)

	// The token pair sits at the top level of the data envelope.
	assert.Contains(t, rec.Body.String(), `"accessToken":"access-token"`)
	assert.Contains(t, rec.Body.String(), `"refreshToken":"refresh-token"`)

	cookies := cookiesByName(rec)

	access, ok := cookies[cookie.AccessTokenName]
	require.True(t, ok, "development issues the access token cookie")
	assert.Equal(t, "access-token", access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)

	refresh, ok := cookies[cookie.RefreshTokenName]
	require.True(t, ok)
	assert.Equal(t, "refresh-token", refresh.Value)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, refresh.SameSite)
}

func TestIdentityHandler_Login_ProductionSkipsAccessCookie(t *testing.T) {
	rec := doLogin(t, "production")
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := cookiesByName(rec)

	_, hasAccess := cookies[cookie.AccessTokenName]
	assert.False(t, hasAccess, "production never puts the access token in a cookie")

	refresh, ok := cookies[cookie.RefreshTokenName]
	require.True(t, ok)
	assert.True(t, refresh.Secure)
}

func TestIdentityHandler_Refresh_PrefersCookieOverBody(t *testing.T) {
	e := echo.New()
	e.Validator = validator.New()
	stub := newLoginStub()
	h := NewIdentityHandler(stub, newHandlerConfig("development"), slog.New(slog.NewTextHandler(io.Discard, nil)))

	body := `{"refresh_token":"from-body"}`
	req := httptest.NewRequest(http.MethodPut, "/identity/refresh", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: cookie.RefreshTokenName, Value: "from-cookie"})
	rec := httptest.NewRecorder()

	require.NoError(t, h.Refresh(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.refreshInput)
	assert.Equal(t, "from-cookie", stub.refreshInput.RefreshToken)
	assert.Contains(t, rec.Body.String(), `"accessToken":"rotated-access"`)

	// The rotated pair replaces the cookies.
	cookies := cookiesByName(rec)
	assert.Equal(t, "rotated-refresh", cookies[cookie.RefreshTokenName].Value)
}

func TestIdentityHandler_Refresh_NoTokenPresented(t *testing.T) {
	e := echo.New()
	e.Validator = validator.New()
	h := NewIdentityHandler(newLoginStub(), newHandlerConfig("development"), slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodPut, "/identity/refresh", nil)
	rec := httptest.NewRecorder()

	err := h.Refresh(e.NewContext(req, rec))
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestIdentityHandler_Logout_ClearsCookies(t *testing.T) {
	e := echo.New()
	e.Validator = validator.New()
	stub := newLoginStub()
	h := NewIdentityHandler(stub, newHandlerConfig("development"), slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodDelete, "/identity/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookie.RefreshTokenName, Value: "live-token"})
	rec := httptest.NewRecorder()

	require.NoError(t, h.Logout(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, stub.logoutInput)
	assert.Equal(t, "live-token", stub.logoutInput.RefreshToken)

	cookies := cookiesByName(rec)
	for _, name := range []string{cookie.AccessTokenName, cookie.RefreshTokenName} {
		ck, ok := cookies[name]
		require.True(t, ok)
		assert.Empty(t, ck.Value)
		assert.Negative(t, ck.MaxAge)
	}
}
