package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/describo/describo-backend/internal/service"
	"github.com/describo/describo-backend/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(e *echo.Echo) {
	e.POST("/auth/register", h.register)
	e.POST("/auth/login", h.login)
	e.POST("/auth/forgot-password", h.forgotPassword)
	e.POST("/auth/reset-password", h.resetPassword)
	e.POST("/auth/change-password", h.changePassword, RequireAuth(h.auth))
	e.GET("/auth/me", h.me, RequireAuth(h.auth))
	e.GET("/users", h.listAccounts)
}

// register creates an account from an email or phone identifier and returns
// a bearer token.
func (h *AuthHandler) register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	result, err := h.auth.Register(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, tokenResponse(result))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	result, err := h.auth.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, tokenResponse(result))
}

func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := h.auth.RequestPasswordReset(c.Request().Context(), req.Identifier); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "a verification code has been sent to your email"})
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := h.auth.ResetPassword(c.Request().Context(), req.Identifier, req.Token, req.NewPassword); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password has been reset"})
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	account, ok := CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := h.auth.ChangePassword(c.Request().Context(), account.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password has been changed"})
}

func (h *AuthHandler) me(c echo.Context) error {
	account, ok := CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, accountOut(account))
}

func (h *AuthHandler) listAccounts(c echo.Context) error {
	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	accounts, err := h.auth.ListAccounts(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list accounts"))
	}
	out := make([]AccountOut, 0, len(accounts))
	for i := range accounts {
		out = append(out, accountOut(&accounts[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func tokenResponse(result *service.AuthResult) TokenResponse {
	return TokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		ExpiresAt:   result.ExpiresAt.Format(time.RFC3339),
	}
}

// authError maps the service's closed error kinds to HTTP statuses. The
// message always comes from the sentinel, never from wrapped internals, so
// store errors stay out of responses.
func authError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidIdentifier),
		errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrSamePassword):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrInvalidResetCode):
		return c.JSON(http.StatusBadRequest, util.Error(service.ErrInvalidResetCode.Error()))
	case errors.Is(err, service.ErrIdentifierTaken):
		return c.JSON(http.StatusConflict, util.Error(service.ErrIdentifierTaken.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, util.Error(service.ErrInvalidCredentials.Error()))
	case errors.Is(err, service.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, util.Error(service.ErrAccountNotFound.Error()))
	case errors.Is(err, service.ErrResetDelivery):
		return c.JSON(http.StatusBadGateway, util.Error(service.ErrResetDelivery.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}
}
