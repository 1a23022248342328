package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/describo/describo-backend/internal/domain"
	"github.com/describo/describo-backend/internal/service"
	"github.com/describo/describo-backend/internal/util"
)

const contextAccountKey = "auth.account"

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved account on the context.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error("missing or invalid authorization header"))
			}
			account, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Error(service.ErrInvalidCredentials.Error()))
			}
			c.Set(contextAccountKey, account)
			return next(c)
		}
	}
}

// OptionalAuth resolves the account when a valid bearer token is present and
// stays silent otherwise. Description generation works anonymously; history
// recording needs the account.
func OptionalAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if account, err := auth.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(contextAccountKey, account)
				}
			}
			return next(c)
		}
	}
}

func CurrentAccount(c echo.Context) (*domain.Account, bool) {
	account, ok := c.Get(contextAccountKey).(*domain.Account)
	return account, ok && account != nil
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if strings.TrimSpace(authHeader) == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
