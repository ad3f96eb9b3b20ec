package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pookietodo/core/internal/application/services"
	"github.com/pookietodo/core/internal/domain/entities"
	"github.com/pookietodo/core/internal/infrastructure/logger"
)

// authMiddleware validates bearer tokens and stashes the user id in context
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			userID, err := authService.ValidateToken(tokenString)
			if err != nil {
				s.logger.Warnw("invalid token", "error", err, "ip", c.RealIP())
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", userID)

			return next(c)
		}
	}
}

// customErrorHandler maps domain errors to HTTP statuses and renders the
// standard {"error": ...} body.
func customErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "internal server error"

		var httpErr *echo.HTTPError
		var validationErrs validator.ValidationErrors

		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		case errors.As(err, &validationErrs):
			code = http.StatusBadRequest
			message = "validation failed"
		case errors.Is(err, entities.ErrUserExists):
			code = http.StatusBadRequest
			message = entities.ErrUserExists.Error()
		case errors.Is(err, entities.ErrInvalidCredentials):
			code = http.StatusUnauthorized
			message = entities.ErrInvalidCredentials.Error()
		case errors.Is(err, entities.ErrInvalidToken):
			code = http.StatusUnauthorized
			message = entities.ErrInvalidToken.Error()
		case errors.Is(err, entities.ErrTaskNotFound):
			code = http.StatusNotFound
			message = entities.ErrTaskNotFound.Error()
		case errors.Is(err, entities.ErrChatTimeout):
			code = http.StatusGatewayTimeout
			message = entities.ErrChatTimeout.Error()
		case errors.Is(err, entities.ErrChatUpstream):
			code = http.StatusBadGateway
			message = entities.ErrChatUpstream.Error()
		}

		if code == http.StatusInternalServerError {
			log.Errorw("internal server error", "error", err, "path", c.Request().URL.Path)
		}

		var respErr error
		if c.Request().Method == echo.HEAD {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, map[string]string{"error": message})
		}
		if respErr != nil {
			log.Errorw("error sending response", "error", respErr)
		}
	}
}
