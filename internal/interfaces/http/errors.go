package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

// errorMapping sentinela de dominio → status HTTP y código del sobre de error.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidTransition, fiber.StatusBadRequest, "INVALID_TRANSITION"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrInvariantViolation, fiber.StatusBadRequest, "INVARIANT_VIOLATION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// classify devuelve status y código para err.
func classify(err error) (int, string) {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return fe.Code, "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			return fe.Code, "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest:
			return fe.Code, "VALIDATION"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, "HTTP_ERROR"
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// ErrorHandler traduce los errores devueltos por los handlers al sobre {statusCode, message, error}.
// Solo los 5xx se registran; su mensaje no se expone al cliente.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code := classify(err)
		msg := err.Error()
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
			msg = "error interno del servidor"
		}
		return c.Status(status).JSON(dto.ErrorResponse{StatusCode: status, Message: msg, Error: code})
	}
}

// abort responde un error propio del transporte (token, rol) sin pasar por el dominio.
func abort(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{StatusCode: status, Message: msg, Error: code})
}
