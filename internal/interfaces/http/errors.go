package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// statusByCode traduce el código de dominio al status HTTP.
var statusByCode = map[string]int{
	domain.CodeValidation:        fiber.StatusBadRequest,
	domain.CodeNotFound:          fiber.StatusNotFound,
	domain.CodeDuplicate:         fiber.StatusConflict,
	domain.CodeUnauthorized:      fiber.StatusUnauthorized,
	domain.CodeInsufficientStock: fiber.StatusConflict,
	domain.CodeInvalidState:      fiber.StatusConflict,
	domain.CodeInvalidTransition: fiber.StatusConflict,
	domain.CodeConflict:          fiber.StatusConflict,
	domain.CodeRepository:        fiber.StatusInternalServerError,
	domain.CodeInternal:          fiber.StatusInternalServerError,
}

// writeError responde con dto.ErrorResponse. Los errores 5xx se registran y no exponen el detalle.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	code := domain.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	resp := dto.ErrorResponse{Code: code, Message: err.Error()}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		resp.Field = vErr.Field
		resp.Message = vErr.Message
	}
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		resp.Message = "error interno"
	}
	return c.Status(status).JSON(resp)
}

// badBody respuesta estándar para un cuerpo JSON que no se pudo decodificar.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// actorFrom exige el user_name del token: cada mutación registra a su responsable.
func actorFrom(c *fiber.Ctx) (string, error) {
	actor := GetActorName(c)
	if actor == "" {
		return "", domain.ErrUnauthorized
	}
	return actor, nil
}
