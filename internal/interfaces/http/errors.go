package http

import (
	"errors"

	"github.com/FernandoLelis/multivendas-backend/internal/application/dto"
	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// respondError traduce errores de dominio a respuestas HTTP. Lo no reconocido es 500
// y se registra con el logger de la petición.
func respondError(c *fiber.Ctx, err error) error {
	var locked *domain.LotLockedError
	if errors.As(err, &locked) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "LOT_LOCKED",
			Message: "el lote ya tiene ventas asociadas; borre esas ventas antes de editarlo o eliminarlo",
			Details: map[string]any{
				"lot_id":            locked.LotID,
				"remaining_balance": locked.RemainingBalance,
				"original_quantity": locked.OriginalQuantity,
				"consumed":          locked.Consumed(),
			},
		})
	}
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente",
			Details: map[string]any{
				"product_id": insufficient.ProductID,
				"requested":  insufficient.Requested,
				"available":  insufficient.Available,
			},
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un registro con ese identificador"})
	case errors.Is(err, domain.ErrImmutableField):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IMMUTABLE_FIELD", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_UPDATE", Message: "operación concurrente sobre los mismos lotes, intente de nuevo"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}

	log := zerolog.Ctx(c.UserContext())
	if errors.Is(err, domain.ErrNoConsumptionFound) {
		log.Error().Err(err).Str("path", c.Path()).Msg("inconsistencia de datos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "NO_CONSUMPTION_FOUND", Message: err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
