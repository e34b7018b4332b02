package serverutils

import (
	"errors"

	"interview-prep-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns any error returned further down the chain into a BaseResponse.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

// FiberErrorHandler is installed as fiber.Config.ErrorHandler for errors raised outside the chain.
func FiberErrorHandler(ctx *fiber.Ctx, err error) error {
	return WriteError(ctx, err)
}

func WriteError(ctx *fiber.Ctx, err error) error {
	code := apperror.HTTPStatus(err)
	return ctx.Status(code).JSON(ErrorResponse(code, publicMessage(err, code)))
}

// publicMessage hides internal details of persistence and configuration failures.
func publicMessage(err error, code int) string {
	var persistenceErr *apperror.PersistenceError
	if errors.As(err, &persistenceErr) {
		return "failed to save data"
	}
	var configErr *apperror.ConfigurationError
	if errors.As(err, &configErr) {
		return "service is not configured: " + configErr.Key
	}
	if code == fiber.StatusInternalServerError {
		var fiberErr *fiber.Error
		if !errors.As(err, &fiberErr) {
			return "internal server error"
		}
	}
	return err.Error()
}
