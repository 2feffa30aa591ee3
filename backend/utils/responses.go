package utils

import (
	"errors"
	"fmt"

	"esiksha/backend/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse структура для ошибок
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success создает успешный JSON ответ: поля payload добавляются к success=true
func Success(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// Created отправляет ответ 201 Created
func Created(c *fiber.Ctx, payload fiber.Map) error {
	return Success(c, fiber.StatusCreated, payload)
}

// Paginate создает пагинированный JSON ответ: список под ключом key и pagination
func Paginate(c *fiber.Ctx, key string, items interface{}, pagination interface{}) error {
	return Success(c, fiber.StatusOK, fiber.Map{
		key:          items,
		"pagination": pagination,
	})
}

// Error создает JSON ответ с ошибкой. Статус берется из apperr.Error,
// неизвестные ошибки превращаются в 500.
func Error(c *fiber.Ctx, err error, exposeInternal bool) error {
	e := apperr.From(err)
	response := ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
	if e.Message == "" {
		response.Message = e.Error()
	}
	if e.Err != nil && exposeInternal {
		response.Error = e.Err.Error()
	}
	return c.Status(e.Status).JSON(response)
}

// BadRequest отправляет ответ 400 Bad Request
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, apperr.Validation(message), false)
}

// Unauthorized отправляет ответ 401 Unauthorized
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, apperr.Unauthorized(message), false)
}

// Forbidden отправляет ответ 403 Forbidden
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, apperr.Forbidden(message), false)
}

// NotFound отправляет ответ 404 Not Found
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, apperr.NotFound(message), false)
}

// NewErrorHandler is the app-wide fallback for errors handlers did not render.
func NewErrorHandler(log *Logger, exposeInternal bool, maxUpload int64) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusNotFound:
				return NotFound(c, "API endpoint not found")
			case fiber.StatusRequestEntityTooLarge:
				return Error(c, apperr.Upload(fmt.Sprintf("File size too large. Maximum size is %dMB", maxUpload>>20)), false)
			default:
				return Error(c, apperr.New(fe.Code, "", fe.Message, nil), false)
			}
		}

		e := apperr.From(err)
		if e.Status >= fiber.StatusInternalServerError {
			log.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return Error(c, e, exposeInternal)
	}
}
