package presenter

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hackathon/pkg/registration"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

// SourceErrorResponse reports a registration export that could not be loaded.
type SourceErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Line    int    `json:"line,omitempty"`
}

type RegistrationsResponse struct {
	Items []registration.Cleaned `json:"items"`
	Count int                    `json:"count"`
}

func NewRegistrations(rows []registration.Cleaned) RegistrationsResponse {
	if rows == nil {
		rows = []registration.Cleaned{}
	}
	return RegistrationsResponse{Items: rows, Count: len(rows)}
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}
