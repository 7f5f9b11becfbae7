package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hackathon/api/http/presenter"
	"github.com/artem13815/hackathon/pkg/ingest"
	"github.com/artem13815/hackathon/pkg/pipeline"
	"github.com/artem13815/hackathon/pkg/registration"
)

// Importer is the part of ingest.Service the HTTP surface needs.
type Importer interface {
	Run(ctx context.Context, path string) (ingest.Report, error)
	RunReader(ctx context.Context, name string, r io.Reader) (ingest.Report, error)
	Recent(ctx context.Context) ([]registration.Cleaned, error)
}

type RegistrationsHandler struct {
	svc Importer
}

func NewRegistrationsHandler(svc Importer) *RegistrationsHandler {
	return &RegistrationsHandler{svc: svc}
}

// List returns the most recent cleaned registrations.
// @Summary     Recent registrations
// @Description Newest submissions first; email and phone are never exposed.
// @Tags        registrations
// @Produce     json
// @Success     200 {object} presenter.RegistrationsResponse
// @Failure     502 {object} presenter.ErrorResponse
// @Router      /registrations [get]
func (h *RegistrationsHandler) List(c *fiber.Ctx) error {
	rows, err := h.svc.Recent(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, presenter.NewRegistrations(rows))
}

// respondError maps batch errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var srcErr *pipeline.SourceError
	switch {
	case errors.As(err, &srcErr):
		return presenter.JSON(c, http.StatusUnprocessableEntity, presenter.SourceErrorResponse{
			Message: err.Error(),
			Kind:    srcErr.KindName(),
			Line:    srcErr.Line,
		})
	case errors.Is(err, ingest.ErrPersistence):
		return presenter.Error(c, http.StatusBadGateway, err.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, err.Error())
	}
}
