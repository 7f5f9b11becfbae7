package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hackathon/api/http/presenter"
)

// MaxUploadBytes caps an uploaded form export.
const MaxUploadBytes = 10 << 20

type ImportsHandler struct {
	svc        Importer
	sourcePath string
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewImportsHandler(svc Importer, sourcePath string) *ImportsHandler {
	return &ImportsHandler{svc: svc, sourcePath: sourcePath, maxBytes: MaxUploadBytes}
}

// Create runs an import batch and replaces the registrations table.
// @Summary     Run an import
// @Description With a multipart "file" the uploaded CSV is imported, otherwise the configured source file.
// @Tags        imports
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file false "Form export (CSV)"
// @Security    BearerAuth
// @Success     200 {object} ingest.Report
// @Failure     400 {object} presenter.ErrorResponse
// @Failure     401 {object} presenter.ErrorResponse
// @Failure     422 {object} presenter.SourceErrorResponse
// @Failure     502 {object} presenter.ErrorResponse
// @Router      /imports [post]
func (h *ImportsHandler) Create(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		rep, err := h.svc.Run(c.Context(), h.sourcePath)
		if err != nil {
			return respondError(c, err)
		}
		return presenter.JSON(c, http.StatusOK, rep)
	}

	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".csv" {
		return presenter.Error(c, http.StatusBadRequest, "unsupported file format: only csv is allowed")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	rep, err := h.svc.RunReader(c.Context(), filepath.Base(fh.Filename), bytes.NewReader(data))
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, rep)
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
