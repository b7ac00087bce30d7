package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lm1285/project3-instrument-management-sub001/internal/dto"
	"github.com/lm1285/project3-instrument-management-sub001/internal/service"
	appErrors "github.com/lm1285/project3-instrument-management-sub001/pkg/errors"
	"github.com/lm1285/project3-instrument-management-sub001/pkg/response"
)

type importService interface {
	ImportRows(ctx context.Context, rows []map[string]string) dto.ImportReport
}

type exportService interface {
	Export(ctx context.Context, format string) (*service.ExportFile, error)
}

// TransferHandler exposes bulk import and inventory export endpoints.
type TransferHandler struct {
	importer importService
	exporter exportService
}

// NewTransferHandler builds a new handler.
func NewTransferHandler(importer importService, exporter exportService) *TransferHandler {
	return &TransferHandler{importer: importer, exporter: exporter}
}

// Register wires the handler routes onto the given group.
func (h *TransferHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/instruments/import", h.Import)
	rg.GET("/instruments/export", h.Export)
}

// Import godoc
// @Summary Bulk import parsed spreadsheet rows
// @Tags Transfer
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instruments/import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
		return
	}
	report := h.importer.ImportRows(c.Request.Context(), req.Rows)
	response.JSON(c, http.StatusOK, report)
}

// Export godoc
// @Summary Export the inventory list
// @Tags Transfer
// @Produce octet-stream
// @Param format query string true "csv or pdf"
// @Router /instruments/export [get]
func (h *TransferHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportFormatCSV)
	file, err := h.exporter.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
