package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lm1285/project3-instrument-management-sub001/internal/dto"
	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
	appErrors "github.com/lm1285/project3-instrument-management-sub001/pkg/errors"
	"github.com/lm1285/project3-instrument-management-sub001/pkg/response"
)

type instrumentService interface {
	List(ctx context.Context) []models.InstrumentRecord
	Get(ctx context.Context, id string) (*models.InstrumentRecord, error)
	Create(ctx context.Context, patch models.InstrumentPatch) (*models.InstrumentRecord, error)
	Update(ctx context.Context, id string, patch models.InstrumentPatch) (*models.InstrumentRecord, error)
	Delete(ctx context.Context, id string) error
	CheckOut(ctx context.Context, req dto.OperationRequest) (*models.InstrumentRecord, error)
	CheckIn(ctx context.Context, req dto.OperationRequest) (*models.InstrumentRecord, error)
	MarkUsed(ctx context.Context, req dto.OperationRequest) (*models.InstrumentRecord, error)
	Delay(ctx context.Context, req dto.DelayRequest) (*models.InstrumentRecord, error)
	DeleteToday(ctx context.Context, req dto.OperationRequest) (*models.InstrumentRecord, error)
	LookupByCode(ctx context.Context, code string) dto.QRLookupResult
}

type searchService interface {
	Search(ctx context.Context, query string) []models.InstrumentRecord
	Suggest(ctx context.Context, query string) []string
}

type lifecycleService interface {
	TodayView(ctx context.Context, query string) []models.InstrumentRecord
}

// InstrumentHandler exposes the record, search, and lifecycle endpoints.
type InstrumentHandler struct {
	instruments instrumentService
	search      searchService
	lifecycle   lifecycleService
}

// NewInstrumentHandler builds a new handler.
func NewInstrumentHandler(instruments instrumentService, search searchService, lifecycle lifecycleService) *InstrumentHandler {
	return &InstrumentHandler{instruments: instruments, search: search, lifecycle: lifecycle}
}

// Register wires the handler routes onto the given group.
func (h *InstrumentHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/instruments", h.List)
	rg.POST("/instruments", h.Create)
	rg.GET("/instruments/search", h.Search)
	rg.GET("/instruments/suggestions", h.Suggestions)
	rg.GET("/instruments/today", h.Today)
	rg.GET("/instruments/:id", h.Get)
	rg.PUT("/instruments/:id", h.Update)
	rg.DELETE("/instruments/:id", h.Delete)
	rg.POST("/instruments/check-out", h.CheckOut)
	rg.POST("/instruments/check-in", h.CheckIn)
	rg.POST("/instruments/mark-used", h.MarkUsed)
	rg.POST("/instruments/delay", h.Delay)
	rg.POST("/instruments/delete-today", h.DeleteToday)
	rg.POST("/instruments/qr-lookup", h.QRLookup)
}

// List godoc
// @Summary List all instrument records
// @Tags Instruments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instruments [get]
func (h *InstrumentHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.instruments.List(c.Request.Context()))
}

// Create godoc
// @Summary Add an instrument record
// @Tags Instruments
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /instruments [post]
func (h *InstrumentHandler) Create(c *gin.Context) {
	var patch models.InstrumentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}
	record, err := h.instruments.Create(c.Request.Context(), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Get returns one record by id.
func (h *InstrumentHandler) Get(c *gin.Context) {
	record, err := h.instruments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Update godoc
// @Summary Merge-patch an instrument record
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Record id"
// @Success 200 {object} response.Envelope
// @Router /instruments/{id} [put]
func (h *InstrumentHandler) Update(c *gin.Context) {
	var patch models.InstrumentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid patch payload"))
		return
	}
	record, err := h.instruments.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Delete hard-removes a record.
func (h *InstrumentHandler) Delete(c *gin.Context) {
	if err := h.instruments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Search godoc
// @Summary Search instrument records
// @Tags Instruments
// @Produce json
// @Param q query string false "Query text"
// @Success 200 {object} response.Envelope
// @Router /instruments/search [get]
func (h *InstrumentHandler) Search(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.search.Search(c.Request.Context(), c.Query("q")))
}

// Suggestions returns typeahead suggestions for an in-progress query.
func (h *InstrumentHandler) Suggestions(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.search.Suggest(c.Request.Context(), c.Query("q")))
}

// Today godoc
// @Summary Daily-operations view
// @Tags Instruments
// @Produce json
// @Param q query string false "Override query"
// @Success 200 {object} response.Envelope
// @Router /instruments/today [get]
func (h *InstrumentHandler) Today(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.lifecycle.TodayView(c.Request.Context(), c.Query("q")))
}

// CheckOut marks an instrument as removed from storage.
func (h *InstrumentHandler) CheckOut(c *gin.Context) {
	h.operation(c, h.instruments.CheckOut)
}

// CheckIn marks an instrument as returned to storage.
func (h *InstrumentHandler) CheckIn(c *gin.Context) {
	h.operation(c, h.instruments.CheckIn)
}

// MarkUsed flags an instrument as consumed.
func (h *InstrumentHandler) MarkUsed(c *gin.Context) {
	h.operation(c, h.instruments.MarkUsed)
}

// DeleteToday hides a record from the daily-operations view.
func (h *InstrumentHandler) DeleteToday(c *gin.Context) {
	h.operation(c, h.instruments.DeleteToday)
}

// Delay godoc
// @Summary Extend a record's daily-view visibility window
// @Tags Instruments
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instruments/delay [post]
func (h *InstrumentHandler) Delay(c *gin.Context) {
	var req dto.DelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid delay payload"))
		return
	}
	record, err := h.instruments.Delay(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// QRLookup resolves a decoded QR string as a management number.
func (h *InstrumentHandler) QRLookup(c *gin.Context) {
	var req dto.QRLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lookup payload"))
		return
	}
	response.JSON(c, http.StatusOK, h.instruments.LookupByCode(c.Request.Context(), req.Code))
}

func (h *InstrumentHandler) operation(c *gin.Context, op func(context.Context, dto.OperationRequest) (*models.InstrumentRecord, error)) {
	var req dto.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid operation payload"))
		return
	}
	record, err := op(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}
