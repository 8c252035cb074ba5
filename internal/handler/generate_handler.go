package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/k11-scheduler/internal/dto"
	"github.com/noah-isme/k11-scheduler/internal/engine"
	appErrors "github.com/noah-isme/k11-scheduler/pkg/errors"
	"github.com/noah-isme/k11-scheduler/pkg/response"
)

// scheduleEngine is the subset of *engine.Engine the handler depends on,
// mirroring the teacher's interface-over-service pattern so the handler
// stays unit-testable without a real engine.
type scheduleEngine interface {
	Generate(ctx context.Context, req dto.GenerateRequest, onProgress engine.OnProgress) (*dto.GenerateResponse, error)
}

type proposalStore interface {
	Get(ctx context.Context, id string) (dto.GenerateResponse, bool, error)
	Delete(ctx context.Context, id string) error
}

// GenerateHandler exposes the timetable generation endpoint.
type GenerateHandler struct {
	engine scheduleEngine
	store  proposalStore
	logger *zap.Logger
}

// NewGenerateHandler constructs the handler.
func NewGenerateHandler(e scheduleEngine, store proposalStore, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{engine: e, store: store, logger: logger}
}

// Generate godoc
// @Summary Generate weekly timetable options
// @Description Runs the multi-attempt solver pipeline and returns up to numOptions diverse candidate schedules.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateRequest true "Generate request"
// @Success 200 {object} response.Envelope
// @Router /generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	onProgress := func(done, total int, message string) {
		h.logger.Debug("generation progress", zap.Int("done", done), zap.Int("total", total), zap.String("message", message))
	}

	result, err := h.engine.Generate(c.Request.Context(), req, onProgress)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// GetProposal godoc
// @Summary Fetch a cached generation response by proposal id
// @Tags Scheduler
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /proposals/{id} [get]
func (h *GenerateHandler) GetProposal(c *gin.Context) {
	resp, ok, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read cached proposal"))
		return
	}
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired"))
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// DeleteProposal godoc
// @Summary Evict a cached proposal
// @Tags Scheduler
// @Param id path string true "Proposal ID"
// @Success 204
// @Router /proposals/{id} [delete]
func (h *GenerateHandler) DeleteProposal(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to evict cached proposal"))
		return
	}
	response.NoContent(c)
}
