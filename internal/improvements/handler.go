package improvements

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-service/internal/resumes"
	"resume-service/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the improve endpoint. It is separate from history so the
// caller can put a stricter rate limit in front of it.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/:id/improve", h.improve)
}

// RegisterHistoryRoutes attaches the history endpoint.
func (h *Handler) RegisterHistoryRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/history_improvements", h.history)
}

func (h *Handler) improve(c *gin.Context) {
	ownerID, ok := resumes.CallerID(c)
	if !ok {
		return
	}
	id, ok := resumes.PathID(c)
	if !ok {
		return
	}

	tz := c.Query("time_zone")
	if tz == "" && c.Request.Body != nil && c.Request.ContentLength != 0 {
		var req improveRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respond.ErrorWithCause(c, http.StatusUnprocessableEntity, "validation_error", respond.DetailInvalidRequest, err)
			return
		}
		tz = req.TimeZone
	}

	rec, err := h.Svc.Improve(c.Request.Context(), id, ownerID, tz)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(rec))
}

func (h *Handler) history(c *gin.Context) {
	ownerID, ok := resumes.CallerID(c)
	if !ok {
		return
	}
	id, ok := resumes.PathID(c)
	if !ok {
		return
	}
	list, err := h.Svc.History(c.Request.Context(), id, ownerID, c.Query("time_zone"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponses(list))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidTimezone):
		respond.ErrorWithCause(c, http.StatusBadRequest, "invalid_timezone", DetailInvalidTimezone, err)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", resumes.DetailNotFound)
	case errors.Is(err, ErrImproverUnavailable):
		respond.ErrorWithCause(c, http.StatusBadGateway, "improver_unavailable", respond.DetailUnavailable, err)
	default:
		respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", respond.DetailInternal, err)
	}
}
