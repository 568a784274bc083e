package resumes

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-service/internal/shared/server/middleware"
	"resume-service/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/", h.create)
	rg.GET("/resumes/", h.list)
	rg.POST("/resumes/import", h.importFile)
	rg.GET("/resumes/:id", h.get)
	rg.PATCH("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.delete)
}

// CallerID returns the authenticated user or aborts with 401.
func CallerID(c *gin.Context) (int64, bool) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", respond.DetailUnauthorized)
		return 0, false
	}
	return id, true
}

// PathID parses the :id segment. Non-integer ids answer 404 like any other unknown resume.
func PathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", DetailNotFound)
		return 0, false
	}
	c.Set("resumeId", id)
	return id, true
}

func (h *Handler) create(c *gin.Context) {
	ownerID, ok := CallerID(c)
	if !ok {
		return
	}
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ErrorWithCause(c, http.StatusUnprocessableEntity, "validation_error", respond.DetailInvalidRequest, err)
		return
	}

	resume, err := h.Svc.Create(c.Request.Context(), ownerID, *req.Title, *req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("resumeId", resume.ID)
	respond.JSON(c, http.StatusCreated, toResponse(resume))
}

func (h *Handler) list(c *gin.Context) {
	ownerID, ok := CallerID(c)
	if !ok {
		return
	}
	list, err := h.Svc.List(c.Request.Context(), ownerID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponses(list))
}

func (h *Handler) get(c *gin.Context) {
	ownerID, ok := CallerID(c)
	if !ok {
		return
	}
	id, ok := PathID(c)
	if !ok {
		return
	}
	resume, err := h.Svc.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) update(c *gin.Context) {
	ownerID, ok := CallerID(c)
	if !ok {
		return
	}
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ErrorWithCause(c, http.StatusUnprocessableEntity, "validation_error", respond.DetailInvalidRequest, err)
		return
	}

	resume, err := h.Svc.Update(c.Request.Context(), id, ownerID, Patch{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) delete(c *gin.Context) {
	ownerID, ok := CallerID(c)
	if !ok {
		return
	}
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, ownerID); err != nil {
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) importFile(c *gin.Context) {
	ownerID, ok := CallerID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.ErrorWithCause(c, http.StatusUnprocessableEntity, "validation_error", respond.DetailInvalidRequest, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.ErrorWithCause(c, http.StatusUnprocessableEntity, "validation_error", respond.DetailInvalidRequest, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.ErrorWithCause(c, http.StatusUnprocessableEntity, "validation_error", respond.DetailInvalidRequest, err)
		return
	}

	resume, err := h.Svc.Import(c.Request.Context(), ownerID, c.PostForm("title"), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("resumeId", resume.ID)
	respond.JSON(c, http.StatusCreated, toResponse(resume))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", DetailNotFound)
	case errors.Is(err, ErrInvalidInput):
		respond.ErrorWithCause(c, http.StatusUnprocessableEntity, "validation_error", respond.DetailInvalidRequest, err)
	default:
		respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", respond.DetailInternal, err)
	}
}
