package report

import (
	"net/http"
	"strconv"

	"rentlens/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reports", h.Create)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports", h.List)
	rg.GET("/reports/:id", h.GetByID)
	rg.POST("/reports/:id/review", h.MarkReviewed)
	rg.POST("/reports/:id/dismiss", h.Dismiss)
	rg.POST("/reports/:id/resolve", h.Resolve)
	rg.POST("/reports/:id/ban", h.BanAndResolve)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid report payload")
		return
	}

	rep, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"report": rep})
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	reports, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reports": reports, "total": total})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	rep, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": rep})
}

func (h *Handler) MarkReviewed(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid review payload")
		return
	}

	rep, err := h.service.MarkReviewed(c.Request.Context(), id, c.GetInt64("user_id"), req.Notes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": rep})
}

func (h *Handler) Dismiss(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid review payload")
		return
	}

	rep, err := h.service.Dismiss(c.Request.Context(), id, c.GetInt64("user_id"), req.Notes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": rep})
}

func (h *Handler) Resolve(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid review payload")
		return
	}

	rep, err := h.service.Resolve(c.Request.Context(), id, c.GetInt64("user_id"), req.Notes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": rep})
}

func (h *Handler) BanAndResolve(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Ban reason is required")
		return
	}

	rep, err := h.service.BanAndResolve(c.Request.Context(), id, c.GetInt64("user_id"), req.Notes, req.BanReason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": rep})
}

func (h *Handler) reportID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid report ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation, ErrEmptyReason:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Report not found")
	case ErrTargetNotFound:
		response.Error(c, http.StatusNotFound, "TARGET_NOT_FOUND", "Reported target not found")
	case ErrAlreadyReviewed:
		response.Conflict(c, "ALREADY_REVIEWED", "Report has already been reviewed")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
