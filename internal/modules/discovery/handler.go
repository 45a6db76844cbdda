package discovery

import (
	"net/http"

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
	rg.GET("/products/nearby", h.Nearby)
}

func (h *Handler) Nearby(c *gin.Context) {
	var req NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lon are required")
		return
	}

	res, err := h.service.FindNearby(c.Request.Context(), req, c.GetInt64("user_id"))
	if err != nil {
		switch err {
		case ErrInvalidCoords:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Coordinates out of range")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search nearby products")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}
