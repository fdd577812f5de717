package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medconsult/consult-api/internal/handler"
	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/service/auth"
	"github.com/medconsult/consult-api/pkg/httputil"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse(resp))
}
