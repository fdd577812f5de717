package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medconsult/consult-api/internal/handler"
	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/service/doctor"
	"github.com/medconsult/consult-api/pkg/httputil"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/doctors", h.List)
	r.POST("/users/doctor", h.Create)
	r.PUT("/doctor-profiles/:userId", h.UpdateProfile)
	r.DELETE("/users/doctor/:userId", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	doctors, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(doctors))
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httputil.NewSuccessResponse(created))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse("invalid user ID"))
		return
	}

	var req model.UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(err.Error()))
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse(profile))
}

func (h *Handler) Delete(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse("invalid user ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &httputil.Response{Status: "success", Message: "doctor deleted successfully"})
}
