package emr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medconsult/consult-api/internal/handler"
	"github.com/medconsult/consult-api/internal/i18n"
	"github.com/medconsult/consult-api/internal/model"
	emrService "github.com/medconsult/consult-api/internal/service/emr"
	reportService "github.com/medconsult/consult-api/internal/service/report"
	"github.com/medconsult/consult-api/pkg/httputil"
)

type Handler struct {
	service   *emrService.Service
	reportSvc *reportService.Service
}

func NewHandler(service *emrService.Service, reportSvc *reportService.Service) *Handler {
	return &Handler{service: service, reportSvc: reportSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/emr/submit", h.Submit)

	emrs := r.Group("/emrs")
	{
		emrs.GET("", h.List)
		emrs.PUT("/:id", h.Update)
		emrs.GET("/:id/generate-pdf", h.GeneratePDF)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.SubmitEMRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(err.Error()))
		return
	}

	emr, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "EMR submitted successfully",
		"emrId":   emr.ID,
	})
}

func (h *Handler) List(c *gin.Context) {
	userID := c.Query("userId")
	userRole := c.Query("userRole")

	emrs, err := h.service.List(c.Request.Context(), userID, userRole)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse(emrs))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse("invalid emr ID"))
		return
	}

	var req model.UpdateEMRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(err.Error()))
		return
	}
	if len(req.Updates) == 0 {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse("no updates provided"))
		return
	}

	emr, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if emr == nil {
		// Every requested field was filtered out: a no-op, not an error.
		c.JSON(http.StatusOK, &httputil.Response{Status: "success", Message: "no changes applied"})
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse(emr))
}

func (h *Handler) GeneratePDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse("invalid emr ID"))
		return
	}

	lang := i18n.Resolve(i18n.SignalsFromRequest(c.Request, ""))

	result, err := h.reportSvc.Generate(c.Request.Context(), id, lang)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", result.Data)
}
