package handler

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/ridwanfathin/rug-estimate-service/internal/export"
	"github.com/ridwanfathin/rug-estimate-service/internal/model"
	"github.com/ridwanfathin/rug-estimate-service/internal/service"
)

// EstimateHandler handles HTTP requests for rug estimates
type EstimateHandler struct {
	estimateService service.EstimateService
	logger          *slog.Logger
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(estimateService service.EstimateService, logger *slog.Logger) *EstimateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	useJSONFieldNames()
	return &EstimateHandler{
		estimateService: estimateService,
		logger:          logger,
	}
}

// ParseReport handles the POST /estimates/parse endpoint
// @Summary Parse a report letter
// @Description Extract priced service lines from a rug report letter without storing anything
// @Tags estimates
// @Accept json
// @Produce json
// @Param request body model.ParseRequest true "Letter text"
// @Success 200 {object} model.ParseResponse "Extracted services"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 429 {object} model.ErrorResponse "Rate limit exceeded"
// @Router /v1/estimates/parse [post]
func (h *EstimateHandler) ParseReport(c *gin.Context) {
	var req model.ParseRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput, bindingErrorDetails(err)...)
		return
	}

	items := h.estimateService.ParseReport(c.Request.Context(), req.Text)
	respondOK(c, model.ParseResponse{
		Services: model.NewServiceItemResponses(items),
		Count:    len(items),
	})
}

// CreateRug handles the POST /rugs endpoint
// @Summary Create a rug estimate
// @Description Parse the report letter and the raw photo annotations into a draft estimate
// @Tags rugs
// @Accept json
// @Produce json
// @Param request body model.CreateRugRequest true "Rug data"
// @Success 201 {object} model.RugEstimateResponse "Rug estimate created"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 429 {object} model.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/rugs [post]
func (h *EstimateHandler) CreateRug(c *gin.Context) {
	var req model.CreateRugRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput, bindingErrorDetails(err)...)
		return
	}

	estimate, err := h.estimateService.CreateEstimate(c.Request.Context(), req.ToInput())
	if err != nil {
		respondServiceError(c, h.logger, "estimate.create.failed", err)
		return
	}

	var resp model.RugEstimateResponse
	resp.FromDomain(estimate)
	respondCreated(c, resp)
}

// GetRug handles the GET /rugs/:rugId endpoint
// @Summary Get a rug estimate
// @Tags rugs
// @Produce json
// @Param rugId path string true "Rug estimate ID"
// @Success 200 {object} model.RugEstimateResponse "Rug estimate"
// @Failure 404 {object} model.ErrorResponse "Rug not found"
// @Router /v1/rugs/{rugId} [get]
func (h *EstimateHandler) GetRug(c *gin.Context) {
	rugID, err := getPathParam(c, "rugId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	estimate, err := h.estimateService.GetEstimate(c.Request.Context(), rugID)
	if err != nil {
		respondServiceError(c, h.logger, "estimate.get.failed", err)
		return
	}

	var resp model.RugEstimateResponse
	resp.FromDomain(estimate)
	respondOK(c, resp)
}

// ListJobRugs handles the GET /jobs/:jobId/rugs endpoint
// @Summary List the rugs of a job
// @Tags jobs
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} model.RugListResponse "Rugs in creation order"
// @Router /v1/jobs/{jobId}/rugs [get]
func (h *EstimateHandler) ListJobRugs(c *gin.Context) {
	jobID, err := getPathParam(c, "jobId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	estimates, err := h.estimateService.ListJobEstimates(c.Request.Context(), jobID)
	if err != nil {
		respondServiceError(c, h.logger, "estimate.list.failed", err)
		return
	}
	respondOK(c, model.NewRugListResponse(estimates))
}

// AddService handles the POST /rugs/:rugId/services endpoint
// @Summary Add a service line
// @Description Add a manual service; omitted fields default to "New Service", quantity 1, $0 and medium priority
// @Tags services
// @Accept json
// @Produce json
// @Param rugId path string true "Rug estimate ID"
// @Param request body model.AddServiceRequest false "Service fields"
// @Success 201 {object} model.ServiceItemResponse "Service added"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 404 {object} model.ErrorResponse "Rug not found"
// @Failure 409 {object} model.ErrorResponse "Rug already approved"
// @Router /v1/rugs/{rugId}/services [post]
func (h *EstimateHandler) AddService(c *gin.Context) {
	rugID, err := getPathParam(c, "rugId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	var req model.AddServiceRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput, bindingErrorDetails(err)...)
		return
	}

	item, err := h.estimateService.AddService(c.Request.Context(), rugID, req.ToDraft())
	if err != nil {
		respondServiceError(c, h.logger, "estimate.service_add.failed", err)
		return
	}
	respondCreated(c, model.NewServiceItemResponses([]domain.ServiceItem{*item})[0])
}

// ReplaceServices handles the PUT /rugs/:rugId/services endpoint
// @Summary Replace the service list
// @Description Store an edited service list; lines without an id get a new one
// @Tags services
// @Accept json
// @Produce json
// @Param rugId path string true "Rug estimate ID"
// @Param request body model.ReplaceServicesRequest true "Service lines"
// @Success 200 {object} model.RugEstimateResponse "Updated rug estimate"
// @Failure 400 {object} model.ErrorResponse "Validation failed"
// @Failure 404 {object} model.ErrorResponse "Rug not found"
// @Failure 409 {object} model.ErrorResponse "Rug already approved"
// @Router /v1/rugs/{rugId}/services [put]
func (h *EstimateHandler) ReplaceServices(c *gin.Context) {
	rugID, err := getPathParam(c, "rugId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	var req model.ReplaceServicesRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput, bindingErrorDetails(err)...)
		return
	}

	estimate, err := h.estimateService.ReplaceServices(c.Request.Context(), rugID, req.ToDomain())
	if err != nil {
		respondServiceError(c, h.logger, "estimate.service_replace.failed", err)
		return
	}

	var resp model.RugEstimateResponse
	resp.FromDomain(estimate)
	respondOK(c, resp)
}

// DeleteService handles the DELETE /rugs/:rugId/services/:serviceId endpoint
// @Summary Delete a service line
// @Tags services
// @Param rugId path string true "Rug estimate ID"
// @Param serviceId path string true "Service ID"
// @Success 204 "Service deleted"
// @Failure 404 {object} model.ErrorResponse "Rug or service not found"
// @Failure 409 {object} model.ErrorResponse "Rug already approved"
// @Router /v1/rugs/{rugId}/services/{serviceId} [delete]
func (h *EstimateHandler) DeleteService(c *gin.Context) {
	rugID, err := getPathParam(c, "rugId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}
	serviceID, err := getPathParam(c, "serviceId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	if err := h.estimateService.DeleteService(c.Request.Context(), rugID, serviceID); err != nil {
		respondServiceError(c, h.logger, "estimate.service_delete.failed", err)
		return
	}
	respondNoContent(c)
}

// GetAnnotations handles the GET /rugs/:rugId/photos/:photoIndex/annotations endpoint
// @Summary Get the markers of a photo
// @Tags annotations
// @Produce json
// @Param rugId path string true "Rug estimate ID"
// @Param photoIndex path int true "Photo index"
// @Success 200 {object} model.AnnotationsResponse "Markers, empty when the photo has none"
// @Failure 400 {object} model.ErrorResponse "Invalid photo index"
// @Failure 404 {object} model.ErrorResponse "Rug not found"
// @Router /v1/rugs/{rugId}/photos/{photoIndex}/annotations [get]
func (h *EstimateHandler) GetAnnotations(c *gin.Context) {
	rugID, photoIndex, ok := h.photoParams(c)
	if !ok {
		return
	}

	anns, err := h.estimateService.GetAnnotations(c.Request.Context(), rugID, photoIndex)
	if err != nil {
		respondServiceError(c, h.logger, "annotation.get.failed", err)
		return
	}
	respondOK(c, model.AnnotationsResponse{PhotoIndex: photoIndex, Annotations: anns})
}

// SaveAnnotations handles the PUT /rugs/:rugId/photos/:photoIndex/annotations endpoint
// @Summary Commit the markers of a photo
// @Description Replace the markers of one photo; coordinates are clamped to 0..100
// @Tags annotations
// @Accept json
// @Produce json
// @Param rugId path string true "Rug estimate ID"
// @Param photoIndex path int true "Photo index"
// @Param request body model.AnnotationsRequest true "Markers"
// @Success 200 {object} model.AnnotationsResponse "Committed markers"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 404 {object} model.ErrorResponse "Rug not found"
// @Router /v1/rugs/{rugId}/photos/{photoIndex}/annotations [put]
func (h *EstimateHandler) SaveAnnotations(c *gin.Context) {
	rugID, photoIndex, ok := h.photoParams(c)
	if !ok {
		return
	}

	var req model.AnnotationsRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput, bindingErrorDetails(err)...)
		return
	}

	anns, err := h.estimateService.SaveAnnotations(c.Request.Context(), rugID, photoIndex, req.Annotations)
	if err != nil {
		respondServiceError(c, h.logger, "annotation.commit.failed", err)
		return
	}
	respondOK(c, model.AnnotationsResponse{PhotoIndex: photoIndex, Annotations: anns})
}

// ReplayEditSession handles the POST /rugs/:rugId/photos/:photoIndex/edit-session endpoint
// @Summary Replay a marker edit session
// @Description Run recorded pointer events through the marker editor; a save event commits the markers
// @Tags annotations
// @Accept json
// @Produce json
// @Param rugId path string true "Rug estimate ID"
// @Param photoIndex path int true "Photo index"
// @Param request body model.EditSessionRequest true "Surface and events"
// @Success 200 {object} model.EditSessionResponse "Editor state after the replay"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 404 {object} model.ErrorResponse "Rug not found"
// @Failure 422 {object} model.ErrorResponse "Annotation index out of range"
// @Router /v1/rugs/{rugId}/photos/{photoIndex}/edit-session [post]
func (h *EstimateHandler) ReplayEditSession(c *gin.Context) {
	rugID, photoIndex, ok := h.photoParams(c)
	if !ok {
		return
	}

	var req model.EditSessionRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput, bindingErrorDetails(err)...)
		return
	}

	res, err := h.estimateService.ReplayEditSession(c.Request.Context(), rugID, photoIndex, req.Surface, req.Events)
	if err != nil {
		respondServiceError(c, h.logger, "annotation.session.failed", err)
		return
	}
	respondOK(c, model.NewEditSessionResponse(photoIndex, res))
}

// Quote handles the POST /jobs/:jobId/quote endpoint
// @Summary Price a service selection
// @Description Price the client's selection; rugs missing from selections keep every service and mandatory services are always kept
// @Tags jobs
// @Accept json
// @Produce json
// @Param jobId path string true "Job ID"
// @Param request body model.SelectionRequest false "Selected optional services per rug"
// @Success 200 {object} model.QuoteResponse "Priced selection"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 404 {object} model.ErrorResponse "Job has no rugs"
// @Router /v1/jobs/{jobId}/quote [post]
func (h *EstimateHandler) Quote(c *gin.Context) {
	jobID, req, ok := h.selectionParams(c)
	if !ok {
		return
	}

	quote, err := h.estimateService.Quote(c.Request.Context(), jobID, req.Selections)
	if err != nil {
		respondServiceError(c, h.logger, "estimate.quote.failed", err)
		return
	}
	respondOK(c, model.NewQuoteResponse(quote))
}

// Approve handles the POST /jobs/:jobId/approve endpoint
// @Summary Approve a service selection
// @Description Price the selection, record the approval and lock the job's service lists
// @Tags jobs
// @Accept json
// @Produce json
// @Param jobId path string true "Job ID"
// @Param request body model.SelectionRequest false "Selected optional services per rug"
// @Success 201 {object} model.ApprovalResponse "Approval recorded"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 404 {object} model.ErrorResponse "Job has no rugs"
// @Failure 409 {object} model.ErrorResponse "Job already approved"
// @Router /v1/jobs/{jobId}/approve [post]
func (h *EstimateHandler) Approve(c *gin.Context) {
	jobID, req, ok := h.selectionParams(c)
	if !ok {
		return
	}

	quote, approval, err := h.estimateService.Approve(c.Request.Context(), jobID, req.Selections)
	if err != nil {
		respondServiceError(c, h.logger, "estimate.approve.failed", err)
		return
	}
	respondCreated(c, model.NewApprovalResponse(quote, approval))
}

// ExportJob handles the GET /jobs/:jobId/export endpoint
// @Summary Download the job workbook
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param jobId path string true "Job ID"
// @Success 200 {file} file "XLSX workbook"
// @Failure 404 {object} model.ErrorResponse "Job has no rugs"
// @Router /v1/jobs/{jobId}/export [get]
func (h *EstimateHandler) ExportJob(c *gin.Context) {
	jobID, err := getPathParam(c, "jobId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	data, err := h.estimateService.ExportJob(c.Request.Context(), jobID)
	if err != nil {
		respondServiceError(c, h.logger, "export.xlsx.failed", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(jobID)))
	c.Data(StatusOK, export.ContentType, data)
}

// UploadExport handles the POST /jobs/:jobId/export/upload endpoint
// @Summary Upload the job workbook
// @Description Store the workbook in object storage and return its URL
// @Tags export
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} model.UploadResponse "Uploaded workbook"
// @Failure 404 {object} model.ErrorResponse "Job has no rugs"
// @Failure 503 {object} model.ErrorResponse "Storage not configured"
// @Router /v1/jobs/{jobId}/export/upload [post]
func (h *EstimateHandler) UploadExport(c *gin.Context) {
	jobID, err := getPathParam(c, "jobId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	url, err := h.estimateService.UploadJobExport(c.Request.Context(), jobID)
	if err != nil {
		respondServiceError(c, h.logger, "export.upload.failed", err)
		return
	}
	respondOK(c, model.UploadResponse{URL: url})
}

func (h *EstimateHandler) photoParams(c *gin.Context) (string, int, bool) {
	rugID, err := getPathParam(c, "rugId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return "", 0, false
	}
	photoIndex, err := getPathIndex(c, "photoIndex")
	if err != nil {
		respondBadRequest(c, ErrInvalidID, newErrorDetail("photoIndex", err.Error()))
		return "", 0, false
	}
	return rugID, photoIndex, true
}

func (h *EstimateHandler) selectionParams(c *gin.Context) (string, model.SelectionRequest, bool) {
	var req model.SelectionRequest
	jobID, err := getPathParam(c, "jobId")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return "", req, false
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput, bindingErrorDetails(err)...)
		return "", req, false
	}
	return jobID, req, true
}

// RegisterRoutes registers the API routes for the estimate handler. The
// limiter, when set, guards the endpoints that parse letters.
func (h *EstimateHandler) RegisterRoutes(router *gin.Engine, limiter gin.HandlerFunc) {
	// Create API group with base path
	api := router.Group("/v1")

	parsing := []gin.HandlerFunc{}
	if limiter != nil {
		parsing = append(parsing, limiter)
	}

	api.POST("/estimates/parse", append(parsing, h.ParseReport)...)

	rugs := api.Group("/rugs")
	{
		rugs.POST("", append(parsing, h.CreateRug)...)
		rugs.GET("/:rugId", h.GetRug)
		rugs.POST("/:rugId/services", h.AddService)
		rugs.PUT("/:rugId/services", h.ReplaceServices)
		rugs.DELETE("/:rugId/services/:serviceId", h.DeleteService)
		rugs.GET("/:rugId/photos/:photoIndex/annotations", h.GetAnnotations)
		rugs.PUT("/:rugId/photos/:photoIndex/annotations", h.SaveAnnotations)
		rugs.POST("/:rugId/photos/:photoIndex/edit-session", h.ReplayEditSession)
	}

	jobs := api.Group("/jobs")
	{
		jobs.GET("/:jobId/rugs", h.ListJobRugs)
		jobs.POST("/:jobId/quote", h.Quote)
		jobs.POST("/:jobId/approve", h.Approve)
		jobs.GET("/:jobId/export", h.ExportJob)
		jobs.POST("/:jobId/export/upload", h.UploadExport)
	}
}
