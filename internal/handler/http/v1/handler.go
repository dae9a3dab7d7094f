package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/fala_cidadao/internal/config"
	"github.com/shenikar/fala_cidadao/internal/evidence"
	"github.com/shenikar/fala_cidadao/internal/metrics"
	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/shenikar/fala_cidadao/internal/service"
	"github.com/shenikar/fala_cidadao/internal/triage"
	"github.com/sirupsen/logrus"
)

// StreamServer подключает клиента к ленте изменений
type StreamServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, city string) error
}

type Handler struct {
	reportService service.ReportService
	stream        StreamServer
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

// NewHandler создаёт обработчики; stream может быть nil, тогда лента отключена
func NewHandler(reportService service.ReportService, stream StreamServer, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		reportService: reportService,
		stream:        stream,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// @Summary List categories
// @Description Get the closed list of report categories
// @Tags Reports
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /categories [get]
func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoriesResponse{Categories: models.Categories, All: models.CategoryAll})
}

// @Summary Get a list of reports
// @Description Get reports of one city or of all cities, with optional filters
// @Tags Reports
// @Produce json
// @Param view query string false "city or all" default(city)
// @Param city query string false "City for the city view"
// @Param scope query string false "all or mine (uses X-Reporter-ID)" default(all)
// @Param category query string false "Category filter"
// @Param status query string false "Status filter"
// @Param q query string false "Free text search"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} ReportSummaryResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	log := h.logger.WithField("method", "listReports")

	reports, err := h.reportService.List(c.Request.Context(), h.listFilter(c))
	if err != nil {
		respondError(c, log, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	c.Header("X-Total-Count", strconv.Itoa(len(reports)))
	c.JSON(http.StatusOK, ReportsToSummaryResponses(paginate(reports, page, pageSize), reporterID(c)))
}

// @Summary Reports map layer
// @Description Get filtered reports with a location as a GeoJSON FeatureCollection
// @Tags Reports
// @Produce json
// @Param view query string false "city or all" default(city)
// @Param city query string false "City for the city view"
// @Param category query string false "Category filter"
// @Param status query string false "Status filter"
// @Success 200 {object} map[string]interface{} "GeoJSON FeatureCollection"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports/geojson [get]
func (h *Handler) reportsGeoJSON(c *gin.Context) {
	log := h.logger.WithField("method", "reportsGeoJSON")

	reports, err := h.reportService.List(c.Request.Context(), h.listFilter(c))
	if err != nil {
		respondError(c, log, err)
		return
	}

	data, err := ReportsToFeatureCollection(reports).MarshalJSON()
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

// @Summary Get a report by ID
// @Description Get a single report with public photos, history and authority responses
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 404 {object} ErrorResponse "Report not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports/{id} [get]
func (h *Handler) getReport(c *gin.Context) {
	log := h.logger.WithField("method", "getReport")
	id := c.Param("id")

	report, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, log.WithField("id", id), err)
		return
	}
	c.JSON(http.StatusOK, ReportToResponse(report, reporterID(c)))
}

// @Summary Live report changes
// @Description Upgrade to a WebSocket and receive change events, optionally for one city
// @Tags Reports
// @Param city query string false "Only events of this city"
// @Success 101 "Switching Protocols"
// @Failure 503 {object} ErrorResponse "Stream disabled"
// @Router /reports/stream [get]
func (h *Handler) streamReports(c *gin.Context) {
	log := h.logger.WithField("method", "streamReports")

	if h.stream == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "stream disabled"})
		return
	}
	// ответ при неудачном upgrade уже записан
	if err := h.stream.ServeWS(c.Writer, c.Request, c.Query("city")); err != nil {
		log.WithError(err).Warn("Failed to attach stream client")
	}
}

// @Summary Find duplicate candidates
// @Description Score a draft against existing reports of the same city and return the best matches
// @Tags Triage
// @Accept json
// @Produce json
// @Param draft body TriageRequest true "Draft report"
// @Success 200 {array} TriageCandidateResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /triage [post]
func (h *Handler) triage(c *gin.Context) {
	var input TriageRequest
	log := h.logger.WithField("method", "triage")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	candidates, err := h.reportService.Triage(c.Request.Context(), triage.Input{
		City:         input.City,
		Category:     input.Category,
		Neighborhood: input.Neighborhood,
		Street:       input.Street,
		Description:  input.Description,
	})
	if err != nil {
		respondError(c, log, err)
		return
	}

	metrics.ObserveTriage(len(candidates))
	c.JSON(http.StatusOK, CandidatesToResponses(candidates, reporterID(c)))
}

// @Summary Inspect evidence photos
// @Description Check photo count, geotags and location consistency without re-encoding
// @Tags Evidence
// @Accept multipart/form-data
// @Produce json
// @Param photos formData file true "New photos"
// @Param selected formData file false "Previously selected photos"
// @Param last_modified formData []int false "Last modified time in ms, selected first"
// @Success 200 {object} InspectionResponse
// @Failure 400 {object} ErrorResponse "Not a multipart form"
// @Failure 413 {object} ErrorResponse "Upload too large"
// @Failure 422 {object} ErrorResponse "Evidence rejected"
// @Router /evidence/inspect [post]
func (h *Handler) inspectEvidence(c *gin.Context) {
	log := h.logger.WithField("method", "inspectEvidence")

	files, _, err := h.readEvidence(c)
	if err != nil {
		respondError(c, log, err)
		return
	}

	inspection, err := h.reportService.InspectEvidence(c.Request.Context(), files)
	metrics.ObserveEvidence("inspect", err)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, InspectionToResponse(inspection))
}

// @Summary Create a new report
// @Description Register a report with 2 to 5 geotagged photos taken at the same place
// @Tags Reports
// @Accept multipart/form-data
// @Produce json
// @Param X-Reporter-ID header string false "Anonymous reporter ID"
// @Param focus_city formData string false "City selected in the app"
// @Param neighborhood formData string true "Neighborhood"
// @Param street formData string true "Street"
// @Param landmark formData string false "Landmark"
// @Param category formData string true "Category"
// @Param description formData string true "Description"
// @Param photos formData file true "Photos"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} ErrorResponse "Invalid form or validation error"
// @Failure 409 {object} ErrorResponse "Collection busy"
// @Failure 413 {object} ErrorResponse "Upload too large"
// @Failure 422 {object} ErrorResponse "Evidence rejected"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports [post]
func (h *Handler) createReport(c *gin.Context) {
	log := h.logger.WithField("method", "createReport")

	files, form, err := h.readEvidence(c)
	if err != nil {
		respondError(c, log, err)
		return
	}

	input := CreateReportForm{
		FocusCity:    formValue(form, "focus_city"),
		Neighborhood: formValue(form, "neighborhood"),
		Street:       formValue(form, "street"),
		Landmark:     formValue(form, "landmark"),
		Category:     formValue(form, "category"),
		Description:  formValue(form, "description"),
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), service.CreateReportInput{
		FocusCity:    input.FocusCity,
		Neighborhood: input.Neighborhood,
		Street:       input.Street,
		Landmark:     input.Landmark,
		Category:     input.Category,
		Description:  input.Description,
		ReporterID:   reporterID(c),
		Photos:       files,
		OnProgress: func(p evidence.Progress) {
			log.WithFields(logrus.Fields{"done": p.Done, "total": p.Total, "file": p.FileName}).Debug("Photo processed")
		},
	})
	metrics.ObserveEvidence("create", err)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ReportToResponse(report, reporterID(c)))
}

// @Summary Confirm a report
// @Description Register that another citizen sees the same problem
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param confirmation body ConfirmRequest true "Confirmation note"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 404 {object} ErrorResponse "Report not found"
// @Failure 409 {object} ErrorResponse "Collection busy"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports/{id}/confirm [post]
func (h *Handler) confirmReport(c *gin.Context) {
	var input ConfirmRequest
	id := c.Param("id")
	log := h.logger.WithFields(logrus.Fields{"method": "confirmReport", "id": id})

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.reportService.Confirm(c.Request.Context(), id, input.Note)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ReportToResponse(report, reporterID(c)))
}

// @Summary Attach new evidence
// @Description Attach 2 to 5 photos taken near the stored report location
// @Tags Reports
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Report ID"
// @Param note formData string true "What changed"
// @Param photos formData file true "Photos"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse "Invalid form"
// @Failure 404 {object} ErrorResponse "Report not found"
// @Failure 413 {object} ErrorResponse "Upload too large"
// @Failure 422 {object} ErrorResponse "Evidence rejected"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports/{id}/evidence [post]
func (h *Handler) attachEvidence(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithFields(logrus.Fields{"method": "attachEvidence", "id": id})

	files, form, err := h.readEvidence(c)
	if err != nil {
		respondError(c, log, err)
		return
	}

	report, err := h.reportService.AttachEvidence(c.Request.Context(), id, formValue(form, "note"), files)
	metrics.ObserveEvidence("attach", err)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ReportToResponse(report, reporterID(c)))
}

// @Summary Update report status
// @Description Change the status of a report. Requires API key.
// @Tags Authority
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} ErrorResponse "Report not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports/{id}/status [patch]
func (h *Handler) updateStatus(c *gin.Context) {
	var input UpdateStatusRequest
	id := c.Param("id")
	log := h.logger.WithFields(logrus.Fields{"method": "updateStatus", "id": id})

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.reportService.UpdateStatus(c.Request.Context(), id, models.Status(input.Status), input.Note)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ReportToResponse(report, ""))
}

// @Summary Add authority response
// @Description Record a response of the responsible body, optionally changing the status. Requires API key.
// @Tags Authority
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Param response body AuthorityReplyRequest true "Authority response"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} ErrorResponse "Report not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports/{id}/responses [post]
func (h *Handler) addAuthorityResponse(c *gin.Context) {
	var input AuthorityReplyRequest
	id := c.Param("id")
	log := h.logger.WithFields(logrus.Fields{"method": "addAuthorityResponse", "id": id})

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.reportService.AddAuthorityResponse(c.Request.Context(), id, service.AuthorityResponseInput{
		ProtocolID: input.ProtocolID,
		Message:    input.Message,
		Status:     models.Status(input.Status),
	})
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ReportToResponse(report, ""))
}

// @Summary Health check
// @Description Check if the service is running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listFilter(c *gin.Context) service.ListFilter {
	view := c.DefaultQuery("view", service.ViewCity)
	city := c.Query("city")
	if city == "" && view != service.ViewAll {
		city = h.cfg.DefaultCity
	}
	return service.ListFilter{
		View:       view,
		City:       city,
		Scope:      c.DefaultQuery("scope", service.ScopeAll),
		ReporterID: reporterID(c),
		Category:   c.Query("category"),
		Status:     models.Status(c.Query("status")),
		Query:      c.Query("q"),
	}
}

func paginate(reports []*models.Report, page, pageSize int) []*models.Report {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(reports) {
		return []*models.Report{}
	}
	end := start + pageSize
	if end > len(reports) {
		end = len(reports)
	}
	return reports[start:end]
}
