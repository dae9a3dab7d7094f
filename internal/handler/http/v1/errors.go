package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/fala_cidadao/internal/evidence"
	"github.com/shenikar/fala_cidadao/internal/service"
	"github.com/sirupsen/logrus"
)

// ReporterHeader - анонимный идентификатор гражданина, выданный клиенту
const ReporterHeader = "X-Reporter-ID"

// respondError переводит ошибки сервиса в HTTP-ответ
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	var evErr evidence.Error
	switch {
	case errors.As(err, &evErr):
		log.WithField("kind", evErr.Kind()).Info("Evidence rejected")
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: string(evErr.Kind()), Message: evErr.Error()})
	case errors.Is(err, service.ErrReportNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "report not found"})
	case errors.Is(err, service.ErrEmptyNote),
		errors.Is(err, service.ErrEmptyDescription),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, errNotMultipart):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errUploadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrCollectionBusy):
		log.WithError(err).Warn("Collection lock not obtained")
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func reporterID(c *gin.Context) string {
	return c.GetHeader(ReporterHeader)
}
