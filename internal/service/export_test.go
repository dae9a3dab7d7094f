package service

import (
	"time"

	"github.com/shenikar/fala_cidadao/internal/models"
)

// WithClock подменяет часы и генератор идентификаторов сервиса
func WithClock(s ReportService, now func() time.Time, randN models.RandFunc) ReportService {
	rs := s.(*reportService)
	rs.now = now
	rs.randN = randN
	return rs
}
