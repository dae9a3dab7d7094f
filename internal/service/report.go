package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shenikar/fala_cidadao/internal/config"
	"github.com/shenikar/fala_cidadao/internal/events"
	"github.com/shenikar/fala_cidadao/internal/evidence"
	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/shenikar/fala_cidadao/internal/triage"
	"github.com/sirupsen/logrus"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrEmptyNote        = errors.New("note is required")
	ErrEmptyDescription = errors.New("description is required")
	ErrEmptyMessage     = errors.New("response message is required")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidCategory  = errors.New("unknown category")
	ErrIDSpaceExhausted = models.ErrIDSpaceExhausted
	// ErrCollectionBusy - коллекцию сейчас изменяет другой запрос
	ErrCollectionBusy = errors.New("reports are being updated, try again")
)

// ReportRepository определяет контракт хранилища коллекции обращений.
// Коллекция читается и записывается целиком.
// Load может отдать кешированный снимок; внутри WithLock используется LoadFresh
type ReportRepository interface {
	Load(ctx context.Context) ([]*models.Report, error)
	LoadFresh(ctx context.Context) ([]*models.Report, error)
	Save(ctx context.Context, reports []*models.Report) error
	IsSeeded(ctx context.Context) (bool, error)
	MarkSeeded(ctx context.Context) error
}

// Locker сериализует цикл "загрузить-изменить-сохранить" между репликами
type Locker interface {
	WithLock(ctx context.Context, fn func(ctx context.Context) error) error
}

// EvidenceIngester проверяет и перекодирует фото-доказательства
type EvidenceIngester interface {
	Inspect(files []evidence.File, opts evidence.Options) (*evidence.Inspection, error)
	Ingest(files []evidence.File, opts evidence.Options) (*evidence.Result, error)
}

// Geocoder определяет город по координатам
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (models.Place, error)
}

// EventPublisher получает уведомления о сохранённых изменениях
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event)
}

// CreateReportInput - данные нового обращения
type CreateReportInput struct {
	FocusCity    string
	Neighborhood string
	Street       string
	Landmark     string
	Category     string
	Description  string
	ReporterID   string
	Photos       []evidence.File
	OnProgress   evidence.ProgressFunc
}

// AuthorityResponseInput - ответ органа власти
type AuthorityResponseInput struct {
	ProtocolID string
	Message    string
	// Status - необязательная смена статуса вместе с ответом
	Status models.Status
}

// ReportService определяет контракт бизнес-логики обращений
type ReportService interface {
	Seed(ctx context.Context) error
	List(ctx context.Context, filter ListFilter) ([]*models.Report, error)
	Get(ctx context.Context, id string) (*models.Report, error)
	Triage(ctx context.Context, in triage.Input) ([]triage.Candidate, error)
	InspectEvidence(ctx context.Context, files []evidence.File) (*evidence.Inspection, error)
	Create(ctx context.Context, in CreateReportInput) (*models.Report, error)
	Confirm(ctx context.Context, id, note string) (*models.Report, error)
	AttachEvidence(ctx context.Context, id, note string, files []evidence.File) (*models.Report, error)
	UpdateStatus(ctx context.Context, id string, status models.Status, note string) (*models.Report, error)
	AddAuthorityResponse(ctx context.Context, id string, in AuthorityResponseInput) (*models.Report, error)
}

type reportService struct {
	repo      ReportRepository
	locker    Locker
	ingester  EvidenceIngester
	geocoder  Geocoder
	publisher EventPublisher
	logger    *logrus.Logger
	cfg       *config.Config

	now   func() time.Time
	randN models.RandFunc
}

// NewReportService создаёт сервис; geocoder может быть nil, тогда город берётся из фокуса
func NewReportService(
	repo ReportRepository,
	locker Locker,
	ingester EvidenceIngester,
	geocoder Geocoder,
	publisher EventPublisher,
	logger *logrus.Logger,
	cfg *config.Config,
) ReportService {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &reportService{
		repo:      repo,
		locker:    locker,
		ingester:  ingester,
		geocoder:  geocoder,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		randN:     rnd.Intn,
	}
}

// Seed загружает стартовые обращения в пустое хранилище, один раз
func (s *reportService) Seed(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "Seed",
	})

	var seeded []*models.Report
	err := s.locker.WithLock(ctx, func(ctx context.Context) error {
		done, err := s.repo.IsSeeded(ctx)
		if err != nil {
			return fmt.Errorf("could not read seeded flag: %w", err)
		}
		if done {
			return nil
		}

		current, err := s.repo.LoadFresh(ctx)
		if err != nil {
			return fmt.Errorf("could not load reports: %w", err)
		}

		if len(current) == 0 {
			reports, err := models.NormalizeSeed(models.SeedReports, s.now(), s.randN)
			if err != nil {
				return err
			}
			if err := s.repo.Save(ctx, reports); err != nil {
				return fmt.Errorf("could not save seed reports: %w", err)
			}
			seeded = reports
		}

		return s.repo.MarkSeeded(ctx)
	})
	if err != nil {
		log.WithError(err).Error("Failed to seed reports")
		return fmt.Errorf("service: could not seed reports: %w", err)
	}

	if seeded != nil {
		log.WithField("count", len(seeded)).Info("Seed reports stored")
		s.publish(ctx, events.KindCollectionSeeded, nil)
	}
	return nil
}

// List возвращает обращения, отобранные фильтрами панели
func (s *reportService) List(ctx context.Context, filter ListFilter) ([]*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "List",
		"view":    filter.View,
		"city":    filter.City,
	})

	reports, err := s.repo.Load(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load reports from repository")
		return nil, fmt.Errorf("service: could not list reports: %w", err)
	}

	result := FilterReports(reports, filter)
	log.WithField("count", len(result)).Debug("Reports listed successfully")
	return result, nil
}

// Get возвращает обращение по идентификатору
func (s *reportService) Get(ctx context.Context, id string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "Get",
		"report_id": id,
	})

	reports, err := s.repo.Load(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load reports from repository")
		return nil, fmt.Errorf("service: could not get report: %w", err)
	}

	r := findReport(reports, id)
	if r == nil {
		log.Warn("Report not found")
		return nil, ErrReportNotFound
	}
	return r, nil
}

// Triage ищет среди сохранённых обращений вероятные дубликаты
func (s *reportService) Triage(ctx context.Context, in triage.Input) ([]triage.Candidate, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "report",
		"method":   "Triage",
		"city":     in.City,
		"category": in.Category,
	})

	reports, err := s.repo.Load(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load reports from repository")
		return nil, fmt.Errorf("service: could not run triage: %w", err)
	}

	candidates := triage.FindDuplicates(in, reports, s.triageOptions())
	log.WithField("candidates", len(candidates)).Info("Triage completed")
	return candidates, nil
}

// InspectEvidence выполняет проверки фото без перекодирования
func (s *reportService) InspectEvidence(ctx context.Context, files []evidence.File) (*evidence.Inspection, error) {
	inspection, err := s.ingester.Inspect(files, s.evidenceOptions(nil, nil))
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "report",
			"method":  "InspectEvidence",
			"files":   len(files),
		}).WithError(err).Info("Evidence rejected")
		return nil, err
	}
	return inspection, nil
}

// Create принимает фото, определяет город и сохраняет новое обращение в начало коллекции
func (s *reportService) Create(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "report",
		"method":   "Create",
		"category": in.Category,
		"files":    len(in.Photos),
	})
	log.Info("Attempting to create a new report")

	if strings.TrimSpace(in.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if !models.IsCategory(in.Category) {
		return nil, ErrInvalidCategory
	}

	// Перекодирование выполняется до захвата блокировки
	result, err := s.ingester.Ingest(in.Photos, s.evidenceOptions(nil, in.OnProgress))
	if err != nil {
		log.WithError(err).Info("Evidence rejected")
		return nil, err
	}

	focusCity := strings.TrimSpace(in.FocusCity)
	if focusCity == "" {
		focusCity = s.cfg.DefaultCity
	}
	place := s.resolvePlace(ctx, log, result.Reference, focusCity)

	var created *models.Report
	err = s.locker.WithLock(ctx, func(ctx context.Context) error {
		reports, err := s.repo.LoadFresh(ctx)
		if err != nil {
			return fmt.Errorf("could not load reports: %w", err)
		}

		now := s.now()
		id, err := models.UniqueReportID(models.IDSet(reports), now, s.randN)
		if err != nil {
			return err
		}

		today := models.NewDate(now)
		created = &models.Report{
			ID:           id,
			City:         place.City,
			FocusCity:    focusCity,
			State:        place.State,
			Neighborhood: strings.TrimSpace(in.Neighborhood),
			Street:       strings.TrimSpace(in.Street),
			Landmark:     strings.TrimSpace(in.Landmark),
			Category:     in.Category,
			Description:  strings.TrimSpace(in.Description),
			Status:       models.StatusUnderReview,
			Location: &models.ReportLocation{
				GeoPoint: result.Reference,
				Source:   models.LocationSourceEXIF,
			},
			Photos:        result.Photos,
			PhotoMetadata: result.Metadata,
			// автор обращения - первое подтверждение
			Impact:            models.Impact{Confirmations: 1, LastConfirmedAt: &today},
			Authority:         models.Authority{Name: models.DefaultAuthorityName},
			History:           models.InitialHistory(today),
			AuthorityResponse: []models.AuthorityResponse{},
			CreatedAt:         today,
			ReporterID:        in.ReporterID,
		}

		next := make([]*models.Report, 0, len(reports)+1)
		next = append(next, created)
		next = append(next, reports...)
		return s.repo.Save(ctx, next)
	})
	if err != nil {
		log.WithError(err).Error("Failed to create report")
		return nil, fmt.Errorf("service: could not create report: %w", err)
	}

	log.WithFields(logrus.Fields{
		"report_id":   created.ID,
		"total_bytes": result.TotalBytes,
	}).Info("Report created successfully")
	s.publish(ctx, events.KindReportCreated, created)
	return created, nil
}

// Confirm регистрирует подтверждение проблемы другим гражданином
func (s *reportService) Confirm(ctx context.Context, id, note string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "Confirm",
		"report_id": id,
	})

	if strings.TrimSpace(note) == "" {
		return nil, ErrEmptyNote
	}

	updated, err := s.mutate(ctx, id, func(r *models.Report, today models.Date) error {
		r.Confirm(today)
		r.AddHistory(today, models.ActorSystem, models.HistoryConfirmed)
		return nil
	})
	if err != nil {
		return nil, s.wrapMutationError(log, "could not confirm report", err)
	}

	log.WithField("confirmations", updated.Impact.Confirmations).Info("Report confirmed")
	s.publish(ctx, events.KindReportConfirmed, updated)
	return updated, nil
}

// AttachEvidence добавляет к обращению новые фото того же места
func (s *reportService) AttachEvidence(ctx context.Context, id, note string, files []evidence.File) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "AttachEvidence",
		"report_id": id,
		"files":     len(files),
	})

	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrEmptyNote
	}

	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var anchor *models.GeoPoint
	if target.Location != nil && target.Location.Valid() {
		p := target.Location.GeoPoint
		anchor = &p
	}

	result, err := s.ingester.Ingest(files, s.evidenceOptions(anchor, nil))
	if err != nil {
		log.WithError(err).Info("Evidence rejected")
		return nil, err
	}

	updated, err := s.mutate(ctx, id, func(r *models.Report, today models.Date) error {
		r.AttachPhotos(result.Photos, result.Metadata)
		r.AddHistory(today, models.ActorSystem, models.HistoryAttached+" "+note)
		return nil
	})
	if err != nil {
		return nil, s.wrapMutationError(log, "could not attach evidence", err)
	}

	log.WithField("photos", len(updated.Photos)).Info("Evidence attached")
	s.publish(ctx, events.KindEvidenceAttached, updated)
	return updated, nil
}

// UpdateStatus меняет стадию обработки от имени органа власти
func (s *reportService) UpdateStatus(ctx context.Context, id string, status models.Status, note string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "UpdateStatus",
		"report_id": id,
		"status":    status,
	})

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	updated, err := s.mutate(ctx, id, func(r *models.Report, today models.Date) error {
		r.Status = status
		r.AddHistory(today, models.ActorAuthority, statusEvent(status, note))
		return nil
	})
	if err != nil {
		return nil, s.wrapMutationError(log, "could not update status", err)
	}

	log.Info("Report status updated")
	s.publish(ctx, events.KindStatusChanged, updated)
	return updated, nil
}

// AddAuthorityResponse дописывает ответ органа власти и, если указан, новый статус
func (s *reportService) AddAuthorityResponse(ctx context.Context, id string, in AuthorityResponseInput) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "report",
		"method":      "AddAuthorityResponse",
		"report_id":   id,
		"protocol_id": in.ProtocolID,
	})

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	statusChanged := false
	updated, err := s.mutate(ctx, id, func(r *models.Report, today models.Date) error {
		r.AuthorityResponse = append(r.AuthorityResponse, models.AuthorityResponse{
			Date:       today,
			ProtocolID: strings.TrimSpace(in.ProtocolID),
			Message:    message,
		})
		r.AddHistory(today, models.ActorAuthority, models.HistoryAuthorityResponded)
		if in.Status != "" && in.Status != r.Status {
			r.Status = in.Status
			r.AddHistory(today, models.ActorAuthority, statusEvent(in.Status, ""))
			statusChanged = true
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapMutationError(log, "could not add authority response", err)
	}

	log.Info("Authority response stored")
	s.publish(ctx, events.KindAuthorityResponded, updated)
	if statusChanged {
		s.publish(ctx, events.KindStatusChanged, updated)
	}
	return updated, nil
}

// mutate выполняет изменение одного обращения под блокировкой коллекции
func (s *reportService) mutate(ctx context.Context, id string, fn func(r *models.Report, today models.Date) error) (*models.Report, error) {
	var updated *models.Report
	err := s.locker.WithLock(ctx, func(ctx context.Context) error {
		reports, err := s.repo.LoadFresh(ctx)
		if err != nil {
			return fmt.Errorf("could not load reports: %w", err)
		}

		r := findReport(reports, id)
		if r == nil {
			return ErrReportNotFound
		}

		if err := fn(r, models.NewDate(s.now())); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, reports); err != nil {
			return fmt.Errorf("could not save reports: %w", err)
		}
		updated = r
		return nil
	})
	return updated, err
}

func (s *reportService) wrapMutationError(log *logrus.Entry, msg string, err error) error {
	if errors.Is(err, ErrReportNotFound) {
		log.Warn("Report not found")
		return ErrReportNotFound
	}
	log.WithError(err).Error("Failed to update report")
	return fmt.Errorf("service: %s: %w", msg, err)
}

// resolvePlace определяет город по координате; при ошибке остаётся город в фокусе
func (s *reportService) resolvePlace(ctx context.Context, log *logrus.Entry, p models.GeoPoint, focusCity string) models.Place {
	fallback := models.Place{City: focusCity}
	if s.geocoder == nil {
		return fallback
	}

	place, err := s.geocoder.Reverse(ctx, p.Lat, p.Lng)
	if err != nil {
		log.WithError(err).Warn("Reverse geocoding failed, using focus city")
		return fallback
	}
	if place.City == "" {
		place.City = focusCity
	}
	return place
}

func (s *reportService) publish(ctx context.Context, kind events.Kind, r *models.Report) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.New(kind, r, s.now()))
}

func (s *reportService) triageOptions() triage.Options {
	opts := triage.DefaultOptions()
	if s.cfg.TriageThreshold > 0 {
		opts.Threshold = s.cfg.TriageThreshold
	}
	if s.cfg.TriageLimit > 0 {
		opts.Limit = s.cfg.TriageLimit
	}
	return opts
}

func (s *reportService) evidenceOptions(anchor *models.GeoPoint, onProgress evidence.ProgressFunc) evidence.Options {
	opts := evidence.DefaultOptions()
	if s.cfg.EvidenceMaxDistanceMeters > 0 {
		opts.MaxDistanceMeters = s.cfg.EvidenceMaxDistanceMeters
	}
	if s.cfg.EvidenceMaxTotalBytes > 0 {
		opts.MaxTotalBytes = s.cfg.EvidenceMaxTotalBytes
	}
	opts.Anchor = anchor
	opts.OnProgress = onProgress
	return opts
}

func findReport(reports []*models.Report, id string) *models.Report {
	for _, r := range reports {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func statusEvent(status models.Status, note string) string {
	event := models.HistoryStatusChanged + " " + status.Label() + "."
	if note = strings.TrimSpace(note); note != "" {
		event += " " + note
	}
	return event
}
