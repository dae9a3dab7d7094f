package models

import (
	"strings"
	"time"

	"github.com/shenikar/fala_cidadao/internal/geo"
)

// Status - стадия обработки обращения
type Status string

const (
	StatusUnderReview Status = "under_review"
	StatusInProgress  Status = "in_progress"
	StatusResolved    Status = "resolved"
)

// legacyStatuses - подписи статусов из исходных данных
var legacyStatuses = map[string]Status{
	"Em análise":   StatusUnderReview,
	"Em andamento": StatusInProgress,
	"Resolvido":    StatusResolved,
}

var statusLabels = map[Status]string{
	StatusUnderReview: "Em análise",
	StatusInProgress:  "Em andamento",
	StatusResolved:    "Resolvido",
}

// Label - подпись статуса для истории и интерфейса
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid сообщает, является ли статус допустимым значением
func (s Status) Valid() bool {
	switch s {
	case StatusUnderReview, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ParseStatus принимает как значения перечисления, так и старые подписи
func ParseStatus(s string) (Status, bool) {
	if st := Status(s); st.Valid() {
		return st, true
	}
	st, ok := legacyStatuses[s]
	return st, ok
}

// Actor - кто сделал запись в истории
type Actor string

const (
	ActorSystem    Actor = "system"
	ActorAuthority Actor = "authority"
)

// PendingPhotoPrefix помечает фото, ожидающее публикации
const PendingPhotoPrefix = "local:"

// LocationSourceEXIF - координата отчёта взята из EXIF фотографий
const LocationSourceEXIF = "exif"

// DefaultAuthorityName - первичный получатель всех новых обращений
const DefaultAuthorityName = "Triagem Fala Cidadão"

// Стандартные записи истории для новых обращений
const (
	HistoryRegistered = "Demanda registrada."
	HistoryForwarded  = "Encaminhada para triagem Fala Cidadão."
	HistoryConfirmed  = "Reforço registrado por cidadão."
	HistoryAttached   = "Novas evidências anexadas."

	HistoryStatusChanged      = "Status atualizado para"
	HistoryAuthorityResponded = "Resposta do órgão responsável registrada."
)

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceTo возвращает расстояние до другой точки в метрах
func (p GeoPoint) DistanceTo(o GeoPoint) float64 {
	return geo.DistanceMeters(p.Lat, p.Lng, o.Lat, o.Lng)
}

// Valid проверяет диапазоны координат
func (p GeoPoint) Valid() bool {
	return geo.ValidCoordinates(p.Lat, p.Lng)
}

// ReportLocation - опорная координата обращения
type ReportLocation struct {
	GeoPoint
	Source string `json:"source"`
}

// PhotoMetadata описывает одно фото, параллельно списку Photos
type PhotoMetadata struct {
	Location     GeoPoint   `json:"location"`
	CapturedAt   *time.Time `json:"captured_at"`
	FileIdentity string     `json:"file_identity"`
	Name         string     `json:"name,omitempty"`
	Size         int64      `json:"size,omitempty"`
}

type Impact struct {
	Confirmations   int   `json:"confirmations"`
	LastConfirmedAt *Date `json:"last_confirmed_at"`
}

type HistoryEntry struct {
	Date  Date   `json:"date"`
	Actor Actor  `json:"actor"`
	Event string `json:"event"`
}

type AuthorityResponse struct {
	Date       Date   `json:"date"`
	ProtocolID string `json:"protocol_id,omitempty"`
	Message    string `json:"message"`
}

type Authority struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// Report - обращение гражданина о городской проблеме
type Report struct {
	ID                string              `json:"id"`
	City              string              `json:"city"`
	FocusCity         string              `json:"focus_city"`
	State             string              `json:"state,omitempty"`
	Neighborhood      string              `json:"neighborhood"`
	Street            string              `json:"street"`
	Landmark          string              `json:"landmark,omitempty"`
	Category          string              `json:"category"`
	Description       string              `json:"description"`
	Status            Status              `json:"status"`
	Location          *ReportLocation     `json:"location,omitempty"`
	Photos            []string            `json:"photos"`
	PhotoMetadata     []PhotoMetadata     `json:"photo_metadata"`
	Impact            Impact              `json:"impact"`
	Authority         Authority           `json:"authority"`
	History           []HistoryEntry      `json:"history"`
	AuthorityResponse []AuthorityResponse `json:"authority_response"`
	CreatedAt         Date                `json:"created_at"`
	ReporterID        string              `json:"reporter_id"`
}

// PublicPhotos возвращает опубликованные фото (без маркера ожидания)
func (r *Report) PublicPhotos() []string {
	out := make([]string, 0, len(r.Photos))
	for _, p := range r.Photos {
		if !strings.HasPrefix(p, PendingPhotoPrefix) {
			out = append(out, p)
		}
	}
	return out
}

// PublicEvidence возвращает опубликованные фото и их метаданные.
// Метаданные отбираются по той же маске, что и фото, соответствие по индексу сохраняется
func (r *Report) PublicEvidence() ([]string, []PhotoMetadata) {
	photos := make([]string, 0, len(r.Photos))
	meta := make([]PhotoMetadata, 0, len(r.PhotoMetadata))
	for i, p := range r.Photos {
		if strings.HasPrefix(p, PendingPhotoPrefix) {
			continue
		}
		photos = append(photos, p)
		if i < len(r.PhotoMetadata) {
			meta = append(meta, r.PhotoMetadata[i])
		}
	}
	return photos, meta
}

// PendingPhotos возвращает количество фото, ожидающих публикации
func (r *Report) PendingPhotos() int {
	n := 0
	for _, p := range r.Photos {
		if strings.HasPrefix(p, PendingPhotoPrefix) {
			n++
		}
	}
	return n
}

// AddHistory дописывает событие в конец истории
func (r *Report) AddHistory(date Date, actor Actor, event string) {
	r.History = append(r.History, HistoryEntry{Date: date, Actor: actor, Event: event})
}

// Confirm увеличивает счётчик подтверждений
func (r *Report) Confirm(date Date) {
	r.Impact.Confirmations++
	d := date
	r.Impact.LastConfirmedAt = &d
}

// AttachPhotos дописывает фото вместе с метаданными
func (r *Report) AttachPhotos(photos []string, meta []PhotoMetadata) {
	r.Photos = append(r.Photos, photos...)
	r.PhotoMetadata = append(r.PhotoMetadata, meta...)
}

// ReportCity - город, в котором зарегистрирована проблема
func (r *Report) ReportCity() string {
	if r.City != "" {
		return r.City
	}
	return r.FocusCity
}
