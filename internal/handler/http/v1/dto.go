package v1

import (
	"github.com/shenikar/fala_cidadao/internal/models"
)

// TriageRequest DTO для поиска дубликатов перед созданием обращения
// @Description DTO для поиска дубликатов перед созданием обращения
type TriageRequest struct {
	City         string `json:"city" validate:"required,max=120"`
	Category     string `json:"category" validate:"required,max=120"`
	Neighborhood string `json:"neighborhood" validate:"max=200"`
	Street       string `json:"street" validate:"max=200"`
	Description  string `json:"description,omitempty" validate:"max=2000"`
}

// TriageCandidateResponse DTO кандидата в дубликаты
// @Description DTO кандидата в дубликаты
type TriageCandidateResponse struct {
	Score  float64               `json:"score"`
	Report ReportSummaryResponse `json:"report"`
}

// CreateReportForm поля multipart-формы нового обращения
// @Description поля multipart-формы нового обращения
type CreateReportForm struct {
	FocusCity    string `form:"focus_city" validate:"max=120"`
	Neighborhood string `form:"neighborhood" validate:"required,max=200"`
	Street       string `form:"street" validate:"required,max=200"`
	Landmark     string `form:"landmark" validate:"max=200"`
	Category     string `form:"category" validate:"required,max=120"`
	Description  string `form:"description" validate:"required,max=2000"`
}

// ConfirmRequest DTO подтверждения проблемы
// @Description DTO подтверждения проблемы
type ConfirmRequest struct {
	Note string `json:"note" validate:"required,max=500"`
}

// UpdateStatusRequest DTO смены статуса органом власти
// @Description DTO смены статуса органом власти
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=under_review in_progress resolved"`
	Note   string `json:"note,omitempty" validate:"max=500"`
}

// AuthorityReplyRequest DTO ответа органа власти
// @Description DTO ответа органа власти
type AuthorityReplyRequest struct {
	ProtocolID string `json:"protocol_id,omitempty" validate:"max=64"`
	Message    string `json:"message" validate:"required,max=2000"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=under_review in_progress resolved"`
}

// LocationResponse координата обращения
type LocationResponse struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Source string  `json:"source,omitempty"`
}

// PhotoMetadataResponse метаданные одного фото
type PhotoMetadataResponse struct {
	Location     LocationResponse `json:"location"`
	CapturedAt   *string          `json:"captured_at"`
	FileIdentity string           `json:"file_identity"`
	Name         string           `json:"name,omitempty"`
	Size         int64            `json:"size,omitempty"`
}

// ImpactResponse счётчик подтверждений
type ImpactResponse struct {
	Confirmations   int     `json:"confirmations"`
	LastConfirmedAt *string `json:"last_confirmed_at"`
}

// ReportSummaryResponse DTO обращения в списках
// @Description DTO обращения в списках
type ReportSummaryResponse struct {
	ID            string            `json:"id"`
	City          string            `json:"city"`
	FocusCity     string            `json:"focus_city"`
	Neighborhood  string            `json:"neighborhood"`
	Street        string            `json:"street"`
	Category      string            `json:"category"`
	Description   string            `json:"description"`
	Status        models.Status     `json:"status"`
	StatusLabel   string            `json:"status_label"`
	Location      *LocationResponse `json:"location,omitempty"`
	PhotoCount    int               `json:"photo_count"`
	PendingPhotos int               `json:"pending_photos"`
	Impact        ImpactResponse    `json:"impact"`
	CreatedAt     string            `json:"created_at"`
	IsMine        bool              `json:"is_mine"`
}

// ReportResponse DTO обращения с фото, историей и ответами
// @Description DTO обращения с фото, историей и ответами
type ReportResponse struct {
	ReportSummaryResponse
	State              string                     `json:"state,omitempty"`
	Landmark           string                     `json:"landmark,omitempty"`
	Photos             []string                   `json:"photos"`
	PhotoMetadata      []PhotoMetadataResponse    `json:"photo_metadata"`
	Authority          models.Authority           `json:"authority"`
	History            []models.HistoryEntry      `json:"history"`
	AuthorityResponses []models.AuthorityResponse `json:"authority_response"`
}

// InspectionResponse DTO результата предварительной проверки фото
// @Description DTO результата предварительной проверки фото
type InspectionResponse struct {
	Count     int                     `json:"count"`
	Reference LocationResponse        `json:"reference"`
	Photos    []PhotoMetadataResponse `json:"photos"`
}

// ErrorResponse DTO ошибки; Error - машинный код для ошибок приёма фото
// @Description DTO ошибки
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CategoriesResponse DTO списка категорий
// @Description DTO списка категорий
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	All        string   `json:"all"`
}
