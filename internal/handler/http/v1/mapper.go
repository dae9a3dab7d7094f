package v1

import (
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/shenikar/fala_cidadao/internal/evidence"
	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/shenikar/fala_cidadao/internal/triage"
)

// ReportToSummaryResponse конвертирует обращение в DTO для списков.
// reporterID - идентификатор текущего пользователя, по нему выставляется is_mine
func ReportToSummaryResponse(r *models.Report, reporterID string) ReportSummaryResponse {
	resp := ReportSummaryResponse{
		ID:            r.ID,
		City:          r.ReportCity(),
		FocusCity:     r.FocusCity,
		Neighborhood:  r.Neighborhood,
		Street:        r.Street,
		Category:      r.Category,
		Description:   r.Description,
		Status:        r.Status,
		StatusLabel:   r.Status.Label(),
		PhotoCount:    len(r.PublicPhotos()),
		PendingPhotos: r.PendingPhotos(),
		Impact: ImpactResponse{
			Confirmations: r.Impact.Confirmations,
		},
		CreatedAt: r.CreatedAt.String(),
		IsMine:    reporterID != "" && r.ReporterID == reporterID,
	}
	if r.Impact.LastConfirmedAt != nil {
		last := r.Impact.LastConfirmedAt.String()
		resp.Impact.LastConfirmedAt = &last
	}
	if r.Location != nil {
		resp.Location = &LocationResponse{
			Lat:    r.Location.Lat,
			Lng:    r.Location.Lng,
			Source: r.Location.Source,
		}
	}
	return resp
}

// ReportsToSummaryResponses конвертирует срез обращений в срез DTO
func ReportsToSummaryResponses(reports []*models.Report, reporterID string) []ReportSummaryResponse {
	res := make([]ReportSummaryResponse, 0, len(reports))
	for _, r := range reports {
		res = append(res, ReportToSummaryResponse(r, reporterID))
	}
	return res
}

// ReportToResponse конвертирует обращение в полный DTO; фото "local:" и их метаданные не публикуются
func ReportToResponse(r *models.Report, reporterID string) ReportResponse {
	photos, meta := r.PublicEvidence()
	return ReportResponse{
		ReportSummaryResponse: ReportToSummaryResponse(r, reporterID),
		State:                 r.State,
		Landmark:              r.Landmark,
		Photos:                photos,
		PhotoMetadata:         MetadataToResponses(meta),
		Authority:             r.Authority,
		History:               nonNilHistory(r.History),
		AuthorityResponses:    nonNilResponses(r.AuthorityResponse),
	}
}

// MetadataToResponses конвертирует метаданные фото в DTO
func MetadataToResponses(meta []models.PhotoMetadata) []PhotoMetadataResponse {
	res := make([]PhotoMetadataResponse, 0, len(meta))
	for _, m := range meta {
		item := PhotoMetadataResponse{
			Location:     LocationResponse{Lat: m.Location.Lat, Lng: m.Location.Lng},
			FileIdentity: m.FileIdentity,
			Name:         m.Name,
			Size:         m.Size,
		}
		if m.CapturedAt != nil {
			captured := m.CapturedAt.UTC().Format(time.RFC3339)
			item.CapturedAt = &captured
		}
		res = append(res, item)
	}
	return res
}

// CandidatesToResponses конвертирует кандидатов в дубликаты в DTO
func CandidatesToResponses(candidates []triage.Candidate, reporterID string) []TriageCandidateResponse {
	res := make([]TriageCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		res = append(res, TriageCandidateResponse{
			Score:  c.Score,
			Report: ReportToSummaryResponse(c.Report, reporterID),
		})
	}
	return res
}

// InspectionToResponse конвертирует результат проверки фото в DTO
func InspectionToResponse(in *evidence.Inspection) InspectionResponse {
	return InspectionResponse{
		Count:     len(in.Metadata),
		Reference: LocationResponse{Lat: in.Reference.Lat, Lng: in.Reference.Lng},
		Photos:    MetadataToResponses(in.Metadata),
	}
}

// ReportsToFeatureCollection строит слой карты; обращения без координаты пропускаются
func ReportsToFeatureCollection(reports []*models.Report) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range reports {
		if r.Location == nil {
			continue
		}
		f := geojson.NewPointFeature([]float64{r.Location.Lng, r.Location.Lat})
		f.ID = r.ID
		f.SetProperty("city", r.ReportCity())
		f.SetProperty("neighborhood", r.Neighborhood)
		f.SetProperty("category", r.Category)
		f.SetProperty("status", string(r.Status))
		f.SetProperty("status_label", r.Status.Label())
		f.SetProperty("confirmations", r.Impact.Confirmations)
		fc.AddFeature(f)
	}
	return fc
}

func nonNilHistory(h []models.HistoryEntry) []models.HistoryEntry {
	if h == nil {
		return []models.HistoryEntry{}
	}
	return h
}

func nonNilResponses(r []models.AuthorityResponse) []models.AuthorityResponse {
	if r == nil {
		return []models.AuthorityResponse{}
	}
	return r
}
