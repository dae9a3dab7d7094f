package service_test

import (
	"testing"

	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/shenikar/fala_cidadao/internal/service"
	"github.com/stretchr/testify/assert"
)

func filterFixture() []*models.Report {
	return []*models.Report{
		{ID: "DMD-2025-1201-1111", City: "recife", Neighborhood: "Boa Viagem", Category: "Iluminação",
			Description: "Poste apagado", Status: models.StatusUnderReview, ReporterID: "u1"},
		{ID: "DMD-2025-1202-2222", City: "recife", Neighborhood: "Casa Forte", Category: "Via pública",
			Description: "Buraco enorme", Status: models.StatusResolved, ReporterID: "u2"},
		{ID: "DMD-2025-1203-3333", City: "jaboatao", Neighborhood: "Piedade", Category: "Iluminação",
			Description: "Lâmpada queimada", Status: models.StatusInProgress, ReporterID: "u1"},
		{ID: "DMD-2025-1204-4444", FocusCity: "recife", Neighborhood: "Derby", Category: "Segurança",
			Description: "Praça escura", Status: models.StatusUnderReview, ReporterID: "u3"},
	}
}

func ids(reports []*models.Report) []string {
	out := make([]string, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterReports(t *testing.T) {
	tests := []struct {
		name   string
		filter service.ListFilter
		want   []string
	}{
		{
			name:   "city view uses report city with focus fallback",
			filter: service.ListFilter{View: service.ViewCity, City: "recife"},
			want:   []string{"DMD-2025-1201-1111", "DMD-2025-1202-2222", "DMD-2025-1204-4444"},
		},
		{
			name:   "all view hides resolved",
			filter: service.ListFilter{View: service.ViewAll},
			want:   []string{"DMD-2025-1201-1111", "DMD-2025-1203-3333", "DMD-2025-1204-4444"},
		},
		{
			name:   "mine",
			filter: service.ListFilter{View: service.ViewAll, Scope: service.ScopeMine, ReporterID: "u1"},
			want:   []string{"DMD-2025-1201-1111", "DMD-2025-1203-3333"},
		},
		{
			name:   "mine without reporter id",
			filter: service.ListFilter{View: service.ViewAll, Scope: service.ScopeMine},
			want:   []string{},
		},
		{
			name:   "category",
			filter: service.ListFilter{View: service.ViewCity, City: "recife", Category: "Iluminação"},
			want:   []string{"DMD-2025-1201-1111"},
		},
		{
			name:   "all categories",
			filter: service.ListFilter{View: service.ViewCity, City: "recife", Category: models.CategoryAll},
			want:   []string{"DMD-2025-1201-1111", "DMD-2025-1202-2222", "DMD-2025-1204-4444"},
		},
		{
			name:   "status",
			filter: service.ListFilter{View: service.ViewCity, City: "recife", Status: models.StatusResolved},
			want:   []string{"DMD-2025-1202-2222"},
		},
		{
			name:   "query is case insensitive",
			filter: service.ListFilter{View: service.ViewAll, Query: "  PIEDADE "},
			want:   []string{"DMD-2025-1203-3333"},
		},
		{
			name:   "query matches id",
			filter: service.ListFilter{View: service.ViewCity, City: "recife", Query: "1204"},
			want:   []string{"DMD-2025-1204-4444"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.FilterReports(filterFixture(), tt.filter)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}
