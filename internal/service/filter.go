package service

import (
	"strings"

	"github.com/shenikar/fala_cidadao/internal/models"
)

// Режимы панели
const (
	ViewCity = "city"
	ViewAll  = "all"

	ScopeAll  = "all"
	ScopeMine = "mine"
)

// ListFilter - фильтры публичной панели
type ListFilter struct {
	View       string
	City       string
	Scope      string
	ReporterID string
	Category   string
	// Status пустой - любой статус
	Status models.Status
	Query  string
}

// FilterReports отбирает обращения по фильтрам, сохраняя порядок коллекции.
// В режиме "city" показываются обращения выбранного города, в режиме "all" скрываются решённые
func FilterReports(reports []*models.Report, f ListFilter) []*models.Report {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]*models.Report, 0, len(reports))

	for _, r := range reports {
		switch f.View {
		case ViewAll:
			if r.Status == models.StatusResolved {
				continue
			}
		default:
			if r.ReportCity() != f.City {
				continue
			}
		}

		if f.Scope == ScopeMine && (f.ReporterID == "" || r.ReporterID != f.ReporterID) {
			continue
		}
		if !models.IsAllCategories(f.Category) && r.Category != f.Category {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}

		if q != "" {
			haystack := strings.ToLower(strings.Join([]string{r.ID, r.Neighborhood, r.Category, r.Description}, " "))
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
