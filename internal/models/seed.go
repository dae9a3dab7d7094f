package models

import (
	"fmt"
	"time"
)

// SeedReport - пример обращения в исходном, ещё не нормализованном виде
type SeedReport struct {
	City         string
	Neighborhood string
	Street       string
	Category     string
	Description  string
	Landmark     string
	Status       string
	CreatedAt    string
	ReporterID   string
	Photos       []string
	Impact       *Impact
}

func seedDate(s string) *Date {
	d, err := ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// SeedReports - стартовые данные, загружаемые в пустое хранилище
var SeedReports = []SeedReport{
	{
		City:         "recife",
		Neighborhood: "Boa Viagem",
		Street:       "Rua X",
		Category:     "Iluminação",
		Description:  "Poste apagado há 3 dias na Rua X",
		Landmark:     "Próximo ao supermercado ABC",
		Status:       "Em análise",
		CreatedAt:    "2025-12-12",
		ReporterID:   "cidadao_001",
		Photos:       []string{"/mock/DMD-2025-0001-1.jpg", "/mock/DMD-2025-0001-2.jpg", "/mock/DMD-2025-0001-3.jpg"},
		Impact:       &Impact{Confirmations: 35, LastConfirmedAt: seedDate("2025-12-16")},
	},
	{
		City:         "recife",
		Neighborhood: "Casa Forte",
		Street:       "Rua Y",
		Category:     "Outros",
		Description:  "Árvore caída parcialmente obstruindo a calçada.",
		Landmark:     "Próximo ao ponto de ônibus na Rua Y",
		Status:       "Em andamento",
		CreatedAt:    "2025-12-11",
		ReporterID:   "cidadao_002",
		Photos:       []string{"/mock/DMD-2025-0004-1.jpg", "/mock/DMD-2025-0004-2.jpg", "/mock/DMD-2025-0004-3.jpg"},
		Impact:       &Impact{Confirmations: 12, LastConfirmedAt: seedDate("2025-12-15")},
	},
	{
		City:         "recife",
		Neighborhood: "Afogados",
		Street:       "Av. Sul Governador Cid Sampaio",
		Category:     "Via pública",
		Description:  "Buraco profundo na faixa da direita, causando desvios bruscos e risco de acidentes.",
		Landmark:     "Próximo ao semáforo da Av. Sul Governador Cid Sampaio",
		Status:       "Em análise",
		CreatedAt:    "2025-12-16",
		ReporterID:   "cidadao_001",
		Photos:       []string{"/mock/DMD-2025-0005-1.jpg", "/mock/DMD-2025-0005-2.jpg"},
		Impact:       &Impact{Confirmations: 8, LastConfirmedAt: seedDate("2025-12-17")},
	},
	{
		City:         "recife",
		Neighborhood: "Ibura",
		Street:       "Rua do Futuro II",
		Category:     "Limpeza urbana",
		Description:  "Acúmulo frequente de lixo e entulho em terreno baldio, com mau cheiro e presença de animais.",
		Landmark:     "Entre as ruas A e B no Ibura",
		Status:       "Em andamento",
		CreatedAt:    "2025-12-14",
		ReporterID:   "cidadao_003",
		Photos:       []string{"/mock/DMD-2025-0006-1.jpg", "/mock/DMD-2025-0006-2.jpg", "/mock/DMD-2025-0006-3.jpg"},
		Impact:       &Impact{Confirmations: 21, LastConfirmedAt: seedDate("2025-12-17")},
	},
	{
		City:         "jaboatao",
		Neighborhood: "Piedade",
		Street:       "Av. Ayrton Senna",
		Category:     "Sinalização",
		Description:  "Faixa de pedestres apagada em frente à escola, dificultando a travessia com segurança.",
		Landmark:     "Em frente à Escola Municipal Piedade",
		Status:       "Resolvido",
		CreatedAt:    "2025-12-05",
		ReporterID:   "cidadao_001",
		Photos:       []string{"/mock/DMD-2025-0007-1.jpg", "/mock/DMD-2025-0007-2.jpg"},
		Impact:       &Impact{Confirmations: 15, LastConfirmedAt: seedDate("2025-12-10")},
	},
}

// InitialHistory - история, с которой начинается любое новое обращение
func InitialHistory(date Date) []HistoryEntry {
	return []HistoryEntry{
		{Date: date, Actor: ActorSystem, Event: HistoryRegistered},
		{Date: date, Actor: ActorSystem, Event: HistoryForwarded},
	}
}

// NormalizeSeed превращает примеры в валидные обращения: новые идентификаторы от даты
// создания, история по умолчанию, статус из перечисления
func NormalizeSeed(seeds []SeedReport, now time.Time, randN RandFunc) ([]*Report, error) {
	existing := make(map[string]struct{}, len(seeds))
	out := make([]*Report, 0, len(seeds))

	for _, s := range seeds {
		base := now
		if s.CreatedAt != "" {
			if t, err := time.ParseInLocation(DateLayout, s.CreatedAt, now.Location()); err == nil {
				base = t.Add(12 * time.Hour)
			}
		}

		id, err := UniqueReportID(existing, base, randN)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", s.Description, err)
		}
		existing[id] = struct{}{}

		createdAt := NewDate(base)
		status, ok := ParseStatus(s.Status)
		if !ok {
			status = StatusUnderReview
		}

		impact := Impact{}
		if s.Impact != nil {
			impact = *s.Impact
		}

		photos := s.Photos
		if photos == nil {
			photos = []string{}
		}

		city := s.City
		if city == "" {
			city = "default"
		}

		out = append(out, &Report{
			ID:                id,
			City:              city,
			FocusCity:         city,
			Neighborhood:      s.Neighborhood,
			Street:            s.Street,
			Landmark:          s.Landmark,
			Category:          s.Category,
			Description:       s.Description,
			Status:            status,
			Photos:            photos,
			PhotoMetadata:     []PhotoMetadata{},
			Impact:            impact,
			Authority:         Authority{Name: DefaultAuthorityName},
			History:           InitialHistory(createdAt),
			AuthorityResponse: []AuthorityResponse{},
			CreatedAt:         createdAt,
			ReporterID:        s.ReporterID,
		})
	}
	return out, nil
}
