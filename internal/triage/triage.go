// Package triage ищет среди существующих обращений вероятные дубликаты нового.
package triage

import (
	"math"
	"sort"
	"strings"

	"github.com/shenikar/fala_cidadao/internal/models"
)

// Веса признаков; в сумме дают 1.0
const (
	WeightCategory     = 0.45
	WeightNeighborhood = 0.20
	WeightStreet       = 0.15
	WeightDescription  = 0.20
)

// Значения по умолчанию для отбора кандидатов
const (
	DefaultThreshold = 0.55
	DefaultLimit     = 3
)

// Input - поля черновика обращения, участвующие в сравнении
type Input struct {
	City         string
	Category     string
	Neighborhood string
	Street       string
	Description  string
}

// Candidate - существующее обращение с оценкой похожести
type Candidate struct {
	Report *models.Report
	Score  float64
}

type Options struct {
	Threshold float64
	Limit     int
}

// DefaultOptions возвращает порог 0.55 и не более трёх кандидатов
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Limit: DefaultLimit}
}

// Score оценивает похожесть черновика на существующее обращение в диапазоне [0, 1].
// Обращения из другого города никогда не считаются похожими.
func Score(in Input, r *models.Report) float64 {
	if r == nil || in.City == "" || r.City != in.City {
		return 0
	}

	score := 0.0

	if in.Category != "" && r.Category == in.Category {
		score += WeightCategory
	}

	if n := Normalize(in.Neighborhood); n != "" && Normalize(r.Neighborhood) == n {
		score += WeightNeighborhood
	}

	// улица черновика должна содержаться в сохранённой, но не наоборот
	if s := Normalize(in.Street); s != "" {
		if stored := Normalize(r.Street); stored != "" && strings.Contains(stored, s) {
			score += WeightStreet
		}
	}

	sim := Jaccard(Tokenize(in.Description), Tokenize(r.Description))
	score += math.Min(WeightDescription, sim*WeightDescription)

	return math.Min(score, 1)
}

// Rank оставляет кандидатов с оценкой не ниже порога и сортирует их по убыванию.
// При равных оценках сохраняется исходный порядок коллекции.
func Rank(scored []Candidate, opts Options) []Candidate {
	out := make([]Candidate, 0, len(scored))
	for _, c := range scored {
		if c.Score >= opts.Threshold {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// FindDuplicates оценивает каждое обращение коллекции и возвращает лучших кандидатов
func FindDuplicates(in Input, reports []*models.Report, opts Options) []Candidate {
	scored := make([]Candidate, 0, len(reports))
	for _, r := range reports {
		scored = append(scored, Candidate{Report: r, Score: Score(in, r)})
	}
	return Rank(scored, opts)
}
