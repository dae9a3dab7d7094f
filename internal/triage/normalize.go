package triage

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords - служебные слова португальского и адресные слова, не несущие смысла
var stopwords = map[string]struct{}{
	"a": {}, "o": {}, "os": {}, "as": {}, "um": {}, "uma": {},
	"de": {}, "do": {}, "da": {}, "dos": {}, "das": {},
	"em": {}, "no": {}, "na": {}, "nos": {}, "nas": {},
	"para": {}, "por": {}, "e": {}, "ou": {}, "com": {}, "sem": {},
	"ao": {}, "aos": {}, "que": {}, "ha": {},
	"dias": {}, "dia": {}, "rua": {}, "avenida": {}, "av": {},
	"prox": {}, "proximo": {}, "numero": {},
}

const minTokenLength = 3

// Normalize приводит текст к нижнему регистру без диакритики и пунктуации
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}

	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, stripped)

	return strings.Join(strings.Fields(mapped), " ")
}

// Tokenize разбивает нормализованный текст на значимые слова
func Tokenize(s string) []string {
	words := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minTokenLength {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// Jaccard - отношение пересечения к объединению множеств токенов, 0 для двух пустых множеств
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
