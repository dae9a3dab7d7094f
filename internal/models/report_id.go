package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrIDSpaceExhausted - не удалось подобрать свободный идентификатор за отведённые попытки
var ErrIDSpaceExhausted = errors.New("could not generate a unique report id")

const idAttempts = 10

// RandFunc возвращает псевдослучайное число в [0, n)
type RandFunc func(n int) int

// NewReportID формирует идентификатор вида DMD-YYYY-MMDD-RAND
func NewReportID(date time.Time, randN RandFunc) string {
	suffix := randN(9000) + 1000
	return fmt.Sprintf("DMD-%04d-%02d%02d-%d", date.Year(), int(date.Month()), date.Day(), suffix)
}

// UniqueReportID подбирает идентификатор, которого нет среди existing
func UniqueReportID(existing map[string]struct{}, date time.Time, randN RandFunc) (string, error) {
	for i := 0; i < idAttempts; i++ {
		id := NewReportID(date, randN)
		if _, taken := existing[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

// IDSet собирает идентификаторы коллекции
func IDSet(reports []*Report) map[string]struct{} {
	set := make(map[string]struct{}, len(reports))
	for _, r := range reports {
		set[r.ID] = struct{}{}
	}
	return set
}
