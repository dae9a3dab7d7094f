package evidence

import (
	"fmt"
	"math"
)

// Kind - машинно-различимый тип ошибки приёма фото
type Kind string

const (
	KindCount                Kind = "evidence_count"
	KindMissingGeoTag        Kind = "missing_geotag"
	KindInconsistentLocation Kind = "inconsistent_location"
	KindPayloadTooLarge      Kind = "payload_too_large"
)

// Error - общая форма ошибок конвейера; пользователь может исправить их и повторить
type Error interface {
	error
	Kind() Kind
}

// CountError - число фото вне допустимого диапазона
type CountError struct {
	Count int
	Min   int
	Max   int
	// AfterEncoding выставляется, если файлы отпали при перекодировании
	AfterEncoding bool
}

func (e *CountError) Kind() Kind { return KindCount }

func (e *CountError) Error() string {
	if e.AfterEncoding {
		return fmt.Sprintf("only %d photos could be processed; send between %d and %d photos", e.Count, e.Min, e.Max)
	}
	return fmt.Sprintf("send between %d and %d photos (got %d)", e.Min, e.Max, e.Count)
}

// MissingGeoTagError - у фото нет корректных GPS-координат в EXIF
type MissingGeoTagError struct {
	Index int
	File  string
}

func (e *MissingGeoTagError) Kind() Kind { return KindMissingGeoTag }

func (e *MissingGeoTagError) Error() string {
	return fmt.Sprintf("photo %d (%s) has no GPS location in its EXIF data; take the photo with location enabled and attach the original camera file",
		e.Index+1, e.File)
}

// InconsistentLocationError - фото сделаны слишком далеко друг от друга
// или от места исходного обращения (Anchor)
type InconsistentLocationError struct {
	Index    int
	File     string
	Distance float64
	Limit    float64
	Anchor   bool
}

func (e *InconsistentLocationError) Kind() Kind { return KindInconsistentLocation }

// RoundedDistance - расстояние, округлённое до метра, как его видит пользователь
func (e *InconsistentLocationError) RoundedDistance() int {
	return int(math.Round(e.Distance))
}

func (e *InconsistentLocationError) Error() string {
	if e.Anchor {
		return fmt.Sprintf("the new photos seem to be from another place: about %dm from the original report (limit %dm)",
			e.RoundedDistance(), int(e.Limit))
	}
	return fmt.Sprintf("photo %d (%s) is too far from the first photo: about %dm (limit %dm)",
		e.Index+1, e.File, e.RoundedDistance(), int(e.Limit))
}

// PayloadTooLargeError - суммарный размер перекодированных фото превышает лимит
type PayloadTooLargeError struct {
	Size  int
	Limit int
}

func (e *PayloadTooLargeError) Kind() Kind { return KindPayloadTooLarge }

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("photos are too heavy (%s, limit %s); try fewer or smaller images",
		FormatBytes(e.Size), FormatBytes(e.Limit))
}
