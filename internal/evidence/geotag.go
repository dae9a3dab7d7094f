package evidence

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/shenikar/fala_cidadao/internal/geo"
)

// GeoTag - координаты и время съёмки из метаданных изображения
type GeoTag struct {
	Lat        float64
	Lng        float64
	CapturedAt *time.Time
}

// Valid проверяет, что координаты конечны и в допустимых диапазонах
func (g GeoTag) Valid() bool {
	return geo.ValidCoordinates(g.Lat, g.Lng)
}

// GeoTagReader читает геометку файла; ok=false, если метаданных нет
type GeoTagReader interface {
	Read(f File) (tag GeoTag, ok bool)
}

// EXIFReader читает GPS из блока EXIF (JPEG, TIFF)
type EXIFReader struct{}

func NewEXIFReader() *EXIFReader {
	return &EXIFReader{}
}

func (r *EXIFReader) Read(f File) (GeoTag, bool) {
	x, err := exif.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return GeoTag{}, false
	}

	lat, lng, err := x.LatLong()
	if err != nil {
		return GeoTag{}, false
	}

	tag := GeoTag{Lat: lat, Lng: lng}
	// DateTime сначала смотрит DateTimeOriginal, затем DateTime
	if taken, err := x.DateTime(); err == nil {
		tag.CapturedAt = &taken
	}
	return tag, true
}
