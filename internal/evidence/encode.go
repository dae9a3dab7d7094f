package evidence

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	// дополнительные форматы, которые отдают камеры и браузеры
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Параметры перекодирования по умолчанию
const (
	DefaultMaxWidth    = 1280
	DefaultMaxHeight   = 1280
	DefaultJPEGQuality = 72
)

const jpegDataURLPrefix = "data:image/jpeg;base64,"

var errEmptyImage = errors.New("image has zero width or height")

// Encoded - перекодированное изображение в виде data URL
type Encoded struct {
	Payload string
	Width   int
	Height  int
}

// Encoder уменьшает и перекодирует одно изображение
type Encoder interface {
	Encode(f File) (Encoded, error)
}

// JPEGEncoder вписывает изображение в MaxWidth x MaxHeight без увеличения
// и кодирует в JPEG на белом фоне
type JPEGEncoder struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

func NewJPEGEncoder(maxWidth, maxHeight, quality int) *JPEGEncoder {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &JPEGEncoder{MaxWidth: maxWidth, MaxHeight: maxHeight, Quality: quality}
}

// TargetSize вычисляет размеры после равномерного уменьшения, не больше исходных
func TargetSize(width, height, maxWidth, maxHeight int) (int, int) {
	ratio := math.Min(math.Min(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height)), 1)
	w := int(math.Max(1, math.Round(float64(width)*ratio)))
	h := int(math.Max(1, math.Round(float64(height)*ratio)))
	return w, h
}

func (e *JPEGEncoder) Encode(f File) (Encoded, error) {
	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		return Encoded{}, fmt.Errorf("failed to decode %s: %w", f.Name, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return Encoded{}, fmt.Errorf("failed to decode %s: %w", f.Name, errEmptyImage)
	}

	w, h := TargetSize(b.Dx(), b.Dy(), e.MaxWidth, e.MaxHeight)
	var src image.Image = img
	if w != b.Dx() || h != b.Dy() {
		src = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	// у JPEG нет альфа-канала
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Over)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(e.Quality)); err != nil {
		return Encoded{}, fmt.Errorf("failed to encode %s: %w", f.Name, err)
	}

	return Encoded{
		Payload: jpegDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   w,
		Height:  h,
	}, nil
}
