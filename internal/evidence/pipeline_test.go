package evidence

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseLat = -8.1186
	baseLng = -34.9005
	// ~1 метр по широте
	meterLat = 1.0 / 111195.0
)

type fakeReader map[string]GeoTag

func (r fakeReader) Read(f File) (GeoTag, bool) {
	tag, ok := r[f.Name]
	return tag, ok
}

type fakeEncoder struct {
	calls    int
	fail     map[string]bool
	payloads map[string]string
}

func (e *fakeEncoder) Encode(f File) (Encoded, error) {
	e.calls++
	if e.fail[f.Name] {
		return Encoded{}, errors.New("corrupted")
	}
	if p, ok := e.payloads[f.Name]; ok {
		return Encoded{Payload: p}, nil
	}
	return Encoded{Payload: jpegDataURLPrefix + "QUJD"}, nil
}

func newTestPipeline(reader GeoTagReader, encoder Encoder) *Pipeline {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewPipeline(reader, encoder, logger)
}

func files(n int) []File {
	out := make([]File, n)
	for i := range out {
		out[i] = File{Name: fmt.Sprintf("IMG_%d.jpg", i+1), Size: 100}
	}
	return out
}

func tagsNear(fs []File, offsetsMeters ...float64) fakeReader {
	r := fakeReader{}
	for i, f := range fs {
		off := 0.0
		if i < len(offsetsMeters) {
			off = offsetsMeters[i]
		}
		r[f.Name] = GeoTag{Lat: baseLat + off*meterLat, Lng: baseLng}
	}
	return r
}

func TestIngest_CountBounds(t *testing.T) {
	for _, n := range []int{0, 1, 6} {
		fs := files(n)
		p := newTestPipeline(tagsNear(fs), &fakeEncoder{})

		_, err := p.Ingest(fs, DefaultOptions())

		var countErr *CountError
		require.ErrorAs(t, err, &countErr, "n=%d", n)
		assert.Equal(t, KindCount, countErr.Kind())
		assert.Equal(t, n, countErr.Count)
	}

	for n := 2; n <= 5; n++ {
		fs := files(n)
		p := newTestPipeline(tagsNear(fs), &fakeEncoder{})

		res, err := p.Ingest(fs, DefaultOptions())

		require.NoError(t, err, "n=%d", n)
		assert.Len(t, res.Photos, n)
		assert.Len(t, res.Metadata, n)
	}
}

func TestIngest_MissingGeoTag(t *testing.T) {
	fs := files(3)
	reader := tagsNear(fs)
	delete(reader, fs[1].Name)
	enc := &fakeEncoder{}
	p := newTestPipeline(reader, enc)

	_, err := p.Ingest(fs, DefaultOptions())

	var geoErr *MissingGeoTagError
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, 1, geoErr.Index)
	assert.Equal(t, "IMG_2.jpg", geoErr.File)
	assert.Contains(t, err.Error(), "photo 2 (IMG_2.jpg)")
	assert.Equal(t, 0, enc.calls)
}

func TestIngest_InvalidCoordinatesAreMissing(t *testing.T) {
	fs := files(2)
	reader := tagsNear(fs)
	reader[fs[0].Name] = GeoTag{Lat: 91, Lng: 0}
	p := newTestPipeline(reader, &fakeEncoder{})

	_, err := p.Ingest(fs, DefaultOptions())

	var geoErr *MissingGeoTagError
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, 0, geoErr.Index)
}

func TestIngest_InconsistentLocation(t *testing.T) {
	fs := files(2)
	enc := &fakeEncoder{}
	p := newTestPipeline(tagsNear(fs, 0, 50), enc)

	_, err := p.Ingest(fs, DefaultOptions())

	var locErr *InconsistentLocationError
	require.ErrorAs(t, err, &locErr)
	assert.Equal(t, KindInconsistentLocation, locErr.Kind())
	assert.Equal(t, 1, locErr.Index)
	assert.Equal(t, 50, locErr.RoundedDistance())
	assert.Contains(t, err.Error(), "about 50m")
	assert.Equal(t, 0, enc.calls)
}

func TestIngest_CloseEnough(t *testing.T) {
	fs := files(2)
	p := newTestPipeline(tagsNear(fs, 0, 10), &fakeEncoder{})

	res, err := p.Ingest(fs, DefaultOptions())

	require.NoError(t, err)
	assert.InDelta(t, baseLat, res.Reference.Lat, 1e-9)
}

func TestIngest_AnchorTooFar(t *testing.T) {
	fs := files(2)
	p := newTestPipeline(tagsNear(fs, 0, 5), &fakeEncoder{})
	opts := DefaultOptions()
	opts.Anchor = &models.GeoPoint{Lat: baseLat + 40*meterLat, Lng: baseLng}

	_, err := p.Ingest(fs, opts)

	var locErr *InconsistentLocationError
	require.ErrorAs(t, err, &locErr)
	assert.True(t, locErr.Anchor)
	assert.Equal(t, 40, locErr.RoundedDistance())
}

func TestIngest_AnchorWithinLimit(t *testing.T) {
	fs := files(2)
	p := newTestPipeline(tagsNear(fs, 0, 5), &fakeEncoder{})
	opts := DefaultOptions()
	opts.Anchor = &models.GeoPoint{Lat: baseLat + 20*meterLat, Lng: baseLng}

	_, err := p.Ingest(fs, opts)

	require.NoError(t, err)
}

func TestIngest_EncodeFailureSkipsFileAndMetadata(t *testing.T) {
	fs := files(3)
	enc := &fakeEncoder{fail: map[string]bool{"IMG_2.jpg": true}}
	p := newTestPipeline(tagsNear(fs), enc)

	var progress []Progress
	opts := DefaultOptions()
	opts.OnProgress = func(pr Progress) { progress = append(progress, pr) }

	res, err := p.Ingest(fs, opts)

	require.NoError(t, err)
	require.Len(t, res.Photos, 2)
	require.Len(t, res.Metadata, 2)
	assert.Equal(t, fs[0].Identity(), res.Metadata[0].FileIdentity)
	assert.Equal(t, fs[2].Identity(), res.Metadata[1].FileIdentity)

	require.Len(t, progress, 3)
	assert.Equal(t, Progress{Done: 2, Total: 3, FileName: "IMG_2.jpg"}, progress[1])
	assert.Equal(t, 3, progress[2].Done)
}

func TestIngest_EncodeFailureBelowMinimum(t *testing.T) {
	fs := files(2)
	enc := &fakeEncoder{fail: map[string]bool{"IMG_1.jpg": true}}
	p := newTestPipeline(tagsNear(fs), enc)

	_, err := p.Ingest(fs, DefaultOptions())

	var countErr *CountError
	require.ErrorAs(t, err, &countErr)
	assert.True(t, countErr.AfterEncoding)
	assert.Equal(t, 1, countErr.Count)
}

func TestIngest_PayloadTooLarge(t *testing.T) {
	fs := files(2)
	// 2 666 667 символов base64 без паддинга ~ 2 000 000 байт
	big := jpegDataURLPrefix + strings.Repeat("A", 2666667)
	enc := &fakeEncoder{payloads: map[string]string{fs[0].Name: big, fs[1].Name: big}}
	p := newTestPipeline(tagsNear(fs), enc)

	_, err := p.Ingest(fs, DefaultOptions())

	var sizeErr *PayloadTooLargeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 4000000, sizeErr.Size)
	assert.Contains(t, err.Error(), "3.81 MB")
}

func TestIngest_ErrorInterface(t *testing.T) {
	fs := files(1)
	p := newTestPipeline(tagsNear(fs), &fakeEncoder{})

	_, err := p.Ingest(fs, DefaultOptions())

	var evErr Error
	require.True(t, errors.As(err, &evErr))
	assert.Equal(t, KindCount, evErr.Kind())
}

func TestInspect_ReturnsMetadata(t *testing.T) {
	fs := files(2)
	enc := &fakeEncoder{}
	p := newTestPipeline(tagsNear(fs, 0, 3), enc)

	ins, err := p.Inspect(fs, DefaultOptions())

	require.NoError(t, err)
	require.Len(t, ins.Metadata, 2)
	assert.Equal(t, "IMG_1.jpg__100__0", ins.Metadata[0].FileIdentity)
	assert.Equal(t, 0, enc.calls)
}

func TestMergeSelection(t *testing.T) {
	merged := MergeSelection(files(3), files(4), DefaultMaxFiles)
	assert.Len(t, merged, 5)

	merged = MergeSelection(nil, files(1), DefaultMaxFiles)
	assert.Len(t, merged, 1)
}

func pngFile(t *testing.T, name string, w, h int, fill color.Color) File {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return File{Name: name, Size: int64(buf.Len()), Data: buf.Bytes()}
}

func TestIngest_WithJPEGEncoder(t *testing.T) {
	fs := []File{
		pngFile(t, "a.png", 400, 300, color.NRGBA{R: 200, G: 30, B: 30, A: 255}),
		pngFile(t, "b.png", 2000, 1000, color.NRGBA{R: 30, G: 200, B: 30, A: 255}),
	}
	p := newTestPipeline(tagsNear(fs), NewJPEGEncoder(0, 0, 0))

	res, err := p.Ingest(fs, DefaultOptions())

	require.NoError(t, err)
	require.Len(t, res.Photos, 2)
	for _, photo := range res.Photos {
		assert.True(t, strings.HasPrefix(photo, "data:image/jpeg;base64,"))
	}
	assert.Greater(t, res.TotalBytes, 0)
}
