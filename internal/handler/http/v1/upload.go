package v1

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/fala_cidadao/internal/evidence"
)

// Поля multipart-формы с фотографиями
const (
	// FieldPhotos - новая порция выбранных файлов
	FieldPhotos = "photos"
	// FieldSelected - файлы, выбранные ранее; новая порция дописывается к ним
	FieldSelected = "selected"
	// FieldLastModified - время изменения файлов в мс, по порядку selected, затем photos
	FieldLastModified = "last_modified"
)

var (
	errUploadTooLarge = errors.New("upload is too large")
	errNotMultipart   = errors.New("multipart form is required")
)

// readEvidence разбирает multipart-форму и возвращает объединённую выборку файлов
func (h *Handler) readEvidence(c *gin.Context) ([]evidence.File, *multipart.Form, error) {
	if h.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, errUploadTooLarge
		}
		return nil, nil, errNotMultipart
	}

	modified := form.Value[FieldLastModified]

	previous, err := readFiles(form.File[FieldSelected], modified, 0)
	if err != nil {
		return nil, nil, err
	}
	batch, err := readFiles(form.File[FieldPhotos], modified, len(previous))
	if err != nil {
		return nil, nil, err
	}

	return evidence.MergeSelection(previous, batch, evidence.DefaultMaxFiles), form, nil
}

func readFiles(headers []*multipart.FileHeader, modified []string, offset int) ([]evidence.File, error) {
	files := make([]evidence.File, 0, len(headers))
	for i, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, evidence.File{
			Name:         fh.Filename,
			Size:         fh.Size,
			LastModified: lastModifiedAt(modified, offset+i),
			Data:         data,
		})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return data, nil
}

// lastModifiedAt возвращает нулевое время, если значение не передано или не число
func lastModifiedAt(values []string, i int) time.Time {
	if i >= len(values) {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(values[i], 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// formValue возвращает первое значение поля формы
func formValue(form *multipart.Form, key string) string {
	if form == nil {
		return ""
	}
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
