package evidence

import (
	"fmt"
	"time"
)

// File - исходный файл изображения, выбранный пользователем
type File struct {
	Name         string
	Size         int64
	LastModified time.Time
	Data         []byte
}

// Identity - ключ файла вида name__size__lastModified
func (f File) Identity() string {
	var modified int64
	if !f.LastModified.IsZero() {
		modified = f.LastModified.UnixMilli()
	}
	return fmt.Sprintf("%s__%d__%d", f.Name, f.Size, modified)
}

// MergeSelection дописывает новую порцию к уже выбранным файлам и обрезает до max
func MergeSelection(previous, batch []File, max int) []File {
	merged := make([]File, 0, len(previous)+len(batch))
	merged = append(merged, previous...)
	merged = append(merged, batch...)
	if max > 0 && len(merged) > max {
		merged = merged[:max]
	}
	return merged
}
