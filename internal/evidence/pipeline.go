// Package evidence принимает фотографии-доказательства: проверяет геометки,
// согласованность места съёмки, перекодирует и ограничивает суммарный размер.
//
// Этапы проверки количества, геометок и расстояний строгие: одна ошибка отклоняет
// весь набор. Перекодирование терпимо к сбоям отдельных файлов, но после него число
// фото проверяется повторно.
package evidence

import (
	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/sirupsen/logrus"
)

// Ограничения по умолчанию
const (
	DefaultMinFiles          = 2
	DefaultMaxFiles          = 5
	DefaultMaxDistanceMeters = 30.0
	// 3.5 MiB: коллекция хранится целиком, оставляем запас под остальные обращения
	DefaultMaxTotalBytes = 3.5 * 1024 * 1024
)

// Progress - состояние перекодирования для индикатора загрузки
type Progress struct {
	Done     int    `json:"done"`
	Total    int    `json:"total"`
	FileName string `json:"file_name"`
}

type ProgressFunc func(Progress)

type Options struct {
	MinFiles          int
	MaxFiles          int
	MaxDistanceMeters float64
	MaxTotalBytes     int
	// Anchor - сохранённое место обращения, к которому прикладываются новые фото
	Anchor     *models.GeoPoint
	OnProgress ProgressFunc
}

func DefaultOptions() Options {
	return Options{
		MinFiles:          DefaultMinFiles,
		MaxFiles:          DefaultMaxFiles,
		MaxDistanceMeters: DefaultMaxDistanceMeters,
		MaxTotalBytes:     DefaultMaxTotalBytes,
	}
}

// Inspection - результат проверки набора без перекодирования
type Inspection struct {
	Metadata  []models.PhotoMetadata
	Reference models.GeoPoint
}

// Result - принятый набор: фото и метаданные идут парами 1:1
type Result struct {
	Photos     []string
	Metadata   []models.PhotoMetadata
	Reference  models.GeoPoint
	TotalBytes int
}

type Pipeline struct {
	reader  GeoTagReader
	encoder Encoder
	logger  *logrus.Logger
}

func NewPipeline(reader GeoTagReader, encoder Encoder, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		reader:  reader,
		encoder: encoder,
		logger:  logger,
	}
}

// Inspect проверяет количество, геометки и согласованность места съёмки
func (p *Pipeline) Inspect(files []File, opts Options) (*Inspection, error) {
	if err := checkCount(len(files), opts, false); err != nil {
		return nil, err
	}

	meta := make([]models.PhotoMetadata, 0, len(files))
	for i, f := range files {
		tag, ok := p.reader.Read(f)
		if !ok || !tag.Valid() {
			return nil, &MissingGeoTagError{Index: i, File: f.Name}
		}
		meta = append(meta, models.PhotoMetadata{
			Location:     models.GeoPoint{Lat: tag.Lat, Lng: tag.Lng},
			CapturedAt:   tag.CapturedAt,
			FileIdentity: f.Identity(),
			Name:         f.Name,
			Size:         f.Size,
		})
	}

	ref := meta[0].Location
	for i, m := range meta {
		if d := ref.DistanceTo(m.Location); d > opts.MaxDistanceMeters {
			return nil, &InconsistentLocationError{
				Index:    i,
				File:     m.Name,
				Distance: d,
				Limit:    opts.MaxDistanceMeters,
			}
		}
	}

	if opts.Anchor != nil {
		if d := opts.Anchor.DistanceTo(ref); d > opts.MaxDistanceMeters {
			return nil, &InconsistentLocationError{
				Index:    0,
				File:     meta[0].Name,
				Distance: d,
				Limit:    opts.MaxDistanceMeters,
				Anchor:   true,
			}
		}
	}

	return &Inspection{Metadata: meta, Reference: ref}, nil
}

// Ingest выполняет все этапы и возвращает набор либо ошибку; частичного результата нет
func (p *Pipeline) Ingest(files []File, opts Options) (*Result, error) {
	inspection, err := p.Inspect(files, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Photos:    make([]string, 0, len(files)),
		Metadata:  make([]models.PhotoMetadata, 0, len(files)),
		Reference: inspection.Reference,
	}

	for i, f := range files {
		encoded, err := p.encoder.Encode(f)
		if err != nil {
			p.logger.WithFields(logrus.Fields{
				"component": "evidence",
				"file":      f.Name,
			}).WithError(err).Warn("Failed to re-encode photo, skipping")
		} else {
			res.Photos = append(res.Photos, encoded.Payload)
			res.Metadata = append(res.Metadata, inspection.Metadata[i])
			res.TotalBytes += EstimateBase64Bytes(encoded.Payload)
		}

		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Done: i + 1, Total: len(files), FileName: f.Name})
		}
	}

	if err := checkCount(len(res.Photos), opts, true); err != nil {
		return nil, err
	}

	if res.TotalBytes > opts.MaxTotalBytes {
		return nil, &PayloadTooLargeError{Size: res.TotalBytes, Limit: opts.MaxTotalBytes}
	}

	return res, nil
}

func checkCount(n int, opts Options, afterEncoding bool) error {
	if n < opts.MinFiles || n > opts.MaxFiles {
		return &CountError{Count: n, Min: opts.MinFiles, Max: opts.MaxFiles, AfterEncoding: afterEncoding}
	}
	return nil
}
