package evidence

import (
	"fmt"
	"strings"
)

const base64Marker = "base64,"

// EstimateBase64Bytes оценивает размер декодированных данных по data URL с учётом паддинга
func EstimateBase64Bytes(dataURL string) int {
	i := strings.Index(dataURL, base64Marker)
	if i == -1 {
		return 0
	}
	b64 := dataURL[i+len(base64Marker):]

	padding := 0
	switch {
	case strings.HasSuffix(b64, "=="):
		padding = 2
	case strings.HasSuffix(b64, "="):
		padding = 1
	}

	n := len(b64)*3/4 - padding
	if n < 0 {
		return 0
	}
	return n
}

// FormatBytes форматирует размер для сообщений: байты, KB с одним знаком, MB с двумя
func FormatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	kb := float64(n) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%.1f KB", kb)
	}
	return fmt.Sprintf("%.2f MB", kb/1024)
}
