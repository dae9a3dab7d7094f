package models

// Place - результат обратного геокодирования
type Place struct {
	City  string `json:"city"`
	State string `json:"state,omitempty"`
}
