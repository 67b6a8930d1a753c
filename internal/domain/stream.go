package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamCitiesImport   = "stream:cities:import"
	StreamCitiesImported = "stream:cities:imported"
)

// ImportRequestEvent - входящий запрос на загрузку городов
type ImportRequestEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	// Input overrides the configured input path when set.
	Input string `json:"input,omitempty"`
}

// ImportCompletedEvent - результат загрузки, публикуется после commit или после ошибки
type ImportCompletedEvent struct {
	RunID      uuid.UUID  `json:"run_id"`
	RequestID  *uuid.UUID `json:"request_id,omitempty"`
	Table      string     `json:"table"`
	Cities     int        `json:"cities"`
	Skipped    int        `json:"skipped"`
	Rows       int64      `json:"rows"`
	DurationMs int64      `json:"duration_ms"`
	FinishedAt time.Time  `json:"finished_at"`
	Error      string     `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
