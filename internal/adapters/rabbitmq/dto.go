package rabbitmq

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotWrittenDTO - тело события о записанном снапшоте
type SnapshotWrittenDTO struct {
	RunID             uuid.UUID `json:"run_id"`
	Region            string    `json:"region,omitempty"`
	Date              string    `json:"date"`
	Path              string    `json:"path"`
	Records           int       `json:"records"`
	Warehouses        []string  `json:"warehouses"`
	ValidCategories   int       `json:"valid_categories"`
	ProbeMisses       int       `json:"probe_misses"`
	FailedExtractions int       `json:"failed_extractions"`
	PublishedAt       time.Time `json:"published_at"`
}
