package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptySnapshot - ни один склад не вернул товаров, файл не записывается
	ErrEmptySnapshot = errors.New("snapshot is empty")
	// ErrNoWarehouses - в области снапшота не задано ни одного склада
	ErrNoWarehouses = errors.New("snapshot scope has no warehouses")
	// ErrUnknownRegion - регион отсутствует в таблице регионов
	ErrUnknownRegion = errors.New("unknown region")
	// ErrInvalidSnapshotFile - файл не похож на снапшот (нет обязательных колонок)
	ErrInvalidSnapshotFile = errors.New("invalid snapshot file")
)

// SnapshotScope задает, что собирать: склады и необязательный ключ региона
type SnapshotScope struct {
	RegionKey  string
	Warehouses []string
}

// IsRegional - true, если снапшот пишется в каталог региона
func (s SnapshotScope) IsRegional() bool {
	return s.RegionKey != ""
}

// Snapshot - все наблюдения одного запуска для одной области
type Snapshot struct {
	RunID   uuid.UUID
	Scope   SnapshotScope
	Date    time.Time
	Records []ProductRecord
}

// SnapshotSummary - итог одного запуска сборщика
type SnapshotSummary struct {
	RunID             uuid.UUID
	Scope             SnapshotScope
	Date              time.Time
	Path              string
	Records           int
	Warehouses        []string
	ValidCategories   int
	ProbeMisses       int
	ProbeFailures     int
	FailedExtractions int
	SinkFailures      []string
}

// RunStats - итог обхода нескольких регионов
type RunStats struct {
	Regions   int
	Written   int
	Empty     int
	Failed    int
	Records   int
	Summaries []SnapshotSummary
}
