package constants

import "time"

// Значения по умолчанию для API каталога
const (
	DefaultBaseURL       = "https://tienda.mercadona.es/api/categories/"
	DefaultLanguage      = "es"
	DefaultMaxCategoryID = 300
	DefaultWarehouse     = "mad1"

	DefaultProbeTimeout = 10 * time.Second
	DefaultFetchTimeout = 20 * time.Second

	DefaultOutputDir  = "data"
	DefaultFilePrefix = "mercadona"

	// SnapshotTimezone - часовой пояс, в котором определяется дата снапшота
	SnapshotTimezone = "Europe/Madrid"
)
