package port

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
)

// SnapshotWriterPort сохраняет снапшот и возвращает путь к записанному файлу
type SnapshotWriterPort interface {
	Write(ctx context.Context, snapshot domain.Snapshot) (string, error)
}

// SnapshotReaderPort читает из файла снапшота только то, что нужно для сравнения цен
type SnapshotReaderPort interface {
	ReadPrices(ctx context.Context, path string) ([]domain.PricePoint, error)
}

// SnapshotArchivePort - дополнительное хранилище наблюдений (БД).
// Ошибки архива не отменяют уже записанный файл.
type SnapshotArchivePort interface {
	Name() string
	Archive(ctx context.Context, snapshot domain.Snapshot, path string) error
}
