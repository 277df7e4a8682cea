package csvstorage

import (
	"context"
	"encoding/csv"
	"fmt"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"os"
	"path/filepath"
	"time"
)

const snapshotFileMode os.FileMode = 0o644

// SnapshotCSVAdapter пишет снапшоты в CSV (UTF-8, без BOM).
// Регион: {dir}/{region}/{prefix}_{region}_{date}.csv, без региона: {dir}/{prefix}_{date}.csv
type SnapshotCSVAdapter struct {
	outputDir string
	prefix    string
}

func NewSnapshotCSVAdapter(outputDir, prefix string) (*SnapshotCSVAdapter, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("csv adapter: output dir cannot be empty")
	}
	if prefix == "" {
		return nil, fmt.Errorf("csv adapter: file prefix cannot be empty")
	}
	return &SnapshotCSVAdapter{outputDir: outputDir, prefix: prefix}, nil
}

// PathFor возвращает путь файла снапшота для региона (или без него) и даты
func (a *SnapshotCSVAdapter) PathFor(regionKey string, date time.Time) string {
	day := date.Format(domain.DateLayout)
	if regionKey == "" {
		return filepath.Join(a.outputDir, fmt.Sprintf("%s_%s.csv", a.prefix, day))
	}
	return filepath.Join(a.outputDir, regionKey, fmt.Sprintf("%s_%s_%s.csv", a.prefix, regionKey, day))
}

// Write пишет файл во временный и переименовывает, чтобы читатель не увидел половину снапшота.
// Файл за тот же день перезаписывается.
func (a *SnapshotCSVAdapter) Write(ctx context.Context, snapshot domain.Snapshot) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "SnapshotCSVAdapter"})

	path := a.PathFor(snapshot.Scope.RegionKey, snapshot.Date)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("csv adapter: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("csv adapter: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	// CreateTemp создает файл с правами 0600, снапшот читают и другие пользователи
	if err := tmp.Chmod(snapshotFileMode); err != nil {
		tmp.Close()
		return "", fmt.Errorf("csv adapter: chmod %s: %w", tmpName, err)
	}

	if err := writeRecords(tmp, snapshot.Records); err != nil {
		tmp.Close()
		return "", fmt.Errorf("csv adapter: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("csv adapter: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("csv adapter: rename to %s: %w", path, err)
	}

	logger.Debug("Snapshot file written", port.Fields{"path": path, "rows": len(snapshot.Records)})
	return path, nil
}

func writeRecords(f *os.File, records []domain.ProductRecord) error {
	w := csv.NewWriter(f)
	if err := w.Write(SnapshotColumns); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(toRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
