package internal

import (
	"context"
	"io"
	"mercadona-parser-service/internal/adapters/console"
	"mercadona-parser-service/internal/adapters/csvstorage"
	"mercadona-parser-service/internal/configs"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/port"
	"mercadona-parser-service/internal/core/usecase"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// CompareApp сравнивает два файла снапшота и печатает отчет
type CompareApp struct {
	logger       port.LoggerPort
	fluentClient *fluent.Fluent
	comparator   *usecase.CompareSnapshotsUseCase
	printer      *console.ReportPrinter
}

func NewCompareApp(cfg *configs.AppConfig) (*CompareApp, error) {
	baseLogger, fluentClient, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &CompareApp{
		logger:       baseLogger.WithFields(port.Fields{"component": "compare"}),
		fluentClient: fluentClient,
		comparator:   usecase.NewCompareSnapshotsUseCase(csvstorage.NewSnapshotCSVReader()),
		printer:      console.NewReportPrinter(cfg.Report.Language),
	}, nil
}

func (a *CompareApp) Run(ctx context.Context, w io.Writer, baselinePath, currentPath string) error {
	ctx = contextkeys.ContextWithLogger(ctx, a.logger)

	report, err := a.comparator.Execute(ctx, baselinePath, currentPath)
	if err != nil {
		return err
	}
	return a.printer.Print(w, report)
}

func (a *CompareApp) Close() {
	if a.fluentClient != nil {
		_ = a.fluentClient.Close()
	}
}
