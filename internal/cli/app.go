package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/predictupload/internal/backend"
	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/config"
	"github.com/dmitrijs2005/predictupload/internal/history"
	"github.com/dmitrijs2005/predictupload/internal/logging"
	"github.com/dmitrijs2005/predictupload/internal/models"
	"github.com/dmitrijs2005/predictupload/internal/pipeline"
	"github.com/dmitrijs2005/predictupload/internal/upload"
)

type App struct {
	cfg    *config.Config
	logger logging.Logger
	out    io.Writer

	api      *backend.Client
	history  *history.Store
	pipeline *pipeline.Orchestrator

	closers   []func() error
	verifyErr error
}

// NewApp builds every component the configuration asks for. The caller must
// Close the returned App.
func NewApp(ctx context.Context, cfg *config.Config, out io.Writer, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	a := &App{cfg: cfg, logger: logger, out: out}

	store, err := history.Open(ctx, cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	a.history = store
	a.closers = append(a.closers, store.Close)

	if cfg.ShowHistory {
		return a, nil
	}

	if err := ensureToken(cfg, int(os.Stdin.Fd()), out); err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.NeedsBackend() {
		a.api = newBackend(cfg, logger)
	}

	broker, err := a.buildBroker(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.pipeline = pipeline.New(pipeline.Options{
		ProjectID:        cfg.ProjectID,
		Task:             cfg.Task,
		ExpectedColumns:  cfg.ExpectedColumns,
		MaxFileSize:      cfg.MaxFileSize,
		Resolver:         a.buildResolver(ctx),
		Broker:           broker,
		Uploader:         upload.NewUploader(&http.Client{}, cfg.UploadConcurrency, cfg.RequestTimeout, logger),
		Notifier:         pipeline.NotifierFunc(a.notify),
		Logger:           logger,
		OnUploadStart:    a.onUploadStart,
		OnUploadComplete: a.onUploadComplete,
		OnClose:          func() { logger.Debug(context.Background(), "upload dialog closed") },
	})

	return a, nil
}

// Run stages paths and uploads them, or prints the history when asked to.
func (a *App) Run(ctx context.Context, paths []string) error {
	if a.cfg.ShowHistory {
		return printHistory(ctx, a.history, a.cfg.ProjectID, a.out)
	}

	if len(paths) == 0 {
		return errors.New("no files given")
	}

	files := make([]*models.StagedFile, 0, len(paths))
	for _, p := range paths {
		f, err := models.NewStagedFileFromPath(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	verdict, err := a.pipeline.Stage(ctx, files...)
	if err != nil {
		fmt.Fprintf(a.out, "Some files were not staged: %v\n", err)
	}
	if !verdict.Valid {
		msg := verdict.Message
		if msg == "" {
			msg = "nothing to upload"
		}
		fmt.Fprintln(a.out, msg)
		return fmt.Errorf("%w: %s", common.ErrNotReady, msg)
	}

	if err := a.pipeline.Start(ctx); err != nil {
		return err
	}
	return a.verifyErr
}

// Close releases every resource opened by NewApp.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) notify(_ context.Context, n pipeline.Notification) {
	if n.Level == pipeline.LevelError {
		fmt.Fprintf(a.out, "Error: %s\n", n.Message)
		return
	}
	fmt.Fprintln(a.out, n.Message)
}

func (a *App) onUploadStart(ctx context.Context) {
	fmt.Fprintf(a.out, "Uploading %d file(s)...\n", len(a.pipeline.Files()))
}

func (a *App) onUploadComplete(ctx context.Context, c models.Completed) {
	if _, err := a.history.Record(ctx, c); err != nil {
		a.logger.Warn(ctx, "could not record upload history", "prefix", c.Prefix, "error", err)
	}

	if a.cfg.Verify && a.api != nil {
		a.verifyErr = verifyUpload(ctx, a.api, c, a.out)
	}
}
