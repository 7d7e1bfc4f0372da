// Package pipeline drives one staged batch through validation, version
// resolution, presigning and the parallel upload.
//
// An Orchestrator is safe for concurrent use. Only one Start may run at a
// time; staging operations are refused while it does.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/logging"
	"github.com/dmitrijs2005/predictupload/internal/models"
	"github.com/dmitrijs2005/predictupload/internal/presign"
	"github.com/dmitrijs2005/predictupload/internal/staging"
	"github.com/dmitrijs2005/predictupload/internal/upload"
	"github.com/dmitrijs2005/predictupload/internal/validate"
)

// VersionResolver picks the version a new batch is written under. It never
// fails.
type VersionResolver interface {
	Next(ctx context.Context, projectID string) int
}

type Uploader interface {
	UploadAll(ctx context.Context, targets []upload.Target) error
}

type Options struct {
	ProjectID       string
	Task            models.TaskKind
	ExpectedColumns []string
	// MaxFileSize <= 0 selects common.MaxStagedFileSize.
	MaxFileSize int64

	Resolver VersionResolver
	Broker   presign.Broker
	Uploader Uploader
	Notifier Notifier
	Logger   logging.Logger

	OnUploadStart    func(ctx context.Context)
	OnUploadComplete func(ctx context.Context, c models.Completed)
	OnClose          func()

	Now func() time.Time
}

type Orchestrator struct {
	opts   Options
	logger logging.Logger

	mu      sync.Mutex
	state   State
	verdict models.Verdict
	batch   *staging.Batch
}

func New(o Options) *Orchestrator {
	if o.Logger == nil {
		o.Logger = logging.Nop{}
	}
	if o.Notifier == nil {
		o.Notifier = nopNotifier{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return &Orchestrator{
		opts:   o,
		logger: o.Logger.With("project_id", o.ProjectID),
		state:  StateIdle,
		batch:  staging.NewBatch(o.MaxFileSize),
	}
}

// Stage adds files to the batch and validates the whole batch again.
// Files over the size limit or with a name already staged are skipped and
// reported through the returned error; the others are still staged. A
// batch that fails validation is cleared.
func (o *Orchestrator) Stage(ctx context.Context, files ...*models.StagedFile) (models.Verdict, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateUploading {
		return o.verdict, common.ErrBusy
	}

	var rejected []error
	for _, f := range files {
		if err := o.batch.Add(f); err != nil {
			o.logger.Warn(ctx, "file rejected", "name", f.Name, "error", err)
			rejected = append(rejected, err)
		}
	}

	o.revalidate(ctx)
	return o.verdict, errors.Join(rejected...)
}

// Remove drops a staged file and validates what is left.
func (o *Orchestrator) Remove(ctx context.Context, name string) (models.Verdict, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateUploading {
		return o.verdict, common.ErrBusy
	}
	if !o.batch.Remove(name) {
		return o.verdict, fmt.Errorf("%w: %s", common.ErrNotFound, name)
	}

	o.revalidate(ctx)
	return o.verdict, nil
}

// Clear discards the batch and returns to StateIdle.
func (o *Orchestrator) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateUploading {
		return common.ErrBusy
	}
	o.reset()
	return nil
}

// Close discards any staged state and tells the host the dialog is gone.
// No backend call is made. Closing during an upload is refused; cancel the
// context given to Start instead.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	if o.state == StateUploading {
		o.mu.Unlock()
		return common.ErrBusy
	}
	o.reset()
	o.mu.Unlock()

	if o.opts.OnClose != nil {
		o.opts.OnClose()
	}
	return nil
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// CanStart reports whether Start would be accepted now.
func (o *Orchestrator) CanStart() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.canStart()
}

func (o *Orchestrator) Verdict() models.Verdict {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.verdict
}

// Files returns a copy of the staged batch.
func (o *Orchestrator) Files() []*models.StagedFile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.batch.Files()
}

// Start uploads the staged batch: the version is resolved, URLs are
// presigned for every file, and all files are PUT in parallel. The stages
// run strictly in that order.
//
// On success the batch is cleared, OnUploadComplete receives the files and
// their prefix, and OnClose is called. On failure the batch is kept for a
// retry. Either way exactly one notification is sent. Cancelling ctx aborts
// the run as a failure. A panic in any stage is reported as a failure and
// then re-raised.
func (o *Orchestrator) Start(ctx context.Context) (err error) {
	o.mu.Lock()
	if o.state == StateUploading {
		o.mu.Unlock()
		return common.ErrBusy
	}
	if !o.canStart() {
		o.mu.Unlock()
		return common.ErrNotReady
	}
	o.state = StateUploading
	files := o.batch.Files()
	o.mu.Unlock()

	log := o.logger.With("op_id", uuid.NewString())

	var completed models.Completed
	defer func() {
		if p := recover(); p != nil {
			o.finish(ctx, log, models.Completed{}, fmt.Errorf("upload panicked: %v", p))
			panic(p)
		}
		o.finish(ctx, log, completed, err)
	}()

	if o.opts.OnUploadStart != nil {
		o.opts.OnUploadStart(ctx)
	}

	completed, err = o.run(ctx, log, files)
	return err
}

func (o *Orchestrator) run(ctx context.Context, log logging.Logger, files []*models.StagedFile) (models.Completed, error) {
	log.Info(ctx, "upload started", "files", len(files))

	version := o.opts.Resolver.Next(ctx, o.opts.ProjectID)
	if err := ctx.Err(); err != nil {
		return models.Completed{}, err
	}
	prefix := upload.Prefix(o.opts.ProjectID, version)
	log.Debug(ctx, "version resolved", "version", version, "prefix", prefix)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}

	grants, err := o.opts.Broker.RequestUploadURLs(ctx, o.opts.ProjectID, version, presign.ItemsFor(names))
	if err != nil {
		return models.Completed{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Completed{}, err
	}

	urls, keys := presign.LookupByBasename(grants)
	targets := upload.BuildTargets(files, urls, keys)

	if err := o.opts.Uploader.UploadAll(ctx, targets); err != nil {
		return models.Completed{}, err
	}

	uploaded := make(map[string]string, len(targets))
	for _, t := range targets {
		uploaded[upload.Basename(t.File.Name)] = t.Key
	}

	return models.Completed{
		ProjectID: o.opts.ProjectID,
		Version:   version,
		Prefix:    prefix,
		Files:     files,
		Keys:      uploaded,
		At:        o.opts.Now(),
	}, nil
}

// finish always leaves StateUploading, then emits the outcome.
func (o *Orchestrator) finish(ctx context.Context, log logging.Logger, c models.Completed, err error) {
	o.mu.Lock()
	if err == nil {
		o.batch.Clear()
		o.verdict = models.Verdict{}
		o.state = StateCompleted
	} else {
		o.state = StateFailed
	}
	o.mu.Unlock()

	if err != nil {
		log.Error(ctx, "upload failed", "error", err)
		o.opts.Notifier.Notify(ctx, Notification{Level: LevelError, Message: failureMessage(err)})
		return
	}

	log.Info(ctx, "upload completed", "prefix", c.Prefix, "files", len(c.Files))
	o.opts.Notifier.Notify(ctx, Notification{
		Level:   LevelSuccess,
		Message: fmt.Sprintf("Uploaded %d file(s) to %s", len(c.Files), c.Prefix),
	})
	if o.opts.OnUploadComplete != nil {
		o.opts.OnUploadComplete(ctx, c)
	}
	if o.opts.OnClose != nil {
		o.opts.OnClose()
	}
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "Upload cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Upload timed out"
	default:
		return err.Error()
	}
}

// revalidate must be called with mu held.
func (o *Orchestrator) revalidate(ctx context.Context) {
	if o.batch.Len() == 0 {
		o.reset()
		return
	}

	verdict, files := validate.Validate(o.batch.Files(), o.opts.Task, o.opts.ExpectedColumns)
	o.verdict = verdict
	if !verdict.Valid {
		o.logger.Info(ctx, "batch rejected", "reason", verdict.Message)
		o.batch.Clear()
		o.state = StateStagedInvalid
		return
	}
	o.batch.Replace(files)
	o.state = StateStagedValid
}

// reset must be called with mu held.
func (o *Orchestrator) reset() {
	o.batch.Clear()
	o.verdict = models.Verdict{}
	o.state = StateIdle
}

func (o *Orchestrator) canStart() bool {
	switch o.state {
	case StateStagedValid, StateFailed:
		return o.batch.Len() > 0 && o.verdict.Valid
	default:
		return false
	}
}
