// Package upload sends staged files straight to object storage through
// presigned PUT URLs and derives the keys and content types they are sent with.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/logging"
	"github.com/dmitrijs2005/predictupload/internal/models"
)

// DefaultConcurrency bounds the number of PUTs in flight.
const DefaultConcurrency = 8

// Target pairs a staged file with the presigned URL it must be written to.
type Target struct {
	File        *models.StagedFile
	Key         string
	ContentType string
	URL         string
}

type Uploader struct {
	client      *http.Client
	concurrency int
	timeout     time.Duration
	logger      logging.Logger
}

// NewUploader builds an Uploader. A nil client means http.DefaultClient,
// concurrency <= 0 means DefaultConcurrency and timeout <= 0 disables the
// per-request deadline.
func NewUploader(client *http.Client, concurrency int, timeout time.Duration, logger logging.Logger) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Uploader{client: client, concurrency: concurrency, timeout: timeout, logger: logger}
}

// UploadAll writes every target and fails as a whole if any single target
// fails. A target without a URL fails the call before any PUT is sent.
// Files already written when a later PUT fails stay in storage; a retry
// overwrites them under the same keys.
func (u *Uploader) UploadAll(ctx context.Context, targets []Target) error {
	for _, t := range targets {
		if t.URL == "" {
			return fmt.Errorf("%w for %s", common.ErrMissingPresignedURL, t.Key)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)

	for _, t := range targets {
		t := t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := u.put(ctx, t); err != nil {
				u.logger.Warn(ctx, "upload failed", "key", t.Key, "error", err)
				return err
			}
			u.logger.Debug(ctx, "uploaded", "key", t.Key, "size", t.File.Size)
			return nil
		})
	}

	return g.Wait()
}

func (u *Uploader) put(ctx context.Context, t Target) error {
	body, err := t.File.ReadAll()
	if err != nil {
		return fmt.Errorf("read %s: %w", t.File.Name, err)
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrUploadFailed, t.Key, err)
	}
	req.Header.Set("Content-Type", t.ContentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrUploadFailed, t.Key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s; body: %s", common.ErrUploadFailed, t.Key, resp.Status, string(b))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
