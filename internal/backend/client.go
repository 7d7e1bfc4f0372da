package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dmitrijs2005/predictupload/internal/authx"
	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/logging"
	"github.com/dmitrijs2005/predictupload/internal/models"
)

// Paths are the endpoint paths relative to the base URL.
type Paths struct {
	VersionCount  string
	UploadURLs    string
	DownloadURLs  string
	DeployRecords string
}

var DefaultPaths = Paths{
	VersionCount:  "/api/storage/version-count",
	UploadURLs:    "/api/storage/presigned-upload-urls",
	DownloadURLs:  "/api/storage/presigned-download-urls",
	DeployRecords: "/api/deploy/data",
}

type Options struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Timeout    time.Duration
	Attempts   uint
	RetryDelay time.Duration
	Paths      *Paths
	Logger     logging.Logger
}

type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	timeout    time.Duration
	attempts   uint
	retryDelay time.Duration
	paths      Paths
	logger     logging.Logger
	now        func() time.Time
}

func New(o Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(o.BaseURL, "/"),
		token:      o.Token,
		http:       o.HTTPClient,
		timeout:    o.Timeout,
		attempts:   o.Attempts,
		retryDelay: o.RetryDelay,
		paths:      DefaultPaths,
		logger:     o.Logger,
		now:        time.Now,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.attempts == 0 {
		c.attempts = 3
	}
	if c.retryDelay <= 0 {
		c.retryDelay = 200 * time.Millisecond
	}
	if o.Paths != nil {
		c.paths = *o.Paths
	}
	if c.logger == nil {
		c.logger = logging.Nop{}
	}
	return c
}

// UploadFile is one entry of a presign request.
type UploadFile struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

// PresignedURL is one entry of a presign response.
type PresignedURL struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type uploadURLsRequest struct {
	ProjectID string       `json:"projectId"`
	Version   int          `json:"version"`
	Files     []UploadFile `json:"files"`
}

type versionCountResponse struct {
	VersionCount *int `json:"version_count"`
}

// VersionCount returns how many versions exist under namespace.
func (c *Client) VersionCount(ctx context.Context, namespace string) (int, error) {
	q := url.Values{"namespace": {namespace}}

	var resp versionCountResponse
	if err := c.get(ctx, c.paths.VersionCount, q, &resp); err != nil {
		return 0, err
	}
	if resp.VersionCount == nil {
		return 0, errors.New("malformed version count response: missing version_count")
	}
	if *resp.VersionCount < 0 {
		return 0, fmt.Errorf("malformed version count response: negative count %d", *resp.VersionCount)
	}
	return *resp.VersionCount, nil
}

// CreateUploadURLs asks the signer for one write URL per file.
func (c *Client) CreateUploadURLs(ctx context.Context, projectID string, version int, files []UploadFile) ([]PresignedURL, error) {
	body := uploadURLsRequest{ProjectID: projectID, Version: version, Files: files}

	var resp []PresignedURL
	if err := c.do(ctx, http.MethodPost, c.paths.UploadURLs, nil, body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateDownloadURLs lists the contents of a previously uploaded version.
func (c *Client) CreateDownloadURLs(ctx context.Context, projectID string, version int) ([]models.DownloadDescriptor, error) {
	q := url.Values{"projectId": {projectID}, "version": {strconv.Itoa(version)}}

	var resp []models.DownloadDescriptor
	if err := c.get(ctx, c.paths.DownloadURLs, q, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListDeployData returns the deploy-data records of a project.
func (c *Client) ListDeployData(ctx context.Context, projectID string) ([]models.DeployRecord, error) {
	q := url.Values{"projectId": {projectID}}

	var resp []models.DeployRecord
	if err := c.get(ctx, c.paths.DeployRecords, q, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	return retry.Do(
		func() error {
			return c.do(ctx, http.MethodGet, path, q, nil, out)
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, common.ErrUnavailable)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug(ctx, "retrying backend call", "path", path, "attempt", n+1, "error", err)
		}),
	)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	if err := authx.CheckToken(c.token, c.now()); err != nil {
		return err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(common.AuthorizationHeaderName, authx.Header(c.token))
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %w", common.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := strings.TrimSpace(string(raw))

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, resp.Status)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s: %s", common.ErrUnavailable, resp.Status, detail)
	default:
		return fmt.Errorf("backend returned %s: %s", resp.Status, detail)
	}
}
