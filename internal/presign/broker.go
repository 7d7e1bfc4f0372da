// Package presign obtains time-limited write URLs for a batch of files.
//
// Two brokers are provided: BackendBroker asks the platform's signing
// service, S3Broker signs locally with S3 credentials. Both return grants
// whose keys are authoritative; callers match them to local files by
// basename only, because a signer may prepend a prefix of its own.
package presign

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/predictupload/internal/backend"
	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/upload"
)

// Item is what the client asks a URL for: the basename it wants written and
// the content type the PUT will carry.
type Item struct {
	Key         string
	ContentType string
}

// Grant is a signed write capability for one object key.
type Grant struct {
	Key string
	URL string
}

type Broker interface {
	RequestUploadURLs(ctx context.Context, projectID string, version int, items []Item) ([]Grant, error)
}

// Signer is the part of backend.Client used by BackendBroker.
type Signer interface {
	CreateUploadURLs(ctx context.Context, projectID string, version int, files []backend.UploadFile) ([]backend.PresignedURL, error)
}

type BackendBroker struct {
	signer Signer
}

func NewBackendBroker(signer Signer) *BackendBroker {
	return &BackendBroker{signer: signer}
}

// RequestUploadURLs sends one batched request for all items. Any transport
// error or an empty answer is reported as common.ErrPresignFailed.
func (b *BackendBroker) RequestUploadURLs(ctx context.Context, projectID string, version int, items []Item) ([]Grant, error) {
	files := make([]backend.UploadFile, 0, len(items))
	for _, it := range items {
		files = append(files, backend.UploadFile{Key: it.Key, Type: it.ContentType})
	}

	resp, err := b.signer.CreateUploadURLs(ctx, projectID, version, files)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPresignFailed, err)
	}
	if len(resp) == 0 {
		return nil, common.ErrPresignFailed
	}

	grants := make([]Grant, 0, len(resp))
	for _, r := range resp {
		grants = append(grants, Grant{Key: r.Key, URL: r.URL})
	}
	return grants, nil
}

// ItemsFor derives one presign item per file name.
func ItemsFor(names []string) []Item {
	items := make([]Item, 0, len(names))
	for _, n := range names {
		items = append(items, Item{Key: upload.Basename(n), ContentType: upload.ContentTypeFor(n)})
	}
	return items
}

// LookupByBasename indexes grants by the last segment of their key, returning
// basename -> URL and basename -> authoritative key. Grants with an empty URL
// are skipped so the file shows up as missing.
func LookupByBasename(grants []Grant) (urls map[string]string, keys map[string]string) {
	urls = make(map[string]string, len(grants))
	keys = make(map[string]string, len(grants))
	for _, g := range grants {
		if g.URL == "" {
			continue
		}
		base := upload.Basename(g.Key)
		urls[base] = g.URL
		keys[base] = g.Key
	}
	return urls, keys
}
