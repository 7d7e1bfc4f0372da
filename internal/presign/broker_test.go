package presign

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/predictupload/internal/backend"
	"github.com/dmitrijs2005/predictupload/internal/common"
)

type fakeSigner struct {
	gotProject string
	gotVersion int
	gotFiles   []backend.UploadFile
	resp       []backend.PresignedURL
	err        error
}

func (f *fakeSigner) CreateUploadURLs(ctx context.Context, projectID string, version int, files []backend.UploadFile) ([]backend.PresignedURL, error) {
	f.gotProject, f.gotVersion, f.gotFiles = projectID, version, files
	return f.resp, f.err
}

func TestBackendBroker_Success(t *testing.T) {
	s := &fakeSigner{resp: []backend.PresignedURL{
		{Key: "tenant/proj_predict/v3/dog.jpg", URL: "http://s/dog"},
		{Key: "tenant/proj_predict/v3/cat.png", URL: "http://s/cat"},
	}}

	grants, err := NewBackendBroker(s).RequestUploadURLs(context.Background(), "proj", 3, ItemsFor([]string{"dog.jpg", "cat.png"}))
	require.NoError(t, err)
	require.Len(t, grants, 2)

	assert.Equal(t, "proj", s.gotProject)
	assert.Equal(t, 3, s.gotVersion)
	assert.Equal(t, []backend.UploadFile{{Key: "dog.jpg", Type: "image/jpeg"}, {Key: "cat.png", Type: "image/png"}}, s.gotFiles)
	assert.Equal(t, Grant{Key: "tenant/proj_predict/v3/dog.jpg", URL: "http://s/dog"}, grants[0])
}

func TestBackendBroker_EmptyResponseIsHardError(t *testing.T) {
	for _, resp := range [][]backend.PresignedURL{nil, {}} {
		_, err := NewBackendBroker(&fakeSigner{resp: resp}).RequestUploadURLs(context.Background(), "p", 1, ItemsFor([]string{"a.png"}))
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrPresignFailed)
		assert.Equal(t, "Failed to get presigned URLs", err.Error())
	}
}

func TestBackendBroker_TransportErrorWrapped(t *testing.T) {
	_, err := NewBackendBroker(&fakeSigner{err: common.ErrUnavailable}).RequestUploadURLs(context.Background(), "p", 1, ItemsFor([]string{"a.png"}))
	assert.ErrorIs(t, err, common.ErrPresignFailed)
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestLookupByBasename(t *testing.T) {
	urls, keys := LookupByBasename([]Grant{
		{Key: "srv/p_predict/v1/dog.jpg", URL: "http://s/dog"},
		{Key: "cat.JPG", URL: "http://s/cat"},
		{Key: "srv/p_predict/v1/extra.png", URL: "http://s/extra"},
		{Key: "srv/p_predict/v1/nourl.png", URL: ""},
	})

	assert.Equal(t, "http://s/dog", urls["dog.jpg"])
	assert.Equal(t, "srv/p_predict/v1/dog.jpg", keys["dog.jpg"])
	assert.Equal(t, "http://s/cat", urls["cat.JPG"])
	assert.Len(t, urls, 3)
	_, ok := urls["nourl.png"]
	assert.False(t, ok)
	_, ok = urls["cat.jpg"]
	assert.False(t, ok, "basename matching is case-sensitive")
}

func TestItemsFor(t *testing.T) {
	items := ItemsFor([]string{"cat.JPG", "data.csv", "blob.bin"})
	assert.Equal(t, []Item{
		{Key: "cat.JPG", ContentType: "image/jpeg"},
		{Key: "data.csv", ContentType: "text/csv"},
		{Key: "blob.bin", ContentType: "application/octet-stream"},
	}, items)
}


func TestLookupByBasename_BackslashIsPartOfName(t *testing.T) {
	urls, keys := LookupByBasename([]Grant{
		{Key: `srv/p_predict/v1/a\b.png`, URL: "http://s/ab"},
	})

	assert.Equal(t, "http://s/ab", urls[`a\b.png`])
	assert.Equal(t, `srv/p_predict/v1/a\b.png`, keys[`a\b.png`])
	_, ok := urls["b.png"]
	assert.False(t, ok)
}
