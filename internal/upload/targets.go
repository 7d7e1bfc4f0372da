package upload

import (
	"github.com/dmitrijs2005/predictupload/internal/models"
)

// BuildTargets joins files with a basename -> URL lookup. keys maps a basename
// to the authoritative object key returned by the signer; files missing from
// it fall back to their basename. A file without a URL gets an empty URL,
// which UploadAll rejects.
func BuildTargets(files []*models.StagedFile, urls, keys map[string]string) []Target {
	targets := make([]Target, 0, len(files))
	for _, f := range files {
		base := Basename(f.Name)
		key, ok := keys[base]
		if !ok {
			key = base
		}
		targets = append(targets, Target{
			File:        f,
			Key:         key,
			ContentType: ContentTypeFor(f.Name),
			URL:         urls[base],
		})
	}
	return targets
}
