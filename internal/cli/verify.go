package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/models"
	"github.com/dmitrijs2005/predictupload/internal/tree"
	"github.com/dmitrijs2005/predictupload/internal/upload"
)

type downloadLister interface {
	CreateDownloadURLs(ctx context.Context, projectID string, version int) ([]models.DownloadDescriptor, error)
}

// verifyUpload lists the uploaded version, prints it as a folder tree and
// checks that every uploaded file is in the listing.
func verifyUpload(ctx context.Context, l downloadLister, c models.Completed, w io.Writer) error {
	descs, err := l.CreateDownloadURLs(ctx, c.ProjectID, c.Version)
	if err != nil {
		return fmt.Errorf("verify %s: %w", c.Prefix, err)
	}

	t := tree.New()
	listed := make(map[string]bool, len(descs))
	for _, d := range descs {
		t.Insert(d.Key, d.Size)
		listed[upload.Basename(d.Key)] = true
	}
	if err := t.Render(w); err != nil {
		return err
	}

	var missing []string
	for _, f := range c.Files {
		if base := upload.Basename(f.Name); !listed[base] {
			missing = append(missing, base)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: not listed under %s: %s", common.ErrNotFound, c.Prefix, strings.Join(missing, ", "))
	}
	return nil
}
