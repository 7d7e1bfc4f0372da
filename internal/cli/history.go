package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/predictupload/internal/history"
)

type historyLister interface {
	List(ctx context.Context, projectID string) ([]history.Entry, error)
}

func printHistory(ctx context.Context, h historyLister, projectID string, w io.Writer) error {
	entries, err := h.List(ctx, projectID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No uploads recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UPLOADED\tPROJECT\tVERSION\tFILES\tPREFIX")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			e.CreatedAt.Local().Format(time.DateTime), e.ProjectID, e.Version, len(e.Files), e.Prefix)
	}
	return tw.Flush()
}
