package version

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/predictupload/internal/models"
)

// RecordLister lists the deploy-data records of a project.
type RecordLister interface {
	ListDeployData(ctx context.Context, projectID string) ([]models.DeployRecord, error)
}

var errNoVersionedRecord = errors.New("no record carries a version")

// RecordsStrategy infers the next version from stored deploy-data paths.
// It reads the version of the newest record first and, when that path does
// not parse, scans every record for the highest version.
type RecordsStrategy struct {
	lister RecordLister
}

func NewRecordsStrategy(l RecordLister) *RecordsStrategy {
	return &RecordsStrategy{lister: l}
}

func (s *RecordsStrategy) Name() string { return "records" }

func (s *RecordsStrategy) NextVersion(ctx context.Context, projectID string) (int, error) {
	records, err := s.lister.ListDeployData(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return FirstVersion, nil
	}

	pattern := versionPattern(projectID)

	sorted := append([]models.DeployRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if v, ok := parseVersion(pattern, sorted[0].StoragePath); ok {
		return v + 1, nil
	}

	max, found := 0, false
	for _, r := range records {
		if v, ok := parseVersion(pattern, r.StoragePath); ok && v > max {
			max, found = v, true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: %d record(s) for %s", errNoVersionedRecord, len(records), projectID)
	}
	return max + 1, nil
}

func versionPattern(projectID string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(projectID) + `_predict/v(\d+)/`)
}

func parseVersion(re *regexp.Regexp, path string) (int, bool) {
	m := re.FindStringSubmatch(path)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}
