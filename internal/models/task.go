// Package models defines the values that flow through the upload pipeline:
// task kinds, staged files, validation verdicts and completed uploads.
package models

import (
	"fmt"
	"strings"
)

// TaskKind selects the validation contract for a staged batch.
type TaskKind int

const (
	TaskUnknown TaskKind = iota
	// TaskImage accepts any number of .jpg/.jpeg/.png files.
	TaskImage
	// TaskTabular accepts exactly one delimited or spreadsheet file with a fixed column set.
	TaskTabular
)

func (k TaskKind) String() string {
	switch k {
	case TaskImage:
		return "image"
	case TaskTabular:
		return "tabular"
	default:
		return "unknown"
	}
}

// ParseTaskType maps the host's task type strings onto a TaskKind.
func ParseTaskType(s string) (TaskKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "image_classification", "object_detection", "image_segmentation":
		return TaskImage, nil
	case "tabular", "tabular_classification", "tabular_regression", "text_classification", "text":
		return TaskTabular, nil
	default:
		return TaskUnknown, fmt.Errorf("unknown task type %q", s)
	}
}
