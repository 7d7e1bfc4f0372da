package upload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/predictupload/internal/common"
)

// ContentTypeOctetStream is used for every extension outside the known set.
const ContentTypeOctetStream = "application/octet-stream"

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".csv":  "text/csv",
}

// ContentTypeFor derives the upload Content-Type from the file extension,
// case-insensitively.
func ContentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return ContentTypeOctetStream
}

// Namespace is the predict-time upload namespace of a project, e.g. "proj123_predict/".
func Namespace(projectID string) string {
	return projectID + common.PredictNamespaceSuffix
}

// Prefix is the storage prefix of one upload version, e.g. "proj123_predict/v3/".
func Prefix(projectID string, version int) string {
	return fmt.Sprintf("%sv%d/", Namespace(projectID), version)
}

// ObjectKey composes the conventional key of name under a version prefix.
// The basename keeps its original case.
func ObjectKey(projectID string, version int, name string) string {
	return Prefix(projectID, version) + Basename(name)
}

// Basename returns the last slash-separated segment of a key or file name.
// A backslash is an ordinary character.
func Basename(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
