package common

// MaxStagedFileSize is the exclusive upper bound for a staged file: 20 MiB.
const MaxStagedFileSize int64 = 20 << 20

// PredictNamespaceSuffix is appended to a project id to form its predict-time
// upload namespace, e.g. "proj123" + "_predict/".
const PredictNamespaceSuffix = "_predict/"

// AuthorizationHeaderName carries the bearer token on backend requests.
const AuthorizationHeaderName = "Authorization"
