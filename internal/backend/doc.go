// Package backend is the REST client for the services the upload pipeline
// depends on: the version counter, the presigned URL signer, the download
// listing and the deploy-data records.
//
// # Error Handling
//
// Transport failures and 5xx/429 answers map to common.ErrUnavailable,
// 401/403 to common.ErrUnauthorized and 404 to common.ErrNotFound, so callers
// can match them with errors.Is. Idempotent GETs are retried on
// common.ErrUnavailable; POSTs never are.
//
// Every call carries its own deadline (Options.Timeout) and honours ctx.
package backend
