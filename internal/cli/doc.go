// Package cli wires configuration into a ready pipeline and runs one
// upload from the command line.
//
// The components chosen depend on the configuration:
//   - PresignMode "backend" asks the REST backend for URLs; "s3" signs them
//     locally with the AWS SDK.
//   - VersionStrategy picks one way to resolve the next version: "count"
//     asks the backend for count+1, "records" scans deploy-data records and
//     "redis" reserves with INCR. If the chosen strategy fails the upload
//     goes to version 1.
//   - RecordsSource picks whether records come from the backend or straight
//     from its Postgres database.
//
// Every completed upload is written to the local history database.
package cli
