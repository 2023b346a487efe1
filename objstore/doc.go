// Package objstore defines the object store gateway and the key conventions
// shared by the source-document bucket and the ingestion mirror.
//
// Backends:
//
//   - objstore/fs: a local directory, used for tests and offline corpora
//   - objstore/gcs: a cloud bucket over the GCS JSON API
package objstore
