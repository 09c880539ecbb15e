// Package storage moves raw document bytes to and from blob backends.
//
// Document metadata (name, size, owner) is the profile store's concern;
// this package only persists content under opaque keys. Two backends are
// provided: local filesystem (development, single-node deployments) and
// Amazon S3 or any S3-compatible service (MinIO, R2).
package storage
