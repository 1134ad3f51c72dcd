// Package storage wraps the MinIO client for the optional object storage
// backend of the battle ledger.
//
// It supports both AWS S3 and self-hosted MinIO. The Client interface keeps
// only the calls the ledger needs so it can be mocked (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
