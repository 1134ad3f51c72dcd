package ledger

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"prime-sync/core/storage"
	"prime-sync/core/syncerr"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps the ledger as one JSON object in a bucket.
type ObjectStore struct {
	client storage.Client
	bucket string
	key    string
}

// NewObjectStore creates a store for bucket/key.
func NewObjectStore(client storage.Client, bucket, key string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, key: key}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Load reads the stored ids. A missing object is an empty ledger.
func (s *ObjectStore) Load(ctx context.Context) ([]uint64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ledger object: %w", err)
	}

	var ids []uint64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, syncerr.New(syncerr.DecodeFailure, "ledger load", err)
	}
	return ids, nil
}

// Save uploads the full id list.
func (s *ObjectStore) Save(ctx context.Context, ids []uint64) error {
	if ids == nil {
		ids = []uint64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload ledger: %w", err)
	}
	return nil
}
