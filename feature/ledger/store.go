package ledger

import (
	"context"
	"fmt"

	"prime-sync/core/storage"
)

// OpenStore builds the store selected by cfg. The object backend connects
// with storageCfg and creates its bucket when missing.
func OpenStore(ctx context.Context, cfg Config, storageCfg storage.Config) (Store, error) {
	switch cfg.Backend {
	case BackendFile:
		return NewFileStore(cfg.Path), nil
	case BackendObject:
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			return nil, err
		}
		store := NewObjectStore(client, storageCfg.Bucket, cfg.Object)
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}
