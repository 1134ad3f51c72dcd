package ledger_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"prime-sync/core/storage/mocks"
	"prime-sync/feature/ledger"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestObjectStoreLoad(t *testing.T) {
	t.Run("Existing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "bucket", "ledger.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte(`[1,2,3]`))), nil)

		ids, err := ledger.NewObjectStore(client, "bucket", "ledger.json").Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2, 3}, ids)
		client.AssertExpectations(t)
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "bucket", "ledger.json", mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

		ids, err := ledger.NewObjectStore(client, "bucket", "ledger.json").Load(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("Failure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "bucket", "ledger.json", mock.Anything).
			Return(nil, errors.New("connection refused"))

		_, err := ledger.NewObjectStore(client, "bucket", "ledger.json").Load(context.Background())
		assert.Error(t, err)
	})
}

func TestObjectStoreSave(t *testing.T) {
	client := new(mocks.Client)
	var uploaded []byte
	client.On("PutObject", mock.Anything, "bucket", "ledger.json", mock.Anything, int64(5), mock.Anything).
		Run(func(args mock.Arguments) {
			uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	err := ledger.NewObjectStore(client, "bucket", "ledger.json").Save(context.Background(), []uint64{4, 5})
	require.NoError(t, err)
	assert.Equal(t, `[4,5]`, string(uploaded))
	client.AssertExpectations(t)
}

func TestObjectStoreEnsureBucket(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "bucket").Return(true, nil)

		assert.NoError(t, ledger.NewObjectStore(client, "bucket", "k").EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "bucket").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "bucket", mock.Anything).Return(nil)

		assert.NoError(t, ledger.NewObjectStore(client, "bucket", "k").EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})
}
