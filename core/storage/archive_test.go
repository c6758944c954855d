package storage_test

import (
	"context"
	"testing"

	"rental-inventory/core/storage"
	"rental-inventory/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestArchiveReport(t *testing.T) {
	t.Run("Existing Bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inventory-reports").Return(true, nil)
		client.On("PutObject", mock.Anything, "inventory-reports", "reports/correlation-1.json",
			mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

		err := storage.ArchiveReport(context.Background(), client, "inventory-reports",
			"reports/correlation-1.json", map[string]int{"matched": 3})
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Creates Missing Bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inventory-reports").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "inventory-reports", mock.Anything).Return(nil)
		client.On("PutObject", mock.Anything, "inventory-reports", "reports/alerts-1.json",
			mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

		err := storage.ArchiveReport(context.Background(), client, "inventory-reports",
			"reports/alerts-1.json", map[string]int{"active": 1})
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})
}
