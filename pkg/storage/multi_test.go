package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/williamokano/aws_config/pkg/storage"
	"github.com/williamokano/aws_config/pkg/storage/mocks"
)

var sampleValue = []byte(`{"data": {}, "secret_data": {}}`)

func TestMultiDeployer_Deploy(t *testing.T) {
	t.Run("single_store_success", func(t *testing.T) {
		mockStore := mocks.NewMockStore(t)
		mockStore.On("Name").Return("store1")
		mockStore.On("Type").Return("s3")
		mockStore.On("Deploy",
			mock.Anything,
			"my_app-dev",
			sampleValue,
			mock.Anything,
		).Return(&storage.Deployment{
			Parameter: "my_app-dev",
			Version:   "1",
		}, nil).Once()

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		results := deployer.Deploy(ctx, []storage.Store{mockStore}, "my_app-dev", sampleValue, nil)

		require.Len(t, results, 1)
		assert.True(t, results[0].Success)
		assert.False(t, results[0].Skipped)
		assert.Equal(t, "store1", results[0].StoreName)
		assert.Equal(t, "s3", results[0].StoreType)
		assert.Equal(t, "1", results[0].Version)
		assert.NoError(t, results[0].Error)
		assert.Greater(t, results[0].Duration, time.Duration(0))
	})

	t.Run("single_store_failure", func(t *testing.T) {
		mockStore := mocks.NewMockStore(t)
		mockStore.On("Name").Return("store1")
		mockStore.On("Type").Return("s3")
		mockStore.On("Deploy",
			mock.Anything,
			mock.Anything,
			mock.Anything,
			mock.Anything,
		).Return(nil, storage.ErrConnFailed).Once()

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		results := deployer.Deploy(ctx, []storage.Store{mockStore}, "my_app-dev", sampleValue, nil)

		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		assert.Equal(t, "store1", results[0].StoreName)
		assert.ErrorIs(t, results[0].Error, storage.ErrConnFailed)
	})

	t.Run("unchanged_value_reports_skipped", func(t *testing.T) {
		mockStore := mocks.NewMockStore(t)
		mockStore.On("Name").Return("store1")
		mockStore.On("Type").Return("ssm")
		mockStore.On("Deploy",
			mock.Anything,
			mock.Anything,
			mock.Anything,
			mock.Anything,
		).Return(&storage.Deployment{
			Parameter: "my_app-dev",
			Version:   "3",
			Skipped:   true,
		}, nil).Once()

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		results := deployer.Deploy(ctx, []storage.Store{mockStore}, "my_app-dev", sampleValue, nil)

		require.Len(t, results, 1)
		assert.True(t, results[0].Success)
		assert.True(t, results[0].Skipped)
		assert.Equal(t, "3", results[0].Version)
	})

	t.Run("multiple_stores_all_succeed", func(t *testing.T) {
		stores := make([]storage.Store, 3)
		for i := 0; i < 3; i++ {
			mockStore := mocks.NewMockStore(t)
			mockStore.On("Name").Return("store" + string(rune('1'+i)))
			mockStore.On("Type").Return("mock")
			mockStore.On("Deploy",
				mock.Anything,
				"my_app-dev",
				sampleValue,
				mock.Anything,
			).Return(&storage.Deployment{Version: "1"}, nil).Once()
			stores[i] = mockStore
		}

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		results := deployer.Deploy(ctx, stores, "my_app-dev", sampleValue, nil)

		require.Len(t, results, 3)
		for _, result := range results {
			assert.True(t, result.Success, "Store %s should succeed", result.StoreName)
			assert.NoError(t, result.Error)
		}
	})

	t.Run("multiple_stores_partial_failure", func(t *testing.T) {
		store1 := mocks.NewMockStore(t)
		store1.On("Name").Return("store1")
		store1.On("Type").Return("s3")
		store1.On("Deploy",
			mock.Anything,
			mock.Anything,
			mock.Anything,
			mock.Anything,
		).Return(&storage.Deployment{Version: "2"}, nil).Once()

		store2 := mocks.NewMockStore(t)
		store2.On("Name").Return("store2")
		store2.On("Type").Return("ssm")
		store2.On("Deploy",
			mock.Anything,
			mock.Anything,
			mock.Anything,
			mock.Anything,
		).Return(nil, storage.ErrConnFailed).Once()

		store3 := mocks.NewMockStore(t)
		store3.On("Name").Return("store3")
		store3.On("Type").Return("local")
		store3.On("Deploy",
			mock.Anything,
			mock.Anything,
			mock.Anything,
			mock.Anything,
		).Return(&storage.Deployment{Version: "2"}, nil).Once()

		stores := []storage.Store{store1, store2, store3}

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		results := deployer.Deploy(ctx, stores, "my_app-dev", sampleValue, nil)

		require.Len(t, results, 3)

		successCount := 0
		failureCount := 0
		for _, result := range results {
			if result.Success {
				successCount++
			} else {
				failureCount++
			}
		}

		assert.Equal(t, 2, successCount, "Expected 2 stores to succeed")
		assert.Equal(t, 1, failureCount, "Expected 1 store to fail")
	})

	t.Run("multiple_stores_all_fail", func(t *testing.T) {
		stores := make([]storage.Store, 3)
		for i := 0; i < 3; i++ {
			mockStore := mocks.NewMockStore(t)
			mockStore.On("Name").Return("store" + string(rune('1'+i)))
			mockStore.On("Type").Return("mock")
			mockStore.On("Deploy",
				mock.Anything,
				mock.Anything,
				mock.Anything,
				mock.Anything,
			).Return(nil, errors.New("deploy failed")).Once()
			stores[i] = mockStore
		}

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		results := deployer.Deploy(ctx, stores, "my_app-dev", sampleValue, nil)

		require.Len(t, results, 3)
		for _, result := range results {
			assert.False(t, result.Success, "Store %s should fail", result.StoreName)
			assert.Error(t, result.Error)
		}
	})

	t.Run("empty_stores_list", func(t *testing.T) {
		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		results := deployer.Deploy(ctx, []storage.Store{}, "my_app-dev", sampleValue, nil)

		assert.Empty(t, results, "Should return empty results for empty stores")
	})

	t.Run("parallel_execution", func(t *testing.T) {
		store1 := mocks.NewMockStore(t)
		store1.On("Name").Return("slow1")
		store1.On("Type").Return("mock")
		store1.On("Deploy",
			mock.Anything,
			mock.Anything,
			mock.Anything,
			mock.Anything,
		).Run(func(args mock.Arguments) {
			time.Sleep(100 * time.Millisecond)
		}).Return(&storage.Deployment{Version: "1"}, nil).Once()

		store2 := mocks.NewMockStore(t)
		store2.On("Name").Return("slow2")
		store2.On("Type").Return("mock")
		store2.On("Deploy",
			mock.Anything,
			mock.Anything,
			mock.Anything,
			mock.Anything,
		).Run(func(args mock.Arguments) {
			time.Sleep(100 * time.Millisecond)
		}).Return(&storage.Deployment{Version: "1"}, nil).Once()

		stores := []storage.Store{store1, store2}

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		start := time.Now()
		results := deployer.Deploy(ctx, stores, "my_app-dev", sampleValue, nil)
		elapsed := time.Since(start)

		// Should take ~100ms, not ~200ms. Allow some overhead for
		// goroutine scheduling.
		assert.Less(t, elapsed, 150*time.Millisecond, "Deploys should run in parallel")
		require.Len(t, results, 2)
		for _, result := range results {
			assert.True(t, result.Success)
		}
	})

	t.Run("context_cancellation", func(t *testing.T) {
		mockStore := mocks.NewMockStore(t)
		mockStore.On("Name").Return("store1")
		mockStore.On("Type").Return("mock")
		mockStore.On("Deploy",
			mock.Anything,
			mock.Anything,
			mock.Anything,
			mock.Anything,
		).Return(nil, context.Canceled).Once()

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := deployer.Deploy(ctx, []storage.Store{mockStore}, "my_app-dev", sampleValue, nil)

		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		assert.ErrorIs(t, results[0].Error, context.Canceled)
	})
}

func TestMultiDeployer_Delete(t *testing.T) {
	t.Run("deletes_from_all_stores", func(t *testing.T) {
		store1 := mocks.NewMockStore(t)
		store1.On("Name").Return("store1")
		store1.On("Type").Return("s3")
		store1.On("Delete", mock.Anything, "my_app-dev", true).Return(nil).Once()

		store2 := mocks.NewMockStore(t)
		store2.On("Name").Return("store2")
		store2.On("Type").Return("ssm")
		store2.On("Delete", mock.Anything, "my_app-dev", true).Return(nil).Once()

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		results := deployer.Delete(ctx, []storage.Store{store1, store2}, "my_app-dev", true)

		require.Len(t, results, 2)
		for _, result := range results {
			assert.True(t, result.Success)
		}
	})

	t.Run("reports_missing_parameter", func(t *testing.T) {
		mockStore := mocks.NewMockStore(t)
		mockStore.On("Name").Return("store1")
		mockStore.On("Type").Return("ssm")
		mockStore.On("Delete", mock.Anything, "my_app-dev", false).Return(storage.ErrNotFound).Once()

		deployer := storage.NewMultiDeployer(zerolog.Nop())

		ctx := context.Background()
		results := deployer.Delete(ctx, []storage.Store{mockStore}, "my_app-dev", false)

		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		assert.ErrorIs(t, results[0].Error, storage.ErrNotFound)
	})
}

func TestNewMultiDeployer(t *testing.T) {
	t.Run("creates_deployer", func(t *testing.T) {
		logger := zerolog.Nop()
		deployer := storage.NewMultiDeployer(logger)

		assert.NotNil(t, deployer)
	})
}
