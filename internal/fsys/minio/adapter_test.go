package minio

import (
	"context"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/bucketfs/internal/errs"
	"github.com/koustreak/bucketfs/internal/fsys"
)

func newTestAdapter(t *testing.T) (*Adapter, *mockAPI) {
	t.Helper()
	api := newMockAPI()
	return newAdapter(api, "assets", fsys.DefaultPageSize, nil), api
}

func TestAdapter_ImplementsFilesystem(t *testing.T) {
	a, _ := newTestAdapter(t)
	var _ fsys.Filesystem = a
}

func TestAdapter_URL(t *testing.T) {
	a, _ := newTestAdapter(t)

	assert.Equal(t, "https://storage.example.com/assets/images/photo.jpg", a.URL("images/photo.jpg"))
	assert.Equal(t, "https://storage.example.com/assets/top.txt", a.URL("top.txt"))
}

func TestAdapter_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("present", func(t *testing.T) {
		a, api := newTestAdapter(t)
		api.On("StatObject", ctx, "assets", "a.txt", mock.Anything).
			Return(miniogo.ObjectInfo{Key: "a.txt"}, nil)

		assert.True(t, a.Exists(ctx, "a.txt"))
		assert.Empty(t, a.Errors())
	})

	t.Run("missing is false without a recorded error", func(t *testing.T) {
		a, api := newTestAdapter(t)
		api.On("StatObject", ctx, "assets", "a.txt", mock.Anything).
			Return(miniogo.ObjectInfo{}, notFoundErr())

		assert.False(t, a.Exists(ctx, "a.txt"))
		assert.Empty(t, a.Errors())
	})

	t.Run("transport failure records", func(t *testing.T) {
		a, api := newTestAdapter(t)
		api.On("StatObject", ctx, "assets", "a.txt", mock.Anything).
			Return(miniogo.ObjectInfo{}, deniedErr())

		assert.False(t, a.Exists(ctx, "a.txt"))

		recorded := a.Errors()
		require.Len(t, recorded, 1)
		assert.True(t, errs.IsPermissionDenied(recorded[0]))
	})
}

func TestAdapter_ErrorsDrainOnInspection(t *testing.T) {
	ctx := context.Background()
	a, api := newTestAdapter(t)
	api.On("RemoveObject", ctx, "assets", "a.txt", mock.Anything).
		Return(deniedErr())

	assert.False(t, a.Delete(ctx, "a.txt"))
	assert.False(t, a.Delete(ctx, "a.txt"))

	assert.Len(t, a.Errors(), 2)
	assert.Empty(t, a.Errors())
}
