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

func aclInfo(granteeURI, permission string) *miniogo.ObjectInfo {
	info := &miniogo.ObjectInfo{Key: "a.txt"}
	var grant miniogo.Grant
	grant.Grantee.URI = granteeURI
	grant.Permission = permission
	info.Grant = append(info.Grant, grant)
	return info
}

func TestAdapter_GetVisibility(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		info *miniogo.ObjectInfo
		want fsys.Visibility
	}{
		{
			name: "all-users read grant means public",
			info: aclInfo(allUsersGroup, "READ"),
			want: fsys.VisibilityPublic,
		},
		{
			name: "all-users full control means public",
			info: aclInfo(allUsersGroup, "FULL_CONTROL"),
			want: fsys.VisibilityPublic,
		},
		{
			name: "owner-only grants mean private",
			info: aclInfo("", "FULL_CONTROL"),
			want: fsys.VisibilityPrivate,
		},
		{
			name: "all-users write without read stays private",
			info: aclInfo(allUsersGroup, "WRITE"),
			want: fsys.VisibilityPrivate,
		},
		{
			name: "no grants at all means private",
			info: &miniogo.ObjectInfo{Key: "a.txt"},
			want: fsys.VisibilityPrivate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, api := newTestAdapter(t)
			api.On("GetObjectACL", ctx, "assets", "a.txt").Return(tt.info, nil)

			v, err := a.GetVisibility(ctx, "a.txt")
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestAdapter_GetVisibility_NotFound(t *testing.T) {
	ctx := context.Background()
	a, api := newTestAdapter(t)
	api.On("GetObjectACL", ctx, "assets", "gone.txt").Return(nil, notFoundErr())

	_, err := a.GetVisibility(ctx, "gone.txt")
	assert.True(t, errs.IsNotFound(err))
}

func TestAdapter_SetVisibility(t *testing.T) {
	ctx := context.Background()

	t.Run("copies the object onto itself with a replaced ACL", func(t *testing.T) {
		a, api := newTestAdapter(t)
		api.On("CopyObject", ctx,
			mock.MatchedBy(func(dst miniogo.CopyDestOptions) bool {
				return dst.Bucket == "assets" && dst.Object == "a.txt" &&
					dst.ReplaceMetadata &&
					dst.UserMetadata[amzACLHeader] == "public-read"
			}),
			miniogo.CopySrcOptions{Bucket: "assets", Object: "a.txt"},
		).Return(miniogo.UploadInfo{}, nil)

		assert.True(t, a.SetVisibility(ctx, "a.txt", fsys.VisibilityPublic))
	})

	t.Run("failure records and reports false", func(t *testing.T) {
		a, api := newTestAdapter(t)
		api.On("CopyObject", ctx, mock.Anything, mock.Anything).
			Return(miniogo.UploadInfo{}, deniedErr())

		assert.False(t, a.SetVisibility(ctx, "a.txt", fsys.VisibilityPrivate))

		recorded := a.Errors()
		require.Len(t, recorded, 1)
		assert.True(t, errs.IsPermissionDenied(recorded[0]))
	})
}

func TestCannedACL(t *testing.T) {
	assert.Equal(t, "public-read", cannedACL(fsys.VisibilityPublic))
	assert.Equal(t, "private", cannedACL(fsys.VisibilityPrivate))
	assert.Equal(t, "private", cannedACL(""))
}
