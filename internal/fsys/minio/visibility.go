package minio

import (
	"context"

	miniogo "github.com/minio/minio-go/v7"

	"github.com/koustreak/bucketfs/internal/fsys"
)

const (
	amzACLHeader = "x-amz-acl"

	// allUsersGroup is the S3 grantee URI meaning "everyone, credentials
	// or not". A READ grant for it makes an object public.
	allUsersGroup = "http://acs.amazonaws.com/groups/global/AllUsers"
)

// cannedACL maps the abstract visibility to an S3 canned ACL.
func cannedACL(v fsys.Visibility) string {
	if v == fsys.VisibilityPublic {
		return "public-read"
	}
	return "private"
}

// GetVisibility returns the visibility of the object at key, derived from
// its ACL grants.
func (a *Adapter) GetVisibility(ctx context.Context, key string) (fsys.Visibility, error) {
	info, err := a.api.GetObjectACL(ctx, a.bucket, key)
	if err != nil {
		return "", mapError(err, "failed to get object ACL")
	}

	for _, grant := range info.Grant {
		if grant.Grantee.URI != allUsersGroup {
			continue
		}
		if grant.Permission == "READ" || grant.Permission == "FULL_CONTROL" {
			return fsys.VisibilityPublic, nil
		}
	}
	return fsys.VisibilityPrivate, nil
}

// SetVisibility changes the visibility of the object at key. The SDK has no
// SetObjectACL, so the object is copied onto itself with a replaced
// canned-ACL header.
func (a *Adapter) SetVisibility(ctx context.Context, key string, v fsys.Visibility) bool {
	_, err := a.api.CopyObject(ctx,
		miniogo.CopyDestOptions{
			Bucket:          a.bucket,
			Object:          key,
			UserMetadata:    map[string]string{amzACLHeader: cannedACL(v)},
			ReplaceMetadata: true,
		},
		miniogo.CopySrcOptions{Bucket: a.bucket, Object: key},
	)
	if err != nil {
		return a.fail("set_visibility", key, mapError(err, "failed to update object ACL"))
	}
	return true
}
