package minio

import (
	"bytes"
	"context"

	miniogo "github.com/minio/minio-go/v7"

	"github.com/koustreak/bucketfs/internal/errs"
)

// MakeDirectory creates the virtual directory dir by storing a zero-byte
// sentinel object at "dir/". Listing skips the sentinel, so the directory
// appears empty until real objects are written under it.
func (a *Adapter) MakeDirectory(ctx context.Context, dir string) bool {
	key := normalizeDir(dir)
	if key == "" {
		// The bucket root always exists.
		return true
	}

	_, err := a.api.PutObject(ctx, a.bucket, key, bytes.NewReader(nil), 0, miniogo.PutObjectOptions{})
	if err != nil {
		return a.fail("make_directory", key, mapError(err, "failed to create directory sentinel"))
	}
	return true
}

// DeleteDirectory removes every object under dir, recursively, including
// the sentinels of dir itself and of any subdirectories. The recursive
// listing is streamed into the SDK's batched removal; removal failures are
// recorded per object and the call returns true only if everything
// succeeded.
func (a *Adapter) DeleteDirectory(ctx context.Context, dir string) bool {
	prefix := normalizeDir(dir)

	objectsCh := make(chan miniogo.ObjectInfo)
	listErrCh := make(chan error, 1)
	go func() {
		defer close(objectsCh)

		cur := a.List(prefix, true)
		for cur.Next(ctx) {
			// Directory entries are queued as well: a subdirectory made by
			// MakeDirectory owns a sentinel object at its prefix, and
			// removing a key that never existed is a no-op for the backend.
			select {
			case objectsCh <- miniogo.ObjectInfo{Key: cur.Item().Key}:
			case <-ctx.Done():
				listErrCh <- errs.Wrap(errs.ErrKindTimeout, "directory removal cancelled", ctx.Err())
				return
			}
		}
		listErrCh <- cur.Err()
	}()

	ok := true
	for rerr := range a.api.RemoveObjects(ctx, a.bucket, objectsCh, miniogo.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			ok = a.fail("delete_directory", rerr.ObjectName, mapError(rerr.Err, "failed to remove object"))
		}
	}

	// Cursor errors arrive already mapped.
	if err := <-listErrCh; err != nil {
		return a.fail("delete_directory", prefix, err)
	}

	if prefix != "" {
		// The cursor never emits the listing's own prefix, so the
		// top-level sentinel is removed separately. An implicitly created
		// directory has none; that is not a failure.
		if err := a.api.RemoveObject(ctx, a.bucket, prefix, miniogo.RemoveObjectOptions{}); err != nil {
			if werr := mapError(err, "failed to remove directory sentinel"); !errs.IsNotFound(werr) {
				ok = a.fail("delete_directory", prefix, werr)
			}
		}
	}
	return ok
}
