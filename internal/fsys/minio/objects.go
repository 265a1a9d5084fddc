package minio

import (
	"bytes"
	"context"
	"io"
	"time"

	miniogo "github.com/minio/minio-go/v7"

	"github.com/koustreak/bucketfs/internal/errs"
	"github.com/koustreak/bucketfs/internal/fsys"
)

// Exists reports whether an object is stored at key. A missing object is
// false without a recorded error; any other failure records one.
func (a *Adapter) Exists(ctx context.Context, key string) bool {
	_, err := a.api.StatObject(ctx, a.bucket, key, miniogo.StatObjectOptions{})
	if err == nil {
		return true
	}
	if werr := mapError(err, "failed to stat object"); !errs.IsNotFound(werr) {
		a.fail("exists", key, werr)
	}
	return false
}

// Get returns the full content of the object at key.
func (a *Adapter) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := a.ReadStream(ctx, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, mapError(err, "failed to read object")
	}
	return data, nil
}

// ReadStream opens a streaming handle to the object at key. The SDK opens
// streams lazily, so the object is stat'ed first to surface a typed
// not-found at call time. The caller MUST close the returned reader.
func (a *Adapter) ReadStream(ctx context.Context, key string) (io.ReadCloser, error) {
	if _, err := a.api.StatObject(ctx, a.bucket, key, miniogo.StatObjectOptions{}); err != nil {
		return nil, mapError(err, "failed to stat object")
	}

	r, err := a.api.GetObject(ctx, a.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}
	return r, nil
}

// Put stores data at key, replacing any existing object.
func (a *Adapter) Put(ctx context.Context, key string, data []byte, opts fsys.WriteOptions) bool {
	return a.WriteStream(ctx, key, bytes.NewReader(data), int64(len(data)), opts)
}

// WriteStream stores the content of r at key. Pass size -1 when the length
// is unknown; the SDK then falls back to multipart buffering.
func (a *Adapter) WriteStream(ctx context.Context, key string, r io.Reader, size int64, opts fsys.WriteOptions) bool {
	_, err := a.api.PutObject(ctx, a.bucket, key, r, size, putOptions(opts))
	if err != nil {
		return a.fail("put", key, mapError(err, "failed to store object"))
	}
	return true
}

// Prepend writes data in front of the existing content at key.
func (a *Adapter) Prepend(ctx context.Context, key string, data []byte) bool {
	return a.splice(ctx, "prepend", key, func(existing []byte) []byte {
		return append(data, existing...)
	})
}

// Append writes data after the existing content at key.
func (a *Adapter) Append(ctx context.Context, key string, data []byte) bool {
	return a.splice(ctx, "append", key, func(existing []byte) []byte {
		return append(existing, data...)
	})
}

// splice implements prepend/append as get-combine-put. A missing object is
// treated as empty existing content; an existing object keeps its content
// type across the re-put.
func (a *Adapter) splice(ctx context.Context, op, key string, combine func([]byte) []byte) bool {
	var existing []byte
	var contentType string

	info, err := a.api.StatObject(ctx, a.bucket, key, miniogo.StatObjectOptions{})
	switch {
	case err == nil:
		contentType = info.ContentType
		r, err := a.api.GetObject(ctx, a.bucket, key, miniogo.GetObjectOptions{})
		if err != nil {
			return a.fail(op, key, mapError(err, "failed to get object"))
		}
		existing, err = io.ReadAll(r)
		r.Close()
		if err != nil {
			return a.fail(op, key, mapError(err, "failed to read object"))
		}
	default:
		if werr := mapError(err, "failed to stat object"); !errs.IsNotFound(werr) {
			return a.fail(op, key, werr)
		}
	}

	data := combine(existing)
	opts := miniogo.PutObjectOptions{ContentType: contentType}
	if _, err := a.api.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return a.fail(op, key, mapError(err, "failed to store object"))
	}
	return true
}

// Delete removes the objects at keys. It keeps going after individual
// failures and returns true only if every removal succeeded.
func (a *Adapter) Delete(ctx context.Context, keys ...string) bool {
	ok := true
	for _, key := range keys {
		if err := a.api.RemoveObject(ctx, a.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
			ok = a.fail("delete", key, mapError(err, "failed to remove object"))
		}
	}
	return ok
}

// Copy duplicates the object at src to dst.
func (a *Adapter) Copy(ctx context.Context, src, dst string) bool {
	_, err := a.api.CopyObject(ctx,
		miniogo.CopyDestOptions{Bucket: a.bucket, Object: dst},
		miniogo.CopySrcOptions{Bucket: a.bucket, Object: src},
	)
	if err != nil {
		return a.fail("copy", src, mapError(err, "failed to copy object"))
	}
	return true
}

// Move copies the object at src to dst, then removes src.
func (a *Adapter) Move(ctx context.Context, src, dst string) bool {
	if !a.Copy(ctx, src, dst) {
		return false
	}
	if err := a.api.RemoveObject(ctx, a.bucket, src, miniogo.RemoveObjectOptions{}); err != nil {
		return a.fail("move", src, mapError(err, "failed to remove source object"))
	}
	return true
}

// Size returns the byte size of the object at key.
func (a *Adapter) Size(ctx context.Context, key string) (int64, error) {
	info, err := a.stat(ctx, key)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// LastModified returns when the object at key was last written.
func (a *Adapter) LastModified(ctx context.Context, key string) (time.Time, error) {
	info, err := a.stat(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	return info.LastModified, nil
}

// Metadata returns the full metadata of the object at key, including the
// backend's raw response headers.
func (a *Adapter) Metadata(ctx context.Context, key string) (*fsys.Metadata, error) {
	info, err := a.stat(ctx, key)
	if err != nil {
		return nil, err
	}
	return &fsys.Metadata{
		ObjectInfo: fsys.ObjectInfo{
			Key:          key,
			Size:         info.Size,
			ContentType:  info.ContentType,
			ETag:         info.ETag,
			LastModified: info.LastModified,
		},
		Headers: info.Metadata,
	}, nil
}

func (a *Adapter) stat(ctx context.Context, key string) (miniogo.ObjectInfo, error) {
	info, err := a.api.StatObject(ctx, a.bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return miniogo.ObjectInfo{}, mapError(err, "failed to stat object")
	}
	return info, nil
}

// putOptions translates fsys.WriteOptions into SDK put options. The
// visibility travels as a canned-ACL header; the SDK passes x-amz-* keys
// through as raw headers.
func putOptions(opts fsys.WriteOptions) miniogo.PutObjectOptions {
	out := miniogo.PutObjectOptions{ContentType: opts.ContentType}
	if opts.Visibility != "" {
		out.UserMetadata = map[string]string{amzACLHeader: cannedACL(opts.Visibility)}
	}
	return out
}
