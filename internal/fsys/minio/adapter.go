// Package minio provides a MinIO / S3-compatible implementation of
// fsys.Filesystem.
//
// Usage:
//
//	cfg := fsys.DefaultConfig("localhost:9000", "minioadmin", "minioadmin", "assets")
//	fs, err := minio.New(ctx, cfg, nil)
//	if err != nil { ... }
//
//	ok := fs.Put(ctx, "images/photo.jpg", data, fsys.WriteOptions{})
package minio

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/koustreak/bucketfs/internal/errs"
	"github.com/koustreak/bucketfs/internal/fsys"
	"github.com/koustreak/bucketfs/internal/logger"
)

// api is the subset of the MinIO SDK the adapter calls.
// Production wraps *miniogo.Core; tests substitute a mock.
type api interface {
	StatObject(ctx context.Context, bucket, key string, opts miniogo.StatObjectOptions) (miniogo.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts miniogo.GetObjectOptions) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
	CopyObject(ctx context.Context, dst miniogo.CopyDestOptions, src miniogo.CopySrcOptions) (miniogo.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts miniogo.RemoveObjectOptions) error
	RemoveObjects(ctx context.Context, bucket string, objectsCh <-chan miniogo.ObjectInfo, opts miniogo.RemoveObjectsOptions) <-chan miniogo.RemoveObjectError
	GetObjectACL(ctx context.Context, bucket, key string) (*miniogo.ObjectInfo, error)
	ListPage(bucket, prefix, marker, delimiter string, maxKeys int) (miniogo.ListBucketResult, error)
	EndpointURL() *url.URL
}

// sdkClient adapts *miniogo.Core to the api interface. Core shadows several
// Client methods with low-level signatures, so every call is forwarded
// explicitly to the intended receiver.
type sdkClient struct {
	core *miniogo.Core
}

func (c *sdkClient) StatObject(ctx context.Context, bucket, key string, opts miniogo.StatObjectOptions) (miniogo.ObjectInfo, error) {
	return c.core.Client.StatObject(ctx, bucket, key, opts)
}

func (c *sdkClient) GetObject(ctx context.Context, bucket, key string, opts miniogo.GetObjectOptions) (io.ReadCloser, error) {
	return c.core.Client.GetObject(ctx, bucket, key, opts)
}

func (c *sdkClient) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	return c.core.Client.PutObject(ctx, bucket, key, r, size, opts)
}

func (c *sdkClient) CopyObject(ctx context.Context, dst miniogo.CopyDestOptions, src miniogo.CopySrcOptions) (miniogo.UploadInfo, error) {
	return c.core.Client.CopyObject(ctx, dst, src)
}

func (c *sdkClient) RemoveObject(ctx context.Context, bucket, key string, opts miniogo.RemoveObjectOptions) error {
	return c.core.Client.RemoveObject(ctx, bucket, key, opts)
}

func (c *sdkClient) RemoveObjects(ctx context.Context, bucket string, objectsCh <-chan miniogo.ObjectInfo, opts miniogo.RemoveObjectsOptions) <-chan miniogo.RemoveObjectError {
	return c.core.Client.RemoveObjects(ctx, bucket, objectsCh, opts)
}

func (c *sdkClient) GetObjectACL(ctx context.Context, bucket, key string) (*miniogo.ObjectInfo, error) {
	return c.core.Client.GetObjectACL(ctx, bucket, key)
}

func (c *sdkClient) ListPage(bucket, prefix, marker, delimiter string, maxKeys int) (miniogo.ListBucketResult, error) {
	return c.core.ListObjects(bucket, prefix, marker, delimiter, maxKeys)
}

func (c *sdkClient) EndpointURL() *url.URL {
	return c.core.Client.EndpointURL()
}

// Adapter implements fsys.Filesystem over one bucket of a MinIO / S3
// endpoint. The contract is synchronous single-caller use; the mutex only
// keeps the error log race-free.
type Adapter struct {
	api      api
	client   *miniogo.Client
	core     *miniogo.Core
	bucket   string
	pageSize int
	log      *logger.Logger

	mu     sync.Mutex
	failed []error
}

var _ fsys.Filesystem = (*Adapter)(nil)

// New validates cfg, connects to the endpoint and returns an Adapter bound
// to cfg.Bucket. It fails fast when required fields are missing or the
// bucket is unreachable. A nil log silences the adapter.
func New(ctx context.Context, cfg *fsys.Config, log *logger.Logger) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	core, err := miniogo.NewCore(cfg.Endpoint, &miniogo.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(cfg.HTTPTimeout()),
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	exists, err := core.Client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, mapError(err, "failed to reach bucket")
	}
	if !exists {
		return nil, errs.New(errs.ErrKindNotFound, "bucket does not exist: "+cfg.Bucket)
	}

	a := &Adapter{
		api:      &sdkClient{core: core},
		client:   core.Client,
		core:     core,
		bucket:   cfg.Bucket,
		pageSize: cfg.PageSize,
		log: log.With().
			Str("bucket", cfg.Bucket).
			Str("endpoint", cfg.Endpoint).
			Logger(),
	}
	a.log.Info("storage adapter ready")
	return a, nil
}

// newTransport builds an http.Transport with strict per-phase timeouts,
// so a dead endpoint fails within the configured timeout instead of hanging.
func newTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
}

// newAdapter wires an Adapter around an arbitrary api implementation.
// Tests use it to substitute a mock for the SDK.
func newAdapter(a api, bucket string, pageSize int, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{api: a, bucket: bucket, pageSize: pageSize, log: log}
}

// Client exposes the wrapped SDK client for calls the Filesystem contract
// does not cover. Nil when the adapter was built without a real connection.
func (a *Adapter) Client() *miniogo.Client {
	return a.client
}

// Core exposes the wrapped low-level SDK client.
func (a *Adapter) Core() *miniogo.Core {
	return a.core
}

// Bucket returns the bucket this adapter is bound to.
func (a *Adapter) Bucket() string {
	return a.bucket
}

// URL returns the public URL of the object at key. No I/O is performed and
// the object is not checked for existence.
func (a *Adapter) URL(key string) string {
	u := *a.api.EndpointURL()
	u.Path = path.Join(u.Path, a.bucket, key)
	return u.String()
}

// Errors returns the failures recorded by mutating operations since the
// last call, and clears the log.
func (a *Adapter) Errors() []error {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.failed
	a.failed = nil
	return out
}

// fail records err against op/key and reports the operation as failed.
func (a *Adapter) fail(op, key string, err error) bool {
	a.log.ErrorWith("storage operation failed", err, map[string]interface{}{
		"op":  op,
		"key": key,
	})
	a.mu.Lock()
	a.failed = append(a.failed, err)
	a.mu.Unlock()
	return false
}
