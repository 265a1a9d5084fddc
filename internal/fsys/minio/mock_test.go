package minio

import (
	"context"
	"io"
	"net/url"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// mockAPI is a testify mock of the api interface. PutObject additionally
// captures uploaded content in puts, and RemoveObjects drains its input
// channel into removedKeys, returning the errors from removeResults.
type mockAPI struct {
	mock.Mock

	puts          map[string][]byte
	removedKeys   []string
	removeResults []miniogo.RemoveObjectError
}

func newMockAPI() *mockAPI {
	return &mockAPI{puts: map[string][]byte{}}
}

func (m *mockAPI) StatObject(ctx context.Context, bucket, key string, opts miniogo.StatObjectOptions) (miniogo.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key, opts)
	return args.Get(0).(miniogo.ObjectInfo), args.Error(1)
}

func (m *mockAPI) GetObject(ctx context.Context, bucket, key string, opts miniogo.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key, opts)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	data, _ := io.ReadAll(r)
	m.puts[key] = data

	args := m.Called(ctx, bucket, key, size, opts)
	return args.Get(0).(miniogo.UploadInfo), args.Error(1)
}

func (m *mockAPI) CopyObject(ctx context.Context, dst miniogo.CopyDestOptions, src miniogo.CopySrcOptions) (miniogo.UploadInfo, error) {
	args := m.Called(ctx, dst, src)
	return args.Get(0).(miniogo.UploadInfo), args.Error(1)
}

func (m *mockAPI) RemoveObject(ctx context.Context, bucket, key string, opts miniogo.RemoveObjectOptions) error {
	args := m.Called(ctx, bucket, key, opts)
	return args.Error(0)
}

func (m *mockAPI) RemoveObjects(ctx context.Context, bucket string, objectsCh <-chan miniogo.ObjectInfo, opts miniogo.RemoveObjectsOptions) <-chan miniogo.RemoveObjectError {
	out := make(chan miniogo.RemoveObjectError)
	go func() {
		defer close(out)
		for obj := range objectsCh {
			m.removedKeys = append(m.removedKeys, obj.Key)
		}
		for _, rerr := range m.removeResults {
			out <- rerr
		}
	}()
	return out
}

func (m *mockAPI) GetObjectACL(ctx context.Context, bucket, key string) (*miniogo.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key)
	if info, ok := args.Get(0).(*miniogo.ObjectInfo); ok {
		return info, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) ListPage(bucket, prefix, marker, delimiter string, maxKeys int) (miniogo.ListBucketResult, error) {
	args := m.Called(bucket, prefix, marker, delimiter, maxKeys)
	return args.Get(0).(miniogo.ListBucketResult), args.Error(1)
}

func (m *mockAPI) EndpointURL() *url.URL {
	u, _ := url.Parse("https://storage.example.com")
	return u
}

// notFoundErr mimics the SDK's typed response for a missing key.
func notFoundErr() error {
	return miniogo.ErrorResponse{Code: "NoSuchKey", Message: "key does not exist", StatusCode: 404}
}

// deniedErr mimics the SDK's typed response for an access failure.
func deniedErr() error {
	return miniogo.ErrorResponse{Code: "AccessDenied", Message: "access denied", StatusCode: 403}
}
