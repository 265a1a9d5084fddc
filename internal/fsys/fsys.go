// Package fsys defines the filesystem abstraction implemented over object
// storage backends.
//
// Application code depends only on this package — never on a specific driver
// package. The MinIO driver under fsys/minio is currently the only backend.
//
// Usage:
//
//	cfg := fsys.DefaultConfig("localhost:9000", "minioadmin", "minioadmin", "assets")
//	fs, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//
//	ok := fs.Put(ctx, "images/photo.jpg", data, fsys.WriteOptions{})
//	blob, err := fs.Get(ctx, "images/photo.jpg")
package fsys

import (
	"context"
	"io"
	"time"
)

// Filesystem is the abstract contract every storage driver implements.
//
// Operations follow one of two error policies. Read-oriented operations
// return an error, with missing objects reported as an errs.ErrKindNotFound.
// Mutating operations return a bool: false means the underlying call failed
// and the error was appended to the instance's error log, retrievable (and
// drained) via Errors().
type Filesystem interface {
	// URL returns the public URL of the object at key. It performs no I/O
	// and does not check that the object exists.
	URL(key string) string

	// Exists reports whether an object is stored at key. A missing object
	// is false without a recorded error; transport failures record one.
	Exists(ctx context.Context, key string) bool

	// Get returns the full content of the object at key.
	Get(ctx context.Context, key string) ([]byte, error)

	// ReadStream opens a streaming handle to the object at key.
	// The caller MUST close the returned reader.
	ReadStream(ctx context.Context, key string) (io.ReadCloser, error)

	// Put stores data at key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, opts WriteOptions) bool

	// WriteStream stores the content of r at key. Pass size -1 when the
	// length is unknown; the driver then buffers as needed.
	WriteStream(ctx context.Context, key string, r io.Reader, size int64, opts WriteOptions) bool

	// GetVisibility returns the visibility of the object at key.
	GetVisibility(ctx context.Context, key string) (Visibility, error)

	// SetVisibility changes the visibility of the object at key.
	SetVisibility(ctx context.Context, key string, v Visibility) bool

	// Prepend writes data in front of the existing content at key.
	// A missing object is treated as empty.
	Prepend(ctx context.Context, key string, data []byte) bool

	// Append writes data after the existing content at key.
	// A missing object is treated as empty.
	Append(ctx context.Context, key string, data []byte) bool

	// Delete removes the objects at keys. It keeps going after individual
	// failures and returns true only if every removal succeeded.
	Delete(ctx context.Context, keys ...string) bool

	// Copy duplicates the object at src to dst.
	Copy(ctx context.Context, src, dst string) bool

	// Move copies the object at src to dst, then removes src.
	Move(ctx context.Context, src, dst string) bool

	// Size returns the byte size of the object at key.
	Size(ctx context.Context, key string) (int64, error)

	// LastModified returns when the object at key was last written.
	LastModified(ctx context.Context, key string) (time.Time, error)

	// Metadata returns the full metadata of the object at key.
	Metadata(ctx context.Context, key string) (*Metadata, error)

	// List returns a lazy cursor over the objects under prefix. When
	// recursive, common prefixes (virtual directories) are walked
	// depth-first. Each call builds a fresh cursor; a cursor is single-use.
	List(prefix string, recursive bool) Cursor

	// Files returns the keys of the objects directly under dir.
	Files(ctx context.Context, dir string) ([]string, error)

	// AllFiles returns the keys of all objects under dir, recursively.
	AllFiles(ctx context.Context, dir string) ([]string, error)

	// Directories returns the virtual directories directly under dir,
	// without trailing slashes.
	Directories(ctx context.Context, dir string) ([]string, error)

	// AllDirectories returns all virtual directories under dir, recursively.
	AllDirectories(ctx context.Context, dir string) ([]string, error)

	// MakeDirectory creates the virtual directory dir by storing a
	// zero-byte sentinel object at "dir/".
	MakeDirectory(ctx context.Context, dir string) bool

	// DeleteDirectory removes every object under dir, recursively.
	// Returns true only if every removal succeeded.
	DeleteDirectory(ctx context.Context, dir string) bool

	// Errors returns the failures recorded by mutating operations since
	// the last call, and clears the log.
	Errors() []error
}

// Cursor is a lazy iterator over a listing. Usage follows bufio.Scanner:
//
//	cur := fs.List("images/", true)
//	for cur.Next(ctx) {
//	    fmt.Println(cur.Item().Key)
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor interface {
	// Next advances to the next entry. It returns false when the listing
	// is exhausted or an error occurred; check Err afterwards.
	Next(ctx context.Context) bool

	// Item returns the entry positioned by the last successful Next.
	Item() ObjectInfo

	// Err returns the first error encountered while iterating, if any.
	Err() error
}
