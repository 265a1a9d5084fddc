package fsys

import (
	"net/http"
	"time"
)

// Visibility is the abstract access level of a stored object.
type Visibility string

const (
	// VisibilityPublic means anyone can read the object without credentials.
	VisibilityPublic Visibility = "public"

	// VisibilityPrivate means reads require the configured credentials.
	VisibilityPrivate Visibility = "private"
)

// ObjectInfo describes a single entry returned by a listing or stat call.
type ObjectInfo struct {
	// Key is the full object path within the bucket (e.g. "images/photo.jpg").
	// For directory entries it carries a trailing slash.
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	// ContentType is the MIME type (e.g. "image/jpeg").
	ContentType string

	// ETag is the object's entity tag / hash, as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	LastModified time.Time

	// IsDir is true when the entry represents a virtual directory (common
	// prefix), not an actual stored object.
	IsDir bool
}

// Metadata is the full metadata of a stored object: the ObjectInfo fields
// plus the raw response headers from the backend.
type Metadata struct {
	ObjectInfo

	// Headers holds the backend's raw response headers, including any
	// user-defined metadata.
	Headers http.Header
}

// WriteOptions controls how Put and WriteStream store an object.
// The zero value stores with the backend's defaults and private visibility.
type WriteOptions struct {
	// ContentType is the MIME type to record. Empty means the backend
	// detects or defaults it.
	ContentType string

	// Visibility is the access level for the new object. Empty means
	// VisibilityPrivate.
	Visibility Visibility
}
