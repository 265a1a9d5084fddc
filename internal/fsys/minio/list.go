package minio

import (
	"context"
	"strings"

	miniogo "github.com/minio/minio-go/v7"

	"github.com/koustreak/bucketfs/internal/errs"
	"github.com/koustreak/bucketfs/internal/fsys"
)

// List returns a lazy cursor over the objects under prefix. The cursor
// pages through the bucket with marker-based listing calls, always with a
// "/" delimiter; when recursive, discovered common prefixes are walked
// depth-first, each subtree fully before the parent's next page.
//
// Every call builds a fresh cursor; a cursor is single-use.
func (a *Adapter) List(prefix string, recursive bool) fsys.Cursor {
	return &cursor{
		api:       a.api,
		bucket:    a.bucket,
		recursive: recursive,
		pageSize:  a.pageSize,
		frames:    []frame{{prefix: prefix}},
	}
}

// frame is one pending unit of listing work: a prefix and the marker to
// resume it from.
type frame struct {
	prefix string
	marker string
}

// cursor implements fsys.Cursor. frames is a stack (top at the end):
// popping the top frame fetches one page, whose entries are buffered and
// whose continuation and children are pushed back in depth-first order.
type cursor struct {
	api       api
	bucket    string
	recursive bool
	pageSize  int

	frames []frame
	buf    []fsys.ObjectInfo
	cur    fsys.ObjectInfo
	err    error
}

func (c *cursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}

	for len(c.buf) == 0 {
		if len(c.frames) == 0 {
			return false
		}
		if err := ctx.Err(); err != nil {
			c.err = errs.Wrap(errs.ErrKindTimeout, "listing cancelled", err)
			return false
		}
		if !c.fetch() {
			return false
		}
	}

	c.cur = c.buf[0]
	c.buf = c.buf[1:]
	return true
}

func (c *cursor) Item() fsys.ObjectInfo {
	return c.cur
}

func (c *cursor) Err() error {
	return c.err
}

// fetch pops the top frame and requests one page for it. Entries go to the
// buffer; follow-up work goes back on the stack: first the frame's own
// continuation, then (when recursive) its common prefixes in reverse, so
// the first child ends up on top and subtrees complete before the parent
// resumes.
func (c *cursor) fetch() bool {
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]

	page, err := c.api.ListPage(c.bucket, f.prefix, f.marker, "/", c.pageSize)
	if err != nil {
		c.err = mapError(err, "failed to list objects")
		return false
	}

	for _, obj := range page.Contents {
		if obj.Key == f.prefix {
			// The zero-byte sentinel a MakeDirectory left behind; it is
			// the listing's own prefix, not an entry under it.
			continue
		}
		c.buf = append(c.buf, fsys.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
			IsDir:        strings.HasSuffix(obj.Key, "/"),
		})
	}
	for _, cp := range page.CommonPrefixes {
		c.buf = append(c.buf, fsys.ObjectInfo{
			Key:   cp.Prefix,
			Size:  -1,
			IsDir: true,
		})
	}

	if page.IsTruncated {
		if marker := nextMarker(page); marker != "" {
			c.frames = append(c.frames, frame{prefix: f.prefix, marker: marker})
		}
	}
	if c.recursive {
		for i := len(page.CommonPrefixes) - 1; i >= 0; i-- {
			c.frames = append(c.frames, frame{prefix: page.CommonPrefixes[i].Prefix})
		}
	}
	return true
}

// nextMarker resolves the resume point of a truncated page: the server's
// NextMarker when present, otherwise the lexically last entry returned.
func nextMarker(page miniogo.ListBucketResult) string {
	marker := page.NextMarker
	if marker != "" {
		return marker
	}
	if n := len(page.Contents); n > 0 {
		marker = page.Contents[n-1].Key
	}
	if n := len(page.CommonPrefixes); n > 0 && page.CommonPrefixes[n-1].Prefix > marker {
		marker = page.CommonPrefixes[n-1].Prefix
	}
	return marker
}

// Files returns the keys of the objects directly under dir.
func (a *Adapter) Files(ctx context.Context, dir string) ([]string, error) {
	return a.collect(ctx, dir, false, false)
}

// AllFiles returns the keys of all objects under dir, recursively.
func (a *Adapter) AllFiles(ctx context.Context, dir string) ([]string, error) {
	return a.collect(ctx, dir, true, false)
}

// Directories returns the virtual directories directly under dir, without
// trailing slashes.
func (a *Adapter) Directories(ctx context.Context, dir string) ([]string, error) {
	return a.collect(ctx, dir, false, true)
}

// AllDirectories returns all virtual directories under dir, recursively.
func (a *Adapter) AllDirectories(ctx context.Context, dir string) ([]string, error) {
	return a.collect(ctx, dir, true, true)
}

func (a *Adapter) collect(ctx context.Context, dir string, recursive, dirs bool) ([]string, error) {
	cur := a.List(normalizeDir(dir), recursive)

	var out []string
	for cur.Next(ctx) {
		item := cur.Item()
		if item.IsDir != dirs {
			continue
		}
		key := item.Key
		if dirs {
			key = strings.TrimSuffix(key, "/")
		}
		out = append(out, key)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeDir turns a directory name into a listing prefix: "" stays the
// bucket root, anything else gets exactly one trailing slash.
func normalizeDir(dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return ""
	}
	return dir + "/"
}
