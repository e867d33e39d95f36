// Package datasource provides the immutable, reference-counted byte-range
// abstraction that boxes read from and filters project onto.  A DataSource is
// either a read-only memory mapping of a file, a wrapped in-memory buffer, or
// a zero-copy slice of another DataSource.
package datasource

import (
	"io"
	"sync/atomic"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/leanderhang/bitpunch/pkg/mmap"
)

// DataSource is an immutable view onto a contiguous byte range.  It is
// reference counted: every acquired reference must be matched by exactly one
// Release, and the underlying storage (a memory mapping, or a parent
// DataSource's buffer) is only torn down once the count reaches zero.
type DataSource struct {
	data     []byte
	device   *mmap.BlockDevice
	owned    bool
	refCount int32
	parent   *DataSource
}

// NewFile memory-maps the file at path, read-only, and returns a DataSource
// backed by the mapping.  The mapping is torn down when the last reference
// to the returned DataSource is released.
func NewFile(path string) (*DataSource, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open file %#v", path)
	}
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to stat file %#v", path)
	}

	return NewFd(fd, int(stat.Size))
}

// NewFd memory-maps an already-open file descriptor, read-only.  The caller
// retains ownership of fd; it may be closed immediately after this call
// returns since the mapping does not depend on the descriptor staying open.
func NewFd(fd int, sizeBytes int) (*DataSource, error) {
	if sizeBytes == 0 {
		return NewMemory(nil, false), nil
	}

	device, err := mmap.NewBlockDevice(fd, sizeBytes)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to map file descriptor")
	}

	return &DataSource{data: device.Data, device: device, refCount: 1}, nil
}

// NewMemory wraps an in-memory buffer.  If owned is true, the buffer is
// considered to be owned by this DataSource and is dropped (made eligible
// for garbage collection) on last release; otherwise the caller remains
// responsible for the buffer's lifetime.
func NewMemory(data []byte, owned bool) *DataSource {
	return &DataSource{data: data, owned: owned, refCount: 1}
}

// Slice produces a new DataSource sharing the same underlying storage,
// covering [start,end) of this DataSource's byte range.  No data is copied.
// The returned DataSource holds a reference on this one, released when the
// slice itself is released.
func (ds *DataSource) Slice(start, end int64) (*DataSource, error) {
	if start < 0 || end < start || end > int64(len(ds.data)) {
		return nil, pkgerrors.Errorf("slice [%d,%d) out of bounds of data source of length %d", start, end, len(ds.data))
	}

	ds.Acquire()

	return &DataSource{data: ds.data[start:end], parent: ds, refCount: 1}, nil
}

// Len returns the number of bytes visible through this DataSource.
func (ds *DataSource) Len() int64 {
	return int64(len(ds.data))
}

// Bytes returns the byte range visible through this DataSource.  Callers
// must not mutate the returned slice.
func (ds *DataSource) Bytes() []byte {
	return ds.data
}

// ReadAt copies len(p) bytes starting at off into p, implementing io.ReaderAt
// over the visible byte range.
func (ds *DataSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(ds.data)) {
		return 0, pkgerrors.Errorf("read offset %d out of bounds of data source of length %d", off, len(ds.data))
	}

	n := copy(p, ds.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// Acquire increments the reference count, returning this DataSource for
// convenient chaining.
func (ds *DataSource) Acquire() *DataSource {
	atomic.AddInt32(&ds.refCount, 1)
	return ds
}

// Release decrements the reference count.  When it reaches zero, any backing
// memory mapping is unmapped and, for a Slice()-derived DataSource, the
// parent's reference is released in turn.
func (ds *DataSource) Release() error {
	if atomic.AddInt32(&ds.refCount, -1) > 0 {
		return nil
	}

	if ds.device != nil {
		if err := unix.Munmap(ds.device.Data); err != nil {
			return pkgerrors.Wrap(err, "failed to unmap data source")
		}
	}

	ds.owned = false

	if ds.parent != nil {
		return ds.parent.Release()
	}

	return nil
}
