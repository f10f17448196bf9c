package api

// SizeClasser translates between byte sizes, size-class indices and
// page-class indices for a pooled slab allocator. Implementations are
// immutable once constructed and safe for concurrent readers.
type SizeClasser interface {
	// Idx2size byte size of size-class idx.
	Idx2size(idx int) int64

	// Idx2sizeCompute same as Idx2size, computed from idx alone
	// without consulting the table.
	Idx2sizeCompute(idx int) int64

	// Pageidx2size byte size of multi-page class pidx.
	Pageidx2size(pidx int) int64

	// Pageidx2sizeCompute same as Pageidx2size, computed from pidx
	// alone without consulting the table.
	Pageidx2sizeCompute(pidx int) int64

	// Size2idx index of the smallest class covering size. Returns
	// Nsizes() if size is bigger than the chunk.
	Size2idx(size int64) int

	// Pages2pageidx page-class index of the smallest multi-page class
	// covering pages. Returns Npsizes() if the span is bigger than
	// the chunk.
	Pages2pageidx(pages int64) int

	// Pages2pageidxFloor page-class index of the largest multi-page
	// class not exceeding pages.
	Pages2pageidxFloor(pages int64) int

	// Normalize round size up to the nearest size-class size.
	Normalize(size int64) int64

	// Nsizes number of size classes.
	Nsizes() int

	// Npsizes number of size classes that are multiples of pagesize.
	Npsizes() int
}

// RunMaper tracks which runs of a chunk are currently available,
// keyed by a caller encoded run handle. Callers serialize access.
type RunMaper interface {
	// Put insert or overwrite key, returning the previous value or
	// the empty sentinel when key was absent.
	Put(key, value int64) int64

	// Get value stored against key, or the empty sentinel.
	Get(key int64) int64

	// Remove delete key, no-op if absent.
	Remove(key int64)
}
