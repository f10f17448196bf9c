package slab

import s "github.com/bnclabs/gosettings"

import "github.com/bnclabs/bufarena/lib"

// sizeclass one generated row of the table.
type sizeclass struct {
	index     int
	log2Group int
	log2Delta int
	nDelta    int
	multipage bool // size is an exact multiple of pagesize
	subpage   bool // size is small enough for sub-page slab allocation
	lookup    int  // log2Delta when in the lookup table, else 0
}

// SizeClasses the complete ordered table of allocation bucket sizes
// between the quantum and the configured chunk size, with O(1)
// bidirectional mappings between byte sizes, size-class indices and
// page-class indices. Constructed once, never mutated, safe for
// unsynchronized concurrent reads.
type SizeClasses struct {
	classes []sizeclass

	// configuration
	pagesize   int64
	pageshifts int
	chunksize  int64
	alignment  int64

	// derived counts
	nsizes      int
	npsizes     int
	nsubpages   int
	smallmaxidx int
	lookupmax   int64

	// derived tables
	idx2size     []int64
	pageidx2size []int64
	size2idx     []int
}

// NewSizeClasses generate the size-class table for `setts`, refer to
// Defaultsettings() for description of settings parameters. Panics if
// the settings cannot produce a table whose last class lands exactly
// on "chunksize", which signals a misconfigured chunksize/pagesize
// pair.
func NewSizeClasses(setts s.Settings) *SizeClasses {
	pagesize := setts.Int64("pagesize")
	chunksize := setts.Int64("chunksize")
	alignment := setts.Int64("cachealignment")
	validatesettings(pagesize, chunksize, alignment)

	sc := &SizeClasses{
		pagesize:   pagesize,
		pageshifts: lib.Log2(pagesize),
		chunksize:  chunksize,
		alignment:  alignment,
	}
	sc.generate()
	sc.maketables()
	return sc
}

func (sc *SizeClasses) generate() {
	groups := lib.Log2(sc.chunksize) - (Log2Quantum - log2SizeClassGroup) + 1
	sc.classes = make([]sizeclass, 0, groups<<log2SizeClassGroup)

	var size int64
	log2Group, log2Delta := Log2Quantum, Log2Quantum

	// the first group is special, nDelta runs from 0 and the group
	// base carries part of the size, producing quantum, 2*quantum,
	// 3*quantum, 4*quantum.
	for nDelta := 0; nDelta < 1<<log2SizeClassGroup; nDelta++ {
		size = sc.addclass(log2Group, log2Delta, nDelta)
	}
	log2Group += log2SizeClassGroup

	// remaining groups, nDelta runs 1..4, group base and delta double
	// together every group.
	normalmax := int64(-1)
	for ; size < sc.chunksize; log2Group, log2Delta = log2Group+1, log2Delta+1 {
		for nDelta := 1; nDelta <= 1<<log2SizeClassGroup && size < sc.chunksize; nDelta++ {
			size = sc.addclass(log2Group, log2Delta, nDelta)
			normalmax = size
		}
	}
	if normalmax != sc.chunksize {
		fmsg := "chunksize %v not reachable by group progression, stopped at %v"
		panicerr(fmsg, sc.chunksize, normalmax)
	}
	sc.nsizes = len(sc.classes)
}

func (sc *SizeClasses) addclass(log2Group, log2Delta, nDelta int) int64 {
	multipage := log2Delta >= sc.pageshifts
	if multipage == false {
		size := rawsizeof(log2Group, log2Delta, nDelta)
		multipage = size == (size/sc.pagesize)*sc.pagesize
	}
	log2Size := log2sizeof(log2Group, log2Delta, nDelta)
	cls := sizeclass{
		index:     len(sc.classes),
		log2Group: log2Group,
		log2Delta: log2Delta,
		nDelta:    nDelta,
		multipage: multipage,
		subpage:   log2Size < sc.pageshifts+1,
	}
	if inlookup(log2Group, log2Delta, nDelta) {
		cls.lookup = log2Delta
	}
	sc.classes = append(sc.classes, cls)
	return sc.sizeof(cls)
}

func (sc *SizeClasses) sizeof(cls sizeclass) int64 {
	size := rawsizeof(cls.log2Group, cls.log2Delta, cls.nDelta)
	return lib.Alignup(size, sc.alignment)
}

func (sc *SizeClasses) maketables() {
	smallmaxidx, npsizes, nsubpages, lookupmax := 0, 0, 0, int64(0)
	for idx, cls := range sc.classes {
		if cls.multipage {
			npsizes++
		}
		if cls.subpage {
			nsubpages, smallmaxidx = nsubpages+1, idx
		}
		if cls.lookup != 0 {
			lookupmax = sc.sizeof(cls)
		}
	}
	sc.smallmaxidx, sc.npsizes = smallmaxidx, npsizes
	sc.nsubpages, sc.lookupmax = nsubpages, lookupmax

	sc.idx2size = make([]int64, sc.nsizes)
	sc.pageidx2size = make([]int64, 0, npsizes)
	for idx, cls := range sc.classes {
		sc.idx2size[idx] = sc.sizeof(cls)
		if cls.multipage {
			sc.pageidx2size = append(sc.pageidx2size, sc.sizeof(cls))
		}
	}

	// quantum spaced fast lookup, entry (size-1)>>Log2Quantum maps to
	// the smallest covering class.
	sc.size2idx = make([]int, lookupmax>>Log2Quantum)
	idx, size := 0, int64(0)
	for i := 0; size <= lookupmax; i++ {
		times := 1 << (sc.classes[i].log2Delta - Log2Quantum)
		for ; size <= lookupmax && times > 0; times-- {
			sc.size2idx[idx] = i
			idx++
			size = int64(idx+1) << Log2Quantum
		}
	}
}

//---- operations, all pure.

// Idx2size byte size of size-class idx. Index shall be one obtained
// from Size2idx(), in the range [0, Nsizes()).
func (sc *SizeClasses) Idx2size(idx int) int64 {
	return sc.idx2size[idx]
}

// Idx2sizeCompute same as Idx2size, reconstructed from idx alone via
// group/delta arithmetic without consulting the table.
func (sc *SizeClasses) Idx2sizeCompute(idx int) int64 {
	group := idx >> log2SizeClassGroup
	mod := idx & (1<<log2SizeClassGroup - 1)

	groupsize := int64(0)
	if group > 0 {
		groupsize = int64(1) << (Log2Quantum + log2SizeClassGroup - 1 + group)
	}
	shift := group
	if group == 0 {
		shift = 1
	}
	log2Delta := shift + Log2Quantum - 1
	return groupsize + int64(mod+1)<<log2Delta
}

// Pageidx2size byte size of multi-page class pidx, in the range
// [0, Npsizes()).
func (sc *SizeClasses) Pageidx2size(pidx int) int64 {
	return sc.pageidx2size[pidx]
}

// Pageidx2sizeCompute same as Pageidx2size, reconstructed from pidx
// alone without consulting the table.
func (sc *SizeClasses) Pageidx2sizeCompute(pidx int) int64 {
	group := pidx >> log2SizeClassGroup
	mod := pidx & (1<<log2SizeClassGroup - 1)

	groupsize := int64(0)
	if group > 0 {
		groupsize = int64(1) << (sc.pageshifts + log2SizeClassGroup - 1 + group)
	}
	shift := group
	if group == 0 {
		shift = 1
	}
	log2Delta := shift + sc.pageshifts - 1
	return groupsize + int64(mod+1)<<log2Delta
}

// Size2idx index of the smallest class whose size covers the request,
// 0 for a zero byte request, Nsizes() when the request is bigger than
// the chunk. When configured, requests are rounded up to the cache
// alignment boundary first.
func (sc *SizeClasses) Size2idx(size int64) int {
	if size == 0 {
		return 0
	} else if size > sc.chunksize {
		return sc.nsizes
	}
	size = lib.Alignup(size, sc.alignment)

	if size <= sc.lookupmax {
		return sc.size2idx[(size-1)>>Log2Quantum]
	}

	x := lib.Log2((size << 1) - 1)
	shift := 0
	if x >= log2SizeClassGroup+Log2Quantum+1 {
		shift = x - (log2SizeClassGroup + Log2Quantum)
	}
	group := shift << log2SizeClassGroup

	log2Delta := Log2Quantum
	if x >= log2SizeClassGroup+Log2Quantum+1 {
		log2Delta = x - log2SizeClassGroup - 1
	}
	mod := int((size-1)>>log2Delta) & (1<<log2SizeClassGroup - 1)
	return group + mod
}

// Normalize round size up to the nearest size-class size, same as
// Idx2size(Size2idx(size)) but computed directly above the lookup
// ceiling. A zero byte request normalizes to the smallest class.
func (sc *SizeClasses) Normalize(size int64) int64 {
	if size == 0 {
		return sc.idx2size[0]
	}
	size = lib.Alignup(size, sc.alignment)
	if size <= sc.lookupmax {
		return sc.idx2size[sc.size2idx[(size-1)>>Log2Quantum]]
	}
	return normalizecompute(size)
}

func normalizecompute(size int64) int64 {
	x := lib.Log2((size << 1) - 1)
	log2Delta := Log2Quantum
	if x >= log2SizeClassGroup+Log2Quantum+1 {
		log2Delta = x - log2SizeClassGroup - 1
	}
	mask := int64(1)<<log2Delta - 1
	return (size + mask) &^ mask
}

// Pages2pageidx page-class index of the smallest multi-page class
// covering a span of pages, Npsizes() when the span is bigger than
// the chunk.
func (sc *SizeClasses) Pages2pageidx(pages int64) int {
	return sc.pages2pageidx(pages, false)
}

// Pages2pageidxFloor page-class index of the largest multi-page class
// not exceeding a span of pages.
func (sc *SizeClasses) Pages2pageidxFloor(pages int64) int {
	return sc.pages2pageidx(pages, true)
}

func (sc *SizeClasses) pages2pageidx(pages int64, floor bool) int {
	pagesize := pages << sc.pageshifts
	if pagesize > sc.chunksize {
		return sc.npsizes
	}

	x := lib.Log2((pagesize << 1) - 1)
	shift := 0
	if x >= log2SizeClassGroup+sc.pageshifts {
		shift = x - (log2SizeClassGroup + sc.pageshifts)
	}
	group := shift << log2SizeClassGroup

	log2Delta := sc.pageshifts
	if x >= log2SizeClassGroup+sc.pageshifts+1 {
		log2Delta = x - log2SizeClassGroup - 1
	}
	mod := int((pagesize-1)>>log2Delta) & (1<<log2SizeClassGroup - 1)

	pageidx := group + mod
	if floor && sc.pageidx2size[pageidx] > pagesize {
		pageidx--
	}
	return pageidx
}

//---- accessors.

// Nsizes number of size classes.
func (sc *SizeClasses) Nsizes() int {
	return sc.nsizes
}

// Npsizes number of size classes that are multiples of pagesize.
func (sc *SizeClasses) Npsizes() int {
	return sc.npsizes
}

// Nsubpages number of size classes eligible for sub-page slab
// allocation.
func (sc *SizeClasses) Nsubpages() int {
	return sc.nsubpages
}

// SmallMaxIdx index of the largest sub-page size class.
func (sc *SizeClasses) SmallMaxIdx() int {
	return sc.smallmaxidx
}

// LookupMaxSize size of the largest class served by the lookup table.
func (sc *SizeClasses) LookupMaxSize() int64 {
	return sc.lookupmax
}

// Chunksize configured size of the largest contiguous allocation
// unit.
func (sc *SizeClasses) Chunksize() int64 {
	return sc.chunksize
}

// Pagesize configured granular unit for multi-page allocation.
func (sc *SizeClasses) Pagesize() int64 {
	return sc.pagesize
}

// Pageshifts log2 of pagesize.
func (sc *SizeClasses) Pageshifts() int {
	return sc.pageshifts
}

// Issubpage whether class idx is small enough for sub-page slab
// allocation.
func (sc *SizeClasses) Issubpage(idx int) bool {
	return sc.classes[idx].subpage
}

// Ismultipage whether the size of class idx is an exact multiple of
// pagesize.
func (sc *SizeClasses) Ismultipage(idx int) bool {
	return sc.classes[idx].multipage
}
