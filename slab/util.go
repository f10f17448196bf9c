package slab

import "fmt"

import "github.com/bnclabs/bufarena/lib"

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}

// size of a class before cache alignment is applied.
func rawsizeof(log2Group, log2Delta, nDelta int) int64 {
	return (int64(1) << log2Group) + (int64(nDelta) << log2Delta)
}

func validatesettings(pagesize, chunksize, alignment int64) {
	if lib.Ispow2(pagesize) == false || pagesize < Quantum {
		panicerr("pagesize %v should be a power of 2 >= %v", pagesize, Quantum)
	} else if lib.Ispow2(chunksize) == false || chunksize < pagesize {
		panicerr("chunksize %v should be a power of 2 >= pagesize", chunksize)
	} else if chunksize < (Quantum << (log2SizeClassGroup + 1)) {
		panicerr("chunksize %v too small for the group progression", chunksize)
	} else if alignment > 0 && lib.Ispow2(alignment) == false {
		panicerr("cachealignment %v should be a power of 2", alignment)
	}
}
