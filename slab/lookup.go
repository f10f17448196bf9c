package slab

import "github.com/bnclabs/bufarena/lib"

// log2sizeof effective size exponent for a class. log2Delta plus
// log2(nDelta) can roll the size over into the next group's exponent,
// in which case the exponent is bumped by one.
func log2sizeof(log2Group, log2Delta, nDelta int) int {
	log2Ndelta := 0
	if nDelta > 0 {
		log2Ndelta = lib.Log2(int64(nDelta))
	}
	if log2Delta+log2Ndelta == log2Group {
		return log2Group + 1
	}
	return log2Group
}

// inlookup whether a class participates in the size->index lookup
// table. Classes below the lookup ceiling (1 << log2MaxLookupSize)
// always do. A class exactly at the ceiling participates only when its
// exponent was reached by delta rollover and nDelta is itself a power
// of 2, the remaining boundary classes are redundant with the compute
// path and stay out of the table.
func inlookup(log2Group, log2Delta, nDelta int) bool {
	log2Size := log2sizeof(log2Group, log2Delta, nDelta)
	if log2Size < log2MaxLookupSize {
		return true
	} else if log2Size > log2MaxLookupSize || log2Size == log2Group {
		return false
	}
	return lib.Ispow2(int64(nDelta))
}
