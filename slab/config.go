package slab

import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Log2Quantum log2 of the smallest allocation granularity, which is
// also the size of size-class index 0.
const Log2Quantum = 4

// Quantum smallest allocation granularity.
const Quantum = int64(1) << Log2Quantum

// log2 of the number of size classes for each size doubling.
const log2SizeClassGroup = 2

// log2 of the largest size class served by the size->index lookup
// table, bigger sizes are classified by bit arithmetic.
const log2MaxLookupSize = 12

// Defaultpagesize granular unit for multi-page allocation.
const Defaultpagesize = int64(8192)

// Defaultchunksize size of the largest contiguous allocation unit.
const Defaultchunksize = int64(4 * 1024 * 1024)

// Defaultsettings for slab size classification.
//
// "pagesize" (int64, default: 8192)
//		Granular unit for multi-page allocation, shall be a
//		power of 2.
//
// "chunksize" (int64, default: 4MB)
//		Size of the largest contiguous allocation unit managed by
//		the owning allocator, shall be a power of 2 not less than
//		"pagesize". Default is clamped down against free system
//		memory.
//
// "cachealignment" (int64, default: 0)
//		When positive, a power of 2, every request is rounded up to
//		the next multiple of this boundary before classification.
func Defaultsettings() s.Settings {
	setts := s.Settings{
		"pagesize":       Defaultpagesize,
		"chunksize":      Defaultchunksize,
		"cachealignment": int64(0),
	}
	mem := sigar.Mem{}
	if err := mem.Get(); err == nil {
		chunksize := setts.Int64("chunksize")
		for chunksize > setts.Int64("pagesize") {
			if uint64(chunksize*8) <= mem.ActualFree {
				break
			}
			chunksize = chunksize >> 1
		}
		setts["chunksize"] = chunksize
	}
	return setts
}
