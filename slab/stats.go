package slab

import "fmt"
import "sort"
import "strings"
import "unsafe"

import humanize "github.com/dustin/go-humanize"

// Stats table dimensions and configuration.
func (sc *SizeClasses) Stats() map[string]interface{} {
	return map[string]interface{}{
		"nsizes":      sc.nsizes,
		"npsizes":     sc.npsizes,
		"nsubpages":   sc.nsubpages,
		"smallmaxidx": sc.smallmaxidx,
		"lookupmax":   sc.lookupmax,
		"pagesize":    sc.pagesize,
		"chunksize":   sc.chunksize,
		"overhead":    sc.Overhead(),
	}
}

// Overhead memory consumed by the derived tables, in bytes.
func (sc *SizeClasses) Overhead() int64 {
	overhead := int64(unsafe.Sizeof(*sc))
	overhead += int64(cap(sc.classes)) * int64(unsafe.Sizeof(sizeclass{}))
	overhead += int64(cap(sc.idx2size)) * 8
	overhead += int64(cap(sc.pageidx2size)) * 8
	overhead += int64(cap(sc.size2idx)) * int64(unsafe.Sizeof(int(0)))
	return overhead
}

// Logstring Stats() as loggable string, byte quantities humanized.
func (sc *SizeClasses) Logstring() string {
	stats, keys := sc.Stats(), []string{}
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	humanized := map[string]bool{
		"lookupmax": true, "pagesize": true, "chunksize": true,
		"overhead": true,
	}
	ss := []string{}
	for _, key := range keys {
		val := stats[key]
		if humanized[key] {
			val = fmt.Sprintf("%q", humanize.Bytes(uint64(val.(int64))))
		}
		ss = append(ss, fmt.Sprintf(`"%v": %v`, key, val))
	}
	return "{" + strings.Join(ss, ",") + "}"
}
