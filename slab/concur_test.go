package slab

import "math/rand"
import "sync"
import "testing"

func TestConcurReaders(t *testing.T) {
	sc := NewSizeClasses(testsettings())

	var wg sync.WaitGroup
	nroutines, repeat := 8, 100000
	wg.Add(nroutines)
	for n := 0; n < nroutines; n++ {
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			chunkpages := sc.Chunksize() >> sc.Pageshifts()
			for i := 0; i < repeat; i++ {
				size := r.Int63n(sc.Chunksize()) + 1
				idx := sc.Size2idx(size)
				if x := sc.Idx2size(idx); x < size {
					t.Errorf("size %v classified under to %v", size, x)
				} else if y := sc.Normalize(size); x != y {
					t.Errorf("size %v expected %v, got %v", size, x, y)
				}
				pages := r.Int63n(chunkpages) + 1
				if x := sc.Pageidx2size(sc.Pages2pageidx(pages)); x < pages<<sc.Pageshifts() {
					t.Errorf("pages %v under-covered by %v", pages, x)
				}
			}
		}(int64(n))
	}
	wg.Wait()
}
