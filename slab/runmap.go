package slab

import "math"

// RunMap specialized open-addressing map from a 64-bit run handle to
// 64-bit run metadata, tracking which runs of a chunk are currently
// available. Keys and values are non-negative. Key 0 never enters the
// table body, it is redirected to a dedicated zero slot. Not thread
// safe, the owning allocator serializes access.
type RunMap struct {
	mask     int
	array    []int64 // paired (key, value) slots
	maxprobe int
	zeroval  int64
	emptyval int64
}

// NewRunMap create an empty map. Lookups that miss return emptyval,
// callers should pick a sentinel that can never be a legitimate
// payload, a negative number when payloads are non-negative.
func NewRunMap(emptyval int64) *RunMap {
	m := &RunMap{emptyval: emptyval, zeroval: emptyval}
	m.array = make([]int64, 32)
	m.remask()
	return m
}

// Put insert or overwrite key, returning the previous value, or the
// empty sentinel when key was absent. Doubles the backing array when
// the probe budget is exhausted.
func (m *RunMap) Put(key, value int64) int64 {
	if key == 0 {
		prev := m.zeroval
		m.zeroval = value
		return prev
	}

	for {
		index := m.index(key)
		for i := 0; i < m.maxprobe; i++ {
			existing := m.array[index]
			if existing == key || existing == 0 {
				prev := m.emptyval
				if existing != 0 {
					prev = m.array[index+1]
				}
				m.array[index] = key
				m.array[index+1] = value

				// the index mask changes across growths, the same key
				// may still be live at a slot computed under an older
				// mask. Scan ahead and nerf it, its value is the real
				// previous value.
				for ; i < m.maxprobe; i++ {
					index = (index + 2) & m.mask
					if m.array[index] == key {
						m.array[index] = 0
						prev = m.array[index+1]
						break
					}
				}
				return prev
			}
			index = (index + 2) & m.mask
		}
		m.expand()
	}
}

// Remove delete key, no-op if absent. Only the key slot is cleared,
// presence is determined solely by the key slot being non zero.
func (m *RunMap) Remove(key int64) {
	if key == 0 {
		m.zeroval = m.emptyval
		return
	}
	index := m.index(key)
	for i := 0; i < m.maxprobe; i++ {
		if m.array[index] == key {
			m.array[index] = 0
			return
		}
		index = (index + 2) & m.mask
	}
}

// Get value stored against key, or the empty sentinel.
func (m *RunMap) Get(key int64) int64 {
	if key == 0 {
		return m.zeroval
	}
	index := m.index(key)
	for i := 0; i < m.maxprobe; i++ {
		if m.array[index] == key {
			return m.array[index+1]
		}
		index = (index + 2) & m.mask
	}
	return m.emptyval
}

// Info capacity in key/value pairs and the current probe bound.
func (m *RunMap) Info() (capacity, maxprobe int) {
	return len(m.array) / 2, m.maxprobe
}

// home slot for key, murmur64 finalizer masked to the even aligned
// index space.
func (m *RunMap) index(key int64) int {
	h := uint64(key)
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return int(h) & m.mask
}

func (m *RunMap) expand() {
	prev := m.array
	m.array = make([]int64, len(prev)*2)
	m.remask()
	for i := 0; i < len(prev); i += 2 {
		if key := prev[i]; key != 0 {
			m.Put(key, prev[i+1])
		}
	}
}

// probe bound is floor of the natural log of the slot count, a small
// sub-linear budget that trades resize frequency for bounded probe
// cost.
func (m *RunMap) remask() {
	m.mask = (len(m.array) - 1) &^ 1
	m.maxprobe = int(math.Log(float64(len(m.array))))
}
