package signal

import "sync"

const DefaultHistoryCapacity = 500

// History is a fixed-capacity set of dedup keys; once full the oldest key is evicted.
type History struct {
	mu    sync.Mutex
	ring  []Key
	start int
	size  int
	index map[Key]struct{}
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		ring:  make([]Key, capacity),
		index: make(map[Key]struct{}, capacity),
	}
}

func (h *History) Seen(key Key) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.index[key]
	return ok
}

// Add records key and reports whether it was new.
func (h *History) Add(key Key) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.index[key]; ok {
		return false
	}
	if h.size < len(h.ring) {
		h.ring[(h.start+h.size)%len(h.ring)] = key
		h.size++
	} else {
		// 覆盖最旧的
		delete(h.index, h.ring[h.start])
		h.ring[h.start] = key
		h.start = (h.start + 1) % len(h.ring)
	}
	h.index[key] = struct{}{}
	return true
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

func (h *History) Cap() int {
	return len(h.ring)
}
