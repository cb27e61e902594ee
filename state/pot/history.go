package pot

// History is a fixed size ring of lottery records. A nil slot has never been written.
// Once full, each new record overwrites the oldest one.
type History struct {
	slots []*LotteryRecord
	next  int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{slots: make([]*LotteryRecord, capacity)}
}

// Push stores a copy of r in the oldest slot.
func (h *History) Push(r LotteryRecord) {
	h.slots[h.next] = &r
	h.next = (h.next + 1) % len(h.slots)
}

func (h *History) Capacity() int {
	return len(h.slots)
}

// Records returns the written slots from oldest to newest.
func (h *History) Records() []LotteryRecord {
	var out []LotteryRecord
	for i := 0; i < len(h.slots); i++ {
		if r := h.slots[(h.next+i)%len(h.slots)]; r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (h *History) clone() *History {
	c := &History{slots: make([]*LotteryRecord, len(h.slots)), next: h.next}
	for i, r := range h.slots {
		if r != nil {
			cp := *r
			c.slots[i] = &cp
		}
	}
	return c
}
