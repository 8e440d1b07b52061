package spatial

// Buffer is a fixed-capacity overlap result container reused across
// queries. When a query finds more volumes than fit, the excess is dropped
// in iteration order and counted in Dropped.
type Buffer struct {
	items   []*Volume
	n       int
	dropped int
}

// NewBuffer allocates a buffer holding up to capacity results.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{items: make([]*Volume, capacity)}
}

// Reset clears the previous results without releasing storage.
func (b *Buffer) Reset() {
	clear(b.items[:b.n])
	b.n = 0
	b.dropped = 0
}

// Add appends v, returning false and counting a drop when full.
func (b *Buffer) Add(v *Volume) bool {
	if b.n == len(b.items) {
		b.dropped++
		return false
	}
	b.items[b.n] = v
	b.n++
	return true
}

func (b *Buffer) Len() int           { return b.n }
func (b *Buffer) Cap() int           { return len(b.items) }
func (b *Buffer) At(i int) *Volume   { return b.items[i] }
func (b *Buffer) Dropped() int       { return b.dropped }
func (b *Buffer) Results() []*Volume { return b.items[:b.n] }
