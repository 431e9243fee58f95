package chat

import "time"

// IDGenerator produces message ids that follow insertion order. Ids are
// unix-millisecond timestamps; inserts landing on the same millisecond
// (history restore does this) get last+1 so render order never needs a
// secondary sort.
type IDGenerator struct {
	last int64
	now  func() time.Time
}

// NewIDGenerator creates an IDGenerator backed by the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns the next message id.
func (g *IDGenerator) Next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
