package irc

// InboundFilter inspects an incoming Message before it reaches observers.
// Returning consumed==true halts the rest of the inbound pipeline for
// this message: no further filter and no observer notification runs.
type InboundFilter func(m *Message) (consumed bool)

// OutboundFilter inspects a Command before it is encoded and written.
// Returning consumed==true drops the command: it is never written.
type OutboundFilter func(c Command, m *Message) (consumed bool)

// filterChain is an ordered sequence of filters run LIFO (the
// last-installed filter runs first), with a destruction-safety
// guarantee: a filter that removes itself (or another filter)
// mid-invocation does not disturb the in-progress traversal, and a
// filter that removes itself is never re-entered for the event that
// triggered the removal.
type filterChain[F any] struct {
	slots []*filterSlot[F]
}

type filterSlot[F any] struct {
	fn     F
	live   bool
	inside bool // true while this slot's fn is on the call stack
}

// filterHandle identifies a previously-installed filter so it can be
// removed later.
type filterHandle[F any] struct {
	slot *filterSlot[F]
}

// Add installs fn as the new head of the chain (it will run before any
// previously-installed filter) and returns a handle that can be used to
// remove it.
func (c *filterChain[F]) Add(fn F) filterHandle[F] {
	slot := &filterSlot[F]{fn: fn, live: true}
	c.slots = append(c.slots, slot)
	return filterHandle[F]{slot: slot}
}

// Remove deletes the filter identified by h. It is safe to call from
// within the filter's own invocation (self-deletion); the slot is
// marked dead and compacted out of the chain at once. A traversal
// already under way works on its own snapshot of the slots, so it does
// not read past a resized slice and skips the dead slot.
func (c *filterChain[F]) Remove(h filterHandle[F]) {
	h.slot.live = false
	c.compact()
}

// runFilterChain walks the chain LIFO (most-recently-added first), invoking call
// for each live slot. A slot is skipped if it is already on the call
// stack (re-entry guard: a filter excludes itself from consideration
// for events it itself emits while running) or if it was removed before
// its turn. runFilterChain snapshots the slot list at the start of the traversal
// so filters added or removed mid-traversal don't affect this pass.
func runFilterChain[F any](c *filterChain[F], call func(fn F) (consumed bool)) bool {
	snapshot := make([]*filterSlot[F], len(c.slots))
	copy(snapshot, c.slots)

	for i := len(snapshot) - 1; i >= 0; i-- {
		slot := snapshot[i]
		if !slot.live || slot.inside {
			continue
		}
		slot.inside = true
		consumed := call(slot.fn)
		slot.inside = false
		if consumed {
			return true
		}
	}
	return false
}

// compact drops dead slots, keeping the backing slice from growing
// without bound across a long-lived connection's many Add/Remove calls.
func (c *filterChain[F]) compact() {
	kept := c.slots[:0]
	for _, s := range c.slots {
		if s.live {
			kept = append(kept, s)
		}
	}
	c.slots = kept
}
