package irc

import (
	"reflect"
	"testing"
)

func TestFilterChain_lifoOrder(t *testing.T) {
	var chain filterChain[InboundFilter]
	var order []string
	for _, name := range []string{"f1", "f2", "f3"} {
		name := name
		chain.Add(func(m *Message) bool {
			order = append(order, name)
			return false
		})
	}

	if consumed := runFilterChain(&chain, func(fn InboundFilter) bool { return fn(nil) }); consumed {
		t.Error("no filter consumed; chain should report false")
	}
	want := []string{"f3", "f2", "f1"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("call order = %v, want %v", order, want)
	}
}

func TestFilterChain_consumptionHalts(t *testing.T) {
	var chain filterChain[InboundFilter]
	var order []string
	chain.Add(func(m *Message) bool {
		order = append(order, "f1")
		return false
	})
	chain.Add(func(m *Message) bool {
		order = append(order, "f2")
		return false
	})
	chain.Add(func(m *Message) bool {
		order = append(order, "f3")
		return true
	})

	if consumed := runFilterChain(&chain, func(fn InboundFilter) bool { return fn(nil) }); !consumed {
		t.Error("f3 consumed; chain should report true")
	}
	if !reflect.DeepEqual(order, []string{"f3"}) {
		t.Errorf("call order = %v, want only f3", order)
	}
}

// A filter that removes itself during its own invocation must not be
// re-entered for the same event, and later events skip it entirely.
func TestFilterChain_selfRemoval(t *testing.T) {
	var chain filterChain[InboundFilter]
	var calls int
	var handle filterHandle[InboundFilter]
	handle = chain.Add(func(m *Message) bool {
		calls++
		chain.Remove(handle)
		return false
	})

	runFilterChain(&chain, func(fn InboundFilter) bool { return fn(nil) })
	runFilterChain(&chain, func(fn InboundFilter) bool { return fn(nil) })
	if calls != 1 {
		t.Errorf("self-removing filter called %d times, want 1", calls)
	}
}

// Removing a filter that has not yet had its turn, from inside an
// earlier filter, skips the removed one for the event in progress.
func TestFilterChain_removeDuringTraversal(t *testing.T) {
	var chain filterChain[InboundFilter]
	var order []string
	h1 := chain.Add(func(m *Message) bool {
		order = append(order, "f1")
		return false
	})
	chain.Add(func(m *Message) bool {
		order = append(order, "f2")
		chain.Remove(h1)
		return false
	})

	runFilterChain(&chain, func(fn InboundFilter) bool { return fn(nil) })
	if !reflect.DeepEqual(order, []string{"f2"}) {
		t.Errorf("call order = %v, want only f2", order)
	}
}

// While a filter is on the call stack, a nested traversal for an event
// it emitted excludes that filter from consideration.
func TestFilterChain_reentryGuard(t *testing.T) {
	var chain filterChain[OutboundFilter]
	var inner, outer int
	chain.Add(func(c Command, m *Message) bool {
		inner++
		return false
	})
	chain.Add(func(c Command, m *Message) bool {
		outer++
		if outer == 1 {
			// emitting a command from within the filter re-runs the
			// chain, which must skip this slot
			runFilterChain(&chain, func(fn OutboundFilter) bool { return fn("", nil) })
		}
		return false
	})

	runFilterChain(&chain, func(fn OutboundFilter) bool { return fn("", nil) })
	if outer != 1 {
		t.Errorf("outer filter entered %d times, want 1", outer)
	}
	if inner != 2 {
		t.Errorf("inner filter entered %d times, want 2 (once per traversal)", inner)
	}
}

// Filters added while an event is being traversed only see later events.
func TestFilterChain_addDuringTraversal(t *testing.T) {
	var chain filterChain[InboundFilter]
	var lateCalls int
	chain.Add(func(m *Message) bool {
		chain.Add(func(m *Message) bool {
			lateCalls++
			return false
		})
		return false
	})

	runFilterChain(&chain, func(fn InboundFilter) bool { return fn(nil) })
	if lateCalls != 0 {
		t.Errorf("filter added mid-traversal ran %d times during the same event", lateCalls)
	}
	runFilterChain(&chain, func(fn InboundFilter) bool { return fn(nil) })
	if lateCalls != 1 {
		t.Errorf("filter added mid-traversal ran %d times on the next event, want 1", lateCalls)
	}
}
