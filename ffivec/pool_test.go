package ffivec

import "testing"

func TestPoolBufferCount(t *testing.T) {
	p := NewPool()
	p.AllocNulls(4)
	p.AllocInt32(4)
	p.AllocString(2)
	if got := p.BufferCount(); got != 3 {
		t.Errorf("BufferCount() = %d, want 3", got)
	}
}

func TestPoolAllocSizes(t *testing.T) {
	p := NewPool()
	if got := len(p.AllocInt64(5)); got != 5 {
		t.Errorf("AllocInt64(5) length = %d, want 5", got)
	}
	if got := len(p.AllocFloat64(3)); got != 3 {
		t.Errorf("AllocFloat64(3) length = %d, want 3", got)
	}
	if got := len(p.AllocBool(2)); got != 2 {
		t.Errorf("AllocBool(2) length = %d, want 2", got)
	}
	if got := len(p.AllocInterval(1)); got != 1 {
		t.Errorf("AllocInterval(1) length = %d, want 1", got)
	}
}

// TestPoolBuffersAreFreshPerInvocation covers spec.md §8 invariant 6:
// a new Pool starts with no owned buffers, matching "scratch buffers
// are dropped when the call returns".
func TestPoolBuffersAreFreshPerInvocation(t *testing.T) {
	p := NewPool()
	if got := p.BufferCount(); got != 0 {
		t.Errorf("BufferCount() on a fresh pool = %d, want 0", got)
	}
}
