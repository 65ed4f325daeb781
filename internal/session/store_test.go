package session

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/sandevgo/novatasks/internal/core"
)

func TestGetOrCreate_StableAcrossCalls(t *testing.T) {
	s := NewMemoryStore()

	s.GetOrCreate("alice")
	s.Append("alice", core.RoleUser, "hi")
	s.Append("alice", core.RoleAssistant, "hello")

	first := s.GetOrCreate("alice")
	second := s.GetOrCreate("alice")

	want := []core.Turn{
		{Role: core.RoleUser, Text: "hi"},
		{Role: core.RoleAssistant, Text: "hello"},
	}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("first snapshot = %v, want %v", first, want)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("snapshots differ without intervening destroy: %v vs %v", first, second)
	}
}

func TestDestroy_FullReset(t *testing.T) {
	s := NewMemoryStore()

	s.GetOrCreate("alice")
	s.Append("alice", core.RoleUser, "remind me")
	s.Destroy("alice")

	if got := s.GetOrCreate("alice"); len(got) != 0 {
		t.Errorf("buffer after destroy = %v, want empty", got)
	}
}

func TestDestroy_AbsentKeyIsNoop(t *testing.T) {
	s := NewMemoryStore()
	s.Destroy("nobody") // must not panic
}

func TestAppend_WithoutCreateIsIgnored(t *testing.T) {
	s := NewMemoryStore()

	s.Append("ghost", core.RoleUser, "boo")

	// Appending to an unknown key must not create a buffer behind the
	// caller's back.
	s.mu.Lock()
	_, exists := s.buffers["ghost"]
	s.mu.Unlock()
	if exists {
		t.Error("append created a buffer for an unknown key")
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewMemoryStore()

	s.GetOrCreate("alice")
	s.Append("alice", core.RoleUser, "original")

	snap := s.GetOrCreate("alice")
	snap[0].Text = "mutated"

	fresh := s.GetOrCreate("alice")
	if fresh[0].Text != "original" {
		t.Errorf("store content changed through a snapshot: %q", fresh[0].Text)
	}
}

func TestIsolation_ByKey(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("user-%d", i)
			s.GetOrCreate(key)
			for j := 0; j < 50; j++ {
				s.Append(key, core.RoleUser, fmt.Sprintf("%d:%d", i, j))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		key := fmt.Sprintf("user-%d", i)
		buf := s.GetOrCreate(key)
		if len(buf) != 50 {
			t.Fatalf("key %s: got %d turns, want 50", key, len(buf))
		}
		for j, turn := range buf {
			want := fmt.Sprintf("%d:%d", i, j)
			if turn.Text != want {
				t.Fatalf("key %s turn %d = %q, want %q (cross-key leak or reorder)", key, j, turn.Text, want)
			}
		}
	}
}
