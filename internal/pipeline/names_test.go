package pipeline

import (
	"context"
	"errors"
	"testing"
)

type fakeCache struct {
	names map[int64]string
	sets  int
	err   error
}

func (c *fakeCache) GetNames(ctx context.Context, typeIDs []int64) (map[int64]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := map[int64]string{}
	for _, id := range typeIDs {
		if n, ok := c.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (c *fakeCache) SetNames(ctx context.Context, names map[int64]string) error {
	if c.err != nil {
		return c.err
	}
	c.sets++
	for id, n := range names {
		c.names[id] = n
	}
	return nil
}

type fakeResolver struct {
	names map[int64]string
	calls int
	err   error
}

func (r *fakeResolver) ResolveNames(ctx context.Context, typeIDs []int64) (map[int64]string, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := map[int64]string{}
	for _, id := range typeIDs {
		if n, ok := r.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func TestNameService(t *testing.T) {
	ctx := context.Background()

	t.Run("static table wins without touching other layers", func(t *testing.T) {
		resolver := &fakeResolver{}
		s := NewNameService(map[int64]string{34: "Tritanium"}, nil, resolver, discard())

		names, err := s.ResolveNames(ctx, []int64{34})
		if err != nil {
			t.Fatalf("ResolveNames: %v", err)
		}
		if names[34] != "Tritanium" {
			t.Errorf("names[34] = %q, want Tritanium", names[34])
		}
		if resolver.calls != 0 {
			t.Errorf("resolver.calls = %d, want 0", resolver.calls)
		}
	})

	t.Run("cache fills gaps and resolved names are written back", func(t *testing.T) {
		cache := &fakeCache{names: map[int64]string{35: "Pyerite"}}
		resolver := &fakeResolver{names: map[int64]string{36: "Mexallon"}}
		s := NewNameService(map[int64]string{34: "Tritanium"}, cache, resolver, discard())

		names, err := s.ResolveNames(ctx, []int64{34, 35, 36})
		if err != nil {
			t.Fatalf("ResolveNames: %v", err)
		}
		want := map[int64]string{34: "Tritanium", 35: "Pyerite", 36: "Mexallon"}
		for id, n := range want {
			if names[id] != n {
				t.Errorf("names[%d] = %q, want %q", id, names[id], n)
			}
		}
		if cache.sets != 1 {
			t.Errorf("cache.sets = %d, want 1", cache.sets)
		}
		if cache.names[36] != "Mexallon" {
			t.Error("resolved name was not written back to the cache")
		}
	})

	t.Run("layer failures degrade instead of erroring", func(t *testing.T) {
		cache := &fakeCache{err: errors.New("redis down")}
		resolver := &fakeResolver{err: errors.New("esi down")}
		s := NewNameService(map[int64]string{34: "Tritanium"}, cache, resolver, discard())

		names, err := s.ResolveNames(ctx, []int64{34, 35})
		if err != nil {
			t.Fatalf("ResolveNames: %v (lookup failures must degrade)", err)
		}
		if names[34] != "Tritanium" {
			t.Errorf("names[34] = %q, want Tritanium", names[34])
		}
		if _, ok := names[35]; ok {
			t.Error("unresolvable id 35 must be absent")
		}
	})
}
