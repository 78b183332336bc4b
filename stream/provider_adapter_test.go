package stream

import (
	"context"
	"testing"
	"time"
)

func TestToProviderDrainsUnderlyingStream(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	p := ToProvider[int](src)
	ctx := context.Background()

	var got []int
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, item)
	}
	assertIntSlice(t, got, []int{1, 2, 3})
}

func TestFromProviderWrapsSyncIterator(t *testing.T) {
	backing := []int{10, 20, 30}
	pos := 0
	fake := fakeProviderIterator{
		next: func(ctx context.Context) (int, bool, error) {
			if pos >= len(backing) {
				return 0, false, nil
			}
			v := backing[pos]
			pos++
			return v, true, nil
		},
	}

	it := FromProvider[int](fake, context.Background())
	got := collectFlow(t, it, time.Second)
	assertIntSlice(t, got, backing)
}

type fakeProviderIterator struct {
	next func(ctx context.Context) (int, bool, error)
}

func (f fakeProviderIterator) Next(ctx context.Context) (int, bool, error) { return f.next(ctx) }
func (f fakeProviderIterator) Close() error                                { return nil }
