package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type ping struct{ N int }
type pong struct{ N int }

func TestDispatchByType(t *testing.T) {
	b := New()
	var pings, pongs []int
	On(b, func(_ context.Context, e ping) { pings = append(pings, e.N) })
	On(b, func(_ context.Context, e pong) { pongs = append(pongs, e.N) })

	Emit(b, context.Background(), ping{1})
	Emit(b, context.Background(), pong{2})
	Emit(b, context.Background(), ping{3})

	require.Equal(t, []int{1, 3}, pings)
	require.Equal(t, []int{2}, pongs)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	var a, c int
	// Both handlers come from the same function literal.
	handler := func(n *int) Handler[ping] { return func(context.Context, ping) { *n++ } }
	unsubA := On(b, handler(&a))
	On(b, handler(&c))

	Emit(b, context.Background(), ping{})
	unsubA()
	unsubA()
	Emit(b, context.Background(), ping{})

	require.Equal(t, 1, a)
	require.Equal(t, 2, c)
}

func TestUnsubscribeDuringEmit(t *testing.T) {
	b := New()
	var calls int
	var unsub func()
	unsub = On(b, func(context.Context, ping) { calls++; unsub() })
	On(b, func(context.Context, ping) { calls++ })

	Emit(b, context.Background(), ping{})
	require.Equal(t, 2, calls)
	Emit(b, context.Background(), ping{})
	require.Equal(t, 3, calls)
}

func TestGlobalBus(t *testing.T) {
	Use(nil)
	Publish(context.Background(), ping{}) // no bus, no panic
	unsub := Subscribe(func(context.Context, ping) { t.Fatal("no bus installed") })
	unsub()

	Use(New())
	t.Cleanup(func() { Use(nil) })
	var got []int
	Subscribe(func(_ context.Context, e ping) { got = append(got, e.N) })
	Publish(context.Background(), ping{7})
	require.Equal(t, []int{7}, got)
}
