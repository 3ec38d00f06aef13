package observer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_NotifyAndUnsubscribe(t *testing.T) {
	var r Registry
	a, b := 0, 0
	unsubA := r.Subscribe(func() { a++ })
	r.Subscribe(func() { b++ })

	r.Notify()
	unsubA()
	unsubA()
	r.Notify()

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestRegistry_Close(t *testing.T) {
	var r Registry
	calls := 0
	r.Subscribe(func() { calls++ })

	r.Close()
	r.Notify()
	unsub := r.Subscribe(func() { calls++ })
	unsub()
	r.Notify()

	assert.Zero(t, calls)
}

func TestRegistry_CallbackMayUnsubscribeItself(t *testing.T) {
	var r Registry
	calls := 0
	var unsub func()
	unsub = r.Subscribe(func() {
		calls++
		unsub()
	})

	r.Notify()
	r.Notify()
	assert.Equal(t, 1, calls)
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	var r Registry
	var mu sync.Mutex
	calls := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := r.Subscribe(func() {
				mu.Lock()
				calls++
				mu.Unlock()
			})
			r.Notify()
			unsub()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, calls, 20)
}
