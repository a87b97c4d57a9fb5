package services

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
)

// mockSession implements driving.SearchSession and counts commands.
type mockSession struct {
	starts, refreshes, bottoms atomic.Int32

	mu    sync.Mutex
	state domain.AggregateState
}

func (m *mockSession) ID() string     { return "mock" }
func (m *mockSession) Query() string  { return m.Snapshot().Query }
func (m *mockSession) Start()         { m.starts.Add(1) }
func (m *mockSession) Refresh()       { m.refreshes.Add(1) }
func (m *mockSession) ReachedBottom() { m.bottoms.Add(1) }
func (m *mockSession) Close()         {}

func (m *mockSession) setState(st domain.AggregateState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
}

func (m *mockSession) Snapshot() domain.AggregateState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockSession) Subscribe() (<-chan domain.AggregateState, func()) {
	ch := make(chan domain.AggregateState, 1)
	ch <- m.Snapshot()
	return ch, func() {}
}

func TestRouter_ViewAppeared(t *testing.T) {
	t.Run("starts once", func(t *testing.T) {
		session := &mockSession{}
		r := NewRouter(session)

		r.ViewAppeared()
		r.ViewAppeared()
		r.ViewAppeared()

		assert.Equal(t, int32(1), session.starts.Load())
	})

	t.Run("concurrent appearances start once", func(t *testing.T) {
		session := &mockSession{}
		r := NewRouter(session)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.ViewAppeared()
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), session.starts.Load())
	})
}

func TestRouter_PullToRefresh(t *testing.T) {
	session := &mockSession{}
	r := NewRouter(session)

	r.PullToRefresh()
	r.PullToRefresh()

	assert.Equal(t, int32(2), session.refreshes.Load())
	assert.Zero(t, session.starts.Load())
}

func TestRouter_ScrolledToBottom(t *testing.T) {
	t.Run("forwards when idle", func(t *testing.T) {
		session := &mockSession{}
		r := NewRouter(session)

		assert.True(t, r.ScrolledToBottom())
		assert.Equal(t, int32(1), session.bottoms.Load())
	})

	t.Run("drops while loading next page", func(t *testing.T) {
		session := &mockSession{}
		session.setState(domain.AggregateState{IsLoadingNextPage: true})
		r := NewRouter(session)

		assert.False(t, r.ScrolledToBottom())
		assert.False(t, r.ScrolledToBottom())
		assert.Zero(t, session.bottoms.Load())

		session.setState(domain.AggregateState{})
		assert.True(t, r.ScrolledToBottom())
		assert.Equal(t, int32(1), session.bottoms.Load())
	})
}

func TestRouter_Session(t *testing.T) {
	session := &mockSession{}
	assert.Same(t, session, NewRouter(session).Session())
}
