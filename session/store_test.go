package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStateDefault(t *testing.T) {
	st := NewStore()
	assert.Equal(t, StateUnidentified, st.GetState(42))
	// GetState must not materialize a session.
	assert.Equal(t, 0, st.Len())
}

func TestSetContact(t *testing.T) {
	st := NewStore()
	st.SetContact(42, "+998901234567", "alice")

	s, ok := st.Get(42)
	require.True(t, ok)
	assert.True(t, s.Identified())
	assert.Equal(t, "+998901234567", s.Phone)
	assert.Equal(t, "alice", s.Username)
	assert.Equal(t, StateBrowsing, s.State)
	assert.Equal(t, 0, s.Page)
}

func TestTakePendingPopSemantics(t *testing.T) {
	st := NewStore()
	st.SetContact(42, "+998901234567", "alice")
	st.SetPending(42, PendingOrder{ProductName: "Pizza", AdminDraft: "draft"})

	assert.Equal(t, StateAwaitingLocation, st.GetState(42))

	p, ok := st.TakePending(42)
	require.True(t, ok)
	assert.Equal(t, "Pizza", p.ProductName)

	_, ok = st.TakePending(42)
	assert.False(t, ok)
}

func TestDoSerializesPerUser(t *testing.T) {
	st := NewStore()
	const workers = 32
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_ = st.Do(7, func(s *Session) error {
					s.Page++
					return nil
				})
			}
		}()
	}
	wg.Wait()

	s, ok := st.Get(7)
	require.True(t, ok)
	assert.Equal(t, workers*perWorker, s.Page)
}

func TestSessionsAreIndependent(t *testing.T) {
	st := NewStore()
	st.SetContact(1, "+1", "a")
	st.SetContact(2, "+2", "b")
	st.SetPending(1, PendingOrder{ProductName: "Pizza"})

	s2, ok := st.Get(2)
	require.True(t, ok)
	assert.Nil(t, s2.Pending)
	assert.Equal(t, StateBrowsing, s2.State)
}
