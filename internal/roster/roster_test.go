package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_NewIdentityChangesSet(t *testing.T) {
	r := New()

	assert.True(t, r.Join("c1", "alice"))
	assert.Equal(t, 1, r.Size())
	assert.Equal(t, []string{"alice"}, r.Identities())
}

func TestJoin_SameConnectionSameIdentityIsIdempotent(t *testing.T) {
	r := New()
	require.True(t, r.Join("c1", "alice"))

	assert.False(t, r.Join("c1", "alice"))
	assert.Equal(t, 1, r.Size())
	assert.Equal(t, []string{"c1"}, r.Connections("alice"))
}

func TestJoin_SecondConnectionSameIdentity(t *testing.T) {
	r := New()
	require.True(t, r.Join("c1", "alice"))

	assert.False(t, r.Join("c2", "alice"), "duplicate login must not change the identity set")
	assert.Equal(t, 1, r.Size())
	assert.Equal(t, []string{"c1", "c2"}, r.Connections("alice"))
}

func TestJoin_EmptyIdentityIgnored(t *testing.T) {
	r := New()

	assert.False(t, r.Join("c1", ""))
	assert.Equal(t, 0, r.Size())
	_, ok := r.IdentityOf("c1")
	assert.False(t, ok)
}

func TestJoin_RejoinUnderDifferentIdentityMovesConnection(t *testing.T) {
	r := New()
	require.True(t, r.Join("c1", "alice"))

	assert.True(t, r.Join("c1", "bob"))
	assert.Equal(t, []string{"bob"}, r.Identities())

	identity, ok := r.IdentityOf("c1")
	require.True(t, ok)
	assert.Equal(t, "bob", identity)
}

func TestLeave_LastConnectionRemovesIdentity(t *testing.T) {
	r := New()
	r.Join("c1", "alice")
	r.Join("c2", "alice")

	assert.False(t, r.Leave("c1"))
	assert.Equal(t, 1, r.Size())

	assert.True(t, r.Leave("c2"))
	assert.Equal(t, 0, r.Size())
	assert.NotNil(t, r.Identities())
	assert.Empty(t, r.Identities())
}

func TestLeave_UnknownConnectionIsNoop(t *testing.T) {
	r := New()
	r.Join("c1", "alice")

	assert.False(t, r.Leave("nope"))
	assert.Equal(t, 1, r.Size())
}

func TestRemove_DropsAllConnections(t *testing.T) {
	r := New()
	r.Join("c2", "x")
	r.Join("c1", "x")
	r.Join("c3", "y")

	removed := r.Remove("x")

	assert.Equal(t, []string{"c1", "c2"}, removed)
	assert.Equal(t, []string{"y"}, r.Identities())
	_, ok := r.IdentityOf("c1")
	assert.False(t, ok)

	// The transport reports the disconnect later; it must be a no-op.
	assert.False(t, r.Leave("c1"))
	assert.Equal(t, 1, r.Size())
}

func TestRemove_UnknownIdentityIsNoop(t *testing.T) {
	r := New()
	r.Join("c1", "alice")

	assert.Nil(t, r.Remove("ghost"))
	assert.Equal(t, 1, r.Size())
}

func TestSize_MatchesDistinctLiveIdentities(t *testing.T) {
	r := New()
	steps := []struct {
		join     bool
		conn     string
		identity string
		wantSize int
	}{
		{true, "c1", "a", 1},
		{true, "c2", "b", 2},
		{true, "c3", "a", 2},
		{false, "c1", "", 2},
		{false, "c3", "", 1},
		{true, "c4", "c", 2},
		{false, "c2", "", 1},
		{false, "c4", "", 0},
	}

	for i, step := range steps {
		if step.join {
			r.Join(step.conn, step.identity)
		} else {
			r.Leave(step.conn)
		}
		assert.Equal(t, step.wantSize, r.Size(), "step %d", i)
		assert.Len(t, r.Identities(), step.wantSize, "step %d", i)
	}
}
