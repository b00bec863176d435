package score

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndTop(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Add("alice", 12))
	require.NoError(t, s.Add("bob", 30))
	require.NoError(t, s.Add("carol", 7))

	top, err := s.Top(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bob", top[0].Name)
	assert.Equal(t, 30, top[0].Height)
	assert.Equal(t, "alice", top[1].Name)
}

func TestTopTieKeepsInsertionOrder(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Add("first", 10))
	require.NoError(t, s.Add("second", 10))

	top, err := s.Top(5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "first", top[0].Name)
	assert.Equal(t, "second", top[1].Name)
}

func TestBest(t *testing.T) {
	s := openTestStore(t)

	best, err := s.Best()
	require.NoError(t, err)
	assert.Equal(t, 0, best, "empty table has no best")

	require.NoError(t, s.Add("alice", 5))
	require.NoError(t, s.Add("bob", 9))

	best, err = s.Best()
	require.NoError(t, err)
	assert.Equal(t, 9, best)
}

func TestEmptyNameBecomesAnonymous(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Add("", 3))

	top, err := s.Top(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "anonymous", top[0].Name)
}

func TestEntryTimestampPopulated(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Add("alice", 1))

	top, err := s.Top(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.False(t, top[0].When.IsZero())
}

func TestReopenKeepsScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Add("alice", 42))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	best, err := s.Best()
	require.NoError(t, err)
	assert.Equal(t, 42, best)
}

func TestNilStoreIsNoOp(t *testing.T) {
	var s *Store

	assert.NoError(t, s.Add("alice", 1))

	top, err := s.Top(5)
	assert.NoError(t, err)
	assert.Nil(t, top)

	best, err := s.Best()
	assert.NoError(t, err)
	assert.Equal(t, 0, best)

	assert.NoError(t, s.Close())
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
