package keyring

import (
	"testing"

	"github.com/notevault/notevault/internal/common"
	"github.com/stretchr/testify/require"
)

func TestGet_NotInitialized(t *testing.T) {
	k := New()
	_, err := k.Get(1)
	require.ErrorIs(t, err, common.ErrSessionNotInitialized)
}

func TestPutGetRemove(t *testing.T) {
	k := New()
	key := []byte{1, 2, 3, 4}

	k.Put(42, key)
	got, err := k.Get(42)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, got)

	k.Remove(42)
	_, err = k.Get(42)
	require.ErrorIs(t, err, common.ErrSessionNotInitialized)
}

func TestPut_Overwrites(t *testing.T) {
	k := New()
	k.Put(1, []byte{1})
	k.Put(1, []byte{2})

	got, err := k.Get(1)
	require.NoError(t, err)
	require.Equal(t, []byte{2}, got)
}

func TestPut_CopiesKey(t *testing.T) {
	k := New()
	key := []byte{9, 9, 9}
	k.Put(1, key)
	common.WipeByteArray(key)

	got, err := k.Get(1)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9, 9}, got)
}

func TestGet_ResultSurvivesRemove(t *testing.T) {
	k := New()
	k.Put(1, []byte{9, 9, 9, 9})

	// A batch decrypt fetches the key once and then loops over rows; a
	// logout landing mid-loop must not zero the key it is working with.
	held, err := k.Get(1)
	require.NoError(t, err)
	k.Remove(1)
	require.Equal(t, []byte{9, 9, 9, 9}, held)
}

func TestGet_ResultSurvivesOverwrite(t *testing.T) {
	k := New()
	k.Put(1, []byte{1, 1})

	held, err := k.Get(1)
	require.NoError(t, err)
	k.Put(1, []byte{2, 2})
	require.Equal(t, []byte{1, 1}, held)
}

func TestRemove_Idempotent(t *testing.T) {
	k := New()
	k.Remove(7)
	k.Put(7, []byte{1})
	k.Remove(7)
	k.Remove(7)
}
