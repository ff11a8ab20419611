package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(b byte) [32]byte {
	var k [32]byte
	for i := range k {
		k[i] = b
	}
	return k
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := testKey(0x01)
	plaintext := []byte("organic encryption state generation 42")

	container, err := Seal(key[:], plaintext)
	require.NoError(t, err)

	recovered, err := Open(key[:], container)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestOpenRejectsTamperedContainer(t *testing.T) {
	key := testKey(0x02)
	container, err := Seal(key[:], []byte("sensitive fragment"))
	require.NoError(t, err)

	tampered := append([]byte(nil), container...)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = Open(key[:], tampered)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	container, err := Seal(testKey(0x03)[:], []byte("payload"))
	require.NoError(t, err)

	_, err = Open(testKey(0x04)[:], container)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestOpenRejectsTooShortContainer(t *testing.T) {
	_, err := Open(testKey(0x05)[:], []byte("short"))
	require.ErrorIs(t, err, ErrContainerTooShort)
}

func TestFileStoreFlushAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.db")
	key := testKey(0x06)

	s, err := OpenFile(path, key, NewMetrics(nil), nil)
	require.NoError(t, err)

	type record struct {
		Generation uint64
	}
	require.NoError(t, s.Put("anchor", record{Generation: 7}))
	require.NoError(t, s.Flush())

	reopened, err := OpenFile(path, key, NewMetrics(nil), nil)
	require.NoError(t, err)

	var got record
	ok, err := reopened.Get("anchor", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(7), got.Generation)
}

func TestFileStoreFlushNoOpWhenClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.db")
	s, err := OpenFile(path, testKey(0x07), NewMetrics(nil), nil)
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	_, statErr := OpenFile(path, testKey(0x07), NewMetrics(nil), nil)
	require.NoError(t, statErr)
}
