package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capmoment/captionroom/internal/storage"
)

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSaveAndOpen(t *testing.T) {
	store := newStore(t)

	name, size, err := store.Save("room1234", "cat.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), size)
	assert.True(t, strings.HasSuffix(name, "_cat.png"), "stored name keeps the original name: %s", name)

	f, err := store.Open("room1234", name)
	require.NoError(t, err)
	defer f.Close()

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSave_SameNameNoCollision(t *testing.T) {
	store := newStore(t)

	first, _, err := store.Save("room1234", "cat.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, _, err := store.Save("room1234", "cat.png", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTrash_MovesFile(t *testing.T) {
	store := newStore(t)

	name, _, err := store.Save("room1234", "cat.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Trash("room1234", name))

	_, err = store.Open("room1234", name)
	assert.Error(t, err, "trashed image is gone from images dir")

	trashed := filepath.Join(store.Root(), "room1234", "trash", name)
	_, err = os.Stat(trashed)
	assert.NoError(t, err, "image lives on in trash dir")
}

func TestRemoveTrashed(t *testing.T) {
	store := newStore(t)

	name, _, err := store.Save("room1234", "cat.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, store.Trash("room1234", name))

	require.NoError(t, store.RemoveTrashed("room1234", name))

	_, err = os.Stat(filepath.Join(store.Root(), "room1234", "trash", name))
	assert.True(t, os.IsNotExist(err))

	// Removing again is a no-op.
	assert.NoError(t, store.RemoveTrashed("room1234", name))
}

func TestOpen_RejectsTraversal(t *testing.T) {
	store := newStore(t)

	_, err := store.Open("room1234", "../../etc/passwd")
	assert.Error(t, err)

	_, err = store.Open("..", "anything.png")
	assert.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"cat.png", "cat.png"},
		{"my photo (1).jpg", "my_photo_1_.jpg"},
		{"../../evil.png", "evil.png"},
		{"..\\..\\evil.png", "evil.png"},
		{"ümläut.gif", "_ml_ut.gif"},
		{"", "upload"},
		{"..", "upload"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, storage.SanitizeName(tt.input), "input %q", tt.input)
	}
}
