package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhubert/taskflow/internal/kv"
	"github.com/zhubert/taskflow/internal/task"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, "x")
	assert.Error(t, err)

	_, err = New(task.NewStore(kv.NewMemory()), "")
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnExternalWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storage, err := kv.NewFile(dir)
	require.NoError(t, err)
	defer storage.Close()

	store, err := task.Open(storage)
	require.NoError(t, err)

	changes := make(chan []task.Task, 4)
	w, err := New(store, storage.Path(task.DefaultKey),
		WithDebounce(20*time.Millisecond),
		OnChange(func(tasks []task.Task) { changes <- tasks }),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	// Another process writes the snapshot.
	other, err := task.Open(storage)
	require.NoError(t, err)
	_, _, err = other.Add("from elsewhere")
	require.NoError(t, err)

	select {
	case tasks := <-changes:
		require.Len(t, tasks, 1)
		assert.Equal(t, "from elsewhere", tasks[0].Text)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	assert.Equal(t, 1, store.Len())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storage, err := kv.NewFile(dir)
	require.NoError(t, err)
	defer storage.Close()

	store, err := task.Open(storage)
	require.NoError(t, err)

	changes := make(chan []task.Task, 4)
	w, err := New(store, storage.Path(task.DefaultKey),
		WithDebounce(10*time.Millisecond),
		OnChange(func(tasks []task.Task) { changes <- tasks }),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))

	select {
	case <-changes:
		t.Fatal("unexpected reload for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	w, err := New(task.NewStore(kv.NewMemory()), filepath.Join(t.TempDir(), "todos-v2.json"))
	require.NoError(t, err)
	require.NoError(t, w.Start())

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
