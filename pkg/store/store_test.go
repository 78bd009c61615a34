package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/vigil/pkg/template"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.StoreRun("weather", "sunny")
	assert.NoError(t, err)
}

func TestMigrationsIdempotent(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.migrate())
}

func TestStoreAndGetMemory(t *testing.T) {
	s := openTestStore(t)

	runID, err := s.StoreRun("weather", "sunny and warm")
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	entry, err := s.Memory("weather", 0)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "sunny and warm", entry.Result)
	assert.Len(t, entry.Date, 10)
	assert.NotEmpty(t, entry.DateTime)
}

func TestMemory_Offset(t *testing.T) {
	s := openTestStore(t)
	for _, r := range []string{"first", "second", "third"} {
		_, err := s.StoreRun("weather", r)
		require.NoError(t, err)
	}

	latest, err := s.Memory("weather", 0)
	require.NoError(t, err)
	assert.Equal(t, "third", latest.Result)

	previous, err := s.Memory("weather", 1)
	require.NoError(t, err)
	assert.Equal(t, "second", previous.Result)

	oldest, err := s.Memory("weather", 2)
	require.NoError(t, err)
	assert.Equal(t, "first", oldest.Result)
}

func TestMemory_MissingIsNil(t *testing.T) {
	s := openTestStore(t)

	entry, err := s.Memory("nothing", 0)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestMemories_NewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	for _, r := range []string{"a", "b", "c"} {
		_, err := s.StoreRun("weather", r)
		require.NoError(t, err)
	}
	_, err := s.StoreRun("other", "unrelated")
	require.NoError(t, err)

	entries, err := s.Memories("weather", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Result)
	assert.Equal(t, "b", entries[1].Result)

	all, err := s.Memories("weather", 100)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemories_FeedTemplateRender(t *testing.T) {
	s := openTestStore(t)
	for _, r := range []string{"rainy", "sunny"} {
		_, err := s.StoreRun("weather", r)
		require.NoError(t, err)
	}

	memories, err := s.Memories("weather", 10)
	require.NoError(t, err)

	rc := template.NewContext(nil)
	rc.Memories = memories

	out, err := template.Render(context.Background(),
		"{% for m in memories %}{% m.result %} {% endfor %}", rc)
	require.NoError(t, err)
	assert.Equal(t, "sunny rainy ", out)
}

func TestSession_ChronologicalWithLimit(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.StoreMessage("email", "alice", "user", "hello"))
	require.NoError(t, s.StoreMessage("email", "alice", "assistant", "hi there"))
	require.NoError(t, s.StoreMessage("email", "alice", "user", "how are you?"))
	require.NoError(t, s.StoreMessage("email", "bob", "user", "unrelated"))

	messages, err := s.Session("email", "alice", 10)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "how are you?", messages[2].Content)

	// limit keeps the newest, still oldest-first
	capped, err := s.Session("email", "alice", 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)
	assert.Equal(t, "hi there", capped[0].Content)
	assert.Equal(t, "how are you?", capped[1].Content)
}

func TestSession_EmptyForUnknownSender(t *testing.T) {
	s := openTestStore(t)

	messages, err := s.Session("email", "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
