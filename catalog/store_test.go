package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/campfinder/core"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "initiatives.json"))
	require.NoError(t, err)
	return store
}

func TestNewStore(t *testing.T) {
	t.Run("valid path", func(t *testing.T) {
		store, err := NewStore("initiatives.json")
		require.NoError(t, err)
		assert.NotNil(t, store)
		assert.Equal(t, "initiatives.json", store.Path())
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewStore("")
		assert.Equal(t, ErrPathRequired, err)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		store, err := NewStore("initiatives.json", WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, store)
	})
}

func TestStore_Load_MissingFile(t *testing.T) {
	store := testStore(t)

	initiatives := store.Load()
	assert.Empty(t, initiatives)
}

func TestStore_Load_CorruptFile(t *testing.T) {
	store := testStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	initiatives := store.Load()
	assert.Empty(t, initiatives)
}

func TestStore_Load_QuarantinesMalformedRecords(t *testing.T) {
	store := testStore(t)

	raw := `{"initiatives": [
		{"title": "Valid", "campfire_id": "CF-1", "description": "desc one"},
		{"title": "No Id", "campfire_id": "", "description": "desc two"},
		{"title": "No Description", "campfire_id": "CF-3", "description": ""},
		{"title": "Duplicate", "campfire_id": "CF-1", "description": "desc again"}
	]}`
	require.NoError(t, os.WriteFile(store.Path(), []byte(raw), 0o644))

	initiatives := store.Load()
	require.Len(t, initiatives, 1)
	assert.Equal(t, "CF-1", initiatives[0].CampfireId)
	assert.Equal(t, "Valid", initiatives[0].Title)
}

func TestStore_SaveAndLoad_RoundTrip(t *testing.T) {
	store := testStore(t)

	initiatives := []*core.Initiative{
		{
			Title:       "Green Fleet",
			Owner:       "Logistics",
			CampfireId:  "CF-001",
			Description: "electrify the delivery fleet",
			Link:        "https://example.com/green-fleet",
			Maturity:    "Pilot",
			Embedding:   []float32{0.25, 0.5, 0.75},
		},
		{
			Title:       "Paper Trails",
			Owner:       "Operations",
			CampfireId:  "CF-002",
			Description: "replace plastic fillers with paper",
			Maturity:    "Idea",
		},
	}

	require.NoError(t, store.Save(initiatives))

	loaded := store.Load()
	require.Len(t, loaded, 2)
	assert.Equal(t, initiatives[0], loaded[0])
	assert.Equal(t, initiatives[1], loaded[1])

	// Re-saving the loaded catalog must reproduce the same document.
	first, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.NoError(t, store.Save(loaded))
	second, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStore_Save_EmptyCatalog(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Save(nil))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, `[]`, string(doc["initiatives"]))
}

func TestStore_Fingerprint(t *testing.T) {
	store := testStore(t)

	t.Run("missing file", func(t *testing.T) {
		fp, err := store.Fingerprint()
		require.NoError(t, err)
		assert.Empty(t, fp)
	})

	t.Run("stable for identical contents", func(t *testing.T) {
		require.NoError(t, store.Save([]*core.Initiative{
			{CampfireId: "CF-1", Description: "desc"},
		}))

		fp1, err := store.Fingerprint()
		require.NoError(t, err)
		require.NotEmpty(t, fp1)

		fp2, err := store.Fingerprint()
		require.NoError(t, err)
		assert.Equal(t, fp1, fp2)
	})

	t.Run("changes when contents change", func(t *testing.T) {
		fp1, err := store.Fingerprint()
		require.NoError(t, err)

		require.NoError(t, store.Save([]*core.Initiative{
			{CampfireId: "CF-2", Description: "other"},
		}))

		fp2, err := store.Fingerprint()
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp2)
	})
}
