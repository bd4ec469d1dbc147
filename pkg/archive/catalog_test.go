package archive

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseVersion(t *testing.T) {
	tests := []struct {
		version string
		base    string
	}{
		{"1.0-2", "1.0"},
		{"1.0", "1.0"},
		{"0.9", "0.9"},
		{"2.1.3-rc1-4", "2.1.3-rc1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.base, BaseVersion(tt.version), tt.version)
	}
}

func TestCatalogAdd(t *testing.T) {
	c := NewCatalog()
	c.Add("1.0-2")
	c.Add("1.0-1")
	c.Add("1.0-1") // duplicates collapse
	c.Add("0.9")

	require.Contains(t, c.Bases, "1.0")
	assert.Equal(t, []string{"1.0-1", "1.0-2"}, c.Bases["1.0"].Versions)
	assert.Equal(t, []string{"0.9"}, c.Bases["0.9"].Versions)
	assert.Equal(t, []string{"0.9", "1.0-1", "1.0-2"}, c.AllVersions())
}

func TestCatalogJSONRoundTrip(t *testing.T) {
	c := NewCatalog()
	c.Add("1.0-1")
	c.Add("1.0-2")
	c.Add("0.9")
	c.Bases["1.0"].Latest = "1.0-2"
	c.Bases["0.9"].Latest = "0.9"
	c.Latest = "1.0"

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "1.0", flat["latest"])
	assert.Contains(t, flat, "1.0")
	assert.Contains(t, flat, "0.9")

	out := NewCatalog()
	require.NoError(t, json.Unmarshal(data, out))
	assert.Equal(t, c.Latest, out.Latest)
	assert.Equal(t, c.Bases["1.0"].Versions, out.Bases["1.0"].Versions)
	assert.Equal(t, "1.0-2", out.Bases["1.0"].Latest)
}

func TestCatalogMarshalStable(t *testing.T) {
	c := NewCatalog()
	c.Add("1.0-1")
	c.Add("0.9")
	c.Latest = "1.0"

	first, err := json.Marshal(c)
	require.NoError(t, err)
	second, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
