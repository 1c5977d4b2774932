package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAcceptsBoolAndNumericBits(t *testing.T) {
	data := []byte(`{
		"name": "mini",
		"records": [
			{"syllable": "ka", "features": [0, 0, 1, 0], "frequency": 10},
			{"syllable": "pa", "features": [true, false, true, false], "frequency": 3}
		]
	}`)

	c, doc, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, "mini", doc.Name)
	require.Equal(t, 2, c.Len())
	require.Equal(t, 4, c.FeatureWidth())

	ka, ok := c.Get("ka")
	require.True(t, ok)
	require.Equal(t, []bool{false, false, true, false}, ka.Features)

	pa, ok := c.Get("pa")
	require.True(t, ok)
	require.Equal(t, []bool{true, false, true, false}, pa.Features)
}

func TestParseRejectsBadBitValues(t *testing.T) {
	_, _, err := Parse([]byte(`{"records": [{"syllable": "ka", "features": [2], "frequency": 1}]}`))
	require.Error(t, err)

	_, _, err = Parse([]byte(`{"records": [{"syllable": "ka", "features": ["x"], "frequency": 1}]}`))
	require.Error(t, err)
}

func TestParseRejectsInvalidCorpus(t *testing.T) {
	_, _, err := Parse([]byte(`{"records": []}`))
	require.ErrorIs(t, err, ErrEmpty)

	_, _, err = Parse([]byte(`{"records": [
		{"syllable": "ka", "features": [0, 1], "frequency": 1},
		{"syllable": "pa", "features": [0], "frequency": 1}
	]}`))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	payload := `{"records": [{"syllable": "mo", "features": [1, 1, 0], "frequency": 7}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	c, _, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	_, _, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
