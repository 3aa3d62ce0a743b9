package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "simple list",
			raw:  "guide,api",
			want: []string{"guide", "api"},
		},
		{
			name: "whitespace trimmed, duplicates kept, empties dropped",
			raw:  "a, b ,b",
			want: []string{"a", "b", "b"},
		},
		{
			name: "empty entries only",
			raw:  " , ,",
			want: nil,
		},
		{
			name: "empty string",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.raw))
		})
	}
}

func TestNormalizeTags_Idempotent(t *testing.T) {
	once := JoinTags(NormalizeTags("a, b ,b"))
	twice := JoinTags(NormalizeTags(once))
	assert.Equal(t, once, twice)
	assert.Equal(t, "a,b,b", once)
}

func TestNewMetadata_Defaults(t *testing.T) {
	m := NewMetadata("", "", "", "upload", "notes.txt")

	// All four keys present even when values are absent.
	require.NoError(t, ValidateMetadata(m))
	assert.Equal(t, "", m.Version())
	assert.Equal(t, "", m.Tags())
	assert.Equal(t, "upload", m.Source())
	assert.Equal(t, "notes.txt", m.Path())
}

func TestNewMetadata_DeclaredSourceWins(t *testing.T) {
	m := NewMetadata("v1", "guide, api", "confluence", "web", "https://example.com")
	assert.Equal(t, "confluence", m.Source())
	assert.Equal(t, "guide,api", m.Tags())
}

func TestMetadata_TagSet(t *testing.T) {
	m := NewMetadata("", "a, b ,b", "", "upload", "f")
	set := m.TagSet()
	assert.Len(t, set, 2)
	assert.Contains(t, set, "a")
	assert.Contains(t, set, "b")
}

func TestMetadata_Clone(t *testing.T) {
	m := NewMetadata("v1", "a", "", "upload", "f")
	clone := m.Clone()
	clone[MetaVersion] = "v2"
	assert.Equal(t, "v1", m.Version())
}
