package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryFilter_Matches(t *testing.T) {
	stored := NewMetadata("v1", "api,guide", "upload", "upload", "doc.txt")

	tests := []struct {
		name   string
		filter *QueryFilter
		want   bool
	}{
		{
			name:   "nil filter matches everything",
			filter: nil,
			want:   true,
		},
		{
			name:   "empty filter matches everything",
			filter: &QueryFilter{},
			want:   true,
		},
		{
			name:   "version match",
			filter: &QueryFilter{Version: "v1"},
			want:   true,
		},
		{
			name:   "version mismatch",
			filter: &QueryFilter{Version: "v2"},
			want:   false,
		},
		{
			name:   "source match",
			filter: &QueryFilter{Source: "upload"},
			want:   true,
		},
		{
			name:   "source mismatch",
			filter: &QueryFilter{Source: "web"},
			want:   false,
		},
		{
			name:   "tag subset of stored superset",
			filter: &QueryFilter{Tags: []string{"api"}},
			want:   true,
		},
		{
			name:   "all requested tags stored",
			filter: &QueryFilter{Tags: []string{"api", "guide"}},
			want:   true,
		},
		{
			name:   "requested tag missing",
			filter: &QueryFilter{Tags: []string{"api", "internal"}},
			want:   false,
		},
		{
			name:   "all filters active and passing",
			filter: &QueryFilter{Version: "v1", Source: "upload", Tags: []string{"guide"}},
			want:   true,
		},
		{
			name:   "one active filter failing rejects",
			filter: &QueryFilter{Version: "v1", Source: "web", Tags: []string{"guide"}},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(stored))
		})
	}
}

func TestQueryFilter_MatchesEmptyMetadata(t *testing.T) {
	// Absent values are empty strings, so comparisons stay total.
	stored := NewMetadata("", "", "", "web", "https://example.com")

	assert.True(t, (&QueryFilter{}).Matches(stored))
	assert.False(t, (&QueryFilter{Version: "v1"}).Matches(stored))
	assert.False(t, (&QueryFilter{Tags: []string{"api"}}).Matches(stored))
}
