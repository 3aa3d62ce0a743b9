package core

import (
	"testing"
)

func TestChunkKey(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		index int
		text  string
	}{
		{name: "basic chunk", path: "docs/guide.txt", index: 0, text: "hello"},
		{name: "empty text", path: "docs/guide.txt", index: 1, text: ""},
		{name: "url path", path: "https://example.com/page", index: 3, text: "body text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k1 := ChunkKey(tt.path, tt.index, tt.text)
			k2 := ChunkKey(tt.path, tt.index, tt.text)
			if k1 != k2 {
				t.Errorf("ChunkKey() not deterministic: %s vs %s", k1, k2)
			}
			if k1 == "" {
				t.Error("ChunkKey() returned empty key")
			}
		})
	}
}

func TestChunkKey_Distinct(t *testing.T) {
	base := ChunkKey("a.txt", 0, "text")

	if ChunkKey("b.txt", 0, "text") == base {
		t.Error("ChunkKey() ignored path")
	}
	if ChunkKey("a.txt", 1, "text") == base {
		t.Error("ChunkKey() ignored index")
	}
	if ChunkKey("a.txt", 0, "other") == base {
		t.Error("ChunkKey() ignored text")
	}
}
