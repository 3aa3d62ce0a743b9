package core

import "strings"

// Recognized metadata keys. Every stored chunk carries exactly these four;
// absent values are stored as empty strings, never as missing keys, so
// filter comparisons are total.
const (
	MetaVersion = "version"
	MetaTags    = "tags"
	MetaSource  = "source"
	MetaPath    = "path"
)

// Metadata is the canonical metadata record attached to every chunk.
type Metadata map[string]string

// NewMetadata builds the canonical metadata record for a document.
// rawTags is the caller's comma-separated tag string; defaultSource is used
// when the caller declares no source ("upload" for files, "web" for URLs).
func NewMetadata(version, rawTags, source, defaultSource, path string) Metadata {
	if source == "" {
		source = defaultSource
	}
	return Metadata{
		MetaVersion: version,
		MetaTags:    JoinTags(NormalizeTags(rawTags)),
		MetaSource:  source,
		MetaPath:    path,
	}
}

// Version returns the stored version string, empty if none was declared.
func (m Metadata) Version() string { return m[MetaVersion] }

// Source returns the stored source string.
func (m Metadata) Source() string { return m[MetaSource] }

// Path returns the origin identifier the chunk came from.
func (m Metadata) Path() string { return m[MetaPath] }

// Tags returns the canonical comma-joined tag string.
func (m Metadata) Tags() string { return m[MetaTags] }

// TagSet returns the stored tags as a set. Duplicates in the canonical
// string collapse, which is why duplicate declared tags cannot change
// filtering outcomes.
func (m Metadata) TagSet() map[string]struct{} {
	return tagSet(m[MetaTags])
}

// Clone returns a copy of the record. Gateways clone before handing
// metadata to callers so retrieved items never alias stored state.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// NormalizeTags splits a raw comma-separated tag string, trims whitespace
// from each entry and drops empty entries. Insertion order is preserved and
// duplicates are kept; filtering is set-based so duplicates are harmless.
// Normalization is idempotent: normalizing canonical output changes nothing.
func NormalizeTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// JoinTags renders a tag list in the canonical comma-joined stored form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func tagSet(canonical string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tag := range strings.Split(canonical, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}
