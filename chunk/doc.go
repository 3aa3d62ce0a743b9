// Package chunk splits document text into overlapping passages.
//
// Passages are the unit of embedding and retrieval. The Splitter produces
// fixed-size windows that advance by size minus overlap, so neighboring
// passages share an exact overlap region and no text is lost at window
// boundaries. Window units come from a pluggable Tokenizer: runes by
// default, BPE tokens when a tiktoken encoding is configured.
package chunk
