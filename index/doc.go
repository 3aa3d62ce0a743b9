// Package index defines the vector store gateway boundary.
//
// The Gateway interface is the pipeline's only view of embedding and
// nearest-neighbor search. Any conforming implementation can be substituted
// without changing the ingestion or retrieval contracts: index/local embeds
// the store in-process over BadgerDB, index/chroma talks to a remote Chroma
// server, and index/mock is the test double.
package index
