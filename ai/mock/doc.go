// Package mock provides a test double for the ai.Embedder interface with
// deterministic default vectors and injectable function fields.
package mock
