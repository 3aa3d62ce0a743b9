package search

import "github.com/poiesic/passage/core"

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results during retrieval.
type Monitor interface {
	Start(question string)
	AfterCandidates(candidates []core.RetrievedItem)
	Finish(results []core.RetrievedItem)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) AfterCandidates(_ []core.RetrievedItem)   {}
func (n *noopMonitor) Finish(_ []core.RetrievedItem)            {}
