package seek

import "time"

// QueryMonitor observes the query cycle. All callbacks except LockAcquired
// run with the engine lock held and must not start queries of their own.
type QueryMonitor interface {
	LockAcquired(fingerprint uint64, wait time.Duration)
	Start(fingerprint uint64, offset, count uint32)
	AfterExecute(resultCount uint32)
	ItemSkipped(index uint32, reason error)
	MetadataUnavailable(index uint32, path string, kind Metadata, err error)
	Finish(items []Item, elapsed time.Duration, err error)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) LockAcquired(_ uint64, _ time.Duration)                      {}
func (n *noopMonitor) Start(_ uint64, _, _ uint32)                                 {}
func (n *noopMonitor) AfterExecute(_ uint32)                                       {}
func (n *noopMonitor) ItemSkipped(_ uint32, _ error)                               {}
func (n *noopMonitor) MetadataUnavailable(_ uint32, _ string, _ Metadata, _ error) {}
func (n *noopMonitor) Finish(_ []Item, _ time.Duration, _ error)                   {}
