package outbound

// MetricsRecorder counts subsystem outcomes
type MetricsRecorder interface {
	AuditWriteFailed(action, entityType string)
	RevertAttempted(entityType, outcome string)
	BulkItemProcessed(operation, outcome string)
}

type noopMetrics struct{}

// NoopMetrics discards everything
func NoopMetrics() MetricsRecorder { return noopMetrics{} }

func (noopMetrics) AuditWriteFailed(string, string)  {}
func (noopMetrics) RevertAttempted(string, string)   {}
func (noopMetrics) BulkItemProcessed(string, string) {}
