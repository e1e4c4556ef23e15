package apm

// emptyTraceProvider is the no-op fallback when tracing is disabled or the
// configured provider is unknown.
type emptyTraceProvider struct{}

// NewEmptyTraceProvider returns a TraceProvider that does nothing.
func NewEmptyTraceProvider() TraceProvider {
	return emptyTraceProvider{}
}

func (emptyTraceProvider) Stop() error {
	return nil
}
