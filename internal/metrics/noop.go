package metrics

import "time"

// NoopMetricsProvider discards all measurements. Used in tests.
type NoopMetricsProvider struct{}

func NewNoopMetricsProvider() MetricsProvider {
	return &NoopMetricsProvider{}
}

func (n *NoopMetricsProvider) IncrementHTTPRequests(method, path, status string)                 {}
func (n *NoopMetricsProvider) RecordHTTPRequestDuration(method, path string, d time.Duration)   {}
func (n *NoopMetricsProvider) IncrementDatabaseQueries(queryType string, success bool)          {}
func (n *NoopMetricsProvider) RecordDatabaseQueryDuration(queryType string, d time.Duration)    {}
func (n *NoopMetricsProvider) IncrementPostOperations(operation string, success bool)           {}
func (n *NoopMetricsProvider) IncrementTagOperations(operation string, success bool)            {}
func (n *NoopMetricsProvider) IncrementCommentOperations(operation string, success bool)        {}
func (n *NoopMetricsProvider) IncrementLikeOperations(operation string, success bool)           {}
func (n *NoopMetricsProvider) SetServiceHealth(healthy bool)                                    {}
