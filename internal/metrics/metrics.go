package metrics

import "time"

type MetricsProvider interface {
	IncrementHTTPRequests(method, path, status string)
	RecordHTTPRequestDuration(method, path string, duration time.Duration)

	IncrementDatabaseQueries(queryType string, success bool)
	RecordDatabaseQueryDuration(queryType string, duration time.Duration)

	IncrementPostOperations(operation string, success bool)
	IncrementTagOperations(operation string, success bool)
	IncrementCommentOperations(operation string, success bool)
	IncrementLikeOperations(operation string, success bool)

	SetServiceHealth(healthy bool)
}
