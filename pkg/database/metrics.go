package database

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationDuration tracks the latency of DynamoDB calls.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dynamodb_operation_duration_seconds",
			Help:    "Duration of DynamoDB operations in seconds",
			Buckets: []float64{.002, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"table", "operation"},
	)

	// OperationErrors counts failed DynamoDB calls.
	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dynamodb_operation_errors_total",
			Help: "Total number of failed DynamoDB operations",
		},
		[]string{"table", "operation"},
	)

	// ConsumedCapacity accumulates the capacity units reported by DynamoDB.
	ConsumedCapacity = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dynamodb_consumed_capacity_units_total",
			Help: "Total capacity units consumed by DynamoDB operations",
		},
		[]string{"table", "operation"},
	)
)

// RecordConsumedCapacity adds the capacity reported on a response. A nil
// value (ReturnConsumedCapacity not requested) is ignored.
func RecordConsumedCapacity(table, operation string, cc *types.ConsumedCapacity) {
	if cc == nil || cc.CapacityUnits == nil {
		return
	}
	ConsumedCapacity.WithLabelValues(table, operation).Add(*cc.CapacityUnits)
}
