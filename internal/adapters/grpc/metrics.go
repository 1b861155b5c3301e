package grpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reason encodings of the rpcExceptions counter.
const (
	encodingJSON   = "json"
	encodingPruned = "pruned"
)

var rpcExceptions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "errfilter",
		Name:      "rpc_exceptions_total",
		Help:      "RPC exceptions turned into failed results, by reason encoding.",
	},
	[]string{"encoding"},
)

func recordRPCException(encoding string) {
	rpcExceptions.WithLabelValues(encoding).Inc()
}
