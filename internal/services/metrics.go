package services

import "github.com/prometheus/client_golang/prometheus"

// favoriteOps counts favorites operations by op (add|remove|toggle|list|count|check)
// and result (ok|not_found|duplicate|invalid|error).
var favoriteOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "favorites_operations_total",
		Help: "Total number of favorites operations by outcome.",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(favoriteOps)
}

func observe(op string, err error) {
	favoriteOps.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch err {
	case nil:
		return "ok"
	case ErrProductNotFound, ErrNotInFavorites:
		return "not_found"
	case ErrAlreadyFavorited:
		return "duplicate"
	case ErrInvalidProductID:
		return "invalid"
	default:
		return "error"
	}
}
