package challenge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Issued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sphinx_challenges_issued",
		Help: "The number of challenges issued",
	}, []string{"mode"})

	Validated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sphinx_challenges_validated",
		Help: "The number of verification attempts by outcome (pass, fail, missing)",
	}, []string{"result"})

	TimeTaken = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sphinx_time_taken",
		Help:    "The time between issuing a challenge and it being solved (seconds)",
		Buckets: prometheus.ExponentialBucketsRange(1, 600, 12),
	}, []string{"mode"})

	RenderTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sphinx_render_time",
		Help:    "The time taken to render a challenge image (seconds)",
		Buckets: prometheus.ExponentialBucketsRange(0.0005, 1, 12),
	}, []string{"mode"})
)
