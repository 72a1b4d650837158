package metrics

import (
	"sync"

	"github.com/mchmarny/planscore/pkg/score"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "planscore"

// PrometheusRecorder reports score cache activity as Prometheus counters.
type PrometheusRecorder struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
}

var _ score.Recorder = (*PrometheusRecorder)(nil)

// NewPrometheus creates a recorder registered with reg, or with the default
// registerer when reg is nil.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &PrometheusRecorder{reg: reg, namespace: namespace}
}

func (p *PrometheusRecorder) ensureRegistered() {
	p.once.Do(func() {
		p.hits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Score cache hits by stage.",
		}, []string{"stage"})

		p.misses = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Score cache misses by stage.",
		}, []string{"stage"})

		p.reg.MustRegister(p.hits, p.misses)
	})
}

func (p *PrometheusRecorder) CacheHit(stage string) {
	p.ensureRegistered()
	p.hits.WithLabelValues(stage).Inc()
}

func (p *PrometheusRecorder) CacheMiss(stage string) {
	p.ensureRegistered()
	p.misses.WithLabelValues(stage).Inc()
}
