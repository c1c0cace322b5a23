package metrics

import "github.com/prometheus/client_golang/prometheus"

// OutreachMetrics exposes counters/gauges for the outreach scheduling engine.
type OutreachMetrics struct {
	ticksTotal      *prometheus.CounterVec
	denialsTotal    *prometheus.CounterVec
	admissionsTotal prometheus.Counter
	fallbacksTotal  prometheus.Counter
	queueDepth      prometheus.Gauge
	activeSessions  prometheus.Gauge
	initiationTime  prometheus.Histogram
}

func NewOutreachMetrics(reg prometheus.Registerer) *OutreachMetrics {
	m := &OutreachMetrics{
		ticksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resolvepay",
			Subsystem: "outreach",
			Name:      "ticks_total",
			Help:      "Scheduling loop ticks by result",
		}, []string{"result"}),
		denialsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resolvepay",
			Subsystem: "outreach",
			Name:      "throttle_denials_total",
			Help:      "Contact candidates denied by the throttle, by reason",
		}, []string{"reason"}),
		admissionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resolvepay",
			Subsystem: "outreach",
			Name:      "admissions_total",
			Help:      "Sessions opened by the scheduling loop",
		}),
		fallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resolvepay",
			Subsystem: "outreach",
			Name:      "generator_fallbacks_total",
			Help:      "Opening messages that fell back to the template greeting",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "resolvepay",
			Subsystem: "outreach",
			Name:      "queue_depth",
			Help:      "Customers currently awaiting contact",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "resolvepay",
			Subsystem: "outreach",
			Name:      "active_sessions",
			Help:      "Conversations currently in flight",
		}),
		initiationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "resolvepay",
			Subsystem: "outreach",
			Name:      "initiation_seconds",
			Help:      "Latency of opening one session, generation included",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.ticksTotal, m.denialsTotal, m.admissionsTotal, m.fallbacksTotal,
		m.queueDepth, m.activeSessions, m.initiationTime,
	)
	return m
}

func (m *OutreachMetrics) ObserveTick(result string) {
	if m == nil {
		return
	}
	m.ticksTotal.WithLabelValues(result).Inc()
}

func (m *OutreachMetrics) ObserveDenial(reason string) {
	if m == nil {
		return
	}
	m.denialsTotal.WithLabelValues(reason).Inc()
}

func (m *OutreachMetrics) ObserveAdmission() {
	if m == nil {
		return
	}
	m.admissionsTotal.Inc()
}

func (m *OutreachMetrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.fallbacksTotal.Inc()
}

func (m *OutreachMetrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

func (m *OutreachMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *OutreachMetrics) ObserveInitiation(seconds float64) {
	if m == nil {
		return
	}
	m.initiationTime.Observe(seconds)
}
