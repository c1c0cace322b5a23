package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *OutreachMetrics
	assert.NotPanics(t, func() {
		m.ObserveTick("ok")
		m.ObserveDenial("contact-cap-reached")
		m.ObserveAdmission()
		m.ObserveFallback()
		m.SetQueueDepth(3)
		m.SetActiveSessions(1)
		m.ObserveInitiation(0.25)
	})
}

func TestMetricsRegisterAndObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutreachMetrics(reg)

	m.ObserveTick("ok")
	m.ObserveTick("ok")
	m.ObserveTick("quiet-hours")
	m.ObserveDenial("min-gap-not-elapsed")
	m.ObserveAdmission()
	m.ObserveFallback()
	m.SetQueueDepth(7)
	m.SetActiveSessions(2)
	m.ObserveInitiation(0.1)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ticksTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ticksTotal.WithLabelValues("quiet-hours")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.denialsTotal.WithLabelValues("min-gap-not-elapsed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.admissionsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.fallbacksTotal))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.queueDepth))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.activeSessions))

	families, err := reg.Gather()
	assert.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	for _, want := range []string{
		"resolvepay_outreach_ticks_total",
		"resolvepay_outreach_throttle_denials_total",
		"resolvepay_outreach_admissions_total",
		"resolvepay_outreach_generator_fallbacks_total",
		"resolvepay_outreach_queue_depth",
		"resolvepay_outreach_active_sessions",
		"resolvepay_outreach_initiation_seconds",
	} {
		assert.True(t, names[want], "missing metric family %s", want)
	}
}
