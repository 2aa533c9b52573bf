package metrics

import "github.com/prometheus/client_golang/prometheus"

// QueueMetrics records counters for the queue lifecycle.
type QueueMetrics struct {
	tokensIssued     prometheus.Counter
	visitsFinished   prometheus.Counter
	visitsCancelled  prometheus.Counter
	slotFull         prometheus.Counter
	invalidOTP       prometheus.Counter
	issuanceConflict prometheus.Counter
}

// NewQueueMetrics registers the queue metrics on the provided registerer.
// A nil registerer yields a no-op instance, which keeps tests quiet.
func NewQueueMetrics(reg prometheus.Registerer) *QueueMetrics {
	if reg == nil {
		return &QueueMetrics{}
	}
	m := &QueueMetrics{
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "queue_tokens_issued_total",
			Help: "Tokens issued to applicants.",
		}),
		visitsFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "queue_visits_finished_total",
			Help: "Visits finished after OTP verification.",
		}),
		visitsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "queue_visits_cancelled_total",
			Help: "Tokens cancelled by applicants.",
		}),
		slotFull: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "queue_slot_full_rejections_total",
			Help: "Slot selections rejected because the slot was at capacity.",
		}),
		invalidOTP: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "queue_invalid_otp_attempts_total",
			Help: "OTP verifications that did not match the stored code.",
		}),
		issuanceConflict: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "queue_issuance_conflicts_total",
			Help: "Issuance races resolved by returning the winning token.",
		}),
	}
	reg.MustRegister(m.tokensIssued, m.visitsFinished, m.visitsCancelled, m.slotFull, m.invalidOTP, m.issuanceConflict)
	return m
}

func (m *QueueMetrics) IncTokensIssued() {
	if m == nil || m.tokensIssued == nil {
		return
	}
	m.tokensIssued.Inc()
}

func (m *QueueMetrics) IncVisitsFinished() {
	if m == nil || m.visitsFinished == nil {
		return
	}
	m.visitsFinished.Inc()
}

func (m *QueueMetrics) IncVisitsCancelled() {
	if m == nil || m.visitsCancelled == nil {
		return
	}
	m.visitsCancelled.Inc()
}

func (m *QueueMetrics) IncSlotFull() {
	if m == nil || m.slotFull == nil {
		return
	}
	m.slotFull.Inc()
}

func (m *QueueMetrics) IncInvalidOTP() {
	if m == nil || m.invalidOTP == nil {
		return
	}
	m.invalidOTP.Inc()
}

func (m *QueueMetrics) IncIssuanceConflict() {
	if m == nil || m.issuanceConflict == nil {
		return
	}
	m.issuanceConflict.Inc()
}
