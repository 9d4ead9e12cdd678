package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SubmissionMetrics counts finished submissions by outcome code and times them.
type SubmissionMetrics struct {
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewSubmissionMetrics creates the collectors and registers them with reg.
func NewSubmissionMetrics(reg prometheus.Registerer) (*SubmissionMetrics, error) {
	m := &SubmissionMetrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_submissions_total",
				Help: "Total number of form submissions by outcome code.",
			},
			[]string{"code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_submission_duration_seconds",
				Help:    "Time spent validating and storing a submission.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"code"},
		),
	}

	for _, c := range []prometheus.Collector{m.submissions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveSubmission records one finished submission.
func (m *SubmissionMetrics) ObserveSubmission(code string, elapsed time.Duration) {
	m.submissions.WithLabelValues(code).Inc()
	m.duration.WithLabelValues(code).Observe(elapsed.Seconds())
}
