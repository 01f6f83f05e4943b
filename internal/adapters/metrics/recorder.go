// Package metrics records engine activity as Prometheus counters.
//
// The CLI is short-lived, so metrics are not served over HTTP; instead the
// registry can be written to a node_exporter textfile after each command.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/casesla/internal/ports/secondary"
)

const namespace = "casesla"

// Recorder implements secondary.MetricsRecorder on a private registry.
type Recorder struct {
	registry      *prometheus.Registry
	transitions   *prometheus.CounterVec
	ruleMutations *prometheus.CounterVec
	snapshots     *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

var _ secondary.MetricsRecorder = (*Recorder)(nil)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_transitions_total",
			Help:      "Phase transitions applied to cases.",
		}, []string{"from", "to"}),
		ruleMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_mutations_total",
			Help:      "SLA rule catalog writes by operation.",
		}, []string{"op"}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Case snapshots computed, by SLA tier.",
		}, []string{"tier"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalation_notifications_total",
			Help:      "Escalation notifications handed to the notifier, by tier and result.",
		}, []string{"tier", "result"}),
	}

	r.registry.MustRegister(r.transitions, r.ruleMutations, r.snapshots, r.notifications)
	return r
}

// ObserveTransition counts one phase transition. Registrations use from="".
func (r *Recorder) ObserveTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

// ObserveRuleMutation counts one catalog write.
func (r *Recorder) ObserveRuleMutation(op string) {
	r.ruleMutations.WithLabelValues(op).Inc()
}

// ObserveSnapshot counts one computed snapshot.
func (r *Recorder) ObserveSnapshot(tier string) {
	r.snapshots.WithLabelValues(tier).Inc()
}

// ObserveNotification counts one notifier call.
func (r *Recorder) ObserveNotification(tier string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.notifications.WithLabelValues(tier, result).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metric values in text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
