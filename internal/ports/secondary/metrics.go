package secondary

// MetricsRecorder receives counters from the application services.
type MetricsRecorder interface {
	// ObserveTransition counts one recorded phase transition.
	ObserveTransition(from, to string)

	// ObserveRuleMutation counts a catalog write ("upsert" or "remove").
	ObserveRuleMutation(op string)

	// ObserveSnapshot counts one computed snapshot by tier.
	ObserveSnapshot(tier string)

	// ObserveNotification counts one escalation hand-off by tier and outcome.
	ObserveNotification(tier string, err error)
}
