package sim

// Run executes the full pipeline for one analysis action: validate the
// config, fold the forecast through the battery ledger, aggregate, and
// attach recommendations. It either returns a complete result or an error
// before producing any output; there are no partial-day results.
func Run(days []ForecastDay, cfg SystemConfig) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	derived, err := Simulate(days, cfg)
	if err != nil {
		return nil, err
	}

	summary := Aggregate(days, derived, cfg)

	return &RunResult{
		Config:         cfg,
		Days:           days,
		Derived:        derived,
		Summary:        summary,
		Recommendation: Select(summary),
		Advice:         Advise(summary),
	}, nil
}
