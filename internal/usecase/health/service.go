package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot serve matches.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	model   ModelChecker
	history DBPinger
}

// New creates a Service. history can be nil.
func New(model ModelChecker, history DBPinger) *Service {
	return &Service{model: model, history: history}
}

// Check runs health checks against all components. A failing model check is
// fatal for the service; a failing history check only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	status := Healthy
	if err := s.model.Ready(ctx); err != nil {
		checks["model"] = CheckError
		status = Unhealthy
	} else {
		checks["model"] = CheckOK
	}

	if s.history != nil {
		if err := s.history.Ping(ctx); err != nil {
			checks["history"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["history"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
