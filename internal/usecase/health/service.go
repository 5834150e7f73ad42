package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/patentcompass/internal/domain"
)

// Status is the aggregated health of the service.
type Status string

// CheckResult is the outcome of a single component probe.
type CheckResult string

const (
	Healthy  Status = "ok"
	Degraded Status = "degraded"

	CheckOK CheckResult = "ok"
	// CheckPending marks an index that will be built on the first query.
	CheckPending CheckResult = "pending"
	CheckError   CheckResult = "error"
)

const defaultProbeTimeout = 3 * time.Second

// Report aggregates probe results keyed by component name.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type probe struct {
	name string
	run  func(ctx context.Context) error
}

// Service runs the component probes behind GET /health.
type Service struct {
	probes  []probe
	timeout time.Duration
}

// New creates a Service. cache and embedding may be nil; nil components are
// left out of the report.
func New(index IndexChecker, cache CachePinger, embedding EmbeddingChecker) *Service {
	s := &Service{timeout: defaultProbeTimeout}
	s.probes = append(s.probes, probe{name: "index", run: index.HealthCheck})
	if cache != nil {
		s.probes = append(s.probes, probe{name: "cache", run: cache.Ping})
	}
	if embedding != nil {
		s.probes = append(s.probes, probe{name: "embedding", run: embedding.HealthCheck})
	}
	return s
}

// WithTimeout bounds every probe. Non-positive values are ignored.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check probes all components concurrently. A probe that exceeds the
// timeout counts as failed.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, len(s.probes))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range s.probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			res := classify(p.run(pctx))
			mu.Lock()
			checks[p.name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	for _, res := range checks {
		if res == CheckError {
			status = Degraded
		}
	}
	return Report{Status: status, Checks: checks}
}

func classify(err error) CheckResult {
	switch {
	case err == nil:
		return CheckOK
	case errors.Is(err, domain.ErrNotReady):
		return CheckPending
	default:
		return CheckError
	}
}
