package resolve

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"
)

// ProbeState is the outcome of checking one candidate on disk.
type ProbeState int

const (
	Missing ProbeState = iota
	Exists
	Failed
)

func (s ProbeState) String() string {
	switch s {
	case Exists:
		return "exists"
	case Missing:
		return "missing"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProbeResult carries the state of a probe and, for Failed, the I/O error.
type ProbeResult struct {
	State ProbeState
	Err   error
}

// Prober checks whether a path exists. Implementations must be safe for
// concurrent use and must not modify the filesystem.
type Prober interface {
	Probe(ctx context.Context, path string) ProbeResult
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, path string) ProbeResult

func (f ProberFunc) Probe(ctx context.Context, path string) ProbeResult {
	return f(ctx, path)
}

// StatProber probes with os.Stat. Directories never count as a match.
type StatProber struct{}

func (StatProber) Probe(_ context.Context, path string) ProbeResult {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ProbeResult{State: Missing}
		}
		return ProbeResult{State: Failed, Err: err}
	}
	if info.IsDir() {
		return ProbeResult{State: Missing}
	}
	return ProbeResult{State: Exists}
}

// Probe pairs a candidate with the result of probing it.
type Probe struct {
	Candidate
	State string `json:"state"`
	Error string `json:"error,omitempty"`

	result ProbeResult
}

// Report probes every candidate concurrently and returns the results in
// candidate order. All probes run to completion; there is no early exit.
func Report(ctx context.Context, prober Prober, candidates []Candidate) []Probe {
	if prober == nil {
		prober = StatProber{}
	}
	results := make([]ProbeResult, len(candidates))

	var g errgroup.Group
	for i, candidate := range candidates {
		i, candidate := i, candidate // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			results[i] = prober.Probe(ctx, candidate.Path)
			return nil
		})
	}
	// Probes never return errors; failures are folded into ProbeResult.
	_ = g.Wait()

	out := make([]Probe, len(candidates))
	for i, candidate := range candidates {
		res := results[i]
		probe := Probe{Candidate: candidate, State: res.State.String(), result: res}
		if res.Err != nil {
			probe.Error = res.Err.Error()
			slog.Debug("probe failed",
				slog.String("path", candidate.Path),
				slog.String("error", res.Err.Error()),
			)
		}
		out[i] = probe
	}
	return out
}

// FindFirstExisting returns the lowest-index candidate that exists. The
// answer depends only on candidate order, never on which probe finished
// first. Failed probes count as missing.
func FindFirstExisting(ctx context.Context, prober Prober, candidates []Candidate) (Candidate, bool) {
	for _, probe := range Report(ctx, prober, candidates) {
		if probe.result.State == Exists {
			slog.Debug("resolved candidate", slog.String("path", probe.Path))
			return probe.Candidate, true
		}
	}
	slog.Debug("no candidate exists", slog.Int("candidates", len(candidates)))
	return Candidate{}, false
}
