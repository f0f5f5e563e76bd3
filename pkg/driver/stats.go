package driver

import "time"

// Phase names one segment of a Driver run's wall-clock budget (spec §7
// "CPU time broken down by phase").
type Phase int

const (
	PhaseParse Phase = iota
	PhaseEnumerate
	PhaseSimulate
	PhaseDtpg
	PhaseSat
	PhaseBackTrace
	PhaseMisc
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseEnumerate:
		return "fault_enumeration"
	case PhaseSimulate:
		return "simulation"
	case PhaseDtpg:
		return "dtpg"
	case PhaseSat:
		return "sat"
	case PhaseBackTrace:
		return "back_trace"
	default:
		return "misc"
	}
}

// Stats aggregates per-phase CPU time and terminal fault-status counts
// across one Driver run (spec §7 "User-visible behavior"). It is passed by
// reference through every entry point rather than held as process-wide
// mutable state (spec §9 "Global state").
type Stats struct {
	phaseTime [phaseCount]time.Duration

	Detected    int
	Untestable  int
	Aborted     int
	Undetected  int
	PatternCount int

	DtpgAttempts int
}

// AddPhase accumulates d against phase. Safe to call repeatedly across many
// Handle/Simulator calls within the same phase.
func (s *Stats) AddPhase(phase Phase, d time.Duration) {
	s.phaseTime[phase] += d
}

// PhaseTime returns the accumulated duration for phase.
func (s *Stats) PhaseTime(phase Phase) time.Duration {
	return s.phaseTime[phase]
}

// TotalTime sums every phase's accumulated duration.
func (s *Stats) TotalTime() time.Duration {
	var total time.Duration
	for p := Phase(0); p < phaseCount; p++ {
		total += s.phaseTime[p]
	}
	return total
}

// TotalFaults returns the sum of every terminal bucket this Stats has
// recorded a fault into.
func (s *Stats) TotalFaults() int {
	return s.Detected + s.Untestable + s.Aborted + s.Undetected
}

// DetectionRate returns Detected / TotalFaults, guarding the zero
// denominator per spec §9's open question ("statistics averages... divide
// by counters that may be zero... an implementation must guard these
// divisions").
func (s *Stats) DetectionRate() float64 {
	total := s.TotalFaults()
	if total == 0 {
		return 0
	}
	return float64(s.Detected) / float64(total)
}

// MeanBackTraceTime returns PhaseBackTrace time divided by Detected,
// guarded against division by zero the same way.
func (s *Stats) MeanBackTraceTime() time.Duration {
	if s.Detected == 0 {
		return 0
	}
	return s.phaseTime[PhaseBackTrace] / time.Duration(s.Detected)
}

// Snapshot is a JSON-friendly rendering of Stats (spec §6 "Persisted
// state: None" — this is a point-in-time dump the CLI writes out on
// request, not engine state the driver itself reads back).
type Snapshot struct {
	PhaseSeconds map[string]float64 `json:"phase_seconds"`
	TotalSeconds float64            `json:"total_seconds"`

	Detected     int `json:"detected"`
	Untestable   int `json:"untestable"`
	Aborted      int `json:"aborted"`
	Undetected   int `json:"undetected"`
	PatternCount int `json:"pattern_count"`
	DtpgAttempts int `json:"dtpg_attempts"`

	DetectionRate        float64 `json:"detection_rate"`
	MeanBackTraceSeconds float64 `json:"mean_back_trace_seconds"`
}

// Snapshot renders s into a JSON-serializable value (cmd/atpgctl's
// `--stats-out` / `stats` subcommand).
func (s *Stats) Snapshot() Snapshot {
	phases := make(map[string]float64, phaseCount)
	for p := Phase(0); p < phaseCount; p++ {
		phases[p.String()] = s.phaseTime[p].Seconds()
	}
	return Snapshot{
		PhaseSeconds:         phases,
		TotalSeconds:         s.TotalTime().Seconds(),
		Detected:             s.Detected,
		Untestable:           s.Untestable,
		Aborted:              s.Aborted,
		Undetected:           s.Undetected,
		PatternCount:         s.PatternCount,
		DtpgAttempts:         s.DtpgAttempts,
		DetectionRate:        s.DetectionRate(),
		MeanBackTraceSeconds: s.MeanBackTraceTime().Seconds(),
	}
}

// recordOutcome folds one dtpg.Outcome's status into the terminal-status
// counters. Called unconditionally for every attempted SAT call regardless
// of outcome (spec §7 "Propagation policy").
func (s *Stats) recordOutcome(detected, untestable, aborted bool) {
	s.DtpgAttempts++
	switch {
	case detected:
		s.Detected++
	case untestable:
		s.Untestable++
	case aborted:
		s.Aborted++
	}
}
