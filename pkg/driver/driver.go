// Package driver is the orchestration layer: it owns the Network, FaultDB,
// and Simulator for one run, drives DTPG scope-by-scope and fault-by-fault,
// and threads every Outcome through a closed sink chain (spec §6 "Driver
// API", spec §9 "Operator-overload DetectOp / UntestOp chains").
package driver

import (
	"fmt"
	"time"

	"github.com/fyerfyer/atpg-engine/pkg/atpglog"
	"github.com/fyerfyer/atpg-engine/pkg/circuit"
	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/fyerfyer/atpg-engine/pkg/dtpg"
	"github.com/fyerfyer/atpg-engine/pkg/fault"
	"github.com/fyerfyer/atpg-engine/pkg/netio"
	"github.com/fyerfyer/atpg-engine/pkg/sat"
	"github.com/fyerfyer/atpg-engine/pkg/simulator"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
)

// Driver holds one run's Network, FaultDB, and Simulator, built up through
// the minimum surface spec §6 names (new_network, enumerate_faults,
// new_simulator, dtpg_ffr/dtpg_mffc).
type Driver struct {
	cfg config.Config
	log *atpglog.Logger

	net *circuit.Network
	db  *fault.FaultDB
	sim *simulator.Simulator

	Stats *Stats
}

// New returns a Driver configured by cfg, ready for NewNetwork.
func New(cfg config.Config, log *atpglog.Logger) *Driver {
	if log == nil {
		log = atpglog.Nop()
	}
	return &Driver{cfg: cfg, log: log, Stats: &Stats{}}
}

// NewNetwork builds the immutable Network from an already-parsed Netlist
// (spec §6 "new_network(parsed) -> Network").
func (d *Driver) NewNetwork(nl *netio.Netlist) error {
	start := time.Now()
	net, err := circuit.Build(nl)
	d.Stats.AddPhase(PhaseParse, time.Since(start))
	if err != nil {
		return fmt.Errorf("driver: build network: %w", err)
	}
	d.net = net
	return nil
}

// EnumerateFaults builds the FaultDB for the configured fault type (spec
// §6 "enumerate_faults(Network, fault_type) -> FaultDB").
func (d *Driver) EnumerateFaults() error {
	if d.net == nil {
		return fmt.Errorf("driver: EnumerateFaults called before NewNetwork")
	}
	start := time.Now()
	db, err := fault.Enumerate(d.net, d.cfg.FaultType)
	d.Stats.AddPhase(PhaseEnumerate, time.Since(start))
	if err != nil {
		return fmt.Errorf("driver: enumerate faults: %w", err)
	}
	d.db = db
	return nil
}

// NewSimulator builds the Simulator bound to the current Network and
// FaultDB (spec §6 "new_simulator(Network, fault_type) -> Simulator").
func (d *Driver) NewSimulator() error {
	if d.net == nil || d.db == nil {
		return fmt.Errorf("driver: NewSimulator called before NewNetwork/EnumerateFaults")
	}
	d.sim = simulator.New(d.net, d.db, d.cfg.FaultType, d.log.With("component", "simulator"))
	return nil
}

// Simulator exposes the driver-owned Simulator for direct PPSFP/SPPFP/
// SPSFP/CalcWSA calls.
func (d *Driver) Simulator() *simulator.Simulator { return d.sim }

// Network exposes the driver-owned Network.
func (d *Driver) Network() *circuit.Network { return d.net }

// FaultDB exposes the driver-owned FaultDB.
func (d *Driver) FaultDB() *fault.FaultDB { return d.db }

// DtpgFFR builds a dtpg.Handle scoped to FFR ffrID (spec §6
// "dtpg_ffr(Network, fault_type, ffr) -> Handle").
func (d *Driver) DtpgFFR(ffrID int) (*dtpg.Handle, error) {
	return dtpg.Encode(d.net, d.db, d.cfg.FaultType, config.ScopeFFR, ffrID)
}

// DtpgMFFC builds a dtpg.Handle scoped to MFFC mffcID.
func (d *Driver) DtpgMFFC(mffcID int) (*dtpg.Handle, error) {
	return dtpg.Encode(d.net, d.db, d.cfg.FaultType, config.ScopeMFFC, mffcID)
}

func (d *Driver) budget() sat.Budget {
	return sat.Budget{MaxConflicts: d.cfg.Sat.MaxConflicts, Timeout: d.cfg.Sat.Timeout}
}

// RunAll drives every representative, non-skipped fault through DTPG one
// FFR (or, in MFFC scope mode, one MFFC) at a time (spec §5 "Ordering
// guarantees": FFR-then-fault iteration),
// threading every Outcome through sinks, and finally counts whatever
// faults never reached a terminal status as Undetected. It returns the
// detected patterns, which sinks may also have collected independently via
// AppendToVectorList.
func (d *Driver) RunAll(sinks []Sink) ([]tv.Vector, error) {
	if d.net == nil || d.db == nil {
		return nil, fmt.Errorf("driver: RunAll called before NewNetwork/EnumerateFaults")
	}
	if d.sim == nil {
		if err := d.NewSimulator(); err != nil {
			return nil, err
		}
	}

	k := d.cfg.Dtpg.KPatterns
	if k < 1 {
		k = 1
	}

	var patterns []tv.Vector
	budget := d.budget()

	// Regions and the fault lists they attempt come from different
	// partitions depending on scope mode: an FFR's own Faults list in FFR
	// mode, versus the faults of every FFR an MFFC contains in MFFC mode
	// (MFFC itself carries no Faults list — it is a grouping of FFRs, spec
	// §4.1/§4.5 "two encoding scopes").
	ffrs := d.net.FFRs()
	type region struct {
		id     int
		faults []int
	}
	var regions []region
	switch d.cfg.Dtpg.ScopeMode {
	case config.ScopeMFFC:
		for _, m := range d.net.MFFCs() {
			var faults []int
			for _, fid := range m.FFRs {
				faults = append(faults, ffrs[fid].Faults...)
			}
			regions = append(regions, region{id: m.ID, faults: faults})
		}
	default:
		for _, ffr := range ffrs {
			regions = append(regions, region{id: ffr.ID, faults: ffr.Faults})
		}
	}

	for _, r := range regions {
		if len(r.faults) == 0 {
			continue
		}
		handle, err := dtpg.Encode(d.net, d.db, d.cfg.FaultType, d.cfg.Dtpg.ScopeMode, r.id)
		if err != nil {
			return nil, fmt.Errorf("driver: encode region %d: %w", r.id, err)
		}

		for _, faultID := range r.faults {
			if d.db.Skip(faultID) {
				continue
			}

			start := time.Now()
			var outcomes []dtpg.Outcome
			if k > 1 {
				outcomes = handle.GenKPatterns(faultID, d.cfg.Dtpg.JustifierKind, budget, k)
			} else {
				outcomes = []dtpg.Outcome{handle.GenPattern(faultID, d.cfg.Dtpg.JustifierKind, budget)}
			}
			d.Stats.AddPhase(PhaseDtpg, time.Since(start))

			for _, outcome := range outcomes {
				status := applySinks(sinks, faultID, outcome, d.db, d.sim, d.log)
				d.Stats.recordOutcome(status == fault.Detected, status == fault.Untestable, status == fault.Aborted)
				if status == fault.Detected {
					patterns = append(patterns, outcome.Pattern)
					d.Stats.PatternCount++
				}
			}
		}

		d.Stats.AddPhase(PhaseSat, handle.Stats.TotalSolveTime)
	}

	for _, id := range d.db.Representatives() {
		if d.db.Status(id) == fault.Undetected {
			d.Stats.Undetected++
		}
	}

	return patterns, nil
}
