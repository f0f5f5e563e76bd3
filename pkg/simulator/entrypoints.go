package simulator

import (
	"fmt"

	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
)

// Ppsfp ("parallel-pattern, single-fault-propagation") runs one batch of up
// to pval.W patterns, previously loaded with SetPattern, against every
// non-skipped fault (spec §4.4 "entry points").
func (s *Simulator) Ppsfp() []Detection {
	return s.simulate(func(id int) bool { return !s.db.Skip(id) })
}

// Sppfp ("single-pattern, parallel-fault") loads one TestVector into slot 0
// and returns the IDs of every non-skipped fault it detects.
func (s *Simulator) Sppfp(pattern tv.Vector) ([]int, error) {
	s.ClearPatterns()
	if err := s.SetPattern(0, pattern); err != nil {
		return nil, err
	}
	dets := s.simulate(func(id int) bool { return !s.db.Skip(id) })
	var out []int
	for _, d := range dets {
		if d.Mask&1 != 0 {
			out = append(out, d.Fault)
		}
	}
	return out, nil
}

// Spsfp ("single-pattern, single-fault") reports whether pattern detects
// faultID, regardless of its skip flag.
func (s *Simulator) Spsfp(pattern tv.Vector, faultID int) (bool, error) {
	s.ClearPatterns()
	if err := s.SetPattern(0, pattern); err != nil {
		return false, err
	}
	dets := s.simulate(func(id int) bool { return id == faultID })
	for _, d := range dets {
		if d.Fault == faultID {
			return d.Mask&1 != 0, nil
		}
	}
	return false, nil
}

// CalcWSA counts the weighted switching activity of pattern's frame-1 to
// frame-2 transition: the number of nodes whose good value changed,
// optionally weighted by (fanout count + 1) (spec §4.4 "CalcWSA", grounded
// on the original engine's per-node toggle-count power proxy). It is only
// meaningful in transition-delay mode.
func (s *Simulator) CalcWSA(pattern tv.Vector, weighted bool) (int, error) {
	if s.faultType != config.TransitionDelay {
		return 0, fmt.Errorf("simulator: CalcWSA requires transition-delay mode")
	}
	s.ClearPatterns()
	if err := s.SetPattern(0, pattern); err != nil {
		return 0, err
	}
	s.simulateGood()

	total := 0
	for id := 0; id < s.net.NodeCount(); id++ {
		cur := s.nodes[id].val.Bit(0)
		prev := s.nodes[id].prev.Bit(0)
		if cur == -1 || prev == -1 || cur == prev {
			continue
		}
		w := 1
		if weighted {
			w = len(s.net.NodeByID(id).Fanout) + 1
		}
		total += w
	}
	return total, nil
}
