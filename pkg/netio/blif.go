package netio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadBLIF parses the subset of BLIF this engine needs to drive DTPG:
// .model, .inputs, .outputs, .latch, .names (with a truth-table cover
// decomposed into a Complex gate per spec §4.1 step 2), and .end.
func ReadBLIF(path string) (*Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("netio: open %s: %w", path, err)
	}
	defer f.Close()

	nl := &Netlist{}
	gateCount := 0

	lines, err := joinContinuations(f)
	if err != nil {
		return nil, fmt.Errorf("netio: read %s: %w", path, err)
	}

	var i int
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		i++
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case ".model":
			if len(fields) > 1 {
				nl.Name = fields[1]
			}
		case ".inputs":
			nl.Inputs = append(nl.Inputs, fields[1:]...)
		case ".outputs":
			nl.Outputs = append(nl.Outputs, fields[1:]...)
		case ".latch":
			// .latch <input> <output> [type clock] [init-val]
			if len(fields) < 3 {
				return nil, fmt.Errorf("netio: malformed .latch line %q", line)
			}
			d, q := fields[1], fields[2]
			clock := ""
			if len(fields) >= 5 {
				clock = fields[4]
			}
			nl.DFFs = append(nl.DFFs, DFFDef{
				Name:  "dff" + strconv.Itoa(len(nl.DFFs)),
				D:     d,
				Q:     q,
				Clock: clock,
			})
		case ".names":
			if len(fields) < 2 {
				return nil, fmt.Errorf("netio: malformed .names line %q", line)
			}
			names := fields[1:]
			output := names[len(names)-1]
			inputs := names[:len(names)-1]

			var cover []string
			for i < len(lines) {
				next := strings.TrimSpace(lines[i])
				if next == "" || strings.HasPrefix(next, ".") {
					break
				}
				cover = append(cover, next)
				i++
			}

			kind := KindComplex
			if len(inputs) == 0 {
				// A constant .names with no inputs is unsupported: reject
				// the netlist.
				return nil, fmt.Errorf("netio: constant .names unsupported for %q", output)
			}
			nl.Gates = append(nl.Gates, GateDef{
				Name:   fmt.Sprintf("g%d", gateCount),
				Kind:   kind,
				Output: output,
				Inputs: inputs,
				Cover:  cover,
			})
			gateCount++
		case ".end":
			return nl, nil
		default:
			// Ignore directives this engine doesn't need (.clock, .exdc, ...).
		}
	}

	return nl, nil
}

// joinContinuations reads all lines of f, splicing a trailing "\" onto the
// following line as BLIF's line-continuation syntax requires.
func joinContinuations(f *os.File) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(f)
	var pending string
	for sc.Scan() {
		line := sc.Text()
		if strings.HasSuffix(strings.TrimRight(line, " \t"), "\\") {
			trimmed := strings.TrimRight(line, " \t")
			pending += strings.TrimSuffix(trimmed, "\\") + " "
			continue
		}
		out = append(out, pending+line)
		pending = ""
	}
	if pending != "" {
		out = append(out, pending)
	}
	return out, sc.Err()
}
