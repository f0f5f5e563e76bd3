package netio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Regular expressions for the ISCAS89 bench format, carried over from the
// teacher's pkg/utils/parser.go (which built a Circuit directly; here a
// single scan over the lines with these four regexes produces a Netlist).
var (
	benchInputRegex  = regexp.MustCompile(`^INPUT\((\w+)\)$`)
	benchOutputRegex = regexp.MustCompile(`^OUTPUT\((\w+)\)$`)
	benchGateRegex   = regexp.MustCompile(`^(\w+)\s*=\s*(\w+)\((.+)\)$`)
	benchDFFRegex    = regexp.MustCompile(`^(\w+)\s*=\s*DFF\((\w+)\)$`)
)

// ReadBench parses a circuit description in ISCAS89 bench format.
func ReadBench(path string) (*Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("netio: open %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	nl := &Netlist{Name: name}

	gateCount := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case benchInputRegex.MatchString(line):
			m := benchInputRegex.FindStringSubmatch(line)
			nl.Inputs = append(nl.Inputs, m[1])

		case benchOutputRegex.MatchString(line):
			m := benchOutputRegex.FindStringSubmatch(line)
			nl.Outputs = append(nl.Outputs, m[1])

		case benchDFFRegex.MatchString(line):
			m := benchDFFRegex.FindStringSubmatch(line)
			qName, dName := m[1], m[2]
			nl.DFFs = append(nl.DFFs, DFFDef{
				Name: "dff" + strconv.Itoa(len(nl.DFFs)),
				D:    dName,
				Q:    qName,
			})

		case benchGateRegex.MatchString(line):
			m := benchGateRegex.FindStringSubmatch(line)
			outputName, kindName, inputsStr := m[1], strings.ToUpper(m[2]), m[3]
			inputs := splitTrim(inputsStr, ",")
			kind := GateKind(kindName)
			switch kind {
			case KindAnd, KindNand, KindOr, KindNor, KindXor, KindXnor, KindNot, KindBuf:
			default:
				return nil, fmt.Errorf("netio: unsupported bench gate kind %q on line %q", kindName, line)
			}
			nl.Gates = append(nl.Gates, GateDef{
				Name:   fmt.Sprintf("g%d", gateCount),
				Kind:   kind,
				Output: outputName,
				Inputs: inputs,
			})
			gateCount++

		default:
			return nil, fmt.Errorf("netio: unrecognized bench line %q", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("netio: read %s: %w", path, err)
	}

	return nl, nil
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
