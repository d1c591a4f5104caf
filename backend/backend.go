// Package backend describes the device a comparison targets: its native
// instruction set, its connectivity, where its qubits sit on the chip, and
// the calibration data the default noise description is derived from.
package backend

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Edge is a directed pair of physical qubits.
type Edge [2]int

// QubitProperties holds the calibration of a single physical qubit.
type QubitProperties struct {
	T1           float64            // relaxation time in microseconds
	T2           float64            // dephasing time in microseconds
	ReadoutError float64            // probability of reporting the wrong outcome
	GateErrors   map[string]float64 // average single-qubit gate error by gate name
}

// GateProperties holds the calibration of a two-qubit gate on one edge.
type GateProperties struct {
	Gate     string
	Qubits   Edge
	Error    float64
	Duration float64 // nanoseconds
}

// Calibration is the most recent characterisation of the device.
type Calibration struct {
	Qubits         []QubitProperties
	TwoQubitGates  []GateProperties
	LastCalibrated string
}

// Backend is an immutable description of a device.
type Backend struct {
	Name        string
	NumQubits   int
	Target      map[string][]Edge // instruction -> allowed qubit tuples; nil allows every qubit
	CouplingMap []Edge
	Coordinates [][2]int // (row, column) of each qubit on the chip, may be empty
	Calibration Calibration
}

// Validate checks the internal consistency of the description.
func (b *Backend) Validate() error {
	if b.NumQubits <= 0 {
		return errors.Errorf("backend %q has %d qubits", b.Name, b.NumQubits)
	}
	for _, e := range b.CouplingMap {
		if !b.inRange(e[0]) || !b.inRange(e[1]) || e[0] == e[1] {
			return errors.Errorf("backend %q: invalid coupling edge %v", b.Name, e)
		}
	}
	if len(b.Coordinates) != 0 && len(b.Coordinates) != b.NumQubits {
		return errors.Errorf("backend %q: %d coordinates for %d qubits", b.Name, len(b.Coordinates), b.NumQubits)
	}
	if n := len(b.Calibration.Qubits); n != 0 && n != b.NumQubits {
		return errors.Errorf("backend %q: calibration covers %d of %d qubits", b.Name, n, b.NumQubits)
	}
	for _, g := range b.Calibration.TwoQubitGates {
		if !b.inRange(g.Qubits[0]) || !b.inRange(g.Qubits[1]) {
			return errors.Errorf("backend %q: calibration for %s on %v is out of range", b.Name, g.Gate, g.Qubits)
		}
	}
	return nil
}

func (b *Backend) inRange(q int) bool {
	return q >= 0 && q < b.NumQubits
}

// HasEdge reports whether (a, b) is a directed edge of the coupling map.
func (b *Backend) HasEdge(a, c int) bool {
	return slices.Contains(b.CouplingMap, Edge{a, c})
}

// Instructions returns the sorted instruction names of the target.
func (b *Backend) Instructions() []string {
	names := make([]string, 0, len(b.Target))
	for name := range b.Target {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Supports reports whether the target can run gate on the given qubits.
// Two-qubit gates without explicit qubit tuples must follow the coupling map.
func (b *Backend) Supports(gate string, qubits []int) bool {
	tuples, ok := b.Target[gate]
	if !ok {
		return false
	}
	for _, q := range qubits {
		if !b.inRange(q) {
			return false
		}
	}
	if len(tuples) > 0 {
		for _, t := range tuples {
			if len(qubits) == 1 && t[0] == qubits[0] {
				return true
			}
			if len(qubits) == 2 && t == (Edge{qubits[0], qubits[1]}) {
				return true
			}
		}
		return false
	}
	if len(qubits) == 2 {
		return b.HasEdge(qubits[0], qubits[1])
	}
	return true
}

// String implements fmt.Stringer.
func (b *Backend) String() string {
	return fmt.Sprintf("Backend(%s, %d qubits)", b.Name, b.NumQubits)
}

// backendFile is the YAML layout of a backend description.
type backendFile struct {
	Name        string           `yaml:"name"`
	NumQubits   int              `yaml:"num_qubits"`
	Target      map[string][][]int `yaml:"target"`
	CouplingMap [][]int          `yaml:"coupling_map"`
	Coordinates [][]int          `yaml:"coordinates"`
	Calibration struct {
		LastCalibrated string `yaml:"last_calibrated"`
		Qubits         []struct {
			T1           float64            `yaml:"t1"`
			T2           float64            `yaml:"t2"`
			ReadoutError float64            `yaml:"readout_error"`
			GateErrors   map[string]float64 `yaml:"gate_errors"`
		} `yaml:"qubits"`
		TwoQubitGates []struct {
			Gate     string  `yaml:"gate"`
			Qubits   []int   `yaml:"qubits"`
			Error    float64 `yaml:"error"`
			Duration float64 `yaml:"duration"`
		} `yaml:"two_qubit_gates"`
	} `yaml:"calibration"`
}

func toEdge(pair []int) (Edge, error) {
	if len(pair) != 2 {
		return Edge{}, errors.Errorf("expected a qubit pair, got %v", pair)
	}
	return Edge{pair[0], pair[1]}, nil
}

// Load reads a YAML backend description.
func Load(r io.Reader) (*Backend, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read backend")
	}
	var f backendFile
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return nil, errors.Wrap(err, "decode backend")
	}

	b := &Backend{
		Name:      f.Name,
		NumQubits: f.NumQubits,
		Target:    make(map[string][]Edge, len(f.Target)),
	}
	for name, tuples := range f.Target {
		var edges []Edge
		for _, t := range tuples {
			switch len(t) {
			case 1:
				edges = append(edges, Edge{t[0], -1})
			case 2:
				edges = append(edges, Edge{t[0], t[1]})
			default:
				return nil, errors.Errorf("target %s: unsupported qubit tuple %v", name, t)
			}
		}
		b.Target[name] = edges
	}
	for _, pair := range f.CouplingMap {
		e, err := toEdge(pair)
		if err != nil {
			return nil, errors.Wrap(err, "coupling map")
		}
		b.CouplingMap = append(b.CouplingMap, e)
	}
	for _, rc := range f.Coordinates {
		e, err := toEdge(rc)
		if err != nil {
			return nil, errors.Wrap(err, "coordinates")
		}
		b.Coordinates = append(b.Coordinates, [2]int(e))
	}
	b.Calibration.LastCalibrated = f.Calibration.LastCalibrated
	for _, q := range f.Calibration.Qubits {
		b.Calibration.Qubits = append(b.Calibration.Qubits, QubitProperties{
			T1:           q.T1,
			T2:           q.T2,
			ReadoutError: q.ReadoutError,
			GateErrors:   q.GateErrors,
		})
	}
	for _, g := range f.Calibration.TwoQubitGates {
		e, err := toEdge(g.Qubits)
		if err != nil {
			return nil, errors.Wrapf(err, "calibration of %s", g.Gate)
		}
		b.Calibration.TwoQubitGates = append(b.Calibration.TwoQubitGates, GateProperties{
			Gate: g.Gate, Qubits: e, Error: g.Error, Duration: g.Duration,
		})
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFile reads a YAML backend description from disk.
func LoadFile(path string) (*Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open backend")
	}
	defer f.Close()
	return Load(f)
}

// Resolve returns the fake backend called name, or loads name as a file.
func Resolve(name string) (*Backend, error) {
	if b, ok := Fake(name); ok {
		return b, nil
	}
	if _, err := os.Stat(name); err != nil {
		return nil, errors.Errorf("unknown backend %q: not a fake backend (%v) and not a readable file", name, FakeNames())
	}
	return LoadFile(name)
}
