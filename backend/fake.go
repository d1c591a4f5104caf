package backend

import (
	"slices"
)

// fakes builds the bundled devices. Each call returns a fresh value.
var fakes = map[string]func() *Backend{
	"fake_vigo":  fakeVigo,
	"fake_line5": fakeLine5,
}

// Fake returns a bundled device description by name.
func Fake(name string) (*Backend, bool) {
	build, ok := fakes[name]
	if !ok {
		return nil, false
	}
	return build(), true
}

// FakeNames lists the bundled device names.
func FakeNames() []string {
	names := make([]string, 0, len(fakes))
	for name := range fakes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func singleQubitTarget(twoQubitGate string) map[string][]Edge {
	return map[string][]Edge{
		"I":          nil,
		"RZ":         nil,
		"SX":         nil,
		"X":          nil,
		"MEASURE":    nil,
		"BARRIER":    nil,
		twoQubitGate: nil,
	}
}

func uniformQubits(n int, t1, t2, readout, sx float64) []QubitProperties {
	qubits := make([]QubitProperties, n)
	for i := range qubits {
		// small per-qubit spread so that maps of the derived noise are not flat
		spread := 1 + 0.1*float64(i)
		qubits[i] = QubitProperties{
			T1:           t1 / spread,
			T2:           t2 / spread,
			ReadoutError: readout * spread,
			GateErrors: map[string]float64{
				"SX": sx * spread,
				"X":  sx * spread,
				"I":  0,
				"RZ": 0,
			},
		}
	}
	return qubits
}

// fakeVigo is a five-qubit T-shaped device with bidirectional CX.
func fakeVigo() *Backend {
	coupling := []Edge{{0, 1}, {1, 0}, {1, 2}, {1, 3}, {2, 1}, {3, 1}, {3, 4}, {4, 3}}
	b := &Backend{
		Name:        "fake_vigo",
		NumQubits:   5,
		Target:      singleQubitTarget("CX"),
		CouplingMap: coupling,
		Coordinates: [][2]int{{1, 0}, {0, 1}, {1, 1}, {1, 2}, {2, 1}},
		Calibration: Calibration{
			Qubits:         uniformQubits(5, 110, 90, 0.02, 3e-4),
			LastCalibrated: "2021-02-12T07:39:20Z",
		},
	}
	for i, e := range coupling {
		b.Calibration.TwoQubitGates = append(b.Calibration.TwoQubitGates, GateProperties{
			Gate:     "CX",
			Qubits:   e,
			Error:    0.008 + 0.001*float64(i/2),
			Duration: 384,
		})
	}
	return b
}

// fakeLine5 is a five-qubit chain with directed ECR couplers.
func fakeLine5() *Backend {
	coupling := []Edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}}
	b := &Backend{
		Name:        "fake_line5",
		NumQubits:   5,
		Target:      singleQubitTarget("ECR"),
		CouplingMap: coupling,
		Coordinates: [][2]int{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}},
		Calibration: Calibration{
			Qubits:         uniformQubits(5, 250, 150, 0.015, 2e-4),
			LastCalibrated: "2024-06-03T10:00:00Z",
		},
	}
	for i, e := range coupling {
		b.Calibration.TwoQubitGates = append(b.Calibration.TwoQubitGates, GateProperties{
			Gate:     "ECR",
			Qubits:   e,
			Error:    0.006 + 0.002*float64(i),
			Duration: 660,
		})
	}
	return b
}
