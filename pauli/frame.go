package pauli

// Frame is a Pauli with a ±1 sign that can be conjugated by Clifford
// primitives. Each primitive maps P to U P U† using the stabilizer-tableau
// update rules, where Y is stored as x=z=1 without an extra phase.
type Frame struct {
	Pauli    Pauli
	Negative bool
}

// NewFrame starts a frame at +p.
func NewFrame(p Pauli) *Frame {
	return &Frame{Pauli: p.Clone()}
}

// Sign returns +1 or -1.
func (f *Frame) Sign() float64 {
	if f.Negative {
		return -1
	}
	return 1
}

// H conjugates by a Hadamard on qubit q.
func (f *Frame) H(q int) {
	x, z := f.Pauli.x, f.Pauli.z
	if x[q] && z[q] {
		f.Negative = !f.Negative
	}
	x[q], z[q] = z[q], x[q]
}

// S conjugates by the phase gate on qubit q: X -> Y, Y -> -X.
func (f *Frame) S(q int) {
	x, z := f.Pauli.x, f.Pauli.z
	if x[q] && z[q] {
		f.Negative = !f.Negative
	}
	z[q] = z[q] != x[q]
}

// Sdg conjugates by S† on qubit q.
func (f *Frame) Sdg(q int) {
	f.S(q)
	f.S(q)
	f.S(q)
}

// X conjugates by a Pauli X on qubit q.
func (f *Frame) X(q int) {
	if f.Pauli.z[q] {
		f.Negative = !f.Negative
	}
}

// Z conjugates by a Pauli Z on qubit q.
func (f *Frame) Z(q int) {
	if f.Pauli.x[q] {
		f.Negative = !f.Negative
	}
}

// CX conjugates by a CNOT with control c and target t.
func (f *Frame) CX(c, t int) {
	x, z := f.Pauli.x, f.Pauli.z
	if x[c] && z[t] && (x[t] == z[c]) {
		f.Negative = !f.Negative
	}
	x[t] = x[t] != x[c]
	z[c] = z[c] != z[t]
}

// ExpectationOnZero returns <0...0| ±P |0...0>: the sign when P is diagonal,
// zero otherwise.
func (f *Frame) ExpectationOnZero() float64 {
	if !f.Pauli.IsDiagonal() {
		return 0
	}
	return f.Sign()
}
