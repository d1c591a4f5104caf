package circuit

// Layers schedules the gates as soon as possible and returns one circuit per
// layer. A gate lands one layer after the latest gate sharing a qubit with
// it; barriers close the current layer for every qubit. Each returned layer
// keeps the full qubit count of the source circuit.
func (c *Circuit) Layers() []*Circuit {
	lastLayer := make(map[int]int) // qubit -> layer of its latest gate
	floor := 0                     // first layer usable after a barrier
	var layers []*Circuit

	for _, g := range c.Ops() {
		if g.Type == "BARRIER" {
			floor = len(layers)
			continue
		}
		layer := floor
		for _, q := range g.Qubits() {
			if l, ok := lastLayer[q]; ok && l+1 > layer {
				layer = l + 1
			}
		}
		for len(layers) <= layer {
			layers = append(layers, New(c.NumQubits))
		}
		g = g.clone()
		g.Step = 0
		layers[layer].place(g)
		for _, q := range g.Qubits() {
			lastLayer[q] = layer
		}
	}

	return layers
}

// Depth returns the number of layers in the circuit.
func (c *Circuit) Depth() int {
	return len(c.Layers())
}

// TwoQubitLayers returns the layers that contain at least one two-qubit gate;
// these are the layers whose noise is learned and mitigated.
func (c *Circuit) TwoQubitLayers() []*Circuit {
	var out []*Circuit
	for _, layer := range c.Layers() {
		for _, g := range layer.Gates {
			if g.Control >= 0 {
				out = append(out, layer)
				break
			}
		}
	}
	return out
}

// ActiveQubits returns the sorted qubits touched by at least one gate.
func (c *Circuit) ActiveQubits() []int {
	used := make([]bool, c.NumQubits)
	for _, g := range c.Gates {
		for _, q := range g.Qubits() {
			if q >= 0 && q < len(used) {
				used[q] = true
			}
		}
	}
	var out []int
	for q, ok := range used {
		if ok {
			out = append(out, q)
		}
	}
	return out
}
