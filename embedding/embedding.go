// Package embedding places the qubits of a device on a 2D grid and records
// which pairs are coupled, for drawing per-qubit and per-edge data.
package embedding

import (
	"slices"

	"github.com/pkg/errors"

	"qtermdebug/backend"
)

// Embedding is read-only after construction.
type Embedding struct {
	coordinates [][2]int // (row, column) per qubit; row 0 is drawn at the top
	couplingMap []backend.Edge
}

// New checks that every coupled qubit has a coordinate.
func New(coordinates [][2]int, couplingMap []backend.Edge) (Embedding, error) {
	for _, e := range couplingMap {
		for _, q := range e {
			if q < 0 || q >= len(coordinates) {
				return Embedding{}, errors.Errorf(
					"coupling map edge %v references qubit %d, but coordinates are only given for %d qubits",
					e, q, len(coordinates))
			}
		}
	}
	return Embedding{
		coordinates: slices.Clone(coordinates),
		couplingMap: slices.Clone(couplingMap),
	}, nil
}

// FromBackend builds the embedding of a device that publishes its layout.
func FromBackend(b *backend.Backend) (Embedding, error) {
	if len(b.Coordinates) == 0 {
		return Embedding{}, errors.Errorf("backend %s has no qubit coordinates", b.Name)
	}
	if len(b.CouplingMap) == 0 {
		return Embedding{}, errors.Errorf("backend %s has no coupling map", b.Name)
	}
	if len(b.Coordinates) != b.NumQubits {
		return Embedding{}, errors.Errorf("backend %s has %d qubits but %d coordinates", b.Name, b.NumQubits, len(b.Coordinates))
	}
	return New(b.Coordinates, b.CouplingMap)
}

// Coordinates returns a copy of the (row, column) pairs.
func (e Embedding) Coordinates() [][2]int { return slices.Clone(e.coordinates) }

// CouplingMap returns a copy of the directed coupling map.
func (e Embedding) CouplingMap() []backend.Edge { return slices.Clone(e.couplingMap) }

// NumQubits returns the number of placed qubits.
func (e Embedding) NumQubits() int { return len(e.coordinates) }

// XY returns the drawing position of qubit q: x is the column and y the
// negated row.
func (e Embedding) XY(q int) (x, y float64) {
	rc := e.coordinates[q]
	return float64(rc[1]), -float64(rc[0])
}

// Edges returns the undirected edges as (min, max) pairs, sorted.
func (e Embedding) Edges() []backend.Edge {
	seen := make(map[backend.Edge]bool, len(e.couplingMap))
	var out []backend.Edge
	for _, edge := range e.couplingMap {
		key := backend.Edge{min(edge[0], edge[1]), max(edge[0], edge[1])}
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	slices.SortFunc(out, func(a, b backend.Edge) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	return out
}

// Source is either a backend to derive an embedding from or a ready
// embedding. Build one with FromBackendSource or Use.
type Source interface {
	resolve() (Embedding, error)
}

type backendSource struct{ b *backend.Backend }

func (s backendSource) resolve() (Embedding, error) {
	if s.b == nil {
		return Embedding{}, errors.New("nil backend")
	}
	return FromBackend(s.b)
}

type embeddingSource struct{ e Embedding }

func (s embeddingSource) resolve() (Embedding, error) { return s.e, nil }

// FromBackendSource derives the embedding from b when resolved.
func FromBackendSource(b *backend.Backend) Source { return backendSource{b: b} }

// Use passes e through unchanged.
func Use(e Embedding) Source { return embeddingSource{e: e} }

// Resolve turns a Source into an Embedding.
func Resolve(src Source) (Embedding, error) {
	if src == nil {
		return Embedding{}, errors.New("no embedding source")
	}
	return src.resolve()
}
