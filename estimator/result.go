package estimator

import (
	"context"
	"io"
	"maps"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// PubResult holds the expectation values of one pub.
type PubResult struct {
	Evs      [][]float64 // [binding][observable]
	Stds     [][]float64 // same shape as Evs, may be nil
	Metadata map[string]any
}

// Shape returns the number of bindings and observables.
func (r PubResult) Shape() (bindings, observables int) {
	if len(r.Evs) == 0 {
		return 0, 0
	}
	return len(r.Evs), len(r.Evs[0])
}

// PrimitiveResult is the ordered result of one estimator run; Pubs[i]
// belongs to the i-th submitted pub.
type PrimitiveResult struct {
	Pubs     []PubResult
	Metadata map[string]any
}

// Len returns the number of pub results.
func (r PrimitiveResult) Len() int { return len(r.Pubs) }

// Clone returns a deep copy of the result.
func (r PrimitiveResult) Clone() PrimitiveResult {
	out := PrimitiveResult{Metadata: maps.Clone(r.Metadata)}
	for _, p := range r.Pubs {
		out.Pubs = append(out.Pubs, PubResult{
			Evs:      cloneGrid(p.Evs),
			Stds:     cloneGrid(p.Stds),
			Metadata: maps.Clone(p.Metadata),
		})
	}
	return out
}

func cloneGrid(g [][]float64) [][]float64 {
	if g == nil {
		return nil
	}
	out := make([][]float64, len(g))
	for i, row := range g {
		out[i] = slices.Clone(row)
	}
	return out
}

// Estimator runs pubs and returns their expectation values.
type Estimator interface {
	Run(ctx context.Context, pubs []Pub) (PrimitiveResult, error)
}

type pubResultFile struct {
	Evs      [][]float64            `yaml:"evs"`
	Stds     [][]float64            `yaml:"stds,omitempty"`
	Metadata map[string]interface{} `yaml:"metadata,omitempty"`
}

type resultFile struct {
	Pubs     []pubResultFile        `yaml:"pubs"`
	Metadata map[string]interface{} `yaml:"metadata,omitempty"`
}

// LoadResult reads a result previously written by EncodeResult, typically
// expectation values measured on hardware.
func LoadResult(r io.Reader) (PrimitiveResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return PrimitiveResult{}, errors.Wrap(err, "read result")
	}
	var f resultFile
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return PrimitiveResult{}, errors.Wrap(err, "decode result")
	}
	out := PrimitiveResult{Metadata: f.Metadata}
	for i, p := range f.Pubs {
		for j, row := range p.Evs {
			if len(row) != len(p.Evs[0]) {
				return PrimitiveResult{}, errors.Errorf("pub %d: binding %d has %d values, expected %d", i, j, len(row), len(p.Evs[0]))
			}
		}
		out.Pubs = append(out.Pubs, PubResult{Evs: p.Evs, Stds: p.Stds, Metadata: p.Metadata})
	}
	return out, nil
}

// EncodeResult writes r as YAML.
func EncodeResult(w io.Writer, r PrimitiveResult) error {
	f := resultFile{Metadata: r.Metadata}
	for _, p := range r.Pubs {
		f.Pubs = append(f.Pubs, pubResultFile{Evs: p.Evs, Stds: p.Stds, Metadata: p.Metadata})
	}
	raw, err := yaml.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	_, err = w.Write(raw)
	return errors.Wrap(err, "write result")
}
