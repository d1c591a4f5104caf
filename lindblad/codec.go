package lindblad

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v2"

	"qtermdebug/circuit"
	"qtermdebug/pauli"
)

// Format selects the on-disk encoding of a Result.
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", errors.Errorf("cannot tell the format of %q from its extension", path)
	}
}

type layerFile struct {
	Circuit     string    `yaml:"circuit" msgpack:"circuit"` // OpenQASM 2.0
	Qubits      []int     `yaml:"qubits" msgpack:"qubits"`
	Generators  []string  `yaml:"generators" msgpack:"generators"`
	Rates       []float64 `yaml:"rates" msgpack:"rates"`
	RatesStderr []float64 `yaml:"rates_stderr,omitempty" msgpack:"rates_stderr,omitempty"`
}

type resultFile struct {
	Layers         []layerFile            `yaml:"layers" msgpack:"layers"`
	Metadata       map[string]interface{} `yaml:"metadata,omitempty" msgpack:"metadata,omitempty"`
	LearnerOptions *LearnerOptions        `yaml:"learner_options,omitempty" msgpack:"learner_options,omitempty"`
}

// Encode writes r in the given format.
func (r *Result) Encode(w io.Writer, format Format) error {
	f := resultFile{Metadata: r.metadata, LearnerOptions: r.options}
	for _, l := range r.layers {
		f.Layers = append(f.Layers, layerFile{
			Circuit:     l.circuit.ToQASM(),
			Qubits:      l.qubits,
			Generators:  l.errors.generators.Labels(),
			Rates:       l.errors.rates,
			RatesStderr: l.errors.stderr,
		})
	}

	var (
		raw []byte
		err error
	)
	switch format {
	case FormatYAML:
		raw, err = yaml.Marshal(f)
	case FormatMsgpack:
		raw, err = msgpack.Marshal(f)
	default:
		return errors.Errorf("unknown result format %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, "encode %s", format)
	}
	_, err = w.Write(raw)
	return errors.Wrap(err, "write result")
}

// LoadResult decodes a Result and re-checks every container invariant.
func LoadResult(r io.Reader, format Format) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read result")
	}

	var f resultFile
	switch format {
	case FormatYAML:
		err = yaml.UnmarshalStrict(raw, &f)
	case FormatMsgpack:
		err = msgpack.Unmarshal(raw, &f)
	default:
		return nil, errors.Errorf("unknown result format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", format)
	}

	layers := make([]LayerNoise, 0, len(f.Layers))
	for i, lf := range f.Layers {
		layer, err := lf.decode()
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		layers = append(layers, layer)
	}

	var opts []ResultOption
	if f.LearnerOptions != nil {
		opts = append(opts, WithLearnerOptions(*f.LearnerOptions))
	}
	return NewResult(layers, f.Metadata, opts...)
}

func (lf layerFile) decode() (LayerNoise, error) {
	c, err := circuit.ParseQASM(lf.Circuit)
	if err != nil {
		return LayerNoise{}, errors.Wrap(err, "parse circuit")
	}
	gens, err := pauli.ParseList(lf.Generators...)
	if err != nil {
		return LayerNoise{}, errors.Wrap(err, "parse generators")
	}
	if len(lf.Generators) == 0 {
		// an empty generator list still has the layer's width
		gens, _ = pauli.NewList(len(lf.Qubits))
	}
	errs, err := NewErrors(gens, lf.Rates, lf.RatesStderr)
	if err != nil {
		return LayerNoise{}, err
	}
	return NewLayerNoise(c, lf.Qubits, errs)
}
