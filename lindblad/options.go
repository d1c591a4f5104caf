package lindblad

import (
	"slices"

	"github.com/pkg/errors"
)

// Twirling strategies for the learned layers.
const (
	TwirlActive        = "active"
	TwirlActiveCircuit = "active-circuit"
	TwirlActiveAccum   = "active-accum"
	TwirlAll           = "all"
)

// LearnerOptions describes how a result was learned. It is carried along
// with the result for reference; nothing here runs the learning itself.
type LearnerOptions struct {
	MaxLayersToLearn      *int   `yaml:"max_layers_to_learn,omitempty" msgpack:"max_layers_to_learn,omitempty"`
	ShotsPerRandomization int    `yaml:"shots_per_randomization" msgpack:"shots_per_randomization"`
	NumRandomizations     int    `yaml:"num_randomizations" msgpack:"num_randomizations"`
	LayerPairDepths       []int  `yaml:"layer_pair_depths" msgpack:"layer_pair_depths"`
	TwirlingStrategy      string `yaml:"twirling_strategy" msgpack:"twirling_strategy"`
}

// DefaultLearnerOptions returns the service defaults.
func DefaultLearnerOptions() LearnerOptions {
	maxLayers := 4
	return LearnerOptions{
		MaxLayersToLearn:      &maxLayers,
		ShotsPerRandomization: 128,
		NumRandomizations:     32,
		LayerPairDepths:       []int{0, 1, 2, 4, 16, 32},
		TwirlingStrategy:      TwirlActiveAccum,
	}
}

// Validate checks the option ranges.
func (o LearnerOptions) Validate() error {
	if o.MaxLayersToLearn != nil && *o.MaxLayersToLearn <= 0 {
		return errors.Errorf("max_layers_to_learn must be > 0, got %d", *o.MaxLayersToLearn)
	}
	if o.ShotsPerRandomization < 1 {
		return errors.Errorf("shots_per_randomization must be >= 1, got %d", o.ShotsPerRandomization)
	}
	if o.NumRandomizations < 1 {
		return errors.Errorf("num_randomizations must be >= 1, got %d", o.NumRandomizations)
	}
	for _, d := range o.LayerPairDepths {
		if d < 0 {
			return errors.Errorf("layer_pair_depths must all be >= 0, got %v", o.LayerPairDepths)
		}
	}
	switch o.TwirlingStrategy {
	case TwirlActive, TwirlActiveCircuit, TwirlActiveAccum, TwirlAll:
	default:
		return errors.Errorf("unknown twirling strategy %q", o.TwirlingStrategy)
	}
	return nil
}

func (o LearnerOptions) clone() LearnerOptions {
	if o.MaxLayersToLearn != nil {
		n := *o.MaxLayersToLearn
		o.MaxLayersToLearn = &n
	}
	o.LayerPairDepths = slices.Clone(o.LayerPairDepths)
	return o
}
