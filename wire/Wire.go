// Package wire implements the wire representation of a continuous
// action-value function.
//
// A function approximator with a fixed number of outputs cannot
// represent a value for every continuous action directly. Instead, its
// outputs are interpreted as a small number of control points, called
// wires, each of which pairs an action with the value (reward) of taking
// that action. The value of an arbitrary action is then found by
// interpolating between the wires, see Interpolator.
//
// See:
//
// Baird, L. C. and Klopf, A. H. Reinforcement Learning with
// High-Dimensional, Continuous Actions. 1993.
package wire

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Wire is a single control point of an action-value function
type Wire struct {
	Action []float64
	Reward float64
}

// Clone returns a deep copy of the Wire
func (w Wire) Clone() Wire {
	action := make([]float64, len(w.Action))
	copy(action, w.Action)
	return Wire{Action: action, Reward: w.Reward}
}

// String implements the fmt.Stringer interface
func (w Wire) String() string {
	return fmt.Sprintf("{Action: %v  |  Reward: %.4f}", w.Action, w.Reward)
}

// Set is an ordered set of wires decoded from a single approximator
// output
type Set []Wire

// Clone returns a deep copy of the Set
func (s Set) Clone() Set {
	clone := make(Set, len(s))
	for i := range s {
		clone[i] = s[i].Clone()
	}
	return clone
}

// Rewards returns the reward of each wire in order
func (s Set) Rewards() []float64 {
	rewards := make([]float64, len(s))
	for i := range s {
		rewards[i] = s[i].Reward
	}
	return rewards
}

// MaxReward returns the highest reward of any wire in the set. It
// panics if the set is empty.
func (s Set) MaxReward() float64 {
	return s[s.Best()].Reward
}

// Best returns the index of the wire with the strictly greatest reward.
// Ties are broken by the first wire in the set. Best panics if the set
// is empty.
func (s Set) Best() int {
	if len(s) == 0 {
		panic("best: empty wire set")
	}
	return floats.MaxIdx(s.Rewards())
}

// Equal returns whether two sets contain exactly the same wires in the
// same order
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i].Reward != other[i].Reward {
			return false
		}
		if len(s[i].Action) != len(other[i].Action) ||
			!floats.Equal(s[i].Action, other[i].Action) {
			return false
		}
	}
	return true
}

// Codec converts between the flat output of a function approximator and
// a Set of wires.
//
// An output vector is laid out as Wires consecutive chunks, each chunk
// of length ActionDims + 1. The first ActionDims values of a chunk are
// the action of the wire and the final value is its reward.
type Codec struct {
	ActionDims int
	Wires      int
}

// NewCodec returns a new Codec
func NewCodec(actionDims, wires int) (Codec, error) {
	if actionDims < 1 {
		return Codec{}, fmt.Errorf("newCodec: action dimensions must be "+
			"positive \n\twant(>0) \n\thave(%v)", actionDims)
	}
	if wires < 1 {
		return Codec{}, fmt.Errorf("newCodec: number of wires must be "+
			"positive \n\twant(>0) \n\thave(%v)", wires)
	}
	return Codec{ActionDims: actionDims, Wires: wires}, nil
}

// Len returns the length of the raw output vectors the Codec works with
func (c Codec) Len() int {
	return c.Wires * (c.ActionDims + 1)
}

// Decode decodes a raw approximator output into a Set of wires. The
// returned Set does not share memory with raw.
func (c Codec) Decode(raw []float64) (Set, error) {
	if len(raw) != c.Len() {
		return nil, fmt.Errorf("decode: invalid output length \n\twant(%v)"+
			"\n\thave(%v)", c.Len(), len(raw))
	}

	stride := c.ActionDims + 1
	wires := make(Set, c.Wires)
	for i := range wires {
		start := i * stride
		action := make([]float64, c.ActionDims)
		copy(action, raw[start:start+c.ActionDims])

		wires[i] = Wire{Action: action, Reward: raw[start+c.ActionDims]}
	}
	return wires, nil
}

// Encode encodes a Set of wires into the raw approximator output that
// would decode to the same Set
func (c Codec) Encode(wires Set) ([]float64, error) {
	if len(wires) != c.Wires {
		return nil, fmt.Errorf("encode: invalid number of wires \n\twant(%v)"+
			"\n\thave(%v)", c.Wires, len(wires))
	}

	stride := c.ActionDims + 1
	raw := make([]float64, c.Len())
	for i, w := range wires {
		if len(w.Action) != c.ActionDims {
			return nil, fmt.Errorf("encode: invalid action dimensions for "+
				"wire %v \n\twant(%v) \n\thave(%v)", i, c.ActionDims,
				len(w.Action))
		}
		start := i * stride
		copy(raw[start:start+c.ActionDims], w.Action)
		raw[start+c.ActionDims] = w.Reward
	}
	return raw, nil
}
