package testutils

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// ScriptedRoller is a dice.Roller returning a fixed sequence of die faces.
// It fails once the script is exhausted or a face does not fit the die.
type ScriptedRoller struct {
	values []int
	pos    int
}

var _ dice.Roller = (*ScriptedRoller)(nil)

// NewScriptedRoller creates a roller that returns values in order
func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: values}
}

// Roll returns the next scripted face
func (r *ScriptedRoller) Roll(size int) (int, error) {
	if r.pos >= len(r.values) {
		return 0, fmt.Errorf("scripted roller exhausted after %d rolls", r.pos)
	}
	v := r.values[r.pos]
	if v < 1 || v > size {
		return 0, fmt.Errorf("scripted face %d does not fit d%d", v, size)
	}
	r.pos++
	return v, nil
}

// RollN returns the next count scripted faces
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Push appends faces to the script
func (r *ScriptedRoller) Push(values ...int) {
	r.values = append(r.values, values...)
}

// Remaining returns how many faces are left
func (r *ScriptedRoller) Remaining() int {
	return len(r.values) - r.pos
}
