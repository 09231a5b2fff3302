// Package attributes implements the Rolling and Quick Fire characteristic
// generation methods and the assignment of values to characteristics.
package attributes

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/dice"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// Pool sizes for the Rolling method
const (
	PoolASize = 5
	PoolBSize = 3
)

// quickFireValues is the fixed Quick Fire multiset, sorted descending
var quickFireValues = []int{80, 70, 60, 60, 50, 50, 50, 40}

// QuickFireValues returns a copy of the Quick Fire multiset
func QuickFireValues() []int {
	return append([]int(nil), quickFireValues...)
}

// slotDefinitions lists every characteristic with its pool and bounds
var slotDefinitions = []coc.CharacteristicSlot{
	{Key: coc.AttributeStrength, Min: 15, Max: 90, Pool: coc.PoolA},
	{Key: coc.AttributeConstitution, Min: 15, Max: 90, Pool: coc.PoolA},
	{Key: coc.AttributeSize, Min: 40, Max: 90, Pool: coc.PoolB},
	{Key: coc.AttributeDexterity, Min: 15, Max: 90, Pool: coc.PoolA},
	{Key: coc.AttributeAppearance, Min: 15, Max: 90, Pool: coc.PoolA},
	{Key: coc.AttributeIntelligence, Min: 40, Max: 90, Pool: coc.PoolB},
	{Key: coc.AttributePower, Min: 15, Max: 90, Pool: coc.PoolA},
	{Key: coc.AttributeEducation, Min: 40, Max: 90, Pool: coc.PoolB},
}

// PoolRoller rolls a sorted pool of characteristic values
type PoolRoller interface {
	RollMultiple(formula dice.Formula, count int) ([]int, error)
}

// Config holds the dependencies for the generator
type Config struct {
	Roller PoolRoller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c == nil || c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// Generator owns the operations that need dice; pure assignment
// operations are package functions.
type Generator struct {
	roller PoolRoller
}

// NewGenerator creates a new attribute generator
func NewGenerator(cfg *Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Generator{roller: cfg.Roller}, nil
}

// NewGeneration returns an empty generation state with no method chosen
func NewGeneration() *coc.AttributeGeneration {
	slots := make([]coc.CharacteristicSlot, len(slotDefinitions))
	copy(slots, slotDefinitions)
	return &coc.AttributeGeneration{
		Slots:    slots,
		Selected: -1,
	}
}

// SetMethod switches the generation method. Values already assigned are
// kept: Rolling only rolls the unassigned share of each pool, Quick Fire
// removes them from its multiset. An assigned value missing from the Quick
// Fire multiset stays assigned and removes nothing.
func (g *Generator) SetMethod(gen *coc.AttributeGeneration, method coc.GenerationMethod) error {
	if gen == nil {
		return errors.InvalidArgument("generation state is required")
	}
	if gen.Method == method {
		return nil
	}

	switch method {
	case coc.MethodRolling:
		poolA, poolB, err := g.rollPools(
			PoolASize-gen.AssignedCount(coc.PoolA),
			PoolBSize-gen.AssignedCount(coc.PoolB),
		)
		if err != nil {
			return err
		}
		gen.PoolA = poolA
		gen.PoolB = poolB
		gen.QuickFire = nil

	case coc.MethodQuickFire:
		gen.QuickFire = quickFireRemaining(gen)
		gen.PoolA = nil
		gen.PoolB = nil

	default:
		return errors.InvalidArgumentf("unsupported generation method: %s", method)
	}

	gen.Method = method
	gen.Selected = -1
	return nil
}

// Reroll discards every assignment and rolls fresh Rolling pools
func (g *Generator) Reroll(gen *coc.AttributeGeneration) error {
	if gen == nil || gen.Method != coc.MethodRolling {
		return errors.FailedPrecondition("reroll requires the rolling method")
	}

	poolA, poolB, err := g.rollPools(PoolASize, PoolBSize)
	if err != nil {
		return err
	}

	for i := range gen.Slots {
		gen.Slots[i].Current = nil
	}
	gen.PoolA = poolA
	gen.PoolB = poolB
	return nil
}

func (g *Generator) rollPools(countA, countB int) ([]int, []int, error) {
	poolA, err := g.roller.RollMultiple(dice.Formula3D6Times5, countA)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to roll pool A")
	}
	poolB, err := g.roller.RollMultiple(dice.Formula2D6Plus6Times5, countB)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to roll pool B")
	}
	return poolA, poolB, nil
}

// AssignFromPool assigns the pool value at index to the characteristic.
// The previous value of the characteristic goes back to the pool. A
// rejected assignment leaves the state untouched.
func AssignFromPool(gen *coc.AttributeGeneration, key coc.AttributeKey, pool coc.Pool, index int) error {
	if gen == nil || gen.Method != coc.MethodRolling {
		return errors.FailedPrecondition("pool assignment requires the rolling method")
	}

	slot := gen.Slot(key)
	if slot == nil {
		return errors.InvalidArgumentf("unknown characteristic: %s", key)
	}
	if slot.Pool != pool {
		return errors.InvalidArgumentf("%s is fed by pool %s, not %s", key, slot.Pool, pool)
	}

	values := poolRef(gen, pool)
	if index < 0 || index >= len(*values) {
		return errors.OutOfRangef("pool %s has no value at index %d", pool, index)
	}

	v := (*values)[index]
	if !slot.Accepts(v) {
		return errors.OutOfRangef("%d is outside %s bounds [%d,%d]", v, key, slot.Min, slot.Max)
	}

	remaining := removeAt(*values, index)
	if slot.IsAssigned() {
		remaining = append(remaining, *slot.Current)
	}
	dice.SortDescending(remaining)
	*values = remaining
	slot.Current = &v
	return nil
}

// SelectQuickFire toggles the selection of a Quick Fire value
func SelectQuickFire(gen *coc.AttributeGeneration, index int) error {
	if gen == nil || gen.Method != coc.MethodQuickFire {
		return errors.FailedPrecondition("selection requires the quick fire method")
	}
	if index < 0 || index >= len(gen.QuickFire) {
		return errors.OutOfRangef("quick fire has no value at index %d", index)
	}

	if gen.Selected == index {
		gen.Selected = -1
	} else {
		gen.Selected = index
	}
	return nil
}

// AssignQuickFire assigns the selected Quick Fire value to the
// characteristic, returning its previous value to the multiset when it
// came from there.
func AssignQuickFire(gen *coc.AttributeGeneration, key coc.AttributeKey) error {
	if gen == nil || gen.Method != coc.MethodQuickFire {
		return errors.FailedPrecondition("quick fire assignment requires the quick fire method")
	}
	if gen.Selected < 0 || gen.Selected >= len(gen.QuickFire) {
		return errors.FailedPrecondition("no quick fire value selected")
	}

	slot := gen.Slot(key)
	if slot == nil {
		return errors.InvalidArgumentf("unknown characteristic: %s", key)
	}

	v := gen.QuickFire[gen.Selected]
	if !slot.Accepts(v) {
		return errors.OutOfRangef("%d is outside %s bounds [%d,%d]", v, key, slot.Min, slot.Max)
	}

	slot.Current = &v
	gen.QuickFire = quickFireRemaining(gen)
	gen.Selected = -1
	return nil
}

// Unassign returns the characteristic's value to the pool it came from
func Unassign(gen *coc.AttributeGeneration, key coc.AttributeKey) error {
	if gen == nil {
		return errors.InvalidArgument("generation state is required")
	}
	slot := gen.Slot(key)
	if slot == nil {
		return errors.InvalidArgumentf("unknown characteristic: %s", key)
	}
	if !slot.IsAssigned() {
		return nil
	}

	switch gen.Method {
	case coc.MethodRolling:
		values := poolRef(gen, slot.Pool)
		*values = append(*values, *slot.Current)
		dice.SortDescending(*values)
		slot.Current = nil
	case coc.MethodQuickFire:
		slot.Current = nil
		gen.QuickFire = quickFireRemaining(gen)
		gen.Selected = -1
	default:
		return errors.FailedPreconditionf("no generation method chosen")
	}
	return nil
}

// Validate reports whether every characteristic holds an in-bounds value
func Validate(gen *coc.AttributeGeneration) error {
	vb := errors.NewValidationBuilder()
	if gen == nil {
		vb.RequiredField("generation")
		return vb.Build()
	}

	for _, slot := range gen.Slots {
		if !slot.IsAssigned() {
			vb.RequiredField(string(slot.Key))
			continue
		}
		errors.ValidateRange(string(slot.Key), *slot.Current, slot.Min, slot.Max, vb)
	}
	return vb.Build()
}

// ApplyTo copies the assigned values onto attrs; unassigned slots become 0
func ApplyTo(gen *coc.AttributeGeneration, attrs *coc.Attributes) {
	if gen == nil {
		return
	}
	for _, slot := range gen.Slots {
		v := 0
		if slot.IsAssigned() {
			v = *slot.Current
		}
		attrs.Set(slot.Key, v)
	}
}

// quickFireRemaining is the Quick Fire multiset minus the assigned values
// it contains. Values kept from Rolling that are not part of it are ignored.
func quickFireRemaining(gen *coc.AttributeGeneration) []int {
	remaining := QuickFireValues()
	for _, slot := range gen.Slots {
		if !slot.IsAssigned() {
			continue
		}
		if idx := indexOf(remaining, *slot.Current); idx >= 0 {
			remaining = removeAt(remaining, idx)
		}
	}
	return remaining
}

func poolRef(gen *coc.AttributeGeneration, pool coc.Pool) *[]int {
	if pool == coc.PoolB {
		return &gen.PoolB
	}
	return &gen.PoolA
}

func indexOf(values []int, v int) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

// removeAt returns a new slice without the element at i
func removeAt(values []int, i int) []int {
	out := make([]int, 0, len(values)-1)
	out = append(out, values[:i]...)
	return append(out, values[i+1:]...)
}
