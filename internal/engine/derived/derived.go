// Package derived computes hit points, sanity, magic points, luck, movement,
// build and damage bonus from final characteristics.
package derived

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// buildBands maps the upper bound of STR+SIZ to a build value
var buildBands = []struct {
	upTo  int
	build int
}{
	{64, -2},
	{84, -1},
	{124, 0},
	{164, 1},
	{204, 2},
	{284, 3},
	{364, 4},
	{444, 5},
}

const maxBuild = 6

var damageBonuses = map[int]string{
	-2: "-2",
	-1: "-1",
	0:  "0",
	1:  "+1d4",
	2:  "+1d6",
	3:  "+2d6",
	4:  "+3d6",
	5:  "+4d6",
}

// Input is everything the calculator reads
type Input struct {
	Attributes coc.Attributes
	Age        int
	Luck       int
}

// Calculate computes derived stats. Modifiers of prev are carried over and
// current values reset to their maximum. Calling it twice on the same input
// yields the same result.
func Calculate(in Input, prev coc.DerivedStats) coc.DerivedStats {
	a := in.Attributes
	build := Build(a.Strength.Value + a.Size.Value)

	out := coc.DerivedStats{
		HitPoints:   value((a.Constitution.Value+a.Size.Value)/10, prev.HitPoints.Modifiers),
		Sanity:      value(a.Power.Value, prev.Sanity.Modifiers),
		MagicPoints: value(a.Power.Value/5, prev.MagicPoints.Modifiers),
		Luck:        value(in.Luck, prev.Luck.Modifiers),
		Movement:    Movement(a, in.Age),
		Build:       build,
		DamageBonus: DamageBonus(build),
	}
	out.Movement.Modifiers = cloneModifiers(prev.Movement.Modifiers)
	return out
}

func value(maximum int, mods []coc.Modifier) coc.DerivedValue {
	return coc.DerivedValue{
		Maximum:   maximum,
		Current:   maximum,
		Modifiers: cloneModifiers(mods),
	}
}

func cloneModifiers(mods []coc.Modifier) []coc.Modifier {
	out := make([]coc.Modifier, len(mods))
	copy(out, mods)
	return out
}

// MovementRate returns the movement rate for attrs at age, floored at 1
func MovementRate(a coc.Attributes, age int) int {
	dexOK := a.Dexterity.Value >= a.Size.Value
	strOK := a.Strength.Value >= a.Size.Value

	rate := 7
	switch {
	case dexOK && strOK:
		rate = 9
	case dexOK || strOK:
		rate = 8
	}

	rate -= max(0, (age-30)/10)
	return max(1, rate)
}

// Movement returns the movement block with running, climbing and swimming
func Movement(a coc.Attributes, age int) coc.Movement {
	rate := MovementRate(a, age)
	return coc.Movement{
		Base:      rate,
		Running:   rate * 5,
		Climbing:  rate / 2,
		Swimming:  rate / 2,
		Modifiers: []coc.Modifier{},
	}
}

// Build returns the build value for STR+SIZ
func Build(strPlusSiz int) int {
	for _, b := range buildBands {
		if strPlusSiz <= b.upTo {
			return b.build
		}
	}
	return maxBuild
}

// DamageBonus returns the damage bonus notation for a build value
func DamageBonus(build int) string {
	if s, ok := damageBonuses[build]; ok {
		return s
	}
	return "+5d6"
}

// AddModifier layers a named modifier on the derived stat named stat
func AddModifier(stats *coc.DerivedStats, stat string, mod coc.Modifier) error {
	if mod.Name == "" {
		return errors.InvalidArgument("modifier name is required")
	}
	mods, err := modifiersOf(stats, stat)
	if err != nil {
		return err
	}
	for _, m := range *mods {
		if m.Name == mod.Name {
			return errors.AlreadyExistsf("%s already has modifier %s", stat, mod.Name)
		}
	}

	*mods = append(*mods, mod)
	return nil
}

// RemoveModifier removes a named modifier from the derived stat named stat
func RemoveModifier(stats *coc.DerivedStats, stat, name string) error {
	mods, err := modifiersOf(stats, stat)
	if err != nil {
		return err
	}
	for i, m := range *mods {
		if m.Name == name {
			*mods = append((*mods)[:i:i], (*mods)[i+1:]...)
			return nil
		}
	}
	return errors.NotFoundf("%s has no modifier %s", stat, name)
}

func modifiersOf(stats *coc.DerivedStats, stat string) (*[]coc.Modifier, error) {
	switch stat {
	case coc.DerivedHitPoints:
		return &stats.HitPoints.Modifiers, nil
	case coc.DerivedSanity:
		return &stats.Sanity.Modifiers, nil
	case coc.DerivedMagicPoints:
		return &stats.MagicPoints.Modifiers, nil
	case coc.DerivedLuck:
		return &stats.Luck.Modifiers, nil
	case coc.DerivedMovement:
		return &stats.Movement.Modifiers, nil
	default:
		return nil, errors.InvalidArgumentf("unknown derived stat: %s", stat)
	}
}
