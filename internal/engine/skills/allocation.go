package skills

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// PointKind selects the budget an allocation draws from
type PointKind string

// Point kinds
const (
	PointsOccupation PointKind = "occupation"
	PointsPersonal   PointKind = "personal"
)

// Allocate sets the occupation or personal points of a skill. Negative
// values become 0. There is no upper clamp: overspend is reported by
// Validate, not blocked here.
func Allocate(d *coc.CharacterDraft, defs Definitions, plan Plan, skillID string, kind PointKind, value int) error {
	skill := d.FindSkill(skillID)
	if skill == nil {
		return errors.NotFoundf("skill %s not found", skillID)
	}
	if isRestricted(defs, *skill) {
		return errors.InvalidArgumentf("skill %s cannot receive creation points", skillID)
	}
	value = max(0, value)

	switch kind {
	case PointsOccupation:
		if !IsOccupationSkill(d, plan, skillID) {
			return errors.FailedPreconditionf("skill %s is not an occupation skill", skillID)
		}
		skill.OccupationValue = value
	case PointsPersonal:
		skill.PersonalValue = value
	default:
		return errors.InvalidArgumentf("unknown point kind: %s", kind)
	}

	RecomputeTotals(d)
	return nil
}

// RecomputeTotals refreshes every skill total and the spent counters
func RecomputeTotals(d *coc.CharacterDraft) {
	d.Budget.OccupationSpent = 0
	d.Budget.PersonalSpent = 0
	for i := range d.Skills {
		s := &d.Skills[i]
		s.Recompute()
		d.Budget.OccupationSpent += s.OccupationValue
		d.Budget.PersonalSpent += s.PersonalValue
	}
}

// AddModifier layers a named modifier on a skill
func AddModifier(d *coc.CharacterDraft, skillID string, mod coc.SkillModifier) error {
	skill := d.FindSkill(skillID)
	if skill == nil {
		return errors.NotFoundf("skill %s not found", skillID)
	}
	if mod.Name == "" {
		return errors.InvalidArgument("modifier name is required")
	}
	for _, m := range skill.Modifiers {
		if m.Name == mod.Name {
			return errors.AlreadyExistsf("skill %s already has modifier %s", skillID, mod.Name)
		}
	}

	skill.Modifiers = append(skill.Modifiers, mod)
	skill.Recompute()
	return nil
}

// RemoveModifier removes a named modifier from a skill
func RemoveModifier(d *coc.CharacterDraft, skillID, name string) error {
	skill := d.FindSkill(skillID)
	if skill == nil {
		return errors.NotFoundf("skill %s not found", skillID)
	}
	for i, m := range skill.Modifiers {
		if m.Name == name {
			skill.Modifiers = append(skill.Modifiers[:i:i], skill.Modifiers[i+1:]...)
			skill.Recompute()
			return nil
		}
	}
	return errors.NotFoundf("skill %s has no modifier %s", skillID, name)
}
