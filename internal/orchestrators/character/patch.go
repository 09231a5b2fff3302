package character

import (
	"sort"
	"time"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character"
)

// experienceModifier names the modifier an improvement is recorded under
const experienceModifier = "experience"

func validatePatch(c *coc.Character, p *character.CharacterPatch) error {
	vb := errors.NewValidationBuilder()

	if p.Name != nil {
		errors.ValidateRequired("name", *p.Name, vb)
	}

	checkCurrent := func(field string, v *int, maximum int) {
		if v != nil {
			errors.ValidateRange(field, *v, 0, maximum, vb)
		}
	}
	checkCurrent("hitPoints", p.HitPoints, c.Derived.HitPoints.Effective())
	checkCurrent("sanity", p.Sanity, min(c.Derived.Sanity.Effective(), maxSanity))
	checkCurrent("magicPoints", p.MagicPoints, c.Derived.MagicPoints.Effective())
	checkCurrent("luck", p.Luck, maxLuck)

	for _, id := range sortedKeys(p.SkillImprovements) {
		field := "skills." + id
		if p.SkillImprovements[id] <= 0 {
			vb.Field(field, "improvement must be positive")
		}
		if findSkill(c, id) == nil {
			vb.Field(field, "skill not on this character")
		}
	}

	return vb.Build()
}

// applyPatch changes c in place; validatePatch must have accepted p
func applyPatch(c *coc.Character, p *character.CharacterPatch, now time.Time) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setString(&c.Identity.Name, p.Name)
	setString(&c.Identity.Gender, p.Gender)
	setString(&c.Identity.Residence, p.Residence)
	setString(&c.Identity.Birthplace, p.Birthplace)

	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&c.Derived.HitPoints.Current, p.HitPoints)
	setInt(&c.Derived.Sanity.Current, p.Sanity)
	setInt(&c.Derived.MagicPoints.Current, p.MagicPoints)
	setInt(&c.Derived.Luck.Current, p.Luck)

	for _, id := range sortedKeys(p.SkillImprovements) {
		addExperience(findSkill(c, id), p.SkillImprovements[id], now)
	}
}

// addExperience adds gain to the skill's experience modifier, creating it
// on the first improvement
func addExperience(s *coc.Skill, gain int, now time.Time) {
	for i := range s.Modifiers {
		if s.Modifiers[i].Name == experienceModifier {
			s.Modifiers[i].Value += gain
			s.Modifiers[i].CreatedAt = now
			return
		}
	}
	s.Modifiers = append(s.Modifiers, coc.SkillModifier{
		Name:      experienceModifier,
		Value:     gain,
		CreatedAt: now,
	})
}

func findSkill(c *coc.Character, id string) *coc.Skill {
	for i := range c.Skills {
		if c.Skills[i].ID == id {
			return &c.Skills[i]
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
