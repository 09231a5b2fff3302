// Package skills resolves an occupation's skill list into selectable skills,
// records the player's picks and accounts for occupation and personal points.
package skills

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// Definitions looks up catalog skills
type Definitions interface {
	SkillDefinition(id string) (coc.SkillDefinition, bool)
	SkillDefinitions() []coc.SkillDefinition
}

// ChoiceGroup is a choice or mixed choice entry: pick up to Count options
type ChoiceGroup struct {
	ID      string
	Kind    coc.SkillSpecKind
	Count   int
	Options []coc.SkillOption
}

// Option returns the option naming skillID
func (g ChoiceGroup) Option(skillID string) (coc.SkillOption, bool) {
	for _, o := range g.Options {
		if o.SkillID == skillID {
			return o, true
		}
	}
	return coc.SkillOption{}, false
}

// SpecializationSlot must be resolved to one specialization of BaseSkillID
type SpecializationSlot struct {
	ID          string
	BaseSkillID string
	AllowCustom bool
	Suggested   []string
}

// Plan is the expanded skill list of an occupation
type Plan struct {
	OccupationID    string
	Direct          []string
	Choices         []ChoiceGroup
	Specializations []SpecializationSlot
	// AnyCount aggregates every any entry
	AnyCount int
}

// Choice returns the choice group with id
func (p Plan) Choice(id string) (ChoiceGroup, bool) {
	for _, g := range p.Choices {
		if g.ID == id {
			return g, true
		}
	}
	return ChoiceGroup{}, false
}

// Specialization returns the specialization slot with id
func (p Plan) Specialization(id string) (SpecializationSlot, bool) {
	for _, s := range p.Specializations {
		if s.ID == id {
			return s, true
		}
	}
	return SpecializationSlot{}, false
}

func groupID(kind coc.SkillSpecKind, index int) string {
	return fmt.Sprintf("%s-%d", kind, index)
}

// Expand turns an occupation's skill list into a Plan. Credit rating is
// always granted.
func Expand(occ *coc.Occupation) (Plan, error) {
	if occ == nil {
		return Plan{}, errors.FailedPrecondition("occupation has not been chosen")
	}

	plan := Plan{OccupationID: occ.ID}
	for i, spec := range occ.Skills {
		switch spec.Kind {
		case coc.SkillSpecDirect:
			if spec.SkillID == "" {
				return Plan{}, errors.InvalidArgumentf("occupation %s: direct entry %d has no skill", occ.ID, i)
			}
			plan.Direct = appendUnique(plan.Direct, spec.SkillID)

		case coc.SkillSpecChoice, coc.SkillSpecMixedChoice:
			if spec.Count <= 0 || len(spec.Options) == 0 {
				return Plan{}, errors.InvalidArgumentf("occupation %s: %s entry %d needs a count and options", occ.ID, spec.Kind, i)
			}
			if spec.Kind == coc.SkillSpecChoice {
				for _, o := range spec.Options {
					if o.Specialization {
						return Plan{}, errors.InvalidArgumentf("occupation %s: choice entry %d offers a specialization, use mixed_choice", occ.ID, i)
					}
				}
			}
			plan.Choices = append(plan.Choices, ChoiceGroup{
				ID:      groupID(spec.Kind, i),
				Kind:    spec.Kind,
				Count:   spec.Count,
				Options: spec.Options,
			})

		case coc.SkillSpecSpecialization:
			if spec.BaseSkillID == "" {
				return Plan{}, errors.InvalidArgumentf("occupation %s: specialization entry %d has no base skill", occ.ID, i)
			}
			plan.Specializations = append(plan.Specializations, SpecializationSlot{
				ID:          groupID(spec.Kind, i),
				BaseSkillID: spec.BaseSkillID,
				AllowCustom: spec.AllowCustom,
				Suggested:   spec.Suggested,
			})

		case coc.SkillSpecAny:
			if spec.Count <= 0 {
				return Plan{}, errors.InvalidArgumentf("occupation %s: any entry %d needs a count", occ.ID, i)
			}
			plan.AnyCount += spec.Count

		default:
			return Plan{}, errors.InvalidArgumentf("occupation %s: unsupported skill entry kind %q", occ.ID, spec.Kind)
		}
	}

	plan.Direct = appendUnique(plan.Direct, coc.SkillCreditRating)
	return plan, nil
}

// Seed returns the starting skill list: every non-specializable catalog
// skill plus the default specializations, with bases computed from attrs.
func Seed(defs Definitions, attrs coc.Attributes) []coc.Skill {
	var out []coc.Skill
	for _, def := range defs.SkillDefinitions() {
		if !def.Specializable {
			out = append(out, newSkill(def.ID, def.BaseFor(attrs)))
			continue
		}
		for _, spec := range def.Specializations {
			if !spec.Default {
				continue
			}
			s := newSkill(spec.ID, specializationBase(def, spec, attrs))
			s.ParentSkillID = def.ID
			out = append(out, s)
		}
	}
	return out
}

// RefreshBases recomputes the base value of attribute-bound skills
func RefreshBases(d *coc.CharacterDraft, defs Definitions, attrs coc.Attributes) {
	for i := range d.Skills {
		s := &d.Skills[i]
		def, ok := defs.SkillDefinition(s.ID)
		if ok && def.BaseAttribute != "" {
			s.BaseValue = def.BaseFor(attrs)
		}
		s.Recompute()
	}
}

func newSkill(id string, base int) coc.Skill {
	s := coc.Skill{ID: id, BaseValue: base}
	s.Recompute()
	return s
}

func specializationBase(def coc.SkillDefinition, spec coc.SpecializationDefinition, attrs coc.Attributes) int {
	if spec.BaseValue != nil {
		return *spec.BaseValue
	}
	return def.BaseFor(attrs)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// CustomSpecializationID returns the skill id of a custom specialization
func CustomSpecializationID(baseSkillID, name string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "_"), "_")
	return baseSkillID + "_custom_" + slug
}

func appendUnique(values []string, v string) []string {
	for _, x := range values {
		if x == v {
			return values
		}
	}
	return append(values, v)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
