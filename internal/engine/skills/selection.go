package skills

import (
	"log/slog"
	"strings"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// SkillRef names a pick. For a specialization option SkillID is the base
// skill and either SpecializationID or CustomName resolves it.
type SkillRef struct {
	SkillID          string `json:"skillId" yaml:"skillId"`
	SpecializationID string `json:"specializationId,omitempty" yaml:"specializationId,omitempty"`
	CustomName       string `json:"customName,omitempty" yaml:"customName,omitempty"`
}

// Related returns the ids of every occupation-related skill: granted
// directly or picked through a choice, specialization or any slot.
func Related(d *coc.CharacterDraft, plan Plan) map[string]bool {
	related := make(map[string]bool, len(plan.Direct))
	for _, id := range plan.Direct {
		related[id] = true
	}
	for _, picks := range d.Selections.Choices {
		for _, id := range picks {
			related[id] = true
		}
	}
	for _, id := range d.Selections.Specializations {
		related[id] = true
	}
	for _, id := range d.Selections.Any {
		related[id] = true
	}
	return related
}

// IsOccupationSkill reports whether skillID is occupation related
func IsOccupationSkill(d *coc.CharacterDraft, plan Plan, skillID string) bool {
	return Related(d, plan)[skillID]
}

// Partition splits the draft skills into occupation-related and other,
// keeping draft order
func Partition(d *coc.CharacterDraft, plan Plan) (related, other []coc.Skill) {
	set := Related(d, plan)
	for _, s := range d.Skills {
		if set[s.ID] {
			related = append(related, s)
		} else {
			other = append(other, s)
		}
	}
	return related, other
}

// CreateSpecialization adds a specialization of baseSkillID to the draft,
// either a predefined one (specializationID) or a custom one (customName).
// Creating a skill that already exists is rejected.
func CreateSpecialization(d *coc.CharacterDraft, defs Definitions, baseSkillID, specializationID, customName string) (string, error) {
	skill, err := buildSpecialization(d, defs, baseSkillID, specializationID, customName)
	if err != nil {
		return "", err
	}
	if d.HasSkill(skill.ID) {
		slog.Error("Duplicate skill creation rejected",
			"draft_id", d.ID,
			"skill_id", skill.ID,
		)
		return "", errors.AlreadyExistsf("skill %s already exists", skill.ID)
	}

	d.Skills = append(d.Skills, skill)
	return skill.ID, nil
}

// addIfMissing appends skill unless the draft already holds it
func addIfMissing(d *coc.CharacterDraft, skill coc.Skill) {
	if !d.HasSkill(skill.ID) {
		d.Skills = append(d.Skills, skill)
	}
}

// claimedElsewhere reports whether skillID is already occupation related
// through anything other than the given choice group or specialization slot
func claimedElsewhere(d *coc.CharacterDraft, plan Plan, skillID, groupID, slotID string) bool {
	if contains(plan.Direct, skillID) || contains(d.Selections.Any, skillID) {
		return true
	}
	for group, picks := range d.Selections.Choices {
		if group != groupID && contains(picks, skillID) {
			return true
		}
	}
	for slot, id := range d.Selections.Specializations {
		if slot != slotID && id == skillID {
			return true
		}
	}
	return false
}

func buildSpecialization(d *coc.CharacterDraft, defs Definitions, baseSkillID, specializationID, customName string) (coc.Skill, error) {
	def, ok := defs.SkillDefinition(baseSkillID)
	if !ok {
		return coc.Skill{}, errors.NotFoundf("skill %s not found", baseSkillID)
	}
	if !def.Specializable {
		return coc.Skill{}, errors.InvalidArgumentf("skill %s has no specializations", baseSkillID)
	}

	if specializationID != "" {
		for _, spec := range def.Specializations {
			if spec.ID == specializationID {
				s := newSkill(spec.ID, specializationBase(def, spec, d.FinalAttributes))
				s.ParentSkillID = def.ID
				return s, nil
			}
		}
		return coc.Skill{}, errors.NotFoundf("specialization %s of %s not found", specializationID, baseSkillID)
	}

	name := strings.TrimSpace(customName)
	if name == "" {
		return coc.Skill{}, errors.InvalidArgumentf("specialization of %s needs an id or a custom name", baseSkillID)
	}
	s := newSkill(CustomSpecializationID(def.ID, name), def.BaseFor(d.FinalAttributes))
	s.ParentSkillID = def.ID
	s.CustomName = name
	s.IsCustom = true
	return s, nil
}

// SelectChoice picks an option of a choice or mixed choice group. Picking
// more than the group allows evicts the earliest pick. A skill already
// occupation related through another slot is rejected.
func SelectChoice(d *coc.CharacterDraft, defs Definitions, plan Plan, groupID string, ref SkillRef) error {
	group, ok := plan.Choice(groupID)
	if !ok {
		return errors.NotFoundf("choice group %s not found", groupID)
	}
	option, ok := group.Option(ref.SkillID)
	if !ok {
		return errors.InvalidArgumentf("%s is not an option of %s", ref.SkillID, groupID)
	}

	skillID := ref.SkillID
	var created *coc.Skill
	if option.Specialization {
		skill, err := buildSpecialization(d, defs, ref.SkillID, ref.SpecializationID, ref.CustomName)
		if err != nil {
			return err
		}
		skillID = skill.ID
		created = &skill
	} else if !d.HasSkill(skillID) {
		return errors.NotFoundf("skill %s not found", skillID)
	}

	picks := d.Selections.Choices[groupID]
	if contains(picks, skillID) {
		return nil
	}
	if claimedElsewhere(d, plan, skillID, groupID, "") {
		return errors.AlreadyExistsf("skill %s is already an occupation skill", skillID)
	}

	if created != nil {
		addIfMissing(d, *created)
	}
	if d.Selections.Choices == nil {
		d.Selections.Choices = map[string][]string{}
	}

	picks = append(picks, skillID)
	var evicted string
	if len(picks) > group.Count {
		evicted = picks[0]
		picks = append([]string(nil), picks[1:]...)
	}
	d.Selections.Choices[groupID] = picks

	if evicted != "" {
		slog.Debug("Choice pick evicted", "draft_id", d.ID, "group", groupID, "skill_id", evicted)
		release(d, plan, evicted)
	}
	return nil
}

// DeselectChoice removes a pick from a choice group
func DeselectChoice(d *coc.CharacterDraft, plan Plan, groupID, skillID string) error {
	if _, ok := plan.Choice(groupID); !ok {
		return errors.NotFoundf("choice group %s not found", groupID)
	}

	picks := d.Selections.Choices[groupID]
	idx := indexOf(picks, skillID)
	if idx < 0 {
		return errors.NotFoundf("%s is not picked in %s", skillID, groupID)
	}

	d.Selections.Choices[groupID] = append(append([]string(nil), picks[:idx]...), picks[idx+1:]...)
	release(d, plan, skillID)
	return nil
}

// ResolveSpecialization fills a specialization slot with a predefined
// specialization or, when the slot allows it, a custom name. The previously
// resolved skill, if any, is released. A skill already occupation related
// through another slot is rejected.
func ResolveSpecialization(d *coc.CharacterDraft, defs Definitions, plan Plan, slotID, specializationID, customName string) error {
	slot, ok := plan.Specialization(slotID)
	if !ok {
		return errors.NotFoundf("specialization slot %s not found", slotID)
	}
	if specializationID == "" && !slot.AllowCustom {
		return errors.InvalidArgumentf("slot %s does not allow custom specializations", slotID)
	}

	skill, err := buildSpecialization(d, defs, slot.BaseSkillID, specializationID, customName)
	if err != nil {
		return err
	}
	skillID := skill.ID
	if claimedElsewhere(d, plan, skillID, "", slotID) {
		return errors.AlreadyExistsf("skill %s is already an occupation skill", skillID)
	}
	addIfMissing(d, skill)

	if d.Selections.Specializations == nil {
		d.Selections.Specializations = map[string]string{}
	}
	previous := d.Selections.Specializations[slotID]
	d.Selections.Specializations[slotID] = skillID
	if previous != "" && previous != skillID {
		release(d, plan, previous)
	}
	return nil
}

// SelectAny picks any skill not already occupation related, up to the
// plan's aggregate any count
func SelectAny(d *coc.CharacterDraft, defs Definitions, plan Plan, skillID string) error {
	skill := d.FindSkill(skillID)
	if skill == nil {
		return errors.NotFoundf("skill %s not found", skillID)
	}
	if isRestricted(defs, *skill) {
		return errors.InvalidArgumentf("skill %s cannot be picked at creation", skillID)
	}
	if IsOccupationSkill(d, plan, skillID) {
		return errors.AlreadyExistsf("skill %s is already an occupation skill", skillID)
	}
	if len(d.Selections.Any) >= plan.AnyCount {
		return errors.ResourceExhaustedf("only %d free skill picks allowed", plan.AnyCount)
	}

	d.Selections.Any = append(d.Selections.Any, skillID)
	return nil
}

// DeselectAny removes a free skill pick
func DeselectAny(d *coc.CharacterDraft, plan Plan, skillID string) error {
	idx := indexOf(d.Selections.Any, skillID)
	if idx < 0 {
		return errors.NotFoundf("%s is not a free skill pick", skillID)
	}

	d.Selections.Any = append(append([]string(nil), d.Selections.Any[:idx]...), d.Selections.Any[idx+1:]...)
	release(d, plan, skillID)
	return nil
}

// RemoveCustomSkill removes a custom specialization from the draft along
// with any selection pointing at it
func RemoveCustomSkill(d *coc.CharacterDraft, plan Plan, skillID string) error {
	skill := d.FindSkill(skillID)
	if skill == nil {
		return errors.NotFoundf("skill %s not found", skillID)
	}
	if !skill.IsCustom {
		return errors.InvalidArgumentf("skill %s is not a custom skill", skillID)
	}

	skill.OccupationValue = 0
	skill.Recompute()

	for group, picks := range d.Selections.Choices {
		if idx := indexOf(picks, skillID); idx >= 0 {
			d.Selections.Choices[group] = append(append([]string(nil), picks[:idx]...), picks[idx+1:]...)
		}
	}
	for slot, id := range d.Selections.Specializations {
		if id == skillID {
			delete(d.Selections.Specializations, slot)
		}
	}
	if idx := indexOf(d.Selections.Any, skillID); idx >= 0 {
		d.Selections.Any = append(append([]string(nil), d.Selections.Any[:idx]...), d.Selections.Any[idx+1:]...)
	}

	out := d.Skills[:0]
	for _, s := range d.Skills {
		if s.ID != skillID {
			out = append(out, s)
		}
	}
	d.Skills = out
	return nil
}

// ResetSelections clears every pick and zeroes all occupation points, as
// when the occupation changes
func ResetSelections(d *coc.CharacterDraft) {
	d.Selections.Reset()
	for i := range d.Skills {
		d.Skills[i].OccupationValue = 0
		d.Skills[i].Recompute()
	}
}

// release zeroes the occupation points of a skill that is no longer
// occupation related
func release(d *coc.CharacterDraft, plan Plan, skillID string) {
	if IsOccupationSkill(d, plan, skillID) {
		return
	}
	if s := d.FindSkill(skillID); s != nil {
		s.OccupationValue = 0
		s.Recompute()
	}
}

func isRestricted(defs Definitions, s coc.Skill) bool {
	id := s.ID
	if s.ParentSkillID != "" {
		id = s.ParentSkillID
	}
	def, ok := defs.SkillDefinition(id)
	return ok && def.Restricted
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
