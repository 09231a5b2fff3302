package character

import (
	"context"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/occupation"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character"
)

// ListOccupations lists the catalog occupations with localized names
func (o *Orchestrator) ListOccupations(_ context.Context, input *character.ListOccupationsInput) (*character.ListOccupationsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	occupations := o.catalog.Occupations()
	out := make([]character.OccupationSummary, 0, len(occupations))
	for _, occ := range occupations {
		out = append(out, character.OccupationSummary{
			ID:                    occ.ID,
			Name:                  o.translator.Occupation(input.Locale, occ.ID),
			CreditRating:          occ.CreditRating,
			OccupationFormula:     occupation.Describe(occ.OccupationPoints),
			PersonalFormula:       occupation.Describe(occ.PersonalPoints),
			SuggestedContacts:     occ.SuggestedContacts,
			RecommendedAttributes: occ.RecommendedAttributes,
			OccupationSkillIDs:    occupationSkillIDs(occ),
		})
	}

	return &character.ListOccupationsOutput{
		Occupations: out,
	}, nil
}

// ListSkills lists the catalog skills with localized names
func (o *Orchestrator) ListSkills(_ context.Context, input *character.ListSkillsInput) (*character.ListSkillsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	defs := o.catalog.SkillDefinitions()
	out := make([]character.SkillSummary, 0, len(defs))
	for _, def := range defs {
		summary := character.SkillSummary{
			ID:            def.ID,
			Name:          o.translator.SkillName(input.Locale, def.ID),
			BaseValue:     def.BaseValue,
			BaseAttribute: def.BaseAttribute,
			Restricted:    def.Restricted,
		}
		for _, spec := range def.Specializations {
			base := def.BaseValue
			if spec.BaseValue != nil {
				base = *spec.BaseValue
			}
			summary.Specializations = append(summary.Specializations, character.SkillSummary{
				ID:        spec.ID,
				Name:      o.translator.SkillName(input.Locale, spec.ID),
				BaseValue: base,
			})
		}
		out = append(out, summary)
	}

	return &character.ListSkillsOutput{
		Skills: out,
	}, nil
}

// occupationSkillIDs lists the skill ids an occupation's entries can grant,
// in catalog order without duplicates
func occupationSkillIDs(occ coc.Occupation) []string {
	var ids []string
	seen := map[string]bool{}
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, spec := range occ.Skills {
		switch spec.Kind {
		case coc.SkillSpecDirect:
			add(spec.SkillID)
		case coc.SkillSpecSpecialization:
			add(spec.BaseSkillID)
		case coc.SkillSpecChoice, coc.SkillSpecMixedChoice:
			for _, opt := range spec.Options {
				add(opt.SkillID)
			}
		}
	}
	return ids
}
