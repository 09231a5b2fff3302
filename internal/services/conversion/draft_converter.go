// Package conversion converts character drafts into finished character
// records.
package conversion

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/derived"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
)

type draftConverter struct {
	clock clock.Clock
}

// DraftConverterConfig holds the configuration for creating a draft converter
type DraftConverterConfig struct {
	Clock clock.Clock
}

// NewDraftConverter creates a new draft converter instance
func NewDraftConverter(cfg *DraftConverterConfig) DraftConverter {
	c := clock.New()
	if cfg != nil && cfg.Clock != nil {
		c = cfg.Clock
	}
	return &draftConverter{clock: c}
}

func (c *draftConverter) ToCharacter(draft *coc.CharacterDraft) (*coc.Character, error) {
	if draft == nil {
		return nil, errors.InvalidArgument("draft is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", draft.Name, vb)
	errors.ValidateRequired("occupation", draft.OccupationID, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeFailedPrecondition, "draft cannot become a character")
	}

	now := c.clock.Now().UTC()
	char := &coc.Character{
		SchemaVersion: coc.CurrentSchemaVersion,
		PlayerID:      draft.PlayerID,
		Identity: coc.Identity{
			Name:       draft.Name,
			Player:     draft.PlayerID,
			Occupation: draft.OccupationID,
			Age:        draft.Age,
			Gender:     draft.Gender,
			Residence:  draft.Residence,
			Birthplace: draft.Birthplace,
		},
		Attributes: draft.FinalAttributes,
		Derived:    cloneDerived(draft.Derived),
		Skills:     cloneSkills(draft.Skills),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	c.Normalize(char)
	return char, nil
}

func (c *draftConverter) Normalize(char *coc.Character) {
	if char == nil {
		return
	}

	for _, key := range coc.AllAttributes {
		char.Attributes.Set(key, char.Attributes.Value(key))
	}

	creditRating := 0
	for i := range char.Skills {
		s := &char.Skills[i]
		s.Recompute()
		if s.ID == coc.SkillCreditRating {
			creditRating = s.TotalValue
		}
	}
	char.Finance = derived.Finance(creditRating)
}

func cloneSkills(skills []coc.Skill) []coc.Skill {
	out := make([]coc.Skill, len(skills))
	for i, s := range skills {
		s.Modifiers = append([]coc.SkillModifier(nil), s.Modifiers...)
		out[i] = s
	}
	return out
}

func cloneDerived(d coc.DerivedStats) coc.DerivedStats {
	clone := func(mods []coc.Modifier) []coc.Modifier {
		return append(make([]coc.Modifier, 0, len(mods)), mods...)
	}
	d.HitPoints.Modifiers = clone(d.HitPoints.Modifiers)
	d.Sanity.Modifiers = clone(d.Sanity.Modifiers)
	d.MagicPoints.Modifiers = clone(d.MagicPoints.Modifiers)
	d.Luck.Modifiers = clone(d.Luck.Modifiers)
	d.Movement.Modifiers = clone(d.Movement.Modifiers)
	return d
}
