package skills

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// Validation error names reported by Validate
const (
	ErrFormula                  = "formula"
	ErrOccupationPointsExceeded = "occupation_points_exceeded"
	ErrPersonalPointsExceeded   = "personal_points_exceeded"
	ErrOccupationPointsUnspent  = "occupation_points_unspent"
	ErrPersonalPointsUnspent    = "personal_points_unspent"
	ErrCreditRating             = "credit_rating"
)

// completionPercent is the share of each budget that must be spent
const completionPercent = 90

// Validate reports whether the skill step is complete: no formula error,
// neither budget overspent, at least 90% of both spent and credit rating
// inside the occupation's range.
func Validate(d *coc.CharacterDraft, occ *coc.Occupation) error {
	vb := errors.NewValidationBuilder()
	if occ == nil {
		vb.RequiredField("occupation")
		return vb.Build()
	}

	b := d.Budget
	if b.FormulaError != "" {
		vb.Field(ErrFormula, b.FormulaError)
	}

	if b.OccupationSpent > b.OccupationPoints {
		vb.Fieldf(ErrOccupationPointsExceeded, "spent %d of %d", b.OccupationSpent, b.OccupationPoints)
	} else if b.OccupationSpent*100 < b.OccupationPoints*completionPercent {
		vb.Fieldf(ErrOccupationPointsUnspent, "%d of %d left", b.OccupationRemaining(), b.OccupationPoints)
	}

	if b.PersonalSpent > b.PersonalPoints {
		vb.Fieldf(ErrPersonalPointsExceeded, "spent %d of %d", b.PersonalSpent, b.PersonalPoints)
	} else if b.PersonalSpent*100 < b.PersonalPoints*completionPercent {
		vb.Fieldf(ErrPersonalPointsUnspent, "%d of %d left", b.PersonalRemaining(), b.PersonalPoints)
	}

	if cr := d.FindSkill(coc.SkillCreditRating); cr != nil && occ.CreditRating.Max > 0 {
		errors.ValidateRange(ErrCreditRating, cr.TotalValue, occ.CreditRating.Min, occ.CreditRating.Max, vb)
	}

	return vb.Build()
}
