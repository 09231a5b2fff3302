// Package occupation evaluates occupation skill point formulas against
// age-modified characteristics.
package occupation

import (
	"fmt"
	"strings"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// DefaultPersonalPoints is used when an occupation defines no personal formula
var DefaultPersonalPoints = coc.SkillPointFormula{
	Mode:  coc.FormulaSimple,
	Terms: []coc.FormulaTerm{{Attribute: coc.AttributeIntelligence, Multiplier: 2}},
}

var abbreviations = map[coc.AttributeKey]string{
	coc.AttributeStrength:     "STR",
	coc.AttributeConstitution: "CON",
	coc.AttributeSize:         "SIZ",
	coc.AttributeDexterity:    "DEX",
	coc.AttributeAppearance:   "APP",
	coc.AttributeIntelligence: "INT",
	coc.AttributePower:        "POW",
	coc.AttributeEducation:    "EDU",
}

// Evaluate computes the points a formula yields for attrs
func Evaluate(formula coc.SkillPointFormula, attrs coc.Attributes) (int, error) {
	if err := ValidateFormula(formula); err != nil {
		return 0, err
	}

	switch formula.Mode {
	case coc.FormulaSimple:
		return term(formula.Terms[0], attrs), nil
	case coc.FormulaChoice:
		return maxTerm(formula.Terms, attrs), nil
	case coc.FormulaComposite:
		return term(formula.Terms[0], attrs) + maxTerm(formula.ChoiceTerms, attrs), nil
	case coc.FormulaCumulative:
		total := 0
		for _, t := range formula.Terms {
			total += term(t, attrs)
		}
		return total, nil
	default:
		return 0, errors.InvalidArgumentf("unsupported formula mode: %s", formula.Mode)
	}
}

// ValidateFormula checks the structure of a formula for its mode
func ValidateFormula(formula coc.SkillPointFormula) error {
	vb := errors.NewValidationBuilder()

	switch formula.Mode {
	case coc.FormulaSimple, coc.FormulaComposite:
		if len(formula.Terms) != 1 {
			vb.Fieldf("terms", "%s formula needs exactly one term", formula.Mode)
		}
		if formula.Mode == coc.FormulaComposite && len(formula.ChoiceTerms) == 0 {
			vb.RequiredField("choiceTerms")
		}
	case coc.FormulaChoice, coc.FormulaCumulative:
		if len(formula.Terms) == 0 {
			vb.RequiredField("terms")
		}
	default:
		vb.InvalidField("mode", fmt.Sprintf("unsupported formula mode %q", formula.Mode))
	}

	for i, t := range append(append([]coc.FormulaTerm(nil), formula.Terms...), formula.ChoiceTerms...) {
		if !t.Attribute.IsValid() {
			vb.InvalidField(fmt.Sprintf("terms[%d].attribute", i), fmt.Sprintf("unknown attribute %q", t.Attribute))
		}
		if t.Multiplier <= 0 {
			vb.Fieldf(fmt.Sprintf("terms[%d].multiplier", i), "must be positive, got %d", t.Multiplier)
		}
	}

	return vb.Build()
}

// Budgets returns the occupation and personal point budgets. It fails with
// FailedPrecondition while the occupation, education or intelligence are
// not set so callers keep their previous budgets.
func Budgets(occ *coc.Occupation, attrs coc.Attributes) (int, int, error) {
	if occ == nil {
		return 0, 0, errors.FailedPrecondition("occupation has not been chosen")
	}
	if attrs.Education.Value == 0 {
		return 0, 0, errors.FailedPrecondition("education has not been set")
	}
	if attrs.Intelligence.Value == 0 {
		return 0, 0, errors.FailedPrecondition("intelligence has not been set")
	}

	occupationPoints, err := Evaluate(occ.OccupationPoints, attrs)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "occupation %s points", occ.ID)
	}

	personal := occ.PersonalPoints
	if personal.Mode == "" {
		personal = DefaultPersonalPoints
	}
	personalPoints, err := Evaluate(personal, attrs)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "occupation %s personal points", occ.ID)
	}

	return occupationPoints, personalPoints, nil
}

// Describe renders a formula for display, e.g. "EDU×2 + max(STR×2, DEX×2)"
func Describe(formula coc.SkillPointFormula) string {
	switch formula.Mode {
	case coc.FormulaSimple:
		return joinTerms(formula.Terms, " + ")
	case coc.FormulaChoice:
		return "max(" + joinTerms(formula.Terms, ", ") + ")"
	case coc.FormulaComposite:
		return joinTerms(formula.Terms, " + ") + " + max(" + joinTerms(formula.ChoiceTerms, ", ") + ")"
	case coc.FormulaCumulative:
		return joinTerms(formula.Terms, " + ")
	default:
		return string(formula.Mode)
	}
}

func joinTerms(terms []coc.FormulaTerm, sep string) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		name, ok := abbreviations[t.Attribute]
		if !ok {
			name = string(t.Attribute)
		}
		parts = append(parts, fmt.Sprintf("%s×%d", name, t.Multiplier))
	}
	return strings.Join(parts, sep)
}

func term(t coc.FormulaTerm, attrs coc.Attributes) int {
	return attrs.Value(t.Attribute) * t.Multiplier
}

func maxTerm(terms []coc.FormulaTerm, attrs coc.Attributes) int {
	best := 0
	for _, t := range terms {
		best = max(best, term(t, attrs))
	}
	return best
}
