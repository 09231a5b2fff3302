// Package dice evaluates the closed set of characteristic dice formulas and
// the percentile checks used during character creation.
package dice

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// Formula identifies a characteristic roll
type Formula string

// Supported formulas
const (
	Formula3D6Times5       Formula = "3d6x5"
	Formula2D6Plus6Times5  Formula = "(2d6+6)x5"
	Formula1D6Plus12Times5 Formula = "(1d6+12)x5"
)

const (
	dieSides        = 6
	formulaScale    = 5
	percentileSides = 100
	educationBonus  = 10
)

type formulaDefinition struct {
	count    int
	constant int
}

var formulas = map[Formula]formulaDefinition{
	Formula3D6Times5:       {count: 3},
	Formula2D6Plus6Times5:  {count: 2, constant: 6},
	Formula1D6Plus12Times5: {count: 1, constant: 12},
}

// ParseFormula normalizes raw ("3d6 × 5", "(2D6+6)*5") into a known Formula
func ParseFormula(raw string) (Formula, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	normalized = strings.NewReplacer("×", "x", "*", "x").Replace(normalized)

	f := Formula(normalized)
	if _, ok := formulas[f]; !ok {
		slog.Warn("Unknown dice formula", "formula", raw)
		return "", errors.InvalidArgumentf("unknown dice formula: %s", raw)
	}
	return f, nil
}

// Config holds the dependencies for the evaluator
type Config struct {
	Roller dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c == nil || c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// Evaluator rolls formulas through an injected roller, so the rest of the
// engine stays deterministic under test.
type Evaluator struct {
	roller dice.Roller
}

// NewEvaluator creates a new dice formula evaluator
func NewEvaluator(cfg *Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Evaluator{roller: cfg.Roller}, nil
}

// Evaluate rolls formula once. Unknown formulas are rejected.
func (e *Evaluator) Evaluate(formula Formula) (int, error) {
	def, ok := formulas[formula]
	if !ok {
		slog.Warn("Unknown dice formula", "formula", string(formula))
		return 0, errors.InvalidArgumentf("unknown dice formula: %s", formula)
	}

	rolls, err := e.roller.RollN(def.count, dieSides)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll %s", formula)
	}

	sum := def.constant
	for _, r := range rolls {
		sum += r
	}
	return sum * formulaScale, nil
}

// RollMultiple rolls formula count times and returns the results sorted
// in descending order
func (e *Evaluator) RollMultiple(formula Formula, count int) ([]int, error) {
	if count < 0 {
		return nil, errors.InvalidArgumentf("roll count cannot be negative: %d", count)
	}

	results := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := e.Evaluate(formula)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}

	SortDescending(results)
	return results, nil
}

// RollPercentile returns a d100 result in [1,100]
func (e *Evaluator) RollPercentile() (int, error) {
	v, err := e.roller.Roll(percentileSides)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll percentile")
	}
	return v, nil
}

// RollEducationCheck rolls an education improvement check. The check
// succeeds when the d100 exceeds currentEducation, and only then is a d10
// bonus rolled.
func (e *Evaluator) RollEducationCheck(currentEducation int) (coc.EducationRoll, error) {
	roll, err := e.RollPercentile()
	if err != nil {
		return coc.EducationRoll{}, err
	}

	result := coc.EducationRoll{Roll: roll, Success: roll > currentEducation}
	if result.Success {
		bonus, err := e.roller.Roll(educationBonus)
		if err != nil {
			return coc.EducationRoll{}, errors.Wrap(err, "failed to roll education bonus")
		}
		result.Bonus = bonus
	}
	return result, nil
}

// RollEducationChecks rolls count checks in sequence; each success raises
// the education the next check is compared against.
func (e *Evaluator) RollEducationChecks(currentEducation, count int) ([]coc.EducationRoll, error) {
	rolls := make([]coc.EducationRoll, 0, count)
	for i := 0; i < count; i++ {
		r, err := e.RollEducationCheck(currentEducation)
		if err != nil {
			return nil, err
		}
		rolls = append(rolls, r)
		currentEducation = min(currentEducation+r.Bonus, coc.MaxAttributeValue)
	}
	return rolls, nil
}

// SortDescending sorts values from highest to lowest in place
func SortDescending(values []int) {
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
}
