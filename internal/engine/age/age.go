// Package age derives the age-banded characteristic penalties, education
// improvement checks and luck rolls, and keeps earlier rolls across age edits.
package age

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/dice"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

const (
	youngReduction   = 5
	penaltyPerDecade = 5
	olderBandStart   = 40
	adultBandStart   = 20
)

// Roller is the subset of the dice evaluator the calculator needs
type Roller interface {
	Evaluate(formula dice.Formula) (int, error)
	RollEducationChecks(currentEducation, count int) ([]coc.EducationRoll, error)
}

// Config holds the dependencies for the calculator
type Config struct {
	Roller Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c == nil || c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// Calculator recalculates age modifiers
type Calculator struct {
	roller Roller
}

// NewCalculator creates a new age modifier calculator
func NewCalculator(cfg *Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Calculator{roller: cfg.Roller}, nil
}

// BandFor returns the age band of age
func BandFor(age int) coc.AgeBand {
	switch {
	case age < adultBandStart:
		return coc.AgeBandYoung
	case age < olderBandStart:
		return coc.AgeBandAdult
	default:
		return coc.AgeBandOlder
	}
}

// Decades returns the number of started decades past 40, 0 below 40
func Decades(age int) int {
	if age < olderBandStart {
		return 0
	}
	return (age-olderBandStart)/10 + 1
}

// RequiredLuckRolls returns how many luck rolls age requires
func RequiredLuckRolls(age int) int {
	if BandFor(age) == coc.AgeBandYoung {
		return 2
	}
	return 1
}

// RequiredEducationRolls returns how many education checks age requires
func RequiredEducationRolls(age int) int {
	switch BandFor(age) {
	case coc.AgeBandYoung:
		return 0
	case coc.AgeBandAdult:
		return 1
	default:
		return Decades(age) + 1
	}
}

// ParseAge parses a raw age input. It does not clamp.
func ParseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.InvalidArgumentf("age %q is not a number", raw)
	}
	return age, nil
}

// ValidateAge checks age against the supported range
func ValidateAge(age int) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("age", age, coc.MinAge, coc.MaxAge, vb)
	return vb.Build()
}

// baseModifiers returns the band reductions for age with no rolls
func baseModifiers(age int) *coc.AgeModifiers {
	mods := &coc.AgeModifiers{Age: age}

	switch BandFor(age) {
	case coc.AgeBandYoung:
		mods.StrengthReduction = youngReduction
		mods.SizeReduction = youngReduction
		mods.EducationReduction = youngReduction
	case coc.AgeBandOlder:
		decades := Decades(age)
		mods.AppearanceReduction = decades * penaltyPerDecade
		mods.PenaltyPoints = decades * penaltyPerDecade
	}

	mods.EducationBonusRolls = RequiredEducationRolls(age)
	return mods
}

// Recalculate builds the modifiers for age from prev. Luck and education
// rolls of prev are kept, truncated or extended to the count age requires;
// existing rolls are never rolled again. prev is not modified, and nothing
// is returned on error.
func (c *Calculator) Recalculate(prev *coc.AgeModifiers, age, education int) (*coc.AgeModifiers, error) {
	next := baseModifiers(age)

	var prevLuck []int
	var prevEducation []coc.EducationRoll
	prevSelected := 0
	if prev != nil {
		prevLuck = prev.LuckRolls
		prevEducation = prev.EducationRolls
		prevSelected = prev.SelectedLuckValue
	}

	luck, selected, err := c.carryLuck(prevLuck, prevSelected, RequiredLuckRolls(age))
	if err != nil {
		return nil, err
	}
	next.LuckRolls = luck
	next.SelectedLuckValue = selected

	eduRolls, err := c.carryEducation(prevEducation, education, RequiredEducationRolls(age))
	if err != nil {
		return nil, err
	}
	next.EducationRolls = eduRolls

	if prev != nil && next.PenaltyPoints > 0 && prev.PenaltyPoints == next.PenaltyPoints {
		next.StrengthReduction = prev.StrengthReduction
		next.ConstitutionReduction = prev.ConstitutionReduction
		next.DexterityReduction = prev.DexterityReduction
	}

	slog.Debug("Age modifiers recalculated",
		"age", age,
		"band", BandFor(age),
		"luck_rolls", len(next.LuckRolls),
		"education_rolls", len(next.EducationRolls),
		"penalty_points", next.PenaltyPoints,
	)

	return next, nil
}

func (c *Calculator) carryLuck(prev []int, selected, required int) ([]int, int, error) {
	rolls := append([]int(nil), prev...)

	switch {
	case len(rolls) > required:
		// only the 2 -> 1 transition shrinks: the selected roll survives
		keep := selected
		if indexOf(rolls, keep) < 0 {
			keep = maxOf(rolls)
		}
		rolls = []int{keep}
		selected = keep
	case len(rolls) < required:
		for len(rolls) < required {
			v, err := c.roller.Evaluate(dice.Formula3D6Times5)
			if err != nil {
				return nil, 0, errors.Wrap(err, "failed to roll luck")
			}
			rolls = append(rolls, v)
		}
		selected = 0
	}

	if required == 1 {
		selected = rolls[0]
	}
	return rolls, selected, nil
}

func (c *Calculator) carryEducation(prev []coc.EducationRoll, education, required int) ([]coc.EducationRoll, error) {
	if len(prev) >= required {
		return append([]coc.EducationRoll(nil), prev[:required]...), nil
	}

	rolls := append([]coc.EducationRoll(nil), prev...)
	current := education
	for _, r := range rolls {
		current = min(current+r.Bonus, coc.MaxAttributeValue)
	}

	fresh, err := c.roller.RollEducationChecks(current, required-len(rolls))
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll education checks")
	}
	return append(rolls, fresh...), nil
}

// SelectLuck picks the luck roll at index as the luck value
func SelectLuck(mods *coc.AgeModifiers, index int) error {
	if mods == nil {
		return errors.FailedPrecondition("age has not been set")
	}
	if index < 0 || index >= len(mods.LuckRolls) {
		return errors.OutOfRangef("no luck roll at index %d", index)
	}

	mods.SelectedLuckValue = mods.LuckRolls[index]
	return nil
}

// AdjustPenalty moves one older-age penalty point onto or off key, which must
// be strength, constitution or dexterity. Allocation never goes negative nor
// exceeds the pool.
func AdjustPenalty(mods *coc.AgeModifiers, key coc.AttributeKey, delta int) error {
	if mods == nil || mods.PenaltyPoints == 0 {
		return errors.FailedPrecondition("no age penalty points to allocate")
	}
	if delta != 1 && delta != -1 {
		return errors.InvalidArgumentf("penalty adjustment must be +1 or -1, got %d", delta)
	}

	var target *int
	switch key {
	case coc.AttributeStrength:
		target = &mods.StrengthReduction
	case coc.AttributeConstitution:
		target = &mods.ConstitutionReduction
	case coc.AttributeDexterity:
		target = &mods.DexterityReduction
	default:
		return errors.InvalidArgumentf("age penalty cannot be applied to %s", key)
	}

	if delta > 0 && mods.PenaltyRemaining() <= 0 {
		return errors.ResourceExhaustedf("all %d penalty points are allocated", mods.PenaltyPoints)
	}
	if *target+delta < 0 {
		return errors.OutOfRangef("%s penalty cannot go below 0", key)
	}

	*target += delta
	return nil
}

// Apply returns attrs with the age modifiers applied. Reductions floor at 0;
// education gains the education bonus; intelligence and power are untouched.
func Apply(attrs coc.Attributes, mods *coc.AgeModifiers) coc.Attributes {
	if mods == nil {
		return attrs
	}

	out := attrs
	reduce := func(key coc.AttributeKey, by int) {
		out.Set(key, max(0, attrs.Value(key)-by))
	}
	reduce(coc.AttributeStrength, mods.StrengthReduction)
	reduce(coc.AttributeConstitution, mods.ConstitutionReduction)
	reduce(coc.AttributeDexterity, mods.DexterityReduction)
	reduce(coc.AttributeSize, mods.SizeReduction)
	reduce(coc.AttributeAppearance, mods.AppearanceReduction)
	reduce(coc.AttributeEducation, mods.EducationReduction-mods.EducationBonus())

	return out
}

// Validate reports whether the age step is complete
func Validate(mods *coc.AgeModifiers) error {
	vb := errors.NewValidationBuilder()
	if mods == nil {
		vb.RequiredField("age")
		return vb.Build()
	}

	switch BandFor(mods.Age) {
	case coc.AgeBandYoung:
		if mods.SelectedLuckValue == 0 {
			vb.Field("luck", "a luck roll must be selected")
		}
	case coc.AgeBandOlder:
		if remaining := mods.PenaltyRemaining(); remaining != 0 {
			vb.Fieldf("penalty_points", "%d of %d points left to allocate", remaining, mods.PenaltyPoints)
		}
	}

	if len(mods.LuckRolls) != RequiredLuckRolls(mods.Age) {
		vb.Fieldf("luck_rolls", "expected %d rolls", RequiredLuckRolls(mods.Age))
	}
	if len(mods.EducationRolls) != RequiredEducationRolls(mods.Age) {
		vb.Fieldf("education_rolls", "expected %d rolls", RequiredEducationRolls(mods.Age))
	}

	return vb.Build()
}

func indexOf(values []int, v int) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

func maxOf(values []int) int {
	best := 0
	for _, v := range values {
		best = max(best, v)
	}
	return best
}
