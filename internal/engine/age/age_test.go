package age_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/age"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/dice"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/testutils"
)

type CalculatorTestSuite struct {
	suite.Suite
	roller     *testutils.ScriptedRoller
	calculator *age.Calculator
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(CalculatorTestSuite))
}

func (s *CalculatorTestSuite) SetupTest() {
	s.roller = testutils.NewScriptedRoller()
	evaluator, err := dice.NewEvaluator(&dice.Config{Roller: s.roller})
	s.Require().NoError(err)

	s.calculator, err = age.NewCalculator(&age.Config{Roller: evaluator})
	s.Require().NoError(err)
}

func (s *CalculatorTestSuite) recalculate(prev *coc.AgeModifiers, years, education int) *coc.AgeModifiers {
	mods, err := s.calculator.Recalculate(prev, years, education)
	s.Require().NoError(err)
	s.Require().Len(mods.LuckRolls, age.RequiredLuckRolls(years))
	s.Require().Len(mods.EducationRolls, age.RequiredEducationRolls(years))
	return mods
}

func (s *CalculatorTestSuite) TestRequiredCounts() {
	testCases := []struct {
		age       int
		band      coc.AgeBand
		decades   int
		luck      int
		education int
	}{
		{15, coc.AgeBandYoung, 0, 2, 0},
		{19, coc.AgeBandYoung, 0, 2, 0},
		{20, coc.AgeBandAdult, 0, 1, 1},
		{39, coc.AgeBandAdult, 0, 1, 1},
		{40, coc.AgeBandOlder, 1, 1, 2},
		{49, coc.AgeBandOlder, 1, 1, 2},
		{50, coc.AgeBandOlder, 2, 1, 3},
		{90, coc.AgeBandOlder, 6, 1, 7},
	}

	for _, tc := range testCases {
		s.Equal(tc.band, age.BandFor(tc.age), "band for %d", tc.age)
		s.Equal(tc.decades, age.Decades(tc.age), "decades for %d", tc.age)
		s.Equal(tc.luck, age.RequiredLuckRolls(tc.age), "luck rolls for %d", tc.age)
		s.Equal(tc.education, age.RequiredEducationRolls(tc.age), "education rolls for %d", tc.age)
	}
}

func (s *CalculatorTestSuite) TestYoungRequiresLuckSelection() {
	s.roller.Push(3, 3, 3, 5, 5, 5)

	mods := s.recalculate(nil, 18, 60)
	s.Equal([]int{45, 75}, mods.LuckRolls)
	s.Zero(mods.SelectedLuckValue)
	s.Equal(5, mods.StrengthReduction)
	s.Equal(5, mods.SizeReduction)
	s.Equal(5, mods.EducationReduction)
	s.Zero(mods.EducationBonusRolls)

	err := age.Validate(mods)
	s.Require().Error(err)
	s.Contains(errors.FieldErrors(err), "luck")

	s.Require().NoError(age.SelectLuck(mods, 1))
	s.Equal(75, mods.SelectedLuckValue)
	s.NoError(age.Validate(mods))

	s.True(errors.IsOutOfRange(age.SelectLuck(mods, 2)))
}

func (s *CalculatorTestSuite) TestAdultRollsOnceAndAutoSelects() {
	s.roller.Push(4, 4, 4) // luck 60
	s.roller.Push(30)      // education check fails, no bonus die

	mods := s.recalculate(nil, 25, 60)
	s.Equal([]int{60}, mods.LuckRolls)
	s.Equal(60, mods.SelectedLuckValue)
	s.Equal([]coc.EducationRoll{{Roll: 30}}, mods.EducationRolls)
	s.Equal(1, mods.EducationBonusRolls)
	s.Zero(mods.StrengthReduction)
	s.NoError(age.Validate(mods))
	s.Zero(s.roller.Remaining())
}

func (s *CalculatorTestSuite) TestYoungToAdultKeepsSelectedLuck() {
	s.roller.Push(3, 3, 3, 5, 5, 5)
	young := s.recalculate(nil, 18, 60)
	s.Require().NoError(age.SelectLuck(young, 0))

	s.roller.Push(80, 7) // education check succeeds with a d10 of 7
	adult := s.recalculate(young, 25, 60)

	s.Equal([]int{45}, adult.LuckRolls)
	s.Equal(45, adult.SelectedLuckValue)
	s.Equal([]coc.EducationRoll{{Roll: 80, Success: true, Bonus: 7}}, adult.EducationRolls)
	s.Zero(adult.StrengthReduction)
	s.Equal([]int{45, 75}, young.LuckRolls, "previous modifiers are not modified")
}

func (s *CalculatorTestSuite) TestYoungToAdultWithoutSelectionKeepsHighest() {
	s.roller.Push(3, 3, 3, 5, 5, 5)
	young := s.recalculate(nil, 16, 60)

	s.roller.Push(10)
	adult := s.recalculate(young, 21, 60)
	s.Equal([]int{75}, adult.LuckRolls)
	s.Equal(75, adult.SelectedLuckValue)
}

func (s *CalculatorTestSuite) TestAdultToYoungAppendsOneLuckRoll() {
	s.roller.Push(4, 4, 4, 10)
	adult := s.recalculate(nil, 30, 60)

	s.roller.Push(2, 2, 2)
	young := s.recalculate(adult, 17, 60)
	s.Equal([]int{60, 30}, young.LuckRolls, "existing roll kept, one fresh roll appended")
	s.Zero(young.SelectedLuckValue)
	s.Empty(young.EducationRolls)
	s.Zero(s.roller.Remaining())
}

func (s *CalculatorTestSuite) TestSameRequirementPreservesRolls() {
	s.roller.Push(4, 4, 4, 80, 7)
	first := s.recalculate(nil, 25, 60)

	second := s.recalculate(first, 35, 60)
	s.Equal(first.LuckRolls, second.LuckRolls)
	s.Equal(first.EducationRolls, second.EducationRolls)
	s.Equal(35, second.Age)
}

func (s *CalculatorTestSuite) TestEducationRollsExtendFromRunningEducation() {
	s.roller.Push(4, 4, 4, 80, 7)
	adult := s.recalculate(nil, 25, 60)

	// 66 beats the assigned 60 but not the improved 67
	s.roller.Push(66)
	older := s.recalculate(adult, 45, 60)
	s.Equal([]coc.EducationRoll{
		{Roll: 80, Success: true, Bonus: 7},
		{Roll: 66},
	}, older.EducationRolls)
	s.Equal(5, older.AppearanceReduction)
	s.Equal(5, older.PenaltyPoints)
	s.Equal(2, older.EducationBonusRolls)
	s.Equal([]int{60}, older.LuckRolls)
}

func (s *CalculatorTestSuite) TestEducationRollsTruncate() {
	s.roller.Push(4, 4, 4, 10, 20, 30)
	older := s.recalculate(nil, 55, 60)
	s.Len(older.EducationRolls, 3)

	adult := s.recalculate(older, 22, 60)
	s.Equal([]coc.EducationRoll{{Roll: 10}}, adult.EducationRolls)
}

func (s *CalculatorTestSuite) TestPenaltyAllocationCarry() {
	s.roller.Push(4, 4, 4, 10, 20)
	older := s.recalculate(nil, 45, 60)
	s.Require().NoError(age.AdjustPenalty(older, coc.AttributeStrength, 1))
	s.Require().NoError(age.AdjustPenalty(older, coc.AttributeDexterity, 1))

	sameDecade := s.recalculate(older, 48, 60)
	s.Equal(1, sameDecade.StrengthReduction)
	s.Equal(1, sameDecade.DexterityReduction)

	s.roller.Push(30)
	nextDecade := s.recalculate(sameDecade, 52, 60)
	s.Equal(10, nextDecade.PenaltyPoints)
	s.Zero(nextDecade.PenaltyAllocated(), "a different pool resets allocation")
}

func (s *CalculatorTestSuite) TestAdjustPenalty() {
	s.roller.Push(4, 4, 4, 10, 20)
	mods := s.recalculate(nil, 40, 60)

	s.True(errors.IsOutOfRange(age.AdjustPenalty(mods, coc.AttributeDexterity, -1)))
	s.True(errors.IsInvalidArgument(age.AdjustPenalty(mods, coc.AttributeIntelligence, 1)))
	s.True(errors.IsInvalidArgument(age.AdjustPenalty(mods, coc.AttributeStrength, 2)))

	for i := 0; i < 3; i++ {
		s.Require().NoError(age.AdjustPenalty(mods, coc.AttributeStrength, 1))
	}
	s.Require().NoError(age.AdjustPenalty(mods, coc.AttributeConstitution, 1))
	err := age.Validate(mods)
	s.Require().Error(err)
	s.Contains(errors.FieldErrors(err), "penalty_points")

	s.Require().NoError(age.AdjustPenalty(mods, coc.AttributeDexterity, 1))
	s.LessOrEqual(mods.PenaltyAllocated(), mods.PenaltyPoints)
	s.True(errors.IsResourceExhausted(age.AdjustPenalty(mods, coc.AttributeDexterity, 1)))
	s.Equal(5, mods.PenaltyAllocated())
	s.NoError(age.Validate(mods))

	s.Require().NoError(age.AdjustPenalty(mods, coc.AttributeStrength, -1))
	s.Equal(2, mods.StrengthReduction)
}

func (s *CalculatorTestSuite) TestAdjustPenaltyRequiresOlderBand() {
	s.roller.Push(4, 4, 4, 10)
	mods := s.recalculate(nil, 30, 60)

	s.True(errors.IsFailedPrecondition(age.AdjustPenalty(mods, coc.AttributeStrength, 1)))
	s.True(errors.IsFailedPrecondition(age.AdjustPenalty(nil, coc.AttributeStrength, 1)))
}

func (s *CalculatorTestSuite) TestRollerFailureReturnsNothing() {
	s.roller.Push(4, 4)

	mods, err := s.calculator.Recalculate(nil, 30, 60)
	s.Error(err)
	s.Nil(mods)
}

func (s *CalculatorTestSuite) TestApply() {
	var attrs coc.Attributes
	attrs.Set(coc.AttributeStrength, 3)
	attrs.Set(coc.AttributeConstitution, 60)
	attrs.Set(coc.AttributeSize, 70)
	attrs.Set(coc.AttributeDexterity, 40)
	attrs.Set(coc.AttributeAppearance, 60)
	attrs.Set(coc.AttributeIntelligence, 70)
	attrs.Set(coc.AttributePower, 55)
	attrs.Set(coc.AttributeEducation, 95)

	mods := &coc.AgeModifiers{
		Age:                 52,
		StrengthReduction:   5,
		DexterityReduction:  5,
		AppearanceReduction: 10,
		EducationRolls: []coc.EducationRoll{
			{Roll: 99, Success: true, Bonus: 4},
			{Roll: 98, Success: true, Bonus: 3},
		},
	}

	out := age.Apply(attrs, mods)
	s.Equal(0, out.Strength.Value, "reductions floor at 0")
	s.Equal(60, out.Constitution.Value)
	s.Equal(35, out.Dexterity.Value)
	s.Equal(17, out.Dexterity.HalfValue)
	s.Equal(50, out.Appearance.Value)
	s.Equal(70, out.Intelligence.Value)
	s.Equal(55, out.Power.Value)
	s.Equal(99, out.Education.Value, "education is capped")
	s.Equal(3, attrs.Strength.Value, "input is not modified")

	s.Equal(attrs, age.Apply(attrs, nil))
}

func (s *CalculatorTestSuite) TestParseAge() {
	v, err := age.ParseAge(" 42 ")
	s.Require().NoError(err)
	s.Equal(42, v)

	_, err = age.ParseAge("forty")
	s.True(errors.IsInvalidArgument(err))

	s.NoError(age.ValidateAge(15))
	s.NoError(age.ValidateAge(90))
	s.Error(age.ValidateAge(14))
	s.Error(age.ValidateAge(91))
}

func (s *CalculatorTestSuite) TestValidateWithoutAge() {
	err := age.Validate(nil)
	s.Require().Error(err)
	s.Contains(errors.FieldErrors(err), "age")
}
