package dice_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/dice"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/testutils"
)

type EvaluatorTestSuite struct {
	suite.Suite
	roller    *testutils.ScriptedRoller
	evaluator *dice.Evaluator
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (s *EvaluatorTestSuite) SetupTest() {
	s.roller = testutils.NewScriptedRoller()
	evaluator, err := dice.NewEvaluator(&dice.Config{Roller: s.roller})
	s.Require().NoError(err)
	s.evaluator = evaluator
}

func (s *EvaluatorTestSuite) TestNewEvaluatorRequiresRoller() {
	_, err := dice.NewEvaluator(&dice.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = dice.NewEvaluator(nil)
	s.Error(err)
}

func (s *EvaluatorTestSuite) TestEvaluate() {
	testCases := []struct {
		name     string
		formula  dice.Formula
		faces    []int
		expected int
	}{
		{"3d6x5", dice.Formula3D6Times5, []int{3, 4, 5}, 60},
		{"(2d6+6)x5", dice.Formula2D6Plus6Times5, []int{1, 1}, 40},
		{"(1d6+12)x5", dice.Formula1D6Plus12Times5, []int{6}, 90},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.roller.Push(tc.faces...)
			v, err := s.evaluator.Evaluate(tc.formula)
			s.Require().NoError(err)
			s.Equal(tc.expected, v)
		})
	}
}

func (s *EvaluatorTestSuite) TestEvaluateUnknownFormula() {
	_, err := s.evaluator.Evaluate("4d6x5")
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal(0, s.roller.Remaining())
}

func (s *EvaluatorTestSuite) TestParseFormula() {
	f, err := dice.ParseFormula("3d6 × 5")
	s.Require().NoError(err)
	s.Equal(dice.Formula3D6Times5, f)

	f, err = dice.ParseFormula("(2D6+6)*5")
	s.Require().NoError(err)
	s.Equal(dice.Formula2D6Plus6Times5, f)

	_, err = dice.ParseFormula("3d8x5")
	s.True(errors.IsInvalidArgument(err))
}

func (s *EvaluatorTestSuite) TestRollMultipleSortsDescending() {
	s.roller.Push(1, 1, 1, 6, 6, 6, 3, 3, 3)
	values, err := s.evaluator.RollMultiple(dice.Formula3D6Times5, 3)
	s.Require().NoError(err)
	s.Equal([]int{90, 45, 15}, values)
}

func (s *EvaluatorTestSuite) TestRollPercentile() {
	s.roller.Push(42)
	v, err := s.evaluator.RollPercentile()
	s.Require().NoError(err)
	s.Equal(42, v)
}

func (s *EvaluatorTestSuite) TestRollEducationCheck() {
	s.Run("success rolls a bonus", func() {
		s.roller.Push(75, 7)
		r, err := s.evaluator.RollEducationCheck(60)
		s.Require().NoError(err)
		s.True(r.Success)
		s.Equal(75, r.Roll)
		s.Equal(7, r.Bonus)
	})

	s.Run("equal roll fails without a bonus", func() {
		s.roller.Push(60)
		r, err := s.evaluator.RollEducationCheck(60)
		s.Require().NoError(err)
		s.False(r.Success)
		s.Equal(0, r.Bonus)
		s.Equal(0, s.roller.Remaining())
	})
}

func (s *EvaluatorTestSuite) TestRollEducationChecksRaisesTarget() {
	// 65 beats 60 (+5 -> 65); 65 no longer beats 65
	s.roller.Push(65, 5, 65)
	rolls, err := s.evaluator.RollEducationChecks(60, 2)
	s.Require().NoError(err)
	s.Require().Len(rolls, 2)
	s.True(rolls[0].Success)
	s.False(rolls[1].Success)
}

func (s *EvaluatorTestSuite) TestRollerFailurePropagates() {
	_, err := s.evaluator.Evaluate(dice.Formula3D6Times5)
	s.Error(err)
}
