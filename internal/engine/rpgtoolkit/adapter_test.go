package rpgtoolkit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/catalog"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/rpgtoolkit"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/skills"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/testutils"
)

// recordingEventBus keeps the type of every published event
type recordingEventBus struct {
	published []string
}

func (b *recordingEventBus) Publish(_ context.Context, e events.Event) error {
	b.published = append(b.published, e.Type())
	return nil
}
func (b *recordingEventBus) Subscribe(_ string, _ events.Handler) string { return "sub-id" }
func (b *recordingEventBus) SubscribeFunc(_ string, _ int, _ events.HandlerFunc) string {
	return "sub-id"
}
func (b *recordingEventBus) Unsubscribe(_ string) error { return nil }
func (b *recordingEventBus) Clear(_ string)             {}
func (b *recordingEventBus) ClearAll()                  {}

type AdapterTestSuite struct {
	suite.Suite
	ctx     context.Context
	bus     *recordingEventBus
	roller  *testutils.ScriptedRoller
	clock   *clock.Fixed
	adapter *rpgtoolkit.Adapter
	draft   *coc.CharacterDraft
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}

func (s *AdapterTestSuite) SetupTest() {
	cat, err := catalog.Load()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.bus = &recordingEventBus{}
	s.roller = testutils.NewScriptedRoller()
	s.clock = &clock.Fixed{At: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}

	s.adapter, err = rpgtoolkit.NewAdapter(&rpgtoolkit.AdapterConfig{
		EventBus:   s.bus,
		DiceRoller: s.roller,
		Catalog:    cat,
		Clock:      s.clock,
	})
	s.Require().NoError(err)

	s.draft = &coc.CharacterDraft{ID: "draft-001", PlayerID: "player-001"}
	s.Require().NoError(s.adapter.InitializeDraft(s.ctx, s.draft))
}

func (s *AdapterTestSuite) apply(cmd engine.Command) {
	s.T().Helper()
	s.Require().NoError(s.adapter.Apply(s.ctx, s.draft, cmd), "applying %s", cmd.CommandType())
}

func (s *AdapterTestSuite) snapshot() string {
	raw, err := json.Marshal(s.draft)
	s.Require().NoError(err)
	return string(raw)
}

// assignQuickFire assigns the highest remaining quick fire value to each
// characteristic in turn: EDU 80, INT 70, DEX 60, STR 60, CON 50, SIZ 50,
// POW 50, APP 40.
func (s *AdapterTestSuite) assignQuickFire() {
	s.apply(engine.AttributeMethodChosen{Method: coc.MethodQuickFire})
	for _, key := range []coc.AttributeKey{
		coc.AttributeEducation,
		coc.AttributeIntelligence,
		coc.AttributeDexterity,
		coc.AttributeStrength,
		coc.AttributeConstitution,
		coc.AttributeSize,
		coc.AttributePower,
		coc.AttributeAppearance,
	} {
		s.apply(engine.QuickFireValueSelected{Index: 0})
		s.apply(engine.QuickFireValueAssigned{Attribute: key})
	}
}

// setAdultAge sets age 30 with a luck roll of 75 and a failed education check
func (s *AdapterTestSuite) setAdultAge() {
	s.roller.Push(4, 5, 6, 50)
	s.apply(engine.AgeChanged{Raw: "30"})
}

func (s *AdapterTestSuite) TestNewAdapterRequiresDependencies() {
	_, err := rpgtoolkit.NewAdapter(&rpgtoolkit.AdapterConfig{})
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	fields := errors.FieldErrors(err)
	s.Assert().Contains(fields, "EventBus")
	s.Assert().Contains(fields, "DiceRoller")
	s.Assert().Contains(fields, "Catalog")

	_, err = rpgtoolkit.NewAdapter(nil)
	s.Assert().Error(err)
}

func (s *AdapterTestSuite) TestInitializeDraft() {
	s.Assert().Equal([]string{rpgtoolkit.EventDraftInitialized}, s.bus.published)
	s.Require().NotNil(s.draft.Generation)
	s.Assert().Len(s.draft.Generation.Slots, 8)
	s.Assert().Equal(-1, s.draft.Generation.Selected)

	s.Assert().True(s.draft.HasSkill(coc.SkillCreditRating))
	s.Assert().True(s.draft.HasSkill(coc.SkillDodge))
	s.Assert().True(s.draft.HasSkill("fighting_brawl"))
	s.Assert().False(s.draft.HasSkill("science_biology"))

	s.Assert().Equal(coc.CreationStepBasicInfo, s.draft.Progress.CurrentStep)
	s.Assert().Equal(int32(0), s.draft.Progress.CompletionPercentage)
	s.Assert().Equal(s.clock.At.Unix(), s.draft.UpdatedAt)
}

func (s *AdapterTestSuite) TestCompleteCreationFlow() {
	s.apply(engine.BasicInfoUpdated{Name: "  Harvey Walters ", Residence: "Boston"})
	s.Assert().Equal("Harvey Walters", s.draft.Name)

	s.assignQuickFire()
	s.Assert().Empty(s.draft.Generation.QuickFire)
	s.Assert().Equal(80, s.draft.Attributes.Education.Value)
	s.Assert().Equal(40, s.draft.Attributes.Education.HalfValue)

	s.setAdultAge()
	s.Require().NotNil(s.draft.AgeModifiers)
	s.Assert().Equal([]int{75}, s.draft.AgeModifiers.LuckRolls)
	s.Assert().Equal(75, s.draft.AgeModifiers.SelectedLuckValue)
	s.Assert().Len(s.draft.AgeModifiers.EducationRolls, 1)
	s.Assert().Equal(80, s.draft.FinalAttributes.Education.Value)

	derivedStats := s.draft.Derived
	s.Assert().Equal(10, derivedStats.HitPoints.Maximum)
	s.Assert().Equal(50, derivedStats.Sanity.Maximum)
	s.Assert().Equal(10, derivedStats.MagicPoints.Maximum)
	s.Assert().Equal(75, derivedStats.Luck.Maximum)
	s.Assert().Equal(9, derivedStats.Movement.Base)
	s.Assert().Equal(0, derivedStats.Build)
	s.Assert().Equal("0", derivedStats.DamageBonus)
	s.Assert().Equal(30, s.draft.FindSkill(coc.SkillDodge).BaseValue)
	s.Assert().Equal(80, s.draft.FindSkill(coc.SkillLanguageOwn).BaseValue)

	s.apply(engine.OccupationChosen{OccupationID: "antiquarian"})
	s.Assert().Equal(320, s.draft.Budget.OccupationPoints)
	s.Assert().Equal(140, s.draft.Budget.PersonalPoints)

	out, err := s.adapter.ValidateDraft(s.ctx, &engine.ValidateDraftInput{Draft: s.draft})
	s.Require().NoError(err)
	s.Assert().Len(out.Warnings, 4)

	s.apply(engine.SpecializationResolved{SlotID: "specialization-1", CustomName: "Bookbinding"})
	s.apply(engine.SpecializationResolved{SlotID: "specialization-4", SpecializationID: "language_other_latin"})
	s.apply(engine.SkillChoiceSelected{GroupID: "choice-5", Skill: skills.SkillRef{SkillID: "charm"}})
	s.apply(engine.AnySkillSelected{SkillID: "occult"})
	s.Assert().True(s.draft.HasSkill("art_craft_custom_bookbinding"))

	for skillID, points := range map[string]int{
		coc.SkillCreditRating:  40,
		"appraise":             60,
		"history":              60,
		"library_use":          60,
		"spot_hidden":          50,
		"language_other_latin": 50,
	} {
		s.apply(engine.SkillPointsAllocated{SkillID: skillID, Kind: skills.PointsOccupation, Value: points})
	}
	s.apply(engine.SkillPointsAllocated{SkillID: "psychology", Kind: skills.PointsPersonal, Value: 70})
	s.apply(engine.SkillPointsAllocated{SkillID: "listen", Kind: skills.PointsPersonal, Value: 70})

	s.Assert().Equal(320, s.draft.Budget.OccupationSpent)
	s.Assert().Equal(140, s.draft.Budget.PersonalSpent)
	s.Assert().Equal(65, s.draft.FindSkill("appraise").TotalValue)

	out, err = s.adapter.ValidateDraft(s.ctx, &engine.ValidateDraftInput{Draft: s.draft})
	s.Require().NoError(err)
	s.Assert().True(out.IsComplete)
	s.Assert().True(out.IsValid)
	s.Assert().Empty(out.Errors)
	s.Assert().Empty(out.Warnings)
	s.Assert().Empty(out.MissingSteps)

	s.Assert().Equal(coc.CreationStepReview, s.draft.Progress.CurrentStep)
	s.Assert().Equal(int32(100), s.draft.Progress.CompletionPercentage)
	s.Assert().Equal(0, s.roller.Remaining())
	s.Assert().Contains(s.bus.published, rpgtoolkit.EventDraftPrefix+string(engine.CommandOccupationChosen))
}

func (s *AdapterTestSuite) TestRejectedCommandRestoresDraft() {
	s.assignQuickFire()
	s.setAdultAge()
	s.apply(engine.OccupationChosen{OccupationID: "antiquarian"})
	before := s.snapshot()
	published := len(s.bus.published)

	testCases := []struct {
		name  string
		cmd   engine.Command
		check func(error) bool
	}{
		{"no quick fire selection", engine.QuickFireValueAssigned{Attribute: coc.AttributePower}, errors.IsFailedPrecondition},
		{"pool assignment under quick fire", engine.PoolValueAssigned{Attribute: coc.AttributePower, Pool: coc.PoolA}, errors.IsFailedPrecondition},
		{"reroll under quick fire", engine.AttributesRerolled{}, errors.IsFailedPrecondition},
		{"age is not a number", engine.AgeChanged{Raw: "old"}, errors.IsInvalidArgument},
		{"age out of range", engine.AgeChanged{Raw: "95"}, errors.IsInvalidArgument},
		{"unknown occupation", engine.OccupationChosen{OccupationID: "astronaut"}, errors.IsNotFound},
		{"occupation points on unrelated skill", engine.SkillPointsAllocated{SkillID: "stealth", Kind: skills.PointsOccupation, Value: 10}, errors.IsFailedPrecondition},
		{"points on cthulhu mythos", engine.SkillPointsAllocated{SkillID: coc.SkillCthulhuMythos, Kind: skills.PointsPersonal, Value: 10}, errors.IsInvalidArgument},
		{"option outside group", engine.SkillChoiceSelected{GroupID: "choice-5", Skill: skills.SkillRef{SkillID: "stealth"}}, errors.IsInvalidArgument},
		{"custom name on closed slot", engine.SpecializationResolved{SlotID: "specialization-4", CustomName: "Klingon"}, errors.IsInvalidArgument},
		{"duplicate specialization", engine.SpecializationCreated{BaseSkillID: "fighting", SpecializationID: "fighting_brawl"}, errors.IsAlreadyExists},
		{"remove predefined skill", engine.CustomSkillRemoved{SkillID: "fighting_brawl"}, errors.IsInvalidArgument},
		{"penalty without pool", engine.AgePenaltyAdjusted{Attribute: coc.AttributeStrength, Delta: 1}, errors.IsFailedPrecondition},
		{"unknown derived stat", engine.DerivedModifierAdded{Stat: "stamina", Name: "wound", Value: -1}, errors.IsInvalidArgument},
		{"missing skill modifier", engine.SkillModifierRemoved{SkillID: "listen", Name: "deafened"}, errors.IsNotFound},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := s.adapter.Apply(s.ctx, s.draft, tc.cmd)
			s.Require().Error(err)
			s.Assert().True(tc.check(err), "unexpected error code %s", errors.GetCode(err))
			s.Assert().JSONEq(before, s.snapshot())
		})
	}

	s.Assert().Len(s.bus.published, published, "rejected commands publish nothing")
}

func (s *AdapterTestSuite) TestAgeRequiresEducation() {
	err := s.adapter.Apply(s.ctx, s.draft, engine.AgeChanged{Raw: "30"})
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))
	s.Assert().Nil(s.draft.AgeModifiers)
}

func (s *AdapterTestSuite) TestRollingMethod() {
	s.roller.Push(repeat(6, 15)...)
	s.roller.Push(repeat(1, 6)...)
	s.apply(engine.AttributeMethodChosen{Method: coc.MethodRolling})

	s.Assert().Equal([]int{90, 90, 90, 90, 90}, s.draft.Generation.PoolA)
	s.Assert().Equal([]int{40, 40, 40}, s.draft.Generation.PoolB)

	s.apply(engine.PoolValueAssigned{Attribute: coc.AttributeStrength, Pool: coc.PoolA, Index: 0})
	s.Assert().Equal(90, s.draft.Attributes.Strength.Value)
	s.Assert().Len(s.draft.Generation.PoolA, 4)

	err := s.adapter.Apply(s.ctx, s.draft, engine.PoolValueAssigned{Attribute: coc.AttributeSize, Pool: coc.PoolA, Index: 0})
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	s.apply(engine.AttributeUnassigned{Attribute: coc.AttributeStrength})
	s.Assert().Equal(0, s.draft.Attributes.Strength.Value)
	s.Assert().Len(s.draft.Generation.PoolA, 5)

	s.apply(engine.PoolValueAssigned{Attribute: coc.AttributeEducation, Pool: coc.PoolB, Index: 0})
	s.roller.Push(repeat(3, 15)...)
	s.roller.Push(repeat(6, 6)...)
	s.apply(engine.AttributesRerolled{})

	s.Assert().Equal([]int{45, 45, 45, 45, 45}, s.draft.Generation.PoolA)
	s.Assert().Equal([]int{90, 90, 90}, s.draft.Generation.PoolB)
	s.Assert().False(s.draft.Generation.HasAssignments())
	s.Assert().Equal(0, s.draft.Attributes.Education.Value)
}

func (s *AdapterTestSuite) TestDiceFailureLeavesDraftUntouched() {
	before := s.snapshot()

	err := s.adapter.Apply(s.ctx, s.draft, engine.AttributeMethodChosen{Method: coc.MethodRolling})
	s.Require().Error(err)
	s.Assert().JSONEq(before, s.snapshot())
	s.Assert().Empty(s.draft.Generation.Method)
}

func (s *AdapterTestSuite) TestYoungInvestigatorSelectsLuck() {
	s.assignQuickFire()
	s.roller.Push(1, 1, 1, 6, 6, 6)
	s.apply(engine.AgeChanged{Raw: "17"})

	mods := s.draft.AgeModifiers
	s.Assert().Equal([]int{15, 90}, mods.LuckRolls)
	s.Assert().Equal(0, mods.SelectedLuckValue)
	s.Assert().Empty(mods.EducationRolls)
	s.Assert().Equal(75, s.draft.FinalAttributes.Education.Value)
	s.Assert().Equal(55, s.draft.FinalAttributes.Strength.Value)
	s.Assert().Equal(45, s.draft.FinalAttributes.Size.Value)
	s.Assert().False(s.draft.Progress.HasStep(coc.ProgressStepAge))

	s.apply(engine.LuckValueSelected{Index: 1})
	s.Assert().Equal(90, s.draft.Derived.Luck.Maximum)
	s.Assert().True(s.draft.Progress.HasStep(coc.ProgressStepAge))

	// growing up keeps the selected roll and rolls one education check
	s.roller.Push(95, 4)
	s.apply(engine.AgeChanged{Raw: "25"})
	s.Assert().Equal([]int{90}, s.draft.AgeModifiers.LuckRolls)
	s.Assert().Equal(84, s.draft.FinalAttributes.Education.Value)
}

func (s *AdapterTestSuite) TestOlderInvestigatorAllocatesPenalty() {
	s.assignQuickFire()
	s.roller.Push(2, 2, 2, 10, 20, 30)
	s.apply(engine.AgeChanged{Raw: "52"})

	mods := s.draft.AgeModifiers
	s.Assert().Equal(10, mods.PenaltyPoints)
	s.Assert().Equal(10, mods.AppearanceReduction)
	s.Assert().Len(mods.EducationRolls, 3)
	s.Assert().Equal(30, s.draft.FinalAttributes.Appearance.Value)
	s.Assert().Equal(7, s.draft.Derived.Movement.Base, "two points lost in the fifties")
	s.Assert().False(s.draft.Progress.HasStep(coc.ProgressStepAge))

	for i := 0; i < 6; i++ {
		s.apply(engine.AgePenaltyAdjusted{Attribute: coc.AttributeStrength, Delta: 1})
	}
	for i := 0; i < 4; i++ {
		s.apply(engine.AgePenaltyAdjusted{Attribute: coc.AttributeDexterity, Delta: 1})
	}
	err := s.adapter.Apply(s.ctx, s.draft, engine.AgePenaltyAdjusted{Attribute: coc.AttributeConstitution, Delta: 1})
	s.Require().Error(err)
	s.Assert().True(errors.IsResourceExhausted(err))

	s.Assert().Equal(54, s.draft.FinalAttributes.Strength.Value)
	s.Assert().Equal(56, s.draft.FinalAttributes.Dexterity.Value)
	s.Assert().True(s.draft.Progress.HasStep(coc.ProgressStepAge))

	// same decade, same pool: the allocation survives
	s.apply(engine.AgeChanged{Raw: "58"})
	s.Assert().Equal(6, s.draft.AgeModifiers.StrengthReduction)
	s.Assert().True(s.draft.Progress.HasStep(coc.ProgressStepAge))
}

func (s *AdapterTestSuite) TestChangingOccupationResetsSelections() {
	s.assignQuickFire()
	s.setAdultAge()
	s.apply(engine.OccupationChosen{OccupationID: "antiquarian"})
	s.apply(engine.SkillChoiceSelected{GroupID: "choice-5", Skill: skills.SkillRef{SkillID: "charm"}})
	s.apply(engine.SkillPointsAllocated{SkillID: "charm", Kind: skills.PointsOccupation, Value: 40})
	s.apply(engine.SkillPointsAllocated{SkillID: "charm", Kind: skills.PointsPersonal, Value: 10})

	s.apply(engine.OccupationChosen{OccupationID: "antiquarian"})
	s.Assert().Equal(40, s.draft.FindSkill("charm").OccupationValue, "choosing the same occupation is a no-op")

	s.apply(engine.OccupationChosen{OccupationID: "police_detective"})
	charm := s.draft.FindSkill("charm")
	s.Assert().Equal(0, charm.OccupationValue)
	s.Assert().Equal(10, charm.PersonalValue)
	s.Assert().Empty(s.draft.Selections.Choices)
	s.Assert().Equal(0, s.draft.Budget.OccupationSpent)
	s.Assert().Equal(280, s.draft.Budget.OccupationPoints)
}

func (s *AdapterTestSuite) TestEvictedChoiceLosesOccupationPoints() {
	s.assignQuickFire()
	s.setAdultAge()
	s.apply(engine.OccupationChosen{OccupationID: "antiquarian"})

	s.apply(engine.SkillChoiceSelected{GroupID: "choice-5", Skill: skills.SkillRef{SkillID: "charm"}})
	s.apply(engine.SkillPointsAllocated{SkillID: "charm", Kind: skills.PointsOccupation, Value: 30})
	s.apply(engine.SkillChoiceSelected{GroupID: "choice-5", Skill: skills.SkillRef{SkillID: "persuade"}})

	s.Assert().Equal([]string{"persuade"}, s.draft.Selections.Choices["choice-5"])
	s.Assert().Equal(0, s.draft.FindSkill("charm").OccupationValue)
	s.Assert().Equal(0, s.draft.Budget.OccupationSpent)
}

func (s *AdapterTestSuite) TestOverspendIsInvalid() {
	s.assignQuickFire()
	s.setAdultAge()
	s.apply(engine.OccupationChosen{OccupationID: "antiquarian"})
	s.apply(engine.SkillPointsAllocated{SkillID: "appraise", Kind: skills.PointsOccupation, Value: 400})

	out, err := s.adapter.ValidateDraft(s.ctx, &engine.ValidateDraftInput{Draft: s.draft})
	s.Require().NoError(err)
	s.Assert().False(out.IsValid)
	s.Assert().False(out.IsComplete)
	s.Assert().Contains(out.MissingSteps, coc.CreationStepSkills)

	var fields []string
	for _, e := range out.Errors {
		fields = append(fields, e.Field)
	}
	s.Assert().Contains(fields, skills.ErrOccupationPointsExceeded)
	s.Assert().Equal(-80, s.draft.Budget.OccupationRemaining())
}

func (s *AdapterTestSuite) TestUnfinishedDraftIsValid() {
	out, err := s.adapter.ValidateDraft(s.ctx, &engine.ValidateDraftInput{Draft: s.draft})
	s.Require().NoError(err)
	s.Assert().True(out.IsValid)
	s.Assert().False(out.IsComplete)
	s.Assert().Equal([]coc.CreationStep{
		coc.CreationStepBasicInfo,
		coc.CreationStepAttributes,
		coc.CreationStepAge,
		coc.CreationStepOccupation,
		coc.CreationStepSkills,
	}, out.MissingSteps)

	_, err = s.adapter.ValidateDraft(s.ctx, &engine.ValidateDraftInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *AdapterTestSuite) TestModifiers() {
	s.assignQuickFire()
	s.setAdultAge()

	s.apply(engine.DerivedModifierAdded{Stat: coc.DerivedHitPoints, Name: "bruised", Value: -3})
	s.Assert().Equal(7, s.draft.Derived.HitPoints.Effective())
	s.Require().Len(s.draft.Derived.HitPoints.Modifiers, 1)
	s.Assert().Equal(s.clock.At, s.draft.Derived.HitPoints.Modifiers[0].CreatedAt)

	// modifiers survive recalculation
	s.apply(engine.BasicInfoUpdated{Name: "Harvey"})
	s.Assert().Equal(7, s.draft.Derived.HitPoints.Effective())

	s.apply(engine.DerivedModifierRemoved{Stat: coc.DerivedHitPoints, Name: "bruised"})
	s.Assert().Empty(s.draft.Derived.HitPoints.Modifiers)

	s.apply(engine.SkillModifierAdded{SkillID: "listen", Name: "keen ears", Value: 5})
	s.Assert().Equal(25, s.draft.FindSkill("listen").TotalValue)
	s.apply(engine.SkillModifierRemoved{SkillID: "listen", Name: "keen ears"})
	s.Assert().Equal(20, s.draft.FindSkill("listen").TotalValue)
}

func (s *AdapterTestSuite) TestCustomSpecializationLifecycle() {
	s.apply(engine.SpecializationCreated{BaseSkillID: "science", CustomName: "Cryptozoology"})
	id := "science_custom_cryptozoology"
	s.Require().True(s.draft.HasSkill(id))
	s.Assert().True(s.draft.FindSkill(id).IsCustom)

	s.apply(engine.SkillPointsAllocated{SkillID: id, Kind: skills.PointsPersonal, Value: 20})
	s.Assert().Equal(21, s.draft.FindSkill(id).TotalValue)

	s.apply(engine.CustomSkillRemoved{SkillID: id})
	s.Assert().False(s.draft.HasSkill(id))
	s.Assert().Equal(0, s.draft.Budget.PersonalSpent)
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}
