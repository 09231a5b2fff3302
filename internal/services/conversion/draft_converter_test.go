package conversion_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/conversion"
)

func finishedDraft() *coc.CharacterDraft {
	d := &coc.CharacterDraft{
		ID:           "draft_1",
		PlayerID:     "player_1",
		Name:         "Harvey Walters",
		Residence:    "Boston",
		Age:          42,
		OccupationID: "journalist",
		Skills: []coc.Skill{
			{ID: coc.SkillCreditRating, OccupationValue: 25},
			{ID: "spot_hidden", BaseValue: 25, PersonalValue: 20, Modifiers: []coc.SkillModifier{{Name: "glasses", Value: 5}}},
		},
		Derived: coc.DerivedStats{
			HitPoints: coc.DerivedValue{Maximum: 11, Current: 11, Modifiers: []coc.Modifier{{Name: "bruised", Value: -2}}},
		},
	}
	d.Attributes.Set(coc.AttributeEducation, 70)
	d.FinalAttributes.Set(coc.AttributeEducation, 78)
	d.FinalAttributes.Set(coc.AttributeStrength, 55)
	return d
}

func TestToCharacter(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	converter := conversion.NewDraftConverter(&conversion.DraftConverterConfig{Clock: &clock.Fixed{At: now}})

	draft := finishedDraft()
	char, err := converter.ToCharacter(draft)
	require.NoError(t, err)

	assert.Equal(t, coc.CurrentSchemaVersion, char.SchemaVersion)
	assert.Empty(t, char.ID, "ids are assigned by the repository")
	assert.Equal(t, "Harvey Walters", char.Identity.Name)
	assert.Equal(t, "player_1", char.Identity.Player)
	assert.Equal(t, "journalist", char.Identity.Occupation)
	assert.Equal(t, 42, char.Identity.Age)
	assert.Equal(t, "Boston", char.Identity.Residence)

	assert.Equal(t, 78, char.Attributes.Education.Value, "records carry the age modified values")
	assert.Equal(t, 15, char.Attributes.Education.FifthValue)

	require.Len(t, char.Skills, 2)
	assert.Equal(t, 25, char.Skills[0].TotalValue)
	assert.Equal(t, 50, char.Skills[1].TotalValue)

	assert.Equal(t, 25, char.Finance.CreditRating)
	assert.Equal(t, 10.0, char.Finance.SpendingLevel)
	assert.Equal(t, 50.0, char.Finance.Cash)
	assert.Equal(t, 1250.0, char.Finance.Assets)

	assert.Equal(t, 9, char.Derived.HitPoints.Effective())
	assert.Equal(t, now, char.CreatedAt)

	// the record does not share slices with the draft
	draft.Skills[1].Modifiers[0].Value = 50
	draft.Derived.HitPoints.Modifiers[0].Value = 0
	assert.Equal(t, 5, char.Skills[1].Modifiers[0].Value)
	assert.Equal(t, -2, char.Derived.HitPoints.Modifiers[0].Value)
}

func TestToCharacterRequiresIdentity(t *testing.T) {
	converter := conversion.NewDraftConverter(nil)

	_, err := converter.ToCharacter(nil)
	assert.True(t, errors.IsInvalidArgument(err))

	draft := finishedDraft()
	draft.Name = ""
	draft.OccupationID = ""
	_, err = converter.ToCharacter(draft)
	require.Error(t, err)
	assert.True(t, errors.IsFailedPrecondition(err))

	fields := errors.FieldErrors(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "occupation")
}

func TestNormalize(t *testing.T) {
	converter := conversion.NewDraftConverter(nil)

	char := &coc.Character{
		Attributes: coc.Attributes{Power: coc.Attribute{Value: 65, HalfValue: 1, FifthValue: 1}},
		Skills: []coc.Skill{
			{ID: coc.SkillCreditRating, BaseValue: 0, OccupationValue: 60, TotalValue: 3},
		},
	}
	converter.Normalize(char)

	assert.Equal(t, 32, char.Attributes.Power.HalfValue)
	assert.Equal(t, 13, char.Attributes.Power.FifthValue)
	assert.Equal(t, 60, char.Skills[0].TotalValue)
	assert.Equal(t, 50.0, char.Finance.SpendingLevel)
	assert.Equal(t, 300.0, char.Finance.Cash)

	converter.Normalize(nil)
}
