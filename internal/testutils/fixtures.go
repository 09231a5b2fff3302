// Package testutils provides fixtures and fakes shared by package tests
package testutils

import (
	"time"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

// Fixture defaults
const (
	TestPlayerID      = "player-test-001"
	TestCharacterName = "Harvey Walters"
)

// FixtureTime is the creation time of every fixture
var FixtureTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// NewTestCharacter returns a consistent finished antiquarian record.
// Derived modifier lists are empty, not nil, matching a decoded document.
func NewTestCharacter() *coc.Character {
	var attrs coc.Attributes
	for key, value := range map[coc.AttributeKey]int{
		coc.AttributeStrength:     50,
		coc.AttributeConstitution: 60,
		coc.AttributeSize:         55,
		coc.AttributeDexterity:    65,
		coc.AttributeAppearance:   45,
		coc.AttributeIntelligence: 80,
		coc.AttributePower:        60,
		coc.AttributeEducation:    75,
	} {
		attrs.Set(key, value)
	}

	derived := func(v int) coc.DerivedValue {
		return coc.DerivedValue{Maximum: v, Current: v, Modifiers: []coc.Modifier{}}
	}

	return &coc.Character{
		SchemaVersion: coc.CurrentSchemaVersion,
		ID:            "char-test-001",
		PlayerID:      TestPlayerID,
		Identity: coc.Identity{
			Name:       TestCharacterName,
			Player:     TestPlayerID,
			Occupation: "antiquarian",
			Age:        42,
			Residence:  "Arkham",
			Birthplace: "Boston",
		},
		Attributes: attrs,
		Derived: coc.DerivedStats{
			HitPoints:   derived(11),
			Sanity:      derived(60),
			MagicPoints: derived(12),
			Luck:        derived(50),
			Movement: coc.Movement{
				Base:      8,
				Running:   40,
				Climbing:  4,
				Swimming:  4,
				Modifiers: []coc.Modifier{},
			},
			Build:       0,
			DamageBonus: "0",
		},
		Skills: []coc.Skill{
			{ID: "appraise", BaseValue: 5, OccupationValue: 50, TotalValue: 55},
			{ID: "credit_rating", BaseValue: 0, OccupationValue: 40, TotalValue: 40},
			{ID: "library_use", BaseValue: 20, OccupationValue: 50, TotalValue: 70},
			{ID: "spot_hidden", BaseValue: 25, PersonalValue: 20, TotalValue: 45},
		},
		Finance: coc.Finance{
			CreditRating:  40,
			SpendingLevel: 10,
			Cash:          80,
			Assets:        2000,
		},
		CreatedAt: FixtureTime,
		UpdatedAt: FixtureTime,
	}
}
