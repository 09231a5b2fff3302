package coc

import "time"

// SkillModifier is a named adjustment applied on top of a skill's points
type SkillModifier struct {
	Name      string    `json:"name" yaml:"name"`
	Value     int       `json:"value" yaml:"value"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Skill is a skill instance on a character
type Skill struct {
	ID              string          `json:"id" yaml:"id"`
	BaseValue       int             `json:"baseValue" yaml:"baseValue"`
	PersonalValue   int             `json:"personalValue" yaml:"personalValue"`
	OccupationValue int             `json:"occupationValue" yaml:"occupationValue"`
	TotalValue      int             `json:"totalValue" yaml:"totalValue"`
	ParentSkillID   string          `json:"parentSkillId,omitempty" yaml:"parentSkillId,omitempty"`
	CustomName      string          `json:"customName,omitempty" yaml:"customName,omitempty"`
	IsCustom        bool            `json:"isCustom,omitempty" yaml:"isCustom,omitempty"`
	Modifiers       []SkillModifier `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

// Recompute refreshes TotalValue from its parts
func (s *Skill) Recompute() {
	total := s.BaseValue + s.PersonalValue + s.OccupationValue
	for _, m := range s.Modifiers {
		total += m.Value
	}
	s.TotalValue = total
}

// SpecializationDefinition is a predefined specialization of a base skill
type SpecializationDefinition struct {
	ID        string `json:"id" yaml:"id"`
	BaseValue *int   `json:"baseValue,omitempty" yaml:"baseValue,omitempty"`
	// Default specializations are present on every new draft
	Default bool `json:"default,omitempty" yaml:"default,omitempty"`
}

// SkillDefinition is a catalog skill. A skill whose base value follows an
// attribute sets BaseAttribute and BaseDivisor (Dodge is DEX/2).
type SkillDefinition struct {
	ID              string                     `json:"id" yaml:"id"`
	BaseValue       int                        `json:"baseValue" yaml:"baseValue"`
	BaseAttribute   AttributeKey               `json:"baseAttribute,omitempty" yaml:"baseAttribute,omitempty"`
	BaseDivisor     int                        `json:"baseDivisor,omitempty" yaml:"baseDivisor,omitempty"`
	Specializable   bool                       `json:"specializable,omitempty" yaml:"specializable,omitempty"`
	Specializations []SpecializationDefinition `json:"specializations,omitempty" yaml:"specializations,omitempty"`
	// Restricted skills cannot receive creation points
	Restricted bool `json:"restricted,omitempty" yaml:"restricted,omitempty"`
}

// BaseFor returns the base value of the skill for the given attributes
func (d SkillDefinition) BaseFor(attrs Attributes) int {
	if d.BaseAttribute == "" {
		return d.BaseValue
	}
	divisor := d.BaseDivisor
	if divisor <= 0 {
		divisor = 1
	}
	return attrs.Value(d.BaseAttribute) / divisor
}
