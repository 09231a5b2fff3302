package coc

// FormulaTerm is one attribute x multiplier pair of a skill point formula
type FormulaTerm struct {
	Attribute  AttributeKey `json:"attribute" yaml:"attribute"`
	Multiplier int          `json:"multiplier" yaml:"multiplier"`
}

// SkillPointFormula computes a skill point budget from attributes.
// Mode selects how Terms (and ChoiceTerms for composite) combine.
type SkillPointFormula struct {
	Mode        FormulaMode   `json:"mode" yaml:"mode"`
	Terms       []FormulaTerm `json:"terms" yaml:"terms"`
	ChoiceTerms []FormulaTerm `json:"choiceTerms,omitempty" yaml:"choiceTerms,omitempty"`
}

// SkillOption is an entry of a choice group. When Specialization is set,
// SkillID names a base skill and picking it requires a specialization.
type SkillOption struct {
	SkillID        string `json:"skillId" yaml:"skillId"`
	Specialization bool   `json:"specialization,omitempty" yaml:"specialization,omitempty"`
}

// OccupationSkillSpec describes one entry of an occupation's skill list
type OccupationSkillSpec struct {
	Kind SkillSpecKind `json:"kind" yaml:"kind"`

	// direct
	SkillID string `json:"skillId,omitempty" yaml:"skillId,omitempty"`

	// choice, mixed_choice, any
	Count   int           `json:"count,omitempty" yaml:"count,omitempty"`
	Options []SkillOption `json:"options,omitempty" yaml:"options,omitempty"`

	// specialization
	BaseSkillID string   `json:"baseSkillId,omitempty" yaml:"baseSkillId,omitempty"`
	AllowCustom bool     `json:"allowCustom,omitempty" yaml:"allowCustom,omitempty"`
	Suggested   []string `json:"suggested,omitempty" yaml:"suggested,omitempty"`
}

// CreditRatingRange bounds the credit rating skill for an occupation
type CreditRatingRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Occupation is a read-only catalog entry
type Occupation struct {
	ID                    string                `json:"id" yaml:"id"`
	CreditRating          CreditRatingRange     `json:"creditRating" yaml:"creditRating"`
	OccupationPoints      SkillPointFormula     `json:"occupationPoints" yaml:"occupationPoints"`
	PersonalPoints        SkillPointFormula     `json:"personalPoints" yaml:"personalPoints"`
	Skills                []OccupationSkillSpec `json:"skills" yaml:"skills"`
	SuggestedContacts     []string              `json:"suggestedContacts,omitempty" yaml:"suggestedContacts,omitempty"`
	RecommendedAttributes []AttributeKey        `json:"recommendedAttributes,omitempty" yaml:"recommendedAttributes,omitempty"`
}
