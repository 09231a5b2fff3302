// Package coc holds the Call of Cthulhu character entities shared by the rules
// engine, the repositories and the import/export codec.
package coc

// AttributeKey identifies one of the eight characteristics
type AttributeKey string

// Characteristics
const (
	AttributeStrength     AttributeKey = "strength"
	AttributeConstitution AttributeKey = "constitution"
	AttributeSize         AttributeKey = "size"
	AttributeDexterity    AttributeKey = "dexterity"
	AttributeAppearance   AttributeKey = "appearance"
	AttributeIntelligence AttributeKey = "intelligence"
	AttributePower        AttributeKey = "power"
	AttributeEducation    AttributeKey = "education"
)

// AllAttributes lists the characteristics in sheet order
var AllAttributes = []AttributeKey{
	AttributeStrength,
	AttributeConstitution,
	AttributeSize,
	AttributeDexterity,
	AttributeAppearance,
	AttributeIntelligence,
	AttributePower,
	AttributeEducation,
}

// IsValid reports whether k names one of the eight characteristics
func (k AttributeKey) IsValid() bool {
	for _, a := range AllAttributes {
		if a == k {
			return true
		}
	}
	return false
}

// Pool identifies which rolled pool feeds a characteristic
type Pool string

// Rolling pools
const (
	PoolA Pool = "A" // 3d6x5: STR, CON, DEX, APP, POW
	PoolB Pool = "B" // (2d6+6)x5: INT, SIZ, EDU
)

// GenerationMethod is the attribute generation method
type GenerationMethod string

// Generation methods
const (
	MethodRolling   GenerationMethod = "rolling"
	MethodQuickFire GenerationMethod = "quick_fire"
)

// AgeBand groups ages sharing the same modifier rules
type AgeBand string

// Age bands
const (
	AgeBandYoung AgeBand = "young" // 15-19
	AgeBandAdult AgeBand = "adult" // 20-39
	AgeBandOlder AgeBand = "older" // 40+
)

// Age limits
const (
	MinAge = 15
	MaxAge = 90
)

// Attribute limits
const (
	MinAttributeValue = 0
	MaxAttributeValue = 99
)

// FormulaMode is the discriminant of a SkillPointFormula
type FormulaMode string

// Formula modes
const (
	FormulaSimple     FormulaMode = "simple"
	FormulaChoice     FormulaMode = "choice"
	FormulaComposite  FormulaMode = "composite"
	FormulaCumulative FormulaMode = "cumulative"
)

// SkillSpecKind is the discriminant of an OccupationSkillSpec
type SkillSpecKind string

// Occupation skill spec kinds
const (
	SkillSpecDirect         SkillSpecKind = "direct"
	SkillSpecChoice         SkillSpecKind = "choice"
	SkillSpecSpecialization SkillSpecKind = "specialization"
	SkillSpecAny            SkillSpecKind = "any"
	SkillSpecMixedChoice    SkillSpecKind = "mixed_choice"
)

// Skill IDs the engine treats specially
const (
	SkillCreditRating  = "credit_rating"
	SkillCthulhuMythos = "cthulhu_mythos"
	SkillDodge         = "dodge"
	SkillLanguageOwn   = "language_own"
)

// Derived stat names accepted by modifier operations
const (
	DerivedHitPoints   = "hit_points"
	DerivedSanity      = "sanity"
	DerivedMagicPoints = "magic_points"
	DerivedLuck        = "luck"
	DerivedMovement    = "movement"
)

// Creation step bitflags
const (
	ProgressStepBasicInfo  uint8 = 1 << iota // 1
	ProgressStepAttributes                   // 2
	ProgressStepAge                          // 4
	ProgressStepOccupation                   // 8
	ProgressStepSkills                       // 16
)

// CreationStep names a step of the creation flow
type CreationStep string

// Creation steps
const (
	CreationStepBasicInfo  CreationStep = "basic_info"
	CreationStepAttributes CreationStep = "attributes"
	CreationStepAge        CreationStep = "age"
	CreationStepOccupation CreationStep = "occupation"
	CreationStepSkills     CreationStep = "skills"
	CreationStepReview     CreationStep = "review"
)
