package coc

// CharacteristicSlot is a generation-time target for an assigned value
type CharacteristicSlot struct {
	Key     AttributeKey `json:"key"`
	Min     int          `json:"min"`
	Max     int          `json:"max"`
	Current *int         `json:"current,omitempty"`
	Pool    Pool         `json:"pool"`
}

// Accepts reports whether v is within the slot bounds
func (s CharacteristicSlot) Accepts(v int) bool {
	return v >= s.Min && v <= s.Max
}

// IsAssigned reports whether the slot holds a value
func (s CharacteristicSlot) IsAssigned() bool {
	return s.Current != nil
}

// AttributeGeneration is the state of the attribute step.
// Pools are kept sorted in descending order.
type AttributeGeneration struct {
	Method    GenerationMethod     `json:"method"`
	Slots     []CharacteristicSlot `json:"slots"`
	PoolA     []int                `json:"poolA,omitempty"`
	PoolB     []int                `json:"poolB,omitempty"`
	QuickFire []int                `json:"quickFire,omitempty"`
	// Selected is the quick fire index picked for assignment, -1 when none
	Selected int `json:"selected"`
}

// Slot returns the slot for key or nil
func (g *AttributeGeneration) Slot(key AttributeKey) *CharacteristicSlot {
	for i := range g.Slots {
		if g.Slots[i].Key == key {
			return &g.Slots[i]
		}
	}
	return nil
}

// AssignedCount returns how many slots of the given pool hold a value
func (g *AttributeGeneration) AssignedCount(pool Pool) int {
	n := 0
	for _, s := range g.Slots {
		if s.Pool == pool && s.IsAssigned() {
			n++
		}
	}
	return n
}

// HasAssignments reports whether any slot holds a value
func (g *AttributeGeneration) HasAssignments() bool {
	for _, s := range g.Slots {
		if s.IsAssigned() {
			return true
		}
	}
	return false
}

// EducationRoll is one education improvement check
type EducationRoll struct {
	Roll    int  `json:"roll" yaml:"roll"`
	Success bool `json:"success" yaml:"success"`
	Bonus   int  `json:"bonus" yaml:"bonus"`
}

// AgeModifiers holds the age step state for the current age
type AgeModifiers struct {
	Age                   int             `json:"age"`
	StrengthReduction     int             `json:"strengthReduction"`
	ConstitutionReduction int             `json:"constitutionReduction"`
	DexterityReduction    int             `json:"dexterityReduction"`
	SizeReduction         int             `json:"sizeReduction"`
	AppearanceReduction   int             `json:"appearanceReduction"`
	EducationReduction    int             `json:"educationReduction"`
	EducationBonusRolls   int             `json:"educationBonusRolls"`
	EducationRolls        []EducationRoll `json:"educationRolls"`
	LuckRolls             []int           `json:"luckRolls"`
	SelectedLuckValue     int             `json:"selectedLuckValue"`
	// PenaltyPoints is the pool older characters spread over STR/CON/DEX
	PenaltyPoints int `json:"penaltyPoints"`
}

// EducationBonus sums the bonus of successful education rolls
func (m *AgeModifiers) EducationBonus() int {
	total := 0
	for _, r := range m.EducationRolls {
		total += r.Bonus
	}
	return total
}

// PenaltyAllocated returns the points spread over STR/CON/DEX
func (m *AgeModifiers) PenaltyAllocated() int {
	return m.StrengthReduction + m.ConstitutionReduction + m.DexterityReduction
}

// PenaltyRemaining returns the unallocated penalty points
func (m *AgeModifiers) PenaltyRemaining() int {
	return m.PenaltyPoints - m.PenaltyAllocated()
}

// SkillBudget tracks the two skill point budgets
type SkillBudget struct {
	OccupationPoints int    `json:"occupationPoints"`
	PersonalPoints   int    `json:"personalPoints"`
	OccupationSpent  int    `json:"occupationSpent"`
	PersonalSpent    int    `json:"personalSpent"`
	FormulaError     string `json:"formulaError,omitempty"`
}

// OccupationRemaining returns the unspent occupation points, possibly negative
func (b SkillBudget) OccupationRemaining() int {
	return b.OccupationPoints - b.OccupationSpent
}

// PersonalRemaining returns the unspent personal points, possibly negative
func (b SkillBudget) PersonalRemaining() int {
	return b.PersonalPoints - b.PersonalSpent
}

// SkillSelections records the player's occupation skill picks.
// Choice picks are kept in selection order.
type SkillSelections struct {
	Choices         map[string][]string `json:"choices,omitempty"`
	Specializations map[string]string   `json:"specializations,omitempty"`
	Any             []string            `json:"any,omitempty"`
}

// Reset clears every selection
func (s *SkillSelections) Reset() {
	s.Choices = map[string][]string{}
	s.Specializations = map[string]string{}
	s.Any = nil
}

// CreationProgress tracks completion of creation steps using bitflags
type CreationProgress struct {
	StepsCompleted       uint8        `json:"stepsCompleted"`
	CompletionPercentage int32        `json:"completionPercentage"`
	CurrentStep          CreationStep `json:"currentStep"`
}

// HasStep checks if a specific step is completed
func (p CreationProgress) HasStep(step uint8) bool {
	return p.StepsCompleted&step != 0
}

// SetStep marks a step as completed or not
func (p *CreationProgress) SetStep(step uint8, completed bool) {
	if completed {
		p.StepsCompleted |= step
	} else {
		p.StepsCompleted &^= step
	}
}

// CharacterDraft is the in-progress character owned by one editing session.
// Attributes hold the assigned values; FinalAttributes are the age-modified
// values every downstream calculation reads.
type CharacterDraft struct {
	ID         string `json:"id"`
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	Gender     string `json:"gender,omitempty"`
	Residence  string `json:"residence,omitempty"`
	Birthplace string `json:"birthplace,omitempty"`
	Age        int    `json:"age"`

	OccupationID string `json:"occupationId,omitempty"`

	Attributes      Attributes           `json:"attributes"`
	FinalAttributes Attributes           `json:"finalAttributes"`
	Generation      *AttributeGeneration `json:"generation,omitempty"`
	AgeModifiers    *AgeModifiers        `json:"ageModifiers,omitempty"`

	Budget     SkillBudget     `json:"budget"`
	Selections SkillSelections `json:"selections"`
	Skills     []Skill         `json:"skills"`
	Derived    DerivedStats    `json:"derived"`

	Progress  CreationProgress `json:"progress"`
	ExpiresAt int64            `json:"expiresAt,omitempty"`
	CreatedAt int64            `json:"createdAt"`
	UpdatedAt int64            `json:"updatedAt"`
}

// FindSkill returns the skill with id or nil
func (d *CharacterDraft) FindSkill(id string) *Skill {
	for i := range d.Skills {
		if d.Skills[i].ID == id {
			return &d.Skills[i]
		}
	}
	return nil
}

// HasSkill reports whether a skill with id exists on the draft
func (d *CharacterDraft) HasSkill(id string) bool {
	return d.FindSkill(id) != nil
}
