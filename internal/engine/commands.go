package engine

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/skills"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

// CommandType discriminates commands
type CommandType string

// Command types
const (
	CommandBasicInfoUpdated       CommandType = "basic_info_updated"
	CommandAttributeMethodChosen  CommandType = "attribute_method_chosen"
	CommandPoolValueAssigned      CommandType = "pool_value_assigned"
	CommandQuickFireValueSelected CommandType = "quick_fire_value_selected"
	CommandQuickFireValueAssigned CommandType = "quick_fire_value_assigned"
	CommandAttributeUnassigned    CommandType = "attribute_unassigned"
	CommandAttributesRerolled     CommandType = "attributes_rerolled"
	CommandAgeChanged             CommandType = "age_changed"
	CommandLuckValueSelected      CommandType = "luck_value_selected"
	CommandAgePenaltyAdjusted     CommandType = "age_penalty_adjusted"
	CommandOccupationChosen       CommandType = "occupation_chosen"
	CommandSkillChoiceSelected    CommandType = "skill_choice_selected"
	CommandSkillChoiceRemoved     CommandType = "skill_choice_removed"
	CommandSpecializationResolved CommandType = "specialization_resolved"
	CommandSpecializationCreated  CommandType = "specialization_created"
	CommandCustomSkillRemoved     CommandType = "custom_skill_removed"
	CommandAnySkillSelected       CommandType = "any_skill_selected"
	CommandAnySkillRemoved        CommandType = "any_skill_removed"
	CommandSkillPointsAllocated   CommandType = "skill_points_allocated"
	CommandSkillModifierAdded     CommandType = "skill_modifier_added"
	CommandSkillModifierRemoved   CommandType = "skill_modifier_removed"
	CommandDerivedModifierAdded   CommandType = "derived_modifier_added"
	CommandDerivedModifierRemoved CommandType = "derived_modifier_removed"
)

// Command is a change requested on a draft
type Command interface {
	CommandType() CommandType
}

// BasicInfoUpdated sets the descriptive fields. Empty fields are left as is.
type BasicInfoUpdated struct {
	Name       string `json:"name" yaml:"name"`
	Gender     string `json:"gender" yaml:"gender"`
	Residence  string `json:"residence" yaml:"residence"`
	Birthplace string `json:"birthplace" yaml:"birthplace"`
}

// AttributeMethodChosen switches the generation method
type AttributeMethodChosen struct {
	Method coc.GenerationMethod `json:"method" yaml:"method"`
}

// PoolValueAssigned assigns a Rolling pool value to a characteristic
type PoolValueAssigned struct {
	Attribute coc.AttributeKey `json:"attribute" yaml:"attribute"`
	Pool      coc.Pool         `json:"pool" yaml:"pool"`
	Index     int              `json:"index" yaml:"index"`
}

// QuickFireValueSelected toggles the selection of a Quick Fire value
type QuickFireValueSelected struct {
	Index int `json:"index" yaml:"index"`
}

// QuickFireValueAssigned assigns the selected Quick Fire value
type QuickFireValueAssigned struct {
	Attribute coc.AttributeKey `json:"attribute" yaml:"attribute"`
}

// AttributeUnassigned returns a characteristic's value to its pool
type AttributeUnassigned struct {
	Attribute coc.AttributeKey `json:"attribute" yaml:"attribute"`
}

// AttributesRerolled rolls fresh Rolling pools
type AttributesRerolled struct{}

// AgeChanged carries the raw age input
type AgeChanged struct {
	Raw string `json:"raw" yaml:"raw"`
}

// LuckValueSelected picks one of the luck rolls
type LuckValueSelected struct {
	Index int `json:"index" yaml:"index"`
}

// AgePenaltyAdjusted moves one age penalty point
type AgePenaltyAdjusted struct {
	Attribute coc.AttributeKey `json:"attribute" yaml:"attribute"`
	Delta     int              `json:"delta" yaml:"delta"`
}

// OccupationChosen selects an occupation from the catalog
type OccupationChosen struct {
	OccupationID string `json:"occupationId" yaml:"occupationId"`
}

// SkillChoiceSelected picks an option of a choice group
type SkillChoiceSelected struct {
	GroupID string          `json:"groupId" yaml:"groupId"`
	Skill   skills.SkillRef `json:"skill" yaml:"skill"`
}

// SkillChoiceRemoved removes a pick from a choice group
type SkillChoiceRemoved struct {
	GroupID string `json:"groupId" yaml:"groupId"`
	SkillID string `json:"skillId" yaml:"skillId"`
}

// SpecializationResolved fills a specialization slot
type SpecializationResolved struct {
	SlotID           string `json:"slotId" yaml:"slotId"`
	SpecializationID string `json:"specializationId" yaml:"specializationId"`
	CustomName       string `json:"customName" yaml:"customName"`
}

// SpecializationCreated adds a specialization skill outside any slot
type SpecializationCreated struct {
	BaseSkillID      string `json:"baseSkillId" yaml:"baseSkillId"`
	SpecializationID string `json:"specializationId" yaml:"specializationId"`
	CustomName       string `json:"customName" yaml:"customName"`
}

// CustomSkillRemoved removes a custom specialization
type CustomSkillRemoved struct {
	SkillID string `json:"skillId" yaml:"skillId"`
}

// AnySkillSelected picks a free occupation skill
type AnySkillSelected struct {
	SkillID string `json:"skillId" yaml:"skillId"`
}

// AnySkillRemoved removes a free occupation skill pick
type AnySkillRemoved struct {
	SkillID string `json:"skillId" yaml:"skillId"`
}

// SkillPointsAllocated sets the occupation or personal points of a skill
type SkillPointsAllocated struct {
	SkillID string           `json:"skillId" yaml:"skillId"`
	Kind    skills.PointKind `json:"kind" yaml:"kind"`
	Value   int              `json:"value" yaml:"value"`
}

// SkillModifierAdded layers a named modifier on a skill
type SkillModifierAdded struct {
	SkillID string `json:"skillId" yaml:"skillId"`
	Name    string `json:"name" yaml:"name"`
	Value   int    `json:"value" yaml:"value"`
}

// SkillModifierRemoved removes a named skill modifier
type SkillModifierRemoved struct {
	SkillID string `json:"skillId" yaml:"skillId"`
	Name    string `json:"name" yaml:"name"`
}

// DerivedModifierAdded layers a named modifier on a derived stat
type DerivedModifierAdded struct {
	Stat  string `json:"stat" yaml:"stat"`
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// DerivedModifierRemoved removes a named derived stat modifier
type DerivedModifierRemoved struct {
	Stat string `json:"stat" yaml:"stat"`
	Name string `json:"name" yaml:"name"`
}

func (BasicInfoUpdated) CommandType() CommandType       { return CommandBasicInfoUpdated }
func (AttributeMethodChosen) CommandType() CommandType  { return CommandAttributeMethodChosen }
func (PoolValueAssigned) CommandType() CommandType      { return CommandPoolValueAssigned }
func (QuickFireValueSelected) CommandType() CommandType { return CommandQuickFireValueSelected }
func (QuickFireValueAssigned) CommandType() CommandType { return CommandQuickFireValueAssigned }
func (AttributeUnassigned) CommandType() CommandType    { return CommandAttributeUnassigned }
func (AttributesRerolled) CommandType() CommandType     { return CommandAttributesRerolled }
func (AgeChanged) CommandType() CommandType             { return CommandAgeChanged }
func (LuckValueSelected) CommandType() CommandType      { return CommandLuckValueSelected }
func (AgePenaltyAdjusted) CommandType() CommandType     { return CommandAgePenaltyAdjusted }
func (OccupationChosen) CommandType() CommandType       { return CommandOccupationChosen }
func (SkillChoiceSelected) CommandType() CommandType    { return CommandSkillChoiceSelected }
func (SkillChoiceRemoved) CommandType() CommandType     { return CommandSkillChoiceRemoved }
func (SpecializationResolved) CommandType() CommandType { return CommandSpecializationResolved }
func (SpecializationCreated) CommandType() CommandType  { return CommandSpecializationCreated }
func (CustomSkillRemoved) CommandType() CommandType     { return CommandCustomSkillRemoved }
func (AnySkillSelected) CommandType() CommandType       { return CommandAnySkillSelected }
func (AnySkillRemoved) CommandType() CommandType        { return CommandAnySkillRemoved }
func (SkillPointsAllocated) CommandType() CommandType   { return CommandSkillPointsAllocated }
func (SkillModifierAdded) CommandType() CommandType     { return CommandSkillModifierAdded }
func (SkillModifierRemoved) CommandType() CommandType   { return CommandSkillModifierRemoved }
func (DerivedModifierAdded) CommandType() CommandType   { return CommandDerivedModifierAdded }
func (DerivedModifierRemoved) CommandType() CommandType { return CommandDerivedModifierRemoved }
