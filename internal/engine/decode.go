package engine

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// Envelope is the serialized form of a command: its type next to the
// command's own fields
type Envelope struct {
	Type CommandType `json:"type" yaml:"type"`
}

// DecodeFunc fills its argument from a serialized payload, as
// json.Unmarshal or yaml.Node.Decode do
type DecodeFunc func(target any) error

var decoders = map[CommandType]func(DecodeFunc) (Command, error){
	CommandBasicInfoUpdated:       decodeAs[BasicInfoUpdated],
	CommandAttributeMethodChosen:  decodeAs[AttributeMethodChosen],
	CommandPoolValueAssigned:      decodeAs[PoolValueAssigned],
	CommandQuickFireValueSelected: decodeAs[QuickFireValueSelected],
	CommandQuickFireValueAssigned: decodeAs[QuickFireValueAssigned],
	CommandAttributeUnassigned:    decodeAs[AttributeUnassigned],
	CommandAttributesRerolled:     decodeAs[AttributesRerolled],
	CommandAgeChanged:             decodeAs[AgeChanged],
	CommandLuckValueSelected:      decodeAs[LuckValueSelected],
	CommandAgePenaltyAdjusted:     decodeAs[AgePenaltyAdjusted],
	CommandOccupationChosen:       decodeAs[OccupationChosen],
	CommandSkillChoiceSelected:    decodeAs[SkillChoiceSelected],
	CommandSkillChoiceRemoved:     decodeAs[SkillChoiceRemoved],
	CommandSpecializationResolved: decodeAs[SpecializationResolved],
	CommandSpecializationCreated:  decodeAs[SpecializationCreated],
	CommandCustomSkillRemoved:     decodeAs[CustomSkillRemoved],
	CommandAnySkillSelected:       decodeAs[AnySkillSelected],
	CommandAnySkillRemoved:        decodeAs[AnySkillRemoved],
	CommandSkillPointsAllocated:   decodeAs[SkillPointsAllocated],
	CommandSkillModifierAdded:     decodeAs[SkillModifierAdded],
	CommandSkillModifierRemoved:   decodeAs[SkillModifierRemoved],
	CommandDerivedModifierAdded:   decodeAs[DerivedModifierAdded],
	CommandDerivedModifierRemoved: decodeAs[DerivedModifierRemoved],
}

// DecodeCommand builds the command named by t from its payload
func DecodeCommand(t CommandType, decode DecodeFunc) (Command, error) {
	fn, ok := decoders[t]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown command type %q", t).
			WithMeta("command", string(t))
	}

	cmd, err := fn(decode)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed command payload").
			WithMeta("command", string(t))
	}
	return cmd, nil
}

// CommandTypes lists every command type that DecodeCommand accepts
func CommandTypes() []CommandType {
	out := make([]CommandType, 0, len(decoders))
	for t := range decoders {
		out = append(out, t)
	}
	return out
}

func decodeAs[T Command](decode DecodeFunc) (Command, error) {
	var cmd T
	if err := decode(&cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}
