package v1alpha1

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character"
)

type createDraftRequest struct {
	Name string `json:"name"`
}

type patchRequest struct {
	Name              *string        `json:"name"`
	Gender            *string        `json:"gender"`
	Residence         *string        `json:"residence"`
	Birthplace        *string        `json:"birthplace"`
	HitPoints         *int           `json:"hitPoints"`
	Sanity            *int           `json:"sanity"`
	MagicPoints       *int           `json:"magicPoints"`
	Luck              *int           `json:"luck"`
	SkillImprovements map[string]int `json:"skillImprovements"`
}

func (p patchRequest) toPatch() character.CharacterPatch {
	return character.CharacterPatch{
		Name:              p.Name,
		Gender:            p.Gender,
		Residence:         p.Residence,
		Birthplace:        p.Birthplace,
		HitPoints:         p.HitPoints,
		Sanity:            p.Sanity,
		MagicPoints:       p.MagicPoints,
		Luck:              p.Luck,
		SkillImprovements: p.SkillImprovements,
	}
}

type errorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Details map[string]any      `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type applyCommandResponse struct {
	Draft    *coc.CharacterDraft `json:"draft"`
	Warnings []issue             `json:"warnings"`
}

type validationResponse struct {
	IsComplete   bool               `json:"isComplete"`
	IsValid      bool               `json:"isValid"`
	Errors       []issue            `json:"errors"`
	Warnings     []issue            `json:"warnings"`
	MissingSteps []coc.CreationStep `json:"missingSteps"`
}

type finalizeResponse struct {
	Character    *coc.Character `json:"character"`
	DraftDeleted bool           `json:"draftDeleted"`
}

type listCharactersResponse struct {
	Characters []*coc.Character `json:"characters"`
}

type importResponse struct {
	Character     *coc.Character `json:"character"`
	SourceVersion int            `json:"sourceVersion"`
}

type occupation struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	CreditRating          coc.CreditRatingRange `json:"creditRating"`
	OccupationFormula     string                `json:"occupationFormula"`
	PersonalFormula       string                `json:"personalFormula"`
	SuggestedContacts     []string              `json:"suggestedContacts,omitempty"`
	RecommendedAttributes []coc.AttributeKey    `json:"recommendedAttributes,omitempty"`
	OccupationSkillIDs    []string              `json:"occupationSkillIds"`
}

type listOccupationsResponse struct {
	Occupations []occupation `json:"occupations"`
}

type skill struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	BaseValue       int              `json:"baseValue"`
	BaseAttribute   coc.AttributeKey `json:"baseAttribute,omitempty"`
	Restricted      bool             `json:"restricted,omitempty"`
	Specializations []skill          `json:"specializations,omitempty"`
}

type listSkillsResponse struct {
	Skills []skill `json:"skills"`
}

func toErrors(in []character.ValidationError) []issue {
	out := make([]issue, 0, len(in))
	for _, e := range in {
		out = append(out, issue{Field: e.Field, Message: e.Message, Type: e.Type})
	}
	return out
}

func toWarnings(in []character.ValidationWarning) []issue {
	out := make([]issue, 0, len(in))
	for _, w := range in {
		out = append(out, issue{Field: w.Field, Message: w.Message, Type: w.Type})
	}
	return out
}

func toOccupations(in []character.OccupationSummary) []occupation {
	out := make([]occupation, 0, len(in))
	for _, o := range in {
		out = append(out, occupation{
			ID:                    o.ID,
			Name:                  o.Name,
			CreditRating:          o.CreditRating,
			OccupationFormula:     o.OccupationFormula,
			PersonalFormula:       o.PersonalFormula,
			SuggestedContacts:     o.SuggestedContacts,
			RecommendedAttributes: o.RecommendedAttributes,
			OccupationSkillIDs:    o.OccupationSkillIDs,
		})
	}
	return out
}

func toSkills(in []character.SkillSummary) []skill {
	if len(in) == 0 {
		return nil
	}
	out := make([]skill, 0, len(in))
	for _, s := range in {
		out = append(out, skill{
			ID:              s.ID,
			Name:            s.Name,
			BaseValue:       s.BaseValue,
			BaseAttribute:   s.BaseAttribute,
			Restricted:      s.Restricted,
			Specializations: toSkills(s.Specializations),
		})
	}
	return out
}
