// Package character defines the interface for character operations
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character Service

import (
	"context"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

// Service defines the interface for character operations
type Service interface {
	// Draft lifecycle
	CreateDraft(ctx context.Context, input *CreateDraftInput) (*CreateDraftOutput, error)
	GetDraft(ctx context.Context, input *GetDraftInput) (*GetDraftOutput, error)
	GetPlayerDraft(ctx context.Context, input *GetPlayerDraftInput) (*GetPlayerDraftOutput, error)
	DeleteDraft(ctx context.Context, input *DeleteDraftInput) (*DeleteDraftOutput, error)

	// ApplyCommand runs one creation command against a stored draft
	ApplyCommand(ctx context.Context, input *ApplyCommandInput) (*ApplyCommandOutput, error)

	// Validation
	ValidateDraft(ctx context.Context, input *ValidateDraftInput) (*ValidateDraftOutput, error)

	// Character finalization
	FinalizeDraft(ctx context.Context, input *FinalizeDraftInput) (*FinalizeDraftOutput, error)

	// Completed character operations
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	UpdateCharacter(ctx context.Context, input *UpdateCharacterInput) (*UpdateCharacterOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// File formats
	ExportCharacter(ctx context.Context, input *ExportCharacterInput) (*ExportCharacterOutput, error)
	ImportCharacter(ctx context.Context, input *ImportCharacterInput) (*ImportCharacterOutput, error)
	RenderCharacterSheet(ctx context.Context, input *RenderCharacterSheetInput) (*RenderCharacterSheetOutput, error)

	// Data loading for UI
	ListOccupations(ctx context.Context, input *ListOccupationsInput) (*ListOccupationsOutput, error)
	ListSkills(ctx context.Context, input *ListSkillsInput) (*ListSkillsOutput, error)
}

// ValidationError is a blocking problem of a draft
type ValidationError struct {
	Field   string
	Message string
	Type    string
}

// ValidationWarning is a non-blocking problem of a draft
type ValidationWarning struct {
	Field   string
	Message string
	Type    string
}

// Draft lifecycle types

// CreateDraftInput defines the request for creating a draft
type CreateDraftInput struct {
	PlayerID string
	Name     string // Optional
}

// CreateDraftOutput defines the response for creating a draft
type CreateDraftOutput struct {
	Draft *coc.CharacterDraft
}

// GetDraftInput defines the request for getting a draft
type GetDraftInput struct {
	DraftID string
}

// GetDraftOutput defines the response for getting a draft
type GetDraftOutput struct {
	Draft *coc.CharacterDraft
}

// GetPlayerDraftInput defines the request for getting a player's draft
type GetPlayerDraftInput struct {
	PlayerID string
}

// GetPlayerDraftOutput defines the response for getting a player's draft
type GetPlayerDraftOutput struct {
	Draft *coc.CharacterDraft
}

// DeleteDraftInput defines the request for deleting a draft
type DeleteDraftInput struct {
	DraftID string
}

// DeleteDraftOutput defines the response for deleting a draft
type DeleteDraftOutput struct {
	Message string
}

// ApplyCommandInput defines the request for applying a command
type ApplyCommandInput struct {
	DraftID string
	Command engine.Command
}

// ApplyCommandOutput returns the updated draft and its open warnings
type ApplyCommandOutput struct {
	Draft    *coc.CharacterDraft
	Warnings []ValidationWarning
}

// Validation types

// ValidateDraftInput defines the request for validating a draft
type ValidateDraftInput struct {
	DraftID string
}

// ValidateDraftOutput defines the response for validating a draft
type ValidateDraftOutput struct {
	IsComplete   bool
	IsValid      bool
	Errors       []ValidationError
	Warnings     []ValidationWarning
	MissingSteps []coc.CreationStep
}

// Finalization types

// FinalizeDraftInput defines the request for finalizing a draft
type FinalizeDraftInput struct {
	DraftID string
}

// FinalizeDraftOutput defines the response for finalizing a draft
type FinalizeDraftOutput struct {
	Character    *coc.Character
	DraftDeleted bool
}

// Character operation types

// GetCharacterInput defines the request for getting a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the response for getting a character
type GetCharacterOutput struct {
	Character *coc.Character
}

// ListCharactersInput defines the request for listing a player's characters
type ListCharactersInput struct {
	PlayerID string
}

// ListCharactersOutput defines the response for listing characters
type ListCharactersOutput struct {
	Characters []*coc.Character
}

// CharacterPatch holds the fields of a finished character that may change
// during play. Nil fields are left unchanged.
type CharacterPatch struct {
	Name       *string
	Gender     *string
	Residence  *string
	Birthplace *string

	HitPoints   *int
	Sanity      *int
	MagicPoints *int
	Luck        *int

	// SkillImprovements records experience gains per skill id, added to
	// the skill's "experience" modifier
	SkillImprovements map[string]int
}

// UpdateCharacterInput defines the request for patching a character
type UpdateCharacterInput struct {
	CharacterID string
	Patch       CharacterPatch
}

// UpdateCharacterOutput defines the response for patching a character
type UpdateCharacterOutput struct {
	Character *coc.Character
}

// DeleteCharacterInput defines the request for deleting a character
type DeleteCharacterInput struct {
	CharacterID string
}

// DeleteCharacterOutput defines the response for deleting a character
type DeleteCharacterOutput struct {
	Message string
}

// File format types

// ExportCharacterInput defines the request for exporting a character
type ExportCharacterInput struct {
	CharacterID string
}

// ExportCharacterOutput contains the YAML document
type ExportCharacterOutput struct {
	Data []byte
}

// ImportCharacterInput defines the request for importing a character
type ImportCharacterInput struct {
	PlayerID string
	Data     []byte
}

// ImportCharacterOutput contains the stored character
type ImportCharacterOutput struct {
	Character     *coc.Character
	SourceVersion int
}

// RenderCharacterSheetInput defines the request for a printable sheet
type RenderCharacterSheetInput struct {
	CharacterID string
	Locale      string
}

// RenderCharacterSheetOutput contains the PDF bytes
type RenderCharacterSheetOutput struct {
	Data []byte
}

// Data loading types

// ListOccupationsInput defines the request for listing occupations
type ListOccupationsInput struct {
	Locale string
}

// OccupationSummary is an occupation with its display strings
type OccupationSummary struct {
	ID                    string
	Name                  string
	CreditRating          coc.CreditRatingRange
	OccupationFormula     string
	PersonalFormula       string
	SuggestedContacts     []string
	RecommendedAttributes []coc.AttributeKey
	OccupationSkillIDs    []string
}

// ListOccupationsOutput defines the response for listing occupations
type ListOccupationsOutput struct {
	Occupations []OccupationSummary
}

// ListSkillsInput defines the request for listing skills
type ListSkillsInput struct {
	Locale string
}

// SkillSummary is a skill with its display name. Specializable skills
// list their predefined specializations.
type SkillSummary struct {
	ID              string
	Name            string
	BaseValue       int
	BaseAttribute   coc.AttributeKey
	Restricted      bool
	Specializations []SkillSummary
}

// ListSkillsOutput defines the response for listing skills
type ListSkillsOutput struct {
	Skills []SkillSummary
}
