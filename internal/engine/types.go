package engine

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

// ValidateDraftInput contains the draft to validate
type ValidateDraftInput struct {
	Draft *coc.CharacterDraft
}

// ValidateDraftOutput contains validation results
type ValidateDraftOutput struct {
	IsComplete   bool
	IsValid      bool
	Errors       []ValidationError
	Warnings     []ValidationWarning
	MissingSteps []coc.CreationStep
}

// ValidationError represents a validation error. Code is the failing step.
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

// ValidationWarning represents a validation warning
type ValidationWarning struct {
	Field   string
	Message string
	Code    string
}
