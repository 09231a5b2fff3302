// Package engine defines the character creation rules engine: commands that
// change a draft and the validation report of a draft.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine Engine

import (
	"context"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

// Engine applies creation commands to a caller-owned draft
type Engine interface {
	// InitializeDraft prepares an empty draft: generation slots, seeded
	// skills and derived values
	InitializeDraft(ctx context.Context, draft *coc.CharacterDraft) error

	// Apply runs one command against the draft and recomputes everything
	// downstream of it. A rejected command leaves the draft untouched.
	Apply(ctx context.Context, draft *coc.CharacterDraft, cmd Command) error

	// ValidateDraft reports the completion state of every creation step
	ValidateDraft(ctx context.Context, input *ValidateDraftInput) (*ValidateDraftOutput, error)
}
