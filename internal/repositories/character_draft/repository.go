// Package characterdraft defines the interface for character draft persistence
package characterdraft

//go:generate mockgen -destination=mock/mock_repository.go -package=characterdraftmock github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/repositories/character_draft Repository

import (
	"context"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

// Repository defines the interface for character draft persistence.
// A player holds at most one draft; creating a new one replaces the old.
type Repository interface {
	// Create stores a player's draft, replacing any previous draft
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a draft by ID
	// Returns errors.NotFound if the draft doesn't exist or expired
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetByPlayerID retrieves the player's draft
	// Returns errors.NotFound if the player has no draft
	GetByPlayerID(ctx context.Context, input GetByPlayerIDInput) (*GetByPlayerIDOutput, error)

	// Update saves an existing draft and refreshes its expiry
	// Returns errors.NotFound if the draft doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a draft and the player mapping
	// Returns errors.NotFound if the draft doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a draft
type CreateInput struct {
	Draft *coc.CharacterDraft
}

// CreateOutput returns the stored draft with its expiry set
type CreateOutput struct {
	Draft *coc.CharacterDraft
}

// GetInput defines the input for getting a draft
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a draft
type GetOutput struct {
	Draft *coc.CharacterDraft
}

// GetByPlayerIDInput defines the input for getting a player's draft
type GetByPlayerIDInput struct {
	PlayerID string
}

// GetByPlayerIDOutput defines the output for getting a player's draft
type GetByPlayerIDOutput struct {
	Draft *coc.CharacterDraft
}

// UpdateInput defines the input for updating a draft
type UpdateInput struct {
	Draft *coc.CharacterDraft
}

// UpdateOutput returns the stored draft with its refreshed expiry
type UpdateOutput struct {
	Draft *coc.CharacterDraft
}

// DeleteInput defines the input for deleting a draft
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a draft
type DeleteOutput struct{}
