// Package character provides the interface for finished character persistence
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/repositories/character Repository

import (
	"context"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create stores a new character. An empty ID is generated.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if a character with the same ID exists
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a character by ID
	// Returns errors.InvalidArgument for an empty ID
	// Returns errors.NotFound if the character doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing character, keeping its creation time
	// Returns errors.NotFound if the character doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete deletes a character by ID
	// Returns errors.NotFound if the character doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByPlayerID retrieves every character of a player, oldest first
	// Returns errors.InvalidArgument for an empty player ID
	ListByPlayerID(ctx context.Context, input ListByPlayerIDInput) (*ListByPlayerIDOutput, error)
}

// CreateInput defines the input for creating a character
type CreateInput struct {
	Character *coc.Character
}

// CreateOutput returns the stored character with its ID and timestamps
type CreateOutput struct {
	Character *coc.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *coc.Character
}

// UpdateInput defines the input for updating a character
type UpdateInput struct {
	Character *coc.Character
}

// UpdateOutput returns the stored character
type UpdateOutput struct {
	Character *coc.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct{}

// ListByPlayerIDInput defines the input for listing characters by player
type ListByPlayerIDInput struct {
	PlayerID string
}

// ListByPlayerIDOutput defines the output for listing characters by player
type ListByPlayerIDOutput struct {
	Characters []*coc.Character
}
