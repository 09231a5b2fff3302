package rpgtoolkit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

func TestCharacterEntity(t *testing.T) {
	character := &coc.Character{
		ID:       "char-123",
		Identity: coc.Identity{Name: "Harvey Walters"},
	}

	entity := WrapCharacter(character)

	assert.Equal(t, "char-123", entity.GetID())
	assert.Equal(t, "character", entity.GetType())
	assert.Equal(t, "Harvey Walters", entity.Identity.Name)
}

func TestCharacterDraftEntity(t *testing.T) {
	draft := &coc.CharacterDraft{
		ID:           "draft-456",
		Name:         "Harvey Walters",
		OccupationID: "journalist",
	}

	entity := wrapCharacterDraft(draft)

	assert.Equal(t, "draft-456", entity.GetID())
	assert.Equal(t, "character_draft", entity.GetType())
	assert.Equal(t, draft, entity.CharacterDraft)
	assert.Equal(t, "journalist", entity.OccupationID)
}
