package rpgtoolkit

import "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"

// Entity types reported to rpg-toolkit
const (
	EntityTypeCharacter      = "character"
	EntityTypeCharacterDraft = "character_draft"
)

// CharacterEntity wraps coc.Character to implement core.Entity interface
type CharacterEntity struct {
	*coc.Character
}

// GetID returns the character's ID
func (c *CharacterEntity) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *CharacterEntity) GetType() string {
	return EntityTypeCharacter
}

// CharacterDraftEntity wraps coc.CharacterDraft to implement core.Entity interface
type CharacterDraftEntity struct {
	*coc.CharacterDraft
}

// GetID returns the character draft's ID
func (c *CharacterDraftEntity) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *CharacterDraftEntity) GetType() string {
	return EntityTypeCharacterDraft
}

// WrapCharacter converts a coc.Character to a CharacterEntity
func WrapCharacter(character *coc.Character) *CharacterEntity {
	return &CharacterEntity{Character: character}
}

// wrapCharacterDraft converts a coc.CharacterDraft to a CharacterDraftEntity
func wrapCharacterDraft(draft *coc.CharacterDraft) *CharacterDraftEntity {
	return &CharacterDraftEntity{CharacterDraft: draft}
}
