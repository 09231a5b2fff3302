package character

import (
	"sort"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/idgen"
)

const (
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
	errPlayerIDEmpty    = "player ID cannot be empty"
)

// stamp is shared by the backends
type stamp struct {
	clock clock.Clock
	ids   idgen.Generator
}

func newStamp(c clock.Clock, ids idgen.Generator) stamp {
	if c == nil {
		c = clock.New()
	}
	if ids == nil {
		ids = idgen.NewUUID(idgen.PrefixCharacter)
	}
	return stamp{clock: c, ids: ids}
}

// prepareCreate copies c, fills the ID and timestamps
func (s stamp) prepareCreate(c *coc.Character) (*coc.Character, error) {
	if c == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}

	out := *c
	if out.ID == "" {
		out.ID = s.ids.Generate()
	}
	if out.SchemaVersion == 0 {
		out.SchemaVersion = coc.CurrentSchemaVersion
	}
	now := s.clock.Now().UTC()
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	out.UpdatedAt = now
	return &out, nil
}

// prepareUpdate copies c, keeping createdAt from the stored record
func (s stamp) prepareUpdate(c *coc.Character, existing *coc.Character) *coc.Character {
	out := *c
	out.CreatedAt = existing.CreatedAt
	out.UpdatedAt = s.clock.Now().UTC()
	if out.SchemaVersion == 0 {
		out.SchemaVersion = coc.CurrentSchemaVersion
	}
	return &out
}

func validateCharacter(c *coc.Character) error {
	if c == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if c.ID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}
	return nil
}

func sortByCreation(characters []*coc.Character) {
	sort.SliceStable(characters, func(i, j int) bool {
		a, b := characters[i], characters[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
