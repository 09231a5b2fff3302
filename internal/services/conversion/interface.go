package conversion

import (
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

// DraftConverter turns finished drafts into character records and keeps
// the computed parts of a record consistent after edits.
//
//go:generate mockgen -destination=mock/mock_converter.go -package=conversionmock github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/conversion DraftConverter
type DraftConverter interface {
	// ToCharacter builds the character record of a draft. The draft is
	// expected to be complete; only the fields a record cannot do without
	// are checked here.
	ToCharacter(draft *coc.CharacterDraft) (*coc.Character, error)

	// Normalize recomputes attribute thresholds, skill totals and the
	// finance block of a record in place
	Normalize(character *coc.Character)
}
