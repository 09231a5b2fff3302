package character

// Character event types published on the event bus
const (
	EventCharacterFinalized = "character.finalized"
	EventCharacterUpdated   = "character.updated"
	EventCharacterImported  = "character.imported"
)

// Bounds of the play values a patch may set
const (
	maxSanity = 99
	maxLuck   = 99
)
