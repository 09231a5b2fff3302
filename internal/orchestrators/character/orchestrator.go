// Package character implements the character orchestrator
package character

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/rpgtoolkit"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/i18n"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/idgen"
	characterrepo "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/repositories/character"
	draftrepo "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/repositories/character_draft"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/conversion"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/sheetio"
)

// Catalog is the rules data offered to players
type Catalog interface {
	Occupations() []coc.Occupation
	SkillDefinitions() []coc.SkillDefinition
}

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo      characterrepo.Repository
	CharacterDraftRepo draftrepo.Repository
	Engine             engine.Engine
	Converter          conversion.DraftConverter
	SheetIO            sheetio.Service
	EventBus           events.EventBus
	IDGenerator        idgen.Generator
	Catalog            Catalog
	Translator         *i18n.Translator
	Clock              clock.Clock // Optional
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c == nil {
		vb.RequiredField("config")
		return vb.Build()
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.CharacterDraftRepo == nil {
		vb.RequiredField("CharacterDraftRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Converter == nil {
		vb.RequiredField("Converter")
	}
	if c.SheetIO == nil {
		vb.RequiredField("SheetIO")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Translator == nil {
		vb.RequiredField("Translator")
	}

	return vb.Build()
}

// Orchestrator implements the character.Service interface
type Orchestrator struct {
	characterRepo      characterrepo.Repository
	characterDraftRepo draftrepo.Repository
	engine             engine.Engine
	converter          conversion.DraftConverter
	sheetIO            sheetio.Service
	eventBus           events.EventBus
	idGenerator        idgen.Generator
	catalog            Catalog
	translator         *i18n.Translator
	clock              clock.Clock
}

// New creates a new character orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &Orchestrator{
		characterRepo:      cfg.CharacterRepo,
		characterDraftRepo: cfg.CharacterDraftRepo,
		engine:             cfg.Engine,
		converter:          cfg.Converter,
		sheetIO:            cfg.SheetIO,
		eventBus:           cfg.EventBus,
		idGenerator:        cfg.IDGenerator,
		catalog:            cfg.Catalog,
		translator:         cfg.Translator,
		clock:              clk,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ character.Service = (*Orchestrator)(nil)

// Draft lifecycle methods

// CreateDraft creates a player's draft, replacing any draft they had
func (o *Orchestrator) CreateDraft(ctx context.Context, input *character.CreateDraftInput) (*character.CreateDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("playerID", input.PlayerID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	now := o.clock.Now().Unix()
	draft := &coc.CharacterDraft{
		ID:        o.idGenerator.Generate(),
		PlayerID:  input.PlayerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := o.engine.InitializeDraft(ctx, draft); err != nil {
		return nil, errors.Wrap(err, "failed to initialize draft")
	}
	if input.Name != "" {
		if err := o.engine.Apply(ctx, draft, engine.BasicInfoUpdated{Name: input.Name}); err != nil {
			return nil, errors.Wrap(err, "failed to set name")
		}
	}

	out, err := o.characterDraftRepo.Create(ctx, draftrepo.CreateInput{Draft: draft})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create draft")
	}

	slog.Info("Draft created", "draft_id", draft.ID, "player_id", draft.PlayerID)

	return &character.CreateDraftOutput{
		Draft: out.Draft,
	}, nil
}

// GetDraft retrieves a character draft by ID
func (o *Orchestrator) GetDraft(ctx context.Context, input *character.GetDraftInput) (*character.GetDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("draftID", input.DraftID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	draft, err := o.getDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	return &character.GetDraftOutput{
		Draft: draft,
	}, nil
}

// GetPlayerDraft retrieves the draft a player is working on
func (o *Orchestrator) GetPlayerDraft(ctx context.Context, input *character.GetPlayerDraftInput) (*character.GetPlayerDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	out, err := o.characterDraftRepo.GetByPlayerID(ctx, draftrepo.GetByPlayerIDInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get player draft").
			WithMeta("player_id", input.PlayerID)
	}

	return &character.GetPlayerDraftOutput{
		Draft: out.Draft,
	}, nil
}

// DeleteDraft deletes a character draft
func (o *Orchestrator) DeleteDraft(ctx context.Context, input *character.DeleteDraftInput) (*character.DeleteDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DraftID == "" {
		return nil, errors.InvalidArgument("draft ID is required")
	}

	if _, err := o.characterDraftRepo.Delete(ctx, draftrepo.DeleteInput{ID: input.DraftID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete draft")
	}

	return &character.DeleteDraftOutput{
		Message: fmt.Sprintf("Draft %s deleted successfully", input.DraftID),
	}, nil
}

// ApplyCommand loads a draft, runs cmd through the engine and saves the
// result. A rejected command leaves the stored draft untouched.
func (o *Orchestrator) ApplyCommand(ctx context.Context, input *character.ApplyCommandInput) (*character.ApplyCommandOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DraftID == "" {
		return nil, errors.InvalidArgument("draft ID is required")
	}
	if input.Command == nil {
		return nil, errors.InvalidArgument("command is required")
	}

	draft, err := o.getDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	if err := o.engine.Apply(ctx, draft, input.Command); err != nil {
		return nil, errors.Wrap(err, "command rejected").
			WithMeta("draft_id", input.DraftID).
			WithMeta("command", string(input.Command.CommandType()))
	}

	draft.UpdatedAt = o.clock.Now().Unix()
	updated, err := o.characterDraftRepo.Update(ctx, draftrepo.UpdateInput{Draft: draft})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update draft")
	}

	validation, err := o.engine.ValidateDraft(ctx, &engine.ValidateDraftInput{Draft: updated.Draft})
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate draft")
	}

	return &character.ApplyCommandOutput{
		Draft:    updated.Draft,
		Warnings: convertWarnings(validation.Warnings),
	}, nil
}

// ValidateDraft reports the completion and validity of a draft
func (o *Orchestrator) ValidateDraft(ctx context.Context, input *character.ValidateDraftInput) (*character.ValidateDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DraftID == "" {
		return nil, errors.InvalidArgument("draft ID is required")
	}

	draft, err := o.getDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.ValidateDraft(ctx, &engine.ValidateDraftInput{Draft: draft})
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate draft")
	}

	return &character.ValidateDraftOutput{
		IsComplete:   result.IsComplete,
		IsValid:      result.IsValid,
		Errors:       convertErrors(result.Errors),
		Warnings:     convertWarnings(result.Warnings),
		MissingSteps: result.MissingSteps,
	}, nil
}

// FinalizeDraft turns a complete, valid draft into a character record
func (o *Orchestrator) FinalizeDraft(ctx context.Context, input *character.FinalizeDraftInput) (*character.FinalizeDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DraftID == "" {
		return nil, errors.InvalidArgument("draft ID is required")
	}

	draft, err := o.getDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.ValidateDraft(ctx, &engine.ValidateDraftInput{Draft: draft})
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate draft")
	}

	if !result.IsComplete {
		return nil, errors.FailedPrecondition("cannot finalize incomplete draft").
			WithMeta("missing_steps", result.MissingSteps).
			WithMeta("draft_id", input.DraftID)
	}

	if !result.IsValid {
		errMsgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			errMsgs = append(errMsgs, e.Message)
		}
		return nil, errors.FailedPrecondition("cannot finalize invalid draft").
			WithMeta("validation_errors", errMsgs).
			WithMeta("draft_id", input.DraftID)
	}

	record, err := o.converter.ToCharacter(draft)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert draft")
	}

	created, err := o.characterRepo.Create(ctx, characterrepo.CreateInput{Character: record})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}

	o.publish(ctx, created.Character, EventCharacterFinalized)

	_, err = o.characterDraftRepo.Delete(ctx, draftrepo.DeleteInput{ID: draft.ID})
	if err != nil {
		slog.Error("failed to delete draft", "draft_id", draft.ID, "error", err)
	}

	slog.Info("Draft finalized",
		"draft_id", draft.ID,
		"character_id", created.Character.ID,
		"player_id", created.Character.PlayerID,
	)

	return &character.FinalizeDraftOutput{
		Character:    created.Character,
		DraftDeleted: err == nil,
	}, nil
}

// Character operation methods

// GetCharacter retrieves a finalized character
func (o *Orchestrator) GetCharacter(ctx context.Context, input *character.GetCharacterInput) (*character.GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	char, err := o.getCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	return &character.GetCharacterOutput{
		Character: char,
	}, nil
}

// ListCharacters lists a player's finalized characters, oldest first
func (o *Orchestrator) ListCharacters(ctx context.Context, input *character.ListCharactersInput) (*character.ListCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	out, err := o.characterRepo.ListByPlayerID(ctx, characterrepo.ListByPlayerIDInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	return &character.ListCharactersOutput{
		Characters: out.Characters,
	}, nil
}

// UpdateCharacter applies a patch to a finished character. The whole patch
// is checked before anything changes.
func (o *Orchestrator) UpdateCharacter(ctx context.Context, input *character.UpdateCharacterInput) (*character.UpdateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	char, err := o.getCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	if err := validatePatch(char, &input.Patch); err != nil {
		return nil, err
	}
	applyPatch(char, &input.Patch, o.clock.Now().UTC())
	o.converter.Normalize(char)

	out, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update character")
	}

	o.publish(ctx, out.Character, EventCharacterUpdated)

	return &character.UpdateCharacterOutput{
		Character: out.Character,
	}, nil
}

// DeleteCharacter deletes a finalized character
func (o *Orchestrator) DeleteCharacter(ctx context.Context, input *character.DeleteCharacterInput) (*character.DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	if _, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{ID: input.CharacterID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete character")
	}

	return &character.DeleteCharacterOutput{
		Message: fmt.Sprintf("Character %s deleted successfully", input.CharacterID),
	}, nil
}

// File format methods

// ExportCharacter encodes a stored character as a YAML document
func (o *Orchestrator) ExportCharacter(ctx context.Context, input *character.ExportCharacterInput) (*character.ExportCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	char, err := o.getCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	out, err := o.sheetIO.Export(ctx, &sheetio.ExportInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to export character")
	}

	return &character.ExportCharacterOutput{
		Data: out.Data,
	}, nil
}

// ImportCharacter stores a character read from a YAML document under a new
// ID owned by the importing player
func (o *Orchestrator) ImportCharacter(ctx context.Context, input *character.ImportCharacterInput) (*character.ImportCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	imported, err := o.sheetIO.Import(ctx, &sheetio.ImportInput{Data: input.Data})
	if err != nil {
		return nil, errors.Wrap(err, "failed to import character")
	}

	record := imported.Character
	originalID := record.ID
	record.ID = ""
	record.PlayerID = input.PlayerID
	record.Identity.Player = input.PlayerID

	created, err := o.characterRepo.Create(ctx, characterrepo.CreateInput{Character: record})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store imported character")
	}

	o.publish(ctx, created.Character, EventCharacterImported)

	slog.Info("Character imported",
		"character_id", created.Character.ID,
		"original_id", originalID,
		"player_id", input.PlayerID,
		"source_version", imported.SourceVersion,
	)

	return &character.ImportCharacterOutput{
		Character:     created.Character,
		SourceVersion: imported.SourceVersion,
	}, nil
}

// RenderCharacterSheet draws a stored character as a PDF sheet
func (o *Orchestrator) RenderCharacterSheet(ctx context.Context, input *character.RenderCharacterSheetInput) (*character.RenderCharacterSheetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	char, err := o.getCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	out, err := o.sheetIO.RenderPDF(ctx, &sheetio.RenderPDFInput{Character: char, Locale: input.Locale})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render character sheet")
	}

	return &character.RenderCharacterSheetOutput{
		Data: out.Data,
	}, nil
}

// Helper methods

func (o *Orchestrator) getDraft(ctx context.Context, id string) (*coc.CharacterDraft, error) {
	out, err := o.characterDraftRepo.Get(ctx, draftrepo.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get draft").
			WithMeta("draft_id", id)
	}
	return out.Draft, nil
}

func (o *Orchestrator) getCharacter(ctx context.Context, id string) (*coc.Character, error) {
	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get character").
			WithMeta("character_id", id)
	}
	return out.Character, nil
}

func (o *Orchestrator) publish(ctx context.Context, char *coc.Character, eventType string) {
	event := events.NewGameEvent(eventType, rpgtoolkit.WrapCharacter(char), nil)
	if err := o.eventBus.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish character event",
			"character_id", char.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func convertErrors(in []engine.ValidationError) []character.ValidationError {
	out := make([]character.ValidationError, 0, len(in))
	for _, e := range in {
		out = append(out, character.ValidationError{
			Field:   e.Field,
			Message: e.Message,
			Type:    e.Code,
		})
	}
	return out
}

func convertWarnings(in []engine.ValidationWarning) []character.ValidationWarning {
	out := make([]character.ValidationWarning, 0, len(in))
	for _, w := range in {
		out = append(out, character.ValidationWarning{
			Field:   w.Field,
			Message: w.Message,
			Type:    w.Code,
		})
	}
	return out
}
