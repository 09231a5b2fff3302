// Package rpgtoolkit provides the concrete implementation of the engine interface using rpg-toolkit modules.
package rpgtoolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/age"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/attributes"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/derived"
	enginedice "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/dice"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/occupation"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/skills"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
)

// Event types published on the event bus. Applied commands publish
// EventDraftPrefix followed by the command type.
const (
	EventDraftPrefix      = "character_draft."
	EventDraftInitialized = EventDraftPrefix + "initialized"
)

// Compile-time check that our entity wrappers implement core.Entity
var (
	_ core.Entity   = (*CharacterEntity)(nil)
	_ core.Entity   = (*CharacterDraftEntity)(nil)
	_ engine.Engine = (*Adapter)(nil)
)

// Catalog is the read-only rules data the engine looks up
type Catalog interface {
	skills.Definitions
	Occupation(id string) (*coc.Occupation, bool)
}

// Adapter implements the engine.Engine interface using rpg-toolkit
type Adapter struct {
	eventBus   events.EventBus
	catalog    Catalog
	clock      clock.Clock
	generator  *attributes.Generator
	calculator *age.Calculator
}

// AdapterConfig contains configuration for creating a new Adapter
type AdapterConfig struct {
	EventBus   events.EventBus
	DiceRoller dice.Roller
	Catalog    Catalog
	Clock      clock.Clock
}

// Validate checks that all required dependencies are provided
func (c *AdapterConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.DiceRoller == nil {
		vb.RequiredField("DiceRoller")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

// NewAdapter creates a new rpg-toolkit engine adapter
func NewAdapter(cfg *AdapterConfig) (*Adapter, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	evaluator, err := enginedice.NewEvaluator(&enginedice.Config{Roller: cfg.DiceRoller})
	if err != nil {
		return nil, err
	}
	generator, err := attributes.NewGenerator(&attributes.Config{Roller: evaluator})
	if err != nil {
		return nil, err
	}
	calculator, err := age.NewCalculator(&age.Config{Roller: evaluator})
	if err != nil {
		return nil, err
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &Adapter{
		eventBus:   cfg.EventBus,
		catalog:    cfg.Catalog,
		clock:      clk,
		generator:  generator,
		calculator: calculator,
	}, nil
}

// InitializeDraft prepares generation slots, seeds skills and computes
// derived values
func (a *Adapter) InitializeDraft(ctx context.Context, draft *coc.CharacterDraft) error {
	if draft == nil {
		return errors.InvalidArgument("draft is required")
	}

	if draft.Generation == nil {
		draft.Generation = attributes.NewGeneration()
	}
	if draft.Selections.Choices == nil {
		draft.Selections.Reset()
	}
	if len(draft.Skills) == 0 {
		draft.Skills = skills.Seed(a.catalog, draft.FinalAttributes)
	}

	a.recalculate(draft)
	a.publish(ctx, draft, EventDraftInitialized)

	slog.Info("Draft initialized",
		"draft_id", draft.ID,
		"player_id", draft.PlayerID,
		"skills", len(draft.Skills),
	)
	return nil
}

// Apply runs cmd against draft. On error the draft is restored to its
// state before the command.
func (a *Adapter) Apply(ctx context.Context, draft *coc.CharacterDraft, cmd engine.Command) error {
	if draft == nil {
		return errors.InvalidArgument("draft is required")
	}
	if cmd == nil {
		return errors.InvalidArgument("command is required")
	}

	snapshot, err := json.Marshal(draft)
	if err != nil {
		return errors.Wrap(err, "failed to snapshot draft")
	}

	if err := a.dispatch(draft, cmd); err != nil {
		if restoreErr := restore(draft, snapshot); restoreErr != nil {
			return errors.Wrap(restoreErr, "failed to restore draft after rejected command")
		}
		slog.Debug("Command rejected",
			"draft_id", draft.ID,
			"command", cmd.CommandType(),
			"error", err,
		)
		return err
	}

	a.recalculate(draft)
	a.publish(ctx, draft, EventDraftPrefix+string(cmd.CommandType()))

	slog.Debug("Command applied",
		"draft_id", draft.ID,
		"command", cmd.CommandType(),
		"completion", draft.Progress.CompletionPercentage,
	)
	return nil
}

func restore(draft *coc.CharacterDraft, snapshot []byte) error {
	*draft = coc.CharacterDraft{}
	return json.Unmarshal(snapshot, draft)
}

func (a *Adapter) dispatch(d *coc.CharacterDraft, cmd engine.Command) error {
	switch c := cmd.(type) {
	case engine.BasicInfoUpdated:
		updateBasicInfo(d, c)
		return nil

	case engine.AttributeMethodChosen:
		return a.generator.SetMethod(generation(d), c.Method)
	case engine.PoolValueAssigned:
		return attributes.AssignFromPool(generation(d), c.Attribute, c.Pool, c.Index)
	case engine.QuickFireValueSelected:
		return attributes.SelectQuickFire(generation(d), c.Index)
	case engine.QuickFireValueAssigned:
		return attributes.AssignQuickFire(generation(d), c.Attribute)
	case engine.AttributeUnassigned:
		return attributes.Unassign(generation(d), c.Attribute)
	case engine.AttributesRerolled:
		return a.generator.Reroll(generation(d))

	case engine.AgeChanged:
		return a.changeAge(d, c.Raw)
	case engine.LuckValueSelected:
		return age.SelectLuck(d.AgeModifiers, c.Index)
	case engine.AgePenaltyAdjusted:
		return age.AdjustPenalty(d.AgeModifiers, c.Attribute, c.Delta)

	case engine.OccupationChosen:
		return a.chooseOccupation(d, c.OccupationID)

	case engine.SkillChoiceSelected:
		plan, err := a.plan(d)
		if err != nil {
			return err
		}
		return skills.SelectChoice(d, a.catalog, plan, c.GroupID, c.Skill)
	case engine.SkillChoiceRemoved:
		plan, err := a.plan(d)
		if err != nil {
			return err
		}
		return skills.DeselectChoice(d, plan, c.GroupID, c.SkillID)
	case engine.SpecializationResolved:
		plan, err := a.plan(d)
		if err != nil {
			return err
		}
		return skills.ResolveSpecialization(d, a.catalog, plan, c.SlotID, c.SpecializationID, c.CustomName)
	case engine.SpecializationCreated:
		_, err := skills.CreateSpecialization(d, a.catalog, c.BaseSkillID, c.SpecializationID, c.CustomName)
		return err
	case engine.CustomSkillRemoved:
		return skills.RemoveCustomSkill(d, a.planOrEmpty(d), c.SkillID)
	case engine.AnySkillSelected:
		plan, err := a.plan(d)
		if err != nil {
			return err
		}
		return skills.SelectAny(d, a.catalog, plan, c.SkillID)
	case engine.AnySkillRemoved:
		plan, err := a.plan(d)
		if err != nil {
			return err
		}
		return skills.DeselectAny(d, plan, c.SkillID)
	case engine.SkillPointsAllocated:
		return skills.Allocate(d, a.catalog, a.planOrEmpty(d), c.SkillID, c.Kind, c.Value)
	case engine.SkillModifierAdded:
		return skills.AddModifier(d, c.SkillID, coc.SkillModifier{
			Name:      c.Name,
			Value:     c.Value,
			CreatedAt: a.clock.Now().UTC(),
		})
	case engine.SkillModifierRemoved:
		return skills.RemoveModifier(d, c.SkillID, c.Name)

	case engine.DerivedModifierAdded:
		return derived.AddModifier(&d.Derived, c.Stat, coc.Modifier{
			Name:      c.Name,
			Value:     c.Value,
			CreatedAt: a.clock.Now().UTC(),
		})
	case engine.DerivedModifierRemoved:
		return derived.RemoveModifier(&d.Derived, c.Stat, c.Name)

	default:
		return errors.InvalidArgumentf("unsupported command type: %s", cmd.CommandType())
	}
}

func generation(d *coc.CharacterDraft) *coc.AttributeGeneration {
	if d.Generation == nil {
		d.Generation = attributes.NewGeneration()
	}
	return d.Generation
}

func updateBasicInfo(d *coc.CharacterDraft, c engine.BasicInfoUpdated) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&d.Name, c.Name)
	set(&d.Gender, c.Gender)
	set(&d.Residence, c.Residence)
	set(&d.Birthplace, c.Birthplace)
}

func (a *Adapter) changeAge(d *coc.CharacterDraft, raw string) error {
	years, err := age.ParseAge(raw)
	if err != nil {
		return err
	}
	if err := age.ValidateAge(years); err != nil {
		return err
	}
	education := d.Attributes.Education.Value
	if education == 0 {
		return errors.FailedPrecondition("education must be assigned before the age")
	}

	mods, err := a.calculator.Recalculate(d.AgeModifiers, years, education)
	if err != nil {
		return err
	}
	d.Age = years
	d.AgeModifiers = mods
	return nil
}

func (a *Adapter) chooseOccupation(d *coc.CharacterDraft, id string) error {
	if _, ok := a.catalog.Occupation(id); !ok {
		return errors.NotFoundf("occupation %s not found", id)
	}
	if d.OccupationID == id {
		return nil
	}

	skills.ResetSelections(d)
	d.OccupationID = id
	return nil
}

func (a *Adapter) occupation(d *coc.CharacterDraft) *coc.Occupation {
	if d.OccupationID == "" {
		return nil
	}
	occ, ok := a.catalog.Occupation(d.OccupationID)
	if !ok {
		return nil
	}
	return occ
}

func (a *Adapter) plan(d *coc.CharacterDraft) (skills.Plan, error) {
	return skills.Expand(a.occupation(d))
}

// planOrEmpty returns the occupation plan, or an empty plan before an
// occupation is chosen
func (a *Adapter) planOrEmpty(d *coc.CharacterDraft) skills.Plan {
	plan, err := a.plan(d)
	if err != nil {
		return skills.Plan{}
	}
	return plan
}

// recalculate runs the whole chain downstream of any command
func (a *Adapter) recalculate(d *coc.CharacterDraft) {
	if d.Generation != nil {
		attributes.ApplyTo(d.Generation, &d.Attributes)
	}
	d.FinalAttributes = age.Apply(d.Attributes, d.AgeModifiers)

	skills.RefreshBases(d, a.catalog, d.FinalAttributes)
	a.refreshBudgets(d)
	skills.RecomputeTotals(d)

	luck := 0
	if d.AgeModifiers != nil {
		luck = d.AgeModifiers.SelectedLuckValue
	}
	d.Derived = derived.Calculate(derived.Input{
		Attributes: d.FinalAttributes,
		Age:        d.Age,
		Luck:       luck,
	}, d.Derived)

	a.refreshProgress(d)
	d.UpdatedAt = a.clock.Now().Unix()
}

// refreshBudgets keeps the previous budgets while prerequisites are missing
func (a *Adapter) refreshBudgets(d *coc.CharacterDraft) {
	occupationPoints, personalPoints, err := occupation.Budgets(a.occupation(d), d.FinalAttributes)
	switch {
	case err == nil:
		d.Budget.OccupationPoints = occupationPoints
		d.Budget.PersonalPoints = personalPoints
		d.Budget.FormulaError = ""
	case errors.IsFailedPrecondition(err):
		d.Budget.FormulaError = ""
	default:
		slog.Warn("Skill point formula failed",
			"draft_id", d.ID,
			"occupation_id", d.OccupationID,
			"error", err,
		)
		d.Budget.FormulaError = err.Error()
	}
}

type stepResult struct {
	step coc.CreationStep
	flag uint8
	err  error
}

func (a *Adapter) validateSteps(d *coc.CharacterDraft) []stepResult {
	basic := errors.NewValidationBuilder()
	errors.ValidateRequired("name", d.Name, basic)
	errors.ValidateRange("age", d.Age, coc.MinAge, coc.MaxAge, basic)

	occ := a.occupation(d)
	occupationStep := errors.NewValidationBuilder()
	if occ == nil {
		occupationStep.RequiredField("occupation")
	}

	return []stepResult{
		{coc.CreationStepBasicInfo, coc.ProgressStepBasicInfo, basic.Build()},
		{coc.CreationStepAttributes, coc.ProgressStepAttributes, attributes.Validate(d.Generation)},
		{coc.CreationStepAge, coc.ProgressStepAge, age.Validate(d.AgeModifiers)},
		{coc.CreationStepOccupation, coc.ProgressStepOccupation, occupationStep.Build()},
		{coc.CreationStepSkills, coc.ProgressStepSkills, skills.Validate(d, occ)},
	}
}

func (a *Adapter) refreshProgress(d *coc.CharacterDraft) {
	results := a.validateSteps(d)

	d.Progress.CurrentStep = coc.CreationStepReview
	done := 0
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		d.Progress.SetStep(r.flag, r.err == nil)
		if r.err == nil {
			done++
		} else {
			d.Progress.CurrentStep = r.step
		}
	}
	d.Progress.CompletionPercentage = int32(done * 100 / len(results))
}

// violations are errors that make a draft invalid rather than unfinished
var violations = map[string]bool{
	skills.ErrFormula:                  true,
	skills.ErrOccupationPointsExceeded: true,
	skills.ErrPersonalPointsExceeded:   true,
}

// ValidateDraft reports errors per step. IsComplete means every step is
// done; IsValid is false only when the draft breaks a rule, such as an
// overspent budget, as opposed to being unfinished.
func (a *Adapter) ValidateDraft(_ context.Context, input *engine.ValidateDraftInput) (*engine.ValidateDraftOutput, error) {
	if input == nil || input.Draft == nil {
		return nil, errors.InvalidArgument("draft is required")
	}
	d := input.Draft

	out := &engine.ValidateDraftOutput{
		IsValid:  true,
		Errors:   []engine.ValidationError{},
		Warnings: a.warnings(d),
	}

	for _, r := range a.validateSteps(d) {
		if r.err == nil {
			continue
		}
		out.MissingSteps = append(out.MissingSteps, r.step)

		fields := errors.FieldErrors(r.err)
		if len(fields) == 0 {
			out.Errors = append(out.Errors, engine.ValidationError{
				Field:   string(r.step),
				Message: errors.GetMessage(r.err),
				Code:    string(r.step),
			})
			continue
		}

		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if violations[name] {
				out.IsValid = false
			}
			for _, msg := range fields[name] {
				out.Errors = append(out.Errors, engine.ValidationError{
					Field:   name,
					Message: msg,
					Code:    string(r.step),
				})
			}
		}
	}

	out.IsComplete = len(out.MissingSteps) == 0
	return out, nil
}

// warnings lists occupation picks still open. They do not block completion.
func (a *Adapter) warnings(d *coc.CharacterDraft) []engine.ValidationWarning {
	warnings := []engine.ValidationWarning{}
	plan, err := a.plan(d)
	if err != nil {
		return warnings
	}

	for _, g := range plan.Choices {
		if picked := len(d.Selections.Choices[g.ID]); picked < g.Count {
			warnings = append(warnings, engine.ValidationWarning{
				Field:   g.ID,
				Message: fmt.Sprintf("%d of %d skills picked", picked, g.Count),
				Code:    string(coc.CreationStepSkills),
			})
		}
	}
	for _, s := range plan.Specializations {
		if d.Selections.Specializations[s.ID] == "" {
			warnings = append(warnings, engine.ValidationWarning{
				Field:   s.ID,
				Message: fmt.Sprintf("no %s specialization chosen", s.BaseSkillID),
				Code:    string(coc.CreationStepSkills),
			})
		}
	}
	if picked := len(d.Selections.Any); picked < plan.AnyCount {
		warnings = append(warnings, engine.ValidationWarning{
			Field:   "any",
			Message: fmt.Sprintf("%d of %d free skills picked", picked, plan.AnyCount),
			Code:    string(coc.CreationStepSkills),
		})
	}
	return warnings
}

func (a *Adapter) publish(ctx context.Context, d *coc.CharacterDraft, eventType string) {
	event := events.NewGameEvent(eventType, wrapCharacterDraft(d), nil)
	if err := a.eventBus.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish draft event",
			"draft_id", d.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}
