// Package errors provides the structured error type used across the
// character sheet engine, its repositories and the CLI.
//
// Every error carries a Code, a user-facing Message, an optional Cause and
// free-form Meta. Rules-engine rejections never panic: they come back as
// InvalidArgument, OutOfRange or FailedPrecondition errors and leave the
// draft untouched.
//
// # Basic Usage
//
//	err := errors.NotFound("character not found").
//	    WithMeta("character_id", id)
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load character")
//	}
//
// # Validation Errors
//
// Step validation accumulates named field errors with the builder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRange("age", age, 15, 90, vb)
//	if budget.OccupationSpent > budget.OccupationPoints {
//	    vb.Field("occupation_points_exceeded", "occupation points overspent")
//	}
//	return vb.Build()
//
// FieldErrors recovers the per-field messages from the built error.
//
// # Exit Codes
//
// The CLI maps codes to process exit statuses with Code.ExitCode.
package errors
