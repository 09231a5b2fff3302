package sheetio

import (
	"bytes"
	"context"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/i18n"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/conversion"
)

// Config holds the dependencies for the service
type Config struct {
	Converter  conversion.DraftConverter
	Translator *i18n.Translator
	// Migrations defaults to NewMigrations()
	Migrations *Migrations
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c == nil {
		vb.RequiredField("config")
		return vb.Build()
	}
	if c.Converter == nil {
		vb.RequiredField("Converter")
	}
	if c.Translator == nil {
		vb.RequiredField("Translator")
	}

	return vb.Build()
}

type service struct {
	converter  conversion.DraftConverter
	translator *i18n.Translator
	migrations *Migrations
}

// New creates the sheet import/export service
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	migrations := cfg.Migrations
	if migrations == nil {
		migrations = NewMigrations()
	}

	return &service{
		converter:  cfg.Converter,
		translator: cfg.Translator,
		migrations: migrations,
	}, nil
}

func (s *service) Export(_ context.Context, input *ExportInput) (*ExportOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	record := *input.Character
	record.SchemaVersion = coc.CurrentSchemaVersion

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&record); err != nil {
		return nil, errors.Wrapf(err, "failed to encode character %s", record.ID)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to encode character %s", record.ID)
	}

	slog.Debug("Character exported", "character_id", record.ID, "bytes", buf.Len())
	return &ExportOutput{Data: buf.Bytes()}, nil
}

func (s *service) Import(_ context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil || len(bytes.TrimSpace(input.Data)) == 0 {
		return nil, errors.InvalidArgument("document is empty")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(input.Data, &doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "document is not valid YAML")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || !isMapping(doc.Content[0]) {
		return nil, errors.InvalidArgument("document must hold a single record mapping")
	}
	root := doc.Content[0]

	versionNode := lookup(root, schemaVersionKey)
	if versionNode == nil {
		return nil, errors.NewValidationBuilder().RequiredField(schemaVersionKey).Build()
	}
	version, ok := intValue(versionNode)
	if !ok {
		return nil, errors.NewValidationBuilder().InvalidField(schemaVersionKey, "must be an integer").Build()
	}

	if err := s.migrations.Migrate(root, version); err != nil {
		return nil, err
	}
	if err := validateDocument(root); err != nil {
		return nil, errors.Wrap(err, "document is missing required fields")
	}

	var record coc.Character
	if err := root.Decode(&record); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "document fields have the wrong type")
	}

	if version < coc.CurrentSchemaVersion {
		s.converter.Normalize(&record)
	}
	if err := validateRecord(&record); err != nil {
		return nil, errors.Wrap(err, "record is invalid")
	}

	slog.Info("Character imported",
		"character_id", record.ID,
		"source_version", version,
		"skills", len(record.Skills),
	)

	return &ImportOutput{Character: &record, SourceVersion: version}, nil
}
