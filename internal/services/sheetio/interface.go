// Package sheetio imports and exports character records as YAML documents
// and renders printable sheets.
package sheetio

import (
	"context"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
)

//go:generate mockgen -destination=mock/mock_service.go -package=sheetiomock github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/sheetio Service

// Service converts character records to and from their file formats
type Service interface {
	// Export encodes a record as a YAML document at the current schema version
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)

	// Import decodes a YAML document, migrating older schema versions and
	// rejecting documents that miss required fields
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)

	// RenderPDF draws a printable one page sheet
	RenderPDF(ctx context.Context, input *RenderPDFInput) (*RenderPDFOutput, error)
}

// ExportInput contains the record to export
type ExportInput struct {
	Character *coc.Character
}

// ExportOutput contains the encoded document
type ExportOutput struct {
	Data []byte
}

// ImportInput contains the document to import
type ImportInput struct {
	Data []byte
}

// ImportOutput contains the decoded record
type ImportOutput struct {
	Character *coc.Character
	// SourceVersion is the schema version the document was written with
	SourceVersion int
}

// RenderPDFInput contains the record to draw and the label locale
type RenderPDFInput struct {
	Character *coc.Character
	Locale    string
}

// RenderPDFOutput contains the PDF bytes
type RenderPDFOutput struct {
	Data []byte
}
