// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one resume.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Resume identifies one input PDF and the JSON file produced from it.
type Resume struct {
	// ID is a slug derived from the PDF file name (e.g. "jane-doe").
	ID string `json:"id" yaml:"id"`

	// PDFPath is the local filesystem path to the source PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// JSONPath is where the structured record is written.
	JSONPath string `json:"json_path" yaml:"json_path"`
}
