// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobRequirements", "BrandVoice")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// JobDraftSchema returns the extraction schema used when importing a job posting
// from a web page. It produces the fields of a job draft the employer can edit.
func JobDraftSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "JobDraft",
		Description: `You are an expert job posting parser. Your task is to turn the text of a job posting page into a draft listing.
Keep the description in the employer's own words; drop navigation, cookie banners, application forms and legal boilerplate.`,
		Fields: []SchemaField{
			{
				Name:        "title",
				Type:        "\"string\"",
				Description: "Job title exactly as written",
				Required:    true,
			},
			{
				Name:        "company",
				Type:        "\"string\"",
				Description: "Hiring company name, empty if not stated",
			},
			{
				Name:        "description",
				Type:        "\"string\"",
				Description: "Responsibilities and requirements as plain text",
				Required:    true,
			},
			{
				Name:        "skills",
				Type:        "[\"string\"]",
				Description: "Concrete skills and technologies the role asks for",
				Required:    true,
			},
			{
				Name:        "jobType",
				Type:        "\"string\"",
				Description: "One of Full-time, Part-time, Contract, Internship, Freelance; empty if unknown",
			},
			{
				Name:        "workLocation",
				Type:        "\"string\"",
				Description: "One of Remote, On-site, Hybrid; empty if unknown",
			},
		},
	}
}
