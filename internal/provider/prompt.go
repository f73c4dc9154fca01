package provider

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// systemPrompt fixes the extraction role for every call.
const systemPrompt = "You are a document parsing assistant that extracts structured data from documents. " +
	"Always return valid JSON according to the specified schema."

// userPrompt embeds the schema text in the fixed extraction instruction.
func userPrompt(schema json.RawMessage) string {
	return fmt.Sprintf(`Extract information from the attached document according to this JSON schema:

%s

Return ONLY a valid JSON object matching the schema. Do not include any explanations, notes, or text outside of the JSON object.`,
		indentJSON(schema))
}

func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// pdfDataURL encodes a PDF for inline upload as a file content part.
func pdfDataURL(document []byte) string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(document)
}
