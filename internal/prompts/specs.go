package prompts

const extractSpec = `Respond with a JSON object matching this exact structure:

{
  "invoice_number": "<string or null>",
  "vendor_name": "<string or null>",
  "vendor_address": "<string or null>",
  "customer_name": "<string or null>",
  "customer_address": "<string or null>",
  "invoice_date": "<YYYY-MM-DD or null>",
  "due_date": "<YYYY-MM-DD or null>",
  "line_items": [
    {"description": "<string>", "quantity": 0, "unit_price": 0.00, "total": 0.00}
  ],
  "subtotal": 0.00,
  "tax_rate": 0.00,
  "tax_amount": 0.00,
  "total": 0.00,
  "currency": "USD"
}

Field constraints:
- Amounts are JSON numbers without currency symbols or thousands separators.
- tax_rate is a fraction of the subtotal: 0.10 means 10%. Use null when
  the invoice states no rate.
- Any field not present in the invoice is null. Never invent values.
- line_items is an empty array when no items are listed.

Behavioral constraints:
- Always respond with valid JSON only, no commentary
- Copy amounts exactly as printed; do not correct arithmetic errors`

const transcribeSpec = `Respond with plain text only.

Output constraints:
- Separate pages with a blank line
- Do not summarize, translate, or reformat the content
- Do not wrap the output in markdown fencing
- If a page has no legible text, output nothing for that page`

var specs = map[Stage]string{
	StageExtract:    extractSpec,
	StageTranscribe: transcribeSpec,
}

// Spec returns the fixed output specification for stage. Specifications
// are not overridable: downstream parsing depends on them.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
