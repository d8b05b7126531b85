package prompts

const extractInstructions = `You are an expert invoice data extractor. Your task is to extract structured data from invoice text with high accuracy.

Guidelines:
- Extract all available information from the invoice
- For dates, use YYYY-MM-DD format
- For currency, use standard codes (USD, EUR, GBP, etc.)
- Calculate tax_rate as a decimal (e.g., 0.10 for 10%)
- If a field is not present in the invoice, use null
- Ensure line item totals match quantity * unit_price
- Be precise with numbers - don't round unless necessary`

const transcribeInstructions = `You are transcribing a scanned invoice from page images.

Reproduce every piece of text you can read, in reading order, page by page. Keep table rows on a single line with their columns in order so quantities, unit prices, and totals stay together. Copy numbers exactly as printed, including decimal places and currency symbols.`

var instructions = map[Stage]string{
	StageExtract:    extractInstructions,
	StageTranscribe: transcribeInstructions,
}

// DefaultInstructions returns the built-in instructions for stage.
func DefaultInstructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
