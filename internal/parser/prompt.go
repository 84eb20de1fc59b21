package parser

import (
	"strings"

	"rfqforge/internal/domain"
)

// extractionInstructions enumerates the output fields and the rules the model
// must follow. Dimensions are always millimeters; inches are converted here in
// the instructions rather than fixed up afterwards.
const extractionInstructions = `You are a manufacturing RFQ data extraction assistant. Extract structured data from the request-for-quote text below into a single JSON object with exactly these fields:

- "material": the material specified (e.g. "6061 aluminum", "ABS plastic"). Use null if no material is mentioned.
- "material_confidence": your confidence in the material extraction, a number between 0.0 and 1.0.
- "quantity": the number of parts requested, as a number.
- "dimensions": an object with numeric "length", "width" and "height", always in millimeters. Convert inches to millimeters by multiplying by 25.4. Use 0 for dimensions that are not given.
- "complexity": manufacturing complexity, exactly one of "low", "medium" or "high". Consider feature count, tolerances and material difficulty.
- "deadline": the requested delivery date as an ISO-8601 date (YYYY-MM-DD). If the text gives a date, normalize it; otherwise use null.
- "industry": exactly one of "metal fabrication", "injection molding", "cnc machining", "sheet metal", "electronics assembly".
- "industry_confidence": your confidence in the industry classification, a number between 0.0 and 1.0.
- "finish": the surface finish if specified (e.g. "anodized", "polished"), otherwise null.
- "tolerance": the tightest tolerance if specified (e.g. "±0.01mm"), otherwise null.

Rules:
- Never guess a field that is absent from the text. Emit null instead.
- Respond with the JSON object only. No markdown, no code fences, no explanation.

Industry heuristics:
- Welding, brackets, frames, structural steel, fabricated assemblies -> "metal fabrication"
- Molds, cavities, resin, ABS, polycarbonate, high part counts in plastic -> "injection molding"
- Milling, turning, tight tolerances, shafts, machined billet parts -> "cnc machining"
- Bent or punched panels, enclosures from gauge stock, laser cutting -> "sheet metal"
- PCBs, SMT, through-hole, soldering, wire harnesses, BOMs -> "electronics assembly"`

// fewShotExamples are four worked input/output pairs appended to every prompt.
// They steer the output format only; they are never executed.
const fewShotExamples = `Examples:

Input: Need 50 brackets, 6061 aluminum, 3in x 2in x 1in, 2 holes, due May 15
Output: {"material": "6061 aluminum", "material_confidence": 0.95, "quantity": 50, "dimensions": {"length": 76.2, "width": 50.8, "height": 25.4}, "complexity": "low", "deadline": "2025-05-15", "industry": "metal fabrication", "industry_confidence": 0.9, "finish": null, "tolerance": null}

Input: Quote for 10,000 ABS plastic enclosures, 120mm x 80mm x 40mm, textured finish, needed by 2025-09-30
Output: {"material": "ABS plastic", "material_confidence": 0.97, "quantity": 10000, "dimensions": {"length": 120, "width": 80, "height": 40}, "complexity": "medium", "deadline": "2025-09-30", "industry": "injection molding", "industry_confidence": 0.95, "finish": "textured", "tolerance": null}

Input: 25 stainless steel 316 shafts, 20mm diameter x 150mm long, ±0.01mm tolerance, polished
Output: {"material": "stainless steel 316", "material_confidence": 0.98, "quantity": 25, "dimensions": {"length": 150, "width": 20, "height": 20}, "complexity": "high", "deadline": null, "industry": "cnc machining", "industry_confidence": 0.95, "finish": "polished", "tolerance": "±0.01mm"}

Input: Assemble 500 two-layer FR4 boards per attached BOM, lead-free solder, deliver by October 1st 2025
Output: {"material": "FR4", "material_confidence": 0.85, "quantity": 500, "dimensions": {"length": 0, "width": 0, "height": 0}, "complexity": "medium", "deadline": "2025-10-01", "industry": "electronics assembly", "industry_confidence": 0.95, "finish": null, "tolerance": null}`

// BuildExtractionPrompt assembles the full extraction prompt: instructions,
// optional file/user context, the normalized RFQ text, and the few-shot
// examples. The result is deterministic for the same input.
func BuildExtractionPrompt(input domain.NormalizedInput) string {
	var b strings.Builder
	b.WriteString(extractionInstructions)

	if fc := input.FileContext; fc != nil {
		b.WriteString("\n\nDocument context:")
		if fc.Filename != "" {
			b.WriteString("\n- Source file: " + fc.Filename)
		}
		if fc.FileType != "" {
			b.WriteString("\n- File type: " + fc.FileType)
		}
		if fc.SheetName != "" {
			b.WriteString("\n- Sheet: " + fc.SheetName)
		}
	}
	if uc := input.UserContext; uc != nil && uc.PreferredIndustry != "" {
		// Soft hint only. The model classifies from the text; this never
		// overrides what the RFQ actually says.
		b.WriteString("\n\nThis customer has historically requested quotes in the \"" +
			uc.PreferredIndustry + "\" industry. Treat this as a weak prior, not a constraint.")
	}

	b.WriteString("\n\nRFQ text:\n")
	b.WriteString(input.Text)
	b.WriteString("\n\n")
	b.WriteString(fewShotExamples)
	return b.String()
}
