package parser

import (
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"rfqforge/internal/domain"
)

// scrapeFallbackConfidence is assigned to both confidence scores of a scraped
// candidate. It sits below the default gate threshold on purpose: a response
// degraded enough to need scraping should be rejected unless the operator
// lowered the gate.
const scrapeFallbackConfidence = 0.6

var (
	// "tolerance": "±0.1mm<newline>}  — a known provider failure mode where the
	// closing quote of the tolerance value is dropped right before the final brace.
	unterminatedToleranceRe = regexp.MustCompile(`("tolerance"\s*:\s*"[^"\n]*)(\r?\n\s*\})`)

	bareKeyRe            = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	bareValueRe          = regexp.MustCompile(`:\s*([A-Za-z±][^,}\]\n"]*)`)
	trailingCommaRe      = regexp.MustCompile(`,(\s*[}\]])`)
	newlineBeforeBraceRe = regexp.MustCompile(`\n\s*(\})`)

	dimsBlockRe = regexp.MustCompile(`"?dimensions"?\s*:\s*\{[^}]*\}`)
	dimsKeyRe   = map[string]*regexp.Regexp{
		"length": regexp.MustCompile(`length"?\s*:\s*(-?[0-9.]+)`),
		"width":  regexp.MustCompile(`width"?\s*:\s*(-?[0-9.]+)`),
		"height": regexp.MustCompile(`height"?\s*:\s*(-?[0-9.]+)`),
	}

	materialScrapeRe = regexp.MustCompile(`(?i)["']?material["']?\s*[:=]\s*["']?([A-Za-z0-9][A-Za-z0-9 .\-]*)`)
	industryScrapeRe = regexp.MustCompile(`(?i)["']?industry["']?\s*[:=]\s*["']?([A-Za-z ]+)`)
	quantityScrapeRe = regexp.MustCompile(`(?i)["']?quantity["']?\s*[:=]\s*["']?([0-9]+)`)
)

// RepairJSON turns a raw model response into a candidate object. Recovery
// strategies run strictly in order, each more invasive than the last, and the
// first success wins; ordering direct-parse first and regex-scraping last
// minimizes the chance of corrupting an otherwise valid response. Never
// returns an error: ok=false means no strategy produced a parseable object.
func RepairJSON(raw string) (map[string]any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	if obj, ok := parseObject(raw); ok {
		return obj, true
	}
	if obj, ok := extractLargestObject(raw); ok {
		log.Printf("parser.RepairJSON: recovered via object extraction")
		return obj, true
	}
	if obj, ok := fixUnterminatedTolerance(raw); ok {
		log.Printf("parser.RepairJSON: recovered via tolerance quote fix")
		return obj, true
	}
	if obj, ok := fixLooseSyntax(raw); ok {
		log.Printf("parser.RepairJSON: recovered via loose syntax repair")
		return obj, true
	}
	if obj, ok := fixDimensionsBlock(raw); ok {
		log.Printf("parser.RepairJSON: recovered via dimensions block rebuild")
		return obj, true
	}
	if obj, ok := scrapeFields(raw); ok {
		log.Printf("parser.RepairJSON: recovered via regex field scrape")
		return obj, true
	}
	return nil, false
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// extractLargestObject parses the widest {...} span. This handles code fences,
// preambles and trailing prose around an otherwise valid object.
func extractLargestObject(raw string) (map[string]any, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return parseObject(raw[start : end+1])
}

// fixUnterminatedTolerance closes a tolerance string value that runs into the
// final brace without its closing quote.
func fixUnterminatedTolerance(raw string) (map[string]any, bool) {
	if !unterminatedToleranceRe.MatchString(raw) {
		return nil, false
	}
	fixed := unterminatedToleranceRe.ReplaceAllString(raw, `$1"$2`)
	if obj, ok := parseObject(fixed); ok {
		return obj, true
	}
	return extractLargestObject(fixed)
}

// fixLooseSyntax applies a generalized textual repair pass: quote bare keys,
// quote bare scalar values, drop trailing commas, drop newlines directly
// before a closing brace.
func fixLooseSyntax(raw string) (map[string]any, bool) {
	s := raw
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		s = s[start : end+1]
	}
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = bareValueRe.ReplaceAllStringFunc(s, quoteBareValue)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = newlineBeforeBraceRe.ReplaceAllString(s, "$1")
	return parseObject(s)
}

func quoteBareValue(match string) string {
	colon := strings.Index(match, ":")
	head, val := match[:colon+1], strings.TrimSpace(match[colon+1:])
	switch val {
	case "true", "false", "null":
		return head + " " + val
	}
	return head + ` "` + strings.TrimRight(val, " \t") + `"`
}

// fixDimensionsBlock rebuilds the nested dimensions object, injecting 0 for
// any of length/width/height that the block dropped, then re-parses the whole
// document.
func fixDimensionsBlock(raw string) (map[string]any, bool) {
	loc := dimsBlockRe.FindStringIndex(raw)
	if loc == nil {
		return nil, false
	}
	block := raw[loc[0]:loc[1]]
	parts := make([]string, 0, 3)
	for _, key := range []string{"length", "width", "height"} {
		val := "0"
		if m := dimsKeyRe[key].FindStringSubmatch(block); m != nil {
			val = m[1]
		}
		parts = append(parts, `"`+key+`": `+val)
	}
	rebuilt := raw[:loc[0]] + `"dimensions": {` + strings.Join(parts, ", ") + `}` + raw[loc[1]:]
	if obj, ok := parseObject(rebuilt); ok {
		return obj, true
	}
	return fixLooseSyntax(rebuilt)
}

// scrapeFields is the last resort for prose-like responses: pull material,
// industry (closed set only) and quantity (integer only) straight out of the
// text and synthesize a minimal candidate with safe defaults. The result
// still goes through full schema validation and the confidence gate, so a
// response this degraded is usually rejected rather than silently accepted.
func scrapeFields(raw string) (map[string]any, bool) {
	matched := false

	doc := `{"material":"unknown","quantity":1,"dimensions":{"length":0,"width":0,"height":0},"complexity":"medium"}`
	doc, _ = sjson.Set(doc, "deadline", time.Now().UTC().Format("2006-01-02"))
	doc, _ = sjson.Set(doc, "material_confidence", scrapeFallbackConfidence)
	doc, _ = sjson.Set(doc, "industry_confidence", scrapeFallbackConfidence)

	if m := materialScrapeRe.FindStringSubmatch(raw); m != nil {
		doc, _ = sjson.Set(doc, "material", strings.TrimSpace(m[1]))
		matched = true
	}
	if m := industryScrapeRe.FindStringSubmatch(raw); m != nil {
		if ind, ok := domain.ParseIndustry(strings.TrimSpace(m[1])); ok {
			doc, _ = sjson.Set(doc, "industry", string(ind))
			matched = true
		}
	}
	if m := quantityScrapeRe.FindStringSubmatch(raw); m != nil {
		if qty, err := strconv.Atoi(m[1]); err == nil {
			doc, _ = sjson.Set(doc, "quantity", qty)
			matched = true
		}
	}

	if !matched {
		return nil, false
	}
	return parseObject(doc)
}
