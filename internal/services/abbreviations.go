package services

import "strings"

// abbreviations maps shorthand tokens (compared upper-cased) to the phrases
// they expand to in entry descriptions.
var abbreviations = map[string]string{
	"OP":     "Opposing Counsel",
	"OSC":    "Order to Show Cause",
	"NYSCEF": "New York State Courts Electronic Filing",
	"RJI":    "Request for Judicial Intervention",
	"AFF":    "Affirmation",
	"MOL":    "Memorandum of Law",
}

// ExpandAbbreviations replaces known shorthand tokens in a description.
// Each whitespace-separated token is looked up upper-cased; unmatched
// tokens keep their original casing. Tokens are rejoined with single
// spaces, so the original inter-token whitespace is not preserved.
func ExpandAbbreviations(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		if full, ok := abbreviations[strings.ToUpper(w)]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}
