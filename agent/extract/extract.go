// Package extract turns one inbound message into a partial reservation
// slot set. Matching is purely lexical: ordered regexp cascades where the
// first hit wins and absence is simply an empty field, never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Slots is the partial result of one extraction pass. Zero values mean
// the slot was not present in the message.
type Slots struct {
	Name      string
	PartySize int
	Date      string
	Time      string
}

func (s Slots) Empty() bool {
	return s.Name == "" && s.PartySize == 0 && s.Date == "" && s.Time == ""
}

// Template markers. When any of these match, free-text heuristics are
// skipped entirely: a guest filling in the structured form should never
// have half the form reinterpreted heuristically.
var (
	templateName  = regexp.MustCompile(`name:\s*([^\n\r*]+)`)
	templateParty = regexp.MustCompile(`party\s+size:\s*(\d+)`)
	templateDate  = regexp.MustCompile(`date:\s*([^\n\r*]+)`)
	templateTime  = regexp.MustCompile(`time:\s*([^\n\r*]+)`)
)

// Party-size cascade. Order matters and must stay stable: "party of 4"
// outranks the generic "N people" shapes, which outrank "table for N".
var partyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`party\s+of\s+(\d{1,2})`),
	regexp.MustCompile(`(?:for\s+)?(\d{1,2})\s*(?:people|person|pax|guests?)`),
	regexp.MustCompile(`(\d{1,2})\s*(?:people|person|pax|guests?)`),
	regexp.MustCompile(`table\s+for\s+(\d{1,2})`),
	regexp.MustCompile(`(\d{1,2})\s+(?:people|guests?|diners?)`),
}

// Date cascade: relative tokens, weekday names, "month day" / "day month",
// then slash or dash numerics. The literal matched text is kept as-is;
// calendar normalization is deliberately out of scope.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(today|tomorrow|tonight)\b`),
	regexp.MustCompile(`\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b`),
	regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)\b`),
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}\b`),
}

// Time cascade. The two-group patterns rebuild "H:MM" and then look for a
// detached am/pm token so "11:30 am" keeps its meridiem.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(?:am|pm)\b`),
	regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`),
	regexp.MustCompile(`\b\d{1,2}\s*(?:am|pm)\b`),
	regexp.MustCompile(`\b(?:noon|midnight)\b`),
}

var meridiemPattern = regexp.MustCompile(`\b(am|pm)\b`)

// Name extraction is guarded hard: any short utterance could be misread
// as a name, so it only fires when nothing else matched and the message
// carries no digits and none of these tokens.
var nameBlockKeywords = []string{
	"table", "book", "reserve", "party", "people", "reservation",
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"today", "tomorrow",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var fillerPhrases = map[string]struct{}{
	"yes": {}, "no": {}, "ok": {}, "okay": {},
	"thanks": {}, "thank you": {},
	"hello": {}, "hi": {}, "hey": {},
}

// Extract parses one message into whatever slots it can find. It never
// fails; an unmatched slot is just absent from the result.
func Extract(text string) Slots {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return Slots{}
	}

	if slots, ok := extractTemplate(lowered); ok {
		return slots
	}
	return extractFreeText(lowered)
}

func extractTemplate(lowered string) (Slots, bool) {
	var slots Slots
	found := false

	if m := templateName.FindStringSubmatch(lowered); m != nil {
		slots.Name = strings.TrimSpace(m[1])
		found = true
	}
	if m := templateParty.FindStringSubmatch(lowered); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			slots.PartySize = n
			found = true
		}
	}
	if m := templateDate.FindStringSubmatch(lowered); m != nil {
		slots.Date = strings.TrimSpace(m[1])
		found = true
	}
	if m := templateTime.FindStringSubmatch(lowered); m != nil {
		slots.Time = strings.TrimSpace(m[1])
		found = true
	}

	return slots, found
}

func extractFreeText(lowered string) Slots {
	var slots Slots

	for _, p := range partyPatterns {
		m := p.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 99 {
			slots.PartySize = n
		}
		break
	}

	for _, p := range datePatterns {
		m := p.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		if len(m) == 3 {
			// "october 4" / "4 october"
			slots.Date = m[1] + " " + m[2]
		} else {
			slots.Date = m[0]
		}
		break
	}

	for _, p := range timePatterns {
		m := p.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		if len(m) == 3 {
			slots.Time = m[1] + ":" + m[2]
			if ampm := meridiemPattern.FindString(lowered); ampm != "" {
				slots.Time += " " + ampm
			}
		} else {
			slots.Time = m[0]
		}
		break
	}

	if slots.Empty() {
		slots.Name = extractName(lowered)
	}
	return slots
}

func extractName(lowered string) string {
	if len(lowered) <= 1 {
		return ""
	}
	if len(strings.Fields(lowered)) > 4 {
		return ""
	}
	if strings.ContainsAny(lowered, "0123456789") {
		return ""
	}
	for _, kw := range nameBlockKeywords {
		if strings.Contains(lowered, kw) {
			return ""
		}
	}
	if _, filler := fillerPhrases[lowered]; filler {
		return ""
	}
	return lowered
}
