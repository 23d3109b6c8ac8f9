// Package orgname normalizes free-text organisation names from registration
// forms so the admin dashboard can count approximate unique organisations.
// It is a display heuristic: when no rule matches, the raw string passes
// through mostly untouched.
package orgname

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxSegmentLen = 60

var (
	trailingAcronymRe   = regexp.MustCompile(`\(([A-ZÆØÅ]{2,6})\)\s*$`)
	trailingParenRe     = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	jobTitlePrefixRe    = regexp.MustCompile(`(?i)^(senior|junior|lead|sjef|fagleder|utvikler|konsulent|rådgiver|arkitekt|designer|leder|direktør|produkteier|ved)\s+`)
	norwegianTitleCaser = cases.Title(language.Norwegian)
)

// Clean reduces a free-text organisation entry to a comparable form.
// Rules apply in order; the first pattern that produces a usable segment wins.
func Clean(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	name = splitCompound(name)
	name = extractAcronymOrCommaTail(name)
	name = jobTitlePrefixRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	if canonical, ok := longFormAcronyms[strings.ToLower(name)]; ok {
		return canonical
	}
	if upper := strings.ToUpper(name); knownAcronyms[upper] {
		return upper
	}

	return name
}

// splitCompound handles entries like "Utvikler - Skatteetaten",
// "konsulent hos Bekk" and "rådgiver i NAV".
func splitCompound(name string) string {
	if before, _, found := strings.Cut(name, " - "); found {
		if s := strings.TrimSpace(before); usable(s) {
			return s
		}
	}
	for _, sep := range []string{" hos ", " @ "} {
		if idx := strings.LastIndex(name, sep); idx >= 0 {
			if s := strings.TrimSpace(name[idx+len(sep):]); usable(s) {
				return s
			}
		}
	}
	if idx := strings.LastIndex(name, " i "); idx >= 0 {
		s := strings.TrimSpace(name[idx+3:])
		if usable(s) && len(s) <= 10 {
			return s
		}
	}
	return name
}

// extractAcronymOrCommaTail prefers a trailing parenthesized acronym
// ("Statistisk sentralbyrå (SSB)" -> "SSB"), then the text after a comma
// ("Seksjon for data, Politiet" -> "Politiet"), then strips any other
// trailing parenthetical.
func extractAcronymOrCommaTail(name string) string {
	if m := trailingAcronymRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if _, after, found := strings.Cut(name, ","); found {
		tail := strings.TrimSpace(after)
		if m := trailingAcronymRe.FindStringSubmatch(tail); m != nil {
			return m[1]
		}
		if usable(tail) {
			return strings.TrimSpace(trailingParenRe.ReplaceAllString(tail, ""))
		}
	}
	return strings.TrimSpace(trailingParenRe.ReplaceAllString(name, ""))
}

func usable(s string) bool {
	return s != "" && len(s) <= maxSegmentLen
}

// UniqueClean cleans every value and deduplicates case-insensitively.
func UniqueClean(values []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, v := range values {
		cleaned := Clean(v)
		if cleaned == "" {
			continue
		}
		set[strings.ToLower(cleaned)] = struct{}{}
	}
	return set
}

// Display renders a cleaned name for the dashboard: known acronyms stay
// uppercase, everything else gets Norwegian title casing.
func Display(name string) string {
	if name == "" {
		return ""
	}
	if upper := strings.ToUpper(name); knownAcronyms[upper] {
		return upper
	}
	return norwegianTitleCaser.String(name)
}
