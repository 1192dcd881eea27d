package address

import (
	"regexp"
	"strings"
)

const (
	// LocalitySuffix is appended to addresses typed without a town.
	LocalitySuffix = ", Wonder Lake, IL"
	// WideAreaSuffix is the last-resort locality.
	WideAreaSuffix = ", McHenry County, IL"
)

var directionals = map[string]string{
	"north":     "N",
	"south":     "S",
	"east":      "E",
	"west":      "W",
	"northeast": "NE",
	"northwest": "NW",
	"southeast": "SE",
	"southwest": "SW",
}

var streetTypes = map[string]string{
	"avenue":    "Ave",
	"boulevard": "Blvd",
	"circle":    "Cir",
	"court":     "Ct",
	"drive":     "Dr",
	"highway":   "Hwy",
	"lane":      "Ln",
	"parkway":   "Pkwy",
	"place":     "Pl",
	"point":     "Pt",
	"road":      "Rd",
	"route":     "Rte",
	"street":    "St",
	"terrace":   "Ter",
	"trail":     "Trl",
}

// aliases pairs local two-word place names with the single-word spelling
// residents and the geocoder use interchangeably.
var aliases = [][2]string{
	{"Lake Shore", "Lakeshore"},
	{"Lake View", "Lakeview"},
	{"Lake Side", "Lakeside"},
	{"Lake Wood", "Lakewood"},
	{"Wonder Lake", "Wonderlake"},
	{"Wonder View", "Wonderview"},
	{"Sun Set", "Sunset"},
	{"Bay View", "Bayview"},
}

var (
	abbreviations = map[string]string{} // full (lower) -> abbreviation
	expansions    = map[string]string{} // abbreviation (lower) -> full, title case

	wordPattern = regexp.MustCompile(`[A-Za-z]+\.?`)

	// A state code counts only after a comma (", IL" or ", il") or, upper
	// case, before a ZIP ("IL 60097"), so "123 Oak CT" is not read as
	// Connecticut.
	statePattern = regexp.MustCompile(`(?:,\s*([A-Za-z]{2})\b)|(?:\b([A-Z]{2})\s+\d{5}\b)`)

	zipAhead = regexp.MustCompile(`^\s+\d{5}\b`)

	aliasPatterns []aliasPattern
)

type aliasPattern struct {
	from *regexp.Regexp
	to   string
}

var stateCodes = map[string]struct{}{}

func init() {
	for full, abbr := range directionals {
		abbreviations[full] = abbr
		expansions[strings.ToLower(abbr)] = titleWord(full)
	}
	for full, abbr := range streetTypes {
		abbreviations[full] = abbr
		expansions[strings.ToLower(abbr)] = titleWord(full)
	}
	for _, pair := range aliases {
		aliasPatterns = append(aliasPatterns,
			aliasPattern{from: wordRegexp(pair[0]), to: pair[1]},
			aliasPattern{from: wordRegexp(pair[1]), to: pair[0]},
		)
	}
	for _, s := range strings.Fields("AL AK AZ AR CA CO CT DE FL GA HI ID IL IN IA KS KY LA ME MD MA MI MN MS MO MT NE NV NH NJ NM NY NC ND OH OK OR PA RI SC SD TN TX UT VT VA WA WV WI WY DC") {
		stateCodes[s] = struct{}{}
	}
}

func wordRegexp(phrase string) *regexp.Regexp {
	parts := strings.Fields(phrase)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(parts, `\s+`) + `\b`)
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// HasLocality reports whether the address already names the town or a state.
func HasLocality(addr string) bool {
	lower := strings.ToLower(addr)
	if strings.Contains(lower, "wonder lake") || strings.Contains(lower, "wonderlake") || strings.Contains(lower, "illinois") {
		return true
	}
	for _, m := range statePattern.FindAllStringSubmatch(addr, -1) {
		code := m[1]
		if code == "" {
			code = m[2]
		}
		if _, ok := stateCodes[strings.ToUpper(code)]; ok {
			return true
		}
	}
	return false
}

// Abbreviate shortens directional and street-type words: "East Avenue"
// becomes "E Ave". Other words are left untouched.
func Abbreviate(addr string) string {
	return wordPattern.ReplaceAllStringFunc(addr, func(w string) string {
		if abbr, ok := abbreviations[strings.ToLower(strings.TrimSuffix(w, "."))]; ok {
			return abbr
		}
		return w
	})
}

// Expand is the inverse of Abbreviate: "E Ave." becomes "East Avenue".
// Only the street line (text before the first comma) is rewritten, and a
// token directly before a ZIP is kept, so state codes and city names such
// as "CT" or "St Paul" survive.
func Expand(addr string) string {
	street, rest := addr, ""
	if i := strings.Index(addr, ","); i >= 0 {
		street, rest = addr[:i], addr[i:]
	}

	var b strings.Builder
	last := 0
	for _, loc := range wordPattern.FindAllStringIndex(street, -1) {
		w := street[loc[0]:loc[1]]
		full, ok := expansions[strings.ToLower(strings.TrimSuffix(w, "."))]
		if !ok || zipAhead.MatchString(street[loc[1]:]) {
			continue
		}
		b.WriteString(street[last:loc[0]])
		b.WriteString(full)
		last = loc[1]
	}
	b.WriteString(street[last:])
	return b.String() + rest
}

// ApplyAliases returns every single-alias rewrite of addr, in table order.
func ApplyAliases(addr string) []string {
	var out []string
	for _, a := range aliasPatterns {
		if a.from.MatchString(addr) {
			out = append(out, a.from.ReplaceAllString(addr, a.to))
		}
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Variants expands a raw address into the ordered list of query strings to
// try against the geocoder. Earlier entries are more likely to match; the
// list has no duplicates and no empty strings. An empty input yields nil.
func Variants(raw string) []string {
	base := collapseSpaces(raw)
	if base == "" {
		return nil
	}

	local := HasLocality(base)
	withSuffix := func(s string) string {
		if local {
			return s
		}
		return s + LocalitySuffix
	}

	abbreviated := Abbreviate(base)
	expanded := Expand(base)
	aliased := ApplyAliases(base)

	var out []string
	seen := map[string]struct{}{}
	add := func(s string) {
		s = collapseSpaces(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if !local {
		add(base + LocalitySuffix)
	}
	add(base)
	add(withSuffix(abbreviated))
	add(withSuffix(expanded))
	for _, a := range aliased {
		add(withSuffix(a))
	}
	add(abbreviated)
	add(expanded)
	for _, a := range aliased {
		add(a)
	}
	if !strings.Contains(strings.ToLower(base), "mchenry") {
		add(StreetPortion(base) + WideAreaSuffix)
	}
	return out
}

// StreetPortion is the text before the first comma, trimmed.
func StreetPortion(s string) string {
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
