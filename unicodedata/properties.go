package unicodedata

import (
	"strings"
	"unicode"

	"github.com/ecmacore/ecmacore/rangeset"
)

// propertyAliases maps the short and long ECMAScript \p{...} spellings
// this module accepts to the stdlib table that backs them. Unmatched names
// fall through to a direct, case/underscore-insensitive lookup of
// unicode.Categories, unicode.Scripts, and unicode.Properties — the three
// layers SRELL's updataout2.cpp/updataout3.cpp would otherwise have to
// generate by hand from the Unicode Character Database.
var propertyAliases = map[string]string{
	"letter":              "L",
	"uppercase_letter":    "Lu",
	"lowercase_letter":    "Ll",
	"titlecase_letter":    "Lt",
	"cased_letter":        "LC",
	"modifier_letter":     "Lm",
	"other_letter":        "Lo",
	"mark":                "M",
	"nonspacing_mark":     "Mn",
	"spacing_mark":        "Mc",
	"enclosing_mark":      "Me",
	"number":              "N",
	"decimal_number":      "Nd",
	"letter_number":       "Nl",
	"other_number":        "No",
	"punctuation":         "P",
	"symbol":              "S",
	"math_symbol":         "Sm",
	"currency_symbol":     "Sc",
	"modifier_symbol":     "Sk",
	"other_symbol":        "So",
	"separator":           "Z",
	"space_separator":     "Zs",
	"line_separator":      "Zl",
	"paragraph_separator": "Zp",
	"other":               "C",
	"control":             "Cc",
	"format":              "Cf",
	"surrogate":           "Cs",
	"private_use":         "Co",
	"unassigned":          "Cn",
	"alpha":               "Alphabetic",
	"alphabetic":          "Alphabetic",
	"white_space":         "White_Space",
	"space":               "White_Space",
	"upper":               "Uppercase",
	"uppercase":           "Uppercase",
	"lower":               "Lowercase",
	"lowercase":           "Lowercase",
	"ascii":               "ASCII",
	"assigned":            "Assigned",
	"any":                 "Any",
	"emoji":               "Emoji",
	"sc":                  "sc",
	"script":              "sc",
	"gc":                  "gc",
	"general_category":    "gc",
}

// normalize strips underscores/hyphens/case so "White_Space", "whitespace",
// and "White-Space" all resolve identically, mirroring the loose alias
// matching SRELL's property-name table performs.
func normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, " ", "")
	return name
}

var normalizedAliases = func() map[string]string {
	m := make(map[string]string, len(propertyAliases))
	for k, v := range propertyAliases {
		m[normalize(k)] = v
	}
	return m
}()

// fromRangeTable converts a stdlib unicode.RangeTable into a rangeset.Set.
func fromRangeTable(rt *unicode.RangeTable) *rangeset.Set {
	s := &rangeset.Set{}
	addStrided := func(lo, hi, stride uint32) {
		if stride == 0 {
			stride = 1
		}
		for c := lo; c <= hi; c += stride {
			s.Join(rangeset.Range{First: rangeset.CodePoint(c), Second: rangeset.CodePoint(c)})
			if stride == 0 {
				break
			}
		}
	}
	for _, r16 := range rt.R16 {
		addStrided(uint32(r16.Lo), uint32(r16.Hi), uint32(r16.Stride))
	}
	for _, r32 := range rt.R32 {
		addStrided(r32.Lo, r32.Hi, r32.Stride)
	}
	return s
}

// Property resolves name (the text inside \p{Name} or \p{Name=Value}) to a
// rangeset.Set. In the Name=Value form, Name must be a Script or
// General_Category alias and Value is resolved like a bare name. ok is
// false when the name is unrecognised — the parser turns that into
// error_property (spec.md §7).
func Property(name string) (*rangeset.Set, bool) {
	if i := strings.IndexByte(name, '='); i >= 0 {
		switch normalizedAliases[normalize(name[:i])] {
		case "sc", "gc":
			name = name[i+1:]
		default:
			return nil, false
		}
	}
	switch normalize(name) {
	case normalize("Any"):
		return rangeset.New(rangeset.Range{First: 0, Second: rangeset.MaxCodePoint}), true
	case normalize("Assigned"):
		cn, ok := unicode.Categories["Cn"]
		if !ok {
			return nil, false
		}
		s := fromRangeTable(cn)
		s.Negate()
		return s, true
	}

	canon := name
	if alias, ok := normalizedAliases[normalize(name)]; ok {
		canon = alias
	}

	if rt, ok := unicode.Categories[canon]; ok {
		return fromRangeTable(rt), true
	}
	if rt, ok := unicode.Scripts[canon]; ok {
		return fromRangeTable(rt), true
	}
	if rt, ok := unicode.Properties[canon]; ok {
		return fromRangeTable(rt), true
	}
	// Loose, case-insensitive retry across all three tables, for names like
	// "latin" -> "Latin" or "nd" -> "Nd".
	for tableName, rt := range unicode.Categories {
		if normalize(tableName) == normalize(canon) {
			return fromRangeTable(rt), true
		}
	}
	for tableName, rt := range unicode.Scripts {
		if normalize(tableName) == normalize(canon) {
			return fromRangeTable(rt), true
		}
	}
	for tableName, rt := range unicode.Properties {
		if normalize(tableName) == normalize(canon) {
			return fromRangeTable(rt), true
		}
	}
	return nil, false
}
