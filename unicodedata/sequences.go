package unicodedata

import "github.com/ecmacore/ecmacore/rangeset"

// SequenceProperty is a Unicode property whose members are strings rather
// than single code points (spec.md GLOSSARY "Sequence property"),
// available only under the v-mode (?unicodesets?) flag via a \p{...} atom
// outside brackets; inside a bracket class these names are not accepted.
//
// SRELL's sidecar data generator (original_source/unicode/updataout3.cpp)
// produces the full RGI emoji sequence tables from the Unicode Character
// Database offline; that generator is out of this module's scope (spec.md
// §1 explicitly calls Unicode-table generation an external collaborator).
// This package instead ships a small, curated table of ECMAScript-named
// sequence properties. Members are in no particular order: the synpat
// lowering sorts them longest-first, so the longest member wins.
type SequenceProperty struct {
	Name    string
	Members []string
}

var sequenceProperties = map[string]*SequenceProperty{
	"Basic_Emoji": {
		Name:    "Basic_Emoji",
		Members: []string{"☺️", "☺", "😀", "😁", "😂", "🙂", "👍", "👎", "❤️", "❤"},
	},
	"RGI_Emoji_Flag_Sequence": {
		Name:    "RGI_Emoji_Flag_Sequence",
		Members: []string{"🇺🇸", "🇬🇧", "🇯🇵", "🇨🇦", "🇫🇷", "🇩🇪"},
	},
	"RGI_Emoji_Tag_Sequence": {
		Name: "RGI_Emoji_Tag_Sequence",
		Members: []string{
			"🏴\U000E0067\U000E0062\U000E0065\U000E006E\U000E0067\U000E007F", // England
			"🏴\U000E0067\U000E0062\U000E0073\U000E0063\U000E0074\U000E007F", // Scotland
		},
	},
	"RGI_Emoji_ZWJ_Sequence": {
		Name: "RGI_Emoji_ZWJ_Sequence",
		Members: []string{
			"👨‍👩‍👧‍👦",
			"👩‍❤️‍👨",
			"👨‍👨‍👦",
			"🏳️‍🌈",
		},
	},
}

func init() {
	rgi := &SequenceProperty{Name: "RGI_Emoji"}
	for _, name := range []string{"Basic_Emoji", "RGI_Emoji_Flag_Sequence", "RGI_Emoji_Tag_Sequence", "RGI_Emoji_ZWJ_Sequence"} {
		rgi.Members = append(rgi.Members, sequenceProperties[name].Members...)
	}
	sequenceProperties["RGI_Emoji"] = rgi
}

// LookupSequenceProperty returns the named string-valued property, if this
// module carries it.
func LookupSequenceProperty(name string) (*SequenceProperty, bool) {
	key := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '-' {
			key[i] = '_'
		} else {
			key[i] = name[i]
		}
	}
	p, ok := sequenceProperties[string(key)]
	return p, ok
}

// CodePointsOf decodes a single Members entry (a Go string, already UTF-8)
// into its code points.
func CodePointsOf(s string) []rangeset.CodePoint {
	var out []rangeset.CodePoint
	for _, r := range s {
		out = append(out, rangeset.CodePoint(r))
	}
	return out
}
