package vmexec

import (
	"github.com/ecmacore/ecmacore/rangeset"
	"github.com/ecmacore/ecmacore/unicodedata"
)

func codePoint(r rune) rangeset.CodePoint { return rangeset.CodePoint(r) }

func foldEqual(a, b rune) bool {
	return unicodedata.CaseFold(codePoint(a)) == unicodedata.CaseFold(codePoint(b))
}
