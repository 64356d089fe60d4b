package synpat

import (
	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/charclass"
	"github.com/ecmacore/ecmacore/rangeset"
	"github.com/ecmacore/ecmacore/unicodedata"
)

// emitChar compiles a single literal code point, case-unfolding it into a
// one-off character class when the pattern is case-insensitive.
func (p *Parser) emitChar(c rangeset.CodePoint) frag {
	if !p.icase {
		idx := p.b.emit(automaton.State{Tag: automaton.TagCharacter, CharNum: int32(c)})
		return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}
	}
	set := rangeset.NewSingle(c)
	for _, u := range unicodedata.CaseUnfold(c) {
		set.Join(rangeset.Range{First: u, Second: u})
	}
	id := p.classes.Intern(set, false)
	idx := p.b.emit(automaton.State{Tag: automaton.TagCharacterClass, CharNum: int32(id)})
	return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}
}

// icaseExpand returns the case-unfolded closure of set, used when an
// already-built multi-character class (a property escape, a bracket
// class) needs to match case-insensitively.
func icaseExpand(set *rangeset.Set) *rangeset.Set {
	out := set.Clone()
	for _, r := range set.Ranges() {
		for c := r.First; c <= r.Second; c++ {
			for _, u := range unicodedata.CaseUnfold(c) {
				out.Join(rangeset.Range{First: u, Second: u})
			}
		}
	}
	return out
}

// emitAnyChar compiles ".": the DotAll predefined class under the s flag,
// or the negated Newline class otherwise.
func (p *Parser) emitAnyChar() frag {
	id := charclass.DotAll
	isNot := false
	if !p.dotall {
		id = charclass.Newline
		isNot = true
	}
	idx := p.b.emit(automaton.State{Tag: automaton.TagCharacterClass, CharNum: int32(id), IsNot: isNot})
	return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}
}

// emitPredefinedClass compiles \d \D \s \S \w \W, lazily expanding the
// icase_word closure (spec.md §4.3) the first time an icase \w/\W/\b
// needs it.
func (p *Parser) emitPredefinedClass(id charclass.ID, isNot bool) frag {
	if id == charclass.Word && p.icase {
		p.classes.ExpandICaseWord()
		id = charclass.ICaseWord
	}
	idx := p.b.emit(automaton.State{Tag: automaton.TagCharacterClass, CharNum: int32(id), IsNot: isNot})
	return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

// parseEscapeAtom parses a "\" sequence appearing as a grammar atom
// (outside a bracket class).
func (p *Parser) parseEscapeAtom() (frag, bool, error) {
	p.advance() // '\\'
	if p.atEnd() {
		return frag{}, false, p.errAt(automaton.ErrEscape, "trailing backslash")
	}
	switch p.peek() {
	case 'd':
		p.advance()
		return p.emitPredefinedClass(charclass.Digit, false), true, nil
	case 'D':
		p.advance()
		return p.emitPredefinedClass(charclass.Digit, true), true, nil
	case 's':
		p.advance()
		return p.emitPredefinedClass(charclass.Space, false), true, nil
	case 'S':
		p.advance()
		return p.emitPredefinedClass(charclass.Space, true), true, nil
	case 'w':
		p.advance()
		return p.emitPredefinedClass(charclass.Word, false), true, nil
	case 'W':
		p.advance()
		return p.emitPredefinedClass(charclass.Word, true), true, nil
	case 'b':
		p.advance()
		if p.icase {
			p.classes.ExpandICaseWord()
		}
		idx := p.b.emit(automaton.State{Tag: automaton.TagBoundary, ICase: p.icase})
		return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, false, nil
	case 'B':
		p.advance()
		if p.icase {
			p.classes.ExpandICaseWord()
		}
		idx := p.b.emit(automaton.State{Tag: automaton.TagBoundary, IsNot: true, ICase: p.icase})
		return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, false, nil
	case 'p', 'P':
		return p.parsePropertyEscapeAtom()
	case 'k':
		return p.parseNamedBackref()
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return p.parseNumericBackref()
	case '0':
		p.advance()
		if isDigit(p.peek()) {
			return frag{}, false, p.errAt(automaton.ErrEscape, "octal escapes are not supported")
		}
		return p.emitChar(0), true, nil
	default:
		cp, err := p.parseCharEscape()
		if err != nil {
			return frag{}, false, err
		}
		return p.emitChar(cp), true, nil
	}
}

func (p *Parser) parseNumericBackref() (frag, bool, error) {
	n, _ := p.scanDigits()
	idx := p.b.emit(automaton.State{Tag: automaton.TagBackreference, CharNum: int32(n), ICase: p.icase})
	return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, true, nil
}

func (p *Parser) parseNamedBackref() (frag, bool, error) {
	p.advance() // 'k'
	if !p.eat('<') {
		return frag{}, false, p.errAt(automaton.ErrBackref, "expected < after \\k")
	}
	name, err := p.parseGroupName()
	if err != nil {
		return frag{}, false, err
	}
	bracketNo := p.groups.Lookup(name)
	if bracketNo == -1 {
		p.groups.ParkForwardRef(name)
	}
	idx := p.b.emit(automaton.State{Tag: automaton.TagBackreference, CharNum: int32(bracketNo), ICase: p.icase})
	p.pendingNamedBackrefs = append(p.pendingNamedBackrefs, namedBackrefFixup{state: idx, name: name})
	return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, true, nil
}

func (p *Parser) parsePropertyEscapeAtom() (frag, bool, error) {
	neg := p.peek() == 'P'
	p.advance() // 'p' or 'P'
	if !p.eat('{') {
		return frag{}, false, p.errAt(automaton.ErrProperty, "expected { after \\p")
	}
	name, err := p.scanUntil('}')
	if err != nil {
		return frag{}, false, err
	}
	p.advance() // '}'
	if sp, ok := unicodedata.LookupSequenceProperty(name); ok && p.vmode && !neg {
		members := append([]string(nil), sp.Members...)
		return p.buildStringAlternation(rangeset.New(), members), true, nil
	}
	set, ok := unicodedata.Property(name)
	if !ok {
		return frag{}, false, p.errAt(automaton.ErrProperty, "unknown Unicode property "+name)
	}
	if p.icase {
		set = icaseExpand(set)
	}
	id := p.classes.Intern(set, false)
	idx := p.b.emit(automaton.State{Tag: automaton.TagCharacterClass, CharNum: int32(id), IsNot: neg})
	return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, true, nil
}

func (p *Parser) scanUntil(end rune) (string, error) {
	var rs []rune
	for p.peek() != end {
		if p.atEnd() {
			return "", p.errAt(automaton.ErrProperty, "unterminated escape")
		}
		rs = append(rs, p.advance())
	}
	return string(rs), nil
}

// parseCharEscape decodes a literal-character escape: \n \r \t \v \f,
// \cX, \xHH, \uHHHH / \u{H+}, or an identity escape of a punctuation
// character.
func (p *Parser) parseCharEscape() (rangeset.CodePoint, error) {
	c := p.advance()
	switch c {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case 'f':
		return '\f', nil
	case 'c':
		return p.parseControlEscape()
	case 'x':
		return p.parseHexEscape(2)
	case 'u':
		return p.parseUnicodeEscape()
	default:
		if isIdentifierPart(c) && !p.vmode {
			return 0, p.errAt(automaton.ErrNoEscape, "unnecessary escape of identifier character")
		}
		return rangeset.CodePoint(c), nil
	}
}

func isIdentifierPart(c rune) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *Parser) parseControlEscape() (rangeset.CodePoint, error) {
	c := p.peek()
	if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return 0, p.errAt(automaton.ErrEscape, "invalid \\c control escape")
	}
	p.advance()
	return rangeset.CodePoint(c % 32), nil
}

func (p *Parser) parseHexEscape(digits int) (rangeset.CodePoint, error) {
	n := 0
	for i := 0; i < digits; i++ {
		d, ok := hexDigit(p.peek())
		if !ok {
			return 0, p.errAt(automaton.ErrEscape, "invalid hex escape")
		}
		p.advance()
		n = n*16 + d
	}
	return rangeset.CodePoint(n), nil
}

func hexDigit(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// parseUnicodeEscape decodes \uHHHH, combining a following \uHHHH low
// surrogate into one astral code point under the u/v flags' UTF-16
// surrogate-pairing rule, or \u{H+}.
func (p *Parser) parseUnicodeEscape() (rangeset.CodePoint, error) {
	if p.peek() == '{' {
		p.advance()
		n := 0
		digits := 0
		for {
			d, ok := hexDigit(p.peek())
			if !ok {
				break
			}
			p.advance()
			n = n*16 + d
			digits++
		}
		if digits == 0 || !p.eat('}') || n > int(rangeset.MaxCodePoint) {
			return 0, p.errAt(automaton.ErrEscape, "invalid \\u{...} escape")
		}
		return rangeset.CodePoint(n), nil
	}
	hi, err := p.parseHexEscape(4)
	if err != nil {
		return 0, err
	}
	if hi >= 0xD800 && hi <= 0xDBFF && p.peekAt(0) == '\\' && p.peekAt(1) == 'u' {
		save := p.pos
		p.advance()
		p.advance()
		lo, err := p.parseHexEscape(4)
		if err == nil && lo >= 0xDC00 && lo <= 0xDFFF {
			return 0x10000 + (hi-0xD800)*0x400 + (lo - 0xDC00), nil
		}
		p.pos = save
	}
	return hi, nil
}
