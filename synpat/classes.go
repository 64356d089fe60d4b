package synpat

import (
	"sort"

	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/charclass"
	"github.com/ecmacore/ecmacore/rangeset"
	"github.com/ecmacore/ecmacore/unicodedata"
)

// parseClass parses a bracket expression "[...]", dispatching to the
// v-mode (unicodeSets) grammar when that flag is set.
func (p *Parser) parseClass() (frag, error) {
	p.advance() // '['
	if p.vmode {
		return p.parseClassV()
	}
	return p.parseClassU()
}

// parseClassU parses the u-mode/default bracket-class grammar: an
// optional leading "^" negation, then a run of literal characters,
// ranges, and predefined-class escapes.
func (p *Parser) parseClassU() (frag, error) {
	negate := p.eat('^')
	set := rangeset.New()
	for {
		if p.atEnd() {
			return frag{}, p.errAt(automaton.ErrBrack, "unterminated character class")
		}
		if p.peek() == ']' {
			p.advance()
			break
		}
		lo, loSet, err := p.parseClassAtom()
		if err != nil {
			return frag{}, err
		}
		if loSet != nil {
			set.Merge(loSet)
			continue
		}
		if p.peek() == '-' && p.peekAt(1) != ']' {
			save := p.pos
			p.advance() // '-'
			hi, hiSet, err := p.parseClassAtom()
			if err != nil {
				return frag{}, err
			}
			if hiSet != nil {
				// "x-\d" etc.: '-' is a literal member, not a range dash.
				p.pos = save
				set.Join(rangeset.Range{First: lo, Second: lo})
				continue
			}
			if hi < lo {
				return frag{}, p.errAt(automaton.ErrRange, "class range out of order")
			}
			set.Join(rangeset.Range{First: lo, Second: hi})
			continue
		}
		set.Join(rangeset.Range{First: lo, Second: lo})
	}
	if p.icase {
		set = icaseExpand(set)
	}
	id := p.classes.Intern(set, false)
	idx := p.b.emit(automaton.State{Tag: automaton.TagCharacterClass, CharNum: int32(id), IsNot: negate})
	return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, nil
}

// parseClassAtom parses one member inside a bracket class: a predefined
// shorthand or property escape (which contributes a Set and no single
// code point), or a literal/escaped code point.
func (p *Parser) parseClassAtom() (rangeset.CodePoint, *rangeset.Set, error) {
	c := p.peek()
	if c != '\\' {
		p.advance()
		return rangeset.CodePoint(c), nil, nil
	}
	p.advance() // '\\'
	switch p.peek() {
	case 'd':
		p.advance()
		return 0, p.classes.Set(charclass.Digit), nil
	case 'D':
		p.advance()
		return 0, p.classes.Set(charclass.Digit).Negated(), nil
	case 's':
		p.advance()
		return 0, p.classes.Set(charclass.Space), nil
	case 'S':
		p.advance()
		return 0, p.classes.Set(charclass.Space).Negated(), nil
	case 'w':
		p.advance()
		return 0, p.classes.Set(charclass.Word), nil
	case 'W':
		p.advance()
		if p.icase {
			// Negate the icase word set so U+017F and U+212A stay out of
			// icase [\W], as they do for the bare \W atom.
			p.classes.ExpandICaseWord()
			return 0, p.classes.Set(charclass.ICaseWord).Negated(), nil
		}
		return 0, p.classes.Set(charclass.Word).Negated(), nil
	case 'b':
		p.advance()
		return '\b', nil, nil
	case 'p', 'P':
		neg := p.peek() == 'P'
		p.advance()
		if !p.eat('{') {
			return 0, nil, p.errAt(automaton.ErrProperty, "expected { after \\p")
		}
		name, err := p.scanUntil('}')
		if err != nil {
			return 0, nil, err
		}
		p.advance()
		set, ok := unicodedata.Property(name)
		if !ok {
			return 0, nil, p.errAt(automaton.ErrProperty, "unknown Unicode property "+name)
		}
		if neg {
			set = set.Negated()
		}
		return 0, set, nil
	default:
		cp, err := p.parseCharEscape()
		return cp, nil, err
	}
}

// parseClassV parses the v-mode (unicodeSets) bracket-class grammar:
// spec.md §4.5.1's class set operations ("&&" intersection, "--"
// subtraction), nested "[...]" sub-expressions, and "\q{...}" string
// alternatives.
func (p *Parser) parseClassV() (frag, error) {
	set, strs, negate, err := p.parseClassVExpr()
	if err != nil {
		return frag{}, err
	}
	if !p.eat(']') {
		return frag{}, p.errAt(automaton.ErrBrack, "unterminated character class")
	}
	if p.icase {
		set = icaseExpand(set)
	}
	if len(strs) == 0 {
		id := p.classes.Intern(set, false)
		idx := p.b.emit(automaton.State{Tag: automaton.TagCharacterClass, CharNum: int32(id), IsNot: negate})
		return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, nil
	}
	if negate {
		return frag{}, p.errAt(automaton.ErrComplement, "cannot negate a class containing \\q{...} string members")
	}
	return p.buildStringAlternation(set, strs), nil
}

// parseClassVExpr parses an optional leading "^" and a chain of operands
// combined by "&&"/"--", left to right.
func (p *Parser) parseClassVExpr() (*rangeset.Set, []string, bool, error) {
	negate := p.eat('^')
	set, strs, err := p.parseClassVOperand()
	if err != nil {
		return nil, nil, false, err
	}
	for {
		switch {
		case p.peek() == '&' && p.peekAt(1) == '&':
			p.advance()
			p.advance()
			rhs, _, err := p.parseClassVOperand()
			if err != nil {
				return nil, nil, false, err
			}
			set = set.Intersect(rhs)
		case p.peek() == '-' && p.peekAt(1) == '-':
			p.advance()
			p.advance()
			rhs, _, err := p.parseClassVOperand()
			if err != nil {
				return nil, nil, false, err
			}
			set = set.Subtract(rhs)
		default:
			return set, strs, negate, nil
		}
	}
}

// parseClassVOperand parses one operand: a nested "[...]" sub-expression,
// or a run of plain members/ranges/shorthands/"\q{...}" string members.
func (p *Parser) parseClassVOperand() (*rangeset.Set, []string, error) {
	if p.peek() == '[' {
		p.advance()
		set, strs, neg, err := p.parseClassVExpr()
		if err != nil {
			return nil, nil, err
		}
		if !p.eat(']') {
			return nil, nil, p.errAt(automaton.ErrBrack, "unterminated nested class")
		}
		if neg {
			set = set.Negated()
		}
		return set, strs, nil
	}

	set := rangeset.New()
	var strs []string
	for {
		if p.atEnd() {
			return nil, nil, p.errAt(automaton.ErrBrack, "unterminated character class")
		}
		c := p.peek()
		if c == ']' || (c == '&' && p.peekAt(1) == '&') || (c == '-' && p.peekAt(1) == '-') {
			break
		}
		if c == '\\' && p.peekAt(1) == 'q' {
			p.advance()
			p.advance()
			members, err := p.parseQStrings()
			if err != nil {
				return nil, nil, err
			}
			strs = append(strs, members...)
			continue
		}
		lo, loSet, err := p.parseClassAtom()
		if err != nil {
			return nil, nil, err
		}
		if loSet != nil {
			set.Merge(loSet)
			continue
		}
		if p.peek() == '-' && p.peekAt(1) != ']' && p.peekAt(1) != '-' {
			save := p.pos
			p.advance()
			hi, hiSet, err := p.parseClassAtom()
			if err != nil {
				return nil, nil, err
			}
			if hiSet != nil {
				p.pos = save
				set.Join(rangeset.Range{First: lo, Second: lo})
				continue
			}
			if hi < lo {
				return nil, nil, p.errAt(automaton.ErrRange, "class range out of order")
			}
			set.Join(rangeset.Range{First: lo, Second: hi})
			continue
		}
		set.Join(rangeset.Range{First: lo, Second: lo})
	}
	return set, strs, nil
}

// parseQStrings parses "{s1|s2|...}" following "\q", returning each
// pipe-separated alternative as a decoded string.
func (p *Parser) parseQStrings() ([]string, error) {
	if !p.eat('{') {
		return nil, p.errAt(automaton.ErrEscape, "expected { after \\q")
	}
	var out []string
	var cur []rune
	for {
		if p.atEnd() {
			return nil, p.errAt(automaton.ErrEscape, "unterminated \\q{...}")
		}
		c := p.advance()
		switch c {
		case '}':
			out = append(out, string(cur))
			return out, nil
		case '|':
			out = append(out, string(cur))
			cur = nil
		case '\\':
			cp, err := p.parseCharEscape()
			if err != nil {
				return nil, err
			}
			cur = append(cur, rune(cp))
		default:
			cur = append(cur, c)
		}
	}
}

// buildStringAlternation lowers a v-mode class containing "\q{...}"
// members into a deterministic longest-match-first alternation (spec.md
// §4.5.1): string members are tried longest-first, with the plain
// single-character set (if non-empty) as the final, shortest alternative.
//
// This is a sorted-alternation lowering rather than a merged trie: it
// gives the same longest-match priority order a trie would, at the cost
// of not sharing common prefixes between alternatives.
func (p *Parser) buildStringAlternation(set *rangeset.Set, strs []string) frag {
	sort.Slice(strs, func(i, j int) bool {
		return len([]rune(strs[i])) > len([]rune(strs[j]))
	})
	var branches []frag
	for _, s := range strs {
		branches = append(branches, p.compileLiteralString(s))
	}
	if !set.IsEmpty() {
		id := p.classes.Intern(set, false)
		idx := p.b.emit(automaton.State{Tag: automaton.TagCharacterClass, CharNum: int32(id)})
		branches = append(branches, frag{start: idx, out: []patchPoint{{idx, slotNext1}}})
	}
	if len(branches) == 0 {
		return p.passThrough()
	}
	if len(branches) == 1 {
		return branches[0]
	}
	return p.buildAlternation(branches)
}

func (p *Parser) compileLiteralString(s string) frag {
	runes := []rune(s)
	if len(runes) == 0 {
		return p.passThrough()
	}
	f := p.emitChar(rangeset.CodePoint(runes[0]))
	for _, r := range runes[1:] {
		f = concat(p.b, f, p.emitChar(rangeset.CodePoint(r)))
	}
	return f
}
