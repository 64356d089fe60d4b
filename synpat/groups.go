package synpat

import (
	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/rangeset"
)

// parseAtom parses one grammar atom (the innermost unit a quantifier can
// attach to) and reports whether the result may legally be quantified —
// assertions (^, $, \b, \B, lookaround) are zero-width and not
// quantifiable in this implementation, matching the common-case ECMAScript
// grammar rather than Annex B's more permissive legacy allowances.
func (p *Parser) parseAtom() (frag, bool, error) {
	c := p.peek()
	switch c {
	case '^':
		p.advance()
		idx := p.b.emit(automaton.State{Tag: automaton.TagBOL, Multiline: p.multiline})
		return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, false, nil
	case '$':
		p.advance()
		idx := p.b.emit(automaton.State{Tag: automaton.TagEOL, Multiline: p.multiline})
		return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, false, nil
	case '.':
		p.advance()
		return p.emitAnyChar(), true, nil
	case '(':
		return p.parseGroup()
	case '[':
		f, err := p.parseClass()
		return f, true, err
	case '\\':
		return p.parseEscapeAtom()
	case '*', '+', '?':
		return frag{}, false, p.errAt(automaton.ErrBadRepeat, "nothing to repeat")
	case ')', eof:
		return frag{}, false, p.errAt(automaton.ErrParen, "unexpected end of pattern")
	default:
		p.advance()
		return p.emitChar(rangeset.CodePoint(c)), true, nil
	}
}

// parseGroup handles every "(" form: plain capturing, "(?:" non-capturing,
// "(?=" / "(?!" lookahead, "(?<=" / "(?<!" lookbehind, "(?<name>"
// named-capturing, and "(?ims-ims:" inline flag modifiers.
func (p *Parser) parseGroup() (frag, bool, error) {
	p.advance() // '('
	if p.peek() != '?' {
		f, err := p.parseCapturingGroup("")
		return f, true, err
	}
	p.advance() // '?'
	switch p.peek() {
	case ':':
		p.advance()
		f, err := p.parseNonCapturingBody()
		return f, true, err
	case '=':
		p.advance()
		f, err := p.parseLookaround(automaton.LookAhead, false)
		return f, false, err
	case '!':
		p.advance()
		f, err := p.parseLookaround(automaton.LookAhead, true)
		return f, false, err
	case '<':
		return p.parseAngleBracketGroup()
	default:
		f, err := p.parseModifierGroup()
		return f, true, err
	}
}

func (p *Parser) parseAngleBracketGroup() (frag, bool, error) {
	p.advance() // '<'
	switch p.peek() {
	case '=':
		p.advance()
		f, err := p.parseLookaround(automaton.LookBehind, false)
		return f, false, err
	case '!':
		p.advance()
		f, err := p.parseLookaround(automaton.LookBehind, true)
		return f, false, err
	default:
		name, err := p.parseGroupName()
		if err != nil {
			return frag{}, false, err
		}
		f, err := p.parseCapturingGroup(name)
		return f, true, err
	}
}

func (p *Parser) parseGroupName() (string, error) {
	var runes []rune
	for p.peek() != '>' {
		if p.atEnd() {
			return "", p.errAt(automaton.ErrBackref, "unterminated group name")
		}
		runes = append(runes, p.advance())
	}
	p.advance() // '>'
	if len(runes) == 0 {
		return "", p.errAt(automaton.ErrBackref, "empty group name")
	}
	return string(runes), nil
}

// parseModifierGroup handles the "(?ims-ims:...)" inline flag form
// (ECMAScript 2025 Modifiers proposal, carried forward from the teacher's
// original_source behavior per SPEC_FULL.md's supplemented-features list):
// flags before '-' are added, flags after are removed, scoped to the
// group's body and restored on exit.
func (p *Parser) parseModifierGroup() (frag, error) {
	addICase, addMulti, addDotAll := p.icase, p.multiline, p.dotall
	removing := false
	for {
		switch p.peek() {
		case 'i':
			p.advance()
			addICase = !removing
		case 'm':
			p.advance()
			addMulti = !removing
		case 's':
			p.advance()
			addDotAll = !removing
		case '-':
			p.advance()
			removing = true
		case ':':
			p.advance()
			goto body
		default:
			return frag{}, p.errAt(automaton.ErrModifier, "invalid inline flag modifier")
		}
	}
body:
	savedICase, savedMulti, savedDotAll := p.icase, p.multiline, p.dotall
	p.icase, p.multiline, p.dotall = addICase, addMulti, addDotAll
	f, err := p.parseNonCapturingBody()
	p.icase, p.multiline, p.dotall = savedICase, savedMulti, savedDotAll
	return f, err
}

func (p *Parser) parseNonCapturingBody() (frag, error) {
	body, err := p.parseAlternation()
	if err != nil {
		return frag{}, err
	}
	if !p.eat(')') {
		return frag{}, p.errAt(automaton.ErrParen, "unterminated group")
	}
	return body, nil
}

// parseCapturingGroup compiles "(...)"/"(?<name>...)" into
// round-bracket-open / body / round-bracket-close, with round-bracket-pop
// (the backtrack-frame target that restores a prior capture on rollback)
// emitted immediately after open at a fixed +1 offset, the same convention
// wrapCounted uses for check-counter's decrement companion.
func (p *Parser) parseCapturingGroup(name string) (frag, error) {
	bracketNo := p.nextBracket
	p.nextBracket++
	if name != "" {
		if !p.groups.PushBack(name, bracketNo) {
			return frag{}, p.errAt(automaton.ErrBackref, "duplicate capture group name "+name)
		}
	}

	open := p.b.emit(automaton.State{Tag: automaton.TagRoundBracketOpen, CharNum: int32(bracketNo)})
	p.b.emit(automaton.State{Tag: automaton.TagRoundBracketPop, CharNum: int32(bracketNo)})
	p.b.patch([]patchPoint{{open, slotNext1}}, p.b.next())

	body, err := p.parseAlternation()
	if err != nil {
		return frag{}, err
	}
	if !p.eat(')') {
		return frag{}, p.errAt(automaton.ErrParen, "unterminated group")
	}

	closeIdx := p.b.emit(automaton.State{Tag: automaton.TagRoundBracketClose, CharNum: int32(bracketNo)})
	p.b.patch(body.out, closeIdx)

	innerMax := p.nextBracket - 1
	p.b.states[open].Quantifier = automaton.Quantifier{AtLeast: bracketNo + 1, AtMost: innerMax}

	return frag{start: open, out: []patchPoint{{closeIdx, slotNext1}}}, nil
}

// parseLookaround compiles a zero-width assertion: Next1 (dangling) is the
// continuation after the assertion, Next2 is the inner sub-automaton's
// entry. The inner body's own dangling ends are patched to a TagSuccess
// state, which vmexec's lookaround call/return stack interprets as
// "sub-match succeeded, resume at the enclosing lookaround-open's Next1"
// rather than "whole pattern matched."
//
// Variable-width lookbehind (direction == LookBehind) is executed by
// vmexec as a bounded backward retry — attempt the (forward-compiled)
// inner body starting at each successively earlier position until one
// ends exactly at the current cursor, or the search window is exhausted.
// Fixed-width lookbehind takes the same path: no optimiser pass replaces
// it with a direct rewind.
func (p *Parser) parseLookaround(direction int32, negative bool) (frag, error) {
	open := p.b.emit(automaton.State{
		Tag:        automaton.TagLookaroundOpen,
		Quantifier: automaton.Quantifier{AtLeast: int(direction)},
		IsNot:      negative,
	})
	p.b.patch([]patchPoint{{open, slotNext2}}, p.b.next())

	body, err := p.parseAlternation()
	if err != nil {
		return frag{}, err
	}
	if !p.eat(')') {
		return frag{}, p.errAt(automaton.ErrParen, "unterminated lookaround")
	}
	closeIdx := p.b.emit(automaton.State{Tag: automaton.TagSuccess})
	p.b.patch(body.out, closeIdx)

	return frag{start: open, out: []patchPoint{{open, slotNext1}}}, nil
}
