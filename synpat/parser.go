package synpat

import (
	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/charclass"
	"github.com/ecmacore/ecmacore/groupmap"
)

// DefaultStepBudget is the executor's default failure-counter ceiling
// (spec.md §4.8), the catastrophic-backtracking guard. spec.md §9 flags
// this value as "not part of the specification and may be exposed as a
// configuration option" — SPEC_FULL.md §5 resolves that by exposing it on
// Config.
const DefaultStepBudget = 16 * 1024 * 1024

const eof = rune(-1)

// Config controls parsing/compilation behavior, mirroring the teacher's
// nfa.CompilerConfig shape (a plain struct with a Default constructor,
// not a package-level global).
type Config struct {
	// StepBudget overrides DefaultStepBudget when non-zero.
	StepBudget int
	// MaxDepth bounds recursion through nested groups/classes, guarding
	// against stack overflow on pathological patterns.
	MaxDepth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{StepBudget: DefaultStepBudget, MaxDepth: 200}
}

// Parser turns an ECMAScript pattern into an automaton.Program. Input is
// already decoded into code points (spec.md §4.5's "Input" contract); the
// Parse entry point does the []rune decode once, up front.
type Parser struct {
	pattern string
	src     []rune
	pos     int

	icase     bool
	multiline bool
	dotall    bool
	vmode     bool

	cfg Config

	b       *builder
	classes *charclass.Registry
	groups  *groupmap.Mapper

	nextBracket int
	nextCounter int
	nextRepeat  int

	// pendingNamedBackrefs records \k<name> references seen before the
	// named group's final bracket number is known; Parse patches them
	// once parsing (and therefore every PushBack call) has finished.
	pendingNamedBackrefs []namedBackrefFixup

	depth int
}

// namedBackrefFixup is one \k<name> awaiting its bracket number.
type namedBackrefFixup struct {
	state int
	name  string
}

// Parse compiles pattern under flags into a Program. Only the parser's
// compile-time flags (ICase, Multiline, DotAll, UnicodeSets) are consulted;
// the match-time flags (MatchNot*, MatchContinuous, ...) are handled by
// vmexec at search time and simply carried through on the returned
// Program's CompileFlags for the caller's convenience.
func Parse(pattern string, flags automaton.Flags, cfg Config) (*automaton.Program, error) {
	if cfg.StepBudget == 0 {
		cfg.StepBudget = DefaultStepBudget
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 200
	}
	p := &Parser{
		pattern:     pattern,
		src:         []rune(pattern),
		icase:       flags.Has(automaton.ICase),
		multiline:   flags.Has(automaton.Multiline),
		dotall:      flags.Has(automaton.DotAll),
		vmode:       flags.Has(automaton.UnicodeSets),
		cfg:         cfg,
		b:           newBuilder(),
		classes:     charclass.NewRegistry(),
		groups:      groupmap.New(),
		nextBracket: 1,
	}

	body, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.errAt(automaton.ErrParen, "unmatched )")
	}
	if names := p.groups.Resolve(); len(names) > 0 {
		return nil, p.errAt(automaton.ErrBackref, "unresolved named backreference: \\k<"+names[0]+">")
	}
	for _, fix := range p.pendingNamedBackrefs {
		p.b.states[fix.state].CharNum = int32(p.groups.Lookup(fix.name))
	}

	success := p.b.emit(automaton.State{Tag: automaton.TagSuccess})
	p.b.patch(body.out, success)

	// Class registry Finalize and the resulting position rewrite happen in
	// the optimize package (step 7), not here: optimize's exclusive-loop and
	// exclusive-branch passes still need to Intern new first-character sets
	// after this function returns, and Registry.Intern panics once Finalize
	// has run.
	prog := &automaton.Program{
		States:       p.b.states,
		Classes:      p.classes,
		Groups:       p.groups,
		CaptureCount: p.nextBracket,
		CompileFlags: flags,
		EntryState:           body.start,
		ContinuousEntryState: body.start,
		StepBudget:           p.cfg.StepBudget,
		CounterCount: p.nextCounter,
		RepeatCount:  p.nextRepeat,
	}
	return prog, nil
}

func (p *Parser) errAt(code automaton.ErrorCode, detail string) *automaton.CompileError {
	return automaton.NewCompileError(code, p.pattern, p.pos, detail)
}

// --- cursor helpers ---

func (p *Parser) peek() rune {
	if p.pos >= len(p.src) {
		return eof
	}
	return p.src[p.pos]
}

func (p *Parser) peekAt(off int) rune {
	idx := p.pos + off
	if idx < 0 || idx >= len(p.src) {
		return eof
	}
	return p.src[idx]
}

func (p *Parser) advance() rune {
	c := p.peek()
	if c != eof {
		p.pos++
	}
	return c
}

func (p *Parser) eat(c rune) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.src)
}

// --- grammar: branch -> sequence of pieces, branches separated by '|' ---

func (p *Parser) parseAlternation() (frag, error) {
	first, err := p.parseSequence()
	if err != nil {
		return frag{}, err
	}
	if p.peek() != '|' {
		return first, nil
	}
	branches := []frag{first}
	for p.peek() == '|' {
		p.advance()
		seq, err := p.parseSequence()
		if err != nil {
			return frag{}, err
		}
		branches = append(branches, seq)
	}
	return p.buildAlternation(branches), nil
}

// buildAlternation wires a right-leaning chain of epsilon splits so the
// executor tries branches[0], then branches[1], ... in declaration order
// (spec.md §4.8's epsilon rule: next1 first, next2 pushed as the
// fallback), which is the ECMAScript alternation priority rule.
func (p *Parser) buildAlternation(branches []frag) frag {
	var out []patchPoint
	for _, f := range branches {
		out = append(out, f.out...)
	}
	next := branches[len(branches)-1].start
	for i := len(branches) - 2; i >= 0; i-- {
		split := p.b.emit(automaton.State{Tag: automaton.TagEpsilon, EpsilonKind: automaton.EpsilonAltBranch})
		p.b.patch([]patchPoint{{split, slotNext1}}, branches[i].start)
		p.b.patch([]patchPoint{{split, slotNext2}}, next)
		next = split
	}
	return frag{start: next, out: out}
}

// parseSequence parses a run of pieces (concatenation). An empty sequence
// (e.g. the right-hand alternative of "a|") compiles to a single
// pass-through epsilon.
func (p *Parser) parseSequence() (frag, error) {
	var result *frag
	for {
		c := p.peek()
		if c == eof || c == '|' || c == ')' {
			break
		}
		piece, err := p.parsePiece()
		if err != nil {
			return frag{}, err
		}
		if result == nil {
			result = &piece
		} else {
			joined := concat(p.b, *result, piece)
			result = &joined
		}
	}
	if result == nil {
		idx := p.b.emit(automaton.State{Tag: automaton.TagEpsilon})
		return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}, nil
	}
	return *result, nil
}

// parsePiece parses an atom optionally followed by a quantifier.
func (p *Parser) parsePiece() (frag, error) {
	p.depth++
	if p.depth > p.cfg.MaxDepth {
		p.depth--
		return frag{}, p.errAt(automaton.ErrStack, "pattern nested too deeply")
	}
	defer func() { p.depth-- }()

	bracketLo := p.nextBracket
	atom, quantifiable, err := p.parseAtom()
	if err != nil {
		return frag{}, err
	}
	if !quantifiable {
		return atom, nil
	}
	// bracketLo..bracketHi is the range of capturing-group numbers assigned
	// while parsing atom (empty when atom contains no groups of its own).
	// A quantifier wrapping this atom needs it to reset every group in the
	// range on each loop re-entry (ECMAScript group re-entry semantics,
	// spec.md §4.8), not just whichever group's own round-bracket-open
	// happens to fire on a given iteration — siblings under an alternation
	// inside the loop body (e.g. "(?:(a)|(b))+") never revisit the other
	// branch's round-bracket-open on an iteration that takes this one.
	bracketHi := p.nextBracket - 1
	return p.parseQuantifier(atom, bracketLo, bracketHi)
}

// passThrough emits a bare epsilon fragment, used for zero-width atoms
// that need a frag value but nothing else (kept for symmetry with the
// rest of the grammar's fragment-returning shape).
func (p *Parser) passThrough() frag {
	idx := p.b.emit(automaton.State{Tag: automaton.TagEpsilon})
	return frag{start: idx, out: []patchPoint{{idx, slotNext1}}}
}
