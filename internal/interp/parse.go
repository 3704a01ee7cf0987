package interp

import (
	"strings"
	"unicode"
)

// StatementKind distinguishes command calls from assignments.
type StatementKind uint8

const (
	KindCall StatementKind = iota
	KindAssignment
)

// Statement is the parsed form of one statement.
type Statement struct {
	Kind StatementKind

	// Name is the command name or the assignment target
	Name string

	// Args holds the raw argument expressions. An assignment has exactly one:
	// the right-hand side.
	Args []string

	// Block is the body between the first '{' and the last '}'
	Block    string
	HasBlock bool

	// Source is the statement text as it was parsed
	Source string
}

// Parse parses one statement, either `name=expr` or `name(args){block}`
// with the block optional.
func Parse(src string) (Statement, error) {
	s := strings.TrimSpace(src)
	st := Statement{Source: s}

	if eq := strings.IndexByte(s, '='); eq >= 0 && !strings.ContainsAny(s[:eq], "({") {
		st.Kind = KindAssignment
		st.Name = strings.TrimSpace(s[:eq])
		expr := strings.TrimSpace(s[eq+1:])
		if !IsIdentifier(st.Name) {
			return st, newError(ErrParse, s, "invalid variable name %q in %q", st.Name, s)
		}
		if expr == "" {
			return st, newError(ErrParse, s, "missing value in assignment %q", s)
		}
		st.Args = []string{expr}
		return st, nil
	}

	head := s
	if open := strings.IndexByte(s, '{'); open >= 0 {
		rest := s[open:]
		closing := strings.LastIndexByte(rest, '}')
		if closing < 0 {
			return st, newError(ErrParse, s, "missing \"}\" in %q", s)
		}
		if strings.TrimSpace(rest[closing+1:]) != "" {
			return st, newError(ErrParse, s, "unexpected text after block in %q", s)
		}
		st.Block = rest[1:closing]
		st.HasBlock = true
		head = strings.TrimSpace(s[:open])
	}

	lp := strings.IndexByte(head, '(')
	if lp < 0 {
		return st, newError(ErrParse, s, "missing \"(\" in %q", s)
	}
	rp := strings.LastIndexByte(head, ')')
	if rp < lp {
		return st, newError(ErrParse, s, "missing \")\" in %q", s)
	}
	if strings.TrimSpace(head[rp+1:]) != "" {
		return st, newError(ErrParse, s, "unexpected text after \")\" in %q", s)
	}

	st.Name = strings.TrimSpace(head[:lp])
	if st.Name == "" {
		return st, newError(ErrParse, s, "missing command name in %q", s)
	}

	if argText := head[lp+1 : rp]; strings.TrimSpace(argText) != "" {
		for _, arg := range strings.Split(argText, ",") {
			st.Args = append(st.Args, strings.TrimSpace(arg))
		}
	}
	return st, nil
}

// IsIdentifier reports whether name is usable as a variable name: letters,
// digits and underscores, not starting with a digit.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}
