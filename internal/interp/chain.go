package interp

import "strings"

// Chain splits a program into statements on ';', keeping brace-delimited
// blocks whole even when their bodies contain ';'.
//
// If the braces never balance, the trailing group is returned as dropped
// instead of being emitted.
func Chain(src string) (stmts []string, dropped string) {
	var (
		group []string
		depth int
	)
	for _, tok := range strings.Split(src, ";") {
		depth += strings.Count(tok, "{") - strings.Count(tok, "}")
		group = append(group, tok)
		if depth > 0 {
			continue
		}

		// Stray closing braces do not carry over into the next statement.
		depth = 0
		stmt := strings.TrimSpace(strings.Join(group, ";"))
		group = group[:0]
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	if len(group) > 0 {
		dropped = strings.Join(group, ";")
	}
	return stmts, dropped
}

// Script turns multi-line program text into a single program where every
// line break separates statements. Blocks may span lines; the empty
// statements this creates around braces are skipped by Chain.
func Script(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return strings.ReplaceAll(src, "\n", ";")
}
