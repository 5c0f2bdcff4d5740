package parser

import (
	"bytes"
	"net/url"
)

// normalizeTurtle rewrites Turtle text into the form knakk/rdf's lexer
// accepts, and returns the prefix directives the document declares.
//
// The lexer rejects a numeric or boolean literal followed by anything other
// than a space, and a ';' that is not followed by another predicate. Outside
// IRIs, strings and comments, tabs and carriage returns become spaces, a space
// is put before every newline and before the ] ) , ; and terminating '.'
// punctuation, and redundant ';' separators are dropped. Comments are removed.
// Line numbers are preserved, so decoder errors still point at the source line.
func normalizeTurtle(src []byte) ([]byte, map[string]string) {
	out := make([]byte, 0, len(src)+len(src)/8)
	prefixes := make(map[string]string)

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '<':
			j := skipIRI(src, i)
			out = append(out, src[i:j]...)
			i = j
		case c == '"' || c == '\'':
			j := skipString(src, i)
			out = append(out, src[i:j]...)
			i = j
		case c == '#':
			i = skipComment(src, i)
		case c == '\\':
			j := min(i+2, len(src))
			out = append(out, src[i:j]...)
			i = j
		case c == '\n':
			out = append(out, ' ', '\n')
			i++
		case c == '\t' || c == '\r':
			out = append(out, ' ')
			i++
		case c == ']' || c == ')' || c == ',':
			out = append(out, ' ', c)
			i++
		case c == ';':
			if k := nextSignificant(src, i+1); k < len(src) && (src[k] == ';' || src[k] == ']' || src[k] == '.') {
				out = append(out, ' ')
			} else {
				out = append(out, ' ', ';')
			}
			i++
		case c == '.' && (i+1 == len(src) || isTurtleSpace(src[i+1]) || src[i+1] == '#'):
			out = append(out, ' ', '.')
			i++
		case (c == '@' || c == 'P' || c == 'p') && tokenStart(src, i):
			name, base, j, ok := prefixDirective(src, i)
			if !ok {
				out = append(out, c)
				i++
				continue
			}
			if name != "" {
				if u, err := url.Parse(base); err == nil && u.IsAbs() {
					prefixes[name] = base
				}
			}
			out = append(out, src[i:j]...)
			i = j
		default:
			out = append(out, c)
			i++
		}
	}
	return out, prefixes
}

// DeclaredPrefixes returns the named prefixes declared in a Turtle document.
// The empty prefix and relative namespace IRIs are skipped. A prefix declared
// twice keeps its last declaration. Text inside literals and comments is not
// read as a declaration.
func DeclaredPrefixes(content []byte) map[string]string {
	_, prefixes := normalizeTurtle(content)
	return prefixes
}

func isTurtleSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func tokenStart(src []byte, i int) bool {
	return i == 0 || isTurtleSpace(src[i-1]) || src[i-1] == '.'
}

// skipIRI returns the index just past the IRI reference starting at src[i].
// A '<' that does not open a well-formed IRI is consumed on its own.
func skipIRI(src []byte, i int) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '>':
			return j + 1
		case ' ', '\t', '\n', '\r', '<', '"':
			return i + 1
		}
	}
	return i + 1
}

// skipString returns the index just past the string literal starting at
// src[i], short or long form. An unterminated string runs to the end of its
// line (short) or of the input (long) and is left for the decoder to reject.
func skipString(src []byte, i int) int {
	q := src[i]
	if bytes.HasPrefix(src[i:], []byte{q, q, q}) {
		for j := i + 3; j < len(src); j++ {
			if src[j] == '\\' {
				j++
				continue
			}
			if bytes.HasPrefix(src[j:], []byte{q, q, q}) {
				// A long string may end with up to two extra quote characters.
				for j+3 < len(src) && src[j+3] == q {
					j++
				}
				return j + 3
			}
		}
		return len(src)
	}

	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}

// skipComment returns the index of the newline ending the comment at src[i].
func skipComment(src []byte, i int) int {
	if j := bytes.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(src)
}

// nextSignificant returns the index of the next byte at or after i that is
// neither whitespace nor inside a comment.
func nextSignificant(src []byte, i int) int {
	for i < len(src) {
		switch {
		case isTurtleSpace(src[i]):
			i++
		case src[i] == '#':
			i = skipComment(src, i)
		default:
			return i
		}
	}
	return i
}

// prefixDirective parses "@prefix p: <iri>" or "PREFIX p: <iri>" at src[i]
// and returns the prefix, its namespace IRI and the index just past the IRI.
func prefixDirective(src []byte, i int) (string, string, int, bool) {
	j := i
	switch {
	case bytes.HasPrefix(src[j:], []byte("@prefix")):
		j += len("@prefix")
	case len(src)-j >= 6 && bytes.EqualFold(src[j:j+6], []byte("PREFIX")):
		j += 6
	default:
		return "", "", 0, false
	}
	if j >= len(src) || !isTurtleSpace(src[j]) {
		return "", "", 0, false
	}

	j = nextSignificant(src, j)
	colon := bytes.IndexByte(src[j:], ':')
	if colon < 0 {
		return "", "", 0, false
	}
	name := src[j : j+colon]
	if bytes.ContainsAny(name, " \t\r\n<>\"'") {
		return "", "", 0, false
	}

	j = nextSignificant(src, j+colon+1)
	if j >= len(src) || src[j] != '<' {
		return "", "", 0, false
	}
	end := skipIRI(src, j)
	if end == j+1 {
		return "", "", 0, false
	}
	return string(name), string(src[j+1 : end-1]), end, true
}
