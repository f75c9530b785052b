package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// Write serialises a node to w in KiCad's layout: every child list of the
// root goes on its own indented line, deeper lists stay inline. KiCad's
// reader does not care about layout, but keeping the shape close to what
// pcbnew writes makes diffs against the original file readable.
func Write(w io.Writer, node Sexp) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, node, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

func writeNode(bw *bufio.Writer, node Sexp, depth int) {
	list, ok := node.(*List)
	if !ok {
		writeAtom(bw, node)
		return
	}

	bw.WriteByte('(')
	for i, elem := range list.elements {
		child, isList := elem.(*List)
		switch {
		case isList && depth < 2:
			// One child per line near the top of the document
			bw.WriteByte('\n')
			bw.WriteString(strings.Repeat("\t", depth+1))
			writeNode(bw, child, depth+1)
		default:
			if i > 0 {
				bw.WriteByte(' ')
			}
			writeNode(bw, elem, depth+1)
		}
	}
	if depth < 2 && hasListChild(list) {
		bw.WriteByte('\n')
		bw.WriteString(strings.Repeat("\t", depth))
	}
	bw.WriteByte(')')
}

func hasListChild(l *List) bool {
	for _, elem := range l.elements {
		if !elem.IsLeaf() {
			return true
		}
	}
	return false
}

func writeAtom(bw *bufio.Writer, node Sexp) {
	switch atom := node.(type) {
	case String:
		bw.WriteByte('"')
		bw.WriteString(escapeString(string(atom)))
		bw.WriteByte('"')
	default:
		bw.WriteString(node.String())
	}
}

func escapeString(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\t\r") {
		return s
	}
	var sb strings.Builder
	for _, ch := range s {
		switch ch {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
