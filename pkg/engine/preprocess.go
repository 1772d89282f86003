package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// keywords lists every keyword argument a model builtin reads.
var keywords = map[string]bool{
	"at":     true,
	"height": true,
	"scale":  true,
	"size":   true,
	"width":  true,
	"z":      true,
}

// preprocessSource rewrites a model script into source zygomys accepts:
//
//   - ; and ;; comments become // comments
//   - :width becomes the string "__kw_width", which parseArgs recognises
//   - a hyphen inside an identifier becomes an underscore, so layer-z can
//     name a variable instead of reading as layer minus z
//
// String literals pass through untouched. A keyword no builtin reads is
// reported with its line, since zygomys would otherwise accept it and the
// builtin would silently fall back to its default.
func preprocessSource(source string) (string, []EvalError) {
	p := &preprocessor{src: source, line: 1}
	p.out.Grow(len(source) + len(source)/4)
	for p.i < len(p.src) {
		switch c := p.src[p.i]; {
		case c == '"' || c == '`':
			p.literal(c)
		case c == ';':
			p.comment()
		case c == ':' && p.i+1 < len(p.src) && isLetter(p.src[p.i+1]):
			p.keyword()
		case c == '-' && p.inIdent():
			p.out.WriteByte('_')
			p.i++
		default:
			if c == '\n' {
				p.line++
			}
			p.out.WriteByte(c)
			p.i++
		}
	}
	return p.out.String(), p.errs
}

type preprocessor struct {
	src  string
	i    int
	line int
	out  strings.Builder
	errs []EvalError
}

// literal copies a string literal delimited by quote. Backslash escapes are
// honoured in double-quoted strings only.
func (p *preprocessor) literal(quote byte) {
	start := p.i
	p.i++
	for p.i < len(p.src) && p.src[p.i] != quote {
		if quote == '"' && p.src[p.i] == '\\' && p.i+1 < len(p.src) {
			p.i++
		}
		p.i++
	}
	if p.i < len(p.src) {
		p.i++
	}
	lit := p.src[start:p.i]
	p.line += strings.Count(lit, "\n")
	p.out.WriteString(lit)
}

// comment rewrites a run of semicolons to // and copies the rest of the line.
func (p *preprocessor) comment() {
	for p.i < len(p.src) && p.src[p.i] == ';' {
		p.i++
	}
	end := strings.IndexByte(p.src[p.i:], '\n')
	if end < 0 {
		end = len(p.src) - p.i
	}
	p.out.WriteString("//")
	p.out.WriteString(p.src[p.i : p.i+end])
	p.i += end
}

func (p *preprocessor) keyword() {
	j := p.i + 1
	for j < len(p.src) && isKWChar(p.src[j]) {
		j++
	}
	name := p.src[p.i+1 : j]
	if !keywords[name] {
		p.errs = append(p.errs, EvalError{
			Line:    p.line,
			Message: fmt.Sprintf("unknown keyword :%s, want one of %s", name, keywordList()),
		})
	}
	p.out.WriteString(`"` + kwPrefix + name + `"`)
	p.i = j
}

// inIdent reports whether the hyphen at p.i sits between an identifier
// character and a letter; anywhere else it is a minus sign.
func (p *preprocessor) inIdent() bool {
	if p.i == 0 || p.i+1 >= len(p.src) || !isLetter(p.src[p.i+1]) {
		return false
	}
	return isIdentChar(p.src[p.i-1])
}

func keywordList() string {
	names := lo.Map(lo.Keys(keywords), func(k string, _ int) string { return ":" + k })
	sort.Strings(names)
	return strings.Join(names, " ")
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
