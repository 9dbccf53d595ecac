package tubi

import (
	"regexp"
	"strings"
)

// RepairRule rewrites one non-JSON construct found in the inline script data.
type RepairRule struct {
	Name  string
	Apply func(string) string
}

var dateConstructor = regexp.MustCompile(`new Date\("([^"]*)"\)`)

var RepairRules = []RepairRule{
	{Name: "undefined", Apply: replaceBareUndefined},
	{Name: "date-constructor", Apply: unwrapDateConstructor},
}

func Repair(s string) string {
	for _, rule := range RepairRules {
		s = rule.Apply(s)
	}
	return s
}

func unwrapDateConstructor(s string) string {
	return dateConstructor.ReplaceAllString(s, `"$1"`)
}

// replaceBareUndefined rewrites the identifier undefined to null. String
// literals and longer identifiers containing it are left alone.
func replaceBareUndefined(s string) string {
	const token = "undefined"
	if !strings.Contains(s, token) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			if ch == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}
		end := i + len(token)
		if strings.HasPrefix(s[i:], token) &&
			(i == 0 || !isIdentByte(s[i-1])) &&
			(end == len(s) || !isIdentByte(s[end])) {
			b.WriteString("null")
			i = end - 1
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
