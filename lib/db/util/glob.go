package util

import (
	"regexp"
	"strings"
)

// CompileGlob turns a KEYS pattern into an anchored regular expression.
// Only '*' is special and becomes ".*"; every other character is handed to the
// regular expression engine unchanged, so a pattern such as "a(" fails to compile.
func CompileGlob(pattern string) (*regexp.Regexp, error) {
	expr := "^" + strings.ReplaceAll(pattern, "*", ".*") + "$"
	return regexp.Compile(expr)
}
