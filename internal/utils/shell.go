package utils

import "strings"

// ShellSplit splits a shell-like line into tokens.
// Single- and double-quoted strings are kept as one token (quotes stripped).
// Unquoted whitespace is the delimiter.
func ShellSplit(line string) []string {
	var tokens []string
	var cur strings.Builder
	inSingle, inDouble := false, false
	for _, ch := range line {
		switch {
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
		case ch == '"' && !inSingle:
			inDouble = !inDouble
		case (ch == ' ' || ch == '\t') && !inSingle && !inDouble:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(ch)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// ShellQuote returns a single-quoted shell-safe version of s.
// Embedded single quotes are escaped as '\'.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ShellJoin quotes and joins args into a single display string.
// Tokens without special characters are left unquoted for readability.
func ShellJoin(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a != "" && !strings.ContainsAny(a, " \t\n'\"\\$&|;<>()*?[]#~") {
			parts[i] = a
			continue
		}
		parts[i] = ShellQuote(a)
	}
	return strings.Join(parts, " ")
}
