package synth

import "strings"

// Split breaks a shell command line into words on unquoted whitespace.
// Quotes and backslash escapes are kept verbatim, so rejoining the words
// with spaces yields a line /bin/sh reads exactly like the original.
func Split(command string) []string {
	var (
		words  []string
		word   strings.Builder
		quote  byte
		inWord bool
	)

	for i := 0; i < len(command); i++ {
		c := command[i]
		switch {
		case quote != 0:
			word.WriteByte(c)
			if c == '\\' && quote == '"' && i+1 < len(command) {
				i++
				word.WriteByte(command[i])
			} else if c == quote {
				quote = 0
			}
		case c == '\\':
			inWord = true
			word.WriteByte(c)
			if i+1 < len(command) {
				i++
				word.WriteByte(command[i])
			}
		case c == '\'' || c == '"':
			inWord = true
			quote = c
			word.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n':
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			inWord = true
			word.WriteByte(c)
		}
	}
	if inWord {
		words = append(words, word.String())
	}
	return words
}
