package translate

import (
	"fmt"
	"unicode"
)

/*
 * Hand-rolled statement scanner.
 *
 * Splits the raw input into a flat list of tokens, the parser
 * then works on token spans instead of the raw string. Quotes are
 * stripped here, one layer only, and the quote style is forgotten,
 * as values coerce the same way whether they were quoted or not
 */

type tokenKind int

const (
	// Bare identifier, keyword or unquoted literal
	tokenWord tokenKind = iota
	// Literal starting with a digit, sign or dot. The exact type
	// is decided later by the coercion ladder
	tokenNumber
	// Quoted literal with the quotes already stripped
	tokenString
	// Operator or punctuation: = != < <= > >= * , ( ) ;
	tokenSymbol
)

type token struct {
	kind tokenKind
	text string

	// Rune offsets of the token in the scanned input,
	// for slicing the original text into error messages
	pos int
	end int
}

/*
 * Scan the given statement into tokens.
 *
 * The only possible failures are an unterminated quoted literal
 * and a character no token can start with
 */
func scan(input string) ([]token, error) {
	tokens := []token{}
	runes := []rune(input)

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		// Quoted literal, terminated by the same quote style
		case r == '\'' || r == '"':
			start := i
			i++

			for i < len(runes) && runes[i] != r {
				i++
			}

			if i == len(runes) {
				return nil, &ParseError{Input: input, Reason: "unterminated quoted literal"}
			}

			i++
			tokens = append(tokens, token{
				kind: tokenString,
				text: string(runes[start+1 : i-1]),
				pos:  start,
				end:  i,
			})

		// Comparison operators. Pairs such as "<=", "<>" or "=="
		// stay one token, unknown ones fail later with their
		// full text in the error message
		case r == '=' || r == '!' || r == '<' || r == '>':
			start := i
			i++

			if i < len(runes) && (runes[i] == '=' || (r == '<' && runes[i] == '>')) {
				i++
			}

			tokens = append(tokens, token{
				kind: tokenSymbol,
				text: string(runes[start:i]),
				pos:  start,
				end:  i,
			})

		case r == '(' || r == ')' || r == ',' || r == '*' || r == ';':
			tokens = append(tokens, token{
				kind: tokenSymbol,
				text: string(r),
				pos:  i,
				end:  i + 1,
			})
			i++

		// Identifier or keyword
		case unicode.IsLetter(r) || r == '_':
			start := i

			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}

			tokens = append(tokens, token{
				kind: tokenWord,
				text: string(runes[start:i]),
				pos:  start,
				end:  i,
			})

		// Number-like literal. Consumed greedily until a delimiter,
		// so a malformed one such as "2024-01-01" survives as text
		// and coerces to a plain string
		case unicode.IsDigit(r) || r == '-' || r == '+' || r == '.':
			start := i
			i++

			for i < len(runes) && isNumberRune(runes[i]) {
				i++
			}

			tokens = append(tokens, token{
				kind: tokenNumber,
				text: string(runes[start:i]),
				pos:  start,
				end:  i,
			})

		default:
			return nil, &ParseError{Input: input, Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}

	return tokens, nil
}

// Runes allowed inside an identifier. Dots keep nested
// document paths, such as "address.city", in one token
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

func isNumberRune(r rune) bool {
	return isWordRune(r) || r == '-' || r == '+'
}

// Original text covered by a token span
func spanText(input string, span []token) string {
	if len(span) == 0 {
		return ""
	}

	runes := []rune(input)
	return string(runes[span[0].pos:span[len(span)-1].end])
}
