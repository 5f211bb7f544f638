package translate

import (
	"errors"
	"strings"
	"testing"
)

/*
 * Test the statement scanner: token kinds, quote stripping
 * and operator pairing
 */
func TestScan(t *testing.T) {

	kinds := map[tokenKind]string{
		tokenWord:   "word",
		tokenNumber: "num",
		tokenString: "str",
		tokenSymbol: "sym",
	}

	// Inputs and the expected "kind:text" token lists
	tables := []struct {
		input  string
		tokens string
	}{
		{`SELECT * FROM t`, `word:SELECT sym:* word:FROM word:t`},
		{`name = 'John Smith'`, `word:name sym:= str:John Smith`},
		{`name="John"`, `word:name sym:= str:John`},
		{`age>=25`, `word:age sym:>= num:25`},
		{`age > -3.5`, `word:age sym:> num:-3.5`},
		{`a != .5`, `word:a sym:!= num:.5`},
		{`a <> b`, `word:a sym:<> word:b`},
		{`a == b`, `word:a sym:== word:b`},
		{`size in (1,2)`, `word:size word:in sym:( num:1 sym:, num:2 sym:)`},
		{`day = 2024-01-02`, `word:day sym:= num:2024-01-02`},
		{`address.city = "Riga";`, `word:address.city sym:= str:Riga sym:;`},
		{`tags not   in ("a")`, `word:tags word:not word:in sym:( str:a sym:)`},
		{``, ``},
		{`   `, ``},
	}

	for _, table := range tables {
		tokens, err := scan(table.input)
		if err != nil {
			t.Errorf("Can't scan '%s': %s", table.input, err.Error())
			continue
		}

		parts := []string{}
		for _, token := range tokens {
			parts = append(parts, kinds[token.kind]+":"+token.text)
		}

		if got := strings.Join(parts, " "); got != table.tokens {
			t.Errorf("Invalid tokens of '%s': %s, expected: %s", table.input, got, table.tokens)
		}
	}
}

/*
 * Test that broken literals stop the scanner
 */
func TestScanErrors(t *testing.T) {

	tables := []struct {
		input    string
		fragment string
	}{
		{`name = 'unterminated`, "unterminated quoted literal"},
		{`name = "half'`, "unterminated quoted literal"},
		{`a = 5 ~ b`, "unexpected character"},
	}

	for _, table := range tables {
		_, err := scan(table.input)
		if err == nil {
			t.Errorf("Expected an error for '%s'", table.input)
			continue
		}

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("Invalid error type for '%s': %T", table.input, err)
			continue
		}

		if !strings.Contains(err.Error(), table.fragment) {
			t.Errorf("Invalid error message for '%s': %s", table.input, err.Error())
		}
	}
}

/*
 * Test that a token span maps back to the original text
 */
func TestSpanText(t *testing.T) {
	input := `SELECT *  FROM  users WHERE age >= 25`

	tokens, err := scan(input)
	if err != nil {
		t.Fatalf("Can't scan: %s", err.Error())
	}

	if got := spanText(input, tokens); got != input {
		t.Errorf("Invalid full span: '%s'", got)
	}
	if got := spanText(input, tokens[5:]); got != "age >= 25" {
		t.Errorf("Invalid partial span: '%s'", got)
	}
	if got := spanText(input, nil); got != "" {
		t.Errorf("Invalid empty span: '%s'", got)
	}
}
