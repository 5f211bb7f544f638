package translate

import "strings"

/*
 * Splitting of a scanned statement into its SELECT / FROM / WHERE
 * clauses. Only a single plain SELECT is accepted, everything else
 * fails with a typed error instead of a silent partial result
 */

// Clause content of one parsed SELECT statement
type statement struct {
	// Projected columns, nil for "SELECT *"
	columns []string

	table string

	// WHERE clause tokens and their original text,
	// both empty when the clause is missing
	where    []token
	whereRaw string
}

// Trailing clauses without a counterpart in a MongoDB "find"
var unsupportedClauses = map[string]string{
	"order":  "ORDER BY",
	"group":  "GROUP BY",
	"having": "HAVING",
	"limit":  "LIMIT",
	"offset": "OFFSET",
	"union":  "UNION",
}

// Keywords that signal a join inside the FROM clause
var joinKeywords = map[string]bool{
	"join":    true,
	"inner":   true,
	"left":    true,
	"right":   true,
	"outer":   true,
	"full":    true,
	"cross":   true,
	"natural": true,
	"using":   true,
	"on":      true,
}

/*
 * Parse a raw statement into its clause content.
 *
 * The scanner runs first, then clause keywords are located and each
 * span is validated on its own. The WHERE span stays unparsed here,
 * conditions are handled separately
 */
func parseStatement(sql string) (*statement, error) {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return nil, &ParseError{Input: sql, Reason: "empty statement"}
	}

	tokens, err := scan(trimmed)
	if err != nil {
		return nil, err
	}

	// A single trailing ';' is fine, anything after it is not
	for i, t := range tokens {
		if t.kind == tokenSymbol && t.text == ";" {
			if i != len(tokens)-1 {
				return nil, &ParseError{Input: trimmed, Reason: "multiple statements in one input"}
			}

			tokens = tokens[:i]
			break
		}
	}

	if len(tokens) == 0 {
		return nil, &ParseError{Input: trimmed, Reason: "empty statement"}
	}

	head := tokens[0]
	if head.kind != tokenWord {
		return nil, &ParseError{Input: trimmed, Reason: "expected a statement keyword"}
	}
	if !strings.EqualFold(head.text, "select") {
		return nil, &UnsupportedStatementError{Keyword: head.text}
	}

	// Locate the clause boundaries. Only the first FROM and the
	// first WHERE after it are boundaries, later occurrences belong
	// to the clause content and fail there if out of place
	fromIdx := -1
	whereIdx := -1

	for i, t := range tokens {
		if i == 0 || t.kind != tokenWord {
			continue
		}

		if fromIdx == -1 && strings.EqualFold(t.text, "from") {
			fromIdx = i
		} else if fromIdx != -1 && whereIdx == -1 && strings.EqualFold(t.text, "where") {
			whereIdx = i
		}
	}

	if fromIdx == -1 {
		return nil, &ParseError{Input: trimmed, Reason: "missing FROM clause"}
	}

	stmt := &statement{}

	stmt.columns, err = parseColumns(tokens[1:fromIdx], trimmed)
	if err != nil {
		return nil, err
	}

	fromEnd := len(tokens)
	if whereIdx != -1 {
		fromEnd = whereIdx
	}

	stmt.table, err = parseTarget(tokens[fromIdx+1:fromEnd], trimmed)
	if err != nil {
		return nil, err
	}

	if whereIdx != -1 {
		span := tokens[whereIdx+1:]
		if len(span) == 0 {
			return nil, &MalformedConditionError{Condition: trimmed, Reason: "empty WHERE clause"}
		}

		// Clauses like ORDER BY follow the conditions, so they
		// surface inside the WHERE span
		for _, t := range span {
			if t.kind != tokenWord {
				continue
			}

			if clause, ok := unsupportedClauses[strings.ToLower(t.text)]; ok {
				return nil, &UnsupportedConstructError{Construct: clause, Offending: t.text}
			}
		}

		stmt.where = span
		stmt.whereRaw = spanText(trimmed, span)
	}

	return stmt, nil
}

/*
 * Validate the projection span between SELECT and FROM.
 *
 * Returns the column names, or nil for "SELECT *"
 */
func parseColumns(span []token, input string) ([]string, error) {
	if len(span) == 0 {
		return nil, &ParseError{Input: input, Reason: "missing column list"}
	}

	// SELECT * means no projection at all
	if len(span) == 1 && span[0].kind == tokenSymbol && span[0].text == "*" {
		return nil, nil
	}

	if span[0].kind == tokenWord && strings.EqualFold(span[0].text, "distinct") {
		return nil, &UnsupportedConstructError{Construct: "DISTINCT", Offending: spanText(input, span)}
	}

	// Parentheses in the column list mean an aggregation
	// or a function call
	for _, t := range span {
		if t.kind == tokenSymbol && (t.text == "(" || t.text == ")") {
			return nil, &UnsupportedConstructError{
				Construct: "aggregation or function call",
				Offending: spanText(input, span),
			}
		}
	}

	columns := []string{}
	expectName := true

	for _, t := range span {
		if expectName {
			if t.kind == tokenSymbol && t.text == "*" {
				return nil, &ParseError{Input: input, Reason: "'*' can't be combined with column names"}
			}
			if t.kind != tokenWord {
				return nil, &ParseError{Input: input, Reason: "invalid column name: '" + t.text + "'"}
			}

			columns = append(columns, t.text)
			expectName = false
			continue
		}

		if t.kind != tokenSymbol || t.text != "," {
			return nil, &ParseError{Input: input, Reason: "expected ',' between column names"}
		}

		expectName = true
	}

	if expectName {
		return nil, &ParseError{Input: input, Reason: "missing column name after ','"}
	}

	return columns, nil
}

/*
 * Validate the FROM span and return the single table name
 */
func parseTarget(span []token, input string) (string, error) {
	if len(span) == 0 {
		return "", &ParseError{Input: input, Reason: "missing table name"}
	}

	first := span[0]
	if first.kind != tokenWord {
		return "", &ParseError{Input: input, Reason: "invalid table name: '" + first.text + "'"}
	}
	if clause, ok := unsupportedClauses[strings.ToLower(first.text)]; ok {
		return "", &UnsupportedConstructError{Construct: clause, Offending: spanText(input, span)}
	}
	if joinKeywords[strings.ToLower(first.text)] {
		return "", &UnsupportedConstructError{Construct: "JOIN", Offending: spanText(input, span)}
	}

	for _, t := range span[1:] {
		if t.kind == tokenSymbol && t.text == "," {
			return "", &UnsupportedConstructError{Construct: "multiple tables", Offending: spanText(input, span)}
		}

		if t.kind == tokenWord {
			if joinKeywords[strings.ToLower(t.text)] {
				return "", &UnsupportedConstructError{Construct: "JOIN", Offending: spanText(input, span)}
			}
			if clause, ok := unsupportedClauses[strings.ToLower(t.text)]; ok {
				return "", &UnsupportedConstructError{Construct: clause, Offending: t.text}
			}
		}

		return "", &ParseError{Input: input, Reason: "unexpected input after the table name: '" + t.text + "'"}
	}

	return first.text, nil
}
