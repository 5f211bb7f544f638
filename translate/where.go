package translate

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

/*
 * Translation of the WHERE span into a MongoDB filter document.
 *
 * The supported grammar is a flat chain of "field operator value"
 * conditions joined by AND or by OR, with no parentheses. The two
 * connectors can't be mixed, that would need a precedence guess
 */

// SQL comparison operators and their MongoDB counterparts
var operatorsMap = map[string]string{
	"=":      "$eq",
	"!=":     "$ne",
	">":      "$gt",
	">=":     "$gte",
	"<":      "$lt",
	"<=":     "$lte",
	"like":   "$regex",
	"in":     "$in",
	"not in": "$nin",
}

// Single parsed "field operator value" condition
type condition struct {
	field    string
	operator string

	// Coerced literal, or the literal list for IN / NOT IN
	value  interface{}
	values []interface{}

	// Literal as written, LIKE patterns build on this
	rawValue string
}

/*
 * Translate the WHERE tokens into a filter document.
 *
 * Returns the filter and the fields of an AND chain which appeared
 * more than once, their earlier predicate is overwritten
 */
func translateWhere(span []token, clause string) (bson.M, []string, error) {
	conditions, connectors, err := parseConditions(span, clause)
	if err != nil {
		return nil, nil, err
	}

	connector := ""
	for _, c := range connectors {
		if connector == "" {
			connector = c
		} else if c != connector {
			return nil, nil, &AmbiguousLogicalMixingError{Clause: clause}
		}
	}

	// OR keeps one document per condition
	if connector == "or" {
		list := bson.A{}
		for _, cond := range conditions {
			list = append(list, bson.M{cond.field: buildPredicate(cond)})
		}

		return bson.M{"$or": list}, nil, nil
	}

	// Single condition or an AND chain, one flat document.
	// A repeated field keeps the last predicate only, the loser
	// is reported so callers can warn about it
	filter := bson.M{}
	overwritten := []string{}

	for _, cond := range conditions {
		if _, exists := filter[cond.field]; exists {
			overwritten = append(overwritten, cond.field)
		}

		filter[cond.field] = buildPredicate(cond)
	}

	if len(overwritten) == 0 {
		return filter, nil, nil
	}

	return filter, overwritten, nil
}

/*
 * Parse the span into conditions and the connectors between them
 */
func parseConditions(span []token, clause string) ([]condition, []string, error) {
	conditions := []condition{}
	connectors := []string{}
	i := 0

	for {
		cond, next, err := parseCondition(span, i, clause)
		if err != nil {
			return nil, nil, err
		}

		conditions = append(conditions, *cond)
		i = next

		if i == len(span) {
			break
		}

		t := span[i]
		if t.kind != tokenWord || (!strings.EqualFold(t.text, "and") && !strings.EqualFold(t.text, "or")) {
			return nil, nil, &MalformedConditionError{Condition: clause, Reason: "expected AND or OR near '" + t.text + "'"}
		}

		connectors = append(connectors, strings.ToLower(t.text))
		i++

		if i == len(span) {
			return nil, nil, &MalformedConditionError{Condition: clause, Reason: "missing condition after '" + t.text + "'"}
		}
	}

	return conditions, connectors, nil
}

/*
 * Parse one "field operator value" condition starting at "i".
 *
 * Returns the condition and the index of the first token behind it
 */
func parseCondition(span []token, i int, clause string) (*condition, int, error) {
	field := span[i]

	if field.kind == tokenSymbol && field.text == "(" {
		return nil, 0, &UnsupportedConstructError{Construct: "parenthesized expression", Offending: clause}
	}
	if field.kind != tokenWord {
		return nil, 0, &MalformedConditionError{Condition: clause, Reason: "missing field name before '" + field.text + "'"}
	}
	if strings.EqualFold(field.text, "and") || strings.EqualFold(field.text, "or") {
		return nil, 0, &MalformedConditionError{Condition: clause, Reason: "dangling logical operator '" + field.text + "'"}
	}

	i++
	if i == len(span) {
		return nil, 0, &MalformedConditionError{Condition: clause, Reason: "missing operator after '" + field.text + "'"}
	}

	// Operator
	opTok := span[i]
	op := ""

	switch {
	case opTok.kind == tokenSymbol && opTok.text == "(":
		return nil, 0, &UnsupportedConstructError{Construct: "parenthesized expression", Offending: clause}

	case opTok.kind == tokenSymbol:
		op = opTok.text
		i++

	case opTok.kind == tokenWord && strings.EqualFold(opTok.text, "like"):
		op = "like"
		i++

	case opTok.kind == tokenWord && strings.EqualFold(opTok.text, "in"):
		op = "in"
		i++

	case opTok.kind == tokenWord && strings.EqualFold(opTok.text, "not"):
		if i+1 == len(span) || span[i+1].kind != tokenWord || !strings.EqualFold(span[i+1].text, "in") {
			return nil, 0, &MalformedConditionError{Condition: clause, Reason: "unsupported operator: " + opTok.text}
		}

		op = "not in"
		i += 2

	default:
		return nil, 0, &MalformedConditionError{Condition: clause, Reason: "unsupported operator: " + opTok.text}
	}

	if _, known := operatorsMap[op]; !known {
		return nil, 0, &MalformedConditionError{Condition: clause, Reason: "unsupported operator: " + opTok.text}
	}

	cond := &condition{field: field.text, operator: op}

	if op == "in" || op == "not in" {
		values, next, err := parseInList(span, i, clause)
		if err != nil {
			return nil, 0, err
		}

		cond.values = values
		return cond, next, nil
	}

	// Value
	if i == len(span) {
		return nil, 0, &MalformedConditionError{Condition: clause, Reason: "missing value for '" + field.text + " " + opTok.text + "'"}
	}

	valTok := span[i]

	switch valTok.kind {
	case tokenString, tokenNumber:
		cond.value = CoerceValue(valTok.text)
		cond.rawValue = valTok.text

	case tokenWord:
		if isBoolOrNullWord(valTok.text) {
			return nil, 0, &UnsupportedConstructError{Construct: "boolean/NULL literal", Offending: valTok.text}
		}

		cond.value = CoerceValue(valTok.text)
		cond.rawValue = valTok.text

	default:
		if valTok.text == "(" {
			return nil, 0, &UnsupportedConstructError{Construct: "parenthesized expression", Offending: clause}
		}

		return nil, 0, &MalformedConditionError{Condition: clause, Reason: "missing value for '" + field.text + " " + opTok.text + "'"}
	}

	return cond, i + 1, nil
}

/*
 * Parse the parenthesized literal list of IN / NOT IN
 */
func parseInList(span []token, i int, clause string) ([]interface{}, int, error) {
	if i == len(span) || span[i].kind != tokenSymbol || span[i].text != "(" {
		return nil, 0, &MalformedConditionError{Condition: clause, Reason: "IN requires a parenthesized value list"}
	}
	i++

	values := []interface{}{}
	expectValue := true

	for {
		if i == len(span) {
			return nil, 0, &MalformedConditionError{Condition: clause, Reason: "unterminated IN list"}
		}

		t := span[i]

		if t.kind == tokenSymbol && t.text == ")" {
			if len(values) == 0 {
				return nil, 0, &MalformedConditionError{Condition: clause, Reason: "empty IN list"}
			}
			if expectValue {
				return nil, 0, &MalformedConditionError{Condition: clause, Reason: "missing value after ',' in the IN list"}
			}

			return values, i + 1, nil
		}

		if expectValue {
			switch t.kind {
			case tokenString, tokenNumber:
				values = append(values, CoerceValue(t.text))

			case tokenWord:
				if isBoolOrNullWord(t.text) {
					return nil, 0, &UnsupportedConstructError{Construct: "boolean/NULL literal", Offending: t.text}
				}

				values = append(values, CoerceValue(t.text))

			default:
				if t.text == "(" {
					return nil, 0, &UnsupportedConstructError{Construct: "nested parentheses", Offending: clause}
				}

				return nil, 0, &MalformedConditionError{Condition: clause, Reason: "invalid IN list value: '" + t.text + "'"}
			}

			expectValue = false
		} else {
			if t.kind != tokenSymbol || t.text != "," {
				return nil, 0, &MalformedConditionError{Condition: clause, Reason: "expected ',' in the IN list"}
			}

			expectValue = true
		}

		i++
	}
}

/*
 * Build the MongoDB predicate document of one condition
 */
func buildPredicate(cond condition) bson.M {
	switch cond.operator {
	case "like":
		// Dots are literal in a LIKE pattern, '%' matches any sequence
		pattern := strings.Replace(cond.rawValue, ".", "\\.", -1)
		pattern = strings.Replace(pattern, "%", ".*", -1)

		return bson.M{"$regex": pattern, "$options": "i"}

	case "in", "not in":
		list := bson.A{}
		list = append(list, cond.values...)

		return bson.M{operatorsMap[cond.operator]: list}

	default:
		return bson.M{operatorsMap[cond.operator]: cond.value}
	}
}

// Unquoted boolean and NULL literals are out of scope
// and must not coerce into strings silently
func isBoolOrNullWord(text string) bool {
	switch strings.ToLower(text) {
	case "true", "false", "null":
		return true
	}

	return false
}
