package xquery

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

/*
 * Translation of XQuery where clauses into filter documents.
 *
 * Conditions join with "and" into one flat document or with "or"
 * into "$or", mixing the two is rejected. The function forms are
 * matched first, then symbol comparisons with the longest operator
 * first, ">=" must never match as ">", then the word comparisons
 */

var (
	reCondNotExists  = regexp.MustCompile(`(?i)^not\s*\(\s*exists\s*\(\s*([^()\s]+)\s*\)\s*\)$`)
	reCondExists     = regexp.MustCompile(`(?i)^exists\s*\(\s*([^()\s]+)\s*\)$`)
	reCondContains   = regexp.MustCompile(`(?i)^contains\s*\(\s*([^(),\s]+)\s*,\s*(.+?)\s*\)$`)
	reCondStartsWith = regexp.MustCompile(`(?i)^starts-with\s*\(\s*([^(),\s]+)\s*,\s*(.+?)\s*\)$`)
	reCondEndsWith   = regexp.MustCompile(`(?i)^ends-with\s*\(\s*([^(),\s]+)\s*,\s*(.+?)\s*\)$`)
	reCondCompare    = regexp.MustCompile(`^(\S+?)\s*(>=|<=|!=|=|>|<)\s*(.+)$`)
	reCondWordOp     = regexp.MustCompile(`(?i)^(\S+)\s+(eq|ne|gt|ge|lt|le)\s+(.+)$`)
)

// Comparison operators and their MongoDB counterparts.
// Equality is absent, an equal value matches directly
var operatorsMap = map[string]string{
	"!=": "$ne", "ne": "$ne",
	">":  "$gt", "gt": "$gt",
	">=": "$gte", "ge": "$gte",
	"<":  "$lt", "lt": "$lt",
	"<=": "$lte", "le": "$lte",
}

func parseWhere(clause, ctxVar string) (bson.M, error) {
	parts, connector, err := splitConditions(clause)
	if err != nil {
		return nil, err
	}

	if connector == "or" {
		list := bson.A{}
		for _, part := range parts {
			cond, err := parseCondition(part, ctxVar)
			if err != nil {
				return nil, err
			}

			list = append(list, cond)
		}

		return bson.M{"$or": list}, nil
	}

	// A single condition or an "and" chain
	filter := bson.M{}
	for _, part := range parts {
		cond, err := parseCondition(part, ctxVar)
		if err != nil {
			return nil, err
		}

		for field, predicate := range cond {
			filter[field] = predicate
		}
	}

	return filter, nil
}

/*
 * Split a where clause on its standalone "and" / "or" connectors,
 * ignoring ones inside quotes or parentheses. Returns the condition
 * parts and the single connector used
 */
func splitConditions(clause string) ([]string, string, error) {
	parts := []string{}
	connector := ""
	depth := 0
	quote := byte(0)
	start := 0

	lower := strings.ToLower(clause)

	for i := 0; i < len(lower); i++ {
		c := lower[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}

		case c == '"' || c == '\'':
			quote = c

		case c == '(':
			depth++

		case c == ')':
			depth--

		case depth == 0 && c == ' ':
			word := ""
			if strings.HasPrefix(lower[i:], " and ") {
				word = "and"
			} else if strings.HasPrefix(lower[i:], " or ") {
				word = "or"
			}
			if word == "" {
				continue
			}

			if connector == "" {
				connector = word
			} else if connector != word {
				return nil, "", fmt.Errorf("Ambiguous mix of 'and' and 'or' in the where clause: %s", clause)
			}

			parts = append(parts, strings.TrimSpace(clause[start:i]))

			// Continue behind the connector
			i += len(word) + 1
			start = i + 1
		}
	}

	parts = append(parts, strings.TrimSpace(clause[start:]))

	return parts, connector, nil
}

/*
 * Translate one condition into its filter document
 */
func parseCondition(raw, ctxVar string) (bson.M, error) {
	cond := strings.TrimSpace(raw)

	if m := reCondNotExists.FindStringSubmatch(cond); m != nil {
		return bson.M{pathToField(m[1], ctxVar): bson.M{"$exists": false}}, nil
	}

	if m := reCondExists.FindStringSubmatch(cond); m != nil {
		return bson.M{pathToField(m[1], ctxVar): bson.M{"$exists": true}}, nil
	}

	if m := reCondContains.FindStringSubmatch(cond); m != nil {
		substring, ok := parseScalar(m[2]).(string)
		if !ok {
			return nil, fmt.Errorf("contains() requires a string argument: %s", cond)
		}

		return bson.M{pathToField(m[1], ctxVar): bson.M{"$regex": substring, "$options": "i"}}, nil
	}

	if m := reCondStartsWith.FindStringSubmatch(cond); m != nil {
		prefix, ok := parseScalar(m[2]).(string)
		if !ok {
			return nil, fmt.Errorf("starts-with() requires a string argument: %s", cond)
		}

		return bson.M{pathToField(m[1], ctxVar): bson.M{"$regex": "^" + regexp.QuoteMeta(prefix), "$options": "i"}}, nil
	}

	if m := reCondEndsWith.FindStringSubmatch(cond); m != nil {
		suffix, ok := parseScalar(m[2]).(string)
		if !ok {
			return nil, fmt.Errorf("ends-with() requires a string argument: %s", cond)
		}

		return bson.M{pathToField(m[1], ctxVar): bson.M{"$regex": regexp.QuoteMeta(suffix) + "$", "$options": "i"}}, nil
	}

	if m := reCondCompare.FindStringSubmatch(cond); m != nil {
		return buildCondition(m[1], m[2], m[3], ctxVar), nil
	}

	if m := reCondWordOp.FindStringSubmatch(cond); m != nil {
		return buildCondition(m[1], strings.ToLower(m[2]), m[3], ctxVar), nil
	}

	return nil, fmt.Errorf("Unsupported where condition: %s", cond)
}

func buildCondition(path, op, raw, ctxVar string) bson.M {
	field := pathToField(path, ctxVar)
	value := parseScalar(raw)

	if op == "=" || op == "eq" {
		return bson.M{field: value}
	}

	return bson.M{field: bson.M{operatorsMap[op]: value}}
}
