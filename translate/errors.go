package translate

import "fmt"

/*
 * Typed errors returned by Translate.
 *
 * Each error carries the offending part of the input, so callers
 * can report exactly what was rejected. Match with "errors.As"
 */

// Statement can't be recognized at all, a clause is incomplete
// or a literal is broken
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Can't parse statement: %s: '%s'", e.Reason, e.Input)
}

// Statement starts with a known keyword other than SELECT,
// for example INSERT or DROP
type UnsupportedStatementError struct {
	Keyword string
}

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("Unsupported statement kind: '%s', only SELECT is supported", e.Keyword)
}

// Statement is a SELECT, but uses a feature outside of the supported
// subset, such as JOIN, GROUP BY, aggregation calls or subqueries
type UnsupportedConstructError struct {
	Construct string
	Offending string
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("Unsupported construct (%s): '%s'", e.Construct, e.Offending)
}

// Single "field operator value" condition can't be translated
type MalformedConditionError struct {
	Condition string
	Reason    string
}

func (e *MalformedConditionError) Error() string {
	return fmt.Sprintf("Malformed condition: %s: '%s'", e.Reason, e.Condition)
}

// WHERE clause combines AND with OR. Without parentheses support
// the precedence would be a silent guess, so it's rejected instead
type AmbiguousLogicalMixingError struct {
	Clause string
}

func (e *AmbiguousLogicalMixingError) Error() string {
	return fmt.Sprintf("Ambiguous mix of AND and OR without parentheses: '%s'", e.Clause)
}
