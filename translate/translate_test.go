package translate

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

/*
 * Test SQL conversion to the MongoDB query documents
 */
func TestTranslate(t *testing.T) {

	// Statements and the expected query parts
	tables := []struct {
		sql        string
		collection string
		filter     string
		projection string
	}{
		{`SELECT name, age FROM users WHERE age > 25 AND city = "New York"`, "users",
			`primitive.M{"age":primitive.M{"$gt":25}, "city":primitive.M{"$eq":"New York"}}`,
			`primitive.M{"age":1, "name":1}`},
		{`SELECT * FROM logs`, "logs",
			`primitive.M{}`,
			`primitive.M(nil)`},
		{`SELECT name FROM users`, "users",
			`primitive.M{}`,
			`primitive.M{"name":1}`},
		{`SELECT * FROM people WHERE name LIKE "Jo%"`, "people",
			`primitive.M{"name":primitive.M{"$options":"i", "$regex":"Jo.*"}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM events WHERE size IN (100, 300)`, "events",
			`primitive.M{"size":primitive.M{"$in":primitive.A{100, 300}}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM events WHERE size NOT IN (100, 300)`, "events",
			`primitive.M{"size":primitive.M{"$nin":primitive.A{100, 300}}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM users WHERE city = "Riga" OR city = "Tallinn"`, "users",
			`primitive.M{"$or":primitive.A{primitive.M{"city":primitive.M{"$eq":"Riga"}}, primitive.M{"city":primitive.M{"$eq":"Tallinn"}}}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM users WHERE age = "25"`, "users",
			`primitive.M{"age":primitive.M{"$eq":25}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM metrics WHERE score >= 75.5`, "metrics",
			`primitive.M{"score":primitive.M{"$gte":75.5}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM users WHERE age != 40`, "users",
			`primitive.M{"age":primitive.M{"$ne":40}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM users WHERE age < 30 AND age > 18`, "users",
			`primitive.M{"age":primitive.M{"$gt":18}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM users WHERE status = active`, "users",
			`primitive.M{"status":primitive.M{"$eq":"active"}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM users WHERE address.city = "Riga"`, "users",
			`primitive.M{"address.city":primitive.M{"$eq":"Riga"}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM logs WHERE day = 2024-01-02`, "logs",
			`primitive.M{"day":primitive.M{"$eq":"2024-01-02"}}`,
			`primitive.M(nil)`},
		{`SELECT * FROM tags WHERE label IN ("a", 2, "c")`, "tags",
			`primitive.M{"label":primitive.M{"$in":primitive.A{"a", 2, "c"}}}`,
			`primitive.M(nil)`},
		{`select name from users where age <= 30;`, "users",
			`primitive.M{"age":primitive.M{"$lte":30}}`,
			`primitive.M{"name":1}`},
	}

	for _, table := range tables {
		query, err := Translate(table.sql)
		if err != nil {
			t.Errorf("Can't translate '%s': %s", table.sql, err.Error())
			continue
		}

		if query.Collection != table.collection {
			t.Errorf("Invalid collection of '%s': %s, expected: %s", table.sql, query.Collection, table.collection)
		}
		if fmt.Sprintf("%#v", query.FindParams.Filter) != table.filter {
			t.Errorf("Invalid filter of '%s': %#v, expected: %s", table.sql, query.FindParams.Filter, table.filter)
		}
		if fmt.Sprintf("%#v", query.FindParams.Projection) != table.projection {
			t.Errorf("Invalid projection of '%s': %#v, expected: %s", table.sql, query.FindParams.Projection, table.projection)
		}
	}
}

/*
 * Test that a field repeated in an AND chain keeps the last
 * predicate and reports the overwrite
 */
func TestTranslateOverwrite(t *testing.T) {
	query, err := Translate(`SELECT * FROM users WHERE age = 1 AND age = 2`)
	if err != nil {
		t.Fatalf("Can't translate: %s", err.Error())
	}

	if fmt.Sprintf("%#v", query.FindParams.Filter) != `primitive.M{"age":primitive.M{"$eq":2}}` {
		t.Errorf("Invalid filter: %#v", query.FindParams.Filter)
	}
	if fmt.Sprintf("%#v", query.Overwritten) != `[]string{"age"}` {
		t.Errorf("Invalid overwritten fields: %#v", query.Overwritten)
	}

	// Independent fields must not be reported
	query, err = Translate(`SELECT * FROM users WHERE age > 18 AND city = "Riga"`)
	if err != nil {
		t.Fatalf("Can't translate: %s", err.Error())
	}

	if query.Overwritten != nil {
		t.Errorf("Unexpected overwritten fields: %#v", query.Overwritten)
	}
}

/*
 * Test that unsupported input fails with the expected error type
 * and that the message names the offending part
 */
func TestTranslateErrors(t *testing.T) {

	// Statements, the expected error kinds and message fragments
	tables := []struct {
		sql      string
		kind     string
		fragment string
	}{
		{``, "parse", "empty statement"},
		{`   `, "parse", "empty statement"},
		{`;`, "parse", "empty statement"},
		{`INSERT INTO users VALUES (1)`, "statement", "INSERT"},
		{`DROP TABLE users`, "statement", "DROP"},
		{`UPDATE users SET age = 1`, "statement", "UPDATE"},
		{`SELECT name users`, "parse", "missing FROM clause"},
		{`SELECT FROM users`, "parse", "missing column list"},
		{`SELECT * FROM`, "parse", "missing table name"},
		{`SELECT * FROM users extra`, "parse", "unexpected input after the table name"},
		{`SELECT * FROM a; SELECT * FROM b`, "parse", "multiple statements"},
		{`SELECT * FROM users WHERE name = "unterminated`, "parse", "unterminated quoted literal"},
		{`SELECT name, FROM users`, "parse", "missing column name after ','"},
		{`SELECT name, * FROM users`, "parse", "'*' can't be combined"},
		{`SELECT * FROM users, accounts`, "construct", "multiple tables"},
		{`SELECT * FROM users JOIN accounts ON users.id = accounts.id`, "construct", "JOIN"},
		{`SELECT * FROM users WHERE age > 25 ORDER BY age`, "construct", "ORDER BY"},
		{`SELECT * FROM users WHERE age > 25 GROUP BY city`, "construct", "GROUP BY"},
		{`SELECT * FROM users LIMIT 10`, "construct", "LIMIT"},
		{`SELECT COUNT(ip) FROM logs`, "construct", "aggregation or function call"},
		{`SELECT DISTINCT city FROM users`, "construct", "DISTINCT"},
		{`SELECT * FROM users WHERE (age > 25 AND admin = 1) OR city = "Riga"`, "construct", "parenthesized expression"},
		{`SELECT * FROM users WHERE active = true`, "construct", "boolean/NULL literal"},
		{`SELECT * FROM users WHERE deleted = NULL`, "construct", "boolean/NULL literal"},
		{`SELECT * FROM users WHERE`, "condition", "empty WHERE clause"},
		{`SELECT * FROM users WHERE age == 25`, "condition", "unsupported operator: =="},
		{`SELECT * FROM users WHERE age <> 25`, "condition", "unsupported operator: <>"},
		{`SELECT * FROM users WHERE age BETWEEN 18 AND 30`, "condition", "unsupported operator: BETWEEN"},
		{`SELECT * FROM users WHERE name NOT LIKE "a%"`, "condition", "unsupported operator: NOT"},
		{`SELECT * FROM users WHERE age`, "condition", "missing operator after 'age'"},
		{`SELECT * FROM users WHERE age >`, "condition", "missing value for 'age >'"},
		{`SELECT * FROM users WHERE = 5`, "condition", "missing field name"},
		{`SELECT * FROM users WHERE age = 1 AND`, "condition", "missing condition after 'AND'"},
		{`SELECT * FROM users WHERE age = 1 2`, "condition", "expected AND or OR"},
		{`SELECT * FROM users WHERE tags IN ()`, "condition", "empty IN list"},
		{`SELECT * FROM users WHERE tags IN (1, 2`, "condition", "unterminated IN list"},
		{`SELECT * FROM users WHERE tags IN (1,)`, "condition", "missing value after ','"},
		{`SELECT * FROM users WHERE tags IN 5`, "condition", "IN requires a parenthesized value list"},
		{`SELECT * FROM users WHERE age > 25 AND city = "Riga" OR admin = 1`, "mixed", "Ambiguous mix of AND and OR"},
		{`SELECT * FROM users WHERE admin = 1 OR age > 25 AND city = "Riga"`, "mixed", "Ambiguous mix of AND and OR"},
	}

	for _, table := range tables {
		_, err := Translate(table.sql)
		if err == nil {
			t.Errorf("Expected an error for '%s'", table.sql)
			continue
		}

		var (
			parseErr     *ParseError
			statementErr *UnsupportedStatementError
			constructErr *UnsupportedConstructError
			conditionErr *MalformedConditionError
			mixedErr     *AmbiguousLogicalMixingError
		)

		matched := false
		switch table.kind {
		case "parse":
			matched = errors.As(err, &parseErr)
		case "statement":
			matched = errors.As(err, &statementErr)
		case "construct":
			matched = errors.As(err, &constructErr)
		case "condition":
			matched = errors.As(err, &conditionErr)
		case "mixed":
			matched = errors.As(err, &mixedErr)
		}

		if !matched {
			t.Errorf("Invalid error type for '%s': %T (%s)", table.sql, err, err.Error())
			continue
		}

		if !strings.Contains(err.Error(), table.fragment) {
			t.Errorf("Invalid error message for '%s': %s, expected to contain: %s", table.sql, err.Error(), table.fragment)
		}
	}
}

/*
 * Test that LIKE patterns translate into working regular expressions:
 * '%' matches any sequence, dots match themselves only
 */
func TestTranslateLikePattern(t *testing.T) {
	query, err := Translate(`SELECT * FROM logs WHERE msg LIKE "%time.out%"`)
	if err != nil {
		t.Fatalf("Can't translate: %s", err.Error())
	}

	predicate, ok := query.FindParams.Filter["msg"].(bson.M)
	if !ok {
		t.Fatalf("Invalid predicate: %#v", query.FindParams.Filter)
	}
	if predicate["$options"] != "i" {
		t.Errorf("Invalid options: %#v", predicate["$options"])
	}

	pattern, ok := predicate["$regex"].(string)
	if !ok {
		t.Fatalf("Invalid pattern: %#v", predicate["$regex"])
	}

	// "i" in $options means case insensitivity
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		t.Fatalf("Pattern doesn't compile: %s", err.Error())
	}

	for _, sample := range []string{"time.out", "worker time.out happened", "TIME.OUT"} {
		if !re.MatchString(sample) {
			t.Errorf("Pattern %s doesn't match '%s'", pattern, sample)
		}
	}
	for _, sample := range []string{"timeout", "timeXout", "time"} {
		if re.MatchString(sample) {
			t.Errorf("Pattern %s shouldn't match '%s'", pattern, sample)
		}
	}
}

/*
 * Test that repeated translations of one statement produce
 * identical results
 */
func TestTranslateDeterminism(t *testing.T) {
	sql := `SELECT name, age FROM users WHERE age > 25 AND city = "New York" AND size IN (1, 2, 3)`

	first, err := Translate(sql)
	if err != nil {
		t.Fatalf("Can't translate: %s", err.Error())
	}

	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Can't marshal: %s", err.Error())
	}

	for i := 0; i < 10; i++ {
		next, err := Translate(sql)
		if err != nil {
			t.Fatalf("Can't translate: %s", err.Error())
		}

		if fmt.Sprintf("%#v", next) != fmt.Sprintf("%#v", first) {
			t.Fatalf("Results differ: %#v, expected: %#v", next, first)
		}

		nextJSON, err := json.Marshal(next)
		if err != nil {
			t.Fatalf("Can't marshal: %s", err.Error())
		}
		if string(nextJSON) != string(firstJSON) {
			t.Fatalf("Serialized results differ: %s, expected: %s", nextJSON, firstJSON)
		}
	}
}
