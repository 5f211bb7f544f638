package xquery

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	// for $x in collection("name") [where ...] [order by ...] [return ...]
	reFLWOR = regexp.MustCompile(`(?is)^for\s+\$(\w+)\s+in\s+collection\(\s*["']([^"']+)["']\s*\)\s*(.*)$`)

	// db.collection("name").find({query})
	reShellFind = regexp.MustCompile(`(?is)db\.collection\(\s*["']([^"']+)["']\s*\)\.find\s*\(\s*(.*?)\s*\)\s*$`)

	// xdmp:document-get("/uri"), fn:doc("/uri")
	reXdmpGet = regexp.MustCompile(`(?i)(?:xdmp:document-get|fn:doc)\s*\(\s*["']([^"']+)["']\s*\)`)

	// Clause spans of the FLWOR tail. The where part ends at
	// "order by", at "return" or at the end of the statement
	reReadWhere = regexp.MustCompile(`(?is)^where\s+(.+?)(?:\s+order\s+by\s|\s+return\s|$)`)
	reReadOrder = regexp.MustCompile(`(?is)order\s+by\s+(.+?)(?:\s+return\s|$)`)
	reReadBack  = regexp.MustCompile(`(?is)return\s+(.+)$`)
)

func parseRead(stmt string) (*Operation, error) {
	if m := reShellFind.FindStringSubmatch(stmt); m != nil {
		var filter interface{} = bson.M{}

		if m[2] != "" {
			parsed, err := parseJSONDocument(m[2])
			if err != nil {
				return nil, fmt.Errorf("Can't parse the find query: %s", err.Error())
			}

			filter = parsed
		}

		return &Operation{Collection: m[1], Kind: "find", Filter: filter}, nil
	}

	if m := reXdmpGet.FindStringSubmatch(stmt); m != nil {
		return &Operation{
			Collection: uriCollection,
			Kind:       "findOne",
			Filter:     bson.M{"_id": m[1]},
		}, nil
	}

	m := reFLWOR.FindStringSubmatch(stmt)
	if m == nil {
		return nil, fmt.Errorf("Unsupported XQuery statement: %s", stmt)
	}

	ctxVar, collection, rest := m[1], m[2], strings.TrimSpace(m[3])

	operation := &Operation{Collection: collection, Kind: "find", Filter: bson.M{}}

	if w := reReadWhere.FindStringSubmatch(rest); w != nil {
		filter, err := parseWhere(w[1], ctxVar)
		if err != nil {
			return nil, err
		}

		operation.Filter = filter
	}

	if o := reReadOrder.FindStringSubmatch(rest); o != nil {
		sort := parseOrderBy(o[1], ctxVar)
		if len(sort) != 0 {
			operation.Sort = sort
		}
	}

	if r := reReadBack.FindStringSubmatch(rest); r != nil {
		projection := parseReturn(r[1], ctxVar)
		if len(projection) != 0 {
			operation.Projection = projection
		}
	}

	return operation, nil
}

/*
 * Build the sort document of an "order by" clause,
 * "descending" flips the direction
 */
func parseOrderBy(clause, ctxVar string) bson.M {
	sort := bson.M{}

	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		direction := 1
		lower := strings.ToLower(part)

		if strings.HasSuffix(lower, " descending") {
			direction = -1
			part = strings.TrimSpace(part[:len(part)-len(" descending")])
		} else if strings.HasSuffix(lower, " ascending") {
			part = strings.TrimSpace(part[:len(part)-len(" ascending")])
		}

		sort[pathToField(part, ctxVar)] = direction
	}

	return sort
}

/*
 * Build the projection of a return clause. Field references such
 * as "$x/name" project their field and drop "_id", a bare "$x"
 * return keeps the whole documents
 */
func parseReturn(clause, ctxVar string) bson.M {
	fields := regexp.MustCompile(`\$` + ctxVar + `/([^/\s,()'"]+)`).FindAllStringSubmatch(clause, -1)
	if len(fields) == 0 {
		return nil
	}

	projection := bson.M{}
	for _, field := range fields {
		projection[field[1]] = 1
	}

	projection["_id"] = 0
	return projection
}
