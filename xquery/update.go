package xquery

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	// Shared tail parts of the update and delete statements
	reCollection = regexp.MustCompile(`(?i)in\s+collection\(\s*["']([^"']+)["']\s*\)`)
	reWhere      = regexp.MustCompile(`(?is)\s+where\s+(.+?)(?:\s+in\s+collection\(|$)`)

	// replace node $x/path with VALUE [where ...] in collection("c"),
	// update value $x/path with VALUE [where ...] in collection("c")
	reUpdatePath = regexp.MustCompile(`(?i)(?:replace\s+node|update\s+value)\s+(\$\S+)`)
	reWithValue  = regexp.MustCompile(`(?is)\s+with\s+(.+?)(?:\s+where\s+|\s+in\s+collection\(|$)`)

	// db.collection("name").update({query}, {update})
	reShellUpdate = regexp.MustCompile(`(?is)db\.collection\(\s*["']([^"']+)["']\s*\)\.update\s*\(\s*(.+)\s*\)\s*$`)

	// xdmp:node-replace(doc("/uri")//field, value)
	reXdmpReplaceField = regexp.MustCompile(`(?is)xdmp:node-replace\s*\(\s*(?:fn:)?doc\(\s*["']([^"']+)["']\s*\)//([\w.]+)\s*,\s*(.+?)\s*\)\s*$`)

	// xdmp:node-replace("/uri", {...})
	reXdmpReplaceDoc = regexp.MustCompile(`(?is)xdmp:node-replace\s*\(\s*["']([^"']+)["']\s*,\s*(.+?)\s*\)\s*$`)
)

func parseUpdate(stmt string) (*Operation, error) {
	if m := reShellUpdate.FindStringSubmatch(stmt); m != nil {
		rawQuery, rawUpdate, err := splitUpdateArgs(m[2])
		if err != nil {
			return nil, err
		}

		query, err := parseJSONDocument(rawQuery)
		if err != nil {
			return nil, fmt.Errorf("Can't parse the update query: %s", err.Error())
		}
		update, err := parseJSONDocument(rawUpdate)
		if err != nil {
			return nil, fmt.Errorf("Can't parse the update document: %s", err.Error())
		}

		return &Operation{
			Collection: m[1],
			Kind:       "updateMany",
			Filter:     query,
			Update:     wrapSet(update),
		}, nil
	}

	if m := reXdmpReplaceField.FindStringSubmatch(stmt); m != nil {
		return &Operation{
			Collection: uriCollection,
			Kind:       "updateOne",
			Filter:     bson.M{"_id": m[1]},
			Update:     bson.M{"$set": bson.M{m[2]: parseScalar(m[3])}},
		}, nil
	}

	if m := reXdmpReplaceDoc.FindStringSubmatch(stmt); m != nil {
		document, err := parseJSONDocument(m[2])
		if err != nil {
			return nil, fmt.Errorf("Can't parse the replacement document: %s", err.Error())
		}

		return &Operation{
			Collection: uriCollection,
			Kind:       "updateOne",
			Filter:     bson.M{"_id": m[1]},
			Update:     wrapSet(document),
		}, nil
	}

	// The XQuery Update forms
	target := reUpdatePath.FindStringSubmatch(stmt)
	if target == nil {
		return nil, errors.New("Update target path is missing")
	}

	collection := reCollection.FindStringSubmatch(stmt)
	if collection == nil {
		return nil, errors.New("Collection name is missing in the update statement")
	}

	value := reWithValue.FindStringSubmatch(stmt)
	if value == nil {
		return nil, errors.New("Replacement value is missing")
	}

	ctxVar := pathVariable(target[1])
	raw := strings.TrimSpace(value[1])

	// A document value replaces fields directly, a scalar one
	// sets the addressed field
	var update bson.M
	if strings.HasPrefix(raw, "{") {
		document, err := parseJSONDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("Can't parse the replacement value: %s", err.Error())
		}

		update = wrapSet(document)
	} else {
		update = bson.M{"$set": bson.M{pathToField(target[1], ctxVar): parseScalar(raw)}}
	}

	var filter interface{} = bson.M{}
	if w := reWhere.FindStringSubmatch(stmt); w != nil {
		parsed, err := parseWhere(w[1], ctxVar)
		if err != nil {
			return nil, err
		}

		filter = parsed
	}

	return &Operation{
		Collection: collection[1],
		Kind:       "updateMany",
		Filter:     filter,
		Update:     update,
	}, nil
}

// Updates without a "$" operator replace fields through "$set"
func wrapSet(document interface{}) bson.M {
	if fields, ok := document.(map[string]interface{}); ok {
		for key := range fields {
			if strings.HasPrefix(key, "$") {
				return bson.M(fields)
			}
		}

		return bson.M{"$set": fields}
	}

	return bson.M{"$set": document}
}

// Variable name of a path such as "$x/field"
func pathVariable(path string) string {
	name := strings.TrimPrefix(path, "$")

	if i := strings.Index(name, "/"); i != -1 {
		name = name[:i]
	}

	return name
}

/*
 * Split the two update arguments at the top level comma, commas
 * inside the documents or inside quotes don't count
 */
func splitUpdateArgs(raw string) (string, string, error) {
	depth := 0
	quote := byte(0)

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}

		case c == '"' || c == '\'':
			quote = c

		case c == '{' || c == '[' || c == '(':
			depth++

		case c == '}' || c == ']' || c == ')':
			depth--

		case c == ',' && depth == 0:
			return raw[:i], raw[i+1:], nil
		}
	}

	return "", "", errors.New("The update requires a query and an update document")
}
