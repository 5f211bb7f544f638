package xquery

import (
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	// delete node $x [where ...] in collection("name")
	reDeleteNode = regexp.MustCompile(`(?i)delete\s+node\s+\$(\w+)`)

	// db.collection("name").remove({query})
	reShellRemove = regexp.MustCompile(`(?is)db\.collection\(\s*["']([^"']+)["']\s*\)\.remove\s*\(\s*(.*?)\s*\)\s*$`)

	// xdmp:document-delete("/uri")
	reXdmpDelete = regexp.MustCompile(`(?i)xdmp:document-delete\s*\(\s*["']([^"']+)["']\s*\)`)
)

func parseDelete(stmt string) (*Operation, error) {
	if m := reShellRemove.FindStringSubmatch(stmt); m != nil {
		var filter interface{} = bson.M{}

		if m[2] != "" {
			parsed, err := parseJSONDocument(m[2])
			if err != nil {
				return nil, fmt.Errorf("Can't parse the remove query: %s", err.Error())
			}

			filter = parsed
		}

		return &Operation{Collection: m[1], Kind: "deleteMany", Filter: filter}, nil
	}

	if m := reXdmpDelete.FindStringSubmatch(stmt); m != nil {
		return &Operation{
			Collection: uriCollection,
			Kind:       "deleteOne",
			Filter:     bson.M{"_id": m[1]},
		}, nil
	}

	if m := reDeleteNode.FindStringSubmatch(stmt); m != nil {
		collection := reCollection.FindStringSubmatch(stmt)
		if collection == nil {
			return nil, errors.New("Collection name is missing in the delete statement")
		}

		var filter interface{} = bson.M{}
		if w := reWhere.FindStringSubmatch(stmt); w != nil {
			parsed, err := parseWhere(w[1], m[1])
			if err != nil {
				return nil, err
			}

			filter = parsed
		}

		return &Operation{Collection: collection[1], Kind: "deleteMany", Filter: filter}, nil
	}

	return nil, fmt.Errorf("Unsupported XQuery statement: %s", stmt)
}
