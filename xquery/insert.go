package xquery

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// insert node <doc.../> into collection("name")
	reInsertNode = regexp.MustCompile(`(?is)insert\s+node\s+(.+?)\s+into\s+collection\(\s*["']([^"']+)["']\s*\)`)

	// db.collection("name").insert({...})
	reShellInsert = regexp.MustCompile(`(?is)db\.collection\(\s*["']([^"']+)["']\s*\)\.insert\s*\(\s*(.+)\s*\)\s*$`)

	// xdmp:document-insert("/uri", {...})
	reXdmpInsert = regexp.MustCompile(`(?is)xdmp:document-insert\s*\(\s*["']([^"']+)["']\s*,\s*(.+)\s*\)\s*$`)
)

func parseInsert(stmt string) (*Operation, error) {
	if m := reInsertNode.FindStringSubmatch(stmt); m != nil {
		body := strings.TrimSpace(m[1])

		// The node is either a JSON object or an XML fragment
		var document interface{}
		var err error

		if strings.HasPrefix(body, "{") {
			document, err = parseJSONDocument(body)
		} else {
			document, err = xmlToDocument(body)
		}
		if err != nil {
			return nil, fmt.Errorf("Can't parse the document to insert: %s", err.Error())
		}

		return &Operation{Collection: m[2], Kind: "insertOne", Document: document}, nil
	}

	if m := reShellInsert.FindStringSubmatch(stmt); m != nil {
		document, err := parseJSONDocument(m[2])
		if err != nil {
			return nil, fmt.Errorf("Can't parse the document to insert: %s", err.Error())
		}

		return &Operation{Collection: m[1], Kind: "insertOne", Document: document}, nil
	}

	if m := reXdmpInsert.FindStringSubmatch(stmt); m != nil {
		document, err := parseJSONDocument(m[2])
		if err != nil {
			return nil, fmt.Errorf("Can't parse the document to insert: %s", err.Error())
		}

		// URI addressed documents keep their URI as the "_id"
		fields, ok := document.(map[string]interface{})
		if !ok {
			return nil, errors.New("The xdmp:document-insert body must be a JSON object")
		}
		fields["_id"] = m[1]

		return &Operation{Collection: uriCollection, Kind: "insertOne", Document: fields}, nil
	}

	return nil, fmt.Errorf("Unsupported XQuery statement: %s", stmt)
}
