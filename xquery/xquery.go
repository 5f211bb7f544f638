/*
 * Translator of XQuery database statements into MongoDB operations.
 *
 * Covers the FLWOR read form, XQuery Update style insert / replace /
 * delete, the MongoDB shell style "db.collection(...)" calls and the
 * MarkLogic "xdmp:*" builtins. As with the SQL dialect nothing is
 * executed, the result describes the operation to run
 */

package xquery

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MarkLogic statements address documents by URI and carry no
// collection name, they all target this fixed collection
const uriCollection = "collection"

// Single translated database operation
type Operation struct {
	Collection string `json:"collection" bson:"collection"`
	Kind       string `json:"operation" bson:"operation"`

	// Only the parts relevant for the operation kind are set.
	// An empty filter document still appears in the output,
	// a missing one doesn't
	Document   interface{} `json:"document,omitempty" bson:"document,omitempty"`
	Filter     interface{} `json:"filter,omitempty" bson:"filter,omitempty"`
	Update     interface{} `json:"update,omitempty" bson:"update,omitempty"`
	Sort       interface{} `json:"sort,omitempty" bson:"sort,omitempty"`
	Projection interface{} `json:"projection,omitempty" bson:"projection,omitempty"`
}

// Statement family probes, checked in order
var (
	reInsertProbe = regexp.MustCompile(`(?i)insert\s+node|\.insert\s*\(|xdmp:document-insert`)
	reUpdateProbe = regexp.MustCompile(`(?i)replace\s+node|update\s+value|\.update\s*\(|xdmp:node-replace`)
	reDeleteProbe = regexp.MustCompile(`(?i)delete\s+node|\.remove\s*\(|xdmp:document-delete`)
	reReadProbe   = regexp.MustCompile(`(?i)for\s+\$\w+\s+in\s+collection|\.find\s*\(|xdmp:document-get|fn:doc\s*\(`)
)

/*
 * Translate a single XQuery statement.
 *
 * Pure and safe for concurrent use, like the SQL translator
 */
func Translate(statement string) (*Operation, error) {
	stmt := strings.TrimSpace(statement)
	if stmt == "" {
		return nil, errors.New("Empty statement")
	}

	switch {
	case reInsertProbe.MatchString(stmt):
		return parseInsert(stmt)
	case reUpdateProbe.MatchString(stmt):
		return parseUpdate(stmt)
	case reDeleteProbe.MatchString(stmt):
		return parseDelete(stmt)
	case reReadProbe.MatchString(stmt):
		return parseRead(stmt)
	}

	return nil, fmt.Errorf("Unsupported XQuery statement: %s", stmt)
}
