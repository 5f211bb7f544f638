/*
 * Translator of a small SQL SELECT subset into MongoDB queries.
 *
 * Nothing is executed here, the result is a description of the
 * equivalent "find" operation: the target collection, the filter
 * and an optional projection. Unsupported SQL never degrades into
 * a partial query, it fails with a typed error instead
 */

package translate

import "go.mongodb.org/mongo-driver/bson"

// Target collection and the parameters of the equivalent "find"
type Query struct {
	Collection string     `json:"collection" bson:"collection"`
	FindParams FindParams `json:"find_params" bson:"find_params"`

	// Fields of an AND chain that appeared more than once.
	// The last predicate wins, earlier ones are dropped, and this
	// list lets callers warn about it. Not part of the output
	Overwritten []string `json:"-" bson:"-"`
}

type FindParams struct {
	Filter bson.M `json:"filter" bson:"filter"`

	// Omitted entirely for "SELECT *"
	Projection bson.M `json:"projection,omitempty" bson:"projection,omitempty"`
}

/*
 * Translate a single SQL SELECT statement.
 *
 * The function is pure: no shared state, identical input always
 * produces an identical result, so it's safe to call from
 * concurrent goroutines
 */
func Translate(sql string) (*Query, error) {
	stmt, err := parseStatement(sql)
	if err != nil {
		return nil, err
	}

	// Missing WHERE clause matches the whole collection
	filter := bson.M{}
	var overwritten []string

	if len(stmt.where) != 0 {
		filter, overwritten, err = translateWhere(stmt.where, stmt.whereRaw)
		if err != nil {
			return nil, err
		}
	}

	var projection bson.M
	if len(stmt.columns) != 0 {
		projection = bson.M{}

		for _, column := range stmt.columns {
			projection[column] = 1
		}
	}

	return &Query{
		Collection: stmt.table,
		FindParams: FindParams{
			Filter:     filter,
			Projection: projection,
		},
		Overwritten: overwritten,
	}, nil
}
