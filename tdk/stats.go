package tdk

import (
	"fmt"
	"sync"

	"github.com/umpc/go-sortedmap"
)

/*
 * Structure to contain statistics of a translated batch,
 * such as the most frequent target collections and operations
 */
type Stats struct {
	Fields map[string]*sortedmap.SortedMap
	mx     sync.Mutex
}

func NewStats() *Stats {
	return &Stats{
		Fields: make(map[string]*sortedmap.SortedMap),
	}
}

/*
 * Update statistics with a single translated operation.
 *
 * Receives:
 *     entry - flat description of one operation
 *     key   - statistics field to update,
 *             one operation increases the value by 1
 */
func (s *Stats) Update(entry map[string]interface{}, key string) {
	// Skip if the value is missing or the field isn't tracked
	value := entry[key]
	if value == nil || fmt.Sprint(value) == "" {
		return
	}

	s.mx.Lock()

	if s.Fields[key] == nil {
		s.mx.Unlock()
		return
	}

	if val, ok := s.Fields[key].Get(value); ok {
		s.Fields[key].Replace(value, val.(int)+1)
	} else {
		s.Fields[key].Insert(value, 1)
	}

	s.mx.Unlock()
}

/*
 * Convert sorted-map objects to a native map with the Top 10
 * values of every tracked field, to be serialized for the user
 * alongside the translated batch.
 *
 * Receives a dialect name
 */
func (s *Stats) ToJSON(dialect string) (map[string]interface{}, error) {

	// Map to store Top 10 entries
	json := make(map[string]interface{})

	// Identifier of the dialect the batch was translated with
	json["dialect"] = dialect

	for k, v := range s.Fields {
		i := 1

		iterCh, err := v.IterCh()
		if err != nil && len(v.Keys()) != 0 {
			return nil, err

		} else if len(v.Keys()) != 0 {
			defer iterCh.Close()

			group := make(map[string]int)

			for rec := range iterCh.Records() {
				group[fmt.Sprint(rec.Key)] = rec.Val.(int)

				// We want Top 10 here and started from i == 1
				if i > 9 {
					break
				}

				i++
			}

			json[k] = group
		}
	}

	return json, nil
}
