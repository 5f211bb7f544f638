package xquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Jeffail/gabs/v2"
)

var (
	reTrailingComma = regexp.MustCompile(`,\s*([}\]])`)
	reFloat         = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)
)

/*
 * Parse a JSON document body. Trailing commas before a closing
 * brace or bracket are scrubbed first, hand-written statements
 * contain them regularly
 */
func parseJSONDocument(raw string) (interface{}, error) {
	cleaned := reTrailingComma.ReplaceAllString(strings.TrimSpace(raw), "$1")

	container, err := gabs.ParseJSON([]byte(cleaned))
	if err != nil {
		return nil, err
	}

	return container.Data(), nil
}

/*
 * Convert a scalar literal: one layer of quotes marks a string,
 * bare digits an integer, a single dot a float, then the boolean
 * and null words, everything else stays a string
 */
func parseScalar(raw string) interface{} {
	value := strings.TrimSpace(raw)

	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return value[1 : len(value)-1]
		}
	}

	digits := value != ""
	for _, r := range value {
		if r < '0' || r > '9' {
			digits = false
			break
		}
	}
	if digits {
		if number, err := strconv.Atoi(value); err == nil {
			return number
		}
	}

	if reFloat.MatchString(value) {
		if number, err := strconv.ParseFloat(value, 64); err == nil {
			return number
		}
	}

	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	case "null", "none":
		return nil
	}

	return value
}

/*
 * Convert an XQuery path into a field name: "$x/a/b" with the
 * context variable "x" becomes "a.b", the bare variable addresses
 * the document itself
 */
func pathToField(path, ctxVar string) string {
	field := strings.TrimSpace(path)

	if field == "$"+ctxVar {
		return "_id"
	}

	field = strings.TrimPrefix(field, "$"+ctxVar+"/")
	return strings.Replace(field, "/", ".", -1)
}
