package xquery

import (
	"fmt"
	"testing"
)

/*
 * Test the XML fragment conversion directly: text-only roots,
 * empty elements, attribute naming and repeated tags
 */
func TestXMLToDocument(t *testing.T) {

	tables := []struct {
		fragment string
		document string
	}{
		{`<name>John</name>`, `"John"`},
		{`<a></a>`, `map[string]interface {}{}`},
		{`<a><b>1</b><b>2</b><b>3</b></a>`, `map[string]interface {}{"b":[]interface {}{"1", "2", "3"}}`},
		{`<user id="7"><name>X</name></user>`, `map[string]interface {}{"@id":"7", "name":"X"}`},
		{`<a>  <b>x</b>  </a>`, `map[string]interface {}{"b":"x"}`},
	}

	for _, table := range tables {
		document, err := xmlToDocument(table.fragment)
		if err != nil {
			t.Errorf("Can't convert '%s': %s", table.fragment, err.Error())
			continue
		}

		if got := fmt.Sprintf("%#v", document); got != table.document {
			t.Errorf("Invalid document of '%s': %s, expected: %s", table.fragment, got, table.document)
		}
	}
}

/*
 * Test that broken fragments don't convert
 */
func TestXMLToDocumentErrors(t *testing.T) {

	tables := []string{
		``,
		`   `,
		`<a><b>1</b>`,
		`no xml at all`,
		`<a>1</a><b>2</b>`,
		`<a>1</a> trailing`,
	}

	for _, fragment := range tables {
		if _, err := xmlToDocument(fragment); err == nil {
			t.Errorf("Expected an error for '%s'", fragment)
		}
	}
}
