package xquery

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

/*
 * Conversion of an XML fragment into a document: attributes become
 * "@name" fields, child elements become fields, repeated tags
 * collapse into a list. Element text stays in "#text" when the
 * element also has attributes or children, a text-only element
 * becomes its text. The root tag itself is dropped, only its
 * content makes the document
 */
func xmlToDocument(fragment string) (interface{}, error) {
	decoder := xml.NewDecoder(strings.NewReader(fragment))

	var document interface{}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil, errors.New("no XML content")
		}
		if err != nil {
			return nil, err
		}

		if start, ok := tok.(xml.StartElement); ok {
			document, err = convertElement(decoder, start)
			if err != nil {
				return nil, err
			}
			break
		}
	}

	// Anything after the root element is a broken fragment
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return document, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return nil, errors.New("unexpected content after the root element")
			}
		default:
			return nil, errors.New("unexpected content after the root element")
		}
	}
}

func convertElement(decoder *xml.Decoder, start xml.StartElement) (interface{}, error) {
	fields := map[string]interface{}{}
	for _, attr := range start.Attr {
		fields["@"+attr.Name.Local] = attr.Value
	}

	text := strings.Builder{}

	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := convertElement(decoder, t)
			if err != nil {
				return nil, err
			}

			// Repeated tags collapse into a list
			name := t.Name.Local
			if existing, ok := fields[name]; ok {
				if list, ok := existing.([]interface{}); ok {
					fields[name] = append(list, child)
				} else {
					fields[name] = []interface{}{existing, child}
				}
			} else {
				fields[name] = child
			}

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			content := strings.TrimSpace(text.String())

			if content != "" {
				if len(fields) == 0 {
					return content, nil
				}
				fields["#text"] = content
			}

			return fields, nil
		}
	}
}
