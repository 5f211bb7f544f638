package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/yukithm/json2csv"
)

/*
 * Structure built for every translated statement.
 *
 * A successful translation is returned as the bare resulting
 * operation, a failed one as an "error" document, so the output
 * of the API and of the batch mode look the same
 */
type Response struct {
	// Translated database operation
	Query interface{}

	// If the statement can't be translated this message will be shown
	Error string
}

/*
 * Send the translation result to the API user.
 * Receives user's IP, query dialect, output format and the statement
 */
func (r *Response) send(w http.ResponseWriter, ip, dialect, format, query string) {
	_, err := fmt.Fprint(w, r.format(format))
	if err != nil {
		log.Error().
			Str("ip", ip).
			Str("dialect", dialect).
			Str("query", query).
			Msg("Can't send an API response: " + err.Error())
	}
}

/*
 * Format the translation output data.
 * Receives a requested format, JSON will be used by default
 */
func (r *Response) format(f string) string {

	// Validate the format value
	if f != "" && f != "json" && f != "table" {
		log.Error().Msg("Unexpected API response format requested: '" + f + "', JSON used instead")
		r.Error = "Unexpected API response format: '" + f + "', JSON used instead. " + r.Error
	}

	// Format the content if necessary
	if f == "table" {
		output := ""

		if r.Error != "" {
			output += "Error: " + r.Error + "\n"

			if r.Query != nil {
				output += "\n"
			}
		}

		if r.Query != nil {
			table, err := formatTo(r.Query, "table")
			if err != nil {
				output += "Error: " + err.Error()
			} else {
				output += table
			}
		}

		return output
	}

	// Return JSON by default
	if r.Error != "" {
		output, err := formatTo(map[string]interface{}{"error": r.Error}, "json")
		if err != nil {
			return `{"error":"Can't format an API response"}`
		}

		return output
	}

	output, err := formatTo(r.Query, "json")
	if err != nil {
		output, err = formatTo(map[string]interface{}{"error": err.Error()}, "json")
		if err != nil {
			return `{"error":"Can't format an API response"}`
		}
	}

	return output
}

/*
 * Format the given single object
 */
func formatTo(data interface{}, format string) (string, error) {
	if format == "table" {
		// Rebuild the object as a generic structure,
		// json2csv expects maps and slices only
		b, err := json.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("Can't format the response to JSON: " + err.Error())
		}

		var generic interface{}

		err = json.Unmarshal(b, &generic)
		if err != nil {
			return "", fmt.Errorf("Can't rebuild the response: " + err.Error())
		}

		// JSON to CSV
		// to get all the existing headers
		csvRows, err := json2csv.JSON2CSV(generic)
		if err != nil {
			return "", fmt.Errorf("Can't convert the response to CSV: " + err.Error())
		}

		output := ""
		buf := bytes.NewBufferString(output)
		wr := json2csv.NewCSVWriter(buf)
		wr.HeaderStyle = json2csv.DotNotationStyle

		err = wr.WriteCSV(csvRows)
		if err != nil {
			return "", fmt.Errorf("Can't format the response to CSV: " + err.Error())
		}

		// Read csv values using csv.Reader.
		// Strings splitting by \n and "," is not enough as some fields
		// may contain them
		csvReader := csv.NewReader(strings.NewReader(buf.String()))
		rows, err := csvReader.ReadAll()
		if err != nil {
			return "", fmt.Errorf("Can't parse CSV: " + err.Error())
		}

		if len(rows) == 0 {
			return "", nil
		}

		// Clear CSV data from buffer to render a table.
		// rows[0] is a headers row
		buf.Reset()
		table := tablewriter.NewWriter(buf)
		table.SetHeader(rows[0])

		for i := 1; i < len(rows); i++ {
			table.Append(rows[i])
		}

		table.Render()

		return buf.String(), nil
	}

	// Return JSON by default
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("Can't format the response to JSON: " + err.Error())
	}

	return string(b), nil
}
