// Package export produces downloadable JSON and CSV snapshots of wallet
// records.
package export

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Field is one key/value column of an exported record.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered set of fields. Field order is significant: the CSV
// header row is the key sequence of the first record.
type Record struct {
	Fields []Field
}

// JSON marshals v as indented JSON.
func JSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// CSV renders records as comma-separated rows under a header taken from the
// first record's keys in order. A string value containing a comma is wrapped
// in quotes with internal quotes doubled; everything else is written raw.
func CSV(records []Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no records to export")
	}

	headers := make([]string, 0, len(records[0].Fields))
	for _, f := range records[0].Fields {
		headers = append(headers, f.Key)
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(headers, ","))

	for _, record := range records {
		cells := make([]string, 0, len(record.Fields))
		for _, f := range record.Fields {
			cells = append(cells, formatCell(f.Value))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n"), nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case string:
		if strings.Contains(v, ",") {
			return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
