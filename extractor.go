package ninjacatalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field names a logical value a parser reads from a Record.
type Field string

// Record is a source row or document that can be read by logical field name.
// Absent fields read as the empty string.
type Record interface {
	Get(field Field) string
}

// FieldIndex maps logical fields to positional columns of a row-oriented source.
type FieldIndex map[Field]int

// Fields returns the mapped fields ordered by column.
func (fi FieldIndex) Fields() []Field {
	fields := make([]Field, 0, len(fi))
	for field := range fi {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool {
		return fi[fields[i]] < fi[fields[j]]
	})
	return fields
}

// Row is one delimited record keyed by column position.
type Row map[int]string

// NewRow builds a Row from a decoded CSV record.
func NewRow(values []string) Row {
	row := make(Row, len(values))
	for i, value := range values {
		row[i] = value
	}
	return row
}

// Contains reports whether any column equals value.
func (r Row) Contains(value string) bool {
	for _, v := range r {
		if v == value {
			return true
		}
	}
	return false
}

type RowRecord struct {
	row   Row
	index FieldIndex
}

func NewRowRecord(row Row, index FieldIndex) RowRecord {
	return RowRecord{row: row, index: index}
}

func (r RowRecord) Get(field Field) string {
	column, ok := r.index[field]
	if !ok {
		return ""
	}
	return r.row[column]
}

// DocumentRecord reads fields from a decoded JSON object.
type DocumentRecord struct {
	data map[string]interface{}
}

func NewDocumentRecord(data map[string]interface{}) DocumentRecord {
	if data == nil {
		data = map[string]interface{}{}
	}
	return DocumentRecord{data: data}
}

// ParseDocumentRecord decodes a JSON object, keeping numbers as json.Number.
func ParseDocumentRecord(payload string) (DocumentRecord, error) {
	decoder := json.NewDecoder(strings.NewReader(payload))
	decoder.UseNumber()
	var data map[string]interface{}
	if err := decoder.Decode(&data); err != nil {
		return DocumentRecord{}, err
	}
	return NewDocumentRecord(data), nil
}

func (d DocumentRecord) Has(field Field) bool {
	value, ok := d.data[string(field)]
	return ok && value != nil
}

func (d DocumentRecord) Get(field Field) string {
	return scalarString(d.data[string(field)])
}

// Float reads a numeric field, accepting JSON numbers and price-like strings.
func (d DocumentRecord) Float(field Field) (float64, error) {
	switch v := d.data[string(field)].(type) {
	case json.Number:
		return v.Float64()
	case float64:
		return v, nil
	case string:
		return ParsePrice(v)
	case nil:
		return 0, fmt.Errorf("%w: %s is missing", ErrInvalidPrice, field)
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ErrInvalidPrice, field, v)
	}
}

// Strings reads a list of scalars. A missing field yields nil.
func (d DocumentRecord) Strings(field Field) []string {
	list, ok := d.data[string(field)].([]interface{})
	if !ok {
		return nil
	}
	values := make([]string, 0, len(list))
	for _, item := range list {
		values = append(values, scalarString(item))
	}
	return values
}

// Records reads a list of nested objects. The field must be present and be a list.
func (d DocumentRecord) Records(field Field) ([]DocumentRecord, error) {
	raw, ok := d.data[string(field)]
	if !ok {
		return nil, newProductDataError("%s not found", field)
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, newProductDataError("%s is not a list", field)
	}
	records := make([]DocumentRecord, 0, len(list))
	for _, item := range list {
		nested, ok := item.(map[string]interface{})
		if !ok {
			return nil, newProductDataError("%s contains a non-object entry", field)
		}
		records = append(records, NewDocumentRecord(nested))
	}
	return records, nil
}

func scalarString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// ExtractEmbeddedData finds the first script whose text matches pattern and decodes
// the captured JSON. The payload is taken from the "data" named group when present,
// otherwise from the last group.
func ExtractEmbeddedData(doc *goquery.Document, pattern *regexp.Regexp) (DocumentRecord, error) {
	group := pattern.SubexpIndex("data")
	if group < 0 {
		group = pattern.NumSubexp()
	}

	var payload string
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		match := pattern.FindStringSubmatch(s.Text())
		if match == nil {
			return true
		}
		payload = strings.TrimSpace(match[group])
		return false
	})
	if payload == "" {
		return DocumentRecord{}, newProductDataError("main data wasn't found")
	}

	record, err := ParseDocumentRecord(payload)
	if err != nil {
		return DocumentRecord{}, newProductDataError("main data is not valid json: %v", err)
	}
	return record, nil
}
