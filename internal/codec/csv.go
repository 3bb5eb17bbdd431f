package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// EncodeCSV renders an array of structs as CSV: the header row holds field
// names in declared struct order, and each row holds the canonical text
// form (PrintText) of each field's value. DecodeCSV parses each cell back
// with ParseText, so a field round-trips exactly when its type's text form
// does; function, vector and matrix fields print a placeholder and do not.
func EncodeCSV(v *values.Value, t *types.Type) (string, error) {
	if t.Kind() != types.Array {
		return "", fmt.Errorf("codec: CSV encoding requires an array type, got %s", t.Kind())
	}
	elemType := t.Elem()
	if elemType.Kind() != types.Struct {
		return "", fmt.Errorf("codec: CSV encoding requires an array of structs, got array of %s", elemType.Kind())
	}
	fields := elemType.Fields()

	var b strings.Builder
	w := csv.NewWriter(&b)

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("codec: CSV header write failed: %w", err)
	}

	for _, row := range v.Items() {
		vals := row.FieldValues()
		record := make([]string, len(fields))
		for i, f := range fields {
			cell, err := PrintText(vals[i], f.Type)
			if err != nil {
				return "", err
			}
			record[i] = cell
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("codec: CSV row write failed: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("codec: CSV flush failed: %w", err)
	}
	return b.String(), nil
}

// DecodeCSV parses CSV text into an array of structs of type t, the
// inverse of EncodeCSV. The header row must name exactly t.Elem()'s
// fields, in any order; each cell is parsed with ParseText against that
// field's declared type.
func DecodeCSV(s string, t *types.Type) (*values.Value, error) {
	if t.Kind() != types.Array {
		return nil, fmt.Errorf("codec: CSV decoding requires an array type, got %s", t.Kind())
	}
	elemType := t.Elem()
	if elemType.Kind() != types.Struct {
		return nil, fmt.Errorf("codec: CSV decoding requires an array of structs, got array of %s", elemType.Kind())
	}
	fields := elemType.Fields()

	r := csv.NewReader(strings.NewReader(s))
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("codec: CSV header read failed: %w", err)
	}
	columnFields := make([]types.Field, len(header))
	for i, name := range header {
		f, ok := elemType.FieldByName(name)
		if !ok {
			return nil, fmt.Errorf("codec: CSV header names unknown field %q", name)
		}
		columnFields[i] = f
	}

	var rows []*values.Value
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			releaseAll(rows)
			return nil, fmt.Errorf("codec: CSV row read failed: %w", err)
		}
		if len(record) != len(columnFields) {
			releaseAll(rows)
			return nil, fmt.Errorf("codec: CSV row has %d cells, expected %d", len(record), len(columnFields))
		}
		byName := make(map[string]*values.Value, len(fields))
		for i, cell := range record {
			v, err := ParseText(cell, columnFields[i].Type)
			if err != nil {
				releaseMap(byName)
				releaseAll(rows)
				return nil, err
			}
			byName[columnFields[i].Name] = v
		}
		out := make([]*values.Value, len(fields))
		for i, f := range fields {
			v, ok := byName[f.Name]
			if !ok {
				releaseMap(byName)
				releaseAll(rows)
				return nil, fmt.Errorf("codec: CSV row missing field %q", f.Name)
			}
			out[i] = v
		}
		rowVal := values.NewStruct(elemType, out)
		releaseAll(out)
		rows = append(rows, rowVal)
	}

	result := values.NewArray(elemType, rows)
	releaseAll(rows)
	return result, nil
}
