package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"

	apperrors "branhox/internal/errors"
)

// WriteCSV writes records as RFC 4180 CSV. The header row comes from the
// record fields: the csv tag when present, the field name otherwise, and
// fields tagged csv:"-" are skipped. Zero records is ErrNoDataToExport.
func WriteCSV[T any](w io.Writer, records []T) error {
	if len(records) == 0 {
		return apperrors.ErrNoDataToExport
	}

	cols := csvColumns(reflect.TypeOf(records[0]))
	if len(cols) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "records have no exportable fields")
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for _, rec := range records {
		v := reflect.Indirect(reflect.ValueOf(rec))
		for i, c := range cols {
			row[i] = csvValue(v.Field(c.index))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type csvColumn struct {
	name  string
	index int
}

func csvColumns(t reflect.Type) []csvColumn {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var cols []csvColumn
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("csv")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		cols = append(cols, csvColumn{name: name, index: i})
	}
	return cols
}

func csvValue(v reflect.Value) string {
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Slice, reflect.Map, reflect.Struct:
		return ""
	}
	return fmt.Sprint(v.Interface())
}
