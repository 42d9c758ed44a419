// Package importer loads sales from an uploaded CSV file.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/wichananm65/sales-backend/internal/sale"
	"github.com/wichananm65/sales-backend/internal/validation"
)

// columns of a data line, in order
const (
	colDate = iota
	colProduct
	colSalesNumber
	colRevenue
	columnCount
)

// Row is a validated data line ready to be stored. Sale.UserID is unset.
type Row struct {
	Line int
	Sale sale.Sale
}

// RowError explains why a line was skipped. Line is 1-based.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Parse reads date,product,sales_number,revenue lines. The first non-blank
// line is a header and is dropped, even when it is malformed; blank lines
// are ignored. Every other line yields either a Row or a RowError.
func Parse(blob []byte) ([]Row, []RowError) {
	r := csv.NewReader(bytes.NewReader(blob))
	r.FieldsPerRecord = -1

	rows := make([]Row, 0)
	rowErrs := make([]RowError, 0)
	headerSeen := false

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				if !headerSeen {
					headerSeen = true
					continue
				}
				rowErrs = append(rowErrs, RowError{Line: parseErr.StartLine, Message: parseErr.Err.Error()})
				continue
			}
			rowErrs = append(rowErrs, RowError{Message: err.Error()})
			break
		}
		if isEmptyRow(record) {
			continue
		}
		line, _ := r.FieldPos(0)
		if !headerSeen {
			headerSeen = true
			continue
		}

		s, err := parseRecord(record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Message: err.Error()})
			continue
		}
		rows = append(rows, Row{Line: line, Sale: s})
	}

	return rows, rowErrs
}

func parseRecord(record []string) (sale.Sale, error) {
	if len(record) != columnCount {
		return sale.Sale{}, errors.New("expected 4 fields (date, product, sales_number, revenue), got " + strconv.Itoa(len(record)))
	}

	fields := validation.Errors{}
	in := sale.Input{
		Date:    &record[colDate],
		Product: &record[colProduct],
	}
	if n, err := strconv.Atoi(strings.TrimSpace(record[colSalesNumber])); err != nil {
		fields.Add("sales_number", "must be an integer")
	} else {
		in.SalesNumber = &n
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(record[colRevenue]), 64); err != nil {
		fields.Add("revenue", "must be a number")
	} else {
		in.Revenue = &v
	}

	s, err := in.Validate()
	if err != nil {
		if more, ok := validation.As(err); ok {
			for f, msg := range more {
				fields.Add(f, msg)
			}
		} else {
			return sale.Sale{}, err
		}
	}
	if err := fields.Err(); err != nil {
		return sale.Sale{}, err
	}
	return s, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
