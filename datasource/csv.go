// SPDX-License-Identifier: MIT

package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/eigentrust/localtrust"
)

// blank reports whether every cell of rec is empty after trimming.
func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// ReadCSV parses one count matrix from r.
//
// Implementation:
//   - Stage 1: read records with a fixed field count (the first record's width).
//   - Stage 2: skip the first record when all of its cells are blank.
//   - Stage 3: parse every cell as a uint8; the body must be M×M.
//
// Errors: ErrMalformedRecord (with the 1-based record number), ErrNotSquare.
func ReadCSV(r io.Reader) (localtrust.CountMatrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0 // width of the first record, enforced for the rest
	cr.ReuseRecord = false

	var (
		out  localtrust.CountMatrix
		rec  []string
		err  error
		line int
	)
	for {
		rec, err = cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("ReadCSV: record %d has %d fields: %w", line, len(rec), ErrMalformedRecord)
			}
			return nil, fmt.Errorf("ReadCSV: record %d: %v: %w", line, err, ErrMalformedRecord)
		}
		if line == 1 && blank(rec) {
			continue
		}
		row := make([]uint8, len(rec))
		for j, cell := range rec {
			v, perr := strconv.ParseUint(strings.TrimSpace(cell), 10, 8)
			if perr != nil {
				return nil, fmt.Errorf("ReadCSV: record %d, field %d: %q: %w", line, j+1, cell, ErrMalformedRecord)
			}
			row[j] = uint8(v)
		}
		out = append(out, row)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("ReadCSV: no data records: %w", ErrNotSquare)
	}
	if len(out) != len(out[0]) {
		return nil, fmt.Errorf("ReadCSV: %d records of %d fields: %w", len(out), len(out[0]), ErrNotSquare)
	}

	return out, nil
}

// ReadCSVFile opens path and calls ReadCSV.
func ReadCSVFile(path string) (localtrust.CountMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadCSVFile: %w", err)
	}
	defer f.Close()

	m, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// WriteCSV writes m as M records of M integers, without a header.
func WriteCSV(w io.Writer, m localtrust.CountMatrix) error {
	n, err := m.Dim()
	if err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	cw := csv.NewWriter(w)
	rec := make([]string, n)
	for i := range m {
		for j, v := range m[i] {
			rec[j] = strconv.Itoa(int(v))
		}
		if err = cw.Write(rec); err != nil {
			return fmt.Errorf("WriteCSV: record %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}

	return nil
}

// WriteCSVFile creates (or truncates) path and writes m to it.
func WriteCSVFile(path string, m localtrust.CountMatrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteCSVFile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("WriteCSVFile: %w", cerr)
		}
	}()

	if err = WriteCSV(f, m); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
