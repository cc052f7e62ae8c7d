package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ivoronin/dupeview/internal/catalog"
)

// parseSize parses a human-readable size string into bytes.
// Supports formats: "100", "1K", "1MB", "1GiB", etc.
func parseSize(s string) (uint64, error) {
	return humanize.ParseBytes(s)
}

// parseColumns parses a comma-separated column list such as "name,size".
func parseColumns(s string) ([]catalog.Column, error) {
	var cols []catalog.Column
	for _, name := range strings.Split(s, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		col, err := catalog.ParseColumn(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns in %q", s)
	}
	return cols, nil
}

// parseRows parses row arguments: single rows ("3"), inclusive ranges
// ("2-5") and comma-separated lists of either ("1,4-6"). Every row
// must be below count.
func parseRows(args []string, count int) ([]int, error) {
	var rows []int
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			lo, hi, isRange := strings.Cut(part, "-")
			if !isRange {
				hi = lo
			}
			from, err := strconv.Atoi(lo)
			if err != nil || from < 0 {
				return nil, fmt.Errorf("invalid row %q", part)
			}
			to, err := strconv.Atoi(hi)
			if err != nil || to < from {
				return nil, fmt.Errorf("invalid row range %q", part)
			}
			if to >= count {
				return nil, fmt.Errorf("row %d out of range (have %d rows)", to, count)
			}
			for r := from; r <= to; r++ {
				rows = append(rows, r)
			}
		}
	}
	return rows, nil
}
