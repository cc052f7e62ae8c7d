package console

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/ivoronin/dupeview/internal/catalog"
	"github.com/ivoronin/dupeview/internal/types"
)

// unknownSwatch marks records whose content could not be read.
const unknownSwatch = "??"

// Swatch renders the color of rec as a filled block followed by its name.
func (c *Console) Swatch(cat *catalog.Catalog, rec types.FileRecord) string {
	rgb, ok := cat.Color(rec.Color)
	if !ok {
		return unknownSwatch
	}
	block := c.renderer.NewStyle().
		Background(lipgloss.Color(rgb.Hex())).
		Render("  ")
	return block + " " + rgb.Name()
}

// Table prints rows of cat in the given order. Selected rows are marked
// with '*'; the "#" column is the catalog row used by other commands.
func (c *Console) Table(cat *catalog.Catalog, rows, selected []int, cols []catalog.Column) {
	headers := []any{"", "#", "Color"}
	for _, col := range cols {
		headers = append(headers, col.Title())
	}

	tbl := table.New(headers...).
		WithWriter(c.out).
		WithWidthFunc(lipgloss.Width).
		WithHeaderFormatter(color.New(color.Underline).SprintfFunc())

	for _, row := range rows {
		rec, ok := cat.Get(row)
		if !ok {
			continue
		}
		mark := ""
		if slices.Contains(selected, row) {
			mark = "*"
		}
		cells := []any{mark, strconv.Itoa(row), c.Swatch(cat, rec)}
		for _, col := range cols {
			cells = append(cells, catalog.Cell(col, rec))
		}
		tbl.AddRow(cells...)
	}
	tbl.Print()
}

// Group prints one duplicate group.
func (c *Console) Group(cat *catalog.Catalog, rows []int) {
	if len(rows) == 0 {
		return
	}
	first, _ := cat.Get(rows[0])
	fmt.Fprintf(c.out, "%s  %d files, %s each\n",
		c.Swatch(cat, first), len(rows), catalog.Cell(catalog.Size, first))
	for _, row := range rows {
		rec, _ := cat.Get(row)
		fmt.Fprintf(c.out, "  %4d  %s\n", row, rec.Path)
	}
}
