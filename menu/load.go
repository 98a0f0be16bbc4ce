package menu

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Columns is the required header of the menu CSV snapshot.
var Columns = []string{"name", "category", "description", "price", "weight_unit", "image", "file_id", "show"}

// testimonialsColumn is optional; older sheets do not carry it.
const testimonialsColumn = "testimonials"

// DefaultMaxImageBytes is the published-image size ceiling.
const DefaultMaxImageBytes = 1 << 20

// Row is one raw record from the snapshot, before validation. All fields
// hold the cell text as fetched.
type Row struct {
	Line         int
	Name         string
	Category     string
	Description  string
	Price        string
	WeightUnit   string
	Image        string
	FileID       string
	Show         string
	Testimonials string
}

// RowError locates a single validation failure for the operator: which
// row, which field, and why.
type RowError struct {
	Line   int
	Name   string
	Field  string
	Reason string
}

func (e RowError) Error() string {
	where := fmt.Sprintf("row %d", e.Line)
	if e.Name != "" {
		where = fmt.Sprintf("row %d (%s)", e.Line, e.Name)
	}
	return fmt.Sprintf("%s: %s: %s", where, e.Field, e.Reason)
}

// ValidationError aggregates every row failure found in one pass. A single
// bad row blocks the whole run; collecting them all first gives the
// operator one complete report instead of a fix-and-rerun loop.
type ValidationError struct {
	Rows []RowError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("menu validation failed (%d error(s)): %s", len(e.Rows), strings.Join(msgs, "; "))
}

// LoadOptions controls validation behavior.
type LoadOptions struct {
	// ImagesDir is the directory of derived web images. Empty disables the
	// image size check.
	ImagesDir string
	// MaxImageBytes is the web image size ceiling. Zero means
	// DefaultMaxImageBytes.
	MaxImageBytes int64
}

// ReadRows decodes the snapshot CSV into raw rows after verifying the
// header carries the expected column set.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty menu file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	var missing []string
	for _, col := range Columns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("menu file is missing columns: %s", strings.Join(missing, ", "))
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++
		rows = append(rows, Row{
			Line:         line,
			Name:         get(rec, "name"),
			Category:     get(rec, "category"),
			Description:  get(rec, "description"),
			Price:        get(rec, "price"),
			WeightUnit:   get(rec, "weight_unit"),
			Image:        get(rec, "image"),
			FileID:       get(rec, "file_id"),
			Show:         get(rec, "show"),
			Testimonials: get(rec, testimonialsColumn),
		})
	}
	return rows, nil
}

// ReadRowsFile opens path and reads its rows.
func ReadRowsFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu file: %w", err)
	}
	defer f.Close()
	return ReadRows(f)
}

// Validate filters rows by the show flag and builds Items, collecting
// every validation failure before reporting. Rows with a non-affirmative
// show flag are skipped silently, whatever else they contain. The returned
// items are grouped by category in allow-list order, input order within a
// category.
func Validate(rows []Row, opts LoadOptions) ([]Item, error) {
	maxBytes := opts.MaxImageBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxImageBytes
	}

	var items []Item
	var rowErrs []RowError

	for _, row := range rows {
		if !ShowValue(row.Show) {
			continue
		}

		fail := func(field, reason string) {
			rowErrs = append(rowErrs, RowError{Line: row.Line, Name: row.Name, Field: field, Reason: reason})
		}
		before := len(rowErrs)

		item := Item{
			Name:         row.Name,
			Category:     row.Category,
			Description:  row.Description,
			WeightUnit:   row.WeightUnit,
			Image:        row.Image,
			FileID:       row.FileID,
			Testimonials: SplitTestimonials(row.Testimonials),
		}
		if item.WeightUnit == "" {
			item.WeightUnit = "kg"
		}

		if row.Name == "" {
			fail("name", "required field is blank")
		}
		if row.Category == "" {
			fail("category", "required field is blank")
		} else if CategoryIndex(row.Category) < 0 {
			fail("category", fmt.Sprintf("unknown category %q (allowed: %s)", row.Category, strings.Join(Categories, ", ")))
		}
		if row.Price == "" {
			fail("price", "required field is blank")
		} else if price, err := ParsePrice(row.Price); err != nil {
			fail("price", err.Error())
		} else {
			item.Price = price
		}
		if row.Image == "" {
			fail("image", "required field is blank")
		} else if !validImageExtension(row.Image) {
			fail("image", fmt.Sprintf("unsupported image format: %s", row.Image))
		}

		// Size check runs against the derived web image when it exists.
		// A missing file is the generator's problem (it warns and skips the
		// copy); an oversized one must never be published.
		if opts.ImagesDir != "" && row.Name != "" && row.Image != "" {
			webPath := filepath.Join(opts.ImagesDir, item.WebImageName())
			if info, err := os.Stat(webPath); err == nil && info.Size() > maxBytes {
				fail("image", fmt.Sprintf("%s is %d bytes, above the %d byte limit", item.WebImageName(), info.Size(), maxBytes))
			}
		}

		if len(rowErrs) == before {
			items = append(items, item)
		}
	}

	if len(rowErrs) > 0 {
		return nil, &ValidationError{Rows: rowErrs}
	}

	sort.SliceStable(items, func(a, b int) bool {
		return CategoryIndex(items[a].Category) < CategoryIndex(items[b].Category)
	})
	return items, nil
}

// Load reads and validates the snapshot in one step.
func Load(r io.Reader, opts LoadOptions) ([]Item, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	return Validate(rows, opts)
}

// LoadFile opens path and loads it.
func LoadFile(path string, opts LoadOptions) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu file: %w", err)
	}
	defer f.Close()
	return Load(f, opts)
}

// WriteRows writes rows back in canonical column order. The testimonials
// column is included only when some row carries one. Columns outside the
// canonical set are not preserved.
func WriteRows(w io.Writer, rows []Row) error {
	withTestimonials := false
	for _, row := range rows {
		if row.Testimonials != "" {
			withTestimonials = true
			break
		}
	}

	header := Columns
	if withTestimonials {
		header = append(append([]string{}, Columns...), testimonialsColumn)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		rec := []string{row.Name, row.Category, row.Description, row.Price, row.WeightUnit, row.Image, row.FileID, row.Show}
		if withTestimonials {
			rec = append(rec, row.Testimonials)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", row.Line, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRowsFile atomically replaces path with the given rows.
func WriteRowsFile(path string, rows []Row) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".menu-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := WriteRows(tmp, rows); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace menu file: %w", err)
	}
	return nil
}
