// Package menu defines the bakery menu data model and the validation rules
// applied to rows fetched from the source spreadsheet.
package menu

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Categories is the fixed allow-list of menu categories, in display order.
// A row carrying any other category fails validation.
var Categories = []string{"Breads", "Pastries", "Cakes", "Cookies", "Savories"}

// imageExtensions lists the accepted source image formats.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

// Item is one published menu entry, built from a spreadsheet row that
// passed validation. Items are value records; nothing mutates them after
// Validate returns.
type Item struct {
	Name         string
	Category     string
	Description  string
	Price        int
	WeightUnit   string
	Image        string
	FileID       string
	Testimonials []string
}

// Slug returns the URL-friendly identifier derived from the item name.
func (i Item) Slug() string { return Slugify(i.Name) }

// WebImageName returns the file name of the derived web image for this item.
func (i Item) WebImageName() string { return i.Slug() + ".jpg" }

// Slugify converts a display name to a URL-friendly slug.
func Slugify(text string) string {
	r := strings.NewReplacer(" ", "-", "_", "-", "'", "", `"`, "")
	return r.Replace(strings.ToLower(text))
}

// CategoryIndex returns the position of category in the allow-list, or -1
// when the category is unknown.
func CategoryIndex(category string) int {
	for i, c := range Categories {
		if c == category {
			return i
		}
	}
	return -1
}

// ShowValue reports whether a show-flag cell marks the row as published.
// Any value starting with "y" or "Y" counts as affirmative.
func ShowValue(v string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(v)), "y")
}

// ParsePrice normalizes a price cell to a non-negative integer. Currency
// symbols and thousands separators are stripped first, so "₹1,200" parses
// as 1200.
func ParsePrice(v string) (int, error) {
	cleaned := strings.TrimSpace(strings.NewReplacer("₹", "", ",", "").Replace(v))
	if cleaned == "" {
		return 0, fmt.Errorf("blank price")
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid price format: %q", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("price must not be negative: %q", v)
	}
	return n, nil
}

// SplitTestimonials splits a pipe-separated testimonials cell, dropping
// blanks.
func SplitTestimonials(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(v, "|") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// validImageExtension reports whether the image name carries an accepted
// extension.
func validImageExtension(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}
