package menu

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "name,category,description,price,weight_unit,image,file_id,show"

func rowsCSV(rows ...string) string {
	return csvHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestLoad_MinimalRowRoundTrip(t *testing.T) {
	input := rowsCSV(`Croissant,Pastries,Buttery and flaky.,80,piece,croissant.jpg,abc123,Yes`)

	items, err := Load(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "Croissant", item.Name)
	assert.Equal(t, "Pastries", item.Category)
	assert.Equal(t, "Buttery and flaky.", item.Description)
	assert.Equal(t, 80, item.Price)
	assert.Equal(t, "piece", item.WeightUnit)
	assert.Equal(t, "croissant.jpg", item.Image)
	assert.Equal(t, "abc123", item.FileID)
	assert.Nil(t, item.Testimonials)
}

func TestLoad_SkipsRowsWithoutShowFlag(t *testing.T) {
	input := rowsCSV(
		`Croissant,Pastries,,80,piece,croissant.jpg,a1,Yes`,
		`Hidden Bun,Pastries,,60,piece,bun.jpg,a2,No`,
		`Draft Cake,Cakes,,500,kg,cake.jpg,a3,`,
		`Maybe Loaf,Breads,,90,kg,loaf.jpg,a4,n`,
	)

	items, err := Load(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Croissant", items[0].Name)
}

func TestLoad_SkippedRowsAreNeverValidated(t *testing.T) {
	// A hidden row with a bogus category and price must not fail the run.
	input := rowsCSV(
		`Croissant,Pastries,,80,piece,croissant.jpg,a1,Yes`,
		`Broken Row,NotACategory,,free,piece,broken.exe,a2,No`,
	)

	items, err := Load(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestLoad_UnknownCategoryNamesRowAndCategory(t *testing.T) {
	input := rowsCSV(`Baguette,Bread,,90,piece,baguette.jpg,a1,Yes`)

	items, err := Load(strings.NewReader(input), LoadOptions{})
	assert.Nil(t, items)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Rows, 1)
	assert.Equal(t, 2, verr.Rows[0].Line)
	assert.Equal(t, "Baguette", verr.Rows[0].Name)
	assert.Equal(t, "category", verr.Rows[0].Field)
	assert.Contains(t, verr.Rows[0].Reason, `"Bread"`)
	assert.Contains(t, err.Error(), "Baguette")
}

func TestLoad_CollectsAllErrorsInRowOrder(t *testing.T) {
	input := rowsCSV(
		`,Pastries,,80,piece,croissant.jpg,a1,Yes`,
		`Good Loaf,Breads,,90,kg,loaf.jpg,a2,Yes`,
		`Mystery Pie,Pies,,free,kg,pie.jpg,a3,Yes`,
	)

	_, err := Load(strings.NewReader(input), LoadOptions{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Rows, 3)

	assert.Equal(t, 2, verr.Rows[0].Line)
	assert.Equal(t, "name", verr.Rows[0].Field)
	assert.Equal(t, 4, verr.Rows[1].Line)
	assert.Equal(t, "category", verr.Rows[1].Field)
	assert.Equal(t, 4, verr.Rows[2].Line)
	assert.Equal(t, "price", verr.Rows[2].Field)
}

func TestLoad_RequiredFields(t *testing.T) {
	input := rowsCSV(`Croissant,Pastries,,80,piece,,,Yes`)

	_, err := Load(strings.NewReader(input), LoadOptions{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Rows, 1)
	assert.Equal(t, "image", verr.Rows[0].Field)
}

func TestLoad_UnsupportedImageFormat(t *testing.T) {
	input := rowsCSV(`Croissant,Pastries,,80,piece,croissant.bmp,a1,Yes`)

	_, err := Load(strings.NewReader(input), LoadOptions{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image", verr.Rows[0].Field)
}

func TestLoad_WeightUnitDefaultsToKg(t *testing.T) {
	input := rowsCSV(`Croissant,Pastries,,80,,croissant.jpg,a1,Yes`)

	items, err := Load(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "kg", items[0].WeightUnit)
}

func TestLoad_GroupsByCategoryOrder(t *testing.T) {
	input := rowsCSV(
		`Cheesecake,Cakes,,500,kg,cheesecake.jpg,a1,Yes`,
		`Croissant,Pastries,,80,piece,croissant.jpg,a2,Yes`,
		`Sourdough,Breads,,120,kg,sourdough.jpg,a3,Yes`,
		`Danish,Pastries,,90,piece,danish.jpg,a4,Yes`,
	)

	items, err := Load(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, items, 4)

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	assert.Equal(t, []string{"Sourdough", "Croissant", "Danish", "Cheesecake"}, names)
}

func TestLoad_TestimonialsColumn(t *testing.T) {
	input := csvHeader + ",testimonials\n" +
		`Croissant,Pastries,,80,piece,croissant.jpg,a1,Yes,best in town | so flaky` + "\n"

	items, err := Load(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"best in town", "so flaky"}, items[0].Testimonials)
}

func TestLoad_MissingColumnRejected(t *testing.T) {
	input := "name,category,description,price,weight_unit,image,file_id\n" +
		"Croissant,Pastries,,80,piece,croissant.jpg,a1\n"

	_, err := Load(strings.NewReader(input), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "show")
}

func TestLoad_EmptyFileRejected(t *testing.T) {
	_, err := Load(strings.NewReader(""), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestValidate_ImageSizeBoundary(t *testing.T) {
	imagesDir := t.TempDir()

	writeImage := func(name string, size int64) {
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, name), make([]byte, size), 0644))
	}

	// Exactly at the threshold passes; one byte over fails.
	writeImage("at-limit.jpg", DefaultMaxImageBytes)
	writeImage("over-limit.jpg", DefaultMaxImageBytes+1)

	rows := []Row{
		{Line: 2, Name: "At Limit", Category: "Cakes", Price: "100", Image: "at.jpg", Show: "Yes"},
		{Line: 3, Name: "Over Limit", Category: "Cakes", Price: "100", Image: "over.jpg", Show: "Yes"},
	}

	items, err := Validate(rows, LoadOptions{ImagesDir: imagesDir})
	assert.Nil(t, items)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Rows, 1)
	assert.Equal(t, "Over Limit", verr.Rows[0].Name)
	assert.Equal(t, "image", verr.Rows[0].Field)
	assert.Contains(t, verr.Rows[0].Reason, fmt.Sprintf("%d byte limit", DefaultMaxImageBytes))
}

func TestValidate_MissingWebImageIsNotAnError(t *testing.T) {
	rows := []Row{
		{Line: 2, Name: "Croissant", Category: "Pastries", Price: "80", Image: "croissant.jpg", Show: "Yes"},
	}

	items, err := Validate(rows, LoadOptions{ImagesDir: t.TempDir()})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestValidate_ZeroIncludedRows(t *testing.T) {
	rows := []Row{
		{Line: 2, Name: "Hidden", Category: "Cakes", Price: "100", Image: "hidden.jpg", Show: "No"},
	}

	items, err := Validate(rows, LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWriteRows_RoundTrip(t *testing.T) {
	rows := []Row{
		{Line: 2, Name: "Croissant", Category: "Pastries", Price: "80", WeightUnit: "piece", Image: "croissant.jpg", FileID: "a1", Show: "Yes"},
		{Line: 3, Name: "Sourdough", Category: "Breads", Price: "120", WeightUnit: "kg", Image: "sourdough.jpg", Show: "No"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows))

	got, err := ReadRows(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Croissant", got[0].Name)
	assert.Equal(t, "a1", got[0].FileID)
	assert.Equal(t, "Sourdough", got[1].Name)
	assert.Equal(t, "", got[1].FileID)
}

func TestWriteRows_IncludesTestimonialsWhenPresent(t *testing.T) {
	rows := []Row{
		{Line: 2, Name: "Croissant", Category: "Pastries", Price: "80", Image: "croissant.jpg", Show: "Yes", Testimonials: "so good"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows))
	assert.Contains(t, buf.String(), "testimonials")

	got, err := ReadRows(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "so good", got[0].Testimonials)
}
