// Package dataset loads the nutrition food table from CSV or XLSX files and
// keeps it fresh while the process runs.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fitlife/nutrio/internal/models"
)

// Column aliases, matched case-insensitively after trimming. Datasets in the
// wild disagree on header names; the canonical set wins on conflict.
var columnAliases = map[string]string{
	"food":              "name",
	"food_name":         "name",
	"name":              "name",
	"caloric value":     "calories",
	"calories":          "calories",
	"fat":               "fat",
	"saturated fats":    "saturated_fat",
	"saturated fat":     "saturated_fat",
	"carbohydrates":     "carbs",
	"carbs":             "carbs",
	"sugars":            "sugars",
	"protein":           "protein",
	"dietary fiber":     "fiber",
	"fiber":             "fiber",
	"sodium":            "sodium",
	"category":          "category",
	"nutrition density": "density",
	"health score":      "health_score",
}

// Load reads a food table from path, dispatching on extension. Supported
// formats are .csv and .xlsx.
func Load(path string) ([]*models.FoodItem, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

// LoadCSV parses a CSV food table. The first row is the header; unknown
// columns are ignored, missing numeric values become 0, and duplicate food
// names keep the first occurrence.
func LoadCSV(path string) ([]*models.FoodItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return fromRows(rows)
}

// LoadXLSX parses the first sheet of an XLSX workbook as a food table.
func LoadXLSX(path string) ([]*models.FoodItem, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) ([]*models.FoodItem, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	// header position -> canonical column
	cols := make(map[int]string)
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := columnAliases[key]; ok {
			cols[i] = canonical
		}
	}
	if !hasColumn(cols, "name") {
		return nil, fmt.Errorf("dataset has no food name column")
	}

	seen := make(map[string]bool)
	items := make([]*models.FoodItem, 0, len(rows)-1)
	for _, row := range rows[1:] {
		it := &models.FoodItem{}
		for i, cell := range row {
			canonical, ok := cols[i]
			if !ok {
				continue
			}
			cell = strings.TrimSpace(cell)
			switch canonical {
			case "name":
				it.Name = cell
			case "category":
				it.Category = cell
			case "calories":
				it.Calories = parseFloat(cell)
			case "fat":
				it.Fat = parseFloat(cell)
			case "saturated_fat":
				it.SaturatedFat = parseFloat(cell)
			case "carbs":
				it.Carbohydrates = parseFloat(cell)
			case "sugars":
				it.Sugars = parseFloat(cell)
			case "protein":
				it.Protein = parseFloat(cell)
			case "fiber":
				it.Fiber = parseFloat(cell)
			case "sodium":
				it.Sodium = parseFloat(cell)
			case "density":
				it.NutritionDensity = parseFloat(cell)
			case "health_score":
				it.HealthScore = parseFloat(cell)
			}
		}
		if it.Name == "" || seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		it.Description = Describe(it)
		items = append(items, it)
	}
	return items, nil
}

func hasColumn(cols map[int]string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}

// parseFloat treats blanks and junk as 0, matching how missing cells in the
// source tables are handled.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// Describe builds the text representation of a food used for embedding and
// keyword indexing.
func Describe(it *models.FoodItem) string {
	var b strings.Builder
	b.WriteString(it.Name)
	fmt.Fprintf(&b, " with %.0f calories", it.Calories)
	fmt.Fprintf(&b, ", %.1fg protein", it.Protein)
	fmt.Fprintf(&b, ", %.1fg carbs", it.Carbohydrates)
	fmt.Fprintf(&b, ", %.1fg fat", it.Fat)
	if it.Category != "" {
		fmt.Fprintf(&b, ", category %s", it.Category)
	}
	return b.String()
}
