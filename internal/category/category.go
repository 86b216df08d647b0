package category

import "strings"

// DefaultNames is the catalog used when none is configured.
var DefaultNames = []string{"Food", "Transport", "Bills", "Entertainment", "Health", "Shopping", "Other"}

// Palette assigns chart colors to categories by catalog position.
var Palette = []string{
	"#4a6fa5", "#ff9800", "#28a745", "#dc3545", "#ffc107", "#17a2b8",
	"#6c757d", "#6f42c1", "#fd7e14", "#20c997", "#e83e8c", "#6610f2",
}

var descriptions = map[string]string{
	"Food":          "Groceries, meals and snacks",
	"Transport":     "Fuel, fares and parking",
	"Bills":         "Rent, utilities and subscriptions",
	"Entertainment": "Movies, events and hobbies",
	"Health":        "Medicine, doctors and fitness",
	"Shopping":      "Clothes, gadgets and household items",
	"Other":         "Anything else",
}

type Category struct {
	Name        string
	Description string
	Color       string
}

func NewCategory(name string, position int) Category {
	return Category{
		Name:        name,
		Description: descriptions[name],
		Color:       Palette[position%len(Palette)],
	}
}

func (c Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
	}
}

// Normalize trims names and drops blanks and duplicates, keeping order.
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
