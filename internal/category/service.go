package category

import (
	"log/slog"
	"slices"
)

// Service serves the configured category catalog. The catalog is fixed for
// the life of the process.
type Service struct {
	categories []Category
	logger     *slog.Logger
}

// NewService builds the catalog from names, falling back to DefaultNames when
// names has no usable entry.
func NewService(names []string, logger *slog.Logger) *Service {
	normalized := Normalize(names)
	if len(normalized) == 0 {
		normalized = DefaultNames
	}

	categories := make([]Category, len(normalized))
	for i, n := range normalized {
		categories[i] = NewCategory(n, i)
	}

	logger.Debug("category catalog loaded", "count", len(categories))
	return &Service{
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) GetAllCategories() []CategoryResponse {
	responses := make([]CategoryResponse, len(s.categories))
	for i, c := range s.categories {
		responses[i] = c.ToResponse()
	}
	return responses
}

func (s *Service) GetCategoryByName(name string) (CategoryResponse, bool) {
	for _, c := range s.categories {
		if c.Name == name {
			return c.ToResponse(), true
		}
	}
	return CategoryResponse{}, false
}

func (s *Service) IsValidCategory(name string) bool {
	return slices.Contains(s.Names(), name)
}

// Names lists the catalog in configured order.
func (s *Service) Names() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}
