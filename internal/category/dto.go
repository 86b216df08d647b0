package category

type CategoryResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
