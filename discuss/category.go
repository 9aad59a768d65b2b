package discuss

import "slices"

type Category struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

var categories = []Category{
	{ID: 1, Label: "Skin Concern"},
	{ID: 2, Label: "Product Review"},
	{ID: 3, Label: "Routine Help"},
	{ID: 4, Label: "Makeup Help"},
	{ID: 5, Label: "Product Info"},
	{ID: 6, Label: "Brand Talk"},
	{ID: 7, Label: "Rewards & Events"},
	{ID: 8, Label: "Other"},
}

// Categories returns the fixed catalog a new discussion picks its category from.
func Categories() []Category {
	return slices.Clone(categories)
}

func CategoryByID(id int) (Category, bool) {
	for _, category := range categories {
		if category.ID == id {
			return category, true
		}
	}

	return Category{}, false
}
