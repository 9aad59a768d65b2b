package viewstate

import (
	"github.com/nasermirzaei89/skintalk/discuss"
)

// AllCategories is the pseudo-label that disables category filtering.
const AllCategories = "All Categories"

// FilterByCategory keeps the discussions whose category label equals label. An empty label
// or AllCategories returns ds itself.
func FilterByCategory(ds []*discuss.Discussion, label string) []*discuss.Discussion {
	if label == "" || label == AllCategories {
		return ds
	}

	result := make([]*discuss.Discussion, 0, len(ds))

	for _, discussion := range ds {
		if discussion.Category.Label == label {
			result = append(result, discussion)
		}
	}

	return result
}

// UniqueCategoryLabels lists the distinct category labels in first-seen order, prefixed by
// AllCategories when there is more than one.
func UniqueCategoryLabels(ds []*discuss.Discussion) []string {
	seen := make(map[string]struct{}, len(ds))
	labels := make([]string, 0, len(ds)+1)

	for _, discussion := range ds {
		label := discussion.Category.Label
		if _, ok := seen[label]; ok {
			continue
		}

		seen[label] = struct{}{}
		labels = append(labels, label)
	}

	if len(labels) > 1 {
		labels = append([]string{AllCategories}, labels...)
	}

	return labels
}
