package discuss_test

import (
	"testing"

	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ids      []int
		expected int
	}{
		{name: "empty scope", ids: nil, expected: 1},
		{name: "single", ids: []int{1}, expected: 2},
		{name: "gaps keep the max", ids: []int{1, 7, 3}, expected: 8},
		{name: "unordered", ids: []int{4, 2}, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, discuss.NextID(tt.ids))
		})
	}
}

func TestNormalizeImageURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "empty", raw: "", expected: []string{}},
		{name: "blank entries dropped", raw: "a.jpg, , b.jpg", expected: []string{"a.jpg", "b.jpg"}},
		{name: "trimmed", raw: "  https://x/y.png  ", expected: []string{"https://x/y.png"}},
		{name: "only separators", raw: " ,, , ", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, discuss.NormalizeImageURLs(tt.raw))
		})
	}
}

func TestCategoryByID(t *testing.T) {
	t.Parallel()

	category, ok := discuss.CategoryByID(7)
	assert.True(t, ok)
	assert.Equal(t, "Rewards & Events", category.Label)

	_, ok = discuss.CategoryByID(0)
	assert.False(t, ok)

	catalog := discuss.Categories()
	assert.Len(t, catalog, 8)

	catalog[6].Label = "changed"

	category, _ = discuss.CategoryByID(7)
	assert.Equal(t, "Rewards & Events", category.Label, "the catalog is read only")
	assert.Equal(t, "Rewards & Events", discuss.Categories()[6].Label)
}
