package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimaryImage(t *testing.T) {
	p := Product{Images: []string{"https://i.imgur.com/a.jpeg", "https://i.imgur.com/b.jpeg"}}
	assert.Equal(t, "https://i.imgur.com/a.jpeg", p.PrimaryImage())
	assert.Equal(t, "", Product{}.PrimaryImage())
}

func TestShareText(t *testing.T) {
	p := Product{
		Title:       "Classic Red Jogger",
		Price:       89,
		Description: "Soft cotton",
		Category:    Category{ID: 1, Name: "Clothes"},
	}

	expected := "Check out this product: Classic Red Jogger\n\n" +
		"Category: Clothes\n" +
		"Description: Soft cotton\n" +
		"Price: 89 $"
	assert.Equal(t, expected, p.ShareText())
}

func TestFilterParameters(t *testing.T) {
	assert.True(t, FilterParameters{}.IsUnfiltered())

	reset := ResetFilters()
	assert.False(t, reset.IsUnfiltered())
	assert.Equal(t, "", *reset.Price)
	assert.Equal(t, "", *reset.CategoryID)
}
