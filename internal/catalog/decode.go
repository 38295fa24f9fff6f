package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"smartshop/internal/models"
)

// Wire shapes with pointer fields so that a missing or null required field is
// a decode failure rather than a silent zero value. Unknown fields (the API
// adds slugs and timestamps) are ignored.
type wireCategory struct {
	ID    *int    `json:"id"`
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

type wireProduct struct {
	ID          *int          `json:"id"`
	Title       *string       `json:"title"`
	Price       *int          `json:"price"`
	Description *string       `json:"description"`
	Images      *[]string     `json:"images"`
	Category    *wireCategory `json:"category"`
}

// decodeProducts strictly decodes a JSON array of products.
func decodeProducts(body []byte) ([]models.Product, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	var wire []*wireProduct
	if err := dec.Decode(&wire); err != nil {
		return nil, err
	}
	if wire == nil {
		return nil, errors.New("expected a JSON array of products, got null")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("unexpected data after product array")
	}

	products := make([]models.Product, 0, len(wire))
	for i, w := range wire {
		p, err := w.toModel()
		if err != nil {
			return nil, fmt.Errorf("product[%d]: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (w *wireProduct) toModel() (models.Product, error) {
	if w == nil {
		return models.Product{}, errors.New("null product")
	}
	missing := ""
	switch {
	case w.ID == nil:
		missing = "id"
	case w.Title == nil:
		missing = "title"
	case w.Price == nil:
		missing = "price"
	case w.Description == nil:
		missing = "description"
	case w.Images == nil:
		missing = "images"
	case w.Category == nil:
		missing = "category"
	case w.Category.ID == nil:
		missing = "category.id"
	case w.Category.Name == nil:
		missing = "category.name"
	case w.Category.Image == nil:
		missing = "category.image"
	}
	if missing != "" {
		return models.Product{}, fmt.Errorf("missing required field %q", missing)
	}

	images := make([]string, len(*w.Images))
	copy(images, *w.Images)

	return models.Product{
		ID:          *w.ID,
		Title:       *w.Title,
		Price:       *w.Price,
		Description: *w.Description,
		Images:      images,
		Category: models.Category{
			ID:    *w.Category.ID,
			Name:  *w.Category.Name,
			Image: *w.Category.Image,
		},
	}, nil
}
