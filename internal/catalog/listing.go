package catalog

import (
	"strings"

	"github.com/ariefcatur/go-marketplace/internal/validate"
)

// ListingInput is the seller's listing form.
type ListingInput struct {
	Title         string   `json:"title" validate:"min=2,max=200"`
	Description   string   `json:"description" validate:"max=2000"`
	Price         float64  `json:"price" validate:"gt=0"`
	OriginalPrice *float64 `json:"originalPrice" validate:"omitempty,gte=0"`
	Category      string   `json:"category" validate:"oneof=clothing shoes bags accessories"`
	Size          string   `json:"size" validate:"max=50"`
	Brand         string   `json:"brand" validate:"min=1,max=100"`
	Condition     string   `json:"condition" validate:"oneof=new like-new good fair"`
}

var listingMessages = validate.Messages{
	"title.min":     "Title must be at least 2 characters",
	"title.max":     "Title is too long",
	"description":   "Description is too long",
	"price":         "Price must be greater than 0",
	"originalPrice": "Original price cannot be negative",
	"category":      "Choose a category",
	"size":          "Size is too long",
	"brand.min":     "Brand is required",
	"brand.max":     "Brand is too long",
	"condition":     "Choose a condition",
}

func (in *ListingInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Description = strings.TrimSpace(in.Description)
	in.Size = strings.TrimSpace(in.Size)
}

// Validate trims the form and checks it. The error is a *validate.ValidationError.
func (in *ListingInput) Validate() error {
	in.normalize()
	verr := validate.Struct(in, listingMessages)
	if in.OriginalPrice != nil && *in.OriginalPrice > 0 && *in.OriginalPrice < in.Price {
		verr.Add("originalPrice", "Original price must not be below the price")
	}
	return verr.OrNil()
}

// apply copies the form onto l; empty optional fields become NULL.
func (in ListingInput) apply(l *Listing) {
	l.Title = in.Title
	l.Description = optional(in.Description)
	l.Price = in.Price
	l.OriginalPrice = nil
	if in.OriginalPrice != nil && *in.OriginalPrice > 0 {
		v := *in.OriginalPrice
		l.OriginalPrice = &v
	}
	l.Category = in.Category
	l.Size = optional(in.Size)
	l.Brand = in.Brand
	l.Condition = in.Condition
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
