package products

// Product as served by the catalog API. Prices are integer cents; the API
// owns all derived money values.
type Product struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	PriceCents int      `json:"priceCents"`
	Stock      int      `json:"stock"`
	ImageURL   string   `json:"image"`
	Sizes      []string `json:"sizes,omitempty"`
	Colors     []string `json:"colors,omitempty"`
}

// RefID lets a Product ride in a ref.Ref.
func (p Product) RefID() string { return p.ID }
