package product

type CreateProductRequest struct {
	Category    string   `json:"category" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	PricePerDay float64  `json:"price_per_day" binding:"required,gt=0"`
	ImageURLs   []string `json:"image_urls"`
}

type UpdateProductRequest struct {
	Category    *string   `json:"category"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	PricePerDay *float64  `json:"price_per_day"`
	IsAvailable *bool     `json:"is_available"`
	ImageURLs   *[]string `json:"image_urls"`
}
