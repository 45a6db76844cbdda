package domain

import "time"

type ProductCategory string

const (
	CategoryCamera    ProductCategory = "camera"
	CategoryLens      ProductCategory = "lens"
	CategoryDrone     ProductCategory = "drone"
	CategoryLighting  ProductCategory = "lighting"
	CategoryTripod    ProductCategory = "tripod"
	CategoryAudio     ProductCategory = "audio"
	CategoryAccessory ProductCategory = "accessory"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryCamera, CategoryLens, CategoryDrone, CategoryLighting,
		CategoryTripod, CategoryAudio, CategoryAccessory:
		return true
	}
	return false
}

func (c ProductCategory) Label() string {
	switch c {
	case CategoryCamera:
		return "Camera"
	case CategoryLens:
		return "Lens"
	case CategoryDrone:
		return "Drone"
	case CategoryLighting:
		return "Lighting"
	case CategoryTripod:
		return "Tripod"
	case CategoryAudio:
		return "Audio"
	case CategoryAccessory:
		return "Accessory"
	}
	return string(c)
}

type Product struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"owner_id" validate:"required"`
	Category    ProductCategory `json:"category" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	PricePerDay float64         `json:"price_per_day" validate:"required,gt=0"`
	IsAvailable bool            `json:"is_available"`
	ImageURLs   []string        `json:"image_urls,omitempty" gorm:"type:json;serializer:json"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
