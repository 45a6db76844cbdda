package discovery

import "rentlens/internal/domain"

type NearbyRequest struct {
	Latitude  float64 `form:"lat" binding:"required"`
	Longitude float64 `form:"lon" binding:"required"`
	RadiusKm  float64 `form:"radius_km"`
	Search    string  `form:"search"`
	Category  string  `form:"category"`
}

type NearbyProduct struct {
	Product    domain.Product `json:"product"`
	DistanceKm float64        `json:"distance_km"`
}

type NearbyResponse struct {
	Products []NearbyProduct `json:"products"`
	RadiusKm float64         `json:"radius_km"`
	Total    int             `json:"total"`
}
