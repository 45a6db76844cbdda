package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"rentlens/internal/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type productModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id;index"`
	Category    string    `gorm:"column:category;index"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
	PricePerDay float64   `gorm:"column:price_per_day"`
	IsAvailable bool      `gorm:"column:is_available"`
	ImageURLs   *string   `gorm:"column:image_urls"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

func toDomainProduct(m productModel) *domain.Product {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	var images []string
	if m.ImageURLs != nil && *m.ImageURLs != "" {
		_ = json.Unmarshal([]byte(*m.ImageURLs), &images)
	}

	return &domain.Product{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Category:    domain.ProductCategory(m.Category),
		Name:        m.Name,
		Description: desc,
		PricePerDay: m.PricePerDay,
		IsAvailable: m.IsAvailable,
		ImageURLs:   images,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toProductModel(p *domain.Product) productModel {
	var desc *string
	if p.Description != "" {
		v := p.Description
		desc = &v
	}
	var images *string
	if len(p.ImageURLs) > 0 {
		b, _ := json.Marshal(p.ImageURLs)
		v := string(b)
		images = &v
	}

	return productModel{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Category:    string(p.Category),
		Name:        p.Name,
		Description: desc,
		PricePerDay: p.PricePerDay,
		IsAvailable: p.IsAvailable,
		ImageURLs:   images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	m := toProductModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProduct(m)
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var m productModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProduct(m), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	m := toProductModel(p)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProduct(m)
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&productModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProductRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]domain.Product, error) {
	var rows []productModel
	tx := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Product, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProduct(m))
	}
	return out, nil
}

// NearbyCandidate is an available product joined with its owner's
// coordinates, prefiltered by a bounding box. The exact Haversine cut
// and ranking happen in the discovery service.
type NearbyCandidate struct {
	Product  domain.Product
	OwnerLat float64
	OwnerLon float64
}

type NearbyQuery struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	Search         string
	Category       string
	ExcludeOwnerID int64
}

func (r *ProductRepository) FindNearbyCandidates(ctx context.Context, q NearbyQuery) ([]NearbyCandidate, error) {
	type row struct {
		productModel
		OwnerLat float64 `gorm:"column:owner_lat"`
		OwnerLon float64 `gorm:"column:owner_lon"`
	}

	query := r.db.WithContext(ctx).
		Table("products").
		Select("products.*, u.latitude AS owner_lat, u.longitude AS owner_lon").
		Joins("JOIN users u ON u.id = products.owner_id").
		Where("products.is_available = ?", true).
		Where("u.is_banned = ?", false).
		Where("u.latitude IS NOT NULL AND u.longitude IS NOT NULL").
		Where("u.latitude BETWEEN ? AND ?", q.MinLat, q.MaxLat).
		Where("u.longitude BETWEEN ? AND ?", q.MinLon, q.MaxLon)

	if q.Search != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(q.Search)+"%")
	}
	if q.Category != "" {
		query = query.Where("products.category = ?", q.Category)
	}
	if q.ExcludeOwnerID != 0 {
		query = query.Where("products.owner_id <> ?", q.ExcludeOwnerID)
	}

	var rows []row
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]NearbyCandidate, 0, len(rows))
	for _, m := range rows {
		out = append(out, NearbyCandidate{
			Product:  *toDomainProduct(m.productModel),
			OwnerLat: m.OwnerLat,
			OwnerLon: m.OwnerLon,
		})
	}
	return out, nil
}

func (r *ProductRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&productModel{}).Count(&n).Error
	return n, err
}
