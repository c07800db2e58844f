package repositories

import (
	"errors"
	"fmt"
	"strings"

	"rent4u_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrImageNotFound    = errors.New("property image not found")
)

type PropertyRepository interface {
	Create(property *models.Property) error
	FindByID(id string) (*models.Property, error)
	FindByOwner(ownerID string, page, pageSize int) ([]models.Property, int64, error)
	Search(criteria PropertySearchCriteria) ([]models.Property, int64, error)
	Update(property *models.Property) error
	UpdateStatus(id string, status models.PropertyStatus) error
	SetFeatured(id string, featured bool) error
	UpdateRating(id string, rating float64) error
	Delete(id string) error

	CountActiveByOwner(ownerID string) (int64, error)
	CountFeaturedByOwner(ownerID string) (int64, error)

	AddImage(image *models.PropertyImage) error
	DeleteImage(propertyID, imageID string) error
	ClearMainImage(propertyID string) error
}

type PropertyRepositoryImpl struct {
	db *gorm.DB
}

// PropertySearchCriteria is the composable search filter. Absent fields
// contribute no predicate: a nil pointer or empty slice leaves the
// corresponding column unconstrained. All present predicates are ANDed;
// a contradictory pair (MinPrice > MaxPrice) is passed through as-is and
// simply matches nothing.
type PropertySearchCriteria struct {
	Types        []models.PropertyType
	MinPrice     *float64
	MaxPrice     *float64
	City         string
	State        string
	Country      string
	MinBedrooms  *int
	MinBathrooms *int
	MinArea      *float64
	MaxArea      *float64
	Furnished    *bool
	PetsAllowed  *bool
	Amenities    []string
	Search       string
	Status       models.PropertyStatus
	OwnerID      string
	SortBy       string // "", "price", "date", "rating"
	SortOrder    string // "asc", "desc"
	Page         int
	PageSize     int
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &PropertyRepositoryImpl{db: db}
}

func (r *PropertyRepositoryImpl) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

func (r *PropertyRepositoryImpl) FindByID(id string) (*models.Property, error) {
	var property models.Property
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepositoryImpl) FindByOwner(ownerID string, page, pageSize int) ([]models.Property, int64, error) {
	var properties []models.Property
	query := r.db.Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Model(&models.Property{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Images").
		Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&properties).Error

	return properties, total, err
}

func (r *PropertyRepositoryImpl) Search(criteria PropertySearchCriteria) ([]models.Property, int64, error) {
	var properties []models.Property
	query := r.db.Model(&models.Property{})

	if len(criteria.Types) > 0 {
		query = query.Where("type IN ?", criteria.Types)
	}

	if criteria.MinPrice != nil {
		query = query.Where("price >= ?", *criteria.MinPrice)
	}
	if criteria.MaxPrice != nil {
		query = query.Where("price <= ?", *criteria.MaxPrice)
	}

	if criteria.City != "" {
		query = query.Where("LOWER(city) LIKE LOWER(?)", "%"+criteria.City+"%")
	}
	if criteria.State != "" {
		query = query.Where("LOWER(state) LIKE LOWER(?)", "%"+criteria.State+"%")
	}
	if criteria.Country != "" {
		query = query.Where("LOWER(country) LIKE LOWER(?)", "%"+criteria.Country+"%")
	}

	if criteria.MinBedrooms != nil {
		query = query.Where("bedrooms >= ?", *criteria.MinBedrooms)
	}
	if criteria.MinBathrooms != nil {
		query = query.Where("bathrooms >= ?", *criteria.MinBathrooms)
	}
	if criteria.MinArea != nil {
		query = query.Where("area >= ?", *criteria.MinArea)
	}
	if criteria.MaxArea != nil {
		query = query.Where("area <= ?", *criteria.MaxArea)
	}

	if criteria.Furnished != nil {
		query = query.Where("furnished = ?", *criteria.Furnished)
	}
	if criteria.PetsAllowed != nil {
		query = query.Where("pets_allowed = ?", *criteria.PetsAllowed)
	}

	// Superset match: every requested amenity must be present in the
	// stored comma-separated list. One predicate per amenity, wrapped in
	// commas so "pool" never matches "whirlpool".
	for _, amenity := range criteria.Amenities {
		amenity = strings.ToLower(strings.TrimSpace(amenity))
		if amenity == "" {
			continue
		}
		query = query.Where("(',' || LOWER(amenities) || ',') LIKE ?", "%,"+amenity+",%")
	}

	if criteria.Search != "" {
		pattern := "%" + criteria.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.OwnerID != "" {
		query = query.Where("owner_id = ?", criteria.OwnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	if order := buildOrderClause(criteria.SortBy, criteria.SortOrder); order != "" {
		query = query.Order(order)
	}

	err := query.
		Preload("Images").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&properties).Error

	return properties, total, err
}

// buildOrderClause maps the single public sort key onto a column.
// Unknown or empty keys contribute no ordering, so results come back
// in insertion order.
func buildOrderClause(sortBy, sortOrder string) string {
	var column string
	switch sortBy {
	case "price":
		column = "price"
	case "date":
		column = "created_at"
	case "rating":
		column = "rating"
	default:
		return ""
	}

	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}

	return fmt.Sprintf("%s %s", column, direction)
}

func (r *PropertyRepositoryImpl) Update(property *models.Property) error {
	return r.db.Save(property).Error
}

func (r *PropertyRepositoryImpl) UpdateStatus(id string, status models.PropertyStatus) error {
	result := r.db.Model(&models.Property{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepositoryImpl) SetFeatured(id string, featured bool) error {
	result := r.db.Model(&models.Property{}).Where("id = ?", id).
		Update("featured", featured)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepositoryImpl) UpdateRating(id string, rating float64) error {
	return r.db.Model(&models.Property{}).Where("id = ?", id).
		Update("rating", rating).Error
}

func (r *PropertyRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Property{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPropertyNotFound
		}
		return nil
	})
}

func (r *PropertyRepositoryImpl) CountActiveByOwner(ownerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Property{}).
		Where("owner_id = ? AND status = ?", ownerID, models.PropertyStatusPublished).
		Count(&count).Error
	return count, err
}

func (r *PropertyRepositoryImpl) CountFeaturedByOwner(ownerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Property{}).
		Where("owner_id = ? AND featured = ?", ownerID, true).
		Count(&count).Error
	return count, err
}

func (r *PropertyRepositoryImpl) AddImage(image *models.PropertyImage) error {
	return r.db.Create(image).Error
}

func (r *PropertyRepositoryImpl) DeleteImage(propertyID, imageID string) error {
	result := r.db.Where("id = ? AND property_id = ?", imageID, propertyID).
		Delete(&models.PropertyImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *PropertyRepositoryImpl) ClearMainImage(propertyID string) error {
	return r.db.Model(&models.PropertyImage{}).
		Where("property_id = ?", propertyID).
		Update("is_main", false).Error
}
