package dto

import (
	"strings"
	"time"

	"rent4u_backend/internal/models"
)

type PropertyLocation struct {
	Address    string   `json:"address" validate:"required"`
	City       string   `json:"city" validate:"required"`
	State      string   `json:"state"`
	Country    string   `json:"country" validate:"required"`
	PostalCode string   `json:"postal_code"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

type PropertyFeatures struct {
	Bedrooms        int     `json:"bedrooms" validate:"min=0"`
	Bathrooms       int     `json:"bathrooms" validate:"min=0"`
	Area            float64 `json:"area" validate:"min=0"`
	Furnished       bool    `json:"furnished"`
	PetsAllowed     bool    `json:"pets_allowed"`
	AirConditioning bool    `json:"air_conditioning"`
	Heating         bool    `json:"heating"`
	Parking         bool    `json:"parking"`
	Elevator        bool    `json:"elevator"`
}

type CreatePropertyRequest struct {
	Title       string           `json:"title" validate:"required,min=3,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	Type        string           `json:"type" validate:"required,is-property-type"`
	Price       float64          `json:"price" validate:"required,gt=0"`
	Currency    string           `json:"currency" validate:"omitempty,len=3"`
	Location    PropertyLocation `json:"location" validate:"required"`
	Features    PropertyFeatures `json:"features"`
	Amenities   []string         `json:"amenities" validate:"max=50"`
}

type UpdatePropertyRequest struct {
	Title       *string           `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string           `json:"description" validate:"omitempty,max=5000"`
	Price       *float64          `json:"price" validate:"omitempty,gt=0"`
	Features    *PropertyFeatures `json:"features"`
	Amenities   []string          `json:"amenities" validate:"omitempty,max=50"`
	Status      *string           `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type AddImageRequest struct {
	URL          string `json:"url" validate:"required,url"`
	IsMain       bool   `json:"is_main"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
}

// PropertyFilterRequest binds the search query string. Every field is
// optional; an absent field contributes no predicate.
type PropertyFilterRequest struct {
	Types        []string `form:"type[]" validate:"dive,is-property-type"`
	MinPrice     *float64 `form:"min_price"`
	MaxPrice     *float64 `form:"max_price"`
	City         string   `form:"city"`
	State        string   `form:"state"`
	Country      string   `form:"country"`
	MinBedrooms  *int     `form:"bedrooms"`
	MinBathrooms *int     `form:"bathrooms"`
	MinArea      *float64 `form:"min_area"`
	MaxArea      *float64 `form:"max_area"`
	Furnished    *bool    `form:"furnished"`
	PetsAllowed  *bool    `form:"pets_allowed"`
	Amenities    []string `form:"amenities[]"`
	Search       string   `form:"search"`
	SortBy       string   `form:"sort_by" validate:"is-sort-key"`
	SortOrder    string   `form:"sort_order" validate:"omitempty,oneof=asc desc"`
	Page         int      `form:"page" validate:"omitempty,min=1"`
	PageSize     int      `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type PropertyImageResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	IsMain       bool   `json:"is_main"`
	DisplayOrder int    `json:"display_order"`
}

type PropertyResponse struct {
	ID          string                  `json:"id"`
	OwnerID     string                  `json:"owner_id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Type        models.PropertyType     `json:"type"`
	Price       float64                 `json:"price"`
	Currency    string                  `json:"currency"`
	Location    PropertyLocation        `json:"location"`
	Features    PropertyFeatures        `json:"features"`
	Amenities   []string                `json:"amenities"`
	Status      models.PropertyStatus   `json:"status"`
	Featured    bool                    `json:"featured"`
	Rating      float64                 `json:"rating"`
	Images      []PropertyImageResponse `json:"images"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// NewPropertyResponse maps the stored property to its API shape.
func NewPropertyResponse(p *models.Property) PropertyResponse {
	images := make([]PropertyImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, PropertyImageResponse{
			ID:           img.ID,
			URL:          img.URL,
			IsMain:       img.IsMain,
			DisplayOrder: img.DisplayOrder,
		})
	}

	return PropertyResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		Type:        p.Type,
		Price:       p.Price,
		Currency:    p.Currency,
		Location: PropertyLocation{
			Address:    p.Address,
			City:       p.City,
			State:      p.State,
			Country:    p.Country,
			PostalCode: p.PostalCode,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
		},
		Features: PropertyFeatures{
			Bedrooms:        p.Bedrooms,
			Bathrooms:       p.Bathrooms,
			Area:            p.Area,
			Furnished:       p.Furnished,
			PetsAllowed:     p.PetsAllowed,
			AirConditioning: p.AirConditioning,
			Heating:         p.Heating,
			Parking:         p.Parking,
			Elevator:        p.Elevator,
		},
		Amenities: SplitAmenities(p.Amenities),
		Status:    p.Status,
		Featured:  p.Featured,
		Rating:    p.Rating,
		Images:    images,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToModel maps the API shape back to the stored form. Identity, price,
// title and every feature flag survive the round trip unchanged.
func (r PropertyResponse) ToModel() models.Property {
	p := models.Property{
		OwnerID:         r.OwnerID,
		Title:           r.Title,
		Description:     r.Description,
		Type:            r.Type,
		Price:           r.Price,
		Currency:        r.Currency,
		Address:         r.Location.Address,
		City:            r.Location.City,
		State:           r.Location.State,
		Country:         r.Location.Country,
		PostalCode:      r.Location.PostalCode,
		Latitude:        r.Location.Latitude,
		Longitude:       r.Location.Longitude,
		Bedrooms:        r.Features.Bedrooms,
		Bathrooms:       r.Features.Bathrooms,
		Area:            r.Features.Area,
		Furnished:       r.Features.Furnished,
		PetsAllowed:     r.Features.PetsAllowed,
		AirConditioning: r.Features.AirConditioning,
		Heating:         r.Features.Heating,
		Parking:         r.Features.Parking,
		Elevator:        r.Features.Elevator,
		Amenities:       JoinAmenities(r.Amenities),
		Status:          r.Status,
		Featured:        r.Featured,
		Rating:          r.Rating,
	}
	p.ID = r.ID
	p.CreatedAt = r.CreatedAt
	p.UpdatedAt = r.UpdatedAt

	for _, img := range r.Images {
		image := models.PropertyImage{
			PropertyID:   r.ID,
			URL:          img.URL,
			IsMain:       img.IsMain,
			DisplayOrder: img.DisplayOrder,
		}
		image.ID = img.ID
		p.Images = append(p.Images, image)
	}

	return p
}

func SplitAmenities(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func JoinAmenities(list []string) string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, ",")
}
