package models

// Property is a rental listing. Location and feature fields are flat
// columns so the search repository can filter on them directly.
type Property struct {
	BaseModel
	OwnerID     string       `gorm:"not null;index" json:"owner_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `json:"description"`
	Type        PropertyType `gorm:"not null;index" json:"type"`
	Price       float64      `gorm:"not null;check:price >= 0" json:"price"`
	Currency    string       `gorm:"default:'GBP'" json:"currency"`

	// Location
	Address    string   `gorm:"not null" json:"address"`
	City       string   `gorm:"not null;index" json:"city"`
	State      string   `json:"state"`
	Country    string   `gorm:"not null" json:"country"`
	PostalCode string   `json:"postal_code"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	// Features
	Bedrooms        int     `gorm:"not null;default:0;check:bedrooms >= 0" json:"bedrooms"`
	Bathrooms       int     `gorm:"not null;default:0;check:bathrooms >= 0" json:"bathrooms"`
	Area            float64 `gorm:"not null;default:0;check:area >= 0" json:"area"`
	Furnished       bool    `gorm:"default:false" json:"furnished"`
	PetsAllowed     bool    `gorm:"default:false" json:"pets_allowed"`
	AirConditioning bool    `gorm:"default:false" json:"air_conditioning"`
	Heating         bool    `gorm:"default:false" json:"heating"`
	Parking         bool    `gorm:"default:false" json:"parking"`
	Elevator        bool    `gorm:"default:false" json:"elevator"`

	// Free-form amenity list, comma-separated ("wifi,washer,balcony").
	Amenities string `json:"amenities"`

	Status   PropertyStatus `gorm:"not null;default:'draft';index" json:"status"`
	Featured bool           `gorm:"default:false;index" json:"featured"`
	Rating   float64        `gorm:"default:0" json:"rating"`

	// Relations
	Owner  User            `gorm:"foreignKey:OwnerID" json:"-"`
	Images []PropertyImage `gorm:"foreignKey:PropertyID" json:"images,omitempty"`
}

type PropertyImage struct {
	BaseModel
	PropertyID   string `gorm:"not null;index" json:"property_id"`
	URL          string `gorm:"not null" json:"url"`
	IsMain       bool   `gorm:"default:false" json:"is_main"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
}

// MainImage returns the image flagged as main; when none is flagged the
// first image by display order is treated as main by convention.
func (p *Property) MainImage() *PropertyImage {
	if len(p.Images) == 0 {
		return nil
	}
	for i := range p.Images {
		if p.Images[i].IsMain {
			return &p.Images[i]
		}
	}
	return &p.Images[0]
}
