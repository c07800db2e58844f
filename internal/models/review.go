package models

type Review struct {
	BaseModel
	PropertyID string       `gorm:"not null;index" json:"property_id"`
	TenantID   string       `gorm:"not null;index" json:"tenant_id"`
	Rating     int          `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string       `json:"comment"`
	Status     ReviewStatus `gorm:"not null;default:'pending'" json:"status"`

	// Relations
	Property Property `gorm:"foreignKey:PropertyID" json:"-"`
	Tenant   User     `gorm:"foreignKey:TenantID" json:"-"`
}
