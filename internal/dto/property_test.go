package dto

import (
	"testing"
	"time"

	"rent4u_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProperty() *models.Property {
	lat, lon := 51.5072, -0.1276
	p := &models.Property{
		OwnerID:     "owner-1",
		Title:       "Cosy loft",
		Description: "Top floor, lots of light",
		Type:        models.PropertyTypeApartment,
		Price:       1250.50,
		Currency:    "GBP",
		Address:     "1 Test Street",
		City:        "London",
		State:       "Greater London",
		Country:     "UK",
		PostalCode:  "E1 6AN",
		Latitude:    &lat,
		Longitude:   &lon,
		Bedrooms:    2,
		Bathrooms:   1,
		Area:        64.5,
		Furnished:   true,
		PetsAllowed: false,
		Heating:     true,
		Parking:     true,
		Amenities:   "wifi,washer,balcony",
		Status:      models.PropertyStatusPublished,
		Featured:    true,
		Rating:      4.5,
	}
	p.ID = "prop-1"
	p.CreatedAt = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt
	p.Images = []models.PropertyImage{
		{BaseModel: models.BaseModel{ID: "img-1"}, PropertyID: "prop-1", URL: "https://img/1.jpg", IsMain: true},
		{BaseModel: models.BaseModel{ID: "img-2"}, PropertyID: "prop-1", URL: "https://img/2.jpg", DisplayOrder: 1},
	}
	return p
}

func TestPropertyResponseRoundTrip(t *testing.T) {
	original := sampleProperty()

	back := NewPropertyResponse(original).ToModel()

	assert.Equal(t, original.ID, back.ID)
	assert.Equal(t, original.OwnerID, back.OwnerID)
	assert.Equal(t, original.Title, back.Title)
	assert.Equal(t, original.Price, back.Price)
	assert.Equal(t, original.Type, back.Type)
	assert.Equal(t, original.Status, back.Status)
	assert.Equal(t, original.Amenities, back.Amenities)
	assert.Equal(t, original.Furnished, back.Furnished)
	assert.Equal(t, original.PetsAllowed, back.PetsAllowed)
	assert.Equal(t, original.Heating, back.Heating)
	assert.Equal(t, original.Parking, back.Parking)
	assert.Equal(t, original.Latitude, back.Latitude)
	assert.Equal(t, original.Longitude, back.Longitude)

	require.Len(t, back.Images, 2)
	assert.Equal(t, original.Images[0].ID, back.Images[0].ID)
	assert.Equal(t, original.Images[0].IsMain, back.Images[0].IsMain)
}

func TestNewPropertyResponse_SplitsAmenities(t *testing.T) {
	p := sampleProperty()
	resp := NewPropertyResponse(p)
	assert.Equal(t, []string{"wifi", "washer", "balcony"}, resp.Amenities)
}

func TestSplitAmenities(t *testing.T) {
	assert.Empty(t, SplitAmenities(""))
	assert.Equal(t, []string{"wifi"}, SplitAmenities("wifi"))
	assert.Equal(t, []string{"wifi", "pool"}, SplitAmenities(" wifi , pool ,"))
}

func TestJoinAmenities(t *testing.T) {
	assert.Equal(t, "", JoinAmenities(nil))
	assert.Equal(t, "wifi,pool", JoinAmenities([]string{" wifi", "", "pool "}))
}
