package services

import (
	"errors"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"
)

type PropertyService interface {
	Create(ownerID string, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error)
	Get(id string, viewerID string) (*dto.PropertyResponse, error)
	Search(req *dto.PropertyFilterRequest) ([]dto.PropertyResponse, int64, error)
	ListByOwner(ownerID string, page, pageSize int) ([]dto.PropertyResponse, int64, error)
	Update(ownerID, id string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error)
	Publish(ownerID, id string) error
	Archive(ownerID, id string) error
	Delete(ownerID, id string) error
	SetFeatured(ownerID, id string, featured bool) error
	AddImage(ownerID, propertyID string, req *dto.AddImageRequest) (*dto.PropertyResponse, error)
	DeleteImage(ownerID, propertyID, imageID string) error
}

type propertyService struct {
	propertyRepo    repositories.PropertyRepository
	subscriptionSvc SubscriptionService
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	subscriptionSvc SubscriptionService,
) PropertyService {
	return &propertyService{
		propertyRepo:    propertyRepo,
		subscriptionSvc: subscriptionSvc,
	}
}

func (s *propertyService) Create(ownerID string, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = "GBP"
	}

	property := &models.Property{
		OwnerID:         ownerID,
		Title:           req.Title,
		Description:     req.Description,
		Type:            models.PropertyType(req.Type),
		Price:           req.Price,
		Currency:        currency,
		Address:         req.Location.Address,
		City:            req.Location.City,
		State:           req.Location.State,
		Country:         req.Location.Country,
		PostalCode:      req.Location.PostalCode,
		Latitude:        req.Location.Latitude,
		Longitude:       req.Location.Longitude,
		Bedrooms:        req.Features.Bedrooms,
		Bathrooms:       req.Features.Bathrooms,
		Area:            req.Features.Area,
		Furnished:       req.Features.Furnished,
		PetsAllowed:     req.Features.PetsAllowed,
		AirConditioning: req.Features.AirConditioning,
		Heating:         req.Features.Heating,
		Parking:         req.Features.Parking,
		Elevator:        req.Features.Elevator,
		Amenities:       dto.JoinAmenities(req.Amenities),
		Status:          models.PropertyStatusDraft,
	}

	if err := s.propertyRepo.Create(property); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewPropertyResponse(property)
	return &resp, nil
}

func (s *propertyService) Get(id string, viewerID string) (*dto.PropertyResponse, error) {
	property, err := s.findProperty(id)
	if err != nil {
		return nil, err
	}

	// Drafts and archived listings are visible to the owner only.
	if property.Status != models.PropertyStatusPublished && property.OwnerID != viewerID {
		return nil, apperrors.ErrNotFound(repositories.ErrPropertyNotFound)
	}

	resp := dto.NewPropertyResponse(property)
	return &resp, nil
}

func (s *propertyService) Search(req *dto.PropertyFilterRequest) ([]dto.PropertyResponse, int64, error) {
	types := make([]models.PropertyType, 0, len(req.Types))
	for _, t := range req.Types {
		types = append(types, models.PropertyType(t))
	}

	criteria := repositories.PropertySearchCriteria{
		Types:        types,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		MinBedrooms:  req.MinBedrooms,
		MinBathrooms: req.MinBathrooms,
		MinArea:      req.MinArea,
		MaxArea:      req.MaxArea,
		Furnished:    req.Furnished,
		PetsAllowed:  req.PetsAllowed,
		Amenities:    req.Amenities,
		Search:       req.Search,
		Status:       models.PropertyStatusPublished,
		SortBy:       req.SortBy,
		SortOrder:    req.SortOrder,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}

	properties, total, err := s.propertyRepo.Search(criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	return toPropertyResponses(properties), total, nil
}

func (s *propertyService) ListByOwner(ownerID string, page, pageSize int) ([]dto.PropertyResponse, int64, error) {
	properties, total, err := s.propertyRepo.FindByOwner(ownerID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return toPropertyResponses(properties), total, nil
}

func (s *propertyService) Update(ownerID, id string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	property, err := s.findOwnedProperty(ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		property.Title = *req.Title
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Price != nil {
		property.Price = *req.Price
	}
	if req.Features != nil {
		property.Bedrooms = req.Features.Bedrooms
		property.Bathrooms = req.Features.Bathrooms
		property.Area = req.Features.Area
		property.Furnished = req.Features.Furnished
		property.PetsAllowed = req.Features.PetsAllowed
		property.AirConditioning = req.Features.AirConditioning
		property.Heating = req.Features.Heating
		property.Parking = req.Features.Parking
		property.Elevator = req.Features.Elevator
	}
	if req.Amenities != nil {
		property.Amenities = dto.JoinAmenities(req.Amenities)
	}
	if req.Status != nil {
		if models.PropertyStatus(*req.Status) == models.PropertyStatusPublished {
			if err := s.checkListingQuota(ownerID); err != nil {
				return nil, err
			}
		}
		property.Status = models.PropertyStatus(*req.Status)
	}

	if err := s.propertyRepo.Update(property); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewPropertyResponse(property)
	return &resp, nil
}

func (s *propertyService) Publish(ownerID, id string) error {
	property, err := s.findOwnedProperty(ownerID, id)
	if err != nil {
		return err
	}

	if property.Status == models.PropertyStatusPublished {
		return nil
	}

	if err := s.checkListingQuota(ownerID); err != nil {
		return err
	}

	return s.propertyRepo.UpdateStatus(id, models.PropertyStatusPublished)
}

func (s *propertyService) Archive(ownerID, id string) error {
	if _, err := s.findOwnedProperty(ownerID, id); err != nil {
		return err
	}
	return s.propertyRepo.UpdateStatus(id, models.PropertyStatusArchived)
}

func (s *propertyService) Delete(ownerID, id string) error {
	if _, err := s.findOwnedProperty(ownerID, id); err != nil {
		return err
	}
	if err := s.propertyRepo.Delete(id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *propertyService) SetFeatured(ownerID, id string, featured bool) error {
	property, err := s.findOwnedProperty(ownerID, id)
	if err != nil {
		return err
	}

	if featured && !property.Featured {
		allowed, err := s.subscriptionSvc.CanFeatureListing(ownerID)
		if err != nil {
			return err
		}
		if !allowed {
			return apperrors.ErrLimitExceeded("subscription", "Featured listing limit reached for your plan")
		}
	}

	return s.propertyRepo.SetFeatured(id, featured)
}

func (s *propertyService) AddImage(ownerID, propertyID string, req *dto.AddImageRequest) (*dto.PropertyResponse, error) {
	if _, err := s.findOwnedProperty(ownerID, propertyID); err != nil {
		return nil, err
	}

	if req.IsMain {
		if err := s.propertyRepo.ClearMainImage(propertyID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	image := &models.PropertyImage{
		PropertyID:   propertyID,
		URL:          req.URL,
		IsMain:       req.IsMain,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.propertyRepo.AddImage(image); err != nil {
		return nil, apperrors.InternalError(err)
	}

	property, err := s.findProperty(propertyID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPropertyResponse(property)
	return &resp, nil
}

func (s *propertyService) DeleteImage(ownerID, propertyID, imageID string) error {
	if _, err := s.findOwnedProperty(ownerID, propertyID); err != nil {
		return err
	}
	if err := s.propertyRepo.DeleteImage(propertyID, imageID); err != nil {
		if errors.Is(err, repositories.ErrImageNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// Helpers

func (s *propertyService) findProperty(id string) (*models.Property, error) {
	property, err := s.propertyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return property, nil
}

func (s *propertyService) findOwnedProperty(ownerID, id string) (*models.Property, error) {
	property, err := s.findProperty(id)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError("You do not own this property")
	}
	return property, nil
}

func (s *propertyService) checkListingQuota(ownerID string) error {
	allowed, err := s.subscriptionSvc.CanCreateListing(ownerID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrLimitExceeded("subscription", "Active listing limit reached for your plan")
	}
	return nil
}

func toPropertyResponses(properties []models.Property) []dto.PropertyResponse {
	out := make([]dto.PropertyResponse, 0, len(properties))
	for i := range properties {
		out = append(out, dto.NewPropertyResponse(&properties[i]))
	}
	return out
}
