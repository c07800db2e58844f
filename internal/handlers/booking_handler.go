package handlers

import (
	"net/http"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/middleware"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	*BaseHandler
	bookingService services.BookingService
}

func NewBookingHandler(base *BaseHandler, bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		BaseHandler:    base,
		bookingService: bookingService,
	}
}

func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Public calendar routes
	properties := rg.Group("/properties")
	{
		properties.GET("/:propertyId/availability", h.CheckAvailability)
		properties.GET("/:propertyId/booked-dates", h.BookedDates)
		properties.GET("/:propertyId/quote", h.Quote)
	}

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.ListOwn)
		bookings.GET("/:bookingId", h.Get)
		bookings.PUT("/:bookingId/status", h.UpdateStatus)
	}

	owned := rg.Group("/my/properties")
	owned.Use(middleware.AuthMiddleware())
	owned.Use(middleware.RequireRoles(models.UserRoleLandlord, models.UserRoleAdmin))
	{
		owned.GET("/:propertyId/bookings", h.ListByProperty)
	}
}

func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.bookingService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.bookingService.Get(userID, c.Param("bookingId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) ListOwn(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	bookings, total, err := h.bookingService.ListByTenant(userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(bookings, total, page, pageSize))
}

func (h *BookingHandler) ListByProperty(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	bookings, total, err := h.bookingService.ListByProperty(userID, c.Param("propertyId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(bookings, total, page, pageSize))
}

func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}

	propertyID := c.Param("propertyId")
	available, err := h.bookingService.CheckAvailability(propertyID, req.StartDate, req.EndDate)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		PropertyID: propertyID,
		Available:  available,
	})
}

func (h *BookingHandler) BookedDates(c *gin.Context) {
	resp, err := h.bookingService.BookedDates(c.Param("propertyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) Quote(c *gin.Context) {
	var req dto.AvailabilityRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}

	resp, err := h.bookingService.Quote(c.Param("propertyId"), req.StartDate, req.EndDate)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.bookingService.UpdateStatus(userID, c.Param("bookingId"), models.BookingStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
