package handlers

import (
	"net/http"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/middleware"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	*BaseHandler
	propertyService services.PropertyService
}

func NewPropertyHandler(base *BaseHandler, propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		BaseHandler:     base,
		propertyService: propertyService,
	}
}

func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Public routes; a bearer token is honored so owners can view drafts.
	properties := rg.Group("/properties")
	properties.Use(middleware.OptionalAuth())
	{
		properties.GET("", h.Search)
		properties.GET("/:propertyId", h.Get)
	}

	// Landlord routes
	owned := rg.Group("/my/properties")
	owned.Use(middleware.AuthMiddleware())
	owned.Use(middleware.RequireRoles(models.UserRoleLandlord, models.UserRoleAdmin))
	{
		owned.POST("", h.Create)
		owned.GET("", h.ListOwn)
		owned.PUT("/:propertyId", h.Update)
		owned.POST("/:propertyId/publish", h.Publish)
		owned.POST("/:propertyId/archive", h.Archive)
		owned.POST("/:propertyId/feature", h.Feature)
		owned.DELETE("/:propertyId/feature", h.Unfeature)
		owned.POST("/:propertyId/images", h.AddImage)
		owned.DELETE("/:propertyId/images/:imageId", h.DeleteImage)
		owned.DELETE("/:propertyId", h.Delete)
	}
}

func (h *PropertyHandler) Search(c *gin.Context) {
	var req dto.PropertyFilterRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	properties, total, err := h.propertyService.Search(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(properties, total, req.Page, req.PageSize))
}

func (h *PropertyHandler) Get(c *gin.Context) {
	// Optional auth: an owner sees their own drafts.
	viewerID, _ := c.Get("userID")
	viewer, _ := viewerID.(string)

	resp, err := h.propertyService.Get(c.Param("propertyId"), viewer)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PropertyHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePropertyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.propertyService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PropertyHandler) ListOwn(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	properties, total, err := h.propertyService.ListByOwner(userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(properties, total, page, pageSize))
}

func (h *PropertyHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePropertyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.propertyService.Update(userID, c.Param("propertyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PropertyHandler) Publish(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.propertyService.Publish(userID, c.Param("propertyId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Property published"})
}

func (h *PropertyHandler) Archive(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.propertyService.Archive(userID, c.Param("propertyId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Property archived"})
}

func (h *PropertyHandler) Feature(c *gin.Context) {
	h.setFeatured(c, true)
}

func (h *PropertyHandler) Unfeature(c *gin.Context) {
	h.setFeatured(c, false)
}

func (h *PropertyHandler) setFeatured(c *gin.Context, featured bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.propertyService.SetFeatured(userID, c.Param("propertyId"), featured); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Featured flag updated"})
}

func (h *PropertyHandler) AddImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddImageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.propertyService.AddImage(userID, c.Param("propertyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PropertyHandler) DeleteImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.propertyService.DeleteImage(userID, c.Param("propertyId"), c.Param("imageId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Image deleted"})
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.propertyService.Delete(userID, c.Param("propertyId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Property deleted"})
}
