package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/dietary"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/types"
)

// PantryHandler serves the product inventory and the dietary profile.
type PantryHandler struct {
	syncService service.ISyncService
}

func NewPantryHandler(syncService service.ISyncService) *PantryHandler {
	return &PantryHandler{syncService: syncService}
}

// ListProducts returns the inventory. refresh=true reloads it from the
// remote store; q filters by name.
func (h *PantryHandler) ListProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var products []models.Product
	if c.Query("refresh") == "true" {
		products = h.syncService.LoadInventory(ctx, userID)
	} else {
		products = h.syncService.Inventory(ctx, userID)
	}
	if q := c.Query("q"); q != "" {
		products = service.FilterProducts(products, q)
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *PantryHandler) AddProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.syncService.AddProduct(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err, "failed to add product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *PantryHandler) DeleteProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.syncService.DeleteProduct(c.Request.Context(), userID, productID); err != nil {
		respondError(c, err, "failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}

func (h *PantryHandler) GetDietaryProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var profile dietary.Profile
	if c.Query("refresh") == "true" {
		profile = h.syncService.LoadProfile(c.Request.Context(), userID)
	} else {
		profile = h.syncService.CurrentProfile(c.Request.Context(), userID)
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// ReplaceDietaryProfile accepts any JSON object and keeps only the fields a
// dietary profile knows about.
func (h *PantryHandler) ReplaceDietaryProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.syncService.ReplaceProfile(c.Request.Context(), userID, raw)
	if err != nil {
		respondError(c, err, "failed to save dietary profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *PantryHandler) ToggleDietary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.ToggleDietaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category and item are required"})
		return
	}

	profile, err := h.syncService.ToggleDietary(c.Request.Context(), userID, dietary.Category(req.Category), req.Item)
	if err != nil {
		respondError(c, err, "failed to save dietary profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *PantryHandler) AddCustomAllergen(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CustomAllergenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.syncService.AddCustomAllergen(c.Request.Context(), userID, req.Value)
	if err != nil {
		respondError(c, err, "failed to save dietary profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *PantryHandler) RemoveCustomAllergen(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.syncService.RemoveCustomAllergen(c.Request.Context(), userID, c.Param("value"))
	if err != nil {
		respondError(c, err, "failed to save dietary profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
