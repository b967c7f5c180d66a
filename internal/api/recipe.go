package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/types"
)

// RecipeHandler handles recipe generation and saved recipes
type RecipeHandler struct {
	recipeService     service.IRecipeService
	generationService service.IGenerationService
}

func NewRecipeHandler(recipeService service.IRecipeService, generationService service.IGenerationService) *RecipeHandler {
	return &RecipeHandler{
		recipeService:     recipeService,
		generationService: generationService,
	}
}

// Generate suggests a recipe from the pantry. A failed generation still
// answers 200 with the fallback text and fallback=true.
func (h *RecipeHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	text, err := h.generationService.SuggestRecipe(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to generate recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe":   text,
		"fallback": text == service.RecipeFallbackMessage,
	})
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipes, err := h.recipeService.List(c.Request.Context(), userID, c.Query("favorites") == "true")
	if err != nil {
		respondError(c, err, "failed to list recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Save(c.Request.Context(), userID, req.Name, req.Content)
	if err != nil {
		respondError(c, err, "failed to save recipe")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "failed to get recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), userID, id, req.Name, req.Content)
	if err != nil {
		respondError(c, err, "failed to update recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "failed to delete recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted successfully"})
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.ToggleFavorite(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "failed to update recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// ShareRecipe returns a temporary download link for the recipe.
func (h *RecipeHandler) ShareRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	url, err := h.recipeService.Share(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "failed to share recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
