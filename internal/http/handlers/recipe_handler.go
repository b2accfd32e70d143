// Recipe HTTP handlers.
//
// This file exposes REST endpoints for the recipe corpus:
//   - POST /recipes/search              (rank recipes against an ingredient list)
//   - GET  /recipes                     (random browse batch)
//   - GET  /recipes/random              (random sample, count query param)
//   - GET  /recipes/by-category/{name}  (exact category match)
//   - GET  /recipes/categories          (distinct category names)
//   - GET  /recipes/stats               (corpus and search-usage aggregates)
//   - GET  /recipes/{id}                (single recipe lookup)
//
// Handlers are transport-thin: they validate and normalize inputs, delegate to
// the application service, and translate results (including sentinel errors)
// into HTTP responses. Ranking itself never touches the transport layer.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/services"
	"github.com/tbourn/go-recipe-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RecipeService defines the recipe operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecipeService interface {
	// Search ranks the corpus against free-text ingredients and returns the
	// topN best matches, each annotated with its similarity score.
	Search(ctx context.Context, ingredients []string, topN int) ([]services.ScoredRecipe, error)
	// Random returns up to count recipes sampled uniformly without replacement.
	Random(ctx context.Context, count int) ([]*domain.Recipe, error)
	// ByCategory returns the recipes in an exactly-matching category.
	ByCategory(ctx context.Context, category string) ([]*domain.Recipe, error)
	// Categories returns the distinct category names, sorted.
	Categories(ctx context.Context) ([]string, error)
	// Get returns a single recipe by id.
	Get(ctx context.Context, id string) (*domain.Recipe, error)
	// Stats returns corpus and search-usage aggregates.
	Stats(ctx context.Context) (services.Stats, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for recipes. It depends on an abstract
// service interface to keep transport concerns separate from ranking logic.
type Handlers struct {
	svc RecipeService

	// DefaultTopN is used when a search request omits top_n. Zero means 6.
	DefaultTopN int
}

// New constructs and returns a Handlers instance bound to the given service.
func New(svc RecipeService) *Handlers {
	return &Handlers{svc: svc}
}

//
// DTOs
//

// SearchRequest is the JSON payload for ranking recipes by ingredients.
//
// TopN is a pointer so "absent" and "present but invalid" are distinguishable:
// an omitted top_n falls back to the configured default, while an explicit
// non-positive value is rejected with 400.
type SearchRequest struct {
	// Ingredients are free-text entries, e.g. "2 cups rice". At least one
	// non-blank entry is required.
	Ingredients []string `json:"ingredients" binding:"required" example:"chicken,rice,soy sauce"`
	// TopN caps the number of results. Optional; defaults server-side.
	TopN *int `json:"top_n" example:"6"`
}

//
// Helpers
//

const (
	defaultTopN        = 6
	defaultRandomCount = 6
	defaultBrowseCount = 20
	maxRandomCount     = 50
)

// recipeArray keeps list bodies serializing as [] rather than null when the
// service hands back a nil slice.
func recipeArray(recipes []*domain.Recipe) []*domain.Recipe {
	if recipes == nil {
		return []*domain.Recipe{}
	}
	return recipes
}

// clampCount parses a count query param leniently, applying a default and an
// upper cap. Values below 1 fall back to 1.
func clampCount(c *gin.Context, def, max int) int {
	n := utils.AtoiDefault(c.Query("count"), def)
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	return n
}

//
// Handlers
//

// SearchRecipes godoc
// @ID          searchRecipes
// @Summary     Search recipes by ingredients
// @Description Ranks the whole corpus against the given ingredient list using
// @Description TF-IDF cosine similarity and returns the best matches, ordered by
// @Description descending score. An empty result set is a successful response.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SearchRequest  true  "Ingredient query"
//
// @Success     200  {array}   services.ScoredRecipe   "Ranked matches (possibly empty)"
// @Failure     400  {object}  handlers.ErrorResponse  "Blank ingredients or non-positive top_n"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/search [post]
func (h *Handlers) SearchRecipes(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ingredients required")
		return
	}

	topN := h.DefaultTopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if req.TopN != nil {
		if *req.TopN <= 0 {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "top_n must be positive")
			return
		}
		topN = *req.TopN
	}

	results, err := h.svc.Search(c.Request.Context(), req.Ingredients, topN)
	if err != nil {
		switch err {
		case services.ErrEmptyQuery:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "at least one non-blank ingredient required")
		case services.ErrInvalidTopN:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "top_n must be positive")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		}
		return
	}

	// Success is a bare ordered array; clients tell success from failure by
	// shape (array vs error envelope), so no wrapper object here.
	if results == nil {
		results = []services.ScoredRecipe{}
	}
	ok(c, http.StatusOK, results)
}

// ListRecipes godoc
// @ID          listRecipes
// @Summary     Browse recipes
// @Description Returns a random batch of recipes for browsing.
// @Tags        Recipes
// @Produce     json
//
// @Param       count  query  int  false  "Batch size"  minimum(1) maximum(50) default(20)
//
// @Success     200  {array}   domain.Recipe
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	count := clampCount(c, defaultBrowseCount, maxRandomCount)

	recipes, err := h.svc.Random(c.Request.Context(), count)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, recipeArray(recipes))
}

// RandomRecipes godoc
// @ID          randomRecipes
// @Summary     Random recipes
// @Description Returns up to count recipes sampled uniformly without replacement.
// @Tags        Recipes
// @Produce     json
//
// @Param       count  query  int  false  "Sample size"  minimum(1) maximum(50) default(6)
//
// @Success     200  {array}   domain.Recipe
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/random [get]
func (h *Handlers) RandomRecipes(c *gin.Context) {
	count := clampCount(c, defaultRandomCount, maxRandomCount)

	recipes, err := h.svc.Random(c.Request.Context(), count)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, recipeArray(recipes))
}

// RecipesByCategory godoc
// @ID          recipesByCategory
// @Summary     Recipes in a category
// @Description Returns the recipes whose category matches the given name exactly
// @Description (case-insensitive). Unknown categories return an empty list.
// @Tags        Recipes
// @Produce     json
//
// @Param       category  path  string  true  "Category name"  example(Dessert)
//
// @Success     200  {array}   domain.Recipe
// @Failure     400  {object}  handlers.ErrorResponse  "Blank category"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/by-category/{category} [get]
func (h *Handlers) RecipesByCategory(c *gin.Context) {
	category := strings.TrimSpace(c.Param("category"))
	if category == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category required")
		return
	}

	recipes, err := h.svc.ByCategory(c.Request.Context(), category)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, recipeArray(recipes))
}

// ListCategories godoc
// @ID          listCategories
// @Summary     List categories
// @Description Returns the distinct recipe categories, sorted alphabetically.
// @Tags        Recipes
// @Produce     json
//
// @Success     200  {array}   string
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if categories == nil {
		// A corpus without categories must still serialize as [].
		categories = []string{}
	}
	ok(c, http.StatusOK, categories)
}

// RecipeStats godoc
// @ID          recipeStats
// @Summary     Corpus and usage statistics
// @Description Returns corpus size, category and vocabulary counts, and
// @Description search-log aggregates when persistence is configured.
// @Tags        Recipes
// @Produce     json
//
// @Success     200  {object}  services.Stats
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/stats [get]
func (h *Handlers) RecipeStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, stats)
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Get a recipe
// @Description Returns a single recipe by its id.
// @Tags        Recipes
// @Produce     json
//
// @Param       id  path  string  true  "Recipe ID"  example(38)
//
// @Success     200  {object}  domain.Recipe
// @Failure     400  {object}  handlers.ErrorResponse  "Blank id"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id required")
		return
	}

	r, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		switch err {
		case services.ErrRecipeNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, r)
}
