// Package domain defines the core data model of the recipe backend: the
// immutable Recipe record served by the API and the SearchLog row persisted
// for usage statistics.
package domain

// Difficulty levels derived from cook time and instruction count at ingest.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Nutrition carries optional per-serving nutrient values. The source dataset
// frequently omits individual fields, so each value is a pointer and absent
// fields are dropped from the JSON output.
type Nutrition struct {
	Calories *float64 `json:"calories,omitempty" example:"512"`
	Protein  *float64 `json:"protein,omitempty"  example:"32.5"`
	Fat      *float64 `json:"fat,omitempty"      example:"18.2"`
	Carbs    *float64 `json:"carbs,omitempty"    example:"44.1"`
}

// Recipe is the immutable record served by every endpoint. Recipes are
// created once at corpus load and never mutated afterwards; the whole corpus
// is replaced as a unit on reload.
//
// Fields mirror the public JSON contract:
//   - ID: unique, stable identifier from the source dataset.
//   - Title / Description / Image: display fields.
//   - CookTime: minutes, always positive (defaulted at ingest when missing).
//   - Servings: positive serving count.
//   - Rating: 0.0–5.0 aggregated rating; used as a ranking tie-break.
//   - Category: non-empty category name as it appears in the dataset.
//   - Difficulty: one of the Difficulty* constants.
//   - Ingredients: raw ingredient lines (quantity + part), non-empty.
//   - Instructions: ordered preparation steps.
//   - Nutrition: optional nutrient mapping.
type Recipe struct {
	ID           string     `json:"id"           example:"38"`
	Title        string     `json:"title"        example:"Low-Fat Berry Blue Frozen Dessert"`
	Description  string     `json:"description"  example:"Make and share this dessert recipe."`
	Image        string     `json:"image"        example:"https://img.sndimg.com/food/image/upload/v1/img/recipes/38/picVfzLZo.jpg"`
	CookTime     int        `json:"cookTime"     example:"45"`
	Servings     int        `json:"servings"     example:"4"`
	Rating       float64    `json:"rating"       example:"4.5"`
	Category     string     `json:"category"     example:"Frozen Desserts"`
	Difficulty   string     `json:"difficulty"   example:"Easy"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	Nutrition    *Nutrition `json:"nutrition,omitempty"`
}
