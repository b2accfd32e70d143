package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// placeholderImage is served when a row carries no usable image URL.
const placeholderImage = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=800&h=600&fit=crop&q=food"

// defaultCookTime is the fallback when neither CookTime nor TotalTime parses.
const defaultCookTime = 30

// Result summarizes one corpus load.
type Result struct {
	Recipes []domain.Recipe
	Skipped int // rows dropped by fail-closed validation
}

// Options tunes corpus loading.
type Options struct {
	// MaxRecipes caps the number of rows loaded; 0 means unlimited.
	MaxRecipes int
}

var titleCaser = cases.Title(language.English)

// LoadCSV reads the recipe dataset at path and returns the strictly-typed
// corpus. Column order is taken from the header row, so partial exports with
// reordered columns load fine. Malformed rows are skipped and counted.
func LoadCSV(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f, opts)
}

// Load parses CSV recipe data from r. See LoadCSV.
func Load(r io.Reader, opts Options) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	res := &Result{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A single corrupt row must not abort the whole load.
			res.Skipped++
			continue
		}
		if opts.MaxRecipes > 0 && len(res.Recipes) >= opts.MaxRecipes {
			break
		}

		recipe, ok := recipeFromRow(row, field)
		if !ok {
			res.Skipped++
			continue
		}
		res.Recipes = append(res.Recipes, recipe)
	}
	return res, nil
}

// recipeFromRow converts one CSV row. The boolean is false for rows failing
// the closed validation: missing id, missing title, or no ingredients.
func recipeFromRow(row []string, field func([]string, string) string) (domain.Recipe, bool) {
	id := field(row, "RecipeId")
	title := field(row, "Name")
	if id == "" || title == "" {
		return domain.Recipe{}, false
	}

	parts := ParseRList(field(row, "RecipeIngredientParts"))
	if len(parts) == 0 {
		return domain.Recipe{}, false
	}
	quantities := ParseRList(field(row, "RecipeIngredientQuantities"))
	ingredients := combineIngredients(parts, quantities)

	instructions := cleanLines(ParseRList(field(row, "RecipeInstructions")))

	// TotalTime first, then CookTime; a row where neither parses gets the
	// default. A legitimate parse is never second-guessed, so a 30-minute
	// TotalTime does not fall through to CookTime.
	cookTime := defaultCookTime
	for _, raw := range []string{field(row, "TotalTime"), field(row, "CookTime")} {
		if m, ok := ParseISOMinutes(raw); ok {
			cookTime = m
			break
		}
	}

	description := field(row, "Description")
	if description == "" {
		description = "Delicious recipe"
	}
	category := field(row, "RecipeCategory")
	if category == "" {
		category = "General"
	} else {
		category = titleCaser.String(strings.ToLower(category))
	}

	rating := 4.2
	if v := safeFloat(field(row, "AggregatedRating")); v != nil && *v >= 0 && *v <= 5 {
		rating = *v
	}
	servings := 4
	if v := safeInt(field(row, "RecipeServings")); v != nil && *v > 0 {
		servings = *v
	}

	return domain.Recipe{
		ID:           id,
		Title:        title,
		Description:  description,
		Image:        firstImage(field(row, "Images")),
		CookTime:     cookTime,
		Servings:     servings,
		Rating:       rating,
		Category:     category,
		Difficulty:   deriveDifficulty(cookTime, len(instructions)),
		Ingredients:  ingredients,
		Instructions: instructions,
		Nutrition:    nutritionFromRow(row, field),
	}, true
}

// combineIngredients zips quantity strings with ingredient parts into the
// display lines the frontend renders ("2 cups flour").
func combineIngredients(parts, quantities []string) []string {
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i < len(quantities) {
			if q := strings.TrimSpace(quantities[i]); q != "" && !strings.EqualFold(q, "na") {
				out = append(out, q+" "+part)
				continue
			}
		}
		out = append(out, part)
	}
	return out
}

func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// nutritionFromRow collects the optional nutrient columns, returning nil when
// every value is absent so the JSON field is omitted entirely.
func nutritionFromRow(row []string, field func([]string, string) string) *domain.Nutrition {
	n := &domain.Nutrition{
		Calories: safeFloat(field(row, "Calories")),
		Protein:  safeFloat(field(row, "ProteinContent")),
		Fat:      safeFloat(field(row, "FatContent")),
		Carbs:    safeFloat(field(row, "CarbohydrateContent")),
	}
	if n.Calories == nil && n.Protein == nil && n.Fat == nil && n.Carbs == nil {
		return nil
	}
	return n
}

// deriveDifficulty mirrors the product rule: long cook times or many steps
// raise the difficulty.
func deriveDifficulty(cookTime, steps int) string {
	switch {
	case cookTime > 60 || steps > 8:
		return domain.DifficultyHard
	case cookTime > 30 || steps > 5:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyEasy
	}
}

// firstImage returns the first http(s) URL from the Images column, or the
// placeholder when none parses.
func firstImage(raw string) string {
	for _, candidate := range ParseRList(raw) {
		u := strings.TrimSpace(candidate)
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return u
		}
	}
	return placeholderImage
}

var (
	isoHoursRE   = regexp.MustCompile(`(\d+)H`)
	isoMinutesRE = regexp.MustCompile(`(\d+)M`)
	digitsRE     = regexp.MustCompile(`\d+`)
)

// ParseISOMinutes extracts minutes from the dataset's ISO-8601 durations
// ("PT1H30M", "PT25M"). Plain numeric strings are taken as minutes. The
// boolean is false when nothing parses, so callers can distinguish a missing
// duration from one that genuinely reads 30 minutes.
func ParseISOMinutes(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return 0, false
	}

	if strings.Contains(s, "PT") {
		minutes := 0
		if m := isoHoursRE.FindStringSubmatch(s); m != nil {
			if h, err := strconv.Atoi(m[1]); err == nil {
				minutes += h * 60
			}
		}
		if m := isoMinutesRE.FindStringSubmatch(s); m != nil {
			if mm, err := strconv.Atoi(m[1]); err == nil {
				minutes += mm
			}
		}
		if minutes > 0 {
			return minutes, true
		}
		return 0, false
	}

	if m := digitsRE.FindString(s); m != "" {
		if v, err := strconv.Atoi(m); err == nil && v > 0 {
			return v, true
		}
	}
	return 0, false
}

func safeFloat(s string) *float64 {
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func safeInt(s string) *int {
	f := safeFloat(s)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}
