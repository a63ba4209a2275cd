// Package confidence assigns a probability-like score and a provenance tag
// to extracted items based on how the search grounded them.
package confidence

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

// officialBrandDomains is the fixed allow-list of brand-owned domains.
// A search backed by one of these is the strongest grounding available.
var officialBrandDomains = []string{
	"mcdonalds.com", "mcdonalds.com.au", "kfc.com", "kfc.com.au",
	"subway.com", "subway.com.au", "dominos.com", "dominos.com.au",
	"hungryjacks.com.au", "burgerking.com", "nandos.com", "nandos.com.au",
	"guzmanygomez.com", "guzmanygomez.com.au", "grilld.com.au",
	"redrooster.com.au", "oporto.com.au", "zambrero.com.au",
	"boostjuice.com.au",
}

// flagshipMenuItems are the headline menu items whose official-site figures
// are essentially exact.
var flagshipMenuItems = []string{
	"big mac", "quarter pounder", "mcchicken", "whopper", "zinger",
	"original recipe", "footlong", "meatlovers", "stunner meal",
}

// nutritionDatabases are third-party databases with verified figures.
var nutritionDatabases = []string{
	"nutritionix.com", "calorieking.com", "calorieking.com.au",
	"myfitnesspal.com", "fatsecret.com", "fatsecret.com.au", "usda.gov",
	"fdc.nal.usda.gov", "eatthismuch.com",
}

// brandedProducts are packaged supermarket products with label figures.
var brandedProducts = []string{
	"up&go", "up and go", "weet-bix", "weetbix", "milo", "vegemite",
	"tim tam", "yoplait", "chobani", "musashi", "optimum nutrition",
	"sustagen", "gatorade", "powerade", "red bull", "coke", "coca-cola",
	"pepsi", "oreo", "snickers", "mars bar", "kitkat", "kit kat",
}

// commonFoods are generic foods with well-known typical figures.
var commonFoods = []string{
	"egg", "eggs", "banana", "apple", "orange", "rice", "bread", "toast",
	"chicken breast", "chicken", "beef", "salmon", "tuna", "oats",
	"oatmeal", "yogurt", "yoghurt", "milk", "cheese", "avocado", "potato",
	"sweet potato", "broccoli", "salad", "pasta", "steak", "porridge",
}

// caloriePattern pulls a calorie figure straight out of candidate text.
var caloriePattern = regexp.MustCompile(`(?i)(\d+)\s*(?:calories|cal|kcal)\b`)

// Score evaluates the candidate text against an ordered decision list,
// first match wins. The resulting ordering is total and stable: official
// brand domain > verified database > common-food heuristic > branded
// product > homemade > search-backed estimate > ungrounded guess.
func Score(candidateText string, searchDomains []string) models.FoodConfidence {
	lower := strings.ToLower(candidateText)

	conf := models.FoodConfidence{
		ItemName:          strings.TrimSpace(candidateText),
		NutritionEstimate: estimateFrom(candidateText),
	}

	switch {
	case domainsInclude(searchDomains, officialBrandDomains) && containsAny(lower, flagshipMenuItems):
		conf.Confidence = 0.95
		conf.Source = models.SourceWebsiteOfficial
	case domainsInclude(searchDomains, officialBrandDomains):
		conf.Confidence = 0.90
		conf.Source = models.SourceWebsiteOfficial
	case domainsInclude(searchDomains, nutritionDatabases):
		conf.Confidence = 0.90
		conf.Source = models.SourceDatabaseVerified
	case loggedWithFigure(lower):
		conf.Confidence = 0.85
		conf.Source = models.SourceCommonFood
	case containsAny(lower, brandedProducts):
		conf.Confidence = 0.80
		conf.Source = models.SourceBrandedProduct
	case containsAny(lower, commonFoods):
		conf.Confidence = 0.75
		conf.Source = models.SourceCommonFood
	case strings.Contains(lower, "homemade") || strings.Contains(lower, "home made"):
		conf.Confidence = 0.70
		conf.Source = models.SourceHomemade
	case len(searchDomains) > 0:
		conf.Confidence = 0.65
		conf.Source = models.SourceEstimated
	default:
		conf.Confidence = 0.50
		conf.Source = models.SourceUserDescribed
	}

	return conf
}

// loggedWithFigure reports whether the text reads like a completed log line:
// it mentions calories or logging and carries at least one digit.
func loggedWithFigure(lower string) bool {
	if !strings.Contains(lower, "calories") && !strings.Contains(lower, "logged") {
		return false
	}
	return strings.ContainsAny(lower, "0123456789")
}

// estimateFrom pulls a calorie figure out of the candidate text. A missing
// figure leaves the estimate nil rather than erroring.
func estimateFrom(text string) *models.NutritionEstimate {
	m := caloriePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	cal, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &models.NutritionEstimate{Calories: &cal}
}

func domainsInclude(domains, allowList []string) bool {
	for _, d := range domains {
		host := strings.ToLower(strings.TrimPrefix(d, "www."))
		for _, allowed := range allowList {
			if host == allowed || strings.HasSuffix(host, "."+allowed) {
				return true
			}
		}
	}
	return false
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
