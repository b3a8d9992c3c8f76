package plugin

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category classifies a plugin's role. The set is closed.
type Category string

// Plugin categories.
const (
	CategoryAIProvider  Category = "ai_provider"
	CategoryMarketData  Category = "market_data"
	CategoryIntegration Category = "integration"
	CategoryRiskRule    Category = "risk_rule"
	CategoryTaskHandler Category = "task_handler"
	CategoryAgent       Category = "agent"
)

// CategoryOrder is the fixed order categories are presented and configured in.
var CategoryOrder = []Category{
	CategoryAIProvider,
	CategoryMarketData,
	CategoryIntegration,
	CategoryRiskRule,
	CategoryTaskHandler,
	CategoryAgent,
}

// labels overrides the generated title for categories whose acronym or
// plural would otherwise come out wrong.
var labels = map[Category]string{
	CategoryAIProvider: "AI Providers",
	CategoryMarketData: "Market Data Sources",
}

var titleCaser = cases.Title(language.English)

// ParseCategory converts a descriptor's category string.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", &UnknownCategoryError{Category: s}
	}
	return c, nil
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range CategoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns the presentation label, e.g. "Risk Rules".
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return titleCaser.String(strings.ReplaceAll(string(c), "_", " ")) + "s"
}

func (c Category) String() string {
	return string(c)
}

// UnknownCategoryError indicates a descriptor named a category outside the
// fixed set.
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Category)
}
