package presenter

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-churnform/pkg/model"
)

// Recommendation texts per risk tier.
const (
	RecommendationHigh   = "Immediate intervention required! Offer a discount or loyalty bonus immediately."
	RecommendationMedium = "Monitor usage patterns. Consider sending a satisfaction survey."
	RecommendationLow    = "Customer is satisfied. No immediate action required."
)

// DefaultThemeName names the built-in palette manifest.
const DefaultThemeName = "churnform"

// Token suffixes looked up per tier, e.g. "high.accent".
const (
	tokenAccent     = "accent"
	tokenBackground = "background"
	tokenBorder     = "border"
)

// Tier is the presentation of one risk level.
type Tier struct {
	Level          model.RiskLevel `json:"level"`
	Accent         string          `json:"accent"`
	Background     string          `json:"background"`
	Border         string          `json:"border"`
	TitleColor     string          `json:"title_color"`
	Recommendation string          `json:"recommendation"`
}

// DefaultManifest returns the palette used by the web dashboard. The "solid"
// variant swaps CSS variables for literal colors so panels render outside the
// dashboard stylesheet.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"high.accent":       "var(--danger-color)",
			"high.background":   "rgba(239, 68, 68, 0.1)",
			"high.border":       "rgba(239, 68, 68, 0.2)",
			"medium.accent":     "var(--warning-color)",
			"medium.background": "rgba(245, 158, 11, 0.1)",
			"medium.border":     "rgba(245, 158, 11, 0.2)",
			"low.accent":        "var(--success-color)",
			"low.background":    "rgba(16, 185, 129, 0.1)",
			"low.border":        "rgba(16, 185, 129, 0.2)",
		},
		Variants: map[string]theme.Variant{
			"solid": {
				Tokens: map[string]string{
					"high.accent":   "#ef4444",
					"medium.accent": "#f59e0b",
					"low.accent":    "#10b981",
				},
			},
		},
	}
}

// mergeTokens overlays the variant tokens on the manifest base set.
func mergeTokens(manifest *theme.Manifest, variant string) (map[string]string, error) {
	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		return tokens, nil
	}
	overrides, ok := manifest.Variants[variant]
	if !ok {
		return nil, fmt.Errorf("presenter: theme %q has no variant %q", manifest.Name, variant)
	}
	for key, value := range overrides.Tokens {
		tokens[key] = value
	}
	return tokens, nil
}

func buildTiers(tokens map[string]string, themeName string) (map[model.RiskLevel]Tier, error) {
	texts := map[model.RiskLevel]string{
		model.RiskHigh:   RecommendationHigh,
		model.RiskMedium: RecommendationMedium,
		model.RiskLow:    RecommendationLow,
	}

	tiers := make(map[model.RiskLevel]Tier, len(texts))
	for level, text := range texts {
		prefix := strings.ToLower(string(level)) + "."
		values := make(map[string]string, 3)
		for _, suffix := range []string{tokenAccent, tokenBackground, tokenBorder} {
			value := strings.TrimSpace(tokens[prefix+suffix])
			if value == "" {
				return nil, fmt.Errorf("presenter: theme %q is missing token %q", themeName, prefix+suffix)
			}
			values[suffix] = value
		}
		tiers[level] = Tier{
			Level:          level,
			Accent:         values[tokenAccent],
			Background:     values[tokenBackground],
			Border:         values[tokenBorder],
			TitleColor:     values[tokenAccent],
			Recommendation: text,
		}
	}
	return tiers, nil
}
