package presenter

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	panelPolicyOnce sync.Once
	panelPolicy     *bluemonday.Policy

	styleValue = regexp.MustCompile(`^[a-zA-Z0-9#(),.%\s-]+$`)
)

func panelSanitizer() *bluemonday.Policy {
	panelPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("section", "div", "span", "dl", "dt", "dd", "h4", "p", "ul", "li")
		policy.AllowAttrs("class", "id").Globally()
		policy.AllowStyles("background", "color", "border-color").Matching(styleValue).Globally()
		panelPolicy = policy
	})
	return panelPolicy
}

// RenderHTML renders the result panel and strips anything outside the panel
// markup.
func (p *Presenter) RenderHTML(result Result) (string, error) {
	out, err := p.engine.RenderTemplate(resultTemplate, result)
	if err != nil {
		return "", fmt.Errorf("presenter: render result: %w", err)
	}
	return panelSanitizer().Sanitize(out), nil
}

const gaugeCells = 20

// RenderText renders a plain text card for terminals.
func RenderText(result Result) string {
	filled := (result.RiskScore*gaugeCells + 50) / 100
	if filled > gaugeCells {
		filled = gaugeCells
	}
	if filled < 0 {
		filled = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  [%s%s]\n", result.RiskLabel, result.ScoreText,
		strings.Repeat("#", filled), strings.Repeat("-", gaugeCells-filled))
	fmt.Fprintf(&b, "Prediction:     %s\n", result.PredictionLabel)
	fmt.Fprintf(&b, "Confidence:     %s\n", result.ConfidenceText)
	if result.LatencyText != "" {
		fmt.Fprintf(&b, "Latency:        %s\n", result.LatencyText)
	}
	fmt.Fprintf(&b, "Recommendation: %s\n", result.Tier.Recommendation)
	if len(result.Factors) > 0 {
		b.WriteString("Top risk factors:\n")
		for _, factor := range result.Factors {
			fmt.Fprintf(&b, "  - %s (%s)\n", factor.Feature, factor.ImpactText)
		}
	}
	return b.String()
}
