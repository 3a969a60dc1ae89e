// Package presenter turns prediction responses into display values: score,
// labels, tier palette and recommendation. HTML and plain-text renditions are
// derived from the same Result.
package presenter

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/render/template"
	"github.com/goliatone/go-churnform/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Prediction labels.
const (
	LabelChurn     = "Churn Likely"
	LabelRetention = "Retention Likely"
)

const resultTemplate = "result"

// Factor is a risk factor formatted for display.
type Factor struct {
	Feature    string  `json:"feature"`
	Impact     float64 `json:"impact"`
	ImpactText string  `json:"impact_text"`
}

// Result holds every value the result panel shows.
type Result struct {
	RiskScore       int      `json:"risk_score"`
	ScoreText       string   `json:"score_text"`
	RiskLabel       string   `json:"risk_label"`
	PredictionLabel string   `json:"prediction_label"`
	ConfidenceText  string   `json:"confidence_text"`
	LatencyText     string   `json:"latency_text,omitempty"`
	Gauge           string   `json:"gauge"`
	Tier            Tier     `json:"tier"`
	Factors         []Factor `json:"factors,omitempty"`
}

// Option configures a Presenter.
type Option func(*options)

type options struct {
	manifest  *theme.Manifest
	variant   string
	selector  theme.ThemeSelector
	themeName string
	templates fs.FS
	dir       string
	filters   []gotemplate.Option
	engine    template.TemplateRenderer
}

// WithManifest replaces the built-in palette manifest.
func WithManifest(manifest *theme.Manifest) Option {
	return func(o *options) {
		if manifest != nil {
			o.manifest = manifest
		}
	}
}

// WithVariant selects a manifest variant whose tokens override the base set.
func WithVariant(variant string) Option {
	return func(o *options) {
		o.variant = strings.TrimSpace(variant)
	}
}

// WithThemeSelector resolves the manifest and variant through selector. It
// takes precedence over WithManifest.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *options) {
		o.selector = selector
		o.themeName = strings.TrimSpace(name)
		o.variant = strings.TrimSpace(variant)
	}
}

// WithTemplates overrides the template filesystem. It must provide
// result.tpl.
func WithTemplates(files fs.FS) Option {
	return func(o *options) {
		o.templates = files
	}
}

// WithTemplateDir loads templates from dir first, falling back to the
// built-in set for names dir does not provide.
func WithTemplateDir(dir string) Option {
	return func(o *options) {
		o.dir = strings.TrimSpace(dir)
	}
}

// WithTemplateFilter makes a filter available to result templates.
func WithTemplateFilter(name string, fn func(input any, param any) (any, error)) Option {
	return func(o *options) {
		o.filters = append(o.filters, gotemplate.WithFilter(name, fn))
	}
}

// WithTemplateRenderer injects a ready engine, skipping WithTemplates.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// Presenter maps predictions to Results using a fixed tier table.
type Presenter struct {
	tiers  map[model.RiskLevel]Tier
	engine template.TemplateRenderer
}

// New resolves the palette and template engine.
func New(opts ...Option) (*Presenter, error) {
	cfg := options{manifest: DefaultManifest()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	manifest, variant := cfg.manifest, cfg.variant
	if cfg.selector != nil {
		selection, err := cfg.selector.Select(cfg.themeName, cfg.variant)
		if err != nil {
			return nil, fmt.Errorf("presenter: select theme: %w", err)
		}
		if selection == nil || selection.Manifest == nil {
			return nil, errors.New("presenter: theme selection has no manifest")
		}
		manifest, variant = selection.Manifest, selection.Variant
	}

	tokens, err := mergeTokens(manifest, variant)
	if err != nil {
		return nil, err
	}
	tiers, err := buildTiers(tokens, manifest.Name)
	if err != nil {
		return nil, err
	}

	engine := cfg.engine
	if engine == nil {
		files := cfg.templates
		if files == nil {
			files = TemplatesFS()
		}
		engineOpts := append([]gotemplate.Option{gotemplate.WithFS(files)}, cfg.filters...)
		if cfg.dir != "" {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.dir))
		}
		engine, err = gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("presenter: template engine: %w", err)
		}
	}

	return &Presenter{tiers: tiers, engine: engine}, nil
}

// TemplatesFS exposes the built-in templates so callers can copy or extend
// them before passing a replacement to WithTemplates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Tier returns the presentation for level. Unknown levels fall back to Low.
func (p *Presenter) Tier(level model.RiskLevel) Tier {
	if tier, ok := p.tiers[level]; ok {
		return tier
	}
	return p.tiers[model.RiskLow]
}

// Present derives the display values for a prediction.
func (p *Presenter) Present(prediction model.Prediction) Result {
	resp := prediction.Response
	score := int(math.Round(resp.ChurnProbability * 100))
	tier := p.Tier(resp.RiskLevel)

	result := Result{
		RiskScore:       score,
		ScoreText:       fmt.Sprintf("%d%%", score),
		RiskLabel:       fmt.Sprintf("%s Risk", resp.RiskLevel),
		PredictionLabel: LabelRetention,
		ConfidenceText:  percent(resp.Confidence).StringFixed(1) + "%",
		LatencyText:     LatencyText(prediction.Latency),
		Gauge:           fmt.Sprintf("conic-gradient(%s %d%%, transparent 0%%)", tier.Accent, score),
		Tier:            tier,
	}
	if resp.ChurnPrediction == 1 {
		result.PredictionLabel = LabelChurn
	}
	for _, factor := range resp.TopRiskFactors {
		result.Factors = append(result.Factors, Factor{
			Feature:    factor.Feature,
			Impact:     factor.Impact,
			ImpactText: decimal.NewFromFloat(factor.Impact).StringFixed(2),
		})
	}
	return result
}

// LatencyText formats a processing time in whole milliseconds. Nil yields "".
func LatencyText(latency *time.Duration) string {
	if latency == nil {
		return ""
	}
	ms := decimal.NewFromInt(latency.Nanoseconds()).Div(decimal.NewFromInt(int64(time.Millisecond)))
	return ms.Round(0).String() + "ms"
}

func percent(ratio float64) decimal.Decimal {
	return decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100))
}
