package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/goliatone/go-churnform"
	"github.com/goliatone/go-churnform/internal/config"
	"github.com/goliatone/go-churnform/internal/logger"
	"github.com/goliatone/go-churnform/pkg/batch"
	"github.com/goliatone/go-churnform/pkg/client"
	"github.com/goliatone/go-churnform/pkg/controller"
	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/presenter"
	"github.com/goliatone/go-churnform/pkg/terminal"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file read before the environment")
	apiURL := flag.String("api", "", "scoring service base URL (overrides CHURN_API_URL)")
	fields := flag.String("fields", "", "field declarations: YAML/OpenAPI path or URL (overrides CHURN_FIELDS)")
	variant := flag.String("variant", "", "palette variant (overrides CHURN_THEME_VARIANT)")
	batchFile := flag.String("batch", "", "score every row of a CSV or XLSX file")
	output := flag.String("out", "", "batch: write an XLSX report here; score: write output here")
	values := flag.String("score", "", "score one customer non-interactively: id=value,id=value")
	html := flag.Bool("html", false, "score: emit the sanitized HTML result panel instead of text")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	override(&cfg.APIURL, *apiURL)
	override(&cfg.FieldsSource, *fields)
	override(&cfg.ThemeVariant, *variant)

	lgr := logger.NewWithOptions(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	lgr.WithField("api_url", cfg.APIURL).Debug("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	specs, err := churnform.LoadFields(ctx, cfg.FieldsSource, cfg.SchemaName, cfg.RequestTimeout)
	if err != nil {
		lgr.WithError(err).Fatal("failed to load field declarations")
	}

	api, err := churnform.NewClient(cfg.APIURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithHealthRetries(cfg.HealthRetries),
		client.WithLatencyHeader(cfg.LatencyHeader),
		client.WithLogger(lgr),
	)
	if err != nil {
		lgr.WithError(err).Fatal("failed to build client")
	}

	presenterOpts := []presenter.Option{presenter.WithVariant(cfg.ThemeVariant)}
	if cfg.TemplateDir != "" {
		presenterOpts = append(presenterOpts, presenter.WithTemplateDir(cfg.TemplateDir))
	}
	p, err := presenter.New(presenterOpts...)
	if err != nil {
		lgr.WithError(err).Fatal("failed to build presenter")
	}

	switch {
	case *batchFile != "":
		err = runBatch(ctx, lgr, specs, api, p, *batchFile, *output)
	case *values != "":
		err = runScore(ctx, specs, api, p, *values, *output, *html)
	default:
		err = runSession(ctx, lgr, specs, api, p)
	}
	if err != nil {
		lgr.WithError(err).Fatal("churnform failed")
	}
}

func override(target *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*target = v
	}
}

func runSession(ctx context.Context, lgr *logger.Logger, specs []model.FieldSpec, api *client.Client, p *presenter.Presenter) error {
	session, err := churnform.NewSession(specs, api,
		terminal.WithControllerOptions(controller.WithLogger(lgr), controller.WithPresenter(p)),
	)
	if err != nil {
		return err
	}
	err = session.Run(ctx)
	if errors.Is(err, terminal.ErrAborted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runScore(ctx context.Context, specs []model.FieldSpec, api *client.Client, p *presenter.Presenter, raw, output string, asHTML bool) error {
	values, err := churnform.ParseValues(raw)
	if err != nil {
		return err
	}
	prediction, err := churnform.Score(ctx, specs, values, api)
	if err != nil {
		if errors.Is(err, client.ErrPredictionFailed) {
			return errors.New(controller.GenericFailureMessage)
		}
		return err
	}

	result := p.Present(prediction)
	rendered := presenter.RenderText(result)
	if asHTML {
		if rendered, err = p.RenderHTML(result); err != nil {
			return err
		}
	}
	return emit(output, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, rendered)
		return err
	})
}

func runBatch(ctx context.Context, lgr *logger.Logger, specs []model.FieldSpec, api *client.Client, p *presenter.Presenter, path, output string) error {
	table, err := batch.ReadFile(path)
	if err != nil {
		return err
	}
	runner, err := batch.NewRunner(specs, api, batch.WithLogger(lgr))
	if err != nil {
		return err
	}
	summary, runErr := runner.Run(ctx, table)
	if runErr != nil && !errors.Is(runErr, batch.ErrNoValidRows) {
		return runErr
	}

	if err := batch.WriteText(os.Stdout, summary, p); err != nil {
		return err
	}
	if output == "" {
		return runErr
	}
	if ext := strings.ToLower(filepath.Ext(output)); ext != ".xlsx" {
		return fmt.Errorf("report %q: only .xlsx output is supported", output)
	}
	if err := emit(output, func(w io.Writer) error { return batch.WriteXLSX(w, summary, p) }); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", output)
	return runErr
}

func emit(output string, write func(io.Writer) error) error {
	if output == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
