package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"duty-calendar/internal/config"
	"duty-calendar/internal/logger"
	"duty-calendar/internal/models"
	"duty-calendar/internal/render"
	"duty-calendar/internal/schedule"
	"duty-calendar/internal/store"
)

type renderOptions struct {
	*rootOptions
	department   string
	scheduleType string
	month        int
	year         int
	formats      []string
	outDir       string
	input        string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build one month's calendar and write it to the output directory",
		Example: `  dutygrid render --department อายุรกรรม --type ตารางประจำเดือน --month 11 --year 2024
  dutygrid render --input records.json --department med --type monthly --format xlsx --out ./out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	now := time.Now()
	f := cmd.Flags()
	f.StringVar(&opts.department, "department", "", "department to render")
	f.StringVar(&opts.scheduleType, "type", "", "schedule type to render")
	f.IntVar(&opts.month, "month", int(now.Month()), "month (1-12)")
	f.IntVar(&opts.year, "year", now.Year(), "year")
	f.StringSliceVar(&opts.formats, "format", nil, "output formats: html, png, xlsx (default from config)")
	f.StringVar(&opts.outDir, "out", "", "output directory (default from config)")
	f.StringVar(&opts.input, "input", "", "read records from this JSON file instead of the configured source")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// loadConfig applies command-line overrides on top of the loaded configuration.
func (o *renderOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.input != "" {
		cfg.Source = config.SourceConfig{Kind: "json", Path: o.input}
	}
	if len(o.formats) > 0 {
		cfg.Render.Formats = o.formats
	}
	if o.outDir != "" {
		cfg.Render.OutputDir = o.outDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRender(cmd *cobra.Command, o *renderOptions) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	zl, err := logger.New(cfg.Log, "dutygrid")
	if err != nil {
		return err
	}
	defer zl.Sync()

	ctx := cmd.Context()
	source, err := store.Open(ctx, cfg.Source, cfg.Database)
	if err != nil {
		return fmt.Errorf("open record source: %w", err)
	}
	defer source.Close()

	q := models.ScheduleQuery{
		Department:   o.department,
		ScheduleType: o.scheduleType,
		Month:        o.month,
		Year:         o.year,
	}
	sched, err := schedule.NewEngine(source, cfg.Calendar, zl).Build(ctx, q)
	if err != nil {
		return err
	}

	renderer := render.New(cfg.Render, zl)
	meta := render.Meta{
		Title:      sched.Title,
		Department: q.Department,
		MonthLabel: sched.MonthLabel,
		Year:       q.Year,
		Labels:     sched.Labels,
	}

	var outputs []render.Output
	var doc []byte
	for _, format := range cfg.Render.Formats {
		var data []byte
		switch format {
		case "html", "png":
			if doc == nil {
				if doc, err = renderer.HTML(sched.Grid, meta); err != nil {
					return err
				}
			}
			data = doc
			if format == "png" {
				if data, err = renderer.PNG(ctx, doc, renderer.LayoutFor(sched.Grid)); err != nil {
					return err
				}
			}
		default:
			if data, err = renderer.Render(ctx, format, sched.Grid, meta); err != nil {
				return err
			}
		}
		outputs = append(outputs, render.Output{Format: format, Data: data})
	}

	paths, err := render.NewPublisher(cfg.Render.OutputDir, zl).Publish(render.BaseName(q), outputs...)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	if n := len(sched.Dropped); n > 0 {
		zl.Warn("records could not be placed", zap.Int("count", n))
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d record(s) could not be placed, see log\n", n)
	}
	return nil
}
