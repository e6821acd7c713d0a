package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dreamworld/internal/adapter/repo"
	"dreamworld/internal/domain/jsoncfg"
	"dreamworld/internal/generation"
	"dreamworld/internal/infra"
	"dreamworld/internal/photomaker"
	pmclient "dreamworld/internal/providers/photomaker"
	"dreamworld/internal/storage"
)

func newGenerateCmd(store storeFunc) *cobra.Command {
	var (
		images  []string
		sketch  string
		params  jsoncfg.GenerationParams
		sidecar string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one generation through the PhotoMaker sidecar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, cfg, err := store()
			if err != nil {
				return err
			}
			if sidecar != "" {
				cfg.PhotoMakerURL = sidecar
			}
			logger := infra.NewLogger(cfg.AppEnv)

			uploads, err := storage.NewFileStore(cfg.UploadDir)
			if err != nil {
				return err
			}
			outputs, err := storage.NewFileStore(cfg.OutputDir)
			if err != nil {
				return err
			}
			client := pmclient.NewClient(pmclient.Options{
				BaseURL:        cfg.PhotoMakerURL,
				Logger:         &logger,
				RequestTimeout: cfg.PhotoMakerTimeout,
			})
			svc, err := generation.NewService(generation.Options{
				Presets:   presets,
				Stager:    storage.NewStager(uploads, &logger),
				Collector: storage.NewCollector(outputs),
				Builder: photomaker.NewBuilder(photomaker.Options{
					Tokenizer:           client,
					Detector:            client,
					Logger:              &logger,
					DetectConcurrency:   cfg.DetectConcurrency,
					DetectRatePerSecond: cfg.DetectRatePerSecond,
				}),
				Pipeline:           client,
				Runs:               repo.NewMemoryRunRepository(1),
				Logger:             logger,
				DefaultLocale:      cfg.DefaultLocale,
				DefaultAspectRatio: cfg.DefaultAspectRatio,
			})
			if err != nil {
				return err
			}

			in := generation.Input{Params: params}
			for _, path := range images {
				in.Uploads = append(in.Uploads, storage.Upload{Path: path})
			}
			if sketch != "" {
				in.Sketch = storage.Upload{Path: sketch}
			}

			start := time.Now()
			out := svc.Generate(cmd.Context(), in)
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			for _, p := range out.Paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if !out.OK {
				return fmt.Errorf("generation failed after %s", time.Since(start).Round(time.Millisecond))
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "seed %d, %s\n", out.Seed, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&images, "image", "i", nil, "Identity image path (repeatable, up to 5)")
	f.StringVar(&sketch, "sketch", "", "Optional sketch image whose alpha channel guides the layout")
	f.StringVarP(&params.Theme, "theme", "t", "", "Theme name")
	f.StringVar(&params.Season, "season", "", "Season label for seasonal themes")
	f.StringVar(&params.CustomPrompt, "subject", "", "Custom subject text")
	f.StringVar(&params.Prompt, "prompt", "", "Override the resolved prompt")
	f.StringVar(&params.NegativePrompt, "negative-prompt", "", "Override the resolved negative prompt")
	f.StringVar(&params.StyleName, "style", "", "Override the theme style")
	f.IntVar(&params.NumSteps, "steps", 0, "Sampling steps (0 keeps the theme value)")
	f.IntVar(&params.StyleStrengthRatio, "style-strength", 0, "Style strength ratio in percent (0 keeps the theme value)")
	f.Float64Var(&params.GuidanceScale, "guidance", 0, "Guidance scale (0 keeps the theme value)")
	f.IntVarP(&params.NumOutputs, "num-outputs", "n", jsoncfg.DefaultNumOutputs, "Images to keep")
	f.Int64Var(&params.Seed, "seed", 0, "Seed; 0 draws a random one")
	f.StringVar(&params.AspectRatio, "aspect-ratio", "", "Output aspect ratio name")
	f.StringVar(&params.Locale, "locale", "", "Status message locale (en, id)")
	f.StringVar(&sidecar, "sidecar", "", "PhotoMaker sidecar URL (defaults to PHOTOMAKER_URL)")
	_ = cmd.MarkFlagRequired("theme")
	return cmd
}
