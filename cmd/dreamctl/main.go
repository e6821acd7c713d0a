// Command dreamctl manages the theme catalog and runs single generations
// from the terminal against the same PhotoMaker sidecar as the API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dreamworld/internal/infra"
	"dreamworld/internal/photomaker"
	"dreamworld/internal/preset"
	"dreamworld/internal/prompt"
	"dreamworld/internal/storage"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var presetFile string
	root := &cobra.Command{
		Use:   "dreamctl",
		Short: "Dream World photo generator tooling",
		Long: `dreamctl inspects the Dream World theme catalog, resolves prompts and
runs one-off generations.

Examples:
  dreamctl init
  dreamctl themes
  dreamctl themes show "Space Adventure"
  dreamctl resolve --theme "Seasons Calendar" --season "winter with snow and festivities"
  dreamctl generate --theme "Candy Kingdom" --image kid1.jpg --image kid2.jpg --seed 42
  dreamctl history --prune-older-than 720h`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&presetFile, "preset-file", "", "Theme catalog path (defaults to PRESET_FILE)")

	store := func() (*preset.Store, *infra.Config, error) {
		cfg, err := infra.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		if presetFile != "" {
			cfg.PresetFile = presetFile
		}
		logger := infra.Component(infra.NewLogger(cfg.AppEnv), "dreamctl")
		s := preset.NewStore(cfg.PresetFile, preset.WithLogger(&logger))
		if err := s.EnsureCatalogExists(); err != nil {
			return nil, nil, err
		}
		return s, cfg, nil
	}

	root.AddCommand(
		newInitCmd(store),
		newThemesCmd(store),
		newResolveCmd(store),
		newGenerateCmd(store),
		newMigrateCmd(),
		newHistoryCmd(),
	)
	return root
}

type storeFunc func() (*preset.Store, *infra.Config, error)

func newInitCmd(store storeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the working directories and the default theme catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, cfg, err := store()
			if err != nil {
				return err
			}
			for _, dir := range []string{cfg.UploadDir, cfg.OutputDir} {
				fs, err := storage.NewFileStore(dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), fs.BasePath())
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Path())
			return nil
		},
	}
}

func newThemesCmd(store storeFunc) *cobra.Command {
	themes := &cobra.Command{
		Use:   "themes",
		Short: "List theme names in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := store()
			if err != nil {
				return err
			}
			names, err := s.ListThemeNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	themes.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Print one theme as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := store()
			if err != nil {
				return err
			}
			theme, ok := s.FindTheme(args[0])
			if !ok {
				return fmt.Errorf("theme %q not found", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), theme)
		},
	})
	return themes
}

func newResolveCmd(store storeFunc) *cobra.Command {
	var theme, season, subject string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a theme into prompt and parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := store()
			if err != nil {
				return err
			}
			res := prompt.ResolveByName(s, theme, season, subject)
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if res.IsDefault() {
				return nil
			}
			tok := photomaker.NewWordTokenizer(photomaker.DefaultTriggerWord)
			if err := photomaker.CheckTriggerWord(cmd.Context(), tok, res.Prompt); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "Theme name")
	cmd.Flags().StringVar(&season, "season", "", "Season label for seasonal themes")
	cmd.Flags().StringVar(&subject, "subject", "", "Custom subject text")
	_ = cmd.MarkFlagRequired("theme")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply run-history migrations to DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				files, err := infra.MigrationFiles()
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
				return nil
			}
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			if !cfg.HistoryEnabled() {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			return infra.Migrate(cfg.DatabaseURL, infra.NewLogger(cfg.AppEnv))
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "Only list embedded migrations")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
