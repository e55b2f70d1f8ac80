package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ronipassion/TrashTrackk/internal/capture"
	"github.com/ronipassion/TrashTrackk/internal/catalog"
	"github.com/ronipassion/TrashTrackk/internal/config"
	"github.com/ronipassion/TrashTrackk/internal/format"
	"github.com/ronipassion/TrashTrackk/internal/tui"
)

type App struct {
	API        string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "trashtrackk",
		Short:        "Report critical trash points to a shared catalog (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  trashtrackk

  # Scriptable commands
  trashtrackk points list
  trashtrackk points add --title "Lixo na esquina" --photo foto.jpg --lat -23.55 --lon -46.63 --collection manual
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.API, "api", envOr("TRASHTRACKK_API", ""), "Catalog base URL (overrides apiBase in config.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newPointsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	return tui.Run(tui.Deps{
		Catalog:   catalog.New(cfg.APIBase),
		Locator:   capture.CommandLocator{Command: cfg.LocationCommand},
		Camera:    capture.CommandCamera{Command: cfg.CameraCommand},
		PhotosDir: cfg.PhotosDir,
	})
}

// loadConfig reads config.json and applies the --api / TRASHTRACKK_API
// overrides and defaults.
func loadConfig(app *App) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return config.Resolve(cfg, app.API), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
