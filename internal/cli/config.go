package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ronipassion/TrashTrackk/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and update the stored configuration",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	var resolved bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			if resolved {
				// With env/flag overrides and defaults applied, i.e. what
				// the app will actually use.
				cfg = config.Resolve(cfg, app.API)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"config": cfg}})
		},
	}

	cmd.Flags().BoolVar(&resolved, "resolved", false, "Apply overrides and defaults before printing")

	return cmd
}

func newConfigSetCmd(app *App) *cobra.Command {
	var (
		apiBase         string
		photosDir       string
		cameraCommand   string
		locationCommand string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update config.json (only the given fields change)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return writeErr(cmd, err)
			}

			if cmd.Flags().Changed("api-base") {
				cfg.APIBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
			}
			if cmd.Flags().Changed("photos-dir") {
				cfg.PhotosDir = strings.TrimSpace(photosDir)
			}
			if cmd.Flags().Changed("camera-command") {
				cfg.CameraCommand = strings.TrimSpace(cameraCommand)
			}
			if cmd.Flags().Changed("location-command") {
				cfg.LocationCommand = strings.TrimSpace(locationCommand)
			}

			if err := config.Save(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"config": cfg}})
		},
	}

	cmd.Flags().StringVar(&apiBase, "api-base", "", "Catalog base URL to store")
	cmd.Flags().StringVar(&photosDir, "photos-dir", "", "Gallery root directory to store")
	cmd.Flags().StringVar(&cameraCommand, "camera-command", "", "Camera command to store")
	cmd.Flags().StringVar(&locationCommand, "location-command", "", "Location command to store")

	return cmd
}
