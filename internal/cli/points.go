package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ronipassion/TrashTrackk/internal/capture"
	"github.com/ronipassion/TrashTrackk/internal/catalog"
	"github.com/ronipassion/TrashTrackk/internal/report"
)

func newPointsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points",
		Short: "List and report critical trash points",
	}
	cmd.AddCommand(newPointsListCmd(app))
	cmd.AddCommand(newPointsAddCmd(app))
	return cmd
}

func newPointsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch all registered trash points (server order)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			client := catalog.New(cfg.APIBase)
			records, err := client.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"points": records}})
		},
	}
}

func newPointsAddCmd(app *App) *cobra.Command {
	var (
		title      string
		photoPath  string
		lat        float64
		lon        float64
		collection string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a new trash point report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := report.Draft{Title: title}

			if strings.TrimSpace(photoPath) != "" {
				uri, err := capture.LoadPhoto(photoPath)
				if err != nil {
					if errors.Is(err, capture.ErrDenied) {
						return writeErr(cmd, fmt.Errorf("sem permissão para ler a foto: %s", photoPath))
					}
					return writeErr(cmd, err)
				}
				draft.Photo = uri
			}

			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
					// A coordinate is both components or nothing.
					return writeErr(cmd, errors.New("--lat e --lon devem ser informados juntos"))
				}
				draft.Coordinate = &report.Coordinate{Latitude: lat, Longitude: lon}
			}

			if strings.TrimSpace(collection) != "" {
				ct, err := report.ParseCollectionType(collection)
				if err != nil {
					return writeErr(cmd, err)
				}
				draft.Collection = ct
			}

			// Same completeness rule the TUI enforces, before any network I/O.
			if !draft.Ready() {
				return writeErr(cmd, fmt.Errorf("campos obrigatórios faltando: %s", strings.Join(draft.Missing(), ", ")))
			}

			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			client := catalog.New(cfg.APIBase)
			sub := catalog.Submission{
				Title:          strings.TrimSpace(draft.Title),
				PhotoBase64:    draft.Photo,
				Latitude:       draft.Coordinate.Latitude,
				Longitude:      draft.Coordinate.Longitude,
				CollectionType: draft.Collection.WireLabel(),
			}
			if err := client.Create(cmd.Context(), sub); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"status": "created",
				"title":  sub.Title,
			}})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Short description of the spot (required)")
	cmd.Flags().StringVar(&photoPath, "photo", "", "Path to a local photo, JPEG or PNG (required)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude (required, with --lon)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude (required, with --lat)")
	cmd.Flags().StringVar(&collection, "collection", "", "Collection schedule: manual|truck (required)")

	return cmd
}
