package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ngmaloney/surf-terminal/internal/models"
	"github.com/ngmaloney/surf-terminal/internal/store"
)

// SpotsCommand prints the spot catalogue, optionally filtered by a search term
func SpotsCommand(flags *globalFlags) *cobra.Command {
	var term string

	cmd := &cobra.Command{
		Use:   "spots",
		Short: "List surf spots",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			search := store.NewSpotSearchStore(a.client, a.logger)
			defer search.Close()

			search.Load(cmd.Context())
			if msg := search.Error(); msg != "" {
				return errors.New(msg)
			}

			spots := search.Spots()
			if term != "" {
				spots = search.Search(term)
			}
			return printSpots(cmd.OutOrStdout(), spots)
		},
	}

	cmd.Flags().StringVarP(&term, "search", "s", "", "only spots whose name, location or description contains this")
	return cmd
}

func printSpots(w io.Writer, spots []models.Spot) error {
	if len(spots) == 0 {
		_, err := fmt.Fprintln(w, "No spots found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tCOORDINATES\tWAVES")
	for _, s := range spots {
		waves := s.Forecast.WaveHeightDisplay()
		if waves == "" {
			waves = "-"
		}
		location := s.Location
		if location == "" {
			location = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f, %.4f\t%s\n", s.ID, s.Name, location, s.Latitude, s.Longitude, waves)
	}
	return tw.Flush()
}
