package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/compatibility"
	"booking-workers/internal/profiles"
)

// errIncompatible makes the command exit non-zero for scripts.
var errIncompatible = errors.New("pair is incompatible")

func newEvaluateCmd() *cobra.Command {
	var riderPath, venuePath, format string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one rider against one venue",
		Long:  "Validates the rider and venue JSON files against their schemas, runs every compatibility check and prints the result.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unsupported format %q (want json or text)", format)
			}

			rider, err := loadProfile(riderPath, profiles.DecodeRider)
			if err != nil {
				return fmt.Errorf("rider %s: %w", riderPath, err)
			}
			venue, err := loadProfile(venuePath, profiles.DecodeVenue)
			if err != nil {
				return fmt.Errorf("venue %s: %w", venuePath, err)
			}

			result := compatibility.Calculate(rider, venue)
			if format == "json" {
				err = writeJSON(cmd.OutOrStdout(), result)
			} else {
				err = writeTable(cmd.OutOrStdout(), result)
			}
			if err != nil {
				return err
			}
			if !result.CanRequestBooking() {
				return errIncompatible
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&riderPath, "rider", "r", "", "Path to rider JSON file (required)")
	cmd.Flags().StringVarP(&venuePath, "venue", "v", "", "Path to venue JSON file (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: json or text")

	for _, name := range []string{"rider", "venue"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	return cmd
}

func loadProfile[T any](path string, decode func(json.RawMessage) (T, error)) (T, error) {
	var zero T
	content, err := os.ReadFile(path)
	if err != nil {
		return zero, err
	}
	v, err := decode(content)
	if err != nil {
		if std := apperrors.AsStandardError(err); std.Details != "" {
			return zero, errors.New(std.Details)
		}
		return zero, err
	}
	return v, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, result compatibility.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FACTOR\tWEIGHT\tSCORE\tSTATUS\tMESSAGE")
	for _, c := range result.Checks {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", c.Factor, c.Weight, c.Score, c.Status, c.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nOverall: %d/100 (%s)\n", result.OverallScore, result.Status)
	if len(result.DealBreakers) > 0 {
		fmt.Fprintf(w, "Deal-breakers:\n  - %s\n", strings.Join(result.DealBreakers, "\n  - "))
	}
	return nil
}
