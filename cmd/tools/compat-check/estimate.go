package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"booking-workers/internal/compatibility"
)

func newEstimateCmd() *cobra.Command {
	var capacity int

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the maximum guarantee for a venue capacity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cents := compatibility.EstimateGuaranteeByCapacity(&capacity)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "capacity %d: up to %s (%d cents)\n",
				capacity, compatibility.FormatDollars(cents), cents)
			return err
		},
	}

	cmd.Flags().IntVarP(&capacity, "capacity", "c", 0, "Venue capacity (required)")
	if err := cmd.MarkFlagRequired("capacity"); err != nil {
		panic(fmt.Sprintf("failed to mark capacity flag as required: %v", err))
	}
	return cmd
}
