package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/drustvo/internal/model"
	"github.com/erazemk/drustvo/internal/store"
)

var reconcileFix bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Check stored item availability against outstanding item logs",
	Long: `Recomputes every item's availability from its outstanding item logs and
reports items whose stored value disagrees. With --fix the stored value is
overwritten, except where the logs would make it negative.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, database, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		orgs, err := store.ListOrganisations(ctx, database)
		if err != nil {
			return err
		}

		total := 0
		for _, org := range orgs {
			var drift []model.StockDrift
			if reconcileFix {
				drift, err = store.RepairStock(ctx, database, org.ID)
			} else {
				drift, err = store.CheckStock(ctx, database, org.ID)
			}
			if err != nil {
				return fmt.Errorf("reconciling %s: %w", org.Name, err)
			}

			for _, d := range drift {
				status := "drift"
				if d.Repaired {
					status = "repaired"
				}
				fmt.Printf("%s\t%s\t%s\tstored=%d derived=%d\n", org.Name, d.ItemName, status, d.Stored, d.Derived)
				log.Warn("stock drift",
					zap.String("organisation_id", org.ID),
					zap.String("item_id", d.ItemID),
					zap.Int("stored", d.Stored),
					zap.Int("derived", d.Derived),
					zap.Bool("repaired", d.Repaired),
				)
			}
			total += len(drift)
		}

		if total == 0 {
			fmt.Println("All items consistent.")
		}
		return nil
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileFix, "fix", false, "overwrite drifted availability")
}
