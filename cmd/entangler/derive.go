package main

import (
	"github.com/spf13/cobra"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/entangler"
)

func newDeriveCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Compute program-derived addresses without touching the ledger",
	}

	var seedHex string
	entanglerCmd := &cobra.Command{
		Use:   "entangler [seed]",
		Short: "Derive the parent entangler address and its vault",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := c.programID()
			if err != nil {
				return err
			}
			var seed string
			if len(args) == 1 {
				seed = args[0]
			}
			raw, err := seedBytes(seed, seedHex)
			if err != nil {
				return err
			}
			parent, err := entangler.DeriveEntangler(programID, raw)
			if err != nil {
				return err
			}
			storage, err := entangler.DeriveStorage(programID, parent.Address)
			if err != nil {
				return err
			}
			return c.print(cmd, map[string]derivedView{
				"entangler": newDerivedView(parent),
				"storage":   newDerivedView(storage),
			})
		},
	}
	entanglerCmd.Flags().StringVar(&seedHex, "seed-hex", "", "seed as hex bytes")

	childCmd := &cobra.Command{
		Use:   "child <entangler> <child-mint>",
		Short: "Derive a child entangler address and its vault",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := c.programID()
			if err != nil {
				return err
			}
			parent, err := address.ParseAddress(args[0])
			if err != nil {
				return err
			}
			childMint, err := address.ParseAddress(args[1])
			if err != nil {
				return err
			}
			child, err := entangler.DeriveChildEntangler(programID, parent, childMint)
			if err != nil {
				return err
			}
			storage, err := entangler.DeriveStorage(programID, child.Address)
			if err != nil {
				return err
			}
			return c.print(cmd, map[string]derivedView{
				"child_entangler": newDerivedView(child),
				"storage":         newDerivedView(storage),
			})
		},
	}

	storageCmd := &cobra.Command{
		Use:   "storage <registration>",
		Short: "Derive the vault address of a registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := c.programID()
			if err != nil {
				return err
			}
			reg, err := address.ParseAddress(args[0])
			if err != nil {
				return err
			}
			storage, err := entangler.DeriveStorage(programID, reg)
			if err != nil {
				return err
			}
			return c.print(cmd, newDerivedView(storage))
		},
	}

	cmd.AddCommand(entanglerCmd, childCmd, storageCmd)
	return cmd
}
