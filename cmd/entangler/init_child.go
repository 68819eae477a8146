package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/entangler"
)

type initChildView struct {
	InstructionID  string           `json:"instruction_id" yaml:"instruction_id"`
	LamportsPaid   uint64           `json:"lamports_paid" yaml:"lamports_paid"`
	ChildEntangler registrationView `json:"child_entangler" yaml:"child_entangler"`
}

func newInitChildCmd(c *cli) *cobra.Command {
	var payer, parent, childMint, authority, goLive, freezeSwap string
	cmd := &cobra.Command{
		Use:   "init-child",
		Short: "Attach a child entangler and vault to an existing parent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, payerAddr, err := c.loadKey(payer)
			if err != nil {
				return err
			}
			accts := entangler.InitializeChildEntanglerAccounts{Payer: payerAddr}
			if accts.Entangler, err = address.ParseAddress(parent); err != nil {
				return fmt.Errorf("--entangler: %w", err)
			}
			if accts.ChildMint, err = address.ParseAddress(childMint); err != nil {
				return fmt.Errorf("--child-mint: %w", err)
			}

			var args entangler.InitializeChildEntanglerArgs
			if args.Authority, err = parseOptionalAddress(authority); err != nil {
				return fmt.Errorf("--authority: %w", err)
			}
			if args.GoLiveUnixTime, err = parseUnixTime(goLive); err != nil {
				return fmt.Errorf("--go-live: %w", err)
			}
			if args.FreezeSwapUnixTime, err = parseOptionalTime(freezeSwap); err != nil {
				return fmt.Errorf("--freeze: %w", err)
			}

			s, closeFn, err := c.openLedger()
			if err != nil {
				return err
			}
			defer closeFn()

			clock := c.clock()
			res, err := s.proc.InitializeChildEntangler(cmd.Context(), clock, accts, args)
			if err != nil {
				return err
			}
			return c.print(cmd, initChildView{
				InstructionID:  res.InstructionID.String(),
				LamportsPaid:   res.LamportsPaid,
				ChildEntangler: childEntanglerView(res.ChildEntangler.Address, res.State, clock.UnixTimestamp),
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&payer, "payer", "payer", "payer key name")
	f.StringVar(&parent, "entangler", "", "parent entangler address")
	f.StringVar(&childMint, "child-mint", "", "child mint address")
	f.StringVar(&authority, "authority", "", "optional authority address")
	f.StringVar(&goLive, "go-live", "", "go-live time (unix seconds or RFC 3339)")
	f.StringVar(&freezeSwap, "freeze", "", "freeze-swap time (empty: never)")
	_ = cmd.MarkFlagRequired("entangler")
	_ = cmd.MarkFlagRequired("child-mint")
	return cmd
}
