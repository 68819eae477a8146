package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/entangler"
)

type initEntanglerView struct {
	InstructionID  string           `json:"instruction_id" yaml:"instruction_id"`
	LamportsPaid   uint64           `json:"lamports_paid" yaml:"lamports_paid"`
	Entangler      registrationView `json:"entangler" yaml:"entangler"`
	ChildEntangler registrationView `json:"child_entangler" yaml:"child_entangler"`
}

// seedBytes returns the raw seed from --seed or --seed-hex.
func seedBytes(seed, seedHex string) ([]byte, error) {
	if seedHex != "" {
		if seed != "" {
			return nil, fmt.Errorf("--seed and --seed-hex are mutually exclusive")
		}
		return hex.DecodeString(seedHex)
	}
	return []byte(seed), nil
}

func newInitEntanglerCmd(c *cli) *cobra.Command {
	var (
		payer, mint, childMint      string
		seed, seedHex, authority    string
		goLive, childGoLive         string
		freezeSwap, freezeChildSwap string
	)
	cmd := &cobra.Command{
		Use:   "init-entangler",
		Short: "Create a parent entangler, its first child and both vaults",
		Long: `init-entangler atomically creates four accounts: the parent registration
derived from ["entangler", seed], its vault, the child registration derived
from ["entangler", parent, child-mint], and the child vault. Both vaults are
held in custody by the parent registration.

Go-live times in the past are raised to the current ledger time.

Example:
  entangler init-entangler --mint <hex> --child-mint <hex> --seed pair-1
  entangler init-entangler --mint <hex> --child-mint <hex> --seed abc \
      --go-live 2100-01-01T00:00:00Z --freeze 2101-01-01T00:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, payerAddr, err := c.loadKey(payer)
			if err != nil {
				return err
			}
			accts := entangler.InitializeEntanglerAccounts{Payer: payerAddr}
			if accts.Mint, err = address.ParseAddress(mint); err != nil {
				return fmt.Errorf("--mint: %w", err)
			}
			if accts.ChildMint, err = address.ParseAddress(childMint); err != nil {
				return fmt.Errorf("--child-mint: %w", err)
			}

			var args entangler.InitializeEntanglerArgs
			if args.Seed, err = seedBytes(seed, seedHex); err != nil {
				return err
			}
			if args.Authority, err = parseOptionalAddress(authority); err != nil {
				return fmt.Errorf("--authority: %w", err)
			}
			if args.GoLiveUnixTime, err = parseUnixTime(goLive); err != nil {
				return fmt.Errorf("--go-live: %w", err)
			}
			if args.ChildGoLiveUnixTime, err = parseUnixTime(childGoLive); err != nil {
				return fmt.Errorf("--child-go-live: %w", err)
			}
			if args.FreezeSwapUnixTime, err = parseOptionalTime(freezeSwap); err != nil {
				return fmt.Errorf("--freeze: %w", err)
			}
			if args.FreezeChildUnixTime, err = parseOptionalTime(freezeChildSwap); err != nil {
				return fmt.Errorf("--freeze-child: %w", err)
			}

			s, closeFn, err := c.openLedger()
			if err != nil {
				return err
			}
			defer closeFn()

			clock := c.clock()
			res, err := s.proc.InitializeEntangler(cmd.Context(), clock, accts, args)
			if err != nil {
				return err
			}
			return c.print(cmd, initEntanglerView{
				InstructionID:  res.InstructionID.String(),
				LamportsPaid:   res.LamportsPaid,
				Entangler:      entanglerView(res.Addresses.Entangler.Address, res.Entangler, clock.UnixTimestamp),
				ChildEntangler: childEntanglerView(res.Addresses.ChildEntangler.Address, res.ChildEntangler, clock.UnixTimestamp),
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&payer, "payer", "payer", "payer key name")
	f.StringVar(&mint, "mint", "", "parent mint address")
	f.StringVar(&childMint, "child-mint", "", "child mint address")
	f.StringVar(&seed, "seed", "", "seed string (at most 32 bytes)")
	f.StringVar(&seedHex, "seed-hex", "", "seed as hex bytes")
	f.StringVar(&authority, "authority", "", "optional authority address recorded on both registrations")
	f.StringVar(&goLive, "go-live", "", "parent go-live time (unix seconds or RFC 3339)")
	f.StringVar(&childGoLive, "child-go-live", "", "child go-live time")
	f.StringVar(&freezeSwap, "freeze", "", "parent freeze-swap time (empty: never)")
	f.StringVar(&freezeChildSwap, "freeze-child", "", "child freeze-swap time (empty: never)")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("child-mint")
	return cmd
}
