package main

import (
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/spf13/cobra"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/ledger"
	"github.com/bitfsorg/entangler-go/token"
)

func newCreateMintCmd(c *cli) *cobra.Command {
	var (
		payer    string
		decimals uint8
	)
	cmd := &cobra.Command{
		Use:   "create-mint",
		Short: "Create an initialized token mint funded by the payer",
		Long: `create-mint places a new mint at a fresh key-controlled address. The
payer becomes the mint authority and pays the rent-exempt minimum.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, payerAddr, err := c.loadKey(payer)
			if err != nil {
				return err
			}
			mintKey, err := ec.NewPrivateKey()
			if err != nil {
				return err
			}
			mintAddr, err := address.FromPublicKey(mintKey.PubKey())
			if err != nil {
				return err
			}

			s, closeFn, err := c.openLedger()
			if err != nil {
				return err
			}
			defer closeFn()

			lamports := ledger.DefaultRent.MinimumBalance(token.MintSize)
			tokens := token.NewProgram(s.store)
			cs := ledger.NewChangeSet()
			tokens.InitializeMint(cs, mintAddr, decimals, &payerAddr, lamports)
			cs.Debit(payerAddr, lamports)
			if err := s.store.Commit(cs); err != nil {
				return err
			}
			c.logger.Info("mint created", "mint", mintAddr.String(), "decimals", decimals, "authority", payerAddr.String())

			return c.print(cmd, mintView{
				Address:   mintAddr.String(),
				Decimals:  decimals,
				Authority: payerAddr.String(),
				Lamports:  lamports,
			})
		},
	}
	cmd.Flags().StringVar(&payer, "payer", "payer", "payer key name")
	cmd.Flags().Uint8Var(&decimals, "decimals", 9, "mint decimals")
	return cmd
}
