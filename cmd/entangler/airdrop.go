package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/entangler-go/ledger"
)

func newAirdropCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <address|key> <lamports>",
		Short: "Credit lamports to an account on the local ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := c.resolveAddress(args[0])
			if err != nil {
				return err
			}
			lamports, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return err
			}

			s, closeFn, err := c.openLedger()
			if err != nil {
				return err
			}
			defer closeFn()

			cs := ledger.NewChangeSet()
			cs.Credit(to, lamports)
			if err := s.store.Commit(cs); err != nil {
				return err
			}
			acct, err := s.store.GetAccount(to)
			if err != nil {
				return err
			}
			c.logger.Info("airdrop", "address", to.String(), "lamports", lamports, "balance", acct.Lamports)
			return c.print(cmd, balanceView{Address: to.String(), Owner: acct.Owner.String(), Lamports: acct.Lamports})
		},
	}
}
