package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/entangler"
	"github.com/bitfsorg/entangler-go/token"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <address>",
		Short: "Describe the account at an address",
		Long: `show decodes the account at an address: an entangler or child entangler
registration with its swap status, a token vault, a mint, or a plain
lamport balance. A vacant address reports status "uninitialized".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := address.ParseAddress(args[0])
			if err != nil {
				return err
			}
			s, closeFn, err := c.openLedger()
			if err != nil {
				return err
			}
			defer closeFn()

			view, err := c.describe(s, addr)
			if err != nil {
				return err
			}
			return c.print(cmd, view)
		},
	}
}

type vacantView struct {
	Address string `json:"address" yaml:"address"`
	Status  string `json:"status" yaml:"status"`
}

func (c *cli) describe(s *session, addr address.Address) (any, error) {
	now := c.clock().UnixTimestamp

	ok, err := s.store.HasAccount(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return vacantView{Address: addr.String(), Status: entangler.StatusUninitialized.String()}, nil
	}

	acct, err := s.store.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	switch acct.Owner {
	case s.proc.ProgramID():
		e, err := s.proc.GetEntangler(addr)
		if err == nil {
			return entanglerView(addr, e, now), nil
		}
		if !errors.Is(err, entangler.ErrAccountDiscriminator) {
			return nil, err
		}
		ce, err := s.proc.GetChildEntangler(addr)
		if err != nil {
			return nil, err
		}
		return childEntanglerView(addr, ce, now), nil

	case token.ProgramID:
		tokens := token.NewProgram(s.store)
		if m, err := tokens.Mint(addr); err == nil {
			view := mintView{Address: addr.String(), Decimals: m.Decimals, Supply: m.Supply, Lamports: acct.Lamports}
			if m.HasMintAuthority {
				view.Authority = m.MintAuthority.String()
			}
			return view, nil
		}
		ta, err := tokens.TokenAccount(addr)
		if err != nil {
			return nil, err
		}
		return tokenAccountView{
			Address:  addr.String(),
			Mint:     ta.Mint.String(),
			Owner:    ta.Owner.String(),
			Amount:   ta.Amount,
			Lamports: acct.Lamports,
		}, nil
	}

	return balanceView{Address: addr.String(), Owner: acct.Owner.String(), Lamports: acct.Lamports}, nil
}

func newChildrenCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "children <entangler>",
		Short: "List the child entanglers attached to a parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := address.ParseAddress(args[0])
			if err != nil {
				return err
			}
			s, closeFn, err := c.openLedger()
			if err != nil {
				return err
			}
			defer closeFn()

			if _, err := s.proc.GetEntangler(parent); err != nil {
				return err
			}
			entries, err := s.proc.ListChildEntanglers(parent)
			if err != nil {
				return err
			}
			now := c.clock().UnixTimestamp
			views := make([]registrationView, 0, len(entries))
			for _, e := range entries {
				views = append(views, childEntanglerView(e.Address, e.ChildEntangler, now))
			}
			return c.print(cmd, views)
		},
	}
}
