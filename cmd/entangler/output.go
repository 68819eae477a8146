package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/entangler"
)

// print writes v to the command output as YAML, or JSON with --json.
func (c *cli) print(cmd *cobra.Command, v any) error {
	w := cmd.OutOrStdout()
	if c.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

type configView struct {
	DataDir   string `json:"datadir" yaml:"datadir"`
	ProgramID string `json:"programid" yaml:"programid"`
	LogLevel  string `json:"loglevel" yaml:"loglevel"`
	LogFormat string `json:"logformat" yaml:"logformat"`
	LogFile   string `json:"logfile" yaml:"logfile"`
}

type keyView struct {
	Name     string `json:"name" yaml:"name"`
	Address  string `json:"address" yaml:"address"`
	Path     string `json:"path" yaml:"path"`
	KeyFile  string `json:"key_file" yaml:"key_file"`
	Mnemonic string `json:"mnemonic,omitempty" yaml:"mnemonic,omitempty"`
}

type balanceView struct {
	Address  string `json:"address" yaml:"address"`
	Owner    string `json:"owner" yaml:"owner"`
	Lamports uint64 `json:"lamports" yaml:"lamports"`
}

type mintView struct {
	Address   string `json:"address" yaml:"address"`
	Decimals  uint8  `json:"decimals" yaml:"decimals"`
	Supply    uint64 `json:"supply" yaml:"supply"`
	Authority string `json:"authority,omitempty" yaml:"authority,omitempty"`
	Lamports  uint64 `json:"lamports" yaml:"lamports"`
}

type tokenAccountView struct {
	Address  string `json:"address" yaml:"address"`
	Mint     string `json:"mint" yaml:"mint"`
	Owner    string `json:"owner" yaml:"owner"`
	Amount   uint64 `json:"amount" yaml:"amount"`
	Lamports uint64 `json:"lamports" yaml:"lamports"`
}

type derivedView struct {
	Address string `json:"address" yaml:"address"`
	Bump    uint8  `json:"bump" yaml:"bump"`
}

func newDerivedView(d entangler.DerivedAddress) derivedView {
	return derivedView{Address: d.Address.String(), Bump: d.Bump}
}

type registrationView struct {
	Address            string `json:"address" yaml:"address"`
	Kind               string `json:"kind" yaml:"kind"`
	Status             string `json:"status" yaml:"status"`
	ParentEntangler    string `json:"parent_entangler,omitempty" yaml:"parent_entangler,omitempty"`
	Authority          string `json:"authority,omitempty" yaml:"authority,omitempty"`
	Mint               string `json:"mint" yaml:"mint"`
	Storage            string `json:"storage" yaml:"storage"`
	GoLiveUnixTime     int64  `json:"go_live_unix_time" yaml:"go_live_unix_time"`
	FreezeSwapUnixTime *int64 `json:"freeze_swap_unix_time,omitempty" yaml:"freeze_swap_unix_time,omitempty"`
	CreatedAtUnixTime  int64  `json:"created_at_unix_time" yaml:"created_at_unix_time"`
	Bump               uint8  `json:"bump" yaml:"bump"`
	StorageBump        uint8  `json:"storage_bump" yaml:"storage_bump"`
}

func optionalString(o entangler.Optional[address.Address]) string {
	if a, ok := o.Get(); ok {
		return a.String()
	}
	return ""
}

func optionalTime(o entangler.Optional[int64]) *int64 {
	if v, ok := o.Get(); ok {
		return &v
	}
	return nil
}

func entanglerView(addr address.Address, e *entangler.Entangler, now int64) registrationView {
	return registrationView{
		Address:            addr.String(),
		Kind:               "entangler",
		Status:             e.Status(now).String(),
		Authority:          optionalString(e.Authority),
		Mint:               e.Mint.String(),
		Storage:            e.Storage.String(),
		GoLiveUnixTime:     e.GoLiveUnixTime,
		FreezeSwapUnixTime: optionalTime(e.FreezeSwapUnixTime),
		CreatedAtUnixTime:  e.CreatedAtUnixTime,
		Bump:               e.BumpSeed,
		StorageBump:        e.StorageBumpSeed,
	}
}

func childEntanglerView(addr address.Address, ce *entangler.ChildEntangler, now int64) registrationView {
	return registrationView{
		Address:            addr.String(),
		Kind:               "child_entangler",
		Status:             ce.Status(now).String(),
		ParentEntangler:    ce.ParentEntangler.String(),
		Authority:          optionalString(ce.Authority),
		Mint:               ce.Mint.String(),
		Storage:            ce.Storage.String(),
		GoLiveUnixTime:     ce.GoLiveUnixTime,
		FreezeSwapUnixTime: optionalTime(ce.FreezeSwapUnixTime),
		CreatedAtUnixTime:  ce.CreatedAtUnixTime,
		Bump:               ce.BumpSeed,
		StorageBump:        ce.StorageBumpSeed,
	}
}
