package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/XRPLF/wasmhost"
	"github.com/XRPLF/wasmhost/internal/fixture"
	"github.com/XRPLF/wasmhost/internal/ledger"
	"github.com/XRPLF/wasmhost/internal/sfield"
)

var (
	runFixture string
	runEntry   string
	runCodeDir string
	runTimeout time.Duration
	runLedger  string
)

var runCmd = &cobra.Command{
	Use:   "run GUEST.wasm",
	Short: "Run a guest's entry function against a fixture",
	Long: `Run compiles GUEST.wasm, loads the ledger described by --fixture and
calls the entry function once. The result is printed as YAML. When the
guest succeeds after staging an update, the new Data of the current
object is printed too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var fx *fixture.Fixture
		if runFixture != "" {
			fx, err = fixture.Load(runFixture)
		} else {
			fx, err = fixture.Decode(strings.NewReader(""))
		}
		if err != nil {
			return err
		}
		if verbose {
			fx.Config.Debug = true
		}
		store, inv, err := build(fx)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runTimeout)
			defer cancel()
		}
		var opts []wasmhost.Option
		if runCodeDir != "" {
			opts = append(opts, wasmhost.WithCodeDir(runCodeDir))
		}
		vm, err := wasmhost.NewVM(ctx, fx.Config, logger(), opts...)
		if err != nil {
			return err
		}
		defer vm.Close(context.Background())

		sum, err := vm.Compile(ctx, code)
		if err != nil {
			return err
		}
		res, err := vm.Run(ctx, sum, runEntry, inv)
		if err != nil {
			return err
		}

		out := report{
			Invocation: res.Invocation.String(),
			Checksum:   sum.String(),
			Code:       res.Code,
			Updated:    res.Updated,
			Traces:     res.TraceCount,
		}
		if !res.Success() {
			out.Category = res.Category.String()
			out.Reason = res.Reason.String()
		}
		if res.Updated {
			obj, err := store.Read(inv.CurrentKey)
			if err != nil {
				return fmt.Errorf("read updated object: %w", err)
			}
			if data, ok := obj.Blob(sfield.Data); ok {
				out.Data = hex.EncodeToString(data)
			}
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(out)
	},
}

// build loads the fixture into a fresh ledger, or into the one persisted in
// --ledger-dir so updates carry over between runs.
func build(fx *fixture.Fixture) (*ledger.Store, wasmhost.Invocation, error) {
	if runLedger == "" {
		return fx.Build()
	}
	h, err := fx.LedgerHeader()
	if err != nil {
		return nil, wasmhost.Invocation{}, err
	}
	store, err := ledger.OpenStore(runLedger, h)
	if err != nil {
		return nil, wasmhost.Invocation{}, err
	}
	inv, err := fx.Populate(store)
	if err != nil {
		store.Close()
		return nil, wasmhost.Invocation{}, err
	}
	return store, inv, nil
}

type report struct {
	Invocation string `yaml:"invocation"`
	Checksum   string `yaml:"checksum"`
	Code       int32  `yaml:"code"`
	Category   string `yaml:"category,omitempty"`
	Reason     string `yaml:"reason,omitempty"`
	Updated    bool   `yaml:"updated"`
	Data       string `yaml:"data,omitempty"`
	Traces     int    `yaml:"traces"`
}

func init() {
	runCmd.Flags().StringVarP(&runFixture, "fixture", "f", "", "YAML ledger fixture")
	runCmd.Flags().StringVarP(&runEntry, "entry", "e", "finish", "exported entry function")
	runCmd.Flags().StringVar(&runCodeDir, "code-dir", "", "persist compiled code in this directory")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "abort the guest after this long")
	runCmd.Flags().StringVar(&runLedger, "ledger-dir", "", "keep the ledger in a LevelDB database in this directory")
}
