package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/sto"
)

// keyletKind derives a keylet from its command line arguments.
type keyletKind struct {
	usage string
	nargs int
	build func(args []string) (keylet.Keylet, error)
}

func accountKeylet(f func(sto.AccountID) keylet.Keylet) keyletKind {
	return keyletKind{"ACCOUNT", 1, func(a []string) (keylet.Keylet, error) {
		id, err := sto.ParseAddress(a[0])
		return f(id), err
	}}
}

func seqKeylet(f func(sto.AccountID, uint32) keylet.Keylet) keyletKind {
	return keyletKind{"ACCOUNT SEQ", 2, func(a []string) (keylet.Keylet, error) {
		id, err := sto.ParseAddress(a[0])
		if err != nil {
			return keylet.Keylet{}, err
		}
		seq, err := parseSeq(a[1])
		return f(id, seq), err
	}}
}

func pairKeylet(f func(a, b sto.AccountID) keylet.Keylet) keyletKind {
	return keyletKind{"ACCOUNT ACCOUNT", 2, func(a []string) (keylet.Keylet, error) {
		ids, err := parseAccounts(a)
		if err != nil {
			return keylet.Keylet{}, err
		}
		return f(ids[0], ids[1]), nil
	}}
}

var keyletKinds = map[string]keyletKind{
	"account":             accountKeylet(keylet.Account),
	"owner_dir":           accountKeylet(keylet.OwnerDir),
	"signers":             accountKeylet(keylet.Signers),
	"did":                 accountKeylet(keylet.DID),
	"offer":               seqKeylet(keylet.Offer),
	"check":               seqKeylet(keylet.Check),
	"escrow":              seqKeylet(keylet.Escrow),
	"ticket":              seqKeylet(keylet.Ticket),
	"nft_offer":           seqKeylet(keylet.NFTOffer),
	"oracle":              seqKeylet(keylet.Oracle),
	"permissioned_domain": seqKeylet(keylet.PermissionedDomain),
	"vault":               seqKeylet(keylet.Vault),
	"deposit_preauth":     pairKeylet(keylet.DepositPreauth),
	"delegate":            pairKeylet(keylet.Delegate),
	"line": {"ACCOUNT ACCOUNT CURRENCY", 3, func(a []string) (keylet.Keylet, error) {
		ids, err := parseAccounts(a[:2])
		if err != nil {
			return keylet.Keylet{}, err
		}
		c, err := sto.CurrencyFromCode(a[2])
		return keylet.Line(ids[0], ids[1], c), err
	}},
	"paychan": {"SOURCE DESTINATION SEQ", 3, func(a []string) (keylet.Keylet, error) {
		ids, err := parseAccounts(a[:2])
		if err != nil {
			return keylet.Keylet{}, err
		}
		seq, err := parseSeq(a[2])
		return keylet.PayChan(ids[0], ids[1], seq), err
	}},
	"credential": {"SUBJECT ISSUER TYPE", 3, func(a []string) (keylet.Keylet, error) {
		ids, err := parseAccounts(a[:2])
		if err != nil {
			return keylet.Keylet{}, err
		}
		return keylet.Credential(ids[0], ids[1], []byte(a[2])), nil
	}},
	"mpt_issuance": {"ISSUER SEQ", 2, func(a []string) (keylet.Keylet, error) {
		id, err := sto.ParseAddress(a[0])
		if err != nil {
			return keylet.Keylet{}, err
		}
		seq, err := parseSeq(a[1])
		return keylet.MPTIssuance(keylet.MakeMPTID(seq, id)), err
	}},
	"mptoken": {"ISSUER SEQ HOLDER", 3, func(a []string) (keylet.Keylet, error) {
		ids, err := parseAccounts([]string{a[0], a[2]})
		if err != nil {
			return keylet.Keylet{}, err
		}
		seq, err := parseSeq(a[1])
		return keylet.MPToken(keylet.MakeMPTID(seq, ids[0]), ids[1]), err
	}},
	"amendments": {"", 0, func([]string) (keylet.Keylet, error) { return keylet.Amendments(), nil }},
	"fees":       {"", 0, func([]string) (keylet.Keylet, error) { return keylet.Fees(), nil }},
}

func parseAccounts(args []string) ([]sto.AccountID, error) {
	out := make([]sto.AccountID, len(args))
	for i, a := range args {
		id, err := sto.ParseAddress(a)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func parseSeq(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("sequence %q: %w", s, err)
	}
	return uint32(v), nil
}

var keyletCmd = &cobra.Command{
	Use:   "keylet KIND ARGS...",
	Short: "Print the ledger key of an object",
	Long:  "Print the ledger key of an object. Kinds and their arguments:\n\n" + keyletUsage(),
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := keyletKinds[args[0]]
		if !ok {
			return fmt.Errorf("unknown keylet kind %q", args[0])
		}
		if len(args)-1 != kind.nargs {
			return fmt.Errorf("usage: keylet %s %s", args[0], kind.usage)
		}
		k, err := kind.build(args[1:])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), k.Key)
		return nil
	},
}

func keyletUsage() string {
	names := make([]string, 0, len(keyletKinds))
	for n := range keyletKinds {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, n := range names {
		fmt.Fprintf(&b, "  %-20s %s\n", n, keyletKinds[n].usage)
	}
	return b.String()
}
