// Package fixture loads a ledger, a transaction and host limits from YAML so
// a guest can be run from the command line.
//
//	config:
//	  debug: true
//	header:
//	  sequence: 42
//	  base_fee: 10
//	amendments: [fixTokenEscrowV1]
//	objects:
//	  - account: rPT1Sjq2YGrBMTttX4GZHjKu9dyfzbpAYe
//	    fields: {Balance: "1000000", Sequence: 3}
//	current: rPT1Sjq2YGrBMTttX4GZHjKu9dyfzbpAYe
//	tx:
//	  TransactionType: 0
//	  Account: rPT1Sjq2YGrBMTttX4GZHjKu9dyfzbpAYe
//	function_params:
//	  - {type: uint32, value: 7}
package fixture

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/XRPLF/wasmhost"
	"github.com/XRPLF/wasmhost/internal/decfloat"
	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/ledger"
	"github.com/XRPLF/wasmhost/internal/sfield"
	"github.com/XRPLF/wasmhost/internal/sto"
	"github.com/XRPLF/wasmhost/types"
)

var ErrInvalidFixture = errors.New("invalid fixture")

// Fixture is the document form of one invocation.
type Fixture struct {
	// Config starts from types.DefaultHostConfig; listed keys override it.
	Config     types.HostConfig `yaml:"config"`
	Header     Header           `yaml:"header"`
	Amendments []string         `yaml:"amendments"`
	Objects    []Object         `yaml:"objects"`
	// Current is a hex key or a classic address naming an account root.
	Current        string         `yaml:"current"`
	Tx             map[string]any `yaml:"tx"`
	FunctionParams []Param        `yaml:"function_params"`
	InstanceParams []Param        `yaml:"instance_params"`
}

// Header is ledger.Header with hex hashes.
type Header struct {
	Sequence        uint32 `yaml:"sequence"`
	ParentCloseTime uint32 `yaml:"parent_close_time"`
	ParentHash      string `yaml:"parent_hash"`
	AccountHash     string `yaml:"account_hash"`
	TxHash          string `yaml:"tx_hash"`
	BaseFee         uint64 `yaml:"base_fee"`
}

// Object is a ledger entry placed either at an explicit key or, with
// Account set, at that account's root.
type Object struct {
	Key     string         `yaml:"key"`
	Account string         `yaml:"account"`
	Fields  map[string]any `yaml:"fields"`
}

// Param is a typed parameter: integers as numbers, hashes and blobs as hex,
// accounts as addresses, amounts as in ledger objects, numbers as decimal
// strings.
type Param struct {
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
}

// Load reads a fixture file.
func Load(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a fixture and validates its config.
func Decode(r io.Reader) (*Fixture, error) {
	fx := &Fixture{Config: types.DefaultHostConfig()}
	if err := yaml.NewDecoder(r).Decode(fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	if err := fx.Config.Validate(); err != nil {
		return nil, err
	}
	return fx, nil
}

// Build materialises the fixture in a fresh in-memory ledger.
func (fx *Fixture) Build() (*ledger.Store, wasmhost.Invocation, error) {
	h, err := fx.Header.ledger()
	if err != nil {
		return nil, wasmhost.Invocation{}, err
	}
	store := ledger.NewMemStore(h)
	inv, err := fx.Populate(store)
	return store, inv, err
}

// LedgerHeader is the fixture header in ledger form.
func (fx *Fixture) LedgerHeader() (ledger.Header, error) {
	return fx.Header.ledger()
}

// Populate writes the fixture's objects into store and returns the
// invocation reading it. The invocation's Store is store itself.
func (fx *Fixture) Populate(store *ledger.Store) (wasmhost.Invocation, error) {
	var inv wasmhost.Invocation
	var err error
	if len(fx.Amendments) > 0 {
		ids := make([]sto.Hash256, len(fx.Amendments))
		for i, a := range fx.Amendments {
			ids[i] = amendmentID(a)
		}
		obj := sto.NewObject().SetVector256(sfield.Amendments, ids)
		if err := store.Insert(keylet.Amendments(), obj); err != nil {
			return inv, err
		}
	}
	for i, o := range fx.Objects {
		if err := o.insert(store); err != nil {
			return inv, fmt.Errorf("%w: object %d: %v", ErrInvalidFixture, i, err)
		}
	}

	tx := sto.NewObject()
	if fx.Tx != nil {
		if tx, err = sto.FromMap(fx.Tx); err != nil {
			return inv, fmt.Errorf("%w: tx: %v", ErrInvalidFixture, err)
		}
	}
	current, err := objectKey(fx.Current)
	if err != nil {
		return inv, fmt.Errorf("%w: current: %v", ErrInvalidFixture, err)
	}
	fnParams, err := params(fx.FunctionParams)
	if err != nil {
		return inv, fmt.Errorf("%w: function_params: %v", ErrInvalidFixture, err)
	}
	instParams, err := params(fx.InstanceParams)
	if err != nil {
		return inv, fmt.Errorf("%w: instance_params: %v", ErrInvalidFixture, err)
	}
	inv = wasmhost.Invocation{
		View:           store,
		Store:          store,
		Tx:             tx,
		CurrentKey:     current,
		FunctionParams: fnParams,
		InstanceParams: instParams,
	}
	return inv, nil
}

func (h Header) ledger() (ledger.Header, error) {
	out := ledger.Header{
		Sequence:        h.Sequence,
		ParentCloseTime: h.ParentCloseTime,
		BaseFee:         h.BaseFee,
	}
	for _, x := range []struct {
		name string
		src  string
		dst  *sto.Hash256
	}{
		{"parent_hash", h.ParentHash, &out.ParentHash},
		{"account_hash", h.AccountHash, &out.AccountHash},
		{"tx_hash", h.TxHash, &out.TxHash},
	} {
		if x.src == "" {
			continue
		}
		v, err := sto.ParseHash256(x.src)
		if err != nil {
			return out, fmt.Errorf("%w: header %s: %v", ErrInvalidFixture, x.name, err)
		}
		*x.dst = v
	}
	return out, nil
}

// amendmentID accepts a 64-digit hex id or an amendment name.
func amendmentID(s string) sto.Hash256 {
	if id, err := sto.ParseHash256(s); err == nil {
		return id
	}
	return keylet.AmendmentID(s)
}

// objectKey resolves a hex key or a classic address. Empty is the zero key.
func objectKey(s string) (sto.Hash256, error) {
	if s == "" {
		return sto.Hash256{}, nil
	}
	if id, err := sto.ParseAddress(s); err == nil {
		return keylet.Account(id).Key, nil
	}
	return sto.ParseHash256(s)
}

func (o Object) insert(store *ledger.Store) error {
	obj, err := sto.FromMap(o.Fields)
	if err != nil {
		return err
	}
	switch {
	case o.Account != "" && o.Key != "":
		return errors.New("set key or account, not both")
	case o.Account != "":
		id, err := sto.ParseAddress(o.Account)
		if err != nil {
			return err
		}
		if !obj.Has(sfield.Account) {
			obj.SetAccount(sfield.Account, id)
		}
		return store.Insert(keylet.Account(id), obj)
	case o.Key != "":
		key, err := sto.ParseHash256(o.Key)
		if err != nil {
			return err
		}
		return store.Write(key, obj)
	}
	return errors.New("object needs a key or an account")
}

func params(in []Param) ([]types.Param, error) {
	out := make([]types.Param, 0, len(in))
	for i, p := range in {
		v, err := p.param()
		if err != nil {
			return nil, fmt.Errorf("%d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (p Param) param() (types.Param, error) {
	t, err := types.ParseParamType(p.Type)
	if err != nil {
		return types.Param{}, err
	}
	var data []byte
	switch t {
	case types.ParamUint8, types.ParamUint16, types.ParamUint32, types.ParamUint64:
		bits := 8 << (t - types.ParamUint8)
		u, err := strconv.ParseUint(fmt.Sprint(p.Value), 0, bits)
		if err != nil {
			return types.Param{}, fmt.Errorf("%w: %v", types.ErrInvalidParam, err)
		}
		data = binary.LittleEndian.AppendUint64(nil, u)[:bits/8]
	case types.ParamUint128, types.ParamUint160, types.ParamUint192, types.ParamUint256, types.ParamVL:
		s, _ := p.Value.(string)
		if data, err = hex.DecodeString(s); err != nil {
			return types.Param{}, fmt.Errorf("%w: %v", types.ErrInvalidParam, err)
		}
	case types.ParamAccount:
		s, _ := p.Value.(string)
		id, err := sto.ParseAddress(s)
		if err != nil {
			return types.Param{}, err
		}
		data = id[:]
	case types.ParamAmount:
		a, err := sto.AmountFromText(p.Value)
		if err != nil {
			return types.Param{}, err
		}
		if data, err = a.Bytes(); err != nil {
			return types.Param{}, err
		}
	case types.ParamNumber:
		n, err := decfloat.Parse(fmt.Sprint(p.Value), decfloat.ToNearest)
		if err != nil {
			return types.Param{}, err
		}
		b, err := n.Bytes()
		if err != nil {
			return types.Param{}, err
		}
		data = b[:]
	}
	v := types.BytesParam(t, data)
	return v, v.Validate()
}
