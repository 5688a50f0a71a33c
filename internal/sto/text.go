package sto

import (
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/XRPLF/wasmhost/internal/decfloat"
	"github.com/XRPLF/wasmhost/internal/sfield"
)

// FromMap builds an object from a document keyed by field name, as decoded
// from YAML or JSON. Hashes and blobs are hex strings, accounts are classic
// addresses, amounts are drop strings or maps with value/currency/issuer or
// value/mpt_issuance_id, and arrays are lists of single-key wrapper maps.
func FromMap(doc map[string]any) (*Object, error) {
	o := NewObject()
	names := make([]string, 0, len(doc))
	for k := range doc {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		f, ok := sfield.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		if err := setFromText(o, f, doc[name]); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
	}
	return o, nil
}

func setFromText(o *Object, f *sfield.Field, v any) error {
	switch f.Type {
	case sfield.TypeUInt8, sfield.TypeUInt16, sfield.TypeUInt32, sfield.TypeUInt64:
		return setUint(o, f, v)
	case sfield.TypeHash128, sfield.TypeHash160, sfield.TypeHash192, sfield.TypeHash256:
		b, err := hexValue(v)
		if err != nil {
			return err
		}
		if len(b) != hashWidth(f.Type) {
			return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidEncoding, hashWidth(f.Type), len(b))
		}
		o.SetHash(f, b)
	case sfield.TypeVector256:
		list, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%w: vector must be a list", ErrInvalidEncoding)
		}
		hs := make([]Hash256, len(list))
		for i, item := range list {
			s, _ := item.(string)
			h, err := ParseHash256(s)
			if err != nil {
				return err
			}
			hs[i] = h
		}
		o.SetVector256(f, hs)
	case sfield.TypeBlob:
		b, err := hexValue(v)
		if err != nil {
			return err
		}
		o.SetBlob(f, b)
	case sfield.TypeAccount:
		a, err := accountValue(v)
		if err != nil {
			return err
		}
		o.SetAccount(f, a)
	case sfield.TypeCurrency:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: currency must be a string", ErrInvalidEncoding)
		}
		c, err := CurrencyFromCode(s)
		if err != nil {
			return err
		}
		o.SetCurrency(f, c)
	case sfield.TypeIssue:
		i, err := issueValue(v)
		if err != nil {
			return err
		}
		o.SetIssue(f, i)
	case sfield.TypeAmount:
		a, err := AmountFromText(v)
		if err != nil {
			return err
		}
		return o.SetAmount(f, a)
	case sfield.TypeNumber:
		n, err := decfloat.Parse(fmt.Sprint(v), decfloat.ToNearest)
		if err != nil {
			return err
		}
		o.SetNumber(f, n)
	case sfield.TypeObject:
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: object must be a map", ErrInvalidEncoding)
		}
		inner, err := FromMap(m)
		if err != nil {
			return err
		}
		o.SetObject(f, inner)
	case sfield.TypeArray:
		list, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%w: array must be a list", ErrInvalidEncoding)
		}
		arr := make(Array, 0, len(list))
		for i, item := range list {
			el, err := elementValue(item)
			if err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			arr = append(arr, el)
		}
		o.SetArray(f, arr)
	default:
		return fmt.Errorf("%w: unsupported type %v", ErrInvalidEncoding, f.Type)
	}
	return nil
}

func setUint(o *Object, f *sfield.Field, v any) error {
	u, err := uintValue(v)
	if err != nil {
		return err
	}
	switch f.Type {
	case sfield.TypeUInt8:
		if u > math.MaxUint8 {
			return fmt.Errorf("%w: %d overflows UInt8", ErrInvalidEncoding, u)
		}
		o.SetUint8(f, uint8(u))
	case sfield.TypeUInt16:
		if u > math.MaxUint16 {
			return fmt.Errorf("%w: %d overflows UInt16", ErrInvalidEncoding, u)
		}
		o.SetUint16(f, uint16(u))
	case sfield.TypeUInt32:
		if u > math.MaxUint32 {
			return fmt.Errorf("%w: %d overflows UInt32", ErrInvalidEncoding, u)
		}
		o.SetUint32(f, uint32(u))
	default:
		o.SetUint64(f, u)
	}
	return nil
}

func uintValue(v any) (uint64, error) {
	switch x := v.(type) {
	case int:
		if x >= 0 {
			return uint64(x), nil
		}
	case int64:
		if x >= 0 {
			return uint64(x), nil
		}
	case uint64:
		return x, nil
	case float64:
		if x >= 0 && x == math.Trunc(x) && x <= math.MaxUint64 {
			return uint64(x), nil
		}
	case string:
		if strings.HasPrefix(x, "0x") {
			return strconv.ParseUint(x[2:], 16, 64)
		}
		return strconv.ParseUint(x, 10, 64)
	}
	return 0, fmt.Errorf("%w: %v is not an unsigned integer", ErrInvalidEncoding, v)
}

func hexValue(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: want a hex string", ErrInvalidEncoding)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}

func accountValue(v any) (AccountID, error) {
	s, ok := v.(string)
	if !ok {
		return AccountID{}, fmt.Errorf("%w: want an address", ErrInvalidEncoding)
	}
	if len(s) == 2*AccountIDSize {
		if b, err := hex.DecodeString(s); err == nil {
			return AccountID(b), nil
		}
	}
	return ParseAddress(s)
}

func issueValue(v any) (Issue, error) {
	switch x := v.(type) {
	case string:
		if x == "XRP" {
			return XRPIssue(), nil
		}
	case map[string]any:
		if id, ok := x["mpt_issuance_id"]; ok {
			b, err := hexValue(id)
			if err != nil || len(b) != MPTIDSize {
				return Issue{}, fmt.Errorf("%w: mpt_issuance_id", ErrInvalidEncoding)
			}
			return MPTIssue(MPTID(b)), nil
		}
		code, _ := x["currency"].(string)
		c, err := CurrencyFromCode(code)
		if err != nil {
			return Issue{}, err
		}
		if c.IsZero() {
			return XRPIssue(), nil
		}
		iss, err := accountValue(x["issuer"])
		if err != nil {
			return Issue{}, err
		}
		return IOUIssue(c, iss), nil
	}
	return Issue{}, fmt.Errorf("%w: issue %v", ErrInvalidEncoding, v)
}

// AmountFromText parses a drops value or an issued/token amount map.
func AmountFromText(v any) (Amount, error) {
	m, ok := v.(map[string]any)
	if !ok {
		drops, err := strconv.ParseInt(fmt.Sprint(v), 10, 64)
		if err != nil {
			return Amount{}, fmt.Errorf("%w: drops %v", ErrInvalidEncoding, v)
		}
		return XRP(drops), nil
	}
	issue, err := issueValue(m)
	if err != nil {
		return Amount{}, err
	}
	value := fmt.Sprint(m["value"])
	switch issue.Kind {
	case KindMPT:
		units, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Amount{}, fmt.Errorf("%w: token value %q", ErrInvalidEncoding, value)
		}
		return MPT(units, issue.MPT), nil
	case KindIOU:
		n, err := decfloat.Parse(value, decfloat.ToNearest)
		if err != nil {
			return Amount{}, err
		}
		return Amount{Issue: issue, Value: n}, nil
	}
	return AmountFromText(value)
}

func elementValue(item any) (Element, error) {
	m, ok := item.(map[string]any)
	if !ok || len(m) != 1 {
		return Element{}, fmt.Errorf("%w: element must be a single-key map", ErrInvalidEncoding)
	}
	for name, body := range m {
		f, ok := sfield.ByName(name)
		if !ok || f.Type != sfield.TypeObject {
			return Element{}, fmt.Errorf("%w: %q is not an object field", ErrInvalidEncoding, name)
		}
		inner, ok := body.(map[string]any)
		if !ok {
			return Element{}, fmt.Errorf("%w: %s must be a map", ErrInvalidEncoding, name)
		}
		obj, err := FromMap(inner)
		if err != nil {
			return Element{}, err
		}
		return Element{Field: f, Object: obj}, nil
	}
	return Element{}, nil
}
