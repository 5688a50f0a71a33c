package sto

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/XRPLF/wasmhost/internal/decfloat"
)

// AssetKind tells native, issued and multi-purpose token values apart.
type AssetKind uint8

const (
	KindXRP AssetKind = iota
	KindIOU
	KindMPT
)

func (k AssetKind) String() string {
	switch k {
	case KindXRP:
		return "XRP"
	case KindIOU:
		return "IOU"
	case KindMPT:
		return "MPT"
	}
	return "AssetKind(" + strconv.Itoa(int(k)) + ")"
}

// Issue names an asset without a quantity.
type Issue struct {
	Kind     AssetKind
	Currency Currency
	Issuer   AccountID
	MPT      MPTID
}

// XRPIssue is the native asset.
func XRPIssue() Issue { return Issue{Kind: KindXRP} }

// IOUIssue is an issued currency.
func IOUIssue(c Currency, issuer AccountID) Issue {
	return Issue{Kind: KindIOU, Currency: c, Issuer: issuer}
}

// MPTIssue is a multi-purpose token issuance.
func MPTIssue(id MPTID) Issue { return Issue{Kind: KindMPT, MPT: id} }

// Bytes returns 20 zero bytes for XRP, currency||issuer for IOUs and the
// issuance id for MPTs.
func (i Issue) Bytes() []byte {
	switch i.Kind {
	case KindIOU:
		out := make([]byte, 0, CurrencySize+AccountIDSize)
		out = append(out, i.Currency[:]...)
		return append(out, i.Issuer[:]...)
	case KindMPT:
		return append([]byte(nil), i.MPT[:]...)
	}
	return make([]byte, CurrencySize)
}

// ParseIssue is the inverse of Bytes.
func ParseIssue(b []byte) (Issue, error) {
	switch len(b) {
	case CurrencySize:
		if !Currency(b).IsZero() {
			return Issue{}, fmt.Errorf("%w: bare currency must be XRP", ErrInvalidEncoding)
		}
		return XRPIssue(), nil
	case CurrencySize + AccountIDSize:
		c := Currency(b[:CurrencySize])
		if c.IsZero() {
			return Issue{}, fmt.Errorf("%w: issued currency is XRP", ErrInvalidEncoding)
		}
		return IOUIssue(c, AccountID(b[CurrencySize:])), nil
	case MPTIDSize:
		return MPTIssue(MPTID(b)), nil
	}
	return Issue{}, fmt.Errorf("%w: issue of %d bytes", ErrInvalidEncoding, len(b))
}

func (i Issue) String() string {
	switch i.Kind {
	case KindIOU:
		return i.Currency.String() + "/" + i.Issuer.String()
	case KindMPT:
		return i.MPT.String()
	}
	return "XRP"
}

// amount header bits
const (
	notNativeBit uint64 = 1 << 63
	positiveBit  uint64 = 1 << 62
	mptBit       uint64 = 1 << 61
	valueMask    uint64 = 1<<61 - 1

	XRPAmountSize = 8
	IOUAmountSize = 8 + CurrencySize + AccountIDSize
	MPTAmountSize = 1 + 8 + MPTIDSize

	// MaxDrops is the total native supply in drops.
	MaxDrops = 100_000_000_000_000_000
)

// Amount is a quantity of some asset. Drops is used for XRP, Value for
// issued currencies and Units for multi-purpose tokens.
type Amount struct {
	Issue Issue
	Drops int64
	Value decfloat.Number
	Units int64
}

func XRP(drops int64) Amount { return Amount{Issue: XRPIssue(), Drops: drops} }

func IOU(v decfloat.Number, c Currency, issuer AccountID) Amount {
	return Amount{Issue: IOUIssue(c, issuer), Value: v}
}

func MPT(units int64, id MPTID) Amount { return Amount{Issue: MPTIssue(id), Units: units} }

// Bytes returns the canonical leaf encoding: 8 bytes for XRP, 48 for IOUs
// and 33 for MPTs.
func (a Amount) Bytes() ([]byte, error) {
	switch a.Issue.Kind {
	case KindXRP:
		v, neg := magnitude(a.Drops)
		if v > MaxDrops {
			return nil, fmt.Errorf("%w: %d drops", ErrInvalidEncoding, a.Drops)
		}
		if !neg {
			v |= positiveBit
		}
		return binary.BigEndian.AppendUint64(nil, v), nil
	case KindIOU:
		f, err := a.Value.Bytes()
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, IOUAmountSize)
		out = append(out, f[:]...)
		out = append(out, a.Issue.Currency[:]...)
		return append(out, a.Issue.Issuer[:]...), nil
	case KindMPT:
		v, neg := magnitude(a.Units)
		flags := byte(mptBit >> 56)
		if !neg {
			flags |= byte(positiveBit >> 56)
		}
		out := make([]byte, 0, MPTAmountSize)
		out = append(out, flags)
		out = binary.BigEndian.AppendUint64(out, v)
		return append(out, a.Issue.MPT[:]...), nil
	}
	return nil, fmt.Errorf("%w: asset kind %v", ErrInvalidEncoding, a.Issue.Kind)
}

func magnitude(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}

// ParseAmount decodes any of the three amount encodings.
func ParseAmount(b []byte) (Amount, error) {
	switch len(b) {
	case XRPAmountSize:
		v := binary.BigEndian.Uint64(b)
		if v&(notNativeBit|mptBit) != 0 {
			return Amount{}, fmt.Errorf("%w: native amount flags", ErrInvalidEncoding)
		}
		drops := v & valueMask
		if drops > MaxDrops {
			return Amount{}, fmt.Errorf("%w: native amount too large", ErrInvalidEncoding)
		}
		if v&positiveBit == 0 {
			return XRP(-int64(drops)), nil
		}
		return XRP(int64(drops)), nil
	case IOUAmountSize:
		n, err := decfloat.Decode(b[:8])
		if err != nil {
			return Amount{}, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		issue, err := ParseIssue(b[8:])
		if err != nil {
			return Amount{}, err
		}
		return Amount{Issue: issue, Value: n}, nil
	case MPTAmountSize:
		flags := uint64(b[0]) << 56
		if flags&notNativeBit != 0 || flags&mptBit == 0 {
			return Amount{}, fmt.Errorf("%w: token amount flags", ErrInvalidEncoding)
		}
		v := binary.BigEndian.Uint64(b[1:9])
		if v > 1<<63-1 {
			return Amount{}, fmt.Errorf("%w: token amount too large", ErrInvalidEncoding)
		}
		units := int64(v)
		if flags&positiveBit == 0 {
			units = -units
		}
		return MPT(units, MPTID(b[9:])), nil
	}
	return Amount{}, fmt.Errorf("%w: amount of %d bytes", ErrInvalidEncoding, len(b))
}

// String renders value/currency[/issuer].
func (a Amount) String() string {
	switch a.Issue.Kind {
	case KindIOU:
		return a.Value.String() + "/" + a.Issue.String()
	case KindMPT:
		return strconv.FormatInt(a.Units, 10) + "/" + a.Issue.String()
	}
	return strconv.FormatInt(a.Drops, 10) + "/XRP"
}
