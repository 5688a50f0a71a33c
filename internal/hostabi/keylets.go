package hostabi

import (
	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/sto"
)

// Keylet host functions derive a 32-byte ledger key from guest inputs and
// write it to [out, out+outLen). Sequence numbers arrive as i32 and are
// reinterpreted as unsigned.

func (g gateway) key(out, outLen int32, k keylet.Keylet) (int32, error) {
	return g.write(out, outLen, k.Key[:])
}

// accountKey covers the keylets derived from a single account.
func (c *Context) accountKey(mem Memory, acc, accLen, out, outLen int32, derive func(sto.AccountID) keylet.Keylet) (int32, error) {
	g := c.gateway(mem)
	a, err := g.nonZeroAccount(acc, accLen)
	if err != nil {
		return 0, err
	}
	return g.key(out, outLen, derive(a))
}

// sequencedKey covers the keylets derived from an account and a sequence.
func (c *Context) sequencedKey(mem Memory, acc, accLen, seq, out, outLen int32, derive func(sto.AccountID, uint32) keylet.Keylet) (int32, error) {
	g := c.gateway(mem)
	a, err := g.nonZeroAccount(acc, accLen)
	if err != nil {
		return 0, err
	}
	return g.key(out, outLen, derive(a, uint32(seq)))
}

// pairKey covers the keylets derived from two distinct accounts.
func (c *Context) pairKey(mem Memory, a1, a1Len, a2, a2Len, out, outLen int32, derive func(a, b sto.AccountID) keylet.Keylet) (int32, error) {
	g := c.gateway(mem)
	a, err := g.nonZeroAccount(a1, a1Len)
	if err != nil {
		return 0, err
	}
	b, err := g.nonZeroAccount(a2, a2Len)
	if err != nil {
		return 0, err
	}
	if a == b {
		return 0, ErrInvalidParams
	}
	return g.key(out, outLen, derive(a, b))
}

func (c *Context) AccountKeylet(mem Memory, acc, accLen, out, outLen int32) (int32, error) {
	return c.accountKey(mem, acc, accLen, out, outLen, keylet.Account)
}

func (c *Context) DIDKeylet(mem Memory, acc, accLen, out, outLen int32) (int32, error) {
	return c.accountKey(mem, acc, accLen, out, outLen, keylet.DID)
}

func (c *Context) SignersKeylet(mem Memory, acc, accLen, out, outLen int32) (int32, error) {
	return c.accountKey(mem, acc, accLen, out, outLen, keylet.Signers)
}

func (c *Context) CheckKeylet(mem Memory, acc, accLen, seq, out, outLen int32) (int32, error) {
	return c.sequencedKey(mem, acc, accLen, seq, out, outLen, keylet.Check)
}

func (c *Context) EscrowKeylet(mem Memory, acc, accLen, seq, out, outLen int32) (int32, error) {
	return c.sequencedKey(mem, acc, accLen, seq, out, outLen, keylet.Escrow)
}

func (c *Context) NFTOfferKeylet(mem Memory, acc, accLen, seq, out, outLen int32) (int32, error) {
	return c.sequencedKey(mem, acc, accLen, seq, out, outLen, keylet.NFTOffer)
}

func (c *Context) OfferKeylet(mem Memory, acc, accLen, seq, out, outLen int32) (int32, error) {
	return c.sequencedKey(mem, acc, accLen, seq, out, outLen, keylet.Offer)
}

func (c *Context) OracleKeylet(mem Memory, acc, accLen, documentID, out, outLen int32) (int32, error) {
	return c.sequencedKey(mem, acc, accLen, documentID, out, outLen, keylet.Oracle)
}

func (c *Context) PermissionedDomainKeylet(mem Memory, acc, accLen, seq, out, outLen int32) (int32, error) {
	return c.sequencedKey(mem, acc, accLen, seq, out, outLen, keylet.PermissionedDomain)
}

func (c *Context) TicketKeylet(mem Memory, acc, accLen, seq, out, outLen int32) (int32, error) {
	return c.sequencedKey(mem, acc, accLen, seq, out, outLen, keylet.Ticket)
}

func (c *Context) VaultKeylet(mem Memory, acc, accLen, seq, out, outLen int32) (int32, error) {
	return c.sequencedKey(mem, acc, accLen, seq, out, outLen, keylet.Vault)
}

func (c *Context) MPTIssuanceKeylet(mem Memory, issuer, issuerLen, seq, out, outLen int32) (int32, error) {
	return c.sequencedKey(mem, issuer, issuerLen, seq, out, outLen, func(a sto.AccountID, s uint32) keylet.Keylet {
		return keylet.MPTIssuance(keylet.MakeMPTID(s, a))
	})
}

func (c *Context) DelegateKeylet(mem Memory, acc, accLen, auth, authLen, out, outLen int32) (int32, error) {
	return c.pairKey(mem, acc, accLen, auth, authLen, out, outLen, keylet.Delegate)
}

func (c *Context) DepositPreauthKeylet(mem Memory, acc, accLen, auth, authLen, out, outLen int32) (int32, error) {
	return c.pairKey(mem, acc, accLen, auth, authLen, out, outLen, keylet.DepositPreauth)
}

func (c *Context) PayChanKeylet(mem Memory, acc, accLen, dst, dstLen, seq, out, outLen int32) (int32, error) {
	return c.pairKey(mem, acc, accLen, dst, dstLen, out, outLen, func(a, b sto.AccountID) keylet.Keylet {
		return keylet.PayChan(a, b, uint32(seq))
	})
}

func (c *Context) LineKeylet(mem Memory, a1, a1Len, a2, a2Len, cur, curLen, out, outLen int32) (int32, error) {
	g := c.gateway(mem)
	a, err := g.nonZeroAccount(a1, a1Len)
	if err != nil {
		return 0, err
	}
	b, err := g.nonZeroAccount(a2, a2Len)
	if err != nil {
		return 0, err
	}
	currency, err := g.currency(cur, curLen)
	if err != nil {
		return 0, err
	}
	if a == b || currency.IsZero() {
		return 0, ErrInvalidParams
	}
	return g.key(out, outLen, keylet.Line(a, b, currency))
}

func (c *Context) CredentialKeylet(mem Memory, subj, subjLen, iss, issLen, typ, typLen, out, outLen int32) (int32, error) {
	g := c.gateway(mem)
	subject, err := g.nonZeroAccount(subj, subjLen)
	if err != nil {
		return 0, err
	}
	issuer, err := g.nonZeroAccount(iss, issLen)
	if err != nil {
		return 0, err
	}
	credType, err := g.slice(typ, typLen)
	if err != nil {
		return 0, err
	}
	if credType.len() == 0 || credType.len() > int(c.cfg.MaxCredentialTypeLength) {
		return 0, ErrInvalidParams
	}
	return g.key(out, outLen, keylet.Credential(subject, issuer, credType.bytes()))
}

func (c *Context) MPTokenKeylet(mem Memory, mpt, mptLen, holder, holderLen, out, outLen int32) (int32, error) {
	g := c.gateway(mem)
	id, err := g.mptID(mpt, mptLen)
	if err != nil {
		return 0, err
	}
	if id.IsZero() {
		return 0, ErrInvalidParams
	}
	h, err := g.nonZeroAccount(holder, holderLen)
	if err != nil {
		return 0, err
	}
	return g.key(out, outLen, keylet.MPToken(id, h))
}

func (c *Context) AMMKeylet(mem Memory, a1, a1Len, a2, a2Len, out, outLen int32) (int32, error) {
	g := c.gateway(mem)
	x, err := g.asset(a1, a1Len)
	if err != nil {
		return 0, err
	}
	y, err := g.asset(a2, a2Len)
	if err != nil {
		return 0, err
	}
	if x == y || x.Kind == sto.KindMPT || y.Kind == sto.KindMPT {
		return 0, ErrInvalidParams
	}
	return g.key(out, outLen, keylet.AMM(x, y))
}
