package hostabi

import (
	"github.com/XRPLF/wasmhost/internal/ledger"
	"github.com/XRPLF/wasmhost/internal/sfield"
)

// GetNFT writes the URI of a token held by owner.
func (c *Context) GetNFT(mem Memory, owner, ownerLen, id, idLen, out, outLen int32) (int32, error) {
	g := c.gateway(mem)
	acc, err := g.nonZeroAccount(owner, ownerLen)
	if err != nil {
		return 0, err
	}
	nft, err := g.hash256(id, idLen)
	if err != nil {
		return 0, err
	}
	if nft.IsZero() {
		return 0, ErrInvalidParams
	}
	tok, err := ledger.FindNFT(c.view, acc, nft)
	if err != nil {
		return 0, err
	}
	uri, ok := tok.Blob(sfield.URI)
	if !ok {
		return 0, ErrFieldNotFound
	}
	return g.write(out, outLen, uri)
}

func (c *Context) GetNFTIssuer(mem Memory, id, idLen, out, outLen int32) (int32, error) {
	g := c.gateway(mem)
	nft, err := g.hash256(id, idLen)
	if err != nil {
		return 0, err
	}
	issuer := ledger.NFTIssuer(nft)
	if issuer.IsZero() {
		return 0, ErrInvalidParams
	}
	return g.write(out, outLen, issuer[:])
}

func (c *Context) GetNFTTaxon(mem Memory, id, idLen, out, outLen int32) (int32, error) {
	g := c.gateway(mem)
	nft, err := g.hash256(id, idLen)
	if err != nil {
		return 0, err
	}
	return g.writeUint32(out, outLen, ledger.NFTTaxon(nft))
}

func (c *Context) GetNFTSerial(mem Memory, id, idLen, out, outLen int32) (int32, error) {
	g := c.gateway(mem)
	nft, err := g.hash256(id, idLen)
	if err != nil {
		return 0, err
	}
	return g.writeUint32(out, outLen, ledger.NFTSerial(nft))
}

func (c *Context) GetNFTFlags(mem Memory, id, idLen int32) (int32, error) {
	nft, err := c.gateway(mem).hash256(id, idLen)
	if err != nil {
		return 0, err
	}
	return int32(ledger.NFTFlags(nft)), nil
}

func (c *Context) GetNFTTransferFee(mem Memory, id, idLen int32) (int32, error) {
	nft, err := c.gateway(mem).hash256(id, idLen)
	if err != nil {
		return 0, err
	}
	return int32(ledger.NFTTransferFee(nft)), nil
}
