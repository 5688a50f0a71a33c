package ledger

import (
	"encoding/binary"

	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/sfield"
	"github.com/XRPLF/wasmhost/internal/sto"
)

// NFToken ids pack flags (2), transfer fee (2), issuer (20), a scrambled
// taxon (4) and a serial (4), all big-endian.

func NFTFlags(id sto.Hash256) uint16 { return binary.BigEndian.Uint16(id[0:2]) }

func NFTTransferFee(id sto.Hash256) uint16 { return binary.BigEndian.Uint16(id[2:4]) }

func NFTIssuer(id sto.Hash256) sto.AccountID { return sto.AccountID(id[4:24]) }

func NFTSerial(id sto.Hash256) uint32 { return binary.BigEndian.Uint32(id[28:32]) }

// NFTTaxon returns the unscrambled taxon.
func NFTTaxon(id sto.Hash256) uint32 {
	return CipheredTaxon(NFTSerial(id), binary.BigEndian.Uint32(id[24:28]))
}

// CipheredTaxon scrambles or unscrambles a taxon with the token serial;
// the operation is its own inverse.
func CipheredTaxon(serial, taxon uint32) uint32 {
	return taxon ^ (384160001*serial + 2459)
}

// MakeNFTokenID assembles an id from its parts, scrambling the taxon.
func MakeNFTokenID(flags, fee uint16, issuer sto.AccountID, taxon, serial uint32) sto.Hash256 {
	var id sto.Hash256
	binary.BigEndian.PutUint16(id[0:2], flags)
	binary.BigEndian.PutUint16(id[2:4], fee)
	copy(id[4:24], issuer[:])
	binary.BigEndian.PutUint32(id[24:28], CipheredTaxon(serial, taxon))
	binary.BigEndian.PutUint32(id[28:32], serial)
	return id
}

// FindNFT locates a token held by owner and returns its NFToken object. The
// token can only live in the first page whose key is strictly above the
// token's own page key, or in the owner's last page.
func FindNFT(v View, owner sto.AccountID, id sto.Hash256) (*sto.Object, error) {
	first := keylet.NFTPage(owner, id)
	last := keylet.NFTPageMax(owner)
	key, ok, err := v.Succ(first.Key, keylet.Next(last.Key))
	if err != nil {
		return nil, err
	}
	if !ok {
		key = last.Key
	}
	page, err := ReadKeylet(v, keylet.Keylet{Type: keylet.EntryNFTokenPage, Key: key})
	if err != nil {
		return nil, err
	}
	tokens, _ := page.Array(sfield.NFTokens)
	for _, el := range tokens {
		if got, ok := el.Object.Hash256(sfield.NFTokenID); ok && got == id {
			return el.Object, nil
		}
	}
	return nil, ErrNotFound
}
