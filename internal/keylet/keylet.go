// Package keylet derives the 32-byte addresses of ledger objects. Every key
// is SHA-512-Half over a two byte namespace followed by the object's
// identifying fields.
package keylet

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/XRPLF/wasmhost/internal/sto"
)

// EntryType is the LedgerEntryType of the addressed object.
type EntryType uint16

const (
	EntryAccountRoot        EntryType = 0x0061
	EntryDirectoryNode      EntryType = 0x0064
	EntryRippleState        EntryType = 0x0072
	EntryTicket             EntryType = 0x0054
	EntrySignerList         EntryType = 0x0053
	EntryOffer              EntryType = 0x006f
	EntryEscrow             EntryType = 0x0075
	EntryPayChannel         EntryType = 0x0078
	EntryCheck              EntryType = 0x0043
	EntryDepositPreauth     EntryType = 0x0070
	EntryNFTokenPage        EntryType = 0x0050
	EntryNFTokenOffer       EntryType = 0x0037
	EntryAMM                EntryType = 0x0079
	EntryDID                EntryType = 0x0049
	EntryOracle             EntryType = 0x0080
	EntryMPTokenIssuance    EntryType = 0x007e
	EntryMPToken            EntryType = 0x007f
	EntryCredential         EntryType = 0x0081
	EntryPermissionedDomain EntryType = 0x0082
	EntryDelegate           EntryType = 0x0083
	EntryVault              EntryType = 0x0084
	EntryAmendments         EntryType = 0x0066
	EntryFeeSettings        EntryType = 0x0073
)

// namespaces
const (
	nsAccount            = 'a'
	nsTrustLine          = 'r'
	nsOffer              = 'o'
	nsOwnerDir           = 'O'
	nsEscrow             = 'u'
	nsAmendments         = 'f'
	nsFee                = 'e'
	nsTicket             = 'T'
	nsSignerList         = 'S'
	nsPayChannel         = 'x'
	nsCheck              = 'C'
	nsDepositPreauth     = 'p'
	nsNFTokenOffer       = 'q'
	nsAMM                = 'A'
	nsDID                = 'I'
	nsOracle             = 'R'
	nsMPTokenIssuance    = '~'
	nsMPToken            = 't'
	nsCredential         = 'D'
	nsPermissionedDomain = 'm'
	nsDelegate           = 'E'
	nsVault              = 'V'
)

// Keylet is a typed ledger key.
type Keylet struct {
	Type EntryType
	Key  sto.Hash256
}

func (k Keylet) String() string {
	return fmt.Sprintf("%04x:%s", uint16(k.Type), k.Key)
}

// SHA512Half returns the first 32 bytes of SHA-512 over the concatenated
// parts.
func SHA512Half(parts ...[]byte) sto.Hash256 {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out sto.Hash256
	copy(out[:], h.Sum(nil))
	return out
}

func index(t EntryType, ns uint16, parts ...[]byte) Keylet {
	all := make([][]byte, 0, len(parts)+1)
	all = append(all, binary.BigEndian.AppendUint16(nil, ns))
	all = append(all, parts...)
	return Keylet{Type: t, Key: SHA512Half(all...)}
}

func u32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

func Account(id sto.AccountID) Keylet {
	return index(EntryAccountRoot, nsAccount, id[:])
}

// OwnerDir is the root page of an account's owner directory.
func OwnerDir(id sto.AccountID) Keylet {
	return index(EntryDirectoryNode, nsOwnerDir, id[:])
}

// Line addresses the trust line between two accounts; account order does not
// matter.
func Line(a, b sto.AccountID, c sto.Currency) Keylet {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return index(EntryRippleState, nsTrustLine, a[:], b[:], c[:])
}

func Offer(id sto.AccountID, seq uint32) Keylet {
	return index(EntryOffer, nsOffer, id[:], u32(seq))
}

func Check(id sto.AccountID, seq uint32) Keylet {
	return index(EntryCheck, nsCheck, id[:], u32(seq))
}

func Escrow(id sto.AccountID, seq uint32) Keylet {
	return index(EntryEscrow, nsEscrow, id[:], u32(seq))
}

func PayChan(src, dst sto.AccountID, seq uint32) Keylet {
	return index(EntryPayChannel, nsPayChannel, src[:], dst[:], u32(seq))
}

func Ticket(id sto.AccountID, seq uint32) Keylet {
	return index(EntryTicket, nsTicket, id[:], u32(seq))
}

// Signers addresses the account's (single) signer list.
func Signers(id sto.AccountID) Keylet {
	return index(EntrySignerList, nsSignerList, id[:], u32(0))
}

func DepositPreauth(owner, authorized sto.AccountID) Keylet {
	return index(EntryDepositPreauth, nsDepositPreauth, owner[:], authorized[:])
}

func NFTOffer(owner sto.AccountID, seq uint32) Keylet {
	return index(EntryNFTokenOffer, nsNFTokenOffer, owner[:], u32(seq))
}

// DID addresses the account's DID document.
func DID(id sto.AccountID) Keylet {
	return index(EntryDID, nsDID, id[:])
}

func Oracle(owner sto.AccountID, documentID uint32) Keylet {
	return index(EntryOracle, nsOracle, owner[:], u32(documentID))
}

// MakeMPTID builds an issuance id from the creating sequence and issuer.
func MakeMPTID(seq uint32, issuer sto.AccountID) sto.MPTID {
	var id sto.MPTID
	binary.BigEndian.PutUint32(id[:4], seq)
	copy(id[4:], issuer[:])
	return id
}

func MPTIssuance(id sto.MPTID) Keylet {
	return index(EntryMPTokenIssuance, nsMPTokenIssuance, id[:])
}

// MPToken addresses a holder's balance of an issuance.
func MPToken(id sto.MPTID, holder sto.AccountID) Keylet {
	issuance := MPTIssuance(id)
	return index(EntryMPToken, nsMPToken, issuance.Key[:], holder[:])
}

func Credential(subject, issuer sto.AccountID, credType []byte) Keylet {
	return index(EntryCredential, nsCredential, subject[:], issuer[:], credType)
}

func PermissionedDomain(owner sto.AccountID, seq uint32) Keylet {
	return index(EntryPermissionedDomain, nsPermissionedDomain, owner[:], u32(seq))
}

func Delegate(account, authorized sto.AccountID) Keylet {
	return index(EntryDelegate, nsDelegate, account[:], authorized[:])
}

func Vault(owner sto.AccountID, seq uint32) Keylet {
	return index(EntryVault, nsVault, owner[:], u32(seq))
}

// AMM addresses the pool for an unordered asset pair. Issues order by
// currency first, then issuer.
func AMM(a, b sto.Issue) Keylet {
	if issueLess(b, a) {
		a, b = b, a
	}
	return index(EntryAMM, nsAMM, a.Issuer[:], a.Currency[:], b.Issuer[:], b.Currency[:])
}

func issueLess(a, b sto.Issue) bool {
	if c := bytes.Compare(a.Currency[:], b.Currency[:]); c != 0 {
		return c < 0
	}
	return bytes.Compare(a.Issuer[:], b.Issuer[:]) < 0
}

// Amendments addresses the singleton holding enabled amendments.
func Amendments() Keylet { return index(EntryAmendments, nsAmendments) }

// Fees addresses the fee settings singleton.
func Fees() Keylet { return index(EntryFeeSettings, nsFee) }

// AmendmentID maps an amendment name to its id.
func AmendmentID(name string) sto.Hash256 { return SHA512Half([]byte(name)) }

// NFT pages are keyed by owner followed by the low 96 bits of the largest
// token they may hold.
const pageMaskBytes = 12

// NFTPageMin is the lowest possible page key of an owner.
func NFTPageMin(owner sto.AccountID) Keylet {
	var k sto.Hash256
	copy(k[:], owner[:])
	return Keylet{Type: EntryNFTokenPage, Key: k}
}

// NFTPageMax is the highest possible page key of an owner.
func NFTPageMax(owner sto.AccountID) Keylet {
	k := NFTPageMin(owner)
	for i := sto.HashSize - pageMaskBytes; i < sto.HashSize; i++ {
		k.Key[i] = 0xff
	}
	return k
}

// NFTPage is the page key a token would sort to for the given owner.
func NFTPage(owner sto.AccountID, token sto.Hash256) Keylet {
	k := NFTPageMin(owner)
	copy(k.Key[sto.HashSize-pageMaskBytes:], token[sto.HashSize-pageMaskBytes:])
	return k
}

// Next returns the key immediately after k.
func Next(k sto.Hash256) sto.Hash256 {
	for i := len(k) - 1; i >= 0; i-- {
		k[i]++
		if k[i] != 0 {
			break
		}
	}
	return k
}
