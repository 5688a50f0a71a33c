package keylet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XRPLF/wasmhost/internal/sto"
)

func genesis(t *testing.T) sto.AccountID {
	t.Helper()
	id, err := sto.ParseAddress("rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")
	require.NoError(t, err)
	return id
}

func TestWellKnownKeys(t *testing.T) {
	acct := Account(genesis(t))
	assert.Equal(t, EntryAccountRoot, acct.Type)
	assert.Equal(t, "2B6AC232AA4C4BE41BF49D2459FA4A0347E1B543A4C92FCEE0821C0201E2E9A8", acct.Key.String())

	assert.Equal(t, "7DB0788C020F02780A673DC74757F23823FA3014C1866E72CC4CD8B226CD6EF4", Amendments().Key.String())
	assert.Equal(t, "4BC50C9B0D8515D3EAAE1E74B29A95804346C491EE1A95BF25E4AAB854A6A651", Fees().Key.String())
}

func TestDeterminismAndSensitivity(t *testing.T) {
	a := genesis(t)
	b := sto.AccountID{1}
	usd, err := sto.CurrencyFromCode("USD")
	require.NoError(t, err)
	eur, err := sto.CurrencyFromCode("EUR")
	require.NoError(t, err)

	pairs := []struct {
		name      string
		same      func() Keylet
		different Keylet
	}{
		{"account", func() Keylet { return Account(a) }, Account(b)},
		{"check", func() Keylet { return Check(a, 1) }, Check(a, 2)},
		{"escrow", func() Keylet { return Escrow(a, 1) }, Escrow(b, 1)},
		{"offer", func() Keylet { return Offer(a, 5) }, Offer(a, 6)},
		{"ticket", func() Keylet { return Ticket(a, 5) }, Ticket(a, 6)},
		{"paychan", func() Keylet { return PayChan(a, b, 1) }, PayChan(b, a, 1)},
		{"line", func() Keylet { return Line(a, b, usd) }, Line(a, b, eur)},
		{"deposit preauth", func() Keylet { return DepositPreauth(a, b) }, DepositPreauth(b, a)},
		{"delegate", func() Keylet { return Delegate(a, b) }, Delegate(b, a)},
		{"credential", func() Keylet { return Credential(a, b, []byte("kyc")) }, Credential(a, b, []byte("aml"))},
		{"oracle", func() Keylet { return Oracle(a, 1) }, Oracle(a, 2)},
		{"vault", func() Keylet { return Vault(a, 1) }, Vault(a, 2)},
		{"domain", func() Keylet { return PermissionedDomain(a, 1) }, PermissionedDomain(a, 2)},
		{"nft offer", func() Keylet { return NFTOffer(a, 1) }, NFTOffer(a, 2)},
		{"mpt issuance", func() Keylet { return MPTIssuance(MakeMPTID(1, a)) }, MPTIssuance(MakeMPTID(2, a))},
		{"mptoken", func() Keylet { return MPToken(MakeMPTID(1, a), b) }, MPToken(MakeMPTID(1, a), a)},
		{"did", func() Keylet { return DID(a) }, DID(b)},
		{"signers", func() Keylet { return Signers(a) }, Signers(b)},
		{"amm", func() Keylet {
			return AMM(sto.XRPIssue(), sto.IOUIssue(usd, a))
		}, AMM(sto.XRPIssue(), sto.IOUIssue(eur, a))},
	}
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			first := p.same()
			assert.Equal(t, first, p.same())
			assert.NotEqual(t, first.Key, p.different.Key)
			assert.Equal(t, first.Type, p.different.Type)
		})
	}
}

func TestUnorderedPairs(t *testing.T) {
	a := genesis(t)
	b := sto.AccountID{1}
	usd, _ := sto.CurrencyFromCode("USD")

	assert.Equal(t, Line(a, b, usd), Line(b, a, usd))

	x, y := sto.XRPIssue(), sto.IOUIssue(usd, a)
	assert.Equal(t, AMM(x, y), AMM(y, x))
}

func TestNamespacesDiffer(t *testing.T) {
	a := genesis(t)
	keys := map[sto.Hash256]string{}
	for name, k := range map[string]Keylet{
		"check":  Check(a, 1),
		"escrow": Escrow(a, 1),
		"offer":  Offer(a, 1),
		"ticket": Ticket(a, 1),
		"vault":  Vault(a, 1),
		"oracle": Oracle(a, 1),
	} {
		prev, dup := keys[k.Key]
		require.False(t, dup, "%s collides with %s", name, prev)
		keys[k.Key] = name
	}
}

func TestNFTPages(t *testing.T) {
	owner := genesis(t)
	lo, hi := NFTPageMin(owner), NFTPageMax(owner)
	assert.Equal(t, owner[:], lo.Key[:20])
	assert.Equal(t, make([]byte, 12), lo.Key[20:])
	for _, b := range hi.Key[20:] {
		assert.Equal(t, byte(0xff), b)
	}

	var token sto.Hash256
	for i := range token {
		token[i] = byte(i)
	}
	page := NFTPage(owner, token)
	assert.Equal(t, owner[:], page.Key[:20])
	assert.Equal(t, token[20:], page.Key[20:])
	assert.Equal(t, EntryNFTokenPage, page.Type)
}

func TestNext(t *testing.T) {
	var k sto.Hash256
	k[31] = 0xff
	n := Next(k)
	assert.Equal(t, byte(1), n[30])
	assert.Equal(t, byte(0), n[31])
	assert.Equal(t, byte(0xff), k[31], "input unchanged")
}

func TestAmendmentID(t *testing.T) {
	assert.Equal(t, SHA512Half([]byte("fixUniversalNumber")), AmendmentID("fixUniversalNumber"))
	assert.NotEqual(t, AmendmentID("a"), AmendmentID("b"))
}
