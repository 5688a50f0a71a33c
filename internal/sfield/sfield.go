// Package sfield holds the typed field schema shared by transactions and
// ledger objects. A field code packs the serialized type in the high 16 bits
// and the field index in the low 16 bits.
package sfield

import "fmt"

// Type is the serialized type of a field.
type Type uint8

const (
	TypeUInt16    Type = 1
	TypeUInt32    Type = 2
	TypeUInt64    Type = 3
	TypeHash128   Type = 4
	TypeHash256   Type = 5
	TypeAmount    Type = 6
	TypeBlob      Type = 7
	TypeAccount   Type = 8
	TypeNumber    Type = 9
	TypeObject    Type = 14
	TypeArray     Type = 15
	TypeVector256 Type = 19
	TypeUInt8     Type = 16
	TypeHash160   Type = 17
	TypeHash192   Type = 21
	TypeIssue     Type = 24
	TypeCurrency  Type = 26
)

var typeNames = map[Type]string{
	TypeUInt16:    "UInt16",
	TypeUInt32:    "UInt32",
	TypeUInt64:    "UInt64",
	TypeHash128:   "Hash128",
	TypeHash256:   "Hash256",
	TypeAmount:    "Amount",
	TypeBlob:      "Blob",
	TypeAccount:   "AccountID",
	TypeNumber:    "Number",
	TypeObject:    "STObject",
	TypeArray:     "STArray",
	TypeUInt8:     "UInt8",
	TypeVector256: "Vector256",
	TypeHash160:   "Hash160",
	TypeHash192:   "Hash192",
	TypeIssue:     "Issue",
	TypeCurrency:  "Currency",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Field is a named entry of the schema.
type Field struct {
	Name  string
	Type  Type
	Index uint16
}

// Code returns the field code as seen by guests.
func (f *Field) Code() int32 {
	return int32(f.Type)<<16 | int32(f.Index)
}

// IsLeaf reports whether values of the field serialize to a flat byte string.
func (f *Field) IsLeaf() bool {
	return f.Type != TypeObject && f.Type != TypeArray
}

func (f *Field) String() string {
	return f.Name
}

func newField(t Type, index uint16, name string) *Field {
	f := &Field{Name: name, Type: t, Index: index}
	register(f)
	return f
}

var (
	byCode = map[int32]*Field{}
	byName = map[string]*Field{}
)

func register(f *Field) {
	if _, dup := byCode[f.Code()]; dup {
		panic("sfield: duplicate field code for " + f.Name)
	}
	byCode[f.Code()] = f
	byName[f.Name] = f
}

// ByCode resolves a guest supplied field code.
func ByCode(code int32) (*Field, bool) {
	f, ok := byCode[code]
	return f, ok
}

// ByName resolves a field by its canonical name.
func ByName(name string) (*Field, bool) {
	f, ok := byName[name]
	return f, ok
}

// 8-bit integers
var (
	CloseResolution   = newField(TypeUInt8, 1, "CloseResolution")
	Method            = newField(TypeUInt8, 2, "Method")
	TransactionResult = newField(TypeUInt8, 3, "TransactionResult")
	Scale             = newField(TypeUInt8, 4, "Scale")
	TickSize          = newField(TypeUInt8, 16, "TickSize")
)

// 16-bit integers
var (
	LedgerEntryType = newField(TypeUInt16, 1, "LedgerEntryType")
	TransactionType = newField(TypeUInt16, 2, "TransactionType")
	SignerWeight    = newField(TypeUInt16, 3, "SignerWeight")
	TransferFee     = newField(TypeUInt16, 4, "TransferFee")
	TradingFee      = newField(TypeUInt16, 5, "TradingFee")
)

// 32-bit integers
var (
	Flags             = newField(TypeUInt32, 2, "Flags")
	SourceTag         = newField(TypeUInt32, 3, "SourceTag")
	Sequence          = newField(TypeUInt32, 4, "Sequence")
	PreviousTxnLgrSeq = newField(TypeUInt32, 5, "PreviousTxnLgrSeq")
	LedgerSequence    = newField(TypeUInt32, 6, "LedgerSequence")
	CloseTime         = newField(TypeUInt32, 7, "CloseTime")
	ParentCloseTime   = newField(TypeUInt32, 8, "ParentCloseTime")
	SigningTime       = newField(TypeUInt32, 9, "SigningTime")
	Expiration        = newField(TypeUInt32, 10, "Expiration")
	TransferRate      = newField(TypeUInt32, 11, "TransferRate")
	OwnerCount        = newField(TypeUInt32, 13, "OwnerCount")
	DestinationTag    = newField(TypeUInt32, 14, "DestinationTag")
	OfferSequence     = newField(TypeUInt32, 25, "OfferSequence")
	LastLedgerSeq     = newField(TypeUInt32, 27, "LastLedgerSequence")
	SignerQuorum      = newField(TypeUInt32, 35, "SignerQuorum")
	CancelAfter       = newField(TypeUInt32, 36, "CancelAfter")
	FinishAfter       = newField(TypeUInt32, 37, "FinishAfter")
	TicketSequence    = newField(TypeUInt32, 41, "TicketSequence")
	NFTokenTaxon      = newField(TypeUInt32, 42, "NFTokenTaxon")
	OracleDocumentID  = newField(TypeUInt32, 51, "OracleDocumentID")
)

// 64-bit integers
var (
	IndexNext     = newField(TypeUInt64, 1, "IndexNext")
	IndexPrevious = newField(TypeUInt64, 2, "IndexPrevious")
	OwnerNode     = newField(TypeUInt64, 4, "OwnerNode")
	BaseFee       = newField(TypeUInt64, 5, "BaseFee")
)

// hashes
var (
	EmailHash         = newField(TypeHash128, 1, "EmailHash")
	TakerPaysCurrency = newField(TypeHash160, 1, "TakerPaysCurrency")
	TakerPaysIssuer   = newField(TypeHash160, 2, "TakerPaysIssuer")
	TakerGetsCurrency = newField(TypeHash160, 3, "TakerGetsCurrency")
	TakerGetsIssuer   = newField(TypeHash160, 4, "TakerGetsIssuer")
	MPTokenIssuanceID = newField(TypeHash192, 1, "MPTokenIssuanceID")
	LedgerHash        = newField(TypeHash256, 1, "LedgerHash")
	ParentHash        = newField(TypeHash256, 2, "ParentHash")
	TransactionHash   = newField(TypeHash256, 3, "TransactionHash")
	AccountHash       = newField(TypeHash256, 4, "AccountHash")
	PreviousTxnID     = newField(TypeHash256, 5, "PreviousTxnID")
	LedgerIndex       = newField(TypeHash256, 6, "LedgerIndex")
	NFTokenID         = newField(TypeHash256, 10, "NFTokenID")
	Amendment         = newField(TypeHash256, 19, "Amendment")
	NFTokenBuyOffer   = newField(TypeHash256, 28, "NFTokenBuyOffer")
	NFTokenSellOffer  = newField(TypeHash256, 29, "NFTokenSellOffer")
	DomainID          = newField(TypeHash256, 34, "DomainID")
	EscrowCondition   = newField(TypeHash256, 35, "EscrowConditionHash")
	PreviousPageMin   = newField(TypeHash256, 26, "PreviousPageMin")
	NextPageMin       = newField(TypeHash256, 27, "NextPageMin")
	InvoiceID         = newField(TypeHash256, 17, "InvoiceID")
	Nickname          = newField(TypeHash256, 18, "Nickname")
	BookDirectory     = newField(TypeHash256, 16, "BookDirectory")
	AccountTxnID      = newField(TypeHash256, 9, "AccountTxnID")
)

// amounts
var (
	Amount      = newField(TypeAmount, 1, "Amount")
	Balance     = newField(TypeAmount, 2, "Balance")
	LimitAmount = newField(TypeAmount, 3, "LimitAmount")
	TakerPays   = newField(TypeAmount, 4, "TakerPays")
	TakerGets   = newField(TypeAmount, 5, "TakerGets")
	LowLimit    = newField(TypeAmount, 6, "LowLimit")
	HighLimit   = newField(TypeAmount, 7, "HighLimit")
	Fee         = newField(TypeAmount, 8, "Fee")
	SendMax     = newField(TypeAmount, 9, "SendMax")
	DeliverMin  = newField(TypeAmount, 10, "DeliverMin")
	BrokerFee   = newField(TypeAmount, 19, "NFTokenBrokerFee")
)

// variable length
var (
	PublicKey      = newField(TypeBlob, 1, "PublicKey")
	MessageKey     = newField(TypeBlob, 2, "MessageKey")
	SigningPubKey  = newField(TypeBlob, 3, "SigningPubKey")
	TxnSignature   = newField(TypeBlob, 4, "TxnSignature")
	URI            = newField(TypeBlob, 5, "URI")
	Signature      = newField(TypeBlob, 6, "Signature")
	Domain         = newField(TypeBlob, 7, "Domain")
	MemoType       = newField(TypeBlob, 12, "MemoType")
	MemoData       = newField(TypeBlob, 13, "MemoData")
	MemoFormat     = newField(TypeBlob, 14, "MemoFormat")
	Fulfillment    = newField(TypeBlob, 16, "Fulfillment")
	Condition      = newField(TypeBlob, 17, "Condition")
	DIDDocument    = newField(TypeBlob, 26, "DIDDocument")
	Data           = newField(TypeBlob, 27, "Data")
	AssetClass     = newField(TypeBlob, 28, "AssetClass")
	Provider       = newField(TypeBlob, 29, "Provider")
	CredentialType = newField(TypeBlob, 31, "CredentialType")
	FinishFunction = newField(TypeBlob, 32, "FinishFunction")
)

// accounts
var (
	Account       = newField(TypeAccount, 1, "Account")
	Owner         = newField(TypeAccount, 2, "Owner")
	Destination   = newField(TypeAccount, 3, "Destination")
	Issuer        = newField(TypeAccount, 4, "Issuer")
	Authorize     = newField(TypeAccount, 5, "Authorize")
	Unauthorize   = newField(TypeAccount, 6, "Unauthorize")
	RegularKey    = newField(TypeAccount, 8, "RegularKey")
	NFTokenMinter = newField(TypeAccount, 9, "NFTokenMinter")
	Holder        = newField(TypeAccount, 11, "Holder")
	Subject       = newField(TypeAccount, 24, "Subject")
)

// numbers, issues and currencies
var (
	Number   = newField(TypeNumber, 1, "Number")
	Asset    = newField(TypeIssue, 3, "Asset")
	Asset2   = newField(TypeIssue, 4, "Asset2")
	Currency = newField(TypeCurrency, 1, "BaseAsset")
)

// inner objects
var (
	Memo        = newField(TypeObject, 10, "Memo")
	SignerEntry = newField(TypeObject, 11, "SignerEntry")
	NFToken     = newField(TypeObject, 12, "NFToken")
	Signer      = newField(TypeObject, 16, "Signer")
	Majority    = newField(TypeObject, 18, "Majority")
	Credential  = newField(TypeObject, 33, "Credential")
)

// hash vectors
var (
	Indexes    = newField(TypeVector256, 1, "Indexes")
	Hashes     = newField(TypeVector256, 2, "Hashes")
	Amendments = newField(TypeVector256, 3, "Amendments")
)

// arrays
var (
	Signers       = newField(TypeArray, 3, "Signers")
	SignerEntries = newField(TypeArray, 4, "SignerEntries")
	Memos         = newField(TypeArray, 9, "Memos")
	NFTokens      = newField(TypeArray, 10, "NFTokens")
	Majorities    = newField(TypeArray, 16, "Majorities")
	Credentials   = newField(TypeArray, 25, "AcceptedCredentials")
)
