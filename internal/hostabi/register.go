package hostabi

import (
	"context"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const (
	// ModuleName is the import module guests use for every host function.
	ModuleName = "env"
	// MemoryExport is the name under which guests must export their memory.
	MemoryExport = "memory"
)

type args []uint64

func (a args) i32(n int) int32 { return api.DecodeI32(a[n]) }

func (a args) i64(n int) int64 { return int64(a[n]) }

// hostFunc describes one export. params lists the parameter names; a name
// with an ":i64" suffix is a 64-bit integer, everything else is i32.
type hostFunc struct {
	name     string
	category Category
	params   string
	call     func(c *Context, m Memory, a args) (int32, error)
}

func (f hostFunc) signature() ([]api.ValueType, []string) {
	fields := strings.Fields(f.params)
	types := make([]api.ValueType, len(fields))
	names := make([]string, len(fields))
	for i, p := range fields {
		name, wide := strings.CutSuffix(p, ":i64")
		names[i] = name
		types[i] = api.ValueTypeI32
		if wide {
			types[i] = api.ValueTypeI64
		}
	}
	return types, names
}

// Exports lists the exported function names in registration order.
func Exports() []string {
	out := make([]string, len(hostFuncs))
	for i, f := range hostFuncs {
		out[i] = f.name
	}
	return out
}

// Register instantiates the host module on r. Calls are served by the
// Context bound to the calling context.Context with WithContext; a call
// without one returns INTERNAL.
func Register(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(ModuleName)
	for _, f := range hostFuncs {
		f := f
		params, names := f.signature()
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, m api.Module, stack []uint64) {
				stack[0] = api.EncodeI32(serve(ctx, m, f, stack))
			}), params, []api.ValueType{api.ValueTypeI32}).
			WithParameterNames(names...).
			WithResultNames("result").
			Export(f.name)
	}
	return builder.Instantiate(ctx)
}

func serve(ctx context.Context, m api.Module, f hostFunc, stack []uint64) int32 {
	c, ok := fromContext(ctx)
	if !ok {
		return int32(ErrInternal)
	}
	var mem Memory
	if mm := m.ExportedMemory(MemoryExport); mm != nil {
		mem = mm
	}
	n, err := f.call(c, mem, args(stack))
	return c.finish(f.name, f.category, n, err)
}

var hostFuncs = []hostFunc{
	// ledger header
	{"get_ledger_sqn", CategoryHeader, "out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.LedgerSqn(m, a.i32(0), a.i32(1))
	}},
	{"get_parent_ledger_time", CategoryHeader, "out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.ParentLedgerTime(m, a.i32(0), a.i32(1))
	}},
	{"get_parent_ledger_hash", CategoryHeader, "out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.ParentLedgerHash(m, a.i32(0), a.i32(1))
	}},
	{"get_ledger_account_hash", CategoryHeader, "out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.LedgerAccountHash(m, a.i32(0), a.i32(1))
	}},
	{"get_ledger_tx_hash", CategoryHeader, "out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.LedgerTxHash(m, a.i32(0), a.i32(1))
	}},
	{"get_base_fee", CategoryHeader, "", func(c *Context, _ Memory, _ args) (int32, error) {
		return c.BaseFee()
	}},
	{"amendment_enabled", CategoryHeader, "amendment amendment_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.AmendmentEnabled(m, a.i32(0), a.i32(1))
	}},

	// transaction
	{"get_tx_field", CategoryTransaction, "field out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.Field(m, TransactionScope, a.i32(0), a.i32(1), a.i32(2))
	}},
	{"get_tx_nested_field", CategoryTransaction, "locator locator_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.NestedField(m, TransactionScope, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"get_tx_array_len", CategoryTransaction, "field", func(c *Context, _ Memory, a args) (int32, error) {
		return c.ArrayLen(TransactionScope, a.i32(0))
	}},
	{"get_tx_nested_array_len", CategoryTransaction, "locator locator_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.NestedArrayLen(m, TransactionScope, a.i32(0), a.i32(1))
	}},

	// current ledger object
	{"get_current_ledger_obj_field", CategoryCurrentObject, "field out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.Field(m, CurrentObjectScope, a.i32(0), a.i32(1), a.i32(2))
	}},
	{"get_current_ledger_obj_nested_field", CategoryCurrentObject, "locator locator_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.NestedField(m, CurrentObjectScope, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"get_current_ledger_obj_array_len", CategoryCurrentObject, "field", func(c *Context, _ Memory, a args) (int32, error) {
		return c.ArrayLen(CurrentObjectScope, a.i32(0))
	}},
	{"get_current_ledger_obj_nested_array_len", CategoryCurrentObject, "locator locator_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.NestedArrayLen(m, CurrentObjectScope, a.i32(0), a.i32(1))
	}},

	// cached ledger objects
	{"cache_ledger_obj", CategoryCachedObject, "keylet keylet_len cache_idx", func(c *Context, m Memory, a args) (int32, error) {
		return c.CacheLedgerObj(m, a.i32(0), a.i32(1), a.i32(2))
	}},
	{"get_ledger_obj_field", CategoryCachedObject, "cache_idx field out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.Field(m, CachedSlotScope(a.i32(0)), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"get_ledger_obj_nested_field", CategoryCachedObject, "cache_idx locator locator_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.NestedField(m, CachedSlotScope(a.i32(0)), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"get_ledger_obj_array_len", CategoryCachedObject, "cache_idx field", func(c *Context, _ Memory, a args) (int32, error) {
		return c.ArrayLen(CachedSlotScope(a.i32(0)), a.i32(1))
	}},
	{"get_ledger_obj_nested_array_len", CategoryCachedObject, "cache_idx locator locator_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.NestedArrayLen(m, CachedSlotScope(a.i32(0)), a.i32(1), a.i32(2))
	}},

	// keylets
	{"account_keylet", CategoryKeylet, "account account_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.AccountKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"amm_keylet", CategoryKeylet, "issue1 issue1_len issue2 issue2_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.AMMKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5))
	}},
	{"check_keylet", CategoryKeylet, "account account_len seq out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.CheckKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"credential_keylet", CategoryKeylet, "subject subject_len issuer issuer_len cred_type cred_type_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.CredentialKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5), a.i32(6), a.i32(7))
	}},
	{"delegate_keylet", CategoryKeylet, "account account_len authorize authorize_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.DelegateKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5))
	}},
	{"deposit_preauth_keylet", CategoryKeylet, "account account_len authorize authorize_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.DepositPreauthKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5))
	}},
	{"did_keylet", CategoryKeylet, "account account_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.DIDKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"escrow_keylet", CategoryKeylet, "account account_len seq out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.EscrowKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"line_keylet", CategoryKeylet, "account1 account1_len account2 account2_len currency currency_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.LineKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5), a.i32(6), a.i32(7))
	}},
	{"mpt_issuance_keylet", CategoryKeylet, "issuer issuer_len seq out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.MPTIssuanceKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"mptoken_keylet", CategoryKeylet, "mptid mptid_len holder holder_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.MPTokenKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5))
	}},
	{"nft_offer_keylet", CategoryKeylet, "account account_len seq out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.NFTOfferKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"offer_keylet", CategoryKeylet, "account account_len seq out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.OfferKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"oracle_keylet", CategoryKeylet, "account account_len document_id out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.OracleKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"paychan_keylet", CategoryKeylet, "account account_len destination destination_len seq out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.PayChanKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5), a.i32(6))
	}},
	{"permissioned_domain_keylet", CategoryKeylet, "account account_len seq out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.PermissionedDomainKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"signers_keylet", CategoryKeylet, "account account_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.SignersKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"ticket_keylet", CategoryKeylet, "account account_len seq out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.TicketKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"vault_keylet", CategoryKeylet, "account account_len seq out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.VaultKeylet(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},

	// utilities
	{"compute_sha512_half", CategoryUtility, "data data_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.ComputeSha512Half(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"check_sig", CategoryUtility, "message message_len signature signature_len pubkey pubkey_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.CheckSig(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5))
	}},
	{"get_nft", CategoryUtility, "account account_len nft_id nft_id_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.GetNFT(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5))
	}},
	{"get_nft_issuer", CategoryUtility, "nft_id nft_id_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.GetNFTIssuer(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"get_nft_taxon", CategoryUtility, "nft_id nft_id_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.GetNFTTaxon(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"get_nft_flags", CategoryUtility, "nft_id nft_id_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.GetNFTFlags(m, a.i32(0), a.i32(1))
	}},
	{"get_nft_transfer_fee", CategoryUtility, "nft_id nft_id_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.GetNFTTransferFee(m, a.i32(0), a.i32(1))
	}},
	{"get_nft_serial", CategoryUtility, "nft_id nft_id_len out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.GetNFTSerial(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"get_function_param", CategoryUtility, "index type out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.FunctionParam(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"get_instance_param", CategoryUtility, "index type out out_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.InstanceParam(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},

	// decimal floats
	{"float_from_int", CategoryUtility, "value:i64 out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatFromInt(m, a.i64(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"float_from_uint", CategoryUtility, "value value_len out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatFromUint(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"float_set", CategoryUtility, "exponent mantissa:i64 out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatSet(m, a.i32(0), a.i64(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"float_compare", CategoryUtility, "x x_len y y_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatCompare(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"float_add", CategoryUtility, "x x_len y y_len out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatAdd(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5), a.i32(6))
	}},
	{"float_subtract", CategoryUtility, "x x_len y y_len out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatSubtract(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5), a.i32(6))
	}},
	{"float_multiply", CategoryUtility, "x x_len y y_len out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatMultiply(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5), a.i32(6))
	}},
	{"float_divide", CategoryUtility, "x x_len y y_len out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatDivide(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5), a.i32(6))
	}},
	{"float_pow", CategoryUtility, "x x_len n out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatPow(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5))
	}},
	{"float_root", CategoryUtility, "x x_len n out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatRoot(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4), a.i32(5))
	}},
	{"float_log", CategoryUtility, "x x_len out out_len rounding", func(c *Context, m Memory, a args) (int32, error) {
		return c.FloatLog(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},

	// diagnostics
	{"trace", CategoryUtility, "msg msg_len data data_len as_hex", func(c *Context, m Memory, a args) (int32, error) {
		return c.Trace(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3), a.i32(4))
	}},
	{"trace_num", CategoryUtility, "msg msg_len number:i64", func(c *Context, m Memory, a args) (int32, error) {
		return c.TraceNum(m, a.i32(0), a.i32(1), a.i64(2))
	}},
	{"trace_account", CategoryUtility, "msg msg_len account account_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.TraceAccount(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"trace_opaque_float", CategoryUtility, "msg msg_len float float_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.TraceOpaqueFloat(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},
	{"trace_amount", CategoryUtility, "msg msg_len amount amount_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.TraceAmount(m, a.i32(0), a.i32(1), a.i32(2), a.i32(3))
	}},

	// data update
	{"update_data", CategoryUpdate, "data data_len", func(c *Context, m Memory, a args) (int32, error) {
		return c.UpdateData(m, a.i32(0), a.i32(1))
	}},
}
