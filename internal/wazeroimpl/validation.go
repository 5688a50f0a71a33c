package wazeroimpl

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ErrInvalidGuest is returned for code that compiles but cannot be run.
var ErrInvalidGuest = errors.New("invalid guest")

// Validator checks a compiled module before the cache keeps it.
type Validator func(wazero.CompiledModule) error

// HostImports accepts guests whose function imports are all served by host,
// with matching signatures, and which import no memory, table or global.
func HostImports(host api.Module) Validator {
	defs := host.ExportedFunctionDefinitions()
	return func(m wazero.CompiledModule) error {
		if len(m.ImportedMemories()) > 0 {
			return fmt.Errorf("%w: memory must be defined by the guest", ErrInvalidGuest)
		}
		for _, imp := range m.ImportedFunctions() {
			module, name, _ := imp.Import()
			if module != host.Name() {
				return fmt.Errorf("%w: import %s.%s from unknown module", ErrInvalidGuest, module, name)
			}
			want, ok := defs[name]
			if !ok {
				return fmt.Errorf("%w: unknown host function %q", ErrInvalidGuest, name)
			}
			if !slices.Equal(imp.ParamTypes(), want.ParamTypes()) || !slices.Equal(imp.ResultTypes(), want.ResultTypes()) {
				return fmt.Errorf("%w: host function %q imported with the wrong signature", ErrInvalidGuest, name)
			}
		}
		return nil
	}
}
