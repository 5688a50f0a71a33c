package wasmhost

import (
	"fmt"
	"runtime/debug"
)

const enginePath = "github.com/tetratelabs/wazero"

// EngineVersion returns the version of the wasm engine linked into the
// running binary. This can be used to verify that a deployment runs the
// expected engine.
func EngineVersion() (string, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", fmt.Errorf("build info unavailable")
	}
	return moduleVersion(info, enginePath)
}

func moduleVersion(info *debug.BuildInfo, path string) (string, error) {
	for _, dep := range info.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version, nil
		}
		return dep.Version, nil
	}
	return "", fmt.Errorf("%s not linked", path)
}
