package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// WasmPageSize is the size of one page of guest linear memory.
const WasmPageSize = 65536

// HostConfig bounds what a guest may ask of the host during one invocation.
type HostConfig struct {
	// MaxWasmDataLength caps every byte range a guest hands to the host.
	MaxWasmDataLength int32 `json:"max_wasm_data_length" yaml:"max_wasm_data_length"`
	// MaxCacheSlots is the size of the per-invocation object cache.
	MaxCacheSlots           int32 `json:"max_cache_slots" yaml:"max_cache_slots"`
	MaxCredentialTypeLength int32 `json:"max_credential_type_length" yaml:"max_credential_type_length"`
	MaxAmendmentNameLength  int32 `json:"max_amendment_name_length" yaml:"max_amendment_name_length"`
	// InstanceMemoryLimit is rounded down to whole wasm pages.
	InstanceMemoryLimit Size `json:"instance_memory_limit" yaml:"instance_memory_limit"`
	// CompileCacheSize is the number of compiled guests kept by the VM.
	CompileCacheSize int  `json:"compile_cache_size" yaml:"compile_cache_size"`
	Debug            bool `json:"debug" yaml:"debug"`
}

func DefaultHostConfig() HostConfig {
	return HostConfig{
		MaxWasmDataLength:       4096,
		MaxCacheSlots:           256,
		MaxCredentialTypeLength: 64,
		MaxAmendmentNameLength:  64,
		InstanceMemoryLimit:     NewSizeMebi(16),
		CompileCacheSize:        64,
	}
}

var ErrInvalidConfig = errors.New("invalid host config")

// Validate rejects limits the host cannot honour.
func (c HostConfig) Validate() error {
	switch {
	case c.MaxWasmDataLength <= 0:
		return fmt.Errorf("%w: max_wasm_data_length must be positive", ErrInvalidConfig)
	case c.MaxCacheSlots <= 0:
		return fmt.Errorf("%w: max_cache_slots must be positive", ErrInvalidConfig)
	case c.MaxCredentialTypeLength <= 0 || c.MaxAmendmentNameLength <= 0:
		return fmt.Errorf("%w: name and credential limits must be positive", ErrInvalidConfig)
	case c.MemoryPages() == 0:
		return fmt.Errorf("%w: instance_memory_limit below one page", ErrInvalidConfig)
	case c.CompileCacheSize < 0:
		return fmt.Errorf("%w: negative compile_cache_size", ErrInvalidConfig)
	}
	return nil
}

// MemoryPages is the instance memory limit in wasm pages.
func (c HostConfig) MemoryPages() uint32 {
	return c.InstanceMemoryLimit.Bytes() / WasmPageSize
}

// Size is a byte count. It encodes as a plain integer.
type Size struct{ uint32 }

func (s Size) Bytes() uint32 { return s.uint32 }

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.uint32)
}

func (s *Size) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &s.uint32)
}

func (s Size) MarshalYAML() (any, error) {
	return s.uint32, nil
}

func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&s.uint32)
}

func NewSize(v uint32) Size {
	return Size{v}
}

func NewSizeKibi(v uint32) Size {
	return Size{v * 1024}
}

func NewSizeMebi(v uint32) Size {
	return Size{v * 1024 * 1024}
}
