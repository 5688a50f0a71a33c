package wasmhost

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XRPLF/wasmhost/internal/hostabi"
	"github.com/XRPLF/wasmhost/internal/wasmtest"
	"github.com/XRPLF/wasmhost/types"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	vm := withVM(t, types.DefaultHostConfig(), zerolog.Nop(), WithMetrics(reg))
	ctx := context.Background()
	f := newFixture(t, 1)

	ok := compile(t, vm, updateGuest(wasmtest.I32Const(0)))
	failing := compile(t, vm, updateGuest(wasmtest.I32Const(hostabi.CategoryKeylet.Code(hostabi.ErrInvalidAccount))))
	trapping := compile(t, vm, updateGuest(wasmtest.Unreachable()))

	for _, sum := range []Checksum{ok, ok, failing, trapping} {
		_, _ = vm.Run(ctx, sum, "run", f.invocation())
	}
	_, err := vm.Run(ctx, ok, "missing", f.invocation())
	require.ErrorIs(t, err, ErrMissingExport)

	assert.Equal(t, 2.0, testutil.ToFloat64(vm.metrics.runs.WithLabelValues(outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(vm.metrics.runs.WithLabelValues(outcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(vm.metrics.runs.WithLabelValues(outcomeTrap)))
	assert.Equal(t, 1.0, testutil.ToFloat64(vm.metrics.runs.WithLabelValues(outcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(vm.metrics.failures.WithLabelValues("keylet")))
	assert.Equal(t, 2.0, testutil.ToFloat64(vm.metrics.updates))
	assert.Equal(t, 3.0, testutil.ToFloat64(vm.metrics.compiles))
	assert.Equal(t, 1, testutil.CollectAndCount(vm.metrics.duration))

	// a second VM on the same registry collides
	_, err = NewVM(ctx, types.DefaultHostConfig(), zerolog.Nop(), WithMetrics(reg))
	assert.Error(t, err)
}
