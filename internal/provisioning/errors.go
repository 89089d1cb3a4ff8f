package provisioning

import "errors"

// ErrCircuitOpen はCircuit BreakerがOpen状態の場合のエラー
var ErrCircuitOpen = errors.New("provisioning circuit breaker is open")
