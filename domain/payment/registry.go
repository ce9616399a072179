package payment

import (
	"context"
	"sync"
	"time"

	"marketbill/domain/bill"
	"marketbill/pkg/logger"

	"go.uber.org/zap"
)

// DefaultTimeout bounds one gateway call when no timeout is configured.
// A gateway that never answers is otherwise a goroutine leak per request.
const DefaultTimeout = 10 * time.Second

// Registry maps payment methods to gateways. Registration normally happens
// once at wiring time; the lock keeps late registration safe anyway.
type Registry struct {
	mu       sync.RWMutex
	gateways map[bill.PaymentMethod]Gateway
	timeout  time.Duration
}

// NewRegistry creates an empty registry with the given per-call timeout.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		gateways: make(map[bill.PaymentMethod]Gateway),
		timeout:  timeout,
	}
}

// Register associates a gateway with a payment method. The last
// registration for a method wins.
func (r *Registry) Register(method bill.PaymentMethod, gw Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[method] = gw
}

// Process routes one bill through the gateway registered for method. An
// unregistered method yields the gateway-not-found result; a call that
// outlives the timeout yields the timeout result and the straggling gateway
// goroutine is abandoned with its context cancelled.
func (r *Registry) Process(ctx context.Context, b *bill.Bill, method bill.PaymentMethod) SettlementResult {
	r.mu.RLock()
	gw, ok := r.gateways[method]
	r.mu.RUnlock()

	if !ok {
		logger.Warn("no payment gateway registered",
			zap.String("bill_id", b.ID()),
			zap.String("method", string(method)))
		return SettlementResult{
			Status:  SettlementGatewayNotFound,
			Method:  method,
			Message: "no gateway registered for payment method " + string(method),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan SettlementResult, 1)
	go func() {
		done <- gw.Process(callCtx, b, method)
	}()

	select {
	case res := <-done:
		return res
	case <-callCtx.Done():
		logger.Warn("payment gateway call timed out",
			zap.String("bill_id", b.ID()),
			zap.String("method", string(method)),
			zap.Duration("timeout", r.timeout))
		return SettlementResult{
			Status:  SettlementTimeout,
			Method:  method,
			Message: "gateway did not answer within " + r.timeout.String(),
		}
	}
}
