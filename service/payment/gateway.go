package payment

import (
	"fmt"
	"time"

	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
	"github.com/google/uuid"
)

// Gateway is the external payment-processing capability. The shipped
// implementation simulates the processor; a real integration replaces it
// without touching booking or ledger logic.
type Gateway interface {
	Charge(amount float64, method string) (*ChargeResult, error)
	Refund(reference string, amount float64) error
}

type ChargeResult struct {
	Reference string
}

// SimulatedGateway approves every charge and refund. Err, when set, forces
// every call to fail the way a declined card or an unreachable processor
// would.
type SimulatedGateway struct {
	Err error
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Charge(amount float64, method string) (*ChargeResult, error) {
	if amount <= 0 {
		return nil, utils.NewError(utils.ValidationError, "Charge amount must be positive")
	}
	if g.Err != nil {
		return nil, utils.NewError(utils.GatewayError, g.Err.Error())
	}
	return &ChargeResult{
		Reference: fmt.Sprintf("PAY-%s-%d", uuid.New().String(), time.Now().Unix()),
	}, nil
}

func (g *SimulatedGateway) Refund(reference string, amount float64) error {
	if g.Err != nil {
		return utils.NewError(utils.GatewayError, g.Err.Error())
	}
	return nil
}
