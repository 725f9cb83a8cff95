package order

// Saga step names reported in StepOutcome.Step.
const (
	StepPersist        = "order.persist"
	StepStockDecrement = "stock.decrement"
	StepStockRestore   = "stock.restore"
	StepCartClear      = "cart.clear"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// StepOutcome records what one step of order creation did.
type StepOutcome struct {
	Step      string `json:"step"`
	ProductID int64  `json:"productId,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Outcome   string `json:"outcome"`
	Error     string `json:"error,omitempty"`
}

func (s StepOutcome) Failed() bool { return s.Outcome == OutcomeFailed }

// FailedSteps returns the steps whose outcome is failed.
func FailedSteps(steps []StepOutcome) []StepOutcome {
	var out []StepOutcome
	for _, s := range steps {
		if s.Failed() {
			out = append(out, s)
		}
	}
	return out
}
