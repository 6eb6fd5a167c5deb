package payment

import (
	"errors"
	"strings"
	"testing"

	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
)

func TestSimulatedGatewayCharge(t *testing.T) {
	gateway := NewSimulatedGateway()

	result, err := gateway.Charge(1500, models.MethodCard)
	if err != nil {
		t.Fatalf("Charge returned error: %v", err)
	}
	if !strings.HasPrefix(result.Reference, "PAY-") {
		t.Errorf("reference = %q, want PAY- prefix", result.Reference)
	}

	// References must be unique per charge
	second, err := gateway.Charge(1500, models.MethodCard)
	if err != nil {
		t.Fatalf("second Charge returned error: %v", err)
	}
	if second.Reference == result.Reference {
		t.Error("two charges produced the same reference")
	}
}

func TestSimulatedGatewayChargeRejectsNonPositiveAmounts(t *testing.T) {
	gateway := NewSimulatedGateway()

	for _, amount := range []float64{0, -100} {
		_, err := gateway.Charge(amount, models.MethodUPI)
		if err == nil {
			t.Errorf("Charge(%v) succeeded, want error", amount)
			continue
		}
		var appErr *utils.AppError
		if !errors.As(err, &appErr) || appErr.Kind != utils.ValidationError {
			t.Errorf("Charge(%v): got %v, want validation error", amount, err)
		}
	}
}

func TestSimulatedGatewayFailure(t *testing.T) {
	gateway := &SimulatedGateway{Err: errors.New("card declined")}

	_, err := gateway.Charge(1500, models.MethodCard)
	if err == nil {
		t.Fatal("Charge succeeded on a failing gateway")
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Kind != utils.GatewayError {
		t.Errorf("Charge failure: got %v, want gateway error", err)
	}

	if err := gateway.Refund("PAY-ref", 1500); err == nil {
		t.Error("Refund succeeded on a failing gateway")
	}
}

func TestBeginAttemptRetryTakesNewMethod(t *testing.T) {
	payment := &models.Payment{
		BookingID:     7,
		Amount:        1500,
		PaymentMethod: models.MethodCard,
		TransactionID: "txn-original",
		Status:        models.PaymentFailed,
		Notes:         "card declined",
	}

	// Retrying a failed payment with a different method must record the
	// method actually charged.
	beginAttempt(payment, models.MethodUPI)

	if payment.PaymentMethod != models.MethodUPI {
		t.Errorf("method = %q, want %q after retry", payment.PaymentMethod, models.MethodUPI)
	}
	if payment.Status != models.PaymentProcessing {
		t.Errorf("status = %q, want %q", payment.Status, models.PaymentProcessing)
	}
	if payment.Amount != 1500 {
		t.Errorf("amount changed on retry: %v", payment.Amount)
	}
	if payment.TransactionID != "txn-original" {
		t.Errorf("transaction id changed on retry: %q", payment.TransactionID)
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range models.PaymentMethods {
		if !ValidPaymentMethod(m) {
			t.Errorf("ValidPaymentMethod(%q) = false, want true", m)
		}
	}
	if ValidPaymentMethod("cheque") {
		t.Error("ValidPaymentMethod(\"cheque\") = true, want false")
	}
}

func TestValidateRefundable(t *testing.T) {
	if err := ValidateRefundable(models.PaymentCompleted); err != nil {
		t.Errorf("completed payment should be refundable, got %v", err)
	}

	// A second refund of the same payment must be rejected
	err := ValidateRefundable(models.PaymentRefunded)
	if err == nil {
		t.Fatal("refunded payment accepted for refund again")
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Kind != utils.InvalidStateError {
		t.Errorf("double refund: got %v, want invalid state error", err)
	}

	for _, status := range []string{models.PaymentPending, models.PaymentProcessing, models.PaymentFailed} {
		if err := ValidateRefundable(status); err == nil {
			t.Errorf("%s payment accepted for refund", status)
		}
	}
}
