package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bingolaperla/perla-backend/apperrors"
	"github.com/bingolaperla/perla-backend/models"
	"github.com/bingolaperla/perla-backend/utils/logger"

	"gorm.io/datatypes"
)

// WebhookEvent is the gateway's delivery envelope. Reference carries our
// deposit/withdrawal reference back to us.
type WebhookEvent struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	ChargeID  string  `json:"charge_id"`
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
}

// PaymentService processes Openpay webhook deliveries: verify signature,
// dedupe by event id, dispatch on event type.
type PaymentService struct {
	provider GameProvider
	secret   string
}

func NewPaymentService(provider GameProvider, secret string) *PaymentService {
	return &PaymentService{provider: provider, secret: secret}
}

// VerifySignature checks the HMAC-SHA256 of the raw body against the
// signature header.
func (s *PaymentService) VerifySignature(body []byte, signature string) bool {
	if s.secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleWebhook applies one verified delivery. The event is recorded only
// after its effect lands, so a delivery that fails mid-apply stays
// retryable; replays of an applied event are no-ops because the deposit
// and withdrawal status checks refuse to act twice.
func (s *PaymentService) HandleWebhook(body []byte) error {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperrors.Validationf("malformed webhook payload: %v", err)
	}
	if event.ID == "" || event.Type == "" {
		return apperrors.Validationf("webhook payload missing id or type")
	}

	var err error
	switch event.Type {
	case "charge.succeeded":
		err = s.completeDeposit(event)
	case "charge.failed":
		err = s.failDeposit(event)
	case "payout.succeeded":
		err = s.completeWithdrawal(event)
	case "payout.failed":
		err = s.failWithdrawal(event)
	default:
		logger.Infof("ignoring webhook event %s of type %s", event.ID, event.Type)
	}
	if err != nil {
		return err
	}

	fresh, err := s.provider.RecordPaymentEvent(&models.PaymentEvent{
		EventID:     event.ID,
		Type:        event.Type,
		Payload:     datatypes.JSON(body),
		ProcessedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if !fresh {
		logger.Infof("webhook event %s was already recorded", event.ID)
	}
	return nil
}

func (s *PaymentService) completeDeposit(event WebhookEvent) error {
	dep, err := s.provider.DepositByReference(event.Reference)
	if err != nil {
		return err
	}
	if dep.Status != models.PaymentPending {
		logger.Infof("deposit %s is %s, not crediting again", dep.Reference, dep.Status)
		return nil
	}

	if _, err := s.provider.AdjustBalance(dep.UserID, dep.Amount, models.DepositTransaction, dep.Reference,
		fmt.Sprintf("deposit of %.2f Perlas confirmed", dep.Amount)); err != nil {
		return err
	}

	dep.Status = models.PaymentCompleted
	dep.OpenpayChargeID = event.ChargeID
	if err := s.provider.SaveDeposit(dep); err != nil {
		return err
	}
	logger.Infof("deposit %s completed: user %d credited %.2f", dep.Reference, dep.UserID, dep.Amount)
	return nil
}

func (s *PaymentService) failDeposit(event WebhookEvent) error {
	dep, err := s.provider.DepositByReference(event.Reference)
	if err != nil {
		return err
	}
	if dep.Status != models.PaymentPending {
		return nil
	}
	dep.Status = models.PaymentFailed
	dep.OpenpayChargeID = event.ChargeID
	if err := s.provider.SaveDeposit(dep); err != nil {
		return err
	}
	logger.Warnf("deposit %s failed at the gateway", dep.Reference)
	return nil
}

func (s *PaymentService) completeWithdrawal(event WebhookEvent) error {
	wd, err := s.provider.WithdrawalByReference(event.Reference)
	if err != nil {
		return err
	}
	if wd.Status != models.PaymentPending {
		return nil
	}
	wd.Status = models.PaymentCompleted
	if err := s.provider.SaveWithdrawal(wd); err != nil {
		return err
	}
	logger.Infof("withdrawal %s paid out", wd.Reference)
	return nil
}

// failWithdrawal refunds the Perlas debited when the payout was requested.
func (s *PaymentService) failWithdrawal(event WebhookEvent) error {
	wd, err := s.provider.WithdrawalByReference(event.Reference)
	if err != nil {
		return err
	}
	if wd.Status != models.PaymentPending {
		return nil
	}
	wd.Status = models.PaymentFailed
	if err := s.provider.SaveWithdrawal(wd); err != nil {
		return err
	}

	if _, err := s.provider.AdjustBalance(wd.UserID, wd.Amount, models.DepositTransaction, wd.Reference,
		fmt.Sprintf("refund of failed withdrawal %s", wd.Reference)); err != nil {
		return err
	}
	logger.Warnf("withdrawal %s failed, user %d refunded %.2f", wd.Reference, wd.UserID, wd.Amount)
	return nil
}
