package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ajo-circle-be/internal/dto"
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/pkg/logger"
	"ajo-circle-be/internal/repository/specification"
	"ajo-circle-be/internal/repository/unitofwork"
	"ajo-circle-be/pkg/gateway"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

type IPaymentService interface {
	Initiate(ctx context.Context, userId uuid.UUID, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error)

	// Verify is the single settlement funnel: both the sync path and the
	// webhook path end up here. It resolves the gateway status, records
	// it, and hands verified payments to the activator or the cycle
	// settler. Idempotent per reference.
	Verify(ctx context.Context, reference string) (*dto.VerificationResponse, error)

	// HandleWebhook authenticates and applies a gateway notification.
	HandleWebhook(ctx context.Context, signature string, body []byte) error
}

type paymentService struct {
	uowFactory        unitofwork.RepositoryFactory
	provider          gateway.Provider
	membershipService IMembershipService
	cycleService      ICycleService
	publisherService  IPublisherService
	currency          string
	callbackURL       string
	verifyMaxRetries  int
	logger            logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	provider gateway.Provider,
	membershipService IMembershipService,
	cycleService ICycleService,
	publisherService IPublisherService,
	currency string,
	callbackURL string,
	verifyMaxRetries int,
	log logger.ILogger,
) IPaymentService {
	if verifyMaxRetries <= 0 {
		verifyMaxRetries = 3
	}
	return &paymentService{
		uowFactory:        uowFactory,
		provider:          provider,
		membershipService: membershipService,
		cycleService:      cycleService,
		publisherService:  publisherService,
		currency:          currency,
		callbackURL:       callbackURL,
		verifyMaxRetries:  verifyMaxRetries,
		logger:            log,
	}
}

func (s *paymentService) Initiate(ctx context.Context, userId uuid.UUID, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: req.GroupId})
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	purpose := entity.PaymentPurpose(req.Purpose)
	var amount int64
	switch purpose {
	case entity.PurposeEntryPayment:
		if group.Status != entity.GroupStatusForming {
			return nil, ErrGroupNotJoinable
		}
		existing, err := uow.MembershipRepository().FindOne(ctx,
			specification.BelongsToGroup{GroupID: group.Id},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrAlreadyMember
		}
		amount = group.EntryAmount()
	case entity.PurposeRecurringContribution:
		if req.CycleNumber < 1 {
			return nil, fmt.Errorf("recurring contribution requires a cycle number")
		}
		amount = group.ContributionAmount
	default:
		return nil, fmt.Errorf("unknown payment purpose %q", req.Purpose)
	}

	reference := mintReference()
	record := &entity.PaymentRecord{
		Id:                 uuid.New(),
		Reference:          reference,
		GroupId:            group.Id,
		UserId:             userId,
		Email:              req.Email,
		Purpose:            purpose,
		Amount:             amount,
		SlotPreference:     req.SlotPreference,
		CycleNumber:        req.CycleNumber,
		VerificationStatus: entity.VerificationStatusPending,
	}
	if _, _, err := uow.PaymentRepository().RecordAttempt(ctx, record); err != nil {
		return nil, err
	}

	charge, err := s.provider.InitializeCharge(ctx, gateway.InitializeRequest{
		Reference:   reference,
		Amount:      amount,
		Currency:    s.currency,
		Email:       req.Email,
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrUnreachable) {
			return nil, ErrGatewayUnreachable
		}
		return nil, err
	}

	s.logger.Info("PaymentService", "Payment initiated", map[string]interface{}{
		"reference": reference, "group_id": group.Id, "purpose": string(purpose), "amount": amount,
	})

	return &dto.InitiatePaymentResponse{
		Reference:        reference,
		Amount:           amount,
		Currency:         s.currency,
		Provider:         s.provider.Name(),
		AuthorizationURL: charge.AuthorizationURL,
		AccessCode:       charge.AccessCode,
	}, nil
}

func (s *paymentService) Verify(ctx context.Context, reference string) (*dto.VerificationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.PaymentRepository().FindOne(ctx, specification.ByReference{Reference: reference})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrPaymentNotFound
	}

	if record.VerificationStatus == entity.VerificationStatusPending {
		verification, err := s.verifyWithRetry(ctx, reference)
		if err != nil {
			if errors.Is(err, gateway.ErrTransactionNotFound) {
				// The gateway has no record after retries: fail closed.
				if err := uow.PaymentRepository().MarkVerified(ctx, reference,
					entity.VerificationStatusFailed, "not_found", 0); err != nil {
					return nil, err
				}
				record.VerificationStatus = entity.VerificationStatusFailed
				return s.response(record), nil
			}
			// Transport exhaustion keeps the record pending; the caller
			// should retry later, this is not a failure.
			s.logger.Warn("PaymentService", "Gateway unreachable during verify", map[string]interface{}{
				"reference": reference, "error": err.Error(),
			})
			return s.response(record), ErrGatewayUnreachable
		}

		switch verification.Status {
		case gateway.StatusSuccess:
			if verification.Amount != record.Amount {
				s.logger.Error("PaymentService", "Amount mismatch", map[string]interface{}{
					"reference": reference, "expected": record.Amount, "got": verification.Amount,
				})
				if err := uow.PaymentRepository().MarkVerified(ctx, reference,
					entity.VerificationStatusFailed, "amount_mismatch", verification.Amount); err != nil {
					return nil, err
				}
				record.VerificationStatus = entity.VerificationStatusFailed
				return s.response(record), ErrAmountMismatch
			}
			if err := uow.PaymentRepository().MarkVerified(ctx, reference,
				entity.VerificationStatusVerified, string(verification.Status), verification.Amount); err != nil {
				return nil, err
			}
			record.VerificationStatus = entity.VerificationStatusVerified
		case gateway.StatusFailed:
			if err := uow.PaymentRepository().MarkVerified(ctx, reference,
				entity.VerificationStatusFailed, string(verification.Status), verification.Amount); err != nil {
				return nil, err
			}
			record.VerificationStatus = entity.VerificationStatusFailed
		default:
			// Still pending at the gateway; nothing to record yet.
			return s.response(record), nil
		}
	}

	if record.VerificationStatus != entity.VerificationStatusVerified {
		return s.response(record), nil
	}

	return s.settle(ctx, uow, record)
}

// settle applies the side effects of a verified payment exactly once.
func (s *paymentService) settle(ctx context.Context, uow unitofwork.UnitOfWork, record *entity.PaymentRecord) (*dto.VerificationResponse, error) {
	switch record.Purpose {
	case entity.PurposeEntryPayment:
		membership, err := s.membershipService.Activate(ctx, record)
		if errors.Is(err, ErrAlreadyProcessed) {
			// Another settler owns this reference; report success without
			// re-applying side effects.
			record.Processed = true
			return s.response(record), nil
		}
		if err != nil {
			return nil, err
		}
		record.Processed = true
		res := s.response(record)
		if membership != nil {
			res.MembershipId = &membership.Id
			res.SlotNumber = &membership.SlotNumber
		}
		return res, nil

	case entity.PurposeRecurringContribution:
		now := time.Now()
		won, err := uow.PaymentRepository().MarkProcessed(ctx, record.Reference, now)
		if err != nil {
			return nil, err
		}
		record.Processed = true
		if won {
			if err := s.cycleService.SettleContribution(ctx, record); err != nil {
				return nil, err
			}
			if _, _, err := s.cycleService.AdvanceIfComplete(ctx, record.GroupId); err != nil {
				return nil, err
			}
			s.notifyReceipt(ctx, record)
		}
		return s.response(record), nil
	}
	return s.response(record), nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, signature string, body []byte) error {
	event, err := s.provider.VerifyWebhook(signature, body)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) {
			s.logger.Warn("PaymentService", "Webhook signature rejected", nil)
			return ErrInvalidSignature
		}
		return err
	}

	s.logger.Info("PaymentService", "Webhook accepted", map[string]interface{}{
		"event": event.Event, "reference": event.Reference, "status": string(event.Status),
	})

	// The webhook is only a hint; the gateway is re-queried through the
	// same funnel as the sync path so both agree on the outcome.
	_, err = s.Verify(ctx, event.Reference)
	if errors.Is(err, ErrAmountMismatch) {
		// Recorded as failed already; acknowledging stops gateway retries.
		return nil
	}
	return err
}

func (s *paymentService) verifyWithRetry(ctx context.Context, reference string) (*gateway.ChargeVerification, error) {
	operation := func() (*gateway.ChargeVerification, error) {
		verification, err := s.provider.VerifyCharge(ctx, reference)
		if err != nil {
			if errors.Is(err, gateway.ErrUnreachable) || errors.Is(err, gateway.ErrTransactionNotFound) {
				// Both are worth retrying: a just-created charge can lag
				// behind at the gateway.
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return verification, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(s.verifyMaxRetries)),
		backoff.WithMaxElapsedTime(30*time.Second),
	)
}

func (s *paymentService) notifyReceipt(ctx context.Context, record *entity.PaymentRecord) {
	if s.publisherService == nil {
		return
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	groupName := ""
	if group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: record.GroupId}); err == nil && group != nil {
		groupName = group.Name
	}
	_ = s.publisherService.PublishNotify(ctx, &dto.NotifyMessage{
		Kind:        dto.NotifyPaymentReceipt,
		UserId:      record.UserId,
		Email:       record.Email,
		GroupId:     record.GroupId,
		GroupName:   groupName,
		Reference:   record.Reference,
		CycleNumber: record.CycleNumber,
		Amount:      record.Amount,
	})
}

func (s *paymentService) response(record *entity.PaymentRecord) *dto.VerificationResponse {
	return &dto.VerificationResponse{
		Reference:          record.Reference,
		VerificationStatus: string(record.VerificationStatus),
		Processed:          record.Processed,
	}
}

func mintReference() string {
	return "AJO-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:24]
}
