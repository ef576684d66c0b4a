package withdraw

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/entities"
	"NovelNest-Backend/internal/utils/mailing"
	"NovelNest-Backend/pkg/wallet"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	WithdrawService interface {
		RequestWithdraw(ctx context.Context, req domain.RequestWithdrawRequest, userID string) (*domain.RequestWithdrawResponse, error)
		CancelWithdraw(ctx context.Context, userID, requestID string) error
		GetUserWithdrawals(ctx context.Context, userID string, page, limit int) ([]*domain.WithdrawResponse, int64, error)
		ListEligiblePayouts(ctx context.Context) ([]*domain.PayoutCandidate, error)
		ConfirmPayout(ctx context.Context, adminID, requestID string, cashAmount float64) error
		RejectPayout(ctx context.Context, adminID, requestID string) error
	}

	withdrawService struct {
		withdrawRepository WithdrawRepository
		walletService      wallet.WalletService
	}
)

func NewWithdrawService(withdrawRepository WithdrawRepository, walletService wallet.WalletService) WithdrawService {
	return &withdrawService{
		withdrawRepository: withdrawRepository,
		walletService:      walletService,
	}
}

// CalculateFee applies the active rule to a withdrawal amount. Percentage
// fees round half-up to the nearest whole coin, so fee plus net always
// reconstruct the requested amount exactly.
func CalculateFee(rule *entities.WithdrawRule, amount int64) int64 {
	if rule == nil {
		return 0
	}
	switch rule.FeeType {
	case entities.FeeTypeFlat:
		return rule.FeeValue
	case entities.FeeTypePercentage:
		return (amount*rule.FeeValue + 50) / 100
	default:
		return 0
	}
}

func withinRuleBounds(rule *entities.WithdrawRule, amount int64) bool {
	if rule == nil {
		return true
	}
	if amount < rule.MinCoinB {
		return false
	}
	if rule.MaxCoinB > 0 && amount > rule.MaxCoinB {
		return false
	}
	return true
}

func (s *withdrawService) RequestWithdraw(ctx context.Context, req domain.RequestWithdrawRequest, userID string) (*domain.RequestWithdrawResponse, error) {
	if req.CoinB <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	rule, err := s.withdrawRepository.GetActiveRule(ctx)
	if err != nil {
		return nil, err
	}
	if !withinRuleBounds(rule, req.CoinB) {
		return nil, domain.ErrAmountOutOfBounds
	}

	fee := CalculateFee(rule, req.CoinB)
	net := req.CoinB - fee
	if net <= 0 {
		return nil, domain.ErrFeeExceedsAmount
	}

	request := &entities.WithdrawRequest{
		ID:                   uuid.New(),
		UserID:               userUUID,
		CoinB:                req.CoinB,
		FeeCoinB:             fee,
		NetCoinB:             net,
		PaymentMethodDetails: req.PaymentMethodDetails,
		Status:               entities.WithdrawRequested,
		RequestedAt:          time.Now(),
	}

	// Reserving and persisting the request are one atomic unit: the coin is
	// earmarked, not debited, until an admin confirms the payout.
	err = s.walletService.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.walletService.ReserveCoinBTx(tx, userUUID, req.CoinB); err != nil {
			return err
		}
		return s.withdrawRepository.CreateRequestTx(tx, request)
	})
	if err != nil {
		return nil, err
	}

	return &domain.RequestWithdrawResponse{
		RequestID: request.ID.String(),
		CoinB:     request.CoinB,
		FeeCoinB:  request.FeeCoinB,
		NetCoinB:  request.NetCoinB,
		Status:    request.Status,
	}, nil
}

func (s *withdrawService) CancelWithdraw(ctx context.Context, userID, requestID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	requestUUID, err := uuid.Parse(requestID)
	if err != nil {
		return domain.ErrParseUUID
	}

	request, err := s.withdrawRepository.GetRequestByID(ctx, requestUUID)
	if err != nil {
		return err
	}
	if request == nil {
		return domain.ErrWithdrawNotFound
	}
	if request.UserID != userUUID {
		return domain.ErrUserNotAllowed
	}

	return s.walletService.WithTransaction(ctx, func(tx *gorm.DB) error {
		ok, err := s.withdrawRepository.ResolveTx(tx, requestUUID, entities.WithdrawCancelled, nil, nil)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyProcessed
		}
		return s.walletService.ReleaseReserveTx(tx, request.UserID, request.CoinB)
	})
}

func (s *withdrawService) GetUserWithdrawals(ctx context.Context, userID string, page, limit int) ([]*domain.WithdrawResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	requests, count, err := s.withdrawRepository.GetRequestsByUser(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.WithdrawResponse, 0, len(requests))
	for _, req := range requests {
		result = append(result, &domain.WithdrawResponse{
			ID:          req.ID.String(),
			CoinB:       req.CoinB,
			FeeCoinB:    req.FeeCoinB,
			NetCoinB:    req.NetCoinB,
			Status:      req.Status,
			RequestedAt: req.RequestedAt,
			PaidAt:      req.PaidAt,
		})
	}

	return result, count, nil
}

// ListEligiblePayouts re-checks each pending request against the rule that is
// active now, not the one in force when the request was made. The persisted
// fee and net are still the ones honored at payout.
func (s *withdrawService) ListEligiblePayouts(ctx context.Context) ([]*domain.PayoutCandidate, error) {
	requests, err := s.withdrawRepository.ListRequested(ctx)
	if err != nil {
		return nil, err
	}

	rule, err := s.withdrawRepository.GetActiveRule(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.PayoutCandidate, 0, len(requests))
	for _, req := range requests {
		if !withinRuleBounds(rule, req.NetCoinB) {
			continue
		}

		candidate := &domain.PayoutCandidate{
			RequestID:            req.ID.String(),
			UserID:               req.UserID.String(),
			CoinB:                req.CoinB,
			FeeCoinB:             req.FeeCoinB,
			NetCoinB:             req.NetCoinB,
			PaymentMethodDetails: req.PaymentMethodDetails,
			RequestedAt:          req.RequestedAt,
		}
		if req.User != nil {
			candidate.UserEmail = req.User.Email
		}
		result = append(result, candidate)
	}

	return result, nil
}

func (s *withdrawService) ConfirmPayout(ctx context.Context, adminID, requestID string, cashAmount float64) error {
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return domain.ErrParseUUID
	}
	requestUUID, err := uuid.Parse(requestID)
	if err != nil {
		return domain.ErrParseUUID
	}
	if cashAmount <= 0 {
		return domain.ErrInvalidAmount
	}

	request, err := s.withdrawRepository.GetRequestByID(ctx, requestUUID)
	if err != nil {
		return err
	}
	if request == nil {
		return domain.ErrWithdrawNotFound
	}

	// Winning the conditional update is what authorizes the debit: a
	// concurrent confirmation gets zero rows and never reaches the engine.
	err = s.walletService.WithTransaction(ctx, func(tx *gorm.DB) error {
		now := time.Now()
		ok, err := s.withdrawRepository.ResolveTx(tx, requestUUID, entities.WithdrawPaid, &adminUUID, &now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyProcessed
		}

		// Release the earmark first so the WITHDRAW debit passes the
		// spendable-balance check inside the same transaction.
		if err := s.walletService.ReleaseReserveTx(tx, request.UserID, request.CoinB); err != nil {
			return err
		}

		_, err = s.walletService.ApplyDeltaTx(tx, wallet.ApplyDeltaRequest{
			UserID:         request.UserID,
			Coin:           entities.CoinB,
			Delta:          -request.CoinB,
			Reason:         entities.ReasonWithdraw,
			RefType:        "WITHDRAW",
			RefID:          requestUUID.String(),
			IdempotencyKey: "WITHDRAW:" + requestUUID.String(),
		})
		return err
	})
	if err != nil {
		return err
	}

	if request.User != nil && request.User.Email != "" {
		go s.notifyPayout(request)
	}

	return nil
}

func (s *withdrawService) RejectPayout(ctx context.Context, adminID, requestID string) error {
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return domain.ErrParseUUID
	}
	requestUUID, err := uuid.Parse(requestID)
	if err != nil {
		return domain.ErrParseUUID
	}

	request, err := s.withdrawRepository.GetRequestByID(ctx, requestUUID)
	if err != nil {
		return err
	}
	if request == nil {
		return domain.ErrWithdrawNotFound
	}

	return s.walletService.WithTransaction(ctx, func(tx *gorm.DB) error {
		ok, err := s.withdrawRepository.ResolveTx(tx, requestUUID, entities.WithdrawRejected, &adminUUID, nil)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyProcessed
		}
		return s.walletService.ReleaseReserveTx(tx, request.UserID, request.CoinB)
	})
}

func (s *withdrawService) notifyPayout(request *entities.WithdrawRequest) {
	subject := "Your withdrawal has been paid"
	body := fmt.Sprintf(
		"<p>Your withdrawal request <b>%s</b> has been paid out.</p><p>Amount: %d coins, fee: %d, net: %d.</p>",
		request.ID.String(), request.CoinB, request.FeeCoinB, request.NetCoinB,
	)
	if err := mailing.SendMail(request.User.Email, subject, body); err != nil {
		log.Printf("failed to send payout notification for %s: %v", request.ID, err)
	}
}
