package donation

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/entities"
	"NovelNest-Backend/pkg/user"
	"NovelNest-Backend/pkg/wallet"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DonationService interface {
		Donate(ctx context.Context, req domain.DonateRequest, fromUserID string) (*domain.DonationResponse, error)
		GetUserDonations(ctx context.Context, userID string, page, limit int) ([]*domain.DonationResponse, int64, error)
	}

	donationService struct {
		donationRepository DonationRepository
		userRepository     user.UserRepository
		walletService      wallet.WalletService
	}
)

func NewDonationService(donationRepository DonationRepository, userRepository user.UserRepository, walletService wallet.WalletService) DonationService {
	return &donationService{
		donationRepository: donationRepository,
		userRepository:     userRepository,
		walletService:      walletService,
	}
}

func (s *donationService) Donate(ctx context.Context, req domain.DonateRequest, fromUserID string) (*domain.DonationResponse, error) {
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if req.ToUserID == fromUserID {
		return nil, domain.ErrSelfDonation
	}

	fromUUID, err := uuid.Parse(fromUserID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	toUUID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	recipient, err := s.userRepository.GetUserByID(ctx, toUUID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, domain.ErrRecipientNotFound
	}

	donation := &entities.Donation{
		ID:         uuid.New(),
		FromUserID: fromUUID,
		ToUserID:   toUUID,
		PaidCoin:   entities.CoinB,
		AmountCoin: req.Amount,
		Message:    req.Message,
	}

	// The sender debit is applied (and checked) before the recipient credit;
	// if it fails nothing persists, including the donation row.
	err = s.walletService.WithTransaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.walletService.ApplyDeltaTx(tx, wallet.ApplyDeltaRequest{
			UserID:         fromUUID,
			Coin:           entities.CoinB,
			Delta:          -req.Amount,
			Reason:         entities.ReasonDonate,
			RefType:        "DONATION",
			RefID:          donation.ID.String(),
			IdempotencyKey: "DONATE_OUT:" + donation.ID.String(),
		}); err != nil {
			return err
		}

		if _, err := s.walletService.ApplyDeltaTx(tx, wallet.ApplyDeltaRequest{
			UserID:         toUUID,
			Coin:           entities.CoinB,
			Delta:          req.Amount,
			Reason:         entities.ReasonDonate,
			RefType:        "DONATION",
			RefID:          donation.ID.String(),
			IdempotencyKey: "DONATE_IN:" + donation.ID.String(),
		}); err != nil {
			return err
		}

		return s.donationRepository.CreateDonationTx(tx, donation)
	})
	if err != nil {
		return nil, err
	}

	return &domain.DonationResponse{
		ID:         donation.ID.String(),
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		AmountCoin: req.Amount,
		Message:    req.Message,
		CreatedAt:  donation.CreatedAt,
	}, nil
}

func (s *donationService) GetUserDonations(ctx context.Context, userID string, page, limit int) ([]*domain.DonationResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	donations, count, err := s.donationRepository.GetDonationsByUser(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.DonationResponse, 0, len(donations))
	for _, d := range donations {
		result = append(result, &domain.DonationResponse{
			ID:         d.ID.String(),
			FromUserID: d.FromUserID.String(),
			ToUserID:   d.ToUserID.String(),
			AmountCoin: d.AmountCoin,
			Message:    d.Message,
			CreatedAt:  d.CreatedAt,
		})
	}

	return result, count, nil
}
