package payment

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/entities"
	"NovelNest-Backend/pkg/midtrans"
	"NovelNest-Backend/pkg/wallet"
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PaymentService interface {
		CreatePaymentOrder(ctx context.Context, req domain.CreatePaymentOrderRequest, userID string) (*domain.CreatePaymentOrderResponse, error)
		ConfirmPayment(ctx context.Context, userID, orderID string) (*domain.ConfirmPaymentResponse, error)
		HandleMidtransNotification(ctx context.Context, orderCode string) error
		GetPaymentOrders(ctx context.Context, userID string, page, limit int) ([]*domain.PaymentOrderResponse, int64, error)
	}

	paymentService struct {
		paymentRepository PaymentRepository
		walletService     wallet.WalletService
		midtransService   midtrans.MidtransService
	}
)

func NewPaymentService(paymentRepository PaymentRepository, walletService wallet.WalletService, midtransService midtrans.MidtransService) PaymentService {
	return &paymentService{
		paymentRepository: paymentRepository,
		walletService:     walletService,
		midtransService:   midtransService,
	}
}

func (s *paymentService) CreatePaymentOrder(ctx context.Context, req domain.CreatePaymentOrderRequest, userID string) (*domain.CreatePaymentOrderResponse, error) {
	if req.AmountVnd <= 0 || req.CoinB <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	orderID := uuid.New()
	orderCode := "PO-" + strings.ToUpper(strings.ReplaceAll(orderID.String(), "-", "")[:16])

	invoiceURL, err := s.midtransService.CreateInvoice(ctx, domain.MidtransPaymentRequest{
		OrderCode: orderCode,
		Amount:    req.AmountVnd,
		Email:     req.Email,
	})
	if err != nil {
		return nil, domain.ErrPaymentFailed
	}

	order := &entities.PaymentOrder{
		ID:         orderID,
		UserID:     userUUID,
		OrderCode:  orderCode,
		AmountVnd:  req.AmountVnd,
		CoinB:      req.CoinB,
		Status:     entities.PaymentOrderPending,
		InvoiceURL: invoiceURL,
	}
	if err := s.paymentRepository.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	return &domain.CreatePaymentOrderResponse{
		OrderID:    order.ID.String(),
		OrderCode:  order.OrderCode,
		Status:     order.Status,
		InvoiceURL: invoiceURL,
	}, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, userID, orderID string) (*domain.ConfirmPaymentResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	order, err := s.paymentRepository.GetOrderByID(ctx, orderUUID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userUUID {
		return nil, domain.ErrOrderNotFound
	}

	return s.credit(ctx, order)
}

func (s *paymentService) HandleMidtransNotification(ctx context.Context, orderCode string) error {
	order, err := s.paymentRepository.GetOrderByCode(ctx, orderCode)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrOrderNotFound
	}

	paid, err := s.midtransService.IsTransactionPaid(ctx, orderCode)
	if err != nil {
		return domain.ErrPaymentFailed
	}
	if !paid {
		return nil
	}

	_, err = s.credit(ctx, order)
	if err != nil && err == domain.ErrOrderNotPending {
		// The gateway retries notifications; an already-confirmed order is
		// not a failure here.
		return nil
	}
	return err
}

// credit performs the PENDING -> PAID transition and the TOPUP ledger credit
// as one atomic unit. Only the call that wins the conditional update reaches
// the engine; the ledger's cause dedupe backs it up.
func (s *paymentService) credit(ctx context.Context, order *entities.PaymentOrder) (*domain.ConfirmPaymentResponse, error) {
	var entry *entities.LedgerEntry
	err := s.walletService.WithTransaction(ctx, func(tx *gorm.DB) error {
		ok, err := s.paymentRepository.MarkPaidTx(tx, order.ID, order.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrOrderNotPending
		}

		entry, err = s.walletService.ApplyDeltaTx(tx, wallet.ApplyDeltaRequest{
			UserID:         order.UserID,
			Coin:           entities.CoinB,
			Delta:          order.CoinB,
			Reason:         entities.ReasonTopup,
			RefType:        "PAYMENT",
			RefID:          order.ID.String(),
			IdempotencyKey: "TOPUP:" + order.ID.String(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &domain.ConfirmPaymentResponse{
		OrderID:         order.ID.String(),
		NewBalanceCoinB: entry.BalanceAfter,
	}, nil
}

func (s *paymentService) GetPaymentOrders(ctx context.Context, userID string, page, limit int) ([]*domain.PaymentOrderResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	orders, count, err := s.paymentRepository.GetOrdersByUser(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.PaymentOrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, &domain.PaymentOrderResponse{
			ID:        o.ID.String(),
			OrderCode: o.OrderCode,
			AmountVnd: o.AmountVnd,
			CoinB:     o.CoinB,
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
			PaidAt:    o.PaidAt,
		})
	}

	return result, count, nil
}
