package payment

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/entities"
	"NovelNest-Backend/pkg/wallet"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreateOrder(ctx context.Context, order *entities.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*entities.PaymentOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentOrder), args.Error(1)
}

func (m *MockPaymentRepository) GetOrderByCode(ctx context.Context, code string) (*entities.PaymentOrder, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentOrder), args.Error(1)
}

func (m *MockPaymentRepository) GetOrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.PaymentOrder, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entities.PaymentOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) MarkPaidTx(tx *gorm.DB, orderID, userID uuid.UUID) (bool, error) {
	args := m.Called(tx, orderID, userID)
	return args.Bool(0), args.Error(1)
}

// MockMidtransService is a mock implementation of midtrans.MidtransService
type MockMidtransService struct {
	mock.Mock
}

func (m *MockMidtransService) CreateInvoice(ctx context.Context, req domain.MidtransPaymentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockMidtransService) IsTransactionPaid(ctx context.Context, orderCode string) (bool, error) {
	args := m.Called(ctx, orderCode)
	return args.Bool(0), args.Error(1)
}

// MockWalletService is a mock implementation of wallet.WalletService
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) ApplyDelta(ctx context.Context, req wallet.ApplyDeltaRequest) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockWalletService) ApplyDeltaTx(tx *gorm.DB, req wallet.ApplyDeltaRequest) (*entities.LedgerEntry, error) {
	args := m.Called(tx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockWalletService) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

func (m *MockWalletService) ReserveCoinBTx(tx *gorm.DB, userID uuid.UUID, amount int64) error {
	args := m.Called(tx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletService) ReleaseReserveTx(tx *gorm.DB, userID uuid.UUID, amount int64) error {
	args := m.Called(tx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletService) GetWallet(ctx context.Context, userID string) (*domain.WalletResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletResponse), args.Error(1)
}

func (m *MockWalletService) GetTransactionHistory(ctx context.Context, userID string, page, limit int) ([]*domain.LedgerEntryResponse, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.LedgerEntryResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletService) RewardCoins(ctx context.Context, req domain.RewardCoinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockWalletService) AdjustBalance(ctx context.Context, req domain.AdjustBalanceRequest) (*domain.WalletResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletResponse), args.Error(1)
}

func TestService_CreatePaymentOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("successful order carries the invoice URL", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockWallet := new(MockWalletService)
		mockMidtrans := new(MockMidtransService)

		mockMidtrans.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(req domain.MidtransPaymentRequest) bool {
			return req.Amount == 50000 && req.OrderCode != ""
		})).Return("https://app.sandbox.midtrans.com/snap/v3/redirection/abc", nil)
		mockRepo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *entities.PaymentOrder) bool {
			return o.UserID == userID && o.Status == entities.PaymentOrderPending && o.CoinB == 500
		})).Return(nil)

		service := NewPaymentService(mockRepo, mockWallet, mockMidtrans)
		resp, err := service.CreatePaymentOrder(context.Background(), domain.CreatePaymentOrderRequest{
			AmountVnd: 50000,
			CoinB:     500,
		}, userID.String())

		assert.NoError(t, err)
		assert.Equal(t, entities.PaymentOrderPending, resp.Status)
		assert.NotEmpty(t, resp.InvoiceURL)
		mockRepo.AssertExpectations(t)
		mockMidtrans.AssertExpectations(t)
	})

	t.Run("gateway failure surfaces as payment error", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockWallet := new(MockWalletService)
		mockMidtrans := new(MockMidtransService)

		mockMidtrans.On("CreateInvoice", mock.Anything, mock.Anything).
			Return("", assert.AnError)

		service := NewPaymentService(mockRepo, mockWallet, mockMidtrans)
		_, err := service.CreatePaymentOrder(context.Background(), domain.CreatePaymentOrderRequest{
			AmountVnd: 50000,
			CoinB:     500,
		}, userID.String())

		assert.ErrorIs(t, err, domain.ErrPaymentFailed)
		mockRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		service := NewPaymentService(new(MockPaymentRepository), new(MockWalletService), new(MockMidtransService))
		_, err := service.CreatePaymentOrder(context.Background(), domain.CreatePaymentOrderRequest{
			AmountVnd: 0,
			CoinB:     500,
		}, userID.String())
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestService_ConfirmPayment(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	order := func() *entities.PaymentOrder {
		return &entities.PaymentOrder{
			ID:     orderID,
			UserID: userID,
			CoinB:  500,
			Status: entities.PaymentOrderPending,
		}
	}

	t.Run("confirm credits coin B once", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockWallet := new(MockWalletService)
		mockMidtrans := new(MockMidtransService)

		mockRepo.On("GetOrderByID", mock.Anything, orderID).Return(order(), nil)
		mockWallet.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("MarkPaidTx", mock.Anything, orderID, userID).Return(true, nil)
		mockWallet.On("ApplyDeltaTx", mock.Anything, mock.MatchedBy(func(req wallet.ApplyDeltaRequest) bool {
			return req.Delta == 500 &&
				req.Coin == entities.CoinB &&
				req.Reason == entities.ReasonTopup &&
				req.IdempotencyKey == "TOPUP:"+orderID.String()
		})).Return(&entities.LedgerEntry{BalanceAfter: 500}, nil)

		service := NewPaymentService(mockRepo, mockWallet, mockMidtrans)
		resp, err := service.ConfirmPayment(context.Background(), userID.String(), orderID.String())

		assert.NoError(t, err)
		assert.Equal(t, int64(500), resp.NewBalanceCoinB)
		mockRepo.AssertExpectations(t)
		mockWallet.AssertExpectations(t)
	})

	t.Run("second confirmation loses the conditional update", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockWallet := new(MockWalletService)
		mockMidtrans := new(MockMidtransService)

		mockRepo.On("GetOrderByID", mock.Anything, orderID).Return(order(), nil)
		mockWallet.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("MarkPaidTx", mock.Anything, orderID, userID).Return(false, nil)

		service := NewPaymentService(mockRepo, mockWallet, mockMidtrans)
		_, err := service.ConfirmPayment(context.Background(), userID.String(), orderID.String())

		assert.ErrorIs(t, err, domain.ErrOrderNotPending)
		mockWallet.AssertNotCalled(t, "ApplyDeltaTx", mock.Anything, mock.Anything)
	})

	t.Run("someone else's order reads as not found", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockRepo.On("GetOrderByID", mock.Anything, orderID).Return(order(), nil)

		service := NewPaymentService(mockRepo, new(MockWalletService), new(MockMidtransService))
		_, err := service.ConfirmPayment(context.Background(), uuid.New().String(), orderID.String())

		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestService_HandleMidtransNotification(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	orderCode := "PO-0123456789ABCDEF"

	order := func() *entities.PaymentOrder {
		return &entities.PaymentOrder{
			ID:        orderID,
			UserID:    userID,
			OrderCode: orderCode,
			CoinB:     500,
			Status:    entities.PaymentOrderPending,
		}
	}

	t.Run("settled transaction credits the wallet", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockWallet := new(MockWalletService)
		mockMidtrans := new(MockMidtransService)

		mockRepo.On("GetOrderByCode", mock.Anything, orderCode).Return(order(), nil)
		mockMidtrans.On("IsTransactionPaid", mock.Anything, orderCode).Return(true, nil)
		mockWallet.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("MarkPaidTx", mock.Anything, orderID, userID).Return(true, nil)
		mockWallet.On("ApplyDeltaTx", mock.Anything, mock.Anything).
			Return(&entities.LedgerEntry{BalanceAfter: 500}, nil)

		service := NewPaymentService(mockRepo, mockWallet, mockMidtrans)
		err := service.HandleMidtransNotification(context.Background(), orderCode)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("gateway retry on a paid order is swallowed", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockWallet := new(MockWalletService)
		mockMidtrans := new(MockMidtransService)

		mockRepo.On("GetOrderByCode", mock.Anything, orderCode).Return(order(), nil)
		mockMidtrans.On("IsTransactionPaid", mock.Anything, orderCode).Return(true, nil)
		mockWallet.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("MarkPaidTx", mock.Anything, orderID, userID).Return(false, nil)

		service := NewPaymentService(mockRepo, mockWallet, mockMidtrans)
		err := service.HandleMidtransNotification(context.Background(), orderCode)

		assert.NoError(t, err)
		mockWallet.AssertNotCalled(t, "ApplyDeltaTx", mock.Anything, mock.Anything)
	})

	t.Run("unsettled transaction does nothing", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockWallet := new(MockWalletService)
		mockMidtrans := new(MockMidtransService)

		mockRepo.On("GetOrderByCode", mock.Anything, orderCode).Return(order(), nil)
		mockMidtrans.On("IsTransactionPaid", mock.Anything, orderCode).Return(false, nil)

		service := NewPaymentService(mockRepo, mockWallet, mockMidtrans)
		err := service.HandleMidtransNotification(context.Background(), orderCode)

		assert.NoError(t, err)
		mockWallet.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	})

	t.Run("unknown order code", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockRepo.On("GetOrderByCode", mock.Anything, orderCode).Return(nil, nil)

		service := NewPaymentService(mockRepo, new(MockWalletService), new(MockMidtransService))
		err := service.HandleMidtransNotification(context.Background(), orderCode)

		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}
