package midtrans

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/internal/utils"
	"context"

	midtransGo "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

type (
	// MidtransService wraps the payment gateway: creating a Snap invoice for
	// a payment order and checking whether the gateway settled it.
	MidtransService interface {
		CreateInvoice(ctx context.Context, req domain.MidtransPaymentRequest) (string, error)
		IsTransactionPaid(ctx context.Context, orderCode string) (bool, error)
	}

	midtransService struct {
		snapClient snap.Client
		coreClient coreapi.Client
	}
)

func NewMidtransService() MidtransService {
	serverKey := utils.GetConfig("SERVER_KEY")
	env := midtransGo.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtransGo.Production
	}

	var snapClient snap.Client
	snapClient.New(serverKey, env)

	var coreClient coreapi.Client
	coreClient.New(serverKey, env)

	return &midtransService{
		snapClient: snapClient,
		coreClient: coreClient,
	}
}

func (s *midtransService) CreateInvoice(ctx context.Context, req domain.MidtransPaymentRequest) (string, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtransGo.TransactionDetails{
			OrderID:  req.OrderCode,
			GrossAmt: req.Amount,
		},
	}
	if req.Email != "" {
		snapReq.CustomerDetail = &midtransGo.CustomerDetails{
			Email: req.Email,
		}
	}

	resp, err := s.snapClient.CreateTransaction(snapReq)
	if err != nil {
		return "", err
	}

	return resp.RedirectURL, nil
}

func (s *midtransService) IsTransactionPaid(ctx context.Context, orderCode string) (bool, error) {
	resp, err := s.coreClient.CheckTransaction(orderCode)
	if err != nil {
		return false, err
	}

	switch resp.TransactionStatus {
	case "settlement":
		return true, nil
	case "capture":
		return resp.FraudStatus == "accept", nil
	default:
		return false, nil
	}
}
