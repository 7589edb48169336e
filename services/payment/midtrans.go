package paymentsvc

import (
	"context"
	"crypto/sha512"
	"encoding/hex"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/pkg/errors"

	"github.com/trezcool/soko/core"
	"github.com/trezcool/soko/core/order"
)

var ErrBadSignature = errors.New("callback signature mismatch")

type midtransGateway struct {
	client    *snap.Client
	serverKey string
	logger    core.Logger
}

var _ order.Gateway = (*midtransGateway)(nil)

func NewMidtransGateway(conf *core.Config, logger core.Logger) *midtransGateway {
	env := midtrans.Production
	if conf.Payment.Sandbox {
		env = midtrans.Sandbox
	}
	var client snap.Client
	client.New(conf.Payment.MidtransServerKey, env)
	return &midtransGateway{
		client:    &client,
		serverKey: conf.Payment.MidtransServerKey,
		logger:    logger,
	}
}

func (gw *midtransGateway) CreateSession(_ context.Context, ord order.Order) (order.PaymentSession, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  ord.ID,
			GrossAmt: int64(ord.Total),
		},
	}
	res, mErr := gw.client.CreateTransaction(req)
	if mErr != nil {
		return order.PaymentSession{}, errors.Wrapf(mErr.GetRawError(), "creating snap transaction: %s", mErr.GetMessage())
	}
	return order.PaymentSession{Token: res.Token, RedirectURL: res.RedirectURL}, nil
}

// VerifyCallback checks the provider signature:
// sha512(order_id + status_code + gross_amount + server_key).
func (gw *midtransGateway) VerifyCallback(cb order.Callback) error {
	raw := cb.OrderID + cb.StatusCode + cb.GrossAmount + gw.serverKey
	hash := sha512.Sum512([]byte(raw))
	if hex.EncodeToString(hash[:]) != cb.SignatureKey {
		return ErrBadSignature
	}
	return nil
}
