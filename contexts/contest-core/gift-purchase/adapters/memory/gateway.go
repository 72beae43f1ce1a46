package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"votegala/contexts/contest-core/gift-purchase/ports"
)

// Gateway is an in-process payment gateway double. Notifications are JSON for
// test convenience; the ack body keeps the provider's XML envelope so webhook
// plumbing stays honest.
type Gateway struct {
	mu sync.Mutex

	Charges []ports.ChargeRequest
	// FailCharges makes CreateCharge fail, for orphaned-stage tests.
	FailCharges bool
	// Orders drives QueryOrder responses, keyed by trade number.
	Orders map[string]ports.OrderState
}

func NewGateway() *Gateway {
	return &Gateway{Orders: make(map[string]ports.OrderState)}
}

func (g *Gateway) CreateCharge(_ context.Context, req ports.ChargeRequest) (ports.ClientToken, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailCharges {
		return nil, errors.New("gateway rejected charge")
	}
	g.Charges = append(g.Charges, req)
	return ports.ClientToken{"prepay_id": "test-" + req.TradeNo}, nil
}

type notificationPayload struct {
	OutTradeNo string `json:"out_trade_no"`
	ResultCode string `json:"result_code"`
	Sign       string `json:"sign"`
}

// Notification renders a raw payload HandleNotification will accept.
func (g *Gateway) Notification(tradeNo string, resultCode string, validSignature bool) []byte {
	sign := "invalid"
	if validSignature {
		sign = "valid"
	}
	raw, _ := json.Marshal(notificationPayload{
		OutTradeNo: tradeNo,
		ResultCode: resultCode,
		Sign:       sign,
	})
	return raw
}

func (g *Gateway) ParseNotification(raw []byte) (ports.Notification, error) {
	var payload notificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ports.Notification{}, err
	}
	return ports.Notification{
		TradeNo:     payload.OutTradeNo,
		Succeeded:   payload.ResultCode == "SUCCESS",
		SignatureOK: payload.Sign == "valid",
		Fields: map[string]string{
			"out_trade_no": payload.OutTradeNo,
			"result_code":  payload.ResultCode,
		},
	}, nil
}

func (g *Gateway) BuildAck(message string, success bool) []byte {
	code := "FAIL"
	if success {
		code = "SUCCESS"
	}
	return []byte("<xml><return_code><![CDATA[" + code + "]]></return_code><return_msg><![CDATA[" + message + "]]></return_msg></xml>")
}

func (g *Gateway) QueryOrder(_ context.Context, tradeNo string) (ports.OrderState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if state, ok := g.Orders[tradeNo]; ok {
		return state, nil
	}
	return ports.OrderStateUnknown, nil
}
