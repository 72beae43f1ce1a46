package wechat

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"votegala/contexts/contest-core/gift-purchase/ports"
)

func testConfig(baseURL string) Config {
	return Config{
		AppID:     "wx_test_app",
		MchID:     "mch_test",
		APIKey:    "test-api-key",
		NotifyURL: "https://contest.example.com/api/v1/gateway/notify",
		ClientIP:  "203.0.113.7",
		BaseURL:   baseURL,
	}
}

func md5Upper(s string) string {
	digest := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(digest[:]))
}

func TestSignCanonicalForm(t *testing.T) {
	g := NewGateway(testConfig(""))

	got := g.sign(map[string]string{
		"b":     "2",
		"a":     "1",
		"empty": "",
		"sign":  "IGNORED",
	})
	want := md5Upper("a=1&b=2&key=test-api-key")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseNotificationVerifiesSignature(t *testing.T) {
	g := NewGateway(testConfig(""))

	fields := map[string]string{
		"return_code":  "SUCCESS",
		"result_code":  "SUCCESS",
		"out_trade_no": "trade_1",
		"total_fee":    "3000",
	}
	fields["sign"] = g.sign(fields)
	notification, err := g.ParseNotification(encodeXMLMap(fields))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if notification.TradeNo != "trade_1" || !notification.Succeeded || !notification.SignatureOK {
		t.Fatalf("unexpected notification: %+v", notification)
	}

	fields["total_fee"] = "1"
	tampered, err := g.ParseNotification(encodeXMLMap(fields))
	if err != nil {
		t.Fatalf("parse of tampered payload failed: %v", err)
	}
	if tampered.SignatureOK {
		t.Fatalf("expected tampered signature to fail verification")
	}
}

func TestParseNotificationRejectsGarbage(t *testing.T) {
	g := NewGateway(testConfig(""))
	if _, err := g.ParseNotification([]byte("<xml></xml>")); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := g.ParseNotification([]byte("{not xml}")); err == nil {
		t.Fatalf("expected error for non-XML payload")
	}
}

func TestBuildAckEnvelope(t *testing.T) {
	g := NewGateway(testConfig(""))

	ack := string(g.BuildAck("OK", true))
	if !strings.Contains(ack, "<return_code><![CDATA[SUCCESS]]></return_code>") {
		t.Fatalf("unexpected success ack: %s", ack)
	}
	ack = string(g.BuildAck("signature verification failed", false))
	if !strings.Contains(ack, "<return_code><![CDATA[FAIL]]></return_code>") {
		t.Fatalf("unexpected failure ack: %s", ack)
	}
}

func TestCreateChargeSignsAndReturnsToken(t *testing.T) {
	var requested map[string]string
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		fields, err := decodeXMLMap(raw)
		if err != nil {
			t.Errorf("provider got undecodable body: %v", err)
		}
		requested = fields
		_, _ = w.Write(encodeXMLMap(map[string]string{
			"return_code": "SUCCESS",
			"result_code": "SUCCESS",
			"prepay_id":   "prepay_xyz",
		}))
	}))
	defer provider.Close()
	g := NewGateway(testConfig(provider.URL))

	token, err := g.CreateCharge(context.Background(), ports.ChargeRequest{
		TradeNo:     "trade_1",
		OpenID:      "openid_1",
		Description: "Rose x3 -> Ming",
		AmountMinor: 3000,
	})
	if err != nil {
		t.Fatalf("create charge failed: %v", err)
	}

	if requested["out_trade_no"] != "trade_1" || requested["total_fee"] != "3000" || requested["trade_type"] != "JSAPI" {
		t.Fatalf("unexpected order request: %+v", requested)
	}
	if requested["sign"] != g.sign(requested) {
		t.Fatalf("order request signature does not verify")
	}

	if token["package"] != "prepay_id=prepay_xyz" || token["signType"] != "MD5" {
		t.Fatalf("unexpected client token: %+v", token)
	}
	if token["paySign"] != g.sign(map[string]string(token)) {
		t.Fatalf("client token signature does not verify")
	}
}

func TestCreateChargeRejectedOrder(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(encodeXMLMap(map[string]string{
			"return_code": "SUCCESS",
			"result_code": "FAIL",
			"err_code_des": "insufficient merchant balance",
		}))
	}))
	defer provider.Close()
	g := NewGateway(testConfig(provider.URL))

	_, err := g.CreateCharge(context.Background(), ports.ChargeRequest{TradeNo: "trade_1", AmountMinor: 100})
	if err == nil {
		t.Fatalf("expected rejection error")
	}
}

func TestQueryOrderStateMapping(t *testing.T) {
	cases := []struct {
		tradeState string
		want       ports.OrderState
	}{
		{"SUCCESS", ports.OrderStatePaid},
		{"NOTPAY", ports.OrderStatePending},
		{"USERPAYING", ports.OrderStatePending},
		{"CLOSED", ports.OrderStateClosed},
		{"REVOKED", ports.OrderStateClosed},
		{"PAYERROR", ports.OrderStateClosed},
		{"SOMETHING_NEW", ports.OrderStateUnknown},
	}
	for _, tc := range cases {
		tradeState := tc.tradeState
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(encodeXMLMap(map[string]string{
				"return_code": "SUCCESS",
				"trade_state": tradeState,
			}))
		}))
		g := NewGateway(testConfig(provider.URL))

		state, err := g.QueryOrder(context.Background(), "trade_1")
		provider.Close()
		if err != nil {
			t.Fatalf("%s: query failed: %v", tradeState, err)
		}
		if state != tc.want {
			t.Fatalf("%s: expected %s, got %s", tradeState, tc.want, state)
		}
	}
}
