package wechat

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"votegala/contexts/contest-core/gift-purchase/ports"
)

const (
	unifiedOrderURL = "https://api.mch.weixin.qq.com/pay/unifiedorder"
	orderQueryURL   = "https://api.mch.weixin.qq.com/pay/orderquery"
)

// Config carries the merchant credentials and callback location.
type Config struct {
	AppID     string
	MchID     string
	APIKey    string
	NotifyURL string
	// ClientIP goes into spbill_create_ip; the server's egress address.
	ClientIP string
	// BaseURL overrides the provider endpoint, for tests.
	BaseURL string
}

// Gateway speaks the provider's v2 XML protocol: MD5-signed request bodies,
// XML notifications, XML acks. Only the observable contract is modeled here;
// callers see the ports.PaymentGateway surface.
type Gateway struct {
	cfg    Config
	client *http.Client
}

func NewGateway(cfg Config) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// CreateCharge places a JSAPI unified order and returns the client-payable
// parameter set, re-signed for the JS bridge.
func (g *Gateway) CreateCharge(ctx context.Context, req ports.ChargeRequest) (ports.ClientToken, error) {
	params := map[string]string{
		"appid":            g.cfg.AppID,
		"mch_id":           g.cfg.MchID,
		"nonce_str":        nonce(),
		"body":             req.Description,
		"out_trade_no":     req.TradeNo,
		"total_fee":        strconv.FormatInt(req.AmountMinor, 10),
		"spbill_create_ip": g.cfg.ClientIP,
		"notify_url":       g.cfg.NotifyURL,
		"trade_type":       "JSAPI",
		"openid":           req.OpenID,
	}
	params["sign"] = g.sign(params)

	response, err := g.post(ctx, g.endpoint(unifiedOrderURL), params)
	if err != nil {
		return nil, err
	}
	if response["return_code"] != "SUCCESS" || response["result_code"] != "SUCCESS" {
		return nil, fmt.Errorf("unified order rejected: %s %s", response["return_msg"], response["err_code_des"])
	}
	prepayID := response["prepay_id"]
	if prepayID == "" {
		return nil, errors.New("unified order response missing prepay_id")
	}

	token := ports.ClientToken{
		"appId":     g.cfg.AppID,
		"timeStamp": strconv.FormatInt(time.Now().Unix(), 10),
		"nonceStr":  nonce(),
		"package":   "prepay_id=" + prepayID,
		"signType":  "MD5",
	}
	token["paySign"] = g.sign(map[string]string(token))
	return token, nil
}

func (g *Gateway) ParseNotification(raw []byte) (ports.Notification, error) {
	fields, err := decodeXMLMap(raw)
	if err != nil {
		return ports.Notification{}, err
	}
	return ports.Notification{
		TradeNo:     fields["out_trade_no"],
		Succeeded:   fields["return_code"] == "SUCCESS" && fields["result_code"] == "SUCCESS",
		SignatureOK: g.verify(fields),
		Fields:      fields,
	}, nil
}

func (g *Gateway) BuildAck(message string, success bool) []byte {
	code := "FAIL"
	if success {
		code = "SUCCESS"
	}
	var buf bytes.Buffer
	buf.WriteString("<xml><return_code><![CDATA[")
	buf.WriteString(code)
	buf.WriteString("]]></return_code><return_msg><![CDATA[")
	buf.WriteString(message)
	buf.WriteString("]]></return_msg></xml>")
	return buf.Bytes()
}

func (g *Gateway) QueryOrder(ctx context.Context, tradeNo string) (ports.OrderState, error) {
	params := map[string]string{
		"appid":        g.cfg.AppID,
		"mch_id":       g.cfg.MchID,
		"nonce_str":    nonce(),
		"out_trade_no": tradeNo,
	}
	params["sign"] = g.sign(params)

	response, err := g.post(ctx, g.endpoint(orderQueryURL), params)
	if err != nil {
		return ports.OrderStateUnknown, err
	}
	if response["return_code"] != "SUCCESS" {
		return ports.OrderStateUnknown, fmt.Errorf("order query rejected: %s", response["return_msg"])
	}
	switch response["trade_state"] {
	case "SUCCESS":
		return ports.OrderStatePaid, nil
	case "NOTPAY", "USERPAYING":
		return ports.OrderStatePending, nil
	case "CLOSED", "REVOKED", "PAYERROR", "REFUND":
		return ports.OrderStateClosed, nil
	default:
		return ports.OrderStateUnknown, nil
	}
}

func (g *Gateway) post(ctx context.Context, url string, params map[string]string) (map[string]string, error) {
	body := encodeXMLMap(params)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/xml")

	response, err := g.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", response.StatusCode)
	}
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	return decodeXMLMap(raw)
}

// sign computes the v2 MD5 signature: keys sorted, empty values and the sign
// field itself skipped, API key appended, digest uppercased.
func (g *Gateway) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if key == "sign" || value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(params[key])
		builder.WriteString("&")
	}
	builder.WriteString("key=")
	builder.WriteString(g.cfg.APIKey)

	digest := md5.Sum([]byte(builder.String()))
	return strings.ToUpper(hex.EncodeToString(digest[:]))
}

func (g *Gateway) verify(fields map[string]string) bool {
	provided := fields["sign"]
	if provided == "" {
		return false
	}
	return provided == g.sign(fields)
}

func (g *Gateway) endpoint(defaultURL string) string {
	if g.cfg.BaseURL == "" {
		return defaultURL
	}
	idx := strings.LastIndex(defaultURL, "/")
	return strings.TrimRight(g.cfg.BaseURL, "/") + defaultURL[idx:]
}

func encodeXMLMap(params map[string]string) []byte {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString("<xml>")
	for _, key := range keys {
		buf.WriteString("<")
		buf.WriteString(key)
		buf.WriteString("><![CDATA[")
		buf.WriteString(params[key])
		buf.WriteString("]]></")
		buf.WriteString(key)
		buf.WriteString(">")
	}
	buf.WriteString("</xml>")
	return buf.Bytes()
}

// decodeXMLMap flattens the provider's single-level <xml> envelope into a
// string map.
func decodeXMLMap(raw []byte) (map[string]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	fields := make(map[string]string)
	var current string
	depth := 0
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				current = t.Name.Local
			}
		case xml.EndElement:
			depth--
			if depth < 1 {
				current = ""
			}
		case xml.CharData:
			if depth == 2 && current != "" {
				fields[current] += string(t)
			}
		}
	}
	if len(fields) == 0 {
		return nil, errors.New("empty provider payload")
	}
	return fields, nil
}

func nonce() string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}
