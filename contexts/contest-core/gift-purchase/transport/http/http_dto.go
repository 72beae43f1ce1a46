package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PurchaseGiftRequest struct {
	GiftID   string `json:"gift_id"`
	Quantity int64  `json:"num"`
}

type PurchaseGiftResponse struct {
	TradeNo string `json:"out_trade_no"`
	// Payment is the gateway's client-payable parameter set, passed through
	// unmodified.
	Payment map[string]string `json:"payment"`
}

type GiftItem struct {
	GiftID     string `json:"id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	PriceMinor int64  `json:"price"`
	Reach      int64  `json:"reach"`
}

type GiftListResponse struct {
	Items []GiftItem `json:"items"`
}

type CreateGiftRequest struct {
	Name       string `json:"name"`
	Image      string `json:"image"`
	PriceMinor int64  `json:"price"`
	Reach      int64  `json:"reach"`
}
