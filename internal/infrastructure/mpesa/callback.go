package mpesa

import "encoding/json"

// Callback is the envelope Daraja posts to CallBackURL after an STK push.
type Callback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  *struct {
				Item []MetadataItem `json:"Item"`
			} `json:"CallbackMetadata,omitempty"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type MetadataItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

func (cb Callback) CheckoutRequestID() string { return cb.Body.StkCallback.CheckoutRequestID }
func (cb Callback) ResultCode() int           { return cb.Body.StkCallback.ResultCode }
func (cb Callback) ResultDesc() string        { return cb.Body.StkCallback.ResultDesc }

// Metadata returns a named item as text. Numbers are rendered without quotes.
func (cb Callback) Metadata(name string) string {
	md := cb.Body.StkCallback.CallbackMetadata
	if md == nil {
		return ""
	}
	for _, it := range md.Item {
		if it.Name != name || len(it.Value) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(it.Value, &s); err == nil {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(it.Value, &n); err == nil {
			return n.String()
		}
		return string(it.Value)
	}
	return ""
}

func (cb Callback) ReceiptNumber() string { return cb.Metadata("MpesaReceiptNumber") }
