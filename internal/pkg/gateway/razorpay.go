package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cake_shop_backend/internal/pkg/config"
)

// Client 支付网关客户端 (Razorpay)
// 只封装两个动作：创建网关订单、本地验签。没有官方 Go SDK，接口面很小，直接走 HTTP
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	currency  string
	httpc     *http.Client
}

// GatewayOrder 网关侧订单对象
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // 最小货币单位 (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// NewClient 从全局配置创建网关客户端
func NewClient() *Client {
	cfg := config.GlobalConfig.Razorpay
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   cfg.BaseURL,
		currency:  cfg.Currency,
		httpc:     &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateOrder 创建网关订单
// amount 为整数卢比，网关要求最小货币单位，这里统一乘 100
func (c *Client) CreateOrder(ctx context.Context, amount int64, receipt string) (*GatewayOrder, error) {
	body, err := json.Marshal(map[string]interface{}{
		"amount":   amount * 100,
		"currency": c.currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, data)
	}

	var order GatewayOrder
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifySignature 本地验签
// 对 "orderID|paymentID" 做 HMAC-SHA256，与客户端提交的签名比对
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}

// VerifySignature 校验网关回传签名是否由 secret 签发
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
