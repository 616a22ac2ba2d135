package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tahirfruitchaat/pos-api/models"
)

// Client talks to the upstream head-office API. Every call is best-effort:
// callers treat an error as "offline" and keep the local commit, so a dead
// upstream never fails a user-visible flow.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewFromEnv builds a client from UPSTREAM_API_URL / UPSTREAM_API_TOKEN.
// An empty URL yields a disabled client; all calls return ErrDisabled.
func NewFromEnv() *Client {
	return New(os.Getenv("UPSTREAM_API_URL"), os.Getenv("UPSTREAM_API_TOKEN"))
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

var ErrDisabled = fmt.Errorf("upstream gateway not configured")

func (c *Client) Enabled() bool { return c.baseURL != "" }

// salePayload is the wire shape the upstream expects for sale creation.
type salePayload struct {
	Ref           string            `json:"ref"`
	InvoiceID     string            `json:"invoiceId"`
	Items         []saleItemPayload `json:"items"`
	Total         float64           `json:"total"`
	PaymentMethod string            `json:"paymentMethod"`
	OrderType     string            `json:"orderType"`
	OrderTaker    string            `json:"orderTaker"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type saleItemPayload struct {
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	PlateType string  `json:"plateType"`
}

// PushSale uploads a sale to the upstream, keyed by its ref. The upstream
// treats the PUT as an upsert, so the reconciler can re-push an edited sale
// without creating a duplicate.
func (c *Client) PushSale(sale *models.Sale) error {
	payload := salePayload{
		Ref:           sale.Ref,
		InvoiceID:     sale.InvoiceID,
		Total:         sale.Total,
		PaymentMethod: string(sale.PaymentMethod),
		OrderType:     string(sale.OrderType),
		OrderTaker:    sale.OrderTaker,
		CreatedAt:     sale.CreatedAt,
	}
	for _, item := range sale.Items {
		payload.Items = append(payload.Items, saleItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
			PlateType: item.PlateType,
		})
	}
	return c.send(http.MethodPut, "/sales/"+sale.Ref, payload, nil)
}

// FetchProducts pulls the upstream product catalog, used to seed an empty
// local database.
func (c *Client) FetchProducts() ([]models.Product, error) {
	var products []models.Product
	if err := c.get("/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchOrderTakers pulls the upstream order-taker roster.
func (c *Client) FetchOrderTakers() ([]models.OrderTaker, error) {
	var takers []models.OrderTaker
	if err := c.get("/orderTakers", &takers); err != nil {
		return nil, err
	}
	return takers, nil
}

func (c *Client) send(method, path string, body, out interface{}) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) get(path string, out interface{}) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach upstream: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("invalid upstream response: %v", err)
		}
	}
	return nil
}
