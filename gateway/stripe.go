// Package gateway talks to Stripe Checkout over its REST API.
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/Kariqs/grocery-api/models"
	"github.com/Kariqs/grocery-api/pricing"
	"github.com/Kariqs/grocery-api/services"
)

const (
	DefaultBaseURL = "https://api.stripe.com"
	defaultTimeout = 30 * time.Second
	lineItemsPage  = 100
)

type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// Client creates checkout sessions and reads back their line items.
type Client struct {
	http *resty.Client
}

var _ services.PaymentGateway = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Accept", "application/json")
	return &Client{http: http}
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type checkoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

type lineItemList struct {
	Data    []lineItem `json:"data"`
	HasMore bool       `json:"has_more"`
}

type lineItem struct {
	ID             string `json:"id"`
	AmountSubtotal int64  `json:"amount_subtotal"`
	AmountTotal    int64  `json:"amount_total"`
	Quantity       int    `json:"quantity"`
	Description    string `json:"description"`
	Price          struct {
		UnitAmount int64 `json:"unit_amount"`
		Product    struct {
			ID       string            `json:"id"`
			Name     string            `json:"name"`
			Images   []string          `json:"images"`
			Metadata map[string]string `json:"metadata"`
		} `json:"product"`
	} `json:"price"`
}

// CreateSession opens a hosted checkout page in payment mode.
func (c *Client) CreateSession(ctx context.Context, req services.SessionRequest) (*services.Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("submit_type", "pay")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	if req.CustomerEmail != "" {
		form.Set("customer_email", req.CustomerEmail)
	}
	form.Set("metadata[userId]", strconv.FormatUint(uint64(req.Metadata.UserID), 10))
	form.Set("metadata[addressId]", strconv.FormatUint(uint64(req.Metadata.AddressID), 10))
	form.Set("metadata[subTotalAmt]", req.Metadata.SubTotal.String())
	form.Set("metadata[totalAmt]", req.Metadata.Total.String())

	for i, item := range req.Items {
		p := fmt.Sprintf("line_items[%d]", i)
		form.Set(p+"[price_data][currency]", req.Currency)
		form.Set(p+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(p+"[price_data][product_data][name]", item.Snapshot.Name)
		for j, image := range item.Snapshot.Image {
			form.Set(fmt.Sprintf("%s[price_data][product_data][images][%d]", p, j), image)
		}
		form.Set(p+"[price_data][product_data][metadata][productId]", strconv.FormatUint(uint64(item.Snapshot.ProductID), 10))
		form.Set(p+"[price_data][product_data][metadata][price]", item.Snapshot.Price.String())
		form.Set(p+"[price_data][product_data][metadata][discount]", item.Snapshot.Discount.String())
		form.Set(p+"[adjustable_quantity][enabled]", "true")
		form.Set(p+"[adjustable_quantity][minimum]", "1")
		form.Set(p+"[quantity]", strconv.Itoa(item.Quantity))
	}

	var session checkoutSession
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		SetResult(&session).
		SetError(&apiErr).
		Post("/v1/checkout/sessions")
	if err != nil {
		return nil, errors.Wrap(err, "create checkout session")
	}
	if resp.IsError() {
		return nil, errors.Errorf("create checkout session: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	if session.ID == "" || session.URL == "" {
		return nil, errors.New("create checkout session: incomplete response")
	}
	return &services.Session{ID: session.ID, URL: session.URL}, nil
}

// ListLineItems returns every line item of a session with its product expanded.
func (c *Client) ListLineItems(ctx context.Context, sessionID string) ([]services.PaidLineItem, error) {
	var items []services.PaidLineItem
	startingAfter := ""
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(lineItemsPage))
		query.Add("expand[]", "data.price.product")
		if startingAfter != "" {
			query.Set("starting_after", startingAfter)
		}

		var page lineItemList
		var apiErr apiError
		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParam("id", sessionID).
			SetQueryParamsFromValues(query).
			SetResult(&page).
			SetError(&apiErr).
			Get("/v1/checkout/sessions/{id}/line_items")
		if err != nil {
			return nil, errors.Wrap(err, "list line items")
		}
		if resp.IsError() {
			return nil, errors.Errorf("list line items: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}

		for _, li := range page.Data {
			item, err := li.paid()
			if err != nil {
				return nil, errors.Wrapf(err, "line item %s", li.ID)
			}
			items = append(items, item)
		}
		if !page.HasMore || len(page.Data) == 0 {
			return items, nil
		}
		startingAfter = page.Data[len(page.Data)-1].ID
	}
}

func (li lineItem) paid() (services.PaidLineItem, error) {
	product := li.Price.Product
	meta := product.Metadata

	productID, err := parseID(meta["productId"])
	if err != nil {
		return services.PaidLineItem{}, errors.Wrap(err, "product id")
	}
	price := pricing.FromMinorUnits(li.Price.UnitAmount)
	if v, ok := meta["price"]; ok {
		if price, err = decimal.NewFromString(v); err != nil {
			return services.PaidLineItem{}, errors.Wrap(err, "price")
		}
	}
	discount := decimal.Zero
	if v, ok := meta["discount"]; ok {
		if discount, err = decimal.NewFromString(v); err != nil {
			return services.PaidLineItem{}, errors.Wrap(err, "discount")
		}
	}
	name := product.Name
	if name == "" {
		name = li.Description
	}

	return services.PaidLineItem{
		Snapshot: models.ProductSnapshot{
			ProductID: productID,
			Name:      name,
			Image:     product.Images,
			Price:     price,
			Discount:  discount,
		},
		Quantity:       li.Quantity,
		AmountSubtotal: li.AmountSubtotal,
		AmountTotal:    li.AmountTotal,
	}, nil
}

func parseID(s string) (uint, error) {
	if s == "" {
		return 0, errors.New("missing")
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
