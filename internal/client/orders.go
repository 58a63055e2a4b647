package client

import (
	"context"
	"net/http"
)

// Category represents an order category
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// CreateOrderRequest represents the order creation request
type CreateOrderRequest struct {
	Customer string  `json:"customer"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Source   string  `json:"source"`
	Geo      string  `json:"geo"`
	Amount   float64 `json:"amount"`
}

// Order represents an order as stored by the backend
type Order struct {
	ID       string  `json:"_id"`
	Customer string  `json:"customer"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Source   string  `json:"source"`
	Geo      string  `json:"geo"`
	Amount   float64 `json:"amount"`
}

// ListCategories returns all order categories
func (c *Client) ListCategories(ctx context.Context, token string) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", token, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateOrder submits a new order
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", token, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
