package domain

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

type Package struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	PackageID  string      `json:"packageId"`
	Amount     float64     `json:"amount"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt,omitempty"`
	UpdatedAt  time.Time   `json:"updatedAt,omitempty"`
}

type OrderCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type CustomerWithOrderCounts struct {
	Customer
	OrderCounts OrderCounts `json:"orderCounts"`
}

// OrderWithDetails carries the resolved customer and package of an order.
// A nil detail means the reference is dangling.
type OrderWithDetails struct {
	Order
	Customer *Customer `json:"customerDetails,omitempty"`
	Package  *Package  `json:"packageDetails,omitempty"`
}

type CustomerInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type CustomerPatch struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

type PackageInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	IsAvailable *bool   `json:"isAvailable"`
}

type PackagePatch struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
}

// OrderInput leaves Amount at zero to take the price of the referenced package.
type OrderInput struct {
	CustomerID string      `json:"customerId"`
	PackageID  string      `json:"packageId"`
	Amount     float64     `json:"amount,omitempty"`
	Status     OrderStatus `json:"status"`
}

type OrderPatch struct {
	CustomerID *string      `json:"customerId,omitempty"`
	PackageID  *string      `json:"packageId,omitempty"`
	Amount     *float64     `json:"amount,omitempty"`
	Status     *OrderStatus `json:"status,omitempty"`
}

type Dashboard struct {
	Orders    int `json:"orders"`
	Customers int `json:"customers"`
	Packages  int `json:"packages"`
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled}
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrValidation
	}

	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return ErrValidation
	}

	return nil
}

func ValidatePositive(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return ErrValidation
	}

	return nil
}

func SameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
