package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses on sales and purchases.
const (
	PaymentStatusPending  = "Pending"
	PaymentStatusReceived = "Received"
	PaymentStatusPartial  = "Partial"
	PaymentStatusPaid     = "Paid"
)

// Account types for the chart of accounts.
var AccountTypes = []string{"Asset", "Liability", "Income", "Expense", "Equity"}

// Sale is an outgoing invoice. GSTAmount and TotalAmount are derived from
// Amount, GSTPercentage and GSTType by the finance service; callers never
// set them directly.
type Sale struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	InvoiceNumber  string          `json:"invoice_number" db:"invoice_number"`
	Date           time.Time       `json:"date" db:"date"`
	CustomerName   string          `json:"customer_name" db:"customer_name"`
	CustomerID     *uuid.UUID      `json:"customer_id" db:"customer_id"`
	ProductService string          `json:"product_service" db:"product_service"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	GSTType        string          `json:"gst_type" db:"gst_type"`
	GSTPercentage  decimal.Decimal `json:"gst_percentage" db:"gst_percentage"`
	GSTAmount      decimal.Decimal `json:"gst_amount" db:"gst_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentStatus  string          `json:"payment_status" db:"payment_status"`
	Notes          *string         `json:"notes" db:"notes"`
	CreatedBy      *uuid.UUID      `json:"created_by" db:"created_by"`
	UpdatedBy      *uuid.UUID      `json:"updated_by" db:"updated_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// Purchase is an incoming vendor bill, structurally parallel to Sale.
type Purchase struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	BillNumber      string          `json:"bill_number" db:"bill_number"`
	Date            time.Time       `json:"date" db:"date"`
	VendorName      string          `json:"vendor_name" db:"vendor_name"`
	ItemDescription string          `json:"item_description" db:"item_description"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	GSTType         string          `json:"gst_type" db:"gst_type"`
	GSTPercentage   decimal.Decimal `json:"gst_percentage" db:"gst_percentage"`
	GSTAmount       decimal.Decimal `json:"gst_amount" db:"gst_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentStatus   string          `json:"payment_status" db:"payment_status"`
	Notes           *string         `json:"notes" db:"notes"`
	CreatedBy       *uuid.UUID      `json:"created_by" db:"created_by"`
	UpdatedBy       *uuid.UUID      `json:"updated_by" db:"updated_by"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PaymentReceived is a settlement against a sale, or a standalone receipt
// when SaleID is nil. TDSAmount and NetAmount are derived from Amount and
// TDSPercentage.
type PaymentReceived struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ReferenceNumber string          `json:"reference_number" db:"reference_number"`
	Date            time.Time       `json:"date" db:"date"`
	CustomerName    string          `json:"customer_name" db:"customer_name"`
	CustomerID      *uuid.UUID      `json:"customer_id" db:"customer_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	InvoiceNumber   *string         `json:"invoice_number" db:"invoice_number"`
	SaleID          *uuid.UUID      `json:"sale_id" db:"sale_id"`
	TDSPercentage   decimal.Decimal `json:"tds_percentage" db:"tds_percentage"`
	TDSAmount       decimal.Decimal `json:"tds_amount" db:"tds_amount"`
	NetAmount       decimal.Decimal `json:"net_amount" db:"net_amount"`
	Remarks         *string         `json:"remarks" db:"remarks"`
	CreatedBy       *uuid.UUID      `json:"created_by" db:"created_by"`
	UpdatedBy       *uuid.UUID      `json:"updated_by" db:"updated_by"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PaymentMade is a settlement against a purchase, or a standalone outgoing
// payment when PurchaseID is nil.
type PaymentMade struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ReferenceNumber string          `json:"reference_number" db:"reference_number"`
	Date            time.Time       `json:"date" db:"date"`
	PayeeName       string          `json:"payee_name" db:"payee_name"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	BillNumber      *string         `json:"bill_number" db:"bill_number"`
	PurchaseID      *uuid.UUID      `json:"purchase_id" db:"purchase_id"`
	Category        *string         `json:"category" db:"category"`
	TDSPercentage   decimal.Decimal `json:"tds_percentage" db:"tds_percentage"`
	TDSAmount       decimal.Decimal `json:"tds_amount" db:"tds_amount"`
	NetAmount       decimal.Decimal `json:"net_amount" db:"net_amount"`
	Remarks         *string         `json:"remarks" db:"remarks"`
	CreatedBy       *uuid.UUID      `json:"created_by" db:"created_by"`
	UpdatedBy       *uuid.UUID      `json:"updated_by" db:"updated_by"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

type ChartOfAccount struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	AccountCode string     `json:"account_code" db:"account_code"`
	AccountName string     `json:"account_name" db:"account_name"`
	AccountType string     `json:"account_type" db:"account_type"`
	Description *string    `json:"description" db:"description"`
	CreatedBy   *uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy   *uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t string) bool {
	for _, v := range AccountTypes {
		if v == t {
			return true
		}
	}
	return false
}
