package sale

import (
	"math"
	"strings"

	"github.com/wichananm65/sales-backend/internal/validation"
)

// Column limits of sales.revenue NUMERIC(14,2) and sales.sales_number INT.
const (
	MaxRevenue     = 1e12
	MaxSalesNumber = math.MaxInt32
)

// Sale is one recorded transaction owned by a single user.
type Sale struct {
	ID          int     `json:"id"`
	UserID      int     `json:"user_id"`
	Date        string  `json:"date"`
	Product     string  `json:"product"`
	Revenue     float64 `json:"revenue"`
	SalesNumber int     `json:"sales_number"`
}

// Input carries the client supplied fields. A nil field was not supplied.
type Input struct {
	Date        *string  `json:"date"`
	Product     *string  `json:"product"`
	Revenue     *float64 `json:"revenue"`
	SalesNumber *int     `json:"sales_number"`
}

// Patch has the same shape as Input but every field is optional.
type Patch Input

func (p Patch) empty() bool {
	return p.Date == nil && p.Product == nil && p.Revenue == nil && p.SalesNumber == nil
}

// Validate checks that every field is present and well formed and returns
// the normalized values. ID and UserID are left zero.
func (in Input) Validate() (Sale, error) {
	fields := validation.Errors{}
	var s Sale

	if in.Date == nil {
		fields.Add("date", "is required")
	} else if d, ok := validation.ParseDate(*in.Date); !ok {
		fields.Add("date", "must be a date in YYYY-MM-DD format")
	} else {
		s.Date = d
	}

	if in.Product == nil {
		fields.Add("product", "is required")
	} else if p := strings.TrimSpace(*in.Product); p == "" {
		fields.Add("product", "must not be empty")
	} else {
		s.Product = p
	}

	if in.Revenue == nil {
		fields.Add("revenue", "is required")
	} else if r := *in.Revenue; math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		fields.Add("revenue", "must be a non-negative number")
	} else if r = roundCents(r); r >= MaxRevenue {
		fields.Add("revenue", "must be less than 1000000000000")
	} else {
		s.Revenue = r
	}

	if in.SalesNumber == nil {
		fields.Add("sales_number", "is required")
	} else if *in.SalesNumber < 0 {
		fields.Add("sales_number", "must not be negative")
	} else if *in.SalesNumber > MaxSalesNumber {
		fields.Add("sales_number", "must be at most 2147483647")
	} else {
		s.SalesNumber = *in.SalesNumber
	}

	if err := fields.Err(); err != nil {
		return Sale{}, err
	}
	return s, nil
}

// apply overlays the supplied patch fields on current.
func (p Patch) apply(current Sale) (Sale, error) {
	if p.empty() {
		return Sale{}, validation.Errors{"patch": "at least one field must be supplied"}
	}

	in := Input{
		Date:        &current.Date,
		Product:     &current.Product,
		Revenue:     &current.Revenue,
		SalesNumber: &current.SalesNumber,
	}
	if p.Date != nil {
		in.Date = p.Date
	}
	if p.Product != nil {
		in.Product = p.Product
	}
	if p.Revenue != nil {
		in.Revenue = p.Revenue
	}
	if p.SalesNumber != nil {
		in.SalesNumber = p.SalesNumber
	}

	next, err := in.Validate()
	if err != nil {
		return Sale{}, err
	}
	next.ID = current.ID
	next.UserID = current.UserID
	return next, nil
}

// revenue is stored as NUMERIC(14,2)
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
