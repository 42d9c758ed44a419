// Package statistics derives per-user sales aggregates.
package statistics

import (
	"errors"

	"github.com/wichananm65/sales-backend/internal/sale"
)

// ErrDivisionUndefined is returned when an average would divide by a zero
// total quantity.
var ErrDivisionUndefined = errors.New("average undefined: total sales number is zero")

type SaleRef struct {
	SaleID  int     `json:"sale_id"`
	Revenue float64 `json:"revenue"`
}

type ProductRef struct {
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
}

type Snapshot struct {
	AverageSaleForCurrentUser           float64    `json:"average_sale_for_current_user"`
	AverageSaleAllUsers                 float64    `json:"average_sale_all_users"`
	HighestRevenueSaleForCurrentUser    SaleRef    `json:"highest_revenue_sale_for_current_user"`
	ProductHighestRevenueForCurrentUser ProductRef `json:"product_highest_revenue_for_current_user"`
	HighestSellingProductForCurrentUser ProductRef `json:"highest_selling_product_for_current_user"`
}

// Compute builds the snapshot in one pass over each slice. Ties on revenue
// or sales number go to the lowest sale id, so the result does not depend
// on input order.
func Compute(userSales, allSales []sale.Sale) (Snapshot, error) {
	userAvg, err := average(userSales)
	if err != nil {
		return Snapshot{}, err
	}
	allAvg, err := average(allSales)
	if err != nil {
		return Snapshot{}, err
	}

	topRevenue, topVolume := userSales[0], userSales[0]
	for _, s := range userSales[1:] {
		if s.Revenue > topRevenue.Revenue || (s.Revenue == topRevenue.Revenue && s.ID < topRevenue.ID) {
			topRevenue = s
		}
		if s.SalesNumber > topVolume.SalesNumber || (s.SalesNumber == topVolume.SalesNumber && s.ID < topVolume.ID) {
			topVolume = s
		}
	}

	return Snapshot{
		AverageSaleForCurrentUser:           userAvg,
		AverageSaleAllUsers:                 allAvg,
		HighestRevenueSaleForCurrentUser:    SaleRef{SaleID: topRevenue.ID, Revenue: topRevenue.Revenue},
		ProductHighestRevenueForCurrentUser: ProductRef{ProductName: topRevenue.Product, Price: topRevenue.Revenue},
		HighestSellingProductForCurrentUser: ProductRef{ProductName: topVolume.Product, Price: topVolume.Revenue},
	}, nil
}

// average is total revenue over total sales number.
func average(sales []sale.Sale) (float64, error) {
	var revenue float64
	var quantity int
	for _, s := range sales {
		revenue += s.Revenue
		quantity += s.SalesNumber
	}
	if quantity == 0 {
		return 0, ErrDivisionUndefined
	}
	return revenue / float64(quantity), nil
}
