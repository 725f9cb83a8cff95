package order

import "github.com/Zhima-Mochi/bookstore-saga/internal/pkg/money"

type Statistics struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Confirmed    int     `json:"confirmed"`
	Processing   int     `json:"processing"`
	Shipped      int     `json:"shipped"`
	Delivered    int     `json:"delivered"`
	Cancelled    int     `json:"cancelled"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// Summarize counts orders per status. Revenue covers orders whose payment completed.
func Summarize(orders []*Order) Statistics {
	var st Statistics
	var paid []float64
	for _, o := range orders {
		st.Total++
		switch o.Status {
		case StatusPending:
			st.Pending++
		case StatusConfirmed:
			st.Confirmed++
		case StatusProcessing:
			st.Processing++
		case StatusShipped:
			st.Shipped++
		case StatusDelivered:
			st.Delivered++
		case StatusCancelled:
			st.Cancelled++
		}
		if o.PaymentStatus == PaymentCompleted {
			paid = append(paid, o.TotalAmount)
		}
	}
	st.TotalRevenue = money.Sum(paid...)
	return st
}
