package payment

import "github.com/Zhima-Mochi/bookstore-saga/internal/pkg/money"

type Statistics struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Failed         int     `json:"failed"`
	Refunded       int     `json:"refunded"`
	TotalRevenue   float64 `json:"totalRevenue"`
	RefundedAmount float64 `json:"refundedAmount"`
	NetRevenue     float64 `json:"netRevenue"`
}

func Summarize(payments []*Payment) Statistics {
	var st Statistics
	var completed, refunded []float64
	for _, p := range payments {
		st.Total++
		switch p.Status {
		case StatusCompleted:
			st.Completed++
			completed = append(completed, p.Amount)
		case StatusPending:
			st.Pending++
		case StatusFailed:
			st.Failed++
		case StatusRefunded:
			st.Refunded++
			refunded = append(refunded, p.Amount)
		}
	}
	st.TotalRevenue = money.Sum(completed...)
	st.RefundedAmount = money.Sum(refunded...)
	st.NetRevenue = money.Sub(st.TotalRevenue, st.RefundedAmount)
	return st
}
