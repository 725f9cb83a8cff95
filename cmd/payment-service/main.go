package main

import (
	"fmt"
	"os"

	apppayment "github.com/Zhima-Mochi/bookstore-saga/internal/application/payment"
	"github.com/Zhima-Mochi/bookstore-saga/internal/bootstrap"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/gateway"
	httptransport "github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/http"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/id"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	httppresentation "github.com/Zhima-Mochi/bookstore-saga/internal/presentation/http"
)

func main() {
	rt, err := bootstrap.Init("payment-service", ":3005")
	if err != nil {
		fmt.Fprintln(os.Stderr, "payment-service:", err)
		os.Exit(1)
	}

	repo := memory.NewPaymentRepository()
	orders := httptransport.NewOrderClient(rt.Client("order", rt.Config.Upstreams.OrderURL))
	gw := gateway.NewSimulator(rt.Config.Payment.SuccessRate, id.NewGenerator("TXN"),
		gateway.WithLatency(rt.Config.Payment.GatewayLatency))

	process := apppayment.NewProcessPaymentUseCase(repo, orders, gw, id.NewGenerator("PAY"), rt.Tel)
	refund := apppayment.NewProcessRefundUseCase(repo, rt.Bus, rt.Tel)
	apppayment.NewRefundWorker(rt.Bus, orders, rt.Tel,
		apppayment.WithNotifyRetries(rt.Config.Refund.NotifyMaxRetries, rt.Config.Refund.NotifyBaseDelay)).Start()

	router := rt.Router()
	httppresentation.NewPaymentHandler(apppayment.NewService(repo), process, refund).Register(router)

	if err := rt.Run(router); err != nil {
		os.Exit(1)
	}
}
