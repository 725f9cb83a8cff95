package main

import (
	"fmt"
	"os"

	apporder "github.com/Zhima-Mochi/bookstore-saga/internal/application/order"
	"github.com/Zhima-Mochi/bookstore-saga/internal/bootstrap"
	httptransport "github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/http"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/id"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	httppresentation "github.com/Zhima-Mochi/bookstore-saga/internal/presentation/http"
)

func main() {
	rt, err := bootstrap.Init("order-service", ":3004")
	if err != nil {
		fmt.Fprintln(os.Stderr, "order-service:", err)
		os.Exit(1)
	}

	repo := memory.NewOrderRepository()
	cart := httptransport.NewCartClient(rt.Client("cart", rt.Config.Upstreams.CartURL))
	catalog := httptransport.NewCatalogClient(rt.Client("catalog", rt.Config.Upstreams.CatalogURL))

	create := apporder.NewCreateOrderUseCase(repo, cart, catalog, id.NewGenerator("ORD"), rt.Bus, rt.Tel,
		apporder.WithStockCompensation(rt.Config.Order.CompensateStock))
	apporder.NewReconcileWorker(rt.Bus, rt.Tel).Start()

	router := rt.Router()
	httppresentation.NewOrderHandler(apporder.NewService(repo, rt.Tel), create).Register(router)

	if err := rt.Run(router); err != nil {
		os.Exit(1)
	}
}
