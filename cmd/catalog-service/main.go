package main

import (
	"fmt"
	"os"

	appcatalog "github.com/Zhima-Mochi/bookstore-saga/internal/application/catalog"
	"github.com/Zhima-Mochi/bookstore-saga/internal/bootstrap"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	httppresentation "github.com/Zhima-Mochi/bookstore-saga/internal/presentation/http"
)

func main() {
	rt, err := bootstrap.Init("catalog-service", ":3002")
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalog-service:", err)
		os.Exit(1)
	}

	svc := appcatalog.NewService(memory.NewCatalogRepository(appcatalog.Seed()...), rt.Tel)

	router := rt.Router()
	httppresentation.NewCatalogHandler(svc).Register(router)

	if err := rt.Run(router); err != nil {
		os.Exit(1)
	}
}
