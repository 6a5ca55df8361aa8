package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/interpose/middleware"
	"github.com/justinas/alice"
)

func router(config *Global) http.Handler {
	router := mux.NewRouter()
	POST := router.Methods("POST").Subrouter()
	GET := router.Methods("GET", "HEAD").Subrouter()

	h := handler{Global: config}

	GET.HandleFunc("/version", h.Version).Name("version")
	GET.HandleFunc("/runs", h.ListRuns).Name("runs")
	GET.HandleFunc("/runs/{id}", h.GetRun).Name("run")

	POST.HandleFunc("/score", h.Score).Name("score")

	standard := alice.New(
		// Log all requests to STDOUT
		middleware.GorillaLog(),
	)

	return standard.Then(router)
}
