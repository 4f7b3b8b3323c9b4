package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	iec104 "github.com/feirik/iec104hydro"
)

const listenAddress = ":2404"

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	iec104.SetLogger(logger)

	registry := iec104.NewRegistry()
	simulator := iec104.NewSimulator(registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go simulator.Run(ctx)

	server := iec104.NewServer(listenAddress, registry)
	if err := server.ListenAndServe(ctx); err != nil {
		logger.Fatalf("iec104 server: %v", err)
	}
}
