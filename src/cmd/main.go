package main

import (
	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/logger"
	"customer-portal-svc/src/internal/server"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

func main() {
	cfg := config.Load()
	logger.Init(cfg)

	log.WithFields(logrus.Fields{
		"version": cfg.App.Version,
		"port":    cfg.Server.Port,
	}).Infof("Customer portal service %s is starting", cfg.App.Name)

	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		log.WithError(err).Fatal("Error starting server")
	}
}
