// Command devserver runs an in-memory stand-in for the registration backend.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/trezcool/masomo-signup/apps/devserver/echo"
	"github.com/trezcool/masomo-signup/core"
	"github.com/trezcool/masomo-signup/core/student"
	emailsvc "github.com/trezcool/masomo-signup/services/email"
	logsvc "github.com/trezcool/masomo-signup/services/logger"
	"github.com/trezcool/masomo-signup/storage/inmem"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DEVSERVER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	var mailSvc core.EmailService
	if conf.Debug || conf.Email.SendgridAPIKey == "" {
		mailSvc = emailsvc.NewConsoleService(os.Stdout, conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	studentSvc := student.NewService(inmem.NewStudentRepository(), mailSvc)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:    conf.DevServer.Addr,
			Debug:      conf.Debug,
			TestMode:   conf.TestMode,
			StudentSvc: studentSvc,
			Logger:     logger,
		},
	)
	go server.Start()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", err)
	}
}
