// Command signup registers a new student from the terminal.
package main

import (
	"bufio"
	"log"
	"os"

	"github.com/trezcool/masomo-signup/core"
	"github.com/trezcool/masomo-signup/core/registration"
	backendsvc "github.com/trezcool/masomo-signup/services/backend"
	logsvc "github.com/trezcool/masomo-signup/services/logger"
)

func main() {
	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// prompts go to stdout, logs to stderr
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "SIGNUP : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	cli := commandLine{
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		logger:   logger,
		baseURL:  conf.Backend.BaseURL,
		loginURL: conf.LoginURL,
		newBackend: func(baseURL string) registration.Backend {
			opts := backendsvc.OptionsFromConfig(conf)
			opts.BaseURL = baseURL
			return backendsvc.NewClient(opts, logger)
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("sign-up failed", err)
		}
		os.Exit(1)
	}
}
