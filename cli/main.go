// Command ytbrief runs the summarization HTTP service.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"ytbrief"
	"ytbrief/config"
	"ytbrief/server"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides configuration)")
	debug := flag.Bool("debug", false, "enable debug logging")
	jsonLogs := flag.Bool("json-logs", true, "emit logs as JSON")
	flag.Parse()

	log := logrus.New()
	if *jsonLogs {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration invalid")
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	svc, err := ytbrief.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("service startup failed")
	}
	defer svc.Close()

	srv := server.New(svc, log)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Listen(cfg.ListenAddr); err != nil {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-done
	log.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}
