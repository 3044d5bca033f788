package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/srad/techhub/conf"
	"github.com/srad/techhub/controllers"
	v1 "github.com/srad/techhub/controllers/api/v1"
	"github.com/srad/techhub/database"
	"github.com/srad/techhub/services"
)

var (
	Version string
	Commit  string
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Infof("Version: %s, Commit: %s", Version, Commit)

	if err := conf.Read(); err != nil {
		log.Fatalf("FATAL: %s", err)
	}
	cfg := conf.AppCfg

	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	if cfg.Secret == "" {
		log.Warnln("No JWT secret configured, login is disabled and all requests are anonymous.")
	}

	if err := database.Init(cfg.DbDriver, cfg.DbDsn); err != nil {
		log.Fatalf("FATAL: %s", err)
	}

	services.StartJobProcessing(services.JobConfigFrom(cfg), v1.Owners(v1.DefaultStep)...)

	gin.SetMode(gin.ReleaseMode)
	endPoint := fmt.Sprintf("0.0.0.0:%d", cfg.Port)

	server := &http.Server{
		Addr:              endPoint,
		Handler:           controllers.Setup(Version, Commit),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("[main] start http server listening %s", endPoint)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln(err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	cleanup(server)
}

func cleanup(server *http.Server) {
	log.Infoln("cleanup ...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("[main] Error shutting down http server: %s", err)
	}

	services.StopJobProcessing()
	database.Close()
	log.Infoln("cleanup complete")
}
