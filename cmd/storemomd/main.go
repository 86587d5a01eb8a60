package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/storemom/config"
	"github.com/talkincode/storemom/internal/adminapi"
	"github.com/talkincode/storemom/internal/app"
	"github.com/talkincode/storemom/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "/etc/storemom.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
)

var (
	BuildVersion string
	ReleaseDate  string
)

func printVersion() {
	fmt.Printf("storemomd %s (built %s)\n", BuildVersion, ReleaseDate)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		printVersion()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(cfg, application.DB())
	adminapi.InitRouter()

	errch := make(chan error, 1)
	go func() {
		err := webserver.Listen()
		if err != nil && err != http.ErrServerClosed {
			errch <- err
		}
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errch:
		zap.S().Errorf("web server stopped: %v", err)
	case sig := <-sigch:
		zap.S().Infof("received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webserver.Shutdown(ctx); err != nil {
		zap.S().Errorf("web server shutdown: %v", err)
	}
}
