// Command camstreamd runs the capture/encode/fan-out pipeline and
// serves the resulting fMP4 stream over HTTP. Grounded on the teacher's
// main.go CLI-mode flow (flag parsing, config load/ensure, a
// context canceled on SIGINT/SIGTERM, a single long-running Run call)
// with the desktop/Wails half of that file dropped entirely: this
// module has no GUI surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/camstream/camstreamd/internal/capability"
	"github.com/camstream/camstreamd/internal/config"
	"github.com/camstream/camstreamd/internal/httpapi"
	"github.com/camstream/camstreamd/internal/hub"
)

var (
	cfgPath  = flag.String("config", "camstream.json", "path to the stream config file")
	addr     = flag.String("addr", ":8080", "HTTP listen address")
	showHelp = flag.Bool("h", false, "show help")
	version  = flag.Bool("version", false, "show version")
)

var appVersion = "dev"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("camstreamd v%s\n", appVersion)
		return
	}
	if *showHelp {
		flag.Usage()
		return
	}

	cfg, created, err := config.Ensure(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if created {
		log.Printf("camstreamd: wrote default config to %s", *cfgPath)
	}

	if caps, err := capability.Enumerate(); err != nil {
		log.Printf("camstreamd: capability enumeration unavailable: %v", err)
	} else if err := capability.Validate(cfg, caps); err != nil {
		log.Fatalf("camstreamd: config rejected: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("camstreamd: shutting down")
		cancel()
	}()

	store := config.NewStore(cfg)
	watcher, err := newConfigWatcher(*cfgPath, store)
	if err != nil {
		log.Printf("camstreamd: config hot-reload disabled: %v", err)
	} else {
		go watcher.run(ctx)
		defer watcher.close()
	}

	h := hub.New()
	go h.Run(ctx, store.Get(), store.Updates())

	mux := http.NewServeMux()
	httpapi.Register(mux, httpapi.Deps{Hub: h})

	srv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Printf("camstreamd: serving %s on %s (device %s)", "/stream", *addr, cfg.Device)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("camstreamd: http server: %v", err)
	}
}
