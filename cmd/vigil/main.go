// vigil is the continuous per-monitor screen-capture + OCR daemon.
// Its shutdown discipline mirrors the teacher's cmd/watcher/main.go:
// signal.Notify, a cancellable context, a bounded grace period, then
// a forced exit — generalized here from one watcher goroutine to one
// loop.Loop per monitor.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/vel5id/vigil/internal/acquire"
	"github.com/vel5id/vigil/internal/browserurl"
	"github.com/vel5id/vigil/internal/config"
	"github.com/vel5id/vigil/internal/enginecfg"
	"github.com/vel5id/vigil/internal/fanout"
	"github.com/vel5id/vigil/internal/loop"
	"github.com/vel5id/vigil/internal/model"
	"github.com/vel5id/vigil/internal/monitorreg"
	"github.com/vel5id/vigil/internal/ocr"
	"github.com/vel5id/vigil/internal/ocr/engine"
	"github.com/vel5id/vigil/internal/winfilter"
)

// Version is bumped on every release tag.
const Version = "1.0.0"

func main() {
	log.Printf("vigil v%s starting...", Version)

	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	ocrEngine, engineCfgStore, err := buildEngine(cfg)
	if err != nil {
		log.Fatalf("build ocr engine: %v", err)
	}
	if engineCfgStore != nil {
		defer engineCfgStore.Close()
	}

	var publisher *fanout.Publisher
	if cfg.RealtimeRedisAddr != "" {
		publisher, err = fanout.NewPublisher(cfg.RealtimeRedisAddr, "", 0, cfg.RealtimeRedisStream)
		if err != nil {
			log.Fatalf("connect realtime redis: %v", err)
		}
		defer publisher.Close()
		log.Printf("realtime fan-out connected: %s stream=%s", cfg.RealtimeRedisAddr, cfg.RealtimeRedisStream)
	}

	registry := monitorreg.New()
	handles, err := resolveMonitors(registry, cfg.MonitorIDs)
	if err != nil {
		log.Fatalf("resolve monitors: %v", err)
	}
	if len(handles) == 0 {
		log.Fatalf("no monitors to capture")
	}

	filter := winfilter.New(cfg.IncludeFilters, cfg.ExcludeFilters)
	dispatcher := ocr.NewDispatcher(ocrEngine)
	urlExtractor := browserurl.New()

	out := make(chan model.CaptureResult, cfg.OutChannelCapacity)
	var realtime chan model.RealtimeVisionEvent
	if publisher != nil {
		realtime = make(chan model.RealtimeVisionEvent, cfg.OutChannelCapacity)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	loopDone := make(chan error, len(handles))
	for _, h := range handles {
		l := loop.New(h.ID, registry, acquire.New(), filter, dispatcher, urlExtractor, out, realtime, loop.DefaultConfig())
		l.Config.TickInterval = cfg.TickInterval
		l.Config.Languages = cfg.Languages
		l.Config.CaptureUnfocusedWindows = cfg.CaptureUnfocusedWindows

		wg.Add(1)
		go func(monitorID monitorreg.ID) {
			defer wg.Done()
			if err := l.Run(ctx); err != nil {
				loopDone <- fmt.Errorf("monitor %d: %w", monitorID, err)
			}
		}(h.ID)
	}
	go func() {
		wg.Wait()
		close(loopDone)
	}()

	consumerDone := make(chan struct{})
	go consumeResults(ctx, out, publisher, realtime, consumerDone)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	log.Printf("vigil started across %d monitor(s). Press Ctrl+C to stop gracefully.", len(handles))

	select {
	case sig := <-stop:
		log.Printf("received signal %v, initiating graceful shutdown...", sig)
		cancel()
	case err, ok := <-loopDone:
		if ok && err != nil {
			log.Printf("a capture loop exited with error: %v", err)
		}
		cancel()
	}

	select {
	case <-allDone(&wg):
		log.Println("all capture loops stopped")
	case <-time.After(30 * time.Second):
		log.Println("shutdown timeout exceeded, forcing exit")
		os.Exit(1)
	}
	<-consumerDone
	log.Println("shutdown completed successfully")
}

// buildEngine selects and constructs the ocr.Engine named by
// cfg.OCREngine. It returns the opened enginecfg.Store too, so main
// can close it on shutdown, when the Custom engine is selected.
func buildEngine(cfg config.Config) (ocr.Engine, *enginecfg.Store, error) {
	switch cfg.OCREngine {
	case config.EngineTesseract:
		return engine.Tesseract{}, nil, nil
	case config.EngineWindowsNative, config.EngineAppleNative:
		return engine.NewNative(), nil, nil
	case config.EngineCloud:
		return engine.NewCloud(cfg.CloudEndpoint, cfg.CloudAuthToken), nil, nil
	case config.EngineCustom:
		store, err := enginecfg.Open(cfg.EngineConfigPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open engine config store: %w", err)
		}
		return engine.NewCustom(store, cfg.CustomEngineName), store, nil
	default:
		return nil, nil, fmt.Errorf("unknown ocr engine %q", cfg.OCREngine)
	}
}

// resolveMonitors returns the Handle for every id in ids, or every
// currently active display when ids is empty.
func resolveMonitors(registry *monitorreg.Registry, ids []int) ([]monitorreg.Handle, error) {
	if len(ids) == 0 {
		return registry.All(), nil
	}
	handles := make([]monitorreg.Handle, 0, len(ids))
	for _, id := range ids {
		h, ok := registry.GetByID(monitorreg.ID(id))
		if !ok {
			return nil, fmt.Errorf("monitor %d is not active", id)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// consumeResults drains out (and, if present, forwards realtime to
// publisher) until ctx is cancelled and both channels are closed-out
// via context. This pipeline has no local persistence (spec Non-goal);
// a CaptureResult's destination is whatever the surrounding process
// wires out over stdout/IPC — here it is logged, which any deployment
// can swap for a real sink by consuming internal/loop's Loop directly.
func consumeResults(ctx context.Context, out <-chan model.CaptureResult, publisher *fanout.Publisher, realtime <-chan model.RealtimeVisionEvent, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case result, ok := <-out:
			if !ok {
				return
			}
			log.Printf("capture result: frame=%d windows=%d", result.FrameNumber, len(result.WindowOCRResults))
		case event, ok := <-realtime:
			if !ok || publisher == nil {
				continue
			}
			if err := publisher.Publish(ctx, event); err != nil {
				log.Printf("realtime publish failed: %v", err)
			}
		}
	}
}

// allDone returns a channel closed once wg.Wait returns.
func allDone(wg *sync.WaitGroup) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}
