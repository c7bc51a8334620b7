// Package loop implements the per-monitor capture state machine:
// Acquire -> Snap -> Diff -> OCR -> Sleep, plus Terminated
// (spec §4.G). One Loop owns one monitor and runs on its own
// goroutine; loops share nothing but the downstream channel.
package loop

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vel5id/vigil/internal/acquire"
	"github.com/vel5id/vigil/internal/browserurl"
	"github.com/vel5id/vigil/internal/diff"
	"github.com/vel5id/vigil/internal/model"
	"github.com/vel5id/vigil/internal/monitorreg"
	"github.com/vel5id/vigil/internal/winfilter"
)

// resolver is satisfied by *monitorreg.Registry; kept as an interface
// so tests can substitute a fake without touching the real display
// enumeration.
type resolver interface {
	GetByID(id monitorreg.ID) (monitorreg.Handle, bool)
}

// frameAcquirer is satisfied by *acquire.Acquirer.
type frameAcquirer interface {
	Capture(handle monitorreg.Handle, filter winfilter.Filter, includeUnfocused bool) (acquire.Frame, error)
}

// ocrDispatcher is satisfied by *ocr.Dispatcher.
type ocrDispatcher interface {
	Run(ctx context.Context, windows []model.CapturedWindow, languages []string) []model.WindowOcrResult
}

// Loop runs the capture state machine for one monitor.
type Loop struct {
	MonitorID    monitorreg.ID
	Resolver     resolver
	Acquirer     frameAcquirer
	Filter       winfilter.Filter
	Dispatcher   ocrDispatcher
	URLExtractor browserurl.Extractor
	Out          chan<- model.CaptureResult
	Realtime     chan<- model.RealtimeVisionEvent // optional, may be nil
	Config       Config

	pool  *blockingPool
	runID uuid.UUID

	consecutiveFailures atomic.Int32
	emittedFrames       atomic.Uint64
}

// New builds a Loop ready for Run. acquirer, dispatcher, and extractor
// are accepted as the narrow interfaces above; pass the real
// *acquire.Acquirer / *ocr.Dispatcher / browserurl.New() or a test
// double.
func New(monitorID monitorreg.ID, res resolver, acq frameAcquirer, filter winfilter.Filter, dispatcher ocrDispatcher, urlExtractor browserurl.Extractor, out chan<- model.CaptureResult, realtime chan<- model.RealtimeVisionEvent, cfg Config) *Loop {
	return &Loop{
		MonitorID:    monitorID,
		Resolver:     res,
		Acquirer:     acq,
		Filter:       filter,
		Dispatcher:   dispatcher,
		URLExtractor: urlExtractor,
		Out:          out,
		Realtime:     realtime,
		Config:       cfg,
	}
}

// Run blocks until the monitor is lost, the downstream channel is
// closed, or ctx is cancelled, returning a typed error for the first
// two and nil for clean cancellation — mirrors the teacher's
// Monitor.Start(ctx) error / shutdown() split.
func (l *Loop) Run(ctx context.Context) error {
	l.runID = uuid.New()
	l.pool = newBlockingPool(l.Config.poolWorkers())
	defer l.pool.Stop()

	burst := diff.New[acquire.Frame]()

	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	heartbeatDone := make(chan struct{})
	go l.heartbeatLoop(heartbeatCtx, heartbeatDone)
	defer func() {
		stopHeartbeat()
		<-heartbeatDone
	}()

	log.Printf("loop[run=%s monitor=%d]: starting, tick=%s", l.runID, l.MonitorID, l.Config.tickInterval())

	ticker := time.NewTicker(l.Config.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("loop[run=%s monitor=%d]: context cancelled, stopping", l.runID, l.MonitorID)
			return nil
		case <-ticker.C:
		}

		handle, ok := l.Resolver.GetByID(l.MonitorID)
		if !ok {
			log.Printf("loop[run=%s monitor=%d]: monitor lost", l.runID, l.MonitorID)
			return ErrMonitorLost
		}

		frame, err := l.Acquirer.Capture(handle, l.Filter, l.Config.CaptureUnfocusedWindows)
		if err != nil {
			l.recordFailure(ctx, err)
			continue
		}
		l.consecutiveFailures.Store(0)

		peak := burst.Observe(frame)
		if peak == nil {
			continue
		}

		result := l.emit(ctx, *peak)
		if err := l.send(ctx, result); err != nil {
			log.Printf("loop[run=%s monitor=%d]: %v", l.runID, l.MonitorID, err)
			return err
		}
	}
}

// recordFailure increments the consecutive-failure counter and, once
// it reaches the configured threshold, sleeps the cooldown duration
// and resets the counter (spec §4.G Snap state, §7).
func (l *Loop) recordFailure(ctx context.Context, err error) {
	failures := l.consecutiveFailures.Add(1)
	log.Printf("loop[run=%s monitor=%d]: capture failed (%d/%d): %v",
		l.runID, l.MonitorID, failures, l.Config.failureThreshold(), err)

	if int(failures) < l.Config.failureThreshold() {
		return
	}

	l.consecutiveFailures.Store(0)
	log.Printf("loop[run=%s monitor=%d]: failure threshold reached, cooling down for %s",
		l.runID, l.MonitorID, l.Config.cooldown())
	select {
	case <-ctx.Done():
	case <-time.After(l.Config.cooldown()):
	}
}

// emit runs OCR (on the blocking pool, joined before continuing) and
// the browser URL probe over peak's windows and assembles the
// CaptureResult to send downstream.
func (l *Loop) emit(ctx context.Context, peak acquire.Frame) model.CaptureResult {
	var results []model.WindowOcrResult
	ocrDone := make(chan struct{})
	l.pool.Submit(func() {
		defer close(ocrDone)
		results = l.Dispatcher.Run(ctx, peak.Windows, l.Config.Languages)
	})
	<-ocrDone
	l.probeBrowserURLs(ctx, peak.Windows, results)

	imgBytes, err := model.EncodeImageBytes(peak.Image)
	if err != nil {
		log.Printf("loop[run=%s monitor=%d]: encode full frame image: %v", l.runID, l.MonitorID, err)
	}

	return model.CaptureResult{
		Image:            imgBytes,
		FrameNumber:      l.emittedFrames.Add(1),
		Timestamp:        time.Now(),
		WindowOCRResults: results,
	}
}

// probeBrowserURLs dispatches the browser URL probe for every focused
// browser window in windows, concurrently on the blocking pool, and
// joins all of them before returning (spec §4.F, §5 suspension point 4).
func (l *Loop) probeBrowserURLs(ctx context.Context, windows []model.CapturedWindow, results []model.WindowOcrResult) {
	var wg sync.WaitGroup
	for i, w := range windows {
		if !w.IsFocused || !browserurl.IsBrowser(w.AppName) {
			continue
		}
		i, w := i, w
		wg.Add(1)
		l.pool.Submit(func() {
			defer wg.Done()
			url, ok, err := l.URLExtractor.GetActiveURL(ctx, w.AppName, w.ProcessID)
			if err != nil {
				log.Printf("loop[run=%s monitor=%d]: browser url probe failed for %q: %v",
					l.runID, l.MonitorID, w.WindowName, err)
				return
			}
			if ok {
				results[i].BrowserURL = &url
			}
		})
	}
	wg.Wait()
}

// send delivers result on Out, recovering a send-on-closed-channel
// panic into ErrChannelClosed (spec §7), and fans result out onto
// Realtime (best-effort, never blocking) if configured.
func (l *Loop) send(ctx context.Context, result model.CaptureResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrChannelClosed
		}
	}()

	if cap(l.Out) > 0 && len(l.Out) == cap(l.Out) {
		log.Printf("loop[run=%s monitor=%d]: downstream channel at capacity %d, applying backpressure",
			l.runID, l.MonitorID, cap(l.Out))
	}

	select {
	case l.Out <- result:
	case <-ctx.Done():
		return nil
	}

	l.fanOutRealtime(result)
	return nil
}

func (l *Loop) fanOutRealtime(result model.CaptureResult) {
	if l.Realtime == nil {
		return
	}
	for _, w := range result.WindowOCRResults {
		event := model.RealtimeVisionEvent{
			Kind: model.RealtimeEventOcr,
			Ocr: &model.WindowOcr{
				Image:      w.Image,
				WindowName: w.WindowName,
				AppName:    w.AppName,
				Text:       w.Text,
				TextJSON:   w.TextJSON,
				Focused:    w.Focused,
				Confidence: w.Confidence,
				Timestamp:  result.Timestamp,
				BrowserURL: w.BrowserURL,
			},
		}
		select {
		case l.Realtime <- event:
		default:
			log.Printf("loop[run=%s monitor=%d]: realtime fan-out full, dropping event for %q",
				l.runID, l.MonitorID, w.WindowName)
		}
	}
}

// heartbeatLoop logs at least once per HeartbeatInterval while ctx is
// live, regardless of frame activity (spec §4.G), mirroring the
// teacher's statsLogger goroutine but scoped to this one loop.
func (l *Loop) heartbeatLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.Config.heartbeatInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Printf("loop[run=%s monitor=%d]: heartbeat, frames emitted=%d, consecutive failures=%d",
				l.runID, l.MonitorID, l.emittedFrames.Load(), l.consecutiveFailures.Load())
		}
	}
}
