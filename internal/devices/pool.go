// Package devices runs one reader goroutine per raw input device and keeps
// the shared input snapshot current. Devices are discovered by globbing the
// event nodes at start and on a rescan interval.
package devices

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/framecore/internal/evdev"
	"github.com/1broseidon/framecore/internal/input"
)

// MaxWorkers is the ceiling on concurrently open devices.
const MaxWorkers = 10

// Config controls discovery and device handling.
type Config struct {
	Glob           string
	MaxWorkers     int
	RescanInterval time.Duration
	Grab           bool
	// LastTouchOnly lets only the touch device with the highest event
	// number drive touch state when several are attached.
	LastTouchOnly bool
	Logger        *slog.Logger
	Opener        Opener
	Discover      DiscoverFunc
}

// WorkerInfo describes a running worker.
type WorkerInfo struct {
	Path    string `json:"path"`
	Ordinal int    `json:"ordinal"`
	Name    string `json:"name"`
	Class   string `json:"class"`
	Gamepad int    `json:"gamepad"`
	Touch   bool   `json:"touch_enabled"`
}

// Pool owns the device workers.
type Pool struct {
	glob           string
	maxWorkers     int
	rescanInterval time.Duration
	lastTouchOnly  bool
	opener         Opener
	discover       DiscoverFunc
	logger         *slog.Logger

	snap *input.Snapshot

	mu      sync.Mutex
	workers map[string]*worker
	ignored map[string]struct{}
	// padWait holds gamepad-only devices that found every slot taken.
	// They are retried once a gamepad worker exits.
	padWait map[string]struct{}
	closing bool
	full    bool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewPool builds a pool that publishes into snap.
func NewPool(cfg Config, snap *input.Snapshot) *Pool {
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 || maxWorkers > MaxWorkers {
		maxWorkers = MaxWorkers
	}
	glob := cfg.Glob
	if glob == "" {
		glob = DefaultGlob
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opener := cfg.Opener
	if opener == nil {
		opener = SystemOpener(cfg.Grab)
	}
	discover := cfg.Discover
	if discover == nil {
		discover = GlobDiscover
	}

	return &Pool{
		glob:           glob,
		maxWorkers:     maxWorkers,
		rescanInterval: cfg.RescanInterval,
		lastTouchOnly:  cfg.LastTouchOnly,
		opener:         opener,
		discover:       discover,
		logger:         logger,
		snap:           snap,
		workers:        make(map[string]*worker),
		ignored:        make(map[string]struct{}),
		padWait:        make(map[string]struct{}),
	}
}

// Start performs the initial discovery pass and, when a rescan interval is
// configured, keeps scanning for hot-plugged devices until Close.
func (p *Pool) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		cancel()
		return errors.New("device pool closed")
	}
	p.cancel = cancel
	p.mu.Unlock()

	spawned := p.Scan()
	p.logger.Info("input device pool started", "glob", p.glob, "workers", spawned)

	if p.rescanInterval > 0 {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.rescanLoop(ctx)
		}()
	}
	return nil
}

func (p *Pool) rescanLoop(ctx context.Context) {
	ticker := time.NewTicker(p.rescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.Scan(); n > 0 {
				p.logger.Info("input devices attached", "count", n)
			}
		}
	}
}

// Scan opens every newly discovered device node up to the worker ceiling
// and returns the number of workers spawned.
func (p *Pool) Scan() int {
	paths, err := p.discover(p.glob)
	if err != nil {
		p.logger.Warn("input device discovery failed", "glob", p.glob, "error", err)
		return 0
	}

	present := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		present[path] = struct{}{}
	}

	spawned := 0
	for _, path := range paths {
		p.mu.Lock()
		_, running := p.workers[path]
		_, skip := p.ignored[path]
		if _, waiting := p.padWait[path]; waiting {
			skip = true
		}
		closing := p.closing
		atCap := len(p.workers) >= p.maxWorkers
		if atCap && !running && !skip && !p.full {
			p.logger.Warn("input worker ceiling reached", "max", p.maxWorkers, "path", path)
		}
		p.full = atCap
		p.mu.Unlock()

		if closing {
			return spawned
		}
		if running || skip || atCap {
			continue
		}
		if p.spawn(path) {
			spawned++
		}
	}

	p.mu.Lock()
	for path := range p.ignored {
		if _, ok := present[path]; !ok {
			delete(p.ignored, path)
		}
	}
	for path := range p.padWait {
		if _, ok := present[path]; !ok {
			delete(p.padWait, path)
		}
	}
	p.electTouchLocked()
	p.mu.Unlock()

	return spawned
}

func (p *Pool) spawn(path string) bool {
	dev, err := p.opener.Open(path)
	if err != nil {
		// Permission errors are routine for nodes the user cannot read.
		p.logger.Debug("input device skipped", "path", path, "error", err)
		p.mu.Lock()
		p.ignored[path] = struct{}{}
		p.mu.Unlock()
		return false
	}

	caps := dev.Capabilities()
	class := evdev.Classify(caps)
	if caps.RangeErr != nil {
		p.logger.Warn("input device calibration failed", "path", path, "name", caps.Name, "error", caps.RangeErr)
	}
	if class == 0 {
		dev.Close()
		p.logger.Debug("input device ignored", "path", path, "name", caps.Name)
		p.mu.Lock()
		p.ignored[path] = struct{}{}
		p.mu.Unlock()
		return false
	}

	pad := -1
	if class.Has(evdev.ClassGamepad) {
		var ok bool
		pad, ok = p.snap.ConnectGamepad(caps.Name, caps.AxisCount())
		if !ok {
			p.logger.Warn("no free gamepad slot", "path", path, "name", caps.Name)
			class &^= evdev.ClassGamepad
			if class == 0 {
				dev.Close()
				p.mu.Lock()
				p.padWait[path] = struct{}{}
				p.mu.Unlock()
				return false
			}
		}
	}

	w := newWorker(path, dev, class, pad, p.snap)

	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		dev.Close()
		if pad >= 0 {
			p.snap.DisconnectGamepad(pad)
		}
		return false
	}
	p.workers[path] = w
	p.wg.Add(1)
	p.mu.Unlock()

	p.logger.Info("input device attached",
		"path", path,
		"ordinal", w.ordinal,
		"name", caps.Name,
		"class", class.String(),
		"gamepad", pad,
	)

	go p.runWorker(w)
	return true
}

func (p *Pool) runWorker(w *worker) {
	defer p.wg.Done()
	defer close(w.done)

	err := w.run()

	p.mu.Lock()
	closing := p.closing
	delete(p.workers, w.path)
	p.electTouchLocked()
	p.mu.Unlock()

	if w.pad >= 0 {
		p.snap.DisconnectGamepad(w.pad)
		p.mu.Lock()
		clear(p.padWait)
		p.mu.Unlock()
	}
	w.close()

	if closing {
		return
	}
	derr := &DeviceError{Path: w.path, Op: "read", Err: err}
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
		p.logger.Info("input device closed", "path", w.path, "ordinal", w.ordinal)
		return
	}
	p.logger.Warn("input device disconnected", "path", w.path, "ordinal", w.ordinal, "error", derr)
}

// electTouchLocked enables touch on the highest-numbered touch device only
// when LastTouchOnly is set.
func (p *Pool) electTouchLocked() {
	if !p.lastTouchOnly {
		return
	}
	var last *worker
	for _, w := range p.workers {
		if !w.class.Has(evdev.ClassTouch) {
			continue
		}
		if last == nil || w.ordinal > last.ordinal {
			last = w
		}
	}
	for _, w := range p.workers {
		if w.class.Has(evdev.ClassTouch) {
			w.touchEnabled.Store(w == last)
		}
	}
}

// Workers lists the running workers ordered by event number.
func (p *Pool) Workers() []WorkerInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]WorkerInfo, 0, len(p.workers))
	paths := make([]string, 0, len(p.workers))
	for path := range p.workers {
		paths = append(paths, path)
	}
	sortByOrdinal(paths)
	for _, path := range paths {
		w := p.workers[path]
		out = append(out, WorkerInfo{
			Path:    w.path,
			Ordinal: w.ordinal,
			Name:    w.caps.Name,
			Class:   w.class.String(),
			Gamepad: w.pad,
			Touch:   w.class.Has(evdev.ClassTouch) && w.touchEnabled.Load(),
		})
	}
	return out
}

// Close stops rescans, invalidates every device handle so blocked reads
// return, and waits for all workers to exit.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		p.wg.Wait()
		return nil
	}
	p.closing = true
	if p.cancel != nil {
		p.cancel()
	}
	workers := make([]*worker, 0, len(p.workers))
	for _, w := range p.workers {
		workers = append(workers, w)
	}
	p.mu.Unlock()

	var errs []error
	for _, w := range workers {
		if err := w.close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, &DeviceError{Path: w.path, Op: "close", Err: err})
		}
	}
	p.wg.Wait()
	p.logger.Info("input device pool stopped", "workers", len(workers))
	return errors.Join(errs...)
}
