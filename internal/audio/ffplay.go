package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// Listener receives playback events. *player.Controller satisfies it.
type Listener interface {
	HandleLoadStart(src string)
	HandleLoadedMetadata(src string, duration float64)
	HandleCanPlay(src string)
	HandleTimeUpdate(src string, position float64)
	HandleEnded(src string)
	HandleError(src string, err error)
	HandlePlay(src string)
	HandlePlaying(src string)
}

const timeUpdateInterval = 250 * time.Millisecond

// FFPlay plays one source at a time through an ffplay child process. Pausing
// kills the process and remembers the offset; resuming starts a new one with
// -ss. Events are delivered in order from a dedicated goroutine.
type FFPlay struct {
	ffplay  string
	ffprobe string
	logger  *slog.Logger

	mu        sync.Mutex
	listener  Listener
	src       string
	volume    float64
	offset    float64
	startedAt time.Time
	cmd       *exec.Cmd
	// run identifies the current child process; exits of older runs are ignored.
	run    uint64
	closed bool

	queue  eventQueue
	cancel context.CancelFunc
	done   chan struct{}
}

func NewFFPlay(ffplay, ffprobe string, logger *slog.Logger) *FFPlay {
	if ffplay == "" {
		ffplay = "ffplay"
	}
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f := &FFPlay{
		ffplay:  ffplay,
		ffprobe: ffprobe,
		logger:  logger,
		volume:  1,
		queue:   newEventQueue(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go f.dispatch(ctx)
	return f
}

// SetListener attaches the event receiver. Events emitted before this are
// dropped.
func (f *FFPlay) SetListener(l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = l
}

func (f *FFPlay) Source() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.src
}

// Load stops any playback, switches to src and probes its duration in the
// background.
func (f *FFPlay) Load(src string) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return errors.New("ffplay: closed")
	}
	f.stopLocked()
	f.src = src
	f.offset = 0
	f.mu.Unlock()

	f.emit(func(l Listener) { l.HandleLoadStart(src) })
	go f.probe(src)
	return nil
}

func (f *FFPlay) probe(src string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	d, err := ProbeDuration(ctx, f.ffprobe, src)
	if err != nil {
		f.emit(func(l Listener) { l.HandleError(src, err) })
		return
	}
	f.emit(func(l Listener) {
		l.HandleLoadedMetadata(src, d)
		l.HandleCanPlay(src)
	})
}

// Play starts (or resumes) the loaded source. It returns once the child
// process is running.
func (f *FFPlay) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.src == "" {
		return errors.New("ffplay: no source loaded")
	}
	if f.cmd != nil {
		return nil
	}
	return f.startLocked()
}

func (f *FFPlay) startLocked() error {
	args := []string{
		"-nodisp", "-autoexit",
		"-loglevel", "error",
		"-volume", strconv.Itoa(int(f.volume * 100)),
	}
	if f.offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(f.offset, 'f', 2, 64))
	}
	args = append(args, f.src)

	cmd := exec.Command(f.ffplay, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", f.ffplay, err)
	}

	f.run++
	f.cmd = cmd
	f.startedAt = time.Now()

	run, src := f.run, f.src
	go f.wait(cmd, run, src)
	go f.tick(run, src)

	f.emit(func(l Listener) {
		l.HandlePlay(src)
		l.HandlePlaying(src)
	})
	return nil
}

// wait reports how the child for run finished, unless it was stopped on
// purpose.
func (f *FFPlay) wait(cmd *exec.Cmd, run uint64, src string) {
	err := cmd.Wait()

	f.mu.Lock()
	if f.run != run {
		f.mu.Unlock()
		return
	}
	f.offset = f.positionLocked()
	f.cmd = nil
	f.run++
	f.mu.Unlock()

	if err != nil {
		f.emit(func(l Listener) { l.HandleError(src, err) })
		return
	}
	f.emit(func(l Listener) { l.HandleEnded(src) })
}

func (f *FFPlay) tick(run uint64, src string) {
	t := time.NewTicker(timeUpdateInterval)
	defer t.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-t.C:
		}
		f.mu.Lock()
		if f.run != run {
			f.mu.Unlock()
			return
		}
		pos := f.positionLocked()
		f.mu.Unlock()

		f.emit(func(l Listener) { l.HandleTimeUpdate(src, pos) })
	}
}

func (f *FFPlay) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
}

func (f *FFPlay) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cmd == nil
}

// SetVolume takes effect immediately by restarting the child at the current
// position, since ffplay cannot change volume from outside.
func (f *FFPlay) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if v == f.volume {
		return
	}
	f.volume = v
	f.restartLocked()
}

func (f *FFPlay) Seek(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seconds < 0 {
		seconds = 0
	}
	running := f.cmd != nil
	f.stopLocked()
	f.offset = seconds
	if running {
		if err := f.startLocked(); err != nil {
			f.logger.Warn("ffplay restart after seek failed", "error", err)
		}
	}
}

func (f *FFPlay) CurrentTime() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.positionLocked()
}

// Close stops playback and the event goroutine.
func (f *FFPlay) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.stopLocked()
	f.mu.Unlock()

	close(f.done)
	f.cancel()
	return nil
}

func (f *FFPlay) positionLocked() float64 {
	if f.cmd == nil {
		return f.offset
	}
	return f.offset + time.Since(f.startedAt).Seconds()
}

func (f *FFPlay) restartLocked() {
	if f.cmd == nil {
		return
	}
	f.stopLocked()
	if err := f.startLocked(); err != nil {
		f.logger.Warn("ffplay restart failed", "error", err)
	}
}

func (f *FFPlay) stopLocked() {
	if f.cmd == nil {
		return
	}
	f.offset = f.positionLocked()
	f.run++
	if f.cmd.Process != nil {
		_ = f.cmd.Process.Kill()
	}
	f.cmd = nil
}

func (f *FFPlay) emit(fn func(Listener)) {
	f.queue.push(fn)
}

func (f *FFPlay) dispatch(ctx context.Context) {
	for {
		fns, ok := f.queue.wait(ctx)
		if !ok {
			return
		}
		f.mu.Lock()
		l := f.listener
		f.mu.Unlock()
		if l == nil {
			continue
		}
		for _, fn := range fns {
			fn(l)
		}
	}
}

// eventQueue is an unbounded FIFO so that emitting never blocks a caller
// that may hold locks the listener needs.
type eventQueue struct {
	mu     *sync.Mutex
	items  *[]func(Listener)
	signal chan struct{}
}

func newEventQueue() eventQueue {
	return eventQueue{
		mu:     &sync.Mutex{},
		items:  new([]func(Listener)),
		signal: make(chan struct{}, 1),
	}
}

func (q eventQueue) push(fn func(Listener)) {
	q.mu.Lock()
	*q.items = append(*q.items, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q eventQueue) wait(ctx context.Context) ([]func(Listener), bool) {
	for {
		q.mu.Lock()
		if len(*q.items) > 0 {
			fns := *q.items
			*q.items = nil
			q.mu.Unlock()
			return fns, true
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, false
		case <-q.signal:
		}
	}
}
