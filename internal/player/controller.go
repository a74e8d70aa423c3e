// Package player owns the play queue and keeps one MediaHandle in step with it.
package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
)

const (
	DefaultVolume = 0.7

	// restartThreshold is how far into a track Previous rewinds instead of
	// stepping back.
	restartThreshold = 3.0

	sideEffectTimeout = 10 * time.Second
)

type Options struct {
	Recorder Recorder
	Logger   *slog.Logger
	// Intn returns a uniform int in [0, n). Defaults to crypto/rand.
	Intn func(n int) int
}

// Controller is the queue and playback state machine. It may be used from one
// UI goroutine while the media handle delivers events from another.
type Controller struct {
	mu       sync.Mutex
	queue    []catalog.Track
	original []catalog.Track
	index    int
	current  *catalog.Track
	playing  bool
	loading  bool
	shuffled bool
	repeat   RepeatMode
	volume   float64
	progress float64
	duration float64
	session  *Session

	// gen changes whenever a track is (re)selected or the queue goes idle.
	gen uint64
	// seq changes on every media sync and lets stale play results be ignored.
	seq uint64

	mediaMu sync.Mutex
	media   MediaHandle

	recorder Recorder
	logger   *slog.Logger
	intn     func(int) int
	wg       sync.WaitGroup
}

func NewController(media MediaHandle, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Intn == nil {
		opts.Intn = secureIntn
	}
	return &Controller{
		media:    media,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		intn:     opts.Intn,
		repeat:   RepeatOff,
		volume:   DefaultVolume,
	}
}

// secureIntn draws from crypto/rand, falling back to 0 if the reader fails.
func secureIntn(n int) int {
	j, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(j.Int64())
}

// fisherYates shuffles tracks in place.
func fisherYates(tracks []catalog.Track, intn func(int) int) {
	for i := len(tracks) - 1; i > 0; i-- {
		j := intn(i + 1)
		tracks[i], tracks[j] = tracks[j], tracks[i]
	}
}

func indexOf(tracks []catalog.Track, id string) int {
	return slices.IndexFunc(tracks, func(t catalog.Track) bool { return t.ID == id })
}

// SetSession switches the listener identity. Pass nil to sign out.
func (c *Controller) SetSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s == nil {
		c.session = nil
		return
	}
	cp := *s
	c.session = &cp
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Queue:    slices.Clone(c.queue),
		Index:    c.index,
		Playing:  c.playing,
		Loading:  c.loading,
		Shuffled: c.shuffled,
		Repeat:   c.repeat,
		Volume:   c.volume,
		Progress: c.progress,
		Duration: c.duration,
	}
	if c.current != nil {
		cur := *c.current
		st.Current = &cur
	}
	switch {
	case c.current == nil:
		st.Status = StatusIdle
	case c.loading:
		st.Status = StatusLoading
	case c.playing:
		st.Status = StatusPlaying
	default:
		st.Status = StatusPaused
	}
	return st
}

// Wait blocks until every pending side effect has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// PlayTrack makes t current and starts playback. A non-empty queue replaces
// both the live queue and the original order. Without one, t is selected if
// already queued, becomes a one-track queue if nothing is queued, and is
// otherwise inserted right after the current entry.
func (c *Controller) PlayTrack(t catalog.Track, queue []catalog.Track) {
	var sess *Session
	c.update(func() {
		switch {
		case len(queue) > 0:
			c.queue = slices.Clone(queue)
			c.original = slices.Clone(queue)
			c.index = max(indexOf(c.queue, t.ID), 0)
		case len(c.queue) == 0:
			c.queue = []catalog.Track{t}
			c.original = []catalog.Track{t}
			c.index = 0
		default:
			if i := indexOf(c.queue, t.ID); i >= 0 {
				c.index = i
			} else {
				c.index++
				c.queue = slices.Insert(c.queue, c.index, t)
				if !c.shuffled {
					c.original = slices.Clone(c.queue)
				}
			}
		}
		c.setCurrentLocked(t)
		sess = c.session
	})

	if sess != nil && c.recorder != nil {
		s := *sess
		c.sideEffect("record play", func(ctx context.Context) error {
			return c.recorder.RecordPlay(ctx, s, t)
		})
	}
}

// TogglePlay flips play/pause. It does nothing without a current track.
func (c *Controller) TogglePlay() {
	c.update(func() {
		if c.current == nil {
			return
		}
		c.playing = !c.playing
	})
}

// Next advances the queue. In shuffle mode a random other entry is picked.
// At the end of an unshuffled queue it wraps only under RepeatAll and
// otherwise stops, keeping the last track current.
func (c *Controller) Next() {
	c.update(c.nextLocked)
}

func (c *Controller) nextLocked() {
	n := len(c.queue)
	if n == 0 {
		return
	}
	if c.shuffled && n > 1 {
		// Pick from every index except the current one.
		i := c.intn(n - 1)
		if i >= c.index {
			i++
		}
		c.selectLocked(i)
		return
	}
	next := c.index + 1
	if next >= n {
		if c.repeat != RepeatAll {
			c.playing = false
			return
		}
		next = 0
	}
	c.selectLocked(next)
}

// Previous rewinds the current track when more than three seconds have
// played, otherwise steps back. Before the first entry it wraps only under
// RepeatAll.
func (c *Controller) Previous() {
	c.mediaMu.Lock()
	pos := c.media.CurrentTime()
	c.mediaMu.Unlock()

	rewind := false
	c.update(func() {
		if len(c.queue) == 0 {
			return
		}
		if pos > restartThreshold {
			c.progress = 0
			rewind = true
			return
		}
		prev := c.index - 1
		if prev < 0 {
			if c.repeat != RepeatAll {
				return
			}
			prev = len(c.queue) - 1
		}
		c.selectLocked(prev)
	})

	if rewind {
		c.mediaMu.Lock()
		c.media.Seek(0)
		c.mediaMu.Unlock()
	}
}

// SetVolume clamps v to [0, 1], applies it and saves it for the session.
func (c *Controller) SetVolume(v float64) {
	v = clamp(v, 0, 1)

	c.mu.Lock()
	c.volume = v
	sess := c.session
	c.mu.Unlock()

	c.mediaMu.Lock()
	c.media.SetVolume(v)
	c.mediaMu.Unlock()

	if sess != nil && c.recorder != nil {
		s := *sess
		c.sideEffect("save volume", func(ctx context.Context) error {
			return c.recorder.SaveVolume(ctx, s, v)
		})
	}
}

// ApplyPreferences restores a saved volume without saving it back.
func (c *Controller) ApplyPreferences(volume float64) {
	volume = clamp(volume, 0, 1)

	c.mu.Lock()
	c.volume = volume
	c.mu.Unlock()

	c.mediaMu.Lock()
	c.media.SetVolume(volume)
	c.mediaMu.Unlock()
}

// SetProgress seeks to p percent of the track. It is a no-op until the
// duration is known.
func (c *Controller) SetProgress(p float64) {
	p = clamp(p, 0, 100)

	c.mu.Lock()
	if c.duration <= 0 {
		c.mu.Unlock()
		return
	}
	c.progress = p
	pos := p / 100 * c.duration
	c.mu.Unlock()

	c.mediaMu.Lock()
	c.media.Seek(pos)
	c.mediaMu.Unlock()
}

// ToggleShuffle enters or leaves shuffle mode. Entering captures the current
// order, shuffles every other track and pins the current one at index 0.
// Leaving restores the captured order. The current track never changes.
func (c *Controller) ToggleShuffle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shuffled = !c.shuffled
	if len(c.queue) == 0 {
		return
	}

	if c.shuffled {
		c.original = slices.Clone(c.queue)
		c.queue = c.shuffledAround(c.index)
		c.index = 0
		return
	}

	c.queue = slices.Clone(c.original)
	c.index = 0
	if c.current == nil {
		return
	}
	if i := indexOf(c.queue, c.current.ID); i >= 0 {
		c.index = i
		return
	}
	// Queued after shuffle was enabled, so absent from the captured order.
	// It leads the restored queue rather than silently dropping out.
	c.queue = slices.Insert(c.queue, 0, *c.current)
}

// shuffledAround returns a shuffled copy of the queue with entry pin first.
func (c *Controller) shuffledAround(pin int) []catalog.Track {
	rest := slices.Delete(slices.Clone(c.queue), pin, pin+1)
	fisherYates(rest, c.intn)
	return append([]catalog.Track{c.queue[pin]}, rest...)
}

// ToggleRepeat cycles off, one, all.
func (c *Controller) ToggleRepeat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repeat = c.repeat.Next()
}

// AddToQueue appends t. Outside shuffle mode the original order follows.
// While shuffled the original order is left as captured. Adding to an empty
// queue cues t as the current track without starting it.
func (c *Controller) AddToQueue(t catalog.Track) {
	c.update(func() {
		c.queue = append(c.queue, t)
		if !c.shuffled {
			c.original = append(c.original, t)
		}
		if c.current == nil {
			c.index = len(c.queue) - 1
			c.setCurrentLocked(t)
			c.playing = false
		}
	})
}

// RemoveFromQueue drops the entry at index. Removing the current entry
// selects the one that slides into its place, or the new last entry, and
// goes idle when nothing is left. Play or pause carries over to the
// replacement. Out of range indexes are ignored.
func (c *Controller) RemoveFromQueue(index int) {
	c.update(func() {
		if index < 0 || index >= len(c.queue) {
			return
		}
		removed := c.queue[index]
		c.queue = slices.Delete(c.queue, index, index+1)
		if i := indexOf(c.original, removed.ID); i >= 0 {
			c.original = slices.Delete(c.original, i, i+1)
		}

		switch {
		case index < c.index:
			c.index--
		case index == c.index:
			if len(c.queue) == 0 {
				c.idleLocked()
				return
			}
			// The replacement inherits the play state rather than starting.
			playing := c.playing
			c.selectLocked(min(c.index, len(c.queue)-1))
			c.playing = playing
		}
	})
}

// ClearQueue empties everything and stops playback.
func (c *Controller) ClearQueue() {
	c.update(func() {
		c.queue = nil
		c.original = nil
		c.idleLocked()
	})
}

// ShuffleQueue reorders the queue once, keeping the current track first.
// Shuffle mode and the original order are untouched.
func (c *Controller) ShuffleQueue() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) <= 1 {
		return
	}
	pin := -1
	if c.current != nil {
		pin = indexOf(c.queue, c.current.ID)
	}
	if pin < 0 {
		fisherYates(c.queue, c.intn)
	} else {
		c.queue = c.shuffledAround(pin)
	}
	c.index = 0
}

// selectLocked makes queue[i] current and marks it to play from the start.
func (c *Controller) selectLocked(i int) {
	c.index = i
	c.setCurrentLocked(c.queue[i])
}

func (c *Controller) setCurrentLocked(t catalog.Track) {
	if c.current == nil || c.current.PreviewURL != t.PreviewURL {
		c.duration = 0
	}
	c.current = &t
	c.playing = true
	c.progress = 0
	c.gen++
}

func (c *Controller) idleLocked() {
	c.index = 0
	c.current = nil
	c.playing = false
	c.loading = false
	c.progress = 0
	c.duration = 0
	c.gen++
}

type syncRequest struct {
	seq     uint64
	src     string
	volume  float64
	playing bool
	restart bool
}

// update runs fn under the state lock and, if it changed the selected track
// or the play intent, brings the media handle in line afterwards.
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	gen, playing := c.gen, c.playing
	fn()
	if c.gen == gen && c.playing == playing {
		c.mu.Unlock()
		return
	}
	c.seq++
	req := syncRequest{
		seq:     c.seq,
		volume:  c.volume,
		playing: c.playing,
		restart: c.gen != gen,
	}
	if c.current != nil {
		req.src = c.current.PreviewURL
	}
	c.mu.Unlock()

	c.sync(req)
}

// sync pauses, loads the source if it changed, applies volume and resumes
// when asked to. A newer sync makes an older one give up before Play.
func (c *Controller) sync(req syncRequest) {
	c.mediaMu.Lock()
	defer c.mediaMu.Unlock()

	// A newer request owns the media handle from here on.
	if !c.isCurrent(req.seq) {
		return
	}
	if !c.media.Paused() {
		c.media.Pause()
	}
	if req.src == "" {
		return
	}
	if c.media.Source() != req.src {
		if err := c.media.Load(req.src); err != nil {
			c.playFailed(req.seq, err)
			return
		}
	} else if req.restart {
		c.media.Seek(0)
	}
	c.media.SetVolume(req.volume)

	if !req.playing || !c.isCurrent(req.seq) {
		return
	}
	if err := c.media.Play(context.Background()); err != nil {
		c.playFailed(req.seq, err)
	}
}

func (c *Controller) isCurrent(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq == seq
}

func (c *Controller) playFailed(seq uint64, err error) {
	if errors.Is(err, ErrPlayInterrupted) {
		return
	}
	c.logger.Error("Audio playback error", "error", fmt.Errorf("%w: %v", ErrPlaybackFailure, err))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq == seq {
		c.playing = false
		c.loading = false
	}
}

// sideEffect runs fn in the background. Failures are logged and dropped.
func (c *Controller) sideEffect(name string, fn func(ctx context.Context) error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			c.logger.Warn("Side effect failed", "op", name, "error", err)
		}
	}()
}
