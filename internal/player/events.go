package player

import "fmt"

// The Handle* methods are the media handle's callbacks. Each carries the
// source it refers to; events for anything but the current track's source
// are dropped so a superseded load cannot overwrite newer state. An empty
// src is treated as current.

func (c *Controller) staleLocked(src string) bool {
	if src == "" {
		return false
	}
	return c.current == nil || c.current.PreviewURL != src
}

func (c *Controller) HandleLoadStart(src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.staleLocked(src) {
		c.loading = true
	}
}

func (c *Controller) HandleLoadedMetadata(src string, duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staleLocked(src) {
		return
	}
	if duration < 0 {
		duration = 0
	}
	c.duration = duration
	c.loading = false
}

func (c *Controller) HandleCanPlay(src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.staleLocked(src) {
		c.loading = false
	}
}

func (c *Controller) HandleTimeUpdate(src string, position float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staleLocked(src) || c.duration <= 0 {
		return
	}
	c.progress = clamp(position/c.duration*100, 0, 100)
}

func (c *Controller) HandleWaiting(src string) {
	c.HandleLoadStart(src)
}

func (c *Controller) HandlePlaying(src string) {
	c.HandleCanPlay(src)
}

func (c *Controller) HandlePlay(src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.staleLocked(src) && c.current != nil {
		c.playing = true
	}
}

// HandlePause reports a pause the controller did not ask for, such as a
// device being unplugged.
func (c *Controller) HandlePause(src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.staleLocked(src) {
		c.playing = false
	}
}

// HandleEnded applies the end-of-track policy: RepeatOne replays the same
// entry, RepeatAll or a non-final entry advances, anything else stops with
// the last track still current.
func (c *Controller) HandleEnded(src string) {
	c.update(func() {
		if c.staleLocked(src) || c.current == nil {
			return
		}
		switch {
		case c.repeat == RepeatOne:
			c.setCurrentLocked(*c.current)
		case c.repeat == RepeatAll || c.index < len(c.queue)-1:
			c.nextLocked()
		default:
			c.playing = false
			c.progress = 0
		}
	})
}

// HandleError stops playback and skips the failing track when there is
// something else to play. A single-entry queue is left stopped.
func (c *Controller) HandleError(src string, err error) {
	skipped := false
	c.update(func() {
		if c.staleLocked(src) {
			return
		}
		c.playing = false
		c.loading = false
		if len(c.queue) > 1 {
			gen := c.gen
			c.nextLocked()
			skipped = c.gen != gen
		}
	})
	c.logger.Warn("Media error", "src", src, "skipped", skipped, "error", fmt.Errorf("%w: %v", ErrPlaybackFailure, err))
}
