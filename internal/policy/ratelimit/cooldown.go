package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/JakeFAU/wiki-scraper/internal/metrics"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// Class groups commands that share a cooldown window.
type Class string

// Command classes with cooldowns.
const (
	ClassSearch  Class = "search"
	ClassPDF     Class = "pdf"
	ClassCompare Class = "compare"
	ClassRandom  Class = "random"
)

// DefaultWindows are the cooldowns applied when none are configured.
var DefaultWindows = map[Class]time.Duration{
	ClassSearch:  3 * time.Second,
	ClassPDF:     5 * time.Second,
	ClassCompare: 5 * time.Second,
	ClassRandom:  2 * time.Second,
}

// Decision is the outcome of a cooldown check. A rejection is not an error.
type Decision struct {
	Allowed bool
	// Wait is the time left in the window when the command is rejected.
	Wait time.Duration
}

// WaitSeconds rounds Wait up to whole seconds, never reporting less than one.
func (d Decision) WaitSeconds() int {
	secs := int(math.Ceil(d.Wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

type cooldownKey struct {
	user  wiki.UserID
	class Class
}

// Cooldown accepts at most one command per (user, class) within the class
// window, measured from the last accepted command.
type Cooldown struct {
	mu       sync.Mutex
	windows  map[Class]time.Duration
	accepted map[cooldownKey]time.Time
}

// NewCooldown builds a Cooldown. Classes missing from windows fall back to DefaultWindows.
func NewCooldown(windows map[Class]time.Duration) *Cooldown {
	merged := make(map[Class]time.Duration, len(DefaultWindows))
	for class, window := range DefaultWindows {
		merged[class] = window
	}
	for class, window := range windows {
		merged[class] = window
	}
	return &Cooldown{
		windows:  merged,
		accepted: make(map[cooldownKey]time.Time),
	}
}

// Window returns the cooldown configured for class.
func (c *Cooldown) Window(class Class) time.Duration {
	return c.windows[class]
}

// Allow checks and, when accepted, records a command for user at now.
// Rejected commands do not move the window.
func (c *Cooldown) Allow(user wiki.UserID, class Class, now time.Time) Decision {
	window := c.windows[class]
	key := cooldownKey{user: user, class: class}

	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.accepted[key]; ok {
		if elapsed := now.Sub(last); elapsed < window {
			metrics.ObserveRateLimitRejection(string(class))
			return Decision{Allowed: false, Wait: window - elapsed}
		}
	}
	c.accepted[key] = now
	return Decision{Allowed: true}
}
