// Package featureflags parses a flat FEATURE_FLAGS env list into an
// in-memory manager with optional percentage rollouts.
//
// Flag syntax is a comma separated key=value list:
//
//	FEATURE_FLAGS="order_feed=on,purchase_tips=25%,legacy_checkout=off"
//
// A bare "on"/"true"/"1" enables the flag for everyone, "off"/"false"/"0"
// disables it, and "N%" enables it for a stable N percent of users keyed
// by user ID.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
)

type flagValue struct {
	enabled    bool
	rollout    int // 0-100, only meaningful when rolloutSet
	rolloutSet bool
}

// Manager resolves feature flag checks. It is safe for concurrent use;
// the flag set is immutable after construction.
type Manager struct {
	mu    sync.RWMutex
	raw   string
	flags map[string]flagValue
}

// NewManager parses the raw flag list. Malformed entries are skipped
// rather than failing startup.
func NewManager(raw string) *Manager {
	m := &Manager{raw: raw, flags: make(map[string]flagValue)}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, val, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(strings.ToLower(val))
		if key == "" || val == "" {
			continue
		}
		fv := flagValue{}
		switch val {
		case "on", "true", "1":
			fv.enabled = true
		case "off", "false", "0":
			fv.enabled = false
		default:
			if pct, ok := strings.CutSuffix(val, "%"); ok {
				n, err := strconv.Atoi(pct)
				if err != nil || n < 0 || n > 100 {
					continue
				}
				fv.rollout = n
				fv.rolloutSet = true
			} else {
				continue
			}
		}
		m.flags[key] = fv
	}
	return m
}

// Enabled reports whether the named flag is on for the given user.
// Unknown flags are off.
func (m *Manager) Enabled(name string, userID uint) bool {
	return m.EnabledDefault(name, userID, false)
}

// EnabledDefault is Enabled with an explicit fallback for flags that
// were never configured, letting callers ship features on by default
// while keeping a kill switch.
func (m *Manager) EnabledDefault(name string, userID uint, def bool) bool {
	m.mu.RLock()
	fv, ok := m.flags[name]
	m.mu.RUnlock()
	if !ok {
		return def
	}
	if fv.rolloutSet {
		return rolloutBucket(name, userID) < fv.rollout
	}
	return fv.enabled
}

// Raw returns the unparsed flag list as configured.
func (m *Manager) Raw() string {
	return m.raw
}

// Snapshot returns the effective value of every configured flag as a
// display string, for the admin flags endpoint.
func (m *Manager) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.flags))
	for name, fv := range m.flags {
		switch {
		case fv.rolloutSet:
			out[name] = strconv.Itoa(fv.rollout) + "%"
		case fv.enabled:
			out[name] = "on"
		default:
			out[name] = "off"
		}
	}
	return out
}

// rolloutBucket maps a user into a stable 0-99 bucket per flag, so a
// 25% rollout keeps the same cohort across restarts.
func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	h.Write([]byte(name))
	h.Write([]byte(strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}
