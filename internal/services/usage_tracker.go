package services

import (
	"sync"
	"time"
)

// UsageRecord reports one device's identification activity for a single UTC day.
type UsageRecord struct {
	Count int
	Tier  string
}

type usageKey struct {
	DeviceID string
	Day      string
}

// UsageTracker enforces the free-tier daily identification quota. Counters
// are process-local, keyed by device and UTC calendar date, and only ever
// decrease via ResetAll. Requests without a device ID are never tracked.
type UsageTracker struct {
	mu        sync.Mutex
	counts    map[usageKey]int
	limit     int
	retention time.Duration
	now       func() time.Time
}

func NewUsageTracker(limit int, retention, pruneInterval time.Duration) *UsageTracker {
	ut := &UsageTracker{
		counts:    make(map[usageKey]int),
		limit:     limit,
		retention: retention,
		now:       time.Now,
	}
	if pruneInterval > 0 {
		go ut.periodicPrune(pruneInterval)
	}
	return ut
}

// Limit returns the fixed daily quota.
func (ut *UsageTracker) Limit() int {
	return ut.limit
}

// GetUsage returns today's usage record for the device. An empty device ID
// always reads as zero; nothing is stored for it.
func (ut *UsageTracker) GetUsage(deviceID string) UsageRecord {
	if deviceID == "" {
		return UsageRecord{Count: 0, Tier: "free"}
	}

	ut.mu.Lock()
	defer ut.mu.Unlock()

	key := ut.keyFor(deviceID)
	if _, ok := ut.counts[key]; !ok {
		ut.counts[key] = 0
	}

	return UsageRecord{Count: ut.counts[key], Tier: "free"}
}

// RecordUsage counts one identification against today's quota for the device.
// A no-op when the device ID is empty.
func (ut *UsageTracker) RecordUsage(deviceID string) {
	if deviceID == "" {
		return
	}

	ut.mu.Lock()
	defer ut.mu.Unlock()

	ut.counts[ut.keyFor(deviceID)]++
}

// Allow reports whether the device may issue another identification today.
func (ut *UsageTracker) Allow(deviceID string) bool {
	return ut.GetUsage(deviceID).Count < ut.limit
}

// Remaining returns the credits left today for the device, never negative.
func (ut *UsageTracker) Remaining(deviceID string) int {
	remaining := ut.limit - ut.GetUsage(deviceID).Count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetAll clears every tracked record for every device and day.
// Administrative/testing use only.
func (ut *UsageTracker) ResetAll() {
	ut.mu.Lock()
	defer ut.mu.Unlock()

	ut.counts = make(map[usageKey]int)
}

func (ut *UsageTracker) keyFor(deviceID string) usageKey {
	return usageKey{DeviceID: deviceID, Day: ut.now().UTC().Format("2006-01-02")}
}

func (ut *UsageTracker) periodicPrune(interval time.Duration) {
	ticker := time.NewTicker(interval)
	for range ticker.C {
		ut.pruneStale()
	}
}

// pruneStale drops day-keyed entries older than the retention window so the
// map does not grow without bound over the life of the process. ISO day keys
// compare correctly as strings.
func (ut *UsageTracker) pruneStale() {
	cutoff := ut.now().UTC().Add(-ut.retention).Format("2006-01-02")

	ut.mu.Lock()
	defer ut.mu.Unlock()

	for key := range ut.counts {
		if key.Day < cutoff {
			delete(ut.counts, key)
		}
	}
}
