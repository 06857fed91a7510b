// Package platform classifies the runtime environment: the native iOS
// wrapper versus a plain browser. Detection is a pure function over an
// explicit environment snapshot, so it is testable without a real host.
//
// No single signal is reliable across build and debug configurations
// (packaged bundle, remote debug URL, deep-link transitions), so the
// detector ORs several independent signals; any true signal wins.
package platform

import (
	"fmt"
	"strings"
)

// nativePlatformTag is the platform identifier the bridge reports inside
// the iOS wrapper.
const nativePlatformTag = "ios"

// uaDeviceMarker is the user-agent substring present on the target device.
const uaDeviceMarker = "iPhone"

// Snapshot captures every environment signal the detector reads. Callers
// supply a SnapshotFunc so the values are re-read on every classification;
// the host environment can change mid-session (e.g. deep-link transitions),
// so results are never memoized.
type Snapshot struct {
	// BridgePlatform is the platform tag reported by the native bridge,
	// empty when no bridge is present.
	BridgePlatform string

	// BridgePresent reports whether the native bridge globals exist.
	BridgePresent bool

	// URLScheme is the scheme of the current location ("https", or the
	// custom app scheme inside the packaged bundle).
	URLScheme string

	// Host is the current location's hostname.
	Host string

	// UserAgent is the host's user-agent string.
	UserAgent string
}

// SnapshotFunc produces a fresh Snapshot. It may panic if the underlying
// host APIs are unavailable; the detector recovers and degrades.
type SnapshotFunc func() Snapshot

// Detector classifies the environment from snapshots.
type Detector struct {
	snapshot SnapshotFunc
	// userAgent is the degraded-mode source consulted when taking a full
	// snapshot fails. May be nil.
	userAgent func() string

	appScheme string
	devHosts  map[string]struct{}
}

// NewDetector builds a Detector. appScheme is the custom URL scheme of the
// packaged app; devHosts lists development/staging hostnames a native shell
// may load over HTTPS instead of the bundled files.
func NewDetector(snapshot SnapshotFunc, userAgent func() string, appScheme string, devHosts []string) *Detector {
	hosts := make(map[string]struct{}, len(devHosts))
	for _, h := range devHosts {
		hosts[strings.ToLower(h)] = struct{}{}
	}
	return &Detector{
		snapshot:  snapshot,
		userAgent: userAgent,
		appScheme: appScheme,
		devHosts:  hosts,
	}
}

// IsNativeApp reports whether the code is running inside the native
// wrapper. It re-takes a snapshot on every call and never panics: if
// snapshot acquisition fails, the user-agent marker alone decides.
func (d *Detector) IsNativeApp() bool {
	snap, err := d.take()
	if err != nil {
		return strings.Contains(d.fallbackUserAgent(), uaDeviceMarker)
	}

	hasMarker := strings.Contains(snap.UserAgent, uaDeviceMarker)

	switch {
	case snap.BridgePlatform == nativePlatformTag:
		return true
	case d.appScheme != "" && snap.URLScheme == d.appScheme:
		return true
	case hasMarker && snap.BridgePresent:
		return true
	case hasMarker && d.isDevHost(snap.Host):
		// A native shell loading a remote debug URL over HTTPS.
		return true
	}
	return false
}

func (d *Detector) isDevHost(host string) bool {
	_, ok := d.devHosts[strings.ToLower(host)]
	return ok
}

func (d *Detector) take() (snap Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("environment snapshot: %v", r)
		}
	}()
	if d.snapshot == nil {
		return Snapshot{}, fmt.Errorf("no snapshot source")
	}
	return d.snapshot(), nil
}

func (d *Detector) fallbackUserAgent() (ua string) {
	defer func() {
		if recover() != nil {
			ua = ""
		}
	}()
	if d.userAgent == nil {
		return ""
	}
	return d.userAgent()
}
