// Package store mediates between UI observers and the remote vehicle-cloud API.
//
// A Store coordinates multi-resource concurrent refreshes (status, emobility, position), applies a
// disk-backed cache with per-resource time-to-live policies, deduplicates concurrent refreshes per
// vehicle, and exposes per-resource replay-latest streams that late subscribers can join. One
// Store is constructed at process or extension entry and passed by reference to whatever needs it;
// there is no ambient global instance.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/electricsidecar/sidecar/internal/log"
	"github.com/electricsidecar/sidecar/pkg/connect"
)

// VehicleAPI is the remote vehicle-cloud collaborator. Satisfied by [connect.Client].
//
//go:generate mockgen -destination ../../mocks/vehicle_api.go -package mocks -mock_names VehicleAPI=VehicleAPI github.com/electricsidecar/sidecar/pkg/store VehicleAPI
type VehicleAPI interface {
	Vehicles(ctx context.Context) ([]connect.Vehicle, error)
	Capabilities(ctx context.Context, vin string) (*connect.Capabilities, error)
	Status(ctx context.Context, vin string) (*connect.Status, error)
	Emobility(ctx context.Context, vin string, capabilities *connect.Capabilities) (*connect.Emobility, error)
	Position(ctx context.Context, vin string) (*connect.Position, error)
	Summary(ctx context.Context, vin string) (*connect.Summary, error)
	LockUnlockLastActions(ctx context.Context, vin string) (*connect.LockUnlockLastActions, error)
	Lock(ctx context.Context, vin string) (*connect.RemoteCommandAccepted, error)
	Unlock(ctx context.Context, vin, pin string) (*connect.RemoteCommandAccepted, error)
	CommandStatus(ctx context.Context, vin string, accepted *connect.RemoteCommandAccepted) (*connect.RemoteCommandStatus, error)
	Flash(ctx context.Context, vin string) error
}

// TTLPolicy holds the per-resource-kind maximum age at which a cached value is still fresh.
type TTLPolicy struct {
	VehicleList  time.Duration
	Capabilities time.Duration
	Status       time.Duration
	Emobility    time.Duration
	Position     time.Duration
	Summary      time.Duration
	LastActions  time.Duration
}

// DefaultTTLPolicy returns the production cache policy: the vehicle list changes rarely,
// capabilities essentially never, and the live resources go stale after fifteen minutes.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		VehicleList:  24 * time.Hour,
		Capabilities: 365 * 24 * time.Hour,
		Status:       15 * time.Minute,
		Emobility:    15 * time.Minute,
		Position:     15 * time.Minute,
		Summary:      15 * time.Minute,
		LastActions:  15 * time.Minute,
	}
}

// Config collects the dependencies of a Store.
type Config struct {
	API VehicleAPI

	// CacheRoot is the account-scoped cache directory, shared with the watch and widget
	// processes. See [CacheRoot].
	CacheRoot string

	// TTL defaults to [DefaultTTLPolicy] when zero.
	TTL TTLPolicy

	// ReloadGlances, when non-nil, is invoked fire-and-forget after any refresh in which at least
	// one resource fetch succeeded, so widgets and complications re-render with fresh cached data.
	ReloadGlances func()
}

// CacheRoot returns the on-disk cache directory for account inside containerDir. The account
// identifier is hashed so that multiple accounts on one device do not collide and the identifier
// itself never appears on disk.
func CacheRoot(containerDir, account string) string {
	sum := sha256.Sum256([]byte(account))
	return filepath.Join(containerDir, ".cache", hex.EncodeToString(sum[:]))
}

// Store is the model store shared by the UI layer, widget timeline providers, and the watch
// connectivity code.
type Store struct {
	api           VehicleAPI
	root          string
	ttl           TTLPolicy
	reloadGlances func()

	mu       sync.Mutex
	inFlight map[string]bool

	status    streamRegistry[connect.Status]
	emobility streamRegistry[connect.Emobility]
	position  streamRegistry[connect.Position]
}

func New(config Config) *Store {
	ttl := config.TTL
	if ttl == (TTLPolicy{}) {
		ttl = DefaultTTLPolicy()
	}
	return &Store{
		api:           config.API,
		root:          config.CacheRoot,
		ttl:           ttl,
		reloadGlances: config.ReloadGlances,
		inFlight:      make(map[string]bool),
	}
}

func (s *Store) vehiclePath(vin, kind string) string {
	return filepath.Join(s.root, "vehicles", vin, kind)
}

// VehicleList returns the account's vehicles, from cache when fresh.
func (s *Store) VehicleList(ctx context.Context, ignoreCache bool) ([]connect.Vehicle, error) {
	path := filepath.Join(s.root, "vehicleList")
	vehicles, err := fetch(ctx, path, s.ttl.VehicleList, ignoreCache, func(ctx context.Context) (*[]connect.Vehicle, error) {
		list, err := s.api.Vehicles(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *vehicles, nil
}

// Load warms the vehicle list at startup.
func (s *Store) Load(ctx context.Context) ([]connect.Vehicle, error) {
	log.Info("Initial load")
	vehicles, err := s.VehicleList(ctx, false)
	if err != nil {
		log.Error("Failed initial load with error: %s", err)
		return nil, err
	}
	log.Debug("Loaded %d vehicles", len(vehicles))
	return vehicles, nil
}

// Capabilities returns the vehicle's feature set, cached for a very long time since capabilities
// effectively never change.
func (s *Store) Capabilities(ctx context.Context, vin string, ignoreCache bool) (*connect.Capabilities, error) {
	return fetch(ctx, s.vehiclePath(vin, "capabilities"), s.ttl.Capabilities, ignoreCache, func(ctx context.Context) (*connect.Capabilities, error) {
		return s.api.Capabilities(ctx, vin)
	})
}

// Status returns the vehicle's stored status snapshot.
func (s *Store) Status(ctx context.Context, vin string, ignoreCache bool) (*connect.Status, error) {
	return fetch(ctx, s.vehiclePath(vin, "stored"), s.ttl.Status, ignoreCache, func(ctx context.Context) (*connect.Status, error) {
		return s.api.Status(ctx, vin)
	})
}

// Emobility returns the vehicle's battery and charging state. The emobility endpoint requires
// capability data, so capabilities are resolved first (cache hit or miss); the two fetches are
// never concurrent.
func (s *Store) Emobility(ctx context.Context, vin string, ignoreCache bool) (*connect.Emobility, error) {
	capabilities, err := s.Capabilities(ctx, vin, ignoreCache)
	if err != nil {
		return nil, err
	}
	return fetch(ctx, s.vehiclePath(vin, "emobility"), s.ttl.Emobility, ignoreCache, func(ctx context.Context) (*connect.Emobility, error) {
		return s.api.Emobility(ctx, vin, capabilities)
	})
}

// Position returns the vehicle's last known location.
func (s *Store) Position(ctx context.Context, vin string, ignoreCache bool) (*connect.Position, error) {
	return fetch(ctx, s.vehiclePath(vin, "position"), s.ttl.Position, ignoreCache, func(ctx context.Context) (*connect.Position, error) {
		return s.api.Position(ctx, vin)
	})
}

// Summary returns the vehicle's nickname and description.
func (s *Store) Summary(ctx context.Context, vin string, ignoreCache bool) (*connect.Summary, error) {
	return fetch(ctx, s.vehiclePath(vin, "summary"), s.ttl.Summary, ignoreCache, func(ctx context.Context) (*connect.Summary, error) {
		return s.api.Summary(ctx, vin)
	})
}

// LockUnlockLastActions returns the door state left behind by the most recent remote lock or
// unlock command.
func (s *Store) LockUnlockLastActions(ctx context.Context, vin string, ignoreCache bool) (*connect.LockUnlockLastActions, error) {
	return fetch(ctx, s.vehiclePath(vin, "lock-unlock-last-actions"), s.ttl.LastActions, ignoreCache, func(ctx context.Context) (*connect.LockUnlockLastActions, error) {
		return s.api.LockUnlockLastActions(ctx, vin)
	})
}

// StatusStream returns the replay-latest stream of status updates for vin, creating it on first
// access.
func (s *Store) StatusStream(vin string) *Stream[connect.Status] {
	return s.status.stream(vin)
}

// EmobilityStream returns the replay-latest stream of emobility updates for vin.
func (s *Store) EmobilityStream(vin string) *Stream[connect.Emobility] {
	return s.emobility.stream(vin)
}

// PositionStream returns the replay-latest stream of position updates for vin.
func (s *Store) PositionStream(vin string) *Stream[connect.Position] {
	return s.position.stream(vin)
}

// Refresh fetches status, emobility, and position for vin as three sibling tasks and publishes
// each outcome on its own stream. The three resources come from independent remote endpoints with
// independent latency and failure characteristics; one failure never cancels the others, and a
// consumer that only cares about one resource gets its partial result without waiting on the rest.
//
// At most one refresh is in flight per vehicle. A second call while one is running is dropped:
// it returns immediately without fetching, and is not queued. A caller that needs the latest data
// right after a dropped call must re-invoke Refresh once the in-flight one completes.
func (s *Store) Refresh(ctx context.Context, vin string, ignoreCache bool) {
	s.mu.Lock()
	if s.inFlight[vin] {
		s.mu.Unlock()
		log.Debug("Refresh already in flight for %s", vin)
		return
	}
	s.inFlight[vin] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, vin)
		s.mu.Unlock()
	}()

	log.Info("Starting refresh for %s", vin)
	var succeeded atomic.Bool
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if s.refreshStatus(ctx, vin, ignoreCache) {
			succeeded.Store(true)
		}
	}()
	go func() {
		defer wg.Done()
		if s.refreshEmobility(ctx, vin, ignoreCache) {
			succeeded.Store(true)
		}
	}()
	go func() {
		defer wg.Done()
		if s.refreshPosition(ctx, vin, ignoreCache) {
			succeeded.Store(true)
		}
	}()
	wg.Wait()
	log.Info("Finished refresh for %s", vin)

	if succeeded.Load() && s.reloadGlances != nil {
		s.reloadGlances()
	}
}

func (s *Store) refreshStatus(ctx context.Context, vin string, ignoreCache bool) bool {
	status, err := s.Status(ctx, vin, ignoreCache)
	if err != nil {
		log.Error("Status refresh failed for %s: %s", vin, err)
		s.status.stream(vin).failed(err)
		return false
	}
	s.status.stream(vin).loaded(*status)
	return true
}

func (s *Store) refreshEmobility(ctx context.Context, vin string, ignoreCache bool) bool {
	emobility, err := s.Emobility(ctx, vin, ignoreCache)
	if err != nil {
		log.Error("Emobility refresh failed for %s: %s", vin, err)
		s.emobility.stream(vin).failed(err)
		return false
	}
	s.emobility.stream(vin).loaded(*emobility)
	return true
}

func (s *Store) refreshPosition(ctx context.Context, vin string, ignoreCache bool) bool {
	position, err := s.Position(ctx, vin, ignoreCache)
	if err != nil {
		log.Error("Position refresh failed for %s: %s", vin, err)
		s.position.stream(vin).failed(err)
		return false
	}
	s.position.stream(vin).loaded(*position)
	return true
}

// Lock sends a lock command. Completion is asynchronous; poll with [Store.CommandStatus].
func (s *Store) Lock(ctx context.Context, vin string) (*connect.RemoteCommandAccepted, error) {
	return s.api.Lock(ctx, vin)
}

// Unlock sends an unlock command authorized by the account's security PIN.
func (s *Store) Unlock(ctx context.Context, vin, pin string) (*connect.RemoteCommandAccepted, error) {
	return s.api.Unlock(ctx, vin, pin)
}

// CommandStatus polls the progress of an accepted remote command.
func (s *Store) CommandStatus(ctx context.Context, vin string, accepted *connect.RemoteCommandAccepted) (*connect.RemoteCommandStatus, error) {
	return s.api.CommandStatus(ctx, vin, accepted)
}

// Flash asks the vehicle to flash its indicators.
func (s *Store) Flash(ctx context.Context, vin string) error {
	return s.api.Flash(ctx, vin)
}
