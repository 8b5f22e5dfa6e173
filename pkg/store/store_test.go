package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/electricsidecar/sidecar/mocks"
	"github.com/electricsidecar/sidecar/pkg/connect"
	"github.com/electricsidecar/sidecar/pkg/store"
)

const vin = "WP0ZZZ00000000001"

var _ = Describe("Store", func() {
	var (
		ctrl    *gomock.Controller
		api     *mocks.VehicleAPI
		s       *store.Store
		root    string
		reloads int32
	)

	ctx := context.Background()
	status := &connect.Status{
		VIN:               vin,
		OverallLockStatus: "CLOSED_LOCKED",
		BatteryLevel:      connect.Percentage{Value: 72, Unit: "PERCENT"},
	}
	capabilities := &connect.Capabilities{CarModel: "J1", EngineType: "BEV"}
	emobility := &connect.Emobility{
		BatteryChargeStatus: connect.BatteryChargeStatus{
			ChargingState:             "CHARGING",
			StateOfChargeInPercentage: 72,
		},
	}
	position := &connect.Position{CarCoordinate: connect.Coordinate{Latitude: 48.83, Longitude: 9.15}}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		api = mocks.NewVehicleAPI(ctrl)
		root = GinkgoT().TempDir()
		atomic.StoreInt32(&reloads, 0)
		s = store.New(store.Config{
			API:           api,
			CacheRoot:     root,
			ReloadGlances: func() { atomic.AddInt32(&reloads, 1) },
		})
		DeferCleanup(func() {
			ctrl.Finish()
		})
	})

	expectFullRefresh := func() {
		api.EXPECT().Status(gomock.Any(), vin).Return(status, nil)
		api.EXPECT().Position(gomock.Any(), vin).Return(position, nil)
		capabilitiesCall := api.EXPECT().Capabilities(gomock.Any(), vin).Return(capabilities, nil)
		api.EXPECT().Emobility(gomock.Any(), vin, capabilities).Return(emobility, nil).After(capabilitiesCall)
	}

	Describe("Refresh", func() {
		It("publishes each resource on its own stream", func() {
			expectFullRefresh()
			s.Refresh(ctx, vin, false)

			statusState := s.StatusStream(vin).Current()
			Expect(statusState.Err).NotTo(HaveOccurred())
			Expect(statusState.Value.OverallLockStatus).To(Equal("CLOSED_LOCKED"))

			emobilityState := s.EmobilityStream(vin).Current()
			Expect(emobilityState.Err).NotTo(HaveOccurred())
			Expect(emobilityState.Value.IsCharging()).To(BeTrue())

			positionState := s.PositionStream(vin).Current()
			Expect(positionState.Err).NotTo(HaveOccurred())
			Expect(positionState.Value.CarCoordinate.Latitude).To(Equal(48.83))

			Expect(atomic.LoadInt32(&reloads)).To(Equal(int32(1)))
		})

		It("serves a second refresh within the ttl from disk", func() {
			expectFullRefresh()
			s.Refresh(ctx, vin, false)
			// No further expectations: every resource is fresh on disk, so the second refresh
			// publishes cached values without touching the network.
			s.Refresh(ctx, vin, false)

			Expect(s.EmobilityStream(vin).Current().Value.BatteryChargeStatus.StateOfChargeInPercentage).To(Equal(72))
			Expect(atomic.LoadInt32(&reloads)).To(Equal(int32(2)))
		})

		It("refetches only the resources whose ttl has lapsed", func() {
			expectFullRefresh()
			s.Refresh(ctx, vin, false)

			// Age the emobility entry past its ttl. Status, position, and the long-lived
			// capabilities entry stay fresh, so the next refresh performs exactly one fetch,
			// with the capability cache hit still preceding the emobility call.
			stale := time.Now().Add(-time.Hour)
			Expect(os.Chtimes(filepath.Join(root, "vehicles", vin, "emobility"), stale, stale)).To(Succeed())
			api.EXPECT().Emobility(gomock.Any(), vin, capabilities).Return(emobility, nil)

			s.Refresh(ctx, vin, false)
		})

		It("bypasses fresh cache entries when asked", func() {
			expectFullRefresh()
			s.Refresh(ctx, vin, false)

			expectFullRefresh()
			s.Refresh(ctx, vin, true)
		})

		It("isolates a failing resource from its siblings", func() {
			api.EXPECT().Status(gomock.Any(), vin).Return(status, nil)
			capabilitiesCall := api.EXPECT().Capabilities(gomock.Any(), vin).Return(capabilities, nil)
			api.EXPECT().Emobility(gomock.Any(), vin, capabilities).Return(emobility, nil).After(capabilitiesCall)
			api.EXPECT().Position(gomock.Any(), vin).Return(nil, errors.New("car-finder unavailable"))

			s.Refresh(ctx, vin, false)

			Expect(s.StatusStream(vin).Current().Err).NotTo(HaveOccurred())
			Expect(s.EmobilityStream(vin).Current().Err).NotTo(HaveOccurred())

			positionState := s.PositionStream(vin).Current()
			Expect(positionState.Err).To(MatchError(ContainSubstring("car-finder unavailable")))
			Expect(positionState.Value).To(BeNil())
			Expect(atomic.LoadInt32(&reloads)).To(Equal(int32(1)))
		})

		It("preserves the last known value alongside a later error", func() {
			expectFullRefresh()
			s.Refresh(ctx, vin, false)

			api.EXPECT().Status(gomock.Any(), vin).Return(status, nil)
			capabilitiesCall := api.EXPECT().Capabilities(gomock.Any(), vin).Return(capabilities, nil)
			api.EXPECT().Emobility(gomock.Any(), vin, capabilities).Return(emobility, nil).After(capabilitiesCall)
			api.EXPECT().Position(gomock.Any(), vin).Return(nil, errors.New("car-finder unavailable"))

			s.Refresh(ctx, vin, true)

			positionState := s.PositionStream(vin).Current()
			Expect(positionState.Err).To(HaveOccurred())
			Expect(positionState.Value).NotTo(BeNil())
			Expect(positionState.Value.CarCoordinate.Latitude).To(Equal(48.83))
		})

		It("does not reload glance surfaces when every resource fails", func() {
			api.EXPECT().Status(gomock.Any(), vin).Return(nil, errors.New("down"))
			api.EXPECT().Capabilities(gomock.Any(), vin).Return(nil, errors.New("down"))
			api.EXPECT().Position(gomock.Any(), vin).Return(nil, errors.New("down"))

			s.Refresh(ctx, vin, false)
			Expect(atomic.LoadInt32(&reloads)).To(BeZero())
		})

		It("drops a second refresh while one is in flight", func() {
			release := make(chan struct{})
			started := make(chan struct{})
			api.EXPECT().Status(gomock.Any(), vin).DoAndReturn(func(context.Context, string) (*connect.Status, error) {
				close(started)
				<-release
				return status, nil
			})
			capabilitiesCall := api.EXPECT().Capabilities(gomock.Any(), vin).Return(capabilities, nil)
			api.EXPECT().Emobility(gomock.Any(), vin, capabilities).Return(emobility, nil).After(capabilitiesCall)
			api.EXPECT().Position(gomock.Any(), vin).Return(position, nil)

			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				s.Refresh(ctx, vin, false)
			}()
			<-started

			// Every mock above expects exactly one call, so a second fetch set would fail the
			// controller at cleanup.
			s.Refresh(ctx, vin, false)

			close(release)
			Eventually(done).Should(BeClosed())
			Expect(atomic.LoadInt32(&reloads)).To(Equal(int32(1)))
		})

		It("replays the latest state to late subscribers", func() {
			expectFullRefresh()
			s.Refresh(ctx, vin, false)

			ch, cancel := s.EmobilityStream(vin).Subscribe()
			defer cancel()
			var state store.Refreshable[connect.Emobility]
			Expect(ch).To(Receive(&state))
			Expect(state.Value.IsCharging()).To(BeTrue())
		})
	})

	Describe("VehicleList", func() {
		It("caches the account's vehicles", func() {
			api.EXPECT().Vehicles(gomock.Any()).Return([]connect.Vehicle{{VIN: vin, ModelDescription: "Taycan 4S"}}, nil)

			vehicles, err := s.VehicleList(ctx, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(vehicles).To(HaveLen(1))

			// Second call hits the disk cache.
			vehicles, err = s.VehicleList(ctx, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(vehicles[0].ModelDescription).To(Equal("Taycan 4S"))
		})
	})

	Describe("LockUnlockLastActions", func() {
		It("caches the most recent lock action", func() {
			lastActions := &connect.LockUnlockLastActions{
				VIN:   vin,
				Doors: connect.Doors{OverallLockStatus: "CLOSED_LOCKED"},
			}
			api.EXPECT().LockUnlockLastActions(gomock.Any(), vin).Return(lastActions, nil)

			got, err := s.LockUnlockLastActions(ctx, vin, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Doors.OverallLockStatus).To(Equal("CLOSED_LOCKED"))

			// Second call hits the disk cache.
			got, err = s.LockUnlockLastActions(ctx, vin, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.VIN).To(Equal(vin))
		})
	})

	Describe("remote commands", func() {
		It("passes commands through without caching", func() {
			accepted := &connect.RemoteCommandAccepted{RequestID: "req-1"}
			api.EXPECT().Lock(gomock.Any(), vin).Return(accepted, nil)
			api.EXPECT().CommandStatus(gomock.Any(), vin, accepted).Return(&connect.RemoteCommandStatus{Status: connect.CommandSuccess}, nil)

			got, err := s.Lock(ctx, vin)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.RequestID).To(Equal("req-1"))

			commandStatus, err := s.CommandStatus(ctx, vin, got)
			Expect(err).NotTo(HaveOccurred())
			Expect(commandStatus.Status).To(Equal(connect.CommandSuccess))
		})
	})
})
