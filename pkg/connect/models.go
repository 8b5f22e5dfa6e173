package connect

// API response shapes. Field names mirror the vehicle-cloud JSON wire format.

// Vehicle describes one car attached to the account.
type Vehicle struct {
	VIN              string    `json:"vin"`
	ModelDescription string    `json:"modelDescription"`
	ModelType        string    `json:"modelType"`
	ModelYear        string    `json:"modelYear"`
	ExteriorColorHex string    `json:"exteriorColorHex,omitempty"`
	LicensePlate     string    `json:"licensePlate,omitempty"`
	Pictures         []Picture `json:"pictures,omitempty"`
}

type Picture struct {
	URL  string `json:"url"`
	View string `json:"view"`
	Size int    `json:"size"`
}

// Capabilities rarely change for a given vehicle; the emobility endpoint requires the car model
// reported here.
type Capabilities struct {
	CarModel              string `json:"carModel"`
	EngineType            string `json:"engineType"`
	SteeringWheelPosition string `json:"steeringWheelPosition"`
	HasRDK                bool   `json:"hasRDK"`
	HasDX1                bool   `json:"hasDX1"`
}

type Distance struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type Percentage struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Status is the stored (server-side snapshot) vehicle status.
type Status struct {
	VIN               string          `json:"vin"`
	BatteryLevel      Percentage      `json:"batteryLevel"`
	Mileage           Distance        `json:"mileage"`
	OverallLockStatus string          `json:"overallLockStatus"`
	Doors             Doors           `json:"doors"`
	RemainingRanges   RemainingRanges `json:"remainingRanges"`
}

type Doors struct {
	FrontLeft         string `json:"frontLeft"`
	FrontRight        string `json:"frontRight"`
	BackLeft          string `json:"backLeft"`
	BackRight         string `json:"backRight"`
	FrontTrunk        string `json:"frontTrunk"`
	BackTrunk         string `json:"backTrunk"`
	OverallLockStatus string `json:"overallLockStatus"`
}

type RemainingRanges struct {
	ElectricalRange Range `json:"electricalRange"`
}

type Range struct {
	Distance   *Distance `json:"distance"`
	EngineType string    `json:"engineType"`
}

// IsLocked reports whether the vehicle is locked. known is false when the remote reported a state
// this client does not recognize.
func (s *Status) IsLocked() (locked, known bool) {
	switch s.OverallLockStatus {
	case "CLOSED_UNLOCKED":
		return false, true
	case "CLOSED_LOCKED":
		return true, true
	default:
		return false, false
	}
}

// IsClosed reports whether all doors and trunks are closed.
func (s *Status) IsClosed() (closed, known bool) {
	switch s.OverallLockStatus {
	case "CLOSED_UNLOCKED", "CLOSED_LOCKED":
		return true, true
	default:
		return false, false
	}
}

// Emobility describes the battery and charging state.
type Emobility struct {
	BatteryChargeStatus BatteryChargeStatus `json:"batteryChargeStatus"`
	ChargingStatus      string              `json:"chargingStatus"`
}

type BatteryChargeStatus struct {
	ChargingState             string `json:"chargingState"`
	PlugState                 string `json:"plugState"`
	StateOfChargeInPercentage int    `json:"stateOfChargeInPercentage"`

	RemainingChargeTimeUntil100PercentInMinutes *int `json:"remainingChargeTimeUntil100PercentInMinutes,omitempty"`
}

func (e *Emobility) IsCharging() bool {
	return e.BatteryChargeStatus.ChargingState == "CHARGING"
}

// Position is the last known GPS location of the vehicle.
type Position struct {
	CarCoordinate Coordinate `json:"carCoordinate"`
	Heading       float64    `json:"heading"`
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Summary holds the vehicle nickname shown in list views.
type Summary struct {
	ModelDescription string  `json:"modelDescription"`
	NickName         *string `json:"nickName"`
}

// LockUnlockLastActions reports the door state left behind by the most recent remote lock or
// unlock command.
type LockUnlockLastActions struct {
	VIN   string `json:"vin"`
	Doors Doors  `json:"doors"`
}

// RemoteCommandAccepted acknowledges an asynchronous lock/unlock/flash command. Completion must be
// polled with [Client.CommandStatus].
type RemoteCommandAccepted struct {
	RequestID   string `json:"requestId"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// RemoteCommandStatus reports the progress of an accepted command.
type RemoteCommandStatus struct {
	Status string `json:"status"`
}

// Remote command status values.
const (
	CommandInProgress = "IN_PROGRESS"
	CommandSuccess    = "SUCCESS"
	CommandFailure    = "FAILURE"
)
