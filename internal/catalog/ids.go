package catalog

import "github.com/willibrandon/eventarb/internal/events"

// Event ids of the default catalog. They are dense and stable; the wire
// format carries these values.
const (
	StockFCW events.EventID = iota
	JoystickDebug
	ControlsInitializing
	Startup
	StartupMaster
	StartupNoControl
	StartupNoCar
	StartupNoFW
	DashcamMode
	InvalidLKASSetting
	CruiseMismatch
	CarUnrecognized
	StockAEB
	FCW
	LDW
	GasPressed
	VehicleModelInvalid
	SteerTempUnavailableSilent
	PreDriverDistracted
	PromptDriverDistracted
	DriverDistracted
	PreDriverUnresponsive
	PromptDriverUnresponsive
	DriverUnresponsive
	ManualRestart
	ResumeRequired
	BelowSteerSpeed
	PreLaneChangeLeft
	PreLaneChangeRight
	LaneChangeBlocked
	LaneChange
	SteerSaturated
	FanMalfunction
	CameraMalfunction
	GPSMalfunction
	LocalizerMalfunction
	PCMEnable
	ButtonEnable
	PCMDisable
	ButtonCancel
	BrakeHold
	ParkBrake
	PedalPressed
	WrongCarMode
	WrongCruiseMode
	SteerTempUnavailable
	OutOfSpace
	BelowEngageSpeed
	SensorDataInvalid
	NoGPS
	SoundsUnavailable
	TooDistracted
	Overheat
	WrongGear
	CalibrationInvalid
	CalibrationIncomplete
	DoorOpen
	SeatbeltNotLatched
	ESPDisabled
	LowBattery
	CommIssue
	ProcessNotRunning
	RadarFault
	ModeldLagging
	PosenetInvalid
	DeviceFalling
	LowMemory
	HighCPUUsage
	ACCFaulted
	ControlsMismatch
	RoadCameraError
	DriverCameraError
	WideRoadCameraError
	USBError
	CANError
	SteerUnavailable
	BrakeUnavailable
	ReverseGear
	CruiseDisabled
	PlannerError
	RelayMalfunction
	NoTarget
	SpeedTooLow
	SpeedTooHigh
	LowSpeedLockout
	LKASDisabled
	TurningIndicatorOn
	AutoLaneChange
	SlowingDownSpeed
	SlowingDownSpeedSound
)

// names maps each default id to its wire name.
var names = [...]string{
	StockFCW:                   "stockFcw",
	JoystickDebug:              "joystickDebug",
	ControlsInitializing:       "controlsInitializing",
	Startup:                    "startup",
	StartupMaster:              "startupMaster",
	StartupNoControl:           "startupNoControl",
	StartupNoCar:               "startupNoCar",
	StartupNoFW:                "startupNoFw",
	DashcamMode:                "dashcamMode",
	InvalidLKASSetting:         "invalidLkasSetting",
	CruiseMismatch:             "cruiseMismatch",
	CarUnrecognized:            "carUnrecognized",
	StockAEB:                   "stockAeb",
	FCW:                        "fcw",
	LDW:                        "ldw",
	GasPressed:                 "gasPressed",
	VehicleModelInvalid:        "vehicleModelInvalid",
	SteerTempUnavailableSilent: "steerTempUnavailableSilent",
	PreDriverDistracted:        "preDriverDistracted",
	PromptDriverDistracted:     "promptDriverDistracted",
	DriverDistracted:           "driverDistracted",
	PreDriverUnresponsive:      "preDriverUnresponsive",
	PromptDriverUnresponsive:   "promptDriverUnresponsive",
	DriverUnresponsive:         "driverUnresponsive",
	ManualRestart:              "manualRestart",
	ResumeRequired:             "resumeRequired",
	BelowSteerSpeed:            "belowSteerSpeed",
	PreLaneChangeLeft:          "preLaneChangeLeft",
	PreLaneChangeRight:         "preLaneChangeRight",
	LaneChangeBlocked:          "laneChangeBlocked",
	LaneChange:                 "laneChange",
	SteerSaturated:             "steerSaturated",
	FanMalfunction:             "fanMalfunction",
	CameraMalfunction:          "cameraMalfunction",
	GPSMalfunction:             "gpsMalfunction",
	LocalizerMalfunction:       "localizerMalfunction",
	PCMEnable:                  "pcmEnable",
	ButtonEnable:               "buttonEnable",
	PCMDisable:                 "pcmDisable",
	ButtonCancel:               "buttonCancel",
	BrakeHold:                  "brakeHold",
	ParkBrake:                  "parkBrake",
	PedalPressed:               "pedalPressed",
	WrongCarMode:               "wrongCarMode",
	WrongCruiseMode:            "wrongCruiseMode",
	SteerTempUnavailable:       "steerTempUnavailable",
	OutOfSpace:                 "outOfSpace",
	BelowEngageSpeed:           "belowEngageSpeed",
	SensorDataInvalid:          "sensorDataInvalid",
	NoGPS:                      "noGps",
	SoundsUnavailable:          "soundsUnavailable",
	TooDistracted:              "tooDistracted",
	Overheat:                   "overheat",
	WrongGear:                  "wrongGear",
	CalibrationInvalid:         "calibrationInvalid",
	CalibrationIncomplete:      "calibrationIncomplete",
	DoorOpen:                   "doorOpen",
	SeatbeltNotLatched:         "seatbeltNotLatched",
	ESPDisabled:                "espDisabled",
	LowBattery:                 "lowBattery",
	CommIssue:                  "commIssue",
	ProcessNotRunning:          "processNotRunning",
	RadarFault:                 "radarFault",
	ModeldLagging:              "modeldLagging",
	PosenetInvalid:             "posenetInvalid",
	DeviceFalling:              "deviceFalling",
	LowMemory:                  "lowMemory",
	HighCPUUsage:               "highCpuUsage",
	ACCFaulted:                 "accFaulted",
	ControlsMismatch:           "controlsMismatch",
	RoadCameraError:            "roadCameraError",
	DriverCameraError:          "driverCameraError",
	WideRoadCameraError:        "wideRoadCameraError",
	USBError:                   "usbError",
	CANError:                   "canError",
	SteerUnavailable:           "steerUnavailable",
	BrakeUnavailable:           "brakeUnavailable",
	ReverseGear:                "reverseGear",
	CruiseDisabled:             "cruiseDisabled",
	PlannerError:               "plannerError",
	RelayMalfunction:           "relayMalfunction",
	NoTarget:                   "noTarget",
	SpeedTooLow:                "speedTooLow",
	SpeedTooHigh:               "speedTooHigh",
	LowSpeedLockout:            "lowSpeedLockout",
	LKASDisabled:               "lkasDisabled",
	TurningIndicatorOn:         "turningIndicatorOn",
	AutoLaneChange:             "autoLaneChange",
	SlowingDownSpeed:           "slowingDownSpeed",
	SlowingDownSpeedSound:      "slowingDownSpeedSound",
}
