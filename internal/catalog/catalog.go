// Package catalog defines the default event catalog: every known event id,
// its wire name, and the alert factories it maps under each event type.
package catalog

import (
	"github.com/willibrandon/eventarb/internal/alerts"
	"github.com/willibrandon/eventarb/internal/events"
)

type tagged = map[events.EventType]alerts.Factory

func constant(a alerts.Alert) alerts.Factory { return alerts.Constant(a) }

func noEntry(text2 string) alerts.Factory {
	return constant(alerts.NoEntry(text2, alerts.VisualNone))
}

func permanent(text1, text2 string) alerts.Factory {
	return constant(alerts.NormalPermanent(text1, text2))
}

func immediateDisable(text2 string) alerts.Factory {
	return constant(alerts.ImmediateDisable(text2))
}

func engage() alerts.Factory    { return constant(alerts.Engagement(alerts.AudibleEngage)) }
func disengage() alerts.Factory { return constant(alerts.Engagement(alerts.AudibleDisengage)) }

func cameraError() alerts.Factory {
	return constant(alerts.NormalPermanentWith("Camera Error", "", alerts.PermanentOptions{
		Duration:      1.,
		Priority:      alerts.PriorityLower,
		CreationDelay: 30.,
	}))
}

// Name returns the wire name of a default catalog id, or "" if id is outside
// the default catalog.
func Name(id events.EventID) string {
	if id < 0 || int(id) >= len(names) {
		return ""
	}
	return names[id]
}

// Len returns the number of events in the default catalog.
func Len() int {
	return len(names)
}

// Default builds the registry of the default catalog.
func Default(opts Options) (*events.Registry, error) {
	return events.NewRegistry(defaultEntries(opts))
}

// MustDefault is Default for callers that treat a broken built-in table as fatal.
func MustDefault(opts Options) *events.Registry {
	reg, err := Default(opts)
	if err != nil {
		panic(err)
	}
	return reg
}

func defaultEntries(opts Options) []events.Entry {
	table := defaultTable(opts)
	entries := make([]events.Entry, len(names))
	for i, name := range names {
		id := events.EventID(i)
		entries[i] = events.Entry{ID: id, Name: name, Alerts: table[id]}
	}
	return entries
}

func defaultTable(opts Options) map[events.EventID]tagged {
	return map[events.EventID]tagged{
		// Events with no alerts.
		StockFCW: {},

		// Alerts displayed in all states.
		JoystickDebug: {
			events.Warning:   alerts.Dynamic(joystick),
			events.Permanent: permanent("Joystick Mode", ""),
		},
		ControlsInitializing: {
			events.NoEntry: noEntry("System Initializing"),
		},
		Startup: {
			events.Permanent: constant(alerts.Startup("Be ready to take over at any time", alerts.DefaultStartupText2, alerts.StatusNormal)),
		},
		StartupMaster: {
			events.Permanent: startupMaster(opts),
		},
		// Car is recognized, but marked as dashcam only.
		StartupNoControl: {
			events.Permanent: constant(alerts.Startup("Dashcam mode", alerts.DefaultStartupText2, alerts.StatusNormal)),
		},
		// Car is not recognized.
		StartupNoCar: {
			events.Permanent: constant(alerts.Startup("Dashcam mode for unsupported car", alerts.DefaultStartupText2, alerts.StatusNormal)),
		},
		StartupNoFW: {
			events.Permanent: constant(alerts.Startup("Car Unrecognized", "Check comma power connections", alerts.StatusUserPrompt)),
		},
		DashcamMode: {
			events.Permanent: constant(alerts.NormalPermanentWith("Dashcam Mode", "", alerts.PermanentOptions{
				Duration: .2, Priority: alerts.PriorityLowest,
			})),
		},
		InvalidLKASSetting: {
			events.Permanent: permanent("Stock LKAS is turned on", "Turn off stock LKAS to engage"),
		},
		CruiseMismatch: {},
		CarUnrecognized: {
			events.Permanent: constant(alerts.NormalPermanentWith("Dashcam Mode", "Car Unrecognized", alerts.PermanentOptions{
				Duration: .2, Priority: alerts.PriorityLowest,
			})),
		},
		StockAEB: {
			events.Permanent: constant(alerts.New("BRAKE!", "Stock AEB: Risk of Collision",
				alerts.StatusCritical, alerts.SizeFull,
				alerts.PriorityHighest, alerts.VisualFCW, alerts.AudibleNone, 2.)),
			events.NoEntry: noEntry("Stock AEB: Risk of Collision"),
		},
		FCW: {
			events.Permanent: constant(alerts.New("BRAKE!", "Risk of Collision",
				alerts.StatusCritical, alerts.SizeFull,
				alerts.PriorityHighest, alerts.VisualFCW, alerts.AudibleWarningSoft, 2.)),
		},
		LDW: {
			events.Permanent: constant(alerts.New("Lane Departure Detected", "",
				alerts.StatusUserPrompt, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualLDW, alerts.AudiblePrompt, 3.)),
		},

		// Alerts that display while engaged.
		GasPressed: {
			events.PreEnable: constant(alerts.New("Release Gas Pedal to Engage", "",
				alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityLowest, alerts.VisualNone, alerts.AudibleNone, .1,
				alerts.WithCreationDelay(1.))),
		},
		VehicleModelInvalid: {
			events.NoEntry:     noEntry("Vehicle Parameter Identification Failed"),
			events.SoftDisable: softDisable("Vehicle Parameter Identification Failed"),
		},
		SteerTempUnavailableSilent: {
			events.Warning: constant(alerts.New("Steering Temporarily Unavailable", "",
				alerts.StatusUserPrompt, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualSteerRequired, alerts.AudiblePrompt, 1.)),
		},
		PreDriverDistracted: {
			events.Warning: constant(alerts.New("Pay Attention", "",
				alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, .1)),
		},
		PromptDriverDistracted: {
			events.Warning: constant(alerts.New("Pay Attention", "Driver Distracted",
				alerts.StatusUserPrompt, alerts.SizeMid,
				alerts.PriorityMid, alerts.VisualSteerRequired, alerts.AudiblePromptDistracted, .1)),
		},
		DriverDistracted: {
			events.Warning: constant(alerts.New("DISENGAGE IMMEDIATELY", "Driver Distracted",
				alerts.StatusCritical, alerts.SizeFull,
				alerts.PriorityHigh, alerts.VisualSteerRequired, alerts.AudibleWarningImmediate, .1)),
		},
		PreDriverUnresponsive: {
			events.Warning: constant(alerts.New("Touch Steering Wheel: No Face Detected", "",
				alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualSteerRequired, alerts.AudibleNone, .1,
				alerts.WithRate(0.75))),
		},
		PromptDriverUnresponsive: {
			events.Warning: constant(alerts.New("Touch Steering Wheel", "Driver Unresponsive",
				alerts.StatusUserPrompt, alerts.SizeMid,
				alerts.PriorityMid, alerts.VisualSteerRequired, alerts.AudiblePromptDistracted, .1)),
		},
		DriverUnresponsive: {
			events.Warning: constant(alerts.New("DISENGAGE IMMEDIATELY", "Driver Unresponsive",
				alerts.StatusCritical, alerts.SizeFull,
				alerts.PriorityHigh, alerts.VisualSteerRequired, alerts.AudibleWarningImmediate, .1)),
		},
		ManualRestart: {
			events.Warning: constant(alerts.New("TAKE CONTROL", "Resume Driving Manually",
				alerts.StatusUserPrompt, alerts.SizeMid,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, .2)),
		},
		ResumeRequired: {
			events.Warning: constant(alerts.New("STOPPED", "Press Resume to Go",
				alerts.StatusUserPrompt, alerts.SizeMid,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, .2)),
		},
		BelowSteerSpeed: {
			events.Warning: alerts.Dynamic(belowSteerSpeed),
		},
		PreLaneChangeLeft: {
			events.Warning: constant(alerts.New("Steer Left to Start Lane Change Once Safe", "",
				alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, .1,
				alerts.WithRate(0.75))),
		},
		PreLaneChangeRight: {
			events.Warning: constant(alerts.New("Steer Right to Start Lane Change Once Safe", "",
				alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, .1,
				alerts.WithRate(0.75))),
		},
		LaneChangeBlocked: {
			events.Warning: constant(alerts.New("Car Detected in Blindspot", "",
				alerts.StatusUserPrompt, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudiblePrompt, .1)),
		},
		LaneChange: {
			events.Warning: constant(alerts.New("Changing Lanes", "",
				alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, .1)),
		},
		SteerSaturated: {
			events.Warning: constant(alerts.New("TAKE CONTROL", "Turn Exceeds Steering Limit",
				alerts.StatusUserPrompt, alerts.SizeMid,
				alerts.PriorityLow, alerts.VisualSteerRequired, alerts.AudiblePromptRepeat, 1.)),
		},
		// Fan is driven above 50% but not rotating.
		FanMalfunction: {
			events.Permanent: permanent("Fan Malfunction", "Contact Support"),
		},
		// Camera is not producing frames at a constant rate.
		CameraMalfunction: {
			events.Permanent: permanent("Camera Malfunction", "Contact Support"),
		},
		GPSMalfunction: {
			events.Permanent: permanent("GPS Malfunction", "Contact Support"),
		},
		LocalizerMalfunction: {},

		// Events that affect control state transitions.
		PCMEnable: {
			events.Enable: engage(),
		},
		ButtonEnable: {
			events.Enable: engage(),
		},
		PCMDisable: {
			events.UserDisable: disengage(),
		},
		ButtonCancel: {
			events.UserDisable: disengage(),
		},
		BrakeHold: {
			events.UserDisable: disengage(),
			events.NoEntry:     noEntry("Brake Hold Active"),
		},
		ParkBrake: {
			events.UserDisable: disengage(),
			events.NoEntry:     noEntry("Parking Brake Engaged"),
		},
		PedalPressed: {
			events.UserDisable: disengage(),
			events.NoEntry:     constant(alerts.NoEntry("Pedal Pressed", alerts.VisualBrakePressed)),
		},
		WrongCarMode: {
			events.UserDisable: disengage(),
			events.NoEntry:     alerts.Dynamic(wrongCarMode),
		},
		WrongCruiseMode: {
			events.UserDisable: disengage(),
			events.NoEntry:     noEntry("Adaptive Cruise Disabled"),
		},
		SteerTempUnavailable: {
			events.SoftDisable: softDisable("Steering Temporarily Unavailable"),
			events.NoEntry:     noEntry("Steering Temporarily Unavailable"),
		},
		OutOfSpace: {
			events.Permanent: permanent("Out of Storage", ""),
			events.NoEntry:   noEntry("Out of Storage"),
		},
		BelowEngageSpeed: {
			events.NoEntry: alerts.Dynamic(belowEngageSpeed),
		},
		SensorDataInvalid: {
			events.Permanent: constant(alerts.New("No Data from Device Sensors", "Reboot your Device",
				alerts.StatusNormal, alerts.SizeMid,
				alerts.PriorityLower, alerts.VisualNone, alerts.AudibleNone, .2,
				alerts.WithCreationDelay(1.))),
			events.NoEntry: noEntry("No Data from Device Sensors"),
		},
		NoGPS: {
			events.Permanent: alerts.Dynamic(noGPS),
		},
		SoundsUnavailable: {
			events.Permanent: permanent("Speaker not found", "Reboot your Device"),
			events.NoEntry:   noEntry("Speaker not found"),
		},
		TooDistracted: {
			events.NoEntry: noEntry("Distraction Level Too High"),
		},
		Overheat: {
			events.Permanent:   permanent("System Overheated", ""),
			events.SoftDisable: softDisable("System Overheated"),
			events.NoEntry:     noEntry("System Overheated"),
		},
		WrongGear: {
			events.SoftDisable: userSoftDisable("Gear not D"),
			events.NoEntry:     noEntry("Gear not D"),
		},
		// Calibration angles are outside the acceptable range, usually because
		// the device is not pointed straight ahead.
		CalibrationInvalid: {
			events.Permanent:   permanent("Calibration Invalid", "Remount Device and Recalibrate"),
			events.SoftDisable: softDisable("Calibration Invalid: Remount Device & Recalibrate"),
			events.NoEntry:     noEntry("Calibration Invalid: Remount Device & Recalibrate"),
		},
		CalibrationIncomplete: {
			events.Permanent:   alerts.Dynamic(calibrationIncomplete),
			events.SoftDisable: softDisable("Calibration in Progress"),
			events.NoEntry:     noEntry("Calibration in Progress"),
		},
		DoorOpen: {
			events.SoftDisable: userSoftDisable("Door Open"),
			events.NoEntry:     noEntry("Door Open"),
		},
		SeatbeltNotLatched: {
			events.SoftDisable: userSoftDisable("Seatbelt Unlatched"),
			events.NoEntry:     noEntry("Seatbelt Unlatched"),
		},
		ESPDisabled: {
			events.SoftDisable: softDisable("ESP Off"),
			events.NoEntry:     noEntry("ESP Off"),
		},
		LowBattery: {
			events.SoftDisable: softDisable("Low Battery"),
			events.NoEntry:     noEntry("Low Battery"),
		},
		// A service missed its broadcast schedule.
		CommIssue: {
			events.SoftDisable: softDisable("Communication Issue between Processes"),
			events.NoEntry:     noEntry("Communication Issue between Processes"),
		},
		ProcessNotRunning: {
			events.NoEntry: noEntry("System Malfunction: Reboot Your Device"),
		},
		RadarFault: {
			events.SoftDisable: softDisable("Radar Error: Restart the Car"),
			events.NoEntry:     noEntry("Radar Error: Restart the Car"),
		},
		// Over 20% of camera frames dropped by the driving model.
		ModeldLagging: {
			events.SoftDisable: softDisable("Driving model lagging"),
			events.NoEntry:     noEntry("Driving model lagging"),
		},
		PosenetInvalid: {
			events.SoftDisable: softDisable("Model Output Uncertain"),
			events.NoEntry:     noEntry("Model Output Uncertain"),
		},
		// Acceleration above 40 m/s^2.
		DeviceFalling: {
			events.SoftDisable: softDisable("Device Fell Off Mount"),
			events.NoEntry:     noEntry("Device Fell Off Mount"),
		},
		LowMemory: {
			events.SoftDisable: softDisable("Low Memory: Reboot Your Device"),
			events.Permanent:   permanent("Low Memory", "Reboot your Device"),
			events.NoEntry:     noEntry("Low Memory: Reboot Your Device"),
		},
		HighCPUUsage: {
			events.NoEntry: noEntry("System Malfunction: Reboot Your Device"),
		},
		ACCFaulted: {
			events.ImmediateDisable: immediateDisable("Cruise Faulted"),
			events.Permanent:        permanent("Cruise Faulted", ""),
			events.NoEntry:          noEntry("Cruise Faulted"),
		},
		ControlsMismatch: {
			events.ImmediateDisable: immediateDisable("Controls Mismatch"),
		},
		RoadCameraError: {
			events.Permanent: cameraError(),
		},
		DriverCameraError: {
			events.Permanent: cameraError(),
		},
		WideRoadCameraError: {
			events.Permanent: cameraError(),
		},
		USBError: {
			events.SoftDisable: softDisable("USB Error: Reboot Your Device"),
			events.Permanent:   permanent("USB Error: Reboot Your Device", ""),
			events.NoEntry:     noEntry("USB Error: Reboot Your Device"),
		},
		// No CAN data at all, or some messages arrive at the wrong frequency.
		CANError: {
			events.ImmediateDisable: immediateDisable("CAN Error: Check Connections"),
			events.Permanent: constant(alerts.New("CAN Error: Check Connections", "",
				alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, 1.,
				alerts.WithCreationDelay(1.))),
			events.NoEntry: noEntry("CAN Error: Check Connections"),
		},
		SteerUnavailable: {
			events.ImmediateDisable: immediateDisable("LKAS Fault: Restart the Car"),
			events.Permanent:        permanent("LKAS Fault: Restart the car to engage", ""),
			events.NoEntry:          noEntry("LKAS Fault: Restart the Car"),
		},
		BrakeUnavailable: {
			events.ImmediateDisable: immediateDisable("Cruise Fault: Restart the Car"),
			events.Permanent:        permanent("Cruise Fault: Restart the car to engage", ""),
			events.NoEntry:          noEntry("Cruise Fault: Restart the Car"),
		},
		ReverseGear: {
			events.Permanent: constant(alerts.New("Reverse Gear", "",
				alerts.StatusNormal, alerts.SizeFull,
				alerts.PriorityLowest, alerts.VisualNone, alerts.AudibleNone, .2,
				alerts.WithCreationDelay(0.5))),
			events.SoftDisable: constant(alerts.SoftDisable("Reverse Gear")),
			events.NoEntry:     noEntry("Reverse Gear"),
		},
		// Stock ACC cancelled on its own.
		CruiseDisabled: {
			events.ImmediateDisable: immediateDisable("Cruise Is Off"),
		},
		// The trajectory optimizer found no feasible solution.
		PlannerError: {
			events.SoftDisable: constant(alerts.SoftDisable("Planner Solution Error")),
			events.NoEntry:     noEntry("Planner Solution Error"),
		},
		// LKAS camera messages seen on the car side of an open relay.
		RelayMalfunction: {
			events.ImmediateDisable: immediateDisable("Harness Malfunction"),
			events.Permanent:        permanent("Harness Malfunction", "Check Hardware"),
			events.NoEntry:          noEntry("Harness Malfunction"),
		},
		NoTarget: {
			events.ImmediateDisable: constant(alerts.New("openpilot Canceled", "No close lead car",
				alerts.StatusNormal, alerts.SizeMid,
				alerts.PriorityHigh, alerts.VisualNone, alerts.AudibleDisengage, 3.)),
			events.NoEntry: noEntry("No Close Lead Car"),
		},
		SpeedTooLow: {
			events.ImmediateDisable: constant(alerts.New("openpilot Canceled", "Speed too low",
				alerts.StatusNormal, alerts.SizeMid,
				alerts.PriorityHigh, alerts.VisualNone, alerts.AudibleDisengage, 3.)),
		},
		SpeedTooHigh: {
			events.Warning: constant(alerts.New("Speed Too High", "Model uncertain at this speed",
				alerts.StatusUserPrompt, alerts.SizeMid,
				alerts.PriorityHigh, alerts.VisualSteerRequired, alerts.AudiblePromptRepeat, 4.)),
			events.NoEntry: noEntry("Slow down to engage"),
		},
		LowSpeedLockout: {
			events.Permanent: permanent("Cruise Fault: Restart the car to engage", ""),
			events.NoEntry:   noEntry("Cruise Fault: Restart the Car"),
		},
		LKASDisabled: {
			events.Permanent: permanent("LKAS Disabled: Enable LKAS to engage", ""),
			events.NoEntry:   noEntry("LKAS Disabled"),
		},
		TurningIndicatorOn: {
			events.Warning: constant(alerts.New("TAKE CONTROL", "Steer Unavailable while Turning",
				alerts.StatusUserPrompt, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, .2)),
		},
		AutoLaneChange: {
			events.Warning: alerts.Dynamic(autoLaneChange),
		},
		SlowingDownSpeed: {
			events.Permanent: constant(alerts.New("Slowing Down", "",
				alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityMid, alerts.VisualNone, alerts.AudibleNone, .1)),
		},
		SlowingDownSpeedSound: {
			events.Permanent: constant(alerts.New("Slowing Down", "",
				alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityHigh, alerts.VisualNone, alerts.AudibleSlowingDownSpeed, 2.)),
		},
	}
}
