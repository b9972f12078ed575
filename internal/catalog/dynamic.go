package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/willibrandon/eventarb/internal/alerts"
	"github.com/willibrandon/eventarb/internal/telemetry"
)

// MinSpeedFilter is the speed calibration needs before it progresses, in m/s.
const MinSpeedFilter = 15 * alerts.MPHToMS

// Options parameterize the default catalog.
type Options struct {
	// Branch is the software branch shown by the startupMaster alert.
	Branch string

	// Replay replaces the branch with "replay" when running from a log.
	Replay bool
}

// softDisable ignores the remaining soft-disable time and always warns softly.
func softDisable(text2 string) alerts.Factory {
	return alerts.Dynamic(func(alerts.VehicleParams, alerts.Telemetry, bool, int) alerts.Alert {
		return alerts.SoftDisable(text2)
	})
}

func userSoftDisable(text2 string) alerts.Factory {
	return alerts.Dynamic(func(alerts.VehicleParams, alerts.Telemetry, bool, int) alerts.Alert {
		return alerts.UserSoftDisable(text2)
	})
}

func startupMaster(opts Options) alerts.Factory {
	branch := opts.Branch
	if opts.Replay {
		branch = "replay"
	}
	return alerts.Dynamic(func(alerts.VehicleParams, alerts.Telemetry, bool, int) alerts.Alert {
		return alerts.Startup("WARNING: This branch is not tested", branch, alerts.StatusUserPrompt)
	})
}

func belowEngageSpeed(p alerts.VehicleParams, _ alerts.Telemetry, metric bool, _ int) alerts.Alert {
	return alerts.NoEntry("Speed Below "+alerts.DisplaySpeed(p.MinEnableSpeed, metric), alerts.VisualNone)
}

func belowSteerSpeed(p alerts.VehicleParams, _ alerts.Telemetry, metric bool, _ int) alerts.Alert {
	return alerts.New(
		"Steer Unavailable Below "+alerts.DisplaySpeed(p.MinSteerSpeed, metric), "",
		alerts.StatusUserPrompt, alerts.SizeSmall,
		alerts.PriorityMid, alerts.VisualSteerRequired, alerts.AudiblePrompt, .4)
}

func calibrationIncomplete(_ alerts.VehicleParams, tel alerts.Telemetry, metric bool, _ int) alerts.Alert {
	perc := scalar(tel, telemetry.CalibrationPercent)
	return alerts.New(
		fmt.Sprintf("Calibration in Progress: %d%%", int(perc)),
		"Drive Above "+alerts.DisplaySpeed(MinSpeedFilter, metric),
		alerts.StatusNormal, alerts.SizeMid,
		alerts.PriorityLowest, alerts.VisualNone, alerts.AudibleNone, .2)
}

func noGPS(_ alerts.VehicleParams, tel alerts.Telemetry, _ bool, _ int) alerts.Alert {
	text2 := "Check GPS antenna placement"
	if scalar(tel, telemetry.GPSIntegrated) != 0 {
		text2 = "If sky is visible, contact support"
	}
	return alerts.New("Poor GPS reception", text2,
		alerts.StatusNormal, alerts.SizeMid,
		alerts.PriorityLower, alerts.VisualNone, alerts.AudibleNone, .2,
		alerts.WithCreationDelay(300.))
}

func wrongCarMode(p alerts.VehicleParams, _ alerts.Telemetry, _ bool, _ int) alerts.Alert {
	text := "Cruise Mode Disabled"
	if p.CarName == "honda" {
		text = "Main Switch Off"
	}
	return alerts.NoEntry(text, alerts.VisualNone)
}

func joystick(_ alerts.VehicleParams, tel alerts.Telemetry, _ bool, _ int) alerts.Alert {
	var gas, steer float64
	if tel != nil {
		if axes := tel.Series(telemetry.JoystickAxes); len(axes) >= 2 {
			gas, steer = axes[0], axes[1]
		}
	}
	vals := fmt.Sprintf("Gas: %d%%, Steer: %d%%",
		int(math.RoundToEven(gas*100.)), int(math.RoundToEven(steer*100.)))
	return alerts.NormalPermanent("Joystick Mode", vals)
}

func autoLaneChange(_ alerts.VehicleParams, tel alerts.Telemetry, _ bool, _ int) alerts.Alert {
	timer := scalar(tel, telemetry.AutoLaneChangeTimer)
	return alerts.New(
		fmt.Sprintf("Auto Lane Change starts in (%d)", int(timer)),
		"Monitor Other Vehicles",
		alerts.StatusNormal, alerts.SizeMid,
		alerts.PriorityLower, alerts.VisualSteerRequired, alerts.AudibleNone, .1,
		alerts.WithRate(0.75))
}

func scalar(tel alerts.Telemetry, channel string) float64 {
	if tel == nil {
		return 0
	}
	v, _ := tel.Get(channel)
	return v
}

// Factories returns the named dynamic factories a registry file may reference.
func Factories(opts Options) map[string]alerts.Factory {
	return map[string]alerts.Factory{
		"startupMaster":         startupMaster(opts),
		"belowEngageSpeed":      alerts.Dynamic(belowEngageSpeed),
		"belowSteerSpeed":       alerts.Dynamic(belowSteerSpeed),
		"calibrationIncomplete": alerts.Dynamic(calibrationIncomplete),
		"noGps":                 alerts.Dynamic(noGPS),
		"wrongCarMode":          alerts.Dynamic(wrongCarMode),
		"joystick":              alerts.Dynamic(joystick),
		"autoLaneChange":        alerts.Dynamic(autoLaneChange),
	}
}

// FactoryNames returns the sorted names accepted by Factories.
func FactoryNames() []string {
	m := Factories(Options{})
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
