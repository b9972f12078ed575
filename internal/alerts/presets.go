package alerts

// Preset builders pre-fill the fields shared by a family of alerts. They all
// return plain Alert values.

// NoEntry refuses engagement.
func NoEntry(text2 string, visual VisualAlert) Alert {
	return New("openpilot Unavailable", text2, StatusNormal, SizeMid,
		PriorityLow, visual, AudibleRefuse, 3.)
}

// SoftDisable asks the driver to take over before a controlled disengagement.
func SoftDisable(text2 string) Alert {
	return New("TAKE CONTROL IMMEDIATELY", text2, StatusUserPrompt, SizeFull,
		PriorityMid, VisualSteerRequired, AudibleWarningSoft, 2.)
}

// UserSoftDisable is the softer variant used when the driver caused the condition.
func UserSoftDisable(text2 string) Alert {
	a := SoftDisable(text2)
	a.Text1 = "openpilot will disengage"
	return a
}

// ImmediateDisable is shown when control is dropped at once.
func ImmediateDisable(text2 string) Alert {
	return New("TAKE CONTROL IMMEDIATELY", text2, StatusCritical, SizeFull,
		PriorityHighest, VisualSteerRequired, AudibleWarningImmediate, 4.)
}

// Engagement is a sound-only alert for engage and disengage transitions.
func Engagement(audible AudibleAlert) Alert {
	return New("", "", StatusNormal, SizeNone,
		PriorityMid, VisualNone, audible, .2)
}

// PermanentOptions overrides the defaults of NormalPermanent.
type PermanentOptions struct {
	Duration      float64
	Priority      Priority
	CreationDelay float64
}

// DefaultPermanentOptions returns 0.2s duration, PriorityLower and no delay.
func DefaultPermanentOptions() PermanentOptions {
	return PermanentOptions{Duration: .2, Priority: PriorityLower}
}

// NormalPermanent is a silent informational alert. Its size is mid when text2
// is non-empty and small otherwise.
func NormalPermanent(text1, text2 string) Alert {
	return NormalPermanentWith(text1, text2, DefaultPermanentOptions())
}

// NormalPermanentWith is NormalPermanent with explicit options.
func NormalPermanentWith(text1, text2 string, opts PermanentOptions) Alert {
	size := SizeSmall
	if text2 != "" {
		size = SizeMid
	}
	return New(text1, text2, StatusNormal, size, opts.Priority,
		VisualNone, AudibleNone, opts.Duration, WithCreationDelay(opts.CreationDelay))
}

// DefaultStartupText2 is the reminder shown under startup alerts.
const DefaultStartupText2 = "Always keep hands on wheel and eyes on road"

// Startup is shown once the control loop comes up.
func Startup(text1, text2 string, status Status) Alert {
	return New(text1, text2, status, SizeMid,
		PriorityLower, VisualNone, AudibleNone, 5.)
}
