package alerts

// Telemetry is a read-only view of live telemetry, queried by named channel.
type Telemetry interface {
	// Get returns the scalar value of a channel.
	// Returns 0, false if the channel is unavailable.
	Get(channel string) (float64, bool)

	// Series returns the values of a vector channel, or nil if unavailable.
	Series(channel string) []float64
}

// VehicleParams is the read-only vehicle description handed to dynamic factories.
type VehicleParams struct {
	CarName        string  `json:"car_name" yaml:"car_name"`
	MinEnableSpeed float64 `json:"min_enable_speed" yaml:"min_enable_speed"`
	MinSteerSpeed  float64 `json:"min_steer_speed" yaml:"min_steer_speed"`
}

// Context is everything a dynamic factory may read. Telemetry may be nil.
type Context struct {
	Params            VehicleParams
	Telemetry         Telemetry
	Metric            bool
	SoftDisableCycles int
}

// DynamicFunc derives an alert from runtime context. It must be deterministic
// and must not fail; degenerate input yields a default-valued alert.
type DynamicFunc func(params VehicleParams, tel Telemetry, metric bool, softDisableCycles int) Alert

type factoryKind uint8

const (
	kindConstant factoryKind = iota
	kindDynamic
)

// Factory produces an Alert for a given context. It is either a constant
// alert or a dynamic function; the zero value is a constant zero Alert.
type Factory struct {
	kind     factoryKind
	constant Alert
	dynamic  DynamicFunc
}

// Constant wraps a fully formed alert.
func Constant(a Alert) Factory {
	return Factory{kind: kindConstant, constant: a}
}

// Dynamic wraps a function evaluated at resolution time.
func Dynamic(fn DynamicFunc) Factory {
	return Factory{kind: kindDynamic, dynamic: fn}
}

// IsDynamic returns true if the factory evaluates a function.
func (f Factory) IsDynamic() bool {
	return f.kind == kindDynamic
}

// Resolve produces the alert for ctx.
func (f Factory) Resolve(ctx Context) Alert {
	switch f.kind {
	case kindDynamic:
		return f.dynamic(ctx.Params, ctx.Telemetry, ctx.Metric, ctx.SoftDisableCycles)
	default:
		return f.constant
	}
}
