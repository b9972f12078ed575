package alerts

import (
	"fmt"
	"math"
)

// Unit conversion factors from metres per second.
const (
	MSToKPH = 3.6
	MSToMPH = 1 / 0.44704
	MPHToMS = 0.44704
)

// DisplaySpeed formats a speed in m/s for alert text using the given unit system.
func DisplaySpeed(speedMS float64, metric bool) string {
	if metric {
		return fmt.Sprintf("%d km/h", int(math.RoundToEven(speedMS*MSToKPH)))
	}
	return fmt.Sprintf("%d mph", int(math.RoundToEven(speedMS*MSToMPH)))
}
