// Package physics provides the psychrometric derivations used to build
// hourly pair records: dewpoint, saturation vapor pressure, vapor pressure
// deficit and absolute humidity.
package physics

import (
	"math"
)

// DewpointC computes the dewpoint in degrees Celsius from air temperature
// and relative humidity using the Magnus formula, with coefficients switched
// at 0 degrees (over water vs over ice). RH is clamped to [1e-6, 100] so a
// zero reading cannot produce -Inf.
func DewpointC(tempC, rhPct float64) float64 {
	b, c := 17.625, 243.04
	if tempC < 0 {
		b, c = 22.46, 272.62
	}
	rh := math.Min(math.Max(rhPct, 1e-6), 100) / 100.0
	gamma := math.Log(rh) + (b*tempC)/(c+tempC)
	return (c * gamma) / (b - gamma)
}

// SVPkPa computes saturation vapor pressure in kPa, piecewise over liquid
// water (T >= 0) and ice (T < 0).
func SVPkPa(tempC float64) float64 {
	if tempC >= 0 {
		return 0.6108 * math.Exp(17.27*tempC/(tempC+237.3))
	}
	return 0.6108 * math.Exp(21.87*tempC/(tempC+265.5))
}

// VPDkPa computes vapor pressure deficit in kPa.
func VPDkPa(tempC, rhPct float64) float64 {
	return SVPkPa(tempC) * (1 - rhPct/100.0)
}

// AbsHumidityGM3 computes absolute humidity in g/m3 from the actual vapor
// pressure via the ideal gas law; 2.16679 is 1000 divided by the specific
// gas constant of water vapor (461.5 J/(kg*K)).
func AbsHumidityGM3(tempC, rhPct float64) float64 {
	svpPa := SVPkPa(tempC) * 1000.0
	rh := math.Min(math.Max(rhPct, 0), 100) / 100.0
	vaporPa := rh * svpPa
	return 2.16679 * vaporPa / (tempC + 273.15)
}
