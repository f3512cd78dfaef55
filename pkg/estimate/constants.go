package estimate

// Physical constants and assumed nominal efficiencies for the
// characteristic equation at full load.
const (
	Gravity      = 9.81   // m/s²
	WaterDensity = 1000.0 // kg/m³

	// Assumed nominal efficiencies, used only when solving the
	// characteristic equation for a missing parameter. The turbine
	// full-load efficiency is the same for all turbine types.
	AssumedGeneratorEff = 0.95
	AssumedTurbineEff   = 0.9

	// History window for the mean annual profile.
	historyWindowYears = 10

	// The 0.05 quantile of the mean annual profile is the flow reached
	// or exceeded ~347 days per year.
	lowFlowQuantile = 0.05

	// Nominal flow is the flow exceeded 20% of the time.
	nominalFlowQuantile = 0.8
)

// ResidualFlowFromLowFlow maps the 347-day flow of the mean annual
// profile to the residual flow reserved from the turbines. Breakpoints
// and slopes follow the Swiss small-hydropower guideline (Bundesamt für
// Konjunkturfragen, 1995) and must be reproduced exactly, including the
// jumps at segment boundaries.
func ResidualFlowFromLowFlow(q float64) float64 {
	switch {
	case q <= 0.06:
		return 0.05
	case q <= 0.16:
		return 0.05 + (q-0.06)*0.8
	case q <= 0.5:
		return 0.130 + (q-0.16)*0.44
	case q <= 2.5:
		return 0.28 + (q-0.5)*0.31
	case q <= 10:
		return 0.9 + (q-2.5)*0.213
	case q <= 60:
		return 2.5 + (q-10)*0.15
	default:
		return 10
	}
}

// GeneratorEffFromPower returns the nominal generator efficiency as a
// fraction, from the same guideline's schedule over nominal power in W.
func GeneratorEffFromPower(nominalPower float64) float64 {
	var pct float64
	kw := nominalPower / 1000
	switch {
	case nominalPower < 1000:
		pct = 80
	case nominalPower < 5000:
		pct = 80 + (kw-1)*1.25
	case nominalPower < 20000:
		pct = 85 + (kw-5)*5/15
	case nominalPower < 100000:
		pct = 90 + (kw-20)*0.0625
	default:
		pct = 95
	}
	return pct / 100
}

// NominalPowerAt solves the characteristic equation for nominal power:
// P_n = h_n · dV_n · g · ρ · eta_g_n · eta_t_n.
func NominalPowerAt(head, flow float64) float64 {
	return head * flow * Gravity * WaterDensity * AssumedGeneratorEff * AssumedTurbineEff
}

// NominalHeadAt solves the characteristic equation for nominal head.
func NominalHeadAt(power, flow float64) float64 {
	return power / (flow * Gravity * WaterDensity * AssumedGeneratorEff * AssumedTurbineEff)
}
