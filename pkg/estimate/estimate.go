// Package estimate fills the missing parameters of a partially
// specified run-of-the-river plant from historical flow data and the
// turbine reference tables.
package estimate

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/runofriver/hydroflow/pkg/geo"
	"github.com/runofriver/hydroflow/pkg/plant"
	"github.com/runofriver/hydroflow/pkg/series"
	"github.com/runofriver/hydroflow/pkg/turbine"
)

// Logger receives estimation diagnostics: the dummy-type fallback
// warning and the resolved-parameter summary. Diagnostics never affect
// returned values.
var Logger = logrus.StandardLogger()

// DataInsufficientError reports that a plant spec cannot be estimated.
type DataInsufficientError struct {
	Plant string
}

func (e *DataInsufficientError) Error() string {
	return fmt.Sprintf("input data is not sufficient for plant %q: "+
		"need nominal head and power, or one of them plus nominal flow or flow history", e.Plant)
}

// CanEstimate reports whether the spec plus an optional flow history
// carry enough information to resolve every plant parameter. The
// characteristic equation needs two of {head, flow, power}; flow may be
// supplied directly or derived from history:
//
//	(h_n and P_n) or ((h_n or P_n) and (hist or dV_n))
func CanEstimate(s plant.Spec, histPresent bool) bool {
	headKnown := s.NominalHead != nil
	powerKnown := s.NominalPower != nil
	flowKnown := s.NominalFlow != nil
	return (headKnown && powerKnown) ||
		((headKnown || powerKnown) && (histPresent || flowKnown))
}

// Fill resolves every missing parameter of the spec and returns the
// fully resolved plant record. The input spec is never mutated; each
// step threads the partial record forward. hist may be nil. chart is
// only consulted when the turbine type is absent.
//
// Resolution order: residual flow, nominal flow, the missing one of
// power/head via the characteristic equation, turbine type, and
// finally the nominal generator efficiency, which is always recomputed
// from the final nominal power.
func Fill(s plant.Spec, hist *series.Series, chart *turbine.ClassificationTable) (plant.Plant, error) {
	s = s.WithDefaults()
	if !CanEstimate(s, hist != nil) {
		return plant.Plant{}, &DataInsufficientError{Plant: s.Name}
	}

	p := plant.Plant{
		Name:         s.Name,
		TurbineType:  s.TurbineType,
		TurbineCount: s.TurbineCount,
	}

	p.ResidualFlow = resolveResidualFlow(s, hist)
	p = resolveNominalFlow(s, hist, p)
	p, err := resolvePowerAndHead(s, p)
	if err != nil {
		return plant.Plant{}, err
	}
	p = resolveTurbineType(p, chart)
	p.GeneratorEff = GeneratorEffFromPower(p.NominalPower)

	Logger.WithFields(logrus.Fields{
		"plant":         p.Name,
		"nominal_flow":  p.NominalFlow,
		"nominal_head":  p.NominalHead,
		"nominal_power": p.NominalPower,
		"residual_flow": p.ResidualFlow,
		"turbine_type":  p.TurbineType,
		"generator_eff": p.GeneratorEff,
	}).Debug("estimation complete")

	if p.NominalFlow > 0 {
		if err := p.Validate(); err != nil {
			return plant.Plant{}, fmt.Errorf("estimation left an invalid record: %w", err)
		}
	}
	return p, nil
}

// resolveResidualFlow derives the residual flow when it is not given:
// the 347-day flow of the mean annual profile over the last ten years
// of history, mapped through the regulatory schedule. Without history
// the residual flow is 0.
func resolveResidualFlow(s plant.Spec, hist *series.Series) float64 {
	if s.ResidualFlow != nil {
		return *s.ResidualFlow
	}
	if hist == nil {
		return 0
	}
	profile := hist.TrailingYears(historyWindowYears).DayOfYearMeans()
	lowFlow := series.Quantile(profile, lowFlowQuantile)
	return ResidualFlowFromLowFlow(lowFlow)
}

// resolveNominalFlow derives the nominal flow as the 0.8 quantile of
// the full history after subtracting the residual flow. When neither a
// value nor history is available (head and power both known), the flow
// stays unresolved at 0 and the record is unusable for power
// computation until the caller supplies it.
func resolveNominalFlow(s plant.Spec, hist *series.Series, p plant.Plant) plant.Plant {
	switch {
	case s.NominalFlow != nil:
		p.NominalFlow = *s.NominalFlow
	case hist != nil:
		p.NominalFlow = hist.SubScalar(p.ResidualFlow).Quantile(nominalFlowQuantile)
	default:
		Logger.Warnf("plant %s: nominal flow cannot be derived without flow history", p.Name)
	}
	return p
}

// resolvePowerAndHead copies the known values and, when exactly one of
// power/head is missing, solves the characteristic equation for it.
// That branch requires the nominal flow to be resolved already, which
// the feasibility check guarantees.
func resolvePowerAndHead(s plant.Spec, p plant.Plant) (plant.Plant, error) {
	if s.NominalHead != nil {
		p.NominalHead = *s.NominalHead
	}
	if s.NominalPower != nil {
		p.NominalPower = *s.NominalPower
	}

	headKnown := s.NominalHead != nil
	powerKnown := s.NominalPower != nil
	if headKnown == powerKnown {
		return p, nil
	}
	if p.NominalFlow <= 0 {
		return p, fmt.Errorf("plant %s: nominal flow must be resolved before the characteristic equation", p.Name)
	}
	if powerKnown {
		p.NominalHead = NominalHeadAt(p.NominalPower, p.NominalFlow)
	} else {
		p.NominalPower = NominalPowerAt(p.NominalHead, p.NominalFlow)
	}
	return p, nil
}

// resolveTurbineType classifies the plant on the application chart by
// its (nominal flow, nominal head) point. No match is not an error: the
// dummy type keeps the pipeline usable with degraded efficiency
// modeling.
func resolveTurbineType(p plant.Plant, chart *turbine.ClassificationTable) plant.Plant {
	if p.TurbineType != "" {
		return p
	}
	if chart != nil && p.NominalFlow > 0 {
		if typ, ok := chart.Classify(geo.Pt(p.NominalFlow, p.NominalHead)); ok {
			p.TurbineType = typ
			return p
		}
	}
	p.TurbineType = turbine.DummyType
	Logger.Warnf("turbine type could not be determined for plant %s, dummy type used", p.Name)
	return p
}
