package qc

import (
	"censorr/internal/timing"
)

// Kind classifies a measured sample relative to the mute plan.
type Kind string

const (
	KindOK             Kind = "ok"
	KindUnderMuted     Kind = "under_muted"
	KindOverAttenuated Kind = "over_attenuated"
)

// Sample is one level measurement over a time range, as reported by the
// external audio tool after muting.
type Sample struct {
	Start   float64
	End     float64
	LevelDB float64
}

// Finding is the classification of one sample. Interval points at the mute
// interval the sample intersected, nil for samples outside the plan.
type Finding struct {
	Sample          Sample
	Kind            Kind
	Interval        *timing.Interval
	MeasuredLevelDB float64
	ThresholdDB     float64
}

// Report is the complete validation result for one file. Findings cover
// every sample, in input order; each sample is classified exactly once.
type Report struct {
	Findings    []Finding
	ThresholdDB float64
}

// Passed reports whether no sample was flagged.
func (r Report) Passed() bool {
	for _, f := range r.Findings {
		if f.Kind != KindOK {
			return false
		}
	}
	return true
}

// Flagged returns only the under_muted and over_attenuated findings.
func (r Report) Flagged() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Kind != KindOK {
			out = append(out, f)
		}
	}
	return out
}

// Counts returns the number of findings per kind.
func (r Report) Counts() (ok, underMuted, overAttenuated int) {
	for _, f := range r.Findings {
		switch f.Kind {
		case KindUnderMuted:
			underMuted++
		case KindOverAttenuated:
			overAttenuated++
		default:
			ok++
		}
	}
	return ok, underMuted, overAttenuated
}

// Validate classifies every sample against the mute plan and the dB floor.
// It never mutates audio; remediation is the caller's decision.
func Validate(samples []Sample, plan []timing.Interval, thresholdDB float64) Report {
	report := Report{
		Findings:    make([]Finding, 0, len(samples)),
		ThresholdDB: thresholdDB,
	}
	for _, sample := range samples {
		report.Findings = append(report.Findings, classify(sample, plan, thresholdDB))
	}
	return report
}

func classify(sample Sample, plan []timing.Interval, thresholdDB float64) Finding {
	finding := Finding{
		Sample:          sample,
		Kind:            KindOK,
		MeasuredLevelDB: sample.LevelDB,
		ThresholdDB:     thresholdDB,
	}
	for i := range plan {
		if plan[i].Overlaps(sample.Start, sample.End) {
			finding.Interval = &plan[i]
			if sample.LevelDB > thresholdDB {
				finding.Kind = KindUnderMuted
			}
			return finding
		}
	}
	if sample.LevelDB < thresholdDB {
		finding.Kind = KindOverAttenuated
	}
	return finding
}
