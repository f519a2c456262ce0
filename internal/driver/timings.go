package driver

import (
	"encoding/json"
	"fmt"

	"lexis/internal/diag"
	"lexis/internal/observ"
)

// TimingPayload is the JSON note attached to an ObsTimings diagnostic.
type TimingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Files   int                  `json:"files,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic renders a timer report as an informational diagnostic.
func TimingDiagnostic(kind string, files int, report observ.Report) (diag.Diagnostic, error) {
	if kind == "" {
		kind = "pipeline"
	}
	payload := TimingPayload{Kind: kind, Files: files, TotalMS: report.TotalMS, Phases: report.Phases}
	data, err := json.Marshal(payload)
	if err != nil {
		return diag.Diagnostic{}, err
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", kind, report.TotalMS)
	if files > 0 {
		msg = fmt.Sprintf("%s over %d files", msg, files)
	}
	return diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Notes:    []diag.Note{{Msg: string(data)}},
	}, nil
}

// AppendTimings добавляет диагностику таймингов в bag, даже если лимит исчерпан.
func AppendTimings(bag *diag.Bag, kind string, files int, timer *observ.Timer) error {
	if bag == nil || timer == nil {
		return nil
	}
	d, err := TimingDiagnostic(kind, files, timer.Report())
	if err != nil {
		return err
	}
	if bag.Add(d) {
		return nil
	}
	overflow := diag.NewBag(0)
	overflow.Add(d)
	bag.Merge(overflow)
	return nil
}
