package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

var (
	isolatesLoaded   atomic.Int64
	analysesServed   atomic.Int64
	alertsModerate   atomic.Int64
	alertsHigh       atomic.Int64
	alertsCritical   atomic.Int64
	submissionsTotal atomic.Int64
)

func SetIsolatesLoaded(n int) {
	isolatesLoaded.Store(int64(n))
}

func IncAnalysesServed() {
	analysesServed.Add(1)
}

func IncSubmissions() {
	submissionsTotal.Add(1)
}

// ObserveAlerts records the severity breakdown of the latest evaluation.
func ObserveAlerts(alerts []models.Alert) {
	var moderate, high, critical int64
	for _, alert := range alerts {
		switch alert.Severity {
		case models.SeverityModerate:
			moderate++
		case models.SeverityHigh:
			high++
		case models.SeverityCritical:
			critical++
		}
	}
	alertsModerate.Store(moderate)
	alertsHigh.Store(high)
	alertsCritical.Store(critical)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	fmt.Fprintf(w, "# HELP amrwatch_isolates_loaded Number of cleaned isolates in the analysis snapshot.\n")
	fmt.Fprintf(w, "# TYPE amrwatch_isolates_loaded gauge\n")
	fmt.Fprintf(w, "amrwatch_isolates_loaded %d\n", isolatesLoaded.Load())

	fmt.Fprintf(w, "# HELP amrwatch_analyses_served_total Number of analysis queries served since start.\n")
	fmt.Fprintf(w, "# TYPE amrwatch_analyses_served_total counter\n")
	fmt.Fprintf(w, "amrwatch_analyses_served_total %d\n", analysesServed.Load())

	fmt.Fprintf(w, "# HELP amrwatch_submissions_total Number of raw rows accepted by the ingestion service.\n")
	fmt.Fprintf(w, "# TYPE amrwatch_submissions_total counter\n")
	fmt.Fprintf(w, "amrwatch_submissions_total %d\n", submissionsTotal.Load())

	fmt.Fprintf(w, "# HELP amrwatch_alerts_active Active clinical alerts by severity from the latest evaluation.\n")
	fmt.Fprintf(w, "# TYPE amrwatch_alerts_active gauge\n")
	fmt.Fprintf(w, "amrwatch_alerts_active{severity=\"moderate\"} %d\n", alertsModerate.Load())
	fmt.Fprintf(w, "amrwatch_alerts_active{severity=\"high\"} %d\n", alertsHigh.Load())
	fmt.Fprintf(w, "amrwatch_alerts_active{severity=\"critical\"} %d\n", alertsCritical.Load())
}
