package cmdutil

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var metricsAddr = "127.0.0.1:3040"

func RegisterMetricsFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&metricsAddr,
		"metrics-listen-addr",
		metricsAddr,
		"address to serve /metrics and /healthz on",
	)
}

// MetricsServer returns the handler behind --metrics-listen-addr:
// prometheus metrics plus a trivial health probe.
func MetricsServer(logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprint(w, "OK"); err != nil {
			logger.Err(err).Msgf("error writing healthz response")
		}
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// RunMetricsServer serves metrics in the background for the lifetime of
// the process. A batch run is useful without it, so a failure to listen
// is logged rather than fatal.
func RunMetricsServer(logger zerolog.Logger) {
	go func() {
		if err := http.ListenAndServe(metricsAddr, MetricsServer(logger)); err != nil {
			logger.Err(err).Str("addr", metricsAddr).
				Msgf("error serving metrics endpoints")
		}
	}()
}
