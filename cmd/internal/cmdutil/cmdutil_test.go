package cmdutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	defer func(old string) { logLevel = old }(logLevel)

	logLevel = "debug"
	logger, err := Logger()
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logLevel = "shout"
	_, err = Logger()
	require.ErrorContains(t, err, `invalid log level "shout"`)
}

func TestMetricsServer(t *testing.T) {
	srv := httptest.NewServer(MetricsServer(zerolog.Nop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "OK", string(body))

	mresp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	require.NoError(t, mresp.Body.Close())
	require.Equal(t, http.StatusOK, mresp.StatusCode)
}
