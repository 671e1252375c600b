package balance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidofinance/btc-gateway/internal/connectors/metrics"
)

const genesisAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

func TestLookup_GetSatoshis(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    btcutil.Amount
		wantErr error
	}{
		{
			name:   "balance",
			status: http.StatusOK,
			body:   "7251988656",
			want:   btcutil.Amount(7251988656),
		},
		{
			name:   "trailing newline",
			status: http.StatusOK,
			body:   "0\n",
			want:   0,
		},
		{
			name:    "invalid address",
			status:  http.StatusInternalServerError,
			body:    "Checksum does not validate",
			wantErr: ErrUnexpectedStatus,
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    "",
			wantErr: ErrUnexpectedStatus,
		},
		{
			name:    "non numeric body",
			status:  http.StatusOK,
			body:    "<html>maintenance</html>",
			wantErr: ErrNotNumeric,
		},
		{
			name:    "fractional body",
			status:  http.StatusOK,
			body:    "72.51",
			wantErr: ErrNotNumeric,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			l := New(server.URL+"/q/addressbalance/", server.Client(), metrics.New(prometheus.NewRegistry(), "test", "btc-gateway", "test"))

			got, err := l.GetSatoshis(context.Background(), genesisAddress)
			assert.Equal(t, "/q/addressbalance/"+genesisAddress, gotPath)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_GetSatoshis_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	l := New(server.URL, &http.Client{}, metrics.New(prometheus.NewRegistry(), "test", "btc-gateway", "test"))

	_, err := l.GetSatoshis(context.Background(), genesisAddress)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedStatus)
	assert.NotErrorIs(t, err, ErrNotNumeric)
}
