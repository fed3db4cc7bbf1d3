package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"image"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/config"
	"go-biometric-sdk/converter"
	"go-biometric-sdk/iso"
	"go-biometric-sdk/metrics"
	"go-biometric-sdk/sdk"
)

const testBaseURL = "http://localhost:8081"

var testConfig = config.Server{
	Host:         "localhost",
	Port:         8081,
	UseTls:       false,
	ReadTimeout:  5 * time.Second,
	WriteTimeout: 5 * time.Second,
	MaxBodyBytes: 1 << 20,
}

// testImage is a JPEG 2000 codestream prefix; the stub decoder ignores it.
var testImage = []byte{0xFF, 0x4F, 0xFF, 0x51, 0x00, 0x2F}

func startTestServer(t *testing.T) *ServerState {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.NewWith(reg)
	conv := converter.New(converter.WithJPEG2000Decoder(fakeJPEG2000{}), converter.WithMetrics(m))
	testState := &ServerState{
		sdk:      sdk.New(sdk.WithConverter(conv), sdk.WithMetrics(m)),
		metrics:  m,
		gatherer: reg,
	}

	srv, err := NewServer(testState, testConfig)
	require.NoError(t, err)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("server error: %v", err)
		}
	}()

	waitUntilHealthy(t, testBaseURL+"/api/health")
	t.Cleanup(func() {
		if err := srv.Stop(); err != nil {
			t.Logf("error shutting down server: %v", err)
		}
	})
	return testState
}

func waitUntilHealthy(t *testing.T, url string) {
	t.Helper()
	const maxAttempts = 50
	for i := 0; i < maxAttempts; i++ {
		if resp, err := http.Get(url); err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server did not start in time")
}

func postJSON[T any](t *testing.T, url string, payload any) (*http.Response, []byte, *T) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(b)
	}
	resp, err := http.Post(url, "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var v T
	_ = json.Unmarshal(respBody, &v)
	return resp, respBody, &v
}

func mustStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	require.Equalf(t, want, resp.StatusCode, "body: %s", body)
}

// Record builders

func fingerRecord(opts ...func(*iso.FingerRecord)) []byte {
	rec := iso.NewFingerSample(0x07, iso.FingerCompressionJPEG2000Lossless, testImage)
	for _, o := range opts {
		o(rec)
	}
	return rec.Encode()
}

func irisRecord() []byte {
	return iso.NewIrisSample(iso.EyeRight, iso.IrisImageFormatMonoJPEG2000, testImage).Encode()
}

// encodeTLV builds a BER-TLV with a one or two byte tag.
func encodeTLV(tag int, value []byte) []byte {
	var out []byte
	if tag > 0xFF {
		out = append(out, byte(tag>>8))
	}
	out = append(out, byte(tag))
	switch n := len(value); {
	case n < 0x80:
		out = append(out, byte(n))
	case n <= 0xFF:
		out = append(out, 0x81, byte(n))
	default:
		out = append(out, 0x82, byte(n>>8), byte(n))
	}
	return append(out, value...)
}

// irisDataGroupHex wraps one right-eye iris record into a hex encoded DG4.
func irisDataGroupHex() string {
	bht := encodeTLV(0xA1, bytes.Join([][]byte{
		encodeTLV(0x81, []byte{0x10}),
		encodeTLV(0x82, []byte{0x01}),
		encodeTLV(0x87, []byte{0x01, 0x01}),
		encodeTLV(0x88, []byte{0x00, 0x09}),
	}, nil))
	bit := encodeTLV(0x7F60, append(bht, encodeTLV(0x5F2E, irisRecord())...))
	bigt := encodeTLV(0x7F61, append(encodeTLV(0x02, []byte{0x01}), bit...))
	return hex.EncodeToString(encodeTLV(0x76, bigt))
}

func b64(data []byte) string {
	return biometrics.EncodeBase64URL(data)
}

// test doubles

type fakeJPEG2000 struct{}

func (fakeJPEG2000) Decode([]byte) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 8, 6)), nil
}
