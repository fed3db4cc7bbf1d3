package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/config"
	"go-biometric-sdk/iso"
	"go-biometric-sdk/sdk"
)

func runCLI(t *testing.T, c Command, args ...string) error {
	t.Helper()
	app := &cli.App{Name: "biometric-sdk", Commands: []*cli.Command{c.Describe()}}
	return app.Run(append([]string{"biometric-sdk"}, args...))
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestNewServerState(t *testing.T) {
	t.Run("metrics enabled", func(t *testing.T) {
		// Registers on the default registry, so it runs once per test binary.
		state := newServerState(&config.Config{Metrics: config.Metrics{Enabled: true}})
		require.NotNil(t, state.sdk)
		require.NotNil(t, state.metrics)
		require.Equal(t, prometheus.DefaultGatherer, state.gatherer)
	})

	t.Run("metrics disabled", func(t *testing.T) {
		state := newServerState(&config.Config{})
		require.NotNil(t, state.sdk)
		require.Nil(t, state.metrics)
		require.Nil(t, state.gatherer)
	})
}

func TestSampleImageTag(t *testing.T) {
	tests := []struct {
		modality biometrics.Modality
		kind     string
		want     uint8
		ok       bool
	}{
		{biometrics.Finger, "wsq", iso.FingerCompressionWSQ, true},
		{biometrics.Finger, "j2k", iso.FingerCompressionJPEG2000Lossless, true},
		{biometrics.Finger, "jp2", iso.FingerCompressionJPEG2000Lossless, true},
		{biometrics.Finger, "jpg", 0, false},
		{biometrics.Face, "j2k", iso.FaceImageDataJPEG2000Lossless, true},
		{biometrics.Face, "jpg", 0, false},
		{biometrics.Face, "wsq", 0, false},
		{biometrics.Iris, "jp2", iso.IrisImageFormatMonoJPEG2000, true},
		{biometrics.Iris, "jpg", 0, false},
		{biometrics.Iris, "wsq", 0, false},
		{biometrics.Iris, "png", 0, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.modality)+"/"+tt.kind, func(t *testing.T) {
			got, ok := sampleImageTag(tt.modality, tt.kind)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSampleCommand_RecordPassesValidation(t *testing.T) {
	img := writeTemp(t, "iris.j2k", testImage)
	out := filepath.Join(t.TempDir(), "iris.iso")

	require.NoError(t, runCLI(t, &SampleCommand{}, "sample", "--modality", "Iris", "--image", img, "--out", out, "--eye", "1"))

	record, err := os.ReadFile(out)
	require.NoError(t, err)
	report, err := sdk.New().Inspect(sdk.NewSegment(biometrics.Iris, biometrics.RightEye, biometrics.PurposeVerify, record))
	require.NoError(t, err)
	require.True(t, report.Valid(), report.Error())
}

func TestSampleCommand_RefusesJPEG(t *testing.T) {
	img := writeTemp(t, "face.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10})
	out := filepath.Join(t.TempDir(), "face.iso")

	err := runCLI(t, &SampleCommand{}, "sample", "--modality", "Face", "--image", img, "--out", out)
	require.Equal(t, biometrics.KindUnsupportedCompressionType, biometrics.KindOf(err))
	require.NoFileExists(t, out)
}

func TestConvertCommand_WSQWithoutDecoder(t *testing.T) {
	record := iso.NewFingerSample(0x07, iso.FingerCompressionWSQ, []byte{0xFF, 0xA0}).Encode()
	in := writeTemp(t, "finger.iso", record)

	err := runCLI(t, &ConvertCommand{}, "convert", "--source", "ISO19794_4_2011", "--in", in)
	require.Equal(t, biometrics.KindTechnicalError, biometrics.KindOf(err))
	require.Contains(t, (&ConvertCommand{}).Describe().Usage, "no WSQ decoder")
}
