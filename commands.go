package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/config"
	"go-biometric-sdk/converter"
	"go-biometric-sdk/images"
	"go-biometric-sdk/iso"
	"go-biometric-sdk/lds"
	"go-biometric-sdk/logging"
	"go-biometric-sdk/metrics"
	"go-biometric-sdk/sdk"
	"go-biometric-sdk/validation"
)

// noWSQDecoderNote tells CLI users that WSQ fingers cannot be converted;
// embedders plug a decoder in with converter.WithWSQDecoder.
const noWSQDecoderNote = "no WSQ decoder is bundled, so WSQ compressed fingers fail with TECHNICAL_ERROR"

// ServeCommand runs the HTTP service.
type ServeCommand struct{}

func (c *ServeCommand) Describe() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP validation and conversion service; " + noWSQDecoderNote,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path for the config.json to use; environment only when omitted",
				Aliases: []string{"c"},
			},
		},
		Action: c.Execute,
	}
}

func (c *ServeCommand) Execute(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	logging.InitLogger(cfg.Logger.Level, cfg.Logger.Format)

	state := newServerState(cfg)

	server, err := NewServer(state, cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		_ = server.Stop()
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to listen and serve: %w", err)
	}
	return nil
}

// newServerState builds the SDK and, when enabled, the metrics served on
// /metrics from the default Prometheus registry.
func newServerState(cfg *config.Config) *ServerState {
	state := &ServerState{logger: logging.Component("http")}
	if cfg.Metrics.Enabled {
		state.metrics = metrics.New()
		state.gatherer = prometheus.DefaultGatherer
	}
	state.sdk = sdk.New(
		sdk.WithMetrics(state.metrics),
		sdk.WithValidationOptions(validation.Options{CheckCaptureTime: cfg.Validation.CheckCaptureTime}),
		sdk.WithLogger(logging.Component("sdk")),
	)
	return state
}

// ValidateCommand validates one ISO record file.
type ValidateCommand struct{}

func (c *ValidateCommand) Describe() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate an ISO/IEC 19794 record and print every violation",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "modality", Usage: "Finger, Face or Iris", Aliases: []string{"m"}, Required: true},
			&cli.StringFlag{Name: "subtype", Usage: "Subtype label, e.g. \"Left IndexFinger\"", Value: biometrics.SubtypeUnknown},
			&cli.StringFlag{Name: "purpose", Usage: "VERIFY, IDENTIFY, ENROLL or ENROLLMENT_DUPLICATE_CHECK"},
			&cli.StringFlag{Name: "file", Usage: "Path to the raw ISO record", Aliases: []string{"f"}, Required: true},
			&cli.BoolFlag{Name: "check-capture-time", Usage: "Reject capture times outside the valid calendar range"},
		},
		Action: c.Execute,
	}
}

func (c *ValidateCommand) Execute(ctx *cli.Context) error {
	modality, err := biometrics.ParseModality(ctx.String("modality"))
	if err != nil {
		return err
	}
	purpose, err := biometrics.ParsePurpose(ctx.String("purpose"))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(ctx.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	s := sdk.New(sdk.WithValidationOptions(validation.Options{CheckCaptureTime: ctx.Bool("check-capture-time")}))
	report, err := s.Inspect(sdk.NewSegment(modality, ctx.String("subtype"), purpose, data))
	if err != nil {
		return err
	}
	if !report.Valid() {
		return cli.Exit(report.Error(), 2)
	}
	fmt.Fprintf(ctx.App.Writer, "%s record valid (%s)\n", modality, report.Standard)
	return nil
}

// ConvertCommand converts one ISO record file to JPEG or PNG.
type ConvertCommand struct{}

func (c *ConvertCommand) Describe() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert the image of an ISO/IEC 19794 record to JPEG or PNG; " + noWSQDecoderNote,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Usage: "ISO19794_4_2011, ISO19794_5_2011 or ISO19794_6_2011", Aliases: []string{"s"}, Required: true},
			&cli.StringFlag{Name: "target", Usage: "IMAGE_JPEG or IMAGE_PNG", Aliases: []string{"t"}, Value: string(images.TargetPNG)},
			&cli.StringFlag{Name: "in", Usage: "Path to the raw ISO record", Required: true},
			&cli.StringFlag{Name: "out", Usage: "Output path; derived from --in when omitted"},
		},
		Action: c.Execute,
	}
}

func (c *ConvertCommand) Execute(ctx *cli.Context) error {
	source, ok := iso.ParseFormatCode(ctx.String("source"))
	if !ok {
		return biometrics.NewError(biometrics.KindInvalidSourceFormat, fmt.Sprintf("unsupported source format %q", ctx.String("source")))
	}
	target, ok := images.ParseTargetFormat(ctx.String("target"))
	if !ok {
		return biometrics.NewError(biometrics.KindInvalidTargetFormat, fmt.Sprintf("unsupported target format %q", ctx.String("target")))
	}
	data, err := os.ReadFile(ctx.String("in"))
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	img, err := converter.New().TranscodeRecord(source, data, target, converter.Params{})
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if out == "" {
		out = strings.TrimSuffix(ctx.String("in"), filepath.Ext(ctx.String("in"))) + "." + target.Extension()
	}
	if err := os.WriteFile(out, img, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	slog.Info("Image written", "path", out, "bytes", len(img))
	return nil
}

// SampleCommand wraps an image file into an ISO record that passes
// validation.
type SampleCommand struct{}

func (c *SampleCommand) Describe() *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "Wrap a JPEG 2000 image, or a WSQ image for fingers, into an ISO/IEC 19794 record that passes validation",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "modality", Usage: "Finger, Face or Iris", Aliases: []string{"m"}, Required: true},
			&cli.StringFlag{Name: "image", Usage: "Path to the image to wrap", Required: true},
			&cli.StringFlag{Name: "out", Usage: "Output path of the record", Required: true},
			&cli.UintFlag{Name: "position", Usage: "Finger position code"},
			&cli.UintFlag{Name: "eye", Usage: "Iris eye label: 0 undefined, 1 right, 2 left"},
		},
		Action: c.Execute,
	}
}

func (c *SampleCommand) Execute(ctx *cli.Context) error {
	modality, err := biometrics.ParseModality(ctx.String("modality"))
	if err != nil {
		return err
	}
	img, err := os.ReadFile(ctx.String("image"))
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	kind := images.Sniff(img)
	tag, ok := sampleImageTag(modality, kind)
	if !ok {
		return biometrics.NewError(biometrics.KindUnsupportedCompressionType,
			fmt.Sprintf("%s payload cannot be wrapped in a %s record", kind, modality))
	}

	var record []byte
	switch modality {
	case biometrics.Finger:
		record = iso.NewFingerSample(uint8(ctx.Uint("position")), tag, img).Encode()
	case biometrics.Face:
		record = iso.NewFaceSample(tag, img).Encode()
	case biometrics.Iris:
		record = iso.NewIrisSample(uint8(ctx.Uint("eye")), tag, img).Encode()
	}

	if err := os.WriteFile(ctx.String("out"), record, 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	slog.Info("Record written", "path", ctx.String("out"), "modality", modality, "image", kind, "bytes", len(record))
	return nil
}

// sampleImageTag picks the record's compression field for a sniffed
// payload. Only codecs the validation rules accept are offered, so plain
// JPEG is refused for every modality.
func sampleImageTag(m biometrics.Modality, kind string) (uint8, bool) {
	j2k := kind == "jp2" || kind == "j2k"
	switch m {
	case biometrics.Finger:
		switch {
		case kind == "wsq":
			return iso.FingerCompressionWSQ, true
		case j2k:
			return iso.FingerCompressionJPEG2000Lossless, true
		}
	case biometrics.Face:
		if j2k {
			return iso.FaceImageDataJPEG2000Lossless, true
		}
	case biometrics.Iris:
		if j2k {
			return iso.IrisImageFormatMonoJPEG2000, true
		}
	}
	return 0, false
}

// LdsCommand extracts the images of an eMRTD biometric data group.
type LdsCommand struct{}

func (c *LdsCommand) Describe() *cli.Command {
	return &cli.Command{
		Name:  "lds",
		Usage: "Extract and convert the biometric images of a DG2, DG3 or DG4 file; " + noWSQDecoderNote,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "Path to the data group, raw or hex encoded", Required: true},
			&cli.StringFlag{Name: "target", Usage: "IMAGE_JPEG or IMAGE_PNG", Aliases: []string{"t"}, Value: string(images.TargetPNG)},
			&cli.StringFlag{Name: "out-dir", Usage: "Directory the images are written to", Value: "."},
		},
		Action: c.Execute,
	}
}

func (c *LdsCommand) Execute(ctx *cli.Context) error {
	raw, err := os.ReadFile(ctx.String("in"))
	if err != nil {
		return fmt.Errorf("failed to read data group: %w", err)
	}
	if decoded, err := hex.DecodeString(strings.TrimSpace(string(raw))); err == nil {
		raw = decoded
	}

	dg, coll, err := lds.ParseDataGroup(raw)
	if err != nil {
		return err
	}
	source, _ := iso.FormatFor(dg.Modality())
	target, ok := images.ParseTargetFormat(ctx.String("target"))
	if !ok {
		return biometrics.NewError(biometrics.KindInvalidTargetFormat, fmt.Sprintf("unsupported target format %q", ctx.String("target")))
	}

	out, err := sdk.New().ConvertRecord(coll, string(source), string(target), nil, nil, nil)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(ctx.String("out-dir"), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for i, seg := range out.Segments {
		name := fmt.Sprintf("%s_%d_%s.%s", dg, i, strings.ReplaceAll(seg.Subtype(), " ", "_"), target.Extension())
		path := filepath.Join(ctx.String("out-dir"), name)
		if err := os.WriteFile(path, seg.Payload, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		slog.Info("Image written", "data_group", dg.String(), "subtype", seg.Subtype(), "path", path)
	}
	return nil
}
