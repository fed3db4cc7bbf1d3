package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/config"
	"go-biometric-sdk/converter"
	"go-biometric-sdk/iso"
	"go-biometric-sdk/lds"
	"go-biometric-sdk/metrics"
	"go-biometric-sdk/middleware"
	"go-biometric-sdk/models"
	"go-biometric-sdk/sdk"
	"go-biometric-sdk/validation"
)

const ERR_DECODE_REQUEST = "failed to decode request body"
const ERR_VALIDATION = "failed to validate biometric record"
const ERR_CONVERSION = "failed to convert biometric record"
const ERR_LDS_CONVERSION = "failed to convert data group"

type ServerState struct {
	sdk     *sdk.SDK
	metrics *metrics.Metrics
	// gatherer backs /metrics; nil disables the endpoint.
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

type Server struct {
	server *http.Server
	config config.Server
}

func (s *Server) ListenAndServe() error {
	if s.config.UseTls {
		slog.Info("Starting server with TLS", "host", s.config.Host, "port", s.config.Port, "cert", s.config.TlsCertPath, "key", s.config.TlsPrivKeyPath)
		return s.server.ListenAndServeTLS(s.config.TlsCertPath, s.config.TlsPrivKeyPath)
	}
	slog.Info("Starting server without TLS", "host", s.config.Host, "port", s.config.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		slog.Error("Error during server shutdown", "error", err)
	} else {
		slog.Info("Server shut down successfully")
	}
	return err
}

func NewServer(state *ServerState, cfg config.Server) (*Server, error) {
	if state.sdk == nil {
		return nil, fmt.Errorf("server state has no sdk")
	}
	if state.logger == nil {
		state.logger = slog.Default()
	}
	slog.Info("Creating new server", "host", cfg.Host, "port", cfg.Port, "tls", cfg.UseTls)

	router := mux.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recovery(state.logger),
		middleware.Logger(state.logger),
		middleware.Latency(state.metrics),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("Health check request received")
		if err := writeJSON(w, http.StatusOK, map[string]bool{"ok": true}); err != nil {
			slog.Error("failed to write body to http response", "error", err)
		}
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/validate", func(w http.ResponseWriter, r *http.Request) {
		handleValidate(state, w, r)
	})
	router.HandleFunc("/api/convert", func(w http.ResponseWriter, r *http.Request) {
		handleConvert(state, w, r)
	})
	router.HandleFunc("/api/lds/convert", func(w http.ResponseWriter, r *http.Request) {
		handleLdsConvert(state, w, r)
	})
	if state.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(state.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	slog.Debug("Registered all API routes")

	srv := &http.Server{
		Handler:      router,
		Addr:         cfg.Addr(),
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
	}

	slog.Info("Server created successfully", "address", srv.Addr)
	return &Server{
		server: srv,
		config: cfg,
	}, nil
}

func handleValidate(state *ServerState, w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}
	defer closeRequestBody(r)

	var req models.ValidationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	modality, err := biometrics.ParseModality(req.Modality)
	if err != nil {
		respondWithSDKErr(w, err, ERR_VALIDATION)
		return
	}
	purpose, err := biometrics.ParsePurpose(req.Purpose)
	if err != nil {
		respondWithSDKErr(w, err, ERR_VALIDATION)
		return
	}
	if err := sdk.CheckParams(modality, req.Subtype); err != nil {
		respondWithSDKErr(w, err, ERR_VALIDATION)
		return
	}
	data, err := biometrics.DecodeBase64URL(req.Data)
	if err != nil {
		respondWithSDKErr(w, biometrics.Wrap(biometrics.KindInvalidInputFormat, err, "data not base64url encoded"), ERR_VALIDATION)
		return
	}

	report, err := state.sdk.Inspect(sdk.NewSegment(modality, req.Subtype, purpose, data))
	if err != nil {
		respondWithSDKErr(w, err, ERR_VALIDATION)
		return
	}

	slog.Info("Record validated", "modality", modality, "purpose", purpose, "valid", report.Valid(),
		"violations", len(report.Violations()), "request_id", middleware.GetRequestID(r.Context()))

	status := http.StatusOK
	if !report.Valid() {
		status = http.StatusUnprocessableEntity
	}
	if err := writeJSON(w, status, toValidationResponse(report)); err != nil {
		respondWithErr(w, http.StatusInternalServerError, technicalError(), "failed to marshal response message", err)
	}
}

func toValidationResponse(report *validation.Report) models.ValidationResponse {
	resp := models.ValidationResponse{Valid: report.Valid(), Standard: report.Standard}
	if report.Valid() {
		return resp
	}
	resp.Violations = lo.Map(report.Violations(), func(v validation.Violation, _ int) models.Violation {
		return models.Violation{Field: v.Field, Expected: v.Expected, Observed: v.ObservedString()}
	})
	resp.Message = report.Error()
	return resp
}

func handleConvert(state *ServerState, w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}
	defer closeRequestBody(r)

	var req models.ConversionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	values := lo.Map(req.Values, func(e models.Entry, _ int) converter.Entry {
		return converter.Entry{Key: e.Key, Value: e.Value}
	})
	out, err := state.sdk.Convert(values, req.SourceFormat, req.TargetFormat, req.SourceParameters, req.TargetParameters)
	if err != nil {
		respondWithSDKErr(w, err, ERR_CONVERSION)
		return
	}

	resp := models.ConversionResponse{Values: lo.Map(out, func(e converter.Entry, _ int) models.Entry {
		return models.Entry{Key: e.Key, Value: e.Value}
	})}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		respondWithErr(w, http.StatusInternalServerError, technicalError(), "failed to marshal response message", err)
	}
}

func handleLdsConvert(state *ServerState, w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}
	defer closeRequestBody(r)

	var req models.LdsConversionRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if len(req.DataGroups) == 0 {
		respondWithSDKErr(w, biometrics.NewError(biometrics.KindMissingInput, "no data groups supplied"), ERR_LDS_CONVERSION)
		return
	}

	modalities := make([]biometrics.Modality, 0, len(req.Modalities))
	for _, name := range req.Modalities {
		m, err := biometrics.ParseModality(name)
		if err != nil {
			respondWithSDKErr(w, err, ERR_LDS_CONVERSION)
			return
		}
		modalities = append(modalities, m)
	}

	names := lo.Keys(req.DataGroups)
	slices.Sort(names)

	resp := models.LdsConversionResponse{Images: []models.LdsImage{}}
	for _, name := range names {
		images, err := convertDataGroup(state, name, req.DataGroups[name], req, modalities)
		if err != nil {
			respondWithSDKErr(w, err, ERR_LDS_CONVERSION)
			return
		}
		resp.Images = append(resp.Images, images...)
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		respondWithErr(w, http.StatusInternalServerError, technicalError(), "failed to marshal response message", err)
	}
}

func convertDataGroup(state *ServerState, name, hexData string, req models.LdsConversionRequest, modalities []biometrics.Modality) ([]models.LdsImage, error) {
	want, ok := lds.ParseDataGroupName(name)
	if !ok {
		return nil, biometrics.NewError(biometrics.KindMissingInput, fmt.Sprintf("unsupported data group %q", name))
	}
	if len(modalities) > 0 && !lo.Contains(modalities, want.Modality()) {
		slog.Debug("Skipping data group outside requested modalities", "data_group", name)
		return nil, nil
	}

	raw, err := hex.DecodeString(hexData)
	if err != nil {
		return nil, biometrics.Wrap(biometrics.KindInvalidInputFormat, err, fmt.Sprintf("%s is not hex encoded", want))
	}
	dg, coll, err := lds.ParseDataGroup(raw)
	if err != nil {
		return nil, err
	}
	if dg != want {
		return nil, biometrics.NewError(biometrics.KindInvalidInputFormat, fmt.Sprintf("%s content supplied as %s", dg, want))
	}
	state.metrics.ObserveDataGroup(dg.String(), len(coll.Segments))

	source, _ := iso.FormatFor(dg.Modality())
	out, err := state.sdk.ConvertRecord(coll, string(source), req.TargetFormat, nil, req.TargetParameters, modalities)
	if err != nil {
		return nil, err
	}

	return lo.Map(out.Segments, func(s biometrics.Segment, _ int) models.LdsImage {
		return models.LdsImage{
			DataGroup:   dg.String(),
			Modality:    string(s.Modality()),
			Subtype:     s.Subtype(),
			ContentType: s.Metadata.ContentType,
			Data:        biometrics.EncodeBase64URL(s.Payload),
		}
	}), nil
}

// statusForKind maps an error kind onto the HTTP status returned for it.
func statusForKind(k biometrics.Kind) int {
	switch k {
	case biometrics.KindInvalidBiometricData:
		return http.StatusUnprocessableEntity
	case biometrics.KindUnsupportedCompressionType:
		return http.StatusUnsupportedMediaType
	case biometrics.KindTechnicalError:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func technicalError() models.ErrorResponse {
	return models.ErrorResponse{Error: string(biometrics.KindTechnicalError), Message: "technical error"}
}

func respondWithSDKErr(w http.ResponseWriter, err error, logMsg string) {
	var sdkErr *biometrics.Error
	if !errors.As(err, &sdkErr) {
		respondWithErr(w, http.StatusInternalServerError, technicalError(), logMsg, err)
		return
	}
	body := models.ErrorResponse{
		Error:    string(sdkErr.Kind),
		Message:  err.Error(),
		Modality: string(sdkErr.Modality),
	}
	respondWithErr(w, statusForKind(sdkErr.Kind), body, logMsg, err)
}

func respondWithErr(w http.ResponseWriter, code int, responseBody models.ErrorResponse, logMsg string, e error) {
	if code >= http.StatusInternalServerError {
		slog.Error(logMsg, "error", e, "status_code", code, "error_kind", responseBody.Error)
	} else {
		slog.Warn(logMsg, "error", e, "status_code", code, "error_kind", responseBody.Error)
	}
	if err := writeJSON(w, code, responseBody); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

// helpers ------------

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondWithErr(w, http.StatusRequestEntityTooLarge,
			models.ErrorResponse{Error: string(biometrics.KindInvalidInputFormat), Message: "request body too large"},
			ERR_DECODE_REQUEST, err)
		return false
	}
	respondWithErr(w, http.StatusBadRequest,
		models.ErrorResponse{Error: string(biometrics.KindInvalidInputFormat), Message: "request body is not valid JSON"},
		ERR_DECODE_REQUEST, err)
	return false
}

func closeRequestBody(r *http.Request) {
	if err := r.Body.Close(); err != nil {
		slog.Error("failed to close request body", "error", err)
	}
}

func requirePOST(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		slog.Debug("Non-POST request rejected", "method", r.Method, "path", r.URL.Path)
		respondWithErr(w, http.StatusMethodNotAllowed,
			models.ErrorResponse{Error: "METHOD_NOT_ALLOWED", Message: "method not allowed"},
			"invalid method", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	slog.Debug("Writing JSON response", "status_code", status)
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal JSON payload", "error", err)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	if err != nil {
		slog.Error("failed to write body to http response", "error", err)
	} else {
		slog.Debug("JSON response written successfully", "status_code", status, "payload_size", len(payload))
	}
	return nil
}
