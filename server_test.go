package main

import (
	"bytes"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/iso"
	"go-biometric-sdk/middleware"
	"go-biometric-sdk/models"
	"go-biometric-sdk/sdk"
)

func TestHealth(t *testing.T) {
	startTestServer(t)

	resp, err := http.Get(testBaseURL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestValidate_Success(t *testing.T) {
	state := startTestServer(t)

	req := models.ValidationRequest{
		Modality: "finger",
		Subtype:  biometrics.LeftIndexFinger,
		Purpose:  "ENROLL",
		Data:     b64(fingerRecord()),
	}
	resp, body, vr := postJSON[models.ValidationResponse](t, testBaseURL+"/api/validate", req)
	mustStatus(t, resp, http.StatusOK, body)
	require.True(t, vr.Valid)
	require.Equal(t, "ISO19794-4:2011", vr.Standard)
	require.Empty(t, vr.Violations)
	require.Equal(t, 1.0, testutil.ToFloat64(state.metrics.ValidationsTotal.WithLabelValues("Finger", "valid")))
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	startTestServer(t)

	data := fingerRecord(func(r *iso.FingerRecord) {
		r.CertificationFlag = 0x02
		r.Representation.BitDepth = 0x10
	})
	req := models.ValidationRequest{Modality: "Finger", Subtype: biometrics.LeftIndexFinger, Data: b64(data)}

	resp, body, vr := postJSON[models.ValidationResponse](t, testBaseURL+"/api/validate", req)
	mustStatus(t, resp, http.StatusUnprocessableEntity, body)
	require.False(t, vr.Valid)
	require.Len(t, vr.Violations, 2)
	require.Equal(t, "Certification Flag", vr.Violations[0].Field)
	require.Equal(t, models.Violation{Field: "Bit Depth", Expected: "[0x08]", Observed: "0x10"}, vr.Violations[1])
	require.True(t, strings.HasPrefix(vr.Message, "ISOStandardsValidator[ISO19794-4:2011] failed due to below issues:"))
}

func TestValidate_Fail_BadInput(t *testing.T) {
	startTestServer(t)

	tests := []struct {
		name string
		req  models.ValidationRequest
		want int
		kind biometrics.Kind
	}{
		{"unknown modality", models.ValidationRequest{Modality: "Palm", Data: b64(fingerRecord())}, http.StatusBadRequest, biometrics.KindMissingInput},
		{"subtype outside enumeration", models.ValidationRequest{Modality: "Finger", Subtype: "Left", Data: b64(fingerRecord())}, http.StatusBadRequest, biometrics.KindMissingInput},
		{"not base64url", models.ValidationRequest{Modality: "Finger", Subtype: "UNKNOWN", Data: "***"}, http.StatusBadRequest, biometrics.KindInvalidInputFormat},
		{"bad subtype reported before bad data", models.ValidationRequest{Modality: "Finger", Subtype: "Left", Data: "***"}, http.StatusBadRequest, biometrics.KindMissingInput},
		{"empty payload", models.ValidationRequest{Modality: "Finger", Subtype: "UNKNOWN"}, http.StatusBadRequest, biometrics.KindBiometricNotFound},
		{"truncated record", models.ValidationRequest{Modality: "Iris", Subtype: "Right", Data: b64([]byte("IIR\x00"))}, http.StatusBadRequest, biometrics.KindInvalidInputFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body, er := postJSON[models.ErrorResponse](t, testBaseURL+"/api/validate", tt.req)
			mustStatus(t, resp, tt.want, body)
			require.Equal(t, string(tt.kind), er.Error)
		})
	}
}

func TestValidate_Fail_NotPOST(t *testing.T) {
	startTestServer(t)

	resp, err := http.Get(testBaseURL + "/api/validate")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestValidate_Fail_MalformedJSON(t *testing.T) {
	startTestServer(t)

	resp, err := http.Post(testBaseURL+"/api/validate", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidate_Fail_BodyTooLarge(t *testing.T) {
	state := &ServerState{sdk: sdk.New()}
	handler := middleware.BodyLimit(64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleValidate(state, w, r)
	}))

	body := `{"modality":"Finger","data":"` + strings.Repeat("A", 128) + `"}`
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(body)))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestConvert_Success(t *testing.T) {
	startTestServer(t)

	req := models.ConversionRequest{
		Values: []models.Entry{
			{Key: "b", Value: b64(fingerRecord())},
			{Key: "a", Value: b64(fingerRecord())},
		},
		SourceFormat: "ISO19794_4_2011",
		TargetFormat: "IMAGE_PNG",
	}
	resp, body, cr := postJSON[models.ConversionResponse](t, testBaseURL+"/api/convert", req)
	mustStatus(t, resp, http.StatusOK, body)
	require.Len(t, cr.Values, 2)
	require.Equal(t, "b", cr.Values[0].Key)
	require.Equal(t, "a", cr.Values[1].Key)

	img, err := biometrics.DecodeBase64URL(cr.Values[0].Value)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	require.Equal(t, 8, decoded.Bounds().Dx())
	require.Equal(t, 6, decoded.Bounds().Dy())
}

func TestConvert_Fail(t *testing.T) {
	startTestServer(t)

	wsq := iso.NewFingerSample(0x07, iso.FingerCompressionWSQ, []byte{0xFF, 0xA0}).Encode()

	tests := []struct {
		name string
		req  models.ConversionRequest
		want int
		kind biometrics.Kind
	}{
		{"bad target", models.ConversionRequest{Values: []models.Entry{{Key: "k", Value: b64(fingerRecord())}}, SourceFormat: "ISO19794_4_2011", TargetFormat: "IMAGE_GIF"},
			http.StatusBadRequest, biometrics.KindInvalidTargetFormat},
		{"bad source", models.ConversionRequest{Values: []models.Entry{{Key: "k", Value: b64(fingerRecord())}}, SourceFormat: "ISO19794_2_2011", TargetFormat: "IMAGE_PNG"},
			http.StatusBadRequest, biometrics.KindInvalidSourceFormat},
		{"empty value", models.ConversionRequest{Values: []models.Entry{{Key: "k"}}, SourceFormat: "ISO19794_4_2011", TargetFormat: "IMAGE_PNG"},
			http.StatusBadRequest, biometrics.KindSourceEmptyOrNull},
		{"truncated record", models.ConversionRequest{Values: []models.Entry{{Key: "k", Value: b64([]byte("FIR\x00"))}}, SourceFormat: "ISO19794_4_2011", TargetFormat: "IMAGE_PNG"},
			http.StatusBadRequest, biometrics.KindSourceNotValidIsoFormat},
		{"no wsq decoder", models.ConversionRequest{Values: []models.Entry{{Key: "k", Value: b64(wsq)}}, SourceFormat: "ISO19794_4_2011", TargetFormat: "IMAGE_JPEG"},
			http.StatusInternalServerError, biometrics.KindTechnicalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body, er := postJSON[models.ErrorResponse](t, testBaseURL+"/api/convert", tt.req)
			mustStatus(t, resp, tt.want, body)
			require.Equal(t, string(tt.kind), er.Error)
		})
	}
}

func TestLdsConvert_Success(t *testing.T) {
	state := startTestServer(t)

	req := models.LdsConversionRequest{
		DataGroups:   map[string]string{"DG4": irisDataGroupHex()},
		TargetFormat: "IMAGE_JPEG",
	}
	resp, body, lr := postJSON[models.LdsConversionResponse](t, testBaseURL+"/api/lds/convert", req)
	mustStatus(t, resp, http.StatusOK, body)
	require.Len(t, lr.Images, 1)

	got := lr.Images[0]
	require.Equal(t, "DG4", got.DataGroup)
	require.Equal(t, "Iris", got.Modality)
	require.Equal(t, biometrics.RightEye, got.Subtype)
	require.Equal(t, "image/jpeg", got.ContentType)
	require.NotEmpty(t, got.Data)
	require.Equal(t, 1, testutil.CollectAndCount(state.metrics.DataGroupTemplates))
}

func TestLdsConvert_SkipsUnrequestedModalities(t *testing.T) {
	startTestServer(t)

	req := models.LdsConversionRequest{
		DataGroups:   map[string]string{"DG4": irisDataGroupHex()},
		TargetFormat: "IMAGE_PNG",
		Modalities:   []string{"Face"},
	}
	resp, body, lr := postJSON[models.LdsConversionResponse](t, testBaseURL+"/api/lds/convert", req)
	mustStatus(t, resp, http.StatusOK, body)
	require.Empty(t, lr.Images)
}

func TestLdsConvert_Fail(t *testing.T) {
	startTestServer(t)

	tests := []struct {
		name string
		dgs  map[string]string
		kind biometrics.Kind
	}{
		{"no data groups", nil, biometrics.KindMissingInput},
		{"unsupported group", map[string]string{"DG1": "00"}, biometrics.KindMissingInput},
		{"not hex", map[string]string{"DG4": "zz"}, biometrics.KindInvalidInputFormat},
		{"content under wrong name", map[string]string{"DG3": irisDataGroupHex()}, biometrics.KindInvalidInputFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.LdsConversionRequest{DataGroups: tt.dgs, TargetFormat: "IMAGE_PNG"}
			resp, body, er := postJSON[models.ErrorResponse](t, testBaseURL+"/api/lds/convert", req)
			mustStatus(t, resp, http.StatusBadRequest, body)
			require.Equal(t, string(tt.kind), er.Error)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	startTestServer(t)

	req := models.ValidationRequest{Modality: "Iris", Subtype: biometrics.RightEye, Data: b64(irisRecord())}
	resp, body, _ := postJSON[models.ValidationResponse](t, testBaseURL+"/api/validate", req)
	mustStatus(t, resp, http.StatusOK, body)

	mresp, err := http.Get(testBaseURL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	require.Equal(t, http.StatusOK, mresp.StatusCode)

	text, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	require.Contains(t, string(text), "biometric_validations_total")
}

func TestStatusForKind(t *testing.T) {
	require.Equal(t, http.StatusUnprocessableEntity, statusForKind(biometrics.KindInvalidBiometricData))
	require.Equal(t, http.StatusUnsupportedMediaType, statusForKind(biometrics.KindUnsupportedCompressionType))
	require.Equal(t, http.StatusInternalServerError, statusForKind(biometrics.KindTechnicalError))
	require.Equal(t, http.StatusBadRequest, statusForKind(biometrics.KindSourceEmptyOrNull))
}
