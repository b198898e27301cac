package labels

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"label-server/core"
	"label-server/fonts"
	"label-server/labeler"
)

// Mock labeler for testing
type mockLabeler struct {
	lastParams labeler.Params
	previewErr error
	printErr   error
	job        *core.PrintJob
}

func (m *mockLabeler) Defaults() labeler.Defaults {
	return labeler.Defaults{LabelSize: "62", Orientation: core.Normal}
}

func (m *mockLabeler) DefaultFont() fonts.Ref {
	return fonts.Ref{Family: "Go", Style: "Regular"}
}

func (m *mockLabeler) Fonts() map[string][]string {
	return map[string][]string{"Go": {"Bold", "Regular"}}
}

func (m *mockLabeler) Preview(ctx context.Context, p labeler.Params) (*image.Gray, error) {
	m.lastParams = p
	if m.previewErr != nil {
		return nil, m.previewErr
	}
	return image.NewGray(image.Rect(0, 0, 12, 8)), nil
}

func (m *mockLabeler) Print(ctx context.Context, p labeler.Params) (*core.PrintJob, error) {
	m.lastParams = p
	if !p.HasText {
		return nil, core.ErrMissingText
	}
	return m.job, m.printErr
}

func decodePrint(t *testing.T, rr *httptest.ResponseRecorder) PrintResponse {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp PrintResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestHandleListLabels(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/labels", nil)
	rr := httptest.NewRecorder()
	HandleListLabels(&mockLabeler{})(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp struct {
		Labels []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"labels"`
		DefaultLabelSize   string `json:"default_label_size"`
		DefaultOrientation string `json:"default_orientation"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Labels) == 0 {
		t.Error("expected the stock table in the response")
	}
	if resp.DefaultLabelSize != "62" || resp.DefaultOrientation != "standard" {
		t.Errorf("unexpected defaults: %+v", resp)
	}
}

func TestHandleListFonts(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/fonts", nil)
	rr := httptest.NewRecorder()
	HandleListFonts(&mockLabeler{})(rr, req)

	var resp fontsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Fonts["Go"]) != 2 || resp.DefaultFont.Family != "Go" {
		t.Errorf("unexpected fonts response: %+v", resp)
	}
}

func TestHandlePreview(t *testing.T) {
	t.Run("png by default", func(t *testing.T) {
		m := &mockLabeler{}
		req := httptest.NewRequest("GET", "/api/preview/text?text=Hello&font_size=40&align=left", nil)
		rr := httptest.NewRecorder()
		HandlePreview(m)(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
		}
		if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("expected image/png, got %q", ct)
		}
		img, err := png.Decode(rr.Body)
		if err != nil {
			t.Fatalf("response is not a PNG: %v", err)
		}
		if img.Bounds().Dx() != 12 {
			t.Errorf("unexpected image width %d", img.Bounds().Dx())
		}
		if m.lastParams.Text != "Hello" || m.lastParams.FontSize != 40 || m.lastParams.Align != core.AlignLeft {
			t.Errorf("params not passed through: %+v", m.lastParams)
		}
	})

	t.Run("base64", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/preview/text?text=Hi&return_format=base64", nil)
		rr := httptest.NewRecorder()
		HandlePreview(&mockLabeler{})(rr, req)

		if ct := rr.Header().Get("Content-Type"); ct != "text/plain" {
			t.Errorf("expected text/plain, got %q", ct)
		}
		data, err := base64.StdEncoding.DecodeString(rr.Body.String())
		if err != nil {
			t.Fatalf("body is not base64: %v", err)
		}
		if _, err := png.Decode(strings.NewReader(string(data))); err != nil {
			t.Errorf("decoded body is not a PNG: %v", err)
		}
	})

	t.Run("form post", func(t *testing.T) {
		m := &mockLabeler{}
		form := url.Values{"text": {"Posted"}, "label_size": {"29x90"}, "orientation": {"rotated"}}
		req := httptest.NewRequest("POST", "/api/preview/text", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		HandlePreview(m)(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if m.lastParams.LabelSize != "29x90" || m.lastParams.Orientation != core.Rotated {
			t.Errorf("form values not used: %+v", m.lastParams)
		}
	})

	t.Run("invalid params", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/preview/text?font_size=abc", nil)
		rr := httptest.NewRecorder()
		HandlePreview(&mockLabeler{})(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
		}
	})

	t.Run("oversized label", func(t *testing.T) {
		for _, query := range []string{
			"text=a&margin_top=1000000000",
			"text=a&margin_bottom=1e14",
			"text=a&font_size=100000",
		} {
			m := &mockLabeler{}
			req := httptest.NewRequest("GET", "/api/preview/text?"+query, nil)
			rr := httptest.NewRecorder()
			HandlePreview(m)(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status %d, got %d", query, http.StatusBadRequest, rr.Code)
			}
		}

		m := &mockLabeler{previewErr: core.ErrInvalidGeometry}
		req := httptest.NewRequest("GET", "/api/preview/text?text=a&font_size=1000&margin_top=1000", nil)
		rr := httptest.NewRecorder()
		HandlePreview(m)(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
		}
	})

	t.Run("unknown label size", func(t *testing.T) {
		m := &mockLabeler{previewErr: core.ErrInvalidLabelSize}
		req := httptest.NewRequest("GET", "/api/preview/text?label_size=nope", nil)
		rr := httptest.NewRecorder()
		HandlePreview(m)(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
		}
	})

	t.Run("internal error", func(t *testing.T) {
		m := &mockLabeler{previewErr: errors.New("boom")}
		req := httptest.NewRequest("GET", "/api/preview/text?text=x", nil)
		rr := httptest.NewRecorder()
		HandlePreview(m)(rr, req)
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
		}
	})

	t.Run("bad return format", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/preview/text?return_format=jpeg", nil)
		rr := httptest.NewRecorder()
		HandlePreview(&mockLabeler{})(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
		}
	})
}

func TestHandlePrint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := &mockLabeler{job: &core.PrintJob{ID: "job-1", Status: core.JobPrinted}}
		req := httptest.NewRequest("POST", "/api/print/text?text=Hello", nil)
		rr := httptest.NewRecorder()
		HandlePrint(m)(rr, req)

		resp := decodePrint(t, rr)
		if !resp.Success || resp.JobID != "job-1" || resp.Status != "printed" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("missing text", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/print/text", nil)
		rr := httptest.NewRecorder()
		HandlePrint(&mockLabeler{})(rr, req)

		resp := decodePrint(t, rr)
		if resp.Success || resp.Error != "Please provide the text for the label" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("invalid params", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/print/text?text=x&threshold=300", nil)
		rr := httptest.NewRecorder()
		HandlePrint(&mockLabeler{})(rr, req)

		resp := decodePrint(t, rr)
		if resp.Success || resp.Error == "" {
			t.Errorf("expected an error, got %+v", resp)
		}
	})

	t.Run("font unavailable", func(t *testing.T) {
		m := &mockLabeler{printErr: core.ErrFontUnavailable}
		req := httptest.NewRequest("GET", "/api/print/text?text=x&font_family=Nope", nil)
		rr := httptest.NewRecorder()
		HandlePrint(m)(rr, req)

		resp := decodePrint(t, rr)
		if resp.Success || !strings.Contains(resp.Error, "font") {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		m := &mockLabeler{
			job:      &core.PrintJob{ID: "job-2", Status: core.JobFailed},
			printErr: errors.New("printer transport: connection refused"),
		}
		req := httptest.NewRequest("GET", "/api/print/text?text=x", nil)
		rr := httptest.NewRecorder()
		HandlePrint(m)(rr, req)

		resp := decodePrint(t, rr)
		if resp.Success || resp.Error != "" || !strings.Contains(resp.Message, "connection refused") {
			t.Errorf("unexpected response: %+v", resp)
		}
		if resp.JobID != "job-2" || resp.Status != "failed" {
			t.Errorf("failed job not reported: %+v", resp)
		}
	})
}
