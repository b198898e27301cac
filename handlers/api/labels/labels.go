package labels

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"label-server/core"
	"label-server/fonts"
	"label-server/labeler"
	stock "label-server/labels"
)

// Labeler is the part of labeler.Service the label routes use.
type Labeler interface {
	Defaults() labeler.Defaults
	DefaultFont() fonts.Ref
	Fonts() map[string][]string
	Preview(ctx context.Context, p labeler.Params) (*image.Gray, error)
	Print(ctx context.Context, p labeler.Params) (*core.PrintJob, error)
}

type labelsResponse struct {
	Labels             []stock.Size `json:"labels"`
	DefaultLabelSize   string       `json:"default_label_size"`
	DefaultOrientation string       `json:"default_orientation"`
}

type fontsResponse struct {
	Fonts       map[string][]string `json:"fonts"`
	DefaultFont fonts.Ref           `json:"default_font"`
}

// PrintResponse is the body of every /api/print/text reply.
type PrintResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	JobID   string `json:"job_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

func HandleListLabels(svc Labeler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := svc.Defaults()
		render.JSON(w, r, labelsResponse{
			Labels:             stock.All(),
			DefaultLabelSize:   d.LabelSize,
			DefaultOrientation: d.Orientation.String(),
		})
	}
}

func HandleListFonts(svc Labeler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, fontsResponse{
			Fonts:       svc.Fonts(),
			DefaultFont: svc.DefaultFont(),
		})
	}
}

func parseParams(r *http.Request, svc Labeler) (labeler.Params, error) {
	if err := r.ParseForm(); err != nil {
		return labeler.Params{}, errors.Join(core.ErrInvalidParams, err)
	}
	return labeler.ParseParams(r.Form, svc.Defaults())
}

func HandlePreview(svc Labeler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := parseParams(r, svc)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}

		img, err := svc.Preview(r.Context(), p)
		if err != nil {
			status := http.StatusInternalServerError
			if labeler.IsClientError(err) {
				status = http.StatusBadRequest
			}
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"label_size": p.LabelSize,
			}).Warn("Failed to render preview")
			render.Status(r, status)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}

		data, err := labeler.EncodePNG(img)
		if err != nil {
			logrus.WithError(err).Error("Failed to encode preview")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to encode preview"})
			return
		}

		switch r.Form.Get("return_format") {
		case "base64":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte(base64.StdEncoding.EncodeToString(data)))
		case "", "png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(data)
		default:
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "return_format must be png or base64"})
		}
	}
}

// HandlePrint always answers 200 with a PrintResponse; failures are reported
// in the body.
func HandlePrint(svc Labeler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := parseParams(r, svc)
		if err != nil {
			render.JSON(w, r, PrintResponse{Error: err.Error()})
			return
		}

		job, err := svc.Print(r.Context(), p)
		resp := PrintResponse{Success: err == nil}
		if job != nil {
			resp.JobID = job.ID
			resp.Status = string(job.Status)
		}
		switch {
		case err == nil:
		case errors.Is(err, core.ErrMissingText):
			resp.Error = "Please provide the text for the label"
		case labeler.IsClientError(err):
			resp.Error = err.Error()
		default:
			// transport failures and anything else the printer reported
			resp.Message = err.Error()
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"label_size": p.LabelSize,
				"job_id":     resp.JobID,
			}).Warn("Failed to print label")
		}
		render.JSON(w, r, resp)
	}
}
