package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"label-server/core"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

func HandleListJobs(store core.JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := DefaultLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, map[string]string{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, MaxLimit)
		}

		jobs, err := store.List(r.Context(), limit)
		if err != nil {
			logrus.WithError(err).Error("Failed to list print jobs")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to list print jobs"})
			return
		}

		if jobs == nil {
			jobs = []*core.PrintJob{}
		}
		render.JSON(w, r, jobs)
	}
}

func getJob(w http.ResponseWriter, r *http.Request, store core.JobStore) (*core.PrintJob, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Job id is required"})
		return nil, false
	}

	job, err := store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrJobNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Print job not found"})
			return nil, false
		}
		logrus.WithFields(logrus.Fields{
			"error":  err,
			"job_id": id,
		}).Error("Failed to get print job")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Failed to get print job"})
		return nil, false
	}
	return job, true
}

func HandleGetJob(store core.JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := getJob(w, r, store)
		if !ok {
			return
		}
		job.Preview = nil
		render.JSON(w, r, job)
	}
}

func HandleGetPreview(store core.JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := getJob(w, r, store)
		if !ok {
			return
		}
		if len(job.Preview) == 0 {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Print job has no preview"})
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(job.Preview)
	}
}

func HandleDeleteJob(store core.JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.Delete(r.Context(), id); err != nil {
			if errors.Is(err, core.ErrJobNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, map[string]string{"error": "Print job not found"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"error":  err,
				"job_id": id,
			}).Error("Failed to delete print job")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to delete print job"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
