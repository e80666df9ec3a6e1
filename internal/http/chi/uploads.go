package chi

import (
	"errors"
	"net/http"

	"github.com/marcelsud/webhook-messenger/metrics"
	"github.com/marcelsud/webhook-messenger/upload"
)

// postUpload handles POST /v1/upload: one multipart image file.
func postUpload(uploads upload.UseCase, rec *metrics.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			rec.RecordUpload(r.Context(), false)
			respondError(w, http.StatusBadRequest, "No file provided")
			return
		}
		defer file.Close()

		url, err := uploads.Accept(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
		if err != nil {
			rec.RecordUpload(r.Context(), false)
			switch {
			case errors.Is(err, upload.ErrNotImage):
				respondError(w, http.StatusBadRequest, "File must be an image")
			case errors.Is(err, upload.ErrTooLarge):
				respondError(w, http.StatusBadRequest, "File must be less than 8MB")
			case errors.Is(err, upload.ErrNoFile):
				respondError(w, http.StatusBadRequest, "No file provided")
			default:
				respondError(w, http.StatusInternalServerError, "Failed to upload file")
			}
			return
		}

		rec.RecordUpload(r.Context(), true)
		respondJSON(w, http.StatusOK, map[string]string{"url": url})
	})
}
