package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const multipartMemory = 8 << 20

// UploadFeaturedImage stores the multipart field "image" and answers with
// {url, objectName}; the url is what posts carry as featuredImage.
func (h *Handlers) UploadFeaturedImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.metrics.RecordUpload("rejected")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeProcedureError(w, failure{status: http.StatusRequestEntityTooLarge, code: "PAYLOAD_TOO_LARGE", message: "image is too large"})
			return
		}
		writeProcedureError(w, failure{status: http.StatusBadRequest, code: "BAD_REQUEST", message: "expected a multipart form"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		h.metrics.RecordUpload("rejected")
		writeProcedureError(w, failure{status: http.StatusBadRequest, code: "BAD_REQUEST", message: "image field is required"})
		return
	}
	defer file.Close()

	img, err := h.services.Image.UploadFeaturedImage(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		f := h.classify(err, "Failed to upload image", zap.String("file", header.Filename))
		h.metrics.RecordUpload(f.code)
		writeProcedureError(w, f)
		return
	}

	h.metrics.RecordUpload("ok")
	h.logger.Info("featured image uploaded", zap.String("object", img.ObjectName), zap.Int64("size", header.Size))
	writeSuccess(w, img, http.StatusCreated)
}

func (h *Handlers) DeleteFeaturedImage(w http.ResponseWriter, r *http.Request) {
	objectName := mux.Vars(r)["objectName"]

	if err := h.services.Image.DeleteFeaturedImage(r.Context(), objectName); err != nil {
		writeProcedureError(w, h.classify(err, "Failed to delete image", zap.String("object", objectName)))
		return
	}

	writeSuccess(w, SuccessResponse{Success: true}, http.StatusOK)
}
