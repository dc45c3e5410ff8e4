package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/auth"
)

type uploadImageResponse struct {
	Message string `json:"message"`
	ImageID *int64 `json:"imageId"`
}

// handleUploadImage accepts a multipart "image" file for receiverUserId. The
// sender is always the session user.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	senderID, _ := auth.UserIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxMultipartBytes)
	if err := r.ParseMultipartForm(s.maxMultipartBytes); err != nil {
		if isTooLarge(err) {
			s.writeError(w, r, apperrors.UploadTooLarge(err))
			return
		}
		s.writeError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, err, "malformed multipart request"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	receiverID := strings.TrimSpace(r.FormValue("receiverUserId"))
	if receiverID == "" {
		s.writeError(w, r, apperrors.InvalidInput("receiverUserId must not be null"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, apperrors.InvalidInput("Image file cannot be empty"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.WithError(err).Error("Failed to read/process uploaded image file")
		writeJSON(w, http.StatusInternalServerError, uploadImageResponse{Message: "Failed to process image file"})
		return
	}

	img, err := s.validator.Validate(data, header.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.images.UploadChatImage(r.Context(), img.Data, senderID, receiverID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadImageResponse{Message: "Image uploaded successfully", ImageID: &id})
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, r, apperrors.InvalidInput("image id must be numeric"))
		return
	}

	requesterID, _ := auth.UserIDFromContext(r.Context())
	image, err := s.images.GetChatImage(r.Context(), id, requesterID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mimetype.Detect(image.Content).String())
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image.Content)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
