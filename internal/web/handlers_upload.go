package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/residuos/internal/core"
	"github.com/JonMunkholm/residuos/internal/logging"
)

// multipartOverhead is the allowance for form boundaries and headers on
// top of the file size limit.
const multipartOverhead = 1 << 20

// maxMemory is how much of a multipart form is buffered in memory before
// spilling to temporary files.
const maxMemory = 32 << 20

// UploadResponse is the JSON answer of POST /api/upload.
type UploadResponse struct {
	SessionID string       `json:"session_id"`
	FileName  string       `json:"file_name"`
	Format    core.Format  `json:"format"`
	Records   int          `json:"records"`
	Options   core.Options `json:"options"`
}

// receiveUpload reads the multipart "file" field and hands it to the service.
func (s *Server) receiveUpload(w http.ResponseWriter, r *http.Request) (*core.Session, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.service.MaxFileSize()+multipartOverhead)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, fmt.Errorf("%w: limit is %d MB", core.ErrFileTooLarge, s.service.MaxFileSize()>>20)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, core.ErrNoFile
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	sess, err := s.service.Upload(ctx, header.Filename, file)
	if err != nil {
		return nil, err
	}

	logging.FromContext(r.Context()).Info("upload accepted",
		"session_id", sess.ID,
		"file", header.Filename,
		"size", header.Size,
	)
	return sess, nil
}

// handleUpload accepts the upload form and redirects to the dashboard.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.receiveUpload(w, r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	http.Redirect(w, r, "/session/"+sess.ID.String(), http.StatusSeeOther)
}

// handleAPIUpload accepts a multipart upload and answers with the new session.
func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.receiveUpload(w, r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, UploadResponse{
		SessionID: sess.ID.String(),
		FileName:  sess.FileName,
		Format:    sess.Format,
		Records:   sess.Dataset.Len(),
		Options:   sess.Dataset.Options(),
	})
}
