package web

import (
	"io"
	"net/http"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/application/syncstore"
)

// maxUploadBytes bounds the whole multipart body. The store applies the
// 1 MiB per-image cap; this just stops oversized bodies early.
const maxUploadBytes = 2 << 20

// handleUpload accepts a multipart form with a "file" part and a "folder"
// field and returns the public URL of the stored image.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	folder := r.FormValue("folder")
	switch folder {
	case syncstore.FolderProfile, syncstore.FolderLogo, syncstore.FolderEvent:
	default:
		http.Error(w, "unknown upload folder", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		internalError(w, err)
		return
	}

	url, err := s.store.UploadImage(r.Context(), actor, folder, header.Header.Get("Content-Type"), data)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
