package media

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"campuslink/internal/common"
	"campuslink/internal/dbmongo"
	"campuslink/internal/dbmysql"
)

const maxUploadBytes = 25 << 20 // 25 MiB

// HTTPServer serves attachment uploads and downloads. Bytes live in
// GridFS; a media_refs row in MySQL mirrors each upload so the
// messaging side can validate attachment_ref values.
type HTTPServer struct {
	storage *dbmongo.MediaStorage
	db      *gorm.DB
}

func NewHTTPServer(mongoClient *dbmongo.MongoClient, db *gorm.DB) *HTTPServer {
	return &HTTPServer{
		storage: dbmongo.NewMediaStorage(mongoClient),
		db:      db,
	}
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router := mux.NewRouter()

	router.HandleFunc("/media", s.uploadFile).Methods("POST")
	router.HandleFunc("/media/{fileId}", s.serveFile).Methods("GET")
	router.HandleFunc("/health", s.health).Methods("GET")

	router.ServeHTTP(w, r)
}

func (s *HTTPServer) uploadFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.WriteError(w, common.Wrap(common.ErrInvalid, "upload too large or malformed"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.WriteError(w, common.Wrap(common.ErrInvalid, "missing file field"))
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	uploaded, err := s.storage.UploadFile(r.Context(), header.Filename, mimeType, userID, file)
	if err != nil {
		log.Printf("media upload failed: %v", err)
		common.WriteError(w, common.Wrap(common.ErrTransient, "upload failed"))
		return
	}

	ref := dbmysql.MediaRef{
		FileID:      uploaded.ID,
		FileName:    uploaded.Filename,
		ContentType: mimeType,
		URL:         "/media/" + uploaded.ID,
		Size:        uploaded.Size,
		UploadedBy:  userID,
	}
	if err := s.db.WithContext(r.Context()).Create(&ref).Error; err != nil {
		log.Printf("media ref insert failed: %v", err)
	}

	common.WriteJSON(w, http.StatusCreated, uploaded)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	fileReader, mediaFile, err := s.storage.DownloadFile(r.Context(), fileID)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	contentType := mediaFile.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", mediaFile.Size))

	if _, err := io.Copy(w, fileReader); err != nil {
		log.Printf("error streaming file %s: %v", fileID, err)
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("media server is healthy"))
}
