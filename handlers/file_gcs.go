package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"time"

	"cloud.google.com/go/storage"
)

// uploadTimeout bounds one photo upload end to end. The old client raced
// uploads against 20-45s depending on device; the server uses the upper bound.
const uploadTimeout = 45 * time.Second

// UploadPhotoGCS uploads a photo to the Google Cloud Storage bucket and
// returns its public URL.
func UploadPhotoGCS(w http.ResponseWriter, r *http.Request) {
	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		http.Error(w, "GCS_BUCKET not set in environment", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), uploadTimeout)
	defer cancel()

	client, err := storage.NewClient(ctx)
	if err != nil {
		http.Error(w, "storage client: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer client.Close()

	objectName := fmt.Sprintf("work-reports/%s-%s", time.Now().Format("20060102-150405"), header.Filename)

	obj := client.Bucket(bucketName).Object(objectName)
	writer := obj.NewWriter(ctx)
	if ct := mime.TypeByExtension(path.Ext(header.Filename)); ct != "" {
		writer.ContentType = ct
	}

	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		http.Error(w, "upload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := writer.Close(); err != nil {
		http.Error(w, "upload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"url":      url,
		"filename": objectName,
	})
}
