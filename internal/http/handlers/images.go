package handlers

import (
	"encoding/json"
	"net/http"
)

type generateImageRequest struct {
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

type saveImageRequest struct {
	ImageURL string `json:"image_url"`
	Filename string `json:"filename"`
	SavePath string `json:"save_path"`
}

type generateAndSaveRequest struct {
	Prompt   string `json:"prompt"`
	Size     string `json:"size"`
	Quality  string `json:"quality"`
	Style    string `json:"style"`
	Filename string `json:"filename"`
	SavePath string `json:"save_path"`
}

// ImagesGenerate handles generate_image. Operation failures are reported in
// the 200 body; only a malformed payload is an HTTP-level error.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	result := a.Service.Generate(r.Context(), req.Prompt, req.Size, req.Quality, req.Style)
	a.json(w, http.StatusOK, result)
}

// ImagesSave handles save_generated_image.
func (a *App) ImagesSave(w http.ResponseWriter, r *http.Request) {
	var req saveImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	result := a.Service.Save(r.Context(), req.ImageURL, req.Filename, req.SavePath)
	a.json(w, http.StatusOK, result)
}

// ImagesGenerateAndSave handles the combined operation.
func (a *App) ImagesGenerateAndSave(w http.ResponseWriter, r *http.Request) {
	var req generateAndSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	result := a.Service.GenerateAndSave(r.Context(), req.Prompt, req.Size, req.Quality, req.Style, req.Filename, req.SavePath)
	a.json(w, http.StatusOK, result)
}
