package media

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"

	"github.com/julienschmidt/httprouter"

	"tessera/config"
	"tessera/models"
	"tessera/store"
	"tessera/utils"
)

type Handler struct {
	cfg   *config.Config
	media store.MediaStore
}

func NewHandler(cfg *config.Config, media store.MediaStore) *Handler {
	return &Handler{cfg: cfg, media: media}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Media file is required")
		return
	}
	defer file.Close()

	filename, err := utils.SaveImageFile(file, header, filepath.Join(h.cfg.UploadDir, "mediapic"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := models.NewMedia(utils.GenerateID(14), title, r.FormValue("type"), filename)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	item.Description = r.FormValue("description")

	if err := h.media.Insert(r.Context(), item); err != nil {
		log.Println("create media:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating media")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Media created successfully",
		"media":   item,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	items, err := h.media.List(r.Context())
	if err != nil {
		log.Println("list media:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching media")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "count": len(items), "media": items})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.media.Delete(r.Context(), ps.ByName("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Media not found")
			return
		}
		log.Println("delete media:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error deleting media")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Media deleted successfully"})
}
