package categories

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
	cfg        *config.Config
	categories store.CategoryStore
}

func NewHandler(cfg *config.Config, categories store.CategoryStore) *Handler {
	return &Handler{cfg: cfg, categories: categories}
}

func (h *Handler) uploadDir() string {
	return filepath.Join(h.cfg.UploadDir, "categorypic")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	category, err := models.NewCategory(utils.GenerateID(14), r.FormValue("name"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		filename, err := utils.SaveImageFile(file, header, h.uploadDir())
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		category.Image = filename
	}

	if err := h.categories.Insert(r.Context(), category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.RespondWithError(w, http.StatusConflict, "Category already exists")
			return
		}
		log.Println("create category:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating category")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "category": category})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		log.Println("list categories:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching categories")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "count": len(categories), "categories": categories})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	category, err := h.categories.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching category")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "category": category})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	category, err := h.categories.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error updating category")
		return
	}

	if name := r.FormValue("name"); name != "" {
		category.Name = name
	}
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		filename, err := utils.SaveImageFile(file, header, h.uploadDir())
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		category.Image = filename
	}

	if err := h.categories.Update(r.Context(), category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.RespondWithError(w, http.StatusConflict, "Category name already exists")
			return
		}
		log.Println("update category:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error updating category")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "category": category})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.categories.Delete(r.Context(), ps.ByName("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Println("delete category:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error deleting category")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Category deleted successfully"})
}
