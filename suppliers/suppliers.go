package suppliers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"tessera/config"
	"tessera/models"
	"tessera/store"
	"tessera/utils"
)

type Handler struct {
	cfg       *config.Config
	suppliers store.SupplierStore
}

func NewHandler(cfg *config.Config, suppliers store.SupplierStore) *Handler {
	return &Handler{cfg: cfg, suppliers: suppliers}
}

func (h *Handler) uploadDir() string {
	return filepath.Join(h.cfg.UploadDir, "supplierpic")
}

func (h *Handler) listWith(w http.ResponseWriter, r *http.Request, f store.SupplierFilter) {
	suppliers, err := h.suppliers.ListActive(r.Context(), f)
	if err != nil {
		log.Println("list suppliers:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching suppliers")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "suppliers": suppliers})
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listWith(w, r, store.SupplierFilter{})
}

func (h *Handler) ListPopular(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listWith(w, r, store.SupplierFilter{PopularOnly: true})
}

func (h *Handler) ListTrending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listWith(w, r, store.SupplierFilter{TrendingOnly: true})
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.listWith(w, r, store.SupplierFilter{Category: ps.ByName("category")})
}

func fillSupplierForm(r *http.Request, s *models.Supplier) {
	if v := r.FormValue("category"); v != "" {
		s.Category = v
	}
	if v := r.FormValue("description"); v != "" {
		s.Description = v
	}
	if v := r.FormValue("location"); v != "" {
		s.Location = v
	}
	if v := r.FormValue("contactInfo"); v != "" {
		s.ContactInfo = v
	}
	if v := r.FormValue("rating"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Rating = f
		}
	}
	if v := r.FormValue("reviews"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.Reviews = n
		}
	}
	if v := r.FormValue("isPopular"); v != "" {
		s.IsPopular = v == "true"
	}
	if v := r.FormValue("isTrending"); v != "" {
		s.IsTrending = v == "true"
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	supplier, err := models.NewSupplier(utils.GenerateID(14), r.FormValue("name"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	fillSupplierForm(r, supplier)

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		filename, err := utils.SaveImageFile(file, header, h.uploadDir())
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		supplier.Image = filename
	}

	if err := h.suppliers.Insert(r.Context(), supplier); err != nil {
		log.Println("create supplier:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating supplier")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":  true,
		"message":  "Supplier created successfully",
		"supplier": supplier,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	supplier, err := h.suppliers.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error updating supplier")
		return
	}

	if name := r.FormValue("name"); name != "" {
		supplier.Name = name
	}
	fillSupplierForm(r, supplier)

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		filename, err := utils.SaveImageFile(file, header, h.uploadDir())
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		supplier.Image = filename
	}

	if err := h.suppliers.Update(r.Context(), supplier); err != nil {
		log.Println("update supplier:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error updating supplier")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"message":  "Supplier updated successfully",
		"supplier": supplier,
	})
}

// Delete soft-deletes: the supplier is marked inactive and disappears
// from active listings, but the record stays in storage.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.suppliers.SoftDelete(r.Context(), ps.ByName("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		log.Println("delete supplier:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error deleting supplier")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Supplier deleted successfully",
	})
}
