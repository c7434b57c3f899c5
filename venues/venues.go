package venues

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"tessera/models"
	"tessera/store"
	"tessera/utils"
)

type Handler struct {
	venues store.VenueStore
}

func NewHandler(venues store.VenueStore) *Handler {
	return &Handler{venues: venues}
}

func fillVenueForm(r *http.Request, v *models.Venue) {
	if addr := r.FormValue("address"); addr != "" {
		v.Address = addr
	}
	if city := r.FormValue("city"); city != "" {
		v.City = city
	}
	if country := r.FormValue("country"); country != "" {
		v.Country = country
	}
	if cap := r.FormValue("capacity"); cap != "" {
		if n, err := strconv.Atoi(cap); err == nil {
			v.Capacity = n
		}
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	venue, err := models.NewVenue(utils.GenerateID(14), r.FormValue("name"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	fillVenueForm(r, venue)

	if err := h.venues.Insert(r.Context(), venue); err != nil {
		log.Println("create venue:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating venue")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "venue": venue})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	venues, err := h.venues.List(r.Context())
	if err != nil {
		log.Println("list venues:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching venues")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "count": len(venues), "venues": venues})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	venue, err := h.venues.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Venue not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching venue")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "venue": venue})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	venue, err := h.venues.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Venue not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error updating venue")
		return
	}

	if name := r.FormValue("name"); name != "" {
		venue.Name = name
	}
	fillVenueForm(r, venue)

	if err := h.venues.Update(r.Context(), venue); err != nil {
		log.Println("update venue:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error updating venue")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "venue": venue})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.venues.Delete(r.Context(), ps.ByName("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Venue not found")
			return
		}
		log.Println("delete venue:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error deleting venue")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Venue deleted successfully"})
}
