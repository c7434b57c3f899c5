package events

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/julienschmidt/httprouter"

	"tessera/config"
	"tessera/middleware"
	"tessera/models"
	"tessera/store"
	"tessera/utils"
)

type Handler struct {
	cfg    *config.Config
	events store.EventStore
}

func NewHandler(cfg *config.Config, events store.EventStore) *Handler {
	return &Handler{cfg: cfg, events: events}
}

func (h *Handler) uploadDir() string {
	return filepath.Join(h.cfg.UploadDir, "eventpic")
}

// parseEventForm reads the multipart fields shared by create and update.
func parseEventForm(r *http.Request, e *models.Event) error {
	e.Title = r.FormValue("title")
	e.Description = r.FormValue("description")
	e.CategoryID = r.FormValue("category")
	e.VenueID = r.FormValue("venue")

	if v := r.FormValue("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return errors.New("invalid start date")
		}
		e.StartDate = t.UTC()
	}
	if v := r.FormValue("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return errors.New("invalid end date")
		}
		e.EndDate = t.UTC()
	}

	for _, tier := range []struct {
		field string
		dst   *models.PriceTier
	}{
		{"normalPrice", &e.NormalPrice},
		{"vipPrice", &e.VIPPrice},
	} {
		if v := r.FormValue(tier.field); v != "" {
			if err := json.Unmarshal([]byte(v), tier.dst); err != nil {
				return errors.New("invalid " + tier.field)
			}
		}
	}
	if v := r.FormValue("isPublished"); v != "" {
		e.IsPublished = v == "true"
	}
	return nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	event, err := models.NewEvent(utils.GenerateID(14), r.FormValue("title"), middleware.UserID(r), parseStart(r))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := parseEventForm(r, event); err != nil {
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
		event.Image = filename
	} else if err != http.ErrMissingFile {
		utils.RespondWithError(w, http.StatusBadRequest, "Error retrieving image file")
		return
	}

	if err := h.events.Insert(r.Context(), event); err != nil {
		log.Println("create event:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating event")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "event": event})
}

func parseStart(r *http.Request) time.Time {
	if v := r.FormValue("startDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// List returns all events for organizers and admins; everyone else sees
// only published events.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	onlyPublished := !middleware.Authorize(middleware.Role(r), models.RoleOrganizer, models.RoleAdmin)
	events, err := h.events.List(r.Context(), onlyPublished)
	if err != nil {
		log.Println("list events:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching events")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "count": len(events), "events": events})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.events.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Println("get event:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching event")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "event": event})
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	events, err := h.events.ListByCategory(r.Context(), ps.ByName("categoryId"))
	if err != nil {
		log.Println("events by category:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching events")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "count": len(events), "events": events})
}

func (h *Handler) ListByVenue(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	events, err := h.events.ListByVenue(r.Context(), ps.ByName("venueId"))
	if err != nil {
		log.Println("events by venue:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching events")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "count": len(events), "events": events})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	event, err := h.events.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error updating event")
		return
	}

	if err := parseEventForm(r, event); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if event.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "title is required")
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		filename, err := utils.SaveImageFile(file, header, h.uploadDir())
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		event.Image = filename
	}

	if err := h.events.Update(r.Context(), event); err != nil {
		log.Println("update event:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error updating event")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "event": event})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.events.Delete(r.Context(), ps.ByName("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Println("delete event:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error deleting event")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Event deleted successfully"})
}
