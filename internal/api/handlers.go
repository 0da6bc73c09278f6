package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/sarawak-explorer/itinerary/internal/export"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// createEntryRequest adds either a free-text entry (Description) or a
// catalog entry (Region + AttractionID).
type createEntryRequest struct {
	Description  string `json:"description"`
	Region       string `json:"region"`
	AttractionID string `json:"attractionId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

type scheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type regionSummary struct {
	Name        string  `json:"name"`
	Color       string  `json:"color,omitempty"`
	Attractions int     `json:"attractions"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// parseSchedule decodes optional date and time strings. An empty string
// leaves the field absent so validation reports it.
func parseSchedule(date, tod string) (*schedule.Date, *schedule.TimeOfDay, error) {
	var d *schedule.Date
	var t *schedule.TimeOfDay
	if strings.TrimSpace(date) != "" {
		v, err := schedule.DecodeDate(date)
		if err != nil {
			return nil, nil, err
		}
		d = &v
	}
	if strings.TrimSpace(tod) != "" {
		v, err := schedule.DecodeTime(tod)
		if err != nil {
			return nil, nil, err
		}
		t = &v
	}
	return d, t, nil
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := s.svc.ListEntries(r.Context())
	if err != nil {
		respondWithErr(w, err)
		return
	}
	if r.URL.Query().Get("order") == "schedule" {
		entries = export.Chronological(entries)
	}
	respondWithJSON(w, http.StatusOK, entries)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	e, err := s.svc.GetEntry(r.Context(), ps.ByName("id"))
	if err != nil {
		respondWithErr(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, e)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithErr(w, err)
		return
	}
	d, t, err := parseSchedule(req.Date, req.Time)
	if err != nil {
		respondWithErr(w, err)
		return
	}

	var e itinerary.Entry
	if req.AttractionID != "" {
		if d == nil || t == nil {
			respondWithErr(w, &itinerary.ValidationError{Kind: itinerary.MissingSchedule})
			return
		}
		e, err = s.svc.AddFromCatalog(r.Context(), req.Region, req.AttractionID, *d, *t)
	} else {
		e, err = s.svc.AddEntry(r.Context(), itinerary.Draft{Description: req.Description, Date: d, Time: t})
	}
	if err != nil {
		respondWithErr(w, err)
		return
	}

	w.Header().Set("Location", "/v1/entries/"+e.ID)
	respondWithJSON(w, http.StatusCreated, e)
}

func (s *Server) updateSchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req scheduleRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithErr(w, err)
		return
	}
	d, t, err := parseSchedule(req.Date, req.Time)
	if err != nil {
		respondWithErr(w, err)
		return
	}
	if d == nil || t == nil {
		respondWithErr(w, &itinerary.ValidationError{Kind: itinerary.MissingSchedule})
		return
	}

	e, err := s.svc.UpdateEntrySchedule(r.Context(), ps.ByName("id"), *d, *t)
	if err != nil {
		respondWithErr(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.svc.DeleteEntry(r.Context(), ps.ByName("id")); err != nil {
		respondWithErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRegions(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	cat := s.svc.Catalog()
	names := cat.Regions()
	out := make([]regionSummary, 0, len(names))
	for _, name := range names {
		region, err := cat.Region(name)
		if err != nil {
			respondWithErr(w, err)
			return
		}
		lat, lng, _ := region.Center()
		out = append(out, regionSummary{
			Name:        region.Name,
			Color:       region.Color,
			Attractions: len(region.Attractions),
			Latitude:    lat,
			Longitude:   lng,
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) getRegion(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	region, err := s.svc.Catalog().Region(ps.ByName("region"))
	if err != nil {
		respondWithErr(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, region)
}

func (s *Server) exportICS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := s.svc.ListEntries(r.Context())
	if err != nil {
		respondWithErr(w, err)
		return
	}

	opts := s.opts.Export
	opts.Now = s.svc.Clock().Now()

	var buf bytes.Buffer
	if err := export.ICS(&buf, entries, opts); err != nil {
		respondWithErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=itinerary.ics")
	_, _ = w.Write(buf.Bytes())
}
