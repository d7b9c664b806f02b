package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dukerupert/provisions/internal/grocery"
	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/websocket"
)

// maxBodyBytes bounds request bodies, imports included.
const maxBodyBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeValidation reports a failed grocery rule as 400 with its problems.
func writeValidation(w http.ResponseWriter, err error) {
	var verr *grocery.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "validation failed",
			"problems": verr.Problems,
		})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// location is the (hotel, date, section) triple addressed by an item route.
type location struct {
	hotel   model.Hotel
	date    string
	section model.Section
}

func parseHotelParam(w http.ResponseWriter, r *http.Request) (model.Hotel, bool) {
	hotel, err := model.ParseHotel(r.PathValue("hotel"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid hotel")
		return "", false
	}
	return hotel, true
}

func parseDateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.PathValue("date")
	if _, err := model.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return "", false
	}
	return date, true
}

func parseSectionParam(w http.ResponseWriter, r *http.Request) (model.Section, bool) {
	section, err := model.ParseSection(r.PathValue("section"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid section")
		return "", false
	}
	return section, true
}

func parseLocation(w http.ResponseWriter, r *http.Request) (location, bool) {
	hotel, ok := parseHotelParam(w, r)
	if !ok {
		return location{}, false
	}
	date, ok := parseDateParam(w, r)
	if !ok {
		return location{}, false
	}
	section, ok := parseSectionParam(w, r)
	if !ok {
		return location{}, false
	}
	return location{hotel: hotel, date: date, section: section}, true
}

func (l location) extra() map[string]any {
	return map[string]any{
		"hotel":   string(l.hotel),
		"date":    l.date,
		"section": string(l.section),
	}
}

type broadcaster struct {
	hub *websocket.Hub
}

func (b broadcaster) broadcast(msg websocket.Message) {
	if b.hub != nil {
		b.hub.Broadcast(msg)
	}
}
