package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"estancia-digital/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// AnimalOwners resuelve el owner de un animal sin importar el paquete animals.
type AnimalOwners interface {
	OwnerOf(ctx context.Context, animalID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners AnimalOwners) {
	r.Route("/animals/{animalID}/events", func(er chi.Router) {
		er.Post("/", createEventHandler(svc, owners))
		er.Get("/", listEventsHandler(svc, owners))

		// Anular (void) una nota
		er.Post("/{eventID}/void", voidEventHandler(svc, owners))
	})
}

// createEventRequest es el cuerpo para registrar una nota en la bitácora del animal.
type createEventRequest struct {
	Type       EventType `json:"type" enums:"NOTE"`
	OccurredAt string    `json:"occurred_at"` // RFC3339
	Title      string    `json:"title"`
	Notes      string    `json:"notes"`

	// GestationID opcional: agrupa la nota con los eventos de esa gestación.
	GestationID string `json:"gestation_id"`
}

// eventResponse representa una entrada de la bitácora devuelta por la API.
type eventResponse struct {
	ID          string      `json:"id"`
	AnimalID    string      `json:"animal_id"`
	Type        EventType   `json:"type"`
	OccurredAt  time.Time   `json:"occurred_at"`
	RecordedAt  time.Time   `json:"recorded_at"`
	Title       string      `json:"title"`
	Notes       string      `json:"notes"`
	GestationID string      `json:"gestation_id,omitempty"`
	ActorType   ActorType   `json:"actor_type"`
	ActorID     string      `json:"actor_id"`
	Source      Source      `json:"source"`
	Status      EventStatus `json:"status"`
}

// createEventHandler godoc
// @Summary Registrar nota en la bitácora
// @Description Agrega una nota manual a la bitácora del animal. Solo el dueño. Los eventos de sistema (partos, bajas, gestaciones) se escriben automáticamente.
// @Tags events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param animalID path string true "ID del animal"
// @Param payload body createEventRequest true "Nota; occurred_at en formato RFC3339"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / occurred_at inválido / tipo no permitido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/events [post]
func createEventHandler(svc *Service, owners AnimalOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		animalID := chi.URLParam(r, "animalID")
		if !authorize(w, r, owners, animalID, claims.UserID) {
			return
		}

		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Type == "" {
			req.Type = TypeNote
		}

		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			http.Error(w, "occurred_at must be RFC3339", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), animalID, Actor{
			Type: ActorTypeOwnerUser,
			ID:   claims.UserID,
		}, CreateInput{
			Type:        req.Type,
			OccurredAt:  t,
			Title:       req.Title,
			Notes:       req.Notes,
			GestationID: req.GestationID,
			Source:      SourceManual,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// listEventsHandler godoc
// @Summary Listar bitácora de un animal
// @Description Lista eventos del animal (registro, gestaciones, partos, bajas, notas), más recientes primero.
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param animalID path string true "ID del animal"
// @Param limit query int false "Máximo de eventos a devolver (1-200). Por defecto 50"
// @Param types query string false "Lista CSV de tipos (ej: BIRTH_REGISTERED,NOTE)"
// @Param from query string false "occurred_at mínimo (RFC3339)"
// @Param to query string false "occurred_at máximo (RFC3339)"
// @Param gestation_id query string false "Solo eventos de esa gestación"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/events [get]
func listEventsHandler(svc *Service, owners AnimalOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		animalID := chi.URLParam(r, "animalID")
		if !authorize(w, r, owners, animalID, claims.UserID) {
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByAnimal(r.Context(), animalID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// voidEventHandler godoc
// @Summary Anular (void) una nota
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param animalID path string true "ID del animal"
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 400 {string} string "solo se anulan notas manuales"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "event not found"
// @Router /animals/{animalID}/events/{eventID}/void [post]
func voidEventHandler(svc *Service, owners AnimalOwners) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		animalID := chi.URLParam(r, "animalID")
		eventID := chi.URLParam(r, "eventID")

		if !authorize(w, r, owners, animalID, claims.UserID) {
			return
		}

		ev, err := svc.GetByID(r.Context(), eventID)
		if err != nil || ev.AnimalID != animalID {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		// Los eventos de sistema son parte del historial, no se anulan.
		if ev.Source != SourceManual {
			http.Error(w, "only manual notes can be voided", http.StatusBadRequest)
			return
		}

		updated, err := svc.Void(r.Context(), eventID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "event not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(updated))
	}
}

func authorize(w http.ResponseWriter, r *http.Request, owners AnimalOwners, animalID, userID string) bool {
	owner, err := owners.OwnerOf(r.Context(), animalID)
	if err != nil {
		http.Error(w, "animal not found", http.StatusNotFound)
		return false
	}
	if owner != userID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	limit := DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxListLimit {
			limit = n
		}
	}

	filter := ListFilter{
		Limit:       limit,
		GestationID: strings.TrimSpace(r.URL.Query().Get("gestation_id")),
	}

	// types=BIRTH_REGISTERED,NOTE
	if v := strings.TrimSpace(r.URL.Query().Get("types")); v != "" {
		parts := strings.Split(v, ",")
		out := make([]EventType, 0, len(parts))
		for _, p := range parts {
			t := EventType(strings.TrimSpace(p))
			if t == "" {
				continue
			}
			out = append(out, t)
		}
		if len(out) > 0 {
			filter.Types = out
		}
	}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	return filter, nil
}

func toEventResponse(e AnimalEvent) eventResponse {
	return eventResponse{
		ID:          e.ID,
		AnimalID:    e.AnimalID,
		Type:        e.Type,
		OccurredAt:  e.OccurredAt,
		RecordedAt:  e.RecordedAt,
		Title:       e.Title,
		Notes:       e.Notes,
		GestationID: e.GestationID,
		ActorType:   e.Actor.Type,
		ActorID:     e.Actor.ID,
		Source:      e.Source,
		Status:      e.Status,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
