package gestations

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"estancia-digital/internal/domain/animals"
	"estancia-digital/internal/middleware"
	"estancia-digital/internal/ports/storage"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/gestations", func(gr chi.Router) {
		gr.Post("/", createGestationHandler(svc))
		gr.Get("/", listGestationsHandler(svc))

		// Barrido de atrasadas (solo lectura)
		gr.Post("/sweep", sweepHandler(svc))

		gr.Get("/{gestationID}", getGestationHandler(svc))
		gr.Patch("/{gestationID}", updateGestationHandler(svc))

		// Resultado: registrar (cierra) y corregir (ya cerrada)
		gr.Post("/{gestationID}/outcome", applyOutcomeHandler(svc))
		gr.Patch("/{gestationID}/outcome", correctOutcomeHandler(svc))
	})
}

type createGestationRequest struct {
	AnimalID string `json:"animal_id"`

	ConfirmationDate string `json:"confirmation_date"` // YYYY-MM-DD o RFC3339
	ConfirmedDays    *int   `json:"confirmed_days"`
	ServiceDate      string `json:"service_date"` // YYYY-MM-DD o RFC3339

	ServiceType ServiceType `json:"service_type" enums:"natural_mount,artificial_insemination,embryo_transfer"`
	SireID      string      `json:"sire_id"`
	SemenBatch  string      `json:"semen_batch"`

	DietNotes           string   `json:"diet_notes"`
	Medications         []string `json:"medications"`
	Restrictions        []string `json:"restrictions"`
	RecommendedExercise string   `json:"recommended_exercise"`
	InitialWeight       *float64 `json:"initial_weight"`
}

type updateGestationRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	ConfirmationDate *string `json:"confirmation_date"`
	ConfirmedDays    *int    `json:"confirmed_days"`
	ServiceDate      *string `json:"service_date"`

	ServiceType *ServiceType `json:"service_type"`
	SireID      *string      `json:"sire_id"`
	SemenBatch  *string      `json:"semen_batch"`

	DietNotes           *string   `json:"diet_notes"`
	Medications         *[]string `json:"medications"`
	Restrictions        *[]string `json:"restrictions"`
	RecommendedExercise *string   `json:"recommended_exercise"`
	CurrentWeight       *float64  `json:"current_weight"`
}

type offspringRequest struct {
	Tag         string      `json:"tag" validate:"required"`
	Sex         animals.Sex `json:"sex" enums:"female,male" validate:"required"`
	BirthWeight *float64    `json:"birth_weight" validate:"required"` // kg; 0 solo explícito
	Notes       string      `json:"notes"`
}

type outcomeRequest struct {
	Kind              OutcomeKind        `json:"kind" enums:"birth,difficult_birth,complications,abortion"`
	EventDate         string             `json:"event_date"` // YYYY-MM-DD o RFC3339
	BirthMode         BirthMode          `json:"birth_mode" enums:"normal,cesarean,assisted"`
	ComplicationNotes string             `json:"complication_notes"`
	Offspring         []offspringRequest `json:"offspring"`
}

type correctionRequest struct {
	State             *State     `json:"state" enums:"successful_birth,difficult_birth,complications"`
	EventDate         *string    `json:"event_date"`
	BirthMode         *BirthMode `json:"birth_mode"`
	ComplicationNotes *string    `json:"complication_notes"`
}

type stageResponse struct {
	Baseline      Baseline  `json:"baseline"`
	BaselineDate  time.Time `json:"baseline_date"`
	CurrentDay    int       `json:"current_day"`
	Trimester     int       `json:"trimester"`
	DueDate       time.Time `json:"due_date"`
	RemainingDays int       `json:"remaining_days"`
	Overdue       bool      `json:"overdue"`
	ComputedAt    time.Time `json:"computed_at"`
}

type offspringResponse struct {
	Tag         string      `json:"tag"`
	Sex         animals.Sex `json:"sex"`
	BirthWeight float64     `json:"birth_weight"`
	Notes       string      `json:"notes,omitempty"`
}

type gestationResponse struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	AnimalID   string `json:"animal_id"`
	AnimalTag  string `json:"animal_tag"`
	AnimalName string `json:"animal_name,omitempty"`

	ConfirmationDate *time.Time `json:"confirmation_date,omitempty"`
	ConfirmedDays    *int       `json:"confirmed_days,omitempty"`
	ServiceDate      *time.Time `json:"service_date,omitempty"`

	ServiceType ServiceType `json:"service_type,omitempty"`
	SireID      string      `json:"sire_id,omitempty"`
	SemenBatch  string      `json:"semen_batch,omitempty"`

	DietNotes           string   `json:"diet_notes,omitempty"`
	Medications         []string `json:"medications"`
	Restrictions        []string `json:"restrictions"`
	RecommendedExercise string   `json:"recommended_exercise,omitempty"`
	InitialWeight       *float64 `json:"initial_weight,omitempty"`
	CurrentWeight       *float64 `json:"current_weight,omitempty"`

	State  State `json:"state"`
	Active bool  `json:"active"`

	EventDate         *time.Time          `json:"event_date,omitempty"`
	BirthMode         BirthMode           `json:"birth_mode,omitempty"`
	ComplicationNotes string              `json:"complication_notes,omitempty"`
	Offspring         []offspringResponse `json:"offspring,omitempty"`

	Stage stageResponse `json:"stage"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

type outcomeResponse struct {
	Gestation        gestationResponse `json:"gestation"`
	OffspringCreated int               `json:"offspring_created"`
}

type sweepResponse struct {
	Checked    int                 `json:"checked"`
	Flagged    int                 `json:"flagged"`
	Overdue    []gestationResponse `json:"overdue"`
	ComputedAt time.Time           `json:"computed_at"`
}

// createGestationHandler godoc
// @Summary Abrir gestación
// @Description Abre una gestación para una hembra activa. Falla con 409 si ya tiene una activa.
// @Tags gestations
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param payload body createGestationRequest true "Gestación"
// @Success 201 {object} gestationResponse
// @Failure 400 {string} string "invalid json / datos inválidos / no es hembra / inactiva"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Failure 409 {string} string "animal already has an active gestation"
// @Router /gestations [post]
func createGestationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createGestationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		conf, err := parseOptionalDate(req.ConfirmationDate)
		if err != nil {
			http.Error(w, "confirmation_date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}
		service, err := parseOptionalDate(req.ServiceDate)
		if err != nil {
			http.Error(w, "service_date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			AnimalID:            req.AnimalID,
			ConfirmationDate:    conf,
			ConfirmedDays:       req.ConfirmedDays,
			ServiceDate:         service,
			ServiceType:         req.ServiceType,
			SireID:              req.SireID,
			SemenBatch:          req.SemenBatch,
			DietNotes:           req.DietNotes,
			Medications:         req.Medications,
			Restrictions:        req.Restrictions,
			RecommendedExercise: req.RecommendedExercise,
			InitialWeight:       req.InitialWeight,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toGestationResponse(v))
	}
}

// listGestationsHandler godoc
// @Summary Listar gestaciones
// @Description Lista gestaciones del owner ordenadas por fecha probable de parto. Las cifras (día, trimestre, restantes, atrasada) se calculan en el momento.
// @Tags gestations
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param active query bool false "Solo activas"
// @Success 200 {array} gestationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /gestations [get]
func listGestationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

		items, res, err := svc.List(r.Context(), claims.UserID, activeOnly)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]gestationResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toGestationResponse(v))
		}

		w.Header().Set("X-Overdue-Count", strconv.Itoa(len(res.Flagged)))
		writeJSON(w, http.StatusOK, out)
	}
}

// getGestationHandler godoc
// @Summary Obtener gestación
// @Tags gestations
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param gestationID path string true "ID de la gestación"
// @Success 200 {object} gestationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "gestation not found"
// @Router /gestations/{gestationID} [get]
func getGestationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		v, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "gestationID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toGestationResponse(v))
	}
}

// updateGestationHandler godoc
// @Summary Editar gestación activa
// @Description Edita línea base y cuidados. La fecha probable de parto se recalcula.
// @Tags gestations
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param gestationID path string true "ID de la gestación"
// @Param payload body updateGestationRequest true "Campos a editar"
// @Success 200 {object} gestationResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "gestation not found"
// @Failure 409 {string} string "gestation already closed"
// @Router /gestations/{gestationID} [patch]
func updateGestationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateGestationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			ConfirmedDays:       req.ConfirmedDays,
			ServiceType:         req.ServiceType,
			SireID:              req.SireID,
			SemenBatch:          req.SemenBatch,
			DietNotes:           req.DietNotes,
			Medications:         req.Medications,
			Restrictions:        req.Restrictions,
			RecommendedExercise: req.RecommendedExercise,
			CurrentWeight:       req.CurrentWeight,
		}
		if req.ConfirmationDate != nil {
			t, err := parseDate(*req.ConfirmationDate)
			if err != nil {
				http.Error(w, "confirmation_date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
				return
			}
			in.ConfirmationDate = &t
		}
		if req.ServiceDate != nil {
			t, err := parseDate(*req.ServiceDate)
			if err != nil {
				http.Error(w, "service_date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
				return
			}
			in.ServiceDate = &t
		}

		v, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "gestationID"), in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toGestationResponse(v))
	}
}

// applyOutcomeHandler godoc
// @Summary Registrar resultado
// @Description Cierra la gestación. En partos crea las crías (arete, sexo y peso obligatorios) como animales nuevos; si alguna falla no queda ninguna y la gestación sigue activa.
// @Tags gestations
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param gestationID path string true "ID de la gestación"
// @Param payload body outcomeRequest true "Resultado"
// @Success 200 {object} outcomeResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "gestation not found"
// @Failure 409 {string} string "gestation already closed / duplicate tag"
// @Failure 422 {string} string "invalid offspring"
// @Failure 503 {string} string "storage unavailable"
// @Router /gestations/{gestationID}/outcome [post]
func applyOutcomeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req outcomeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ev, err := parseDate(req.EventDate)
		if err != nil {
			http.Error(w, "event_date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}

		offspring := make([]OffspringEntry, 0, len(req.Offspring))
		for i, o := range req.Offspring {
			// sin peso no se registra la cría; 0 es un peso válido solo si viene explícito
			if o.BirthWeight == nil {
				writeError(w, fmt.Errorf("%w: offspring %d without birth_weight", ErrInvalidOffspring, i+1))
				return
			}
			offspring = append(offspring, OffspringEntry{
				Tag:         o.Tag,
				Sex:         o.Sex,
				BirthWeight: *o.BirthWeight,
				Notes:       o.Notes,
			})
		}

		res, err := svc.ApplyOutcome(r.Context(), claims.UserID, chi.URLParam(r, "gestationID"), OutcomeInput{
			Kind:              req.Kind,
			EventDate:         ev,
			BirthMode:         req.BirthMode,
			ComplicationNotes: req.ComplicationNotes,
			Offspring:         offspring,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, outcomeResponse{
			Gestation:        toGestationResponse(res.Gestation),
			OffspringCreated: res.OffspringCreated,
		})
	}
}

// correctOutcomeHandler godoc
// @Summary Corregir resultado
// @Description Corrige fecha, modo de parto, notas o reclasifica entre estados de parto. Nunca reabre la gestación. Si cambia la fecha, las crías toman la nueva fecha de nacimiento.
// @Tags gestations
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param gestationID path string true "ID de la gestación"
// @Param payload body correctionRequest true "Corrección"
// @Success 200 {object} gestationResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "gestation not found"
// @Failure 409 {string} string "invalid outcome correction"
// @Router /gestations/{gestationID}/outcome [patch]
func correctOutcomeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req correctionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CorrectionInput{
			State:             req.State,
			BirthMode:         req.BirthMode,
			ComplicationNotes: req.ComplicationNotes,
		}
		if req.EventDate != nil {
			t, err := parseDate(*req.EventDate)
			if err != nil {
				http.Error(w, "event_date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
				return
			}
			in.EventDate = &t
		}

		v, err := svc.CorrectOutcome(r.Context(), claims.UserID, chi.URLParam(r, "gestationID"), in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toGestationResponse(v))
	}
}

// sweepHandler godoc
// @Summary Barrido de atrasadas
// @Description Reevalúa las gestaciones activas y devuelve las que pasaron más de 7 días de la fecha probable. No cambia estados.
// @Tags gestations
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Success 200 {object} sweepResponse
// @Failure 401 {string} string "unauthorized"
// @Router /gestations/sweep [post]
func sweepHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := svc.Sweep(r.Context(), claims.UserID, svc.now())
		if err != nil {
			writeError(w, err)
			return
		}

		out := sweepResponse{
			Checked:    res.Checked,
			Flagged:    len(res.Flagged),
			Overdue:    make([]gestationResponse, 0, len(res.Flagged)),
			ComputedAt: res.ComputedAt,
		}
		for _, v := range res.Flagged {
			out.Overdue = append(out.Overdue, toGestationResponse(v))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// writeError traduce errores de dominio a códigos HTTP.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "gestation not found", http.StatusNotFound)
	case errors.Is(err, animals.ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	case errors.Is(err, ErrDuplicateActiveGestation),
		errors.Is(err, ErrAlreadyClosed),
		errors.Is(err, ErrInvalidCorrection),
		errors.Is(err, animals.ErrDuplicateTag):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidOffspring):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, animals.ErrNotFemale),
		errors.Is(err, animals.ErrInactive):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrUnavailable):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// parseDate acepta YYYY-MM-DD (medianoche UTC) o RFC3339.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toGestationResponse(v View) gestationResponse {
	out := gestationResponse{
		ID:                  v.ID,
		OwnerID:             v.OwnerID,
		AnimalID:            v.AnimalID,
		AnimalTag:           v.AnimalTag,
		AnimalName:          v.AnimalName,
		ConfirmationDate:    v.ConfirmationDate,
		ConfirmedDays:       v.ConfirmedDays,
		ServiceDate:         v.ServiceDate,
		ServiceType:         v.ServiceType,
		SireID:              v.SireID,
		SemenBatch:          v.SemenBatch,
		DietNotes:           v.DietNotes,
		Medications:         nonNil(v.Medications),
		Restrictions:        nonNil(v.Restrictions),
		RecommendedExercise: v.RecommendedExercise,
		InitialWeight:       v.InitialWeight,
		CurrentWeight:       v.CurrentWeight,
		State:               v.State,
		Active:              v.Active,
		EventDate:           v.EventDate,
		BirthMode:           v.BirthMode,
		ComplicationNotes:   v.ComplicationNotes,
		Stage: stageResponse{
			Baseline:      v.Stage.Baseline,
			BaselineDate:  v.Stage.BaselineDate,
			CurrentDay:    v.Stage.CurrentDay,
			Trimester:     v.Stage.Trimester,
			DueDate:       v.Stage.DueDate,
			RemainingDays: v.Stage.RemainingDays,
			Overdue:       v.Stage.Overdue,
			ComputedAt:    v.Stage.ComputedAt,
		},
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
		ClosedAt:  v.ClosedAt,
	}
	for _, o := range v.Offspring {
		out.Offspring = append(out.Offspring, offspringResponse(o))
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
