package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"estancia-digital/internal/middleware"
	"estancia-digital/internal/ports/storage"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))

		ar.Get("/by-tag/{tag}", getAnimalByTagHandler(svc))

		// Pre-chequeo opcional de genealogía (no registra nada)
		ar.Post("/lineage/check", checkLineageHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Get("/{animalID}/genealogy", genealogyHandler(svc))
		ar.Post("/{animalID}/deactivate", deactivateAnimalHandler(svc))
	})
}

type createAnimalRequest struct {
	Tag                string   `json:"tag"`
	Name               string   `json:"name"`
	Sex                Sex      `json:"sex" enums:"female,male"`
	BirthDate          string   `json:"birth_date"` // YYYY-MM-DD opcional
	Breed              string   `json:"breed"`
	Traits             string   `json:"traits"`
	ReproductiveStatus string   `json:"reproductive_status"`
	Location           string   `json:"location"`
	BodyCondition      *float64 `json:"body_condition"`
	HealthStatus       string   `json:"health_status"`
	Weight             *float64 `json:"weight"`
	FatherTag          string   `json:"father_tag"`
	MotherTag          string   `json:"mother_tag"`
	Notes              string   `json:"notes"`

	// Si es true se rechaza el alta cuando los padres formarían un ciclo.
	ValidateLineage bool `json:"validate_lineage"`
}

type animalResponse struct {
	ID                 string         `json:"id"`
	OwnerID            string         `json:"owner_id"`
	Tag                string         `json:"tag"`
	Name               string         `json:"name"`
	Sex                Sex            `json:"sex"`
	BirthDate          *time.Time     `json:"birth_date,omitempty"`
	Breed              string         `json:"breed"`
	Traits             string         `json:"traits,omitempty"`
	ReproductiveStatus string         `json:"reproductive_status"`
	Location           string         `json:"location"`
	BodyCondition      *float64       `json:"body_condition,omitempty"`
	HealthStatus       string         `json:"health_status,omitempty"`
	Weight             *float64       `json:"weight,omitempty"`
	FatherTag          string         `json:"father_tag,omitempty"`
	MotherTag          string         `json:"mother_tag,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	Active             bool           `json:"active"`
	InactiveReason     InactiveReason `json:"inactive_reason,omitempty"`
	InactiveAt         *time.Time     `json:"inactive_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type genealogyResponse struct {
	Animal    animalResponse   `json:"animal"`
	Father    *animalResponse  `json:"father,omitempty"`
	Mother    *animalResponse  `json:"mother,omitempty"`
	Offspring []animalResponse `json:"offspring"`
}

type deactivateRequest struct {
	Reason InactiveReason `json:"reason" enums:"sold,dead"`
	At     string         `json:"at"` // RFC3339 opcional; default ahora
}

type lineageCheckRequest struct {
	Tag       string `json:"tag"`
	FatherTag string `json:"father_tag"`
	MotherTag string `json:"mother_tag"`
}

type lineageCheckResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Registra un animal en el hato del usuario. El arete (tag) es único por owner.
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param payload body createAnimalRequest true "Animal"
// @Success 201 {object} animalResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "duplicate tag / lineage cycle"
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Tag:                req.Tag,
			Name:               req.Name,
			Sex:                req.Sex,
			BirthDate:          bd,
			Breed:              req.Breed,
			Traits:             req.Traits,
			ReproductiveStatus: req.ReproductiveStatus,
			Location:           req.Location,
			BodyCondition:      req.BodyCondition,
			HealthStatus:       req.HealthStatus,
			Weight:             req.Weight,
			FatherTag:          req.FatherTag,
			MotherTag:          req.MotherTag,
			Notes:              req.Notes,
			ValidateLineage:    req.ValidateLineage,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar animales del hato
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Success 200 {array} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Obtener animal
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param animalID path string true "ID del animal"
// @Success 200 {object} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if a.OwnerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// getAnimalByTagHandler godoc
// @Summary Buscar animal por arete
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param tag path string true "Arete"
// @Success 200 {object} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/by-tag/{tag} [get]
func getAnimalByTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.FindByTag(r.Context(), claims.UserID, chi.URLParam(r, "tag"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// genealogyHandler godoc
// @Summary Genealogía del animal
// @Description Padre y madre resueltos por arete (si existen) y crías registradas.
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param animalID path string true "ID del animal"
// @Success 200 {object} genealogyResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/genealogy [get]
func genealogyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		g, err := svc.Genealogy(r.Context(), claims.UserID, chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := genealogyResponse{
			Animal:    toAnimalResponse(g.Animal),
			Offspring: make([]animalResponse, 0, len(g.Offspring)),
		}
		if g.Father != nil {
			f := toAnimalResponse(*g.Father)
			out.Father = &f
		}
		if g.Mother != nil {
			m := toAnimalResponse(*g.Mother)
			out.Mother = &m
		}
		for _, k := range g.Offspring {
			out.Offspring = append(out.Offspring, toAnimalResponse(k))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// deactivateAnimalHandler godoc
// @Summary Dar de baja un animal
// @Description Marca el animal como vendido o muerto. El registro no se borra.
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param animalID path string true "ID del animal"
// @Param payload body deactivateRequest true "Motivo"
// @Success 200 {object} animalResponse
// @Failure 400 {string} string "motivo inválido / ya inactivo"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/deactivate [post]
func deactivateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req deactivateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var at *time.Time
		if strings.TrimSpace(req.At) != "" {
			t, err := time.Parse(time.RFC3339, req.At)
			if err != nil {
				http.Error(w, "at must be RFC3339", http.StatusBadRequest)
				return
			}
			at = &t
		}

		a, err := svc.Deactivate(r.Context(), claims.UserID, chi.URLParam(r, "animalID"), req.Reason, at)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// checkLineageHandler godoc
// @Summary Validar genealogía
// @Description Verifica que asignar padre/madre a un arete no lo convierta en su propio ancestro.
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string true "ID del usuario (owner)"
// @Param payload body lineageCheckRequest true "Arete y padres"
// @Success 200 {object} lineageCheckResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {object} lineageCheckResponse
// @Router /animals/lineage/check [post]
func checkLineageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req lineageCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		err := svc.ValidateNoCycle(r.Context(), claims.UserID, req.Tag, req.FatherTag, req.MotherTag)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, lineageCheckResponse{OK: true})
		case errors.Is(err, ErrLineageCycle):
			writeJSON(w, http.StatusConflict, lineageCheckResponse{OK: false, Reason: err.Error()})
		default:
			writeError(w, err)
		}
	}
}

// writeError traduce errores de dominio a códigos HTTP.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrDuplicateTag), errors.Is(err, ErrLineageCycle):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInactive), errors.Is(err, ErrNotFemale):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrUnavailable):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:                 a.ID,
		OwnerID:            a.OwnerID,
		Tag:                a.Tag,
		Name:               a.Name,
		Sex:                a.Sex,
		BirthDate:          a.BirthDate,
		Breed:              a.Breed,
		Traits:             a.Traits,
		ReproductiveStatus: a.ReproductiveStatus,
		Location:           a.Location,
		BodyCondition:      a.BodyCondition,
		HealthStatus:       a.HealthStatus,
		Weight:             a.Weight,
		FatherTag:          a.FatherTag,
		MotherTag:          a.MotherTag,
		Notes:              a.Notes,
		Active:             a.Active,
		InactiveReason:     a.InactiveReason,
		InactiveAt:         a.InactiveAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
