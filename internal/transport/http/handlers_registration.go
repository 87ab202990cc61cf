package httptransport

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"timeclock/internal/person/models"
	"timeclock/internal/registration"

	dErrors "timeclock/pkg/domain-errors"
	"timeclock/pkg/platform/middleware/auth"
)

// RegistrationService defines the onboarding operations the handler needs.
type RegistrationService interface {
	RegisterIndividual(ctx context.Context, draft registration.IndividualDraft) (*models.Person, error)
	RegisterCompany(ctx context.Context, company registration.CompanyDraft, admin registration.AdminDraft) (*models.Company, *models.Person, error)
	UpdatePerson(ctx context.Context, id int64, req registration.UpdatePersonRequest) (*models.Person, error)
	PersonsByCompany(ctx context.Context, companyID int64) ([]*models.Person, error)
}

type RegistrationHandler struct {
	registration RegistrationService
	authMW       func(http.Handler) http.Handler
	log          *log.Logger
}

func NewRegistrationHandler(service RegistrationService, authMW func(http.Handler) http.Handler, logger *log.Logger) *RegistrationHandler {
	return &RegistrationHandler{registration: service, authMW: authMW, log: logger}
}

// Register wires the registration routes. The register endpoints are public;
// person updates and company listings require a session token.
func (h *RegistrationHandler) Register(r chi.Router) {
	r.Post("/api/register/individual", h.handleRegisterIndividual)
	r.Post("/api/register/company", h.handleRegisterCompany)

	r.Group(func(r chi.Router) {
		r.Use(h.authMW)
		r.Put("/api/persons/{id}", h.handleUpdatePerson)
		r.Get("/api/persons/company/{companyID}", h.handlePersonsByCompany)
	})
}

type registerIndividualRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	TaxID          string   `json:"taxId"`
	CompanyTaxID   string   `json:"companyTaxId"`
	LunchHours     *float64 `json:"lunchHours,omitempty"`
	DailyWorkHours *float64 `json:"dailyWorkHours,omitempty"`
	HourlyRate     *float64 `json:"hourlyRate,omitempty"`
}

type registerCompanyRequest struct {
	CompanyTaxID     string `json:"companyTaxId"`
	CompanyLegalName string `json:"companyLegalName"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	TaxID            string `json:"taxId"`
}

type updatePersonRequest struct {
	Email          string   `json:"email"`
	Password       *string  `json:"password,omitempty"`
	LunchHours     *float64 `json:"lunchHours,omitempty"`
	DailyWorkHours *float64 `json:"dailyWorkHours,omitempty"`
	HourlyRate     *float64 `json:"hourlyRate,omitempty"`
}

type personResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	TaxID          string   `json:"taxId"`
	Role           string   `json:"role"`
	CompanyID      int64    `json:"companyId"`
	LunchHours     *float64 `json:"lunchHours,omitempty"`
	DailyWorkHours *float64 `json:"dailyWorkHours,omitempty"`
	HourlyRate     *float64 `json:"hourlyRate,omitempty"`
}

type companyResponse struct {
	ID        int64  `json:"id"`
	TaxID     string `json:"taxId"`
	LegalName string `json:"legalName"`
}

type registerCompanyResponse struct {
	Company companyResponse `json:"company"`
	Admin   personResponse  `json:"admin"`
}

func toPersonResponse(p *models.Person) personResponse {
	return personResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		TaxID:          p.TaxID,
		Role:           p.Role.String(),
		CompanyID:      p.CompanyID,
		LunchHours:     p.LunchHours,
		DailyWorkHours: p.DailyWorkHours,
		HourlyRate:     p.HourlyRate,
	}
}

func (h *RegistrationHandler) handleRegisterIndividual(w http.ResponseWriter, r *http.Request) {
	var req registerIndividualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validatePersonFields(req.Name, req.Email, req.Password, req.TaxID); err != nil {
		writeError(w, err)
		return
	}
	if req.CompanyTaxID == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "companyTaxId is required"))
		return
	}

	person, err := h.registration.RegisterIndividual(r.Context(), registration.IndividualDraft{
		Name:           req.Name,
		Email:          req.Email,
		TaxID:          req.TaxID,
		CompanyTaxID:   req.CompanyTaxID,
		Password:       req.Password,
		LunchHours:     req.LunchHours,
		DailyWorkHours: req.DailyWorkHours,
		HourlyRate:     req.HourlyRate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonResponse(person))
}

func (h *RegistrationHandler) handleRegisterCompany(w http.ResponseWriter, r *http.Request) {
	var req registerCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validatePersonFields(req.Name, req.Email, req.Password, req.TaxID); err != nil {
		writeError(w, err)
		return
	}
	if req.CompanyTaxID == "" || req.CompanyLegalName == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "companyTaxId and companyLegalName are required"))
		return
	}

	company, admin, err := h.registration.RegisterCompany(r.Context(),
		registration.CompanyDraft{TaxID: req.CompanyTaxID, LegalName: req.CompanyLegalName},
		registration.AdminDraft{Name: req.Name, Email: req.Email, TaxID: req.TaxID, Password: req.Password},
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerCompanyResponse{
		Company: companyResponse{ID: company.ID, TaxID: company.TaxID, LegalName: company.LegalName},
		Admin:   toPersonResponse(admin),
	})
}

func (h *RegistrationHandler) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !govalidator.IsEmail(req.Email) {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid email"))
		return
	}

	person, err := h.registration.UpdatePerson(r.Context(), id, registration.UpdatePersonRequest{
		Email:          req.Email,
		Password:       req.Password,
		LunchHours:     req.LunchHours,
		DailyWorkHours: req.DailyWorkHours,
		HourlyRate:     req.HourlyRate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonResponse(person))
}

func (h *RegistrationHandler) handlePersonsByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathInt64(r, "companyID")
	if err != nil {
		writeError(w, err)
		return
	}

	// any authenticated member of the system may list; claims presence is
	// guaranteed by the auth middleware
	if auth.GetClaims(r.Context()) == nil {
		writeError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	persons, err := h.registration.PersonsByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]personResponse, 0, len(persons))
	for _, p := range persons {
		out = append(out, toPersonResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func validatePersonFields(name, email, password, taxID string) error {
	if !govalidator.StringLength(name, "3", "200") {
		return dErrors.New(dErrors.CodeValidation, "name must be between 3 and 200 characters")
	}
	if !govalidator.IsEmail(email) || !govalidator.StringLength(email, "5", "200") {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	if !govalidator.StringLength(password, "6", "100") {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 6 characters")
	}
	if !govalidator.IsNumeric(taxID) {
		return dErrors.New(dErrors.CodeValidation, "taxId must be numeric")
	}
	return nil
}

func pathInt64(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.Newf(dErrors.CodeValidation, "invalid %s", key)
	}
	return id, nil
}
