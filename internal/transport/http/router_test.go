package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"timeclock/internal/attendance"
	"timeclock/internal/attendance/cache"
	attendancestore "timeclock/internal/attendance/store"
	"timeclock/internal/login"
	personstore "timeclock/internal/person/store"
	"timeclock/internal/registration"
	"timeclock/internal/token"
)

type RouterSuite struct {
	suite.Suite

	server *httptest.Server
	tokens *token.Service
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := log.New(io.Discard, "", 0)
	persons := personstore.NewInMemoryPersonStore()
	companies := personstore.NewInMemoryCompanyStore()
	entries := attendancestore.NewInMemoryEntryStore()
	entryCache := cache.NewMemoryCache(time.Minute)

	s.tokens = token.NewService("router-suite-key", "timeclock")

	router := NewRouter(RouterDeps{
		Registration: registration.NewService(persons, companies, nil, logger),
		Login:        login.NewService(persons, s.tokens, 30*time.Minute, logger),
		Attendance:   attendance.NewRegistrar(entries, persons, entryCache, nil, logger),
		Tokens:       s.tokens,
		PageSize:     25,
		Logger:       logger,
	})
	s.server = httptest.NewServer(router)
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) do(method, path, bearer string, body any) *http.Response {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.server.URL+path, buf)
	s.Require().NoError(err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *RouterSuite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

// registerCompany onboards a company with an admin and returns the admin's
// session token.
func (s *RouterSuite) registerCompany() (companyID int64, adminToken string) {
	resp := s.do(http.MethodPost, "/api/register/company", "", map[string]any{
		"companyTaxId":     "61245817000114",
		"companyLegalName": "Acme Ltda",
		"name":             "Ana Souza",
		"email":            "ana@acme.com",
		"password":         "hunter22",
		"taxId":            "05520025000",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created struct {
		Company struct {
			ID int64 `json:"id"`
		} `json:"company"`
	}
	s.decode(resp, &created)

	return created.Company.ID, s.login("ana@acme.com", "hunter22")
}

func (s *RouterSuite) registerIndividual(email, taxID string) (personID int64, userToken string) {
	resp := s.do(http.MethodPost, "/api/register/individual", "", map[string]any{
		"name":         "Joana Silva",
		"email":        email,
		"password":     "hunter22",
		"taxId":        taxID,
		"companyTaxId": "61245817000114",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created personResponse
	s.decode(resp, &created)
	return created.ID, s.login(email, "hunter22")
}

func (s *RouterSuite) login(email, password string) string {
	resp := s.do(http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body tokenResponse
	s.decode(resp, &body)
	return body.Token
}

func (s *RouterSuite) TestRegisterCompanyAndLogin() {
	companyID, adminToken := s.registerCompany()
	s.NotZero(companyID)
	s.NotEmpty(adminToken)

	claims, err := s.tokens.ValidateSignature(adminToken)
	s.Require().NoError(err)
	s.Equal("ADMIN", claims.Role)
	s.Equal(companyID, claims.CompanyID)
}

func (s *RouterSuite) TestLoginRejectsBadCredentials() {
	s.registerCompany()

	resp := s.do(http.MethodPost, "/api/login", "", map[string]string{
		"email":    "ana@acme.com",
		"password": "wrong",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *RouterSuite) TestRegisterIndividualViolations() {
	s.registerCompany()
	s.registerIndividual("joana@acme.com", "51516554000")

	resp := s.do(http.MethodPost, "/api/register/individual", "", map[string]any{
		"name":         "Joana Impostora",
		"email":        "joana@acme.com",
		"password":     "hunter22",
		"taxId":        "51516554000",
		"companyTaxId": "61245817000114",
	})
	s.Require().Equal(http.StatusConflict, resp.StatusCode)

	var body errorResponse
	s.decode(resp, &body)
	s.Len(body.Violations, 2)
}

func (s *RouterSuite) TestRegisterIndividualUnknownCompany() {
	resp := s.do(http.MethodPost, "/api/register/individual", "", map[string]any{
		"name":         "Joana Silva",
		"email":        "joana@acme.com",
		"password":     "hunter22",
		"taxId":        "51516554000",
		"companyTaxId": "999",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *RouterSuite) TestEntriesRequireAuth() {
	resp := s.do(http.MethodPost, "/api/entries", "", map[string]any{
		"personId":  1,
		"timestamp": "2026-09-01 09:00:00",
		"type":      "CLOCK_IN",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *RouterSuite) TestEntryLifecycle() {
	s.registerCompany()
	personID, userToken := s.registerIndividual("joana@acme.com", "51516554000")

	resp := s.do(http.MethodPost, "/api/entries", userToken, map[string]any{
		"personId":  personID,
		"timestamp": "2026-09-01 09:00:00",
		"type":      "CLOCK_IN",
		"location":  "HQ",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var entry entryResponse
	s.decode(resp, &entry)
	s.Equal("CLOCK_IN", entry.Type)
	s.Equal("2026-09-01 09:00:00", entry.Timestamp)

	resp = s.do(http.MethodGet, fmt.Sprintf("/api/entries/%d", entry.ID), userToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var fetched entryResponse
	s.decode(resp, &fetched)
	s.Equal(entry.ID, fetched.ID)

	resp = s.do(http.MethodPut, fmt.Sprintf("/api/entries/%d", entry.ID), userToken, map[string]any{
		"timestamp": "2026-09-01 12:00:00",
		"type":      "LUNCH_OUT",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var updated entryResponse
	s.decode(resp, &updated)
	s.Equal("LUNCH_OUT", updated.Type)
	s.Empty(updated.Location)
}

func (s *RouterSuite) TestEntryPaging() {
	s.registerCompany()
	personID, userToken := s.registerIndividual("joana@acme.com", "51516554000")

	stamps := []string{
		"2026-09-01 09:00:00",
		"2026-09-01 12:00:00",
		"2026-09-01 13:00:00",
	}
	types := []string{"CLOCK_IN", "LUNCH_OUT", "LUNCH_IN"}
	for i := range stamps {
		resp := s.do(http.MethodPost, "/api/entries", userToken, map[string]any{
			"personId":  personID,
			"timestamp": stamps[i],
			"type":      types[i],
		})
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.do(http.MethodGet, fmt.Sprintf("/api/entries/person/%d?page=0&size=2", personID), userToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var page entryPageResponse
	s.decode(resp, &page)
	s.Equal(int64(3), page.Total)
	s.Require().Len(page.Entries, 2)
	s.Equal("2026-09-01 13:00:00", page.Entries[0].Timestamp)

	resp = s.do(http.MethodGet, fmt.Sprintf("/api/entries/person/%d/last", personID), userToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var last entryResponse
	s.decode(resp, &last)
	s.Equal("LUNCH_IN", last.Type)
}

func (s *RouterSuite) TestDeleteRequiresAdmin() {
	s.registerCompany()
	personID, userToken := s.registerIndividual("joana@acme.com", "51516554000")
	adminToken := s.login("ana@acme.com", "hunter22")

	resp := s.do(http.MethodPost, "/api/entries", userToken, map[string]any{
		"personId":  personID,
		"timestamp": "2026-09-01 09:00:00",
		"type":      "CLOCK_IN",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var entry entryResponse
	s.decode(resp, &entry)

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/entries/%d", entry.ID), userToken, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/entries/%d", entry.ID), adminToken, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/entries/%d", entry.ID), adminToken, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *RouterSuite) TestRefreshAcceptsExpiredToken() {
	// an expired token is rejected by protected routes but refreshable
	expired, err := s.tokens.Issue("joana@acme.com", "USER", 2, 1, -time.Minute)
	s.Require().NoError(err)

	resp := s.do(http.MethodGet, "/api/entries/person/2", expired, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/api/refresh", expired, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var refreshed tokenResponse
	s.decode(resp, &refreshed)
	s.True(s.tokens.IsValid(refreshed.Token))
}

func (s *RouterSuite) TestUpdatePerson() {
	companyID, adminToken := s.registerCompany()
	personID, _ := s.registerIndividual("joana@acme.com", "51516554000")

	resp := s.do(http.MethodPut, fmt.Sprintf("/api/persons/%d", personID), adminToken, map[string]any{
		"email":      "joana.silva@acme.com",
		"lunchHours": 1.5,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var updated personResponse
	s.decode(resp, &updated)
	s.Equal("joana.silva@acme.com", updated.Email)
	s.Require().NotNil(updated.LunchHours)
	s.InDelta(1.5, *updated.LunchHours, 0.001)

	resp = s.do(http.MethodGet, fmt.Sprintf("/api/persons/company/%d", companyID), adminToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var persons []personResponse
	s.decode(resp, &persons)
	s.Len(persons, 2)
}

func (s *RouterSuite) TestHealthz() {
	resp, err := http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
