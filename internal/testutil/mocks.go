package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/incident"
	"github.com/beaconhq/beacon/internal/domain/integration"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/domain/service"
	"github.com/beaconhq/beacon/internal/domain/team"
	"github.com/beaconhq/beacon/internal/domain/user"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	Users      map[int64]*user.User
	EmailIndex map[string]*user.User
	NextID     int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[int64]*user.User),
		EmailIndex: make(map[string]*user.User),
		NextID:     1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if _, exists := m.EmailIndex[u.Email]; exists {
		return errors.Conflict("Email already registered")
	}
	u.ID = m.NextID
	m.NextID++
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := m.EmailIndex[email]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	if _, ok := m.Users[u.ID]; !ok {
		return errors.NotFound("User")
	}
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if u, ok := m.Users[id]; ok {
		delete(m.EmailIndex, u.Email)
		delete(m.Users, id)
		return nil
	}
	return errors.NotFound("User")
}

// MockTeamRepository is a mock implementation of team.Repository
type MockTeamRepository struct {
	Teams  map[int64]*team.Team
	NextID int64
}

func NewMockTeamRepository() *MockTeamRepository {
	return &MockTeamRepository{
		Teams:  make(map[int64]*team.Team),
		NextID: 1,
	}
}

func (m *MockTeamRepository) Create(ctx context.Context, t *team.Team) (int64, error) {
	t.ID = m.NextID
	m.NextID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.Teams[t.ID] = t
	return t.ID, nil
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	t, ok := m.Teams[id]
	if !ok {
		return nil, errors.NotFound("Team")
	}
	return t, nil
}

func (m *MockTeamRepository) GetBySlug(ctx context.Context, slug string) (*team.Team, error) {
	for _, t := range m.Teams {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, errors.NotFound("Team")
}

func (m *MockTeamRepository) Update(ctx context.Context, t *team.Team) error {
	if _, ok := m.Teams[t.ID]; !ok {
		return errors.NotFound("Team")
	}
	m.Teams[t.ID] = t
	return nil
}

func (m *MockTeamRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Teams[id]; !ok {
		return errors.NotFound("Team")
	}
	delete(m.Teams, id)
	return nil
}

func (m *MockTeamRepository) List(ctx context.Context, filter team.Filter, limit, offset int) ([]*team.Team, int64, error) {
	var result []*team.Team
	for _, t := range m.Teams {
		if filter.Name != "" && t.Name != filter.Name {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

// MockServiceRepository is a mock implementation of service.Repository
type MockServiceRepository struct {
	Services map[int64]*service.Service
	NextID   int64
}

func NewMockServiceRepository() *MockServiceRepository {
	return &MockServiceRepository{
		Services: make(map[int64]*service.Service),
		NextID:   1,
	}
}

func (m *MockServiceRepository) Create(ctx context.Context, s *service.Service) (int64, error) {
	s.ID = m.NextID
	m.NextID++
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.Services[s.ID] = s
	return s.ID, nil
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id int64) (*service.Service, error) {
	s, ok := m.Services[id]
	if !ok {
		return nil, errors.NotFound("Service")
	}
	return s, nil
}

func (m *MockServiceRepository) Update(ctx context.Context, s *service.Service) error {
	if _, ok := m.Services[s.ID]; !ok {
		return errors.NotFound("Service")
	}
	m.Services[s.ID] = s
	return nil
}

func (m *MockServiceRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Services[id]; !ok {
		return errors.NotFound("Service")
	}
	delete(m.Services, id)
	return nil
}

func (m *MockServiceRepository) List(ctx context.Context, filter service.Filter, limit, offset int) ([]*service.Service, int64, error) {
	var result []*service.Service
	for _, s := range m.Services {
		if filter.TeamID != 0 && s.TeamID != filter.TeamID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (m *MockServiceRepository) ListByIDs(ctx context.Context, ids []int64) ([]*service.Service, error) {
	var result []*service.Service
	for _, id := range ids {
		if s, ok := m.Services[id]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

// MockIntegrationRepository is a mock implementation of integration.Repository
type MockIntegrationRepository struct {
	Integrations map[int64]*integration.Integration
	NextID       int64
}

func NewMockIntegrationRepository() *MockIntegrationRepository {
	return &MockIntegrationRepository{
		Integrations: make(map[int64]*integration.Integration),
		NextID:       1,
	}
}

func (m *MockIntegrationRepository) Create(ctx context.Context, in *integration.Integration) (int64, error) {
	in.ID = m.NextID
	m.NextID++
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	m.Integrations[in.ID] = in
	return in.ID, nil
}

func (m *MockIntegrationRepository) GetByID(ctx context.Context, id int64) (*integration.Integration, error) {
	in, ok := m.Integrations[id]
	if !ok {
		return nil, errors.NotFound("Integration")
	}
	return in, nil
}

func (m *MockIntegrationRepository) GetByRoutingKey(ctx context.Context, key string) (*integration.Integration, error) {
	for _, in := range m.Integrations {
		if in.RoutingKey == key && in.Enabled {
			return in, nil
		}
	}
	return nil, errors.NotFound("Integration")
}

func (m *MockIntegrationRepository) Update(ctx context.Context, in *integration.Integration) error {
	if _, ok := m.Integrations[in.ID]; !ok {
		return errors.NotFound("Integration")
	}
	m.Integrations[in.ID] = in
	return nil
}

func (m *MockIntegrationRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Integrations[id]; !ok {
		return errors.NotFound("Integration")
	}
	delete(m.Integrations, id)
	return nil
}

func (m *MockIntegrationRepository) List(ctx context.Context, filter integration.Filter, limit, offset int) ([]*integration.Integration, int64, error) {
	var result []*integration.Integration
	for _, in := range m.Integrations {
		if filter.ServiceID != 0 && in.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Type != "" && in.Type != filter.Type {
			continue
		}
		result = append(result, in)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

// MockAlertRepository is a mock implementation of alert.Repository
type MockAlertRepository struct {
	Alerts      map[int64]*alert.Alert
	NextID      int64
	CreateError error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{
		Alerts: make(map[int64]*alert.Alert),
		NextID: 1,
	}
}

func (m *MockAlertRepository) Create(ctx context.Context, a *alert.Alert) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	a.ID = m.NextID
	m.NextID++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.Alerts[a.ID] = a
	return a.ID, nil
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	a, ok := m.Alerts[id]
	if !ok {
		return nil, errors.NotFound("Alert")
	}
	return a, nil
}

func (m *MockAlertRepository) GetOpenByFingerprint(ctx context.Context, fingerprint string) (*alert.Alert, error) {
	for _, a := range m.Alerts {
		if a.Fingerprint == fingerprint && a.Status != alert.StatusResolved {
			return a, nil
		}
	}
	return nil, errors.NotFound("Alert")
}

func (m *MockAlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	if _, ok := m.Alerts[a.ID]; !ok {
		return errors.NotFound("Alert")
	}
	m.Alerts[a.ID] = a
	return nil
}

func (m *MockAlertRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Alerts[id]; !ok {
		return errors.NotFound("Alert")
	}
	delete(m.Alerts, id)
	return nil
}

func (m *MockAlertRepository) List(ctx context.Context, filter alert.Filter, limit, offset int) ([]*alert.Alert, int64, error) {
	var result []*alert.Alert
	for _, a := range m.Alerts {
		if filter.ServiceID != 0 && a.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, int64(len(result)), nil
}

func (m *MockAlertRepository) ResolveStale(ctx context.Context, cutoffUnix int64) (int64, error) {
	var n int64
	for _, a := range m.Alerts {
		if a.Status == alert.StatusFiring && a.LastSeenAt.Unix() < cutoffUnix {
			now := time.Now()
			a.Status = alert.StatusResolved
			a.ResolvedAt = &now
			n++
		}
	}
	return n, nil
}

func (m *MockAlertRepository) PurgeResolved(ctx context.Context, cutoffUnix int64) (int64, error) {
	var n int64
	for id, a := range m.Alerts {
		if a.Status == alert.StatusResolved && a.ResolvedAt != nil && a.ResolvedAt.Unix() < cutoffUnix {
			delete(m.Alerts, id)
			n++
		}
	}
	return n, nil
}

// MockIncidentRepository is a mock implementation of incident.Repository
type MockIncidentRepository struct {
	Incidents map[int64]*incident.Incident
	NextID    int64
}

func NewMockIncidentRepository() *MockIncidentRepository {
	return &MockIncidentRepository{
		Incidents: make(map[int64]*incident.Incident),
		NextID:    1,
	}
}

func (m *MockIncidentRepository) Create(ctx context.Context, in *incident.Incident) (int64, error) {
	in.ID = m.NextID
	m.NextID++
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	m.Incidents[in.ID] = in
	return in.ID, nil
}

func (m *MockIncidentRepository) GetByID(ctx context.Context, id int64) (*incident.Incident, error) {
	in, ok := m.Incidents[id]
	if !ok {
		return nil, errors.NotFound("Incident")
	}
	return in, nil
}

func (m *MockIncidentRepository) Update(ctx context.Context, in *incident.Incident) error {
	if _, ok := m.Incidents[in.ID]; !ok {
		return errors.NotFound("Incident")
	}
	m.Incidents[in.ID] = in
	return nil
}

func (m *MockIncidentRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Incidents[id]; !ok {
		return errors.NotFound("Incident")
	}
	delete(m.Incidents, id)
	return nil
}

func (m *MockIncidentRepository) List(ctx context.Context, filter incident.Filter, limit, offset int) ([]*incident.Incident, int64, error) {
	var result []*incident.Incident
	for _, in := range m.Incidents {
		if filter.TeamID != 0 && in.TeamID != filter.TeamID {
			continue
		}
		if filter.ServiceID != 0 && in.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Status != "" && in.Status != filter.Status {
			continue
		}
		result = append(result, in)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, int64(len(result)), nil
}

func (m *MockIncidentRepository) ListRecentByServices(ctx context.Context, serviceIDs []int64, limit int) ([]*incident.Incident, error) {
	ids := make(map[int64]bool, len(serviceIDs))
	for _, id := range serviceIDs {
		ids[id] = true
	}
	var result []*incident.Incident
	for _, in := range m.Incidents {
		if ids[in.ServiceID] {
			result = append(result, in)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockIncidentRepository) CountByStatus(ctx context.Context, teamID int64) (map[string]int, error) {
	counts := make(map[string]int)
	for _, in := range m.Incidents {
		if teamID != 0 && in.TeamID != teamID {
			continue
		}
		counts[in.Status]++
	}
	return counts, nil
}

// MockRoutingRepository is a mock implementation of routing.Repository.
// ListEnabled reproduces the store's ordering guarantee: priority
// descending, created_at descending.
type MockRoutingRepository struct {
	Rules   map[int64]*routing.Rule
	Matches []*routing.Match
	NextID  int64

	ListError        error
	CreateMatchError error
}

func NewMockRoutingRepository() *MockRoutingRepository {
	return &MockRoutingRepository{
		Rules:  make(map[int64]*routing.Rule),
		NextID: 1,
	}
}

func (m *MockRoutingRepository) Create(ctx context.Context, r *routing.Rule) (int64, error) {
	r.ID = m.NextID
	m.NextID++
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.Rules[r.ID] = r
	return r.ID, nil
}

func (m *MockRoutingRepository) GetByID(ctx context.Context, id int64) (*routing.Rule, error) {
	r, ok := m.Rules[id]
	if !ok {
		return nil, errors.NotFound("Routing rule")
	}
	return r, nil
}

func (m *MockRoutingRepository) Update(ctx context.Context, r *routing.Rule) error {
	if _, ok := m.Rules[r.ID]; !ok {
		return errors.NotFound("Routing rule")
	}
	m.Rules[r.ID] = r
	return nil
}

func (m *MockRoutingRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Rules[id]; !ok {
		return errors.NotFound("Routing rule")
	}
	delete(m.Rules, id)
	return nil
}

func (m *MockRoutingRepository) ListByTeam(ctx context.Context, teamID int64) ([]*routing.Rule, error) {
	var result []*routing.Rule
	for _, r := range m.Rules {
		if r.TeamID == teamID {
			result = append(result, r)
		}
	}
	sortRules(result)
	return result, nil
}

func (m *MockRoutingRepository) ListEnabled(ctx context.Context, teamID int64) ([]*routing.Rule, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	var result []*routing.Rule
	for _, r := range m.Rules {
		if r.TeamID == teamID && r.Enabled {
			result = append(result, r)
		}
	}
	sortRules(result)
	return result, nil
}

func (m *MockRoutingRepository) CreateMatch(ctx context.Context, match *routing.Match) (int64, error) {
	if m.CreateMatchError != nil {
		return 0, m.CreateMatchError
	}
	match.ID = int64(len(m.Matches) + 1)
	m.Matches = append(m.Matches, match)
	return match.ID, nil
}

func (m *MockRoutingRepository) ListMatchesByRule(ctx context.Context, ruleID int64, limit int) ([]*routing.Match, error) {
	var result []*routing.Match
	for i := len(m.Matches) - 1; i >= 0; i-- {
		if m.Matches[i].RuleID == ruleID {
			result = append(result, m.Matches[i])
			if limit > 0 && len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (m *MockRoutingRepository) PurgeMatches(ctx context.Context, cutoffUnix int64) (int64, error) {
	var kept []*routing.Match
	var n int64
	for _, match := range m.Matches {
		if match.MatchedAt.Unix() < cutoffUnix {
			n++
			continue
		}
		kept = append(kept, match)
	}
	m.Matches = kept
	return n, nil
}

func sortRules(rules []*routing.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].CreatedAt.After(rules[j].CreatedAt)
	})
}
