package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Creastina/bambushain/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Mock implementations

type mockUserRepo struct {
	users      map[string]*model.User
	emailIndex map[string]*model.User
	createErr  error
	getErr     error
	deleted    []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:      make(map[string]*model.User),
		emailIndex: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) add(user *model.User) *model.User {
	m.users[user.ID] = user
	m.emailIndex[user.Email] = user
	return user
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user:" + user.Email
	user.CreatedOn = time.Now()
	user.UpdatedOn = time.Now()
	m.add(user)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if !strings.Contains(id, ":") {
		id = "user:" + id
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.emailIndex[email], nil
}

func (m *mockUserRepo) ListByGrove(ctx context.Context, groveID string) ([]*model.User, error) {
	var result []*model.User
	for _, user := range m.users {
		if user.GroveID == groveID {
			result = append(result, user)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListMods(ctx context.Context, groveID string) ([]*model.User, error) {
	var result []*model.User
	for _, user := range m.users {
		if user.GroveID == groveID && user.IsMod {
			result = append(result, user)
		}
	}
	return result, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	for email, u := range m.emailIndex {
		if u.ID == user.ID {
			delete(m.emailIndex, email)
		}
	}
	m.add(user)
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	if user, ok := m.users[userID]; ok {
		user.Hash = hash
	}
	return nil
}

func (m *mockUserRepo) SetMod(ctx context.Context, userID string, isMod bool) error {
	if user, ok := m.users[userID]; ok {
		user.IsMod = isMod
	}
	return nil
}

func (m *mockUserRepo) SetTwoFactor(ctx context.Context, userID string, hash *string, expires *time.Time) error {
	if user, ok := m.users[userID]; ok {
		user.TwoFactorHash = hash
		user.TwoFactorExpires = expires
	}
	return nil
}

func (m *mockUserRepo) ClearExpiredTwoFactor(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, userID string) error {
	if user, ok := m.users[userID]; ok {
		delete(m.emailIndex, user.Email)
		delete(m.users, userID)
		m.deleted = append(m.deleted, userID)
	}
	return nil
}

type mockGroveRepo struct {
	groves    map[string]*model.Grove
	createErr error
	users     *mockUserRepo
}

func newMockGroveRepo(users *mockUserRepo) *mockGroveRepo {
	return &mockGroveRepo{groves: make(map[string]*model.Grove), users: users}
}

func (m *mockGroveRepo) Create(ctx context.Context, grove *model.Grove, mod *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	grove.ID = "grove:" + grove.Name
	grove.CreatedOn = time.Now()
	m.groves[grove.ID] = grove
	mod.GroveID = grove.ID
	if m.users != nil {
		return m.users.Create(ctx, mod)
	}
	return nil
}

func (m *mockGroveRepo) GetByID(ctx context.Context, id string) (*model.Grove, error) {
	return m.groves[id], nil
}

func (m *mockGroveRepo) GetByName(ctx context.Context, name string) (*model.Grove, error) {
	for _, grove := range m.groves {
		if grove.Name == name {
			return grove, nil
		}
	}
	return nil, nil
}

func (m *mockGroveRepo) List(ctx context.Context) ([]*model.Grove, error) {
	var result []*model.Grove
	for _, grove := range m.groves {
		result = append(result, grove)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockGroveRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if grove, ok := m.groves[id]; ok {
		grove.IsEnabled = enabled
	}
	return nil
}

func (m *mockGroveRepo) Delete(ctx context.Context, id string) error {
	delete(m.groves, id)
	return nil
}

type mockTokenRepo struct {
	tokens    map[string]*model.Token
	createErr error
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*model.Token)}
}

func (m *mockTokenRepo) Create(ctx context.Context, token *model.Token) error {
	if m.createErr != nil {
		return m.createErr
	}
	token.ID = fmt.Sprintf("token:%d", len(m.tokens)+1)
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockTokenRepo) GetByHash(ctx context.Context, hash string) (*model.Token, error) {
	return m.tokens[hash], nil
}

func (m *mockTokenRepo) DeleteByHash(ctx context.Context, hash string) error {
	delete(m.tokens, hash)
	return nil
}

func (m *mockTokenRepo) DeleteByUser(ctx context.Context, userID string) error {
	for hash, token := range m.tokens {
		if token.UserID == userID {
			delete(m.tokens, hash)
		}
	}
	return nil
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context) (int, error) {
	count := 0
	for hash, token := range m.tokens {
		if token.IsExpired(time.Now()) {
			delete(m.tokens, hash)
			count++
		}
	}
	return count, nil
}

type sentMail struct {
	kind    string
	to      string
	payload string
	subject string
	aboutTo string
	groveID string
}

type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mockMailer) record(mail sentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *mockMailer) SendTwoFactorCode(ctx context.Context, user *model.User, code string) error {
	return m.record(sentMail{kind: "two_factor", to: user.Email, payload: code})
}

func (m *mockMailer) SendUserCreated(ctx context.Context, user *model.User, grove *model.Grove, password string) error {
	return m.record(sentMail{kind: "user_created", to: user.Email, payload: password, groveID: grove.ID})
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, user *model.User, password string) error {
	return m.record(sentMail{kind: "password_reset", to: user.Email, payload: password})
}

func (m *mockMailer) SendForgotPassword(ctx context.Context, mod *model.User, user *model.User) error {
	return m.record(sentMail{kind: "forgot_password", to: mod.Email, aboutTo: user.Email})
}

func (m *mockMailer) SendSupportRequest(ctx context.Context, from *model.User, req model.SupportRequest) error {
	return m.record(sentMail{kind: "support", to: from.Email, subject: req.Subject, payload: req.Message})
}

func (m *mockMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *mockMailer) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, mail := range m.sent {
		if mail.kind == kind {
			n++
		}
	}
	return n
}

// mustHash hashes with the minimum bcrypt cost to keep tests fast
func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

type mockCharacterRepo struct {
	characters map[string]*model.Character
	createErr  error
	deleted    []string
}

func newMockCharacterRepo() *mockCharacterRepo {
	return &mockCharacterRepo{characters: make(map[string]*model.Character)}
}

func (m *mockCharacterRepo) List(ctx context.Context, userID string) ([]*model.Character, error) {
	var result []*model.Character
	for _, c := range m.characters {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCharacterRepo) Get(ctx context.Context, userID, id string) (*model.Character, error) {
	if c, ok := m.characters[id]; ok && c.UserID == userID {
		return c, nil
	}
	return nil, nil
}

func (m *mockCharacterRepo) GetByName(ctx context.Context, userID, name string) (*model.Character, error) {
	for _, c := range m.characters {
		if c.UserID == userID && c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCharacterRepo) Create(ctx context.Context, character *model.Character) error {
	if m.createErr != nil {
		return m.createErr
	}
	character.ID = fmt.Sprintf("character:%d", len(m.characters)+1)
	m.characters[character.ID] = character
	return nil
}

func (m *mockCharacterRepo) Update(ctx context.Context, character *model.Character) error {
	m.characters[character.ID] = character
	return nil
}

func (m *mockCharacterRepo) Delete(ctx context.Context, userID, id string) error {
	delete(m.characters, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCrafterRepo struct {
	crafters map[string]*model.Crafter
	next     int
}

func newMockCrafterRepo() *mockCrafterRepo {
	return &mockCrafterRepo{crafters: make(map[string]*model.Crafter)}
}

func (m *mockCrafterRepo) List(ctx context.Context, characterID string) ([]*model.Crafter, error) {
	var result []*model.Crafter
	for _, c := range m.crafters {
		if c.CharacterID == characterID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Job < result[j].Job })
	return result, nil
}

func (m *mockCrafterRepo) Get(ctx context.Context, characterID, id string) (*model.Crafter, error) {
	if c, ok := m.crafters[id]; ok && c.CharacterID == characterID {
		return c, nil
	}
	return nil, nil
}

func (m *mockCrafterRepo) GetByJob(ctx context.Context, characterID string, job model.CrafterJob) (*model.Crafter, error) {
	for _, c := range m.crafters {
		if c.CharacterID == characterID && c.Job == job {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCrafterRepo) Create(ctx context.Context, crafter *model.Crafter) error {
	m.next++
	crafter.ID = fmt.Sprintf("crafter:%d", m.next)
	m.crafters[crafter.ID] = crafter
	return nil
}

func (m *mockCrafterRepo) Update(ctx context.Context, crafter *model.Crafter) error {
	m.crafters[crafter.ID] = crafter
	return nil
}

func (m *mockCrafterRepo) Delete(ctx context.Context, characterID, id string) error {
	delete(m.crafters, id)
	return nil
}

type mockFighterRepo struct {
	fighters map[string]*model.Fighter
	next     int
}

func newMockFighterRepo() *mockFighterRepo {
	return &mockFighterRepo{fighters: make(map[string]*model.Fighter)}
}

func (m *mockFighterRepo) List(ctx context.Context, characterID string) ([]*model.Fighter, error) {
	var result []*model.Fighter
	for _, f := range m.fighters {
		if f.CharacterID == characterID {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Job < result[j].Job })
	return result, nil
}

func (m *mockFighterRepo) Get(ctx context.Context, characterID, id string) (*model.Fighter, error) {
	if f, ok := m.fighters[id]; ok && f.CharacterID == characterID {
		return f, nil
	}
	return nil, nil
}

func (m *mockFighterRepo) GetByJob(ctx context.Context, characterID string, job model.FighterJob) (*model.Fighter, error) {
	for _, f := range m.fighters {
		if f.CharacterID == characterID && f.Job == job {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFighterRepo) Create(ctx context.Context, fighter *model.Fighter) error {
	m.next++
	fighter.ID = fmt.Sprintf("fighter:%d", m.next)
	m.fighters[fighter.ID] = fighter
	return nil
}

func (m *mockFighterRepo) Update(ctx context.Context, fighter *model.Fighter) error {
	m.fighters[fighter.ID] = fighter
	return nil
}

func (m *mockFighterRepo) Delete(ctx context.Context, characterID, id string) error {
	delete(m.fighters, id)
	return nil
}

type mockHousingRepo struct {
	housings map[string]*model.Housing
	next     int
}

func newMockHousingRepo() *mockHousingRepo {
	return &mockHousingRepo{housings: make(map[string]*model.Housing)}
}

func (m *mockHousingRepo) List(ctx context.Context, characterID string) ([]*model.Housing, error) {
	var result []*model.Housing
	for _, h := range m.housings {
		if h.CharacterID == characterID {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *mockHousingRepo) Get(ctx context.Context, characterID, id string) (*model.Housing, error) {
	if h, ok := m.housings[id]; ok && h.CharacterID == characterID {
		return h, nil
	}
	return nil, nil
}

func (m *mockHousingRepo) GetByAddress(ctx context.Context, characterID string, district model.HousingDistrict, ward, plot int) (*model.Housing, error) {
	for _, h := range m.housings {
		if h.CharacterID == characterID && h.District == district && h.Ward == ward && h.Plot == plot {
			return h, nil
		}
	}
	return nil, nil
}

func (m *mockHousingRepo) Create(ctx context.Context, housing *model.Housing) error {
	m.next++
	housing.ID = fmt.Sprintf("housing:%d", m.next)
	m.housings[housing.ID] = housing
	return nil
}

func (m *mockHousingRepo) Update(ctx context.Context, housing *model.Housing) error {
	m.housings[housing.ID] = housing
	return nil
}

func (m *mockHousingRepo) Delete(ctx context.Context, characterID, id string) error {
	delete(m.housings, id)
	return nil
}

type mockFreeCompanyRepo struct {
	companies  map[string]*model.FreeCompany
	characters *mockCharacterRepo
	next       int
}

func newMockFreeCompanyRepo(characters *mockCharacterRepo) *mockFreeCompanyRepo {
	return &mockFreeCompanyRepo{companies: make(map[string]*model.FreeCompany), characters: characters}
}

func (m *mockFreeCompanyRepo) List(ctx context.Context, userID string) ([]*model.FreeCompany, error) {
	result := []*model.FreeCompany{}
	for _, c := range m.companies {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockFreeCompanyRepo) Get(ctx context.Context, userID, id string) (*model.FreeCompany, error) {
	if !strings.Contains(id, ":") {
		id = "free_company:" + id
	}
	if c, ok := m.companies[id]; ok && c.UserID == userID {
		return c, nil
	}
	return nil, nil
}

func (m *mockFreeCompanyRepo) GetByName(ctx context.Context, userID, name string) (*model.FreeCompany, error) {
	for _, c := range m.companies {
		if c.UserID == userID && c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockFreeCompanyRepo) Create(ctx context.Context, company *model.FreeCompany) error {
	m.next++
	company.ID = fmt.Sprintf("free_company:%d", m.next)
	m.companies[company.ID] = company
	return nil
}

func (m *mockFreeCompanyRepo) Update(ctx context.Context, company *model.FreeCompany) error {
	m.companies[company.ID] = company
	return nil
}

func (m *mockFreeCompanyRepo) Delete(ctx context.Context, userID, id string) error {
	for _, c := range m.characters.characters {
		if c.UserID == userID && c.FreeCompany != nil && c.FreeCompany.ID == id {
			c.FreeCompany = nil
		}
	}
	delete(m.companies, id)
	return nil
}

type mockCustomFieldRepo struct {
	fields  map[string]*model.CustomField
	options map[string]*model.CustomFieldOption
	next    int
}

func newMockCustomFieldRepo() *mockCustomFieldRepo {
	return &mockCustomFieldRepo{
		fields:  make(map[string]*model.CustomField),
		options: make(map[string]*model.CustomFieldOption),
	}
}

func (m *mockCustomFieldRepo) List(ctx context.Context, userID string) ([]*model.CustomField, error) {
	var result []*model.CustomField
	for _, f := range m.fields {
		if f.UserID == userID {
			f.Options, _ = m.ListOptions(ctx, f.ID)
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockCustomFieldRepo) Get(ctx context.Context, userID, id string) (*model.CustomField, error) {
	if !strings.Contains(id, ":") {
		id = "custom_field:" + id
	}
	if f, ok := m.fields[id]; ok && f.UserID == userID {
		f.Options, _ = m.ListOptions(ctx, f.ID)
		return f, nil
	}
	return nil, nil
}

func (m *mockCustomFieldRepo) GetByLabel(ctx context.Context, userID, label string) (*model.CustomField, error) {
	for _, f := range m.fields {
		if f.UserID == userID && f.Label == label {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockCustomFieldRepo) Count(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, f := range m.fields {
		if f.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockCustomFieldRepo) Create(ctx context.Context, field *model.CustomField, options []string) error {
	m.next++
	field.ID = fmt.Sprintf("custom_field:%d", m.next)
	m.fields[field.ID] = field
	for _, label := range options {
		if err := m.CreateOption(ctx, &model.CustomFieldOption{CustomFieldID: field.ID, Label: label}); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockCustomFieldRepo) Update(ctx context.Context, field *model.CustomField) error {
	m.fields[field.ID] = field
	return nil
}

func (m *mockCustomFieldRepo) Delete(ctx context.Context, userID, id string) error {
	delete(m.fields, id)
	for optionID, o := range m.options {
		if o.CustomFieldID == id {
			delete(m.options, optionID)
		}
	}
	return nil
}

func (m *mockCustomFieldRepo) SetPositions(ctx context.Context, userID string, ids []string) error {
	for i, id := range ids {
		if f, ok := m.fields[id]; ok {
			f.Position = i
		}
	}
	return nil
}

func (m *mockCustomFieldRepo) ListOptions(ctx context.Context, fieldID string) ([]model.CustomFieldOption, error) {
	result := []model.CustomFieldOption{}
	for _, o := range m.options {
		if o.CustomFieldID == fieldID {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Label < result[j].Label })
	return result, nil
}

func (m *mockCustomFieldRepo) GetOption(ctx context.Context, fieldID, id string) (*model.CustomFieldOption, error) {
	if o, ok := m.options[id]; ok && o.CustomFieldID == fieldID {
		return o, nil
	}
	return nil, nil
}

func (m *mockCustomFieldRepo) GetOptionByLabel(ctx context.Context, fieldID, label string) (*model.CustomFieldOption, error) {
	for _, o := range m.options {
		if o.CustomFieldID == fieldID && o.Label == label {
			return o, nil
		}
	}
	return nil, nil
}

func (m *mockCustomFieldRepo) CreateOption(ctx context.Context, option *model.CustomFieldOption) error {
	m.next++
	option.ID = fmt.Sprintf("custom_field_option:%d", m.next)
	m.options[option.ID] = option
	return nil
}

func (m *mockCustomFieldRepo) UpdateOption(ctx context.Context, option *model.CustomFieldOption) error {
	m.options[option.ID] = option
	return nil
}

func (m *mockCustomFieldRepo) DeleteOption(ctx context.Context, fieldID, id string) error {
	delete(m.options, id)
	return nil
}

type mockEventRepo struct {
	events map[string]*model.Event
	next   int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) ListVisible(ctx context.Context, groveID, userID, start, end string) ([]*model.Event, error) {
	var result []*model.Event
	for _, e := range m.events {
		if e.StartDate <= end && e.EndDate >= start && e.VisibleTo(userID, groveID) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate < result[j].StartDate })
	return result, nil
}

func (m *mockEventRepo) Get(ctx context.Context, groveID, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok && e.GroveID == groveID {
		return e, nil
	}
	return nil, nil
}

func (m *mockEventRepo) Create(ctx context.Context, event *model.Event) error {
	m.next++
	event.ID = fmt.Sprintf("event:%d", m.next)
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *model.Event) error {
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, groveID, id string) error {
	delete(m.events, id)
	return nil
}

type recordedEvent struct {
	action EventAction
	event  model.Event
}

type mockPublisher struct {
	published []recordedEvent
}

func (m *mockPublisher) Publish(action EventAction, event *model.Event) {
	m.published = append(m.published, recordedEvent{action: action, event: *event})
}

type mockCalendar struct {
	notified int
}

func (m *mockCalendar) Notify() {
	m.notified++
}
