package handler

import (
	"context"

	"github.com/Creastina/bambushain/internal/model"
	"github.com/Creastina/bambushain/internal/service"
)

// ============================================================================
// Mock AuthService
// ============================================================================

type mockAuthService struct {
	requestTwoFactorFunc func(ctx context.Context, email, password string) error
	loginFunc            func(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	logoutFunc           func(ctx context.Context, token string) error
	changePasswordFunc   func(ctx context.Context, userID, oldPassword, newPassword string) error
	forgotPasswordFunc   func(ctx context.Context, email string) error
}

func (m *mockAuthService) RequestTwoFactor(ctx context.Context, email, password string) error {
	if m.requestTwoFactorFunc != nil {
		return m.requestTwoFactorFunc(ctx, email, password)
	}
	return nil
}

func (m *mockAuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, token)
	}
	return nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.forgotPasswordFunc != nil {
		return m.forgotPasswordFunc(ctx, email)
	}
	return nil
}

// ============================================================================
// Mock UserService
// ============================================================================

type mockUserService struct {
	listFunc          func(ctx context.Context, actor *model.User) ([]*model.User, error)
	getFunc           func(ctx context.Context, actor *model.User, id string) (*model.User, error)
	createFunc        func(ctx context.Context, actor *model.User, req model.CreateUserRequest) (*model.User, error)
	updateProfileFunc func(ctx context.Context, actor *model.User, id string, req model.UpdateProfileRequest) (*model.User, error)
	setModFunc        func(ctx context.Context, actor *model.User, id string, isMod bool) error
	deleteFunc        func(ctx context.Context, actor *model.User, id string) error
	resetPasswordFunc func(ctx context.Context, actor *model.User, id string) error
}

func (m *mockUserService) List(ctx context.Context, actor *model.User) ([]*model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, actor)
	}
	return nil, nil
}

func (m *mockUserService) Get(ctx context.Context, actor *model.User, id string) (*model.User, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, actor, id)
	}
	return nil, nil
}

func (m *mockUserService) Create(ctx context.Context, actor *model.User, req model.CreateUserRequest) (*model.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, actor, req)
	}
	return nil, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, actor *model.User, id string, req model.UpdateProfileRequest) (*model.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, actor, id, req)
	}
	return nil, nil
}

func (m *mockUserService) SetMod(ctx context.Context, actor *model.User, id string, isMod bool) error {
	if m.setModFunc != nil {
		return m.setModFunc(ctx, actor, id, isMod)
	}
	return nil
}

func (m *mockUserService) Delete(ctx context.Context, actor *model.User, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, actor, id)
	}
	return nil
}

func (m *mockUserService) ResetPassword(ctx context.Context, actor *model.User, id string) error {
	if m.resetPasswordFunc != nil {
		return m.resetPasswordFunc(ctx, actor, id)
	}
	return nil
}

// ============================================================================
// Mock GroveService
// ============================================================================

type mockGroveService struct {
	getFunc        func(ctx context.Context, id string) (*model.Grove, error)
	listFunc       func(ctx context.Context) ([]*model.GroveWithMods, error)
	createFunc     func(ctx context.Context, req model.CreateGroveRequest) (*model.GroveWithMods, error)
	setEnabledFunc func(ctx context.Context, id string, enabled bool) error
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockGroveService) Get(ctx context.Context, id string) (*model.Grove, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockGroveService) List(ctx context.Context) ([]*model.GroveWithMods, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockGroveService) Create(ctx context.Context, req model.CreateGroveRequest) (*model.GroveWithMods, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockGroveService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if m.setEnabledFunc != nil {
		return m.setEnabledFunc(ctx, id, enabled)
	}
	return nil
}

func (m *mockGroveService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ============================================================================
// Mock CharacterService
// ============================================================================

// mockCharacterService only has hooks for the methods the tests exercise.
// The others return zero values.
type mockCharacterService struct {
	listFunc              func(ctx context.Context, userID string) ([]*model.Character, error)
	getFunc               func(ctx context.Context, userID, id string) (*model.Character, error)
	createFunc            func(ctx context.Context, userID string, req model.CharacterRequest) (*model.Character, error)
	createCrafterFunc     func(ctx context.Context, userID, characterID string, req model.CrafterRequest) (*model.Crafter, error)
	deleteFighterFunc     func(ctx context.Context, userID, characterID, id string) error
	createHousingFunc     func(ctx context.Context, userID, characterID string, req model.HousingRequest) (*model.Housing, error)
	createFreeCompanyFunc func(ctx context.Context, userID string, req model.FreeCompanyRequest) (*model.FreeCompany, error)
	deleteFreeCompanyFunc func(ctx context.Context, userID, id string) error
}

func (m *mockCharacterService) List(ctx context.Context, userID string) ([]*model.Character, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockCharacterService) Get(ctx context.Context, userID, id string) (*model.Character, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *mockCharacterService) Create(ctx context.Context, userID string, req model.CharacterRequest) (*model.Character, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *mockCharacterService) Update(ctx context.Context, userID, id string, req model.CharacterRequest) (*model.Character, error) {
	return nil, nil
}

func (m *mockCharacterService) Delete(ctx context.Context, userID, id string) error {
	return nil
}

func (m *mockCharacterService) ListCrafters(ctx context.Context, userID, characterID string) ([]*model.Crafter, error) {
	return nil, nil
}

func (m *mockCharacterService) GetCrafter(ctx context.Context, userID, characterID, id string) (*model.Crafter, error) {
	return nil, nil
}

func (m *mockCharacterService) CreateCrafter(ctx context.Context, userID, characterID string, req model.CrafterRequest) (*model.Crafter, error) {
	if m.createCrafterFunc != nil {
		return m.createCrafterFunc(ctx, userID, characterID, req)
	}
	return nil, nil
}

func (m *mockCharacterService) UpdateCrafter(ctx context.Context, userID, characterID, id string, req model.CrafterRequest) (*model.Crafter, error) {
	return nil, nil
}

func (m *mockCharacterService) DeleteCrafter(ctx context.Context, userID, characterID, id string) error {
	return nil
}

func (m *mockCharacterService) ListFighters(ctx context.Context, userID, characterID string) ([]*model.Fighter, error) {
	return nil, nil
}

func (m *mockCharacterService) GetFighter(ctx context.Context, userID, characterID, id string) (*model.Fighter, error) {
	return nil, nil
}

func (m *mockCharacterService) CreateFighter(ctx context.Context, userID, characterID string, req model.FighterRequest) (*model.Fighter, error) {
	return nil, nil
}

func (m *mockCharacterService) UpdateFighter(ctx context.Context, userID, characterID, id string, req model.FighterRequest) (*model.Fighter, error) {
	return nil, nil
}

func (m *mockCharacterService) DeleteFighter(ctx context.Context, userID, characterID, id string) error {
	if m.deleteFighterFunc != nil {
		return m.deleteFighterFunc(ctx, userID, characterID, id)
	}
	return nil
}

func (m *mockCharacterService) ListHousings(ctx context.Context, userID, characterID string) ([]*model.Housing, error) {
	return nil, nil
}

func (m *mockCharacterService) GetHousing(ctx context.Context, userID, characterID, id string) (*model.Housing, error) {
	return nil, nil
}

func (m *mockCharacterService) CreateHousing(ctx context.Context, userID, characterID string, req model.HousingRequest) (*model.Housing, error) {
	if m.createHousingFunc != nil {
		return m.createHousingFunc(ctx, userID, characterID, req)
	}
	return nil, nil
}

func (m *mockCharacterService) UpdateHousing(ctx context.Context, userID, characterID, id string, req model.HousingRequest) (*model.Housing, error) {
	return nil, nil
}

func (m *mockCharacterService) DeleteHousing(ctx context.Context, userID, characterID, id string) error {
	return nil
}

func (m *mockCharacterService) ListFreeCompanies(ctx context.Context, userID string) ([]*model.FreeCompany, error) {
	return nil, nil
}

func (m *mockCharacterService) GetFreeCompany(ctx context.Context, userID, id string) (*model.FreeCompany, error) {
	return nil, nil
}

func (m *mockCharacterService) CreateFreeCompany(ctx context.Context, userID string, req model.FreeCompanyRequest) (*model.FreeCompany, error) {
	if m.createFreeCompanyFunc != nil {
		return m.createFreeCompanyFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *mockCharacterService) UpdateFreeCompany(ctx context.Context, userID, id string, req model.FreeCompanyRequest) (*model.FreeCompany, error) {
	return nil, nil
}

func (m *mockCharacterService) DeleteFreeCompany(ctx context.Context, userID, id string) error {
	if m.deleteFreeCompanyFunc != nil {
		return m.deleteFreeCompanyFunc(ctx, userID, id)
	}
	return nil
}

// ============================================================================
// Mock CustomFieldService
// ============================================================================

type mockCustomFieldService struct {
	listFunc         func(ctx context.Context, userID string) ([]*model.CustomField, error)
	createFunc       func(ctx context.Context, userID string, req model.CustomFieldRequest) (*model.CustomField, error)
	moveFunc         func(ctx context.Context, userID, id string, position int) error
	createOptionFunc func(ctx context.Context, userID, fieldID, label string) (*model.CustomFieldOption, error)
	updateOptionFunc func(ctx context.Context, userID, fieldID, id, label string) error
}

func (m *mockCustomFieldService) List(ctx context.Context, userID string) ([]*model.CustomField, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockCustomFieldService) Get(ctx context.Context, userID, id string) (*model.CustomField, error) {
	return nil, nil
}

func (m *mockCustomFieldService) Create(ctx context.Context, userID string, req model.CustomFieldRequest) (*model.CustomField, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *mockCustomFieldService) Update(ctx context.Context, userID, id string, req model.CustomFieldRequest) (*model.CustomField, error) {
	return nil, nil
}

func (m *mockCustomFieldService) Delete(ctx context.Context, userID, id string) error {
	return nil
}

func (m *mockCustomFieldService) Move(ctx context.Context, userID, id string, position int) error {
	if m.moveFunc != nil {
		return m.moveFunc(ctx, userID, id, position)
	}
	return nil
}

func (m *mockCustomFieldService) ListOptions(ctx context.Context, userID, fieldID string) ([]model.CustomFieldOption, error) {
	return nil, nil
}

func (m *mockCustomFieldService) CreateOption(ctx context.Context, userID, fieldID, label string) (*model.CustomFieldOption, error) {
	if m.createOptionFunc != nil {
		return m.createOptionFunc(ctx, userID, fieldID, label)
	}
	return nil, nil
}

func (m *mockCustomFieldService) UpdateOption(ctx context.Context, userID, fieldID, id, label string) error {
	if m.updateOptionFunc != nil {
		return m.updateOptionFunc(ctx, userID, fieldID, id, label)
	}
	return nil
}

func (m *mockCustomFieldService) DeleteOption(ctx context.Context, userID, fieldID, id string) error {
	return nil
}

// ============================================================================
// Mock EventService
// ============================================================================

type mockEventService struct {
	listFunc   func(ctx context.Context, user *model.User, start, end string) ([]*model.Event, error)
	createFunc func(ctx context.Context, user *model.User, req model.EventRequest) (*model.Event, error)
	updateFunc func(ctx context.Context, user *model.User, id string, req model.EventRequest) (*model.Event, error)
	deleteFunc func(ctx context.Context, user *model.User, id string) error
}

func (m *mockEventService) List(ctx context.Context, user *model.User, start, end string) ([]*model.Event, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, user, start, end)
	}
	return nil, nil
}

func (m *mockEventService) Create(ctx context.Context, user *model.User, req model.EventRequest) (*model.Event, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user, req)
	}
	return nil, nil
}

func (m *mockEventService) Update(ctx context.Context, user *model.User, id string, req model.EventRequest) (*model.Event, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user, id, req)
	}
	return nil, nil
}

func (m *mockEventService) Delete(ctx context.Context, user *model.User, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, user, id)
	}
	return nil
}

// ============================================================================
// Mock SupportService
// ============================================================================

type mockSupportService struct {
	sendFunc func(ctx context.Context, user *model.User, req model.SupportRequest) error
	reports  []model.GlitchtipReport
}

func (m *mockSupportService) SendSupportRequest(ctx context.Context, user *model.User, req model.SupportRequest) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, user, req)
	}
	return nil
}

func (m *mockSupportService) ReportError(ctx context.Context, user *model.User, report model.GlitchtipReport) {
	m.reports = append(m.reports, report)
}

// ============================================================================
// Mock Pinger / Authenticator
// ============================================================================

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// tokenAuthenticator knows a fixed set of tokens
type tokenAuthenticator map[string]*model.User

func (a tokenAuthenticator) Authenticate(ctx context.Context, token string) (*model.User, *model.Grove, error) {
	user, ok := a[token]
	if !ok {
		return nil, nil, service.ErrInvalidToken
	}
	return user, &model.Grove{ID: user.GroveID, Name: "Bamboo", IsEnabled: true}, nil
}
