// Package fixtures provides test data factories for integration tests.
//
// Factories insert through the repositories, so fixtures obey the same
// unique indexes and record links as production data.
//
//	f := fixtures.New(tdb.DB)
//	grove, mod := f.CreateGrove(t)
//	user := f.CreateUser(t, grove)
//	character := f.CreateCharacter(t, user)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
	"github.com/Creastina/bambushain/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every fixture user
const DefaultPassword = "bamboo-test-123"

// Factory creates test entities in the database
type Factory struct {
	groves     *repository.GroveRepository
	users      *repository.UserRepository
	characters *repository.CharacterRepository
	fields     *repository.CustomFieldRepository
	events     *repository.EventRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		groves:     repository.NewGroveRepository(db),
		users:      repository.NewUserRepository(db),
		characters: repository.NewCharacterRepository(db),
		fields:     repository.NewCustomFieldRepository(db),
		events:     repository.NewEventRepository(db),
	}
}

func randomID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func hash(t *testing.T) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}
	return string(h)
}

// ============================================================================
// Groves and Users
// ============================================================================

// CreateGrove creates an enabled grove together with its first mod
func (f *Factory) CreateGrove(t *testing.T) (*model.Grove, *model.User) {
	t.Helper()

	id := randomID()
	grove := &model.Grove{Name: "Grove " + id, IsEnabled: true}
	mod := &model.User{
		Email:       fmt.Sprintf("mod_%s@bambushain.test", id),
		DisplayName: "Mod " + id,
		IsMod:       true,
		Hash:        hash(t),
	}

	if err := f.groves.Create(ctx(t), grove, mod); err != nil {
		t.Fatalf("fixtures: failed to create grove: %v", err)
	}
	return grove, mod
}

// UserOpts customizes user creation
type UserOpts struct {
	Email       string
	DisplayName string
	IsMod       bool
}

// CreateUser creates a member of the grove
func (f *Factory) CreateUser(t *testing.T, grove *model.Grove, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := randomID()
	o := &UserOpts{
		Email:       fmt.Sprintf("user_%s@bambushain.test", id),
		DisplayName: "Panda " + id,
	}
	for _, fn := range opts {
		fn(o)
	}

	user := &model.User{
		Email:       o.Email,
		DisplayName: o.DisplayName,
		IsMod:       o.IsMod,
		GroveID:     grove.ID,
		Hash:        hash(t),
	}
	if err := f.users.Create(ctx(t), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// ============================================================================
// Characters and Custom Fields
// ============================================================================

// CreateCharacter creates a character owned by the user
func (f *Factory) CreateCharacter(t *testing.T, user *model.User, opts ...func(*model.Character)) *model.Character {
	t.Helper()

	character := &model.Character{
		UserID:       user.ID,
		Name:         "Character " + randomID(),
		Race:         model.RaceViera,
		World:        "Shiva",
		CustomFields: []model.CharacterCustomField{},
	}
	for _, fn := range opts {
		fn(character)
	}

	if err := f.characters.Create(ctx(t), character); err != nil {
		t.Fatalf("fixtures: failed to create character: %v", err)
	}
	return character
}

// CreateCustomField creates a custom field at the end of the user's list
func (f *Factory) CreateCustomField(t *testing.T, user *model.User, label string, options ...string) *model.CustomField {
	t.Helper()

	count, err := f.fields.Count(ctx(t), user.ID)
	if err != nil {
		t.Fatalf("fixtures: failed to count custom fields: %v", err)
	}

	field := &model.CustomField{UserID: user.ID, Label: label, Position: count}
	if err := f.fields.Create(ctx(t), field, options); err != nil {
		t.Fatalf("fixtures: failed to create custom field: %v", err)
	}
	return field
}

// ============================================================================
// Events
// ============================================================================

// CreateEvent creates a public single day event
func (f *Factory) CreateEvent(t *testing.T, user *model.User, date string, opts ...func(*model.Event)) *model.Event {
	t.Helper()

	event := &model.Event{
		Title:     "Event " + randomID(),
		StartDate: date,
		EndDate:   date,
		Color:     model.DefaultEventColor,
		UserID:    user.ID,
		GroveID:   user.GroveID,
	}
	for _, fn := range opts {
		fn(event)
	}

	if err := f.events.Create(ctx(t), event); err != nil {
		t.Fatalf("fixtures: failed to create event: %v", err)
	}
	return event
}

// Private marks an event as private
func Private(e *model.Event) {
	e.IsPrivate = true
}
