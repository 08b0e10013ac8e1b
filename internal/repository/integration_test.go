package repository_test

import (
	"testing"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
	"github.com/Creastina/bambushain/internal/repository"
	"github.com/Creastina/bambushain/internal/testing/fixtures"
	"github.com/Creastina/bambushain/internal/testing/helpers"
	"github.com/Creastina/bambushain/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_GroveCreateAndCascadeDelete(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	grove, mod := f.CreateGrove(t)
	require.NotEmpty(t, grove.ID)
	assert.Equal(t, grove.ID, mod.GroveID)
	assert.True(t, mod.IsMod)

	member := f.CreateUser(t, grove)
	character := f.CreateCharacter(t, member)
	helpers.AssertRecordExists(t, tdb.DB, character.ID)
	require.NoError(t, repository.NewFreeCompanyRepository(tdb.DB).Create(tdb.Ctx(), &model.FreeCompany{UserID: member.ID, Name: "Pandas Grove"}))
	f.CreateCustomField(t, member, "Content", "Raids", "Maps")
	f.CreateEvent(t, member, "2026-03-01")

	groves := repository.NewGroveRepository(tdb.DB)
	require.NoError(t, groves.Delete(tdb.Ctx(), grove.ID))

	helpers.AssertRecordNotExists(t, tdb.DB, member.ID)

	for _, table := range []string{"grove", "user", "character", "free_company", "custom_field", "custom_field_option", "event"} {
		assert.Zero(t, tdb.Count(table), "table %s should be empty", table)
	}
}

func TestIntegration_UserEmailIsUnique(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	grove, mod := f.CreateGrove(t)

	users := repository.NewUserRepository(tdb.DB)
	err := users.Create(tdb.Ctx(), &model.User{
		Email:       mod.Email,
		DisplayName: "Copy",
		GroveID:     grove.ID,
		Hash:        "x",
	})
	assert.ErrorIs(t, err, database.ErrDuplicate)
}

func TestIntegration_CharacterOwnership(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	grove, _ := f.CreateGrove(t)
	owner := f.CreateUser(t, grove)
	other := f.CreateUser(t, grove)
	character := f.CreateCharacter(t, owner)

	characters := repository.NewCharacterRepository(tdb.DB)

	found, err := characters.Get(tdb.Ctx(), owner.ID, character.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, character.Name, found.Name)

	found, err = characters.Get(tdb.Ctx(), other.ID, character.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	crafters := repository.NewCrafterRepository(tdb.DB)
	require.NoError(t, crafters.Create(tdb.Ctx(), &model.Crafter{CharacterID: character.ID, Job: model.CrafterMiner, Level: "100"}))
	err = crafters.Create(tdb.Ctx(), &model.Crafter{CharacterID: character.ID, Job: model.CrafterMiner})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	require.NoError(t, characters.Delete(tdb.Ctx(), owner.ID, character.ID))
	assert.Zero(t, tdb.Count("crafter"))
}

func TestIntegration_FreeCompanyDeleteUnlinksCharacters(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	grove, _ := f.CreateGrove(t)
	user := f.CreateUser(t, grove)

	companies := repository.NewFreeCompanyRepository(tdb.DB)
	company := &model.FreeCompany{UserID: user.ID, Name: "Pandas Grove"}
	require.NoError(t, companies.Create(tdb.Ctx(), company))
	err := companies.Create(tdb.Ctx(), &model.FreeCompany{UserID: user.ID, Name: "Pandas Grove"})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	character := f.CreateCharacter(t, user, func(c *model.Character) { c.FreeCompany = company })

	characters := repository.NewCharacterRepository(tdb.DB)
	found, err := characters.Get(tdb.Ctx(), user.ID, character.ID)
	require.NoError(t, err)
	require.NotNil(t, found.FreeCompany)
	assert.Equal(t, company.ID, found.FreeCompany.ID)
	assert.Equal(t, "Pandas Grove", found.FreeCompany.Name)

	require.NoError(t, companies.Delete(tdb.Ctx(), user.ID, company.ID))

	found, err = characters.Get(tdb.Ctx(), user.ID, character.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.FreeCompany)
	assert.Zero(t, tdb.Count("free_company"))
}

func TestIntegration_CustomFieldDeleteClosesGap(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	grove, _ := f.CreateGrove(t)
	user := f.CreateUser(t, grove)

	first := f.CreateCustomField(t, user, "First")
	second := f.CreateCustomField(t, user, "Second", "B", "A")
	third := f.CreateCustomField(t, user, "Third")
	require.Len(t, second.Options, 2)
	assert.Equal(t, "A", second.Options[0].Label)

	fields := repository.NewCustomFieldRepository(tdb.DB)
	require.NoError(t, fields.Delete(tdb.Ctx(), user.ID, second.ID))

	list, err := fields.List(tdb.Ctx(), user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, third.ID, list[1].ID)
	assert.Equal(t, 1, list[1].Position)
	assert.Zero(t, tdb.Count("custom_field_option"))
}

func TestIntegration_EventVisibility(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	grove, _ := f.CreateGrove(t)
	owner := f.CreateUser(t, grove)
	member := f.CreateUser(t, grove)

	public := f.CreateEvent(t, owner, "2026-03-10")
	private := f.CreateEvent(t, owner, "2026-03-11", fixtures.Private)
	f.CreateEvent(t, owner, "2026-04-20")

	events := repository.NewEventRepository(tdb.DB)

	visible, err := events.ListVisible(tdb.Ctx(), grove.ID, owner.ID, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, public.ID, visible[0].ID)
	assert.Equal(t, private.ID, visible[1].ID)

	visible, err = events.ListVisible(tdb.Ctx(), grove.ID, member.ID, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, public.ID, visible[0].ID)
}
