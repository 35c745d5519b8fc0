package professional

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput(email string) Input {
	return Input{
		Name:       "Dr. Ada Obi",
		Specialty:  "Cardiologist",
		Phone:      "+234 801 234 5678",
		Email:      email,
		Department: "Cardiology",
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	created, err := store.Create(ctx, validInput("ada@fmc.example"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, Available, created.Availability)
	assert.Equal(t, Active, created.Status)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	in := validInput("ada@fmc.example")
	in.Availability = Busy
	updated, err := store.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, Busy, updated.Availability)
	assert.Equal(t, Active, updated.Status)

	removed, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ada Obi", removed.Name)

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Update(ctx, created.ID, in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	first, err := store.Create(ctx, validInput("ada@fmc.example"))
	require.NoError(t, err)
	second, err := store.Create(ctx, validInput("bola@fmc.example"))
	require.NoError(t, err)

	_, err = store.Create(ctx, validInput("ADA@fmc.example"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = store.Update(ctx, second.ID, validInput("ada@fmc.example"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = store.Update(ctx, first.ID, validInput("ada@fmc.example"))
	assert.NoError(t, err, "keeping its own email is not a duplicate")
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	base := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore([]Professional{
		{ID: 1, Name: "old", CreatedAt: base},
		{ID: 7, Name: "new", CreatedAt: base.Add(48 * time.Hour)},
		{ID: 3, Name: "mid", CreatedAt: base.Add(24 * time.Hour)},
	})

	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{items[0].Name, items[1].Name, items[2].Name})

	created, err := store.Create(context.Background(), validInput("x@fmc.example"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), created.ID, "ids continue after the highest preloaded id")
}

func TestMemoryStoreListEmptyIsNotNil(t *testing.T) {
	items, err := NewMemoryStore(nil).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestMemoryStoreFindContactPrefersAvailable(t *testing.T) {
	store := NewMemoryStore([]Professional{
		{ID: 1, Name: "on call", Specialty: "Cardiologist", Availability: OnCall, Status: Active},
		{ID: 2, Name: "inactive", Specialty: "Cardiologist", Availability: Available, Status: Inactive},
		{ID: 3, Name: "available", Specialty: "Cardiologist", Availability: Available, Status: Active},
		{ID: 4, Name: "busy", Specialty: "Cardiologist", Availability: Busy, Status: Active},
	})
	ctx := context.Background()

	got, err := store.FindContact(ctx, ContactQuery{Specialty: "Cardiologist", Availability: []Availability{Available, OnCall}})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "available", got.Name)

	got, err = store.FindContact(ctx, ContactQuery{Specialty: "Neurologist"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestContactQueryAccepts(t *testing.T) {
	p := Professional{Specialty: EmergencySpecialty, Availability: OffDuty, Status: Active}

	assert.True(t, ContactQuery{Specialty: EmergencySpecialty}.Accepts(p))
	assert.False(t, ContactQuery{Specialty: EmergencySpecialty, Availability: []Availability{Available, OnCall}}.Accepts(p))
	assert.False(t, ContactQuery{Specialty: "Cardiologist"}.Accepts(p))

	p.Status = Inactive
	assert.False(t, ContactQuery{Specialty: EmergencySpecialty}.Accepts(p))
}

func TestInputValidate(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Input)
		want string
	}{
		{"missing fields", func(in *Input) { in.Name = ""; in.Phone = "" }, "Missing required fields: name, phone"},
		{"bad email", func(in *Input) { in.Email = "not-an-email" }, "Invalid email address"},
		{"bad phone", func(in *Input) { in.Phone = "12ab" }, "Invalid phone number format"},
		{"short name", func(in *Input) { in.Name = "A" }, "Name must be between 2 and 100 characters"},
		{"bad availability", func(in *Input) { in.Availability = "Sleeping" }, "Availability must be one of Available, Busy, On Call, Off Duty"},
		{"bad status", func(in *Input) { in.Status = "retired" }, "Status must be active or inactive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput("ada@fmc.example")
			tc.edit(&in)
			err := in.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.want, verr.Message)
		})
	}

	assert.NoError(t, validInput("ada@fmc.example").Validate())
}

func TestInputValidateReportsRulesInOrder(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Input)
		want string
	}{
		{"email before phone", func(in *Input) { in.Phone = "12ab"; in.Email = "nope" }, "Invalid email address"},
		{"name before email", func(in *Input) { in.Email = "nope"; in.Name = "A" }, "Name must be between 2 and 100 characters"},
		{"phone before specialty", func(in *Input) { in.Specialty = "C"; in.Phone = "12ab" }, "Invalid phone number format"},
		{"specialty before department", func(in *Input) { in.Department = "D"; in.Specialty = "C" }, "Specialty must be between 2 and 100 characters"},
		{"missing fields keep declaration order", func(in *Input) { in.Email = ""; in.Specialty = "" }, "Missing required fields: specialty, email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput("ada@fmc.example")
			tc.edit(&in)

			var verr *ValidationError
			require.ErrorAs(t, in.Validate(), &verr)
			assert.Equal(t, tc.want, verr.Message)
		})
	}
}

func TestInputNormalizeTrims(t *testing.T) {
	in := Input{Name: "  Dr. Ada ", Email: " ada@fmc.example\t", Availability: " On Call "}
	got := in.Normalize()
	assert.Equal(t, "Dr. Ada", got.Name)
	assert.Equal(t, "ada@fmc.example", got.Email)
	assert.Equal(t, OnCall, got.Availability)
}
