package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hengadev/errsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/ayurdiet-server/internal/fieldcrypt"
	"github.com/dtroode/ayurdiet-server/internal/mocks"
	"github.com/dtroode/ayurdiet-server/internal/model"
	"github.com/dtroode/ayurdiet-server/internal/repository/memory"
	"github.com/dtroode/ayurdiet-server/internal/testutil"
)

const (
	testKey     = "service-test-encryption-key"
	ownerID     = "practitioner-1"
	otherUserID = "practitioner-2"
)

func newTransformer(t *testing.T, key string) *fieldcrypt.Transformer {
	t.Helper()
	c, err := fieldcrypt.NewCipher(key)
	require.NoError(t, err)
	return fieldcrypt.NewTransformer(c, testutil.MakeNoopLogger())
}

func newService(t *testing.T) (*Patient, *memory.PatientRepository) {
	t.Helper()
	repo := memory.NewPatientRepository()
	return NewPatient(repo, newTransformer(t, testKey), nil, testutil.MakeNoopLogger()), repo
}

func meeraInput() model.PatientInput {
	return model.PatientInput{
		Name: "Meera",
		Fields: model.Fields{
			model.FieldDOB:       model.String("1990-05-01"),
			model.FieldGender:    model.String("female"),
			model.FieldAllergies: model.List("peanuts", "dust"),
		},
	}
}

func TestPatient_CreateThenList(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, ownerID, meeraInput())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Meera", created.Name)
	assert.Equal(t, ownerID, created.OwnerID)
	assert.True(t, fieldcrypt.IsCiphertext(created.Fields[model.FieldDOB].Str()))

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, stored.Fields[model.FieldAllergies].Items(), 2)
	for _, item := range stored.Fields[model.FieldAllergies].Items() {
		assert.True(t, fieldcrypt.IsCiphertext(item))
		assert.NotContains(t, item, "peanuts")
	}

	list, err := svc.ListPatients(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Meera", list[0].Name)
	assert.Equal(t, model.List("peanuts", "dust"), list[0].Fields[model.FieldAllergies])
	assert.Equal(t, model.String("1990-05-01"), list[0].Fields[model.FieldDOB])
	assert.Equal(t, model.String("female"), list[0].Fields[model.FieldGender])
}

func TestPatient_OwnershipIsolation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, ownerID, meeraInput())
	require.NoError(t, err)

	_, err = svc.GetPatient(ctx, otherUserID, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	notes := model.Fields{model.FieldNotes: model.String("x")}
	_, err = svc.UpdatePatient(ctx, otherUserID, created.ID, model.PatientPatch{Fields: notes})
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = svc.DeletePatient(ctx, otherUserID, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	list, err := svc.ListPatients(ctx, otherUserID)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.GetPatient(ctx, ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.String("female"), got.Fields[model.FieldGender])
}

func TestPatient_OwnerMatchedAcrossIDForms(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := "3b241101-e2bb-4255-8caf-4136c566a962"

	created, err := svc.CreatePatient(ctx, owner, meeraInput())
	require.NoError(t, err)

	for _, caller := range []string{
		strings.ToUpper(owner),
		"{" + owner + "}",
		"urn:uuid:" + owner,
		strings.ReplaceAll(owner, "-", ""),
	} {
		got, err := svc.GetPatient(ctx, caller, created.ID)
		require.NoError(t, err, caller)
		assert.Equal(t, "Meera", got.Name)

		list, err := svc.ListPatients(ctx, caller)
		require.NoError(t, err, caller)
		assert.Len(t, list, 1, caller)
	}

	_, err = svc.GetPatient(ctx, "9a7c1f0e-5d2b-4c3a-8e6f-1b2d3c4e5f60", created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPatient_GetMissing(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetPatient(context.Background(), ownerID, "00000000-0000-0000-0000-000000000001")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPatient_UpdateMergesPresentFields(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, ownerID, meeraInput())
	require.NoError(t, err)
	before, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	updated, err := svc.UpdatePatient(ctx, ownerID, created.ID, model.PatientPatch{
		Fields: model.Fields{model.FieldNotes: model.String("prefers warm food")},
	})
	require.NoError(t, err)
	assert.Equal(t, model.String("prefers warm food"), updated.Fields[model.FieldNotes])
	assert.Equal(t, model.String("1990-05-01"), updated.Fields[model.FieldDOB])
	assert.Equal(t, model.List("peanuts", "dust"), updated.Fields[model.FieldAllergies])

	after, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Fields[model.FieldDOB], after.Fields[model.FieldDOB], "untouched ciphertext must not be rewritten")
	assert.True(t, fieldcrypt.IsCiphertext(after.Fields[model.FieldNotes].Str()))
}

func TestPatient_UpdateName(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, ownerID, meeraInput())
	require.NoError(t, err)

	name := "  Meera Iyer "
	updated, err := svc.UpdatePatient(ctx, ownerID, created.ID, model.PatientPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Meera Iyer", updated.Name)

	empty := " "
	_, err = svc.UpdatePatient(ctx, ownerID, created.ID, model.PatientPatch{Name: &empty})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestPatient_UpdateNothingKeepsRecord(t *testing.T) {
	store := mocks.NewPatientStore(t)
	svc := NewPatient(store, newTransformer(t, testKey), nil, testutil.MakeNoopLogger())

	store.On("GetByID", mock.Anything, "p-1").
		Return(model.Patient{ID: "p-1", OwnerID: ownerID, Name: "Meera", Fields: model.Fields{}}, nil).Once()

	got, err := svc.UpdatePatient(context.Background(), ownerID, "p-1", model.PatientPatch{})
	require.NoError(t, err)
	assert.Equal(t, "Meera", got.Name)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestPatient_Delete(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, ownerID, meeraInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeletePatient(ctx, ownerID, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = svc.DeletePatient(ctx, ownerID, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPatient_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   model.PatientInput
		wantKey string
	}{
		{
			name: "missing name",
			input: model.PatientInput{Fields: model.Fields{
				model.FieldDOB:    model.String("1990-05-01"),
				model.FieldGender: model.String("female"),
			}},
			wantKey: "name",
		},
		{
			name:    "missing dob",
			input:   model.PatientInput{Name: "Meera", Fields: model.Fields{model.FieldGender: model.String("female")}},
			wantKey: "dob",
		},
		{
			name:    "missing gender",
			input:   model.PatientInput{Name: "Meera", Fields: model.Fields{model.FieldDOB: model.String("1990-05-01")}},
			wantKey: "gender",
		},
		{
			name: "unknown field",
			input: model.PatientInput{Name: "Meera", Fields: model.Fields{
				model.FieldDOB:    model.String("1990-05-01"),
				model.FieldGender: model.String("female"),
				"favoriteFood":    model.String("khichdi"),
			}},
			wantKey: "favoriteFood",
		},
		{
			name: "list for single value",
			input: model.PatientInput{Name: "Meera", Fields: model.Fields{
				model.FieldDOB:    model.String("1990-05-01"),
				model.FieldGender: model.List("female"),
			}},
			wantKey: "gender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewPatientStore(t)
			svc := NewPatient(store, newTransformer(t, testKey), nil, testutil.MakeNoopLogger())

			_, err := svc.CreatePatient(context.Background(), ownerID, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)

			var fieldErrs errsx.Map
			require.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, fieldErrs, tt.wantKey)
		})
	}
}

func TestPatient_CreateCoercesScalarToList(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	input := meeraInput()
	input.Fields[model.FieldMedications] = model.String("triphala")

	created, err := svc.CreatePatient(ctx, ownerID, input)
	require.NoError(t, err)
	assert.Equal(t, model.KindList, created.Fields[model.FieldMedications].Kind())

	got, err := svc.GetPatient(ctx, ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.List("triphala"), got.Fields[model.FieldMedications])
}

func TestPatient_ReadsLegacyPlaintext(t *testing.T) {
	svc, repo := newService(t)

	repo.Put(model.Patient{
		ID:      "00000000-0000-0000-0000-00000000000a",
		OwnerID: ownerID,
		Name:    "Legacy",
		Fields: model.Fields{
			model.FieldGender:    model.String("male"),
			model.FieldAllergies: model.List("gluten"),
		},
	})

	got, err := svc.GetPatient(context.Background(), ownerID, "00000000-0000-0000-0000-00000000000a")
	require.NoError(t, err)
	assert.Equal(t, model.String("male"), got.Fields[model.FieldGender])
	assert.Equal(t, model.List("gluten"), got.Fields[model.FieldAllergies])
}

func TestPatient_WrongKeyReturnsStoredValue(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, ownerID, meeraInput())
	require.NoError(t, err)

	other := NewPatient(repo, newTransformer(t, "a-completely-different-key"), nil, testutil.MakeNoopLogger())
	got, err := other.GetPatient(ctx, ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Fields[model.FieldDOB], got.Fields[model.FieldDOB])
}

func TestPatient_StoreErrors(t *testing.T) {
	storeErr := errors.New("connection reset")

	t.Run("create", func(t *testing.T) {
		store := mocks.NewPatientStore(t)
		svc := NewPatient(store, newTransformer(t, testKey), nil, testutil.MakeNoopLogger())
		store.On("Create", mock.Anything, mock.AnythingOfType("model.Patient")).Return(model.Patient{}, storeErr).Once()

		_, err := svc.CreatePatient(context.Background(), ownerID, meeraInput())
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("list", func(t *testing.T) {
		store := mocks.NewPatientStore(t)
		svc := NewPatient(store, newTransformer(t, testKey), nil, testutil.MakeNoopLogger())
		store.On("GetByOwnerID", mock.Anything, ownerID).Return(nil, storeErr).Once()

		_, err := svc.ListPatients(context.Background(), ownerID)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("get", func(t *testing.T) {
		store := mocks.NewPatientStore(t)
		svc := NewPatient(store, newTransformer(t, testKey), nil, testutil.MakeNoopLogger())
		store.On("GetByID", mock.Anything, "p-1").Return(model.Patient{}, storeErr).Once()

		_, err := svc.GetPatient(context.Background(), ownerID, "p-1")
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := mocks.NewPatientStore(t)
		svc := NewPatient(store, newTransformer(t, testKey), nil, testutil.MakeNoopLogger())
		store.On("GetByID", mock.Anything, "p-1").
			Return(model.Patient{ID: "p-1", OwnerID: ownerID, Fields: model.Fields{}}, nil).Once()
		store.On("Delete", mock.Anything, "p-1").Return(storeErr).Once()

		err := svc.DeletePatient(context.Background(), ownerID, "p-1")
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestPatient_ListSkipsForeignRows(t *testing.T) {
	store := mocks.NewPatientStore(t)
	svc := NewPatient(store, newTransformer(t, testKey), nil, testutil.MakeNoopLogger())

	store.On("GetByOwnerID", mock.Anything, ownerID).Return([]model.Patient{
		{ID: "p-1", OwnerID: ownerID, Name: "Mine", Fields: model.Fields{}},
		{ID: "p-2", OwnerID: otherUserID, Name: "Theirs", Fields: model.Fields{}},
	}, nil).Once()

	list, err := svc.ListPatients(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mine", list[0].Name)
}
