package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"clearusers/internal/user/models"
	"clearusers/internal/user/service/mocks"
	"clearusers/pkg/paging"
	"clearusers/pkg/platform/sentinel"
	"clearusers/pkg/platform/tx"
	"clearusers/pkg/problem"
	"clearusers/pkg/requestcontext"
)

var now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), now)
}

func newService(t *testing.T) (*UserService, *mocks.MockUserStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserStore(ctrl)
	svc := New(store, tx.NewMemoryRunner(), Config{MinAge: 18})
	return svc, store
}

func validCreate() models.CreateUserRequest {
	return models.CreateUserRequest{
		FirstName:   strPtr("Oleksii"),
		LastName:    strPtr("Ivanchenko"),
		Email:       strPtr("oleksii.ivanchenko@gmail.com"),
		BirthDate:   strPtr("2001-04-25"),
		Address:     strPtr("Ukraine, Kyiv, Shevchenko str. 5"),
		PhoneNumber: strPtr("+380 93 123 4567"),
	}
}

func asProblem(t *testing.T, err error) *problem.Error {
	t.Helper()
	var pErr *problem.Error
	require.ErrorAs(t, err, &pErr)
	return pErr
}

func TestCreateUserPersistsAndPreservesFields(t *testing.T) {
	svc, store := newService(t)

	store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *models.User) (*models.User, error) {
			saved := *u
			saved.ID = 1
			return &saved, nil
		})

	created, err := svc.CreateUser(testCtx(), validCreate())
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Oleksii", created.FirstName)
	assert.Equal(t, "Ivanchenko", created.LastName)
	assert.Equal(t, "oleksii.ivanchenko@gmail.com", created.Email)
	assert.Equal(t, "2001-04-25", created.BirthDate.String())
	assert.Equal(t, "Ukraine, Kyiv, Shevchenko str. 5", created.Address)
	assert.Equal(t, "+380 93 123 4567", created.PhoneNumber)
}

func TestCreateUserCollectsAllValidationFailures(t *testing.T) {
	svc, _ := newService(t)

	req := models.CreateUserRequest{FirstName: strPtr("A")}
	_, err := svc.CreateUser(testCtx(), req)

	pErr := asProblem(t, err)
	assert.Equal(t, problem.DetailFailedValidation, pErr.Detail)
	assert.Equal(t, http.StatusBadRequest, pErr.Status)

	fields := make([]string, len(pErr.Problems))
	for i, p := range pErr.Problems {
		fields[i] = p.Field
	}
	assert.ElementsMatch(t, []string{"firstName", "lastName", "email", "birthDate"}, fields)
}

func TestCreateUserSingleCharFirstName(t *testing.T) {
	svc, _ := newService(t)

	req := validCreate()
	req.FirstName = strPtr("A")

	_, err := svc.CreateUser(testCtx(), req)

	pErr := asProblem(t, err)
	assert.Equal(t, http.StatusBadRequest, pErr.Status)
	assert.Equal(t, problem.DetailFailedValidation, pErr.Detail)
	require.Len(t, pErr.Problems, 1)
	assert.Equal(t, "firstName", pErr.Problems[0].Field)
	assert.Equal(t, "A", pErr.Problems[0].WrongValue)
}

func TestCreateUserAgeEligibility(t *testing.T) {
	t.Run("below minimum is rejected without touching the store", func(t *testing.T) {
		svc, _ := newService(t)

		req := validCreate()
		req.BirthDate = strPtr("2010-01-01")

		_, err := svc.CreateUser(testCtx(), req)

		pErr := asProblem(t, err)
		assert.Equal(t, problem.DetailYoungAge, pErr.Detail)
		require.Len(t, pErr.Problems, 1)
		assert.Equal(t, "birthDate", pErr.Problems[0].Field)
		assert.Equal(t, "2010-01-01", pErr.Problems[0].WrongValue)
		assert.Contains(t, pErr.Problems[0].Message, "2010-01-01")
	})

	t.Run("turning 18 tomorrow is still 17", func(t *testing.T) {
		svc, _ := newService(t)

		req := validCreate()
		req.BirthDate = strPtr("2006-06-16")

		_, err := svc.CreateUser(testCtx(), req)
		pErr := asProblem(t, err)
		assert.Equal(t, problem.DetailYoungAge, pErr.Detail)
	})

	t.Run("18th birthday today is old enough", func(t *testing.T) {
		svc, store := newService(t)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, u *models.User) (*models.User, error) {
				return u, nil
			})

		req := validCreate()
		req.BirthDate = strPtr("2006-06-15")

		_, err := svc.CreateUser(testCtx(), req)
		assert.NoError(t, err)
	})
}

func TestCreateUserUniquenessConflict(t *testing.T) {
	svc, store := newService(t)

	cause := fmt.Errorf(`duplicate key value violates unique constraint "users_email_key": %w`, sentinel.ErrConflict)
	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, cause)

	_, err := svc.CreateUser(testCtx(), validCreate())

	pErr := asProblem(t, err)
	assert.Equal(t, problem.DetailConstraintViolation, pErr.Detail)
	assert.Equal(t, http.StatusBadRequest, pErr.Status)
	require.Len(t, pErr.Problems, 1)
	assert.Equal(t, cause.Error(), pErr.Problems[0].Message)
	assert.Empty(t, pErr.Problems[0].Field)
}

func TestGetAllUsersForwardsPageSpecUnchanged(t *testing.T) {
	svc, store := newService(t)

	page := paging.PageRequest{
		Page: 3,
		Size: 7,
		Sort: []paging.SortKey{{Field: "lastName", Direction: "desc"}},
	}
	want := paging.NewPage([]models.User{{ID: 1}}, 22, page)
	store.EXPECT().List(gomock.Any(), page).Return(want, nil)

	got, err := svc.GetAllUsers(testCtx(), page)
	require.NoError(t, err)
	assert.Equal(t, want, got, "the service must not re-sort or re-paginate")
}

func TestUpdateUserMergesPresentFieldsOnly(t *testing.T) {
	svc, store := newService(t)

	existing := &models.User{
		ID:          7,
		FirstName:   "Oleksii",
		LastName:    "Ivanchenko",
		Email:       "oleksii.ivanchenko@gmail.com",
		BirthDate:   models.NewDate(2001, time.April, 25),
		Address:     "Ukraine, Kyiv, Shevchenko str. 5",
		PhoneNumber: "+380 93 123 4567",
	}
	store.EXPECT().FindByID(gomock.Any(), int64(7)).Return(existing, nil)

	var persisted models.User
	store.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *models.User) (*models.User, error) {
			persisted = *u
			return u, nil
		})

	updated, err := svc.UpdateUser(testCtx(), 7, models.UpdateUserRequest{FirstName: strPtr("Andrii")})
	require.NoError(t, err)

	assert.Equal(t, "Andrii", updated.FirstName)
	assert.Equal(t, int64(7), persisted.ID)
	assert.Equal(t, "Ivanchenko", persisted.LastName)
	assert.Equal(t, "oleksii.ivanchenko@gmail.com", persisted.Email)
	assert.Equal(t, "2001-04-25", persisted.BirthDate.String())
	assert.Equal(t, "Ukraine, Kyiv, Shevchenko str. 5", persisted.Address)
	assert.Equal(t, "+380 93 123 4567", persisted.PhoneNumber)
}

func TestUpdateUserNotFound(t *testing.T) {
	svc, store := newService(t)

	store.EXPECT().FindByID(gomock.Any(), int64(42)).Return(nil, sentinel.ErrNotFound)

	_, err := svc.UpdateUser(testCtx(), 42, models.UpdateUserRequest{FirstName: strPtr("Andrii")})

	pErr := asProblem(t, err)
	assert.Equal(t, http.StatusNotFound, pErr.Status)
	assert.Equal(t, problem.DetailUserNotFound, pErr.Detail)
	require.Len(t, pErr.Problems, 1)
	assert.Equal(t, "User id", pErr.Problems[0].Field)
	assert.Equal(t, "42", pErr.Problems[0].WrongValue)
}

func TestUpdateUserValidatesPresentFields(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.UpdateUser(testCtx(), 7, models.UpdateUserRequest{Email: strPtr("broken")})

	pErr := asProblem(t, err)
	assert.Equal(t, problem.DetailFailedValidation, pErr.Detail)
	require.Len(t, pErr.Problems, 1)
	assert.Equal(t, "email", pErr.Problems[0].Field)
	assert.Equal(t, "broken", pErr.Problems[0].WrongValue)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	svc, store := newService(t)

	existing := &models.User{ID: 7, FirstName: "Oleksii", LastName: "Ivanchenko",
		Email: "oleksii.ivanchenko@gmail.com", BirthDate: models.NewDate(2001, time.April, 25)}
	store.EXPECT().FindByID(gomock.Any(), int64(7)).Return(existing, nil)

	cause := fmt.Errorf("email 'taken@example.com' is already used: %w", sentinel.ErrConflict)
	store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil, cause)

	_, err := svc.UpdateUser(testCtx(), 7, models.UpdateUserRequest{Email: strPtr("taken@example.com")})

	pErr := asProblem(t, err)
	assert.Equal(t, problem.DetailConstraintViolation, pErr.Detail)
	assert.Equal(t, cause.Error(), pErr.Problems[0].Message)
}

func TestDeleteUser(t *testing.T) {
	t.Run("existing user is deleted", func(t *testing.T) {
		svc, store := newService(t)
		store.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil)

		assert.NoError(t, svc.DeleteUser(testCtx(), 7))
	})

	t.Run("missing user reports not found", func(t *testing.T) {
		svc, store := newService(t)
		store.EXPECT().Delete(gomock.Any(), int64(100)).Return(sentinel.ErrNotFound)

		err := svc.DeleteUser(testCtx(), 100)

		pErr := asProblem(t, err)
		assert.Equal(t, http.StatusNotFound, pErr.Status)
		assert.Equal(t, problem.DetailUserNotFound, pErr.Detail)
		require.Len(t, pErr.Problems, 1)
		assert.Equal(t, "User id", pErr.Problems[0].Field)
		assert.Equal(t, "100", pErr.Problems[0].WrongValue)
	})
}

func TestSearchUsersByBirthDateRangeOrder(t *testing.T) {
	from := models.NewDate(1997, time.March, 10)
	to := models.NewDate(1990, time.March, 10)

	t.Run("out-of-order bounds are rejected", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.SearchUsersByBirthDate(testCtx(), from, to, paging.Default())

		pErr := asProblem(t, err)
		assert.Equal(t, problem.DetailIllegalArguments, pErr.Detail)
		require.Len(t, pErr.Problems, 1)
		assert.Empty(t, pErr.Problems[0].Field)
		assert.Contains(t, pErr.Problems[0].Message, "1997-03-10")
		assert.Contains(t, pErr.Problems[0].Message, "1990-03-10")
	})

	t.Run("equal bounds are rejected too", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.SearchUsersByBirthDate(testCtx(), from, from, paging.Default())

		pErr := asProblem(t, err)
		assert.Equal(t, problem.DetailIllegalArguments, pErr.Detail)
	})

	t.Run("ordered bounds reach the store untouched", func(t *testing.T) {
		svc, store := newService(t)

		page := paging.PageRequest{Page: 0, Size: 10, Sort: []paging.SortKey{{Field: "birthDate", Direction: "asc"}}}
		want := paging.NewPage([]models.User{{ID: 2}}, 1, page)
		store.EXPECT().FindByBirthDateBetween(gomock.Any(), to, from, page).Return(want, nil)

		got, err := svc.SearchUsersByBirthDate(testCtx(), to, from, page)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestStoreFaultsStayInternal(t *testing.T) {
	svc, store := newService(t)

	store.EXPECT().List(gomock.Any(), gomock.Any()).Return(paging.Page[models.User]{}, errors.New("connection refused"))

	_, err := svc.GetAllUsers(testCtx(), paging.Default())
	require.Error(t, err)

	var pErr *problem.Error
	assert.False(t, errors.As(err, &pErr), "infrastructure faults are not part of the caller-facing taxonomy")
}
