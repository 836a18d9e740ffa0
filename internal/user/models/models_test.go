package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDateJSONRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2001-04-25"`), &d))
	assert.Equal(t, "2001-04-25", d.String())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2001-04-25"`, string(out))
}

func TestDateUnmarshalRejectsBadInput(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"25.04.2001"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20010425`), &d))
}

func TestDateAgeAt(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name  string
		birth Date
		want  int
	}{
		{"birthday already passed this year", NewDate(2006, time.June, 14), 18},
		{"birthday today", NewDate(2006, time.June, 15), 18},
		{"birthday tomorrow is still a year younger", NewDate(2006, time.June, 16), 17},
		{"born this year", NewDate(2024, time.January, 1), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.birth.AgeAt(now))
		})
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(1997, time.March, 10, 23, 0, 0, 0, time.FixedZone("X", 3600))))
	assert.Equal(t, "1997-03-10", d.String())

	require.NoError(t, d.Scan("1990-03-10"))
	assert.Equal(t, "1990-03-10", d.String())

	assert.Error(t, d.Scan(42))
}

func TestCreateRequestToUserPreservesEveryField(t *testing.T) {
	req := CreateUserRequest{
		FirstName:   strPtr("Oleksii"),
		LastName:    strPtr("Ivanchenko"),
		Email:       strPtr("oleksii.ivanchenko@gmail.com"),
		BirthDate:   strPtr("2001-04-25"),
		Address:     strPtr("Ukraine, Kyiv, Shevchenko str. 5"),
		PhoneNumber: strPtr("+380 93 123 4567"),
	}

	u, err := req.ToUser()
	require.NoError(t, err)

	assert.Equal(t, "Oleksii", u.FirstName)
	assert.Equal(t, "Ivanchenko", u.LastName)
	assert.Equal(t, "oleksii.ivanchenko@gmail.com", u.Email)
	assert.Equal(t, "2001-04-25", u.BirthDate.String())
	assert.Equal(t, "Ukraine, Kyiv, Shevchenko str. 5", u.Address)
	assert.Equal(t, "+380 93 123 4567", u.PhoneNumber)
	assert.Zero(t, u.ID, "identifier is assigned by the store")
}

func TestCreateRequestToUserRejectsMissingRequired(t *testing.T) {
	_, err := CreateUserRequest{FirstName: strPtr("Oleksii")}.ToUser()
	assert.Error(t, err)
}

func TestUpdateRequestApplyToMergesPresentFieldsOnly(t *testing.T) {
	existing := User{
		ID:          7,
		FirstName:   "Oleksii",
		LastName:    "Ivanchenko",
		Email:       "oleksii.ivanchenko@gmail.com",
		BirthDate:   NewDate(2001, time.April, 25),
		Address:     "Ukraine, Kyiv, Shevchenko str. 5",
		PhoneNumber: "+380 93 123 4567",
	}
	before := existing

	req := UpdateUserRequest{FirstName: strPtr("Andrii")}
	require.NoError(t, req.ApplyTo(&existing))

	assert.Equal(t, "Andrii", existing.FirstName)

	// Everything else stays byte-identical.
	assert.Equal(t, before.ID, existing.ID)
	assert.Equal(t, before.LastName, existing.LastName)
	assert.Equal(t, before.Email, existing.Email)
	assert.Equal(t, before.BirthDate.String(), existing.BirthDate.String())
	assert.Equal(t, before.Address, existing.Address)
	assert.Equal(t, before.PhoneNumber, existing.PhoneNumber)
}

func TestUpdateRequestApplyToEmptyRequestIsNoOp(t *testing.T) {
	existing := User{ID: 7, FirstName: "Oleksii", Email: "o@example.com", BirthDate: NewDate(2001, time.April, 25)}
	before := existing

	require.NoError(t, UpdateUserRequest{}.ApplyTo(&existing))
	assert.Equal(t, before, existing)
}

func TestUpdateRequestApplyToReplacesBirthDate(t *testing.T) {
	existing := User{BirthDate: NewDate(2001, time.April, 25)}
	req := UpdateUserRequest{BirthDate: strPtr("1999-12-31")}

	require.NoError(t, req.ApplyTo(&existing))
	assert.Equal(t, "1999-12-31", existing.BirthDate.String())
}
