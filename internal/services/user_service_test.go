package services

import (
	"testing"

	"hisabu/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)

		user, err := users.CreateUser("bursar@school.test", "secret123", "Halima", "Kintu")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Error("expected generated user ID")
		}
		if user.Password == "secret123" {
			t.Error("password stored in plaintext")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)

		_, err := users.CreateUser("bursar@school.test", "secret123", "", "")
		testutil.AssertNoError(t, err)

		_, err = users.CreateUser("bursar@school.test", "other456", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)

		_, err := users.CreateUser("", "secret123", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	users := NewUserService(db)

	_, err := users.CreateUser("bursar@school.test", "secret123", "", "")
	testutil.AssertNoError(t, err)

	t.Run("valid", func(t *testing.T) {
		user, err := users.AttemptLogin("bursar@school.test", "secret123")
		testutil.AssertNoError(t, err)
		if user.Email != "bursar@school.test" {
			t.Errorf("unexpected user %s", user.Email)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := users.AttemptLogin("bursar@school.test", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := users.AttemptLogin("nobody@school.test", "secret123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}
