package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/librarylab/lending-go/core"
)

func Test_NewUser_Valid_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	registeredAt := time.Date(2026, 3, 1, 10, 0, 0, 0, loc)

	user, err := core.NewUser(uuid.New(), "Ada Lovelace", registeredAt)

	assert.NoError(t, err)
	assert.Equal(t, time.UTC, user.RegisteredAt.Location())
	assert.True(t, user.RegisteredAt.Equal(registeredAt))
}

func Test_NewUser_RejectsNilID(t *testing.T) {
	_, err := core.NewUser(uuid.Nil, "Ada Lovelace", time.Now())

	assert.True(t, core.IsInvalidArgument(err))
}

func Test_NewUser_RejectsBlankName(t *testing.T) {
	_, err := core.NewUser(uuid.New(), "   ", time.Now())

	assert.True(t, core.IsInvalidArgument(err))
}

func Test_NewUser_RejectsZeroRegistrationTime(t *testing.T) {
	_, err := core.NewUser(uuid.New(), "Ada Lovelace", time.Time{})

	assert.True(t, core.IsInvalidArgument(err))
}
