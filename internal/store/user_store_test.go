package store

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	users "github.com/AdamBeresnev/tourney-api/internal/user"
	"github.com/AdamBeresnev/tourney-api/internal/utils"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLookups(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewUserStore(db)

	user := &users.User{
		ID:         uuid.New(),
		Email:      "gamer@example.com",
		Username:   "gamer",
		Provider:   utils.Ptr("discord"),
		ProviderID: utils.Ptr("12345"),
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	byProvider, err := store.GetUserByProvider(ctx, "discord", "12345")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byProvider.ID)

	byName, err := store.GetUserByUsername(ctx, "gamer")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Nil(t, byName.PasswordHash)
	assert.False(t, byName.IsAdmin)

	byEmail, err := store.GetUserByEmail(ctx, "gamer@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	exists, err := store.UsernameExists(ctx, "gamer")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.UsernameExists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.GetUser(ctx, uuid.New())
	assert.True(t, errors.Is(err, bracket.ErrNotFound))
}

func TestUsernameIsUnique(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seedUser(t, db, "taken")
	err := NewUserStore(db).CreateUser(context.Background(), &users.User{
		ID:        uuid.New(),
		Username:  "taken",
		CreatedAt: time.Now().UTC(),
	})
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewUserStore(db)
	user := seedUser(t, db, "before")

	user.Username = "after"
	user.AvatarURL = utils.Ptr("https://cdn.example.com/a.png")
	require.NoError(t, store.UpdateProfile(ctx, user))

	fetched, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", fetched.Username)
	assert.Equal(t, "https://cdn.example.com/a.png", *fetched.AvatarURL)

	list, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
