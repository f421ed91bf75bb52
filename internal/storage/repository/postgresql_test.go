package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

const (
	testUserUID  = "11111111-1111-1111-1111-111111111111"
	otherUserUID = "22222222-2222-2222-2222-222222222222"
	testPostID   = "33333333-3333-3333-3333-333333333333"
)

func TestStorage_GetEntitlement(t *testing.T) {
	subscribedAt := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	expiresAt := subscribedAt.AddDate(0, 0, 30)
	bronzeLimit := 3

	tests := []struct {
		name    string
		userUID string
		want    *models.Entitlement
		wantErr error
		setup   func(f *TestDataFactory)
	}{
		{
			name:    "новый пользователь получает бесплатный тариф по умолчанию",
			userUID: testUserUID,
			want: &models.Entitlement{
				Plan:      "Free",
				PostLimit: &[]int{1}[0],
			},
			setup: func(f *TestDataFactory) {
				f.CreateUser(t, testUserUID, "alice", "alice@example.com")
			},
		},
		{
			name:    "пользователь с оформленной подпиской",
			userUID: testUserUID,
			want: &models.Entitlement{
				Plan:         "Bronze",
				PostLimit:    &bronzeLimit,
				SubscribedAt: &subscribedAt,
				ExpiresAt:    &expiresAt,
			},
			setup: func(f *TestDataFactory) {
				f.CreateUserWithEntitlement(t, testUserUID, "alice", "alice@example.com",
					"Bronze", &bronzeLimit, &subscribedAt, &expiresAt)
			},
		},
		{
			name:    "безлимитный тариф хранится без лимита",
			userUID: testUserUID,
			want: &models.Entitlement{
				Plan:         "Gold",
				SubscribedAt: &subscribedAt,
				ExpiresAt:    &expiresAt,
			},
			setup: func(f *TestDataFactory) {
				f.CreateUserWithEntitlement(t, testUserUID, "alice", "alice@example.com",
					"Gold", nil, &subscribedAt, &expiresAt)
			},
		},
		{
			name:    "несуществующий пользователь",
			userUID: otherUserUID,
			wantErr: models.ErrUserNotFound,
			setup:   func(_ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(factory)

			got, err := storage.GetEntitlement(context.Background(), tt.userUID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Plan, got.Plan)
			if tt.want.PostLimit == nil {
				assert.Nil(t, got.PostLimit)
			} else {
				require.NotNil(t, got.PostLimit)
				assert.Equal(t, *tt.want.PostLimit, *got.PostLimit)
			}
			if tt.want.SubscribedAt == nil {
				assert.Nil(t, got.SubscribedAt)
			} else {
				require.NotNil(t, got.SubscribedAt)
				assert.True(t, tt.want.SubscribedAt.Equal(*got.SubscribedAt))
			}
			if tt.want.ExpiresAt == nil {
				assert.Nil(t, got.ExpiresAt)
			} else {
				require.NotNil(t, got.ExpiresAt)
				assert.True(t, tt.want.ExpiresAt.Equal(*got.ExpiresAt))
			}
		})
	}
}

func TestStorage_SetEntitlement(t *testing.T) {
	subscribedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	expiresAt := subscribedAt.AddDate(0, 0, 30)
	silverLimit := 5

	tests := []struct {
		name        string
		userUID     string
		entitlement models.Entitlement
		wantErr     error
		setup       func(f *TestDataFactory)
	}{
		{
			name:    "запись подписки существующему пользователю",
			userUID: testUserUID,
			entitlement: models.Entitlement{
				Plan:         "Silver",
				PostLimit:    &silverLimit,
				SubscribedAt: &subscribedAt,
				ExpiresAt:    &expiresAt,
			},
			setup: func(f *TestDataFactory) {
				f.CreateUser(t, testUserUID, "alice", "alice@example.com")
			},
		},
		{
			name:    "несуществующий пользователь",
			userUID: otherUserUID,
			entitlement: models.Entitlement{
				Plan: "Silver",
			},
			wantErr: models.ErrUserNotFound,
			setup:   func(_ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(factory)

			err := storage.SetEntitlement(context.Background(), tt.userUID, tt.entitlement)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			NewTestVerification(storage).VerifyUserPlan(t, tt.userUID, tt.entitlement.Plan)
		})
	}
}

func TestStorage_GetUserByUID(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, testUserUID, "alice", "alice@example.com")

	got, err := storage.GetUserByUID(context.Background(), testUserUID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testUserUID, got.UID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "Free", got.Entitlement.Plan)

	_, err = storage.GetUserByUID(context.Background(), otherUserUID)
	require.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestStorage_CreatePost(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, testUserUID, "alice", "alice@example.com")

	post := models.Post{
		ID:        testPostID,
		UserUID:   testUserUID,
		Text:      "hello world",
		CreatedAt: time.Now().UTC(),
	}

	gotID, err := storage.CreatePost(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, testPostID, gotID)
	NewTestVerification(storage).VerifyPostExists(t, testPostID)
}

func TestStorage_CountPostsSince(t *testing.T) {
	periodStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		userUID   string
		wantCount int
		setup     func(f *TestDataFactory)
	}{
		{
			name:      "посты до начала периода не учитываются",
			userUID:   testUserUID,
			wantCount: 2,
			setup: func(f *TestDataFactory) {
				f.CreateUser(t, testUserUID, "alice", "alice@example.com")
				f.CreatePost(t, "44444444-4444-4444-4444-444444444401", testUserUID,
					"old", periodStart.Add(-time.Hour))
				f.CreatePost(t, "44444444-4444-4444-4444-444444444402", testUserUID,
					"first", periodStart)
				f.CreatePost(t, "44444444-4444-4444-4444-444444444403", testUserUID,
					"second", periodStart.Add(24*time.Hour))
			},
		},
		{
			name:      "посты других пользователей не учитываются",
			userUID:   testUserUID,
			wantCount: 1,
			setup: func(f *TestDataFactory) {
				f.CreateUser(t, testUserUID, "alice", "alice@example.com")
				f.CreateUser(t, otherUserUID, "bob", "bob@example.com")
				f.CreatePost(t, "44444444-4444-4444-4444-444444444404", testUserUID,
					"mine", periodStart.Add(time.Hour))
				f.CreatePost(t, "44444444-4444-4444-4444-444444444405", otherUserUID,
					"not mine", periodStart.Add(time.Hour))
			},
		},
		{
			name:      "у пользователя нет постов",
			userUID:   testUserUID,
			wantCount: 0,
			setup: func(f *TestDataFactory) {
				f.CreateUser(t, testUserUID, "alice", "alice@example.com")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(factory)

			got, err := storage.CountPostsSince(context.Background(), tt.userUID, periodStart)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, got)
		})
	}
}

func TestStorage_ListPosts(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, testUserUID, "alice", "alice@example.com")
	factory.CreatePost(t, "44444444-4444-4444-4444-444444444401", testUserUID, "first", base)
	factory.CreatePost(t, "44444444-4444-4444-4444-444444444402", testUserUID, "second", base.Add(time.Hour))
	factory.CreatePost(t, "44444444-4444-4444-4444-444444444403", testUserUID, "third", base.Add(2*time.Hour))

	// Новые посты первыми
	got, err := storage.ListPosts(context.Background(), testUserUID, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "first", got[2].Text)

	// Пагинация
	got, err = storage.ListPosts(context.Background(), testUserUID, 1, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Text)

	// Пустая страница
	got, err = storage.ListPosts(context.Background(), testUserUID, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStorage_CreateAndReadCheckoutSession(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, testUserUID, "alice", "alice@example.com")

	session := models.CheckoutSession{
		SessionID: "cs_test_1",
		UserUID:   testUserUID,
		Plan:      "Bronze",
		Status:    models.CheckoutStatusCreated,
		CreatedAt: time.Now().UTC(),
	}

	err := storage.CreateCheckoutSession(context.Background(), session)
	require.NoError(t, err)

	got, err := storage.ReadCheckoutSession(context.Background(), "cs_test_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.SessionID, got.SessionID)
	assert.Equal(t, session.UserUID, got.UserUID)
	assert.Equal(t, session.Plan, got.Plan)
	assert.Equal(t, models.CheckoutStatusCreated, got.Status)

	_, err = storage.ReadCheckoutSession(context.Background(), "cs_missing")
	require.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestStorage_ConfirmCheckoutSession(t *testing.T) {
	subscribedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	expiresAt := subscribedAt.AddDate(0, 0, 30)
	bronzeLimit := 3

	entitlement := models.Entitlement{
		Plan:         "Bronze",
		PostLimit:    &bronzeLimit,
		SubscribedAt: &subscribedAt,
		ExpiresAt:    &expiresAt,
	}

	t.Run("первое подтверждение переводит сессию и записывает подписку", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, testUserUID, "alice", "alice@example.com")
		factory.CreateCheckoutSession(t, "cs_test_1", testUserUID, "Bronze", models.CheckoutStatusCreated)

		applied, err := storage.ConfirmCheckoutSession(context.Background(), "cs_test_1", entitlement)
		require.NoError(t, err)
		assert.True(t, applied)

		verification := NewTestVerification(storage)
		verification.VerifySessionStatus(t, "cs_test_1", models.CheckoutStatusConfirmed)
		verification.VerifyUserPlan(t, testUserUID, "Bronze")
	})

	t.Run("повторное подтверждение не перезаписывает подписку", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, testUserUID, "alice", "alice@example.com")
		factory.CreateCheckoutSession(t, "cs_test_1", testUserUID, "Bronze", models.CheckoutStatusCreated)

		applied, err := storage.ConfirmCheckoutSession(context.Background(), "cs_test_1", entitlement)
		require.NoError(t, err)
		require.True(t, applied)

		laterSilver := models.Entitlement{Plan: "Silver"}
		applied, err = storage.ConfirmCheckoutSession(context.Background(), "cs_test_1", laterSilver)
		require.NoError(t, err)
		assert.False(t, applied)

		// Подписка осталась от первого подтверждения
		NewTestVerification(storage).VerifyUserPlan(t, testUserUID, "Bronze")
	})

	t.Run("несуществующая сессия", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		applied, err := storage.ConfirmCheckoutSession(context.Background(), "cs_missing", entitlement)
		require.NoError(t, err)
		assert.False(t, applied)
	})
}
