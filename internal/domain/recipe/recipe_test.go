package recipe

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsTitle(t *testing.T) {
	saved := []Recipe{
		{Title: "Spicy Potato Curry (Aloo Curry)"},
		{Title: "Masala Chai"},
	}

	assert.True(t, ContainsTitle(saved, Recipe{Title: "Masala Chai", Description: "different body"}))
	assert.False(t, ContainsTitle(saved, Recipe{Title: "masala chai"}))
	assert.False(t, ContainsTitle(nil, Recipe{Title: "Masala Chai"}))
}

func TestRecipe_HasCalories(t *testing.T) {
	assert.True(t, Recipe{Calories: "450 kcal"}.HasCalories())
	assert.False(t, Recipe{Calories: "  "}.HasCalories())
	assert.False(t, Recipe{}.HasCalories())
}

func TestNewRating(t *testing.T) {
	at := time.Date(2024, 3, 9, 18, 30, 5, 123_000_000, time.FixedZone("PKT", 5*60*60))

	tests := []struct {
		name    string
		value   int
		wantErr error
	}{
		{"lowest", 1, nil},
		{"highest", 5, nil},
		{"zero", 0, ErrInvalidRating},
		{"above range", 6, ErrInvalidRating},
		{"negative", -2, ErrInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, err := NewRating("cook@example.com", tt.value, at)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "cook@example.com", rating.User)
			assert.Equal(t, tt.value, rating.Rating)
			assert.Equal(t, "2024-03-09T13:30:05.123Z", rating.Timestamp)
		})
	}
}

func TestNewChatMessage(t *testing.T) {
	before := time.Now().UnixMilli()
	msg := NewChatMessage(ChatRoleUser, "kawa kaise banao?")

	_, err := uuid.Parse(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, ChatRoleUser, msg.Role)
	assert.Equal(t, "kawa kaise banao?", msg.Text)
	assert.GreaterOrEqual(t, msg.Timestamp, before)

	other := NewChatMessage(ChatRoleModel, "Green tea it is.")
	assert.NotEqual(t, msg.ID, other.ID)
	assert.True(t, other.Role.Valid())
	assert.False(t, ChatRole("assistant").Valid())
}
