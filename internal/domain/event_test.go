package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{EventStatusDraft, EventStatusPublished, true},
		{EventStatusDraft, EventStatusCancelled, true},
		{EventStatusDraft, EventStatusCompleted, false},
		{EventStatusPublished, EventStatusCompleted, true},
		{EventStatusPublished, EventStatusCancelled, true},
		{EventStatusPublished, EventStatusDraft, false},
		{EventStatusCompleted, EventStatusPublished, false},
		{EventStatusCancelled, EventStatusPublished, false},
		{EventStatusCancelled, EventStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidEventCategory(t *testing.T) {
	assert.True(t, ValidEventCategory(EventCategoryConference))
	assert.True(t, ValidEventCategory(EventCategoryAtelier))
	assert.False(t, ValidEventCategory(""))
	assert.False(t, ValidEventCategory("webinar"))
}
