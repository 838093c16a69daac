package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/cinefindr/cinefindr-backend/internal/types"
)

func TestRecordInteraction_RequiresUserID(t *testing.T) {
	users := &fakeUserRepo{}
	interactions := &fakeInteractionRepo{}
	svc := NewInteractionService(nil, testLogger(t), users, interactions)

	result, err := svc.RecordInteraction(context.Background(), uuid.Nil, CreateInteractionInput{
		TitleID: uuid.New(),
		Event:   types.EventLike,
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if result.Success {
		t.Fatalf("anonymous interaction should not succeed")
	}
	if result.Message != "User ID required" {
		t.Fatalf("message = %q, want %q", result.Message, "User ID required")
	}
	if len(interactions.created) != 0 {
		t.Fatalf("anonymous interaction must not be persisted")
	}
	if len(users.ensured) != 0 {
		t.Fatalf("anonymous interaction must not create a user row")
	}
}

func TestRecordInteraction_AssignsEventWeight(t *testing.T) {
	cases := []struct {
		event string
		want  float64
	}{
		{types.EventImpression, 0.1},
		{types.EventClick, 0.3},
		{types.EventLike, 1.0},
		{types.EventSave, 1.2},
		{types.EventStart, 0.5},
		{types.EventComplete, 1.5},
	}

	for _, tc := range cases {
		interactions := &fakeInteractionRepo{}
		svc := NewInteractionService(nil, testLogger(t), &fakeUserRepo{}, interactions)

		result, err := svc.RecordInteraction(context.Background(), uuid.New(), CreateInteractionInput{
			TitleID: uuid.New(),
			Event:   tc.event,
		})
		if err != nil {
			t.Fatalf("%s: %v", tc.event, err)
		}
		if !result.Success {
			t.Fatalf("%s: expected success", tc.event)
		}
		if result.Interaction.Score != tc.want {
			t.Fatalf("%s: score = %v, want %v", tc.event, result.Interaction.Score, tc.want)
		}
	}
}

func TestRecordInteraction_UnknownEventPersistsAtZero(t *testing.T) {
	interactions := &fakeInteractionRepo{}
	svc := NewInteractionService(nil, testLogger(t), &fakeUserRepo{}, interactions)

	result, err := svc.RecordInteraction(context.Background(), uuid.New(), CreateInteractionInput{
		TitleID: uuid.New(),
		Event:   "SHRUG",
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if !result.Success {
		t.Fatalf("unknown event should still be recorded")
	}
	if result.Interaction.Score != 0 {
		t.Fatalf("unknown event score = %v, want 0", result.Interaction.Score)
	}
	if len(interactions.created) != 1 {
		t.Fatalf("unknown event should be persisted")
	}
}

func TestRecordInteraction_EnsuresUserRow(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewInteractionService(nil, testLogger(t), users, &fakeInteractionRepo{})

	userID := uuid.New()
	if _, err := svc.RecordInteraction(context.Background(), userID, CreateInteractionInput{
		TitleID: uuid.New(),
		Event:   types.EventClick,
	}); err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if len(users.ensured) != 1 || users.ensured[0] != userID {
		t.Fatalf("user row not ensured: %v", users.ensured)
	}
}
