package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pawlog/pawlog-backend/internal/apperr"
	"github.com/pawlog/pawlog-backend/internal/types"
)

func absMillis(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

// lifecycleFixture is one pending scheduled instance plus a caretaker who
// acts on it.
type lifecycleFixture struct {
	user     *types.User
	ctx      context.Context
	instance *types.DailyInstance
}

func newLifecycleFixture(t *testing.T, te *testEnv) lifecycleFixture {
	t.Helper()
	user := te.mustCreateUser(t, "Mia", types.RoleCaretaker)
	pet := te.mustCreatePet(t)
	item := te.mustCreateItem(t, pet.ID, "Prednisolone", types.ItemTypeEyeDrop, "eye_drops")
	schedule := te.mustCreateSchedule(t, item.ID, 8, 0)
	instance := te.mustCreateInstance(t, item, schedule.ID, "2026-03-10", 8, 0)
	return lifecycleFixture{user: user, ctx: te.actorCtx(user), instance: instance}
}

func TestConfirmMarksInstanceAndWritesAudit(t *testing.T) {
	te := newTestEnv(t)
	fx := newLifecycleFixture(t, te)

	before := time.Now().UnixMilli()
	if err := te.lifecycle.Confirm(fx.ctx, fx.instance.ID, "with breakfast"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	got := te.mustGetInstance(t, fx.instance.ID)
	if got.Status != types.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", got.Status)
	}
	if got.ConfirmedBy == nil || *got.ConfirmedBy != fx.user.ID {
		t.Errorf("confirmedBy = %v, want %s", got.ConfirmedBy, fx.user.ID)
	}
	if got.ConfirmedAt == nil {
		t.Fatal("confirmedAt not set")
	}
	if absMillis(*got.ConfirmedAt, before) > 5000 {
		t.Errorf("confirmedAt = %d, too far from now (%d)", *got.ConfirmedAt, before)
	}
	if got.SnoozedUntil != nil {
		t.Errorf("snoozedUntil = %v, want nil", got.SnoozedUntil)
	}

	entries, err := te.historyRepo.ListByInstance(context.Background(), nil, fx.instance.ID)
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 audit entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Action != types.ActionConfirmed {
		t.Errorf("action = %s, want confirmed", entry.Action)
	}
	if entry.PerformedBy != fx.user.ID {
		t.Errorf("performedBy = %s, want %s", entry.PerformedBy, fx.user.ID)
	}
	if entry.Notes == nil || *entry.Notes != "with breakfast" {
		t.Errorf("notes = %v, want %q", entry.Notes, "with breakfast")
	}
}

func TestConfirmWithoutNotesStoresNil(t *testing.T) {
	te := newTestEnv(t)
	fx := newLifecycleFixture(t, te)

	if err := te.lifecycle.Confirm(fx.ctx, fx.instance.ID, ""); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	entries, err := te.historyRepo.ListByInstance(context.Background(), nil, fx.instance.ID)
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].Notes != nil {
		t.Errorf("notes = %q, want nil for empty input", *entries[0].Notes)
	}
}

func TestConfirmAlreadyConfirmed(t *testing.T) {
	te := newTestEnv(t)
	fx := newLifecycleFixture(t, te)

	if err := te.lifecycle.Confirm(fx.ctx, fx.instance.ID, ""); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	err := te.lifecycle.Confirm(fx.ctx, fx.instance.ID, "")
	if !errors.Is(err, apperr.ErrAlreadyConfirmed) {
		t.Fatalf("second Confirm = %v, want ErrAlreadyConfirmed", err)
	}

	// The failed attempt must not leave a second audit entry behind.
	count, err := te.historyRepo.CountByInstance(context.Background(), nil, fx.instance.ID)
	if err != nil {
		t.Fatalf("counting history: %v", err)
	}
	if count != 1 {
		t.Errorf("audit entries = %d, want 1", count)
	}
}

func TestConfirmAuthFailures(t *testing.T) {
	te := newTestEnv(t)
	fx := newLifecycleFixture(t, te)

	if err := te.lifecycle.Confirm(context.Background(), fx.instance.ID, ""); !errors.Is(err, apperr.ErrNotAuthenticated) {
		t.Errorf("no identity: got %v, want ErrNotAuthenticated", err)
	}
	if err := te.lifecycle.Confirm(identityCtx("ext-stranger", "Stranger"), fx.instance.ID, ""); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Errorf("unprovisioned identity: got %v, want ErrUserNotFound", err)
	}
	if got := te.mustGetInstance(t, fx.instance.ID); got.Status != types.StatusPending {
		t.Errorf("status changed to %s despite auth failure", got.Status)
	}
}

func TestConfirmUnknownInstance(t *testing.T) {
	te := newTestEnv(t)
	fx := newLifecycleFixture(t, te)

	err := te.lifecycle.Confirm(fx.ctx, uuid.New(), "")
	if !errors.Is(err, apperr.ErrInstanceNotFound) {
		t.Fatalf("Confirm on unknown id = %v, want ErrInstanceNotFound", err)
	}
}

func TestSnoozeSetsWakeTime(t *testing.T) {
	te := newTestEnv(t)
	fx := newLifecycleFixture(t, te)

	before := time.Now().UnixMilli()
	if err := te.lifecycle.Snooze(fx.ctx, fx.instance.ID, 15); err != nil {
		t.Fatalf("Snooze: %v", err)
	}

	got := te.mustGetInstance(t, fx.instance.ID)
	if got.Status != types.StatusSnoozed {
		t.Errorf("status = %s, want snoozed", got.Status)
	}
	if got.SnoozedUntil == nil {
		t.Fatal("snoozedUntil not set")
	}
	want := before + 15*60*1000
	if absMillis(*got.SnoozedUntil, want) > 5000 {
		t.Errorf("snoozedUntil = %d, want about %d", *got.SnoozedUntil, want)
	}

	entries, err := te.historyRepo.ListByInstance(context.Background(), nil, fx.instance.ID)
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != types.ActionSnoozed {
		t.Fatalf("expected one snoozed audit entry, got %+v", entries)
	}
	if entries[0].Notes == nil || *entries[0].Notes != "Snoozed for 15 minutes" {
		t.Errorf("notes = %v, want %q", entries[0].Notes, "Snoozed for 15 minutes")
	}
}

func TestSnoozeRejectsConfirmedAndBadDuration(t *testing.T) {
	te := newTestEnv(t)
	fx := newLifecycleFixture(t, te)

	for _, minutes := range []int{0, -5} {
		if err := te.lifecycle.Snooze(fx.ctx, fx.instance.ID, minutes); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("Snooze(%d) = %v, want ErrInvalidArgument", minutes, err)
		}
	}

	if err := te.lifecycle.Confirm(fx.ctx, fx.instance.ID, ""); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if err := te.lifecycle.Snooze(fx.ctx, fx.instance.ID, 15); !errors.Is(err, apperr.ErrCannotSnoozeConfirmed) {
		t.Errorf("Snooze on confirmed = %v, want ErrCannotSnoozeConfirmed", err)
	}
}

func TestUndoResetsToPending(t *testing.T) {
	te := newTestEnv(t)
	fx := newLifecycleFixture(t, te)
	ctx := context.Background()

	if err := te.lifecycle.Confirm(fx.ctx, fx.instance.ID, "done"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if err := te.lifecycle.Undo(fx.ctx, fx.instance.ID); err != nil {
		t.Fatalf("Undo after confirm: %v", err)
	}
	got := te.mustGetInstance(t, fx.instance.ID)
	if got.Status != types.StatusPending || got.ConfirmedBy != nil || got.ConfirmedAt != nil || got.SnoozedUntil != nil {
		t.Errorf("instance not fully reset: %+v", got)
	}

	entries, err := te.historyRepo.ListByInstance(ctx, nil, fx.instance.ID)
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected confirm+undo audit entries, got %d", len(entries))
	}
	if entries[1].Action != types.ActionUnconfirmed {
		t.Errorf("second action = %s, want unconfirmed", entries[1].Action)
	}

	// Undo after snooze clears the wake time too.
	if err := te.lifecycle.Snooze(fx.ctx, fx.instance.ID, 15); err != nil {
		t.Fatalf("Snooze: %v", err)
	}
	if err := te.lifecycle.Undo(fx.ctx, fx.instance.ID); err != nil {
		t.Fatalf("Undo after snooze: %v", err)
	}
	got = te.mustGetInstance(t, fx.instance.ID)
	if got.Status != types.StatusPending || got.SnoozedUntil != nil {
		t.Errorf("snooze not undone: %+v", got)
	}
}

func TestUndoOnPendingIsAllowed(t *testing.T) {
	te := newTestEnv(t)
	fx := newLifecycleFixture(t, te)

	if err := te.lifecycle.Undo(fx.ctx, fx.instance.ID); err != nil {
		t.Fatalf("Undo on pending: %v", err)
	}
	if got := te.mustGetInstance(t, fx.instance.ID); got.Status != types.StatusPending {
		t.Errorf("status = %s, want pending", got.Status)
	}
}

func TestAddObservation(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	user := te.mustCreateUser(t, "Mia", types.RoleCaretaker)
	pet := te.mustCreatePet(t)

	id, err := te.lifecycle.AddObservation(te.actorCtx(user), pet.ID, types.ObservationSymptom, "left eye cloudy")
	if err != nil {
		t.Fatalf("AddObservation: %v", err)
	}

	got := te.mustGetInstance(t, id)
	if !got.IsObservation {
		t.Error("instance not flagged as observation")
	}
	if got.Status != types.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", got.Status)
	}
	if got.ObservationCategory != types.ObservationSymptom || got.ObservationText != "left eye cloudy" {
		t.Errorf("observation fields = %s/%q", got.ObservationCategory, got.ObservationText)
	}
	if got.ItemID != nil || got.ScheduleID != nil {
		t.Error("observation must not reference an item or schedule")
	}
	if got.Date != localDateString(time.Now()) {
		t.Errorf("date = %s, want today", got.Date)
	}
	if got.ConfirmedBy == nil || *got.ConfirmedBy != user.ID {
		t.Errorf("confirmedBy = %v, want %s", got.ConfirmedBy, user.ID)
	}

	// Observations carry no audit trail.
	count, err := te.historyRepo.CountByInstance(ctx, nil, id)
	if err != nil {
		t.Fatalf("counting history: %v", err)
	}
	if count != 0 {
		t.Errorf("audit entries = %d, want 0", count)
	}
}

func TestAddObservationValidation(t *testing.T) {
	te := newTestEnv(t)
	user := te.mustCreateUser(t, "Mia", types.RoleCaretaker)
	pet := te.mustCreatePet(t)
	ctx := te.actorCtx(user)

	if _, err := te.lifecycle.AddObservation(ctx, pet.ID, "mood", "grumpy"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("bad category: got %v, want ErrInvalidArgument", err)
	}
	if _, err := te.lifecycle.AddObservation(ctx, pet.ID, types.ObservationNote, "   "); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("blank text: got %v, want ErrInvalidArgument", err)
	}
}
