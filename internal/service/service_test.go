package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"eventful/internal/models"
	"eventful/internal/storage/sqlite"
)

// fixture wires every service against one SQLite store, the way the server
// does, with the schedule and vote services sharing one lock table.
type fixture struct {
	store     *sqlite.SQLiteStore
	groups    *GroupService
	events    *EventService
	schedules *ScheduleService
	votes     *VoteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "eventful-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	locks := NewEventLocks()
	return &fixture{
		store:     store,
		groups:    NewGroupService(store),
		events:    NewEventService(store),
		schedules: NewScheduleService(store, locks),
		votes:     NewVoteService(store, locks),
	}
}

func (f *fixture) member(t *testing.T, nickname string) models.MemberID {
	t.Helper()
	member := models.NewMember(nickname+"@example.com", nickname, "hash")
	if err := f.store.CreateMember(context.Background(), member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	return member.ID
}

// group creates a group led by leader and joins the others using the
// generated password.
func (f *fixture) group(t *testing.T, leader models.MemberID, others ...models.MemberID) models.GroupID {
	t.Helper()
	ctx := context.Background()

	group, password, err := f.groups.CreateGroup(ctx, leader, "Hikers", "Weekend circle", "")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, other := range others {
		if err := f.groups.JoinGroup(ctx, other, group.ID, password); err != nil {
			t.Fatalf("JoinGroup failed: %v", err)
		}
	}
	return group.ID
}

func (f *fixture) event(t *testing.T, creator models.MemberID, groupID models.GroupID, maxParticipants *int) models.EventID {
	t.Helper()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	event, err := f.events.CreateEvent(context.Background(), creator, groupID,
		"Ridge hike", "Day hike", maxParticipants, date, "")
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return event.ID
}

func mustTime(t *testing.T, s string) models.TimeOfDay {
	t.Helper()
	v, err := models.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestGroupServiceJoin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leader := f.member(t, "leader")
	joiner := f.member(t, "joiner")

	group, password, err := f.groups.CreateGroup(ctx, leader, "Hikers", "", "")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if len(group.JoinCode) != 8 {
		t.Errorf("join code length: got %d, want 8", len(group.JoinCode))
	}
	if len(password) != 8 {
		t.Errorf("join password length: got %d, want 8", len(password))
	}

	t.Run("wrong password rejected", func(t *testing.T) {
		err := f.groups.JoinGroup(ctx, joiner, group.ID, "not-the-password")
		if !errors.Is(err, models.ErrPermission) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("correct password joins", func(t *testing.T) {
		if err := f.groups.JoinGroup(ctx, joiner, group.ID, password); err != nil {
			t.Fatalf("JoinGroup failed: %v", err)
		}
		got, err := f.groups.GetGroup(ctx, joiner, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.MemberCount() != 2 {
			t.Errorf("expected 2 members, got %d", got.MemberCount())
		}
	})

	t.Run("join code resolves group", func(t *testing.T) {
		got, err := f.groups.VerifyJoinCode(ctx, group.JoinCode)
		if err != nil {
			t.Fatalf("VerifyJoinCode failed: %v", err)
		}
		if got.ID != group.ID {
			t.Errorf("resolved wrong group: %s", got.ID)
		}
	})

	t.Run("non-member cannot view group", func(t *testing.T) {
		outsider := f.member(t, "outsider")
		if _, err := f.groups.GetGroup(ctx, outsider, group.ID); !errors.Is(err, models.ErrPermission) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestEventServiceCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	creator := f.member(t, "creator")
	second := f.member(t, "second")
	third := f.member(t, "third")
	groupID := f.group(t, creator, second, third)

	cap := 2
	eventID := f.event(t, creator, groupID, &cap)

	if err := f.events.JoinEvent(ctx, second, eventID); err != nil {
		t.Fatalf("second join failed: %v", err)
	}

	err := f.events.JoinEvent(ctx, third, eventID)
	if !errors.Is(err, models.ErrCapacity) {
		t.Errorf("third join at 2/2: expected capacity error, got %v", err)
	}

	event, err := f.events.GetEvent(ctx, creator, eventID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if len(event.Participants) != 2 {
		t.Errorf("roster changed on rejected join: %d participants", len(event.Participants))
	}

	t.Run("duplicate join rejected", func(t *testing.T) {
		if err := f.events.JoinEvent(ctx, second, eventID); !errors.Is(err, models.ErrDuplicate) {
			t.Errorf("expected duplicate error, got %v", err)
		}
	})

	t.Run("non-group-member cannot join", func(t *testing.T) {
		outsider := f.member(t, "outsider")
		if err := f.events.JoinEvent(ctx, outsider, eventID); !errors.Is(err, models.ErrPermission) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("leave frees a seat", func(t *testing.T) {
		if err := f.events.LeaveEvent(ctx, second, eventID); err != nil {
			t.Fatalf("LeaveEvent failed: %v", err)
		}
		if err := f.events.JoinEvent(ctx, third, eventID); err != nil {
			t.Errorf("join after a seat freed failed: %v", err)
		}
	})
}

func TestScheduleServiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	creator := f.member(t, "creator")
	groupID := f.group(t, creator)
	eventID := f.event(t, creator, groupID, nil)

	if _, err := f.schedules.CreateSchedule(ctx, creator, eventID, "Morning hike", "",
		mustTime(t, "09:00"), mustTime(t, "11:00"), "Trailhead"); err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}

	t.Run("overlapping range rejected", func(t *testing.T) {
		_, err := f.schedules.CreateSchedule(ctx, creator, eventID, "Brunch", "",
			mustTime(t, "10:00"), mustTime(t, "12:00"), "Cafe")
		if !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected conflict error, got %v", err)
		}
	})

	t.Run("touching range accepted", func(t *testing.T) {
		if _, err := f.schedules.CreateSchedule(ctx, creator, eventID, "Lunch", "",
			mustTime(t, "11:00"), mustTime(t, "12:00"), "Cafe"); err != nil {
			t.Errorf("touching range should not conflict: %v", err)
		}
	})

	t.Run("vote range also blocks schedules", func(t *testing.T) {
		if _, err := f.votes.CreateVote(ctx, creator, eventID, "Afternoon spot", "",
			mustTime(t, "14:00"), mustTime(t, "15:00"), []string{"Lake", "Forest"}); err != nil {
			t.Fatalf("CreateVote failed: %v", err)
		}
		_, err := f.schedules.CreateSchedule(ctx, creator, eventID, "Clash", "",
			mustTime(t, "14:30"), mustTime(t, "16:00"), "Lake")
		if !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected conflict with vote range, got %v", err)
		}
	})

	t.Run("non-participant cannot create", func(t *testing.T) {
		outsider := f.member(t, "outsider")
		_, err := f.schedules.CreateSchedule(ctx, outsider, eventID, "Crash", "",
			mustTime(t, "20:00"), mustTime(t, "21:00"), "Bar")
		if !errors.Is(err, models.ErrPermission) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestScheduleServiceManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leader := f.member(t, "leader")
	creator := f.member(t, "creator")
	bystander := f.member(t, "bystander")
	groupID := f.group(t, leader, creator, bystander)
	eventID := f.event(t, creator, groupID, nil)

	schedule, err := f.schedules.CreateSchedule(ctx, creator, eventID, "Lunch", "",
		mustTime(t, "12:00"), mustTime(t, "13:00"), "Cafe")
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}

	amount := 80.0

	t.Run("bystander cannot manage", func(t *testing.T) {
		if err := f.schedules.SetAmount(ctx, bystander, schedule.ID, &amount); !errors.Is(err, models.ErrPermission) {
			t.Errorf("SetAmount by bystander: expected permission error, got %v", err)
		}
		if err := f.schedules.DeleteSchedule(ctx, bystander, schedule.ID); !errors.Is(err, models.ErrPermission) {
			t.Errorf("Delete by bystander: expected permission error, got %v", err)
		}
	})

	t.Run("creator can manage", func(t *testing.T) {
		if err := f.schedules.SetAmount(ctx, creator, schedule.ID, &amount); err != nil {
			t.Fatalf("SetAmount by creator failed: %v", err)
		}
		if err := f.schedules.SetReceiptFile(ctx, creator, schedule.ID, "/receipts/lunch.jpg"); err != nil {
			t.Fatalf("SetReceiptFile by creator failed: %v", err)
		}
	})

	t.Run("group leader can manage without creating", func(t *testing.T) {
		if err := f.schedules.DeleteSchedule(ctx, leader, schedule.ID); err != nil {
			t.Fatalf("Delete by leader failed: %v", err)
		}
	})
}

func TestVoteServiceLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leader := f.member(t, "leader")
	creator := f.member(t, "creator")
	voterA := f.member(t, "voterA")
	voterB := f.member(t, "voterB")
	groupID := f.group(t, leader, creator, voterA, voterB)
	eventID := f.event(t, creator, groupID, nil)

	for _, m := range []models.MemberID{voterA, voterB} {
		if err := f.events.JoinEvent(ctx, m, eventID); err != nil {
			t.Fatalf("JoinEvent failed: %v", err)
		}
	}

	vote, err := f.votes.CreateVote(ctx, creator, eventID, "Dinner spot", "",
		mustTime(t, "18:00"), mustTime(t, "20:00"), []string{"Cafe", "Park", "Museum"})
	if err != nil {
		t.Fatalf("CreateVote failed: %v", err)
	}

	t.Run("vote range blocks a second vote", func(t *testing.T) {
		_, err := f.votes.CreateVote(ctx, creator, eventID, "Clash", "",
			mustTime(t, "19:00"), mustTime(t, "21:00"), []string{"Bar", "Bowling"})
		if !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected conflict error, got %v", err)
		}
	})

	t.Run("re-vote moves the ballot", func(t *testing.T) {
		if err := f.votes.CastVote(ctx, voterA, vote.ID, vote.Options[0].ID); err != nil {
			t.Fatalf("first cast failed: %v", err)
		}
		if err := f.votes.CastVote(ctx, voterA, vote.ID, vote.Options[1].ID); err != nil {
			t.Fatalf("re-vote failed: %v", err)
		}

		got, err := f.votes.GetVote(ctx, voterA, vote.ID)
		if err != nil {
			t.Fatalf("GetVote failed: %v", err)
		}
		results := got.Results()
		if results["Cafe"] != 0 || results["Park"] != 1 {
			t.Errorf("re-vote results wrong: %v", results)
		}
	})

	t.Run("close converts winner into schedule", func(t *testing.T) {
		// voterB ties Museum with Park; the earlier-inserted Park must win.
		if err := f.votes.CastVote(ctx, voterB, vote.ID, vote.Options[2].ID); err != nil {
			t.Fatalf("cast failed: %v", err)
		}

		schedule, err := f.votes.CloseVoteAndCreateSchedule(ctx, creator, vote.ID)
		if err != nil {
			t.Fatalf("CloseVoteAndCreateSchedule failed: %v", err)
		}
		if schedule.Location != "Park" {
			t.Errorf("winning location: got %q, want %q", schedule.Location, "Park")
		}
		if schedule.Start != mustTime(t, "18:00") || schedule.End != mustTime(t, "20:00") {
			t.Errorf("schedule range: got [%s,%s)", schedule.Start, schedule.End)
		}

		// The closed vote stays on record.
		got, err := f.votes.GetVote(ctx, creator, vote.ID)
		if err != nil {
			t.Fatalf("GetVote after close failed: %v", err)
		}
		if !got.IsClosed() {
			t.Error("expected vote to be closed")
		}
	})

	t.Run("closed vote rejects ballots", func(t *testing.T) {
		err := f.votes.CastVote(ctx, voterB, vote.ID, vote.Options[0].ID)
		if !errors.Is(err, models.ErrState) {
			t.Errorf("expected state error, got %v", err)
		}
	})
}

func TestVoteServicePermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leader := f.member(t, "leader")
	creator := f.member(t, "creator")
	voter := f.member(t, "voter")
	groupID := f.group(t, leader, creator, voter)
	eventID := f.event(t, creator, groupID, nil)

	if err := f.events.JoinEvent(ctx, voter, eventID); err != nil {
		t.Fatalf("JoinEvent failed: %v", err)
	}

	vote, err := f.votes.CreateVote(ctx, creator, eventID, "Dinner spot", "",
		mustTime(t, "18:00"), mustTime(t, "20:00"), []string{"Cafe", "Park"})
	if err != nil {
		t.Fatalf("CreateVote failed: %v", err)
	}

	t.Run("participant can cast but not manage", func(t *testing.T) {
		if err := f.votes.CastVote(ctx, voter, vote.ID, vote.Options[0].ID); err != nil {
			t.Fatalf("cast by participant failed: %v", err)
		}
		if err := f.votes.AddOption(ctx, voter, vote.ID, "Museum"); !errors.Is(err, models.ErrPermission) {
			t.Errorf("AddOption by participant: expected permission error, got %v", err)
		}
		if _, err := f.votes.CloseVoteAndCreateSchedule(ctx, voter, vote.ID); !errors.Is(err, models.ErrPermission) {
			t.Errorf("close by participant: expected permission error, got %v", err)
		}
	})

	t.Run("leader manages without creating", func(t *testing.T) {
		if err := f.votes.AddOption(ctx, leader, vote.ID, "Museum"); err != nil {
			t.Fatalf("AddOption by leader failed: %v", err)
		}

		got, err := f.votes.GetVote(ctx, creator, vote.ID)
		if err != nil {
			t.Fatalf("GetVote failed: %v", err)
		}
		if len(got.Options) != 3 {
			t.Fatalf("expected 3 options, got %d", len(got.Options))
		}

		if err := f.votes.RemoveOption(ctx, leader, vote.ID, got.Options[2].ID); err != nil {
			t.Fatalf("RemoveOption by leader failed: %v", err)
		}
	})

	t.Run("minimum of two options enforced", func(t *testing.T) {
		got, err := f.votes.GetVote(ctx, creator, vote.ID)
		if err != nil {
			t.Fatalf("GetVote failed: %v", err)
		}
		err = f.votes.RemoveOption(ctx, creator, vote.ID, got.Options[0].ID)
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("removing below 2 options: expected validation error, got %v", err)
		}
	})
}

// Concurrent creations against the same event must serialize on the shared
// lock table so that at most one of two overlapping candidates lands.
func TestConcurrentScheduleCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	creator := f.member(t, "creator")
	groupID := f.group(t, creator)
	eventID := f.event(t, creator, groupID, nil)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.schedules.CreateSchedule(ctx, creator, eventID, "Race", "",
				mustTime(t, "09:00"), mustTime(t, "11:00"), "Trailhead")
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		if !errors.Is(err, models.ErrConflict) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("expected exactly 1 creation to win, got %d", created)
	}

	schedules, err := f.schedules.ListSchedulesByEvent(ctx, creator, eventID)
	if err != nil {
		t.Fatalf("ListSchedulesByEvent failed: %v", err)
	}
	if len(schedules) != 1 {
		t.Errorf("expected 1 persisted schedule, got %d", len(schedules))
	}
}
