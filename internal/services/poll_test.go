package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/types"
)

func seedPoll(t *testing.T, env *testEnv, author *types.User, householdID, threadID, messageID uuid.UUID, pollType types.PollType) *types.Poll {
	t.Helper()
	poll, err := env.polls.Create(context.Background(), author.ID, householdID, threadID, messageID, CreatePollInput{
		Question: "Movie night?",
		Type:     pollType,
		Options:  []string{"Friday", "Saturday", "Sunday"},
	})
	if err != nil {
		t.Fatalf("seed poll: %v", err)
	}
	env.rec.reset()
	return poll
}

func TestPollCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, admin, h.ID, thread.ID, "when?")

	poll, err := env.polls.Create(ctx, admin.ID, h.ID, thread.ID, msg.ID, CreatePollInput{
		Question: "When?",
		Options:  []string{"Now", "Later"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if poll.Type != types.PollTypeSingleChoice {
		t.Fatalf("default type = %s, want SINGLE_CHOICE", poll.Type)
	}
	if poll.Status != types.PollStatusOpen {
		t.Fatalf("status = %s, want OPEN", poll.Status)
	}
	if len(poll.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(poll.Options))
	}

	// one poll per message
	_, err = env.polls.Create(ctx, admin.ID, h.ID, thread.ID, msg.ID, CreatePollInput{
		Question: "Again?",
		Options:  []string{"A", "B"},
	})
	wantStatus(t, err, http.StatusBadRequest)

	// fewer than two options
	msg2 := env.seedMessage(t, admin, h.ID, thread.ID, "another")
	_, err = env.polls.Create(ctx, admin.ID, h.ID, thread.ID, msg2.ID, CreatePollInput{
		Question: "Trivial?",
		Options:  []string{"Only one"},
	})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestPollVoteReplacement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	voter := env.seedUser(t, "voter@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, voter, types.RoleMember)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, admin, h.ID, thread.ID, "vote")
	poll := seedPoll(t, env, admin, h.ID, thread.ID, msg.ID, types.PollTypeSingleChoice)

	first, second := poll.Options[0], poll.Options[1]

	if _, err := env.polls.Vote(ctx, voter.ID, h.ID, thread.ID, msg.ID, []VoteInput{{OptionID: first.ID}}); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	// re-vote replaces, never stacks
	if _, err := env.polls.Vote(ctx, voter.ID, h.ID, thread.ID, msg.ID, []VoteInput{{OptionID: second.ID}}); err != nil {
		t.Fatalf("Vote (again): %v", err)
	}

	var votes []types.PollVote
	if err := env.db.Where("poll_id = ? AND user_id = ?", poll.ID, voter.ID).Find(&votes).Error; err != nil {
		t.Fatalf("votes: %v", err)
	}
	if len(votes) != 1 || votes[0].OptionID != second.ID {
		t.Fatalf("expected a single vote for the second option, got %+v", votes)
	}

	// two ballots at once on a single-choice poll
	_, err := env.polls.Vote(ctx, voter.ID, h.ID, thread.ID, msg.ID, []VoteInput{{OptionID: first.ID}, {OptionID: second.ID}})
	wantStatus(t, err, http.StatusBadRequest)

	// an option from some other poll reads as missing
	_, err = env.polls.Vote(ctx, voter.ID, h.ID, thread.ID, msg.ID, []VoteInput{{OptionID: uuid.New()}})
	wantStatus(t, err, http.StatusNotFound)
}

func TestPollMultipleChoiceKeepsAllVotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, admin, h.ID, thread.ID, "vote")
	poll := seedPoll(t, env, admin, h.ID, thread.ID, msg.ID, types.PollTypeMultipleChoice)

	if _, err := env.polls.Vote(ctx, admin.ID, h.ID, thread.ID, msg.ID, []VoteInput{
		{OptionID: poll.Options[0].ID},
		{OptionID: poll.Options[2].ID},
	}); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	counts, err := env.polls.Analytics(ctx, admin.ID, h.ID, thread.ID, msg.ID)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	got := map[uuid.UUID]int64{}
	for _, c := range counts {
		got[c.Option.ID] = c.Votes
	}
	if got[poll.Options[0].ID] != 1 || got[poll.Options[1].ID] != 0 || got[poll.Options[2].ID] != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

func TestPollCloseAndVoteAfterClose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	member := env.seedUser(t, "member@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, member, types.RoleMember)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, admin, h.ID, thread.ID, "vote")
	poll := seedPoll(t, env, admin, h.ID, thread.ID, msg.ID, types.PollTypeSingleChoice)

	// a plain member who is not the author cannot close
	_, err := env.polls.Close(ctx, member.ID, h.ID, thread.ID, msg.ID, nil)
	wantStatus(t, err, http.StatusUnauthorized)

	winner := poll.Options[1].ID
	closed, err := env.polls.Close(ctx, admin.ID, h.ID, thread.ID, msg.ID, &winner)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != types.PollStatusClosed {
		t.Fatalf("status = %s, want CLOSED", closed.Status)
	}
	if closed.SelectedOptionID == nil || *closed.SelectedOptionID != winner {
		t.Fatalf("selected option not recorded")
	}

	_, err = env.polls.Vote(ctx, member.ID, h.ID, thread.ID, msg.ID, []VoteInput{{OptionID: poll.Options[0].ID}})
	wantStatus(t, err, http.StatusBadRequest)

	err = env.polls.RemoveVote(ctx, member.ID, h.ID, thread.ID, msg.ID)
	wantStatus(t, err, http.StatusBadRequest)
}

func TestPollDeleteCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, admin, h.ID, thread.ID, "vote")
	poll := seedPoll(t, env, admin, h.ID, thread.ID, msg.ID, types.PollTypeSingleChoice)

	if _, err := env.polls.Vote(ctx, admin.ID, h.ID, thread.ID, msg.ID, []VoteInput{{OptionID: poll.Options[0].ID}}); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if err := env.polls.Delete(ctx, admin.ID, h.ID, thread.ID, msg.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var polls, options, votes int64
	env.db.Model(&types.Poll{}).Where("id = ?", poll.ID).Count(&polls)
	env.db.Model(&types.PollOption{}).Where("poll_id = ?", poll.ID).Count(&options)
	env.db.Model(&types.PollVote{}).Where("poll_id = ?", poll.ID).Count(&votes)
	if polls != 0 || options != 0 || votes != 0 {
		t.Fatalf("poll cascade left rows: polls=%d options=%d votes=%d", polls, options, votes)
	}
}
