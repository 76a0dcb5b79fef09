package app

import (
	"errors"
	"testing"
	"time"

	"github.com/lalith-99/clubhub/internal/realtime"
)

func TestUnreadCount_OnlyCountsIncoming(t *testing.T) {
	env := newTestEnv(t, Options{})
	alex := env.signIn(t, "alex@university.edu")

	before, err := alex.UnreadCount("3")
	if err != nil {
		t.Fatal(err)
	}
	if before != 1 {
		t.Fatalf("seeded unread from 3 = %d, want 1", before)
	}

	// Alex writing to Rahul never changes what Alex has unread from Rahul.
	for i := 0; i < 3; i++ {
		if _, err := alex.SendDirectMessage("3", "on it"); err != nil {
			t.Fatal(err)
		}
	}
	if got, _ := alex.UnreadCount("3"); got != before {
		t.Errorf("UnreadCount after sending = %d, want %d", got, before)
	}

	rahul := env.signIn(t, "rahul@university.edu")
	if got, _ := rahul.UnreadCount("1"); got != 3 {
		t.Errorf("Rahul's unread from Alex = %d, want 3", got)
	}
	if got, _ := alex.UnreadCount("2"); got != 0 {
		t.Errorf("unread from 2 = %d, want 0 (seeded as read)", got)
	}
}

func TestConversation_SortedStable(t *testing.T) {
	env := newTestEnv(t, Options{})
	alex := env.signIn(t, "alex@university.edu")
	priya := env.signIn(t, "priya@university.edu")

	a, _ := alex.SendDirectMessage("2", "same instant A")
	b, _ := priya.SendDirectMessage("1", "same instant B")
	env.clock.Advance(time.Second)
	c, _ := alex.SendDirectMessage("2", "later")

	conv, err := priya.Conversation("1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1", "2", a.ID, b.ID, c.ID}
	if len(conv) != len(want) {
		t.Fatalf("Conversation() has %d messages, want %d", len(conv), len(want))
	}
	for i, id := range want {
		if conv[i].ID != id {
			t.Errorf("conv[%d] = %s, want %s", i, conv[i].ID, id)
		}
	}

	last, ok, err := alex.LastMessage("2")
	if err != nil || !ok || last.ID != c.ID {
		t.Errorf("LastMessage() = %s, %v, %v; want %s", last.ID, ok, err, c.ID)
	}
	if _, ok, _ := alex.LastMessage("6"); ok {
		t.Error("LastMessage() with no history reported a message")
	}
}

func TestSendDirectMessage(t *testing.T) {
	env := newTestEnv(t, Options{})
	alex := env.signIn(t, "alex@university.edu")

	dm, err := alex.SendDirectMessage("6", "welcome aboard")
	if err != nil {
		t.Fatalf("SendDirectMessage() error: %v", err)
	}
	if dm.IsRead || dm.Type != "text" || dm.SenderID != "1" || dm.ReceiverID != "6" {
		t.Errorf("SendDirectMessage() = %+v", dm)
	}
	ev := env.pub.last()
	if ev.Type != realtime.DirectMessageSent || len(ev.UserIDs) != 2 {
		t.Errorf("published %+v, want dm.created for both users", ev)
	}

	if _, err := alex.SendDirectMessage("99", "hi"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SendDirectMessage(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := alex.SendDirectMessage("6", " "); !errors.Is(err, ErrValidation) {
		t.Errorf("SendDirectMessage(blank) error = %v, want ErrValidation", err)
	}
}

func TestMarkConversationRead(t *testing.T) {
	env := newTestEnv(t, Options{})
	alex := env.signIn(t, "alex@university.edu")

	n, err := alex.MarkConversationRead("3")
	if err != nil || n != 1 {
		t.Fatalf("MarkConversationRead() = %d, %v; want 1", n, err)
	}
	if got, _ := alex.UnreadCount("3"); got != 0 {
		t.Errorf("UnreadCount after marking = %d, want 0", got)
	}
	if n, _ := alex.MarkConversationRead("3"); n != 0 {
		t.Errorf("second MarkConversationRead() = %d, want 0", n)
	}
}

func TestContacts(t *testing.T) {
	env := newTestEnv(t, Options{})
	alex := env.signIn(t, "alex@university.edu")

	all, err := alex.Contacts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("Contacts() = %d users, want 5 (everyone but self)", len(all))
	}
	for _, c := range all {
		if c.User.ID == "1" {
			t.Error("Contacts() includes the current user")
		}
		if c.User.ID == "3" && (c.Unread != 1 || c.LastMessage == nil || c.LastMessage.ID != "3") {
			t.Errorf("contact 3 = unread %d last %+v, want 1 and message 3", c.Unread, c.LastMessage)
		}
	}

	found, _ := alex.Contacts("PRIYA")
	if len(found) != 1 || found[0].User.ID != "2" {
		t.Errorf("Contacts(PRIYA) = %+v, want Priya only", found)
	}
}
