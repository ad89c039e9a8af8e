package mail

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		d        Direction
		from, to Status
		want     bool
	}{
		{Inward, StatusPending, StatusApproved, true},
		{Inward, StatusApproved, StatusInProgress, true},
		{Inward, StatusInProgress, StatusDelivered, true},
		{Inward, StatusPending, StatusDelivered, true},
		{Inward, StatusPending, StatusPending, true},
		{Inward, StatusDelivered, StatusPending, false},
		{Inward, StatusApproved, StatusPending, false},
		{Inward, StatusPending, StatusSent, false},
		{Outward, StatusDraft, StatusSent, true},
		{Outward, StatusSent, StatusInTransit, true},
		{Outward, StatusInTransit, StatusDelivered, true},
		{Outward, StatusInTransit, StatusDraft, false},
		{Outward, StatusDraft, StatusApproved, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.d, tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s, %s) = %v, want %v", tt.d, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDirection(t *testing.T) {
	if Inward.Collection() != "inward_mails" || Outward.Collection() != "outward_mails" {
		t.Errorf("collections = %s, %s", Inward.Collection(), Outward.Collection())
	}
	if Inward.InitialStatus() != StatusPending || Outward.InitialStatus() != StatusDraft {
		t.Errorf("initial statuses = %s, %s", Inward.InitialStatus(), Outward.InitialStatus())
	}
	if Direction("sideways").Valid() {
		t.Error("unknown direction reported valid")
	}
}
