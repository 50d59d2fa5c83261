package fsm

import "testing"

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusPending, StatusAssigned) {
		t.Fatal("expected pending -> assigned to be allowed")
	}
	if !CanTransition(StatusPending, StatusCancelled) {
		t.Fatal("expected pending -> cancelled to be allowed")
	}
	if !CanTransition(StatusAssigned, StatusInProgress) {
		t.Fatal("expected assigned -> in_progress to be allowed")
	}
	if !CanTransition(StatusAssigned, StatusCancelled) {
		t.Fatal("expected assigned -> cancelled to be allowed")
	}
	if !CanTransition(StatusInProgress, StatusCompleted) {
		t.Fatal("expected in_progress -> completed to be allowed")
	}
	if CanTransition(StatusInProgress, StatusCancelled) {
		t.Fatal("in_progress must not be cancellable")
	}
	if CanTransition(StatusPending, StatusInProgress) {
		t.Fatal("pending must not start work directly")
	}
	if CanTransition(StatusCompleted, StatusInProgress) {
		t.Fatal("completed is terminal")
	}
	if CanTransition(StatusCancelled, StatusAssigned) {
		t.Fatal("cancelled is terminal")
	}
}

func TestTerminal(t *testing.T) {
	for _, status := range []string{StatusCompleted, StatusCancelled} {
		if !Terminal(status) {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	for _, status := range []string{StatusPending, StatusAssigned, StatusInProgress} {
		if Terminal(status) {
			t.Fatalf("did not expect %s to be terminal", status)
		}
	}
}
