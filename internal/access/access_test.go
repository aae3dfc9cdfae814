package access

import "testing"

func TestPredicates(t *testing.T) {
	admin := Caller{ID: 1, Role: RoleAdmin}
	owner := Caller{ID: 2, Role: RoleUser}
	other := Caller{ID: 3, Role: RoleUser}

	if !IsAdmin(admin) || IsAdmin(owner) {
		t.Fatalf("IsAdmin misclassified caller")
	}
	if !IsOwner(owner, 2) || IsOwner(other, 2) {
		t.Fatalf("IsOwner misclassified caller")
	}

	if !CanMutate(owner, 2) {
		t.Fatalf("owner must be able to mutate own survey")
	}
	if !CanMutate(admin, 2) {
		t.Fatalf("admin must be able to mutate any survey")
	}
	if CanMutate(other, 2) {
		t.Fatalf("stranger must not be able to mutate")
	}

	if !CanBypassVoteRestrictions(admin) {
		t.Fatalf("admin must bypass vote restrictions")
	}
	if CanBypassVoteRestrictions(owner) {
		t.Fatalf("non-admin must not bypass vote restrictions")
	}
}
