// Package access holds the caller identity passed into every service call
// and the role/ownership predicates shared by the survey and vote services.
// All admin special-casing in the system goes through these functions.
package access

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Caller identifies the authenticated user performing an operation. Handlers
// build it from the verified token claims; services never read identity from
// anywhere else.
type Caller struct {
	ID   int64
	Role string
}

func IsAdmin(c Caller) bool {
	return c.Role == RoleAdmin
}

func IsOwner(c Caller, ownerID int64) bool {
	return c.ID == ownerID
}

// CanMutate reports whether the caller may destroy a survey owned by ownerID.
// Used by delete only: updates stay owner-exclusive, admins included.
func CanMutate(c Caller, ownerID int64) bool {
	return IsOwner(c, ownerID) || IsAdmin(c)
}

// CanBypassVoteRestrictions reports whether the self-vote and one-vote-per-survey
// checks are skipped for this caller. Admins may vote on their own surveys and
// accumulate multiple votes; the closed-survey check is never bypassed.
func CanBypassVoteRestrictions(c Caller) bool {
	return IsAdmin(c)
}
