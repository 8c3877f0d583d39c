package domain

import "time"

// Session is the single persisted "currently logged in" record. The service
// tracks at most one at a time; a fresh login always replaces it.
//
// Account is the snapshot captured at login (secret hash stripped). Reads of
// the current session return this snapshot as-is and never re-resolve the
// account, so profile edits made elsewhere only show up after the next login.
type Session struct {
	SubjectID string // the Account.ID the session authenticates
	Token     string // signed bearer token encoding (SubjectID, IssuedAt)
	IssuedAt  time.Time
	Account   Account
}
