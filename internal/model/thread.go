package model

import "time"

// Thread ties a user to a hosted assistant and an ordered message history.
// The ID is assigned by the assistant service.  A thread is written once
// at creation and never mutated afterwards, so AssistantID is fixed for
// the life of the thread.
//
// Fields:
//  ID          – thread identifier issued by the assistant service.
//  AssistantID – assistant that answers on this thread.
//  UserID      – owner; empty for threads created without one.
//  CreatedAt   – creation time in UTC.
type Thread struct {
    ID          string    // thread:<id>
    AssistantID string    // thread:<id>.assistant_id
    UserID      string    // thread:<id>.user_id (optional)
    CreatedAt   time.Time // thread:<id>.created_at
}

// OwnedBy reports whether userID may act on the thread.  Threads without
// an owner are open to every authenticated caller.
func (t Thread) OwnedBy(userID string) bool {
    return t.UserID == "" || t.UserID == userID
}
