package state

import "time"

// AdminState is everything the admin view renders: the post list, the edit
// form, the message of the last failed action and a delete awaiting
// confirmation.
type AdminState struct {
	List          ListState `json:"list"`
	Form          FormState `json:"form"`
	Error         string    `json:"error,omitempty"`
	PendingDelete int       `json:"pendingDelete,omitempty"`
}

func NewAdminState() AdminState {
	return AdminState{Form: NewForm()}
}

// Session is the view state of one browser, persisted between requests.
type Session struct {
	ID        string     `json:"id"`
	Portal    ListState  `json:"portal"`
	Admin     AdminState `json:"admin"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		Admin: NewAdminState(),
	}
}
