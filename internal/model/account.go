package model

// Account represents a row of the `login` table.  UserID is the login
// handle and primary key.  Password holds whatever the configured password
// mode stores (a bcrypt hash by default) and must never be serialized.
type Account struct {
	UserID     string
	Username   string
	Department string
	Password   string
}

// AccountView is the public shape of an account returned by GET /person/:id.
type AccountView struct {
	Username   string `json:"USERNAME"`
	Department string `json:"DEPT"`
	UserID     string `json:"USERID"`
}

// View strips the stored password.
func (a Account) View() AccountView {
	return AccountView{Username: a.Username, Department: a.Department, UserID: a.UserID}
}
