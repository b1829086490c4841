package auth

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) RefID() string { return u.ID }

func (u User) IsAdmin() bool { return u.Role == "admin" }
