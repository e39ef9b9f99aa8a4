package schema

// GamesAccountTable represents the 'games.account' table
type GamesAccountTable struct {
	Table     string
	ID        string
	Username  string
	Password  string
	Role      string
	CreatedAt string
	UpdatedAt string
}

// GamesAccount is the schema definition for games.account
var GamesAccount = GamesAccountTable{
	Table:     "games.account",
	ID:        "id",
	Username:  "username",
	Password:  "passwordhash",
	Role:      "role",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t GamesAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Password, t.Role, t.CreatedAt, t.UpdatedAt}
}
