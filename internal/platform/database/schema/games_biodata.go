package schema

// GamesBiodataTable represents the 'games.biodata' table
type GamesBiodataTable struct {
	Table          string
	ID             string
	AccountID      string
	Email          string
	Firstname      string
	Lastname       string
	ProfilePicture string
	Country        string
	Age            string
	CreatedAt      string
	UpdatedAt      string
}

// GamesBiodata is the schema definition for games.biodata
var GamesBiodata = GamesBiodataTable{
	Table:          "games.biodata",
	ID:             "id",
	AccountID:      "accountid",
	Email:          "email",
	Firstname:      "firstname",
	Lastname:       "lastname",
	ProfilePicture: "profilepicture",
	Country:        "country",
	Age:            "age",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

func (t GamesBiodataTable) Columns() []string {
	return []string{
		t.ID, t.AccountID, t.Email, t.Firstname, t.Lastname,
		t.ProfilePicture, t.Country, t.Age, t.CreatedAt, t.UpdatedAt,
	}
}
