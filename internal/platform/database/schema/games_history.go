package schema

// GamesHistoryTable represents the 'games.history' table
type GamesHistoryTable struct {
	Table      string
	ID         string
	AccountID  string
	Title      string
	Publisher  string
	Cover      string
	Score      string
	LastPlayed string
	CreatedAt  string
	UpdatedAt  string
}

// GamesHistory is the schema definition for games.history
var GamesHistory = GamesHistoryTable{
	Table:      "games.history",
	ID:         "id",
	AccountID:  "accountid",
	Title:      "title",
	Publisher:  "publisher",
	Cover:      "cover",
	Score:      "score",
	LastPlayed: "lastplayed",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

func (t GamesHistoryTable) Columns() []string {
	return []string{
		t.ID, t.AccountID, t.Title, t.Publisher, t.Cover,
		t.Score, t.LastPlayed, t.CreatedAt, t.UpdatedAt,
	}
}
