package models

// Session mirrors the persisted key-value layout: isLoggedIn is stored
// as the literal string "true", currentUser as the plain username. A
// record with isLoggedIn set but no currentUser reads as logged out.
type Session struct {
	IsLoggedIn  bool   `json:"is_logged_in"`
	CurrentUser string `json:"current_user"`
}

// Owns reports whether the session owns an item authored by author.
// Ownership requires a live login and an exact username match.
func (s Session) Owns(author string) bool {
	return s.IsLoggedIn && s.CurrentUser != "" && s.CurrentUser == author
}
