package models

// Post is one row of the Posts table. Date is free-form text and never parsed.
type Post struct {
	PostID  *string
	Title   *string
	Content *string
	Date    *string
	UserID  *string
}

// BelongsTo reports whether the post's owner column equals userID.
func (p Post) BelongsTo(userID string) bool {
	return p.UserID != nil && *p.UserID == userID
}
