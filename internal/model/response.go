package model

// UserProfile is the public profile plus the first page of the user's feed.
//
// NextCursor is empty when RecentSnippets is shorter than the page size,
// meaning the whole feed fits in this response.
type UserProfile struct {
	User            User      `json:"user"`
	RecentSnippets  []Snippet `json:"recentSnippets"`
	EarliestSnippet *Snippet  `json:"earliestSnippet"`
	NextCursor      string    `json:"nextCursor,omitempty"`
}

// ProfileSummary is the public profile plus only the newest snippet.
type ProfileSummary struct {
	User          User     `json:"user"`
	LatestSnippet *Snippet `json:"latestSnippet"`
}

// AuthenticatedProfile is everything the signed-in caller sees about themself.
type AuthenticatedProfile struct {
	Credentials   User           `json:"credentials"`
	Likes         []Like         `json:"likes"`
	Plays         []Play         `json:"plays"`
	Notifications []Notification `json:"notifications"`
}

// FeedPage is one page of a user's snippets.
type FeedPage struct {
	Items      []Snippet `json:"items"`
	NextCursor string    `json:"nextCursor,omitempty"`
}
