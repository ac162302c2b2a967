package model

// Snippet is an audio post.
//
// PlayCount, LikeCount and CommentCount are maintained by the like, play and
// comment write paths. Readers pass them through untouched.
type Snippet struct {
	SnippetID    string `json:"snippetId"`
	UserHandle   string `json:"userHandle"`
	Body         string `json:"body"`
	Audio        string `json:"audio"`
	Genre        string `json:"genre"`
	CreatedAt    string `json:"createdAt"`
	PlayCount    int64  `json:"playCount"`
	LikeCount    int64  `json:"likeCount"`
	CommentCount int64  `json:"commentCount"`
	UserImage    string `json:"userImage"`
}

// Like records that UserHandle liked SnippetID.
type Like struct {
	UserHandle string `json:"userHandle"`
	SnippetID  string `json:"snippetId"`
}

// Play records that UserHandle played SnippetID.
type Play struct {
	UserHandle string `json:"userHandle"`
	SnippetID  string `json:"snippetId"`
}
