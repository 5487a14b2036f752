package entity

import "time"

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BlogID    string    `json:"blogId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommentWithAuthor struct {
	Comment
	Author Author `json:"author"`
}

type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BlogID    string    `json:"blogId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Follow is a directed edge: Follower follows Following.
type Follow struct {
	ID        string    `json:"id"`
	Follower  string    `json:"follower"`
	Following string    `json:"following"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
