package entity

import "time"

type Blog struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	FeatureImage string    `json:"featureImage"`
	Visits       int64     `json:"visits"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BlogWithAuthor is a blog row joined with its author's public fields.
type BlogWithAuthor struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	FeatureImage string    `json:"featureImage"`
	Visits       int64     `json:"visits"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Author       Author    `json:"author"`
}

// BlogDetail is the single-post read model.
type BlogDetail struct {
	BlogWithAuthor
	IsLiked  bool  `json:"isLiked"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}
