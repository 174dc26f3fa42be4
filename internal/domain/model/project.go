package model

import "time"

// Project is a portfolio entry served by the projects collaborator.
type Project struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Technologies  string    `json:"technologies"`
	ImageURL      string    `json:"image_url"`
	ProjectURL    string    `json:"project_url"`
	RepositoryURL string    `json:"repository_url"`
	CreatedAt     time.Time `json:"created_at"`
}
