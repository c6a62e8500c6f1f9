package models

// User is the account identity returned by the catalog API.
// Created server-side on signup; read-only on this client.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// Media is a single catalog record as the server returns it
type Media struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Type     MediaType `json:"type"`
	Director string    `json:"director"`

	// Optional detail fields, kept as strings to match the API
	Budget   string `json:"budget,omitempty"`
	Location string `json:"location,omitempty"`
	Duration string `json:"duration,omitempty"`
	Year     string `json:"year,omitempty"`

	ImageURL  string `json:"imageUrl,omitempty"`
	UserID    int64  `json:"userId"`
	CreatedAt string `json:"createdAt"`
}

// Pagination is the server-reported paging envelope on list responses
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// MediaPage is one page of the media collection
type MediaPage struct {
	Data       []Media     `json:"data"`
	Pagination *Pagination `json:"pagination"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MediaDraft holds the editable fields of a create/update submission.
// Title, Type and Director are required; the rest are optional, and a
// poster attachment is included only when PosterName is set.
type MediaDraft struct {
	Title    string    `validate:"required"`
	Type     MediaType `validate:"required,oneof='Movie' 'TV Show'"`
	Director string    `validate:"required"`

	Budget   string
	Location string
	Duration string
	Year     string

	PosterName string
	Poster     []byte
}
