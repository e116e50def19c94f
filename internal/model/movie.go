package model

import "time"

// Movie represents a film available for scheduling. Shows reference a
// movie; the movie's duration drives the computed show end time.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Description – synopsis shown in the catalog.
//  Genre       – genre label (e.g. ACTION, DRAMA).
//  Language    – audio language.
//  DurationMin – running time in minutes.
//  ReleaseDate – theatrical release date.
//  Rating      – certification label (e.g. PG-13, UA).
//  PosterURL   – optional poster image URL.
//  IsActive    – whether the movie is currently listed.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64     // movies.id
	Title       string     // movies.title
	Description *string    // movies.description (nullable)
	Genre       string     // movies.genre
	Language    string     // movies.language
	DurationMin uint32     // movies.duration_min
	ReleaseDate *time.Time // movies.release_date (nullable)
	Rating      *string    // movies.rating (nullable)
	PosterURL   *string    // movies.poster_url (nullable)
	IsActive    bool       // movies.is_active
	CreatedAt   time.Time  // movies.created_at
	UpdatedAt   time.Time  // movies.updated_at
}
