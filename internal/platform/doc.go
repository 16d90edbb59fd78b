package platform

// Package platform contains glue that is not domain logic proper: parsing
// and normalizing user-typed Bilibili video identifiers into the query
// parameters the backend expects.
