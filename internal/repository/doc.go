// Package repository implements the SurrealDB data access layer for bambushain.
//
// Each repository handles one entity: groves, users, login tokens,
// characters with their crafters, fighters and housings, custom fields with
// their options, and calendar events.
//
// # Conventions
//
//   - NewXxxRepository accepts a database.Database
//   - IDs are "table:id" strings; bare IDs taken from URLs get their table
//     prefix added by recordID before they reach a query
//   - Lookups return (nil, nil) when the record does not exist
//   - Unique index violations surface as database.ErrDuplicate
//   - Writes touching more than one record run in one transaction
//
// Ownership is part of every query. A character is always read with
// "WHERE user = ..." and an event with "WHERE grove = ...", so a record
// that belongs to somebody else looks exactly like a missing one.
//
//	repo := NewCharacterRepository(db)
//	character, err := repo.Get(ctx, user.ID, "character:abc")
//	if err != nil {
//	    return err
//	}
//	if character == nil {
//	    // Not found or not owned by user
//	}
package repository
