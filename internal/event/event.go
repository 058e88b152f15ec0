// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package event defines the vocabulary of the durable event fabric: the
// subject grammar shared by every publishing service and its consumers.
//
// # Subject Grammar
//
//	<entity>.update.index.<set|update|delete>.<single|batch>   (store + index)
//	<entity>.update.set.<single|batch>                         (cache only)
//
// The entity segment is an open set; "categories" is the only entity today
// but the grammar admits new entities without change.
package event

import (
	"fmt"
	"strings"
)

// Entity identifies the aggregate a subject refers to.
type Entity string

// Categories is the catalog entity.
const Categories Entity = "categories"

// Type enumerates the recognized (action, scope) pairs.
type Type int

const (
	// TypeSetSingle announces a freshly created entity.
	TypeSetSingle Type = iota
	// TypeSetBatch announces a batch of created entities. Reserved.
	TypeSetBatch
	// TypeUpdateSingle announces the canonical post-state of one entity.
	TypeUpdateSingle
	// TypeUpdateBatch announces a connection page for listing caches.
	TypeUpdateBatch
	// TypeDeleteSingle announces the removal of one entity.
	TypeDeleteSingle
	// TypeDeleteBatch announces a batch removal. Reserved.
	TypeDeleteBatch
	// TypeCacheUpdateSingle is the cache-only single variant. Reserved.
	TypeCacheUpdateSingle
	// TypeCacheUpdateBatch is the cache-only batch variant. Reserved.
	TypeCacheUpdateBatch
)

// Event is one point in the vocabulary: an entity paired with a type.
type Event struct {
	Entity Entity
	Type   Type
}

// Constructors for every recognized event.

func SetSingle(e Entity) Event    { return Event{Entity: e, Type: TypeSetSingle} }
func SetBatch(e Entity) Event     { return Event{Entity: e, Type: TypeSetBatch} }
func UpdateSingle(e Entity) Event { return Event{Entity: e, Type: TypeUpdateSingle} }
func UpdateBatch(e Entity) Event  { return Event{Entity: e, Type: TypeUpdateBatch} }
func DeleteSingle(e Entity) Event { return Event{Entity: e, Type: TypeDeleteSingle} }
func DeleteBatch(e Entity) Event  { return Event{Entity: e, Type: TypeDeleteBatch} }

func CacheUpdateSingle(e Entity) Event { return Event{Entity: e, Type: TypeCacheUpdateSingle} }
func CacheUpdateBatch(e Entity) Event  { return Event{Entity: e, Type: TypeCacheUpdateBatch} }

// suffixes maps each type to its subject tail after the entity segment.
var suffixes = map[Type]string{
	TypeSetSingle:         "update.index.set.single",
	TypeSetBatch:          "update.index.set.batch",
	TypeUpdateSingle:      "update.index.update.single",
	TypeUpdateBatch:       "update.index.update.batch",
	TypeDeleteSingle:      "update.index.delete.single",
	TypeDeleteBatch:       "update.index.delete.batch",
	TypeCacheUpdateSingle: "update.set.single",
	TypeCacheUpdateBatch:  "update.set.batch",
}

// Subject renders the event to its broker subject.
func (e Event) Subject() string {
	return string(e.Entity) + "." + suffixes[e.Type]
}

// String implements fmt.Stringer for log fields.
func (e Event) String() string { return e.Subject() }

// ParseSubject is the inverse of [Event.Subject].
//
// Any string outside the grammar is rejected, including subjects whose
// entity segment is empty or contains a wildcard token.
func ParseSubject(subject string) (Event, error) {
	segments := strings.Split(subject, ".")
	if len(segments) != 4 && len(segments) != 5 {
		return Event{}, fmt.Errorf("event: unrecognized subject %q", subject)
	}

	entity := segments[0]
	if entity == "" || entity == "*" || entity == ">" {
		return Event{}, fmt.Errorf("event: invalid entity in subject %q", subject)
	}

	tail := strings.Join(segments[1:], ".")
	for typ, suffix := range suffixes {
		if tail == suffix {
			return Event{Entity: Entity(entity), Type: typ}, nil
		}
	}

	return Event{}, fmt.Errorf("event: unrecognized subject %q", subject)
}
