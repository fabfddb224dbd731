// Package ingestion consumes friend-list units and merges them into
// the graph store. Units are independent: they can be ingested in any
// order, concurrently, and repeatedly with the same end state.
package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphlink/graphlink-go/internal/identity"
	"github.com/graphlink/graphlink-go/internal/storage"
	"github.com/sirupsen/logrus"
)

// ErrInvalidOwnerIdentity marks a unit whose owner reference failed
// normalization. The unit is rejected whole; nothing is written.
var ErrInvalidOwnerIdentity = errors.New("ingestion: invalid owner identity")

// FriendRow is one raw friend observation inside a unit.
type FriendRow struct {
	RawURL string
	Name   string
}

// Unit is one friend-list export: an owner plus the friends observed
// in that export.
type Unit struct {
	Source    string // where the unit came from, for reporting
	OwnerRef  string // raw owner reference
	OwnerName string
	Friends   []FriendRow
}

// UnitResult summarizes one ingested unit.
type UnitResult struct {
	Source   string
	OwnerKey string
	Profiles int // profiles touched, owner included
	Edges    int // distinct owner<->friend edges touched
	Skipped  int // friend rows dropped by normalization
}

// Engine ingests units against a shared store. It holds no cross-unit
// state; the store's keyed upserts make concurrent units safe.
type Engine struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewEngine creates an ingestion engine
func NewEngine(store storage.Store, logger *logrus.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// IngestUnit normalizes and merges one unit. Malformed friend rows are
// dropped and counted; a malformed owner fails the whole unit with
// ErrInvalidOwnerIdentity before anything is written. Store errors
// propagate.
func (e *Engine) IngestUnit(ctx context.Context, unit Unit) (*UnitResult, error) {
	ownerKey, err := identity.Normalize(unit.OwnerRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOwnerIdentity, err)
	}

	result := &UnitResult{Source: unit.Source, OwnerKey: ownerKey}

	upserts := make([]storage.ProfileUpsert, 0, len(unit.Friends)+1)
	friendKeys := make([]string, 0, len(unit.Friends))
	seen := make(map[string]struct{}, len(unit.Friends))

	for _, friend := range unit.Friends {
		key, err := identity.Normalize(friend.RawURL)
		if err != nil {
			result.Skipped++
			continue
		}
		upserts = append(upserts, storage.ProfileUpsert{Key: key, Name: friend.Name})
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			friendKeys = append(friendKeys, key)
		}
	}

	// Owner goes last so its name wins over any friend row that
	// mentions the owner.
	upserts = append(upserts, storage.ProfileUpsert{Key: ownerKey, Name: unit.OwnerName})

	if err := e.store.UpsertProfiles(ctx, upserts); err != nil {
		return nil, fmt.Errorf("upsert profiles for %s: %w", unit.Source, err)
	}

	ownerID, err := e.store.LookupID(ctx, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("resolve owner %s: %w", ownerKey, err)
	}

	ids, err := e.store.LookupIDs(ctx, friendKeys)
	if err != nil {
		return nil, fmt.Errorf("resolve friends for %s: %w", unit.Source, err)
	}

	pairs := make([][2]int64, 0, len(ids))
	for _, key := range friendKeys {
		id, ok := ids[key]
		if !ok || id == ownerID {
			continue
		}
		pairs = append(pairs, [2]int64{ownerID, id})
	}

	if err := e.store.UpsertFriendships(ctx, pairs); err != nil {
		return nil, fmt.Errorf("upsert friendships for %s: %w", unit.Source, err)
	}

	seen[ownerKey] = struct{}{}
	result.Profiles = len(seen)
	result.Edges = len(pairs)

	e.logger.WithFields(logrus.Fields{
		"source":   unit.Source,
		"owner":    ownerKey,
		"profiles": result.Profiles,
		"edges":    result.Edges,
		"skipped":  result.Skipped,
	}).Debug("Unit ingested")

	return result, nil
}
