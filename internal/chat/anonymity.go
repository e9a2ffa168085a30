package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"meetup/backend/internal/log"
	"meetup/backend/internal/models"
	"meetup/backend/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/samber/lo"
)

const (
	// Numbered variants run from name2 up to name<overflowMultiplier>.
	overflowMultiplier = 10

	randomNamePrefix     = "ユーザー"
	randomSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	randomSuffixLength   = 6

	maxAllocationAttempts = 10
)

var defaultAnonymousNames = []string{
	"りんご", "みかん", "ばなな", "いちご", "ぶどう",
	"もも", "なし", "すいか", "めろん", "かき",
	"きうい", "まんご", "ぱいん", "れもん", "ゆず",
	"うめ", "さくら", "あんず", "いちじく", "ざくろ",
	"びわ", "あけび", "くり", "かぼす", "すだち",
}

// NamePool is an ordered, immutable list of pseudonyms.
type NamePool struct {
	names []string
}

// NewNamePool copies names into a pool. Blank and repeated names are dropped;
// an empty result falls back to the default pool.
func NewNamePool(names []string) NamePool {
	seen := make(map[string]struct{}, len(names))
	pool := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok || n == "" {
			continue
		}
		seen[n] = struct{}{}
		pool = append(pool, n)
	}
	if len(pool) == 0 {
		return DefaultNamePool()
	}
	return NamePool{names: pool}
}

func DefaultNamePool() NamePool {
	return NamePool{names: slices.Clone(defaultAnonymousNames)}
}

func (p NamePool) Names() []string {
	return slices.Clone(p.names)
}

// Assigner hands out stable per-room pseudonyms to non-owner participants of
// PRE_JOIN rooms.
type Assigner struct {
	participants repository.ParticipantRepository
	pool         NamePool
	randomSuffix func() (string, error)
}

func NewAssigner(participants repository.ParticipantRepository, pool NamePool) *Assigner {
	return &Assigner{
		participants: participants,
		pool:         pool,
		randomSuffix: func() (string, error) {
			return gonanoid.Generate(randomSuffixAlphabet, randomSuffixLength)
		},
	}
}

// ResolveDisplayName returns the pseudonym bound to userID in roomID, binding
// a new one on first use. The room owner must never be passed here.
//
// Uniqueness is enforced by the store: a conflicting insert means another
// request won the race, so the lookup starts over. Retries pick at random
// among the free names so that concurrent newcomers spread out instead of
// all chasing the same candidate again.
func (a *Assigner) ResolveDisplayName(ctx context.Context, roomID, userID uint) (string, error) {
	l := log.Ctx(ctx)

	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		existing, err := a.participants.Get(ctx, roomID, userID)
		if err == nil {
			return existing.AnonymousName, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("get anonymous participant: %w", err)
		}

		used, err := a.participants.UsedNames(ctx, roomID)
		if err != nil {
			return "", fmt.Errorf("list used anonymous names: %w", err)
		}

		name, err := a.pick(used, attempt > 1)
		if err != nil {
			return "", err
		}

		err = a.participants.Create(ctx, &models.PreJoinParticipant{
			RoomID:        roomID,
			UserID:        userID,
			AnonymousName: name,
		})
		if err == nil {
			l.Debug().Uint(log.FieldRoomID, roomID).Uint(log.FieldUserID, userID).Str("anonymous_name", name).Msg("anonymous name assigned")
			return name, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return "", fmt.Errorf("create anonymous participant: %w", err)
		}
		l.Debug().Uint(log.FieldRoomID, roomID).Int("attempt", attempt).Msg("anonymous name conflict, retrying")
	}

	return "", fmt.Errorf("assign anonymous name in room %d: gave up after %d conflicts", roomID, maxAllocationAttempts)
}

// pick returns a free pool name, then a free numbered variant, then a random
// name. Within a tier it takes the first free name in pool order, or any free
// one when spread is set.
func (a *Assigner) pick(used []string, spread bool) (string, error) {
	taken := make(map[string]struct{}, len(used))
	for _, n := range used {
		taken[n] = struct{}{}
	}
	free := func(candidates []string) []string {
		return lo.Filter(candidates, func(n string, _ int) bool {
			_, ok := taken[n]
			return !ok
		})
	}
	choose := func(candidates []string) string {
		if spread {
			return lo.Sample(candidates)
		}
		return candidates[0]
	}

	if names := free(a.pool.names); len(names) > 0 {
		return choose(names), nil
	}

	if names := free(a.numberedVariants()); len(names) > 0 {
		return choose(names), nil
	}

	suffix, err := a.randomSuffix()
	if err != nil {
		return "", fmt.Errorf("generate random anonymous name: %w", err)
	}
	return randomNamePrefix + suffix, nil
}

// numberedVariants lists name2..name<overflowMultiplier>, suffix-major.
func (a *Assigner) numberedVariants() []string {
	variants := make([]string, 0, len(a.pool.names)*(overflowMultiplier-1))
	for i := 2; i <= overflowMultiplier; i++ {
		for _, base := range a.pool.names {
			variants = append(variants, fmt.Sprintf("%s%d", base, i))
		}
	}
	return variants
}
