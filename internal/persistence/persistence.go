// Package persistence stores the board's task and member collections as two
// independent JSON values in a key-value table.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

const (
	TasksKey   = "scrum-ai-master-tasks"
	MembersKey = "scrum-ai-master-team-members"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// KV is a string-keyed blob store. Get reports found=false for an absent key.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// Snapshotter saves and restores a models.Snapshot through a KV.
type Snapshotter struct {
	logger zerolog.Logger
	kv     KV
	seed   models.Snapshot
}

func NewSnapshotter(logger zerolog.Logger, kv KV, seed models.Snapshot) *Snapshotter {
	return &Snapshotter{
		logger: logger,
		kv:     kv,
		seed:   seed,
	}
}

// Load restores the snapshot. An absent key falls back to the seed for that
// collection only; any read, decode or validation failure falls back to the
// whole seed.
func (s *Snapshotter) Load(ctx context.Context) models.Snapshot {
	snapshot, err := s.load(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load board snapshot, using seed data")
		return s.seed.Clone()
	}

	s.logger.Info().
		Int("tasks", len(snapshot.Tasks)).
		Int("members", len(snapshot.Members)).
		Msg("loaded board snapshot")
	return snapshot
}

func (s *Snapshotter) load(ctx context.Context) (models.Snapshot, error) {
	snapshot := s.seed.Clone()

	var tasks []models.Task
	found, err := s.loadKey(ctx, TasksKey, &tasks)
	if err != nil {
		return models.Snapshot{}, err
	}
	if found {
		err = validateTasks(tasks)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("invalid %s: %w", TasksKey, err)
		}
		snapshot.Tasks = tasks
	}

	var members []models.TeamMember
	found, err = s.loadKey(ctx, MembersKey, &members)
	if err != nil {
		return models.Snapshot{}, err
	}
	if found {
		err = validateMembers(members)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("invalid %s: %w", MembersKey, err)
		}
		snapshot.Members = members
	}
	return snapshot, nil
}

func (s *Snapshotter) loadKey(ctx context.Context, key string, dst any) (bool, error) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found {
		s.logger.Debug().
			Str("key", key).
			Msg("no stored value, keeping seed data")
		return false, nil
	}
	// Save always writes a list; a stored null is damage, not an empty board.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false, fmt.Errorf("stored %s is null", key)
	}

	err = json.Unmarshal(raw, dst)
	if err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Save writes both collections.
func (s *Snapshotter) Save(ctx context.Context, snapshot models.Snapshot) error {
	tasks := snapshot.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	members := snapshot.Members
	if members == nil {
		members = []models.TeamMember{}
	}

	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	membersJSON, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}

	err = s.kv.Put(ctx, TasksKey, tasksJSON)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", TasksKey, err)
	}
	err = s.kv.Put(ctx, MembersKey, membersJSON)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", MembersKey, err)
	}

	s.logger.Debug().
		Int("tasks", len(tasks)).
		Int("members", len(members)).
		Msg("saved board snapshot")
	return nil
}
