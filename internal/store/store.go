// Package store holds the authoritative in-memory board: tasks, team
// members and the stand-up meeting. Every mutation goes through a Store
// method and is applied to completion under a single lock.
package store

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

const (
	taskIDPrefix   = "T-"
	memberIDPrefix = "U-"
	avatarBaseURL  = "https://i.pravatar.cc/150?u="

	defaultSaveTimeout = 5 * time.Second
)

type EventKind string

const (
	EventTaskCreated       EventKind = "task.created"
	EventTaskStatusChanged EventKind = "task.status_changed"
	EventMemberAdded       EventKind = "member.added"
	EventMeetingChanged    EventKind = "meeting.changed"
)

// Event describes one applied mutation. Only the fields relevant to Kind
// are set.
type Event struct {
	Kind       EventKind
	Task       *models.Task
	FromStatus models.TaskStatus
	Member     *models.TeamMember
	Meeting    *models.Meeting
}

// Listener is called synchronously, in mutation order, while the store is
// locked. It must not call back into the Store.
type Listener func(Event)

// Saver persists the task and member collections. Save is called after the
// store lock is released, one call at a time.
type Saver interface {
	Save(ctx context.Context, snapshot models.Snapshot) error
}

// StatusChange is the result of a status write.
type StatusChange struct {
	Task models.Task
	From models.TaskStatus
}

type Store struct {
	logger zerolog.Logger

	mu        sync.Mutex
	tasks     []models.Task
	members   []models.TeamMember
	meeting   *models.Meeting
	taskSeq   int
	memberSeq int

	saver       Saver
	saveTimeout time.Duration
	listeners   []Listener

	// saveSeq numbers snapshots under mu. saveMu orders writes so an older
	// snapshot never overwrites a newer one.
	saveSeq  uint64
	saveMu   sync.Mutex
	savedSeq uint64
}

type pendingSave struct {
	seq      uint64
	snapshot models.Snapshot
}

type Option func(*Store)

func WithSaver(saver Saver) Option {
	return func(s *Store) {
		s.saver = saver
	}
}

func WithSaveTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.saveTimeout = timeout
		}
	}
}

// New builds a store seeded with the given snapshot and meeting.
func New(logger zerolog.Logger, seed models.Snapshot, meeting *models.Meeting, opts ...Option) *Store {
	seed = seed.Clone()
	s := &Store{
		logger:      logger,
		tasks:       seed.Tasks,
		members:     seed.Members,
		meeting:     meeting.Clone(),
		saveTimeout: defaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, t := range s.tasks {
		s.taskSeq = max(s.taskSeq, idSequence(t.ID, taskIDPrefix))
	}
	for _, m := range s.members {
		s.memberSeq = max(s.memberSeq, idSequence(m.ID, memberIDPrefix))
	}
	return s
}

// Subscribe registers a listener for every subsequent mutation.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// AddTask appends a task with a fresh id. An empty status defaults to
// StatusToDo.
func (s *Store) AddTask(data models.NewTask) models.Task {
	var save *pendingSave
	defer func() { s.flush(save) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	status := data.Status
	if status == "" {
		status = models.StatusToDo
	}

	s.taskSeq++
	task := models.Task{
		ID:          taskIDPrefix + strconv.Itoa(s.taskSeq),
		Title:       data.Title,
		Description: data.Description,
		AssigneeID:  data.AssigneeID,
		Status:      status,
		Points:      data.Points,
		Priority:    data.Priority,
	}
	s.tasks = append(s.tasks, task)

	s.logger.Debug().
		Str("task_id", task.ID).
		Str("assignee_id", task.AssigneeID).
		Msg("added task")

	save = s.capture()
	s.notify(Event{Kind: EventTaskCreated, Task: &task})
	return task
}

// AddTeamMember appends a member with a fresh id and an avatar derived
// from the name.
func (s *Store) AddTeamMember(data models.NewTeamMember) models.TeamMember {
	var save *pendingSave
	defer func() { s.flush(save) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.memberSeq++
	member := models.TeamMember{
		ID:          memberIDPrefix + strconv.Itoa(s.memberSeq),
		Name:        data.Name,
		Avatar:      AvatarURL(data.Name),
		Role:        data.Role,
		DailyUpdate: data.DailyUpdate,
		Email:       data.Email,
	}
	s.members = append(s.members, member)

	s.logger.Debug().
		Str("member_id", member.ID).
		Msg("added team member")

	save = s.capture()
	s.notify(Event{Kind: EventMemberAdded, Member: &member})
	return member
}

// SetTaskStatus replaces the status of the task with the given id. It is a
// no-op returning false when no such task exists.
func (s *Store) SetTaskStatus(taskID string, status models.TaskStatus) (StatusChange, bool) {
	var save *pendingSave
	defer func() { s.flush(save) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == taskID })
	if i < 0 {
		s.logger.Debug().
			Str("task_id", taskID).
			Msg("status change for unknown task ignored")
		return StatusChange{}, false
	}

	from := s.tasks[i].Status
	s.tasks[i].Status = status
	task := s.tasks[i]

	s.logger.Debug().
		Str("task_id", taskID).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("set task status")

	save = s.capture()
	s.notify(Event{Kind: EventTaskStatusChanged, Task: &task, FromStatus: from})
	return StatusChange{Task: task, From: from}, true
}

// SetMeeting replaces the meeting. Nil means no meeting.
func (s *Store) SetMeeting(meeting *models.Meeting) {
	s.UpdateMeeting(func(*models.Meeting) *models.Meeting {
		return meeting
	})
}

// UpdateMeeting replaces the meeting with update(current). update receives
// a copy and may return nil.
func (s *Store) UpdateMeeting(update func(current *models.Meeting) *models.Meeting) *models.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meeting = update(s.meeting.Clone()).Clone()

	s.logger.Debug().
		Bool("present", s.meeting != nil).
		Msg("updated meeting")

	s.notify(Event{Kind: EventMeetingChanged, Meeting: s.meeting.Clone()})
	return s.meeting.Clone()
}

func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

func (s *Store) Task(taskID string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return models.Task{}, false
}

func (s *Store) Members() []models.TeamMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.members)
}

func (s *Store) Meeting() *models.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meeting.Clone()
}

func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Snapshot{
		Tasks:   slices.Clone(s.tasks),
		Members: slices.Clone(s.members),
	}
}

// capture must be called with mu held. It returns nil without a saver.
func (s *Store) capture() *pendingSave {
	if s.saver == nil {
		return nil
	}
	snapshot := models.Snapshot{
		Tasks:   slices.Clone(s.tasks),
		Members: slices.Clone(s.members),
	}
	s.saveSeq++
	return &pendingSave{seq: s.saveSeq, snapshot: snapshot}
}

// flush writes a captured snapshot after mu is released, so reads are not
// blocked by storage I/O. A snapshot older than the last written one is
// skipped.
func (s *Store) flush(p *pendingSave) {
	if p == nil {
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if p.seq <= s.savedSeq {
		s.logger.Debug().
			Uint64("seq", p.seq).
			Msg("skipped stale board snapshot")
		return
	}
	s.savedSeq = p.seq

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()

	err := s.saver.Save(ctx, p.snapshot)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to save board snapshot")
	}
}

// notify must be called with mu held.
func (s *Store) notify(e Event) {
	for _, l := range s.listeners {
		l(e)
	}
}

// AvatarURL derives the avatar reference for a member name.
func AvatarURL(name string) string {
	key := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(name))
	return avatarBaseURL + key
}

func idSequence(id, prefix string) int {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (e Event) String() string {
	switch {
	case e.Task != nil:
		return fmt.Sprintf("%s %s", e.Kind, e.Task.ID)
	case e.Member != nil:
		return fmt.Sprintf("%s %s", e.Kind, e.Member.ID)
	}
	return string(e.Kind)
}
