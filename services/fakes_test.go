package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/finquest/finquest/database/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// fakeTxRunner executes the function directly; the zero bun.Tx is never
// touched because the fake repositories ignore their IDB argument.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, _ *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	f.calls++
	return fn(ctx, bun.Tx{})
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User

	createErr   error
	streakCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return errUniqueViolation{}
		}
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == identifier || u.Email == strings.ToLower(identifier) {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetTopByXP(_ context.Context, limit int) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) IncrementStats(_ context.Context, _ bun.IDB, id uuid.UUID, xpDelta, coinsDelta int64) error {
	u, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.XP += xpDelta
	u.Coins += coinsDelta
	return nil
}

func (r *fakeUserRepo) TouchStreak(_ context.Context, _ bun.IDB, id uuid.UUID, _ time.Time) error {
	if _, ok := r.users[id]; !ok {
		return sql.ErrNoRows
	}
	r.streakCalls++
	return nil
}

// errUniqueViolation mimics the driver's constraint error shape without a
// live connection.
type errUniqueViolation struct{}

func (errUniqueViolation) Error() string { return "duplicate key value violates unique constraint" }

type fakeQuestRepo struct {
	quests map[uuid.UUID]*models.Quest
}

func newFakeQuestRepo() *fakeQuestRepo {
	return &fakeQuestRepo{quests: make(map[uuid.UUID]*models.Quest)}
}

func (r *fakeQuestRepo) add(q *models.Quest) *models.Quest {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Status == "" {
		q.Status = models.QuestStatusActive
	}
	r.quests[q.ID] = q
	return q
}

func (r *fakeQuestRepo) Create(_ context.Context, quest *models.Quest) error {
	r.add(quest)
	return nil
}

func (r *fakeQuestRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Quest, error) {
	q, ok := r.quests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return q, nil
}

func (r *fakeQuestRepo) List(_ context.Context, category string, _, _ int) ([]*models.Quest, error) {
	out := make([]*models.Quest, 0, len(r.quests))
	for _, q := range r.quests {
		if category == "" || q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestRepo) Update(_ context.Context, quest *models.Quest) (bool, error) {
	if _, ok := r.quests[quest.ID]; !ok {
		return false, nil
	}
	r.quests[quest.ID] = quest
	return true, nil
}

func (r *fakeQuestRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.quests[id]; !ok {
		return false, nil
	}
	delete(r.quests, id)
	return true, nil
}

type uqKey struct {
	userID  uuid.UUID
	questID uuid.UUID
}

type fakeUserQuestRepo struct {
	rows map[uqKey]*models.UserQuest
}

func newFakeUserQuestRepo() *fakeUserQuestRepo {
	return &fakeUserQuestRepo{rows: make(map[uqKey]*models.UserQuest)}
}

func (r *fakeUserQuestRepo) put(uq *models.UserQuest) {
	r.rows[uqKey{uq.UserID, uq.QuestID}] = uq
}

func (r *fakeUserQuestRepo) Get(_ context.Context, userID, questID uuid.UUID) (*models.UserQuest, error) {
	uq, ok := r.rows[uqKey{userID, questID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return uq, nil
}

func (r *fakeUserQuestRepo) List(_ context.Context, userID uuid.UUID, status string) ([]*models.UserQuest, error) {
	out := make([]*models.UserQuest, 0)
	for _, uq := range r.rows {
		if uq.UserID == userID && (status == "" || uq.Status == status) {
			out = append(out, uq)
		}
	}
	return out, nil
}

func (r *fakeUserQuestRepo) GetForUpdate(_ context.Context, _ bun.IDB, userID, questID uuid.UUID) (*models.UserQuest, error) {
	uq, ok := r.rows[uqKey{userID, questID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return uq, nil
}

func (r *fakeUserQuestRepo) ClearCurrent(_ context.Context, _ bun.IDB, userID uuid.UUID) error {
	for _, uq := range r.rows {
		if uq.UserID == userID {
			uq.IsCurrent = false
		}
	}
	return nil
}

func (r *fakeUserQuestRepo) Upsert(_ context.Context, _ bun.IDB, uq *models.UserQuest) error {
	r.put(uq)
	return nil
}

func (r *fakeUserQuestRepo) SetProgress(_ context.Context, _ bun.IDB, userID, questID uuid.UUID, progress int) error {
	uq, ok := r.rows[uqKey{userID, questID}]
	if !ok {
		return sql.ErrNoRows
	}
	uq.Progress = progress
	return nil
}

func (r *fakeUserQuestRepo) Complete(_ context.Context, _ bun.IDB, userID, questID uuid.UUID, at time.Time) (bool, error) {
	uq, ok := r.rows[uqKey{userID, questID}]
	if !ok || uq.Status != models.UserQuestStatusInProgress {
		return false, nil
	}
	uq.Status = models.UserQuestStatusCompleted
	uq.Progress = 100
	uq.IsCurrent = false
	uq.CompletedAt = &at
	return true, nil
}

type fakeAchievementRepo struct {
	achievements map[uuid.UUID]*models.Achievement
	grants       map[uqKey]time.Time
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{
		achievements: make(map[uuid.UUID]*models.Achievement),
		grants:       make(map[uqKey]time.Time),
	}
}

func (r *fakeAchievementRepo) add(a *models.Achievement) *models.Achievement {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.achievements[a.ID] = a
	return a
}

func (r *fakeAchievementRepo) Create(_ context.Context, achievement *models.Achievement) error {
	r.add(achievement)
	return nil
}

func (r *fakeAchievementRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Achievement, error) {
	a, ok := r.achievements[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (r *fakeAchievementRepo) List(_ context.Context) ([]*models.Achievement, error) {
	out := make([]*models.Achievement, 0, len(r.achievements))
	for _, a := range r.achievements {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAchievementRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*models.UserAchievement, error) {
	out := make([]*models.UserAchievement, 0)
	for key, at := range r.grants {
		if key.userID == userID {
			out = append(out, &models.UserAchievement{
				UserID:        key.userID,
				AchievementID: key.questID,
				AchievedAt:    at,
			})
		}
	}
	return out, nil
}

func (r *fakeAchievementRepo) Grant(_ context.Context, _ bun.IDB, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	key := uqKey{userID, achievementID}
	if _, ok := r.grants[key]; ok {
		return false, nil
	}
	r.grants[key] = at
	return true, nil
}
