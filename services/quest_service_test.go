package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finquest/finquest/database/models"
)

type questFixture struct {
	svc        *QuestService
	users      *fakeUserRepo
	quests     *fakeQuestRepo
	userQuests *fakeUserQuestRepo
	tx         *fakeTxRunner
	user       *models.User
}

func newQuestFixture(t *testing.T) *questFixture {
	t.Helper()
	users := newFakeUserRepo()
	quests := newFakeQuestRepo()
	userQuests := newFakeUserQuestRepo()
	tx := &fakeTxRunner{}
	rewards := NewRewardService(users, newFakeAchievementRepo())

	return &questFixture{
		svc:        NewQuestService(tx, quests, userQuests, rewards),
		users:      users,
		quests:     quests,
		userQuests: userQuests,
		tx:         tx,
		user:       users.add(&models.User{Username: "alice", Email: "alice@example.com"}),
	}
}

func TestQuestService_Start(t *testing.T) {
	f := newQuestFixture(t)
	quest := f.quests.add(&models.Quest{Title: "Budgeting Basics", Category: "budgeting"})

	uq, err := f.svc.Start(context.Background(), f.user.ID, quest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserQuestStatusInProgress, uq.Status)
	assert.True(t, uq.IsCurrent)
	assert.NotNil(t, uq.StartedAt)
	assert.Equal(t, 0, uq.Progress)
}

func TestQuestService_Start_UnknownQuest(t *testing.T) {
	f := newQuestFixture(t)

	_, err := f.svc.Start(context.Background(), f.user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestService_Start_InactiveQuest(t *testing.T) {
	f := newQuestFixture(t)
	quest := f.quests.add(&models.Quest{Title: "Retired", Category: "misc", Status: models.QuestStatusInactive})

	_, err := f.svc.Start(context.Background(), f.user.ID, quest.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestService_Start_PrerequisiteGating(t *testing.T) {
	f := newQuestFixture(t)
	first := f.quests.add(&models.Quest{Title: "Budgeting Basics", Category: "budgeting"})
	second := f.quests.add(&models.Quest{Title: "Advanced Budgeting", Category: "budgeting", PrerequisiteQuestID: &first.ID})

	// No progress on the prerequisite at all.
	_, err := f.svc.Start(context.Background(), f.user.ID, second.ID)
	assert.ErrorIs(t, err, ErrPrerequisiteNotMet)

	// Prerequisite started but not completed.
	_, err = f.svc.Start(context.Background(), f.user.ID, first.ID)
	require.NoError(t, err)
	_, err = f.svc.Start(context.Background(), f.user.ID, second.ID)
	assert.ErrorIs(t, err, ErrPrerequisiteNotMet)

	// Completing the prerequisite unlocks it.
	_, err = f.svc.UpdateProgress(context.Background(), f.user.ID, first.ID, 100)
	require.NoError(t, err)
	uq, err := f.svc.Start(context.Background(), f.user.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserQuestStatusInProgress, uq.Status)
}

func TestQuestService_Start_SingleCurrentQuest(t *testing.T) {
	f := newQuestFixture(t)
	first := f.quests.add(&models.Quest{Title: "Quest A", Category: "budgeting"})
	second := f.quests.add(&models.Quest{Title: "Quest B", Category: "saving"})

	_, err := f.svc.Start(context.Background(), f.user.ID, first.ID)
	require.NoError(t, err)
	_, err = f.svc.Start(context.Background(), f.user.ID, second.ID)
	require.NoError(t, err)

	current := 0
	for _, uq := range f.userQuests.rows {
		if uq.IsCurrent {
			current++
			assert.Equal(t, second.ID, uq.QuestID)
		}
	}
	assert.Equal(t, 1, current)
}

func TestQuestService_Start_CompletedRejected(t *testing.T) {
	f := newQuestFixture(t)
	quest := f.quests.add(&models.Quest{Title: "Quest A", Category: "budgeting"})

	_, err := f.svc.Start(context.Background(), f.user.ID, quest.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateProgress(context.Background(), f.user.ID, quest.ID, 100)
	require.NoError(t, err)

	_, err = f.svc.Start(context.Background(), f.user.ID, quest.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestQuestService_Start_RestartKeepsProgress(t *testing.T) {
	f := newQuestFixture(t)
	quest := f.quests.add(&models.Quest{Title: "Quest A", Category: "budgeting"})

	_, err := f.svc.Start(context.Background(), f.user.ID, quest.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateProgress(context.Background(), f.user.ID, quest.ID, 40)
	require.NoError(t, err)

	uq, err := f.svc.Start(context.Background(), f.user.ID, quest.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, uq.Progress)
	assert.Equal(t, models.UserQuestStatusInProgress, uq.Status)
}

func TestQuestService_UpdateProgress(t *testing.T) {
	tests := []struct {
		name         string
		value        int
		wantProgress int
		wantStatus   string
	}{
		{name: "normal value", value: 40, wantProgress: 40, wantStatus: models.UserQuestStatusInProgress},
		{name: "clamps below zero", value: -10, wantProgress: 0, wantStatus: models.UserQuestStatusInProgress},
		{name: "clamps above hundred", value: 250, wantProgress: 100, wantStatus: models.UserQuestStatusCompleted},
		{name: "exactly hundred completes", value: 100, wantProgress: 100, wantStatus: models.UserQuestStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuestFixture(t)
			quest := f.quests.add(&models.Quest{Title: "Quest", Category: "saving"})

			_, err := f.svc.Start(context.Background(), f.user.ID, quest.ID)
			require.NoError(t, err)

			uq, err := f.svc.UpdateProgress(context.Background(), f.user.ID, quest.ID, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantProgress, uq.Progress)
			assert.Equal(t, tt.wantStatus, uq.Status)
		})
	}
}

func TestQuestService_UpdateProgress_NotStarted(t *testing.T) {
	f := newQuestFixture(t)
	quest := f.quests.add(&models.Quest{Title: "Quest", Category: "saving"})

	_, err := f.svc.UpdateProgress(context.Background(), f.user.ID, quest.ID, 50)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestQuestService_UpdateProgress_RewardsGrantedExactlyOnce(t *testing.T) {
	f := newQuestFixture(t)
	quest := f.quests.add(&models.Quest{Title: "Quest", Category: "saving", XPReward: 20, CoinReward: 15})

	_, err := f.svc.Start(context.Background(), f.user.ID, quest.ID)
	require.NoError(t, err)

	uq, err := f.svc.UpdateProgress(context.Background(), f.user.ID, quest.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, models.UserQuestStatusCompleted, uq.Status)
	assert.NotNil(t, uq.CompletedAt)
	assert.Equal(t, int64(20), f.user.XP)
	assert.Equal(t, int64(15), f.user.Coins)
	assert.Equal(t, 1, f.users.streakCalls)

	// Completion is terminal; a repeat cannot re-grant.
	_, err = f.svc.UpdateProgress(context.Background(), f.user.ID, quest.ID, 100)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, int64(20), f.user.XP)
	assert.Equal(t, int64(15), f.user.Coins)
}

func TestQuestService_ListUserQuests(t *testing.T) {
	f := newQuestFixture(t)
	first := f.quests.add(&models.Quest{Title: "Quest A", Category: "budgeting"})
	second := f.quests.add(&models.Quest{Title: "Quest B", Category: "saving"})

	_, err := f.svc.Start(context.Background(), f.user.ID, first.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateProgress(context.Background(), f.user.ID, first.ID, 100)
	require.NoError(t, err)
	_, err = f.svc.Start(context.Background(), f.user.ID, second.ID)
	require.NoError(t, err)

	all, err := f.svc.ListUserQuests(context.Background(), f.user.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := f.svc.ListCompleted(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, first.ID, completed[0].QuestID)

	_, err = f.svc.ListUserQuests(context.Background(), f.user.ID, "bogus")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestQuestService_CreateQuest_CycleRejected(t *testing.T) {
	f := newQuestFixture(t)
	first := f.quests.add(&models.Quest{Title: "Quest A", Category: "budgeting"})
	second := f.quests.add(&models.Quest{Title: "Quest B", Category: "budgeting", PrerequisiteQuestID: &first.ID})

	// Closing the loop A -> B -> A must be rejected.
	first.PrerequisiteQuestID = &second.ID
	err := f.svc.UpdateQuest(context.Background(), first)
	assert.ErrorIs(t, err, ErrConflict)

	// Self reference is also a cycle.
	self := &models.Quest{ID: uuid.New(), Title: "Quest C", Category: "misc"}
	self.PrerequisiteQuestID = &self.ID
	err = f.svc.CreateQuest(context.Background(), self)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestQuestService_GetQuest_Caches(t *testing.T) {
	f := newQuestFixture(t)
	quest := f.quests.add(&models.Quest{Title: "Quest", Category: "saving"})

	got, err := f.svc.GetQuest(context.Background(), quest.ID)
	require.NoError(t, err)

	// Removing the backing row does not evict the cached definition.
	delete(f.quests.quests, quest.ID)
	cached, err := f.svc.GetQuest(context.Background(), quest.ID)
	require.NoError(t, err)
	assert.Equal(t, got, cached)
}

func TestQuestService_DeleteQuest_InvalidatesCache(t *testing.T) {
	f := newQuestFixture(t)
	quest := f.quests.add(&models.Quest{Title: "Quest", Category: "saving"})

	_, err := f.svc.GetQuest(context.Background(), quest.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteQuest(context.Background(), quest.ID))
	_, err = f.svc.GetQuest(context.Background(), quest.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestService_TransitionsRunInTransaction(t *testing.T) {
	f := newQuestFixture(t)
	quest := f.quests.add(&models.Quest{Title: "Quest", Category: "saving"})

	_, err := f.svc.Start(context.Background(), f.user.ID, quest.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.calls)

	_, err = f.svc.UpdateProgress(context.Background(), f.user.ID, quest.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, f.tx.calls)
}
