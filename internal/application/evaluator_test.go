package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/evalbuddy/internal/domain"
	"github.com/ahrav/evalbuddy/internal/testutils"
)

func newTestSession(t *testing.T, dataset domain.Dataset) *domain.EvaluationSession {
	t.Helper()
	cfg, err := domain.NewDefaultConfig(domain.TypeMastery, "Test Config")
	require.NoError(t, err)
	session := domain.NewSession("Test Session", "", dataset, cfg)
	return &session
}

func TestNewEvaluator_GroupsByQuestionInNumericOrder(t *testing.T) {
	// Items reference questions 10 and 2; the numeric order puts 2 first
	// even though "10" sorts before "2" as text.
	dataset := domain.Dataset{
		QuestionList: []domain.Question{
			{ID: 10, Question: "ten", ReferenceAnswer: "a"},
			{ID: 2, Question: "two", ReferenceAnswer: "b"},
		},
		Items: []domain.EvaluationItem{
			{ID: 1, QuestionID: 10, SubmittedAnswer: "x"},
			{ID: 2, QuestionID: 2, SubmittedAnswer: "y"},
			{ID: 3, QuestionID: 10, SubmittedAnswer: "z"},
		},
	}
	evaluator := NewEvaluator(newTestSession(t, dataset), testutils.NewMockStore())

	assert.Equal(t, []string{"2", "10"}, evaluator.GroupKeys())
	assert.Len(t, evaluator.Group(0), 1)
	assert.Len(t, evaluator.Group(1), 2)

	// Within a group, dataset order is preserved.
	group := evaluator.Group(1)
	assert.Equal(t, 1, group[0].ID)
	assert.Equal(t, 3, group[1].ID)
}

func TestEvaluator_SingleEvaluationMode(t *testing.T) {
	single := NewEvaluator(newTestSession(t, testutils.SingleQuestionDataset(2)), testutils.NewMockStore())
	assert.True(t, single.SingleEvaluationMode(), "one question with two items should collapse to a flat list")

	twoGroups := domain.Dataset{
		QuestionList: []domain.Question{
			{ID: 1, Question: "a", ReferenceAnswer: "a"},
			{ID: 2, Question: "b", ReferenceAnswer: "b"},
		},
		Items: []domain.EvaluationItem{
			{ID: 1, QuestionID: 1, SubmittedAnswer: "x"},
			{ID: 2, QuestionID: 2, SubmittedAnswer: "y"},
		},
	}
	grouped := NewEvaluator(newTestSession(t, twoGroups), testutils.NewMockStore())
	assert.False(t, grouped.SingleEvaluationMode())
	assert.Len(t, grouped.GroupKeys(), 2)
	assert.Len(t, grouped.Group(0), 1)
	assert.Len(t, grouped.Group(1), 1)
}

func TestEvaluator_AbsoluteIndexRoundTrip(t *testing.T) {
	evaluator := NewEvaluator(newTestSession(t, testutils.SampleDataset()), testutils.NewMockStore())

	for g := 0; g < evaluator.GroupCount(); g++ {
		for i := 0; i < len(evaluator.Group(g)); i++ {
			pos := Position{Group: g, Index: i}
			absolute, err := evaluator.ToAbsolute(pos)
			require.NoError(t, err)

			back, err := evaluator.FromAbsolute(absolute)
			require.NoError(t, err)
			assert.Equal(t, pos, back, "FromAbsolute(ToAbsolute(%v)) must be the identity", pos)
		}
	}

	_, err := evaluator.FromAbsolute(evaluator.TotalItems())
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)
	_, err = evaluator.FromAbsolute(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)
	_, err = evaluator.ToAbsolute(Position{Group: 99, Index: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)
}

func TestEvaluator_NextCoversEveryIndexExactlyOnce(t *testing.T) {
	evaluator := NewEvaluator(newTestSession(t, testutils.SampleDataset()), testutils.NewMockStore())

	seen := []int{evaluator.AbsoluteIndex()}
	for evaluator.Next() {
		seen = append(seen, evaluator.AbsoluteIndex())
	}

	require.Len(t, seen, evaluator.TotalItems())
	for want, got := range seen {
		assert.Equal(t, want, got, "absolute index must advance without gaps or repeats")
	}

	// No wraparound at the end.
	last := evaluator.AbsoluteIndex()
	assert.False(t, evaluator.Next())
	assert.Equal(t, last, evaluator.AbsoluteIndex())
	assert.False(t, evaluator.HasNext())
}

func TestEvaluator_PreviousStopsAtFirstItem(t *testing.T) {
	evaluator := NewEvaluator(newTestSession(t, testutils.SampleDataset()), testutils.NewMockStore())

	assert.False(t, evaluator.Previous(), "previous at the first item must be a no-op")
	assert.Equal(t, 0, evaluator.AbsoluteIndex())
	assert.False(t, evaluator.HasPrevious())

	// Walk to the end and back; every index must be visited in reverse.
	for evaluator.Next() {
	}
	for n := evaluator.TotalItems() - 1; n > 0; n-- {
		assert.Equal(t, n, evaluator.AbsoluteIndex())
		require.True(t, evaluator.Previous())
	}
	assert.Equal(t, 0, evaluator.AbsoluteIndex())
}

func TestEvaluator_NextCrossesGroupBoundaries(t *testing.T) {
	evaluator := NewEvaluator(newTestSession(t, testutils.SampleDataset()), testutils.NewMockStore())

	// Sample dataset: 3 groups of 2 items each.
	require.Equal(t, 3, evaluator.GroupCount())
	require.True(t, evaluator.Next())
	assert.Equal(t, Position{Group: 0, Index: 1}, evaluator.Position())
	require.True(t, evaluator.Next())
	assert.Equal(t, Position{Group: 1, Index: 0}, evaluator.Position(), "next at end of group must cross into the next group")

	require.True(t, evaluator.Previous())
	assert.Equal(t, Position{Group: 0, Index: 1}, evaluator.Position(), "previous at start of group must cross into the previous group")
}

func TestEvaluator_GoToRejectsOutOfRange(t *testing.T) {
	evaluator := NewEvaluator(newTestSession(t, testutils.SampleDataset()), testutils.NewMockStore())

	before := evaluator.Position()
	assert.ErrorIs(t, evaluator.GoTo(Position{Group: -1, Index: 0}), domain.ErrInvalidPosition)
	assert.ErrorIs(t, evaluator.GoTo(Position{Group: 0, Index: 5}), domain.ErrInvalidPosition)
	assert.ErrorIs(t, evaluator.GoTo(Position{Group: 3, Index: 0}), domain.ErrInvalidPosition)
	assert.Equal(t, before, evaluator.Position(), "failed GoTo must not move the cursor")
}

func TestEvaluator_RecordResultPersistsAndSurvivesNavigation(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMockStore()
	session := newTestSession(t, testutils.SampleDataset())
	evaluator := NewEvaluator(session, store)

	require.NoError(t, evaluator.RecordResult(ctx, "TOTAL", "flawless"))
	assert.True(t, evaluator.IsCurrentItemEvaluated())

	item, ok := evaluator.CurrentItem()
	require.True(t, ok)

	require.True(t, evaluator.Next())
	require.True(t, evaluator.Previous())

	back, ok := evaluator.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, item.ID, back.ID, "next then previous must return to the same item")

	judgment, evaluated := evaluator.JudgmentFor(item.ID)
	require.True(t, evaluated)
	assert.Equal(t, "TOTAL", judgment.Value)
	assert.Equal(t, "flawless", judgment.Comment)
	assert.Equal(t, "flawless", evaluator.DraftComment(), "committed comment must reload into the draft")

	// The write went through to the store with the denormalized question id.
	stored, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, stored.Results, 1)
	assert.Equal(t, item.ID, stored.Results[0].ItemID)
	assert.Equal(t, item.QuestionID, stored.Results[0].QuestionID)
}

func TestEvaluator_RecordResultReplacesPriorResult(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, testutils.SampleDataset())
	evaluator := NewEvaluator(session, testutils.NewMockStore())

	// Move to item id 7's analogue: use whatever is current, record twice.
	require.NoError(t, evaluator.RecordResult(ctx, "INSUFFICIENT", "first pass"))
	require.NoError(t, evaluator.RecordResult(ctx, "SUFFICIENT", "second pass"))

	item, _ := evaluator.CurrentItem()
	count := 0
	for _, r := range session.Results {
		if r.ItemID == item.ID {
			count++
			assert.Equal(t, "SUFFICIENT", r.Value)
			assert.Equal(t, "second pass", r.Comment)
		}
	}
	assert.Equal(t, 1, count, "exactly one result per item id")
}

func TestEvaluator_ProgressMonotonicAndComplete(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, testutils.SampleDataset())
	evaluator := NewEvaluator(session, testutils.NewMockStore())

	assert.Equal(t, 0.0, evaluator.Progress())

	previous := 0.0
	for {
		require.NoError(t, evaluator.RecordResult(ctx, "TOTAL", ""))
		assert.GreaterOrEqual(t, evaluator.Progress(), previous, "progress must be monotonically non-decreasing")
		previous = evaluator.Progress()
		if !evaluator.Next() {
			break
		}
	}

	assert.Equal(t, 1.0, evaluator.Progress())
	assert.True(t, session.IsCompleted, "session completion must match full progress exactly")
}

func TestEvaluator_VisitingDoesNotAdvanceProgress(t *testing.T) {
	evaluator := NewEvaluator(newTestSession(t, testutils.SampleDataset()), testutils.NewMockStore())

	for evaluator.Next() {
	}
	assert.Equal(t, 0.0, evaluator.Progress(), "visiting items must not count as evaluation")
	assert.False(t, evaluator.Session().IsCompleted)
}

func TestEvaluator_SaveCommentOnly(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMockStore()
	session := newTestSession(t, testutils.SampleDataset())
	evaluator := NewEvaluator(session, store)

	// Not allowed before a committed result.
	assert.ErrorIs(t, evaluator.SaveCommentOnly(ctx, "too early"), domain.ErrNotEvaluated)

	require.NoError(t, evaluator.RecordResult(ctx, "SUFFICIENT", "original"))
	require.NoError(t, evaluator.SaveCommentOnly(ctx, "amended"))

	item, _ := evaluator.CurrentItem()
	result, ok := session.ResultFor(item.ID)
	require.True(t, ok)
	assert.Equal(t, "SUFFICIENT", result.Value, "value must be untouched")
	assert.Equal(t, "amended", result.Comment)
}

func TestEvaluator_NavigateToAbsoluteCommitsEditedDraft(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMockStore()
	session := newTestSession(t, testutils.SampleDataset())
	evaluator := NewEvaluator(session, store)

	require.NoError(t, evaluator.RecordResult(ctx, "TOTAL", "original"))
	evaluator.SetDraftComment("edited in place")

	require.NoError(t, evaluator.NavigateToAbsolute(ctx, 3))
	assert.Equal(t, 3, evaluator.AbsoluteIndex())

	result, ok := session.ResultFor(1)
	require.True(t, ok)
	assert.Equal(t, "edited in place", result.Comment, "edited draft must be committed before leaving an evaluated item")
}

func TestEvaluator_NavigateToAbsoluteSkipsUncommittedDraft(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMockStore()
	session := newTestSession(t, testutils.SampleDataset())
	evaluator := NewEvaluator(session, store)

	// No committed result: the draft comment stays local.
	evaluator.SetDraftComment("not yet committed")
	require.NoError(t, evaluator.NavigateToAbsolute(ctx, 2))

	assert.Empty(t, session.Results, "bare navigation must never persist a comment")
	assert.Equal(t, 0, store.SessionPuts)
	assert.Empty(t, evaluator.DraftComment(), "draft must reset for an unevaluated item")
}

func TestEvaluator_RecordResultPropagatesStorageFailure(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMockStore()
	store.PutSessionErr = errors.New("disk full")
	session := newTestSession(t, testutils.SampleDataset())
	evaluator := NewEvaluator(session, store)

	err := evaluator.RecordResult(ctx, "TOTAL", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	// The optimistic update stays applied; reconciliation is the caller's.
	assert.True(t, evaluator.IsCurrentItemEvaluated())
}

func TestEvaluator_RequireCommentsEnforced(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, testutils.SampleDataset())
	session.Config.Settings.RequireComments = true
	evaluator := NewEvaluator(session, testutils.NewMockStore())

	assert.ErrorIs(t, evaluator.RecordResult(ctx, "TOTAL", ""), domain.ErrCommentRequired)
	assert.NoError(t, evaluator.RecordResult(ctx, "TOTAL", "present"))
}

func TestEvaluator_ResumesFromExistingResults(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMockStore()
	session := newTestSession(t, testutils.SampleDataset())

	first := NewEvaluator(session, store)
	require.NoError(t, first.EvaluateAndNext(ctx, "TOTAL", "good"))
	require.NoError(t, first.EvaluateAndNext(ctx, "NOT_ATTAINED", "bad"))

	reloaded, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	resumed := NewEvaluator(&reloaded, store)

	assert.InDelta(t, 2.0/6.0, resumed.Progress(), 1e-9)
	judgment, ok := resumed.JudgmentFor(1)
	require.True(t, ok)
	assert.Equal(t, "TOTAL", judgment.Value)
	assert.Equal(t, "good", judgment.Comment)
}
