package application

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ahrav/evalbuddy/internal/domain"
	"github.com/ahrav/evalbuddy/internal/ports"
)

// Position is the two-level cursor over grouped session items: the index of
// the current group and the index of the current item within that group.
type Position struct {
	// Group indexes into the ordered group keys.
	Group int

	// Index indexes into the current group's item sequence.
	Index int
}

// Judgment is the in-memory record of an evaluated item: the committed
// value plus its comment.
type Judgment struct {
	Value   any
	Comment string
}

// Evaluator drives a session through its items. Items are grouped by their
// question, groups are ordered by ascending question id, and within a group
// items keep dataset order. The cursor is the explicit Position; every
// derived view (current item, progress, absolute index) is recomputed from
// it on demand.
//
// Evaluator is not safe for concurrent use. Persistence calls must be
// awaited before issuing the next commit on the same session; see the
// failure semantics on RecordResult.
type Evaluator struct {
	session *domain.EvaluationSession
	store   ports.SessionStore

	// groupKeys holds the distinct question ids in ascending numeric order.
	groupKeys []int

	// groups maps a question id to its items in dataset order.
	groups map[int][]domain.EvaluationItem

	pos Position

	// evaluated mirrors the session's committed results by item id.
	evaluated map[int]Judgment

	// draftComment is the in-progress comment for the displayed item.
	// It is committed only via RecordResult or SaveCommentOnly, never by
	// bare navigation.
	draftComment string
}

// NewEvaluator projects the session's dataset into grouped item sequences
// and positions the cursor on the first item. Items whose question id does
// not resolve are skipped; validated datasets never contain any.
func NewEvaluator(session *domain.EvaluationSession, store ports.SessionStore) *Evaluator {
	e := &Evaluator{
		session:   session,
		store:     store,
		groups:    make(map[int][]domain.EvaluationItem),
		evaluated: make(map[int]Judgment),
	}

	for _, item := range session.Dataset.Items {
		if _, ok := session.Dataset.QuestionByID(item.QuestionID); !ok {
			continue
		}
		if _, seen := e.groups[item.QuestionID]; !seen {
			e.groupKeys = append(e.groupKeys, item.QuestionID)
		}
		e.groups[item.QuestionID] = append(e.groups[item.QuestionID], item)
	}
	sort.Ints(e.groupKeys)

	for _, result := range session.Results {
		e.evaluated[result.ItemID] = Judgment{Value: result.Value, Comment: result.Comment}
	}
	e.loadDraftComment()

	return e
}

// Session returns the session the evaluator operates on.
func (e *Evaluator) Session() *domain.EvaluationSession { return e.session }

// GroupKeys returns the ordered group keys rendered as strings.
func (e *Evaluator) GroupKeys() []string {
	keys := make([]string, len(e.groupKeys))
	for i, id := range e.groupKeys {
		keys[i] = strconv.Itoa(id)
	}
	return keys
}

// GroupCount returns the number of groups.
func (e *Evaluator) GroupCount() int { return len(e.groupKeys) }

// Group returns the ordered items of the group at the given index.
func (e *Evaluator) Group(index int) []domain.EvaluationItem {
	if index < 0 || index >= len(e.groupKeys) {
		return nil
	}
	return e.groups[e.groupKeys[index]]
}

// CurrentGroup returns the items of the group under the cursor.
func (e *Evaluator) CurrentGroup() []domain.EvaluationItem { return e.Group(e.pos.Group) }

// CurrentItem returns the item under the cursor. The second return value is
// false when the session has no navigable items.
func (e *Evaluator) CurrentItem() (domain.EvaluationItem, bool) {
	group := e.CurrentGroup()
	if e.pos.Index < 0 || e.pos.Index >= len(group) {
		return domain.EvaluationItem{}, false
	}
	return group[e.pos.Index], true
}

// CurrentQuestion returns the question owning the item under the cursor.
func (e *Evaluator) CurrentQuestion() (domain.Question, bool) {
	item, ok := e.CurrentItem()
	if !ok {
		return domain.Question{}, false
	}
	return e.session.Dataset.QuestionByID(item.QuestionID)
}

// Position returns the current two-level cursor.
func (e *Evaluator) Position() Position { return e.pos }

// SingleEvaluationMode reports whether grouping is trivial: exactly one
// question, however many submitted items. Callers collapse the two-level
// cursor to a flat list when true.
func (e *Evaluator) SingleEvaluationMode() bool { return len(e.groupKeys) == 1 }

// TotalItems returns the number of navigable items across all groups.
func (e *Evaluator) TotalItems() int {
	total := 0
	for _, id := range e.groupKeys {
		total += len(e.groups[id])
	}
	return total
}

// ToAbsolute converts a two-level position to the flattened 0-based index:
// the lengths of all groups before it, plus the in-group index.
func (e *Evaluator) ToAbsolute(pos Position) (int, error) {
	if !e.inRange(pos) {
		return 0, fmt.Errorf("%w: group=%d index=%d", domain.ErrInvalidPosition, pos.Group, pos.Index)
	}
	absolute := pos.Index
	for g := 0; g < pos.Group; g++ {
		absolute += len(e.groups[e.groupKeys[g]])
	}
	return absolute, nil
}

// FromAbsolute converts a flattened index back to its two-level position by
// scanning groups and accumulating lengths. It is the exact inverse of
// ToAbsolute for every valid index in [0, TotalItems()).
func (e *Evaluator) FromAbsolute(n int) (Position, error) {
	if n < 0 {
		return Position{}, fmt.Errorf("%w: absolute=%d", domain.ErrInvalidPosition, n)
	}
	remaining := n
	for g, id := range e.groupKeys {
		size := len(e.groups[id])
		if remaining < size {
			return Position{Group: g, Index: remaining}, nil
		}
		remaining -= size
	}
	return Position{}, fmt.Errorf("%w: absolute=%d", domain.ErrInvalidPosition, n)
}

// AbsoluteIndex returns the flattened position of the cursor.
func (e *Evaluator) AbsoluteIndex() int {
	absolute, err := e.ToAbsolute(e.pos)
	if err != nil {
		return 0
	}
	return absolute
}

// Progress returns committed results over total items, in [0, 1].
// Visiting an item does not advance progress; only committed results count.
func (e *Evaluator) Progress() float64 {
	total := e.TotalItems()
	if total == 0 {
		return 0
	}
	return float64(len(e.evaluated)) / float64(total)
}

// IsCurrentItemEvaluated reports whether the item under the cursor has a
// committed result.
func (e *Evaluator) IsCurrentItemEvaluated() bool {
	item, ok := e.CurrentItem()
	if !ok {
		return false
	}
	_, evaluated := e.evaluated[item.ID]
	return evaluated
}

// JudgmentFor returns the committed judgment for an item id, if any.
func (e *Evaluator) JudgmentFor(itemID int) (Judgment, bool) {
	judgment, ok := e.evaluated[itemID]
	return judgment, ok
}

// HasNext reports whether any item follows the cursor, in this group or a
// later one.
func (e *Evaluator) HasNext() bool { return e.AbsoluteIndex() < e.TotalItems()-1 }

// HasPrevious reports whether any item precedes the cursor.
func (e *Evaluator) HasPrevious() bool { return e.AbsoluteIndex() > 0 }

// DraftComment returns the in-progress comment for the displayed item.
func (e *Evaluator) DraftComment() string { return e.draftComment }

// SetDraftComment replaces the in-progress comment without persisting it.
func (e *Evaluator) SetDraftComment(comment string) { e.draftComment = comment }

// GoTo moves the cursor to the given coordinates. Out-of-range coordinates
// leave the cursor where it is and return ErrInvalidPosition. Moving loads
// the new item's committed comment into the draft (or clears it) and never
// commits a result merely from visiting.
func (e *Evaluator) GoTo(pos Position) error {
	if !e.inRange(pos) {
		return fmt.Errorf("%w: group=%d index=%d", domain.ErrInvalidPosition, pos.Group, pos.Index)
	}
	e.pos = pos
	e.loadDraftComment()
	return nil
}

// Next advances to the next item, crossing into the first item of the next
// group when the current one is exhausted. At the last item of the last
// group it is a no-op and returns false.
func (e *Evaluator) Next() bool {
	if e.pos.Index+1 < len(e.CurrentGroup()) {
		return e.GoTo(Position{Group: e.pos.Group, Index: e.pos.Index + 1}) == nil
	}
	if e.pos.Group+1 < len(e.groupKeys) {
		return e.GoTo(Position{Group: e.pos.Group + 1, Index: 0}) == nil
	}
	return false
}

// Previous steps back to the previous item, crossing into the last item of
// the previous group at a group boundary. At the very first item it is a
// no-op and returns false.
func (e *Evaluator) Previous() bool {
	if e.pos.Index > 0 {
		return e.GoTo(Position{Group: e.pos.Group, Index: e.pos.Index - 1}) == nil
	}
	if e.pos.Group > 0 {
		prev := e.groups[e.groupKeys[e.pos.Group-1]]
		return e.GoTo(Position{Group: e.pos.Group - 1, Index: len(prev) - 1}) == nil
	}
	return false
}

// NavigateToAbsolute moves the cursor to a flattened index. If the current
// item already has a committed result and the draft comment was edited, the
// draft is committed first via SaveCommentOnly; uncommitted items carry
// their comment forward only at commit time.
func (e *Evaluator) NavigateToAbsolute(ctx context.Context, n int) error {
	if item, ok := e.CurrentItem(); ok {
		if judgment, evaluated := e.evaluated[item.ID]; evaluated && judgment.Comment != e.draftComment {
			if err := e.SaveCommentOnly(ctx, e.draftComment); err != nil {
				return err
			}
		}
	}
	pos, err := e.FromAbsolute(n)
	if err != nil {
		return err
	}
	return e.GoTo(pos)
}

// RecordResult commits a judgment for the item under the cursor: it updates
// the in-memory state, replaces any prior result for the item in the
// session, and writes the session through the store.
//
// The in-memory update is applied optimistically before the write settles;
// a returned storage error means the caller must reconcile or retry, the
// engine does not roll back.
func (e *Evaluator) RecordResult(ctx context.Context, value any, comment string) error {
	item, ok := e.CurrentItem()
	if !ok {
		return domain.ErrItemNotFound
	}
	if e.session.Config.Settings.RequireComments && comment == "" {
		return domain.ErrCommentRequired
	}

	e.evaluated[item.ID] = Judgment{Value: value, Comment: comment}
	e.draftComment = comment

	e.session.ApplyResult(domain.EvaluationResult{
		ItemID:      item.ID,
		QuestionID:  item.QuestionID,
		Value:       value,
		Comment:     comment,
		EvaluatedAt: time.Now().UTC(),
	})

	return e.store.PutSession(ctx, *e.session)
}

// EvaluateAndNext commits a judgment and advances the cursor, the usual
// "evaluate and move on" action. The two steps stay separately invokable so
// a previous comment can be fixed without advancing.
func (e *Evaluator) EvaluateAndNext(ctx context.Context, value any, comment string) error {
	if err := e.RecordResult(ctx, value, comment); err != nil {
		return err
	}
	e.Next()
	return nil
}

// SaveCommentOnly updates the comment of the current item's committed
// result without touching its value, and persists the session. It fails
// with ErrNotEvaluated when the item has no committed result yet.
func (e *Evaluator) SaveCommentOnly(ctx context.Context, comment string) error {
	item, ok := e.CurrentItem()
	if !ok {
		return domain.ErrItemNotFound
	}
	judgment, evaluated := e.evaluated[item.ID]
	if !evaluated {
		return domain.ErrNotEvaluated
	}

	judgment.Comment = comment
	e.evaluated[item.ID] = judgment
	e.draftComment = comment

	result, _ := e.session.ResultFor(item.ID)
	result.Comment = comment
	e.session.ApplyResult(result)

	return e.store.PutSession(ctx, *e.session)
}

func (e *Evaluator) inRange(pos Position) bool {
	if pos.Group < 0 || pos.Group >= len(e.groupKeys) {
		return false
	}
	return pos.Index >= 0 && pos.Index < len(e.groups[e.groupKeys[pos.Group]])
}

func (e *Evaluator) loadDraftComment() {
	if item, ok := e.CurrentItem(); ok {
		if judgment, evaluated := e.evaluated[item.ID]; evaluated {
			e.draftComment = judgment.Comment
			return
		}
	}
	e.draftComment = ""
}
