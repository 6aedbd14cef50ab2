// Package storetest holds behavioral tests shared by every implementation of
// the store interfaces. Implementations call Run from their own tests.
package storetest

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/phrazzld/lingua-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Harness gives the suite a fresh, empty, migrated database per subtest.
type Harness struct {
	// Open returns an empty database and the stores bound to it.
	Open func(t *testing.T) (*sql.DB, store.VocabularyStore, store.ProgressStore)
	// Dialect selects the fixture statements.
	Dialect testdb.Dialect
}

// Run executes the shared store tests.
func Run(t *testing.T, h Harness) {
	t.Run("VocabularyGetByID", func(t *testing.T) { testVocabularyGetByID(t, h) })
	t.Run("VocabularyCreateOrGet", func(t *testing.T) { testVocabularyCreateOrGet(t, h) })
	t.Run("VocabularyListWithoutProgress", func(t *testing.T) { testListWithoutProgress(t, h) })
	t.Run("VocabularyUpdateTranslation", func(t *testing.T) { testUpdateTranslation(t, h) })
	t.Run("ProgressCreateIfAbsent", func(t *testing.T) { testCreateIfAbsent(t, h) })
	t.Run("ProgressUpsert", func(t *testing.T) { testUpsert(t, h) })
	t.Run("ProgressQueries", func(t *testing.T) { testProgressQueries(t, h) })
	t.Run("ProgressCascadeDelete", func(t *testing.T) { testCascadeDelete(t, h) })
	t.Run("ProgressInTransaction", func(t *testing.T) { testProgressInTransaction(t, h) })
	t.Run("ConcurrentCreateIfAbsent", func(t *testing.T) { testConcurrentCreateIfAbsent(t, h) })
}

func testVocabularyGetByID(t *testing.T, h Harness) {
	db, vocab, _ := h.Open(t)
	ctx := context.Background()

	id := testdb.InsertItem(t, db, h.Dialect, "apple", "яблоко")

	item, err := vocab.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, item.ID)
	assert.Equal(t, "apple", item.Text)
	assert.Equal(t, "яблоко", item.Translation)
	assert.False(t, item.CreatedAt.IsZero())

	_, err = vocab.GetByID(ctx, id+1000)
	assert.ErrorIs(t, err, store.ErrVocabularyItemNotFound)
	assert.True(t, store.IsNotFoundError(err))

	byText, err := vocab.GetByText(ctx, "  APPLE ")
	require.NoError(t, err)
	assert.Equal(t, id, byText.ID)

	count, err := vocab.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testVocabularyCreateOrGet(t *testing.T, h Harness) {
	_, vocab, _ := h.Open(t)
	ctx := context.Background()

	item, err := domain.NewVocabularyItem("House", "дом")
	require.NoError(t, err)

	stored, created, err := vocab.CreateOrGet(ctx, item)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Positive(t, stored.ID)
	assert.Equal(t, stored.ID, item.ID)
	assert.Equal(t, "house", stored.Text)

	again, err := domain.NewVocabularyItem("house", "здание")
	require.NoError(t, err)
	existing, created, err := vocab.CreateOrGet(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored.ID, existing.ID)
	assert.Equal(t, "дом", existing.Translation, "existing translation must be kept")

	_, _, err = vocab.CreateOrGet(ctx, &domain.VocabularyItem{Text: "", Translation: "x"})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	list, err := vocab.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func testListWithoutProgress(t *testing.T, h Harness) {
	db, vocab, _ := h.Open(t)
	ctx := context.Background()

	a := testdb.InsertItem(t, db, h.Dialect, "a1", "x")
	b := testdb.InsertItem(t, db, h.Dialect, "b1", "x")
	c := testdb.InsertItem(t, db, h.Dialect, "c1", "x")
	d := testdb.InsertItem(t, db, h.Dialect, "d1", "x")
	testdb.InsertProgress(t, db, h.Dialect, b, 3)

	items, err := vocab.ListWithoutProgress(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{a, c, d}, itemIDs(items))

	items, err = vocab.ListWithoutProgress(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{a, c}, itemIDs(items))

	items, err = vocab.ListWithoutProgress(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func testUpdateTranslation(t *testing.T, h Harness) {
	db, vocab, _ := h.Open(t)
	ctx := context.Background()

	id := testdb.InsertItem(t, db, h.Dialect, "tree", "дерево?")

	require.NoError(t, vocab.UpdateTranslation(ctx, id, "дерево"))
	item, err := vocab.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "дерево", item.Translation)

	assert.ErrorIs(t, vocab.UpdateTranslation(ctx, id+99, "x"), store.ErrVocabularyItemNotFound)
	assert.ErrorIs(t, vocab.UpdateTranslation(ctx, id, ""), store.ErrInvalidEntity)
}

func testCreateIfAbsent(t *testing.T, h Harness) {
	db, _, progress := h.Open(t)
	ctx := context.Background()

	itemID := testdb.InsertItem(t, db, h.Dialect, "river", "река")

	record, err := domain.NewProgressRecord(itemID, time.Now())
	require.NoError(t, err)

	created, err := progress.CreateIfAbsent(ctx, record)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Positive(t, record.ID)

	second, err := domain.NewProgressRecord(itemID, time.Now())
	require.NoError(t, err)
	second.Score = 5
	created, err = progress.CreateIfAbsent(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := progress.GetByItemID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.Score, "second insert must not overwrite")

	orphan, err := domain.NewProgressRecord(itemID+500, time.Now())
	require.NoError(t, err)
	_, err = progress.CreateIfAbsent(ctx, orphan)
	assert.ErrorIs(t, err, store.ErrForeignKeyViolation)

	_, err = progress.GetByItemID(ctx, itemID+500)
	assert.ErrorIs(t, err, store.ErrProgressRecordNotFound)
}

func testUpsert(t *testing.T, h Harness) {
	db, _, progress := h.Open(t)
	ctx := context.Background()

	itemID := testdb.InsertItem(t, db, h.Dialect, "sun", "солнце")
	reviewed := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	saved, err := progress.Upsert(ctx, &domain.ProgressRecord{ItemID: itemID, Score: 2.5, LastReviewedAt: reviewed})
	require.NoError(t, err)
	assert.Equal(t, itemID, saved.ItemID)
	assert.Equal(t, 2.5, saved.Score)
	assert.True(t, saved.LastReviewedAt.Equal(reviewed))

	later := reviewed.Add(time.Hour)
	updated, err := progress.Upsert(ctx, &domain.ProgressRecord{ItemID: itemID, Score: 4, LastReviewedAt: later})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, 4.0, updated.Score)
	assert.True(t, updated.LastReviewedAt.Equal(later))

	_, err = progress.Upsert(ctx, &domain.ProgressRecord{ItemID: itemID, Score: -1, LastReviewedAt: later})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func testProgressQueries(t *testing.T, h Harness) {
	db, _, progress := h.Open(t)
	ctx := context.Background()

	scores := []float64{0, 3, 6.99, 7, 8.5, 10, 12}
	ids := make([]int64, len(scores))
	for i, score := range scores {
		itemID := testdb.InsertItem(t, db, h.Dialect, string(rune('a'+i))+"word", "x")
		ids[i] = itemID
		testdb.InsertProgress(t, db, h.Dialect, itemID, score)
	}

	below, err := progress.ListScoreBelow(ctx, 7)
	require.NoError(t, err)
	require.Len(t, below, 3)
	assert.Equal(t, ids[:3], []int64{below[0].ItemID, below[1].ItemID, below[2].ItemID})

	countBelow, err := progress.CountScoreBelow(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, countBelow)

	learned, err := progress.CountScoreAtLeast(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, learned)
}

func testCascadeDelete(t *testing.T, h Harness) {
	db, _, progress := h.Open(t)
	ctx := context.Background()

	itemID := testdb.InsertItem(t, db, h.Dialect, "moon", "луна")
	testdb.InsertProgress(t, db, h.Dialect, itemID, 1)

	testdb.DeleteItem(t, db, h.Dialect, itemID)

	_, err := progress.GetByItemID(ctx, itemID)
	assert.ErrorIs(t, err, store.ErrProgressRecordNotFound)
}

func testProgressInTransaction(t *testing.T, h Harness) {
	db, _, progress := h.Open(t)
	ctx := context.Background()

	itemID := testdb.InsertItem(t, db, h.Dialect, "star", "звезда")
	testdb.InsertProgress(t, db, h.Dialect, itemID, 1)

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := progress.WithTx(tx)
		record, err := txProgress.GetByItemIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		record.Score = 9
		_, err = txProgress.Upsert(ctx, record)
		return err
	})
	require.NoError(t, err)

	stored, err := progress.GetByItemID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, stored.Score)

	// A failing function rolls back.
	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := progress.WithTx(tx).Upsert(ctx, &domain.ProgressRecord{
			ItemID: itemID, Score: 1, LastReviewedAt: time.Now(),
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	stored, err = progress.GetByItemID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, stored.Score)
}

func testConcurrentCreateIfAbsent(t *testing.T, h Harness) {
	db, _, progress := h.Open(t)
	ctx := context.Background()

	itemID := testdb.InsertItem(t, db, h.Dialect, "cloud", "облако")

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := domain.NewProgressRecord(itemID, time.Now())
			if !assert.NoError(t, err) {
				return
			}
			ok, err := progress.CreateIfAbsent(ctx, record)
			if !assert.NoError(t, err) {
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)

	count, err := progress.CountScoreBelow(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func itemIDs(items []*domain.VocabularyItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
