package ledger

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankentry-dev/bankentry/internal/model"
)

func TestDiff_EditWhileFiltered(t *testing.T) {
	// id 1 is hidden by the filter; the edited view holds ids 2 and 3
	// plus one new row.
	ds := Dataset{
		Records: []model.Record{
			rec(1, "2025/11/01", "Salary", "Salary", "2500"),
			rec(2, "2025/11/03", "Rent", "Housing", "-1200"),
			rec(3, "2025/11/05", "Groceries", "Food", "-90"),
		},
		NextID: 4,
	}

	edited := []model.Record{
		rec(2, "2025/11/03", "Rent", "Housing", "-1250"),
		rec(3, "2025/11/05", "Groceries", "Food", "-90"),
		rec(0, "2025/11/06", "Coffee", "Food", "-4.50"),
	}

	ch, err := Diff(ds, []int64{2, 3}, edited)
	require.NoError(t, err)

	require.Len(t, ch.Updates, 1, "only the changed row becomes an update")
	assert.Equal(t, int64(2), ch.Updates[0].ID)
	assert.True(t, ch.Updates[0].Amount.Equal(dec("-1250")))

	require.Len(t, ch.Creates, 1)
	assert.Equal(t, int64(0), ch.Creates[0].ID)
	assert.Equal(t, "Coffee", ch.Creates[0].Description)

	assert.Empty(t, ch.Deletes, "hidden id 1 is untouchable")
}

func TestDiff_NoChanges(t *testing.T) {
	ds := sampleDataset()
	visible := ids(ds.Records)

	ch, err := Diff(ds, visible, ds.Records)
	require.NoError(t, err)
	assert.True(t, ch.Empty())
}

func TestDiff_ReorderIsNotAChange(t *testing.T) {
	ds := sampleDataset()
	visible := ids(ds.Records)

	reversed := make([]model.Record, len(ds.Records))
	for i, r := range ds.Records {
		reversed[len(ds.Records)-1-i] = r
	}

	ch, err := Diff(ds, visible, reversed)
	require.NoError(t, err)
	assert.True(t, ch.Empty(), "identity matching ignores row order")
}

func TestDiff_AmountValueEquality(t *testing.T) {
	ds := Dataset{Records: []model.Record{rec(1, "2025/11/01", "Salary", "Salary", "2500.00")}, NextID: 2}

	edited := []model.Record{rec(1, "2025/11/01", "Salary", "Salary", "2500")}
	ch, err := Diff(ds, []int64{1}, edited)
	require.NoError(t, err)
	assert.True(t, ch.Empty(), "2500 and 2500.00 are the same amount")
}

func TestDiff_MissingVisibleRowIsDelete(t *testing.T) {
	ds := sampleDataset()

	// Rows 3 and 4 removed from the edited view; 5 was never visible.
	ch, err := Diff(ds, []int64{1, 2, 3, 4}, []model.Record{
		ds.Records[0],
		ds.Records[1],
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ch.Deletes)
	assert.Empty(t, ch.Updates)
	assert.Empty(t, ch.Creates)
}

func TestDiff_ConflictCollectsAllMissingIDs(t *testing.T) {
	ds := Dataset{
		Records: []model.Record{rec(1, "2025/11/01", "Salary", "Salary", "2500")},
		NextID:  10,
	}

	edited := []model.Record{
		rec(9, "2025/11/02", "Ghost", "", "1"),
		rec(1, "2025/11/01", "Salary", "Salary", "2500"),
		rec(7, "2025/11/03", "Ghost 2", "", "2"),
	}

	_, err := Diff(ds, []int64{1}, edited)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []int64{7, 9}, cerr.IDs, "all conflicts, sorted")
}

func TestDiff_StaleVisibleIDIsNoOp(t *testing.T) {
	// id 4 was visible when the view opened but has since been deleted.
	// Its absence from the edited rows matches the dataset, so nothing
	// needs to happen.
	ds := Dataset{
		Records: []model.Record{rec(1, "2025/11/01", "Salary", "Salary", "2500")},
		NextID:  5,
	}

	ch, err := Diff(ds, []int64{1, 4}, []model.Record{ds.Records[0]})
	require.NoError(t, err)
	assert.True(t, ch.Empty())
}

func TestDiff_IdentitySafety(t *testing.T) {
	// Randomized: whatever subset is visible and however the edited rows
	// are shuffled, deletes stay within the visible subset and updates
	// only cover rows that were actually modified.
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 3 + rng.Intn(20)
		ds := Dataset{NextID: int64(n + 1)}
		for i := 1; i <= n; i++ {
			ds.Records = append(ds.Records, rec(
				int64(i),
				fmt.Sprintf("2025/11/%02d", 1+rng.Intn(28)),
				fmt.Sprintf("txn %d", i),
				"Misc",
				fmt.Sprintf("%d.%02d", rng.Intn(200)-100, rng.Intn(100)),
			))
		}

		visibleSet := make(map[int64]bool)
		var visible []int64
		for _, r := range ds.Records {
			if rng.Intn(2) == 0 {
				visible = append(visible, r.ID)
				visibleSet[r.ID] = true
			}
		}

		var edited []model.Record
		modified := make(map[int64]bool)
		dropped := make(map[int64]bool)
		for _, r := range ds.Records {
			if !visibleSet[r.ID] {
				continue
			}
			switch rng.Intn(3) {
			case 0: // keep untouched
				edited = append(edited, r)
			case 1: // modify
				r.Description += " (edited)"
				modified[r.ID] = true
				edited = append(edited, r)
			case 2: // drop = delete
				dropped[r.ID] = true
			}
		}
		creates := rng.Intn(3)
		for i := 0; i < creates; i++ {
			edited = append(edited, rec(0, "2025/12/01", "new row", "Misc", "1"))
		}
		rng.Shuffle(len(edited), func(i, j int) { edited[i], edited[j] = edited[j], edited[i] })

		ch, err := Diff(ds, visible, edited)
		require.NoError(t, err, "trial %d", trial)

		assert.Len(t, ch.Creates, creates, "trial %d", trial)
		assert.Len(t, ch.Updates, len(modified), "trial %d", trial)
		for _, u := range ch.Updates {
			assert.True(t, modified[u.ID], "trial %d: unexpected update of id %d", trial, u.ID)
		}
		assert.Len(t, ch.Deletes, len(dropped), "trial %d", trial)
		for _, id := range ch.Deletes {
			assert.True(t, dropped[id], "trial %d: unexpected delete of id %d", trial, id)
			assert.True(t, visibleSet[id], "trial %d: delete outside visible subset", trial)
		}
	}
}
