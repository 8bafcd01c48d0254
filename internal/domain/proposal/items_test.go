package proposal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestReplaceItems_ReconcilesByIdentity(t *testing.T) {
	p := &Proposal{
		ID: 7,
		Items: []Item{
			{ID: 1, ProposalID: 7, Title: "A", Order: 0},
			{ID: 2, ProposalID: 7, Title: "B", Order: 1},
		},
	}
	before := append([]Item(nil), p.Items...)

	err := ReplaceItems(p, []ItemInput{
		{ID: int64Ptr(2), Title: "B"},
		{Title: "C", Description: "new"},
	})
	require.NoError(t, err)

	require.Len(t, p.Items, 2)
	assert.Equal(t, int64(2), p.Items[0].ID)
	assert.Equal(t, 0, p.Items[0].Order)
	assert.Equal(t, int64(0), p.Items[1].ID)
	assert.Equal(t, "C", p.Items[1].Title)
	assert.Equal(t, 1, p.Items[1].Order)
	assert.Equal(t, int64(7), p.Items[1].ProposalID)

	diff := DiffItems(before, p.Items)
	assert.Equal(t, []int64{1}, diff.Delete)
	require.Len(t, diff.Update, 1)
	assert.Equal(t, int64(2), diff.Update[0].ID)
	require.Len(t, diff.Insert, 1)
	assert.Equal(t, "C", diff.Insert[0].Title)
}

func TestReplaceItems_ForeignIDIsInserted(t *testing.T) {
	p := &Proposal{ID: 1, Items: []Item{{ID: 10, ProposalID: 1, Title: "A"}}}

	require.NoError(t, ReplaceItems(p, []ItemInput{{ID: int64Ptr(99), Title: "X"}}))

	assert.Equal(t, int64(0), p.Items[0].ID)
	diff := DiffItems([]Item{{ID: 10, ProposalID: 1, Title: "A"}}, p.Items)
	assert.Len(t, diff.Insert, 1)
	assert.Equal(t, []int64{10}, diff.Delete)
}

func TestReplaceItems_DuplicateIDKeepsFirst(t *testing.T) {
	p := &Proposal{ID: 1, Items: []Item{{ID: 3, ProposalID: 1, Title: "A"}}}

	require.NoError(t, ReplaceItems(p, []ItemInput{
		{ID: int64Ptr(3), Title: "A"},
		{ID: int64Ptr(3), Title: "A copy"},
	}))

	assert.Equal(t, int64(3), p.Items[0].ID)
	assert.Equal(t, int64(0), p.Items[1].ID)
}

func TestReplaceItems_TitleRequired(t *testing.T) {
	p := &Proposal{ID: 1}

	err := ReplaceItems(p, []ItemInput{{Title: "ok"}, {Title: "  "}})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "items.1.title", verr.Field)
	assert.Empty(t, p.Items)
}

func TestDiffItems_UnchangedIsEmpty(t *testing.T) {
	items := []Item{{ID: 1, ProposalID: 1, Title: "A", Order: 0}}

	assert.True(t, DiffItems(items, items).Empty())
}
