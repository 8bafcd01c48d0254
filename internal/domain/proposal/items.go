package proposal

import (
	"fmt"
	"strings"
)

// ReplaceItems reconciles p.Items against inputs by identity. Inputs carrying
// an id the proposal owns keep that id; all others become new items with a
// zero id. Order is the position in inputs.
func ReplaceItems(p *Proposal, inputs []ItemInput) error {
	owned := make(map[int64]bool, len(p.Items))
	for _, item := range p.Items {
		owned[item.ID] = true
	}

	items := make([]Item, 0, len(inputs))
	seen := make(map[int64]bool, len(inputs))
	for i, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return NewValidationError(fmt.Sprintf("%s.%d.title", FieldItems, i), msgRequired)
		}

		item := Item{
			ProposalID:  p.ID,
			Title:       title,
			Description: in.Description,
			Order:       i,
		}
		if in.ID != nil && owned[*in.ID] && !seen[*in.ID] {
			item.ID = *in.ID
			seen[*in.ID] = true
		}
		items = append(items, item)
	}

	p.Items = items
	return nil
}

// ItemDiff is the set of writes that turns one item list into another.
type ItemDiff struct {
	Insert []Item
	Update []Item
	Delete []int64
}

func (d ItemDiff) Empty() bool {
	return len(d.Insert) == 0 && len(d.Update) == 0 && len(d.Delete) == 0
}

// DiffItems compares the stored items with the reconciled ones. Items with a
// zero id are inserts; known ids that changed are updates; stored ids missing
// from after are deletes.
func DiffItems(before, after []Item) ItemDiff {
	previous := make(map[int64]Item, len(before))
	for _, item := range before {
		previous[item.ID] = item
	}

	var diff ItemDiff
	kept := make(map[int64]bool, len(after))
	for _, item := range after {
		old, ok := previous[item.ID]
		if item.ID == 0 || !ok {
			diff.Insert = append(diff.Insert, item)
			continue
		}
		kept[item.ID] = true
		if old != item {
			diff.Update = append(diff.Update, item)
		}
	}

	for _, item := range before {
		if !kept[item.ID] {
			diff.Delete = append(diff.Delete, item.ID)
		}
	}

	return diff
}
