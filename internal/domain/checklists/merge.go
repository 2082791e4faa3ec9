package checklists

import (
	"math"
	"sort"

	"packlist-go/internal/domain/templates"
)

// CustomOrderOffset places custom items after every template item.
const CustomOrderOffset = 10000

const (
	CustomCategory   = "自定义"
	CustomCategoryEn = "Custom"
)

// MergeItems builds the effective item list of one checklist: template items
// whose state is not soft-deleted followed by the custom items.
func MergeItems(templateItems []templates.Item, states []ItemState, customItems []CustomItem) []Item {
	stateByItem := make(map[string]ItemState, len(states))
	for _, state := range states {
		stateByItem[state.ItemID] = state
	}

	result := make([]Item, 0, len(templateItems)+len(customItems))
	for _, tplItem := range templateItems {
		state, ok := stateByItem[tplItem.ID]
		if ok && state.Deleted {
			continue
		}
		result = append(result, templateItemView(tplItem, state))
	}
	for _, custom := range customItems {
		result = append(result, customItemView(custom))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OrderIndex < result[j].OrderIndex
	})
	return result
}

func ComputeProgress(items []Item) Progress {
	progress := Progress{Total: len(items)}
	for _, item := range items {
		if item.Checked {
			progress.Checked++
		}
	}
	if progress.Total > 0 {
		progress.Percentage = int(math.Round(float64(progress.Checked) / float64(progress.Total) * 100))
		// Plain rounding reports 100 at 199/200; 100 stays reserved for a fully
		// checked list so it always agrees with completedAt.
		if progress.Percentage == 100 && progress.Checked < progress.Total {
			progress.Percentage = 99
		}
	}
	return progress
}

// Complete reports whether the effective set is non-empty and fully checked.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Checked == p.Total
}

func templateItemView(item templates.Item, state ItemState) Item {
	return Item{
		ID:         item.ID,
		Name:       item.Name,
		NameEn:     item.NameEn,
		Category:   item.Category,
		CategoryEn: item.CategoryEn,
		OrderIndex: item.OrderIndex,
		Checked:    state.Checked,
		CheckedAt:  state.CheckedAt,
	}
}

func customItemView(item CustomItem) Item {
	category, categoryEn := item.Category, item.CategoryEn
	if category == nil {
		value := CustomCategory
		category = &value
	}
	if categoryEn == nil {
		value := CustomCategoryEn
		categoryEn = &value
	}

	return Item{
		ID:         item.ID,
		Name:       item.Name,
		NameEn:     item.NameEn,
		Category:   category,
		CategoryEn: categoryEn,
		OrderIndex: item.OrderIndex + CustomOrderOffset,
		Checked:    item.Checked,
		CheckedAt:  item.CheckedAt,
		IsCustom:   true,
	}
}
