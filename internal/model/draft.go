package model

import "time"

// PlannedMove is one step of a guided apply: take an app from where it is
// and drop it where the plan wants it.
type PlannedMove struct {
	AppID       string `json:"appId"`
	DisplayName string `json:"displayName,omitempty"`
	From        Slot   `json:"from"`
	To          Slot   `json:"to"`
	Done        bool   `json:"done"`
}

// GuidedApplyDraft is an in-progress application of a layout plan. It holds
// the ordered move list and a cursor so the user can resume a half-finished
// rearrangement.
type GuidedApplyDraft struct {
	ID        string        `json:"id"`
	PlanID    string        `json:"planId,omitempty"`
	Moves     []PlannedMove `json:"moves"`
	Cursor    int           `json:"cursor"`
	CreatedAt time.Time     `json:"createdAt,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt,omitempty"`
}

// Remaining returns how many moves are not yet done.
func (d GuidedApplyDraft) Remaining() int {
	n := 0
	for _, m := range d.Moves {
		if !m.Done {
			n++
		}
	}
	return n
}

// Complete reports whether every move has been applied.
func (d GuidedApplyDraft) Complete() bool {
	return d.Remaining() == 0
}
