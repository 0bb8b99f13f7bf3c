package dto

// ViewerState mirrors the navigator cursors the client holds between
// transitions.
type ViewerState struct {
	Open       bool   `json:"open"`
	ItemIndex  int    `json:"item_index"`
	ImageIndex int    `json:"image_index"`
	ViewMode   string `json:"view_mode"`
}

// ViewerTransitionRequest carries the current state plus the action to
// apply. Open uses TargetIndex; Query pins the filtered list the
// cursors run over.
type ViewerTransitionRequest struct {
	Query       string      `json:"query"`
	Action      string      `json:"action" validate:"required"`
	TargetIndex int         `json:"target_index"`
	State       ViewerState `json:"state"`
}

type ViewerView struct {
	State             ViewerState `json:"state"`
	ItemID            string      `json:"item_id,omitempty"`
	Title             string      `json:"title,omitempty"`
	Description       string      `json:"description,omitempty"`
	Author            string      `json:"author,omitempty"`
	Rating            int         `json:"rating,omitempty"`
	DisplaySrc        string      `json:"display_src,omitempty"`
	DisplayAlt        string      `json:"display_alt,omitempty"`
	PositionIndicator string      `json:"position_indicator,omitempty"`
	AttachmentCount   int         `json:"attachment_count"`
	ItemCount         int         `json:"item_count"`
}
