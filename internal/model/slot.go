package model

// SlotType distinguishes what kind of location a Slot addresses.
type SlotType string

const (
	// SlotTypeApp is a regular cell inside the paged app grid.
	SlotTypeApp SlotType = "app"
	// SlotTypeDock is a cell in the always-visible dock; only Column is
	// meaningful, Row is fixed at 0.
	SlotTypeDock SlotType = "dock"
	// SlotTypeFolder is a cell occupied by a folder.
	SlotTypeFolder SlotType = "folder"
	// SlotTypeWidgetLocked is a cell excluded from placement because a
	// widget is inferred to cover it.
	SlotTypeWidgetLocked SlotType = "widgetLocked"
	// SlotTypeHolding is a staging location used while a guided apply is
	// in progress.
	SlotTypeHolding SlotType = "holding"
)

// slotTypeOrder defines the canonical sort order for slot types in mapper
// output.
var slotTypeOrder = map[SlotType]int{
	SlotTypeApp:          0,
	SlotTypeDock:         1,
	SlotTypeFolder:       2,
	SlotTypeWidgetLocked: 3,
	SlotTypeHolding:      4,
}

// Slot is the unique addressable location of one app or one widget-locked
// cell on the home screen. Equality is structural over all four fields, so
// Slot values are usable directly as map keys.
type Slot struct {
	Type   SlotType `json:"type"`
	Page   int      `json:"page"`
	Row    int      `json:"row"`
	Column int      `json:"column"`
}

// TypeRank returns the slot type's position in the canonical output order.
// Unknown types sort last.
func (s Slot) TypeRank() int {
	if r, ok := slotTypeOrder[s.Type]; ok {
		return r
	}
	return len(slotTypeOrder)
}

// Less imposes the canonical output ordering: page, then slot type, then
// row, then column.
func (s Slot) Less(o Slot) bool {
	if s.Page != o.Page {
		return s.Page < o.Page
	}
	if s.TypeRank() != o.TypeRank() {
		return s.TypeRank() < o.TypeRank()
	}
	if s.Row != o.Row {
		return s.Row < o.Row
	}
	return s.Column < o.Column
}

// DetectedAppSlot is one resolved grid cell in a mapped home screen: the
// app label the mapper settled on for that cell, with the confidence of the
// winning OCR candidate.
type DetectedAppSlot struct {
	AppName    string  `json:"appName"`
	Confidence float64 `json:"confidence"`
	Slot       Slot    `json:"slot"`
	// Label geometry of the winning candidate, when the recognizer
	// reported one. Zero values mean unknown.
	LabelWidth  float64 `json:"labelWidth,omitempty"`
	LabelHeight float64 `json:"labelHeight,omitempty"`
}

// HomeScreenDetection is the grid mapper's full output for one screenshot
// page: the resolved app and dock slots plus the cells inferred to be
// covered by widgets.
type HomeScreenDetection struct {
	Page        int               `json:"page"`
	Rows        int               `json:"rows"`
	Columns     int               `json:"columns"`
	Apps        []DetectedAppSlot `json:"apps"`
	WidgetCells []Slot            `json:"widgetCells,omitempty"`
	Quality     ImportQuality     `json:"quality,omitempty"`
}
