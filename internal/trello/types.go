package trello

// Types in this file mirror the subset of Trello's REST payloads the
// server exposes. Field names follow Trello's JSON exactly; omitted
// fields are simply not decoded.

// Board is a top-level container of lists and cards.
type Board struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Closed bool   `json:"closed"`
	URL    string `json:"url"`
}

// List is a column within a board.
type List struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Closed  bool    `json:"closed"`
	IDBoard string  `json:"idBoard"`
	Pos     float64 `json:"pos"`
}

// Label is a tag assignable to cards.
type Label struct {
	ID      string `json:"id"`
	IDBoard string `json:"idBoard"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

// Card is the primary unit of work; it belongs to exactly one list.
type Card struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Desc     string   `json:"desc"`
	IDList   string   `json:"idList"`
	IDBoard  string   `json:"idBoard"`
	IDLabels []string `json:"idLabels"`
	Labels   []Label  `json:"labels"`
	Closed   bool     `json:"closed"`
	Due      string   `json:"due"`
	URL      string   `json:"url"`
	Pos      float64  `json:"pos"`
}

// ActionCard identifies the card an action refers to.
type ActionCard struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActionData carries the type-specific payload of an action.
type ActionData struct {
	Text string     `json:"text"`
	Card ActionCard `json:"card"`
}

// ActionMember identifies who performed an action.
type ActionMember struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// Action is one entry in a board's reverse-chronological activity feed.
// Action ids embed a creation timestamp in their leading bytes, so ids
// of the same length compare chronologically as plain strings.
type Action struct {
	ID            string       `json:"id"`
	Type          string       `json:"type"`
	Date          string       `json:"date"`
	Data          ActionData   `json:"data"`
	MemberCreator ActionMember `json:"memberCreator"`
}

// ActionCommentCard is the action type Trello uses for card comments.
const ActionCommentCard = "commentCard"

// Attachment is a file or link attached to a card.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Bytes    int64  `json:"bytes"`
	Date     string `json:"date"`
	MimeType string `json:"mimeType"`
	IsUpload bool   `json:"isUpload"`
}

// CardFields holds the mutable card attributes update_card accepts.
// Empty fields are left untouched on the card.
type CardFields struct {
	Name string
	Desc string
	Due  string
}
