package domain

// Label is a tag applied to conversations.
type Label struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Color             string `json:"color"`
	Description       string `json:"description,omitempty"`
	ConversationCount int    `json:"conversation_count"`
}

// EntityID implements the store entity contract.
func (l Label) EntityID() string { return l.ID }

// LabelPatch carries the fields a label_updated push may change.
type LabelPatch struct {
	ID                string  `json:"id"`
	Name              *string `json:"name,omitempty"`
	Color             *string `json:"color,omitempty"`
	Description       *string `json:"description,omitempty"`
	ConversationCount *int    `json:"conversation_count,omitempty"`
}

// Apply merges the patch into the label.
func (p LabelPatch) Apply(l *Label) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.ConversationCount != nil {
		l.ConversationCount = *p.ConversationCount
	}
}
