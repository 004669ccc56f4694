package models

import (
	"errors"
	"time"
)

// ErrReplyDepthExceeded is returned when a reply targets a comment that is
// itself already a reply. Comment trees are at most two levels deep; this
// is a property of the data model, not a presentation rule.
var ErrReplyDepthExceeded = errors.New("replies to sub-level comments are not allowed")

// CommentNode is one comment in a record's two-level thread.
//
// Exactly one of ParentRecordID and ParentCommentID is set. A node whose
// parent is a record is top-level; a node whose parent is a comment is
// sub-level. RootRecordID always names the record the node ultimately
// belongs to, so sub-replies can be traced back without walking parents.
type CommentNode struct {
	ID              string    `json:"id"`
	Author          string    `json:"author"`
	Text            string    `json:"text"`
	ParentRecordID  string    `json:"parentRecordId,omitempty"`
	ParentCommentID string    `json:"parentCommentId,omitempty"`
	RootRecordID    string    `json:"rootRecordId"`
	PostedAt        time.Time `json:"postedAt"`
	SubReplyCount   int       `json:"subReplyCount"`
}

// NewTopLevelComment creates a comment whose parent is a mood record.
func NewTopLevelComment(record *MoodRecord, author, text string) *CommentNode {
	return &CommentNode{
		Author:         author,
		Text:           text,
		ParentRecordID: record.ID,
		RootRecordID:   record.ID,
		PostedAt:       time.Now(),
	}
}

// NewSubReply creates a comment whose parent is a top-level comment. It
// fails with ErrReplyDepthExceeded when the parent is itself a sub-level
// node, enforcing the depth invariant at construction.
func NewSubReply(parent *CommentNode, author, text string) (*CommentNode, error) {
	if !parent.IsTopLevel() {
		return nil, ErrReplyDepthExceeded
	}
	return &CommentNode{
		Author:          author,
		Text:            text,
		ParentCommentID: parent.ID,
		RootRecordID:    parent.RootRecordID,
		PostedAt:        time.Now(),
	}, nil
}

// IsTopLevel reports whether the node's parent is a mood record.
func (c *CommentNode) IsTopLevel() bool {
	return c.ParentRecordID != "" && c.ParentCommentID == ""
}
