package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64p(v int64) *int64 { return &v }

func TestTaskCanUpdate(t *testing.T) {
	const owner, assignee, reviewer, creator, stranger = int64(1), int64(2), int64(3), int64(4), int64(9)
	task := Task{AssigneeID: int64p(assignee), ReviewerID: int64p(reviewer), CreatedBy: int64p(creator)}

	assert.True(t, task.canUpdate(owner, owner), "board owner may update")
	assert.True(t, task.canUpdate(owner, assignee), "assignee may update")
	assert.True(t, task.canUpdate(owner, reviewer), "reviewer may update")
	assert.False(t, task.canUpdate(owner, creator), "creator alone may not update")
	assert.False(t, task.canUpdate(owner, stranger))
}

func TestTaskCanUpdate_NoAssigneeOrReviewer(t *testing.T) {
	task := Task{}
	assert.True(t, task.canUpdate(1, 1))
	assert.False(t, task.canUpdate(1, 2))
}

func TestTaskCanDelete(t *testing.T) {
	const owner, assignee, reviewer, creator, stranger = int64(1), int64(2), int64(3), int64(4), int64(9)
	task := Task{AssigneeID: int64p(assignee), ReviewerID: int64p(reviewer), CreatedBy: int64p(creator)}

	assert.True(t, task.canDelete(owner, owner), "board owner may delete")
	assert.True(t, task.canDelete(owner, creator), "creator may delete")
	assert.False(t, task.canDelete(owner, assignee), "assignee may not delete")
	assert.False(t, task.canDelete(owner, reviewer), "reviewer may not delete")
	assert.False(t, task.canDelete(owner, stranger))
}

func TestTaskCanDelete_NilCreator(t *testing.T) {
	task := Task{}
	assert.True(t, task.canDelete(1, 1))
	assert.False(t, task.canDelete(1, 2))
}

func TestActivityCanDelete(t *testing.T) {
	const author, boardOwner, stranger = int64(2), int64(1), int64(9)
	c := Activity{AuthorID: int64p(author)}

	assert.True(t, c.canDelete(author), "author may delete")
	assert.False(t, c.canDelete(boardOwner), "board owner may not delete someone else's comment")
	assert.False(t, c.canDelete(stranger))
}

func TestActivityCanDelete_NilAuthor(t *testing.T) {
	c := Activity{}
	assert.False(t, c.canDelete(1), "orphaned comments belong to no one")
}

func TestUserFullnameFallsBackToUsername(t *testing.T) {
	u := User{Username: "ada", FirstName: "", LastName: ""}
	assert.Equal(t, "ada", u.Fullname())

	u = User{Username: "ada", FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", u.Fullname())
}

func TestUserSummary(t *testing.T) {
	u := User{ID: 7, Email: "ada@example.com", Username: "ada", FirstName: "Ada"}
	s := u.Summary()
	assert.Equal(t, int64(7), s.ID)
	assert.Equal(t, "ada@example.com", s.Email)
	assert.Equal(t, "Ada", s.Fullname)
}
