package domain

// Project is a pure grouping label for tasks. Deleting a project does
// not clear Task.ProjectID on its members.
type Project struct {
	Record
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
}

// Workspace is a pure grouping label, structurally identical to Project
// but kept as its own collection.
type Workspace struct {
	Record
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
}
