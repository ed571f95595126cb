package models

import "time"

// AccessLevel is a per-resource capability. Download is a superset of view.
type AccessLevel string

const (
	AccessView     AccessLevel = "view"
	AccessDownload AccessLevel = "download"
)

func (l AccessLevel) Valid() bool {
	return l == AccessView || l == AccessDownload
}

// Allows reports whether a grant at level l permits action.
func (l AccessLevel) Allows(action AccessLevel) bool {
	switch action {
	case AccessView:
		return l == AccessView || l == AccessDownload
	case AccessDownload:
		return l == AccessDownload
	}
	return false
}

type ResourceType string

const ResourceDocument ResourceType = "document"

// AccessControl grants one nominee access to one resource.
type AccessControl struct {
	NomineeID    string
	ResourceID   string
	ResourceType ResourceType
	AccessLevel  AccessLevel
	CreatedAt    time.Time
}

// ResolvedDocument pairs a disclosable document with the nominee's level.
type ResolvedDocument struct {
	Document    Document
	AccessLevel AccessLevel
}
