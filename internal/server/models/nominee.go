package models

import "time"

type Relation string

const (
	RelationSpouse  Relation = "spouse"
	RelationChild   Relation = "child"
	RelationParent  Relation = "parent"
	RelationSibling Relation = "sibling"
	RelationFriend  Relation = "friend"
	RelationOther   Relation = "other"
)

func (r Relation) Valid() bool {
	switch r {
	case RelationSpouse, RelationChild, RelationParent, RelationSibling, RelationFriend, RelationOther:
		return true
	}
	return false
}

type NomineeStatus string

const (
	NomineePending  NomineeStatus = "pending"
	NomineeVerified NomineeStatus = "verified"
)

// Nominee is a trusted contact of an account owner.
type Nominee struct {
	ID                string
	UserID            string
	FullName          string
	Relation          Relation
	Email             string
	Phone             string
	Status            NomineeStatus
	VerificationToken string
	VerifiedAt        *time.Time
	DeletedAt         *time.Time
	CreatedAt         time.Time
}

// CanAuthenticate reports whether the nominee may start an emergency-access flow.
func (n *Nominee) CanAuthenticate() bool {
	return n.Status == NomineeVerified && n.DeletedAt == nil
}
