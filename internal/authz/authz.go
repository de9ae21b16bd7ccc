// Package authz holds the single access-control decision function. It does
// no I/O: callers resolve the identity and the target resource's metadata
// first, then ask for a verdict.
package authz

import (
	"github.com/vidvault/vidvault/internal/model"
)

type Operation string

const (
	OpView       Operation = "view"
	OpDownload   Operation = "download"
	OpEdit       Operation = "edit"
	OpDelete     Operation = "delete"
	OpAdminister Operation = "administer"
)

// Subject is the acting identity, reduced to the fields the rules need.
type Subject struct {
	UserID    string
	CompanyID *string
	Role      model.Role
}

// Resource is the target's ownership and tenant metadata. For
// company-scoped operations OwnerID is empty and CompanyID names the
// company being acted on.
type Resource struct {
	OwnerID   string
	CompanyID *string
}

type Decision struct {
	Allowed bool
	Reason  string
}

const ReasonInsufficientPrivilege = "insufficient privilege"

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func SubjectFromUser(u *model.User) Subject {
	return Subject{UserID: u.ID, CompanyID: u.CompanyID, Role: u.Role}
}

// Decide evaluates the rules in order, first match wins:
//
//  1. Admins may do anything. (Deleting the admin's own company is blocked
//     by the tenant directory, not here.)
//  2. View/download require subject and resource to share a company.
//     Ownership alone is not enough, and a missing company on either side
//     denies.
//  3. Edit/delete require strict ownership. Company co-membership is not
//     enough.
//  4. Company-scoped administration requires membership in that company.
//  5. Everything else is denied.
func Decide(sub Subject, op Operation, res Resource) Decision {
	if sub.Role == model.RoleAdmin {
		return allow()
	}

	switch op {
	case OpView, OpDownload:
		if sameCompany(sub.CompanyID, res.CompanyID) {
			return allow()
		}
		return deny(ReasonInsufficientPrivilege)

	case OpEdit, OpDelete:
		if res.OwnerID != "" && sub.UserID == res.OwnerID {
			return allow()
		}
		return deny(ReasonInsufficientPrivilege)

	case OpAdminister:
		if sameCompany(sub.CompanyID, res.CompanyID) {
			return allow()
		}
		return deny(ReasonInsufficientPrivilege)
	}

	return deny(ReasonInsufficientPrivilege)
}

func sameCompany(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
