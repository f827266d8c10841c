package organization

import "errors"

var (
	ErrMissingName   = errors.New("organization name is required")
	ErrInvalidRole   = errors.New("role must be ADMIN or MEMBER")
	ErrOrgNotFound   = errors.New("organization not found")
	ErrMemberNotFound = errors.New("member not found")

	ErrMainOrgExists  = errors.New("main organization already exists")
	ErrMainOrgMissing = errors.New("main organization does not exist")
	ErrAlreadyMember  = errors.New("user is already a member of this organization")
	ErrLastAdminRemoval  = errors.New("cannot remove the last admin from the organization")
	ErrLastAdminDemotion = errors.New("cannot demote the last admin from the organization")
	ErrHasChildOrgs      = errors.New("cannot delete main organization while child organizations exist")

	ErrNotMainOrgAdmin     = errors.New("only main organization admins can create child organizations")
	ErrCannotDeleteMainOrg = errors.New("only main organization admins can delete the main organization")
	ErrCannotAddMembers    = errors.New("you don't have permission to add members to this organization")
	ErrCannotManageMembers = errors.New("you don't have permission to manage members of this organization")
	ErrCannotDeleteOrg     = errors.New("you don't have permission to delete this organization")
)

// IsConflict reports whether err is a state conflict (duplicate main org,
// duplicate membership, last-admin guard, pending children).
func IsConflict(err error) bool {
	return errors.Is(err, ErrMainOrgExists) ||
		errors.Is(err, ErrAlreadyMember) ||
		errors.Is(err, ErrLastAdminRemoval) ||
		errors.Is(err, ErrLastAdminDemotion) ||
		errors.Is(err, ErrHasChildOrgs) ||
		errors.Is(err, ErrMainOrgMissing)
}

// IsForbidden reports whether err is a permission failure for an
// authenticated caller.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotMainOrgAdmin) ||
		errors.Is(err, ErrCannotDeleteMainOrg) ||
		errors.Is(err, ErrCannotAddMembers) ||
		errors.Is(err, ErrCannotManageMembers) ||
		errors.Is(err, ErrCannotDeleteOrg)
}

// IsNotFound reports whether err means the target record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrgNotFound) || errors.Is(err, ErrMemberNotFound)
}

// IsValidation reports whether err is a bad-request payload problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingName) || errors.Is(err, ErrInvalidRole)
}
