package policy

import "context"

// Ownable is implemented by models that have an owning user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy permits an action only when the acting user owns the
// resource. Works with any model implementing Ownable.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can checks if the user owns the resource. For list/create there is no
// specific resource, so it returns true; route-level auth already applies.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		// Resources without an owner cannot pass an ownership check.
		return false
	}
	return ownable.GetUserID() == userID
}

// AdminBypassPolicy wraps another policy and always allows admins.
// Used for student records, which admins may manage on behalf of owners.
type AdminBypassPolicy struct {
	inner       Policy
	isAdminFunc func(ctx context.Context, userID uint) bool
}

func NewAdminBypassPolicy(inner Policy, isAdminFunc func(ctx context.Context, userID uint) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner, isAdminFunc: isAdminFunc}
}

func (p *AdminBypassPolicy) Can(ctx context.Context, userID uint, action Action, resource any) bool {
	if p.isAdminFunc(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}

// OpenReadPolicy allows any authenticated user to view, list or download;
// mutations fall through to the inner policy. Documents use this: anyone
// logged in may read or download, only the owner may change or delete.
type OpenReadPolicy struct {
	inner Policy
}

func NewOpenReadPolicy(inner Policy) *OpenReadPolicy {
	return &OpenReadPolicy{inner: inner}
}

func (p *OpenReadPolicy) Can(ctx context.Context, userID uint, action Action, resource any) bool {
	switch action {
	case ActionView, ActionList, ActionDownload:
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}
