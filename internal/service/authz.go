package service

import (
	"Go_Stow/internal/apperr"

	"gorm.io/gorm"
)

// Owned is implemented by every user-owned resource.
type Owned interface {
	OwnerNo() uint64
}

// Owns reports whether principal owns r. A resource without a resolvable owner is owned by nobody.
func Owns(principal uint64, r Owned) bool {
	if principal == 0 || r == nil {
		return false
	}
	return r.OwnerNo() == principal
}

// requireSelf fails unless principal is the user named by the request path or body.
func requireSelf(principal, userNo uint64, detail string) error {
	if principal == 0 || principal != userNo {
		return apperr.Forbidden(detail)
	}
	return nil
}

// loadOwned loads the first row matched by scope, then checks ownership.
// A missing row is NotFound regardless of who asks; an existing foreign row is Forbidden.
func loadOwned[T any, PT interface {
	*T
	Owned
}](db *gorm.DB, principal uint64, scope func(*gorm.DB) *gorm.DB, notFound, forbidden string) (PT, error) {
	row := PT(new(T))
	if err := scope(db).First(row).Error; err != nil {
		return nil, dbErr(err, notFound)
	}
	if !Owns(principal, row) {
		return nil, apperr.Forbidden(forbidden)
	}
	return row, nil
}
