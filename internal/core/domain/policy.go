package domain

import "time"

// minManagerTenureMonths is how long an actor must have held their account
// before they may touch another UserManager's record.
const minManagerTenureMonths = 6

// Tenure returns the whole months elapsed between the account's tracked
// timestamp and now, truncated toward zero. Never negative.
func Tenure(account *Account, now time.Time) int {
	months := (now.Year()-account.CreatedAt.Year())*12 + int(now.Month()) - int(account.CreatedAt.Month())
	if now.Day() < account.CreatedAt.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// CanMutate decides whether actor may update or delete target at the given
// instant. The rule is the same for update and delete:
//
//	Admin targets are untouchable.
//	UserManager targets require the actor to have at least six months' tenure.
//	Regular targets are always fair game.
//
// Tenure is measured on the actor, not the target, and the actor's own role
// plays no part here: the caller-level gate has already restricted who can
// reach a mutation at all.
func CanMutate(actor, target *Account, now time.Time) bool {
	switch target.Role {
	case RoleAdmin:
		return false
	case RoleUserManager:
		return Tenure(actor, now) >= minManagerTenureMonths
	default:
		return true
	}
}

// ResolvePasswordOnUpdate decides which digest an updated account keeps.
// An empty plaintext means "do not change the password". A plaintext whose
// digest matches the stored one is a no-op.
func ResolvePasswordOnUpdate(plaintext, existingDigest string, digest func(string) string) string {
	if plaintext == "" {
		return existingDigest
	}
	if d := digest(plaintext); d != existingDigest {
		return d
	}
	return existingDigest
}
