package domain

import "time"

// User is a persisted account, created either by local signup or by the
// first Google sign-in for a previously-unseen email.
//
// Invariant: PasswordHash is non-empty XOR GoogleAuth is true. A federated
// account never authenticates by password compare, and a local account is
// never treated as pre-verified by Google.
type User struct {
	ID           string
	Fullname     string
	Username     string // unique handle derived from the email local part
	Email        string // globally unique
	PasswordHash string // argon2id encoded; empty for federated accounts
	GoogleAuth   bool
	ProfileImg   string

	// Aggregate counters maintained by blog authoring, never by auth.
	TotalPosts int64
	TotalReads int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public view of a User: what search and profile endpoints
// serialize. The password hash never leaves the store layer through it.
type Profile struct {
	Fullname   string `json:"fullname"`
	Username   string `json:"username"`
	ProfileImg string `json:"profile_img"`
	TotalPosts int64  `json:"total_posts"`
	TotalReads int64  `json:"total_reads"`
	JoinedAt   string `json:"joined_at"`
}

// PublicProfile projects u into its public view.
func (u User) PublicProfile() Profile {
	return Profile{
		Fullname:   u.Fullname,
		Username:   u.Username,
		ProfileImg: u.ProfileImg,
		TotalPosts: u.TotalPosts,
		TotalReads: u.TotalReads,
		JoinedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
