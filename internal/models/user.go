package models

import (
	"slices"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TotalPoints  int       `json:"totalPoints"`
	Level        int       `json:"level"`
	CurrentXP    int       `json:"currentXP"`
	Badges       []string  `json:"badges"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserPatch carries the fields of a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Username    *string   `json:"username,omitempty"`
	Email       *string   `json:"email,omitempty"`
	TotalPoints *int      `json:"totalPoints,omitempty"`
	Level       *int      `json:"level,omitempty"`
	CurrentXP   *int      `json:"currentXP,omitempty"`
	Badges      *[]string `json:"badges,omitempty"`
}

// Clone returns a copy that shares no mutable state with u.
func (u User) Clone() User {
	u.Badges = slices.Clone(u.Badges)
	if u.Badges == nil {
		u.Badges = []string{}
	}
	return u
}

// HasBadge reports whether the user holds the badge.
func (u User) HasBadge(badge string) bool {
	return slices.Contains(u.Badges, badge)
}

func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.TotalPoints != nil {
		u.TotalPoints = *p.TotalPoints
	}
	if p.Level != nil {
		u.Level = *p.Level
	}
	if p.CurrentXP != nil {
		u.CurrentXP = *p.CurrentXP
	}
	if p.Badges != nil {
		u.Badges = NormalizeBadges(*p.Badges)
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p == UserPatch{}
}

// NormalizeBadges returns the badge set sorted and without duplicates.
func NormalizeBadges(badges []string) []string {
	out := slices.Clone(badges)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out
}
